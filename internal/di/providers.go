package di

import (
	"fmt"

	"github.com/google/wire"

	"PortfolioPulse/internal/domain/repository"
	"PortfolioPulse/internal/handler/api"
	repoimpl "PortfolioPulse/internal/repository"
	"PortfolioPulse/internal/service/backend"
	"PortfolioPulse/internal/store"
	"PortfolioPulse/internal/usecase"
	"PortfolioPulse/pkg/cache"
	"PortfolioPulse/pkg/clickhouse"
	"PortfolioPulse/pkg/config"
	apphttp "PortfolioPulse/pkg/http"
	"PortfolioPulse/pkg/kafka"
	"PortfolioPulse/pkg/logger"
	"PortfolioPulse/pkg/metrics"
	"PortfolioPulse/pkg/server"
)

// ProviderSet assembles the full application graph.
var ProviderSet = wire.NewSet(
	ProvideLogger,
	ProvideMetrics,
	ProvideHTTPClient,
	ProvideFeed,
	ProvideCache,
	ProvideRecorder,
	ProvideStore,
	ProvideGateway,
	ProvideSyncOptions,
	ProvideSync,
	ProvideHub,
	ProvideHandler,
	ProvideServer,
	ProvideApp,
)

func ProvideLogger(cfg *config.Config) (*logger.Logger, error) {
	return logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
}

func ProvideMetrics() repository.Metrics {
	return metrics.New()
}

func ProvideHTTPClient(cfg *config.Config) *apphttp.Client {
	return apphttp.NewClient(apphttp.WithTimeout(cfg.Backend.RequestTimeout))
}

func ProvideFeed(cfg *config.Config, client *apphttp.Client, log *logger.Logger) repository.Feed {
	return backend.NewClient(cfg.Backend.BaseURL, client, log)
}

// ProvideCache returns a Redis-backed cache when one is configured and an
// in-process cache otherwise, so the last-known-good dataset survives a
// restart only with Redis.
func ProvideCache(cfg *config.Config, log *logger.Logger) (cache.Service, error) {
	if !cfg.Cache.Redis.Enabled {
		log.Info("using in-memory cache")
		return cache.NewMemoryCache(), nil
	}
	c, err := cache.NewRedisCache(
		cache.WithAddr(cfg.Cache.Redis.Host, cfg.Cache.Redis.Port),
		cache.WithCredentials(cfg.Cache.Redis.Password, cfg.Cache.Redis.DB),
		cache.WithPrefix(cfg.Cache.Redis.Prefix),
	)
	if err != nil {
		return nil, fmt.Errorf("redis cache: %w", err)
	}
	log.Info("using redis cache",
		logger.String("host", cfg.Cache.Redis.Host),
		logger.Int("port", cfg.Cache.Redis.Port))
	return c, nil
}

func ProvideRecorder(cfg *config.Config, log *logger.Logger) (repository.Recorder, error) {
	switch cfg.History.Backend {
	case "kafka":
		producer, err := kafka.NewProducer(
			kafka.WithBrokers(cfg.History.Kafka.Brokers),
			kafka.WithCompression(cfg.History.Kafka.Compression),
			kafka.WithRequiredAcks(cfg.History.Kafka.RequiredAcks),
		)
		if err != nil {
			return nil, fmt.Errorf("kafka recorder: %w", err)
		}
		topic := cfg.History.Kafka.Topic
		if topic == "" {
			topic = "portfoliopulse.snapshots"
		}
		return repoimpl.NewKafkaRecorder(producer, topic, log), nil
	case "clickhouse":
		client, err := clickhouse.NewClient(
			clickhouse.WithHost(cfg.History.ClickHouse.Host),
			clickhouse.WithPort(cfg.History.ClickHouse.Port),
			clickhouse.WithDatabase(cfg.History.ClickHouse.Database),
			clickhouse.WithCredentials(cfg.History.ClickHouse.User, cfg.History.ClickHouse.Password),
			clickhouse.WithTimeouts(
				cfg.History.ClickHouse.DialTimeout,
				cfg.History.ClickHouse.ReadTimeout,
				cfg.History.ClickHouse.WriteTimeout,
			),
		)
		if err != nil {
			return nil, fmt.Errorf("clickhouse recorder: %w", err)
		}
		return repoimpl.NewClickHouseRecorder(client, log), nil
	default:
		return repoimpl.NewNoopRecorder(), nil
	}
}

func ProvideStore() *store.SnapshotStore {
	return store.New()
}

func ProvideGateway(feed repository.Feed, m repository.Metrics, log *logger.Logger) usecase.Refresher {
	return usecase.NewGateway(feed, m, log)
}

func ProvideSyncOptions(cfg *config.Config) usecase.SyncOptions {
	return usecase.SyncOptions{
		DefaultModel:     cfg.Dashboard.DefaultModel,
		Models:           cfg.Dashboard.Models,
		LiveInterval:     cfg.Dashboard.Poll.LiveInterval,
		FallbackInterval: cfg.Dashboard.Poll.FallbackInterval,
		TradesLimit:      cfg.Backend.TradesLimit,
		CacheTTL:         cfg.Cache.Redis.TTL,
	}
}

func ProvideSync(
	refresher usecase.Refresher,
	snapStore *store.SnapshotStore,
	cacheSvc cache.Service,
	recorder repository.Recorder,
	m repository.Metrics,
	log *logger.Logger,
	opts usecase.SyncOptions,
) *usecase.Sync {
	return usecase.NewSync(refresher, snapStore, cacheSvc, recorder, m, log, opts)
}

func ProvideHub(log *logger.Logger) *api.Hub {
	return api.NewHub(log)
}

func ProvideHandler(snapStore *store.SnapshotStore, sync *usecase.Sync, hub *api.Hub, log *logger.Logger) apphttp.Handler {
	return api.NewDashboardHandler(snapStore, sync, hub, log)
}

func ProvideServer(cfg *config.Config, log *logger.Logger, handler apphttp.Handler) *apphttp.Server {
	return apphttp.NewServer(log, handler,
		apphttp.WithPort(cfg.Server.Port),
		apphttp.WithTimeouts(cfg.Server.ReadTimeout, cfg.Server.WriteTimeout, cfg.Server.ShutdownTimeout),
	)
}

func ProvideApp(
	cfg *config.Config,
	log *logger.Logger,
	sync *usecase.Sync,
	snapStore *store.SnapshotStore,
	hub *api.Hub,
	srv *apphttp.Server,
	recorder repository.Recorder,
	cacheSvc cache.Service,
) *server.App {
	return server.NewApp(cfg, log, sync, snapStore, hub, srv, recorder, cacheSvc)
}
