package repository

import (
	"context"
	"fmt"

	"PortfolioPulse/internal/domain/models"
	"PortfolioPulse/pkg/kafka"
	"PortfolioPulse/pkg/logger"
)

// KafkaRecorder streams committed snapshots to a Kafka topic, keyed by model
// so per-model ordering is preserved across partitions.
type KafkaRecorder struct {
	producer *kafka.Producer
	topic    string
	log      *logger.Logger
}

func NewKafkaRecorder(producer *kafka.Producer, topic string, log *logger.Logger) *KafkaRecorder {
	return &KafkaRecorder{producer: producer, topic: topic, log: log}
}

func (r *KafkaRecorder) Init(context.Context) error { return nil }

func (r *KafkaRecorder) RecordCycle(ctx context.Context, snap *models.Snapshot) error {
	if err := r.producer.Publish(ctx, r.topic, []byte(snap.Model), snap); err != nil {
		return fmt.Errorf("publish snapshot: %w", err)
	}
	r.log.Debug("snapshot published",
		logger.String("topic", r.topic),
		logger.String("model", snap.Model),
		logger.String("source", string(snap.Source)))
	return nil
}

func (r *KafkaRecorder) Close() error {
	return r.producer.Close()
}
