//go:build wireinject
// +build wireinject

package di

import (
	"github.com/google/wire"

	"PortfolioPulse/pkg/config"
	"PortfolioPulse/pkg/server"
)

// InitializeApp builds the application graph from configuration.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(ProviderSet)
	return nil, nil
}
