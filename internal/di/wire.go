//go:build wireinject
// +build wireinject

package di

import (
	"Paratoner/pkg/config"
	"Paratoner/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire generates the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		ProvideLogger,
		ProvideMetrics,

		// Domain state
		ProvideRegistry,
		ProvideLedger,
		ProvideCredentials,
		ProvideEventLog,

		// Delivery
		ProvideClients,
		ProvideDispatcher,
		ProvideIngestor,
		ProvideExport,

		// HTTP surface
		ProvideHandler,

		// Application server
		ProvideApp,
	)
	return &server.App{}, nil
}
