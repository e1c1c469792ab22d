//go:build wireinject
// +build wireinject

package di

import (
	"context"

	"dreamspeak/application/services"
	"dreamspeak/infrastructure/config"
	"dreamspeak/interfaces/http/rest"
	"dreamspeak/interfaces/http/rest/handlers"

	"github.com/google/wire"
)

// InfrastructureSet provides storage, AI providers and observability
var InfrastructureSet = wire.NewSet(
	ProvideLogger,
	ProvidePolicyStore,
	ProvidePolicyWatcher,
	ProvideStore,
	ProvideDreamRepository,
	ProvideChatRepository,
	ProvidePinger,
	ProvideCollector,
	ProvideMetricsRecorder,
	ProvideTracerProvider,
	ProvideAIProviders,
	ProvideTextGenerator,
	ProvideImageGenerator,
)

// ServiceSet provides the application services
var ServiceSet = wire.NewSet(
	services.NewAnalysisService,
	services.NewImageService,
	services.NewDreamService,
	services.NewChatService,
	services.NewInsightsService,
)

// HTTPSet provides the handlers and router
var HTTPSet = wire.NewSet(
	ProvideJWTValidator,
	ProvideErrorHandler,
	ProvideUserResolver,
	handlers.NewDreamHandler,
	handlers.NewChatHandler,
	handlers.NewInsightsHandler,
	handlers.NewImageHandler,
	rest.NewRouter,
	ProvideHandler,
)

// SuperSet is the main provider set containing all providers
var SuperSet = wire.NewSet(
	InfrastructureSet,
	ServiceSet,
	HTTPSet,
	wire.Struct(new(Container), "*"),
)

// InitializeContainer creates a fully wired container. The cleanup function stops
// the policy watcher and flushes traces.
func InitializeContainer(ctx context.Context, cfg *config.Config) (*Container, func(), error) {
	wire.Build(SuperSet)
	return nil, nil, nil // Wire will replace this
}
