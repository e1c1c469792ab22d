package di

import (
	"net/http"

	"dreamspeak/application/ports"
	"dreamspeak/infrastructure/config"
	"dreamspeak/infrastructure/observability"

	"go.uber.org/zap"
)

// Container holds all application dependencies
type Container struct {
	Config        *config.Config
	Logger        *zap.Logger
	Store         ports.Store
	Policy        *config.PolicyStore
	PolicyWatcher *config.PolicyWatcher
	Metrics       *observability.Collector
	Tracer        *observability.TracerProvider
	Handler       http.Handler
}
