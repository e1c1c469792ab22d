package di

import (
	"context"
	"fmt"
	"net/http"

	"dreamspeak/application/ports"
	openaiai "dreamspeak/infrastructure/ai/openai"
	"dreamspeak/infrastructure/ai/resilience"
	"dreamspeak/infrastructure/ai/stub"
	"dreamspeak/infrastructure/config"
	"dreamspeak/infrastructure/observability"
	"dreamspeak/infrastructure/persistence/dynamodb"
	"dreamspeak/infrastructure/persistence/memory"
	"dreamspeak/interfaces/http/rest"
	"dreamspeak/interfaces/http/rest/handlers"
	"dreamspeak/pkg/auth"
	pkgerrors "dreamspeak/pkg/errors"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	awsdynamodb "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"go.uber.org/zap"
)

// ProvideLogger creates a new logger instance
func ProvideLogger(cfg *config.Config) (*zap.Logger, error) {
	var zapCfg zap.Config
	if cfg.IsProduction() {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
	}

	if cfg.LogLevel != "" {
		level, err := zap.ParseAtomicLevel(cfg.LogLevel)
		if err != nil {
			return nil, fmt.Errorf("invalid LOG_LEVEL: %w", err)
		}
		zapCfg.Level = level
	}

	return zapCfg.Build()
}

// ProvidePolicyStore loads the policy file, or the compiled-in defaults
func ProvidePolicyStore(cfg *config.Config, logger *zap.Logger) (*config.PolicyStore, error) {
	policy, err := config.LoadPolicy(cfg.PolicyFile)
	if err != nil {
		return nil, err
	}
	if cfg.PolicyFile != "" {
		logger.Info("Policy loaded", zap.String("file", cfg.PolicyFile))
	}
	return config.NewPolicyStore(policy), nil
}

// ProvidePolicyWatcher hot reloads the policy file in development. It returns nil
// when there is nothing to watch.
func ProvidePolicyWatcher(cfg *config.Config, store *config.PolicyStore, logger *zap.Logger) (*config.PolicyWatcher, func(), error) {
	if cfg.PolicyFile == "" || !cfg.IsDevelopment() {
		return nil, func() {}, nil
	}
	watcher, err := config.NewPolicyWatcher(cfg.PolicyFile, store, logger)
	if err != nil {
		return nil, nil, err
	}
	return watcher, watcher.Stop, nil
}

// ProvideAWSConfig creates AWS configuration
func ProvideAWSConfig(ctx context.Context, cfg *config.Config) (aws.Config, error) {
	return awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.AWSRegion),
	)
}

// ProvideStore selects the record store named by STORAGE_DRIVER
func ProvideStore(ctx context.Context, cfg *config.Config, logger *zap.Logger) (ports.Store, error) {
	switch cfg.StorageDriver {
	case config.StorageDynamoDB:
		awsCfg, err := ProvideAWSConfig(ctx, cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to load AWS config: %w", err)
		}
		store := dynamodb.NewStore(awsdynamodb.NewFromConfig(awsCfg), dynamodb.Config{
			TableName: cfg.DynamoDBTable,
			GSI1Name:  cfg.IndexName,
		}, logger)
		if err := store.SeedDefaultUser(ctx); err != nil {
			return nil, fmt.Errorf("failed to seed default user: %w", err)
		}
		logger.Info("Using DynamoDB record store",
			zap.String("table", cfg.DynamoDBTable),
			zap.String("region", cfg.AWSRegion),
		)
		return store, nil
	default:
		logger.Info("Using in-memory record store")
		return memory.NewStore(), nil
	}
}

// ProvideDreamRepository exposes the store's dream side
func ProvideDreamRepository(store ports.Store) ports.DreamRepository {
	return store
}

// ProvideChatRepository exposes the store's chat side
func ProvideChatRepository(store ports.Store) ports.ChatRepository {
	return store
}

// ProvidePinger exposes the store's health check to the router
func ProvidePinger(store ports.Store) rest.Pinger {
	return store
}

// ProvideCollector creates the Prometheus collector, or nil when metrics are off
func ProvideCollector(cfg *config.Config) *observability.Collector {
	if !cfg.EnableMetrics {
		return nil
	}
	return observability.NewCollector("dreamspeak")
}

// ProvideMetricsRecorder adapts the collector to the services' metrics port
func ProvideMetricsRecorder(collector *observability.Collector) ports.MetricsRecorder {
	if collector == nil {
		return ports.NopMetrics{}
	}
	return collector
}

// ProvideTracerProvider installs OTLP tracing when enabled
func ProvideTracerProvider(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*observability.TracerProvider, func(), error) {
	if !cfg.EnableTracing {
		return nil, func() {}, nil
	}
	tp, err := observability.InitTracing(ctx, observability.TracingConfig{
		ServiceName: "dreamspeak",
		Environment: cfg.Environment,
		Endpoint:    cfg.OTLPEndpoint,
	}, logger)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		if err := tp.Shutdown(context.Background()); err != nil {
			logger.Error("Failed to shut down tracer provider", zap.Error(err))
		}
	}
	return tp, cleanup, nil
}

// AIProviders pairs the text and image generators built from one configuration
type AIProviders struct {
	Text  ports.TextGenerator
	Image ports.ImageGenerator
}

// ProvideAIProviders builds OpenAI-backed generators, or the offline stubs when no
// API key is configured
func ProvideAIProviders(cfg *config.Config, logger *zap.Logger) (*AIProviders, error) {
	var providers AIProviders

	if cfg.OpenAIAPIKey == "" {
		logger.Warn("OPENAI_API_KEY not set, using offline stub generators")
		providers = AIProviders{
			Text:  stub.NewTextGenerator(),
			Image: stub.NewImageGenerator(""),
		}
	} else {
		client, err := openaiai.NewClient(openaiai.Config{
			APIKey:  cfg.OpenAIAPIKey,
			BaseURL: cfg.OpenAIBaseURL,
			Timeout: cfg.AITimeout,
		})
		if err != nil {
			return nil, err
		}
		providers = AIProviders{
			Text:  openaiai.NewTextGenerator(client, cfg.AnalysisModel, logger),
			Image: openaiai.NewImageGenerator(client, cfg.ImageModel, logger),
		}
	}

	if cfg.EnableCircuitBreaker {
		providers.Text = resilience.NewTextGenerator(providers.Text, resilience.DefaultBreakerConfig("analysis"), logger)
		providers.Image = resilience.NewImageGenerator(providers.Image, resilience.DefaultBreakerConfig("images"), logger)
	}

	return &providers, nil
}

// ProvideTextGenerator selects the text generator
func ProvideTextGenerator(p *AIProviders) ports.TextGenerator {
	return p.Text
}

// ProvideImageGenerator selects the image generator
func ProvideImageGenerator(p *AIProviders) ports.ImageGenerator {
	return p.Image
}

// ProvideJWTValidator builds the token validator, or nil when auth is disabled
func ProvideJWTValidator(cfg *config.Config) (*auth.JWTValidator, error) {
	if !cfg.AuthEnabled() {
		return nil, nil
	}
	return auth.NewJWTValidator(cfg.JWTSecret, cfg.JWTIssuer)
}

// ProvideErrorHandler creates the HTTP error handler; stack traces only in development
func ProvideErrorHandler(cfg *config.Config, logger *zap.Logger) *pkgerrors.ErrorHandler {
	return pkgerrors.NewErrorHandler(logger, cfg.IsDevelopment())
}

// ProvideUserResolver applies DEFAULT_USER_ID to requests without a user
func ProvideUserResolver(cfg *config.Config) handlers.UserResolver {
	return handlers.UserResolver{DefaultUserID: cfg.DefaultUserID}
}

// ProvideHandler builds the configured HTTP handler
func ProvideHandler(router *rest.Router) http.Handler {
	return router.Setup()
}
