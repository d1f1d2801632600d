package bootstrap

import (
	"context"
	"fmt"
	"os"

	"github.com/google/wire"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"gitlab.com/orza-agritech/web/orza-sync/internal/adapters/config"
	"gitlab.com/orza-agritech/web/orza-sync/internal/adapters/cookies"
	"gitlab.com/orza-agritech/web/orza-sync/internal/adapters/httpclient"
	"gitlab.com/orza-agritech/web/orza-sync/internal/adapters/logger"
	"gitlab.com/orza-agritech/web/orza-sync/internal/adapters/memcache"
	"gitlab.com/orza-agritech/web/orza-sync/internal/adapters/orzaapi"
	appredis "gitlab.com/orza-agritech/web/orza-sync/internal/adapters/redis"
	"gitlab.com/orza-agritech/web/orza-sync/internal/application"
	"gitlab.com/orza-agritech/web/orza-sync/internal/domain"
)

// InitialZapLoggerProvider provides a basic *zap.Logger instance, primarily
// for config initialization before the configured adapter exists.
// It returns the logger, a cleanup function (for syncing), and an error if
// creation fails.
func InitialZapLoggerProvider() (*zap.Logger, func(), error) {
	zapLogger, err := zap.NewProduction()
	if err != nil {
		zapLogger, err = zap.NewDevelopment()
		if err != nil {
			zapLogger = zap.NewExample()
			fmt.Fprintf(os.Stderr, "Failed to create initial zap logger (production and development failed, falling back to example): %v\n", err)
		}
	}

	cleanup := func() {
		if syncErr := zapLogger.Sync(); syncErr != nil {
			fmt.Fprintf(os.Stderr, "Failed to sync initial zap logger: %v\n", syncErr)
		}
	}
	return zapLogger, cleanup, nil
}

// ConfigProvider provides the application configuration. appCtx is passed
// through so the reload goroutines stop with the application.
func ConfigProvider(appCtx context.Context, zapLogger *zap.Logger) (config.Provider, error) {
	return config.NewViperProvider(appCtx, zapLogger)
}

// LoggerProvider provides the application logger.
func LoggerProvider(cfgProvider config.Provider) (domain.Logger, error) {
	appCfg := cfgProvider.Get()
	return logger.NewZapAdapter(cfgProvider, appCfg.App.ServiceName)
}

// CookieJarProvider provides the cookie jar backing session and correlator
// storage.
func CookieJarProvider() *cookies.Jar {
	return cookies.NewJar()
}

// SessionStoreProvider provides the token cookie store.
func SessionStoreProvider(jar *cookies.Jar) domain.SessionStore {
	return cookies.NewSessionStore(jar)
}

// CorrelatorStoreProvider provides the OTP correlator cookie store.
func CorrelatorStoreProvider(jar *cookies.Jar) domain.CorrelatorStore {
	return cookies.NewCorrelatorStore(jar)
}

// CacheStoreProvider selects the cache backend. The in-memory store is the
// default; "redis" shares entries across processes through the configured
// server and fails fast when it is unreachable.
func CacheStoreProvider(cfgProvider config.Provider, appLogger domain.Logger) (domain.CacheStore, func(), error) {
	appCfg := cfgProvider.Get()
	if appCfg.Cache.Backend != "redis" {
		appLogger.Info(context.Background(), "Using in-memory cache store")
		return memcache.New(appLogger), func() {}, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     appCfg.Redis.Address,
		Password: appCfg.Redis.Password,
		DB:       appCfg.Redis.DB,
	})
	if _, err := client.Ping(context.Background()).Result(); err != nil {
		appLogger.Error(context.Background(), "Failed to connect to Redis", "error", err.Error(), "address", appCfg.Redis.Address)
		return nil, nil, fmt.Errorf("failed to connect to Redis at %s: %w", appCfg.Redis.Address, err)
	}
	cleanup := func() {
		client.Close()
		appLogger.Info(context.Background(), "Redis connection closed")
	}
	appLogger.Info(context.Background(), "Using Redis cache store", "address", appCfg.Redis.Address)
	return appredis.NewCacheAdapter(client, appLogger, appCfg.Redis.Prefix), cleanup, nil
}

// HTTPClientProvider provides the concrete transport client. The concrete
// type is exposed so NewApp can register the unauthorized hook after the auth
// service exists.
func HTTPClientProvider(cfgProvider config.Provider, session domain.SessionStore, appLogger domain.Logger) *httpclient.Client {
	return httpclient.New(cfgProvider, session, appLogger)
}

// TransportProvider narrows the transport client to the domain interface.
func TransportProvider(client *httpclient.Client) domain.Transport {
	return client
}

// APIProvider provides the resource clients.
func APIProvider(transport domain.Transport, appLogger domain.Logger) *orzaapi.API {
	return orzaapi.New(transport, appLogger)
}

// QueryEngineProvider provides the read orchestration engine.
func QueryEngineProvider(cache domain.CacheStore, appLogger domain.Logger) *application.QueryEngine {
	return application.NewQueryEngine(cache, appLogger)
}

// logNotifier surfaces user-facing feedback through the structured log. A UI
// embedding replaces it with its own toast implementation.
type logNotifier struct {
	logger domain.Logger
}

func (n logNotifier) Success(ctx context.Context, message string) {
	n.logger.Info(ctx, "Notification", "kind", "success", "message", message)
}

func (n logNotifier) Error(ctx context.Context, message string) {
	n.logger.Warn(ctx, "Notification", "kind", "error", "message", message)
}

// NotifierProvider provides the feedback sink for mutation outcomes.
func NotifierProvider(appLogger domain.Logger) domain.Notifier {
	return logNotifier{logger: appLogger}
}

// CatalogProvider provides the localized message catalog.
func CatalogProvider() domain.MessageCatalog {
	return domain.IndonesianCatalog{}
}

// MutationRunnerProvider provides the write orchestration runner.
func MutationRunnerProvider(engine *application.QueryEngine, notifier domain.Notifier, catalog domain.MessageCatalog, appLogger domain.Logger) *application.MutationRunner {
	return application.NewMutationRunner(engine, notifier, catalog, appLogger)
}

// AuthServiceProvider provides the auth service.
func AuthServiceProvider(
	appLogger domain.Logger,
	cfgProvider config.Provider,
	api *orzaapi.API,
	session domain.SessionStore,
	correlators domain.CorrelatorStore,
	engine *application.QueryEngine,
	runner *application.MutationRunner,
) *application.AuthService {
	return application.NewAuthService(appLogger, cfgProvider, api, session, correlators, engine, runner)
}

// ArticleServiceProvider provides the article service.
func ArticleServiceProvider(appLogger domain.Logger, cfgProvider config.Provider, api *orzaapi.API, session domain.SessionStore, engine *application.QueryEngine, runner *application.MutationRunner) *application.ArticleService {
	return application.NewArticleService(appLogger, cfgProvider, api, session, engine, runner)
}

// CommunityServiceProvider provides the community service.
func CommunityServiceProvider(appLogger domain.Logger, cfgProvider config.Provider, api *orzaapi.API, session domain.SessionStore, engine *application.QueryEngine, runner *application.MutationRunner) *application.CommunityService {
	return application.NewCommunityService(appLogger, cfgProvider, api, session, engine, runner)
}

// PostServiceProvider provides the post service.
func PostServiceProvider(appLogger domain.Logger, cfgProvider config.Provider, api *orzaapi.API, session domain.SessionStore, engine *application.QueryEngine, runner *application.MutationRunner) *application.PostService {
	return application.NewPostService(appLogger, cfgProvider, api, session, engine, runner)
}

// PredictionServiceProvider provides the prediction service.
func PredictionServiceProvider(appLogger domain.Logger, cfgProvider config.Provider, api *orzaapi.API, session domain.SessionStore, engine *application.QueryEngine, runner *application.MutationRunner) *application.PredictionService {
	return application.NewPredictionService(appLogger, cfgProvider, api, session, engine, runner)
}

// NotificationServiceProvider provides the notification service.
func NotificationServiceProvider(appLogger domain.Logger, cfgProvider config.Provider, api *orzaapi.API, session domain.SessionStore, engine *application.QueryEngine, runner *application.MutationRunner) *application.NotificationService {
	return application.NewNotificationService(appLogger, cfgProvider, api, session, engine, runner)
}

// UserServiceProvider provides the user profile service.
func UserServiceProvider(appLogger domain.Logger, cfgProvider config.Provider, api *orzaapi.API, session domain.SessionStore, engine *application.QueryEngine, runner *application.MutationRunner) *application.UserService {
	return application.NewUserService(appLogger, cfgProvider, api, session, engine, runner)
}

// ProductServiceProvider provides the product suggestion service.
func ProductServiceProvider(appLogger domain.Logger, cfgProvider config.Provider, api *orzaapi.API, engine *application.QueryEngine) *application.ProductService {
	return application.NewProductService(appLogger, cfgProvider, api, engine)
}

// App is the assembled sync engine: the query/mutation core plus every
// per-resource service, ready for a UI layer to embed or for cmd/orza-sync to
// run headless.
type App struct {
	configProvider config.Provider
	logger         domain.Logger
	transport      *httpclient.Client
	engine         *application.QueryEngine

	auth          *application.AuthService
	articles      *application.ArticleService
	communities   *application.CommunityService
	posts         *application.PostService
	predictions   *application.PredictionService
	notifications *application.NotificationService
	users         *application.UserService
	products      *application.ProductService
}

// NewApp is the constructor for App, also for Wire. It closes the 401 loop:
// the transport's unauthorized hook is registered here, after the auth
// service exists, because the transport is constructed before it.
func NewApp(
	cfgProvider config.Provider,
	appLogger domain.Logger,
	transport *httpclient.Client,
	engine *application.QueryEngine,
	auth *application.AuthService,
	articles *application.ArticleService,
	communities *application.CommunityService,
	posts *application.PostService,
	predictions *application.PredictionService,
	notifications *application.NotificationService,
	users *application.UserService,
	products *application.ProductService,
) (*App, func(), error) {
	transport.SetUnauthorizedHook(auth.HandleUnauthorized)

	app := &App{
		configProvider: cfgProvider,
		logger:         appLogger,
		transport:      transport,
		engine:         engine,
		auth:           auth,
		articles:       articles,
		communities:    communities,
		posts:          posts,
		predictions:    predictions,
		notifications:  notifications,
		users:          users,
		products:       products,
	}

	cleanup := func() {
		app.logger.Info(context.Background(), "Running app cleanup...")
		app.notifications.StopPolling()
	}
	return app, cleanup, nil
}

// Auth returns the auth service.
func (a *App) Auth() *application.AuthService { return a.auth }

// Articles returns the article service.
func (a *App) Articles() *application.ArticleService { return a.articles }

// Communities returns the community service.
func (a *App) Communities() *application.CommunityService { return a.communities }

// Posts returns the post service.
func (a *App) Posts() *application.PostService { return a.posts }

// Predictions returns the prediction service.
func (a *App) Predictions() *application.PredictionService { return a.predictions }

// Notifications returns the notification service.
func (a *App) Notifications() *application.NotificationService { return a.notifications }

// Users returns the user profile service.
func (a *App) Users() *application.UserService { return a.users }

// Products returns the product suggestion service.
func (a *App) Products() *application.ProductService { return a.products }

// NotifyFocus forwards a window-focus signal to the query engine.
func (a *App) NotifyFocus(ctx context.Context) {
	a.engine.NotifyFocus(ctx)
}

// ProviderSet is the Wire provider set for the entire application.
var ProviderSet = wire.NewSet(
	InitialZapLoggerProvider,
	ConfigProvider,
	LoggerProvider,

	// Stores
	CookieJarProvider,
	SessionStoreProvider,
	CorrelatorStoreProvider,
	CacheStoreProvider,

	// Transport and resource clients
	HTTPClientProvider,
	TransportProvider,
	APIProvider,

	// Orchestration core
	QueryEngineProvider,
	NotifierProvider,
	CatalogProvider,
	MutationRunnerProvider,

	// Resource services
	AuthServiceProvider,
	ArticleServiceProvider,
	CommunityServiceProvider,
	PostServiceProvider,
	PredictionServiceProvider,
	NotificationServiceProvider,
	UserServiceProvider,
	ProductServiceProvider,

	NewApp,
)
