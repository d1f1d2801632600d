package config

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime/debug"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const envPrefix = "ORZA_SYNC"

// APIConfig holds the remote Orza API settings.
// Note: Fields should be exported (start with uppercase) to be unmarshalled by Viper.
type APIConfig struct {
	BaseURL        string `mapstructure:"base_url"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
}

// LogConfig holds logging-related configurations.
type LogConfig struct {
	Level string `mapstructure:"level"`
}

// CacheConfig holds cache backend selection and the per-class staleness windows.
type CacheConfig struct {
	Backend                  string `mapstructure:"backend"` // "memory" (default) or "redis"
	ShortTTLSeconds          int    `mapstructure:"short_ttl_seconds"`
	MediumTTLSeconds         int    `mapstructure:"medium_ttl_seconds"`
	LongTTLSeconds           int    `mapstructure:"long_ttl_seconds"`
	NotificationsPollSeconds int    `mapstructure:"notifications_poll_seconds"`
}

// RedisConfig holds Redis-related configurations, used only when the redis
// cache backend is selected.
type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"` // Optional
	DB       int    `mapstructure:"db"`       // Optional
	Prefix   string `mapstructure:"prefix"`   // Key namespace, defaults to "orza_sync"
}

// SessionConfig holds session and correlator lifetimes.
type SessionConfig struct {
	LoginTTLHours        int `mapstructure:"login_ttl_hours"`        // password / OTP-verified login
	OAuthTTLHours        int `mapstructure:"oauth_ttl_hours"`        // OAuth callback token
	CorrelatorTTLMinutes int `mapstructure:"correlator_ttl_minutes"` // OTP flow correlators
}

// AppConfig holds application-specific configurations.
type AppConfig struct {
	ServiceName            string `mapstructure:"service_name"`
	Version                string `mapstructure:"version"`
	ShutdownTimeoutSeconds int    `mapstructure:"shutdown_timeout_seconds"`
	DefaultPageLimit       int    `mapstructure:"default_page_limit"`
	MetricsAddr            string `mapstructure:"metrics_addr"` // Empty disables the metrics listener
}

// Config holds all configuration for the sync engine.
type Config struct {
	API     APIConfig     `mapstructure:"api"`
	Log     LogConfig     `mapstructure:"log"`
	Cache   CacheConfig   `mapstructure:"cache"`
	Redis   RedisConfig   `mapstructure:"redis"`
	Session SessionConfig `mapstructure:"session"`
	App     AppConfig     `mapstructure:"app"`
}

// ShortTTL returns the staleness window for rapidly changing counters
// (like-count, comments, post detail).
func (c *Config) ShortTTL() time.Duration {
	return time.Duration(c.Cache.ShortTTLSeconds) * time.Second
}

// MediumTTL returns the staleness window for list and detail reads.
func (c *Config) MediumTTL() time.Duration {
	return time.Duration(c.Cache.MediumTTLSeconds) * time.Second
}

// LongTTL returns the staleness window for near-static reference data.
func (c *Config) LongTTL() time.Duration {
	return time.Duration(c.Cache.LongTTLSeconds) * time.Second
}

// LoginTTL returns the session lifetime for password and OTP-verified logins.
func (c *Config) LoginTTL() time.Duration {
	return time.Duration(c.Session.LoginTTLHours) * time.Hour
}

// OAuthTTL returns the session lifetime for OAuth callback tokens.
func (c *Config) OAuthTTL() time.Duration {
	return time.Duration(c.Session.OAuthTTLHours) * time.Hour
}

// CorrelatorTTL returns the lifetime of OTP flow correlators.
func (c *Config) CorrelatorTTL() time.Duration {
	return time.Duration(c.Session.CorrelatorTTLMinutes) * time.Minute
}

// NotificationsPollInterval returns the fixed notifications polling interval.
func (c *Config) NotificationsPollInterval() time.Duration {
	return time.Duration(c.Cache.NotificationsPollSeconds) * time.Second
}

// Provider defines an interface for accessing application configuration.
// This allows for easy mocking in tests and decouples the engine from Viper.
type Provider interface {
	Get() *Config
}

// viperProvider implements the Provider interface using Viper.
type viperProvider struct {
	mu     sync.RWMutex // guards config against the reload goroutines
	config *Config
	logger *zap.Logger // Using zap.Logger directly for config internal logging, not domain.Logger to avoid circular deps
}

// swap replaces the active configuration. Called by the SIGHUP and file-watch
// reload paths.
func (p *viperProvider) swap(newCfg *Config) {
	p.mu.Lock()
	p.config = newCfg
	p.mu.Unlock()
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("api.base_url", "http://localhost:3000/api")
	v.SetDefault("api.timeout_seconds", 30)
	v.SetDefault("log.level", "info")
	v.SetDefault("cache.backend", "memory")
	v.SetDefault("cache.short_ttl_seconds", 30)
	v.SetDefault("cache.medium_ttl_seconds", 300)
	v.SetDefault("cache.long_ttl_seconds", 600)
	v.SetDefault("cache.notifications_poll_seconds", 30)
	v.SetDefault("redis.prefix", "orza_sync")
	v.SetDefault("session.login_ttl_hours", 24)
	v.SetDefault("session.oauth_ttl_hours", 168)
	v.SetDefault("session.correlator_ttl_minutes", 10)
	v.SetDefault("app.service_name", "orza-sync")
	v.SetDefault("app.shutdown_timeout_seconds", 10)
	v.SetDefault("app.default_page_limit", 10)
	v.SetDefault("app.metrics_addr", ":9100")
}

// NewViperProvider creates and initializes a new configuration provider using Viper.
// It loads configuration from file and environment variables, and sets up hot-reloading.
// A basic logger (e.g., zap.NewExample()) should be passed for internal logging during setup.
// appCtx is the application lifecycle context used for graceful shutdown of background tasks.
func NewViperProvider(appCtx context.Context, logger *zap.Logger) (Provider, error) {
	cfg := &Config{}
	v := viper.New()

	setDefaults(v)

	// Configure Viper to read from YAML file
	v.SetConfigName(getEnv("VIPER_CONFIG_NAME", "config"))
	v.SetConfigType("yaml")
	v.AddConfigPath(getEnv("VIPER_CONFIG_PATH", "./config"))
	v.AddConfigPath(".") // Also look in current directory for local dev

	// Configure Viper to read from environment variables
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_")) // e.g., api.base_url becomes API_BASE_URL

	// Attempt to read the configuration file
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			logger.Warn("Config file not found; relying on defaults and environment variables", zap.Error(err))
		} else {
			logger.Error("Failed to read config file", zap.Error(err))
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// Unmarshal the configuration into the struct
	if err := v.Unmarshal(cfg); err != nil {
		logger.Error("Failed to unmarshal config", zap.Error(err))
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	p := &viperProvider{
		config: cfg,
		logger: logger,
	}

	// Set up SIGHUP for hot-reloading configuration
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGHUP)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				p.logger.Error("Panic recovered in SIGHUP handler goroutine",
					zap.String("goroutine_name", "SIGHUPConfigReloader"),
					zap.Any("panic_info", r),
					zap.String("stacktrace", string(debug.Stack())),
				)
			}
		}()
		p.logger.Info("SIGHUPConfigReloader goroutine started.")
		for {
			select {
			case sig := <-sigChan:
				p.logger.Info("SIGHUP received, attempting to reload configuration...", zap.String("signal", sig.String()))
				if err := v.ReadInConfig(); err != nil {
					p.logger.Error("Failed to re-read config file on SIGHUP", zap.Error(err))
				} else {
					newCfg := &Config{}
					if err := v.Unmarshal(newCfg); err != nil {
						p.logger.Error("Failed to unmarshal re-read config on SIGHUP", zap.Error(err))
					} else {
						p.swap(newCfg)
						p.logger.Info("Configuration reloaded successfully via SIGHUP")
					}
				}
			case <-appCtx.Done():
				p.logger.Info("SIGHUPConfigReloader goroutine shutting down due to context cancellation.")
				return // Exit goroutine when application context is done
			}
		}
	}()

	// Optional: Watch for config file changes (useful for local dev, less so in containers usually)
	v.WatchConfig()
	v.OnConfigChange(func(e fsnotify.Event) {
		defer func() {
			if r := recover(); r != nil {
				p.logger.Error("Panic recovered in OnConfigChange callback",
					zap.String("event_name", e.Name),
					zap.String("event_op", e.Op.String()),
					zap.Any("panic_info", r),
					zap.String("stacktrace", string(debug.Stack())),
				)
			}
		}()
		p.logger.Info("Config file changed", zap.String("name", e.Name), zap.String("op", e.Op.String()))
		newCfg := &Config{}
		if err := v.Unmarshal(newCfg); err != nil {
			p.logger.Error("Failed to unmarshal config on file change event", zap.Error(err))
		} else {
			p.swap(newCfg)
			p.logger.Info("Configuration reloaded successfully via file change event")
		}
	})

	p.logger.Info("Configuration loaded successfully", zap.String("config_file_used", v.ConfigFileUsed()))

	return p, nil
}

// Get returns the current configuration.
func (p *viperProvider) Get() *Config {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.config
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

// Static wraps an already-built Config in a Provider. Used by tests.
func Static(cfg *Config) Provider {
	return staticProvider{cfg: cfg}
}

type staticProvider struct {
	cfg *Config
}

func (p staticProvider) Get() *Config {
	return p.cfg
}
