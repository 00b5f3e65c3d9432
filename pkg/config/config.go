package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix = "FOODFLEET"

	AppEnvDev  = "dev"
	AppEnvProd = "production"

	EnvAppEnv   = "FOODFLEET_APP_ENV"
	EnvPort     = "FOODFLEET_APP_PORT"
	EnvDBDSN    = "FOODFLEET_DB_DSN"
	EnvDBHost   = "FOODFLEET_DB_HOST"
	EnvDBUser   = "FOODFLEET_DB_USER"
	EnvDBName   = "FOODFLEET_DB_NAME"
	EnvRedisURL = "FOODFLEET_REDIS_URL"

	EnvJWTSecret  = "FOODFLEET_JWT_SECRET"
	EnvJWTIssuer  = "FOODFLEET_JWT_ISSUER"
	EnvJWTExpMins = "FOODFLEET_JWT_EXPIRATION_MINUTES"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	JWT          JWTConfig
	Catalog      CatalogConfig
	Coupons      CouponsConfig
	FeatureFlags FeatureFlagsConfig
	GCP          GCPConfig
	PubSub       PubSubConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"FOODFLEET_APP_ENV" required:"true"`
	Port         string `envconfig:"FOODFLEET_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"FOODFLEET_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"FOODFLEET_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"FOODFLEET_DB_DSN"`
	Driver string `envconfig:"FOODFLEET_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"FOODFLEET_DB_HOST"`
	LegacyPort     int    `envconfig:"FOODFLEET_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"FOODFLEET_DB_USER"`
	LegacyPassword string `envconfig:"FOODFLEET_DB_PASSWORD"`
	LegacyName     string `envconfig:"FOODFLEET_DB_NAME"`
	LegacySSLMode  string `envconfig:"FOODFLEET_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"FOODFLEET_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"FOODFLEET_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"FOODFLEET_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"FOODFLEET_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"FOODFLEET_REDIS_URL" required:"true"`
	Address      string        `envconfig:"FOODFLEET_REDIS_ADDR"`
	Password     string        `envconfig:"FOODFLEET_REDIS_PASSWORD"`
	DB           int           `envconfig:"FOODFLEET_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"FOODFLEET_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"FOODFLEET_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"FOODFLEET_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"FOODFLEET_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"FOODFLEET_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"FOODFLEET_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"FOODFLEET_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"FOODFLEET_JWT_EXPIRATION_MINUTES" required:"true"`
}

// CatalogConfig tunes the catalog cache and the feed refresher.
type CatalogConfig struct {
	CacheTTL        time.Duration `envconfig:"FOODFLEET_CATALOG_CACHE_TTL" default:"5m"`
	RefreshInterval time.Duration `envconfig:"FOODFLEET_CATALOG_REFRESH_INTERVAL" default:"30s"`
}

// CouponsConfig tunes the coupon feed refresher.
type CouponsConfig struct {
	RefreshInterval time.Duration `envconfig:"FOODFLEET_COUPONS_REFRESH_INTERVAL" default:"60s"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"FOODFLEET_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"FOODFLEET_AUTO_MIGRATE" default:"false"`
}

type GCPConfig struct {
	ProjectID string `envconfig:"FOODFLEET_GCP_PROJECT_ID"`
}

// PubSub topics are optional; an empty topic disables event publishing.
type PubSubConfig struct {
	OrdersTopic string `envconfig:"FOODFLEET_PUBSUB_ORDERS_TOPIC"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	legacyValues := map[string]string{
		EnvDBHost: db.LegacyHost,
		EnvDBUser: db.LegacyUser,
		EnvDBName: db.LegacyName,
	}
	for _, env := range legacyDBEnvVars {
		if legacyValues[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.LegacyUser)
	if db.LegacyPassword != "" {
		userInfo = url.UserPassword(db.LegacyUser, db.LegacyPassword)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.LegacyHost, db.LegacyPort),
		Path:   db.LegacyName,
	}

	if db.LegacySSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.LegacySSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
