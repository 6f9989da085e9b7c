package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App          AppConfig
	Service      ServiceConfig
	DB           DBConfig
	Redis        RedisConfig
	JWT          JWTConfig
	Auth         AuthConfig
	Notifier     NotifierConfig
	Cron         CronConfig
	OpenAI       OpenAIConfig
	FeatureFlags FeatureFlagsConfig
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
	Env          string `envconfig:"CALLDESK_APP_ENV" required:"true"`
	Port         string `envconfig:"CALLDESK_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"CALLDESK_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"CALLDESK_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type ServiceConfig struct {
	Kind string `envconfig:"CALLDESK_SERVICE_KIND" default:"api"`
}

type DBConfig struct {
	DSN    string `envconfig:"CALLDESK_DB_DSN"`
	Driver string `envconfig:"CALLDESK_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"CALLDESK_DB_HOST"`
	LegacyPort     int    `envconfig:"CALLDESK_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"CALLDESK_DB_USER"`
	LegacyPassword string `envconfig:"CALLDESK_DB_PASSWORD"`
	LegacyName     string `envconfig:"CALLDESK_DB_NAME"`
	LegacySSLMode  string `envconfig:"CALLDESK_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"CALLDESK_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"CALLDESK_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"CALLDESK_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"CALLDESK_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"CALLDESK_REDIS_URL" required:"true"`
	Address      string        `envconfig:"CALLDESK_REDIS_ADDR"`
	Password     string        `envconfig:"CALLDESK_REDIS_PASSWORD"`
	DB           int           `envconfig:"CALLDESK_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"CALLDESK_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"CALLDESK_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"CALLDESK_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"CALLDESK_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"CALLDESK_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"CALLDESK_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"CALLDESK_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"CALLDESK_JWT_EXPIRATION_MINUTES" default:"720"`
	SessionTTLMinutes int    `envconfig:"CALLDESK_SESSION_TTL_MINUTES" default:"1440"`
}

// SessionTTL returns the redis session lifetime configured in minutes.
func (j JWTConfig) SessionTTL() time.Duration {
	if j.SessionTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(j.SessionTTLMinutes) * time.Minute
}

type AuthConfig struct {
	// MasterPassword unlocks any account; the dashboard has no real
	// credential system, passwords are compared verbatim.
	MasterPassword string `envconfig:"CALLDESK_AUTH_MASTER_PASSWORD"`
}

type NotifierConfig struct {
	Interval      time.Duration `envconfig:"CALLDESK_NOTIFIER_INTERVAL" default:"15s"`
	FiringWindow  time.Duration `envconfig:"CALLDESK_NOTIFIER_FIRING_WINDOW" default:"30s"`
	MarkerTTL     time.Duration `envconfig:"CALLDESK_NOTIFIER_MARKER_TTL" default:"12h"`
	PrecheckQueue string        `envconfig:"CALLDESK_PRECHECK_QUEUE_NAME" default:"precheck-queue"`
}

type CronConfig struct {
	Interval time.Duration `envconfig:"CALLDESK_CRON_INTERVAL" default:"1h"`
	LockTTL  time.Duration `envconfig:"CALLDESK_CRON_LOCK_TTL" default:"55m"`
}

type OpenAIConfig struct {
	APIKey  string `envconfig:"CALLDESK_OPENAI_API_KEY"`
	BaseURL string `envconfig:"CALLDESK_OPENAI_BASE_URL"`
	Model   string `envconfig:"CALLDESK_OPENAI_MODEL" default:"gpt-4o-mini"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"CALLDESK_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"CALLDESK_AUTO_MIGRATE" default:"false"`
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
