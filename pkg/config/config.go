package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App           AppConfig
	Service       ServiceConfig
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	Password      PasswordConfig
	AuthRateLimit AuthRateLimitConfig
	FeatureFlags  FeatureFlagsConfig
	PubSub        PubSubConfig
	Outbox        OutboxConfig
	Restock       RestockConfig
	GCP           GCPConfig
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
	Env          string `envconfig:"BALCAO_APP_ENV" required:"true"`
	Port         string `envconfig:"BALCAO_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"BALCAO_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"BALCAO_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type ServiceConfig struct {
	Kind string `envconfig:"BALCAO_SERVICE_KIND" default:"api"`
}

type DBConfig struct {
	DSN    string `envconfig:"BALCAO_DB_DSN"`
	Driver string `envconfig:"BALCAO_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"BALCAO_DB_HOST"`
	LegacyPort     int    `envconfig:"BALCAO_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"BALCAO_DB_USER"`
	LegacyPassword string `envconfig:"BALCAO_DB_PASSWORD"`
	LegacyName     string `envconfig:"BALCAO_DB_NAME"`
	LegacySSLMode  string `envconfig:"BALCAO_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"BALCAO_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"BALCAO_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"BALCAO_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"BALCAO_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"BALCAO_REDIS_URL" required:"true"`
	Address      string        `envconfig:"BALCAO_REDIS_ADDR"`
	Password     string        `envconfig:"BALCAO_REDIS_PASSWORD"`
	DB           int           `envconfig:"BALCAO_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"BALCAO_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"BALCAO_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"BALCAO_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"BALCAO_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"BALCAO_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret                 string `envconfig:"BALCAO_JWT_SECRET" required:"true"`
	Issuer                 string `envconfig:"BALCAO_JWT_ISSUER" required:"true"`
	ExpirationMinutes      int    `envconfig:"BALCAO_JWT_EXPIRATION_MINUTES" required:"true"`
	RefreshTokenTTLMinutes int    `envconfig:"BALCAO_REFRESH_TOKEN_TTL_MINUTES" default:"43200"`
}

// RefreshTokenTTL returns the refresh token TTL configured in minutes.
func (j JWTConfig) RefreshTokenTTL() time.Duration {
	if j.RefreshTokenTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(j.RefreshTokenTTLMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"BALCAO_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"BALCAO_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"BALCAO_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"BALCAO_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"BALCAO_ARGON_KEY_LEN" default:"32"`
}

type AuthRateLimitConfig struct {
	LoginWindow     time.Duration `envconfig:"BALCAO_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit int           `envconfig:"BALCAO_AUTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit    int           `envconfig:"BALCAO_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"BALCAO_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"BALCAO_AUTO_MIGRATE" default:"false"`
}

type PubSubConfig struct {
	SaleEventsTopic        string `envconfig:"BALCAO_PUBSUB_SALE_EVENTS_TOPIC" default:"balcao-sale-events"`
	SaleEventsSubscription string `envconfig:"BALCAO_PUBSUB_SALE_EVENTS_SUBSCRIPTION"`
}

type OutboxConfig struct {
	BatchSize      int `envconfig:"BALCAO_OUTBOX_PUBLISH_BATCH_SIZE" default:"50"`
	PollIntervalMS int `envconfig:"BALCAO_OUTBOX_PUBLISH_POLL_MS" default:"500"`
	MaxAttempts    int `envconfig:"BALCAO_OUTBOX_MAX_ATTEMPTS" default:"10"`
}

type RestockConfig struct {
	OpenAIAPIKey string `envconfig:"BALCAO_OPENAI_API_KEY"`
	// CoverageDays sizes heuristic suggestions as N days of recent sales.
	CoverageDays int `envconfig:"BALCAO_RESTOCK_COVERAGE_DAYS" default:"14"`
}

type GCPConfig struct {
	ProjectID       string `envconfig:"BALCAO_GCP_PROJECT_ID"`
	CredentialsJSON string `envconfig:"BALCAO_GCP_CREDENTIALS_JSON"`
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
