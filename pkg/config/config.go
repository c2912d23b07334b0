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
	Paystack      PaystackConfig
	Payouts       PayoutWorkerConfig
	Email         EmailConfig
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
	Env          string `envconfig:"GHBUYS_APP_ENV" required:"true"`
	Port         string `envconfig:"GHBUYS_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"GHBUYS_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"GHBUYS_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type ServiceConfig struct {
	Kind string `envconfig:"GHBUYS_SERVICE_KIND" default:"api"`
}

type DBConfig struct {
	DSN    string `envconfig:"GHBUYS_DB_DSN"`
	Driver string `envconfig:"GHBUYS_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"GHBUYS_DB_HOST"`
	LegacyPort     int    `envconfig:"GHBUYS_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"GHBUYS_DB_USER"`
	LegacyPassword string `envconfig:"GHBUYS_DB_PASSWORD"`
	LegacyName     string `envconfig:"GHBUYS_DB_NAME"`
	LegacySSLMode  string `envconfig:"GHBUYS_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"GHBUYS_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"GHBUYS_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"GHBUYS_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"GHBUYS_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"GHBUYS_REDIS_URL" required:"true"`
	Address      string        `envconfig:"GHBUYS_REDIS_ADDR"`
	Password     string        `envconfig:"GHBUYS_REDIS_PASSWORD"`
	DB           int           `envconfig:"GHBUYS_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"GHBUYS_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"GHBUYS_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"GHBUYS_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"GHBUYS_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"GHBUYS_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"GHBUYS_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"GHBUYS_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"GHBUYS_JWT_EXPIRATION_MINUTES" default:"60"`
}

// Expiration returns the access token lifetime.
func (j JWTConfig) Expiration() time.Duration {
	if j.ExpirationMinutes <= 0 {
		return time.Hour
	}
	return time.Duration(j.ExpirationMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"GHBUYS_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"GHBUYS_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"GHBUYS_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"GHBUYS_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"GHBUYS_ARGON_KEY_LEN" default:"32"`
}

type AuthRateLimitConfig struct {
	LoginWindow        time.Duration `envconfig:"GHBUYS_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit    int           `envconfig:"GHBUYS_AUTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit       int           `envconfig:"GHBUYS_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
	RegisterWindow     time.Duration `envconfig:"GHBUYS_AUTH_RATE_LIMIT_REGISTER_WINDOW" default:"5m"`
	RegisterEmailLimit int           `envconfig:"GHBUYS_AUTH_RATE_LIMIT_REGISTER_EMAIL_LIMIT" default:"3"`
	RegisterIPLimit    int           `envconfig:"GHBUYS_AUTH_RATE_LIMIT_REGISTER_IP_LIMIT" default:"20"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"GHBUYS_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"GHBUYS_AUTO_MIGRATE" default:"false"`
}

type PaystackConfig struct {
	SecretKey     string        `envconfig:"GHBUYS_PAYSTACK_SECRET_KEY" required:"true"`
	PublicKey     string        `envconfig:"GHBUYS_PAYSTACK_PUBLIC_KEY"`
	WebhookSecret string        `envconfig:"GHBUYS_PAYSTACK_WEBHOOK_SECRET"`
	BaseURL       string        `envconfig:"GHBUYS_PAYSTACK_BASE_URL" default:"https://api.paystack.co"`
	Timeout       time.Duration `envconfig:"GHBUYS_PAYSTACK_TIMEOUT" default:"30s"`
	CallbackURL   string        `envconfig:"GHBUYS_PAYSTACK_CALLBACK_URL"`
	EventGuardTTL time.Duration `envconfig:"GHBUYS_PAYSTACK_EVENT_GUARD_TTL" default:"720h"`
}

// SigningSecret returns the key used to verify webhook signatures. Paystack
// signs deliveries with the account secret key unless a dedicated webhook
// secret is configured.
func (p PaystackConfig) SigningSecret() string {
	if p.WebhookSecret != "" {
		return p.WebhookSecret
	}
	return p.SecretKey
}

type PayoutWorkerConfig struct {
	PollInterval time.Duration `envconfig:"GHBUYS_PAYOUT_POLL_INTERVAL" default:"1m"`
	BatchSize    int           `envconfig:"GHBUYS_PAYOUT_BATCH_SIZE" default:"20"`
	MetricsAddr  string        `envconfig:"GHBUYS_PAYOUT_METRICS_ADDR" default:":9091"`
}

type EmailConfig struct {
	FromAddress    string `envconfig:"GHBUYS_EMAIL_FROM" default:"noreply@ghbuys.com"`
	AdminAddress   string `envconfig:"GHBUYS_EMAIL_ADMIN" default:"admin@ghbuys.com"`
	SupportAddress string `envconfig:"GHBUYS_EMAIL_SUPPORT" default:"support@ghbuys.com"`
	DashboardURL   string `envconfig:"GHBUYS_VENDOR_DASHBOARD_URL" default:"https://ghbuys.com/vendor-dashboard"`
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
