package config

// Environment variable names shared between Load, validation messages, and
// tests.
const (
	EnvPrefix = "GHBUYS"

	AppEnvDev  = "dev"
	AppEnvProd = "production"

	EnvAppEnv   = "GHBUYS_APP_ENV"
	EnvPort     = "GHBUYS_APP_PORT"
	EnvLogLevel = "GHBUYS_LOG_LEVEL"

	EnvDBDSN  = "GHBUYS_DB_DSN"
	EnvDBHost = "GHBUYS_DB_HOST"
	EnvDBPort = "GHBUYS_DB_PORT"
	EnvDBUser = "GHBUYS_DB_USER"
	EnvDBName = "GHBUYS_DB_NAME"

	EnvRedisURL = "GHBUYS_REDIS_URL"

	EnvJWTSecret  = "GHBUYS_JWT_SECRET"
	EnvJWTIssuer  = "GHBUYS_JWT_ISSUER"
	EnvJWTExpMins = "GHBUYS_JWT_EXPIRATION_MINUTES"

	EnvPaystackSecretKey     = "GHBUYS_PAYSTACK_SECRET_KEY"
	EnvPaystackWebhookSecret = "GHBUYS_PAYSTACK_WEBHOOK_SECRET"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
