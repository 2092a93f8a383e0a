package config

// EnvPrefix is the envconfig prefix shared by every setting.
const EnvPrefix = "MEDMARKET"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	EnvAppEnv   = "MEDMARKET_APP_ENV"
	EnvPort     = "MEDMARKET_APP_PORT"
	EnvLogLevel = "MEDMARKET_LOG_LEVEL"

	EnvDBDSN    = "MEDMARKET_DB_DSN"
	EnvDBDriver = "MEDMARKET_DB_DRIVER"
	EnvDBHost   = "MEDMARKET_DB_HOST"
	EnvDBUser   = "MEDMARKET_DB_USER"
	EnvDBName   = "MEDMARKET_DB_NAME"

	EnvRedisURL = "MEDMARKET_REDIS_URL"

	EnvJWTSecret              = "MEDMARKET_JWT_SECRET"
	EnvJWTIssuer              = "MEDMARKET_JWT_ISSUER"
	EnvJWTExpMins             = "MEDMARKET_JWT_EXPIRATION_MINUTES"
	EnvRefreshTokenTTLMinutes = "MEDMARKET_REFRESH_TOKEN_TTL_MINUTES"

	EnvPaymentSuccessRate = "MEDMARKET_PAYMENT_SUCCESS_RATE"
	EnvPaymentLatency     = "MEDMARKET_PAYMENT_LATENCY"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
