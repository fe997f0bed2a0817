package config

const (
	EnvPrefix = "WASHLINE"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvAppEnv   = "WASHLINE_APP_ENV"
	EnvPort     = "WASHLINE_APP_PORT"
	EnvLogLevel = "WASHLINE_LOG_LEVEL"

	EnvDBDSN  = "WASHLINE_DB_DSN"
	EnvDBHost = "WASHLINE_DB_HOST"
	EnvDBUser = "WASHLINE_DB_USER"
	EnvDBName = "WASHLINE_DB_NAME"

	EnvRedisURL = "WASHLINE_REDIS_URL"

	EnvJWTSecret  = "WASHLINE_JWT_SECRET"
	EnvJWTIssuer  = "WASHLINE_JWT_ISSUER"
	EnvJWTExpMins = "WASHLINE_JWT_EXPIRATION_MINUTES"

	EnvPricingLockMode = "WASHLINE_PRICING_LOCK_MODE"

	EnvQuoteUnknownAddonPolicy = "WASHLINE_QUOTE_UNKNOWN_ADDON_POLICY"
	EnvQuoteMaxLines           = "WASHLINE_QUOTE_MAX_LINES"
	EnvQuoteTimezone           = "WASHLINE_QUOTE_TIMEZONE"
)

// Pricing lock modes.
const (
	LockModeAdvisory = "advisory"
	LockModeRedis    = "redis"
	LockModeNone     = "none"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
