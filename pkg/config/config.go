package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"

	"github.com/angelmondragon/washline-backend/pkg/enums"
)

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	JWT          JWTConfig
	FeatureFlags FeatureFlagsConfig
	Pricing      PricingConfig
	Quote        QuoteConfig
	RateLimit    RateLimitConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	if err := cfg.Pricing.validate(); err != nil {
		return nil, err
	}
	if err := cfg.Quote.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string   `envconfig:"WASHLINE_APP_ENV" required:"true"`
	Port         string   `envconfig:"WASHLINE_APP_PORT" required:"true"`
	LogLevel     string   `envconfig:"WASHLINE_LOG_LEVEL" default:"info"`
	LogFormat    string   `envconfig:"WASHLINE_LOG_FORMAT" default:"json"`
	LogWarnStack bool     `envconfig:"WASHLINE_LOG_WARN_STACK" default:"false"`
	CORSOrigins  []string `envconfig:"WASHLINE_CORS_ORIGINS" default:"http://localhost:3000"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN string `envconfig:"WASHLINE_DB_DSN"`
	// SlowQuery is the duration above which a statement is logged at warn
	// level. Zero disables slow query logging.
	SlowQuery time.Duration `envconfig:"WASHLINE_DB_SLOW_QUERY" default:"250ms"`

	LegacyHost     string `envconfig:"WASHLINE_DB_HOST"`
	LegacyPort     int    `envconfig:"WASHLINE_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"WASHLINE_DB_USER"`
	LegacyPassword string `envconfig:"WASHLINE_DB_PASSWORD"`
	LegacyName     string `envconfig:"WASHLINE_DB_NAME"`
	LegacySSLMode  string `envconfig:"WASHLINE_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"WASHLINE_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"WASHLINE_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"WASHLINE_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"WASHLINE_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"WASHLINE_REDIS_URL"`
	Address      string        `envconfig:"WASHLINE_REDIS_ADDR"`
	Password     string        `envconfig:"WASHLINE_REDIS_PASSWORD"`
	DB           int           `envconfig:"WASHLINE_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"WASHLINE_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"WASHLINE_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"WASHLINE_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"WASHLINE_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"WASHLINE_REDIS_WRITE_TIMEOUT" default:"5s"`

	// IdempotencyTTL is how long a completed admin write is replayable.
	IdempotencyTTL time.Duration `envconfig:"WASHLINE_IDEMPOTENCY_TTL" default:"24h"`
}

// Enabled reports whether enough connection data was supplied to dial Redis.
func (r RedisConfig) Enabled() bool {
	return strings.TrimSpace(r.URL) != "" || strings.TrimSpace(r.Address) != ""
}

type JWTConfig struct {
	Secret            string `envconfig:"WASHLINE_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"WASHLINE_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"WASHLINE_JWT_EXPIRATION_MINUTES" default:"60"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"WASHLINE_AUTO_MIGRATE" default:"false"`
}

// PricingConfig controls how price record writes are serialised per dimension.
type PricingConfig struct {
	LockMode string        `envconfig:"WASHLINE_PRICING_LOCK_MODE" default:"advisory"`
	LockTTL  time.Duration `envconfig:"WASHLINE_PRICING_LOCK_TTL" default:"10s"`
}

func (p PricingConfig) validate() error {
	switch strings.ToLower(strings.TrimSpace(p.LockMode)) {
	case LockModeAdvisory, LockModeRedis, LockModeNone:
		return nil
	}
	return fmt.Errorf("%s must be one of %s, %s, %s", EnvPricingLockMode, LockModeAdvisory, LockModeRedis, LockModeNone)
}

// NormalizedLockMode returns the lower-cased lock mode.
func (p PricingConfig) NormalizedLockMode() string {
	return strings.ToLower(strings.TrimSpace(p.LockMode))
}

type QuoteConfig struct {
	UnknownAddonPolicy string `envconfig:"WASHLINE_QUOTE_UNKNOWN_ADDON_POLICY" default:"ignore"`
	MaxLines           int    `envconfig:"WASHLINE_QUOTE_MAX_LINES" default:"100"`
	Timezone           string `envconfig:"WASHLINE_QUOTE_TIMEZONE" default:"UTC"`
}

func (q QuoteConfig) validate() error {
	if _, err := enums.ParseUnknownAddonPolicy(q.UnknownAddonPolicy); err != nil {
		return fmt.Errorf("invalid %s: %w", EnvQuoteUnknownAddonPolicy, err)
	}
	if _, err := time.LoadLocation(q.Timezone); err != nil {
		return fmt.Errorf("invalid %s: %w", EnvQuoteTimezone, err)
	}
	if q.MaxLines <= 0 {
		return fmt.Errorf("%s must be positive", EnvQuoteMaxLines)
	}
	return nil
}

// AddonPolicy returns the parsed unknown add-on policy, defaulting to ignore.
func (q QuoteConfig) AddonPolicy() enums.UnknownAddonPolicy {
	policy, err := enums.ParseUnknownAddonPolicy(q.UnknownAddonPolicy)
	if err != nil {
		return enums.UnknownAddonPolicyIgnore
	}
	return policy
}

// Location returns the configured timezone used to compute "today".
func (q QuoteConfig) Location() *time.Location {
	loc, err := time.LoadLocation(q.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// RateLimitConfig throttles the public pricing endpoints per client IP.
// A zero window or limit disables throttling.
type RateLimitConfig struct {
	Window     time.Duration `envconfig:"WASHLINE_RATE_LIMIT_WINDOW" default:"1m"`
	QuotePerIP int           `envconfig:"WASHLINE_RATE_LIMIT_QUOTE_PER_IP" default:"120"`
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
