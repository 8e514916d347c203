package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// EnvPrefix namespaces every environment variable read by Load.
const EnvPrefix = "SNACKSTAND"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

type Config struct {
	App           AppConfig
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	Password      PasswordConfig
	AuthRateLimit AuthRateLimitConfig
	Store         StoreConfig
	FeatureFlags  FeatureFlagsConfig
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
	Env          string `envconfig:"SNACKSTAND_APP_ENV" required:"true"`
	Port         string `envconfig:"SNACKSTAND_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"SNACKSTAND_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"SNACKSTAND_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"SNACKSTAND_DB_DSN"`
	Driver string `envconfig:"SNACKSTAND_DB_DRIVER" default:"postgres"`

	Host     string `envconfig:"SNACKSTAND_DB_HOST"`
	Port     int    `envconfig:"SNACKSTAND_DB_PORT" default:"5432"`
	User     string `envconfig:"SNACKSTAND_DB_USER"`
	Password string `envconfig:"SNACKSTAND_DB_PASSWORD"`
	Name     string `envconfig:"SNACKSTAND_DB_NAME"`
	SSLMode  string `envconfig:"SNACKSTAND_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"SNACKSTAND_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"SNACKSTAND_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"SNACKSTAND_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"SNACKSTAND_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"SNACKSTAND_REDIS_URL"`
	Address      string        `envconfig:"SNACKSTAND_REDIS_ADDR"`
	Password     string        `envconfig:"SNACKSTAND_REDIS_PASSWORD"`
	DB           int           `envconfig:"SNACKSTAND_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"SNACKSTAND_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"SNACKSTAND_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"SNACKSTAND_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"SNACKSTAND_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"SNACKSTAND_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret                 string `envconfig:"SNACKSTAND_JWT_SECRET" required:"true"`
	Issuer                 string `envconfig:"SNACKSTAND_JWT_ISSUER" default:"snackstand"`
	ExpirationMinutes      int    `envconfig:"SNACKSTAND_JWT_EXPIRATION_MINUTES" default:"30"`
	RefreshTokenTTLMinutes int    `envconfig:"SNACKSTAND_REFRESH_TOKEN_TTL_MINUTES" default:"43200"`
}

// RefreshTokenTTL returns the refresh token TTL configured in minutes.
func (j JWTConfig) RefreshTokenTTL() time.Duration {
	if j.RefreshTokenTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(j.RefreshTokenTTLMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"SNACKSTAND_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"SNACKSTAND_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"SNACKSTAND_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"SNACKSTAND_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"SNACKSTAND_ARGON_KEY_LEN" default:"32"`
}

type AuthRateLimitConfig struct {
	LoginWindow        time.Duration `envconfig:"SNACKSTAND_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit    int           `envconfig:"SNACKSTAND_AUTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit       int           `envconfig:"SNACKSTAND_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
	RegisterWindow     time.Duration `envconfig:"SNACKSTAND_AUTH_RATE_LIMIT_REGISTER_WINDOW" default:"5m"`
	RegisterEmailLimit int           `envconfig:"SNACKSTAND_AUTH_RATE_LIMIT_REGISTER_EMAIL_LIMIT" default:"3"`
	RegisterIPLimit    int           `envconfig:"SNACKSTAND_AUTH_RATE_LIMIT_REGISTER_IP_LIMIT" default:"20"`
}

// StoreConfig carries the shop-level knobs shared by several services.
type StoreConfig struct {
	// Timezone anchors every "today" computation (orders, payments, reports).
	Timezone          string `envconfig:"SNACKSTAND_STORE_TIMEZONE" default:"Asia/Kolkata"`
	FeedbackMaxLength int    `envconfig:"SNACKSTAND_FEEDBACK_MAX_LENGTH" default:"350"`
	OwnerEmail        string `envconfig:"SNACKSTAND_OWNER_EMAIL" default:"owner@snackstand.local"`
	OwnerPassword     string `envconfig:"SNACKSTAND_OWNER_PASSWORD"`
	SeedCatalog       bool   `envconfig:"SNACKSTAND_SEED_CATALOG" default:"true"`
}

// Location resolves the configured time zone, falling back to UTC.
func (s StoreConfig) Location() *time.Location {
	loc, err := time.LoadLocation(s.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"SNACKSTAND_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"SNACKSTAND_AUTO_MIGRATE" default:"false"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}
	if strings.EqualFold(db.Driver, "sqlite") {
		return nil
	}

	missing := []string{}
	for env, val := range map[string]string{
		"SNACKSTAND_DB_HOST": db.Host,
		"SNACKSTAND_DB_USER": db.User,
		"SNACKSTAND_DB_NAME": db.Name,
	} {
		if val == "" {
			missing = append(missing, env)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("either SNACKSTAND_DB_DSN or %s are required", strings.Join(missing, ", "))
	}

	userInfo := url.User(db.User)
	if db.Password != "" {
		userInfo = url.UserPassword(db.User, db.Password)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.Host, db.Port),
		Path:   db.Name,
	}
	if db.SSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.SSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
