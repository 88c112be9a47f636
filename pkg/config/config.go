package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// EnvPrefix namespaces every environment variable consumed by the service.
const EnvPrefix = "NIYAM"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

type Config struct {
	App           AppConfig
	Supabase      SupabaseConfig
	JWT           JWTConfig
	Password      PasswordConfig
	Records       RecordsConfig
	Redis         RedisConfig
	AuthRateLimit AuthRateLimitConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"NIYAM_APP_ENV" default:"dev"`
	Port         string `envconfig:"NIYAM_APP_PORT" default:"8001"`
	LogLevel     string `envconfig:"NIYAM_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"NIYAM_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

// SupabaseConfig carries the hosted backend endpoint and keys. An empty URL
// or key means the primary backend is unconfigured and the service falls back
// to the local record store.
type SupabaseConfig struct {
	URL            string        `envconfig:"NIYAM_SUPABASE_URL"`
	AnonKey        string        `envconfig:"NIYAM_SUPABASE_KEY"`
	ServiceRoleKey string        `envconfig:"NIYAM_SUPABASE_SERVICE_ROLE_KEY"`
	Timeout        time.Duration `envconfig:"NIYAM_SUPABASE_TIMEOUT" default:"10s"`
}

func (s SupabaseConfig) Configured() bool {
	return strings.TrimSpace(s.URL) != "" &&
		strings.TrimSpace(s.AnonKey) != "" &&
		strings.TrimSpace(s.ServiceRoleKey) != ""
}

type JWTConfig struct {
	Secret string `envconfig:"NIYAM_JWT_SECRET" default:"your-secret-key-change-in-production"`
	Issuer string `envconfig:"NIYAM_JWT_ISSUER" default:"niyam-compliance-os"`
	// Access tokens default to 7 days, refresh tokens to 30 days.
	AccessTTLMinutes  int `envconfig:"NIYAM_ACCESS_TOKEN_TTL_MINUTES" default:"10080"`
	RefreshTTLMinutes int `envconfig:"NIYAM_REFRESH_TOKEN_TTL_MINUTES" default:"43200"`
}

// AccessTTL returns the configured access token lifetime.
func (j JWTConfig) AccessTTL() time.Duration {
	return time.Duration(j.AccessTTLMinutes) * time.Minute
}

// RefreshTTL returns the configured refresh token lifetime.
func (j JWTConfig) RefreshTTL() time.Duration {
	return time.Duration(j.RefreshTTLMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"NIYAM_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"NIYAM_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"NIYAM_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"NIYAM_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"NIYAM_ARGON_KEY_LEN" default:"32"`
}

// RecordsConfig locates the flat-file fallback store.
type RecordsConfig struct {
	Dir string `envconfig:"NIYAM_DATA_DIR" default:"data"`
}

// RedisConfig is optional; it only backs the auth rate limiter.
type RedisConfig struct {
	URL          string        `envconfig:"NIYAM_REDIS_URL"`
	DialTimeout  time.Duration `envconfig:"NIYAM_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"NIYAM_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"NIYAM_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type AuthRateLimitConfig struct {
	LoginWindow      time.Duration `envconfig:"NIYAM_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit  int           `envconfig:"NIYAM_AUTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit     int           `envconfig:"NIYAM_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
	SignupWindow     time.Duration `envconfig:"NIYAM_AUTH_RATE_LIMIT_SIGNUP_WINDOW" default:"5m"`
	SignupEmailLimit int           `envconfig:"NIYAM_AUTH_RATE_LIMIT_SIGNUP_EMAIL_LIMIT" default:"3"`
	SignupIPLimit    int           `envconfig:"NIYAM_AUTH_RATE_LIMIT_SIGNUP_IP_LIMIT" default:"20"`
}
