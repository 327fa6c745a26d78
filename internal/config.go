package internal

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Server        ServerConfig        `mapstructure:"http_server" env:", prefix=HTTP_"`
	Database      DatabaseConfig      `mapstructure:"database" env:", prefix=DB_"`
	Security      SecurityConfig      `mapstructure:"security" env:", prefix=SECURITY_" validate:"required"`
	Redis         RedisConfig         `mapstructure:"redis" env:", prefix=REDIS_"`
	Observability ObservabilityConfig `mapstructure:"observability" env:", prefix=OBS_"`
	OpenAPI       OpenAPIConfig       `mapstructure:"openapi" env:", prefix=OPENAPI_"`
}

type ServerConfig struct {
	Port              int           `mapstructure:"port" env:"PORT, default=8080" validate:"required,min=1,max=65535"`
	BaseURL           string        `mapstructure:"base_url" env:"BASE_URL"`
	AllowedOrigins    string        `mapstructure:"allowed_origins" env:"ALLOWED_ORIGINS, default=*"`
	ReadHeaderTimeout time.Duration `mapstructure:"read_header_timeout" env:"READ_HEADER_TIMEOUT, default=5s"`
	ReadTimeout       time.Duration `mapstructure:"read_timeout" env:"READ_TIMEOUT, default=15s"`
	IdleTimeout       time.Duration `mapstructure:"idle_timeout" env:"IDLE_TIMEOUT, default=60s"`
	WriteTimeout      time.Duration `mapstructure:"write_timeout" env:"WRITE_TIMEOUT, default=15s"`
}

type DatabaseConfig struct {
	MaxOpenConns    int           `mapstructure:"max_open_conns" env:"MAX_OPEN_CONNS, default=25" validate:"required,min=1"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns" env:"MAX_IDLE_CONNS, default=5" validate:"required,min=1"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime" env:"CONN_MAX_LIFETIME, default=30m" validate:"required,min=1m"`
	ConnMaxIdleTime time.Duration `mapstructure:"conn_max_idle_time" env:"CONN_MAX_IDLE_TIME, default=5m" validate:"required,min=1m"`
	Source          string        `mapstructure:"source" env:"SOURCE, required" validate:"required"`
	QueryTimeout    time.Duration `mapstructure:"query_timeout" env:"QUERY_TIMEOUT, default=5s"`
}

type SecurityConfig struct {
	AccessTokenSecret    string        `mapstructure:"access_token_secret" env:"ACCESS_TOKEN_SECRET, required" validate:"required,min=32"`
	RefreshTokenSecret   string        `mapstructure:"refresh_token_secret" env:"REFRESH_TOKEN_SECRET, required" validate:"required,min=32,nefield=AccessTokenSecret"`
	AccessTokenDuration  time.Duration `mapstructure:"access_token_duration" env:"ACCESS_TOKEN_DURATION, default=15m" validate:"required,min=1m,max=1h"`
	RefreshTokenDuration time.Duration `mapstructure:"refresh_token_duration" env:"REFRESH_TOKEN_DURATION, default=168h" validate:"required,min=1h"`
	BCryptCost           int           `mapstructure:"bcrypt_cost" env:"BCRYPT_COST, default=12" validate:"required,min=10,max=15"`
}

type RedisConfig struct {
	Enabled  bool   `mapstructure:"enabled" env:"ENABLED, default=false"`
	Addr     string `mapstructure:"addr" env:"ADDR, default=localhost:6379" validate:"required_if=Enabled true"`
	Password string `mapstructure:"password" env:"PASSWORD"`
	DB       int    `mapstructure:"db" env:"DB, default=0" validate:"min=0,max=15"`
}

type ObservabilityConfig struct {
	Metrics MetricsConfig `mapstructure:"metrics" env:", prefix=METRICS_"`
	Logging LoggingConfig `mapstructure:"logging" env:", prefix=LOG_"`
}

type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled" env:"ENABLED, default=true"`
	Path    string `mapstructure:"path" env:"PATH, default=/metrics" validate:"required_if=Enabled true"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level" env:"LEVEL, default=info" validate:"required,oneof=debug info warn error"`
	Format string `mapstructure:"format" env:"FORMAT, default=json" validate:"required,oneof=json text"`
}

type OpenAPIConfig struct {
	SpecPath        string `mapstructure:"spec_path" env:"SPEC_PATH, default=api/openapi.yml" validate:"required"`
	ValidateRequest bool   `mapstructure:"validate_request" env:"VALIDATE_REQUEST, default=true"`
}

// LoadConfigFromEnv builds the config purely from environment variables.
func LoadConfigFromEnv(ctx context.Context) (*Config, error) {
	var cfg Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return nil, fmt.Errorf("process env config: %w", err)
	}
	return &cfg, nil
}

var configValidator = validator.New(validator.WithRequiredStructEnabled())

// ----------------- VALIDATION -----------------

func (c *Config) Validate() error {
	var errs []string

	if err := configValidator.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			for _, fe := range verrs {
				errs = append(errs, fmt.Sprintf("%s failed on %s", fe.Namespace(), fe.Tag()))
			}
		} else {
			errs = append(errs, err.Error())
		}
	}

	if err := c.Server.Validate(); err != nil {
		errs = append(errs, fmt.Sprintf("server config: %v", err))
	}

	if err := c.Database.Validate(); err != nil {
		errs = append(errs, fmt.Sprintf("database config: %v", err))
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}

	return nil
}

func (c *ServerConfig) Validate() error {
	if c.AllowedOrigins != "" {
		origins := strings.Split(c.AllowedOrigins, ",")
		for _, origin := range origins {
			origin = strings.TrimSpace(origin)
			if origin == "*" {
				continue
			}
			if _, err := url.Parse(origin); err != nil {
				return fmt.Errorf("invalid allowed origin %s: %w", origin, err)
			}
		}
	}
	if c.ReadTimeout < c.ReadHeaderTimeout {
		return errors.New("read_timeout must be >= read_header_timeout")
	}
	return nil
}

func (c *DatabaseConfig) Validate() error {
	if c.MaxIdleConns > c.MaxOpenConns {
		return errors.New("max_idle_conns cannot be greater than max_open_conns")
	}
	return nil
}

func (c *DatabaseConfig) GetDSN() string {
	return c.Source
}
