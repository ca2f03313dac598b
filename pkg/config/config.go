package config

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	// Required fields
	JWTSecretKey string `mapstructure:"jwt_secret_key"`

	// Storage
	DBPath string `mapstructure:"db_path"`

	// Optional API settings
	APIHost string `mapstructure:"api_host"`
	APIPort int    `mapstructure:"api_port"`

	// Optional SSL settings
	SSLCert string `mapstructure:"ssl_cert"`
	SSLKey  string `mapstructure:"ssl_key"`

	// Optional CORS settings
	CORSOrigins []string `mapstructure:"cors_origins"`

	// Optional logging settings
	LogLevel  string `mapstructure:"log_level"`
	LogFormat string `mapstructure:"log_format"` // "json" or "console"
	LogOutput string `mapstructure:"log_output"`

	// Optional JWT settings
	JWTAlgorithm string `mapstructure:"jwt_algorithm"`

	// Key under which the product registration form is persisted between sessions
	ProductDraftKey string `mapstructure:"product_draft_key"`

	// Idle time after which an API resolver session is discarded
	ResolverSessionTTL time.Duration `mapstructure:"resolver_session_ttl"`

	// Requests per second allowed per IP on /auth
	AuthRateLimit float64 `mapstructure:"auth_rate_limit"`
	AuthRateBurst int     `mapstructure:"auth_rate_burst"`

	ConfigPath string
}

const (
	DefaultConfigPath      = "/etc/stockpoint/config.yml"
	DefaultDBPath          = "/var/lib/stockpoint/stockpoint.sqlite3"
	DefaultAPIHost         = "0.0.0.0"
	DefaultAPIPort         = 8340
	DefaultLogLevel        = "info"
	DefaultLogFormat       = "json"
	DefaultLogOutput       = "stderr"
	DefaultJWTAlgorithm    = "HS256"
	DefaultProductDraftKey = "product_form"

	DefaultResolverSessionTTL = 30 * time.Minute
	DefaultAuthRateLimit      = 1.0
	DefaultAuthRateBurst      = 5
)

func Load(configPath string) (*Config, error) {
	if configPath == "" {
		configPath = DefaultConfigPath
	}

	v := viper.New()
	v.SetConfigFile(configPath)
	v.SetConfigType("yaml")

	v.SetDefault("db_path", DefaultDBPath)
	v.SetDefault("api_host", DefaultAPIHost)
	v.SetDefault("api_port", DefaultAPIPort)
	v.SetDefault("log_level", DefaultLogLevel)
	v.SetDefault("log_format", DefaultLogFormat)
	v.SetDefault("log_output", DefaultLogOutput)
	v.SetDefault("jwt_algorithm", DefaultJWTAlgorithm)
	v.SetDefault("product_draft_key", DefaultProductDraftKey)
	v.SetDefault("resolver_session_ttl", DefaultResolverSessionTTL)
	v.SetDefault("auth_rate_limit", DefaultAuthRateLimit)
	v.SetDefault("auth_rate_burst", DefaultAuthRateBurst)

	// Allow environment variable overrides
	v.SetEnvPrefix("STOCKPOINT")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	cfg.ConfigPath = configPath

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) Validate() error {
	if c.JWTSecretKey == "" {
		return fmt.Errorf("jwt_secret_key is required")
	}

	if c.DBPath == "" {
		return fmt.Errorf("db_path is required")
	}

	switch c.JWTAlgorithm {
	case "HS256", "HS384", "HS512":
	default:
		return fmt.Errorf("jwt_algorithm must be one of HS256, HS384, HS512")
	}

	if c.LogFormat != "json" && c.LogFormat != "console" {
		return fmt.Errorf("log_format must be 'json' or 'console'")
	}

	if c.ResolverSessionTTL < 0 {
		return fmt.Errorf("resolver_session_ttl must not be negative")
	}

	if c.APIPort <= 0 || c.APIPort > 65535 {
		return fmt.Errorf("api_port out of range: %d", c.APIPort)
	}

	// Validate SSL config if provided
	if c.SSLCert != "" || c.SSLKey != "" {
		if c.SSLCert == "" || c.SSLKey == "" {
			return fmt.Errorf("both ssl_cert and ssl_key must be provided")
		}
		if _, err := os.Stat(c.SSLCert); os.IsNotExist(err) {
			return fmt.Errorf("ssl_cert file does not exist: %s", c.SSLCert)
		}
		if _, err := os.Stat(c.SSLKey); os.IsNotExist(err) {
			return fmt.Errorf("ssl_key file does not exist: %s", c.SSLKey)
		}
	}

	return nil
}

func (c *Config) IsDevMode() bool {
	return os.Getenv("STOCKPOINT_DEV_MODE") == "1"
}
