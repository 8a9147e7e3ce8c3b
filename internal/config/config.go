package config

import (
	"errors"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// ErrMissingJWTSecret is returned when no signing secret is configured.
var ErrMissingJWTSecret = errors.New("JWT_SECRET not found in environment or config file")

type Config struct {
	App struct {
		Env      string `mapstructure:"env"`
		Timezone string `mapstructure:"timezone"`
	} `mapstructure:"app"`

	Server struct {
		Port               int      `mapstructure:"port"`
		CorsAllowedOrigins []string `mapstructure:"cors_allowed_origins"`
		CorsAllowedMethods []string `mapstructure:"cors_allowed_methods"`
		CorsAllowedHeaders []string `mapstructure:"cors_allowed_headers"`
		SecureCookies      bool     `mapstructure:"secure_cookies"`
		// TrustedProxies lists the peers (IPs or CIDRs) whose X-Forwarded-For is believed.
		TrustedProxies []string `mapstructure:"trusted_proxies"`
	} `mapstructure:"server"`

	Database struct {
		Host     string `mapstructure:"host"`
		Port     int    `mapstructure:"port"`
		User     string `mapstructure:"user"`
		Password string `mapstructure:"password"`
		Name     string `mapstructure:"name"`
		SSLMode  string `mapstructure:"sslmode"`
	} `mapstructure:"database"`

	JWT struct {
		Secret          string `mapstructure:"secret"`
		ExpirationHours int    `mapstructure:"expiration_hours"`
		Issuer          string `mapstructure:"issuer"`
	} `mapstructure:"jwt"`

	Redis struct {
		Addr     string `mapstructure:"addr"`
		Password string `mapstructure:"password"`
		DB       int    `mapstructure:"db"`
	} `mapstructure:"redis"`

	// Storage is any S3-compatible bucket (AWS, R2, MinIO). Empty bucket disables exports.
	Storage struct {
		Endpoint  string `mapstructure:"endpoint"`
		Region    string `mapstructure:"region"`
		Bucket    string `mapstructure:"bucket"`
		AccessKey string `mapstructure:"access_key"`
		SecretKey string `mapstructure:"secret_key"`
	} `mapstructure:"storage"`

	Policy struct {
		OperatorTriageScope     string `mapstructure:"operator_triage_scope"`
		OperatorRequiresClockIn bool   `mapstructure:"operator_requires_clock_in"`
	} `mapstructure:"policy"`

	Contact struct {
		RateLimitPerHour int `mapstructure:"rate_limit_per_hour"`
	} `mapstructure:"contact"`

	// ConfigFileUsed is empty when running on defaults only.
	ConfigFileUsed string `mapstructure:"-"`
}

// IsProduction reports whether the app runs with production logging and cookies.
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.App.Env, "production")
}

func Load() (*Config, error) {
	// .env is optional (absent in production)
	godotenv.Load()

	v := viper.New()
	v.SetConfigType("yaml")
	v.SetConfigFile("configs/config.yaml")

	v.AutomaticEnv()

	// Sensible defaults so the binary runs without a config file
	v.SetDefault("app.env", "development")
	v.SetDefault("app.timezone", "Africa/Algiers")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.cors_allowed_origins", []string{"http://localhost:3000"})
	v.SetDefault("server.cors_allowed_methods", []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"})
	v.SetDefault("server.cors_allowed_headers", []string{"Authorization", "Content-Type"})
	v.SetDefault("jwt.expiration_hours", 24)
	v.SetDefault("jwt.issuer", "studyabroad-backend")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.name", "studyabroad")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("storage.region", "auto")
	v.SetDefault("policy.operator_triage_scope", "any")
	v.SetDefault("policy.operator_requires_clock_in", true)
	v.SetDefault("contact.rate_limit_per_hour", 10)

	configFile := ""
	if err := v.ReadInConfig(); err == nil {
		configFile = v.ConfigFileUsed()
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	cfg.ConfigFileUsed = configFile

	applyEnvOverrides(&cfg)

	if cfg.JWT.Secret == "" || cfg.JWT.Secret == "${JWT_SECRET}" {
		return nil, ErrMissingJWTSecret
	}

	return &cfg, nil
}

// applyEnvOverrides maps the flat deployment variables onto the nested config.
func applyEnvOverrides(cfg *Config) {
	if env := os.Getenv("APP_ENV"); env != "" {
		cfg.App.Env = env
	}
	if port := os.Getenv("PORT"); port != "" {
		if n, err := strconv.Atoi(port); err == nil && n > 0 {
			cfg.Server.Port = n
		}
	}
	if origins := os.Getenv("CORS_ALLOWED_ORIGINS"); origins != "" {
		cfg.Server.CorsAllowedOrigins = splitList(origins)
	}

	if proxies := os.Getenv("TRUSTED_PROXIES"); proxies != "" {
		cfg.Server.TrustedProxies = splitList(proxies)
	}

	if host := os.Getenv("DB_HOST"); host != "" {
		cfg.Database.Host = host
	}
	if port := os.Getenv("DB_PORT"); port != "" {
		if n, err := strconv.Atoi(port); err == nil && n > 0 {
			cfg.Database.Port = n
		}
	}
	if user := os.Getenv("DB_USER"); user != "" {
		cfg.Database.User = user
	}
	if pass := os.Getenv("DB_PASSWORD"); pass != "" {
		cfg.Database.Password = pass
	}
	if name := os.Getenv("DB_NAME"); name != "" {
		cfg.Database.Name = name
	}

	if secret := os.Getenv("JWT_SECRET"); secret != "" {
		cfg.JWT.Secret = secret
	}

	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		cfg.Redis.Addr = addr
	}
	if pass := os.Getenv("REDIS_PASSWORD"); pass != "" {
		cfg.Redis.Password = pass
	}

	if endpoint := os.Getenv("S3_ENDPOINT"); endpoint != "" {
		cfg.Storage.Endpoint = endpoint
	}
	if bucket := os.Getenv("S3_BUCKET"); bucket != "" {
		cfg.Storage.Bucket = bucket
	}
	if key := os.Getenv("S3_ACCESS_KEY"); key != "" {
		cfg.Storage.AccessKey = key
	}
	if secret := os.Getenv("S3_SECRET_KEY"); secret != "" {
		cfg.Storage.SecretKey = secret
	}

	if scope := os.Getenv("OPERATOR_TRIAGE_SCOPE"); scope != "" {
		cfg.Policy.OperatorTriageScope = scope
	}
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
