package config

import (
	"errors"
	"os"
	"strings"
	"time"

	"github.com/Dhoini/billing-gateway/internal/provider/asaas"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// RouteConfig describes one legacy endpoint added on top of the built-in table.
type RouteConfig struct {
	LegacyPath    string `mapstructure:"legacyPath"`
	Method        string `mapstructure:"method"`
	CanonicalPath string `mapstructure:"canonicalPath"`
}

// Config представляет структуру конфигурации для приложения.
type Config struct {
	App struct {
		Port            string        `mapstructure:"port"`
		Env             string        `mapstructure:"env"`
		ShutdownTimeout time.Duration `mapstructure:"shutdownTimeout"`
	} `mapstructure:"app"`
	Gateway struct {
		BackendBaseURL string        `mapstructure:"backendBaseURL"`
		Timeout        time.Duration `mapstructure:"timeout"`
		Routes         []RouteConfig `mapstructure:"routes"`
	} `mapstructure:"gateway"`
	Mongo struct {
		URI            string        `mapstructure:"uri"`
		Database       string        `mapstructure:"database"`
		ConnectTimeout time.Duration `mapstructure:"connectTimeout"`
	} `mapstructure:"mongo"`
	Redis struct {
		Addr     string        `mapstructure:"addr"`
		Password string        `mapstructure:"password"`
		DB       int           `mapstructure:"db"`
		TTL      time.Duration `mapstructure:"ttl"`
	} `mapstructure:"redis"`
	Kafka struct {
		Brokers []string `mapstructure:"brokers"`
		Topic   string   `mapstructure:"topic"`
	} `mapstructure:"kafka"`
	Asaas struct {
		APIKey        string        `mapstructure:"apiKey"`
		BaseURL       string        `mapstructure:"baseURL"`
		Sandbox       bool          `mapstructure:"sandbox"`
		Timeout       time.Duration `mapstructure:"timeout"`
		RatePerMinute int           `mapstructure:"ratePerMinute"` // 0 без лимита
	} `mapstructure:"asaas"`
	Hubla struct {
		APIKey        string        `mapstructure:"apiKey"`
		BaseURL       string        `mapstructure:"baseURL"`
		Timeout       time.Duration `mapstructure:"timeout"`
		RatePerMinute int           `mapstructure:"ratePerMinute"`
	} `mapstructure:"hubla"`
	Breaker struct {
		FailureThreshold uint32        `mapstructure:"failureThreshold"`
		RecoveryTime     time.Duration `mapstructure:"recoveryTime"`
	} `mapstructure:"breaker"`
	Auth struct {
		JWTSecret string `mapstructure:"jwtSecret"`
	} `mapstructure:"auth"`
	CORS struct {
		AllowOrigins []string `mapstructure:"allowOrigins"`
	} `mapstructure:"cors"`
	Logging struct {
		Level string `mapstructure:"level"`
	} `mapstructure:"logging"`
}

// IsProduction reports whether detailed error messages must be hidden.
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.App.Env, "production")
}

// AsaasBaseURL returns the configured URL or the default for the selected environment.
func (c *Config) AsaasBaseURL() string {
	if c.Asaas.BaseURL != "" {
		return strings.TrimRight(c.Asaas.BaseURL, "/")
	}
	if c.Asaas.Sandbox {
		return asaas.SandboxURL
	}
	return asaas.ProductionURL
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.port", "8080")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.shutdownTimeout", 10*time.Second)

	v.SetDefault("gateway.backendBaseURL", "http://localhost:8080")
	v.SetDefault("gateway.timeout", 5*time.Second)

	v.SetDefault("mongo.uri", "")
	v.SetDefault("mongo.database", "billing")
	v.SetDefault("mongo.connectTimeout", 10*time.Second)

	v.SetDefault("redis.addr", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.ttl", 15*time.Minute)

	v.SetDefault("kafka.brokers", []string{})
	v.SetDefault("kafka.topic", "subscription_plan_changed")

	v.SetDefault("asaas.apiKey", "")
	v.SetDefault("asaas.baseURL", "")
	v.SetDefault("asaas.sandbox", true)
	v.SetDefault("asaas.timeout", 10*time.Second)
	v.SetDefault("asaas.ratePerMinute", 0)

	v.SetDefault("hubla.apiKey", "")
	v.SetDefault("hubla.baseURL", "https://api.hub.la/v1")
	v.SetDefault("hubla.timeout", 10*time.Second)
	v.SetDefault("hubla.ratePerMinute", 0)

	v.SetDefault("breaker.failureThreshold", 5)
	v.SetDefault("breaker.recoveryTime", 30*time.Second)

	v.SetDefault("auth.jwtSecret", "")
	v.SetDefault("cors.allowOrigins", []string{"*"})
	v.SetDefault("logging.level", "info")
}

// LoadConfig загружает конфигурацию из файла (опционально) и переменных окружения.
// Environment keys are the upper-cased dotted path: GATEWAY_BACKENDBASEURL, ASAAS_APIKEY, ...
func LoadConfig(envFile string) (*Config, error) {
	if os.Getenv("APP_ENV") != "production" && envFile != "" {
		// .env is a local convenience only
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
	}

	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	cfg.Gateway.BackendBaseURL = strings.TrimRight(cfg.Gateway.BackendBaseURL, "/")

	return &cfg, nil
}
