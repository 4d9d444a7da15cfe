package config

import (
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Service         ServiceConfig        `mapstructure:"service"`
	Databases       DatabasesConfig      `mapstructure:"databases"`
	Auth            AuthConfig           `mapstructure:"auth"`
	ExternalClients ExternalClientConfig `mapstructure:"externalClients"`
	Billing         BillingConfig        `mapstructure:"billing"`
	Limits          LimitsConfig         `mapstructure:"limits"`
	AWS             AWSConfig            `mapstructure:"aws"`
}

type ServiceType string

const (
	API    ServiceType = "API"
	WORKER ServiceType = "WORKER"
)

type ServiceConfig struct {
	Type     ServiceType `mapstructure:"type"`
	Port     string      `mapstructure:"port"`
	LogLevel string      `mapstructure:"logLevel"`
}

type DatabasesConfig struct {
	SQL   SQLConfig   `mapstructure:"sql"`
	Redis RedisConfig `mapstructure:"redis"`
}

type SQLConfig struct {
	Host             string `mapstructure:"host"`
	Port             string `mapstructure:"port"`
	Username         string `mapstructure:"username"`
	Password         string `mapstructure:"password"`
	Database         string `mapstructure:"database"`
	ConnectionString string `mapstructure:"connection_string"`
}

type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	Database int    `mapstructure:"database"`
}

type AuthConfig struct {
	JWTSecret     string `mapstructure:"jwtSecret"`
	TokenTTLHours int    `mapstructure:"tokenTTLHours"`
}

type ExternalClientConfig struct {
	Broker BrokerConfig `mapstructure:"broker"`
	LLM    LLMConfig    `mapstructure:"llm"`
}

type BrokerConfig struct {
	BaseURL  string `mapstructure:"baseUrl"`
	LoginURL string `mapstructure:"loginUrl"`
	APIKey   string `mapstructure:"apiKey"`
	// APISecret may instead come from the secrets manager in non-local envs.
	APISecret string `mapstructure:"apiSecret"`
	// AccessToken is the service-level data token the worker refreshes quotes with.
	AccessToken string `mapstructure:"accessToken"`
}

type LLMConfig struct {
	BaseURL string `mapstructure:"baseUrl"`
	APIKey  string `mapstructure:"apiKey"`
	Model   string `mapstructure:"model"`
}

type BillingConfig struct {
	WebhookSecret string `mapstructure:"webhookSecret"`
	ProPlanAmount string `mapstructure:"proPlanAmount"`
	Currency      string `mapstructure:"currency"`
}

type LimitsConfig struct {
	FreeWidgetLimit int `mapstructure:"freeWidgetLimit"`
}

type AWSConfig struct {
	Region   string `mapstructure:"region"`
	SecretID string `mapstructure:"secretId"`
}

// LoadConfig reads settings/appsettings.yaml (plus appsettings.<ENV>.yaml when
// env is set), applies declared defaults and environment overrides, and
// validates required keys.
func LoadConfig(path, env string) (*Config, error) {
	var cfg Config

	// .env is optional, used for local development only
	_ = godotenv.Load()

	viper.AddConfigPath(path)
	viper.SetConfigName("appsettings")
	viper.SetConfigType("yaml")

	setDefaults()

	viper.SetEnvPrefix("KITEMATE")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		return nil, err
	}

	if env != "" {
		viper.SetConfigName("appsettings." + env)
		if err := viper.MergeInConfig(); err != nil {
			return nil, fmt.Errorf("failed to merge config for env %s: %w", env, err)
		}
	}

	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults() {
	viper.SetDefault("service.type", string(API))
	viper.SetDefault("service.port", "8000")
	viper.SetDefault("service.logLevel", "info")
	viper.SetDefault("databases.sql.port", "5432")
	viper.SetDefault("databases.redis.port", "6379")
	viper.SetDefault("databases.redis.database", 0)
	viper.SetDefault("auth.tokenTTLHours", 24)
	viper.SetDefault("limits.freeWidgetLimit", 3)
	viper.SetDefault("billing.currency", "INR")
	viper.SetDefault("externalClients.llm.model", "gpt-4o-mini")
}

// Validate checks required keys and value ranges up front so a misconfigured
// instance fails at boot instead of on the first request.
func (c *Config) Validate() error {
	var missing []string

	if c.Service.Type != API && c.Service.Type != WORKER {
		return fmt.Errorf("service.type must be API or WORKER, got %q", c.Service.Type)
	}
	if c.Databases.SQL.ConnectionString == "" && (c.Databases.SQL.Host == "" || c.Databases.SQL.Database == "") {
		missing = append(missing, "databases.sql.host/database (or connection_string)")
	}
	if c.Auth.JWTSecret == "" && c.AWS.SecretID == "" {
		missing = append(missing, "auth.jwtSecret (or aws.secretId)")
	}
	if c.ExternalClients.Broker.APIKey == "" {
		missing = append(missing, "externalClients.broker.apiKey")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required config: %s", strings.Join(missing, ", "))
	}

	if c.Auth.TokenTTLHours <= 0 {
		return fmt.Errorf("auth.tokenTTLHours must be positive")
	}
	if c.Limits.FreeWidgetLimit < 0 {
		return fmt.Errorf("limits.freeWidgetLimit must not be negative")
	}
	return nil
}

// DSN assembles the Postgres connection string.
func (c *Config) DSN() string {
	if c.Databases.SQL.ConnectionString != "" {
		return c.Databases.SQL.ConnectionString
	}
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		c.Databases.SQL.Host,
		c.Databases.SQL.Username,
		c.Databases.SQL.Password,
		c.Databases.SQL.Database,
		c.Databases.SQL.Port)
}
