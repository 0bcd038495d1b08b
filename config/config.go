package config

import (
	"bytes"
	_ "embed"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

//go:embed config.yml
var embeddedConfig []byte

type JWTConfig struct {
	SecretKey string `mapstructure:"secretKey"`
	Issuer    string `mapstructure:"issuer"`
	Audience  string `mapstructure:"audience"`
}

type PlannerConfig struct {
	Provider     string  `mapstructure:"provider"`
	GeminiModel  string  `mapstructure:"geminiModel"`
	GeminiAPIKey string  `mapstructure:"geminiAPIKey"`
	OpenAIModel  string  `mapstructure:"openAIModel"`
	OpenAIAPIKey string  `mapstructure:"openAIAPIKey"`
	OpenAIURL    string  `mapstructure:"openAIURL"`
	Temperature  float32 `mapstructure:"temperature"`
}

type Config struct {
	Mode     string `mapstructure:"mode"`
	LogLevel string `mapstructure:"logLevel"`
	Server   struct {
		HTTPPort        string        `mapstructure:"HTTPPort"`
		Timeout         time.Duration `mapstructure:"HTTPTimeout"`
		ReadTimeout     time.Duration `mapstructure:"readTimeout"`
		WriteTimeout    time.Duration `mapstructure:"writeTimeout"`
		ShutdownTimeout time.Duration `mapstructure:"shutdownTimeout"`
		AllowedOrigins  []string      `mapstructure:"allowedOrigins"`
	} `mapstructure:"server"`
	Repositories struct {
		Postgres struct {
			Host     string `mapstructure:"host"`
			Password string `mapstructure:"password"`
			Port     string `mapstructure:"port"`
			Username string `mapstructure:"username"`
			DB       string `mapstructure:"db"`
			SSLMode  string `mapstructure:"sslmode"`
			MaxConns int32  `mapstructure:"maxConns"`
		} `mapstructure:"postgres"`
	} `mapstructure:"repositories"`
	JWT         JWTConfig     `mapstructure:"jwt"`
	Planner     PlannerConfig `mapstructure:"planner"`
	Suggestions struct {
		SessionTTL time.Duration `mapstructure:"sessionTTL"`
	} `mapstructure:"suggestions"`
	Otel struct {
		ServiceName string `mapstructure:"serviceName"`
	} `mapstructure:"otel"`
}

// InitConfig loads config.yml from the usual locations, falling back to the embedded
// copy. Any key can be overridden with a TRIP_ prefixed variable, e.g. TRIP_JWT_SECRETKEY.
func InitConfig() (Config, error) {
	var config Config
	v := viper.New()

	v.AddConfigPath(".")
	v.AddConfigPath("config")
	v.AddConfigPath("/app/config")

	v.SetConfigName("config")
	v.SetConfigType("yml")

	v.SetEnvPrefix("TRIP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	err := v.ReadInConfig()
	if err != nil {
		fmt.Printf("Warning: Failed to find file-based config: %s. Falling back to embedded config.\n", err)
		if err = v.ReadConfig(bytes.NewReader(embeddedConfig)); err != nil {
			return Config{}, fmt.Errorf("failed to read embedded config: %w", err)
		}
	}

	if err = v.Unmarshal(&config); err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return config, nil
}
