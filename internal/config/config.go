package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config holds application configuration. It is built once at process
// start and passed into component constructors; nothing reads it from
// ambient state afterwards.
type Config struct {
	Server  ServerConfig
	Catalog CatalogConfig
	LLM     LLMConfig
	Places  PlacesConfig
}

// ServerConfig holds HTTP listener settings.
type ServerConfig struct {
	Addr string
}

// CatalogConfig holds the task catalog location.
type CatalogConfig struct {
	Path string
}

// LLMConfig holds language-model provider settings.
type LLMConfig struct {
	Provider  string
	APIKeyEnv string `mapstructure:"api_key_env"`
	APIKey    string `mapstructure:"api_key"`
	Model     string
}

// PlacesConfig holds places-search settings.
type PlacesConfig struct {
	APIKeyEnv     string `mapstructure:"api_key_env"`
	APIKey        string `mapstructure:"api_key"`
	BaseURL       string `mapstructure:"base_url"`
	DefaultRadius int    `mapstructure:"default_radius_m"`
}

// Load reads configuration from file and env. Env var overrides use prefix SEVADESK_.
func Load() (Config, error) {
	v := viper.New()

	// default values
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("catalog.path", "tasks.json")
	v.SetDefault("llm.provider", "gemini")
	v.SetDefault("llm.api_key_env", "GEMINI_API_KEY")
	v.SetDefault("llm.api_key", "")
	v.SetDefault("llm.model", "gemini-2.0-flash")
	v.SetDefault("places.api_key_env", "GOOGLE_API_KEY")
	v.SetDefault("places.api_key", "")
	v.SetDefault("places.base_url", "https://maps.googleapis.com/maps/api/place/nearbysearch/json")
	v.SetDefault("places.default_radius_m", 5000)

	v.SetConfigType("toml")

	cfgPath := os.Getenv("SEVADESK_CONFIG")
	if cfgPath != "" {
		v.SetConfigFile(cfgPath)
	} else {
		v.AddConfigPath(filepath.Join(os.Getenv("HOME"), ".config", "sevadesk"))
		v.SetConfigName("config")
	}

	v.SetEnvPrefix("SEVADESK")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// read config file if present
	_ = v.ReadInConfig()

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	return c, nil
}

// Save writes the provided config to disk, creating the config directory if needed.
// The API keys are stored in plain text in the config file; encourage users to
// prefer env vars or the secrets store.
func Save(cfg Config) error {
	path := os.Getenv("SEVADESK_CONFIG")
	if path == "" {
		path = filepath.Join(os.Getenv("HOME"), ".config", "sevadesk", "config.toml")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir config dir: %w", err)
	}

	v := viper.New()
	v.SetConfigType("toml")
	v.Set("server.addr", cfg.Server.Addr)
	v.Set("catalog.path", cfg.Catalog.Path)
	v.Set("llm.provider", cfg.LLM.Provider)
	v.Set("llm.api_key_env", cfg.LLM.APIKeyEnv)
	v.Set("llm.api_key", cfg.LLM.APIKey)
	v.Set("llm.model", cfg.LLM.Model)
	v.Set("places.api_key_env", cfg.Places.APIKeyEnv)
	v.Set("places.api_key", cfg.Places.APIKey)
	v.Set("places.base_url", cfg.Places.BaseURL)
	v.Set("places.default_radius_m", cfg.Places.DefaultRadius)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
