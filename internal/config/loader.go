package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// Loader reads configuration from an optional JSON file plus LAPOR_-prefixed
// environment variables (env wins).
type Loader struct {
	configPath string
}

func NewLoader(configPath string) *Loader {
	return &Loader{configPath: configPath}
}

// Load builds the configuration: defaults, then file, then environment.
func (l *Loader) Load() (*Config, error) {
	v := viper.New()

	v.SetDefault("port", "8080")
	v.SetDefault("static_dir", "static")
	v.SetDefault("sessions_dir", "chat_sessions")
	v.SetDefault("storage_backend", "file")
	v.SetDefault("use_mock_llm", false)
	// Empty defaults keep these keys visible to AutomaticEnv.
	v.SetDefault("gcp_project", "")
	v.SetDefault("datastore_id", "")
	v.SetDefault("gcp_location", "us-central1")
	v.SetDefault("model_name", "gemini-2.0-flash-001")
	v.SetDefault("generation.temperature", 1.0)
	v.SetDefault("generation.top_p", 1.0)
	v.SetDefault("generation.seed", 0)
	v.SetDefault("generation.max_output_tokens", 8192)
	v.SetDefault("generation.disable_safety", true)
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.console", true)
	v.SetDefault("logging.file", "app_logs/application.log")
	v.SetDefault("logging.pretty", false)
	v.SetDefault("logging.max_size", 10)
	v.SetDefault("logging.max_backups", 5)
	v.SetDefault("logging.max_age", 0)
	v.SetDefault("logging.compress", false)

	v.SetEnvPrefix("LAPOR")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if l.configPath != "" {
		if _, err := os.Stat(l.configPath); err != nil {
			return nil, fmt.Errorf("config file %s: %w", l.configPath, err)
		}
		v.SetConfigFile(l.configPath)
		v.SetConfigType("json")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}
