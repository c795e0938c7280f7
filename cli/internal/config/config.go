// Package config loads and saves the qb CLI configuration.
package config

import (
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/mitchellh/go-homedir"
	"github.com/spf13/afero"
	"github.com/spf13/viper"
)

// AppFs is the filesystem the CLI reads and writes through; tests swap in a
// memory-backed one.
var AppFs = afero.NewOsFs()

// Config holds the CLI configuration.
type Config struct {
	Provider    string
	DatabaseURL string
}

// Load reads configuration from, in increasing priority: the config file
// (.workers-qb.yaml in the working directory, home, or ~/.config/workers-qb),
// .env and .env.local files, and QB_-prefixed environment variables.
func Load() (*Config, error) {
	home, err := homedir.Dir()
	if err != nil {
		return nil, err
	}

	viper.SetConfigName(".workers-qb")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath(home)
	viper.AddConfigPath(filepath.Join(home, ".config", "workers-qb"))

	viper.SetEnvPrefix("QB")
	viper.AutomaticEnv()

	viper.SetDefault("provider", "sqlite")

	// Missing config file is fine; env and defaults still apply.
	_ = viper.ReadInConfig()

	if _, err := AppFs.Stat(".env"); err == nil {
		_ = godotenv.Load()
	}
	if _, err := AppFs.Stat(".env.local"); err == nil {
		_ = godotenv.Overload(".env.local")
	}

	cfg := &Config{
		Provider:    viper.GetString("provider"),
		DatabaseURL: viper.GetString("database_url"),
	}
	if url := os.Getenv("DATABASE_URL"); cfg.DatabaseURL == "" {
		cfg.DatabaseURL = url
	}
	return cfg, nil
}

// Save writes the configuration to ~/.config/workers-qb/.workers-qb.yaml.
func Save(cfg *Config) error {
	viper.Set("provider", cfg.Provider)
	viper.Set("database_url", cfg.DatabaseURL)

	home, err := homedir.Dir()
	if err != nil {
		return err
	}

	configPath := filepath.Join(home, ".config", "workers-qb")
	if err := AppFs.MkdirAll(configPath, 0755); err != nil {
		return err
	}
	return viper.WriteConfigAs(filepath.Join(configPath, ".workers-qb.yaml"))
}
