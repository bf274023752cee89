package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Parse loads .env (if any) then reads path, when it exists, with the
// environment layered on top. An empty or missing path reads only the
// environment.
func Parse(path string) (Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if err := cleanenv.ReadConfig(path, &cfg); err != nil {
				return Config{}, fmt.Errorf("parse cfg %s: %w", path, err)
			}
			return cfg, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("parse cfg: %w", err)
		}
	}

	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse cfg: %w", err)
	}
	return cfg, nil
}

// Write stores cfg as YAML at path, creating parent directories.
func Write(path string, cfg Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal cfg: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("write cfg: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write cfg: %w", err)
	}
	return nil
}

// Usage describes every environment variable, for --help output.
func Usage() string {
	var cfg Config
	desc, err := cleanenv.GetDescription(&cfg, nil)
	if err != nil {
		return ""
	}
	return desc
}
