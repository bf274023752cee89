// Package config loads the CLI configuration from a YAML file, a .env file
// and the environment, in increasing order of precedence.
package config

import (
	"time"

	"github.com/aretw0/simplelog/pkg/notes"
	"github.com/aretw0/simplelog/pkg/offline"
)

type Config struct {
	App     AppConfig     `yaml:"app" env-prefix:"SIMPLELOG_APP_"`
	Storage StorageConfig `yaml:"storage" env-prefix:"SIMPLELOG_STORAGE_"`
	Cache   CacheConfig   `yaml:"cache" env-prefix:"SIMPLELOG_CACHE_"`
	Server  ServerConfig  `yaml:"server" env-prefix:"SIMPLELOG_SERVER_"`
}

type AppConfig struct {
	LogLevel  string `yaml:"log_level" env:"LOG_LEVEL" env-default:"info"`
	LogFormat string `yaml:"log_format" env:"LOG_FORMAT" env-default:"text"`
	Pretty    bool   `yaml:"pretty" env:"PRETTY" env-default:"false"`
}

type StorageConfig struct {
	Adapter string `yaml:"adapter" env:"ADAPTER" env-default:"fs"`
	Path    string `yaml:"path" env:"PATH" env-default:".simplelog"`
	Key     string `yaml:"key" env:"KEY" env-default:"my-simple-log-notes"`
}

type CacheConfig struct {
	Name       string        `yaml:"name" env:"NAME" env-default:"my-simple-log-cache-v1"`
	URLs       []string      `yaml:"urls" env:"URLS" env-default:"/,/index.html,/style.css,/script.js,/manifest.json,/Images/icons8-adobe-indesign-240.png"`
	Origin     string        `yaml:"origin" env:"ORIGIN" env-default:"http://localhost:8000"`
	Bypass     []string      `yaml:"bypass" env:"BYPASS"`
	OfflineURL string        `yaml:"offline_url" env:"OFFLINE_URL"`
	Retries    uint          `yaml:"retries" env:"RETRIES" env-default:"3"`
	Timeout    time.Duration `yaml:"timeout" env:"TIMEOUT" env-default:"10s"`
}

type ServerConfig struct {
	Addr string `yaml:"addr" env:"ADDR" env-default:":8080"`
}

// Default returns the configuration used when nothing is set.
func Default() Config {
	return Config{
		App: AppConfig{
			LogLevel:  "info",
			LogFormat: "text",
		},
		Storage: StorageConfig{
			Adapter: "fs",
			Path:    ".simplelog",
			Key:     notes.DefaultKey,
		},
		Cache: CacheConfig{
			Name:    offline.DefaultCacheName,
			URLs:    append([]string(nil), offline.DefaultURLs...),
			Origin:  "http://localhost:8000",
			Retries: 3,
			Timeout: 10 * time.Second,
		},
		Server: ServerConfig{
			Addr: ":8080",
		},
	}
}

// Manifest returns the offline manifest described by the cache section.
func (c CacheConfig) Manifest() offline.Manifest {
	return offline.Manifest{Name: c.Name, URLs: append([]string(nil), c.URLs...)}
}
