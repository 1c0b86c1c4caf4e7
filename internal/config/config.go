package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Databases     Databases     `yaml:"databases"`
	HTTP          HTTP          `yaml:"http"`
	BenchSettings BenchSettings `yaml:"bench_settings"`
}

type Databases struct {
	Postgres string `yaml:"postgres"`
	MySQL    string `yaml:"mysql"`
}

type HTTP struct {
	Addr           string   `yaml:"addr"`
	AllowedOrigins []string `yaml:"allowed_origins"`
}

type BenchSettings struct {
	DefaultDuration    string `yaml:"default_duration"`
	DefaultConcurrency int    `yaml:"default_concurrency"`
}

func Load(path string) (*Config, error) {
	config := &Config{}

	file, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	err = yaml.Unmarshal(file, config)
	if err != nil {
		return nil, err
	}

	if config.HTTP.Addr == "" {
		config.HTTP.Addr = ":8080"
	}
	if config.BenchSettings.DefaultConcurrency == 0 {
		config.BenchSettings.DefaultConcurrency = 10
	}
	if config.BenchSettings.DefaultDuration == "" {
		config.BenchSettings.DefaultDuration = "10s"
	}

	return config, nil
}

// Duration parses the configured default bench duration.
func (b BenchSettings) Duration() (time.Duration, error) {
	return time.ParseDuration(b.DefaultDuration)
}
