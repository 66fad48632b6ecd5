package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server struct {
		Port string `yaml:"port"`
	} `yaml:"server"`
	Redis struct {
		Addr     string `yaml:"addr"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
		GuardTTL string `yaml:"guard_ttl"`
		ClaimTTL string `yaml:"claim_ttl"`
	} `yaml:"redis"`
	Postgres struct {
		URL string `yaml:"url"`
	} `yaml:"postgres"`
	Quiz struct {
		Room            string `yaml:"room"`
		Length          int    `yaml:"length"`
		SourceURL       string `yaml:"source_url"`
		SourcePath      string `yaml:"source_path"`
		RegistrationURL string `yaml:"registration_url"`
		ClaimPrefix     string `yaml:"claim_prefix"`
		BankTTL         string `yaml:"bank_ttl"`
	} `yaml:"quiz"`
}

// Load reads YAML config from path and applies kiosk defaults.
func Load(path string) (Config, error) {
	cfg := Config{}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	applyDefaults(&cfg)
	return cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Quiz.Room == "" {
		cfg.Quiz.Room = "energia"
	}
	if cfg.Quiz.Length <= 0 {
		cfg.Quiz.Length = 6
	}
	if cfg.Quiz.RegistrationURL == "" {
		cfg.Quiz.RegistrationURL = "/registro.html"
	}
	if cfg.Quiz.ClaimPrefix == "" {
		cfg.Quiz.ClaimPrefix = "MUCH"
	}
	if cfg.Quiz.SourceURL == "" && cfg.Quiz.SourcePath == "" {
		cfg.Quiz.SourcePath = "data/preguntas.json"
	}
}

// TTLDuration parses a duration string or returns the fallback if empty.
func TTLDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}
	if d, err := time.ParseDuration(raw); err == nil {
		return d
	}
	return fallback
}
