package server

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds the HTTP server settings. The zero config is not used
// directly; DefaultConfig fills in runnable defaults and a YAML file
// overrides them field by field.
type Config struct {
	Listen       string `yaml:"listen"`
	StaticDir    string `yaml:"staticDir"`
	TemplateDB   string `yaml:"templateDB"`
	Environment  string `yaml:"environment"`
	MaxBodyBytes int64  `yaml:"maxBodyBytes"`
}

func DefaultConfig() Config {
	return Config{
		Listen:       ":3000",
		StaticDir:    "public",
		TemplateDB:   "facture.db",
		Environment:  "development",
		MaxBodyBytes: 50 * 1024 * 1024,
	}
}

// LoadConfig reads a YAML config file over the defaults. An empty path
// returns the defaults unchanged.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("reading config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config %s: %w", path, err)
	}
	return cfg, nil
}

// IsProduction reports whether stack traces should be withheld from error
// responses.
func (c Config) IsProduction() bool {
	return c.Environment == "production"
}
