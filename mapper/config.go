// CLAUDE:SUMMARY Session configuration and YAML loader for the mapper.
package mapper

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all mapper configuration.
type Config struct {
	// GridTokens are class/id tokens that mark repeating listing grids;
	// their ancestors survive link-density filtering.
	GridTokens []string `yaml:"grid_tokens"`
	// Threshold is the weight filter's removal cutoff.
	Threshold float64 `yaml:"threshold"`
	// MaxImages bounds how many content images one PageMap carries.
	MaxImages int `yaml:"max_images"`

	Cache    CacheConfig    `yaml:"cache"`
	Template TemplateConfig `yaml:"template"`
}

// CacheConfig controls the page cache layer.
type CacheConfig struct {
	Capacity int           `yaml:"capacity"`
	TTL      time.Duration `yaml:"ttl"`
}

// TemplateConfig controls the template learning cache.
type TemplateConfig struct {
	TTL    time.Duration `yaml:"ttl"`
	DBPath string        `yaml:"db_path"`
}

func (c *Config) defaults() {
	if len(c.GridTokens) == 0 {
		c.GridTokens = []string{"grid", "cards", "results", "products", "items", "catalog"}
	}
	if c.Threshold <= 0 {
		c.Threshold = 0.5
	}
	if c.MaxImages <= 0 {
		c.MaxImages = 10
	}
	if c.Cache.Capacity <= 0 {
		c.Cache.Capacity = 20
	}
	if c.Cache.TTL <= 0 {
		c.Cache.TTL = 90 * time.Second
	}
	if c.Template.TTL <= 0 {
		c.Template.TTL = 24 * time.Hour
	}
}

// LoadConfigFile reads a YAML config file.
func LoadConfigFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
