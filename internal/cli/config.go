package cli

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Config holds defaults read from the environment. Flags override them.
type Config struct {
	Format  string  `env:"LAYERBLEND_FORMAT" envDefault:"text"`
	Verbose bool    `env:"LAYERBLEND_VERBOSE"`
	DT      float64 `env:"LAYERBLEND_DT" envDefault:"0.016666668"`
}

// LoadConfig reads Config from the environment.
func LoadConfig() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}
