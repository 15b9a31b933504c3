package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	Server   ServerConfig   `envPrefix:"SERVER_"`
	OTLP     OTLPConfig     `envPrefix:"OTEL_"`
	Catalog  CatalogConfig  `envPrefix:"CATALOG_"`
	Showcase ShowcaseConfig `envPrefix:"SHOWCASE_"`
}

type ServerConfig struct {
	Port string `env:"PORT" envDefault:"8080"`
	Host string `env:"HOST" envDefault:"0.0.0.0"`
}

type OTLPConfig struct {
	Enabled          bool   `env:"ENABLED" envDefault:"true"`
	Endpoint         string `env:"EXPORTER_OTLP_ENDPOINT" envDefault:"localhost:4317"`
	ServiceName      string `env:"SERVICE_NAME" envDefault:"product-showcase-api"`
	Environment      string `env:"ENVIRONMENT" envDefault:"development"`
	DurationMsMetric bool   `env:"DURATION_MS_METRIC" envDefault:"false"`
}

type CatalogConfig struct {
	URL     string        `env:"URL" envDefault:"https://homework.mocart.io/api/products"`
	Timeout time.Duration `env:"TIMEOUT" envDefault:"10s"`
}

// Input modes of the slot editors
const (
	InputModeKeyboard = "keyboard"
	InputModeDirect   = "direct"
)

type ShowcaseConfig struct {
	SlotCount        int           `env:"SLOT_COUNT" envDefault:"3"`
	Seed             uint64        `env:"SEED" envDefault:"0"`
	FeedbackCooldown time.Duration `env:"FEEDBACK_COOLDOWN" envDefault:"2s"`
	InputMode        string        `env:"INPUT_MODE" envDefault:"keyboard"`
	RotationSpeed    float64       `env:"ROTATION_SPEED" envDefault:"10"`
	SlotSpacing      float64       `env:"SLOT_SPACING" envDefault:"1.5"`
	Tick             time.Duration `env:"TICK" envDefault:"50ms"`
	Assets           []string      `env:"ASSETS" envSeparator:","`
	DisabledControls []string      `env:"DISABLED_CONTROLS" envSeparator:","`
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.Showcase.InputMode {
	case InputModeKeyboard, InputModeDirect:
	default:
		return fmt.Errorf("invalid SHOWCASE_INPUT_MODE %q", c.Showcase.InputMode)
	}
	if c.Showcase.SlotCount < 0 {
		return fmt.Errorf("invalid SHOWCASE_SLOT_COUNT %d", c.Showcase.SlotCount)
	}
	if c.Showcase.Tick <= 0 {
		return fmt.Errorf("invalid SHOWCASE_TICK %s", c.Showcase.Tick)
	}
	return nil
}
