package config

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config is the central typed configuration struct.
type Config struct {
	App       AppConfig
	Container ContainerConfig
	Metrics   MetricsConfig
}

type AppConfig struct {
	Name  string `env:"APP_NAME" envDefault:"GoInject"`
	Env   string `env:"APP_ENV" envDefault:"local"` // local | production | testing
	Debug bool   `env:"APP_DEBUG" envDefault:"true"`
	Port  string `env:"APP_PORT" envDefault:"8000"`
}

// ContainerConfig controls the dependency graph checks run at boot.
type ContainerConfig struct {
	// Check validates every binding once providers have booted.
	Check bool `env:"CONTAINER_CHECK" envDefault:"true"`
	// DebugRoutes exposes GET /_container with the bound keys.
	DebugRoutes bool `env:"CONTAINER_DEBUG_ROUTES" envDefault:"false"`
}

type MetricsConfig struct {
	Enabled bool   `env:"METRICS_ENABLED" envDefault:"true"`
	Path    string `env:"METRICS_PATH" envDefault:"/metrics"`
}

// Load reads the given env files, or .env if present, and populates a Config from environment
// variables. Variables already set in the environment win over the files.
//
//	cfg, err := config.Load()
func Load(envFiles ...string) (*Config, error) {
	files := envFiles
	if len(files) == 0 {
		files = []string{".env"}
	}
	if err := godotenv.Load(files...); err != nil {
		// the default .env may not exist in production; named files must
		if len(envFiles) > 0 || !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("config: loading %v: %w", files, err)
		}
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &cfg, nil
}

func (c AppConfig) IsLocal() bool      { return c.Env == "local" }
func (c AppConfig) IsProduction() bool { return c.Env == "production" }
func (c AppConfig) IsTesting() bool    { return c.Env == "testing" }
