package config

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	HTTPAddr string     `env:"HTTP_ADDR" envDefault:":8080"`
	LogLevel slog.Level `env:"LOG_LEVEL" envDefault:"INFO"`

	// Model collaborator. The endpoint must speak the OpenAI responses
	// protocol; the timeout is enforced locally since the endpoint offers none.
	ModelURL     string        `env:"MODEL_URL" envDefault:"https://api.openai.com/v1/responses"`
	ModelAPIKey  string        `env:"MODEL_API_KEY"`
	ModelName    string        `env:"MODEL_NAME" envDefault:"llama-3.3-70b-instruct"`
	ModelTimeout time.Duration `env:"MODEL_TIMEOUT" envDefault:"15s"`

	SessionMaxInactive time.Duration `env:"SESSION_MAX_INACTIVE" envDefault:"1h"`
	SweepInterval      time.Duration `env:"SWEEP_INTERVAL" envDefault:"10m"`

	// MaxRounds is advisory only; the update path does not enforce it.
	MaxRounds int `env:"MAX_ROUNDS" envDefault:"100"`

	HistoryDBPath string `env:"HISTORY_DB_PATH" envDefault:"data/history.db"`
}

func Load() (*Config, error) {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, fmt.Errorf("parsing environment: %w", err)
	}
	return &cfg, nil
}
