package config

import (
	"fmt"
	"log/slog"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	HTTPAddr string     `env:"HTTP_ADDR" envDefault:":8080"`
	DBPath   string     `env:"DB_PATH" envDefault:"data/threepins.db"`
	LogLevel slog.Level `env:"LOG_LEVEL" envDefault:"INFO"`

	// GridSize is used for stored puzzles that carry no size of their own.
	GridSize        int `env:"GRID_SIZE" envDefault:"15"`
	ThumbnailSquare int `env:"THUMBNAIL_SQUARE" envDefault:"10"`

	// A staff author is created on startup when both are set and no staff
	// author exists yet.
	AdminUsername string `env:"ADMIN_USERNAME"`
	AdminPassword string `env:"ADMIN_PASSWORD"`
}

func Load() (*Config, error) {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, fmt.Errorf("parsing environment: %w", err)
	}
	if cfg.GridSize <= 0 {
		return nil, fmt.Errorf("GRID_SIZE must be positive, got %d", cfg.GridSize)
	}
	if cfg.ThumbnailSquare <= 0 {
		return nil, fmt.Errorf("THUMBNAIL_SQUARE must be positive, got %d", cfg.ThumbnailSquare)
	}
	return &cfg, nil
}
