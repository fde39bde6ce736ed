package config

import (
	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

type Config struct {
	RedisHost string `env:"REDIS_HOST" envDefault:"localhost"`
	RedisPort uint16 `env:"REDIS_PORT" envDefault:"6379" validate:"min=1000,max=65535"`

	PostgresHost     string `env:"POSTGRES_HOST"     envDefault:"localhost"`
	PostgresPort     string `env:"POSTGRES_PORT"     envDefault:"5432"`
	PostgresUser     string `env:"POSTGRES_USER"     envDefault:"chat_user"`
	PostgresPassword string `env:"POSTGRES_PASSWORD" envDefault:"chat_password"`
	PostgresDb       string `env:"POSTGRES_DB"       envDefault:"chat_db"`

	// RoomIDStore selects where reserved room ids live: "redis" survives
	// restarts, "memory" matches a single throwaway instance.
	RoomIDStore string `env:"ROOM_ID_STORE" envDefault:"redis" validate:"oneof=memory redis"`

	// RoomAudit enables the postgres room_sessions trail.
	RoomAudit bool `env:"ROOM_AUDIT" envDefault:"true"`

	// RateLimit is the per-connection message ceiling per trailing minute.
	RateLimit int `env:"CHAT_RATE_LIMIT" envDefault:"20" validate:"min=1"`

	HttpServerPort uint16 `env:"HTTP_SERVER_PORT" envDefault:"8080" validate:"min=1000,max=65535"`
}

func LoadConfig() (*Config, error) {
	// Load environment variables from .env file
	err := godotenv.Load(".env")
	if err != nil {
		zap.L().Debug(".env file not found", zap.Error(err))
	}

	cfg := &Config{}
	// Parse config from environment variables
	if err = env.Parse(cfg); err != nil {
		zap.L().Error("config_load_failed", zap.Error(err))
		return nil, err
	}

	// Validate the config
	validate := validator.New()
	err = validate.Struct(cfg)
	if err != nil {
		zap.L().Error("config_validation_failed", zap.Error(err))
		return nil, err
	}
	return cfg, nil
}
