package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
)

// Config holds process settings. Values come from the environment, optionally
// seeded by .env files; CLI flags override them afterwards.
type Config struct {
	DBPath      string `env:"LFM_DB_PATH" envDefault:"liveforever.db" validate:"required"`
	DumpPath    string `env:"LFM_DUMP_PATH" envDefault:"storage/app/Sql1706700_3.sql" validate:"required"`
	HTTPAddr    string `env:"LFM_HTTP_ADDR" envDefault:":8080" validate:"required"`
	RPCSocket   string `env:"LFM_RPC_SOCKET" envDefault:"/tmp/liveforever-migrate.sock" validate:"required"`
	LogLevel    string `env:"LFM_LOG_LEVEL" envDefault:"info" validate:"oneof=debug info warn error"`
	LogDev      bool   `env:"LFM_LOG_DEV"`
	BcryptCost  int    `env:"LFM_BCRYPT_COST" envDefault:"10"`
	EmailDomain string `env:"LFM_EMAIL_DOMAIN" envDefault:"migrated.liveforever.local" validate:"required,hostname"`
}

// LoadEnv loads the given .env files that exist. Variables already set in the
// environment win.
func LoadEnv(files ...string) (int, error) {
	existing := make([]string, 0, len(files))
	for _, file := range files {
		if _, err := os.Stat(file); err == nil {
			existing = append(existing, file)
		}
	}
	if len(existing) == 0 {
		return 0, nil
	}
	return len(existing), godotenv.Load(existing...)
}

func Load(envFiles ...string) (Config, error) {
	if _, err := LoadEnv(envFiles...); err != nil {
		return Config{}, fmt.Errorf("load env files: %w", err)
	}
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if c.BcryptCost < bcrypt.MinCost || c.BcryptCost > bcrypt.MaxCost {
		return errors.New("invalid config: LFM_BCRYPT_COST out of range")
	}
	return nil
}
