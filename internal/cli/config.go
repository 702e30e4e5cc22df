package cli

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config is the environment configuration of the CLI. Flags override it.
type Config struct {
	DB            string        `env:"TOUCHBASE_DB"              envDefault:"touchbase.db"`
	BotPrefix     string        `env:"TOUCHBASE_BOT_PREFIX"      envDefault:"mock_user_"`
	TxAttempts    int           `env:"TOUCHBASE_TX_ATTEMPTS"     envDefault:"3"`
	PollInterval  time.Duration `env:"TOUCHBASE_POLL_INTERVAL"   envDefault:"1s"`
	NameCacheSize int           `env:"TOUCHBASE_NAME_CACHE_SIZE" envDefault:"256"`
}

// LoadConfig parses Config from the environment.
func LoadConfig() (Config, error) {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if cfg.TxAttempts < 1 {
		return Config{}, fmt.Errorf("TOUCHBASE_TX_ATTEMPTS must be at least 1, got %d", cfg.TxAttempts)
	}
	if cfg.PollInterval < 0 {
		return Config{}, fmt.Errorf("TOUCHBASE_POLL_INTERVAL must not be negative, got %s", cfg.PollInterval)
	}
	return cfg, nil
}
