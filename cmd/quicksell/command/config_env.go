package command

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// envOverrides are read after the config file and win over it.
type envOverrides struct {
	NatsURL      string `env:"QUICKSELL_NATS_URL"`
	PricesPath   string `env:"QUICKSELL_PRICES_PATH"`
	AccountsPath string `env:"QUICKSELL_ACCOUNTS_PATH"`
}

func (c *Config) applyEnv() error {
	var o envOverrides
	if err := env.Parse(&o); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}

	if o.NatsURL != "" {
		c.Nats.URL = o.NatsURL
	}
	if o.PricesPath != "" {
		c.Storage.PricesPath = o.PricesPath
	}
	if o.AccountsPath != "" {
		c.Storage.AccountsPath = o.AccountsPath
	}

	return nil
}
