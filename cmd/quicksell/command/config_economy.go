package command

import (
	"fmt"
	"time"

	"github.com/pixil98/go-errors"
)

type EconomyConfig struct {
	// Ledger runs the built-in provider next to the plugin.
	Ledger       bool   `json:"ledger"`
	ProviderName string `json:"provider_name"`

	DiscoverTimeout string `json:"discover_timeout"`
	RequestTimeout  string `json:"request_timeout"`
}

func (c *EconomyConfig) validate() error {
	el := errors.NewErrorList()

	for name, v := range map[string]string{
		"discover_timeout": c.DiscoverTimeout,
		"request_timeout":  c.RequestTimeout,
	} {
		if v == "" {
			continue
		}
		d, err := time.ParseDuration(v)
		if err != nil {
			el.Add(fmt.Errorf("economy: parsing %s: %w", name, err))
		} else if d <= 0 {
			el.Add(fmt.Errorf("economy: %s must be positive", name))
		}
	}

	return el.Err()
}

func (c *EconomyConfig) providerName() string {
	if c.ProviderName == "" {
		return "quicksell-ledger"
	}
	return c.ProviderName
}
