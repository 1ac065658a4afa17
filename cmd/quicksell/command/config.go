package command

import (
	"fmt"

	"github.com/pixil98/go-errors"

	"github.com/pixil98/go-quicksell/internal/quicksell"
)

type Config struct {
	Nats     NatsConfig         `json:"nats"`
	Storage  StorageConfig      `json:"storage"`
	Economy  EconomyConfig      `json:"economy"`
	Menu     MenuConfig         `json:"menu"`
	Messages quicksell.Messages `json:"messages"`
}

func (c *Config) Validate() error {
	el := errors.NewErrorList()

	el.Add(c.Nats.validate())
	el.Add(c.Storage.validate())
	el.Add(c.Economy.validate())
	el.Add(c.Menu.validate())

	if err := c.Messages.Validate(); err != nil {
		el.Add(fmt.Errorf("messages: %w", err))
	}

	if c.Economy.Ledger && c.Storage.AccountsPath == "" {
		el.Add(fmt.Errorf("storage.accounts_path is required when the ledger is enabled"))
	}

	return el.Err()
}
