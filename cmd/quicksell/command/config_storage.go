package command

import (
	"fmt"
	"path/filepath"

	"github.com/pixil98/go-errors"

	"github.com/pixil98/go-quicksell/internal/economy"
	"github.com/pixil98/go-quicksell/internal/pricing"
	"github.com/pixil98/go-quicksell/internal/storage"
)

type StorageConfig struct {
	PricesPath   string `json:"prices_path"`
	AccountsPath string `json:"accounts_path"`
}

func (c *StorageConfig) validate() error {
	el := errors.NewErrorList()

	if c.PricesPath == "" {
		el.Add(fmt.Errorf("storage: prices_path is required"))
	} else {
		switch filepath.Ext(c.PricesPath) {
		case ".yml", ".yaml", ".json":
		default:
			el.Add(fmt.Errorf("storage: prices_path must be a .yml, .yaml or .json file"))
		}
	}

	return el.Err()
}

func (c *StorageConfig) buildBook() (*pricing.Book, error) {
	return pricing.OpenBook(c.PricesPath)
}

func (c *StorageConfig) buildAccounts() (*storage.FileStore[*economy.Account], error) {
	return storage.NewFileStore[*economy.Account](c.AccountsPath)
}
