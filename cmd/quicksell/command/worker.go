package command

import (
	"fmt"
	"time"

	"github.com/pixil98/go-service"

	"github.com/pixil98/go-quicksell/internal/economy"
	"github.com/pixil98/go-quicksell/internal/hostlink"
	"github.com/pixil98/go-quicksell/internal/menu"
	"github.com/pixil98/go-quicksell/internal/quicksell"
)

func BuildWorkers(config interface{}) (service.WorkerList, error) {
	cfg, ok := config.(*Config)
	if !ok {
		return nil, fmt.Errorf("unable to cast config")
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	workers := service.WorkerList{}
	url := cfg.Nats.clientURL()

	if cfg.Nats.Embedded {
		ns, err := cfg.Nats.buildNatsServer()
		if err != nil {
			return nil, fmt.Errorf("creating nats server: %w", err)
		}
		workers["nats"] = ns
	}

	if cfg.Economy.Ledger {
		accounts, err := cfg.Storage.buildAccounts()
		if err != nil {
			return nil, fmt.Errorf("creating account store: %w", err)
		}
		ledger := economy.NewLedger(cfg.Economy.providerName(), accounts)
		workers["ledger"] = economy.NewLedgerWorker(ledger, url)
	}

	book, err := cfg.Storage.buildBook()
	if err != nil {
		return nil, fmt.Errorf("loading prices: %w", err)
	}

	opts, err := cfg.linkOpts()
	if err != nil {
		return nil, err
	}
	workers["quicksell"] = hostlink.NewLink(url, book, opts...)

	return workers, nil
}

func (c *Config) linkOpts() ([]hostlink.LinkOpt, error) {
	pluginOpts := []quicksell.PluginOpt{
		quicksell.WithBuilder(menu.NewBuilder(c.Menu.Labels)),
		quicksell.WithMessages(c.Messages),
	}
	if c.Menu.RefreshDelay != "" {
		d, err := time.ParseDuration(c.Menu.RefreshDelay)
		if err != nil {
			return nil, fmt.Errorf("parsing refresh_delay: %w", err)
		}
		pluginOpts = append(pluginOpts, quicksell.WithRefreshDelay(d))
	}

	opts := []hostlink.LinkOpt{hostlink.WithPluginOpts(pluginOpts...)}

	if c.Economy.DiscoverTimeout != "" {
		d, err := time.ParseDuration(c.Economy.DiscoverTimeout)
		if err != nil {
			return nil, fmt.Errorf("parsing discover_timeout: %w", err)
		}
		opts = append(opts, hostlink.WithDiscoverTimeout(d))
	}
	if c.Economy.RequestTimeout != "" {
		d, err := time.ParseDuration(c.Economy.RequestTimeout)
		if err != nil {
			return nil, fmt.Errorf("parsing request_timeout: %w", err)
		}
		opts = append(opts, hostlink.WithRequestTimeout(d))
	}

	return opts, nil
}
