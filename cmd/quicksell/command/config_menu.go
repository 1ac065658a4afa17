package command

import (
	"fmt"
	"time"

	"github.com/pixil98/go-errors"

	"github.com/pixil98/go-quicksell/internal/menu"
)

type MenuConfig struct {
	RefreshDelay string      `json:"refresh_delay"`
	Labels       menu.Labels `json:"labels"`
}

func (c *MenuConfig) validate() error {
	el := errors.NewErrorList()

	if c.RefreshDelay != "" {
		d, err := time.ParseDuration(c.RefreshDelay)
		if err != nil {
			el.Add(fmt.Errorf("menu: parsing refresh_delay: %w", err))
		} else if d < 0 {
			el.Add(fmt.Errorf("menu: refresh_delay must not be negative"))
		}
	}

	return el.Err()
}
