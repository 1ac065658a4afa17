package command

import (
	"fmt"
	"time"

	"github.com/pixil98/go-errors"

	"github.com/pixil98/go-quicksell/internal/messaging"
)

const defaultNatsPort = 4222

type NatsConfig struct {
	// URL of an external broker. Ignored when Embedded is set.
	URL string `json:"url"`

	Embedded     bool   `json:"embedded"`
	Host         string `json:"host"`
	Port         int    `json:"port"`
	StartTimeout string `json:"start_timeout"`
}

func (n *NatsConfig) validate() error {
	el := errors.NewErrorList()

	if !n.Embedded && n.URL == "" {
		el.Add(fmt.Errorf("nats: url is required unless embedded is set"))
	}
	if n.Port < 0 || n.Port > 65535 {
		el.Add(fmt.Errorf("nats: port must be between 0 and 65535"))
	}
	if n.StartTimeout != "" {
		_, err := time.ParseDuration(n.StartTimeout)
		if err != nil {
			el.Add(fmt.Errorf("nats: parsing start_timeout: %w", err))
		}
	}

	return el.Err()
}

// clientURL is the broker every worker connects to.
func (n *NatsConfig) clientURL() string {
	if !n.Embedded {
		return n.URL
	}

	host := n.Host
	if host == "" {
		host = "127.0.0.1"
	}
	port := n.Port
	if port == 0 {
		port = defaultNatsPort
	}
	return fmt.Sprintf("nats://%s:%d", host, port)
}

func (n *NatsConfig) buildNatsServer() (*messaging.NatsServer, error) {
	var opts []messaging.NatsServerOpt
	if n.StartTimeout != "" {
		d, err := time.ParseDuration(n.StartTimeout)
		if err != nil {
			return nil, fmt.Errorf("parsing start_timeout: %w", err)
		}
		opts = append(opts, messaging.WithStartTimeout(d))
	}
	if n.Host != "" {
		opts = append(opts, messaging.WithHost(n.Host))
	}
	if n.Port != 0 {
		opts = append(opts, messaging.WithPort(n.Port))
	}

	return messaging.NewNatsServer(opts...)
}
