package command

import (
	"fmt"
	"strings"
	"time"

	"github.com/pixil98/go-errors"
)

type Config struct {
	// System is the game system whose profile drives reconciliation (e.g., "dnd5e")
	System          string             `json:"system"`
	RefreshInterval string             `json:"refresh_interval"`
	Storage         StorageConfig      `json:"storage"`
	Nats            NatsConfig         `json:"nats"`
	Notifications   NotificationConfig `json:"notifications"`
}

func (c *Config) Validate() error {
	el := errors.NewErrorList()

	if strings.TrimSpace(c.System) == "" {
		el.Add(fmt.Errorf("system is required"))
	}

	if c.RefreshInterval != "" {
		d, err := time.ParseDuration(c.RefreshInterval)
		if err != nil {
			el.Add(fmt.Errorf("parsing refresh_interval: %w", err))
		} else if d < time.Second {
			el.Add(fmt.Errorf("refresh_interval must be at least 1 second"))
		}
	}

	el.Add(c.Storage.validate())
	el.Add(c.Nats.validate())
	el.Add(c.Notifications.validate())

	return el.Err()
}

func (c *Config) refreshInterval() (time.Duration, bool) {
	if c.RefreshInterval == "" {
		return 0, false
	}
	d, err := time.ParseDuration(c.RefreshInterval)
	if err != nil {
		return 0, false
	}
	return d, true
}
