package driver

import (
	"context"
	"log/slog"
	"time"
)

const (
	DefaultTickLength = time.Minute
)

// Manager is anything that does periodic upkeep.
type Manager interface {
	Tick(context.Context) error
}

// Driver ticks its managers at a fixed interval until cancelled. A failing
// tick is logged and does not stop the driver.
type Driver struct {
	tickLength time.Duration
	managers   []Manager
}

func NewDriver(managers []Manager, opts ...DriverOpt) *Driver {
	d := &Driver{
		tickLength: DefaultTickLength,
		managers:   managers,
	}

	for _, opt := range opts {
		opt(d)
	}

	return d
}

func (d *Driver) Start(ctx context.Context) error {
	ticker := time.NewTicker(d.tickLength)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			d.Tick(ctx)
		}
	}
}

// Tick runs one round over every manager.
func (d *Driver) Tick(ctx context.Context) {
	for i, m := range d.managers {
		if err := m.Tick(ctx); err != nil {
			slog.WarnContext(ctx, "manager tick failed", "manager", i, "error", err)
		}
	}
}
