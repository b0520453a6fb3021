package command

import (
	"fmt"

	"github.com/pixil98/go-service"
	"github.com/pixil98/item-piles/internal/commit"
	"github.com/pixil98/item-piles/internal/driver"
	"github.com/pixil98/item-piles/internal/holder"
	"github.com/pixil98/item-piles/internal/messaging"
	"github.com/pixil98/item-piles/internal/piles"
)

func BuildWorkers(config interface{}) (service.WorkerList, error) {
	cfg, ok := config.(*Config)
	if !ok {
		return nil, fmt.Errorf("unable to cast config")
	}

	registry, err := cfg.Storage.BuildRegistry()
	if err != nil {
		return nil, err
	}
	prof, err := registry.Get(cfg.System)
	if err != nil {
		return nil, err
	}

	actors, tokens, err := cfg.Storage.BuildStores()
	if err != nil {
		return nil, err
	}

	formatter, err := cfg.Notifications.buildFormatter()
	if err != nil {
		return nil, fmt.Errorf("creating formatter: %w", err)
	}

	natsServer, err := cfg.Nats.buildNatsServer()
	if err != nil {
		return nil, fmt.Errorf("creating nats server: %w", err)
	}

	manager := piles.NewPileManager(
		prof,
		holder.NewResolver(actors, tokens),
		commit.NewCommitter(actors, tokens),
		formatter,
		messaging.NewNatsPublisher(natsServer),
	)

	var opts []driver.DriverOpt
	if d, ok := cfg.refreshInterval(); ok {
		opts = append(opts, driver.WithTickLength(d))
	}

	return service.WorkerList{
		"nats":   natsServer,
		"piles":  piles.NewWorker(manager, natsServer),
		"driver": driver.NewDriver([]driver.Manager{manager}, opts...),
	}, nil
}
