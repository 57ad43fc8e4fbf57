package commands

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"git.home.luguber.info/inful/bookstage/internal/watch"
)

// WatchCmd implements the 'watch' command.
type WatchCmd struct {
	StageFlags `embed:""`

	Debounce       time.Duration  `help:"Quiet period after a source change before re-running (default from config)"`
	ResyncInterval *time.Duration `name:"resync-interval" help:"Re-run periodically even without changes (0 disables)"`
}

func (w *WatchCmd) Run(g *Global, root *CLI) error {
	cfg, err := w.resolve(root)
	if err != nil {
		return err
	}
	if w.Debounce > 0 {
		cfg.Watch.Debounce = w.Debounce
	}
	if w.ResyncInterval != nil {
		cfg.Watch.ResyncInterval = *w.ResyncInterval
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	watcher, err := watch.New(watch.Options{
		SourceRoot:     cfg.Source,
		DestRoot:       cfg.Dest,
		Debounce:       cfg.Watch.Debounce,
		ResyncInterval: cfg.Watch.ResyncInterval,
	}, func(ctx context.Context) error {
		code, err := RunPipeline(ctx, cfg, g.stdout(), nil)
		if err != nil {
			return err
		}
		if code != 0 {
			return fmt.Errorf("run finished with exit code %d", code)
		}
		return nil
	})
	if err != nil {
		return err
	}
	return watcher.Run(ctx)
}
