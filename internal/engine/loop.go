package engine

import (
	"context"
	"time"

	"github.com/c3i/c3i/pkg/config"
	"github.com/c3i/c3i/pkg/logger"
)

// Loop runs cycle once, then again after every interval and on every event
// from triggers, until ctx is cancelled. Cycles never overlap. A failed
// cycle is logged and the loop carries on.
func Loop(
	ctx context.Context,
	interval time.Duration,
	triggers <-chan config.ReloadEvent,
	cycle func(ctx context.Context) error,
	log logger.Logger,
) error {
	if log == nil {
		log = logger.Discard()
	}

	var tick <-chan time.Time
	if interval > 0 {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		tick = ticker.C
	}

	runOnce := func(trigger string) {
		log.Debug("Starting cycle", logger.WithField("trigger", trigger))
		if err := cycle(ctx); err != nil && ctx.Err() == nil {
			log.Error("Cycle failed", logger.WithField("error", err))
		}
	}

	runOnce("start")
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-tick:
			runOnce("interval")
		case event, ok := <-triggers:
			if !ok {
				triggers = nil
				continue
			}
			runOnce(string(event.EventType))
		}
	}
}
