package config

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/c3i/c3i/pkg/logger"
)

// ReloadEventType represents the type of reload event
type ReloadEventType string

const (
	ReloadEventTypeModified ReloadEventType = "modified"
	ReloadEventTypeCreated  ReloadEventType = "created"
	ReloadEventTypeRemoved  ReloadEventType = "removed"
)

// ReloadEvent reports a change to the settings file
type ReloadEvent struct {
	Path      string
	Timestamp time.Time
	EventType ReloadEventType
}

// ReloadWatcher reports changes to the settings file
type ReloadWatcher struct {
	configPath     string
	debouncePeriod time.Duration
	logger         logger.Logger
}

// NewReloadWatcher creates a watcher for the settings file at configPath
func NewReloadWatcher(configPath string, log logger.Logger) *ReloadWatcher {
	if log == nil {
		log = logger.Discard()
	}
	return &ReloadWatcher{
		configPath:     configPath,
		debouncePeriod: 500 * time.Millisecond,
		logger:         log,
	}
}

// SetDebouncePeriod changes how long events are coalesced before being reported
func (rw *ReloadWatcher) SetDebouncePeriod(d time.Duration) {
	rw.debouncePeriod = d
}

// Watch sends one event per burst of changes to the settings file until ctx
// is cancelled. The directory is watched so editors that replace the file are
// still seen.
func (rw *ReloadWatcher) Watch(ctx context.Context, events chan<- ReloadEvent) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer watcher.Close()

	configDir := filepath.Dir(rw.configPath)
	if err := watcher.Add(configDir); err != nil {
		return fmt.Errorf("failed to watch config directory: %w", err)
	}

	rw.logger.Debug("Started watching configuration file",
		logger.WithField("path", rw.configPath))

	var pending *ReloadEvent
	timer := time.NewTimer(time.Hour)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			rw.logger.Debug("Stopped watching configuration file")
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != filepath.Clean(rw.configPath) {
				continue
			}
			eventType, relevant := classify(event)
			if !relevant {
				continue
			}
			pending = &ReloadEvent{Path: rw.configPath, Timestamp: time.Now(), EventType: eventType}
			timer.Reset(rw.debouncePeriod)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			rw.logger.Warn("File watcher error", logger.WithField("error", err))

		case <-timer.C:
			if pending == nil {
				continue
			}
			rw.logger.Info("Configuration file changed",
				logger.WithField("event", string(pending.EventType)))
			select {
			case events <- *pending:
			case <-ctx.Done():
				return nil
			}
			pending = nil
		}
	}
}

func classify(event fsnotify.Event) (ReloadEventType, bool) {
	switch {
	case event.Has(fsnotify.Create):
		return ReloadEventTypeCreated, true
	case event.Has(fsnotify.Write):
		return ReloadEventTypeModified, true
	case event.Has(fsnotify.Remove), event.Has(fsnotify.Rename):
		return ReloadEventTypeRemoved, true
	default:
		return "", false
	}
}
