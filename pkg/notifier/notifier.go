// Package notifier provides build notification functionality
package notifier

import (
	"fmt"
	"time"

	"github.com/gen2brain/beeep"

	"github.com/c3i/c3i/pkg/interfaces"
	"github.com/c3i/c3i/pkg/logger"
	"github.com/c3i/c3i/pkg/utils"
)

// SendFunc delivers one desktop notification
type SendFunc func(title, message string) error

// BuildNotifier handles build notifications
type BuildNotifier struct {
	enabled bool
	sound   bool
	send    SendFunc
	logger  logger.Logger
}

var _ interfaces.BuildNotifier = (*BuildNotifier)(nil)

// Config represents notification configuration
type Config struct {
	Enabled bool
	// Sound beeps on failures
	Sound bool
	// Send replaces the desktop notification, mainly for tests
	Send SendFunc
}

// New creates a new build notifier
func New(config Config, log logger.Logger) *BuildNotifier {
	if log == nil {
		log = logger.Discard()
	}
	send := config.Send
	if send == nil {
		send = func(title, message string) error {
			return beeep.Notify(title, message, "")
		}
	}
	return &BuildNotifier{
		enabled: config.Enabled,
		sound:   config.Sound,
		send:    send,
		logger:  log,
	}
}

// NotifyBuildSuccess notifies that a configuration was published
func (n *BuildNotifier) NotifyBuildSuccess(configuration string, version string, duration time.Duration) {
	if !n.enabled {
		return
	}

	title := "✅ Build Succeeded"
	message := fmt.Sprintf("%s %s built in %s", configuration, version, utils.FormatDuration(duration))

	n.sendNotification(title, message)
}

// NotifyBuildFailure notifies that a configuration failed to build
func (n *BuildNotifier) NotifyBuildFailure(configuration string, err error) {
	if !n.enabled {
		return
	}

	title := "❌ Build Failed"
	message := fmt.Sprintf("%s: %v", configuration, err)

	n.sendNotification(title, message)

	if n.sound {
		if err := beeep.Beep(beeep.DefaultFreq, beeep.DefaultDuration); err != nil {
			n.logger.Debug("Failed to play sound", logger.WithField("error", err))
		}
	}
}

// Private methods

func (n *BuildNotifier) sendNotification(title, message string) {
	if err := n.send(title, message); err != nil {
		n.logger.Debug("Failed to send notification", logger.WithField("error", err))
	}
}
