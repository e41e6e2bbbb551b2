// Package process handles signals and ordered shutdown for a c3i run
package process

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/c3i/c3i/pkg/logger"
)

// Manager cancels the run context on SIGINT/SIGTERM and runs the registered
// shutdown handlers in reverse order of registration, exactly once
type Manager struct {
	logger           logger.Logger
	shutdownHandlers []func()
	signals          []os.Signal
	once             sync.Once
	mu               sync.Mutex
	running          bool
	stop             chan struct{}
	wg               sync.WaitGroup
}

// NewManager creates a new process manager
func NewManager(log logger.Logger) *Manager {
	if log == nil {
		log = logger.Discard()
	}
	return &Manager{
		logger:           log,
		shutdownHandlers: make([]func(), 0),
		signals:          []os.Signal{os.Interrupt, syscall.SIGTERM},
	}
}

// RegisterShutdownHandler adds a shutdown handler
func (m *Manager) RegisterShutdownHandler(handler func()) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.shutdownHandlers = append(m.shutdownHandlers, handler)
}

// Start returns a context that is cancelled when a signal arrives, parent is
// done or Stop is called. Cancellation alone does not run the shutdown
// handlers; only Stop or Shutdown does.
func (m *Manager) Start(parent context.Context) context.Context {
	ctx, cancel := context.WithCancel(parent)

	m.mu.Lock()
	if m.running {
		m.mu.Unlock()
		cancel()
		return ctx
	}
	m.running = true
	m.stop = make(chan struct{})
	stop := m.stop
	m.mu.Unlock()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, m.signals...)

	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		defer signal.Stop(sigChan)
		defer cancel()

		select {
		case sig := <-sigChan:
			m.logger.Warn("Received signal, stopping after the current step",
				logger.WithField("signal", sig.String()))
		case <-ctx.Done():
		case <-stop:
		}
	}()

	return ctx
}

// Stop ends signal handling and runs the shutdown handlers
func (m *Manager) Stop() {
	m.mu.Lock()
	if m.running {
		m.running = false
		close(m.stop)
	}
	m.mu.Unlock()

	m.wg.Wait()
	m.Shutdown()
}

// Shutdown runs the shutdown handlers once, newest first
func (m *Manager) Shutdown() {
	m.once.Do(func() {
		m.mu.Lock()
		handlers := make([]func(), len(m.shutdownHandlers))
		copy(handlers, m.shutdownHandlers)
		m.mu.Unlock()

		m.logger.Debug("Running shutdown handlers", logger.WithField("count", len(handlers)))
		for i := len(handlers) - 1; i >= 0; i-- {
			handlers[i]()
		}
	})
}
