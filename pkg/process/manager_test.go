package process

import (
	"context"
	"testing"
	"time"
)

func TestManager_ShutdownOrder(t *testing.T) {
	m := NewManager(nil)

	var order []int
	m.RegisterShutdownHandler(func() { order = append(order, 1) })
	m.RegisterShutdownHandler(func() { order = append(order, 2) })

	ctx := m.Start(context.Background())
	if ctx.Err() != nil {
		t.Fatal("expected context to be live until Stop")
	}
	m.Stop()
	m.Stop()

	if len(order) != 2 || order[0] != 2 || order[1] != 1 {
		t.Errorf("expected handlers in reverse order once, got %v", order)
	}
	if ctx.Err() == nil {
		t.Error("expected Stop to cancel the context")
	}
}

func TestManager_ParentCancel(t *testing.T) {
	parent, cancel := context.WithCancel(context.Background())
	m := NewManager(nil)

	var ran bool
	m.RegisterShutdownHandler(func() { ran = true })

	ctx := m.Start(parent)
	cancel()

	select {
	case <-ctx.Done():
	case <-time.After(time.Second):
		t.Fatal("expected context to follow its parent")
	}
	if ran {
		t.Error("shutdown handlers must wait for Stop")
	}

	m.Stop()
	if !ran {
		t.Error("expected Stop to run the shutdown handlers")
	}
}
