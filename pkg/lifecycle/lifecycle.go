// Package lifecycle runs startup and shutdown hooks for the server's
// long-lived subsystems.
package lifecycle

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"
)

// ReadinessChecker reports whether a subsystem is ready to serve traffic.
type ReadinessChecker interface {
	Ready() bool
}

// Coordinator owns the root context of the process. Startup hooks run as soon
// as they are registered; shutdown hooks run immediately too and are expected
// to park on Context().Done() until Shutdown cancels it.
type Coordinator struct {
	ctx      context.Context
	cancel   context.CancelFunc
	starting sync.WaitGroup
	stopping sync.WaitGroup
	ready    atomic.Bool
	since    atomic.Int64
}

func New(parent context.Context) *Coordinator {
	ctx, cancel := context.WithCancel(parent)
	return &Coordinator{ctx: ctx, cancel: cancel}
}

// Context is cancelled when Shutdown begins or the parent is cancelled.
func (c *Coordinator) Context() context.Context {
	return c.ctx
}

func (c *Coordinator) OnStartup(fn func()) {
	c.starting.Go(fn)
}

func (c *Coordinator) OnShutdown(fn func()) {
	c.stopping.Go(fn)
}

// Ready is true between WaitForStartup returning and Shutdown being called.
func (c *Coordinator) Ready() bool {
	return c.ready.Load()
}

// ReadySince returns when the coordinator last became ready, or the zero time.
func (c *Coordinator) ReadySince() time.Time {
	if !c.Ready() {
		return time.Time{}
	}
	return time.Unix(0, c.since.Load())
}

// WaitForStartup blocks on every registered startup hook, then marks the
// coordinator ready.
func (c *Coordinator) WaitForStartup() {
	c.starting.Wait()
	c.since.Store(time.Now().UnixNano())
	c.ready.Store(true)
}

// Shutdown drops readiness, cancels the context, and waits up to timeout for
// the shutdown hooks to return.
func (c *Coordinator) Shutdown(timeout time.Duration) error {
	c.ready.Store(false)
	c.cancel()

	deadline, stop := context.WithTimeout(context.Background(), timeout)
	defer stop()

	drained := make(chan struct{})
	go func() {
		c.stopping.Wait()
		close(drained)
	}()

	select {
	case <-drained:
		return nil
	case <-deadline.Done():
		return fmt.Errorf("shutdown hooks still running after %v", timeout)
	}
}
