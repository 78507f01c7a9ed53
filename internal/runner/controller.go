// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package runner

import (
	"context"
	"sync"

	"github.com/pdiddy/doc2md/pkg/types"
)

// Dispatcher posts fn to the interactive event loop. Every callback the
// Controller raises goes through it, never directly from the worker.
type Dispatcher func(fn func())

// Callbacks are invoked on the interactive event loop. Nil fields are
// skipped.
type Callbacks struct {
	OnStart    func(outputDir string, total int)
	OnProgress func(types.ProgressEvent)
	OnComplete func(types.RunSummary)
	OnError    func(error)
}

// Controller runs at most one Pipeline at a time on a background
// goroutine. A run cannot be cancelled once started.
type Controller struct {
	pipeline *Pipeline
	dispatch Dispatcher
	cb       Callbacks

	mu      sync.Mutex
	running bool
	wg      sync.WaitGroup
}

// NewController returns a Controller that reports through dispatch.
func NewController(p *Pipeline, dispatch Dispatcher, cb Callbacks) *Controller {
	return &Controller{pipeline: p, dispatch: dispatch, cb: cb}
}

// Start begins converting inputDir and reports true, or reports false
// without doing anything when a run is already active.
func (c *Controller) Start(inputDir string) bool {
	c.mu.Lock()
	if c.running {
		c.mu.Unlock()
		return false
	}
	c.running = true
	c.wg.Add(1)
	c.mu.Unlock()

	go c.run(inputDir)
	return true
}

// Running reports whether a run is active.
func (c *Controller) Running() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.running
}

// Wait blocks until the active run, if any, has finished and posted its
// final callback.
func (c *Controller) Wait() {
	c.wg.Wait()
}

func (c *Controller) run(inputDir string) {
	defer c.wg.Done()
	defer func() {
		c.mu.Lock()
		c.running = false
		c.mu.Unlock()
	}()

	obs := Observer{
		OnStart: func(outputDir string, total int) {
			if c.cb.OnStart != nil {
				c.dispatch(func() { c.cb.OnStart(outputDir, total) })
			}
		},
		OnProgress: func(ev types.ProgressEvent) {
			if c.cb.OnProgress != nil {
				c.dispatch(func() { c.cb.OnProgress(ev) })
			}
		},
	}

	summary, err := c.pipeline.Run(context.Background(), inputDir, obs)
	if err != nil {
		if c.cb.OnError != nil {
			c.dispatch(func() { c.cb.OnError(err) })
		}
		return
	}
	if c.cb.OnComplete != nil {
		c.dispatch(func() { c.cb.OnComplete(summary) })
	}
}
