// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package runner

import "sync"

// EventLoop runs posted functions one at a time on the goroutine that calls
// Run. Posts go through a single-slot channel, so a worker posting faster
// than the loop drains blocks until the previous function was taken.
type EventLoop struct {
	ch       chan func()
	quit     chan struct{}
	quitOnce sync.Once
}

// NewEventLoop returns an idle loop.
func NewEventLoop() *EventLoop {
	return &EventLoop{
		ch:   make(chan func(), 1),
		quit: make(chan struct{}),
	}
}

// Dispatch posts fn. It is a Dispatcher. Posts after Quit are dropped.
func (l *EventLoop) Dispatch(fn func()) {
	select {
	case l.ch <- fn:
	case <-l.quit:
	}
}

// Run executes posted functions until Quit is called. Functions already
// posted when Quit is observed still run.
func (l *EventLoop) Run() {
	for {
		select {
		case fn := <-l.ch:
			fn()
		case <-l.quit:
			for {
				select {
				case fn := <-l.ch:
					fn()
				default:
					return
				}
			}
		}
	}
}

// Quit stops Run. It is safe to call from a posted function and more than
// once.
func (l *EventLoop) Quit() {
	l.quitOnce.Do(func() { close(l.quit) })
}
