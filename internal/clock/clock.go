// Package clock provides the ticking source that drives elapsed-time
// accumulation for focus sessions. The ticker runs in its own goroutine so
// tick delivery does not depend on whatever the caller is doing; control is
// message-based (start/stop commands in, ticks out).
package clock

import (
	"sync"
	stdatomic "sync/atomic"
	"time"
)

type command int

const (
	cmdStart command = iota
	cmdStop
)

type Ticker struct {
	interval time.Duration
	cmds     chan command
	ticks    chan struct{}
	quit     chan struct{}
	once     sync.Once
	running  stdatomic.Bool
}

// New creates a Ticker emitting at the given cadence (1s when non-positive)
// and starts its control loop. The ticker is created stopped; call Start to
// begin emitting.
func New(interval time.Duration) *Ticker {
	if interval <= 0 {
		interval = time.Second
	}
	t := &Ticker{
		interval: interval,
		cmds:     make(chan command),
		ticks:    make(chan struct{}, 1),
		quit:     make(chan struct{}),
	}
	go t.loop()
	return t
}

func (t *Ticker) loop() {
	var ticker *time.Ticker
	var tickC <-chan time.Time

	defer func() {
		if ticker != nil {
			ticker.Stop()
		}
		t.running.Store(false)
	}()

	for {
		select {
		case cmd := <-t.cmds:
			switch cmd {
			case cmdStart:
				// Idempotent: an already-running interval is left alone.
				if ticker == nil {
					ticker = time.NewTicker(t.interval)
					tickC = ticker.C
					t.running.Store(true)
				}
			case cmdStop:
				if ticker != nil {
					ticker.Stop()
					ticker = nil
					tickC = nil
					t.running.Store(false)
				}
				// A tick still sitting in the buffer is discarded; a
				// stopped ticker must not deliver after the fact.
				select {
				case <-t.ticks:
				default:
				}
			}
		case <-tickC:
			// Non-blocking emit: a receiver that is not keeping up loses
			// ticks rather than receiving them late.
			select {
			case t.ticks <- struct{}{}:
			default:
			}
		case <-t.quit:
			return
		}
	}
}

// Start begins 1-per-interval ticking. No-op if already running.
func (t *Ticker) Start() {
	select {
	case t.cmds <- cmdStart:
	case <-t.quit:
	}
}

// Stop cancels the interval. No-op if not running.
func (t *Ticker) Stop() {
	select {
	case t.cmds <- cmdStop:
	case <-t.quit:
	}
}

// Ticks returns the tick signal channel. Ticks carry no payload; the
// receiver decides whether a tick should count.
func (t *Ticker) Ticks() <-chan struct{} {
	return t.ticks
}

// IsRunning reports whether an interval is currently active.
func (t *Ticker) IsRunning() bool {
	return t.running.Load()
}

// Close terminates the control loop. The ticker cannot be restarted after
// Close; a leaked background ticker is worse than a dead one.
func (t *Ticker) Close() {
	t.once.Do(func() {
		close(t.quit)
	})
}
