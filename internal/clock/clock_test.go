package clock

import (
	"testing"
	"time"
)

func waitTick(t *testing.T, ticker *Ticker, timeout time.Duration) bool {
	t.Helper()
	select {
	case <-ticker.Ticks():
		return true
	case <-time.After(timeout):
		return false
	}
}

func TestTicker_StartEmitsTicks(t *testing.T) {
	ticker := New(5 * time.Millisecond)
	defer ticker.Close()

	if waitTick(t, ticker, 100*time.Millisecond) {
		t.Fatal("ticker emitted before Start")
	}

	ticker.Start()
	if !waitTick(t, ticker, time.Second) {
		t.Fatal("no tick after Start")
	}
}

func TestTicker_StopHaltsTicks(t *testing.T) {
	ticker := New(5 * time.Millisecond)
	defer ticker.Close()

	ticker.Start()
	if !waitTick(t, ticker, time.Second) {
		t.Fatal("no tick after Start")
	}

	ticker.Stop()
	// Stop returns once the control loop accepts the command; give the
	// loop a moment to process it before asserting silence.
	time.Sleep(20 * time.Millisecond)
	if waitTick(t, ticker, 100*time.Millisecond) {
		t.Fatal("tick received after Stop")
	}
	if ticker.IsRunning() {
		t.Fatal("IsRunning true after Stop")
	}
}

func TestTicker_StopDiscardsBufferedTick(t *testing.T) {
	ticker := New(5 * time.Millisecond)
	defer ticker.Close()

	ticker.Start()
	// Nobody receives, so a tick is left sitting in the buffer.
	time.Sleep(50 * time.Millisecond)
	ticker.Stop()
	time.Sleep(20 * time.Millisecond)

	if waitTick(t, ticker, 100*time.Millisecond) {
		t.Fatal("buffered tick survived Stop")
	}
}

func TestTicker_StartIsIdempotent(t *testing.T) {
	ticker := New(5 * time.Millisecond)
	defer ticker.Close()

	ticker.Start()
	ticker.Start()
	ticker.Start()

	if !waitTick(t, ticker, time.Second) {
		t.Fatal("no tick after repeated Start")
	}
	if !ticker.IsRunning() {
		t.Fatal("IsRunning false while started")
	}
}

func TestTicker_CommandsAfterCloseDoNotBlock(t *testing.T) {
	ticker := New(5 * time.Millisecond)
	ticker.Close()
	ticker.Close()

	done := make(chan struct{})
	go func() {
		ticker.Start()
		ticker.Stop()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Start/Stop blocked after Close")
	}
}
