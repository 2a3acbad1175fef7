// Package tick is a fixed-interval clock that notifies subscribers with a
// running tick count.
package tick

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// DefaultSpeed is the interval between ticks
const DefaultSpeed = 600 * time.Millisecond

// Listener receives the new tick number
type Listener func(tick uint64)

type subscription struct {
	id int
	fn Listener
}

// Ticker delivers ticks on its own goroutine while running. A listener
// that panics is logged and the remaining listeners still run.
type Ticker struct {
	speed     time.Duration
	current   uint64
	listeners []subscription
	nextID    int

	running bool
	gen     uint64
	parent  context.Context
	cancel  context.CancelFunc

	logger *zap.Logger
	mu     sync.Mutex
}

// New creates a stopped ticker. Non-positive speeds use DefaultSpeed.
func New(speed time.Duration, logger *zap.Logger) *Ticker {
	if speed <= 0 {
		speed = DefaultSpeed
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Ticker{speed: speed, logger: logger}
}

// Start begins ticking until Stop is called or ctx is done. Starting a
// running ticker does nothing.
func (t *Ticker) Start(ctx context.Context) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.running {
		return
	}
	t.start(ctx)
}

// start launches a new loop generation. Caller holds the lock.
func (t *Ticker) start(ctx context.Context) {
	loopCtx, cancel := context.WithCancel(ctx)
	t.gen++
	t.running = true
	t.parent = ctx
	t.cancel = cancel
	go t.run(loopCtx, t.gen, t.speed)
}

func (t *Ticker) run(ctx context.Context, gen uint64, speed time.Duration) {
	tk := time.NewTicker(speed)
	defer tk.Stop()
	for {
		select {
		case <-ctx.Done():
			t.mu.Lock()
			if t.gen == gen {
				t.running = false
			}
			t.mu.Unlock()
			return
		case <-tk.C:
			t.advance(gen)
		}
	}
}

// Stop halts ticking. No tick is delivered after Stop returns, except one
// already being delivered.
func (t *Ticker) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.stop()
}

func (t *Ticker) stop() {
	if !t.running {
		return
	}
	t.running = false
	t.gen++
	t.cancel()
	t.cancel = nil
}

// Running reports whether the ticker is started
func (t *Ticker) Running() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.running
}

// Reset sets the tick count back to zero
func (t *Ticker) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.current = 0
}

// Restore sets the tick count, used when loading a save
func (t *Ticker) Restore(n uint64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.current = n
}

// SetSpeed changes the interval. A running ticker restarts with it.
func (t *Ticker) SetSpeed(speed time.Duration) {
	if speed <= 0 {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.speed = speed
	if t.running {
		parent := t.parent
		t.stop()
		t.start(parent)
	}
}

// Speed returns the interval between ticks
func (t *Ticker) Speed() time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.speed
}

// Current returns the last delivered tick number
func (t *Ticker) Current() uint64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.current
}

// Subscribe registers fn and returns a function that removes it
func (t *Ticker) Subscribe(fn Listener) func() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.nextID++
	id := t.nextID
	t.listeners = append(t.listeners, subscription{id: id, fn: fn})
	return func() {
		t.mu.Lock()
		defer t.mu.Unlock()
		for i, s := range t.listeners {
			if s.id == id {
				t.listeners = append(t.listeners[:i], t.listeners[i+1:]...)
				return
			}
		}
	}
}

// Step delivers one tick immediately on the calling goroutine, whether or
// not the ticker is running.
func (t *Ticker) Step() {
	t.mu.Lock()
	gen := t.gen
	t.mu.Unlock()
	t.advance(gen)
}

func (t *Ticker) advance(gen uint64) {
	t.mu.Lock()
	if t.gen != gen {
		t.mu.Unlock()
		return
	}
	t.current++
	n := t.current
	listeners := append([]subscription(nil), t.listeners...)
	t.mu.Unlock()

	for _, s := range listeners {
		t.notify(s.fn, n)
	}
}

func (t *Ticker) notify(fn Listener, n uint64) {
	defer func() {
		if r := recover(); r != nil {
			t.logger.Error("tick listener panicked", zap.Uint64("tick", n), zap.Any("panic", r))
		}
	}()
	fn(n)
}
