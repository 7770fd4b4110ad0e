package scheduler

import (
	"errors"
	"sync"
	"sync/atomic"
	"time"
)

var ErrInvalidInterval = errors.New("scheduler: invalid tick interval")

// Tick is one elapsed interval. Seq counts every interval since Start,
// delivered or not, so a gap in Seq is the number of intervals dropped.
type Tick struct {
	Seq uint64
	At  time.Time
}

// Ticker emits one Tick per interval until Stop. Ticks that the consumer has
// not drained are dropped rather than queued; consumers that need wall-clock
// accuracy catch up from the gap in Tick.Seq.
type Ticker struct {
	mu       sync.Mutex
	interval time.Duration
	out      chan Tick
	stopCh   chan struct{}
	doneCh   chan struct{}
	stopped  bool
	dropped  uint64
}

func Start(interval time.Duration, bufferSize int) (*Ticker, error) {
	if interval <= 0 {
		return nil, ErrInvalidInterval
	}
	if bufferSize <= 0 {
		bufferSize = 1
	}
	t := &Ticker{
		interval: interval,
		out:      make(chan Tick, bufferSize),
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
	go t.loop()
	return t, nil
}

// C is closed once the ticker has stopped.
func (t *Ticker) C() <-chan Tick {
	return t.out
}

// Stop is idempotent and returns after the loop goroutine has exited.
func (t *Ticker) Stop() {
	t.mu.Lock()
	if t.stopped {
		t.mu.Unlock()
		return
	}
	t.stopped = true
	close(t.stopCh)
	t.mu.Unlock()
	<-t.doneCh
}

func (t *Ticker) Stopped() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.stopped
}

func (t *Ticker) Dropped() uint64 {
	return atomic.LoadUint64(&t.dropped)
}

func (t *Ticker) loop() {
	defer close(t.doneCh)
	defer close(t.out)

	tk := time.NewTicker(t.interval)
	defer tk.Stop()

	var seq uint64
	for {
		select {
		case now := <-tk.C:
			seq++
			select {
			case t.out <- Tick{Seq: seq, At: now.UTC()}:
			default:
				atomic.AddUint64(&t.dropped, 1)
			}
		case <-t.stopCh:
			return
		}
	}
}
