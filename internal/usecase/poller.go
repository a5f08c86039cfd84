package usecase

import (
	"context"
	"sync"
	"time"
)

// Poller runs an effect on a completion-relative schedule: the next tick is
// armed only after the previous run returns, so a slow run never stacks a
// second one behind it. The first run fires immediately on Start.
type Poller struct {
	mu      sync.Mutex
	cancel  context.CancelFunc
	done    chan struct{}
	running bool
}

func NewPoller() *Poller {
	return &Poller{}
}

// Start launches the loop. next is consulted after every completed run, so the
// interval can change between ticks. Start on a running poller is a no-op.
func (p *Poller) Start(ctx context.Context, effect func(context.Context), next func() time.Duration) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.running {
		return
	}
	ctx, cancel := context.WithCancel(ctx)
	p.cancel = cancel
	p.done = make(chan struct{})
	p.running = true

	go p.loop(ctx, p.done, effect, next)
}

func (p *Poller) loop(ctx context.Context, done chan struct{}, effect func(context.Context), next func() time.Duration) {
	defer close(done)

	effect(ctx)
	timer := time.NewTimer(next())
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-timer.C:
			effect(ctx)
			timer.Reset(next())
		}
	}
}

// Stop cancels the loop and waits for any in-flight run to return.
func (p *Poller) Stop() {
	p.mu.Lock()
	if !p.running {
		p.mu.Unlock()
		return
	}
	cancel, done := p.cancel, p.done
	p.running = false
	p.mu.Unlock()

	cancel()
	<-done
}
