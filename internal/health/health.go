package health

import (
	"context"
	"log"
	"sync"
	"time"
)

// Pinger is satisfied by *pgxpool.Pool.
type Pinger interface {
	Ping(ctx context.Context) error
}

const (
	defaultInterval = 10 * time.Second
	pingTimeout     = 2 * time.Second
)

// Checker tracks whether the backing store is reachable. Services consult it
// before each operation so an unreachable store degrades to an explicit
// unavailable error instead of empty results or hung requests.
type Checker struct {
	pinger   Pinger
	interval time.Duration

	mu        sync.RWMutex
	available bool

	stop chan struct{}
	done chan struct{}
}

// NewChecker returns a checker that considers the store available until the
// first failed ping. Call Start to begin background probing.
func NewChecker(p Pinger, interval time.Duration) *Checker {
	if interval <= 0 {
		interval = defaultInterval
	}
	return &Checker{
		pinger:    p,
		interval:  interval,
		available: true,
		stop:      make(chan struct{}),
		done:      make(chan struct{}),
	}
}

// Available reports the last observed store state.
func (c *Checker) Available() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.available
}

// Start launches the background probe loop.
func (c *Checker) Start() {
	go func() {
		defer close(c.done)
		ticker := time.NewTicker(c.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				c.check()
			case <-c.stop:
				return
			}
		}
	}()
}

// Close stops the probe loop.
func (c *Checker) Close() {
	close(c.stop)
	<-c.done
}

func (c *Checker) check() {
	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()
	ok := c.pinger.Ping(ctx) == nil

	c.mu.Lock()
	changed := c.available != ok
	c.available = ok
	c.mu.Unlock()

	if changed {
		if ok {
			log.Printf("store is reachable again")
		} else {
			log.Printf("store is unreachable, serving degraded responses")
		}
	}
}
