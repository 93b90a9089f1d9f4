package offers

import (
	"context"
	"sync"
	"time"

	"campus-rentals/internal/middleware"

	"go.uber.org/zap"
)

// Gate is the observable "network reachable" flag.
type Gate struct {
	mu     sync.Mutex
	online bool
	subs   map[int]chan bool
	nextID int
}

func NewGate(online bool) *Gate {
	return &Gate{
		online: online,
		subs:   make(map[int]chan bool),
	}
}

func (g *Gate) Online() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.online
}

// Set updates the flag and notifies subscribers when it changes.
func (g *Gate) Set(online bool) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.online == online {
		return false
	}
	g.online = online

	for _, ch := range g.subs {
		// keep only the latest value for slow subscribers
		select {
		case <-ch:
		default:
		}
		ch <- online
	}

	return true
}

// Subscribe returns a channel receiving every transition and a func that
// stops the subscription.
func (g *Gate) Subscribe() (<-chan bool, func()) {
	g.mu.Lock()
	defer g.mu.Unlock()

	id := g.nextID
	g.nextID++
	ch := make(chan bool, 1)
	g.subs[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			g.mu.Lock()
			delete(g.subs, id)
			g.mu.Unlock()
		})
	}
}

// Pinger reports reachability of the remote store.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Monitor keeps a Gate in sync with periodic reachability probes.
type Monitor struct {
	gate     *Gate
	pinger   Pinger
	interval time.Duration
	timeout  time.Duration
	logger   *zap.Logger
}

func NewMonitor(gate *Gate, pinger Pinger, interval, timeout time.Duration, logger *zap.Logger) *Monitor {
	return &Monitor{
		gate:     gate,
		pinger:   pinger,
		interval: interval,
		timeout:  timeout,
		logger:   logger,
	}
}

// Probe pings once and records the result on the gate.
func (m *Monitor) Probe(ctx context.Context) bool {
	probeCtx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	online := m.pinger.Ping(probeCtx) == nil
	if m.gate.Set(online) {
		m.logger.Info("connectivity changed", zap.Bool("online", online))
	}

	return online
}

// Run probes immediately and then on every interval until ctx is done.
func (m *Monitor) Run(ctx context.Context) {
	defer middleware.Recover(m.logger, "connectivity monitor")

	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	m.logger.Info("connectivity monitor started", zap.Duration("interval", m.interval))
	m.Probe(ctx)

	for {
		select {
		case <-ctx.Done():
			m.logger.Info("connectivity monitor stopped")
			return
		case <-ticker.C:
			m.Probe(ctx)
		}
	}
}
