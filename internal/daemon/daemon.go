// Package daemon runs the poll loop: on every tick it reads the minigame
// directory, reconciles the tracker and steps each boss-bearing minigame.
package daemon

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/gabe/bossbar/internal/tracker"
	"go.uber.org/zap"
)

// State represents the daemon's operational state
type State string

const (
	StateIdle    State = "idle"
	StateRunning State = "running"
)

// Publisher receives the tracked records after every poll.
type Publisher interface {
	Publish(at time.Time, records []*tracker.Record)
}

// Daemon drives the tracker on a fixed interval. Polls never overlap: a tick
// that fires while a poll is still running is dropped.
type Daemon struct {
	tracker   *tracker.Tracker
	lister    tracker.MinigameLister
	publisher Publisher
	interval  time.Duration
	logger    *zap.SugaredLogger
	now       func() time.Time

	mu     sync.Mutex
	state  State
	cancel context.CancelFunc
	done   chan struct{}
}

// Option functions for configuration
type Option func(*Daemon)

// WithPublisher sets where snapshots go after each poll.
func WithPublisher(p Publisher) Option {
	return func(d *Daemon) {
		d.publisher = p
	}
}

// WithLogger sets the daemon logger.
func WithLogger(logger *zap.SugaredLogger) Option {
	return func(d *Daemon) {
		d.logger = logger
	}
}

// New creates a new daemon instance
func New(tr *tracker.Tracker, lister tracker.MinigameLister, interval time.Duration, opts ...Option) *Daemon {
	d := &Daemon{
		tracker:  tr,
		lister:   lister,
		interval: interval,
		logger:   zap.NewNop().Sugar(),
		now:      time.Now,
		state:    StateIdle,
	}

	for _, opt := range opts {
		opt(d)
	}

	return d
}

// Start polls until ctx is cancelled or Stop is called. The first poll runs
// immediately.
func (d *Daemon) Start(ctx context.Context) error {
	d.mu.Lock()
	if d.state == StateRunning {
		d.mu.Unlock()
		return fmt.Errorf("daemon already running")
	}
	ctx, d.cancel = context.WithCancel(ctx)
	d.done = make(chan struct{})
	d.state = StateRunning
	done := d.done
	d.mu.Unlock()

	defer close(done)
	defer d.shutdown()

	d.logger.Infow("boss tracker started", "interval", d.interval)

	d.Poll(ctx)

	ticker := time.NewTicker(d.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			d.Poll(ctx)
		}
	}
}

// Stop gracefully stops the daemon and waits for the current poll to finish
func (d *Daemon) Stop() error {
	d.mu.Lock()
	cancel, done := d.cancel, d.done
	d.mu.Unlock()

	if cancel == nil {
		return nil
	}
	cancel()
	<-done
	return nil
}

// State returns the current daemon state
func (d *Daemon) State() State {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.state
}

func (d *Daemon) shutdown() {
	d.tracker.Clear()

	d.mu.Lock()
	d.state = StateIdle
	if d.cancel != nil {
		d.cancel()
	}
	d.cancel = nil
	d.mu.Unlock()

	d.logger.Infow("boss tracker stopped")
}

// Poll runs one full poll: list minigames, reconcile and step every active
// record in order. Failures are logged and never stop the loop; a directory
// failure counts as "no minigames".
func (d *Daemon) Poll(ctx context.Context) {
	games, err := d.lister.ListMinigames(ctx)
	if err != nil {
		d.logger.Warnw("Poll: failed to list minigames, treating as none", "error", err)
		games = nil
	}

	for _, a := range d.tracker.Reconcile(games) {
		if ctx.Err() != nil {
			return
		}
		err := d.tracker.Step(ctx, a)
		switch {
		case err == nil, errors.Is(err, tracker.ErrNoBoss):
		default:
			d.logger.Warnw("Poll: step failed", "ruleset", a.Record.Ruleset, "error", err)
		}
	}

	if d.publisher != nil {
		d.publisher.Publish(d.now(), d.tracker.Records())
	}
}
