// Package status exposes what the tracker is doing: the latest snapshot of
// tracked bosses and a live feed of announcements.
package status

import (
	"context"
	"sync"
	"time"

	"github.com/gabe/bossbar/internal/tracker"
)

// Snapshot is the tracker state after one poll.
type Snapshot struct {
	PolledAt time.Time        `json:"polled_at"`
	Records  []tracker.Record `json:"records"`
}

// Event is one announcement as published to subscribers.
type Event struct {
	Ruleset    string         `json:"ruleset"`
	Team       string         `json:"team"`
	Boss       string         `json:"boss"`
	Health     tracker.Health `json:"health"`
	Recipients int            `json:"recipients"`
	At         time.Time      `json:"at"`
}

// Board holds the latest snapshot and fans announcements out to subscribers.
// It implements tracker.Announcer so it can sit next to the chat announcer.
type Board struct {
	mu          sync.RWMutex
	latest      Snapshot
	subscribers map[chan Event]struct{}
}

func NewBoard() *Board {
	return &Board{
		subscribers: make(map[chan Event]struct{}),
	}
}

// Publish stores a copy of records as the latest snapshot.
func (b *Board) Publish(at time.Time, records []*tracker.Record) {
	snap := Snapshot{PolledAt: at, Records: make([]tracker.Record, 0, len(records))}
	for _, r := range records {
		rec := *r
		if r.Boss.Health != nil {
			h := *r.Boss.Health
			rec.Boss.Health = &h
		}
		rec.BossTeam.Members = append([]tracker.Player(nil), r.BossTeam.Members...)
		snap.Records = append(snap.Records, rec)
	}

	b.mu.Lock()
	b.latest = snap
	b.mu.Unlock()
}

// Latest returns the most recent snapshot.
func (b *Board) Latest() Snapshot {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.latest
}

// Announce publishes a to every subscriber. Subscribers that are not keeping
// up miss the event rather than stall the poll loop.
func (b *Board) Announce(ctx context.Context, a tracker.Announcement) error {
	ev := Event{
		Ruleset:    a.Ruleset,
		Team:       a.Team,
		Boss:       a.Boss,
		Health:     a.Health,
		Recipients: len(a.Recipients),
		At:         a.At,
	}

	b.mu.RLock()
	defer b.mu.RUnlock()
	for ch := range b.subscribers {
		select {
		case ch <- ev:
		default:
		}
	}
	return nil
}

// Subscribe returns a channel of announcement events and a function that
// unsubscribes and closes it.
func (b *Board) Subscribe() (<-chan Event, func()) {
	ch := make(chan Event, 16)

	b.mu.Lock()
	b.subscribers[ch] = struct{}{}
	b.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.subscribers, ch)
			b.mu.Unlock()
			close(ch)
		})
	}
}
