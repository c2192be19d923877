package announce

import (
	"context"

	"github.com/gabe/bossbar/internal/tracker"
)

// Manager fans an announcement out to several announcers, e.g. the in-game
// chat and the status board.
type Manager struct {
	announcers []tracker.Announcer
}

// NewManager creates a new announcement manager
func NewManager(announcers ...tracker.Announcer) *Manager {
	return &Manager{
		announcers: announcers,
	}
}

// Announce sends a to every registered announcer and returns the last error.
func (m *Manager) Announce(ctx context.Context, a tracker.Announcement) error {
	var lastErr error
	for _, announcer := range m.announcers {
		if err := announcer.Announce(ctx, a); err != nil {
			lastErr = err
			// Continue to other announcers even if one fails
		}
	}
	return lastErr
}
