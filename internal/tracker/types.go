package tracker

import (
	"context"
	"time"
)

// Player is a minigame participant as reported by the host.
type Player struct {
	Name       string `json:"name"`
	ID         string `json:"id,omitempty"`
	Controller string `json:"controller"`
}

// Team is a named roster inside a minigame.
type Team struct {
	Name    string   `json:"name"`
	Members []Player `json:"members"`
}

// Minigame is one entry of the host's minigame directory.
type Minigame struct {
	Ruleset string   `json:"ruleset"`
	Name    string   `json:"name"`
	Teams   []Team   `json:"teams"`
	Members []Player `json:"members"`
}

// Health is a pawn's current and maximum health. Current may be negative
// after overkill.
type Health struct {
	Current float64 `json:"current"`
	Max     float64 `json:"max"`
}

// Fraction returns Current/Max without clamping.
func (h Health) Fraction() float64 {
	return h.Current / h.Max
}

// Boss is the player currently bound as a minigame's boss. Empty strings and
// a nil Health stand for "unknown".
type Boss struct {
	Name       string  `json:"name,omitempty"`
	Pawn       string  `json:"pawn,omitempty"`
	Controller string  `json:"controller,omitempty"`
	Health     *Health `json:"health,omitempty"`
}

// Bound reports whether a pawn is currently bound.
func (b *Boss) Bound() bool {
	return b.Pawn != ""
}

// Reset clears every identity field together.
func (b *Boss) Reset() {
	*b = Boss{}
}

func (b *Boss) bind(member Player, pawn string) {
	*b = Boss{
		Name:       member.Name,
		Pawn:       pawn,
		Controller: member.Controller,
	}
}

// AnnounceState remembers the last announcement. The zero value behaves like
// an announcement at the epoch with a health fraction of zero.
type AnnounceState struct {
	LastAt       time.Time `json:"last_at"`
	LastFraction float64   `json:"last_fraction"`
}

// Record is the tracking state for one boss-bearing minigame.
type Record struct {
	Ruleset  string        `json:"ruleset"`
	BossTeam Team          `json:"boss_team"`
	Boss     Boss          `json:"boss"`
	Announce AnnounceState `json:"announce"`
}

// Active pairs a tracked record with the minigame entry it was matched to
// during the current poll.
type Active struct {
	Record *Record
	Game   Minigame
	Team   Team
}

// PawnResolver returns the pawn a controller currently possesses, or "" when
// it has none.
type PawnResolver interface {
	ResolvePawn(ctx context.Context, controller string) (string, error)
}

// HealthSampler reads a pawn's health.
type HealthSampler interface {
	SampleHealth(ctx context.Context, pawn string) (Health, error)
}

// MinigameLister returns the minigames currently running on the server.
type MinigameLister interface {
	ListMinigames(ctx context.Context) ([]Minigame, error)
}

// Announcement is handed to the Announcer when the policy fires.
type Announcement struct {
	Ruleset string
	Team    string
	Boss    string
	Health  Health
	// Recipients is never nil; an empty list means nobody to tell.
	Recipients []string
	At         time.Time
}

// Announcer delivers a health announcement to the minigame's participants.
type Announcer interface {
	Announce(ctx context.Context, a Announcement) error
}
