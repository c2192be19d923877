// Package tracker follows the boss player of every minigame that has a boss
// team and decides when the boss's health should be announced.
package tracker

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
)

// ErrNoBoss is returned by Step when no boss could be bound this poll.
var ErrNoBoss = errors.New("no boss with a pawn")

// Tracker owns the tracked records. It is not safe for concurrent use; the
// poll loop is its only caller.
type Tracker struct {
	bossTeams []string
	resolver  PawnResolver
	sampler   HealthSampler
	announcer Announcer
	policy    Policy
	now       func() time.Time
	logger    *zap.SugaredLogger
	records   []*Record
}

// Option functions for configuration
type Option func(*Tracker)

// WithClock replaces time.Now, mostly for tests.
func WithClock(now func() time.Time) Option {
	return func(t *Tracker) {
		t.now = now
	}
}

// WithLogger sets the logger used for state transitions.
func WithLogger(logger *zap.SugaredLogger) Option {
	return func(t *Tracker) {
		t.logger = logger
	}
}

// New creates a tracker. bossTeams must already be trimmed and lowercased.
func New(bossTeams []string, policy Policy, resolver PawnResolver, sampler HealthSampler, announcer Announcer, opts ...Option) *Tracker {
	t := &Tracker{
		bossTeams: bossTeams,
		resolver:  resolver,
		sampler:   sampler,
		announcer: announcer,
		policy:    policy,
		now:       time.Now,
		logger:    zap.NewNop().Sugar(),
	}

	for _, opt := range opts {
		opt(t)
	}

	return t
}

// Records returns the tracked records in creation order.
func (t *Tracker) Records() []*Record {
	out := make([]*Record, len(t.records))
	copy(out, t.records)
	return out
}

// Clear drops every tracked record.
func (t *Tracker) Clear() {
	t.records = nil
}

// BossTeam returns the first team of g whose normalized name is a boss team
// name.
func (t *Tracker) BossTeam(g Minigame) (Team, bool) {
	var found *Team
	for i := range g.Teams {
		if !t.isBossTeam(g.Teams[i].Name) {
			continue
		}
		if found != nil {
			t.logger.Debugw("minigame has several boss teams, using the first",
				"ruleset", g.Ruleset, "using", found.Name, "ignored", g.Teams[i].Name)
			continue
		}
		found = &g.Teams[i]
	}
	if found == nil {
		return Team{}, false
	}
	return *found, true
}

func (t *Tracker) isBossTeam(name string) bool {
	name = strings.ToLower(strings.TrimSpace(name))
	for _, n := range t.bossTeams {
		if n == name {
			return true
		}
	}
	return false
}

// Reconcile brings the tracked records in line with games: one record per
// minigame with a boss team, reusing existing records. Records whose ruleset
// is gone or no longer has a boss team are dropped. The result follows the
// order of games.
func (t *Tracker) Reconcile(games []Minigame) []Active {
	byRuleset := make(map[string]*Record, len(t.records))
	for _, r := range t.records {
		byRuleset[r.Ruleset] = r
	}

	var active []Active
	kept := make(map[string]bool, len(games))
	for _, g := range games {
		team, ok := t.BossTeam(g)
		if !ok || kept[g.Ruleset] {
			continue
		}

		rec, exists := byRuleset[g.Ruleset]
		if !exists {
			rec = &Record{Ruleset: g.Ruleset, BossTeam: team}
			t.records = append(t.records, rec)
			t.logger.Infow("tracking minigame", "ruleset", g.Ruleset, "minigame", g.Name, "team", team.Name)
		}
		kept[g.Ruleset] = true
		active = append(active, Active{Record: rec, Game: g, Team: team})
	}

	remaining := t.records[:0]
	for _, r := range t.records {
		if kept[r.Ruleset] {
			remaining = append(remaining, r)
			continue
		}
		t.logger.Infow("stopped tracking minigame", "ruleset", r.Ruleset)
	}
	for i := len(remaining); i < len(t.records); i++ {
		t.records[i] = nil
	}
	t.records = remaining

	return active
}

// Step runs one tracking step for a: confirm or pick the boss pawn, sample
// its health and announce when the policy allows. It returns ErrNoBoss when
// nobody on the team has a pawn, and the sampler's error when sampling fails;
// in both cases the announce state is untouched.
func (t *Tracker) Step(ctx context.Context, a Active) error {
	rec := a.Record

	if !t.ensurePawn(ctx, rec, a.Team) {
		return ErrNoBoss
	}

	health, err := t.sampler.SampleHealth(ctx, rec.Boss.Pawn)
	if err != nil {
		return fmt.Errorf("failed to sample health of %s: %w", rec.Boss.Pawn, err)
	}
	rec.Boss.Health = &health

	now := t.now()
	fraction := health.Fraction()
	if !t.policy.ShouldAnnounce(now, rec.Announce, fraction) {
		return nil
	}

	rec.Announce = AnnounceState{LastAt: now, LastFraction: fraction}

	recipients := make([]string, 0, len(a.Game.Members))
	for _, m := range a.Game.Members {
		recipients = append(recipients, m.Name)
	}

	announcement := Announcement{
		Ruleset:    rec.Ruleset,
		Team:       rec.BossTeam.Name,
		Boss:       rec.Boss.Name,
		Health:     health,
		Recipients: recipients,
		At:         now,
	}
	if err := t.announcer.Announce(ctx, announcement); err != nil {
		return fmt.Errorf("failed to announce %s health: %w", rec.Boss.Name, err)
	}
	return nil
}

// ensurePawn revalidates the bound pawn and, when none is bound, binds the
// first member of team that possesses one. It reports whether a pawn is bound
// afterwards.
func (t *Tracker) ensurePawn(ctx context.Context, rec *Record, team Team) bool {
	if rec.Boss.Bound() {
		pawn, err := t.resolver.ResolvePawn(ctx, rec.Boss.Controller)
		if err != nil {
			t.logger.Debugw("pawn lookup failed", "ruleset", rec.Ruleset, "controller", rec.Boss.Controller, "error", err)
			pawn = ""
		}
		if pawn == "" || pawn != rec.Boss.Pawn {
			t.logger.Infow("boss lost their pawn", "ruleset", rec.Ruleset, "boss", rec.Boss.Name)
			rec.Boss.Reset()
		}
	}

	if rec.Boss.Bound() {
		return true
	}

	if len(team.Members) == 0 {
		return false
	}

	for _, member := range team.Members {
		pawn, err := t.resolver.ResolvePawn(ctx, member.Controller)
		if err != nil {
			t.logger.Debugw("pawn lookup failed", "ruleset", rec.Ruleset, "controller", member.Controller, "error", err)
			continue
		}
		if pawn == "" {
			continue
		}
		rec.Boss.bind(member, pawn)
		t.logger.Infow("boss selected", "ruleset", rec.Ruleset, "boss", member.Name, "pawn", pawn)
		return true
	}

	return false
}
