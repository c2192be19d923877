// Package omegga adapts the Omegga plugin host to the tracker's
// collaborators: pawn and health lookups go through console commands and
// their log output, minigames and chat through host RPC methods.
package omegga

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"time"

	"github.com/gabe/bossbar/internal/tracker"
)

// Host is the plugin's connection to Omegga. Call waits for a result;
// Notify does not.
type Host interface {
	Call(ctx context.Context, method string, params interface{}, result interface{}) error
	Notify(method string, params interface{}) error
}

// Game implements tracker.PawnResolver, tracker.HealthSampler,
// tracker.MinigameLister and announce.Chat on top of the host connection.
type Game struct {
	host    Host
	console *Console
}

// NewGame creates a game adapter. Console lines from the host must be passed
// to Feed for queries to complete.
func NewGame(host Host, queryTimeout time.Duration) *Game {
	g := &Game{host: host}
	g.console = NewConsole(g.Writeln, queryTimeout)
	return g
}

// Feed hands a server console line to the pending queries.
func (g *Game) Feed(line string) {
	g.console.Feed(line)
}

// Writeln sends a raw console command to the server.
func (g *Game) Writeln(ctx context.Context, line string) error {
	return g.host.Call(ctx, "writeln", line, nil)
}

func pawnPattern(controller string) *regexp.Regexp {
	return regexp.MustCompile(`(?P<index>\d+)\) BP_PlayerController_C .+?PersistentLevel\.` +
		regexp.QuoteMeta(controller) +
		`\.Pawn = (?:None|BP_FigureV2_C'.+?:PersistentLevel\.(?P<pawn>BP_FigureV2_C_\d+)')?$`)
}

func pawnFieldPattern(pawn, field string) *regexp.Regexp {
	return regexp.MustCompile(`(?P<index>\d+)\) BP_FigureV2_C .+?PersistentLevel\.` +
		regexp.QuoteMeta(pawn) + `\.` + field + ` = (?P<value>[\d.-]+)$`)
}

// ResolvePawn returns the figure the controller possesses, or "" for None.
func (g *Game) ResolvePawn(ctx context.Context, controller string) (string, error) {
	groups, err := g.console.Query(ctx,
		"GetAll BP_PlayerController_C Pawn Name="+controller,
		pawnPattern(controller))
	if err != nil {
		return "", fmt.Errorf("failed to resolve pawn of %s: %w", controller, err)
	}
	return groups["pawn"], nil
}

// SampleHealth reads Damage and DamageLimit of a figure. Health is the limit
// minus the damage taken.
func (g *Game) SampleHealth(ctx context.Context, pawn string) (tracker.Health, error) {
	damage, err := g.pawnField(ctx, pawn, "Damage")
	if err != nil {
		return tracker.Health{}, err
	}
	limit, err := g.pawnField(ctx, pawn, "DamageLimit")
	if err != nil {
		return tracker.Health{}, err
	}
	return tracker.Health{Current: limit - damage, Max: limit}, nil
}

func (g *Game) pawnField(ctx context.Context, pawn, field string) (float64, error) {
	groups, err := g.console.Query(ctx,
		fmt.Sprintf("GetAll BP_FigureV2_C %s Name=%s", field, pawn),
		pawnFieldPattern(pawn, field))
	if err != nil {
		return 0, fmt.Errorf("failed to read %s of %s: %w", field, pawn, err)
	}
	v, err := strconv.ParseFloat(groups["value"], 64)
	if err != nil {
		return 0, fmt.Errorf("%s of %s is %q: %w", field, pawn, groups["value"], ErrUnparsable)
	}
	return v, nil
}

// Log writes line to the Omegga console under the plugin's name.
func (g *Game) Log(line string) error {
	return g.host.Notify("log", line)
}

// ListMinigames asks the host for the running minigames.
func (g *Game) ListMinigames(ctx context.Context) ([]tracker.Minigame, error) {
	var games []tracker.Minigame
	if err := g.host.Call(ctx, "getMinigames", nil, &games); err != nil {
		return nil, fmt.Errorf("failed to list minigames: %w", err)
	}
	return games, nil
}

type targetedLine struct {
	Target string `json:"target"`
	Line   string `json:"line"`
}

func (g *Game) Broadcast(ctx context.Context, line string) error {
	return g.host.Call(ctx, "broadcast", line, nil)
}

func (g *Game) Whisper(ctx context.Context, target, line string) error {
	return g.host.Call(ctx, "whisper", targetedLine{Target: target, Line: line}, nil)
}

func (g *Game) MiddlePrint(ctx context.Context, target, line string) error {
	return g.host.Call(ctx, "middlePrint", targetedLine{Target: target, Line: line}, nil)
}
