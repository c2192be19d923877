package omegga

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/gabe/bossbar/internal/tracker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const logPrefix = "[2026.10.18-12.00.00:000][ 42]LogConfigManager: "

type call struct {
	method string
	params interface{}
}

// fakeHost answers console commands with scripted log lines and other
// methods with canned JSON results.
type fakeHost struct {
	game    *Game
	output  map[string][]string
	results map[string]string
	errs    map[string]error
	calls   []call
}

func newFakeHost() *fakeHost {
	return &fakeHost{
		output:  make(map[string][]string),
		results: make(map[string]string),
		errs:    make(map[string]error),
	}
}

func (f *fakeHost) Call(ctx context.Context, method string, params interface{}, result interface{}) error {
	f.calls = append(f.calls, call{method, params})
	if err := f.errs[method]; err != nil {
		return err
	}
	if method == "writeln" {
		f.game.Feed(logPrefix + "unrelated noise")
		for _, line := range f.output[params.(string)] {
			f.game.Feed(line)
		}
		return nil
	}
	if raw, ok := f.results[method]; ok && result != nil {
		return json.Unmarshal([]byte(raw), result)
	}
	return nil
}

func (f *fakeHost) Notify(method string, params interface{}) error {
	f.calls = append(f.calls, call{method, params})
	return f.errs[method]
}

func (c *Console) pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.watchers)
}

func newTestGame() (*Game, *fakeHost) {
	host := newFakeHost()
	g := NewGame(host, 30*time.Millisecond)
	host.game = g
	return g, host
}

func TestResolvePawn(t *testing.T) {
	g, host := newTestGame()
	host.output["GetAll BP_PlayerController_C Pawn Name=BP_PlayerController_C_2147"] = []string{
		logPrefix + "0) BP_PlayerController_C /Game/Maps/Plate/Plate.Plate:PersistentLevel.BP_PlayerController_C_2147.Pawn = BP_FigureV2_C'/Game/Maps/Plate/Plate.Plate:PersistentLevel.BP_FigureV2_C_2160'",
	}
	host.output["GetAll BP_PlayerController_C Pawn Name=BP_PlayerController_C_9"] = []string{
		logPrefix + "0) BP_PlayerController_C /Game/Maps/Plate/Plate.Plate:PersistentLevel.BP_PlayerController_C_9.Pawn = None",
	}

	pawn, err := g.ResolvePawn(context.Background(), "BP_PlayerController_C_2147")
	require.NoError(t, err)
	assert.Equal(t, "BP_FigureV2_C_2160", pawn)

	pawn, err = g.ResolvePawn(context.Background(), "BP_PlayerController_C_9")
	require.NoError(t, err)
	assert.Empty(t, pawn)

	assert.Equal(t, 0, g.console.pending())
}

func TestResolvePawn_Timeout(t *testing.T) {
	g, _ := newTestGame()

	_, err := g.ResolvePawn(context.Background(), "BP_PlayerController_C_1")
	assert.ErrorIs(t, err, ErrTimeout)
	assert.Equal(t, 0, g.console.pending())
}

func TestResolvePawn_DoesNotMatchOtherController(t *testing.T) {
	g, host := newTestGame()
	host.output["GetAll BP_PlayerController_C Pawn Name=BP_PlayerController_C_1"] = []string{
		logPrefix + "0) BP_PlayerController_C /Game/Maps/Plate/Plate.Plate:PersistentLevel.BP_PlayerController_C_12.Pawn = None",
	}

	_, err := g.ResolvePawn(context.Background(), "BP_PlayerController_C_1")
	assert.ErrorIs(t, err, ErrTimeout)
}

func TestSampleHealth(t *testing.T) {
	g, host := newTestGame()
	host.output["GetAll BP_FigureV2_C Damage Name=BP_FigureV2_C_5"] = []string{
		logPrefix + "0) BP_FigureV2_C /Game/Maps/Plate/Plate.Plate:PersistentLevel.BP_FigureV2_C_5.Damage = 130.500000",
	}
	host.output["GetAll BP_FigureV2_C DamageLimit Name=BP_FigureV2_C_5"] = []string{
		logPrefix + "0) BP_FigureV2_C /Game/Maps/Plate/Plate.Plate:PersistentLevel.BP_FigureV2_C_5.DamageLimit = 100.000000",
	}

	h, err := g.SampleHealth(context.Background(), "BP_FigureV2_C_5")
	require.NoError(t, err)
	assert.Equal(t, tracker.Health{Current: -30.5, Max: 100}, h)
}

func TestSampleHealth_Failures(t *testing.T) {
	g, host := newTestGame()
	host.output["GetAll BP_FigureV2_C Damage Name=BP_FigureV2_C_5"] = []string{
		logPrefix + "0) BP_FigureV2_C /Game/Maps/Plate/Plate.Plate:PersistentLevel.BP_FigureV2_C_5.Damage = 1.2.3",
	}

	_, err := g.SampleHealth(context.Background(), "BP_FigureV2_C_5")
	assert.ErrorIs(t, err, ErrUnparsable)

	_, err = g.SampleHealth(context.Background(), "BP_FigureV2_C_6")
	assert.ErrorIs(t, err, ErrTimeout)
}

func TestListMinigames(t *testing.T) {
	g, host := newTestGame()
	host.results["getMinigames"] = `[{
		"index": 0,
		"ruleset": "BP_Ruleset_C_1",
		"name": "Raid",
		"numMembers": 2,
		"teams": [{"name": "Boss", "team": "BP_Team_C_1", "color": [255,0,0,255],
			"members": [{"name": "alice", "id": "a-1", "controller": "BP_PlayerController_C_1", "state": "BP_PlayerState_C_1"}]}],
		"members": [{"name": "alice", "id": "a-1", "controller": "BP_PlayerController_C_1"},
			{"name": "bob", "id": "b-2", "controller": "BP_PlayerController_C_2"}]
	}]`

	games, err := g.ListMinigames(context.Background())
	require.NoError(t, err)
	require.Len(t, games, 1)
	assert.Equal(t, "BP_Ruleset_C_1", games[0].Ruleset)
	require.Len(t, games[0].Teams, 1)
	assert.Equal(t, "Boss", games[0].Teams[0].Name)
	assert.Equal(t, []tracker.Player{{Name: "alice", ID: "a-1", Controller: "BP_PlayerController_C_1"}}, games[0].Teams[0].Members)
	assert.Len(t, games[0].Members, 2)

	host.errs["getMinigames"] = errors.New("not ready")
	_, err = g.ListMinigames(context.Background())
	assert.Error(t, err)
}

func TestChat(t *testing.T) {
	g, host := newTestGame()
	ctx := context.Background()

	require.NoError(t, g.Broadcast(ctx, "hello"))
	require.NoError(t, g.Whisper(ctx, "bob", "psst"))
	require.NoError(t, g.MiddlePrint(ctx, "carol", "center"))

	assert.Equal(t, []call{
		{"broadcast", "hello"},
		{"whisper", targetedLine{Target: "bob", Line: "psst"}},
		{"middlePrint", targetedLine{Target: "carol", Line: "center"}},
	}, host.calls)
}

func TestLog(t *testing.T) {
	g, host := newTestGame()

	require.NoError(t, g.Log("tracking 2 minigames"))
	assert.Equal(t, []call{{"log", "tracking 2 minigames"}}, host.calls)

	host.errs["log"] = errors.New("closed")
	assert.Error(t, g.Log("again"))
}

func TestConsole_WatcherMatchesOnce(t *testing.T) {
	c := NewConsole(func(ctx context.Context, line string) error { return nil }, time.Second)
	id, w := c.watch(pawnFieldPattern("P_1", "Damage"))
	defer c.unwatch(id)

	line := logPrefix + "0) BP_FigureV2_C x:PersistentLevel.P_1.Damage = 5"
	c.Feed(line)
	c.Feed(line)

	assert.Equal(t, map[string]string{"index": "0", "value": "5"}, <-w.match)
	assert.Equal(t, 0, c.pending())
}

func TestConsole_WriteErrorPropagates(t *testing.T) {
	boom := errors.New("host gone")
	c := NewConsole(func(ctx context.Context, line string) error { return boom }, time.Second)

	_, err := c.Query(context.Background(), "GetAll", pawnPattern("x"))
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 0, c.pending())
}
