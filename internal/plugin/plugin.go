// Package plugin runs bossbar as an Omegga JSON-RPC plugin: the host sends
// init and stop requests plus console lines, and serves the chat, console
// and minigame methods the tracker needs.
package plugin

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/gabe/bossbar/internal/announce"
	"github.com/gabe/bossbar/internal/config"
	"github.com/gabe/bossbar/internal/daemon"
	"github.com/gabe/bossbar/internal/ipc"
	"github.com/gabe/bossbar/internal/omegga"
	"github.com/gabe/bossbar/internal/status"
	"github.com/gabe/bossbar/internal/tracker"
	"go.uber.org/zap"
)

// Plugin implements ipc.Handler for the host connection.
type Plugin struct {
	cfg    *config.Config
	logger *zap.SugaredLogger
	game   *omegga.Game
	board  *status.Board

	mu     sync.Mutex
	daemon *daemon.Daemon
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// New creates a plugin talking to the host through host. cfg is the file
// configuration; the host's init parameters are applied on top of it.
func New(cfg *config.Config, host omegga.Host, logger *zap.SugaredLogger) *Plugin {
	return &Plugin{
		cfg:    cfg,
		logger: logger,
		game:   omegga.NewGame(host, cfg.QueryTimeoutDuration()),
		board:  status.NewBoard(),
	}
}

// Board returns the status board fed by the daemon.
func (p *Plugin) Board() *status.Board {
	return p.board
}

func (p *Plugin) HandleRequest(ctx context.Context, method string, params json.RawMessage) (interface{}, error) {
	switch method {
	case "init":
		if err := p.Init(ctx, params); err != nil {
			return nil, err
		}
		return struct{}{}, nil
	case "stop":
		if err := p.Stop(); err != nil {
			return nil, err
		}
		return struct{}{}, nil
	}
	return nil, fmt.Errorf("%w: %s", ipc.ErrMethodNotFound, method)
}

func (p *Plugin) HandleNotification(ctx context.Context, method string, params json.RawMessage) {
	if method != "line" {
		return
	}
	var line string
	if err := json.Unmarshal(params, &line); err != nil {
		p.logger.Debugw("ignoring malformed console line", "error", err)
		return
	}
	p.game.Feed(line)
}

// Init applies the host configuration and starts the daemon, plus the status
// API when one is configured. ctx bounds the lifetime of both.
func (p *Plugin) Init(ctx context.Context, params json.RawMessage) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.daemon != nil {
		return fmt.Errorf("plugin already initialized")
	}

	cfg := *p.cfg
	if err := cfg.ApplyJSON(params); err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	chat := announce.NewChatAnnouncer(p.game, cfg.HealthBarSize, cfg.MiddlePrint)
	tr := tracker.New(cfg.BossTeams(), cfg.Policy(), p.game, p.game,
		announce.NewManager(chat, p.board),
		tracker.WithLogger(p.logger.Named("tracker")))
	d := daemon.New(tr, p.game, cfg.PollInterval(),
		daemon.WithPublisher(p.board),
		daemon.WithLogger(p.logger.Named("daemon")))

	runCtx, cancel := context.WithCancel(ctx)
	p.daemon = d
	p.cancel = cancel

	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		if err := d.Start(runCtx); err != nil {
			p.logger.Errorw("daemon exited", "error", err)
		}
	}()

	if cfg.Status.Listen != "" {
		p.wg.Add(1)
		go func() {
			defer p.wg.Done()
			if err := status.Serve(runCtx, cfg.Status.Listen, p.board, p.logger.Named("status")); err != nil {
				p.logger.Errorw("status api exited", "error", err)
			}
		}()
	}

	p.logger.Infow("plugin initialized", "boss_teams", cfg.BossTeams(), "interval_ms", cfg.Interval)
	if err := p.game.Log("tracking boss teams: " + strings.Join(cfg.BossTeams(), ", ")); err != nil {
		p.logger.Warnw("failed to log to host console", "error", err)
	}
	return nil
}

// Stop halts the daemon and the status API and waits for them to exit.
func (p *Plugin) Stop() error {
	p.mu.Lock()
	cancel := p.cancel
	p.cancel = nil
	p.daemon = nil
	p.mu.Unlock()

	if cancel == nil {
		return nil
	}
	cancel()
	p.wg.Wait()
	p.logger.Infow("plugin stopped")
	return nil
}

// Run serves the host protocol on r and w until the host closes the stream
// or ctx is cancelled.
func Run(ctx context.Context, cfg *config.Config, r io.Reader, w io.Writer, logger *zap.SugaredLogger) error {
	conn := ipc.NewConn(r, w)
	p := New(cfg, conn, logger)
	defer p.Stop()

	errCh := make(chan error, 1)
	go func() { errCh <- conn.Serve(ctx, p) }()

	select {
	case <-ctx.Done():
		conn.Close()
		return nil
	case err := <-errCh:
		return err
	}
}
