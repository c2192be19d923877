// Package announce delivers boss health announcements to players.
package announce

import (
	"context"
	"fmt"

	"github.com/gabe/bossbar/internal/display"
	"github.com/gabe/bossbar/internal/tracker"
)

// Chat is the subset of the server chat API used for announcements.
type Chat interface {
	Broadcast(ctx context.Context, line string) error
	Whisper(ctx context.Context, target, line string) error
	MiddlePrint(ctx context.Context, target, line string) error
}

// ChatAnnouncer renders announcements with display.Markup and routes them
// through a Chat.
type ChatAnnouncer struct {
	chat        Chat
	barSize     int
	middlePrint bool
}

func NewChatAnnouncer(chat Chat, barSize int, middlePrint bool) *ChatAnnouncer {
	return &ChatAnnouncer{
		chat:        chat,
		barSize:     barSize,
		middlePrint: middlePrint,
	}
}

// Announce sends the display to each recipient individually. A nil recipient
// list broadcasts it to the server; an empty one sends nothing.
func (c *ChatAnnouncer) Announce(ctx context.Context, a tracker.Announcement) error {
	info, bar := display.Markup(display.Reading{
		Team:   a.Team,
		Boss:   a.Boss,
		Health: a.Health,
	}, c.barSize, c.middlePrint)

	if a.Recipients == nil {
		if err := c.chat.Broadcast(ctx, info); err != nil {
			return fmt.Errorf("failed to broadcast: %w", err)
		}
		if err := c.chat.Broadcast(ctx, bar); err != nil {
			return fmt.Errorf("failed to broadcast: %w", err)
		}
		return nil
	}

	var lastErr error
	for _, target := range a.Recipients {
		if err := c.send(ctx, target, info, bar); err != nil {
			lastErr = err
		}
	}
	return lastErr
}

func (c *ChatAnnouncer) send(ctx context.Context, target, info, bar string) error {
	if c.middlePrint {
		if err := c.chat.MiddlePrint(ctx, target, display.MiddlePrint(info, bar)); err != nil {
			return fmt.Errorf("failed to middle print to %s: %w", target, err)
		}
		return nil
	}

	if err := c.chat.Whisper(ctx, target, info); err != nil {
		return fmt.Errorf("failed to whisper to %s: %w", target, err)
	}
	if err := c.chat.Whisper(ctx, target, bar); err != nil {
		return fmt.Errorf("failed to whisper to %s: %w", target, err)
	}
	return nil
}
