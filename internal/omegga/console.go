package omegga

import (
	"context"
	"errors"
	"regexp"
	"sync"
	"time"
)

var (
	// ErrTimeout is returned when no console line matched before the deadline
	ErrTimeout = errors.New("timed out waiting for console output")

	// ErrUnparsable is returned when a matched line carries a value that
	// cannot be read
	ErrUnparsable = errors.New("unparsable console output")
)

// watcher waits for the first console line matching pattern.
type watcher struct {
	pattern *regexp.Regexp
	match   chan map[string]string
}

// Console matches server console lines against registered watchers, turning
// "write a command, wait for its output line" into a request/response call.
type Console struct {
	writeln func(ctx context.Context, line string) error
	timeout time.Duration

	mu       sync.Mutex
	nextID   int
	watchers map[int]*watcher
}

// NewConsole creates a console that sends commands through writeln and gives
// up on a query after timeout.
func NewConsole(writeln func(ctx context.Context, line string) error, timeout time.Duration) *Console {
	return &Console{
		writeln:  writeln,
		timeout:  timeout,
		watchers: make(map[int]*watcher),
	}
}

// Feed offers one console line to every watcher. A watcher receives at most
// one match and is removed once it has.
func (c *Console) Feed(line string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for id, w := range c.watchers {
		m := w.pattern.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		groups := make(map[string]string)
		for i, name := range w.pattern.SubexpNames() {
			if name != "" {
				groups[name] = m[i]
			}
		}
		w.match <- groups
		delete(c.watchers, id)
	}
}

// Query registers a watcher for pattern, writes command and waits for the
// first matching line. Named capture groups are returned by name.
func (c *Console) Query(ctx context.Context, command string, pattern *regexp.Regexp) (map[string]string, error) {
	id, w := c.watch(pattern)
	defer c.unwatch(id)

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	if err := c.writeln(ctx, command); err != nil {
		return nil, err
	}

	select {
	case groups := <-w.match:
		return groups, nil
	case <-ctx.Done():
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, ErrTimeout
		}
		return nil, ctx.Err()
	}
}

func (c *Console) watch(pattern *regexp.Regexp) (int, *watcher) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.nextID++
	w := &watcher{pattern: pattern, match: make(chan map[string]string, 1)}
	c.watchers[c.nextID] = w
	return c.nextID, w
}

func (c *Console) unwatch(id int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.watchers, id)
}
