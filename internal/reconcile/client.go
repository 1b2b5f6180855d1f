// Package reconcile keeps a local ordered copy of the bookmark collection in
// step with the server.
//
// Local edits apply immediately and are pushed to the server through a FIFO
// queue of tasks, so one client issues its store calls in order. Failures are
// not rolled back: the local copy stays at its optimistic value until the
// next Load replaces it.
package reconcile

import (
	"context"
	"log/slog"
	"regexp"
	"slices"
	"strings"
	"sync"

	dErrors "linkshelf/pkg/domain-errors"
	"linkshelf/pkg/types"
)

// Remote is the subset of the server API the client drives.
type Remote interface {
	List(ctx context.Context) ([]types.Bookmark, error)
	Create(ctx context.Context, req types.CreateBookmarkRequest) (types.Bookmark, error)
	Delete(ctx context.Context, id string) error
	Reorder(ctx context.Context, ids []string) error
}

// Cache persists the last known collection between sessions.
type Cache interface {
	Load(ctx context.Context) ([]types.Bookmark, error)
	Save(ctx context.Context, records []types.Bookmark) error
}

var schemePattern = regexp.MustCompile(`(?i)^https?://`)

type Client struct {
	remote Remote
	cache  Cache
	logger *slog.Logger
	pins   bool

	mu            sync.Mutex
	seq           sequence
	loaded        bool
	pinsScheduled bool
	queue         []*Task
	draining      bool
	inflight      int
	memo          *projection

	tasks sync.WaitGroup

	saveMu       sync.Mutex
	savedVersion uint64
}

type projection struct {
	version uint64
	filter  Filter
	items   []types.Bookmark
}

type Option func(*Client)

func WithCache(cache Cache) Option {
	return func(c *Client) {
		c.cache = cache
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithPins turns pin enforcement on or off. It is on by default.
func WithPins(enabled bool) Option {
	return func(c *Client) {
		c.pins = enabled
	}
}

func New(remote Remote, opts ...Option) *Client {
	c := &Client{remote: remote, logger: slog.Default(), pins: true}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// State reports where the client is in its lifecycle.
func (c *Client) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	switch {
	case !c.loaded:
		return StateUninitialized
	case c.inflight > 0:
		return StateMutating
	default:
		return StateLoaded
	}
}

// Snapshot returns a copy of the local sequence.
func (c *Client) Snapshot() Collection {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.seq.snapshot()
}

// Load paints from the cache on first use, then replaces the local copy with
// a fresh server listing. The first non-empty listing queues pin enforcement.
func (c *Client) Load(ctx context.Context) error {
	c.mu.Lock()
	paint := !c.loaded && c.cache != nil
	c.mu.Unlock()

	if paint {
		if cached, err := c.cache.Load(ctx); err == nil {
			c.mu.Lock()
			if !c.loaded {
				c.seq.replace(cached)
				c.loaded = true
			}
			c.mu.Unlock()
		} else {
			c.logger.DebugContext(ctx, "snapshot cache unavailable", "error", err)
		}
	}

	fresh, err := c.remote.List(ctx)
	if err != nil {
		return err
	}

	c.mu.Lock()
	c.seq.replace(fresh)
	c.loaded = true
	snap := c.seq.snapshot()
	schedulePins := c.pins && !c.pinsScheduled && len(fresh) > 0
	if schedulePins {
		c.pinsScheduled = true
	}
	c.mu.Unlock()

	c.saveCache(ctx, snap)
	if schedulePins {
		c.enqueueBackground(ctx, "enforce pins", c.enforcePins)
	}
	return nil
}

// AddLocal puts a pending record at the top and inserts it on the server.
// The record gets its id and rank when the insert completes.
func (c *Client) AddLocal(ctx context.Context, name, url, typ, region string) (*Task, error) {
	name = strings.TrimSpace(name)
	url = strings.TrimSpace(url)
	if name == "" || url == "" {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "name and url required")
	}
	if !schemePattern.MatchString(url) {
		url = "https://" + url
	}
	req := types.CreateBookmarkRequest{
		Name:   name,
		URL:    url,
		Type:   strings.TrimSpace(typ),
		Region: strings.TrimSpace(region),
	}

	c.mu.Lock()
	key := c.seq.prepend(types.Bookmark{Name: req.Name, URL: req.URL, Type: req.Type, Region: req.Region})
	snap := c.seq.snapshot()
	c.mu.Unlock()
	c.saveCache(ctx, snap)

	return c.enqueue(ctx, func(ctx context.Context) error {
		created, err := c.remote.Create(ctx, req)
		if err != nil {
			return err
		}
		c.mu.Lock()
		filled := c.seq.fill(key, created)
		snap := c.seq.snapshot()
		c.mu.Unlock()
		if filled {
			c.saveCache(ctx, snap)
		}
		return nil
	}), nil
}

// RemoveLocal drops the record with id locally and deletes it on the server.
func (c *Client) RemoveLocal(ctx context.Context, id string) (*Task, error) {
	if strings.TrimSpace(id) == "" {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "id required")
	}
	c.mu.Lock()
	i := c.seq.indexOf(id)
	if i >= 0 {
		c.seq.removeAt(i)
	}
	snap := c.seq.snapshot()
	c.mu.Unlock()
	if i >= 0 {
		c.saveCache(ctx, snap)
	}

	return c.enqueue(ctx, func(ctx context.Context) error {
		return c.remote.Delete(ctx, id)
	}), nil
}

// RemoveAt drops the record at index. Pending records never reached the
// server and are only removed locally.
func (c *Client) RemoveAt(ctx context.Context, index int) (*Task, error) {
	c.mu.Lock()
	if index < 0 || index >= len(c.seq.entries) {
		c.mu.Unlock()
		return nil, dErrors.New(dErrors.CodeInvalidInput, "index out of range")
	}
	rec := c.seq.entries[index].rec
	if !rec.Pending() {
		c.mu.Unlock()
		return c.RemoveLocal(ctx, rec.ID)
	}
	c.seq.removeAt(index)
	snap := c.seq.snapshot()
	c.mu.Unlock()

	c.saveCache(ctx, snap)
	return completedTask(nil), nil
}

// MoveLocal moves the record at from to position to, shifting the records in
// between, then sends the full id order to the server. Reorder failures are
// logged, not surfaced.
func (c *Client) MoveLocal(ctx context.Context, from, to int) (*Task, error) {
	c.mu.Lock()
	n := len(c.seq.entries)
	if from < 0 || from >= n || to < 0 || to >= n {
		c.mu.Unlock()
		return nil, dErrors.New(dErrors.CodeInvalidInput, "index out of range")
	}
	if c.seq.entries[from].rec.Pending() {
		c.mu.Unlock()
		return nil, dErrors.New(dErrors.CodeInvalidInput, "cannot move a record before it is saved")
	}
	if from == to {
		c.mu.Unlock()
		return completedTask(nil), nil
	}
	c.seq.move(from, to)
	snap := c.seq.snapshot()
	c.mu.Unlock()

	c.saveCache(ctx, snap)
	ids := snap.IDs()
	return c.enqueueBackground(ctx, "reorder", func(ctx context.Context) error {
		return c.remote.Reorder(ctx, ids)
	}), nil
}

// Apply projects the local sequence through f. Results are memoized per
// collection version and filter.
func (c *Client) Apply(f Filter) []types.Bookmark {
	f = f.normalize()
	c.mu.Lock()
	defer c.mu.Unlock()
	if m := c.memo; m != nil && m.version == c.seq.version && m.filter == f {
		return slices.Clone(m.items)
	}
	items := project(c.seq.snapshot().Items, f)
	c.memo = &projection{version: c.seq.version, filter: f, items: items}
	return slices.Clone(items)
}

// Options lists the filter values present in the local sequence.
func (c *Client) Options() Options {
	return optionsOf(c.Snapshot().Items)
}

// Wait blocks until every queued task has finished.
func (c *Client) Wait() {
	c.tasks.Wait()
}

// enqueue queues fn and returns its task. fn runs on a context detached from
// the caller's cancellation; once queued it always runs.
func (c *Client) enqueue(ctx context.Context, fn func(context.Context) error) *Task {
	detached := context.WithoutCancel(ctx)
	t := newTask(func() error { return fn(detached) })

	c.mu.Lock()
	c.queue = append(c.queue, t)
	c.inflight++
	c.tasks.Add(1)
	start := !c.draining
	c.draining = true
	c.mu.Unlock()

	if start {
		go c.drain()
	}
	return t
}

// enqueueBackground is enqueue for sync work whose failure is only logged.
// The returned task always completes without error.
func (c *Client) enqueueBackground(ctx context.Context, name string, fn func(context.Context) error) *Task {
	return c.enqueue(ctx, func(ctx context.Context) error {
		if err := fn(ctx); err != nil {
			c.logger.DebugContext(ctx, "background sync failed", "task", name, "error", err)
		}
		return nil
	})
}

func (c *Client) drain() {
	for {
		c.mu.Lock()
		if len(c.queue) == 0 {
			c.draining = false
			c.mu.Unlock()
			return
		}
		t := c.queue[0]
		c.queue = c.queue[1:]
		c.mu.Unlock()

		t.execute()

		c.mu.Lock()
		c.inflight--
		c.mu.Unlock()
		c.tasks.Done()
	}
}

// saveCache writes snap unless a newer version was already written.
func (c *Client) saveCache(ctx context.Context, snap Collection) {
	if c.cache == nil {
		return
	}
	c.saveMu.Lock()
	defer c.saveMu.Unlock()
	if snap.Version < c.savedVersion {
		return
	}
	c.savedVersion = snap.Version
	if err := c.cache.Save(ctx, snap.Items); err != nil {
		c.logger.DebugContext(ctx, "snapshot cache write failed", "error", err)
	}
}
