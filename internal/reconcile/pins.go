package reconcile

import (
	"context"
	"strings"

	"linkshelf/pkg/types"
)

// pin is an entry that must sit at a fixed 1-based display position.
type pin struct {
	position int
	match    func(lowerName string) bool
	// create is used when no record matches. Nil means the pin is never
	// created.
	create *types.CreateBookmarkRequest
}

// pins are checked in order; the first is the anchor.
var pins = []pin{
	{
		position: 2,
		match:    func(n string) bool { return strings.HasPrefix(n, "gemini") },
	},
	{
		position: 4,
		match:    func(n string) bool { return strings.Contains(n, "grok") },
		create:   &types.CreateBookmarkRequest{Name: "Grok", URL: "https://grok.com", Type: "chat"},
	},
	{
		position: 6,
		match: func(n string) bool {
			return strings.Contains(n, "notebooklm") || strings.Contains(n, "notebook llm")
		},
		create: &types.CreateBookmarkRequest{Name: "NotebookLM", URL: "https://notebooklm.google", Type: "productivity"},
	},
}

// anchorPin gates placement: without it nothing is repositioned.
const anchorPin = 0

// locatePins returns, per pin, the index of its record in items or -1. A
// record satisfies at most one pin.
func locatePins(items []types.Bookmark) []int {
	at := make([]int, len(pins))
	claimed := make(map[int]bool, len(pins))
	for k, p := range pins {
		at[k] = -1
		for i, b := range items {
			if !claimed[i] && p.match(strings.ToLower(b.Name)) {
				at[k] = i
				claimed[i] = true
				break
			}
		}
	}
	return at
}

// placePins builds the display order. Non-pinned records keep their
// relative order and fill the slots before each pin; leftovers go last.
func placePins(items []types.Bookmark, at []int) []types.Bookmark {
	pinned := make(map[int]bool, len(at))
	for _, i := range at {
		if i >= 0 {
			pinned[i] = true
		}
	}
	rest := make([]types.Bookmark, 0, len(items))
	for i, b := range items {
		if !pinned[i] {
			rest = append(rest, b)
		}
	}

	out := make([]types.Bookmark, 0, len(items))
	for k, p := range pins {
		if at[k] < 0 {
			continue
		}
		for len(out) < p.position-1 && len(rest) > 0 {
			out = append(out, rest[0])
			rest = rest[1:]
		}
		out = append(out, items[at[k]])
	}
	return append(out, rest...)
}

// enforcePins creates missing pins, then moves all pins into place with one
// reorder. It runs once per client session.
func (c *Client) enforcePins(ctx context.Context) error {
	snap := c.Snapshot()
	items := snap.Items
	at := locatePins(items)

	var created []types.Bookmark
	for k, p := range pins {
		if at[k] >= 0 || p.create == nil {
			continue
		}
		b, err := c.remote.Create(ctx, *p.create)
		if err != nil {
			c.logger.DebugContext(ctx, "pin create failed", "name", p.create.Name, "error", err)
			continue
		}
		created = append(created, b)
	}

	if len(created) > 0 {
		fresh, err := c.remote.List(ctx)
		if err == nil {
			c.mu.Lock()
			c.seq.replace(fresh)
			snap = c.seq.snapshot()
			c.mu.Unlock()
			c.saveCache(ctx, snap)
			items = snap.Items
		} else {
			c.logger.DebugContext(ctx, "reload after pin create failed", "error", err)
			items = append(items, created...)
		}
		at = locatePins(items)
	}

	if at[anchorPin] < 0 {
		return nil
	}
	target := placePins(items, at)
	ids := make([]string, 0, len(target))
	for _, b := range target {
		if b.Pending() {
			return nil
		}
		ids = append(ids, b.ID)
	}
	if err := c.remote.Reorder(ctx, ids); err != nil {
		return err
	}

	c.mu.Lock()
	// A local edit since the snapshot wins; the next Load reconciles.
	applied := c.seq.version == snap.Version
	if applied {
		c.seq.replace(target)
		snap = c.seq.snapshot()
	}
	c.mu.Unlock()
	if applied {
		c.saveCache(ctx, snap)
	}
	return nil
}
