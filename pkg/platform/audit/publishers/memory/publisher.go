// Package memory records audit events in memory for tests and local runs.
package memory

import (
	"context"
	"sync"

	"linkshelf/pkg/platform/audit"
)

type Publisher struct {
	mu     sync.RWMutex
	events []audit.Event
}

func New() *Publisher {
	return &Publisher{}
}

func (p *Publisher) Emit(_ context.Context, e audit.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return nil
}

// Events returns a copy of everything emitted so far, oldest first.
func (p *Publisher) Events() []audit.Event {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return append([]audit.Event{}, p.events...)
}

// Actions lists the emitted actions in order.
func (p *Publisher) Actions() []audit.Action {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make([]audit.Action, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Action)
	}
	return out
}

func (p *Publisher) Clear() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = nil
}

func (p *Publisher) Close() error { return nil }
