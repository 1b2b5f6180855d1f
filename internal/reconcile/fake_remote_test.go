package reconcile

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"

	dErrors "linkshelf/pkg/domain-errors"
	"linkshelf/pkg/types"
)

var errOffline = dErrors.Wrap(errors.New("connection refused"), dErrors.CodeStoreUnavailable, "server unreachable")

// fakeRemote is an in-memory server. It records reorder calls and can be
// switched offline or gated to hold calls in flight.
type fakeRemote struct {
	mu       sync.Mutex
	records  []types.Bookmark
	nextID   int
	offline  bool
	readOnly bool
	gate     chan struct{}
	reorders [][]string
	creates  []types.CreateBookmarkRequest
	deletes  []string
	lists    int
}

func newFakeRemote(names ...string) *fakeRemote {
	f := &fakeRemote{}
	for _, n := range names {
		f.add(types.Bookmark{Name: n, URL: "https://" + n + ".example"})
	}
	return f
}

func (f *fakeRemote) add(b types.Bookmark) types.Bookmark {
	f.nextID++
	b.ID = fmt.Sprintf("id-%02d", f.nextID)
	b.Rank = len(f.records)
	f.records = append(f.records, b)
	return b
}

func (f *fakeRemote) wait(ctx context.Context) error {
	f.mu.Lock()
	gate := f.gate
	f.mu.Unlock()
	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.offline {
		return errOffline
	}
	return nil
}

// write is wait for mutating calls; readOnly fails them alone.
func (f *fakeRemote) write(ctx context.Context) error {
	if err := f.wait(ctx); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.readOnly {
		return errOffline
	}
	return nil
}

func (f *fakeRemote) List(ctx context.Context) ([]types.Bookmark, error) {
	if err := f.wait(ctx); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lists++
	return slices.Clone(f.records), nil
}

func (f *fakeRemote) Create(ctx context.Context, req types.CreateBookmarkRequest) (types.Bookmark, error) {
	if err := f.write(ctx); err != nil {
		return types.Bookmark{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.creates = append(f.creates, req)
	return f.add(types.Bookmark{Name: req.Name, URL: req.URL, Type: req.Type, Region: req.Region}), nil
}

func (f *fakeRemote) Delete(ctx context.Context, id string) error {
	if err := f.write(ctx); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deletes = append(f.deletes, id)
	f.records = slices.DeleteFunc(f.records, func(b types.Bookmark) bool { return b.ID == id })
	return nil
}

func (f *fakeRemote) Reorder(ctx context.Context, ids []string) error {
	if err := f.write(ctx); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reorders = append(f.reorders, slices.Clone(ids))
	for rank, id := range ids {
		for i := range f.records {
			if f.records[i].ID == id {
				f.records[i].Rank = rank
			}
		}
	}
	slices.SortStableFunc(f.records, func(a, b types.Bookmark) int { return a.Rank - b.Rank })
	return nil
}

func (f *fakeRemote) setOffline(v bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.offline = v
}

func (f *fakeRemote) reorderCalls() [][]string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return slices.Clone(f.reorders)
}

func (f *fakeRemote) names() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, 0, len(f.records))
	for _, b := range f.records {
		out = append(out, b.Name)
	}
	return out
}

// hold makes every call block until the returned channel is closed.
func (f *fakeRemote) hold() chan struct{} {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.gate = make(chan struct{})
	return f.gate
}
