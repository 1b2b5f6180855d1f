package cache

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"linkshelf/pkg/types"
)

func backends(t *testing.T) map[string]Backend {
	t.Helper()
	f, err := NewFile(filepath.Join(t.TempDir(), "cache"))
	require.NoError(t, err)
	return map[string]Backend{
		"memory": NewMemory(),
		"file":   f,
	}
}

func TestSnapshot(t *testing.T) {
	ctx := context.Background()
	for name, backend := range backends(t) {
		t.Run(name, func(t *testing.T) {
			snap := NewSnapshot(backend)

			_, err := snap.Load(ctx)
			assert.True(t, IsMiss(err), "empty backend is a miss")

			want := []types.Bookmark{
				{ID: "1", Name: "A", URL: "https://a.example", Rank: 0},
				{Name: "pending", URL: "https://p.example"},
			}
			require.NoError(t, snap.Save(ctx, want))

			got, err := snap.Load(ctx)
			require.NoError(t, err)
			assert.Equal(t, want, got)

			require.NoError(t, snap.Save(ctx, nil))
			got, err = snap.Load(ctx)
			require.NoError(t, err)
			assert.Empty(t, got)
		})
	}
}

func TestSnapshotCorruptIsMiss(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	require.NoError(t, m.Set(ctx, Key, []byte("{not json")))

	_, err := NewSnapshot(m).Load(ctx)
	assert.True(t, IsMiss(err))

	require.NoError(t, m.Set(ctx, Key, []byte("null")))
	_, err = NewSnapshot(m).Load(ctx)
	assert.True(t, IsMiss(err))
}

func TestFileLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	f, err := NewFile(dir)
	require.NoError(t, err)
	require.NoError(t, f.Set(context.Background(), Key, []byte("[]")))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "linkshelf_cache_v2.json", entries[0].Name())
}
