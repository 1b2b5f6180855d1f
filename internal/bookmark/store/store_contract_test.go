package store

import (
	"context"
	"sync"

	"github.com/stretchr/testify/suite"

	"linkshelf/internal/bookmark/models"
	"linkshelf/pkg/platform/sentinel"
)

// backend is the method set shared by every store implementation.
type backend interface {
	ListAll(ctx context.Context) ([]*models.Bookmark, error)
	Insert(ctx context.Context, b *models.Bookmark) error
	Update(ctx context.Context, id string, patch models.Patch) error
	SetRank(ctx context.Context, id string, rank int) error
	Delete(ctx context.Context, id string) error
	Clear(ctx context.Context) error
	SeedIfEmpty(ctx context.Context, records []*models.Bookmark) (bool, error)
}

// contractSuite runs the same behavioral checks against any backend.
// Embedding suites set newStore.
type contractSuite struct {
	suite.Suite
	newStore func() backend
	store    backend
	ctx      context.Context
}

func (s *contractSuite) SetupTest() {
	s.ctx = context.Background()
	s.store = s.newStore()
}

func (s *contractSuite) insert(name string) *models.Bookmark {
	b := &models.Bookmark{Name: name, URL: "https://" + name + ".example"}
	s.Require().NoError(s.store.Insert(s.ctx, b))
	return b
}

func (s *contractSuite) names() []string {
	all, err := s.store.ListAll(s.ctx)
	s.Require().NoError(err)
	out := make([]string, 0, len(all))
	for _, b := range all {
		out = append(out, b.Name)
	}
	return out
}

func strPtr(v string) *string { return &v }

func (s *contractSuite) TestInsert() {
	s.Run("first record gets rank zero", func() {
		b := s.insert("alpha")
		s.NotEmpty(b.ID)
		s.Equal(0, b.Rank)
	})

	s.Run("next record lands after the current max", func() {
		s.Require().NoError(s.store.Clear(s.ctx))
		a := s.insert("a")
		s.Require().NoError(s.store.SetRank(s.ctx, a.ID, 7))
		b := s.insert("b")
		s.Equal(8, b.Rank)
		s.Equal([]string{"a", "b"}, s.names())
	})
}

func (s *contractSuite) TestListAllOrdering() {
	a := s.insert("a")
	b := s.insert("b")
	c := s.insert("c")

	s.Require().NoError(s.store.SetRank(s.ctx, a.ID, 5))
	s.Require().NoError(s.store.SetRank(s.ctx, b.ID, 1))
	s.Require().NoError(s.store.SetRank(s.ctx, c.ID, 1))

	// equal ranks fall back to id order, which follows creation order
	s.Equal([]string{"b", "c", "a"}, s.names())
}

func (s *contractSuite) TestUpdate() {
	s.Run("changes only supplied fields", func() {
		b := s.insert("orig")
		err := s.store.Update(s.ctx, b.ID, models.Patch{Name: strPtr("renamed"), Type: strPtr("chat")})
		s.Require().NoError(err)

		all, err := s.store.ListAll(s.ctx)
		s.Require().NoError(err)
		s.Require().Len(all, 1)
		s.Equal("renamed", all[0].Name)
		s.Equal("https://orig.example", all[0].URL)
		s.Equal("chat", all[0].Type)
		s.Equal(b.Rank, all[0].Rank)
	})

	s.Run("unknown id returns ErrNotFound", func() {
		err := s.store.Update(s.ctx, "missing", models.Patch{Name: strPtr("x")})
		s.ErrorIs(err, sentinel.ErrNotFound)
	})

	s.Run("empty patch on unknown id returns ErrNotFound", func() {
		err := s.store.Update(s.ctx, "missing", models.Patch{})
		s.ErrorIs(err, sentinel.ErrNotFound)
	})
}

func (s *contractSuite) TestDelete() {
	b := s.insert("gone")
	s.Require().NoError(s.store.Delete(s.ctx, b.ID))
	s.Require().NoError(s.store.Delete(s.ctx, b.ID), "second delete is a no-op")

	s.Empty(s.names())
}

func (s *contractSuite) TestSetRankUnknownIDIsNoop() {
	s.insert("only")
	s.Require().NoError(s.store.SetRank(s.ctx, "missing", 3))
	s.Equal([]string{"only"}, s.names())
}

func (s *contractSuite) TestClear() {
	s.insert("a")
	s.insert("b")
	s.Require().NoError(s.store.Clear(s.ctx))
	s.Empty(s.names())
}

func (s *contractSuite) TestSeedIfEmpty() {
	seed := func() []*models.Bookmark {
		return []*models.Bookmark{
			{Name: "one", URL: "https://one.example", Rank: 0},
			{Name: "two", URL: "https://two.example", Rank: 1},
		}
	}

	s.Run("populates empty store", func() {
		seeded, err := s.store.SeedIfEmpty(s.ctx, seed())
		s.Require().NoError(err)
		s.True(seeded)
		s.Equal([]string{"one", "two"}, s.names())
	})

	s.Run("second call is a no-op", func() {
		seeded, err := s.store.SeedIfEmpty(s.ctx, seed())
		s.Require().NoError(err)
		s.False(seeded)
		s.Len(s.names(), 2)
	})

	s.Run("concurrent seeders insert once", func() {
		s.Require().NoError(s.store.Clear(s.ctx))
		var wg sync.WaitGroup
		for i := 0; i < 8; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, _ = s.store.SeedIfEmpty(s.ctx, seed())
			}()
		}
		wg.Wait()
		s.Len(s.names(), 2)
	})
}
