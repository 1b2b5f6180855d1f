//go:build integration

package store

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	_ "github.com/lib/pq"

	"linkshelf/pkg/testutil/containers"
)

type PostgresStoreSuite struct {
	contractSuite
	postgres *containers.PostgresContainer
}

func TestPostgresStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	s := new(PostgresStoreSuite)
	s.newStore = func() backend {
		st := NewSQL(s.postgres.DB, "pgx")
		ctx := context.Background()
		require.NoError(s.T(), st.EnsureSchema(ctx))
		require.NoError(s.T(), s.postgres.TruncateTables(ctx, table))
		return st
	}
	suite.Run(t, s)
}

func (s *PostgresStoreSuite) SetupSuite() {
	s.postgres = containers.GetManager().GetPostgres(s.T())
}

// TestLibPQDriver checks the same queries through the lib/pq driver.
func (s *PostgresStoreSuite) TestLibPQDriver() {
	db, err := sql.Open("postgres", s.postgres.DSN)
	s.Require().NoError(err)
	defer db.Close()

	st := NewSQL(db, "postgres")
	b := s.insert("via-pgx")
	all, err := st.ListAll(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(all, 1)
	s.Equal(b.ID, all[0].ID)
}
