package store

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	_ "modernc.org/sqlite"
)

type SQLiteStoreSuite struct {
	contractSuite
}

func TestSQLiteStoreSuite(t *testing.T) {
	s := new(SQLiteStoreSuite)
	s.newStore = func() backend {
		db, err := sql.Open("sqlite", filepath.Join(s.T().TempDir(), "bookmarks.db"))
		require.NoError(s.T(), err)
		db.SetMaxOpenConns(1)
		s.T().Cleanup(func() { _ = db.Close() })

		st := NewSQL(db, "sqlite")
		require.NoError(s.T(), st.EnsureSchema(context.Background()))
		return st
	}
	suite.Run(t, s)
}

func (s *SQLiteStoreSuite) TestEnsureSchemaIsRepeatable() {
	st := s.store.(*SQLStore)
	s.Require().NoError(st.EnsureSchema(s.ctx))
	s.Require().NoError(st.Ping(s.ctx))
}
