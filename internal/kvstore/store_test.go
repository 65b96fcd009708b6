package kvstore_test

import (
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/yukikurage/staffdesk/internal/kvstore"
	"github.com/yukikurage/staffdesk/internal/testutil"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// StoreContractSuite runs the same behaviour checks against every backend.
type StoreContractSuite struct {
	suite.Suite
	newStore func() kvstore.Store
	store    kvstore.Store
}

func (s *StoreContractSuite) SetupTest() {
	s.store = s.newStore()
}

func (s *StoreContractSuite) TestGetMissing() {
	_, ok, err := s.store.Get("missing")
	s.Require().NoError(err)
	s.False(ok)
}

func (s *StoreContractSuite) TestSetGetOverwrite() {
	s.Require().NoError(s.store.Set("tasks", `[{"id":"a"}]`))
	s.Require().NoError(s.store.Set("tasks", `[]`))

	value, ok, err := s.store.Get("tasks")
	s.Require().NoError(err)
	s.True(ok)
	s.Equal(`[]`, value)
}

func (s *StoreContractSuite) TestDelete() {
	s.Require().NoError(s.store.Set("currentUser", `{}`))
	s.Require().NoError(s.store.Delete("currentUser"))
	s.Require().NoError(s.store.Delete("currentUser"))

	_, ok, err := s.store.Get("currentUser")
	s.Require().NoError(err)
	s.False(ok)
}

func TestMemoryStore(t *testing.T) {
	suite.Run(t, &StoreContractSuite{newStore: func() kvstore.Store {
		return kvstore.NewMemoryStore()
	}})
}

func TestGormStore(t *testing.T) {
	suite.Run(t, &StoreContractSuite{newStore: func() kvstore.Store {
		db, err := testutil.NewInMemoryDB()
		require.NoError(t, err)
		return kvstore.NewGormStore(db)
	}})
}

func newMockedStore(t *testing.T) (*kvstore.GormStore, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{})
	require.NoError(t, err)

	return kvstore.NewGormStore(db), mock
}

func TestGormStore_GetBackendError(t *testing.T) {
	store, mock := newMockedStore(t)
	mock.ExpectQuery(`SELECT \* FROM "kv_entries"`).WillReturnError(errors.New("connection reset"))

	_, ok, err := store.Get("tasks")
	require.Error(t, err)
	require.False(t, ok)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGormStore_GetRow(t *testing.T) {
	store, mock := newMockedStore(t)
	rows := sqlmock.NewRows([]string{"entry_key", "entry_value"}).AddRow("tasks", "[]")
	mock.ExpectQuery(`SELECT \* FROM "kv_entries"`).WillReturnRows(rows)

	value, ok, err := store.Get("tasks")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "[]", value)
	require.NoError(t, mock.ExpectationsWereMet())
}
