package store

import (
	"context"
	"errors"
	"regexp"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPostgresStoreMock(t *testing.T) (*PostgresStore, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return NewPostgresStore(sqlx.NewDb(db, "sqlmock")), mock, func() { db.Close() }
}

func TestPostgresStoreGetNested(t *testing.T) {
	s, mock, cleanup := newPostgresStoreMock(t)
	defer cleanup()

	mock.ExpectQuery(regexp.QuoteMeta(selectNodeQuery)).
		WithArgs("teachers").
		WillReturnRows(sqlmock.NewRows([]string{"doc"}).AddRow(`{"T1":{"name":"Asha","salary":42000}}`))

	raw, err := s.Get(context.Background(), "/teachers/T1")
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"Asha","salary":42000}`, string(raw))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStoreGetMissingRoot(t *testing.T) {
	s, mock, cleanup := newPostgresStoreMock(t)
	defer cleanup()

	mock.ExpectQuery(regexp.QuoteMeta(selectNodeQuery)).
		WithArgs("news").
		WillReturnRows(sqlmock.NewRows([]string{"doc"}))

	raw, err := s.Get(context.Background(), "/news")
	require.NoError(t, err)
	assert.Nil(t, raw)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStoreSetMergesIntoDocument(t *testing.T) {
	s, mock, cleanup := newPostgresStoreMock(t)
	defer cleanup()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(lockNodeQuery)).
		WithArgs("teachers").
		WillReturnRows(sqlmock.NewRows([]string{"doc"}).AddRow(`{"T1":{"name":"A"}}`))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO store_nodes")).
		WithArgs("teachers", `{"T1":{"name":"A"},"T2":{"name":"B"}}`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := s.Set(context.Background(), "/teachers/T2", map[string]interface{}{"name": "B"})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStoreDeleteLastChildRemovesRow(t *testing.T) {
	s, mock, cleanup := newPostgresStoreMock(t)
	defer cleanup()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(lockNodeQuery)).
		WithArgs("faq").
		WillReturnRows(sqlmock.NewRows([]string{"doc"}).AddRow(`{"f1":{"question":"q"}}`))
	mock.ExpectExec(regexp.QuoteMeta(deleteNodeQuery)).
		WithArgs("faq").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, s.Delete(context.Background(), "/faq/f1"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStoreUpdateRollsBackOnFailure(t *testing.T) {
	s, mock, cleanup := newPostgresStoreMock(t)
	defer cleanup()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(lockNodeQuery)).
		WithArgs("students").
		WillReturnRows(sqlmock.NewRows([]string{"doc"}).AddRow(`{"R1":{"name":"A"}}`))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO store_nodes")).
		WithArgs("students", sqlmock.AnyArg()).
		WillReturnError(errors.New("disk full"))
	mock.ExpectRollback()

	err := s.Update(context.Background(), map[string]interface{}{
		"/students/R1/results/k1": map[string]interface{}{"grade": "A"},
		"/students/R1/results/k2": map[string]interface{}{"grade": "B"},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStoreRejectsRootWrite(t *testing.T) {
	s, _, cleanup := newPostgresStoreMock(t)
	defer cleanup()

	err := s.Set(context.Background(), "/", map[string]interface{}{"a": 1})
	assert.ErrorIs(t, err, ErrRootWrite)
}
