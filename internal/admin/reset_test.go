package admin

import (
	"context"
	"errors"
	"testing"

	pgxmock "github.com/pashagolub/pgxmock/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMock(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		mock.Close()
	})
	return mock
}

func TestResetAll(t *testing.T) {
	mock := newMock(t)
	mock.ExpectExec(`DELETE FROM products`).WillReturnResult(pgxmock.NewResult("DELETE", 12))
	mock.ExpectExec(`DELETE FROM categories`).WillReturnResult(pgxmock.NewResult("DELETE", 3))

	r := &Resetter{DB: mock}
	deleted, err := r.ResetAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, map[string]int64{"products": 12, "categories": 3}, deleted)
}

func TestResetProducts(t *testing.T) {
	mock := newMock(t)
	mock.ExpectExec(`DELETE FROM products`).WillReturnResult(pgxmock.NewResult("DELETE", 5))

	r := &Resetter{DB: mock}
	deleted, err := r.ResetProducts(context.Background())
	require.NoError(t, err)
	assert.Equal(t, map[string]int64{"products": 5}, deleted)
}

func TestResetAll_StopsOnError(t *testing.T) {
	mock := newMock(t)
	mock.ExpectExec(`DELETE FROM products`).WillReturnError(errors.New("connection reset"))

	r := &Resetter{DB: mock}
	deleted, err := r.ResetAll(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reset products")
	assert.Empty(t, deleted)
}
