package postgres

import (
	"context"
	"errors"
	"strconv"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	pgxmock "github.com/pashagolub/pgxmock/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JonMunkholm/catalog-import/internal/core"
)

func newMockStore(t *testing.T) (*Store, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		mock.Close()
	})
	return New(mock), mock
}

func TestStore_FindCategory(t *testing.T) {
	id := uuid.New()

	t.Run("found", func(t *testing.T) {
		store, mock := newMockStore(t)
		mock.ExpectQuery(`SELECT id, name, description FROM categories WHERE name = \$1 LIMIT 1`).
			WithArgs("Tools").
			WillReturnRows(pgxmock.NewRows([]string{"id", "name", "description"}).AddRow(id, "Tools", "Tools"))

		got, err := store.FindCategory(context.Background(), "Tools")
		require.NoError(t, err)
		assert.Equal(t, core.Category{ID: id, Name: "Tools", Description: "Tools"}, got)
	})

	t.Run("not found", func(t *testing.T) {
		store, mock := newMockStore(t)
		mock.ExpectQuery(`SELECT`).WithArgs("Nope").WillReturnError(pgx.ErrNoRows)

		_, err := store.FindCategory(context.Background(), "Nope")
		assert.ErrorIs(t, err, core.ErrNotFound)
	})
}

func TestStore_CreateCategory(t *testing.T) {
	store, mock := newMockStore(t)
	id := uuid.New()
	mock.ExpectQuery(`INSERT INTO categories \(id,name,description\) VALUES \(\$1,\$2,\$3\) ON CONFLICT \(name\)`).
		WithArgs(pgxmock.AnyArg(), "Garden", "Garden").
		WillReturnRows(pgxmock.NewRows([]string{"id", "name", "description"}).AddRow(id, "Garden", "Garden"))

	got, err := store.CreateCategory(context.Background(), "Garden", "Garden")
	require.NoError(t, err)
	assert.Equal(t, id, got.ID)
}

func TestStore_UpdateCategory(t *testing.T) {
	id := uuid.New()

	t.Run("updated", func(t *testing.T) {
		store, mock := newMockStore(t)
		mock.ExpectExec(`UPDATE categories SET description = \$1, updated_at = now\(\) WHERE id = \$2`).
			WithArgs("Hand tools", pgxmock.AnyArg()).
			WillReturnResult(pgxmock.NewResult("UPDATE", 1))

		assert.NoError(t, store.UpdateCategory(context.Background(), id, "Hand tools"))
	})

	t.Run("missing row", func(t *testing.T) {
		store, mock := newMockStore(t)
		mock.ExpectExec(`UPDATE categories`).
			WithArgs("x", pgxmock.AnyArg()).
			WillReturnResult(pgxmock.NewResult("UPDATE", 0))

		assert.ErrorIs(t, store.UpdateCategory(context.Background(), id, "x"), core.ErrNotFound)
	})
}

func TestStore_FindProduct(t *testing.T) {
	store, mock := newMockStore(t)
	id, catID := uuid.New(), uuid.New()
	price := toNumeric(decimal.RequireFromString("9.99"))

	mock.ExpectQuery(`SELECT id, name, category_id, price, quantity FROM products WHERE category_id = \$1 AND name = \$2 ORDER BY created_at, id LIMIT 1`).
		WithArgs(pgxmock.AnyArg(), "Widget").
		WillReturnRows(pgxmock.NewRows([]string{"id", "name", "category_id", "price", "quantity"}).
			AddRow(id, "Widget", catID, price, int64(5)))

	got, err := store.FindProduct(context.Background(), "Widget", catID)
	require.NoError(t, err)

	assert.Equal(t, id, got.ID)
	assert.Equal(t, catID, got.CategoryID)
	assert.True(t, decimal.RequireFromString("9.99").Equal(got.Price))
	assert.Equal(t, int64(5), got.Quantity)
}

func TestStore_CreateProducts(t *testing.T) {
	catID := uuid.New()
	fields := []core.ProductFields{
		{Name: "Widget", CategoryID: catID, Price: decimal.NewFromInt(1), Quantity: 1},
		{Name: "Gizmo", CategoryID: catID, Price: decimal.NewFromInt(2), Quantity: 2},
	}

	t.Run("single statement", func(t *testing.T) {
		store, mock := newMockStore(t)
		mock.ExpectExec(`INSERT INTO products \(id,name,category_id,price,quantity\) VALUES \(\$1,\$2,\$3,\$4,\$5\),\(\$6,\$7,\$8,\$9,\$10\)`).
			WithArgs(
				pgxmock.AnyArg(), "Widget", pgxmock.AnyArg(), pgxmock.AnyArg(), int64(1),
				pgxmock.AnyArg(), "Gizmo", pgxmock.AnyArg(), pgxmock.AnyArg(), int64(2),
			).
			WillReturnResult(pgxmock.NewResult("INSERT", 2))

		created, err := store.CreateProducts(context.Background(), fields)
		require.NoError(t, err)
		require.Len(t, created, 2)
		assert.NotEqual(t, created[0].ID, created[1].ID)
		assert.Equal(t, "Gizmo", created[1].Name)
	})

	t.Run("foreign key violation", func(t *testing.T) {
		store, mock := newMockStore(t)
		mock.ExpectExec(`INSERT INTO products`).
			WillReturnError(&pgconn.PgError{Code: "23503", ConstraintName: "products_category_id_fkey"})

		_, err := store.CreateProducts(context.Background(), fields)
		require.ErrorIs(t, err, ErrMissingReference)
		assert.Equal(t, "DB002", core.MapError(err).Code)
	})

	t.Run("empty batch", func(t *testing.T) {
		store, _ := newMockStore(t)
		created, err := store.CreateProducts(context.Background(), nil)
		assert.NoError(t, err)
		assert.Empty(t, created)
	})

	t.Run("split batch shares a transaction", func(t *testing.T) {
		store, mock := newMockStore(t)
		store.batchRows = 2
		three := append(fields, core.ProductFields{Name: "Doohickey", CategoryID: catID, Price: decimal.NewFromInt(3), Quantity: 3})

		mock.ExpectBegin()
		mock.ExpectExec(`INSERT INTO products \(id,name,category_id,price,quantity\) VALUES \(\$1,\$2,\$3,\$4,\$5\),\(\$6,\$7,\$8,\$9,\$10\)`).
			WithArgs(
				pgxmock.AnyArg(), "Widget", pgxmock.AnyArg(), pgxmock.AnyArg(), int64(1),
				pgxmock.AnyArg(), "Gizmo", pgxmock.AnyArg(), pgxmock.AnyArg(), int64(2),
			).
			WillReturnResult(pgxmock.NewResult("INSERT", 2))
		mock.ExpectExec(`INSERT INTO products \(id,name,category_id,price,quantity\) VALUES \(\$1,\$2,\$3,\$4,\$5\)$`).
			WithArgs(pgxmock.AnyArg(), "Doohickey", pgxmock.AnyArg(), pgxmock.AnyArg(), int64(3)).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))
		mock.ExpectCommit()

		created, err := store.CreateProducts(context.Background(), three)
		require.NoError(t, err)
		require.Len(t, created, 3)
		assert.Equal(t, "Doohickey", created[2].Name)
	})

	t.Run("split batch failure rolls back", func(t *testing.T) {
		store, mock := newMockStore(t)
		store.batchRows = 1

		mock.ExpectBegin()
		mock.ExpectExec(`INSERT INTO products`).WillReturnResult(pgxmock.NewResult("INSERT", 1))
		mock.ExpectExec(`INSERT INTO products`).
			WillReturnError(&pgconn.PgError{Code: "23514", ConstraintName: "products_quantity_check"})
		mock.ExpectRollback()

		created, err := store.CreateProducts(context.Background(), fields)
		require.ErrorIs(t, err, ErrCheckViolation)
		assert.Nil(t, created)
	})

	t.Run("bind parameter limit", func(t *testing.T) {
		store, mock := newMockStore(t)
		require.Equal(t, 13107, store.batchRows)

		many := make([]core.ProductFields, store.batchRows+1)
		for i := range many {
			many[i] = core.ProductFields{Name: "P" + strconv.Itoa(i), CategoryID: catID, Price: decimal.NewFromInt(1), Quantity: 1}
		}

		mock.ExpectBegin()
		mock.ExpectExec(`\(\$65531,\$65532,\$65533,\$65534,\$65535\)$`).
			WillReturnResult(pgxmock.NewResult("INSERT", int64(store.batchRows)))
		mock.ExpectExec(`VALUES \(\$1,\$2,\$3,\$4,\$5\)$`).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))
		mock.ExpectCommit()

		created, err := store.CreateProducts(context.Background(), many)
		require.NoError(t, err)
		assert.Len(t, created, len(many))
	})
}

func TestStore_UpdateProduct(t *testing.T) {
	store, mock := newMockStore(t)
	id, catID := uuid.New(), uuid.New()

	mock.ExpectExec(`UPDATE products SET category_id = \$1, name = \$2, price = \$3, quantity = \$4, updated_at = now\(\) WHERE id = \$5`).
		WithArgs(pgxmock.AnyArg(), "Widget", pgxmock.AnyArg(), int64(9), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	err := store.UpdateProduct(context.Background(), id, core.ProductFields{
		Name: "Widget", CategoryID: catID, Price: decimal.RequireFromString("3.50"), Quantity: 9,
	})
	assert.NoError(t, err)
}

func TestMapError(t *testing.T) {
	boom := errors.New("connection reset by peer")

	assert.ErrorIs(t, mapError(pgx.ErrNoRows, "op"), core.ErrNotFound)
	assert.ErrorIs(t, mapError(&pgconn.PgError{Code: "23505"}, "op"), ErrDuplicate)
	assert.ErrorIs(t, mapError(&pgconn.PgError{Code: "23514"}, "op"), ErrCheckViolation)
	assert.ErrorIs(t, mapError(context.Canceled, "op"), context.Canceled)
	assert.ErrorIs(t, mapError(boom, "op"), boom)
}

func TestNumericConversion(t *testing.T) {
	for _, s := range []string{"0", "9.99", "-12.5", "1234567890.0001"} {
		d := decimal.RequireFromString(s)
		assert.True(t, d.Equal(fromNumeric(toNumeric(d))), s)
	}
	assert.True(t, decimal.Zero.Equal(fromNumeric(pgtype.Numeric{})))
}
