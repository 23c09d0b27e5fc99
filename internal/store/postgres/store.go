package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"

	"github.com/JonMunkholm/catalog-import/internal/core"
)

var (
	// ErrDuplicate wraps unique_violation errors.
	ErrDuplicate = errors.New("duplicate key")
	// ErrMissingReference wraps foreign_key_violation errors.
	ErrMissingReference = errors.New("violates foreign key constraint")
	// ErrCheckViolation wraps check_violation errors.
	ErrCheckViolation = errors.New("check constraint violated")
)

// maxBindParams is the bind parameter limit of one Postgres statement.
const maxBindParams = 65535

// productColumns are written by CreateProducts, one bind parameter each.
var productColumns = []string{"id", "name", "category_id", "price", "quantity"}

// Querier is implemented by *pgxpool.Pool, pgx.Tx and pgxmock pools.
type Querier interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Store persists categories and products.
type Store struct {
	q  Querier
	sb squirrel.StatementBuilderType

	// batchRows caps the rows of one INSERT statement.
	batchRows int
}

var _ core.RecordStore = (*Store)(nil)

// New creates a store running queries on q.
func New(q Querier) *Store {
	return &Store{
		q:         q,
		sb:        squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
		batchRows: maxBindParams / len(productColumns),
	}
}

// FindCategory looks a category up by exact name.
func (s *Store) FindCategory(ctx context.Context, name string) (core.Category, error) {
	query, args, err := s.sb.
		Select("id", "name", "description").
		From("categories").
		Where(squirrel.Eq{"name": name}).
		Limit(1).
		ToSql()
	if err != nil {
		return core.Category{}, fmt.Errorf("build query: %w", err)
	}

	var c core.Category
	if err := s.q.QueryRow(ctx, query, args...).Scan(&c.ID, &c.Name, &c.Description); err != nil {
		return core.Category{}, mapError(err, "find category")
	}
	return c, nil
}

// CreateCategory inserts a category. If another writer created the name
// first, the existing row is returned with its description updated.
func (s *Store) CreateCategory(ctx context.Context, name, description string) (core.Category, error) {
	query, args, err := s.sb.
		Insert("categories").
		Columns("id", "name", "description").
		Values(uuid.New(), name, description).
		Suffix("ON CONFLICT (name) DO UPDATE SET description = EXCLUDED.description, updated_at = now() RETURNING id, name, description").
		ToSql()
	if err != nil {
		return core.Category{}, fmt.Errorf("build query: %w", err)
	}

	var c core.Category
	if err := s.q.QueryRow(ctx, query, args...).Scan(&c.ID, &c.Name, &c.Description); err != nil {
		return core.Category{}, mapError(err, "create category")
	}
	return c, nil
}

// UpdateCategory replaces a category description.
func (s *Store) UpdateCategory(ctx context.Context, id uuid.UUID, description string) error {
	query, args, err := s.sb.
		Update("categories").
		Set("description", description).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build query: %w", err)
	}

	return s.execOne(ctx, "update category", query, args)
}

// FindProduct returns one product with the given name and category, the
// earliest by created_at with ties broken by id.
func (s *Store) FindProduct(ctx context.Context, name string, categoryID uuid.UUID) (core.Product, error) {
	query, args, err := s.sb.
		Select("id", "name", "category_id", "price", "quantity").
		From("products").
		Where(squirrel.Eq{"name": name, "category_id": categoryID}).
		OrderBy("created_at", "id").
		Limit(1).
		ToSql()
	if err != nil {
		return core.Product{}, fmt.Errorf("build query: %w", err)
	}

	var (
		p     core.Product
		price pgtype.Numeric
	)
	err = s.q.QueryRow(ctx, query, args...).Scan(&p.ID, &p.Name, &p.CategoryID, &price, &p.Quantity)
	if err != nil {
		return core.Product{}, mapError(err, "find product")
	}
	p.Price = fromNumeric(price)
	return p, nil
}

// CreateProducts inserts all products or none. A batch that fits the bind
// parameter limit is one multi-row statement; a larger one is split into
// several statements sharing a transaction.
func (s *Store) CreateProducts(ctx context.Context, fields []core.ProductFields) ([]core.Product, error) {
	if len(fields) == 0 {
		return nil, nil
	}

	products := make([]core.Product, len(fields))
	for i, f := range fields {
		products[i] = core.Product{ID: uuid.New(), ProductFields: f}
	}

	if len(products) <= s.batchRows {
		if err := s.insertProducts(ctx, s.q, products); err != nil {
			return nil, err
		}
		return products, nil
	}

	tx, err := s.q.Begin(ctx)
	if err != nil {
		return nil, mapError(err, "begin create products")
	}
	for start := 0; start < len(products); start += s.batchRows {
		end := min(start+s.batchRows, len(products))
		if err := s.insertProducts(ctx, tx, products[start:end]); err != nil {
			_ = tx.Rollback(ctx)
			return nil, err
		}
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, mapError(err, "commit create products")
	}
	return products, nil
}

func (s *Store) insertProducts(ctx context.Context, q Querier, products []core.Product) error {
	insert := s.sb.Insert("products").Columns(productColumns...)
	for _, p := range products {
		insert = insert.Values(p.ID, p.Name, p.CategoryID, toNumeric(p.Price), p.Quantity)
	}

	query, args, err := insert.ToSql()
	if err != nil {
		return fmt.Errorf("build query: %w", err)
	}

	if _, err := q.Exec(ctx, query, args...); err != nil {
		return mapError(err, "create products")
	}
	return nil
}

// UpdateProduct overwrites every writable field of a product.
func (s *Store) UpdateProduct(ctx context.Context, id uuid.UUID, f core.ProductFields) error {
	query, args, err := s.sb.
		Update("products").
		SetMap(map[string]any{
			"name":        f.Name,
			"category_id": f.CategoryID,
			"price":       toNumeric(f.Price),
			"quantity":    f.Quantity,
			"updated_at":  squirrel.Expr("now()"),
		}).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build query: %w", err)
	}

	return s.execOne(ctx, "update product", query, args)
}

func (s *Store) execOne(ctx context.Context, op, query string, args []any) error {
	tag, err := s.q.Exec(ctx, query, args...)
	if err != nil {
		return mapError(err, op)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%s: %w", op, core.ErrNotFound)
	}
	return nil
}

// mapError converts pgx errors to store errors. Context errors pass through.
func mapError(err error, op string) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return core.ErrNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505":
			return fmt.Errorf("%s: %w (%s)", op, ErrDuplicate, pgErr.ConstraintName)
		case "23503":
			return fmt.Errorf("%s: %w (%s)", op, ErrMissingReference, pgErr.ConstraintName)
		case "23514":
			return fmt.Errorf("%s: %w (%s)", op, ErrCheckViolation, pgErr.ConstraintName)
		}
	}

	return fmt.Errorf("%s: %w", op, err)
}

func toNumeric(d decimal.Decimal) pgtype.Numeric {
	return pgtype.Numeric{Int: d.Coefficient(), Exp: d.Exponent(), Valid: true}
}

func fromNumeric(n pgtype.Numeric) decimal.Decimal {
	if !n.Valid || n.Int == nil {
		return decimal.Zero
	}
	return decimal.NewFromBigInt(n.Int, n.Exp)
}
