// Package core provides the business logic for product catalog imports.
// This package has no transport dependencies and can be used by any frontend.
package core

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DefaultChunkSize is the number of valid rows upserted per chunk when the
// caller does not supply a positive chunk size.
const DefaultChunkSize = 100

// HeaderRowIndex is the 1-based sheet row occupied by the column header.
// Data rows start at HeaderRowIndex+1.
const HeaderRowIndex = 1

// Column headers of the fixed import shape, in sheet order.
var ImportColumns = []string{"Product Name", "Category", "Price", "Quantity"}

var (
	// ErrInvalidSheet is returned when the uploaded file cannot be read as a
	// spreadsheet. It aborts the whole run before any row is processed.
	ErrInvalidSheet = errors.New("invalid spreadsheet file")

	// ErrNotFound is returned by a RecordStore lookup that matched nothing.
	ErrNotFound = errors.New("record not found")

	// ErrArtifactUnavailable is returned when the error log could not be
	// stored. The accompanying result still describes the completed run.
	ErrArtifactUnavailable = errors.New("error log artifact unavailable")
)

// RawRow is one data line of the uploaded sheet.
//
// Cell values are typed by the sheet source: nil for an empty cell, string,
// float64, int64 or bool. Index is the 1-based sheet row (header is row 1).
type RawRow struct {
	ProductName  any
	CategoryName any
	Price        any
	Quantity     any
	Index        int
}

// ValidatedRow is a RawRow that passed validation, with its cells converted.
type ValidatedRow struct {
	Raw      RawRow
	Valid    bool
	Name     string
	Category string
	Price    decimal.Decimal
	Quantity int64
}

// Index returns the sheet row the validated row came from.
func (r ValidatedRow) Index() int {
	return r.Raw.Index
}

// Category is a persisted product category. Name is unique.
type Category struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
}

// ProductFields is the writable field set of a product.
type ProductFields struct {
	Name       string          `json:"name"`
	CategoryID uuid.UUID       `json:"categoryId"`
	Price      decimal.Decimal `json:"price"`
	Quantity   int64           `json:"quantity"`
}

// Product is a persisted product. Its upsert identity is (Name, CategoryID).
type Product struct {
	ID uuid.UUID `json:"id"`
	ProductFields
}

// SheetSource turns uploaded file bytes into data rows, header excluded.
type SheetSource interface {
	Parse(data []byte) ([]RawRow, error)
}

// RecordStore is the persistence boundary of an import run.
// Lookups that match nothing return ErrNotFound.
type RecordStore interface {
	FindCategory(ctx context.Context, name string) (Category, error)
	CreateCategory(ctx context.Context, name, description string) (Category, error)
	UpdateCategory(ctx context.Context, id uuid.UUID, description string) error
	FindProduct(ctx context.Context, name string, categoryID uuid.UUID) (Product, error)
	CreateProducts(ctx context.Context, fields []ProductFields) ([]Product, error)
	UpdateProduct(ctx context.Context, id uuid.UUID, fields ProductFields) error
}

// ArtifactHandle identifies a stored artifact so it can be downloaded later.
type ArtifactHandle struct {
	Key  string `json:"key"`
	Name string `json:"name"`
	Size int    `json:"size"`
}

// ArtifactSink stores generated files such as the import error log.
type ArtifactSink interface {
	Put(ctx context.Context, name string, data []byte) (ArtifactHandle, error)
	Get(ctx context.Context, key string) ([]byte, error)
}

// ImportStatus is the caller-visible outcome of a run.
type ImportStatus string

const (
	StatusSuccess             ImportStatus = "success"
	StatusCompletedWithErrors ImportStatus = "completed_with_errors"
)

// ImportResult is the outcome of a completed run. ErrorArtifact is set only
// when Status is StatusCompletedWithErrors.
type ImportResult struct {
	RunID         string          `json:"runId"`
	Status        ImportStatus    `json:"status"`
	TotalRows     int             `json:"totalRows"`
	ValidRows     int             `json:"validRows"`
	Created       int             `json:"created"`
	Updated       int             `json:"updated"`
	Persisted     int             `json:"persisted"`
	Errors        []string        `json:"errors,omitempty"`
	ErrorArtifact *ArtifactHandle `json:"errorArtifact,omitempty"`
}
