package core

// upsert.go writes validated rows to the store in bounded chunks.
//
// For every chunk the upserter resolves categories, searches each product by
// (name, category id), then applies staged updates one by one and staged
// creates as a single bulk call. A failure is logged and the run moves on:
// an update failure skips one row, a bulk create failure skips the create
// list of that chunk. Chunks share nothing but the category resolver.

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// UpsertStats summarizes the writes of one BatchUpserter run.
type UpsertStats struct {
	Chunks       int
	Created      int
	Updated      int
	FailedRows   int
	FailedChunks int
}

// Persisted returns the number of products created or updated.
func (s UpsertStats) Persisted() int {
	return s.Created + s.Updated
}

// BatchUpserter creates or updates products from validated rows.
type BatchUpserter struct {
	store  RecordStore
	logger *slog.Logger
}

// NewBatchUpserter creates an upserter writing to store.
func NewBatchUpserter(store RecordStore, logger *slog.Logger) *BatchUpserter {
	if logger == nil {
		logger = slog.Default()
	}
	return &BatchUpserter{store: store, logger: logger}
}

type stagedUpdate struct {
	id     uuid.UUID
	fields ProductFields
	index  int
}

type stagedCreate struct {
	fields ProductFields
	index  int
}

// Run upserts rows in chunks of chunkSize (DefaultChunkSize when not positive).
// It never fails; every persistence error becomes an entry in log.
func (u *BatchUpserter) Run(ctx context.Context, rows []ValidatedRow, resolver *CategoryResolver, log *ErrorLog, chunkSize int) UpsertStats {
	var stats UpsertStats
	for i, chunk := range Chunk(rows, chunkSize) {
		stats.Chunks++
		u.runChunk(ctx, i+1, chunk, resolver, log, &stats)
	}
	return stats
}

func (u *BatchUpserter) runChunk(ctx context.Context, chunkNum int, chunk []ValidatedRow, resolver *CategoryResolver, log *ErrorLog, stats *UpsertStats) {
	var (
		toUpdate []stagedUpdate
		toCreate []stagedCreate
	)

	for _, row := range chunk {
		// The category name doubles as its description.
		cat, err := resolver.Resolve(ctx, row.Category, row.Category)
		if err != nil {
			log.Addf("Failed to resolve category '%s' in row %d: %v", row.Category, row.Index(), err)
			stats.FailedRows++
			continue
		}

		fields := ProductFields{
			Name:       row.Name,
			CategoryID: cat.ID,
			Price:      row.Price,
			Quantity:   row.Quantity,
		}

		existing, err := u.store.FindProduct(ctx, row.Name, cat.ID)
		switch {
		case err == nil:
			toUpdate = append(toUpdate, stagedUpdate{id: existing.ID, fields: fields, index: row.Index()})
		case errors.Is(err, ErrNotFound):
			toCreate = append(toCreate, stagedCreate{fields: fields, index: row.Index()})
		default:
			log.Addf("Failed to look up product '%s' in row %d: %v", row.Name, row.Index(), err)
			stats.FailedRows++
		}
	}

	for _, up := range toUpdate {
		if err := u.store.UpdateProduct(ctx, up.id, up.fields); err != nil {
			log.Addf("Failed to update product '%s' in row %d: %v", up.fields.Name, up.index, err)
			stats.FailedRows++
			u.logger.Warn("product update failed", "chunk", chunkNum, "row", up.index, "error", err)
			continue
		}
		stats.Updated++
	}

	if len(toCreate) == 0 {
		u.logger.Debug("chunk done", "chunk", chunkNum, "rows", len(chunk), "updated", len(toUpdate))
		return
	}

	fields := make([]ProductFields, len(toCreate))
	for i, c := range toCreate {
		fields[i] = c.fields
	}

	created, err := u.store.CreateProducts(ctx, fields)
	if err != nil {
		log.Addf("Failed to create products in rows [%s]: %v", joinRowIndexes(toCreate), err)
		stats.FailedRows += len(toCreate)
		stats.FailedChunks++
		u.logger.Warn("bulk create failed", "chunk", chunkNum, "rows", len(toCreate), "error", err)
		return
	}

	stats.Created += len(created)
	u.logger.Debug("chunk done", "chunk", chunkNum, "rows", len(chunk), "updated", len(toUpdate), "created", len(created))
}

// Chunk splits rows into consecutive slices of at most size elements,
// preserving order. A size below one selects DefaultChunkSize.
func Chunk[T any](rows []T, size int) [][]T {
	if size <= 0 {
		size = DefaultChunkSize
	}
	chunks := make([][]T, 0, (len(rows)+size-1)/size)
	for start := 0; start < len(rows); start += size {
		end := min(start+size, len(rows))
		chunks = append(chunks, rows[start:end])
	}
	return chunks
}

func joinRowIndexes(rows []stagedCreate) string {
	parts := make([]string, len(rows))
	for i, r := range rows {
		parts[i] = strconv.Itoa(r.index)
	}
	return strings.Join(parts, ", ")
}
