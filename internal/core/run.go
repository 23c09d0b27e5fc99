package core

// run.go drives one import: parse, validate, upsert, report.

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// Importer runs imports against one sheet source, record store, and
// artifact sink. An Importer holds no per-run state and may be reused.
type Importer struct {
	Source SheetSource
	Store  RecordStore
	Sink   ArtifactSink
	Logger *slog.Logger
}

// Execute imports data and returns the run result.
//
// A file that cannot be parsed fails with an error wrapping ErrInvalidSheet
// and nothing is written. Every other failure is recorded in the error log;
// a non-empty log is stored as ErrorLogFileName and the run completes with
// StatusCompletedWithErrors.
func (im *Importer) Execute(ctx context.Context, data []byte, chunkSize int) (ImportResult, error) {
	runID := uuid.New().String()
	logger := im.logger().With("run_id", runID)
	start := time.Now()

	rows, err := im.Source.Parse(data)
	if err != nil {
		logger.Warn("sheet parse failed", "error", err)
		return ImportResult{}, fmt.Errorf("%w: %v", ErrInvalidSheet, err)
	}
	logger.Info("import started", "rows", len(rows), "chunk_size", effectiveChunkSize(chunkSize))

	errLog := &ErrorLog{}
	valid := NewRowValidator(errLog).ValidateAll(rows)

	resolver := NewCategoryResolver(im.Store, logger)
	stats := NewBatchUpserter(im.Store, logger).Run(ctx, valid, resolver, errLog, chunkSize)

	result := ImportResult{
		RunID:     runID,
		Status:    StatusSuccess,
		TotalRows: len(rows),
		ValidRows: len(valid),
		Created:   stats.Created,
		Updated:   stats.Updated,
		Persisted: stats.Persisted(),
	}

	if !errLog.Empty() {
		result.Status = StatusCompletedWithErrors
		result.Errors = errLog.Entries()

		handle, err := im.Sink.Put(ctx, ErrorLogFileName, errLog.Bytes())
		if err != nil {
			// Rows are already written; the partial result goes back with the error.
			logger.Error("store error log", "error", err)
			return result, fmt.Errorf("%w: %v", ErrArtifactUnavailable, err)
		}
		result.ErrorArtifact = &handle
	}

	logger.Info("import finished",
		"status", result.Status,
		"valid", result.ValidRows,
		"created", result.Created,
		"updated", result.Updated,
		"errors", errLog.Len(),
		"categories_created", resolver.Created(),
		"category_lookups", resolver.Lookups(),
		"chunks", stats.Chunks,
		"duration", time.Since(start),
	)
	return result, nil
}

func (im *Importer) logger() *slog.Logger {
	if im.Logger != nil {
		return im.Logger
	}
	return slog.Default()
}

func effectiveChunkSize(n int) int {
	if n <= 0 {
		return DefaultChunkSize
	}
	return n
}
