package core

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"
)

// ErrEmptyFile is returned when an upload carries no bytes.
var ErrEmptyFile = errors.New("empty file")

// SourceSelector picks the sheet source able to parse an uploaded file.
type SourceSelector func(fileName string, data []byte) (SheetSource, error)

// ServiceOptions configures a Service. Zero values select defaults.
type ServiceOptions struct {
	ChunkSize     int
	MaxConcurrent int
	MaxWait       time.Duration
	Logger        *slog.Logger
}

// Service is the entry point used by the HTTP server and the CLI.
// It admits imports through an ImportLimiter and runs each one with a
// fresh Importer.
type Service struct {
	store        RecordStore
	sink         ArtifactSink
	selectSource SourceSelector
	limiter      *ImportLimiter
	opts         ServiceOptions
	logger       *slog.Logger
}

// NewService creates a Service writing to store and sink.
func NewService(store RecordStore, sink ArtifactSink, selectSource SourceSelector, opts ServiceOptions) *Service {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		store:        store,
		sink:         sink,
		selectSource: selectSource,
		limiter:      NewImportLimiter(opts.MaxConcurrent, opts.MaxWait),
		opts:         opts,
		logger:       logger,
	}
}

// Import runs one import of the named file. A chunkSize of zero or less
// falls back to the configured chunk size, then to DefaultChunkSize.
//
// ctx only bounds admission. Once a slot is acquired the run is detached
// from ctx cancellation so a disconnecting caller cannot leave a
// partially persisted import behind.
func (s *Service) Import(ctx context.Context, fileName string, data []byte, chunkSize int) (ImportResult, error) {
	if len(data) == 0 {
		return ImportResult{}, ErrEmptyFile
	}

	source, err := s.selectSource(fileName, data)
	if err != nil {
		return ImportResult{}, err
	}

	if err := s.limiter.Acquire(ctx); err != nil {
		return ImportResult{}, fmt.Errorf("import %s: %w", fileName, err)
	}
	defer s.limiter.Release()

	if chunkSize <= 0 {
		chunkSize = s.opts.ChunkSize
	}

	im := &Importer{
		Source: source,
		Store:  s.store,
		Sink:   s.sink,
		Logger: s.logger.With("file", fileName),
	}
	return im.Execute(context.WithoutCancel(ctx), data, chunkSize)
}

// Artifact returns the contents of a stored artifact.
func (s *Service) Artifact(ctx context.Context, key string) ([]byte, error) {
	return s.sink.Get(ctx, key)
}

// LimiterStatus reports import slot usage.
func (s *Service) LimiterStatus() ImportLimiterStatus {
	return s.limiter.Status()
}

// Drain waits for running imports to finish.
func (s *Service) Drain(ctx context.Context) error {
	return s.limiter.WaitForDrain(ctx)
}
