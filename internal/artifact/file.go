package artifact

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/JonMunkholm/catalog-import/internal/core"
)

// FileSink writes artifacts as files in one directory.
type FileSink struct {
	dir string
}

var _ core.ArtifactSink = (*FileSink)(nil)

// NewFileSink creates dir if needed and returns a sink writing into it.
func NewFileSink(dir string) (*FileSink, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("create artifact dir: %w", err)
	}
	return &FileSink{dir: dir}, nil
}

func (s *FileSink) Put(_ context.Context, name string, data []byte) (core.ArtifactHandle, error) {
	key := NewKey(name)

	tmp, err := os.CreateTemp(s.dir, ".tmp-*")
	if err != nil {
		return core.ArtifactHandle{}, fmt.Errorf("create artifact: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return core.ArtifactHandle{}, fmt.Errorf("write artifact: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return core.ArtifactHandle{}, fmt.Errorf("close artifact: %w", err)
	}
	if err := os.Rename(tmp.Name(), filepath.Join(s.dir, key)); err != nil {
		return core.ArtifactHandle{}, fmt.Errorf("publish artifact: %w", err)
	}

	return core.ArtifactHandle{Key: key, Name: name, Size: len(data)}, nil
}

func (s *FileSink) Get(_ context.Context, key string) ([]byte, error) {
	if err := checkKey(key); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(filepath.Join(s.dir, key))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("read artifact: %w", err)
	}
	return data, nil
}
