package artifact

import (
	"context"
	"fmt"
	"strings"

	"github.com/JonMunkholm/catalog-import/internal/config"
	"github.com/JonMunkholm/catalog-import/internal/core"
)

// Open builds the sink selected by cfg.Artifact.Backend. The returned close
// function releases backend connections and is never nil.
func Open(ctx context.Context, cfg *config.Config) (core.ArtifactSink, func() error, error) {
	noop := func() error { return nil }

	switch strings.ToLower(cfg.Artifact.Backend) {
	case "file":
		sink, err := NewFileSink(cfg.Artifact.Dir)
		if err != nil {
			return nil, noop, err
		}
		return sink, noop, nil

	case "redis":
		client, err := NewRedisClient(ctx, cfg.Redis.URL)
		if err != nil {
			return nil, noop, err
		}
		return NewRedisSink(client, cfg.Artifact.KeyPrefix, cfg.Artifact.TTL), client.Close, nil

	case "s3":
		client, err := NewS3Client(ctx, cfg.S3)
		if err != nil {
			return nil, noop, err
		}
		return NewS3Sink(client, cfg.S3.Bucket, cfg.Artifact.KeyPrefix), noop, nil

	default:
		return nil, noop, fmt.Errorf("unknown artifact backend %q", cfg.Artifact.Backend)
	}
}
