package blob

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// Store reads raw document bytes. The production deployment backs this with
// an object store; the pipeline only ever needs Fetch.
type Store interface {
	Fetch(ctx context.Context, bucket, key string) ([]byte, error)
}

// FSStore serves blobs from a directory tree: <root>/<bucket>/<key>.
type FSStore struct {
	root   string
	logger *slog.Logger
}

func NewFSStore(root string, logger *slog.Logger) *FSStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &FSStore{root: root, logger: logger}
}

func (s *FSStore) Fetch(ctx context.Context, bucket, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	clean := filepath.Clean(filepath.Join(s.root, bucket, key))
	if !strings.HasPrefix(clean, filepath.Clean(s.root)+string(os.PathSeparator)) {
		return nil, fmt.Errorf("blob key escapes store root: %q", key)
	}
	b, err := os.ReadFile(clean)
	if err != nil {
		s.logger.Error("blob.fetch.failed", "bucket", bucket, "key", key, "error", err)
		return nil, fmt.Errorf("fetch blob %s/%s: %w", bucket, key, err)
	}
	s.logger.Debug("blob.fetch.ok", "bucket", bucket, "key", key, "bytes", len(b))
	return b, nil
}
