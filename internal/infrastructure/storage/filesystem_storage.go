package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"go.uber.org/zap"
)

// FileSystemStore writes documents below a root directory that the HTTP
// server exposes under BaseURL
type FileSystemStore struct {
	root    string
	baseURL string
	logger  *zap.Logger
}

// NewFileSystemStore creates the root directory if needed
func NewFileSystemStore(root, baseURL string, log *zap.Logger) (*FileSystemStore, error) {
	if root == "" {
		return nil, errors.New("storage directory is required")
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory %s: %w", root, err)
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &FileSystemStore{
		root:    root,
		baseURL: strings.TrimRight(baseURL, "/"),
		logger:  log,
	}, nil
}

// Put writes data at key, replacing any earlier file
func (s *FileSystemStore) Put(ctx context.Context, key string, data []byte, _ string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	fullPath, err := s.resolve(key)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(fullPath), 0o755); err != nil {
		return "", fmt.Errorf("failed to create directory: %w", err)
	}

	// write then rename so readers never see a partial file
	tmp, err := os.CreateTemp(filepath.Dir(fullPath), ".upload-*")
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return "", fmt.Errorf("failed to write file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return "", fmt.Errorf("failed to write file: %w", err)
	}
	if err := os.Rename(tmp.Name(), fullPath); err != nil {
		os.Remove(tmp.Name())
		return "", fmt.Errorf("failed to store file: %w", err)
	}

	s.logger.Debug("Document stored", zap.String("path", fullPath), zap.Int("size", len(data)))
	return s.URL(key), nil
}

// URL returns the public address of key
func (s *FileSystemStore) URL(key string) string {
	return s.baseURL + "/" + filepath.ToSlash(filepath.Clean(key))
}

// Root returns the directory documents are written to
func (s *FileSystemStore) Root() string {
	return s.root
}

// resolve maps key into the root and rejects traversal
func (s *FileSystemStore) resolve(key string) (string, error) {
	if key == "" {
		return "", errors.New("storage key is required")
	}
	clean := filepath.Clean(key)
	if filepath.IsAbs(clean) || containsDotDot(key) {
		s.logger.Warn("blocked potentially malicious path", zap.String("key", key))
		return "", fmt.Errorf("invalid storage key %q", key)
	}

	absRoot, err := filepath.Abs(s.root)
	if err != nil {
		return "", fmt.Errorf("failed to resolve storage root: %w", err)
	}
	absPath := filepath.Join(absRoot, clean)
	if !strings.HasPrefix(absPath, absRoot+string(filepath.Separator)) {
		return "", fmt.Errorf("invalid storage key %q", key)
	}
	return absPath, nil
}

func containsDotDot(path string) bool {
	parts := strings.FieldsFunc(path, func(r rune) bool {
		return r == '/' || r == '\\'
	})
	return slices.Contains(parts, "..")
}
