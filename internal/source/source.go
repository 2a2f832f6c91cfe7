package source

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// MaxTextBytes is the largest document a source will hand back (1MB).
// Workflow files are small; anything bigger is almost certainly not one.
const MaxTextBytes = 1 * 1024 * 1024

var (
	// ErrNotFound is returned when a path has no content.
	ErrNotFound = errors.New("source: not found")
	// ErrContentTooLarge is returned when content exceeds MaxTextBytes.
	ErrContentTooLarge = errors.New("source: content too large")
)

// TextSource supplies raw text for a logical path.
type TextSource interface {
	ReadText(ctx context.Context, path string) (string, error)
}

// Func adapts an ordinary function to a TextSource.
type Func func(ctx context.Context, path string) (string, error)

// ReadText implements TextSource.
func (f Func) ReadText(ctx context.Context, path string) (string, error) {
	return f(ctx, path)
}

// FileSource reads text from the local filesystem.
// Relative paths are resolved against Root when it is set.
type FileSource struct {
	Root string
}

// NewFileSource creates a FileSource rooted at root.
func NewFileSource(root string) *FileSource {
	return &FileSource{Root: root}
}

// ReadText implements TextSource.
func (s *FileSource) ReadText(ctx context.Context, path string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	full := path
	if s.Root != "" && !filepath.IsAbs(path) {
		full = filepath.Join(s.Root, path)
	}

	f, err := os.Open(full) // #nosec G304 - caller controls which workflow files are read
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return "", fmt.Errorf("opening %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	// Read one byte past the limit so oversized files are detected without
	// loading them entirely.
	data, err := io.ReadAll(io.LimitReader(f, MaxTextBytes+1))
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", path, err)
	}
	if len(data) > MaxTextBytes {
		return "", fmt.Errorf("%w: %s exceeds %d bytes", ErrContentTooLarge, path, MaxTextBytes)
	}

	if err := ctx.Err(); err != nil {
		return "", err
	}
	return string(data), nil
}

// Memory is a map-backed TextSource keyed by path.
type Memory map[string]string

// ReadText implements TextSource.
func (m Memory) ReadText(ctx context.Context, path string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	text, ok := m[path]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrNotFound, path)
	}
	return text, nil
}

// ContentHash returns the hex SHA256 digest of text.
func ContentHash(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}
