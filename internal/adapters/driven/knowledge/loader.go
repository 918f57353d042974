// Package knowledge reads embedded-knowledge files from the local filesystem.
package knowledge

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/custodia-labs/toonc/internal/core/domain"
	"github.com/custodia-labs/toonc/internal/core/ports/driven"
)

// MaxFileSize bounds a single knowledge file.
const MaxFileSize = 4 << 20

// Ensure FileLoader implements the interface.
var _ driven.KnowledgeLoader = (*FileLoader)(nil)

// FileLoader loads knowledge files relative to a root directory.
type FileLoader struct {
	maxBytes int64
}

// NewFileLoader creates a loader with the default size limit.
func NewFileLoader() *FileLoader {
	return &FileLoader{maxBytes: MaxFileSize}
}

// Load returns the content of path. Relative paths resolve against root.
// A missing file returns an error wrapping domain.ErrNotFound.
func (l *FileLoader) Load(root, path string) (string, error) {
	if path == "" {
		return "", fmt.Errorf("%w: empty knowledge path", domain.ErrInvalidInput)
	}
	full := path
	if !filepath.IsAbs(full) {
		full = filepath.Join(root, path)
	}

	f, err := os.Open(full)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("knowledge file %s: %w", full, domain.ErrNotFound)
		}
		return "", fmt.Errorf("open knowledge file: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return "", fmt.Errorf("stat knowledge file: %w", err)
	}
	if info.IsDir() {
		return "", fmt.Errorf("%w: %s is a directory", domain.ErrInvalidInput, full)
	}
	if info.Size() > l.maxBytes {
		return "", fmt.Errorf("%w: %s exceeds %d bytes", domain.ErrInvalidInput, full, l.maxBytes)
	}

	data, err := io.ReadAll(io.LimitReader(f, l.maxBytes))
	if err != nil {
		return "", fmt.Errorf("read knowledge file: %w", err)
	}
	return string(data), nil
}
