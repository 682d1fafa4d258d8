package file

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// LocalSource reads documents from the local filesystem. With a base
// directory, names are resolved inside it and may not escape it.
type LocalSource struct {
	baseDir string
}

// NewLocalSource creates a source rooted at baseDir. An empty baseDir
// accepts any path, relative to the working directory.
func NewLocalSource(baseDir string) (*LocalSource, error) {
	if baseDir == "" {
		return &LocalSource{}, nil
	}
	abs, err := filepath.Abs(baseDir)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidPath, err)
	}
	return &LocalSource{baseDir: abs}, nil
}

func (s *LocalSource) Open(ctx context.Context, name string) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	path, err := s.resolvePath(name)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrFileNotFound, name)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrFailedToOpenFile, name, err)
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("%w: %s: %w", ErrFailedToOpenFile, name, err)
	}
	if info.IsDir() {
		f.Close()
		return nil, fmt.Errorf("%w: %s", ErrIsDirectory, name)
	}
	return f, nil
}

// resolvePath keeps resolved paths inside baseDir.
func (s *LocalSource) resolvePath(name string) (string, error) {
	if name == "" {
		return "", fmt.Errorf("%w: empty", ErrInvalidPath)
	}
	if s.baseDir == "" {
		return filepath.Clean(name), nil
	}

	abs, err := filepath.Abs(filepath.Join(s.baseDir, filepath.Clean("/"+name)))
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidPath, err)
	}
	if abs != s.baseDir && !strings.HasPrefix(abs, s.baseDir+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %s", ErrInvalidPath, name)
	}
	return abs, nil
}
