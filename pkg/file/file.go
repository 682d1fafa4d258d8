package file

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"
)

// DefaultMaxSize bounds documents read with ReadAll.
const DefaultMaxSize int64 = 4 << 20

// Source opens named documents, such as a forms file.
type Source interface {
	Open(ctx context.Context, name string) (io.ReadCloser, error)
}

// Location is a parsed document reference: a local path or s3://bucket/key.
type Location struct {
	Bucket string // empty for local files
	Name   string
}

// IsS3 reports whether the document lives in an S3 bucket.
func (l Location) IsS3() bool {
	return l.Bucket != ""
}

// ParseLocation splits uri into a bucket and an object key for s3:// URIs.
// Anything without a scheme is a local path.
func ParseLocation(uri string) (Location, error) {
	if uri == "" {
		return Location{}, fmt.Errorf("%w: empty", ErrInvalidURI)
	}
	if !strings.Contains(uri, "://") {
		return Location{Name: uri}, nil
	}

	u, err := url.Parse(uri)
	if err != nil {
		return Location{}, fmt.Errorf("%w: %w", ErrInvalidURI, err)
	}
	switch u.Scheme {
	case "s3":
		key := strings.TrimPrefix(u.Path, "/")
		if u.Host == "" || key == "" {
			return Location{}, fmt.Errorf("%w: %q needs a bucket and a key", ErrInvalidURI, uri)
		}
		return Location{Bucket: u.Host, Name: key}, nil
	case "file":
		if u.Path == "" {
			return Location{}, fmt.Errorf("%w: %q has no path", ErrInvalidURI, uri)
		}
		return Location{Name: u.Path}, nil
	}
	return Location{}, fmt.Errorf("%w: unsupported scheme %q", ErrInvalidURI, u.Scheme)
}

// ReadAll opens name from src and reads at most maxBytes of it. A
// non-positive maxBytes means DefaultMaxSize.
func ReadAll(ctx context.Context, src Source, name string, maxBytes int64) ([]byte, error) {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxSize
	}
	rc, err := src.Open(ctx, name)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	b, err := io.ReadAll(io.LimitReader(rc, maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrFailedToOpenFile, name, err)
	}
	if int64(len(b)) > maxBytes {
		return nil, fmt.Errorf("%w: %s is larger than %d bytes", ErrFileTooLarge, name, maxBytes)
	}
	return b, nil
}
