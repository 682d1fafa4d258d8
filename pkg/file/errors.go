package file

import "errors"

var (
	ErrInvalidPath   = errors.New("invalid path")
	ErrInvalidURI    = errors.New("invalid document URI")
	ErrFileNotFound  = errors.New("file not found")
	ErrIsDirectory   = errors.New("path is a directory")
	ErrFileTooLarge  = errors.New("file size exceeds maximum allowed size")
	ErrInvalidConfig = errors.New("invalid configuration")

	ErrFailedToOpenFile   = errors.New("failed to open file")
	ErrFailedToLoadConfig = errors.New("failed to load AWS config")

	ErrBucketNotFound     = errors.New("bucket not found")
	ErrAccessDenied       = errors.New("access denied")
	ErrServiceUnavailable = errors.New("service temporarily unavailable")
	ErrOperationTimeout   = errors.New("operation timed out")
	ErrOperationCanceled  = errors.New("operation canceled")
)
