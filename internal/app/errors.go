package app

import "errors"

// ErrNotAFile and related errors describe validation and runtime failures.
var (
	ErrNotAFile         = errors.New("not a regular file")
	ErrPreviewNotFound  = errors.New("preview not found")
	ErrNoDownloadTarget = errors.New("download directory is not configured")
)
