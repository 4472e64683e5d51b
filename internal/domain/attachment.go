package domain

import (
	"fmt"
	"path/filepath"
	"strings"
)

// MaxAttachmentSize is the largest accepted attachment, 5 MiB inclusive.
const MaxAttachmentSize int64 = 5 << 20

// PreviewKind describes how an attachment can be previewed.
type PreviewKind string

const (
	PreviewImage       PreviewKind = "image"
	PreviewPDF         PreviewKind = "pdf"
	PreviewMarkdown    PreviewKind = "markdown"
	PreviewText        PreviewKind = "text"
	PreviewUnsupported PreviewKind = "unsupported"
)

// Attachment represents a single file blob held by a task.
type Attachment struct {
	Name      string
	MediaType string
	Data      []byte
}

// ValidateAttachmentSize accepts sizes up to and including MaxAttachmentSize.
func ValidateAttachmentSize(size int64) error {
	if size < 0 {
		return ErrInvalidAttachment
	}
	if size > MaxAttachmentSize {
		return fmt.Errorf("%w: %d bytes exceeds %d", ErrAttachmentTooLarge, size, MaxAttachmentSize)
	}
	return nil
}

// NewAttachment validates and builds an attachment.
func NewAttachment(name, mediaType string, data []byte) (Attachment, error) {
	a := Attachment{
		Name:      strings.TrimSpace(filepath.Base(strings.TrimSpace(name))),
		MediaType: strings.TrimSpace(mediaType),
		Data:      data,
	}
	if err := a.Validate(); err != nil {
		return Attachment{}, err
	}
	if a.MediaType == "" {
		a.MediaType = "application/octet-stream"
	}
	return a, nil
}

// Size returns the blob length in bytes.
func (a Attachment) Size() int64 {
	return int64(len(a.Data))
}

// Validate checks the name and size limit.
func (a Attachment) Validate() error {
	name := strings.TrimSpace(a.Name)
	if name == "" || name == "." || name == string(filepath.Separator) {
		return ErrInvalidAttachment
	}
	return ValidateAttachmentSize(a.Size())
}

// PreviewKind classifies the attachment by media type, falling back to the
// file extension for markdown which sniffers report as plain text.
func (a Attachment) PreviewKind() PreviewKind {
	mediaType := strings.ToLower(a.MediaType)
	if idx := strings.IndexByte(mediaType, ';'); idx >= 0 {
		mediaType = strings.TrimSpace(mediaType[:idx])
	}
	ext := strings.ToLower(filepath.Ext(a.Name))
	switch {
	case strings.HasPrefix(mediaType, "image/"):
		return PreviewImage
	case mediaType == "application/pdf":
		return PreviewPDF
	case mediaType == "text/markdown", ext == ".md", ext == ".markdown":
		return PreviewMarkdown
	case strings.HasPrefix(mediaType, "text/"):
		return PreviewText
	default:
		return PreviewUnsupported
	}
}
