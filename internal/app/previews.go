package app

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"sync"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"github.com/hylla/todoboard/internal/domain"
)

// PreviewHandle is a revocable reference to an attachment being displayed.
type PreviewHandle struct {
	ID         string
	Kind       domain.PreviewKind
	Attachment domain.Attachment
}

// PreviewSummary holds display metadata for a preview.
type PreviewSummary struct {
	Name      string
	MediaType string
	Size      string
	Kind      domain.PreviewKind
	Width     int
	Height    int
}

// PreviewRegistry tracks outstanding preview handles. Every Acquire must be
// paired with a Release once the preview is no longer shown.
type PreviewRegistry struct {
	mu      sync.Mutex
	handles map[string]PreviewHandle
	newID   func() string
}

// NewPreviewRegistry constructs a new value for this package.
func NewPreviewRegistry() *PreviewRegistry {
	return &PreviewRegistry{
		handles: map[string]PreviewHandle{},
		newID:   func() string { return "blob:" + uuid.NewString() },
	}
}

// Acquire issues a handle for attachment.
func (r *PreviewRegistry) Acquire(attachment domain.Attachment) (PreviewHandle, error) {
	if err := attachment.Validate(); err != nil {
		return PreviewHandle{}, err
	}
	handle := PreviewHandle{
		ID:         r.newID(),
		Kind:       attachment.PreviewKind(),
		Attachment: attachment,
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.handles[handle.ID] = handle
	return handle, nil
}

// Release revokes a handle. Releasing an unknown or already released handle
// is a no-op that reports false.
func (r *PreviewRegistry) Release(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.handles[id]; !ok {
		return false
	}
	delete(r.handles, id)
	return true
}

// Lookup returns a live handle.
func (r *PreviewRegistry) Lookup(id string) (PreviewHandle, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	handle, ok := r.handles[id]
	if !ok {
		return PreviewHandle{}, fmt.Errorf("%w: %s", ErrPreviewNotFound, id)
	}
	return handle, nil
}

// Active returns the number of unreleased handles.
func (r *PreviewRegistry) Active() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.handles)
}

// Summarize returns display metadata, decoding image dimensions when possible.
func Summarize(handle PreviewHandle) PreviewSummary {
	a := handle.Attachment
	summary := PreviewSummary{
		Name:      a.Name,
		MediaType: a.MediaType,
		Size:      humanize.IBytes(uint64(a.Size())),
		Kind:      handle.Kind,
	}
	if handle.Kind == domain.PreviewImage {
		if cfg, _, err := image.DecodeConfig(bytes.NewReader(a.Data)); err == nil {
			summary.Width = cfg.Width
			summary.Height = cfg.Height
		}
	}
	return summary
}
