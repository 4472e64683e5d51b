package app

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/hylla/todoboard/internal/domain"
)

func writeFile(t *testing.T, dir, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	return path
}

func TestAttachmentSelectAcceptsLimit(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "exact.bin", make([]byte, domain.MaxAttachmentSize))
	svc := NewAttachmentService(dir, nil)

	attachment, notice, err := svc.Select(path)
	if err != nil {
		t.Fatalf("Select() error = %v", err)
	}
	if attachment.Size() != 5_242_880 || attachment.Name != "exact.bin" {
		t.Fatalf("unexpected attachment %s (%d bytes)", attachment.Name, attachment.Size())
	}
	if notice == nil || notice.Title != "File attached" || notice.Destructive() {
		t.Fatalf("unexpected notice %#v", notice)
	}
}

func TestAttachmentSelectRejectsOversized(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "big.bin", make([]byte, domain.MaxAttachmentSize+1))
	svc := NewAttachmentService(dir, nil)

	attachment, notice, err := svc.Select(path)
	if !errors.Is(err, domain.ErrAttachmentTooLarge) {
		t.Fatalf("expected ErrAttachmentTooLarge, got %v", err)
	}
	if attachment.Name != "" || attachment.Data != nil {
		t.Fatalf("expected no attachment, got %#v", attachment.Name)
	}
	if notice == nil || notice.Title != "File too large" || !notice.Destructive() {
		t.Fatalf("unexpected notice %#v", notice)
	}
}

func TestAttachmentSelectDetectsMediaType(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "notes.txt", []byte("hello world\n"))
	attachment, _, err := NewAttachmentService(dir, nil).Select(path)
	if err != nil {
		t.Fatalf("Select() error = %v", err)
	}
	if attachment.MediaType != "text/plain; charset=utf-8" {
		t.Fatalf("unexpected media type %q", attachment.MediaType)
	}
	if attachment.PreviewKind() != domain.PreviewText {
		t.Fatalf("unexpected preview kind %q", attachment.PreviewKind())
	}
}

func TestAttachmentSelectErrors(t *testing.T) {
	dir := t.TempDir()
	svc := NewAttachmentService(dir, nil)
	if _, _, err := svc.Select(dir); !errors.Is(err, ErrNotAFile) {
		t.Fatalf("expected ErrNotAFile, got %v", err)
	}
	if _, notice, err := svc.Select(filepath.Join(dir, "missing")); !errors.Is(err, os.ErrNotExist) || notice != nil {
		t.Fatalf("expected not-exist error without notice, got %v / %#v", err, notice)
	}
}

func TestAttachmentCheck(t *testing.T) {
	dir := t.TempDir()
	svc := NewAttachmentService(dir, nil)
	info, err := svc.Check(writeFile(t, dir, "small.txt", []byte("abc")))
	if err != nil {
		t.Fatalf("Check() error = %v", err)
	}
	if !info.Accepted || info.Size != 3 || info.HumanSize() != "3 B" {
		t.Fatalf("unexpected info %#v (%s)", info, info.HumanSize())
	}

	info, err = svc.Check(writeFile(t, dir, "big.bin", make([]byte, domain.MaxAttachmentSize+1)))
	if !errors.Is(err, domain.ErrAttachmentTooLarge) {
		t.Fatalf("expected ErrAttachmentTooLarge, got %v", err)
	}
	if info.Accepted || info.HumanSize() != "5.0 MiB" {
		t.Fatalf("unexpected oversized info %#v (%s)", info, info.HumanSize())
	}
}

func TestAttachmentRemove(t *testing.T) {
	notice := NewAttachmentService("", nil).Remove(domain.Attachment{Name: "a.txt"})
	if notice.Title != "File removed" {
		t.Fatalf("unexpected notice %#v", notice)
	}
}

func TestAttachmentDownloadDoesNotClobber(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "downloads")
	svc := NewAttachmentService(dir, nil)
	attachment := domain.Attachment{Name: "report.txt", MediaType: "text/plain", Data: []byte("v1")}

	first, notice, err := svc.Download(attachment)
	if err != nil {
		t.Fatalf("Download() error = %v", err)
	}
	if first != filepath.Join(dir, "report.txt") {
		t.Fatalf("unexpected path %q", first)
	}
	if notice.Description != `File "report.txt" has been downloaded.` {
		t.Fatalf("unexpected notice %q", notice.Description)
	}

	second, _, err := svc.Download(attachment)
	if err != nil {
		t.Fatalf("Download() second error = %v", err)
	}
	if second != filepath.Join(dir, "report (1).txt") {
		t.Fatalf("unexpected second path %q", second)
	}
	data, err := os.ReadFile(second)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if !bytes.Equal(data, attachment.Data) {
		t.Fatalf("unexpected content %q", data)
	}

	if _, _, err := NewAttachmentService("", nil).Download(attachment); !errors.Is(err, ErrNoDownloadTarget) {
		t.Fatalf("expected ErrNoDownloadTarget, got %v", err)
	}
}
