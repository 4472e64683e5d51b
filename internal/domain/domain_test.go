package domain

import (
	"errors"
	"testing"
)

func TestParsePriority(t *testing.T) {
	cases := map[string]Priority{
		"":       PriorityMedium,
		" LOW ":  PriorityLow,
		"medium": PriorityMedium,
		"High":   PriorityHigh,
	}
	for raw, want := range cases {
		got, err := ParsePriority(raw)
		if err != nil {
			t.Fatalf("ParsePriority(%q) error = %v", raw, err)
		}
		if got != want {
			t.Fatalf("ParsePriority(%q) = %q, want %q", raw, got, want)
		}
	}
	if _, err := ParsePriority("urgent"); err != ErrInvalidPriority {
		t.Fatalf("expected ErrInvalidPriority, got %v", err)
	}
}

func TestNewTaskValidation(t *testing.T) {
	if _, err := NewTask(TaskInput{ID: 0, Text: "x"}, CategoryWork); err != ErrInvalidID {
		t.Fatalf("expected ErrInvalidID, got %v", err)
	}
	if _, err := NewTask(TaskInput{ID: 1, Text: "  "}, CategoryWork); err != ErrInvalidText {
		t.Fatalf("expected ErrInvalidText, got %v", err)
	}
	if _, err := NewTask(TaskInput{ID: 1, Text: "x"}, " "); err != ErrInvalidCategoryID {
		t.Fatalf("expected ErrInvalidCategoryID, got %v", err)
	}
	_, err := NewTask(TaskInput{ID: 1, Text: "x", Attachment: &Attachment{Name: "a", Data: make([]byte, MaxAttachmentSize+1)}}, CategoryWork)
	if !errors.Is(err, ErrAttachmentTooLarge) {
		t.Fatalf("expected ErrAttachmentTooLarge, got %v", err)
	}
}

func TestNewTaskCopiesAttachment(t *testing.T) {
	a := &Attachment{Name: "a.txt", MediaType: "text/plain", Data: []byte("x")}
	task, err := NewTask(TaskInput{ID: 1, Text: "x", Attachment: a}, CategoryWork)
	if err != nil {
		t.Fatalf("NewTask() error = %v", err)
	}
	a.Name = "changed"
	if !task.HasAttachment() || task.Attachment.Name != "a.txt" {
		t.Fatalf("expected attachment copy, got %#v", task.Attachment)
	}
}

func TestNewCategory(t *testing.T) {
	c, err := NewCategory("  Side Projects ")
	if err != nil {
		t.Fatalf("NewCategory() error = %v", err)
	}
	if c.ID != "side projects" || c.Name != "Side Projects" {
		t.Fatalf("unexpected category %#v", c)
	}
	if _, err := NewCategory(" "); err != ErrInvalidName {
		t.Fatalf("expected ErrInvalidName, got %v", err)
	}
	if !(Category{ID: CategoryCompleted}).IsCompleted() {
		t.Fatal("expected completed category detection")
	}
}
