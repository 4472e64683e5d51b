package domain

import (
	"slices"
	"strings"
	"time"
)

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

var validPriorities = []Priority{PriorityLow, PriorityMedium, PriorityHigh}

func Priorities() []Priority {
	return slices.Clone(validPriorities)
}

func ParsePriority(raw string) (Priority, error) {
	p := Priority(strings.ToLower(strings.TrimSpace(raw)))
	if p == "" {
		return PriorityMedium, nil
	}
	if !slices.Contains(validPriorities, p) {
		return "", ErrInvalidPriority
	}
	return p, nil
}

type Task struct {
	ID               int64
	Text             string
	OriginalCategory string
	Priority         Priority
	DueDate          *time.Time
	Note             string
	Attachment       *Attachment
}

type TaskInput struct {
	ID         int64
	Text       string
	Priority   Priority
	DueDate    *time.Time
	Note       string
	Attachment *Attachment
}

func NewTask(in TaskInput, categoryID string) (Task, error) {
	in.Text = strings.TrimSpace(in.Text)
	in.Note = strings.TrimSpace(in.Note)
	categoryID = strings.TrimSpace(categoryID)

	if in.ID <= 0 {
		return Task{}, ErrInvalidID
	}
	if in.Text == "" {
		return Task{}, ErrInvalidText
	}
	if categoryID == "" {
		return Task{}, ErrInvalidCategoryID
	}

	if in.Priority == "" {
		in.Priority = PriorityMedium
	}
	if !slices.Contains(validPriorities, in.Priority) {
		return Task{}, ErrInvalidPriority
	}

	var attachment *Attachment
	if in.Attachment != nil {
		if err := in.Attachment.Validate(); err != nil {
			return Task{}, err
		}
		a := *in.Attachment
		attachment = &a
	}

	return Task{
		ID:               in.ID,
		Text:             in.Text,
		OriginalCategory: categoryID,
		Priority:         in.Priority,
		DueDate:          normalizeDueDate(in.DueDate),
		Note:             in.Note,
		Attachment:       attachment,
	}, nil
}

// HasAttachment reports whether the task carries a file.
func (t Task) HasAttachment() bool {
	return t.Attachment != nil
}

// clone copies the pointer fields. Attachment bytes are never mutated after
// creation so the backing array is shared.
func (t Task) clone() Task {
	if t.DueDate != nil {
		due := *t.DueDate
		t.DueDate = &due
	}
	if t.Attachment != nil {
		a := *t.Attachment
		t.Attachment = &a
	}
	return t
}

func normalizeDueDate(dueDate *time.Time) *time.Time {
	if dueDate == nil {
		return nil
	}
	ts := dueDate.UTC().Truncate(time.Minute)
	return &ts
}
