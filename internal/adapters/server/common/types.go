// Package common provides transport-agnostic board contracts used by the MCP adapter.
package common

import (
	"errors"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/hylla/todoboard/internal/app"
	"github.com/hylla/todoboard/internal/domain"
)

// ErrInvalidRequest reports malformed transport input.
var ErrInvalidRequest = errors.New("invalid request")

// BoardService is the board state manager exposed to transports.
type BoardService interface {
	Snapshot() domain.Board
	AddTask(categoryID string, in app.AddTaskInput) app.Outcome
	ToggleCompletion(taskID int64, inCompleted bool) app.Outcome
	RemoveTask(categoryID string, taskID int64) app.Outcome
	AddCategory(name string) app.Outcome
	SetActiveCategory(categoryID string) app.Outcome
}

// AttachmentService validates and loads files from disk.
type AttachmentService interface {
	Check(path string) (app.AttachmentInfo, error)
	Select(path string) (domain.Attachment, *domain.Notification, error)
}

// AttachmentSummary describes an attachment without its bytes.
type AttachmentSummary struct {
	Name      string `json:"name"`
	MediaType string `json:"media_type"`
	Size      int64  `json:"size"`
	HumanSize string `json:"human_size"`
}

// TaskSnapshot is one task as seen by transports.
type TaskSnapshot struct {
	ID               int64              `json:"id"`
	Text             string             `json:"text"`
	OriginalCategory string             `json:"original_category"`
	Priority         string             `json:"priority"`
	DueDate          *time.Time         `json:"due_date,omitempty"`
	Note             string             `json:"note,omitempty"`
	Attachment       *AttachmentSummary `json:"attachment,omitempty"`
}

// CategorySnapshot is one category and its ordered tasks.
type CategorySnapshot struct {
	ID    string         `json:"id"`
	Name  string         `json:"name"`
	Tasks []TaskSnapshot `json:"tasks"`
}

// BoardSnapshot is the full board after an operation.
type BoardSnapshot struct {
	ActiveCategoryID string             `json:"active_category_id"`
	TaskCount        int                `json:"task_count"`
	Categories       []CategorySnapshot `json:"categories"`
}

// NoticeSnapshot is an advisory notification.
type NoticeSnapshot struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Severity    string `json:"severity"`
}

// MutationResult reports the outcome of one board intent. Changed is false
// when the intent was a no-op and Board equals the prior board.
type MutationResult struct {
	Changed  bool              `json:"changed"`
	Notice   *NoticeSnapshot   `json:"notice,omitempty"`
	Task     *TaskSnapshot     `json:"task,omitempty"`
	Category *CategorySnapshot `json:"category,omitempty"`
	Board    BoardSnapshot     `json:"board"`
}

// AttachmentCheck reports whether a file would be accepted as an attachment.
type AttachmentCheck struct {
	Name      string `json:"name"`
	Path      string `json:"path"`
	Size      int64  `json:"size"`
	HumanSize string `json:"human_size"`
	MediaType string `json:"media_type"`
	Accepted  bool   `json:"accepted"`
	Limit     int64  `json:"limit"`
}

// SnapshotBoard converts a board into its transport form.
func SnapshotBoard(board domain.Board) BoardSnapshot {
	categories := board.Categories()
	out := BoardSnapshot{
		ActiveCategoryID: board.ActiveCategoryID(),
		TaskCount:        board.TaskCount(),
		Categories:       make([]CategorySnapshot, 0, len(categories)),
	}
	for _, category := range categories {
		out.Categories = append(out.Categories, snapshotCategory(category))
	}
	return out
}

// ResultFromOutcome converts a service outcome into its transport form.
func ResultFromOutcome(out app.Outcome) MutationResult {
	result := MutationResult{
		Changed: out.Changed,
		Board:   SnapshotBoard(out.Board),
	}
	if out.Notice != nil {
		result.Notice = &NoticeSnapshot{
			Title:       out.Notice.Title,
			Description: out.Notice.Description,
			Severity:    string(out.Notice.Severity),
		}
	}
	if out.Changed && out.Task.ID != 0 {
		task := snapshotTask(out.Task)
		result.Task = &task
	}
	if out.Changed && out.Category.ID != "" {
		category := snapshotCategory(out.Category)
		result.Category = &category
	}
	return result
}

// CheckFromInfo converts an attachment check into its transport form.
func CheckFromInfo(info app.AttachmentInfo) AttachmentCheck {
	return AttachmentCheck{
		Name:      info.Name,
		Path:      info.Path,
		Size:      info.Size,
		HumanSize: info.HumanSize(),
		MediaType: info.MediaType,
		Accepted:  info.Accepted,
		Limit:     domain.MaxAttachmentSize,
	}
}

func snapshotCategory(category domain.Category) CategorySnapshot {
	out := CategorySnapshot{
		ID:    category.ID,
		Name:  category.Name,
		Tasks: make([]TaskSnapshot, 0, len(category.Tasks)),
	}
	for _, task := range category.Tasks {
		out.Tasks = append(out.Tasks, snapshotTask(task))
	}
	return out
}

func snapshotTask(task domain.Task) TaskSnapshot {
	out := TaskSnapshot{
		ID:               task.ID,
		Text:             task.Text,
		OriginalCategory: task.OriginalCategory,
		Priority:         string(task.Priority),
		DueDate:          task.DueDate,
		Note:             task.Note,
	}
	if task.Attachment != nil {
		size := task.Attachment.Size()
		out.Attachment = &AttachmentSummary{
			Name:      task.Attachment.Name,
			MediaType: task.Attachment.MediaType,
			Size:      size,
			HumanSize: humanize.IBytes(uint64(size)),
		}
	}
	return out
}
