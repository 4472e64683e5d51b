package app

import (
	"fmt"

	"github.com/hylla/todoboard/internal/domain"
)

func notice(title, description string) *domain.Notification {
	return &domain.Notification{Title: title, Description: description, Severity: domain.SeverityNormal}
}

func destructiveNotice(title, description string) *domain.Notification {
	return &domain.Notification{Title: title, Description: description, Severity: domain.SeverityDestructive}
}

// NoticeTaskAdded and the functions below build the advisory messages shown
// after board and attachment changes.
func NoticeTaskAdded() *domain.Notification {
	return notice("Task added", "Your new task has been added successfully.")
}

func NoticeTaskToggled(nowCompleted bool) *domain.Notification {
	if nowCompleted {
		return notice("Task completed", "The task has been moved to completed tasks.")
	}
	return notice("Task marked as incomplete", "The task has been moved to its original category.")
}

func NoticeTaskRemoved() *domain.Notification {
	return destructiveNotice("Task removed", "The task has been removed successfully.")
}

func NoticeCategoryAdded(name string) *domain.Notification {
	return notice("Category added", fmt.Sprintf("New category %q has been added.", name))
}

func NoticeFileTooLarge() *domain.Notification {
	return destructiveNotice("File too large", "Please upload a file smaller than 5MB.")
}

func NoticeFileAttached(name string) *domain.Notification {
	return notice("File attached", fmt.Sprintf("File %q has been attached to the task.", name))
}

func NoticeFileRemoved() *domain.Notification {
	return notice("File removed", "The attached file has been removed.")
}

func NoticeFileDownloaded(name string) *domain.Notification {
	return notice("File downloaded", fmt.Sprintf("File %q has been downloaded.", name))
}
