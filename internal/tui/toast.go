package tui

import (
	"time"

	"github.com/hylla/todoboard/internal/domain"
)

const toastLimit = 3

type toast struct {
	note    domain.Notification
	expires time.Time
}

// toastStack keeps the most recent notifications until they expire.
type toastStack struct {
	items []toast
}

func (s toastStack) push(note domain.Notification, now time.Time, ttl time.Duration) toastStack {
	items := append(s.prune(now).items, toast{note: note, expires: now.Add(ttl)})
	if len(items) > toastLimit {
		items = items[len(items)-toastLimit:]
	}
	return toastStack{items: items}
}

func (s toastStack) prune(now time.Time) toastStack {
	items := make([]toast, 0, len(s.items))
	for _, item := range s.items {
		if now.Before(item.expires) {
			items = append(items, item)
		}
	}
	return toastStack{items: items}
}

func (s toastStack) visible(now time.Time) []domain.Notification {
	out := make([]domain.Notification, 0, len(s.items))
	for _, item := range s.prune(now).items {
		out = append(out, item.note)
	}
	return out
}
