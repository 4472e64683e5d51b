package app

import (
	"strings"
	"sync"
	"time"

	"github.com/hylla/todoboard/internal/domain"
)

// ServiceConfig holds configuration for service.
type ServiceConfig struct {
	DefaultPriority domain.Priority
	// Categories are created after the built-in personal/work/completed set.
	Categories []string
}

// Event is published to subscribers after every board change. Events from
// concurrent callers may arrive out of order; subscribers keep the highest
// Revision they have seen and drop older ones.
type Event struct {
	Board    domain.Board
	Revision uint64
	Notice   *domain.Notification
}

// Outcome describes the result of one board intent. Changed is false when
// the intent was ignored, in which case Board is the unchanged snapshot.
// Revision counts committed changes and names the snapshot in Board.
type Outcome struct {
	Board    domain.Board
	Revision uint64
	Changed  bool
	Task     domain.Task
	Category domain.Category
	Notice   *domain.Notification
}

// Service owns the current board snapshot and serializes every transition.
type Service struct {
	mu              sync.Mutex
	board           domain.Board
	revision        uint64
	idGen           IDGenerator
	logger          Logger
	defaultPriority domain.Priority

	subMu   sync.Mutex
	subs    map[int]func(Event)
	nextSub int
}

// NewService constructs a new value for this package.
func NewService(idGen IDGenerator, logger Logger, cfg ServiceConfig) *Service {
	if idGen == nil {
		idGen = NewMonotonicIDs(time.Now)
	}
	if logger == nil {
		logger = nopLogger{}
	}
	priority, err := domain.ParsePriority(string(cfg.DefaultPriority))
	if err != nil {
		logger.Warn("invalid default priority, using medium", "priority", cfg.DefaultPriority)
		priority = domain.PriorityMedium
	}

	board := domain.NewBoard()
	for _, name := range cfg.Categories {
		next, category, changed := board.AddCategory(name)
		if !changed {
			logger.Debug("skipping configured category", "name", name)
			continue
		}
		logger.Debug("configured category added", "id", category.ID)
		board = next
	}

	return &Service{
		board:           board,
		idGen:           idGen,
		logger:          logger,
		defaultPriority: priority,
		subs:            map[int]func(Event){},
	}
}

// Snapshot returns the current board.
func (s *Service) Snapshot() domain.Board {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.board
}

// Revision returns the number of committed changes.
func (s *Service) Revision() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.revision
}

// ignored returns the no-op outcome for the current board. Callers hold mu.
func (s *Service) ignored() Outcome {
	return Outcome{Board: s.board, Revision: s.revision}
}

// commit installs next as the current board and returns its revision. Callers hold mu.
func (s *Service) commit(next domain.Board) uint64 {
	s.board = next
	s.revision++
	return s.revision
}

// Subscribe registers fn for board change events and returns a function that
// removes it. fn runs after the transition commits and must not block.
func (s *Service) Subscribe(fn func(Event)) func() {
	if fn == nil {
		return func() {}
	}
	s.subMu.Lock()
	defer s.subMu.Unlock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	return func() {
		s.subMu.Lock()
		defer s.subMu.Unlock()
		delete(s.subs, id)
	}
}

// AddTaskInput holds input values for add task operations.
type AddTaskInput struct {
	Text       string
	Priority   domain.Priority
	DueDate    *time.Time
	Note       string
	Attachment *domain.Attachment
}

// AddTask appends a task to categoryID, normally the active category.
func (s *Service) AddTask(categoryID string, in AddTaskInput) Outcome {
	s.mu.Lock()
	if strings.TrimSpace(in.Text) == "" {
		out := s.ignored()
		s.mu.Unlock()
		s.logger.Debug("add task ignored", "reason", "empty text", "category", categoryID)
		return out
	}
	priority := in.Priority
	if priority == "" {
		priority = s.defaultPriority
	}
	next, task, changed := s.board.AddTask(categoryID, domain.TaskInput{
		ID:         s.idGen(),
		Text:       in.Text,
		Priority:   priority,
		DueDate:    in.DueDate,
		Note:       in.Note,
		Attachment: in.Attachment,
	})
	if !changed {
		out := s.ignored()
		s.mu.Unlock()
		s.logger.Debug("add task ignored", "category", categoryID)
		return out
	}
	rev := s.commit(next)
	s.mu.Unlock()

	s.logger.Info("task added", "task_id", task.ID, "category", categoryID, "priority", task.Priority)
	out := Outcome{Board: next, Revision: rev, Changed: true, Task: task, Notice: NoticeTaskAdded()}
	s.publish(out)
	return out
}

// ToggleCompletion moves a task into completed or back to its original category.
func (s *Service) ToggleCompletion(taskID int64, inCompleted bool) Outcome {
	s.mu.Lock()
	next, task, changed := s.board.ToggleCompletion(taskID, inCompleted)
	if !changed {
		out := s.ignored()
		s.mu.Unlock()
		s.logger.Debug("toggle completion ignored", "task_id", taskID, "in_completed", inCompleted)
		return out
	}
	rev := s.commit(next)
	s.mu.Unlock()

	s.logger.Info("task completion toggled", "task_id", taskID, "completed", !inCompleted)
	out := Outcome{Board: next, Revision: rev, Changed: true, Task: task, Notice: NoticeTaskToggled(!inCompleted)}
	s.publish(out)
	return out
}

// RemoveTask deletes a task from categoryID.
func (s *Service) RemoveTask(categoryID string, taskID int64) Outcome {
	s.mu.Lock()
	next, task, changed := s.board.RemoveTask(categoryID, taskID)
	if !changed {
		out := s.ignored()
		s.mu.Unlock()
		s.logger.Debug("remove task ignored", "task_id", taskID, "category", categoryID)
		return out
	}
	rev := s.commit(next)
	s.mu.Unlock()

	s.logger.Info("task removed", "task_id", taskID, "category", categoryID)
	out := Outcome{Board: next, Revision: rev, Changed: true, Task: task, Notice: NoticeTaskRemoved()}
	s.publish(out)
	return out
}

// AddCategory creates a category with a case-insensitive unique id.
func (s *Service) AddCategory(name string) Outcome {
	s.mu.Lock()
	next, category, changed := s.board.AddCategory(name)
	if !changed {
		out := s.ignored()
		s.mu.Unlock()
		s.logger.Debug("add category ignored", "name", name)
		return out
	}
	rev := s.commit(next)
	s.mu.Unlock()

	s.logger.Info("category added", "id", category.ID)
	out := Outcome{Board: next, Revision: rev, Changed: true, Category: category, Notice: NoticeCategoryAdded(category.Name)}
	s.publish(out)
	return out
}

// SetActiveCategory switches the active category. It emits no notice.
func (s *Service) SetActiveCategory(categoryID string) Outcome {
	s.mu.Lock()
	next, changed := s.board.SetActiveCategory(categoryID)
	if !changed {
		out := s.ignored()
		s.mu.Unlock()
		return out
	}
	rev := s.commit(next)
	s.mu.Unlock()

	s.logger.Debug("active category changed", "category", categoryID)
	category, _ := next.Category(categoryID)
	out := Outcome{Board: next, Revision: rev, Changed: true, Category: category}
	s.publish(out)
	return out
}

func (s *Service) publish(out Outcome) {
	s.subMu.Lock()
	fns := make([]func(Event), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.subMu.Unlock()
	for _, fn := range fns {
		fn(Event{Board: out.Board, Revision: out.Revision, Notice: out.Notice})
	}
}
