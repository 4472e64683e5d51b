package domain

import (
	"reflect"
	"testing"
	"time"
)

func taskIDs(c Category) []int64 {
	out := make([]int64, 0, len(c.Tasks))
	for _, task := range c.Tasks {
		out = append(out, task.ID)
	}
	return out
}

func mustCategory(t *testing.T, b Board, id string) Category {
	t.Helper()
	c, ok := b.Category(id)
	if !ok {
		t.Fatalf("Category(%q) not found", id)
	}
	return c
}

func TestNewBoardDefaults(t *testing.T) {
	b := NewBoard()
	got := b.Categories()
	want := []string{CategoryPersonal, CategoryWork, CategoryCompleted}
	if len(got) != len(want) {
		t.Fatalf("expected %d categories, got %d", len(want), len(got))
	}
	for idx, id := range want {
		if got[idx].ID != id {
			t.Fatalf("category[%d] = %q, want %q", idx, got[idx].ID, id)
		}
		if len(got[idx].Tasks) != 0 {
			t.Fatalf("expected empty %q category", id)
		}
	}
	if got[0].Name != "Personal" || got[2].Name != "Completed" {
		t.Fatalf("unexpected names %q/%q", got[0].Name, got[2].Name)
	}
	if b.ActiveCategoryID() != CategoryPersonal {
		t.Fatalf("unexpected active category %q", b.ActiveCategoryID())
	}
}

func TestAddTaskAppendsToCategory(t *testing.T) {
	b := NewBoard()
	due := time.Date(2026, 3, 4, 15, 30, 45, 0, time.FixedZone("x", 3600))
	next, task, changed := b.AddTask(CategoryWork, TaskInput{
		ID:       10,
		Text:     "  ship release  ",
		Priority: PriorityHigh,
		DueDate:  &due,
		Note:     " check notes ",
	})
	if !changed {
		t.Fatal("expected AddTask to change the board")
	}
	if task.Text != "ship release" || task.Note != "check notes" {
		t.Fatalf("expected trimmed fields, got %#v", task)
	}
	if task.OriginalCategory != CategoryWork {
		t.Fatalf("unexpected origin %q", task.OriginalCategory)
	}
	if task.DueDate == nil || task.DueDate.Location() != time.UTC || task.DueDate.Second() != 0 {
		t.Fatalf("expected utc minute due date, got %v", task.DueDate)
	}
	if got := taskIDs(mustCategory(t, next, CategoryWork)); !reflect.DeepEqual(got, []int64{10}) {
		t.Fatalf("unexpected work tasks %v", got)
	}
	if got := len(mustCategory(t, b, CategoryWork).Tasks); got != 0 {
		t.Fatalf("expected receiver unchanged, got %d tasks", got)
	}
}

func TestAddTaskIncreasesCountByOne(t *testing.T) {
	texts := []string{"a", " b ", "Buy milk", "\tnote\n"}
	b := NewBoard()
	for idx, text := range texts {
		before := len(mustCategory(t, b, b.ActiveCategoryID()).Tasks)
		var task Task
		var changed bool
		b, task, changed = b.AddTask(b.ActiveCategoryID(), TaskInput{ID: int64(idx + 1), Text: text})
		if !changed {
			t.Fatalf("AddTask(%q) expected change", text)
		}
		after := len(mustCategory(t, b, b.ActiveCategoryID()).Tasks)
		if after != before+1 {
			t.Fatalf("AddTask(%q) count %d -> %d", text, before, after)
		}
		if task.OriginalCategory != b.ActiveCategoryID() {
			t.Fatalf("unexpected origin %q", task.OriginalCategory)
		}
		if task.Priority != PriorityMedium {
			t.Fatalf("expected default priority, got %q", task.Priority)
		}
	}
}

func TestAddTaskNoOps(t *testing.T) {
	b := NewBoard()
	b, _, _ = b.AddTask(CategoryPersonal, TaskInput{ID: 1, Text: "existing"})
	cases := []struct {
		name     string
		category string
		in       TaskInput
	}{
		{name: "empty text", category: CategoryPersonal, in: TaskInput{ID: 2, Text: ""}},
		{name: "whitespace text", category: CategoryPersonal, in: TaskInput{ID: 2, Text: "  \t\n"}},
		{name: "unknown category", category: "garden", in: TaskInput{ID: 2, Text: "dig"}},
		{name: "completed category", category: CategoryCompleted, in: TaskInput{ID: 2, Text: "done"}},
		{name: "duplicate id", category: CategoryWork, in: TaskInput{ID: 1, Text: "dup"}},
		{name: "invalid priority", category: CategoryWork, in: TaskInput{ID: 2, Text: "x", Priority: "urgent"}},
		{name: "oversized attachment", category: CategoryWork, in: TaskInput{ID: 2, Text: "x", Attachment: &Attachment{Name: "big.bin", Data: make([]byte, MaxAttachmentSize+1)}}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			next, _, changed := b.AddTask(tc.category, tc.in)
			if changed {
				t.Fatal("expected no-op")
			}
			if !reflect.DeepEqual(next.Categories(), b.Categories()) {
				t.Fatal("expected categories unchanged")
			}
		})
	}
}

func TestToggleCompletionRoundTrip(t *testing.T) {
	due := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)
	b := NewBoard()
	b, original, _ := b.AddTask(CategoryWork, TaskInput{
		ID:         7,
		Text:       "review",
		Priority:   PriorityHigh,
		DueDate:    &due,
		Note:       "PR 12",
		Attachment: &Attachment{Name: "a.txt", MediaType: "text/plain", Data: []byte("hi")},
	})

	done, moved, changed := b.ToggleCompletion(7, false)
	if !changed {
		t.Fatal("expected toggle into completed")
	}
	if !reflect.DeepEqual(moved, original) {
		t.Fatalf("expected moved task identical, got %#v", moved)
	}
	if got := taskIDs(mustCategory(t, done, CategoryCompleted)); !reflect.DeepEqual(got, []int64{7}) {
		t.Fatalf("unexpected completed tasks %v", got)
	}
	if got := len(mustCategory(t, done, CategoryWork).Tasks); got != 0 {
		t.Fatalf("expected work empty, got %d", got)
	}

	restored, _, changed := done.ToggleCompletion(7, true)
	if !changed {
		t.Fatal("expected toggle out of completed")
	}
	task, categoryID, ok := restored.Task(7)
	if !ok || categoryID != CategoryWork {
		t.Fatalf("expected task in work, got %q ok=%t", categoryID, ok)
	}
	if !reflect.DeepEqual(task, original) {
		t.Fatalf("round trip changed task:\n got %#v\nwant %#v", task, original)
	}
	if !reflect.DeepEqual(restored.Categories(), b.Categories()) {
		t.Fatal("expected round trip to restore the board")
	}
}

func TestToggleCompletionNoOps(t *testing.T) {
	b := NewBoard()
	b, _, _ = b.AddTask(CategoryPersonal, TaskInput{ID: 1, Text: "one"})
	done, _, _ := b.ToggleCompletion(1, false)

	cases := []struct {
		name        string
		board       Board
		id          int64
		inCompleted bool
	}{
		{name: "stale id", board: b, id: 99, inCompleted: false},
		{name: "stale id in completed", board: done, id: 99, inCompleted: true},
		{name: "flag says completed but task is active", board: b, id: 1, inCompleted: true},
		{name: "flag says active but task is completed", board: done, id: 1, inCompleted: false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			next, _, changed := tc.board.ToggleCompletion(tc.id, tc.inCompleted)
			if changed {
				t.Fatal("expected no-op")
			}
			if !reflect.DeepEqual(next.Categories(), tc.board.Categories()) {
				t.Fatal("expected board unchanged")
			}
		})
	}
}

func TestToggleCompletionKeepsOrderInDestination(t *testing.T) {
	b := NewBoard()
	for id := int64(1); id <= 3; id++ {
		b, _, _ = b.AddTask(CategoryPersonal, TaskInput{ID: id, Text: "t"})
	}
	b, _, _ = b.ToggleCompletion(2, false)
	b, _, _ = b.ToggleCompletion(1, false)
	if got := taskIDs(mustCategory(t, b, CategoryCompleted)); !reflect.DeepEqual(got, []int64{2, 1}) {
		t.Fatalf("unexpected completed order %v", got)
	}
	b, _, _ = b.ToggleCompletion(2, true)
	if got := taskIDs(mustCategory(t, b, CategoryPersonal)); !reflect.DeepEqual(got, []int64{3, 2}) {
		t.Fatalf("unexpected personal order %v", got)
	}
}

func TestRemoveTask(t *testing.T) {
	b := NewBoard()
	b, _, _ = b.AddTask(CategoryPersonal, TaskInput{ID: 1, Text: "one"})
	b, _, _ = b.AddTask(CategoryPersonal, TaskInput{ID: 2, Text: "two"})

	same, _, changed := b.RemoveTask(CategoryPersonal, 42)
	if changed {
		t.Fatal("expected removal of unknown id to be a no-op")
	}
	if !reflect.DeepEqual(mustCategory(t, same, CategoryPersonal), mustCategory(t, b, CategoryPersonal)) {
		t.Fatal("expected personal category unchanged")
	}
	if _, _, changed := b.RemoveTask(CategoryWork, 1); changed {
		t.Fatal("expected removal from the wrong category to be a no-op")
	}
	if _, _, changed := b.RemoveTask("missing", 1); changed {
		t.Fatal("expected removal from an unknown category to be a no-op")
	}

	next, removed, changed := b.RemoveTask(CategoryPersonal, 1)
	if !changed || removed.ID != 1 {
		t.Fatalf("expected task 1 removed, got %#v changed=%t", removed, changed)
	}
	if got := taskIDs(mustCategory(t, next, CategoryPersonal)); !reflect.DeepEqual(got, []int64{2}) {
		t.Fatalf("unexpected personal tasks %v", got)
	}
	if _, _, ok := next.Task(1); ok {
		t.Fatal("expected removed task lookup to fail")
	}
	if next.TaskCount() != 1 || b.TaskCount() != 2 {
		t.Fatalf("unexpected task counts %d/%d", next.TaskCount(), b.TaskCount())
	}
}

func TestAddCategory(t *testing.T) {
	b := NewBoard()
	for _, name := range []string{"Work", "WORK", "  work ", "", "   ", "completed"} {
		next, _, changed := b.AddCategory(name)
		if changed {
			t.Fatalf("AddCategory(%q) expected no-op", name)
		}
		if len(next.Categories()) != 3 {
			t.Fatalf("AddCategory(%q) changed category count", name)
		}
	}

	next, category, changed := b.AddCategory("Shopping")
	if !changed {
		t.Fatal("expected AddCategory(Shopping) to change the board")
	}
	if category.ID != "shopping" || category.Name != "Shopping" || len(category.Tasks) != 0 {
		t.Fatalf("unexpected category %#v", category)
	}
	all := next.Categories()
	if last := all[len(all)-1]; last.ID != "shopping" {
		t.Fatalf("expected shopping appended, got %q", last.ID)
	}
	if _, _, changed := next.AddCategory("shopping"); changed {
		t.Fatal("expected case-insensitive collision")
	}
	if _, _, changed := next.AddTask("shopping", TaskInput{ID: 1, Text: "eggs"}); !changed {
		t.Fatal("expected tasks to be addable to a new category")
	}
}

func TestSetActiveCategory(t *testing.T) {
	b := NewBoard()
	next, changed := b.SetActiveCategory(CategoryWork)
	if !changed || next.ActiveCategoryID() != CategoryWork {
		t.Fatalf("expected work active, got %q", next.ActiveCategoryID())
	}
	if b.ActiveCategoryID() != CategoryPersonal {
		t.Fatal("expected receiver unchanged")
	}
	same, changed := next.SetActiveCategory("nope")
	if changed || same.ActiveCategoryID() != CategoryWork {
		t.Fatalf("expected unknown id ignored, got %q", same.ActiveCategoryID())
	}
	if got := next.ActiveCategory().ID; got != CategoryWork {
		t.Fatalf("ActiveCategory() = %q", got)
	}
}

func TestCategoriesReturnsCopies(t *testing.T) {
	b := NewBoard()
	b, _, _ = b.AddTask(CategoryPersonal, TaskInput{ID: 1, Text: "one"})
	cats := b.Categories()
	cats[0].Tasks[0].Text = "mutated"
	cats[0].Tasks = nil
	if task, _, _ := b.Task(1); task.Text != "one" {
		t.Fatalf("expected snapshot isolation, got %q", task.Text)
	}
}

func TestBuyMilkScenario(t *testing.T) {
	b := NewBoard()
	b, task, changed := b.AddTask(b.ActiveCategoryID(), TaskInput{ID: 1700000000000, Text: "Buy milk", Priority: PriorityLow})
	if !changed {
		t.Fatal("expected task added")
	}

	b, _, _ = b.ToggleCompletion(task.ID, false)
	if got := taskIDs(mustCategory(t, b, CategoryCompleted)); !reflect.DeepEqual(got, []int64{task.ID}) {
		t.Fatalf("expected task only in completed, got %v", got)
	}
	if got := len(mustCategory(t, b, CategoryPersonal).Tasks); got != 0 {
		t.Fatalf("expected personal empty, got %d", got)
	}

	b, _, _ = b.ToggleCompletion(task.ID, true)
	if got := taskIDs(mustCategory(t, b, CategoryPersonal)); !reflect.DeepEqual(got, []int64{task.ID}) {
		t.Fatalf("expected task only in personal, got %v", got)
	}
	if got := len(mustCategory(t, b, CategoryCompleted).Tasks); got != 0 {
		t.Fatalf("expected completed empty, got %d", got)
	}
}

func TestZeroBoardIsInert(t *testing.T) {
	var b Board
	if _, _, changed := b.AddTask(CategoryPersonal, TaskInput{ID: 1, Text: "x"}); changed {
		t.Fatal("expected zero board to reject tasks without categories")
	}
	next, _, changed := b.AddCategory("Inbox")
	if !changed || !next.HasCategory("inbox") {
		t.Fatal("expected zero board to accept categories")
	}
}
