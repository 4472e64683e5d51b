package domain

import (
	"maps"
	"slices"
)

// Board is an immutable snapshot of categories and the active category.
// Transition methods return a new Board and never mutate the receiver.
type Board struct {
	categories []Category
	active     string
	index      map[string]int
	locations  map[int64]string
}

// NewBoard returns the initial personal/work/completed board with personal active.
func NewBoard() Board {
	b := Board{
		categories: defaultCategories(),
		active:     CategoryPersonal,
		index:      map[string]int{},
		locations:  map[int64]string{},
	}
	for idx, category := range b.categories {
		b.index[category.ID] = idx
	}
	return b
}

// Categories returns a deep copy of the ordered categories.
func (b Board) Categories() []Category {
	out := make([]Category, 0, len(b.categories))
	for _, category := range b.categories {
		out = append(out, category.clone())
	}
	return out
}

func (b Board) Category(id string) (Category, bool) {
	idx, ok := b.index[id]
	if !ok {
		return Category{}, false
	}
	return b.categories[idx].clone(), true
}

func (b Board) HasCategory(id string) bool {
	_, ok := b.index[id]
	return ok
}

func (b Board) ActiveCategoryID() string {
	return b.active
}

func (b Board) ActiveCategory() Category {
	category, _ := b.Category(b.active)
	return category
}

// Task returns the task and the id of the category currently holding it.
func (b Board) Task(id int64) (Task, string, bool) {
	categoryID, ok := b.locations[id]
	if !ok {
		return Task{}, "", false
	}
	category := b.categories[b.index[categoryID]]
	pos := findTask(category.Tasks, id)
	if pos < 0 {
		return Task{}, "", false
	}
	return category.Tasks[pos].clone(), categoryID, true
}

func (b Board) TaskCount() int {
	return len(b.locations)
}

// AddTask appends a new task to categoryID. Empty text, unknown categories and
// the completed category leave the board unchanged.
func (b Board) AddTask(categoryID string, in TaskInput) (Board, Task, bool) {
	idx, ok := b.index[categoryID]
	if !ok || categoryID == CategoryCompleted {
		return b, Task{}, false
	}
	if _, taken := b.locations[in.ID]; taken {
		return b, Task{}, false
	}
	task, err := NewTask(in, categoryID)
	if err != nil {
		return b, Task{}, false
	}

	next := b.clone()
	next.categories[idx].Tasks = append(slices.Clip(next.categories[idx].Tasks), task)
	next.locations[task.ID] = categoryID
	return next, task.clone(), true
}

// ToggleCompletion moves a task between its original category and completed.
// The task must currently sit in the expected source category.
func (b Board) ToggleCompletion(taskID int64, inCompleted bool) (Board, Task, bool) {
	current, ok := b.locations[taskID]
	if !ok {
		return b, Task{}, false
	}
	if inCompleted != (current == CategoryCompleted) {
		return b, Task{}, false
	}

	srcIdx := b.index[current]
	pos := findTask(b.categories[srcIdx].Tasks, taskID)
	if pos < 0 {
		return b, Task{}, false
	}
	task := b.categories[srcIdx].Tasks[pos]

	destID := CategoryCompleted
	if inCompleted {
		destID = task.OriginalCategory
	}
	destIdx, ok := b.index[destID]
	if !ok || destIdx == srcIdx {
		return b, Task{}, false
	}

	next := b.clone()
	next.categories[srcIdx].Tasks = slices.Delete(slices.Clone(next.categories[srcIdx].Tasks), pos, pos+1)
	next.categories[destIdx].Tasks = append(slices.Clip(next.categories[destIdx].Tasks), task)
	next.locations[taskID] = destID
	return next, task.clone(), true
}

// RemoveTask deletes a task from the named category when present.
func (b Board) RemoveTask(categoryID string, taskID int64) (Board, Task, bool) {
	idx, ok := b.index[categoryID]
	if !ok {
		return b, Task{}, false
	}
	pos := findTask(b.categories[idx].Tasks, taskID)
	if pos < 0 {
		return b, Task{}, false
	}
	task := b.categories[idx].Tasks[pos]

	next := b.clone()
	next.categories[idx].Tasks = slices.Delete(slices.Clone(next.categories[idx].Tasks), pos, pos+1)
	delete(next.locations, taskID)
	return next, task.clone(), true
}

// AddCategory appends a category unless the name is blank or its normalized
// id already exists.
func (b Board) AddCategory(name string) (Board, Category, bool) {
	category, err := NewCategory(name)
	if err != nil {
		return b, Category{}, false
	}
	if _, exists := b.index[category.ID]; exists {
		return b, Category{}, false
	}

	next := b.clone()
	next.categories = append(next.categories, category)
	next.index[category.ID] = len(next.categories) - 1
	return next, category.clone(), true
}

// SetActiveCategory switches the active category. Unknown ids are ignored so
// the active id always names an existing category.
func (b Board) SetActiveCategory(id string) (Board, bool) {
	if _, ok := b.index[id]; !ok || id == b.active {
		return b, false
	}
	next := b.clone()
	next.active = id
	return next, true
}

// clone copies the category headers and lookup maps. Task slices are shared
// until a transition replaces the one it touches.
func (b Board) clone() Board {
	next := Board{
		categories: slices.Clone(b.categories),
		active:     b.active,
		index:      maps.Clone(b.index),
		locations:  maps.Clone(b.locations),
	}
	if next.index == nil {
		next.index = map[string]int{}
	}
	if next.locations == nil {
		next.locations = map[int64]string{}
	}
	return next
}

func findTask(tasks []Task, id int64) int {
	return slices.IndexFunc(tasks, func(t Task) bool { return t.ID == id })
}
