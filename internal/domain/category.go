package domain

import "strings"

const (
	CategoryPersonal  = "personal"
	CategoryWork      = "work"
	CategoryCompleted = "completed"
)

type Category struct {
	ID    string
	Name  string
	Tasks []Task
}

// CategoryID normalizes a user-entered name into a category identifier.
func CategoryID(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

func NewCategory(name string) (Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Category{}, ErrInvalidName
	}
	return Category{
		ID:    CategoryID(name),
		Name:  name,
		Tasks: []Task{},
	}, nil
}

func (c Category) IsCompleted() bool {
	return c.ID == CategoryCompleted
}

func (c Category) clone() Category {
	tasks := make([]Task, 0, len(c.Tasks))
	for _, task := range c.Tasks {
		tasks = append(tasks, task.clone())
	}
	c.Tasks = tasks
	return c
}

func defaultCategories() []Category {
	return []Category{
		{ID: CategoryPersonal, Name: "Personal", Tasks: []Task{}},
		{ID: CategoryWork, Name: "Work", Tasks: []Task{}},
		{ID: CategoryCompleted, Name: "Completed", Tasks: []Task{}},
	}
}
