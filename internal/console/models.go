// Package console holds the data model and JSON file storage for the
// offline CLI todo tool. It is completely separate from the server: integer
// ids, a single local file, no users.
package console

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrValidation   = errors.New("validation error")
	ErrTaskNotFound = errors.New("task not found")
)

const (
	StatusPending   = "Pending"
	StatusCompleted = "Completed"
)

type Task struct {
	ID          int        `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Status      string     `json:"status"`
	CreatedAt   time.Time  `json:"created_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// Collection is the whole storage file: a counter plus every task.
type Collection struct {
	NextID int    `json:"next_id"`
	Tasks  []Task `json:"tasks"`
}

func NewCollection() *Collection {
	return &Collection{NextID: 1, Tasks: []Task{}}
}

func (c *Collection) Add(title, description string) (Task, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return Task{}, fmt.Errorf("%w: title cannot be empty", ErrValidation)
	}
	if len(title) > 500 {
		return Task{}, fmt.Errorf("%w: title cannot exceed 500 characters", ErrValidation)
	}

	t := Task{
		ID:          c.NextID,
		Title:       title,
		Description: strings.TrimSpace(description),
		Status:      StatusPending,
		CreatedAt:   time.Now(),
	}
	c.NextID++
	c.Tasks = append(c.Tasks, t)
	return t, nil
}

func (c *Collection) find(id int) (int, error) {
	for i := range c.Tasks {
		if c.Tasks[i].ID == id {
			return i, nil
		}
	}
	return 0, fmt.Errorf("%w: id %d", ErrTaskNotFound, id)
}

func (c *Collection) Get(id int) (Task, error) {
	i, err := c.find(id)
	if err != nil {
		return Task{}, err
	}
	return c.Tasks[i], nil
}

func (c *Collection) Complete(id int) (Task, error) {
	i, err := c.find(id)
	if err != nil {
		return Task{}, err
	}
	if c.Tasks[i].Status != StatusCompleted {
		now := time.Now()
		c.Tasks[i].Status = StatusCompleted
		c.Tasks[i].CompletedAt = &now
	}
	return c.Tasks[i], nil
}

func (c *Collection) UpdateTitle(id int, title, description string) (Task, error) {
	i, err := c.find(id)
	if err != nil {
		return Task{}, err
	}
	title = strings.TrimSpace(title)
	if title != "" {
		c.Tasks[i].Title = title
	}
	if description != "" {
		c.Tasks[i].Description = strings.TrimSpace(description)
	}
	return c.Tasks[i], nil
}

func (c *Collection) Delete(id int) error {
	i, err := c.find(id)
	if err != nil {
		return err
	}
	c.Tasks = append(c.Tasks[:i], c.Tasks[i+1:]...)
	return nil
}

// Pending and Completed return tasks grouped for display.
func (c *Collection) Pending() []Task {
	var out []Task
	for _, t := range c.Tasks {
		if t.Status != StatusCompleted {
			out = append(out, t)
		}
	}
	return out
}

func (c *Collection) Completed() []Task {
	var out []Task
	for _, t := range c.Tasks {
		if t.Status == StatusCompleted {
			out = append(out, t)
		}
	}
	return out
}
