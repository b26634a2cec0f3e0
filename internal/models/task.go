package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"math"
	"time"

	"gorm.io/gorm"
)

// TaskStatus represents the status of a task. It is derived from the
// checklist, never written directly by clients.
type TaskStatus string

const (
	StatusPending    TaskStatus = "Pending"
	StatusInProgress TaskStatus = "In Progress"
	StatusCompleted  TaskStatus = "Completed"
)

// TaskPriority represents the priority of a task
type TaskPriority string

const (
	PriorityLow    TaskPriority = "Low"
	PriorityMedium TaskPriority = "Medium"
	PriorityHigh   TaskPriority = "High"
)

// TodoItem is a checklist entry; its completion flag drives the task's
// derived progress.
type TodoItem struct {
	Text      string `json:"text"`
	Completed bool   `json:"completed"`
}

// TodoChecklist is stored as a JSON column in sqlite.
type TodoChecklist []TodoItem

func (c TodoChecklist) Value() (driver.Value, error) {
	if c == nil {
		c = TodoChecklist{}
	}
	b, err := json.Marshal(c)
	return string(b), err
}

func (c *TodoChecklist) Scan(value any) error {
	return scanJSON(value, c)
}

// StringList is a JSON-serialized list column, used for the assignee id
// set and attachment references.
type StringList []string

func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		l = StringList{}
	}
	b, err := json.Marshal(l)
	return string(b), err
}

func (l *StringList) Scan(value any) error {
	return scanJSON(value, l)
}

func scanJSON(value, dest any) error {
	switch v := value.(type) {
	case nil:
		return nil
	case []byte:
		return json.Unmarshal(v, dest)
	case string:
		return json.Unmarshal([]byte(v), dest)
	default:
		return errors.New("unsupported column type for JSON scan")
	}
}

// Task represents a task in the system. AssignedTo holds bare user ids
// (weak references); resolution to display data happens at read time.
type Task struct {
	ID            string        `json:"id" gorm:"primaryKey"`
	Title         string        `json:"title" gorm:"not null"`
	Description   string        `json:"description"`
	Priority      TaskPriority  `json:"priority" gorm:"default:'Medium'"`
	Status        TaskStatus    `json:"status" gorm:"not null;default:'Pending'"`
	DueDate       time.Time     `json:"dueDate" gorm:"column:due_date"`
	AssignedTo    StringList    `json:"assignedTo" gorm:"column:assigned_to;type:text"`
	TodoChecklist TodoChecklist `json:"todoChecklist" gorm:"column:todo_checklist;type:text"`
	Attachments   StringList    `json:"attachments" gorm:"type:text"`
	Progress      int           `json:"progress"`
	CreatedBy     string        `json:"createdBy" gorm:"column:created_by;index"`
	gorm.Model
}

// TableName specifies the table name for Task Model
func (Task) TableName() string {
	return "tasks"
}

// Recompute derives progress and status from the checklist. An empty
// checklist means progress 0 and Pending; a task is Completed only when
// every item of a non-empty checklist is done.
func (t *Task) Recompute() {
	total := len(t.TodoChecklist)
	if total == 0 {
		t.Progress = 0
		t.Status = StatusPending
		return
	}

	done := 0
	for _, item := range t.TodoChecklist {
		if item.Completed {
			done++
		}
	}

	t.Progress = int(math.Round(100 * float64(done) / float64(total)))

	switch {
	case done == total:
		t.Status = StatusCompleted
	case done == 0:
		t.Status = StatusPending
	default:
		t.Status = StatusInProgress
	}
}

// CompletedTodoCount returns the number of completed checklist items.
func (t *Task) CompletedTodoCount() int {
	count := 0
	for _, item := range t.TodoChecklist {
		if item.Completed {
			count++
		}
	}
	return count
}

// MergeChecklist replaces the checklist with items, carrying over the
// completion flag of any item whose text matches an entry in the previous
// checklist. The match is by exact text, so renaming an item resets it to
// incomplete. Incoming completion flags are ignored; the previous
// checklist is the only source of completion state here.
func (t *Task) MergeChecklist(items []TodoItem) {
	prevCompleted := make(map[string]bool, len(t.TodoChecklist))
	for _, item := range t.TodoChecklist {
		if item.Completed {
			prevCompleted[item.Text] = true
		}
	}

	merged := make(TodoChecklist, 0, len(items))
	for _, item := range items {
		merged = append(merged, TodoItem{
			Text:      item.Text,
			Completed: prevCompleted[item.Text],
		})
	}
	t.TodoChecklist = merged
}
