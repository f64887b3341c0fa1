// internal/domain/models/task.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TaskStatus is a board column. The board is drag-and-drop: any card may
// move to any column, so there is no transition table — just the ordinals.
type TaskStatus int

const (
	StatusTodo       TaskStatus = 0
	StatusInProgress TaskStatus = 1
	StatusDone       TaskStatus = 2
)

// Valid reports whether s is one of the three board columns.
func (s TaskStatus) Valid() bool {
	return s >= StatusTodo && s <= StatusDone
}

func (s TaskStatus) String() string {
	switch s {
	case StatusTodo:
		return "todo"
	case StatusInProgress:
		return "in_progress"
	case StatusDone:
		return "done"
	}
	return "unknown"
}

// Task priority bounds (inclusive).
const (
	MinPriority = 0
	MaxPriority = 5
)

// Task is one card on a group's board. Subtasks and comments live in their
// own collections keyed by task_id. Soft-deleted cards are kept for audit
// and excluded from every board query.
type Task struct {
	ID          primitive.ObjectID  `bson:"_id" json:"id"`
	GroupID     primitive.ObjectID  `bson:"group_id" json:"group_id"`
	Title       string              `bson:"title" json:"title"`
	Description string              `bson:"description" json:"description"`
	Priority    int                 `bson:"priority" json:"priority"`
	Deadline    *time.Time          `bson:"deadline,omitempty" json:"deadline,omitempty"`
	AssignedTo  *primitive.ObjectID `bson:"assigned_to,omitempty" json:"assigned_to,omitempty"`
	Status      TaskStatus          `bson:"status" json:"status"`

	IsDeleted bool       `bson:"is_deleted" json:"is_deleted"`
	DeletedAt *time.Time `bson:"deleted_at,omitempty" json:"deleted_at,omitempty"`
	DeletedBy string     `bson:"deleted_by,omitempty" json:"deleted_by,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// SubTask is a checklist line under a task.
type SubTask struct {
	ID        primitive.ObjectID `bson:"_id" json:"id"`
	TaskID    primitive.ObjectID `bson:"task_id" json:"task_id"`
	Content   string             `bson:"content" json:"content"`
	IsDone    bool               `bson:"is_done" json:"is_done"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
}

// TaskComment is a discussion entry on a task.
type TaskComment struct {
	ID        primitive.ObjectID `bson:"_id" json:"id"`
	TaskID    primitive.ObjectID `bson:"task_id" json:"task_id"`
	AuthorID  string             `bson:"author_id" json:"author_id"`
	Content   string             `bson:"content" json:"content"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
}
