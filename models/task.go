package models

import (
	"time"

	"gorm.io/gorm"
)

type TaskStatus string

const (
	TaskTodo       TaskStatus = "todo"
	TaskInProgress TaskStatus = "in-progress"
	TaskReview     TaskStatus = "review"
	TaskDone       TaskStatus = "done"
)

func (s TaskStatus) Valid() bool {
	switch s {
	case TaskTodo, TaskInProgress, TaskReview, TaskDone:
		return true
	}
	return false
}

type TaskPriority string

const (
	PriorityLow    TaskPriority = "low"
	PriorityMedium TaskPriority = "medium"
	PriorityHigh   TaskPriority = "high"
	PriorityUrgent TaskPriority = "urgent"
)

func (p TaskPriority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}

// Task belongs to exactly one project. There is no transition graph on
// Status: any value may follow any other.
type Task struct {
	ID          uint         `gorm:"primaryKey" json:"_id"`
	Title       string       `gorm:"not null" json:"title"`
	Description string       `json:"description"`
	Status      TaskStatus   `gorm:"type:varchar(16);not null;default:'todo'" json:"status"`
	Priority    TaskPriority `gorm:"type:varchar(16);not null;default:'medium'" json:"priority"`
	ProjectID   uint         `gorm:"not null;index" json:"projectId"`
	Project     *Project     `gorm:"foreignKey:ProjectID" json:"project,omitempty"`
	Assignees   []User       `gorm:"many2many:task_assignees" json:"assignees,omitempty"`
	AssigneeIDs []uint       `gorm:"-" json:"assigneeIds"`
	DueDate     *time.Time   `json:"dueDate,omitempty"`
	CreatedAt   time.Time    `json:"createdAt"`
	UpdatedAt   time.Time    `json:"updatedAt"`
}

func (t *Task) AfterFind(_ *gorm.DB) error {
	t.AssigneeIDs = make([]uint, 0, len(t.Assignees))
	for _, a := range t.Assignees {
		t.AssigneeIDs = append(t.AssigneeIDs, a.ID)
	}
	return nil
}

// HasAssignee reports whether the user is in the task's assignee set.
func (t *Task) HasAssignee(userID uint) bool {
	for _, a := range t.Assignees {
		if a.ID == userID {
			return true
		}
	}
	return false
}
