package domain

import (
	"strings"
	"time"
	"unicode/utf8"
)

type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

const (
	MaxTitleLength       = 200
	MaxDescriptionLength = 1000
)

func (p Priority) Valid() bool {
	switch p {
	case PriorityHigh, PriorityMedium, PriorityLow:
		return true
	}
	return false
}

// Task is a to-do item owned by a single user.
type Task struct {
	ID          int64
	UserID      string
	Title       string
	Description *string
	Priority    Priority
	Completed   bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TaskInput carries the user-editable fields of a task. An empty Priority
// means "default" on create and "unchanged" on update.
type TaskInput struct {
	Title       string
	Description *string
	Priority    Priority
}

// Normalize trims the title and validates field limits.
func (in TaskInput) Normalize() (TaskInput, error) {
	in.Title = strings.TrimSpace(in.Title)
	if in.Title == "" {
		return in, Validation("title cannot be empty or whitespace-only")
	}
	if utf8.RuneCountInString(in.Title) > MaxTitleLength {
		return in, Validation("title must be at most 200 characters")
	}
	if in.Description != nil && utf8.RuneCountInString(*in.Description) > MaxDescriptionLength {
		return in, Validation("description must be at most 1000 characters")
	}
	if in.Priority != "" && !in.Priority.Valid() {
		return in, Validation("priority must be one of high, medium, low")
	}
	return in, nil
}

// NewTask builds an incomplete task for owner. in is expected to be normalized.
func NewTask(owner string, in TaskInput, now time.Time) *Task {
	now = now.UTC()
	priority := in.Priority
	if priority == "" {
		priority = PriorityMedium
	}
	return &Task{
		UserID:      owner,
		Title:       in.Title,
		Description: in.Description,
		Priority:    priority,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}
