package model

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrValidation      = errors.New("model: validation failed")
	ErrInvalidState    = errors.New("model: invalid state")
	ErrInvalidPriority = fmt.Errorf("%w: invalid task priority", ErrValidation)
)

const DefaultProject = "General"

type Priority string

const (
	PriorityHigh   Priority = "High"
	PriorityMedium Priority = "Medium"
	PriorityLow    Priority = "Low"
)

func (p Priority) IsValid() bool {
	switch p {
	case PriorityHigh, PriorityMedium, PriorityLow:
		return true
	default:
		return false
	}
}

// ParsePriority accepts any casing and an empty string, which maps to Medium.
func ParsePriority(raw string) (Priority, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "high", "h":
		return PriorityHigh, nil
	case "", "medium", "med", "m":
		return PriorityMedium, nil
	case "low", "l":
		return PriorityLow, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidPriority, raw)
	}
}

type Task struct {
	ID        string   `json:"id"`
	Title     string   `json:"title"`
	Priority  Priority `json:"priority"`
	Note      string   `json:"note,omitempty"`
	Project   string   `json:"project"`
	Completed bool     `json:"completed"`
}

func (t Task) Validate() error {
	if strings.TrimSpace(t.ID) == "" {
		return fmt.Errorf("%w: task id is required", ErrValidation)
	}
	if strings.TrimSpace(t.Title) == "" {
		return fmt.Errorf("%w: task title is required", ErrValidation)
	}
	if !t.Priority.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidPriority, t.Priority)
	}
	return nil
}

// Label is the "title (priority)" form shown next to the timer.
func (t Task) Label() string {
	return fmt.Sprintf("%s (%s)", t.Title, t.Priority)
}

func NormalizeProject(project string) string {
	trimmed := strings.TrimSpace(project)
	if trimmed == "" {
		return DefaultProject
	}
	return trimmed
}
