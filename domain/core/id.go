package core

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// ID represents a domain identifier
type ID string

// NewID creates a new unique identifier using UUID v7 for time-ordered generation
func NewID() ID {
	id, err := uuid.NewV7()
	if err != nil {
		// Fallback to v4 if v7 fails
		id = uuid.New()
	}
	return ID(id.String())
}

// String returns the string representation
func (id ID) String() string {
	return string(id)
}

// IsEmpty checks if the ID is empty
func (id ID) IsEmpty() bool {
	return id == ""
}

// Domain-specific ID types
type (
	RunID    ID
	StudyKey ID
)

// ParseRunID validates and converts a raw string into a RunID
func ParseRunID(raw string) (RunID, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", fmt.Errorf("run id cannot be empty")
	}
	return RunID(trimmed), nil
}

// ParseStudyKey validates and converts a raw string into a StudyKey
func ParseStudyKey(raw string) (StudyKey, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", fmt.Errorf("study key cannot be empty")
	}
	return StudyKey(trimmed), nil
}
