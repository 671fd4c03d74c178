package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// Not found errors
	ErrNotFound      = errors.New("resource not found")
	ErrStudyNotFound = fmt.Errorf("%w: study", ErrNotFound)
	ErrRunNotFound   = fmt.Errorf("%w: run", ErrNotFound)

	// Configuration errors, rejected before any optimizer or sampler iteration
	ErrDimensionMismatch = errors.New("dimension mismatch")
	ErrInvalidTaskGroup  = errors.New("invalid choice task grouping")
	ErrInsufficientData  = errors.New("insufficient data for analysis")
	ErrInvalidConfig     = errors.New("invalid configuration")

	// Numerical errors
	ErrNumericalInstability = errors.New("numerical instability")
	ErrNotConverged         = errors.New("optimizer did not converge")
)

// Error constructors with context
func NewNotFoundError(resource string, id string) error {
	return fmt.Errorf("%w: %s with id %s", ErrNotFound, resource, id)
}

func NewDimensionError(what string, got, want int) error {
	return fmt.Errorf("%w: %s has length %d, want %d", ErrDimensionMismatch, what, got, want)
}

func NewTaskGroupError(task int, reason string) error {
	return fmt.Errorf("%w: task %d: %s", ErrInvalidTaskGroup, task, reason)
}

func NewInstabilityError(stage string, err error) error {
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrNumericalInstability, stage, err)
	}
	return fmt.Errorf("%w: %s", ErrNumericalInstability, stage)
}

// Error checking helpers
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

func IsConfigurationError(err error) bool {
	return errors.Is(err, ErrDimensionMismatch) ||
		errors.Is(err, ErrInvalidTaskGroup) ||
		errors.Is(err, ErrInsufficientData) ||
		errors.Is(err, ErrInvalidConfig)
}

func IsNumericalError(err error) bool {
	return errors.Is(err, ErrNumericalInstability) ||
		errors.Is(err, ErrNotConverged)
}
