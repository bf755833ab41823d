package domain

import (
	"errors"
	"fmt"
)

// ErrLoad is returned when a question bank cannot be read or is structurally invalid.
var ErrLoad = errors.New("question bank load failed")

// ErrContractViolation is returned when an evaluator receives incomplete or malformed input.
var ErrContractViolation = errors.New("contract violation")

// ErrSessionNotFound is returned when a session ID cannot be found in the registry.
var ErrSessionNotFound = errors.New("session not found")

// ErrUnknownShield is returned when a shield identifier is not one of the four known shields.
var ErrUnknownShield = errors.New("unknown shield")

// LoadError describes a fatal bank load failure.
type LoadError struct {
	Source string // Human-readable origin (file path, "memory", ...)
	Reason string
	Err    error // Underlying cause, if any
}

func (e *LoadError) Error() string {
	msg := fmt.Sprintf("load %s: %s", e.Source, e.Reason)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap allows errors.Is(err, ErrLoad) and access to the cause.
func (e *LoadError) Unwrap() []error {
	if e.Err != nil {
		return []error{ErrLoad, e.Err}
	}
	return []error{ErrLoad}
}

// ValidationWarning reports a question (or part of one) that was skipped during loading.
// It is never fatal.
type ValidationWarning struct {
	QuestionID string
	Reason     string
}

func (w *ValidationWarning) Error() string {
	if w.QuestionID == "" {
		return w.Reason
	}
	return fmt.Sprintf("question %q: %s", w.QuestionID, w.Reason)
}

// ContractError reports which input field broke an evaluator contract.
type ContractError struct {
	Field  string
	Reason string
}

func (e *ContractError) Error() string {
	return fmt.Sprintf("%s: field %q: %s", ErrContractViolation, e.Field, e.Reason)
}

// Unwrap allows errors.Is(err, ErrContractViolation).
func (e *ContractError) Unwrap() error {
	return ErrContractViolation
}
