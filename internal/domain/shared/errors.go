package shared

import (
	"fmt"
	"strings"
)

// DomainError is the base error type for all domain errors
type DomainError struct {
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

func NewDomainError(message string) *DomainError {
	return &DomainError{Message: message}
}

// Validation error

type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// UserInputError is recovered at the caller boundary and shown to the user
// as-is (unknown item, plan not found, malformed line index).
type UserInputError struct {
	*DomainError
}

func NewUserInputError(format string, args ...interface{}) *UserInputError {
	return &UserInputError{DomainError: NewDomainError(fmt.Sprintf(format, args...))}
}

// PolicyUnsetError reports a matcher that the plan needs but does not have,
// or a matcher with no rule for an item that requires one.
type PolicyUnsetError struct {
	*DomainError
	Policy string
}

func NewPolicyUnsetError(policy, message string) *PolicyUnsetError {
	return &PolicyUnsetError{
		DomainError: NewDomainError(fmt.Sprintf("%s policy: %s", policy, message)),
		Policy:      policy,
	}
}

// PlanningInconsistencyError is an allocation bug: a parent work list does not
// cover the need recorded for it. It aborts the whole resolution.
type PlanningInconsistencyError struct {
	*DomainError
	Node    string
	Context map[string]interface{}
}

func NewPlanningInconsistencyError(node, message string, context map[string]interface{}) *PlanningInconsistencyError {
	return &PlanningInconsistencyError{
		DomainError: NewDomainError(fmt.Sprintf("planning inconsistency at %s: %s", node, message)),
		Node:        node,
		Context:     context,
	}
}

// ExternalDataUnavailableError means a referenced entity is missing from
// reference data, inventory or facility records.
type ExternalDataUnavailableError struct {
	*DomainError
	Source string
	Key    string
}

func NewExternalDataUnavailableError(source, key string) *ExternalDataUnavailableError {
	return &ExternalDataUnavailableError{
		DomainError: NewDomainError(fmt.Sprintf("%s: %s not found", source, key)),
		Source:      source,
		Key:         key,
	}
}

// MultiError joins several independent failures, e.g. from a batch.
type MultiError struct {
	Errors []error
}

func (e *MultiError) Error() string {
	parts := make([]string, 0, len(e.Errors))
	for _, err := range e.Errors {
		parts = append(parts, err.Error())
	}
	return strings.Join(parts, "; ")
}

func (e *MultiError) Unwrap() []error {
	return e.Errors
}
