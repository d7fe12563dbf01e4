package taxonomy

import (
	"errors"
	"fmt"
)

// DuplicateSkillError is returned when a skill name already exists in its category
type DuplicateSkillError struct {
	Category string
	Name     string
}

func (e *DuplicateSkillError) Error() string {
	return fmt.Sprintf("skill '%s' already exists in category '%s'", e.Name, e.Category)
}

// NotFoundError is returned when no skill has the given id
type NotFoundError struct {
	ID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("skill not found: %s", e.ID)
}

// InvalidIDError is returned for ids not in "<category>:<name>" form
type InvalidIDError struct {
	ID string
}

func (e *InvalidIDError) Error() string {
	return fmt.Sprintf("invalid skill id format: %q (expected category:name)", e.ID)
}

// AliasConflictError is returned when an alias already resolves to a different skill
type AliasConflictError struct {
	Alias      string
	ExistingID string
}

func (e *AliasConflictError) Error() string {
	return fmt.Sprintf("alias '%s' already resolves to %s", e.Alias, e.ExistingID)
}

// ValidationError represents an invalid skill record
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid skill: %s: %s", e.Field, e.Message)
}

// StoreError wraps a failure of the underlying persistence backend
type StoreError struct {
	Op    string
	Cause error
}

func (e *StoreError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("taxonomy store %s failed: %v", e.Op, e.Cause)
	}
	return fmt.Sprintf("taxonomy store %s failed", e.Op)
}

func (e *StoreError) Unwrap() error {
	return e.Cause
}

// IsNotFound reports whether err is or wraps a NotFoundError
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

// IsDuplicate reports whether err is or wraps a DuplicateSkillError
func IsDuplicate(err error) bool {
	var dup *DuplicateSkillError
	return errors.As(err, &dup)
}
