package policy

import (
	"errors"
	"fmt"
)

// ViolationType represents different kinds of policy violations
type ViolationType string

const (
	ViolationSize      ViolationType = "size"
	ViolationFormat    ViolationType = "format"
	ViolationExtension ViolationType = "extension"
	ViolationContent   ViolationType = "content"
)

// ViolationError reports content that a Policy rejects.
// It includes the violation type for programmatic handling.
type ViolationError struct {
	// Type categorizes the violation.
	Type ViolationType

	// Message is the human-readable description.
	Message string
}

// Error implements the error interface
func (e *ViolationError) Error() string {
	return fmt.Sprintf("%s policy violation: %s", e.Type, e.Message)
}

// NewViolationError creates a new ViolationError
func NewViolationError(kind ViolationType, message string) *ViolationError {
	return &ViolationError{
		Type:    kind,
		Message: message,
	}
}

// IsViolation checks if an error is a ViolationError
func IsViolation(err error) bool {
	var violation *ViolationError
	return errors.As(err, &violation)
}

// IsViolationOfType checks if an error is a ViolationError of the given type
func IsViolationOfType(err error, kind ViolationType) bool {
	var violation *ViolationError
	if errors.As(err, &violation) {
		return violation.Type == kind
	}
	return false
}

// GetViolationType returns the type of a ViolationError, or an empty string
// if err is not one
func GetViolationType(err error) ViolationType {
	var violation *ViolationError
	if errors.As(err, &violation) {
		return violation.Type
	}
	return ""
}
