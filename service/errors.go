package service

import "errors"

// ValidationError covers caller-correctable failures: bad input, policy
// violations, missing preconditions. The message is safe to show to the user.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

// PermissionError marks acting on another party's record without standing;
// the API layer maps it to 403.
type PermissionError struct {
	Reason string
}

func (e *PermissionError) Error() string {
	return e.Reason
}

func validationErr(reason string) error {
	return &ValidationError{Reason: reason}
}

func permissionErr(reason string) error {
	return &PermissionError{Reason: reason}
}

// IsValidation reports whether err is a validation/policy error.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// IsPermission reports whether err is a permission error.
func IsPermission(err error) bool {
	var pe *PermissionError
	return errors.As(err, &pe)
}
