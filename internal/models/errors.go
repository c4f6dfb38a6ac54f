package models

import "errors"

var (
	// ErrStudentNotFound means no row matched the requested rollnumber.
	ErrStudentNotFound = errors.New("student not found")

	// ErrDuplicateRollNumber means the unique index on roll_number
	// rejected an insert.
	ErrDuplicateRollNumber = errors.New("rollnumber already exists")
)

// ValidationError carries the names of required fields that were missing
// (or falsy) in a create request.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	msg := "missing required fields:"
	for i, f := range e.Fields {
		if i > 0 {
			msg += ","
		}
		msg += " " + f
	}
	return msg
}
