package appointments

// The service surfaces every business-rule rejection as a typed error
// carrying the exact reason, so the transport layer can map the type to a
// status code and return the reason verbatim.

type ValidationError struct {
	msg string
}

func (e *ValidationError) Error() string {
	return e.msg
}

func validationError(msg string) error {
	return &ValidationError{msg: msg}
}

// ConflictError means the slot is already taken for the customer or dentist.
type ConflictError struct {
	msg string
}

func (e *ConflictError) Error() string {
	return e.msg
}

func conflictError(msg string) error {
	return &ConflictError{msg: msg}
}

// StateError means the appointment's current status forbids the transition.
type StateError struct {
	msg string
}

func (e *StateError) Error() string {
	return e.msg
}

func stateError(msg string) error {
	return &StateError{msg: msg}
}
