package service

// The services report failures through three typed errors so the API layer
// can map each to a status code without inspecting message text. Anything
// else that escapes a service is an internal failure.

// ValidationError reports missing or malformed input.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// ConflictError reports a uniqueness violation, such as a duplicate event
// code or joining the same event twice.
type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string { return e.Message }

// NotFoundError reports a missing event, user, or join record.
type NotFoundError struct {
	Message string
}

func (e *NotFoundError) Error() string { return e.Message }
