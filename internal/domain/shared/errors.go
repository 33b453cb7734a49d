package shared

// DomainError is an error with a stable machine-readable code. Handlers
// map codes onto transport status; messages are for humans and may change.
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// Is matches domain errors by code, so errors.Is recognizes separately
// constructed instances of the same condition
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	return ok && t.Code == e.Code
}

// NewDomainError creates a domain error from a code and a human message
func NewDomainError(code, message string) *DomainError {
	return &DomainError{Code: code, Message: message}
}

// Conditions raised across repositories and services
var (
	ErrNotFound  = NewDomainError("NOT_FOUND", "Resource not found")
	ErrForbidden = NewDomainError("FORBIDDEN", "Access to this resource is forbidden")
)
