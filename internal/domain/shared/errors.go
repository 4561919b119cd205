package shared

// DomainError is a business-rule violation identified by a stable code.
// The code is what handlers map to HTTP statuses; the message is safe to
// show to API clients.
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *DomainError) Error() string {
	return e.Message
}

// Is matches domain errors by code, so errors.Is works against the
// sentinels below regardless of the message
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	return ok && t.Code == e.Code
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Sentinel errors shared across contexts
var (
	ErrNotFound            = NewDomainError("NOT_FOUND", "Resource not found")
	ErrAlreadyExists       = NewDomainError("ALREADY_EXISTS", "Resource already exists")
	ErrInvalidInput        = NewDomainError("INVALID_INPUT", "Invalid input provided")
	ErrUnauthorized        = NewDomainError("UNAUTHORIZED", "Not authorized to perform this action")
	ErrForbidden           = NewDomainError("FORBIDDEN", "Access to this resource is forbidden")
	ErrInvalidState        = NewDomainError("INVALID_STATE", "Operation not allowed in current state")
	ErrInsufficientStock   = NewDomainError("INSUFFICIENT_STOCK", "Insufficient stock available")
	ErrOutOfStock          = NewDomainError("OUT_OF_STOCK", "Product variant is out of stock")
	ErrInvalidQuantity     = NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	ErrNotEligible         = NewDomainError("NOT_ELIGIBLE", "Requirements for this action are not met")
	ErrConcurrencyConflict = NewDomainError("CONCURRENCY_CONFLICT", "Resource was modified by another process")
)
