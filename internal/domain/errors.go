package domain

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a failure so the transport boundary can map it to a
// status code without inspecting messages.
type ErrorKind int

// Error kinds. The zero value is an uncategorized (internal) failure.
const (
	KindInternal ErrorKind = iota
	KindInvalidQueryShape
	KindInvalidSortColumn
	KindInvalidOrder
	KindInvalidLimit
	KindInvalidPage
	KindBadRequest
	KindAlreadyExists
	KindNotFound
	KindReferenceMissing
)

// Sentinel errors, one per kind, for use with errors.Is.
var (
	// ErrInternal indicates an uncategorized failure.
	ErrInternal = errors.New("internal error")

	// ErrInvalidQueryShape indicates a query string key outside the allow-list.
	ErrInvalidQueryShape = errors.New("invalid query shape")

	// ErrInvalidSortColumn indicates an unknown sort_by value.
	ErrInvalidSortColumn = errors.New("invalid sort column")

	// ErrInvalidOrder indicates an order value other than asc or desc.
	ErrInvalidOrder = errors.New("invalid order")

	// ErrInvalidLimit indicates a limit that is not a positive integer.
	ErrInvalidLimit = errors.New("invalid limit")

	// ErrInvalidPage indicates a page that is not a positive integer.
	ErrInvalidPage = errors.New("invalid page")

	// ErrBadRequest indicates a malformed path parameter or request body.
	ErrBadRequest = errors.New("bad request")

	// ErrAlreadyExists indicates that an entity already exists.
	ErrAlreadyExists = errors.New("already exists")

	// ErrNotFound indicates that a requested entity was not found.
	ErrNotFound = errors.New("not found")

	// ErrReferenceMissing indicates that a referenced parent entity does not exist.
	ErrReferenceMissing = errors.New("reference missing")
)

var kindInfo = map[ErrorKind]struct {
	sentinel error
	message  string
}{
	KindInternal:          {ErrInternal, "Internal server error"},
	KindInvalidQueryShape: {ErrInvalidQueryShape, "Invalid query"},
	KindInvalidSortColumn: {ErrInvalidSortColumn, "Invalid sort query"},
	KindInvalidOrder:      {ErrInvalidOrder, "Invalid order query"},
	KindInvalidLimit:      {ErrInvalidLimit, "Invalid limit query"},
	KindInvalidPage:       {ErrInvalidPage, "Invalid page query"},
	KindBadRequest:        {ErrBadRequest, "Bad request"},
	KindAlreadyExists:     {ErrAlreadyExists, "Resource already exists"},
	KindNotFound:          {ErrNotFound, "Resource not found"},
	KindReferenceMissing:  {ErrReferenceMissing, "Resource does not exist"},
}

// DefaultMessage returns the client-facing message for the kind.
func (k ErrorKind) DefaultMessage() string {
	if info, ok := kindInfo[k]; ok {
		return info.message
	}
	return kindInfo[KindInternal].message
}

// Sentinel returns the sentinel error matching the kind.
func (k ErrorKind) Sentinel() error {
	if info, ok := kindInfo[k]; ok {
		return info.sentinel
	}
	return ErrInternal
}

// String implements fmt.Stringer.
func (k ErrorKind) String() string {
	return k.Sentinel().Error()
}

// Error is the single error type returned by the domain, repository and
// service layers. Message is safe to show to clients; Detail and Cause are
// for logs only.
type Error struct {
	Kind    ErrorKind
	Message string
	Detail  string
	Cause   error
}

// Error implements the error interface.
func (e *Error) Error() string {
	msg := e.Message
	if e.Detail != "" {
		msg = fmt.Sprintf("%s (%s)", msg, e.Detail)
	}
	if e.Cause != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Cause)
	}
	return msg
}

// Unwrap returns the underlying cause error.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target is the sentinel for the error's kind.
func (e *Error) Is(target error) bool {
	return target == e.Kind.Sentinel()
}

// NewError creates an Error of the given kind with its default message.
func NewError(kind ErrorKind) *Error {
	return &Error{Kind: kind, Message: kind.DefaultMessage()}
}

// WrapError creates an Error of the given kind that wraps cause.
func WrapError(kind ErrorKind, cause error) *Error {
	return &Error{Kind: kind, Message: kind.DefaultMessage(), Cause: cause}
}

// NewNotFoundError creates a NotFound error naming the missing entity.
func NewNotFoundError(entity, id string) *Error {
	return &Error{
		Kind:    KindNotFound,
		Message: KindNotFound.DefaultMessage(),
		Detail:  fmt.Sprintf("%s %s", entity, id),
	}
}

// NewBadRequestError creates a BadRequest error with a detail for logs.
func NewBadRequestError(detail string) *Error {
	return &Error{
		Kind:    KindBadRequest,
		Message: KindBadRequest.DefaultMessage(),
		Detail:  detail,
	}
}

// KindOf returns the kind of err, or KindInternal when err carries no kind.
func KindOf(err error) ErrorKind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return KindInternal
}
