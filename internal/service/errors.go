package service

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// Kind classifies a domain failure.
type Kind int

const (
	// KindNotFound means a required entity does not exist.
	KindNotFound Kind = iota + 1
	// KindValidation means the input conflicts with stored state or rules.
	KindValidation
	// KindForbidden means the acting user may not touch the entity.
	KindForbidden
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not found"
	case KindValidation:
		return "validation"
	case KindForbidden:
		return "forbidden"
	default:
		return "unknown"
	}
}

// Error is a domain failure with a message safe to show to clients.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string {
	if e.Message == "" {
		return e.Kind.String()
	}

	return e.Message
}

// Is matches the kind sentinels below, e.g. errors.Is(err, ErrNotFound).
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}

	return t.Message == "" && t.Kind == e.Kind
}

var (
	// ErrNotFound matches every KindNotFound error.
	ErrNotFound = &Error{Kind: KindNotFound}
	// ErrValidation matches every KindValidation error.
	ErrValidation = &Error{Kind: KindValidation}
	// ErrForbidden matches every KindForbidden error.
	ErrForbidden = &Error{Kind: KindForbidden}
)

// NotFound creates a KindNotFound error.
func NotFound(format string, args ...any) error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

// Validation creates a KindValidation error.
func Validation(format string, args ...any) error {
	return &Error{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

// Forbidden creates a KindForbidden error.
func Forbidden(format string, args ...any) error {
	return &Error{Kind: KindForbidden, Message: fmt.Sprintf(format, args...)}
}

// IsKind reports whether err carries a domain error of kind.
func IsKind(err error, kind Kind) bool {
	var e *Error

	return errors.As(err, &e) && e.Kind == kind
}

// storeErr turns unique violations into validation failures and wraps the rest.
func storeErr(err error, op string) error {
	if err == nil {
		return nil
	}

	var domain *Error
	if errors.As(err, &domain) {
		return err
	}

	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return Validation("%s: duplicate value", op)
	}

	return fmt.Errorf("failed to %s: %w", op, err)
}
