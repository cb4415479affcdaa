// Package pagination holds the skip/limit contract shared by every list operation.
package pagination

import "errors"

const (
	// DefaultLimit is used when no limit is requested.
	DefaultLimit = 100
	// MaxLimit is the largest page size served.
	MaxLimit = 1000
)

var (
	// ErrNegativeSkip is returned by Validate for skip < 0.
	ErrNegativeSkip = errors.New("skip must be greater than or equal to 0")
	// ErrLimitOutOfRange is returned by Validate for a limit outside 1..MaxLimit.
	ErrLimitOutOfRange = errors.New("limit must be between 1 and 1000")
)

// Params selects a page of a result set.
type Params struct {
	Skip  int `json:"skip"`
	Limit int `json:"limit"`
}

// Default returns the first page with the default size.
func Default() Params {
	return Params{Skip: 0, Limit: DefaultLimit}
}

// Validate rejects out of range values.
func (p Params) Validate() error {
	if p.Skip < 0 {
		return ErrNegativeSkip
	}

	if p.Limit < 1 || p.Limit > MaxLimit {
		return ErrLimitOutOfRange
	}

	return nil
}

// Normalize clamps the values into the served range.
func (p Params) Normalize() Params {
	if p.Skip < 0 {
		p.Skip = 0
	}

	switch {
	case p.Limit < 1:
		p.Limit = DefaultLimit
	case p.Limit > MaxLimit:
		p.Limit = MaxLimit
	}

	return p
}

// Result is the envelope returned by every list operation.
type Result[T any] struct {
	Items []T   `json:"items"`
	Total int64 `json:"total"`
	Skip  int   `json:"skip"`
	Limit int   `json:"limit"`
}

// NewResult builds the envelope. Items is never nil so it serializes as [].
func NewResult[T any](items []T, total int64, p Params) Result[T] {
	if items == nil {
		items = []T{}
	}

	return Result[T]{
		Items: items,
		Total: total,
		Skip:  p.Skip,
		Limit: p.Limit,
	}
}

// Map converts the items of a result while keeping the envelope.
func Map[S, T any](r Result[S], fn func(S) T) Result[T] {
	items := make([]T, 0, len(r.Items))
	for _, item := range r.Items {
		items = append(items, fn(item))
	}

	return Result[T]{
		Items: items,
		Total: r.Total,
		Skip:  r.Skip,
		Limit: r.Limit,
	}
}
