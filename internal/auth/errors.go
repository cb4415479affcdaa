package auth

import (
	"errors"
	"fmt"
)

var (
	// ErrUnauthorized is the parent of every credential failure answered with 401.
	ErrUnauthorized = errors.New("could not validate credentials")

	// ErrForbidden is returned when the acting user lacks a permission.
	ErrForbidden = errors.New("not enough permissions")

	// ErrTokenMissing is returned when no bearer token was sent.
	ErrTokenMissing = fmt.Errorf("%w: missing bearer token", ErrUnauthorized)

	// ErrTokenMalformed is returned for tokens that can not be parsed or verified.
	ErrTokenMalformed = fmt.Errorf("%w: malformed token", ErrUnauthorized)

	// ErrTokenExpired is returned for tokens past their expiry.
	ErrTokenExpired = fmt.Errorf("%w: token expired", ErrUnauthorized)

	// ErrTokenSubject is returned when the subject claim is missing or not a user id.
	ErrTokenSubject = fmt.Errorf("%w: invalid token subject", ErrUnauthorized)

	// ErrTokenType is returned when a refresh token is used as access token or vice versa.
	ErrTokenType = fmt.Errorf("%w: wrong token type", ErrUnauthorized)

	// ErrUserAccountDisabled is returned when attempting to authenticate a disabled user account.
	ErrUserAccountDisabled = errors.New("user account is disabled")

	// ErrInvalidPassword is returned when the provided password is incorrect during authentication.
	ErrInvalidPassword = fmt.Errorf("%w: invalid password", ErrUnauthorized)

	// ErrUserNotFound is returned when a user cannot be found in the database.
	ErrUserNotFound = fmt.Errorf("%w: user not found", ErrUnauthorized)
)
