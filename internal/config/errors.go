package config

import (
	"errors"
)

var (
	// ErrEmptyURL error if config webserver.URL is empty.
	ErrEmptyURL = errors.New("toml config webserver.url can not be empty")

	// ErrWebServerPortCanNotBeZero error if config webserver listening port is 0.
	ErrWebServerPortCanNotBeZero = errors.New("toml config webserver.port listening port can not be 0")

	// ErrSecretKeyTooShort error if config auth.secretKey is shorter than MinSecretKeyLen.
	ErrSecretKeyTooShort = errors.New("toml config auth.secretKey must be at least 32 characters")

	// ErrUnknownGormEngine error if config db.gormEngine is not supported.
	ErrUnknownGormEngine = errors.New("toml config db.gormEngine must be one of mysql, postgres, sqlite")
)

// ErrNilConfig is returned when a component is built without configuration.
var ErrNilConfig = errors.New("config is nil")
