package config

import (
	"github.com/vigil-vms/vigil/internal/logger"
)

// Config overall data structure.
type Config struct {
	DevMode   bool // enable dev mode for development
	DB        DB
	Log       logger.Log
	Title     string
	Webserver Webserver
	Auth      Auth
	Storage   Storage
}

// Webserver implement webserver settings.
type Webserver struct {
	CleanPath      bool   // use clean path middleware to allow multi slash requests
	DisableRecover bool   // disable recover middleware
	Port           int    // listening port for the webserver
	ShutDownTime   int    // wait time for shutdown
	URL            string // base url for the webserver
	BodyLimit      int    // max request body size in bytes, uploads included
}

// Auth holds token signing and bootstrap account settings.
type Auth struct {
	SecretKey                string // HMAC key for signing tokens, at least 32 chars
	AccessTokenExpireMinutes int
	RefreshTokenExpireDays   int

	// AdminEmail and AdminPassword seed the first account on an empty database.
	AdminEmail    string
	AdminPassword string
}

// Storage holds the local directories for uploaded files.
type Storage struct {
	VideoPath string
	FramePath string
}
