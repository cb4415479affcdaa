// Package main is the entry point of vigil, the backend of a video
// surveillance system. It serves a JSON REST API below /api/v1 for users,
// roles, locations, cameras, recorded videos and detection events, backed by
// gorm on MySQL, PostgreSQL or SQLite.
package main
