// Package schema holds the request and response shapes of the API and the
// explicit mapping functions from the gorm models into them.
package schema
