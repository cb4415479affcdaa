// Package dsn provides Data Source Name construction utilities for database connections.
package dsn

import (
	"fmt"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/vigil-vms/vigil/internal/config"
)

// DefaultSQLitePath is used when the sqlite engine is selected without a path.
const DefaultSQLitePath = "vigil.db"

// Create builds the MySQL Data Source Name from the configuration.
func Create(dbCfg *config.Config) string {
	out := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?%s",
		dbCfg.DB.User,
		dbCfg.DB.Password,
		dbCfg.DB.Host,
		dbCfg.DB.Port,
		dbCfg.DB.Name,
		dbCfg.DB.Extras,
	)

	return out
}

// CreatePostgres builds the PostgreSQL keyword/value DSN from the configuration.
func CreatePostgres(dbCfg *config.Config) string {
	out := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s",
		dbCfg.DB.Host,
		dbCfg.DB.Port,
		dbCfg.DB.User,
		dbCfg.DB.Password,
		dbCfg.DB.Name,
	)

	if dbCfg.DB.Extras != "" {
		out += " " + dbCfg.DB.Extras
	}

	return out
}

// CreateSQLite builds the SQLite DSN with foreign keys enforced.
func CreateSQLite(dbCfg *config.Config) string {
	p := dbCfg.DB.Path
	if p == "" {
		p = DefaultSQLitePath
	}

	out := p + "?_pragma=foreign_keys(1)"
	if dbCfg.DB.Extras != "" {
		out += "&" + dbCfg.DB.Extras
	}

	return out
}

// Dialector returns the gorm dialector for the configured engine.
// An empty engine selects mysql.
func Dialector(dbCfg *config.Config) (gorm.Dialector, error) {
	switch dbCfg.DB.GormEngine {
	case "", "mysql":
		return mysql.Open(Create(dbCfg)), nil
	case "postgres":
		return postgres.Open(CreatePostgres(dbCfg)), nil
	case "sqlite":
		return sqlite.Open(CreateSQLite(dbCfg)), nil
	default:
		return nil, fmt.Errorf("%w: %q", config.ErrUnknownGormEngine, dbCfg.DB.GormEngine)
	}
}
