// Package daemon wires configuration, database, storage and the web service.
package daemon

import (
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/vigil-vms/vigil/internal/auth"
	"github.com/vigil-vms/vigil/internal/config"
	"github.com/vigil-vms/vigil/internal/db/dsn"
	"github.com/vigil-vms/vigil/internal/db/models"
	"github.com/vigil-vms/vigil/internal/logger/adapter/stdlogger"
	"github.com/vigil-vms/vigil/internal/service"
	"github.com/vigil-vms/vigil/internal/storage"
	"github.com/vigil-vms/vigil/internal/web"
	"github.com/vigil-vms/vigil/internal/web/handler"
)

const (
	slowQueryThreshold = 500 * time.Millisecond

	videoExt = ".mp4"
	frameExt = ".jpg"
)

// Daemon represents the main application daemon.
type Daemon struct {
	cfg        *config.Config
	webService *web.Service
}

// Start serves the API until the process is signalled to stop.
func (d *Daemon) Start() error {
	go d.webService.WaitShutdown()

	return d.webService.Start(fmt.Sprintf(":%d", d.cfg.Webserver.Port))
}

// Web returns the web service of the daemon.
func (d *Daemon) Web() *web.Service {
	return d.webService
}

// OpenDB connects to the configured database.
func OpenDB(cfg *config.Config) (*gorm.DB, error) {
	dialector, err := dsn.Dialector(cfg)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}

	level := logger.Warn
	if cfg.DevMode {
		level = logger.Info
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.New(stdlogger.New("gorm"), logger.Config{
			SlowThreshold:             slowQueryThreshold,
			LogLevel:                  level,
			IgnoreRecordNotFoundError: true,
		}),
		NowFunc:        models.Now,
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect database: %w", err)
	}

	return db, nil
}

// New connects and migrates the database, seeds it and builds the web service.
func New(cfg *config.Config) (*Daemon, error) {
	if cfg == nil {
		return nil, config.ErrNilConfig
	}

	db, err := OpenDB(cfg)
	if err != nil {
		return nil, err
	}

	if err = Prepare(cfg, db); err != nil {
		return nil, err
	}

	deps, err := Deps(cfg, db)
	if err != nil {
		return nil, err
	}

	return &Daemon{
		cfg:        cfg,
		webService: web.New(cfg, deps),
	}, nil
}

// Prepare creates or updates the schema and seeds the default permissions,
// the admin role and the first account.
func Prepare(cfg *config.Config, db *gorm.DB) error {
	if err := models.Migrate(db); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	return seed(cfg, db)
}

// Deps builds the services behind the route groups.
func Deps(cfg *config.Config, db *gorm.DB) (handler.Deps, error) {
	videos, err := storage.NewLocal(cfg.Storage.VideoPath, videoExt)
	if err != nil {
		return handler.Deps{}, err //nolint:wrapcheck
	}

	frames, err := storage.NewLocal(cfg.Storage.FramePath, frameExt)
	if err != nil {
		return handler.Deps{}, err //nolint:wrapcheck
	}

	tokens := auth.NewTokenManager(
		cfg.Auth.SecretKey,
		time.Duration(cfg.Auth.AccessTokenExpireMinutes)*time.Minute,
		time.Duration(cfg.Auth.RefreshTokenExpireDays)*24*time.Hour,
	)

	log.Info().
		Str("videos", videos.BasePath()).
		Str("frames", frames.BasePath()).
		Msg("file storage ready")

	return handler.Deps{
		Authz:     auth.NewService(db),
		Tokens:    tokens,
		Validate:  handler.NewValidator(),
		Login:     service.NewAuth(db, tokens),
		Users:     service.NewUsers(db),
		Roles:     service.NewRoles(db),
		Locations: service.NewLocations(db),
		Cameras:   service.NewCameras(db),
		Videos:    service.NewVideos(db, videos),
		Events:    service.NewEvents(db, frames),
	}, nil
}
