// Package fiber writes the http access log of a fiber app through zerolog
// and hands every served request to observers such as metrics.
package fiber

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/vigil-vms/vigil/internal/logger"
)

// HeaderPerformance carries the handling time in seconds.
const HeaderPerformance = "X-Performance"

// Entry describes one served request.
type Entry struct {
	Method string
	// Route is the matched route template, e.g. /api/v1/cameras/:id.
	Route string
	// Path is the raw request path including the query string.
	Path     string
	Status   int
	Duration time.Duration
	// UserID is 0 for anonymous requests.
	UserID uint
	Err    error
}

// Observer receives the entry of every request, logged or not.
type Observer func(c *fiber.Ctx, e Entry)

// Config of the access log middleware.
type Config struct {
	// Next skips the middleware when it returns true.
	Next func(c *fiber.Ctx) bool

	// Config selects the access log sinks, see logger.AccessWriter.
	Config logger.Log

	// CheckAliveURI is not logged if Config.DisableCheckAlive is set.
	CheckAliveURI string

	// UserIDKey is the fiber Locals key holding the authenticated user id.
	UserIDKey string

	Observers []Observer
}

// New returns the access log middleware.
// Chain errors are rendered by the app's ErrorHandler here so the logged
// and observed status is the one sent to the client.
func New(cfg Config) fiber.Handler {
	access := zerolog.Nop()
	if w := logger.AccessWriter(cfg.Config); w != nil {
		access = zerolog.New(w).With().Timestamp().Logger().Level(zerolog.NoLevel)
	}

	return func(c *fiber.Ctx) error {
		if cfg.Next != nil && cfg.Next(c) {
			return c.Next()
		}

		start := time.Now()

		chainErr := c.Next()
		if chainErr != nil {
			if err := c.App().ErrorHandler(c, chainErr); err != nil {
				_ = c.SendStatus(fiber.StatusInternalServerError)
			}
		}

		e := entry(c, cfg.UserIDKey, time.Since(start), chainErr)
		c.Set(HeaderPerformance, strconv.FormatFloat(e.Duration.Seconds(), 'f', 6, 64))

		for _, observe := range cfg.Observers {
			observe(c, e)
		}

		if cfg.Config.DisableCheckAlive && c.Path() == cfg.CheckAliveURI {
			return nil
		}

		write(access, c, e)

		return nil
	}
}

func entry(c *fiber.Ctx, userIDKey string, elapsed time.Duration, err error) Entry {
	// fasthttp normalizes the path (//a becomes /a), the log keeps the raw one.
	p := string(c.Request().URI().PathOriginal())
	if p == "" {
		p = c.Path()
	}

	if q := c.Request().URI().QueryString(); len(q) > 0 {
		p += "?" + string(q)
	}

	e := Entry{
		Method:   c.Method(),
		Route:    c.Route().Path,
		Path:     p,
		Status:   c.Response().StatusCode(),
		Duration: elapsed,
		Err:      err,
	}

	if userIDKey != "" {
		e.UserID, _ = c.Locals(userIDKey).(uint)
	}

	return e
}

func write(access zerolog.Logger, c *fiber.Ctx, e Entry) {
	line := access.Log().
		Str("ip", c.IP()).
		Str("method", e.Method).
		Str("route", e.Route).
		Str("uri", e.Path).
		Int("status", e.Status).
		Float64("duration", e.Duration.Seconds()).
		Bytes("host", c.Request().Host())

	for _, h := range []string{fiber.HeaderXForwardedFor, fiber.HeaderUserAgent, fiber.HeaderOrigin, fiber.HeaderReferer} {
		if v := c.Get(h); v != "" {
			line.Str(h, v)
		}
	}

	if e.UserID != 0 {
		line.Uint("user_id", e.UserID)
	}

	if e.Err != nil {
		line.Err(e.Err)
	}

	line.Send()
}
