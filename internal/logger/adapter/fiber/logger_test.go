package fiber_test

import (
	"bufio"
	"encoding/json"
	"errors"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	adapter "github.com/vigil-vms/vigil/internal/logger/adapter/fiber"

	"github.com/vigil-vms/vigil/internal/logger"
)

// accessLine is the subset of the access log json checked here.
type accessLine struct {
	Status int    `json:"status"`
	Method string `json:"method"`
	Route  string `json:"route"`
	URI    string `json:"uri"`
	Host   string `json:"host"`
	UserID uint   `json:"user_id"`
	Error  string `json:"error"`
}

const userKey = "test_user_id"

type recorder struct {
	app     *fiber.App
	dir     string
	entries []adapter.Entry
}

func newRecorder(t *testing.T, silenceCheckAlive bool) *recorder {
	t.Helper()

	r := &recorder{dir: t.TempDir()}

	r.app = fiber.New(fiber.Config{
		CaseSensitive: true,
		Immutable:     true,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			var fe *fiber.Error
			if errors.As(err, &fe) {
				return c.Status(fe.Code).JSON(fiber.Map{"detail": fe.Message})
			}

			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"detail": "Internal Server Error"})
		},
	})

	r.app.Use(adapter.New(adapter.Config{
		Config: logger.Log{
			DisableCheckAlive: silenceCheckAlive,
			File:              logger.LogFile{Enabled: true, Path: r.dir, AccessLog: "access.log"},
		},
		CheckAliveURI: "/checkalive",
		UserIDKey:     userKey,
		Observers: []adapter.Observer{func(_ *fiber.Ctx, e adapter.Entry) {
			r.entries = append(r.entries, e)
		}},
	}))

	r.app.Get("/checkalive", func(c *fiber.Ctx) error {
		return c.SendString("OK")
	})

	authed := func(c *fiber.Ctx) error {
		c.Locals(userKey, uint(7))

		return c.Next()
	}

	r.app.Get("/api/v1/cameras", authed, func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"items": []string{}, "total": 0})
	})
	r.app.Get("/api/v1/cameras/:id", authed, func(c *fiber.Ctx) error {
		return fiber.NewError(fiber.StatusNotFound, "Camera not found")
	})
	r.app.Get("/api/v1/videos/:id/download", func(*fiber.Ctx) error {
		return errors.New("disk gone")
	})

	return r
}

func (r *recorder) get(t *testing.T, target string) {
	t.Helper()

	res, err := r.app.Test(httptest.NewRequest(fiber.MethodGet, target, nil), -1)
	require.NoError(t, err)
	assert.NotEmpty(t, res.Header.Get(adapter.HeaderPerformance))
}

func (r *recorder) lines(t *testing.T) []accessLine {
	t.Helper()

	f, err := os.Open(filepath.Join(r.dir, "access.log"))
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	require.NoError(t, err)
	defer f.Close()

	var out []accessLine
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		var l accessLine
		require.NoError(t, json.Unmarshal(sc.Bytes(), &l), sc.Text())
		out = append(out, l)
	}

	return out
}

func TestAccessLog(t *testing.T) {
	tests := []struct {
		name   string
		target string
		want   accessLine
		failed bool
	}{
		{
			name:   "authenticated request carries the user",
			target: "/api/v1/cameras?skip=10&limit=5",
			want: accessLine{
				Status: fiber.StatusOK, Method: fiber.MethodGet, Route: "/api/v1/cameras",
				URI: "/api/v1/cameras?skip=10&limit=5", Host: "example.com", UserID: 7,
			},
		},
		{
			name:   "route template and rendered domain error",
			target: "/api/v1/cameras/42",
			want: accessLine{
				Status: fiber.StatusNotFound, Method: fiber.MethodGet, Route: "/api/v1/cameras/:id",
				URI: "/api/v1/cameras/42", Host: "example.com", UserID: 7, Error: "Camera not found",
			},
			failed: true,
		},
		{
			name:   "anonymous failure",
			target: "/api/v1/videos/3/download",
			want: accessLine{
				Status: fiber.StatusInternalServerError, Method: fiber.MethodGet, Route: "/api/v1/videos/:id/download",
				URI: "/api/v1/videos/3/download", Host: "example.com", Error: "disk gone",
			},
			failed: true,
		},
		{
			name:   "raw path is kept",
			target: "/api/v1//videos",
			want: accessLine{
				Status: fiber.StatusNotFound, Method: fiber.MethodGet,
				URI: "/api/v1//videos", Host: "example.com",
			},
			failed: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newRecorder(t, false)
			r.get(t, tt.target)

			lines := r.lines(t)
			require.Len(t, lines, 1)
			got := lines[0]

			if tt.want.Route == "" {
				got.Route = ""
			}

			if tt.want.Error == "" {
				got.Error = ""
			}

			assert.Equal(t, tt.want, got)

			require.Len(t, r.entries, 1)
			e := r.entries[0]
			assert.Equal(t, tt.want.Status, e.Status)
			assert.Equal(t, lines[0].Route, e.Route)
			assert.Equal(t, tt.want.UserID, e.UserID)
			assert.Equal(t, tt.failed, e.Err != nil)
			assert.Positive(t, e.Duration)
		})
	}
}

func TestAccessLogCheckAlive(t *testing.T) {
	r := newRecorder(t, false)
	r.get(t, "/checkalive")
	require.Len(t, r.lines(t), 1)

	silent := newRecorder(t, true)
	silent.get(t, "/checkalive")
	silent.get(t, "/api/v1/cameras")

	lines := silent.lines(t)
	require.Len(t, lines, 1)
	assert.Equal(t, "/api/v1/cameras", lines[0].Route)

	// observers still see silenced requests
	require.Len(t, silent.entries, 2)
	assert.Equal(t, "/checkalive", silent.entries[0].Route)
	assert.Equal(t, fiber.StatusOK, silent.entries[0].Status)
}

func TestAccessLogWithoutSinks(t *testing.T) {
	var seen int

	app := fiber.New()
	app.Use(adapter.New(adapter.Config{
		Observers: []adapter.Observer{func(*fiber.Ctx, adapter.Entry) { seen++ }},
	}))
	app.Get("/", func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusNoContent) })

	res, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNoContent, res.StatusCode)
	assert.Equal(t, 1, seen)
}
