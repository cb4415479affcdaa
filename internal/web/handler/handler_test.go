package handler

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vigil-vms/vigil/internal/auth"
	"github.com/vigil-vms/vigil/internal/service"
)

func TestParseTime(t *testing.T) {
	tests := []struct {
		in   string
		want time.Time
		ok   bool
	}{
		{"2024-05-01T10:00:00Z", time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC), true},
		{"2024-05-01T10:00:00", time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC), true},
		{"2024-05-01T10:00:00.5", time.Date(2024, 5, 1, 10, 0, 0, 500_000_000, time.UTC), true},
		{"2024-05-01 10:00:00", time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC), true},
		{"2024-05-01", time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC), true},
		{"yesterday", time.Time{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseTime(tt.in)
			assert.Equal(t, tt.ok, ok)

			if tt.ok {
				assert.True(t, tt.want.Equal(got), "got %v", got)
			}
		})
	}
}

func TestPage(t *testing.T) {
	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler})
	app.Get("/", func(c *fiber.Ctx) error {
		p, err := Page(c)
		if err != nil {
			return err
		}

		return c.SendString(fmt.Sprintf("%d/%d", p.Skip, p.Limit))
	})

	tests := []struct {
		query  string
		status int
		body   string
	}{
		{"", http.StatusOK, "0/100"},
		{"?skip=5&limit=10", http.StatusOK, "5/10"},
		{"?skip=-1", http.StatusBadRequest, ""},
		{"?limit=0", http.StatusBadRequest, ""},
		{"?limit=ten", http.StatusBadRequest, ""},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			res, err := app.Test(httptest.NewRequest(http.MethodGet, "/"+tt.query, nil))
			require.NoError(t, err)
			assert.Equal(t, tt.status, res.StatusCode)

			if tt.body != "" {
				b, err := io.ReadAll(res.Body)
				require.NoError(t, err)
				assert.Equal(t, tt.body, string(b))
			}
		})
	}
}

func TestErrorHandler(t *testing.T) {
	type input struct {
		Name       string  `json:"name" validate:"required"`
		Confidence float64 `json:"confidence" validate:"lte=1"`
	}

	validationErr := NewValidator().Struct(input{Confidence: 1.5})
	require.Error(t, validationErr)

	tests := []struct {
		name   string
		err    error
		status int
		detail string
	}{
		{"not found", service.NotFound("Camera not found"), http.StatusNotFound, "Camera not found"},
		{"validation", service.Validation("User with this email already exists"), http.StatusBadRequest, "User with this email already exists"},
		{"forbidden", service.Forbidden("You don't have permission to update this camera"), http.StatusForbidden, "You don't have permission to update this camera"},
		{"wrapped domain error", fmt.Errorf("outer: %w", service.NotFound("Video not found")), http.StatusNotFound, "Video not found"},
		{"bad credentials", auth.ErrInvalidPassword, http.StatusUnauthorized, "Could not validate credentials"},
		{"disabled", auth.ErrUserAccountDisabled, http.StatusForbidden, "Inactive user"},
		{"missing permission", auth.ErrForbidden, http.StatusForbidden, "Not enough permissions"},
		{"validator", validationErr, http.StatusBadRequest, "name failed on required; confidence failed on lte=1"},
		{"fiber error", fiber.NewError(fiber.StatusRequestEntityTooLarge, "too big"), http.StatusRequestEntityTooLarge, "too big"},
		{"unknown", errors.New("connection reset by peer"), http.StatusInternalServerError, msgInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler})
			app.Get("/", func(*fiber.Ctx) error { return tt.err })

			res, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
			require.NoError(t, err)
			assert.Equal(t, tt.status, res.StatusCode)

			b, err := io.ReadAll(res.Body)
			require.NoError(t, err)
			assert.JSONEq(t, fmt.Sprintf(`{"detail":%q}`, tt.detail), string(b))

			if tt.status == http.StatusUnauthorized {
				assert.Equal(t, "Bearer", res.Header.Get(fiber.HeaderWWWAuthenticate))
			}
		})
	}
}

func TestParseID(t *testing.T) {
	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler})
	app.Get("/:id", func(c *fiber.Ctx) error {
		id, err := ParseID(c, ParamID)
		if err != nil {
			return err
		}

		return c.SendString(fmt.Sprint(id))
	})

	for path, status := range map[string]int{"/7": http.StatusOK, "/0": http.StatusBadRequest, "/x": http.StatusBadRequest} {
		res, err := app.Test(httptest.NewRequest(http.MethodGet, path, nil))
		require.NoError(t, err)
		assert.Equal(t, status, res.StatusCode, path)
	}
}
