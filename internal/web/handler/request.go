package handler

import (
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/vigil-vms/vigil/internal/auth"
	"github.com/vigil-vms/vigil/internal/pagination"
	"github.com/vigil-vms/vigil/internal/schema"
)

// ParseID reads a positive integer route parameter.
func ParseID(c *fiber.Ctx, name string) (uint, error) {
	raw := c.Params(name)

	id, ok := parseID(raw)
	if !ok {
		return 0, fiber.NewError(fiber.StatusBadRequest, "invalid "+name+": "+raw)
	}

	return id, nil
}

func parseID(raw string) (uint, bool) {
	id, err := strconv.ParseUint(raw, 10, 0)
	if err != nil || id == 0 {
		return 0, false
	}

	return uint(id), true
}

// Page reads the skip and limit query parameters and rejects values out of range.
func Page(c *fiber.Ctx) (pagination.Params, error) {
	p := pagination.Default()

	var err error
	if p.Skip, err = queryInt(c, "skip", p.Skip); err != nil {
		return p, err
	}

	if p.Limit, err = queryInt(c, "limit", p.Limit); err != nil {
		return p, err
	}

	if err = p.Validate(); err != nil {
		return p, fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	return p, nil
}

func queryInt(c *fiber.Ctx, name string, def int) (int, error) {
	raw := c.Query(name)
	if raw == "" {
		return def, nil
	}

	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fiber.NewError(fiber.StatusBadRequest, name+" must be an integer")
	}

	return v, nil
}

// QueryInt reads an optional integer query parameter.
func QueryInt(c *fiber.Ctx, name string, def int) (int, error) {
	return queryInt(c, name, def)
}

// QueryUintPtr reads an optional positive id query parameter.
func QueryUintPtr(c *fiber.Ctx, name string) (*uint, error) {
	raw := c.Query(name)
	if raw == "" {
		return nil, nil //nolint:nilnil
	}

	id, ok := parseID(raw)
	if !ok {
		return nil, fiber.NewError(fiber.StatusBadRequest, "invalid "+name+": "+raw)
	}

	return &id, nil
}

// ParseTime accepts RFC 3339 and zone-less ISO 8601 timestamps.
func ParseTime(raw string) (time.Time, bool) {
	return schema.ParseTime(raw)
}

// QueryTime reads a required timestamp query parameter.
func QueryTime(c *fiber.Ctx, name string) (time.Time, error) {
	raw := c.Query(name)
	if raw == "" {
		return time.Time{}, fiber.NewError(fiber.StatusBadRequest, name+" is required")
	}

	t, ok := ParseTime(raw)
	if !ok {
		return time.Time{}, fiber.NewError(fiber.StatusBadRequest, "invalid "+name+": "+raw)
	}

	return t, nil
}

// FormTime reads an optional timestamp form value.
func FormTime(c *fiber.Ctx, name string) (*time.Time, error) {
	raw := c.FormValue(name)
	if raw == "" {
		return nil, nil //nolint:nilnil
	}

	t, ok := ParseTime(raw)
	if !ok {
		return nil, fiber.NewError(fiber.StatusBadRequest, "invalid "+name+": "+raw)
	}

	return &t, nil
}

// Bool reads a boolean from the form or the query string, defaulting to def.
func Bool(c *fiber.Ctx, name string, def bool) (bool, error) {
	raw := c.FormValue(name)
	if raw == "" {
		raw = c.Query(name)
	}

	if raw == "" {
		return def, nil
	}

	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fiber.NewError(fiber.StatusBadRequest, name+" must be a boolean")
	}

	return v, nil
}

// Bind parses the request body into v and validates it.
func Bind(c *fiber.Ctx, validate *validator.Validate, v any) error {
	if err := c.BodyParser(v); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	return validate.Struct(v) //nolint:wrapcheck
}

// ActorID returns the id of the authenticated user.
func ActorID(c *fiber.Ctx) uint {
	if user := auth.CurrentUser(c); user != nil {
		return user.ID
	}

	return 0
}

// Created answers 201 with v as body.
func Created(c *fiber.Ctx, v any) error {
	return c.Status(fiber.StatusCreated).JSON(v)
}

// NoContent answers 204 without body.
func NoContent(c *fiber.Ctx) error {
	return c.SendStatus(fiber.StatusNoContent)
}
