package handler

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/vigil-vms/vigil/internal/pagination"
)

// List answers the page of fn selected by the skip and limit query parameters.
func List[T any](fn func(ctx context.Context, p pagination.Params) (pagination.Result[T], error)) fiber.Handler {
	return func(c *fiber.Ctx) error {
		p, err := Page(c)
		if err != nil {
			return err
		}

		res, err := fn(c.UserContext(), p)
		if err != nil {
			return err
		}

		return c.JSON(res)
	}
}

// ListOf answers the page of fn for the id route parameter param.
func ListOf[T any](param string, fn func(ctx context.Context, id uint, p pagination.Params) (pagination.Result[T], error)) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := ParseID(c, param)
		if err != nil {
			return err
		}

		p, err := Page(c)
		if err != nil {
			return err
		}

		res, err := fn(c.UserContext(), id, p)
		if err != nil {
			return err
		}

		return c.JSON(res)
	}
}

// Get answers the entity fn loads for the :id route parameter.
func Get[T any](fn func(ctx context.Context, id uint) (T, error)) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := ParseID(c, ParamID)
		if err != nil {
			return err
		}

		v, err := fn(c.UserContext(), id)
		if err != nil {
			return err
		}

		return c.JSON(v)
	}
}

// Delete removes the entity of the :id route parameter and answers 204.
func Delete(fn func(ctx context.Context, id uint) error) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := ParseID(c, ParamID)
		if err != nil {
			return err
		}

		if err = fn(c.UserContext(), id); err != nil {
			return err
		}

		return NoContent(c)
	}
}
