package authn

import (
	"github.com/gofiber/fiber/v2"

	"github.com/vigil-vms/vigil/internal/schema"
	"github.com/vigil-vms/vigil/internal/web/handler"
)

func (s *Service) listPermissions(c *fiber.Ctx) error {
	p, err := handler.Page(c)
	if err != nil {
		return err
	}

	res, err := s.Roles.ListPermissions(c.UserContext(), p)
	if err != nil {
		return err //nolint:wrapcheck
	}

	return c.JSON(res)
}

func (s *Service) getPermission(c *fiber.Ctx) error {
	id, err := handler.ParseID(c, handler.ParamID)
	if err != nil {
		return err
	}

	perm, err := s.Roles.GetPermission(c.UserContext(), id)
	if err != nil {
		return err //nolint:wrapcheck
	}

	return c.JSON(perm)
}

func (s *Service) createPermission(c *fiber.Ctx) error {
	var in schema.PermissionCreate
	if err := handler.Bind(c, s.Validate, &in); err != nil {
		return err
	}

	perm, err := s.Roles.CreatePermission(c.UserContext(), in)
	if err != nil {
		return err //nolint:wrapcheck
	}

	return handler.Created(c, perm)
}

func (s *Service) updatePermission(c *fiber.Ctx) error {
	id, err := handler.ParseID(c, handler.ParamID)
	if err != nil {
		return err
	}

	var in schema.PermissionUpdate
	if err = handler.Bind(c, s.Validate, &in); err != nil {
		return err
	}

	perm, err := s.Roles.UpdatePermission(c.UserContext(), id, in)
	if err != nil {
		return err //nolint:wrapcheck
	}

	return c.JSON(perm)
}

func (s *Service) deletePermission(c *fiber.Ctx) error {
	id, err := handler.ParseID(c, handler.ParamID)
	if err != nil {
		return err
	}

	if err = s.Roles.DeletePermission(c.UserContext(), id); err != nil {
		return err //nolint:wrapcheck
	}

	return handler.NoContent(c)
}

func (s *Service) listRoles(c *fiber.Ctx) error {
	p, err := handler.Page(c)
	if err != nil {
		return err
	}

	res, err := s.Roles.ListRoles(c.UserContext(), p)
	if err != nil {
		return err //nolint:wrapcheck
	}

	return c.JSON(res)
}

func (s *Service) getRole(c *fiber.Ctx) error {
	id, err := handler.ParseID(c, handler.ParamID)
	if err != nil {
		return err
	}

	role, err := s.Roles.GetRole(c.UserContext(), id)
	if err != nil {
		return err //nolint:wrapcheck
	}

	return c.JSON(role)
}

func (s *Service) createRole(c *fiber.Ctx) error {
	var in schema.RoleCreate
	if err := handler.Bind(c, s.Validate, &in); err != nil {
		return err
	}

	role, err := s.Roles.CreateRole(c.UserContext(), in)
	if err != nil {
		return err //nolint:wrapcheck
	}

	return handler.Created(c, role)
}

func (s *Service) updateRole(c *fiber.Ctx) error {
	id, err := handler.ParseID(c, handler.ParamID)
	if err != nil {
		return err
	}

	var in schema.RoleUpdate
	if err = handler.Bind(c, s.Validate, &in); err != nil {
		return err
	}

	role, err := s.Roles.UpdateRole(c.UserContext(), id, in)
	if err != nil {
		return err //nolint:wrapcheck
	}

	return c.JSON(role)
}

func (s *Service) deleteRole(c *fiber.Ctx) error {
	id, err := handler.ParseID(c, handler.ParamID)
	if err != nil {
		return err
	}

	if err = s.Roles.DeleteRole(c.UserContext(), id); err != nil {
		return err //nolint:wrapcheck
	}

	return handler.NoContent(c)
}
