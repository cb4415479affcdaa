package handler

import (
	"mime/multipart"

	"github.com/gofiber/fiber/v2"

	"github.com/vigil-vms/vigil/internal/storage"
)

// FormFieldFile is the multipart field carrying uploaded files.
const FormFieldFile = "file"

// FormFile opens the uploaded file of the request. The caller closes it.
func FormFile(c *fiber.Ctx) (multipart.File, storage.FileInfo, error) {
	header, err := c.FormFile(FormFieldFile)
	if err != nil {
		return nil, storage.FileInfo{}, fiber.NewError(fiber.StatusBadRequest, "file is required")
	}

	f, err := header.Open()
	if err != nil {
		return nil, storage.FileInfo{}, fiber.NewError(fiber.StatusBadRequest, "unreadable upload")
	}

	return f, storage.FileInfo{
		Filename:    header.Filename,
		ContentType: header.Header.Get(fiber.HeaderContentType),
		Size:        header.Size,
	}, nil
}

// FormID reads a required positive id form field.
func FormID(c *fiber.Ctx, name string) (uint, error) {
	raw := c.FormValue(name)
	if raw == "" {
		return 0, fiber.NewError(fiber.StatusBadRequest, name+" is required")
	}

	id, ok := parseID(raw)
	if !ok {
		return 0, fiber.NewError(fiber.StatusBadRequest, "invalid "+name+": "+raw)
	}

	return id, nil
}
