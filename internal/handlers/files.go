package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/uli/backend/internal/middleware"
	"github.com/uli/backend/internal/models"
	"github.com/uli/backend/internal/services"
	"github.com/uli/backend/pkg/logger"
)

type FilesHandler struct {
	Service *services.FileService
	// AttachOwner records the session principal, when present, on uploads.
	AttachOwner bool
}

func NewFilesHandler(service *services.FileService, attachOwner bool) *FilesHandler {
	return &FilesHandler{Service: service, AttachOwner: attachOwner}
}

func (h *FilesHandler) UploadText(c *fiber.Ctx) error {
	var body struct {
		Text any `json:"text"`
	}
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"errors": []services.FieldError{{
				Type:     "field",
				Msg:      "Text must be a string",
				Path:     "text",
				Location: "body",
			}},
		})
	}

	var ownerID *uint
	if h.AttachOwner {
		if user := middleware.GetCurrentUser(c); user != nil {
			ownerID = &user.ID
		}
	}

	file, err := h.Service.CreateText(c.Context(), body.Text, ownerID)
	if err != nil {
		var vErr *services.ValidationError
		if errors.As(err, &vErr) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"errors": vErr.Errors})
		}
		return storageFailure(c, "text_insert_failed", err)
	}

	logger.Info("text_inserted", map[string]interface{}{
		"file_id":  file.ID,
		"owner_id": ownerID,
	})

	return c.JSON(fiber.Map{"message": "Text inserted successfully"})
}

func (h *FilesHandler) ListAll(c *fiber.Ctx) error {
	files, err := h.Service.ListAll(c.Context())
	if err != nil {
		return storageFailure(c, "files_list_failed", err)
	}
	if files == nil {
		files = []models.File{}
	}
	return c.JSON(fiber.Map{"files": files})
}

func (h *FilesHandler) Count(c *fiber.Ctx) error {
	total, err := h.Service.CountAll(c.Context())
	if err != nil {
		return storageFailure(c, "files_count_failed", err)
	}
	return c.JSON(fiber.Map{"totalFiles": total})
}

func (h *FilesHandler) Search(c *fiber.Ctx) error {
	files, err := h.Service.SearchByName(c.Context(), c.Query("name"))
	if errors.Is(err, services.ErrNoFiles) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "No files found"})
	}
	if err != nil {
		return storageFailure(c, "files_search_failed", err)
	}
	return c.JSON(fiber.Map{"files": files})
}

func storageFailure(c *fiber.Ctx, action string, err error) error {
	logger.Error(action, err, map[string]interface{}{
		"path": c.Path(),
	})
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
}
