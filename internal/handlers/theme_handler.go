package handlers

import (
	"io"
	"log"

	"grocer/pkg/settings"

	"github.com/gofiber/fiber/v2"
)

// ThemeHandler serves the current visual theme and accepts replacement
// settings files from the admin.
type ThemeHandler struct {
	settings *settings.Manager
}

// NewThemeHandler creates a new ThemeHandler.
func NewThemeHandler(settingsMgr *settings.Manager) *ThemeHandler {
	return &ThemeHandler{
		settings: settingsMgr,
	}
}

// RegisterPublicRoutes registers the read-only theme route.
func (h *ThemeHandler) RegisterPublicRoutes(router fiber.Router) {
	router.Get("/theme", h.HandleGetTheme)
}

// RegisterAdminRoutes registers the theme replacement route. The caller is
// expected to wrap the router in the admin JWT middleware.
func (h *ThemeHandler) RegisterAdminRoutes(router fiber.Router) {
	router.Put("/theme", h.HandleReplaceTheme)
}

// HandleGetTheme returns the active theme snapshot.
func (h *ThemeHandler) HandleGetTheme(c *fiber.Ctx) error {
	return c.JSON(h.settings.Current().Theme)
}

// HandleReplaceTheme accepts an uploaded settings XML file, persists it, and
// swaps the active settings atomically. A file that fails to parse leaves the
// previous theme in place.
func (h *ThemeHandler) HandleReplaceTheme(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "A settings file upload named 'file' is required",
			"error":   err.Error(),
		})
	}

	file, err := fileHeader.Open()
	if err != nil {
		log.Printf("Error opening uploaded settings file %s: %v", fileHeader.Filename, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not read uploaded file",
			"error":   err.Error(),
		})
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not read uploaded file",
			"error":   err.Error(),
		})
	}

	if err := h.settings.Replace(data); err != nil {
		log.Printf("Error replacing settings from %s: %v", fileHeader.Filename, err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Theme update failed",
			"error":   err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"message": "Theme updated",
		"theme":   h.settings.Current().Theme,
	})
}
