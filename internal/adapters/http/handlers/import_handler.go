package handlers

import (
	"editortrack/internal/core/services"
	"editortrack/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// ImportHandler handles admin bulk import and migration endpoints
type ImportHandler struct {
	importService      *services.ImportService
	maintenanceService *services.MaintenanceService
}

// NewImportHandler creates a new import handler
func NewImportHandler(
	importService *services.ImportService,
	maintenanceService *services.MaintenanceService,
) *ImportHandler {
	return &ImportHandler{
		importService:      importService,
		maintenanceService: maintenanceService,
	}
}

// ImportUsersRequest represents a user import body
type ImportUsersRequest struct {
	Users []services.ImportUserInput `json:"users"`
}

// ImportEntriesRequest represents an entry import body
type ImportEntriesRequest struct {
	Groups []services.ImportEntriesInput `json:"groups"`
}

// ImportUsers handles bulk user seeding
// @Summary Import users
// @Description Seed user accounts in bulk; duplicates are skipped per row
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body ImportUsersRequest true "Users to import"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /admin/import/users [post]
func (h *ImportHandler) ImportUsers(c *fiber.Ctx) error {
	var req ImportUsersRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if len(req.Users) == 0 {
		return response.BadRequest(c, "users must not be empty")
	}

	result := h.importService.ImportUsers(c.Context(), req.Users)
	return response.Success(c, "User import processed", result)
}

// ImportEntries handles bulk entry seeding
// @Summary Import entries
// @Description Seed entries for existing users, grouped by owner email
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body ImportEntriesRequest true "Entry groups to import"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /admin/import/entries [post]
func (h *ImportHandler) ImportEntries(c *fiber.Ctx) error {
	var req ImportEntriesRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if len(req.Groups) == 0 {
		return response.BadRequest(c, "groups must not be empty")
	}

	result := h.importService.ImportEntries(c.Context(), req.Groups)
	return response.Success(c, "Entry import processed", result)
}

// Migrate handles the legacy data backfill
// @Summary Migrate legacy entries
// @Description Backfill default targets and recompute derived fields on old rows
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /admin/migrate [post]
func (h *ImportHandler) Migrate(c *fiber.Ctx) error {
	result, err := h.maintenanceService.Migrate(c.Context())
	if err != nil {
		return response.InternalServerError(c, "Migration failed")
	}

	return response.Success(c, "Migration completed successfully", result)
}
