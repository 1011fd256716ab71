package handlers

import (
	"errors"
	"strconv"

	"editortrack/internal/core/domain"
	"editortrack/internal/core/services"
	"editortrack/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// TeamHandler handles team membership and goal endpoints
type TeamHandler struct {
	teamService *services.TeamService
}

// NewTeamHandler creates a new team handler
func NewTeamHandler(teamService *services.TeamService) *TeamHandler {
	return &TeamHandler{teamService: teamService}
}

// AddMemberRequest identifies the user to add by email
type AddMemberRequest struct {
	Email string `json:"email"`
}

// GetMyTeam handles fetching the caller's team with goal progress
// @Summary Get own team
// @Description Fetch the caller's team with current week/month goal progress
// @Tags Teams
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /teams/me [get]
func (h *TeamHandler) GetMyTeam(c *fiber.Ctx) error {
	userID, ok := c.Locals("userID").(uint)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	view, err := h.teamService.GetMyTeam(c.Context(), userID)
	if err != nil {
		return mapTeamError(c, err)
	}

	return response.Success(c, "Team retrieved successfully", view)
}

// AddMember handles adding a member to the caller's team
// @Summary Add team member
// @Description Add a user to the caller's team; the team is created on first add
// @Tags Teams
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body AddMemberRequest true "Member email"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /teams/members [post]
func (h *TeamHandler) AddMember(c *fiber.Ctx) error {
	userID, ok := c.Locals("userID").(uint)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	var req AddMemberRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if req.Email == "" {
		return response.BadRequest(c, "email is required")
	}

	team, err := h.teamService.AddMember(c.Context(), userID, req.Email)
	if err != nil {
		return mapTeamError(c, err)
	}

	return response.Success(c, "Member added successfully", team)
}

// RemoveMember handles removing a member from the caller's team
// @Summary Remove team member
// @Tags Teams
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /teams/members/{id} [delete]
func (h *TeamHandler) RemoveMember(c *fiber.Ctx) error {
	userID, ok := c.Locals("userID").(uint)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid user ID")
	}

	if err := h.teamService.RemoveMember(c.Context(), userID, uint(id)); err != nil {
		return mapTeamError(c, err)
	}

	return response.Success(c, "Member removed successfully", nil)
}

// UpdateGoals handles setting team video targets
// @Summary Update team goals
// @Description Set weekly and monthly video targets for the caller's team
// @Tags Teams
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.UpdateGoalsInput true "New targets"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /teams/goals [put]
func (h *TeamHandler) UpdateGoals(c *fiber.Ctx) error {
	userID, ok := c.Locals("userID").(uint)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	var input services.UpdateGoalsInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	team, err := h.teamService.UpdateGoals(c.Context(), userID, &input)
	if err != nil {
		return mapTeamError(c, err)
	}

	return response.Success(c, "Goals updated successfully", team)
}

func mapTeamError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrForbidden):
		return response.Forbidden(c, "Not allowed to manage teams")
	case errors.Is(err, domain.ErrUserNotFound):
		return response.NotFound(c, "User not found")
	case errors.Is(err, domain.ErrTeamNotFound):
		return response.NotFound(c, "You are not in a team")
	case errors.Is(err, domain.ErrAlreadyMember):
		return response.Conflict(c, "User is already in a team")
	case errors.Is(err, domain.ErrNotMember):
		return response.NotFound(c, "User is not a member of your team")
	case errors.Is(err, domain.ErrCannotRemoveSelf):
		return response.BadRequest(c, "Cannot remove yourself from your own team")
	case errors.Is(err, domain.ErrInvalidInput):
		return response.BadRequest(c, "Targets must not be negative")
	default:
		return response.InternalServerError(c, "Failed to process team")
	}
}
