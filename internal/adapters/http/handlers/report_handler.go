package handlers

import (
	"errors"
	"strconv"
	"time"

	"editortrack/internal/core/domain"
	"editortrack/internal/core/services"
	"editortrack/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// ReportHandler handles analytics, leaderboard and export endpoints
type ReportHandler struct {
	reportService *services.ReportService
}

// NewReportHandler creates a new report handler
func NewReportHandler(reportService *services.ReportService) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

// subjectUserID resolves whose data a report covers. Roles allowed to
// view all entries may name another user via ?user_id; everyone else is
// pinned to their own data.
func subjectUserID(c *fiber.Ctx) (uint, error) {
	userID, ok := c.Locals("userID").(uint)
	if !ok {
		return 0, domain.ErrUnauthorized
	}

	raw := c.Query("user_id")
	if raw == "" {
		return userID, nil
	}

	role, _ := c.Locals("role").(string)
	if !domain.Role(role).CanViewAllEntries() {
		return 0, domain.ErrForbidden
	}

	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return 0, domain.ErrInvalidInput
	}
	return uint(id), nil
}

// Analytics handles analytics computation over a date range
// @Summary User analytics
// @Description Compute productivity analytics over a user's entries
// @Tags Reports
// @Produce json
// @Security BearerAuth
// @Param from query string false "Start date YYYY-MM-DD"
// @Param to query string false "End date YYYY-MM-DD"
// @Param user_id query int false "Subject user (managers only)"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /reports/analytics [get]
func (h *ReportHandler) Analytics(c *fiber.Ctx) error {
	subject, err := subjectUserID(c)
	if err != nil {
		return mapReportError(c, err)
	}

	from, to, err := parseDateRange(c)
	if err != nil {
		return response.BadRequest(c, err.Error())
	}

	analytics, err := h.reportService.UserAnalytics(c.Context(), subject, from, to)
	if err != nil {
		return mapReportError(c, err)
	}

	return response.Success(c, "Analytics computed successfully", analytics)
}

// Leaderboard handles leaderboard ranking
// @Summary Leaderboard
// @Description Rank users by videos completed over the current week or month
// @Tags Reports
// @Produce json
// @Security BearerAuth
// @Param window query string false "week or month (default week)"
// @Success 200 {object} response.Response
// @Router /reports/leaderboard [get]
func (h *ReportHandler) Leaderboard(c *fiber.Ctx) error {
	window := c.Query("window", "week")
	if window != "week" && window != "month" {
		return response.BadRequest(c, "window must be week or month")
	}

	rows, err := h.reportService.Leaderboard(c.Context(), window, time.Now())
	if err != nil {
		return response.InternalServerError(c, "Failed to compute leaderboard")
	}

	return response.Success(c, "Leaderboard computed successfully", fiber.Map{
		"window":      window,
		"leaderboard": rows,
	})
}

// Export handles data export downloads
// @Summary Export entries
// @Description Download a user's entries as json, csv or excel
// @Tags Reports
// @Produce json
// @Security BearerAuth
// @Param format query string false "json, csv or excel (default json)"
// @Param from query string false "Start date YYYY-MM-DD"
// @Param to query string false "End date YYYY-MM-DD"
// @Param analytics query bool false "Include analytics block (json only)"
// @Param user_id query int false "Subject user (managers only)"
// @Success 200 {file} file
// @Failure 404 {object} response.Response
// @Router /reports/export [get]
func (h *ReportHandler) Export(c *fiber.Ctx) error {
	subject, err := subjectUserID(c)
	if err != nil {
		return mapReportError(c, err)
	}

	from, to, err := parseDateRange(c)
	if err != nil {
		return response.BadRequest(c, err.Error())
	}

	format := c.Query("format", "json")
	withAnalytics := c.Query("analytics") == "true"

	result, err := h.reportService.Export(c.Context(), subject, from, to, format, withAnalytics)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			return response.BadRequest(c, "format must be json, csv or excel")
		}
		return mapReportError(c, err)
	}

	c.Set(fiber.HeaderContentType, result.ContentType)
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+result.Filename+`"`)
	return c.Send(result.Body)
}

func mapReportError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrUnauthorized):
		return response.Unauthorized(c, "Unauthorized")
	case errors.Is(err, domain.ErrForbidden):
		return response.Forbidden(c, "Not allowed to view other users' data")
	case errors.Is(err, domain.ErrInvalidInput):
		return response.BadRequest(c, "Invalid user_id")
	case errors.Is(err, domain.ErrNotFound):
		return response.NotFound(c, "No entries found for the requested range")
	default:
		return response.InternalServerError(c, "Failed to build report")
	}
}
