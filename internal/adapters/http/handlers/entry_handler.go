package handlers

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"editortrack/internal/core/domain"
	"editortrack/internal/core/services"
	"editortrack/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// EntryHandler handles daily work entry endpoints
type EntryHandler struct {
	entryService *services.EntryService
}

// NewEntryHandler creates a new entry handler
func NewEntryHandler(entryService *services.EntryService) *EntryHandler {
	return &EntryHandler{entryService: entryService}
}

// EntryRequest represents an entry create request body (also reused per
// element of a bulk request)
type EntryRequest struct {
	Date            string   `json:"date"`        // YYYY-MM-DD
	ShiftStart      string   `json:"shift_start"` // RFC3339
	ShiftEnd        string   `json:"shift_end"`   // RFC3339
	VideosCompleted int      `json:"videos_completed"`
	TargetVideos    int      `json:"target_videos"`
	Mood            string   `json:"mood"`
	EnergyLevel     int      `json:"energy_level"`
	Notes           string   `json:"notes"`
	Challenges      []string `json:"challenges"`
	Achievements    []string `json:"achievements"`
}

// UpdateEntryRequest represents a partial entry update body
type UpdateEntryRequest struct {
	ShiftStart      *string   `json:"shift_start"`
	ShiftEnd        *string   `json:"shift_end"`
	VideosCompleted *int      `json:"videos_completed"`
	TargetVideos    *int      `json:"target_videos"`
	Mood            *string   `json:"mood"`
	EnergyLevel     *int      `json:"energy_level"`
	Notes           *string   `json:"notes"`
	Challenges      *[]string `json:"challenges"`
	Achievements    *[]string `json:"achievements"`
}

// BulkEntryRequest represents a bulk create request body
type BulkEntryRequest struct {
	Entries []EntryRequest `json:"entries"`
}

func (r *EntryRequest) toInput() (*services.CreateEntryInput, []string) {
	var details []string

	date, err := time.ParseInLocation("2006-01-02", r.Date, time.Local)
	if err != nil {
		details = append(details, "date must be YYYY-MM-DD")
	}
	start, err := time.Parse(time.RFC3339, r.ShiftStart)
	if err != nil {
		details = append(details, "shift_start must be RFC3339")
	}
	end, err := time.Parse(time.RFC3339, r.ShiftEnd)
	if err != nil {
		details = append(details, "shift_end must be RFC3339")
	}
	if len(details) > 0 {
		return nil, details
	}

	return &services.CreateEntryInput{
		EntryDate:       date,
		ShiftStart:      start,
		ShiftEnd:        end,
		VideosCompleted: r.VideosCompleted,
		TargetVideos:    r.TargetVideos,
		Mood:            r.Mood,
		EnergyLevel:     r.EnergyLevel,
		Notes:           r.Notes,
		Challenges:      r.Challenges,
		Achievements:    r.Achievements,
	}, nil
}

// mapEntryError translates entry service errors to HTTP responses
func mapEntryError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrEntryExists):
		return response.Conflict(c, "Entry already exists for this date")
	case errors.Is(err, domain.ErrEntryNotFound):
		return response.NotFound(c, "Entry not found")
	case errors.Is(err, domain.ErrEntryLocked):
		return response.BadRequest(c, "Entry is locked and can no longer be edited")
	case errors.Is(err, domain.ErrInvalidShift),
		errors.Is(err, domain.ErrInvalidMood),
		errors.Is(err, domain.ErrInvalidEnergy),
		errors.Is(err, domain.ErrInvalidInput):
		return response.BadRequest(c, err.Error())
	default:
		return response.InternalServerError(c, "Failed to process entry")
	}
}

// Create handles entry creation
// @Summary Create daily entry
// @Description Create the single work entry for one calendar day
// @Tags Entries
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body EntryRequest true "Entry data"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /entries [post]
func (h *EntryHandler) Create(c *fiber.Ctx) error {
	userID, ok := c.Locals("userID").(uint)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	var req EntryRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	input, details := req.toInput()
	if details != nil {
		return response.ValidationFailed(c, "Validation failed", details)
	}

	entry, err := h.entryService.Create(c.Context(), userID, input)
	if err != nil {
		return mapEntryError(c, err)
	}

	return response.Created(c, "Entry created successfully", entry)
}

// Get handles fetching one entry
// @Summary Get entry
// @Description Fetch one owned entry by ID
// @Tags Entries
// @Produce json
// @Security BearerAuth
// @Param id path int true "Entry ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /entries/{id} [get]
func (h *EntryHandler) Get(c *fiber.Ctx) error {
	userID, ok := c.Locals("userID").(uint)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid entry ID")
	}

	entry, err := h.entryService.Get(c.Context(), uint(id), userID)
	if err != nil {
		return mapEntryError(c, err)
	}

	return response.Success(c, "Entry retrieved successfully", entry)
}

// Update handles partial entry updates
// @Summary Update entry
// @Description Update fields of an owned, unlocked entry
// @Tags Entries
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Entry ID"
// @Param body body UpdateEntryRequest true "Fields to update"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /entries/{id} [put]
func (h *EntryHandler) Update(c *fiber.Ctx) error {
	userID, ok := c.Locals("userID").(uint)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid entry ID")
	}

	var req UpdateEntryRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	patch := &services.UpdateEntryInput{
		VideosCompleted: req.VideosCompleted,
		TargetVideos:    req.TargetVideos,
		Mood:            req.Mood,
		EnergyLevel:     req.EnergyLevel,
		Notes:           req.Notes,
		Challenges:      req.Challenges,
		Achievements:    req.Achievements,
	}

	if req.ShiftStart != nil {
		start, err := time.Parse(time.RFC3339, *req.ShiftStart)
		if err != nil {
			return response.BadRequest(c, "shift_start must be RFC3339")
		}
		patch.ShiftStart = &start
	}
	if req.ShiftEnd != nil {
		end, err := time.Parse(time.RFC3339, *req.ShiftEnd)
		if err != nil {
			return response.BadRequest(c, "shift_end must be RFC3339")
		}
		patch.ShiftEnd = &end
	}

	entry, err := h.entryService.Update(c.Context(), uint(id), userID, patch)
	if err != nil {
		return mapEntryError(c, err)
	}

	return response.Success(c, "Entry updated successfully", entry)
}

// Delete handles entry deletion
// @Summary Delete entry
// @Description Delete one owned entry
// @Tags Entries
// @Produce json
// @Security BearerAuth
// @Param id path int true "Entry ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /entries/{id} [delete]
func (h *EntryHandler) Delete(c *fiber.Ctx) error {
	userID, ok := c.Locals("userID").(uint)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid entry ID")
	}

	if err := h.entryService.Delete(c.Context(), uint(id), userID); err != nil {
		return mapEntryError(c, err)
	}

	return response.Success(c, "Entry deleted successfully", nil)
}

// List handles paginated entry listing
// @Summary List entries
// @Description List entries with date range filter, sorting and pagination
// @Tags Entries
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page (1-based)"
// @Param limit query int false "Page size (default 10)"
// @Param from query string false "Start date YYYY-MM-DD"
// @Param to query string false "End date YYYY-MM-DD (exclusive)"
// @Param sort query string false "Sort field"
// @Param order query string false "asc or desc"
// @Param user_id query int false "Filter by user (managers only)"
// @Success 200 {object} response.Response
// @Router /entries [get]
func (h *EntryHandler) List(c *fiber.Ctx) error {
	userID, ok := c.Locals("userID").(uint)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}
	role, _ := c.Locals("role").(string)

	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit", "10"))

	input := &services.ListEntriesInput{
		ActorID:    userID,
		ActorRole:  domain.Role(role),
		SortBy:     c.Query("sort", "entry_date"),
		Descending: c.Query("order", "desc") != "asc",
		Page:       page,
		Limit:      limit,
	}

	from, to, err := parseDateRange(c)
	if err != nil {
		return response.BadRequest(c, err.Error())
	}
	input.DateFrom = from
	input.DateTo = to

	if raw := c.Query("user_id"); raw != "" {
		filterID, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			return response.BadRequest(c, "Invalid user_id")
		}
		id := uint(filterID)
		input.FilterUserID = &id
	}

	result, err := h.entryService.List(c.Context(), input)
	if err != nil {
		return response.InternalServerError(c, "Failed to list entries")
	}

	return response.Success(c, "Entries retrieved successfully", result)
}

// BulkCreate handles batch entry creation
// @Summary Bulk create entries
// @Description Create many entries; each element succeeds or fails independently
// @Tags Entries
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body BulkEntryRequest true "Entries"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /entries/bulk [post]
func (h *EntryHandler) BulkCreate(c *fiber.Ctx) error {
	userID, ok := c.Locals("userID").(uint)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	var req BulkEntryRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if len(req.Entries) == 0 {
		return response.BadRequest(c, "entries must not be empty")
	}

	// Malformed elements become per-item errors rather than failing the batch
	items := make([]*services.CreateEntryInput, 0, len(req.Entries))
	okIndex := make([]int, 0, len(req.Entries))
	merged := make([]services.BulkItemResult, len(req.Entries))
	parseErrors := 0
	for i, r := range req.Entries {
		input, details := r.toInput()
		if details != nil {
			merged[i] = services.BulkItemResult{
				Date:    r.Date,
				Status:  "error",
				Message: strings.Join(details, "; "),
			}
			parseErrors++
			continue
		}
		items = append(items, input)
		okIndex = append(okIndex, i)
	}

	created := h.entryService.BulkCreate(c.Context(), userID, items)

	for j, i := range okIndex {
		merged[i] = created.Results[j]
	}

	return response.Success(c, "Bulk create processed", &services.BulkCreateOutput{
		Results: merged,
		Added:   created.Added,
		Skipped: created.Skipped,
		Errors:  created.Errors + parseErrors,
		Total:   len(req.Entries),
	})
}

// parseDateRange reads optional from/to query dates; "to" is exclusive
// of the following midnight so whole days are included.
func parseDateRange(c *fiber.Ctx) (*time.Time, *time.Time, error) {
	var from, to *time.Time

	if raw := c.Query("from"); raw != "" {
		t, err := time.ParseInLocation("2006-01-02", raw, time.Local)
		if err != nil {
			return nil, nil, errors.New("from must be YYYY-MM-DD")
		}
		from = &t
	}

	if raw := c.Query("to"); raw != "" {
		t, err := time.ParseInLocation("2006-01-02", raw, time.Local)
		if err != nil {
			return nil, nil, errors.New("to must be YYYY-MM-DD")
		}
		end := t.AddDate(0, 0, 1)
		to = &end
	}

	return from, to, nil
}
