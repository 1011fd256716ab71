package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"editortrack/internal/adapters/persistence/models"
	"editortrack/internal/adapters/persistence/repositories"
	"editortrack/internal/core/domain"
	"editortrack/internal/pkg/pagination"

	"gorm.io/gorm"
)

// EntryService handles daily work entry business logic
type EntryService struct {
	entryRepo repositories.EntryRepository
}

// NewEntryService creates a new entry service
func NewEntryService(entryRepo repositories.EntryRepository) *EntryService {
	return &EntryService{entryRepo: entryRepo}
}

// CreateEntryInput represents entry creation input
type CreateEntryInput struct {
	EntryDate       time.Time
	ShiftStart      time.Time
	ShiftEnd        time.Time
	VideosCompleted int
	TargetVideos    int // 0 means use the default policy target
	Mood            string
	EnergyLevel     int // 0 means unset, defaults to 3
	Notes           string
	Challenges      []string
	Achievements    []string
}

// UpdateEntryInput represents a partial entry update; nil fields are untouched
type UpdateEntryInput struct {
	ShiftStart      *time.Time
	ShiftEnd        *time.Time
	VideosCompleted *int
	TargetVideos    *int
	Mood            *string
	EnergyLevel     *int
	Notes           *string
	Challenges      *[]string
	Achievements    *[]string
}

// ListEntriesInput represents entry list input
type ListEntriesInput struct {
	ActorID      uint
	ActorRole    domain.Role
	FilterUserID *uint // honored only for roles that may view all entries
	DateFrom     *time.Time
	DateTo       *time.Time
	SortBy       string
	Descending   bool
	Page         int
	Limit        int
}

// ListEntriesOutput represents entry list output
type ListEntriesOutput struct {
	Entries    []*models.Entry `json:"entries"`
	Total      int64           `json:"total"`
	Page       int             `json:"page"`
	Limit      int             `json:"limit"`
	TotalPages int             `json:"total_pages"`
	HasNext    bool            `json:"has_next"`
	HasPrev    bool            `json:"has_prev"`
}

// BulkItemResult reports the outcome of one element of a bulk create
type BulkItemResult struct {
	Date    string `json:"date"`
	Status  string `json:"status"` // added | skipped | error
	Message string `json:"message,omitempty"`
}

// BulkCreateOutput aggregates a bulk create
type BulkCreateOutput struct {
	Results []BulkItemResult `json:"results"`
	Added   int              `json:"added"`
	Skipped int              `json:"skipped"`
	Errors  int              `json:"errors"`
	Total   int              `json:"total"`
}

// validateInputs applies the entry invariants shared by create and update
func validateEntry(videosCompleted, targetVideos, energyLevel int, mood string, shiftStart, shiftEnd time.Time) error {
	if videosCompleted < 0 {
		return fmt.Errorf("%w: videos_completed must be >= 0", domain.ErrInvalidInput)
	}
	if targetVideos < 1 {
		return fmt.Errorf("%w: target_videos must be >= 1", domain.ErrInvalidInput)
	}
	if !shiftEnd.After(shiftStart) {
		return domain.ErrInvalidShift
	}
	if shiftEnd.Sub(shiftStart) > 24*time.Hour {
		return fmt.Errorf("%w: shift cannot exceed 24 hours", domain.ErrInvalidInput)
	}
	if !domain.Mood(mood).IsValid() {
		return domain.ErrInvalidMood
	}
	if energyLevel < domain.MinEnergyLevel || energyLevel > domain.MaxEnergyLevel {
		return domain.ErrInvalidEnergy
	}
	return nil
}

// Create creates the single daily entry for a user. Derived fields are
// computed before persisting; the unique (user, date) index rejects a
// second submission for the same day.
func (s *EntryService) Create(ctx context.Context, userID uint, input *CreateEntryInput) (*models.Entry, error) {
	if input.TargetVideos == 0 {
		input.TargetVideos = domain.DefaultTargetVideos
	}
	if input.Mood == "" {
		input.Mood = string(domain.MoodAverage)
	}
	if input.EnergyLevel == 0 {
		input.EnergyLevel = 3
	}

	if err := validateEntry(input.VideosCompleted, input.TargetVideos, input.EnergyLevel,
		input.Mood, input.ShiftStart, input.ShiftEnd); err != nil {
		return nil, err
	}

	entry := &models.Entry{
		UserID:            userID,
		EntryDate:         domain.DateOf(input.EntryDate),
		ShiftStart:        input.ShiftStart,
		ShiftEnd:          input.ShiftEnd,
		TotalHours:        domain.ShiftHours(input.ShiftStart, input.ShiftEnd),
		VideosCompleted:   input.VideosCompleted,
		TargetVideos:      input.TargetVideos,
		ProductivityScore: domain.ProductivityScore(input.VideosCompleted, input.TargetVideos),
		Mood:              input.Mood,
		EnergyLevel:       input.EnergyLevel,
		Notes:             input.Notes,
		Challenges:        models.StringList(input.Challenges),
		Achievements:      models.StringList(input.Achievements),
	}
	if entry.Challenges == nil {
		entry.Challenges = models.StringList{}
	}
	if entry.Achievements == nil {
		entry.Achievements = models.StringList{}
	}

	if err := s.entryRepo.Create(ctx, entry); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, domain.ErrEntryExists
		}
		return nil, err
	}

	log.Printf("✅ Entry created: user=%d date=%s score=%d", userID,
		entry.EntryDate.Format("2006-01-02"), entry.ProductivityScore)

	return entry, nil
}

// Get fetches a single entry scoped to its owner
func (s *EntryService) Get(ctx context.Context, id, userID uint) (*models.Entry, error) {
	entry, err := s.entryRepo.GetByOwner(ctx, id, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrEntryNotFound
		}
		return nil, err
	}
	return entry, nil
}

// Update applies a partial update to an owned entry. Derived fields are
// recomputed whenever their source fields change, mirroring create.
func (s *EntryService) Update(ctx context.Context, id, userID uint, patch *UpdateEntryInput) (*models.Entry, error) {
	entry, err := s.Get(ctx, id, userID)
	if err != nil {
		return nil, err
	}

	if entry.IsCompleted {
		return nil, domain.ErrEntryLocked
	}

	if patch.ShiftStart != nil {
		entry.ShiftStart = *patch.ShiftStart
	}
	if patch.ShiftEnd != nil {
		entry.ShiftEnd = *patch.ShiftEnd
	}
	if patch.VideosCompleted != nil {
		entry.VideosCompleted = *patch.VideosCompleted
	}
	if patch.TargetVideos != nil {
		entry.TargetVideos = *patch.TargetVideos
	}
	if patch.Mood != nil {
		entry.Mood = *patch.Mood
	}
	if patch.EnergyLevel != nil {
		entry.EnergyLevel = *patch.EnergyLevel
	}
	if patch.Notes != nil {
		entry.Notes = *patch.Notes
	}
	if patch.Challenges != nil {
		entry.Challenges = models.StringList(*patch.Challenges)
	}
	if patch.Achievements != nil {
		entry.Achievements = models.StringList(*patch.Achievements)
	}

	if err := validateEntry(entry.VideosCompleted, entry.TargetVideos, entry.EnergyLevel,
		entry.Mood, entry.ShiftStart, entry.ShiftEnd); err != nil {
		return nil, err
	}

	if patch.ShiftStart != nil || patch.ShiftEnd != nil {
		entry.TotalHours = domain.ShiftHours(entry.ShiftStart, entry.ShiftEnd)
	}
	if patch.VideosCompleted != nil || patch.TargetVideos != nil {
		entry.ProductivityScore = domain.ProductivityScore(entry.VideosCompleted, entry.TargetVideos)
	}

	if err := s.entryRepo.Update(ctx, entry); err != nil {
		return nil, err
	}

	return entry, nil
}

// Delete removes an owned entry. Absence and foreign ownership are
// indistinguishable to the caller.
func (s *EntryService) Delete(ctx context.Context, id, userID uint) error {
	entry, err := s.Get(ctx, id, userID)
	if err != nil {
		return err
	}
	return s.entryRepo.Delete(ctx, entry.ID)
}

// List returns a page of entries. Editors see only their own; roles with
// broader visibility may filter by any user.
func (s *EntryService) List(ctx context.Context, input *ListEntriesInput) (*ListEntriesOutput, error) {
	params := pagination.NewParams(input.Page, input.Limit)

	subject := input.ActorID
	if input.FilterUserID != nil && input.ActorRole.CanViewAllEntries() {
		subject = *input.FilterUserID
	}

	filter := repositories.EntryFilter{
		UserID:   &subject,
		DateFrom: input.DateFrom,
		DateTo:   input.DateTo,
	}

	sort := repositories.EntrySort{Field: input.SortBy, Desc: input.Descending}
	if sort.Field == "" {
		sort.Field = "entry_date"
		sort.Desc = true
	}

	entries, total, err := s.entryRepo.List(ctx, filter, sort, params.Offset, params.Limit)
	if err != nil {
		return nil, err
	}

	meta := pagination.GetMeta(params, total)

	return &ListEntriesOutput{
		Entries:    entries,
		Total:      total,
		Page:       meta.Page,
		Limit:      meta.Limit,
		TotalPages: meta.TotalPages,
		HasNext:    meta.HasNext,
		HasPrev:    meta.HasPrev,
	}, nil
}

// BulkCreate processes each element independently: one bad item never
// aborts the batch, and every item's outcome is reported.
func (s *EntryService) BulkCreate(ctx context.Context, userID uint, items []*CreateEntryInput) *BulkCreateOutput {
	out := &BulkCreateOutput{
		Results: make([]BulkItemResult, 0, len(items)),
		Total:   len(items),
	}

	for _, item := range items {
		date := item.EntryDate.Format("2006-01-02")

		_, err := s.Create(ctx, userID, item)
		switch {
		case err == nil:
			out.Added++
			out.Results = append(out.Results, BulkItemResult{Date: date, Status: "added"})
		case errors.Is(err, domain.ErrEntryExists):
			out.Skipped++
			out.Results = append(out.Results, BulkItemResult{
				Date: date, Status: "skipped", Message: "entry already exists for this date",
			})
		default:
			out.Errors++
			out.Results = append(out.Results, BulkItemResult{
				Date: date, Status: "error", Message: err.Error(),
			})
		}
	}

	log.Printf("✅ Bulk create: user=%d total=%d added=%d skipped=%d errors=%d",
		userID, out.Total, out.Added, out.Skipped, out.Errors)

	return out
}
