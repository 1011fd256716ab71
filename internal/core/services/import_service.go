package services

import (
	"context"
	"errors"
	"log"
	"time"

	"editortrack/internal/adapters/persistence/models"
	"editortrack/internal/adapters/persistence/repositories"
	"editortrack/internal/core/domain"
	"editortrack/internal/pkg/password"

	"gorm.io/gorm"
)

// ImportService handles bulk seeding of users and entries. All writes go
// through the same derivation and validation paths as the live API.
type ImportService struct {
	userRepo     repositories.UserRepository
	entryService *EntryService
}

// NewImportService creates a new import service
func NewImportService(userRepo repositories.UserRepository, entryService *EntryService) *ImportService {
	return &ImportService{
		userRepo:     userRepo,
		entryService: entryService,
	}
}

// ImportUserInput represents one user row in an import
type ImportUserInput struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Role     string `json:"role"`
	Password string `json:"password"`
}

// ImportEntryInput represents one entry row in an import
type ImportEntryInput struct {
	Date            string   `json:"date"` // 2006-01-02
	ShiftStart      string   `json:"shift_start"`
	ShiftEnd        string   `json:"shift_end"`
	VideosCompleted int      `json:"videos_completed"`
	TargetVideos    int      `json:"target_videos"`
	Mood            string   `json:"mood"`
	EnergyLevel     int      `json:"energy_level"`
	Notes           string   `json:"notes"`
	Challenges      []string `json:"challenges"`
	Achievements    []string `json:"achievements"`
}

// ImportEntriesInput groups entry rows under their owner's email
type ImportEntriesInput struct {
	Email   string             `json:"email"`
	Entries []ImportEntryInput `json:"entries"`
}

// ImportItemResult reports the outcome of one import row
type ImportItemResult struct {
	Key     string `json:"key"` // email, or email/date for entries
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// ImportOutput aggregates an import run
type ImportOutput struct {
	Results []ImportItemResult `json:"results"`
	Added   int                `json:"added"`
	Skipped int                `json:"skipped"`
	Errors  int                `json:"errors"`
	Total   int                `json:"total"`
}

// ImportUsers seeds user accounts. Duplicate emails are skipped; rows
// with an unknown role or unusable password are reported as errors.
func (s *ImportService) ImportUsers(ctx context.Context, items []ImportUserInput) *ImportOutput {
	out := &ImportOutput{Results: make([]ImportItemResult, 0, len(items)), Total: len(items)}

	for _, item := range items {
		email := NormalizeEmail(item.Email)

		role := domain.RoleEditor
		if item.Role != "" {
			parsed, ok := domain.ParseRole(item.Role)
			if !ok {
				out.Errors++
				out.Results = append(out.Results, ImportItemResult{
					Key: email, Status: "error", Message: "invalid role: " + item.Role,
				})
				continue
			}
			role = parsed
		}

		if !password.ValidatePassword(item.Password) {
			out.Errors++
			out.Results = append(out.Results, ImportItemResult{
				Key: email, Status: "error", Message: "password must be at least 8 characters",
			})
			continue
		}

		hashed, err := password.Hash(item.Password)
		if err != nil {
			out.Errors++
			out.Results = append(out.Results, ImportItemResult{Key: email, Status: "error", Message: err.Error()})
			continue
		}

		user := &models.User{
			Email:    email,
			Name:     item.Name,
			Password: hashed,
			Role:     string(role),
			IsActive: true,
		}

		if err := s.userRepo.Create(ctx, user); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				out.Skipped++
				out.Results = append(out.Results, ImportItemResult{
					Key: email, Status: "skipped", Message: "email already registered",
				})
				continue
			}
			out.Errors++
			out.Results = append(out.Results, ImportItemResult{Key: email, Status: "error", Message: err.Error()})
			continue
		}

		out.Added++
		out.Results = append(out.Results, ImportItemResult{Key: email, Status: "added"})
	}

	log.Printf("✅ User import: total=%d added=%d skipped=%d errors=%d",
		out.Total, out.Added, out.Skipped, out.Errors)

	return out
}

// ImportEntries seeds entries for existing users, one outcome per row
func (s *ImportService) ImportEntries(ctx context.Context, groups []ImportEntriesInput) *ImportOutput {
	out := &ImportOutput{}

	for _, group := range groups {
		email := NormalizeEmail(group.Email)
		out.Total += len(group.Entries)

		user, err := s.userRepo.GetByEmail(ctx, email)
		if err != nil {
			for _, row := range group.Entries {
				out.Errors++
				out.Results = append(out.Results, ImportItemResult{
					Key: email + "/" + row.Date, Status: "error", Message: "user not found",
				})
			}
			continue
		}

		for _, row := range group.Entries {
			key := email + "/" + row.Date

			input, err := parseImportEntry(row)
			if err != nil {
				out.Errors++
				out.Results = append(out.Results, ImportItemResult{Key: key, Status: "error", Message: err.Error()})
				continue
			}

			_, err = s.entryService.Create(ctx, user.ID, input)
			switch {
			case err == nil:
				out.Added++
				out.Results = append(out.Results, ImportItemResult{Key: key, Status: "added"})
			case errors.Is(err, domain.ErrEntryExists):
				out.Skipped++
				out.Results = append(out.Results, ImportItemResult{
					Key: key, Status: "skipped", Message: "entry already exists for this date",
				})
			default:
				out.Errors++
				out.Results = append(out.Results, ImportItemResult{Key: key, Status: "error", Message: err.Error()})
			}
		}
	}

	log.Printf("✅ Entry import: total=%d added=%d skipped=%d errors=%d",
		out.Total, out.Added, out.Skipped, out.Errors)

	return out
}

func parseImportEntry(row ImportEntryInput) (*CreateEntryInput, error) {
	date, err := time.ParseInLocation("2006-01-02", row.Date, time.Local)
	if err != nil {
		return nil, errors.New("invalid date, expected YYYY-MM-DD")
	}

	start, err := time.ParseInLocation(time.RFC3339, row.ShiftStart, time.Local)
	if err != nil {
		return nil, errors.New("invalid shift_start, expected RFC3339")
	}

	end, err := time.ParseInLocation(time.RFC3339, row.ShiftEnd, time.Local)
	if err != nil {
		return nil, errors.New("invalid shift_end, expected RFC3339")
	}

	return &CreateEntryInput{
		EntryDate:       date,
		ShiftStart:      start,
		ShiftEnd:        end,
		VideosCompleted: row.VideosCompleted,
		TargetVideos:    row.TargetVideos,
		Mood:            row.Mood,
		EnergyLevel:     row.EnergyLevel,
		Notes:           row.Notes,
		Challenges:      row.Challenges,
		Achievements:    row.Achievements,
	}, nil
}
