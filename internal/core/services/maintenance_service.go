package services

import (
	"context"
	"log"
	"time"

	"editortrack/internal/adapters/persistence/repositories"
	"editortrack/internal/core/domain"

	"github.com/robfig/cron/v3"
)

// MaintenanceService runs scheduled housekeeping: locking past entries
// and purging expired refresh tokens.
type MaintenanceService struct {
	entryRepo repositories.EntryRepository
	tokenRepo repositories.RefreshTokenRepository
	cron      *cron.Cron
}

// NewMaintenanceService creates a new maintenance service
func NewMaintenanceService(
	entryRepo repositories.EntryRepository,
	tokenRepo repositories.RefreshTokenRepository,
) *MaintenanceService {
	return &MaintenanceService{
		entryRepo: entryRepo,
		tokenRepo: tokenRepo,
		cron:      cron.New(),
	}
}

// Start schedules the nightly job (00:05 local time)
func (s *MaintenanceService) Start() {
	if _, err := s.cron.AddFunc("5 0 * * *", s.runNightly); err != nil {
		log.Printf("❌ Failed to schedule nightly maintenance: %v", err)
		return
	}
	s.cron.Start()
	log.Println("🚀 Maintenance service started (nightly at 00:05)")
}

// Stop stops the scheduler, waiting for a running job to finish
func (s *MaintenanceService) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	log.Println("🛑 Maintenance service stopped")
}

// runNightly locks entries from completed days and purges dead tokens
func (s *MaintenanceService) runNightly() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	// Entries before today are past their edit window
	cutoff := domain.DateOf(time.Now())
	locked, err := s.entryRepo.LockCompletedBefore(ctx, cutoff)
	if err != nil {
		log.Printf("❌ Nightly entry lock failed: %v", err)
	} else if locked > 0 {
		log.Printf("✅ Locked %d past entries", locked)
	}

	purged, err := s.tokenRepo.DeleteExpired(ctx)
	if err != nil {
		log.Printf("❌ Refresh token purge failed: %v", err)
	} else if purged > 0 {
		log.Printf("✅ Purged %d expired refresh tokens", purged)
	}
}

// MigrationOutput summarizes a legacy backfill run
type MigrationOutput struct {
	Scanned int `json:"scanned"`
	Updated int `json:"updated"`
}

// Migrate backfills derived fields on legacy rows: zero targets get the
// default, and stale total_hours/productivity_score are recomputed.
func (s *MaintenanceService) Migrate(ctx context.Context) (*MigrationOutput, error) {
	entries, err := s.entryRepo.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	out := &MigrationOutput{Scanned: len(entries)}

	for _, entry := range entries {
		changed := false

		if entry.TargetVideos < 1 {
			entry.TargetVideos = domain.DefaultTargetVideos
			changed = true
		}

		if hours := domain.ShiftHours(entry.ShiftStart, entry.ShiftEnd); entry.TotalHours != hours {
			entry.TotalHours = hours
			changed = true
		}

		if score := domain.ProductivityScore(entry.VideosCompleted, entry.TargetVideos); entry.ProductivityScore != score {
			entry.ProductivityScore = score
			changed = true
		}

		if !changed {
			continue
		}

		if err := s.entryRepo.Update(ctx, entry); err != nil {
			return nil, err
		}
		out.Updated++
	}

	log.Printf("✅ Migration complete: scanned=%d updated=%d", out.Scanned, out.Updated)
	return out, nil
}
