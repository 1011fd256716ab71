package services

import (
	"context"
	"testing"
	"time"

	"editortrack/internal/core/domain"
)

func TestMigrateBackfillsLegacyRows(t *testing.T) {
	entries := newMemEntryRepo()
	svc := NewMaintenanceService(entries, newMemTokenRepo())
	ctx := context.Background()

	day := time.Date(2026, 2, 2, 0, 0, 0, 0, time.Local)

	// Legacy row: no target, derived fields never computed
	legacy := makeEntry(1, day, 8, 0, 9)
	legacy.TotalHours = 0
	legacy.ProductivityScore = 0
	if err := entries.Create(ctx, legacy); err != nil {
		t.Fatal(err)
	}

	// Healthy row, derived fields already consistent
	healthy := makeEntry(1, day.AddDate(0, 0, 1), 15, 15, 9)
	if err := entries.Create(ctx, healthy); err != nil {
		t.Fatal(err)
	}

	out, err := svc.Migrate(ctx)
	if err != nil {
		t.Fatalf("migrate: %v", err)
	}

	if out.Scanned != 2 || out.Updated != 1 {
		t.Fatalf("scanned=%d updated=%d, want 2/1", out.Scanned, out.Updated)
	}

	fixed, err := entries.GetByID(ctx, legacy.ID)
	if err != nil {
		t.Fatal(err)
	}
	if fixed.TargetVideos != domain.DefaultTargetVideos {
		t.Errorf("target = %d, want default %d", fixed.TargetVideos, domain.DefaultTargetVideos)
	}
	if fixed.TotalHours != 8 {
		t.Errorf("total hours = %v, want 8", fixed.TotalHours)
	}
	if fixed.ProductivityScore != domain.ProductivityScore(8, domain.DefaultTargetVideos) {
		t.Errorf("score = %d", fixed.ProductivityScore)
	}
}

func TestMigrateIsIdempotent(t *testing.T) {
	entries := newMemEntryRepo()
	svc := NewMaintenanceService(entries, newMemTokenRepo())
	ctx := context.Background()

	legacy := makeEntry(1, time.Date(2026, 2, 2, 0, 0, 0, 0, time.Local), 8, 0, 9)
	legacy.TotalHours = 0
	if err := entries.Create(ctx, legacy); err != nil {
		t.Fatal(err)
	}

	if _, err := svc.Migrate(ctx); err != nil {
		t.Fatal(err)
	}
	out, err := svc.Migrate(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if out.Updated != 0 {
		t.Errorf("second run updated %d rows, want 0", out.Updated)
	}
}
