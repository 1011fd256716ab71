package services

import (
	"context"
	"testing"
	"time"

	"editortrack/internal/core/domain"
)

func newTestImportService() (*ImportService, *memUserRepo, *memEntryRepo) {
	users := newMemUserRepo()
	entries := newMemEntryRepo()
	return NewImportService(users, NewEntryService(entries)), users, entries
}

func TestImportUsersMixedOutcomes(t *testing.T) {
	svc, users, _ := newTestImportService()
	ctx := context.Background()

	seedUser(t, users, "existing@x.y", "EDITOR")

	out := svc.ImportUsers(ctx, []ImportUserInput{
		{Email: "New@X.Y", Name: "New", Role: "MANAGER", Password: "password123"},
		{Email: "existing@x.y", Name: "Dup", Password: "password123"},
		{Email: "badrole@x.y", Name: "Bad", Role: "WIZARD", Password: "password123"},
		{Email: "shortpw@x.y", Name: "Short", Password: "short"},
	})

	if out.Total != 4 || out.Added != 1 || out.Skipped != 1 || out.Errors != 2 {
		t.Fatalf("counts = total=%d added=%d skipped=%d errors=%d",
			out.Total, out.Added, out.Skipped, out.Errors)
	}

	created, err := users.GetByEmail(ctx, "new@x.y")
	if err != nil {
		t.Fatal("imported user should be stored under the normalized email")
	}
	if created.Role != "MANAGER" {
		t.Errorf("role = %q, want MANAGER", created.Role)
	}
	if created.Password == "password123" {
		t.Error("stored password must be hashed")
	}

	if out.Results[1].Status != "skipped" || out.Results[2].Status != "error" {
		t.Errorf("per-row statuses = %q, %q", out.Results[1].Status, out.Results[2].Status)
	}
}

func TestImportUsersDefaultsToEditorRole(t *testing.T) {
	svc, users, _ := newTestImportService()
	ctx := context.Background()

	out := svc.ImportUsers(ctx, []ImportUserInput{
		{Email: "plain@x.y", Name: "Plain", Password: "password123"},
	})
	if out.Added != 1 {
		t.Fatalf("added = %d", out.Added)
	}

	u, err := users.GetByEmail(ctx, "plain@x.y")
	if err != nil {
		t.Fatal(err)
	}
	if u.Role != string(domain.RoleEditor) {
		t.Errorf("role = %q, want EDITOR", u.Role)
	}
}

func TestImportEntriesPerRowOutcomes(t *testing.T) {
	svc, users, entries := newTestImportService()
	ctx := context.Background()

	owner := seedUser(t, users, "owner@x.y", "EDITOR")

	day := time.Date(2026, 3, 2, 0, 0, 0, 0, time.Local)
	if err := entries.Create(ctx, makeEntry(owner.ID, day, 10, 15, 9)); err != nil {
		t.Fatal(err)
	}

	row := func(date string) ImportEntryInput {
		return ImportEntryInput{
			Date:            date,
			ShiftStart:      date + "T09:00:00+07:00",
			ShiftEnd:        date + "T17:00:00+07:00",
			VideosCompleted: 5,
			Mood:            "good",
			EnergyLevel:     7,
		}
	}

	out := svc.ImportEntries(ctx, []ImportEntriesInput{
		{
			Email: "Owner@X.Y",
			Entries: []ImportEntryInput{
				row("2026-03-03"),
				row("2026-03-02"), // already has an entry
				{Date: "not-a-date"},
			},
		},
		{
			Email:   "ghost@x.y",
			Entries: []ImportEntryInput{row("2026-03-04")},
		},
	})

	if out.Total != 4 || out.Added != 1 || out.Skipped != 1 || out.Errors != 2 {
		t.Fatalf("counts = total=%d added=%d skipped=%d errors=%d",
			out.Total, out.Added, out.Skipped, out.Errors)
	}

	want := map[string]string{
		"owner@x.y/2026-03-03": "added",
		"owner@x.y/2026-03-02": "skipped",
		"owner@x.y/not-a-date": "error",
		"ghost@x.y/2026-03-04": "error",
	}
	for _, r := range out.Results {
		if want[r.Key] != r.Status {
			t.Errorf("result %s = %q, want %q", r.Key, r.Status, want[r.Key])
		}
	}
}

func TestImportedEntriesGetDerivedFields(t *testing.T) {
	svc, users, entries := newTestImportService()
	ctx := context.Background()

	owner := seedUser(t, users, "owner@x.y", "EDITOR")

	out := svc.ImportEntries(ctx, []ImportEntriesInput{
		{
			Email: owner.Email,
			Entries: []ImportEntryInput{{
				Date:            "2026-03-05",
				ShiftStart:      "2026-03-05T09:00:00+07:00",
				ShiftEnd:        "2026-03-05T17:30:00+07:00",
				VideosCompleted: 8,
				Mood:            "good",
				EnergyLevel:     6,
			}},
		},
	})
	if out.Added != 1 {
		t.Fatalf("added = %d (errors: %+v)", out.Added, out.Results)
	}

	all, _ := entries.ListAll(ctx)
	if len(all) != 1 {
		t.Fatalf("stored entries = %d", len(all))
	}
	e := all[0]
	if e.TargetVideos != domain.DefaultTargetVideos {
		t.Errorf("target = %d, want default %d", e.TargetVideos, domain.DefaultTargetVideos)
	}
	if e.TotalHours != 8.5 {
		t.Errorf("total hours = %v, want 8.5", e.TotalHours)
	}
	if e.ProductivityScore != 53 {
		t.Errorf("score = %d, want 53", e.ProductivityScore)
	}
}
