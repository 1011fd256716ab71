package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"editortrack/internal/adapters/persistence/models"
	"editortrack/internal/core/domain"
)

func newTestTeamService() (*TeamService, *memUserRepo, *memTeamRepo, *memEntryRepo) {
	users := newMemUserRepo()
	teams := newMemTeamRepo(users)
	entries := newMemEntryRepo()
	return NewTeamService(teams, users, entries), users, teams, entries
}

func seedUser(t *testing.T, users *memUserRepo, email, role string) *models.User {
	t.Helper()
	u := &models.User{Email: email, Name: email, Role: role, IsActive: true}
	if err := users.Create(context.Background(), u); err != nil {
		t.Fatalf("seed %s: %v", email, err)
	}
	return u
}

func TestAddMemberCreatesTeamOnFirstAdd(t *testing.T) {
	svc, users, teams, _ := newTestTeamService()
	ctx := context.Background()

	manager := seedUser(t, users, "manager@x.y", "MANAGER")
	editor := seedUser(t, users, "editor@x.y", "EDITOR")

	team, err := svc.AddMember(ctx, manager.ID, "Editor@X.Y")
	if err != nil {
		t.Fatalf("add member: %v", err)
	}

	if team.Name != "manager@x.y's Team" {
		t.Errorf("team name = %q", team.Name)
	}
	if manager.TeamID == nil || *manager.TeamID != team.ID {
		t.Error("manager should join the team they created")
	}
	if editor.TeamID == nil || *editor.TeamID != team.ID {
		t.Error("target should be a member")
	}
	if isAdmin, _ := teams.IsAdmin(ctx, team.ID, manager.ID); !isAdmin {
		t.Error("creator should be a team admin")
	}
}

func TestAddMemberRejections(t *testing.T) {
	svc, users, _, _ := newTestTeamService()
	ctx := context.Background()

	manager := seedUser(t, users, "manager@x.y", "MANAGER")
	editor := seedUser(t, users, "editor@x.y", "EDITOR")
	viewer := seedUser(t, users, "viewer@x.y", "VIEWER")

	if _, err := svc.AddMember(ctx, viewer.ID, editor.Email); !errors.Is(err, domain.ErrForbidden) {
		t.Errorf("viewer add: want ErrForbidden, got %v", err)
	}
	if _, err := svc.AddMember(ctx, manager.ID, "nobody@x.y"); !errors.Is(err, domain.ErrUserNotFound) {
		t.Errorf("unknown target: want ErrUserNotFound, got %v", err)
	}

	if _, err := svc.AddMember(ctx, manager.ID, editor.Email); err != nil {
		t.Fatalf("first add: %v", err)
	}
	if _, err := svc.AddMember(ctx, manager.ID, editor.Email); !errors.Is(err, domain.ErrAlreadyMember) {
		t.Errorf("duplicate add: want ErrAlreadyMember, got %v", err)
	}
}

func TestRemoveMember(t *testing.T) {
	svc, users, _, _ := newTestTeamService()
	ctx := context.Background()

	manager := seedUser(t, users, "manager@x.y", "MANAGER")
	editor := seedUser(t, users, "editor@x.y", "EDITOR")
	outsider := seedUser(t, users, "outsider@x.y", "EDITOR")

	if _, err := svc.AddMember(ctx, manager.ID, editor.Email); err != nil {
		t.Fatal(err)
	}

	if err := svc.RemoveMember(ctx, manager.ID, manager.ID); !errors.Is(err, domain.ErrCannotRemoveSelf) {
		t.Errorf("self removal: want ErrCannotRemoveSelf, got %v", err)
	}
	if err := svc.RemoveMember(ctx, manager.ID, outsider.ID); !errors.Is(err, domain.ErrNotMember) {
		t.Errorf("non-member: want ErrNotMember, got %v", err)
	}

	if err := svc.RemoveMember(ctx, manager.ID, editor.ID); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if editor.TeamID != nil {
		t.Error("removed member should have no team")
	}
}

func TestGetMyTeamProgress(t *testing.T) {
	svc, users, _, entries := newTestTeamService()
	ctx := context.Background()

	manager := seedUser(t, users, "manager@x.y", "MANAGER")
	editor := seedUser(t, users, "editor@x.y", "EDITOR")

	team, err := svc.AddMember(ctx, manager.ID, editor.Email)
	if err != nil {
		t.Fatal(err)
	}

	weekly, monthly := 100, 400
	if _, err := svc.UpdateGoals(ctx, manager.ID, &UpdateGoalsInput{
		WeeklyTarget: &weekly, MonthlyTarget: &monthly,
	}); err != nil {
		t.Fatalf("update goals: %v", err)
	}

	// Entries from both members inside the current week count together
	now := time.Now()
	weekStart, _ := domain.WeekWindow(now)
	if err := entries.Create(ctx, makeEntry(manager.ID, weekStart, 30, 15, 9)); err != nil {
		t.Fatal(err)
	}
	if err := entries.Create(ctx, makeEntry(editor.ID, weekStart, 20, 15, 9)); err != nil {
		t.Fatal(err)
	}

	view, err := svc.GetMyTeam(ctx, editor.ID)
	if err != nil {
		t.Fatalf("get my team: %v", err)
	}
	if view.Team.ID != team.ID {
		t.Error("wrong team")
	}
	if view.WeeklyVideos != 50 {
		t.Errorf("weekly videos = %d, want 50", view.WeeklyVideos)
	}
	if view.WeeklyProgress != 50 {
		t.Errorf("weekly progress = %d, want 50", view.WeeklyProgress)
	}
}

func TestGetMyTeamZeroTarget(t *testing.T) {
	svc, users, _, entries := newTestTeamService()
	ctx := context.Background()

	manager := seedUser(t, users, "manager@x.y", "MANAGER")
	editor := seedUser(t, users, "editor@x.y", "EDITOR")

	if _, err := svc.AddMember(ctx, manager.ID, editor.Email); err != nil {
		t.Fatal(err)
	}

	weekStart, _ := domain.WeekWindow(time.Now())
	if err := entries.Create(ctx, makeEntry(editor.ID, weekStart, 20, 15, 9)); err != nil {
		t.Fatal(err)
	}

	// No targets set: progress reports 0, not a division error
	view, err := svc.GetMyTeam(ctx, editor.ID)
	if err != nil {
		t.Fatalf("get my team: %v", err)
	}
	if view.WeeklyProgress != 0 || view.MonthlyProgress != 0 {
		t.Errorf("zero targets should yield 0 progress, got %d/%d",
			view.WeeklyProgress, view.MonthlyProgress)
	}
}

func TestGetMyTeamWithoutTeam(t *testing.T) {
	svc, users, _, _ := newTestTeamService()
	loner := seedUser(t, users, "loner@x.y", "EDITOR")

	_, err := svc.GetMyTeam(context.Background(), loner.ID)
	if !errors.Is(err, domain.ErrTeamNotFound) {
		t.Errorf("want ErrTeamNotFound, got %v", err)
	}
}

func TestUpdateGoalsPermissions(t *testing.T) {
	svc, users, _, _ := newTestTeamService()
	ctx := context.Background()

	manager := seedUser(t, users, "manager@x.y", "MANAGER")
	editor := seedUser(t, users, "editor@x.y", "EDITOR")

	if _, err := svc.AddMember(ctx, manager.ID, editor.Email); err != nil {
		t.Fatal(err)
	}

	weekly := 50
	if _, err := svc.UpdateGoals(ctx, editor.ID, &UpdateGoalsInput{WeeklyTarget: &weekly}); !errors.Is(err, domain.ErrForbidden) {
		t.Errorf("plain member: want ErrForbidden, got %v", err)
	}

	negative := -1
	if _, err := svc.UpdateGoals(ctx, manager.ID, &UpdateGoalsInput{WeeklyTarget: &negative}); !errors.Is(err, domain.ErrInvalidInput) {
		t.Errorf("negative target: want ErrInvalidInput, got %v", err)
	}
}
