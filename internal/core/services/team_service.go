package services

import (
	"context"
	"errors"
	"log"
	"time"

	"editortrack/internal/adapters/persistence/models"
	"editortrack/internal/adapters/persistence/repositories"
	"editortrack/internal/core/domain"

	"gorm.io/gorm"
)

// TeamService handles team membership and goal tracking
type TeamService struct {
	teamRepo  repositories.TeamRepository
	userRepo  repositories.UserRepository
	entryRepo repositories.EntryRepository
}

// NewTeamService creates a new team service
func NewTeamService(
	teamRepo repositories.TeamRepository,
	userRepo repositories.UserRepository,
	entryRepo repositories.EntryRepository,
) *TeamService {
	return &TeamService{
		teamRepo:  teamRepo,
		userRepo:  userRepo,
		entryRepo: entryRepo,
	}
}

// TeamView represents a team with its current goal progress
type TeamView struct {
	Team            *models.Team `json:"team"`
	WeeklyVideos    int          `json:"weekly_videos"`
	MonthlyVideos   int          `json:"monthly_videos"`
	WeeklyProgress  int          `json:"weekly_progress"`
	MonthlyProgress int          `json:"monthly_progress"`
}

// UpdateGoalsInput sets new team targets; nil fields are untouched
type UpdateGoalsInput struct {
	WeeklyTarget  *int `json:"weekly_target"`
	MonthlyTarget *int `json:"monthly_target"`
}

// AddMember adds the user behind targetEmail to the acting user's team,
// creating the team on first add. Duplicate adds are rejected, not
// silently ignored, so retries surface ErrAlreadyMember.
func (s *TeamService) AddMember(ctx context.Context, actorID uint, targetEmail string) (*models.Team, error) {
	actor, err := s.loadActor(ctx, actorID)
	if err != nil {
		return nil, err
	}
	if !domain.Role(actor.Role).CanManageTeams() {
		return nil, domain.ErrForbidden
	}

	target, err := s.userRepo.GetByEmail(ctx, NormalizeEmail(targetEmail))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}

	if target.TeamID != nil {
		return nil, domain.ErrAlreadyMember
	}

	team, err := s.teamRepo.GetByMember(ctx, actor.ID)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		// First add: the acting user gets a team named after them
		// and becomes its administrator and first member.
		team = &models.Team{Name: actor.Name + "'s Team"}
		if err := s.teamRepo.Create(ctx, team); err != nil {
			return nil, err
		}
		if err := s.teamRepo.AddAdmin(ctx, team.ID, actor.ID); err != nil {
			return nil, err
		}
		if err := s.userRepo.SetTeam(ctx, actor.ID, &team.ID); err != nil {
			return nil, err
		}
		log.Printf("✅ Team created: %s (id=%d)", team.Name, team.ID)
	}

	if err := s.userRepo.SetTeam(ctx, target.ID, &team.ID); err != nil {
		return nil, err
	}

	log.Printf("✅ Team member added: %s -> %s", target.Email, team.Name)

	return s.teamRepo.GetByID(ctx, team.ID)
}

// RemoveMember removes exactly one member from the acting user's team
func (s *TeamService) RemoveMember(ctx context.Context, actorID uint, targetUserID uint) error {
	actor, err := s.loadActor(ctx, actorID)
	if err != nil {
		return err
	}
	if !domain.Role(actor.Role).CanManageTeams() {
		return domain.ErrForbidden
	}

	if targetUserID == actor.ID {
		return domain.ErrCannotRemoveSelf
	}

	team, err := s.teamRepo.GetByMember(ctx, actor.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrTeamNotFound
		}
		return err
	}

	target, err := s.userRepo.GetByID(ctx, targetUserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrNotMember
		}
		return err
	}

	if target.TeamID == nil || *target.TeamID != team.ID {
		return domain.ErrNotMember
	}

	if err := s.userRepo.SetTeam(ctx, target.ID, nil); err != nil {
		return err
	}

	log.Printf("✅ Team member removed: %s from %s", target.Email, team.Name)
	return nil
}

// GetMyTeam returns the caller's team with current week/month progress
func (s *TeamService) GetMyTeam(ctx context.Context, userID uint) (*TeamView, error) {
	team, err := s.teamRepo.GetByMember(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrTeamNotFound
		}
		return nil, err
	}

	return s.buildView(ctx, team, time.Now())
}

// UpdateGoals sets the weekly/monthly video targets of the caller's team
func (s *TeamService) UpdateGoals(ctx context.Context, actorID uint, input *UpdateGoalsInput) (*models.Team, error) {
	actor, err := s.loadActor(ctx, actorID)
	if err != nil {
		return nil, err
	}

	team, err := s.teamRepo.GetByMember(ctx, actor.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrTeamNotFound
		}
		return nil, err
	}

	isAdmin, err := s.teamRepo.IsAdmin(ctx, team.ID, actor.ID)
	if err != nil {
		return nil, err
	}
	if !isAdmin && !domain.Role(actor.Role).CanManageTeams() {
		return nil, domain.ErrForbidden
	}

	if input.WeeklyTarget != nil {
		if *input.WeeklyTarget < 0 {
			return nil, domain.ErrInvalidInput
		}
		team.WeeklyTarget = *input.WeeklyTarget
	}
	if input.MonthlyTarget != nil {
		if *input.MonthlyTarget < 0 {
			return nil, domain.ErrInvalidInput
		}
		team.MonthlyTarget = *input.MonthlyTarget
	}

	if err := s.teamRepo.Update(ctx, team); err != nil {
		return nil, err
	}

	return team, nil
}

func (s *TeamService) loadActor(ctx context.Context, actorID uint) (*models.User, error) {
	actor, err := s.userRepo.GetByID(ctx, actorID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return actor, nil
}

// buildView computes goal progress for both windows anchored at now
func (s *TeamService) buildView(ctx context.Context, team *models.Team, now time.Time) (*TeamView, error) {
	memberIDs, err := s.teamRepo.MemberIDs(ctx, team.ID)
	if err != nil {
		return nil, err
	}

	weekFrom, weekTo := domain.WeekWindow(now)
	weeklyVideos, err := s.sumWindow(ctx, memberIDs, weekFrom, weekTo)
	if err != nil {
		return nil, err
	}

	monthFrom, monthTo := domain.MonthWindow(now)
	monthlyVideos, err := s.sumWindow(ctx, memberIDs, monthFrom, monthTo)
	if err != nil {
		return nil, err
	}

	return &TeamView{
		Team:            team,
		WeeklyVideos:    weeklyVideos,
		MonthlyVideos:   monthlyVideos,
		WeeklyProgress:  domain.ProgressPercent(weeklyVideos, team.WeeklyTarget),
		MonthlyProgress: domain.ProgressPercent(monthlyVideos, team.MonthlyTarget),
	}, nil
}

func (s *TeamService) sumWindow(ctx context.Context, memberIDs []uint, from, to time.Time) (int, error) {
	if len(memberIDs) == 0 {
		return 0, nil
	}
	return s.entryRepo.SumVideos(ctx, repositories.EntryFilter{
		UserIDs:  memberIDs,
		DateFrom: &from,
		DateTo:   &to,
	})
}
