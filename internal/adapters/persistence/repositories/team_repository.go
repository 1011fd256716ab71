package repositories

import (
	"context"

	"editortrack/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// teamRepository implements TeamRepository interface
type teamRepository struct {
	db *gorm.DB
}

// NewTeamRepository creates a new team repository
func NewTeamRepository(db *gorm.DB) TeamRepository {
	return &teamRepository{db: db}
}

// Create creates a new team
func (r *teamRepository) Create(ctx context.Context, team *models.Team) error {
	return r.db.WithContext(ctx).Create(team).Error
}

// GetByID gets a team with its members and manager preloaded
func (r *teamRepository) GetByID(ctx context.Context, id uint) (*models.Team, error) {
	var team models.Team
	err := r.db.WithContext(ctx).
		Preload("Members").
		Preload("Manager").
		Where("id = ?", id).
		First(&team).Error
	if err != nil {
		return nil, err
	}
	return &team, nil
}

// GetByMember gets the team a user belongs to
func (r *teamRepository) GetByMember(ctx context.Context, userID uint) (*models.Team, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Select("team_id").Where("id = ?", userID).First(&user).Error; err != nil {
		return nil, err
	}
	if user.TeamID == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return r.GetByID(ctx, *user.TeamID)
}

// Update saves a team
func (r *teamRepository) Update(ctx context.Context, team *models.Team) error {
	return r.db.WithContext(ctx).Save(team).Error
}

// AddAdmin records a user as team administrator
func (r *teamRepository) AddAdmin(ctx context.Context, teamID, userID uint) error {
	return r.db.WithContext(ctx).Create(&models.TeamAdmin{TeamID: teamID, UserID: userID}).Error
}

// IsAdmin reports whether a user administers a team
func (r *teamRepository) IsAdmin(ctx context.Context, teamID, userID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.TeamAdmin{}).
		Where("team_id = ? AND user_id = ?", teamID, userID).
		Count(&count).Error
	return count > 0, err
}

// MemberIDs returns the IDs of all team members
func (r *teamRepository) MemberIDs(ctx context.Context, teamID uint) ([]uint, error) {
	var ids []uint
	err := r.db.WithContext(ctx).Model(&models.User{}).
		Where("team_id = ?", teamID).
		Pluck("id", &ids).Error
	return ids, err
}
