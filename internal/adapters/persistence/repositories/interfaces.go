package repositories

import (
	"context"
	"time"

	"editortrack/internal/adapters/persistence/models"
)

// UserRepository defines user repository interface
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uint) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Update(ctx context.Context, user *models.User) error
	UpdateLastLogin(ctx context.Context, id uint, at time.Time) error
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context, offset, limit int, search string) ([]*models.User, int64, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	CountByRole(ctx context.Context, role string) (int64, error)
	CountActive(ctx context.Context) (int64, error)
	Count(ctx context.Context) (int64, error)
	SetTeam(ctx context.Context, userID uint, teamID *uint) error
}

// RefreshTokenRepository defines refresh token repository interface
type RefreshTokenRepository interface {
	Create(ctx context.Context, token *models.RefreshToken) error
	GetByTokenHash(ctx context.Context, tokenHash string) (*models.RefreshToken, error)
	Revoke(ctx context.Context, id uint) error
	RevokeByTokenHash(ctx context.Context, tokenHash string) error
	RevokeAllByUserID(ctx context.Context, userID uint) error
	DeleteExpired(ctx context.Context) (int64, error)
}

// EntryFilter narrows entry queries
type EntryFilter struct {
	UserID   *uint
	UserIDs  []uint
	DateFrom *time.Time
	DateTo   *time.Time
}

// EntrySort describes entry list ordering
type EntrySort struct {
	Field string // whitelisted column
	Desc  bool
}

// EntryRepository defines entry repository interface
type EntryRepository interface {
	Create(ctx context.Context, entry *models.Entry) error
	GetByID(ctx context.Context, id uint) (*models.Entry, error)
	GetByOwner(ctx context.Context, id, userID uint) (*models.Entry, error)
	Update(ctx context.Context, entry *models.Entry) error
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context, filter EntryFilter, sort EntrySort, offset, limit int) ([]*models.Entry, int64, error)
	FindRange(ctx context.Context, filter EntryFilter) ([]*models.Entry, error)
	SumVideos(ctx context.Context, filter EntryFilter) (int, error)
	LockCompletedBefore(ctx context.Context, cutoff time.Time) (int64, error)
	ListAll(ctx context.Context) ([]*models.Entry, error)
}

// TeamRepository defines team repository interface
type TeamRepository interface {
	Create(ctx context.Context, team *models.Team) error
	GetByID(ctx context.Context, id uint) (*models.Team, error)
	GetByMember(ctx context.Context, userID uint) (*models.Team, error)
	Update(ctx context.Context, team *models.Team) error
	AddAdmin(ctx context.Context, teamID, userID uint) error
	IsAdmin(ctx context.Context, teamID, userID uint) (bool, error)
	MemberIDs(ctx context.Context, teamID uint) ([]uint, error)
}
