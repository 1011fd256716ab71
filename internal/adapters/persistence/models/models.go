package models

import (
	"time"

	"gorm.io/gorm"
)

// ============================================================
// Auth & User Tables
// ============================================================

// User represents the users table
type User struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Email     string         `gorm:"uniqueIndex;size:100;not null" json:"email"`
	Name      string         `gorm:"size:100;not null" json:"name"`
	Password  string         `gorm:"size:255;not null" json:"-"`
	Role      string         `gorm:"size:20;default:'EDITOR'" json:"role"`
	IsActive  bool           `gorm:"default:true" json:"is_active"`
	LastLogin *time.Time     `json:"last_login"`
	TeamID    *uint          `gorm:"index" json:"team_id"`
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (User) TableName() string {
	return "users"
}

// UserResponse DTO
type UserResponse struct {
	ID        uint       `json:"id"`
	Email     string     `json:"email"`
	Name      string     `json:"name"`
	Role      string     `json:"role"`
	IsActive  bool       `json:"is_active"`
	LastLogin *time.Time `json:"last_login,omitempty"`
	TeamID    *uint      `json:"team_id,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

func (u *User) ToResponse() *UserResponse {
	return &UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		Role:      u.Role,
		IsActive:  u.IsActive,
		LastLogin: u.LastLogin,
		TeamID:    u.TeamID,
		CreatedAt: u.CreatedAt,
	}
}

// RefreshToken represents the refresh_tokens table
type RefreshToken struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	UserID    uint       `gorm:"index;not null" json:"user_id"`
	TokenHash string     `gorm:"size:255;not null;index" json:"-"`
	ExpiresAt time.Time  `gorm:"not null" json:"expires_at"`
	CreatedAt time.Time  `gorm:"autoCreateTime" json:"created_at"`
	RevokedAt *time.Time `gorm:"index" json:"revoked_at"`
	User      User       `gorm:"foreignKey:UserID" json:"-"`
}

func (RefreshToken) TableName() string {
	return "refresh_tokens"
}

func (rt *RefreshToken) IsRevoked() bool {
	return rt.RevokedAt != nil
}

func (rt *RefreshToken) IsExpired() bool {
	return time.Now().After(rt.ExpiresAt)
}

// ============================================================
// Team Tables
// ============================================================

// Team represents the teams table. Membership lives on users.team_id;
// administrators are join rows in team_admins.
type Team struct {
	ID            uint           `gorm:"primaryKey" json:"id"`
	Name          string         `gorm:"size:100;not null" json:"name"`
	Code          string         `gorm:"size:20" json:"code"`
	Color         string         `gorm:"size:20" json:"color"`
	WeeklyTarget  int            `gorm:"default:0" json:"weekly_target"`
	MonthlyTarget int            `gorm:"default:0" json:"monthly_target"`
	ManagerID     *uint          `json:"manager_id"`
	CreatedAt     time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`

	Manager *User  `gorm:"foreignKey:ManagerID" json:"manager,omitempty"`
	Members []User `gorm:"foreignKey:TeamID" json:"members,omitempty"`
}

func (Team) TableName() string {
	return "teams"
}

// TeamAdmin represents the team_admins join table.
// The composite unique index keeps one admin row per (team, user).
type TeamAdmin struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	TeamID    uint      `gorm:"not null;uniqueIndex:idx_team_admin" json:"team_id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_team_admin" json:"user_id"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`

	Team Team `gorm:"foreignKey:TeamID" json:"-"`
	User User `gorm:"foreignKey:UserID" json:"-"`
}

func (TeamAdmin) TableName() string {
	return "team_admins"
}

// ============================================================
// Entry Table
// ============================================================

// Entry represents the entries table: one work record per user per day.
// The composite unique index on (user_id, entry_date) is the store-level
// guard against duplicate daily submissions, including racing creates.
// Entries carry no soft-delete marker: a deleted row must release its
// (user_id, entry_date) key so the day can be logged again.
type Entry struct {
	ID                uint           `gorm:"primaryKey" json:"id"`
	UserID            uint           `gorm:"not null;uniqueIndex:idx_user_date" json:"user_id"`
	EntryDate         time.Time      `gorm:"type:date;not null;uniqueIndex:idx_user_date" json:"entry_date"`
	ShiftStart        time.Time      `gorm:"not null" json:"shift_start"`
	ShiftEnd          time.Time      `gorm:"not null" json:"shift_end"`
	TotalHours        float64        `gorm:"type:decimal(5,2);not null" json:"total_hours"`
	VideosCompleted   int            `gorm:"not null;default:0" json:"videos_completed"`
	TargetVideos      int            `gorm:"not null;default:15" json:"target_videos"`
	ProductivityScore int            `gorm:"not null;default:0" json:"productivity_score"`
	Mood              string         `gorm:"size:20;default:'average'" json:"mood"`
	EnergyLevel       int            `gorm:"default:3" json:"energy_level"`
	Notes             string         `gorm:"type:text" json:"notes"`
	Challenges        StringList     `gorm:"type:json" json:"challenges"`
	Achievements      StringList     `gorm:"type:json" json:"achievements"`
	IsCompleted       bool           `gorm:"default:false" json:"is_completed"`
	CreatedAt         time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt         time.Time      `gorm:"autoUpdateTime" json:"updated_at"`

	User *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

func (Entry) TableName() string {
	return "entries"
}

// AutoMigrate creates or updates all tables
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&User{},
		&RefreshToken{},
		&Team{},
		&TeamAdmin{},
		&Entry{},
	)
}
