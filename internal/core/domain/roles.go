package domain

import "strings"

// Role represents user role in the system
type Role string

const (
	RoleAdmin       Role = "ADMIN"
	RoleManager     Role = "MANAGER"
	RoleTeamManager Role = "TEAM_MANAGER"
	RoleEditor      Role = "EDITOR"
	RoleViewer      Role = "VIEWER"
)

// AllRoles is the closed set of valid roles
var AllRoles = []Role{RoleAdmin, RoleManager, RoleTeamManager, RoleEditor, RoleViewer}

// ParseRole parses a role string (case-insensitive) against the closed set
func ParseRole(s string) (Role, bool) {
	r := Role(strings.ToUpper(strings.TrimSpace(s)))
	for _, known := range AllRoles {
		if r == known {
			return r, true
		}
	}
	return "", false
}

// IsValid reports whether the role is in the closed set
func (r Role) IsValid() bool {
	_, ok := ParseRole(string(r))
	return ok
}

// CanManageUsers reports whether the role may administer user accounts
func (r Role) CanManageUsers() bool {
	return r == RoleAdmin
}

// CanManageTeams reports whether the role may add/remove team members
func (r Role) CanManageTeams() bool {
	return r == RoleAdmin || r == RoleManager || r == RoleTeamManager
}

// CanViewAllEntries reports whether the role may read other users' entries
func (r Role) CanViewAllEntries() bool {
	return r == RoleAdmin || r == RoleManager || r == RoleTeamManager
}

// Mood represents the qualitative mood recorded on an entry
type Mood string

const (
	MoodExcellent Mood = "excellent"
	MoodGood      Mood = "good"
	MoodAverage   Mood = "average"
	MoodPoor      Mood = "poor"
)

// IsValid reports whether the mood is one of the known values
func (m Mood) IsValid() bool {
	switch m {
	case MoodExcellent, MoodGood, MoodAverage, MoodPoor:
		return true
	}
	return false
}
