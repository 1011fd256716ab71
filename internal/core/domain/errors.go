package domain

import "errors"

// Common domain errors
var (
	ErrNotFound           = errors.New("resource not found")
	ErrInvalidInput       = errors.New("invalid input")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrForbidden          = errors.New("forbidden")
	ErrInternalServer     = errors.New("internal server error")
	ErrDuplicateEntry     = errors.New("duplicate entry")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTokenExpired       = errors.New("token expired")
	ErrTokenInvalid       = errors.New("token invalid")
)

// User errors
var (
	ErrUserNotFound      = errors.New("user not found")
	ErrUserAlreadyExists = errors.New("user already exists")
	ErrInvalidRole       = errors.New("invalid role")
	ErrUserInactive      = errors.New("user account is inactive")
)

// Entry errors
var (
	ErrEntryNotFound = errors.New("entry not found")
	ErrEntryExists   = errors.New("entry already exists for this date")
	ErrEntryLocked   = errors.New("entry is locked")
	ErrInvalidMood   = errors.New("invalid mood value")
	ErrInvalidEnergy = errors.New("energy level must be between 1 and 5")
	ErrInvalidShift  = errors.New("shift end must be after shift start")
)

// Team errors
var (
	ErrTeamNotFound     = errors.New("team not found")
	ErrAlreadyMember    = errors.New("user is already a team member")
	ErrNotMember        = errors.New("user is not a team member")
	ErrCannotRemoveSelf = errors.New("cannot remove yourself from the team")
)
