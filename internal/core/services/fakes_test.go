package services

import (
	"context"
	"sort"
	"time"

	"editortrack/internal/adapters/persistence/models"
	"editortrack/internal/adapters/persistence/repositories"

	"gorm.io/gorm"
)

// In-memory repositories backing the service tests. They reproduce the
// store-level behavior the services rely on: gorm.ErrRecordNotFound on
// misses and gorm.ErrDuplicatedKey from the unique indexes.

type memUserRepo struct {
	nextID uint
	users  map[uint]*models.User
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{nextID: 1, users: map[uint]*models.User{}}
}

func (m *memUserRepo) Create(_ context.Context, user *models.User) error {
	for _, u := range m.users {
		if u.Email == user.Email {
			return gorm.ErrDuplicatedKey
		}
	}
	user.ID = m.nextID
	m.nextID++
	user.CreatedAt = time.Now()
	m.users[user.ID] = user
	return nil
}

func (m *memUserRepo) GetByID(_ context.Context, id uint) (*models.User, error) {
	if u, ok := m.users[id]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *memUserRepo) GetByEmail(_ context.Context, email string) (*models.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *memUserRepo) Update(_ context.Context, user *models.User) error {
	if _, ok := m.users[user.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	m.users[user.ID] = user
	return nil
}

func (m *memUserRepo) UpdateLastLogin(_ context.Context, id uint, at time.Time) error {
	u, ok := m.users[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	u.LastLogin = &at
	return nil
}

func (m *memUserRepo) Delete(_ context.Context, id uint) error {
	delete(m.users, id)
	return nil
}

func (m *memUserRepo) List(_ context.Context, offset, limit int, search string) ([]*models.User, int64, error) {
	ids := make([]uint, 0, len(m.users))
	for id := range m.users {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	all := make([]*models.User, 0, len(ids))
	for _, id := range ids {
		all = append(all, m.users[id])
	}

	total := int64(len(all))
	if offset >= len(all) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], total, nil
}

func (m *memUserRepo) ExistsByEmail(_ context.Context, email string) (bool, error) {
	for _, u := range m.users {
		if u.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (m *memUserRepo) CountByRole(_ context.Context, role string) (int64, error) {
	var n int64
	for _, u := range m.users {
		if u.Role == role {
			n++
		}
	}
	return n, nil
}

func (m *memUserRepo) CountActive(_ context.Context) (int64, error) {
	var n int64
	for _, u := range m.users {
		if u.IsActive {
			n++
		}
	}
	return n, nil
}

func (m *memUserRepo) Count(_ context.Context) (int64, error) {
	return int64(len(m.users)), nil
}

func (m *memUserRepo) SetTeam(_ context.Context, userID uint, teamID *uint) error {
	u, ok := m.users[userID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	u.TeamID = teamID
	return nil
}

type memTokenRepo struct {
	nextID uint
	tokens map[uint]*models.RefreshToken
}

func newMemTokenRepo() *memTokenRepo {
	return &memTokenRepo{nextID: 1, tokens: map[uint]*models.RefreshToken{}}
}

func (m *memTokenRepo) Create(_ context.Context, token *models.RefreshToken) error {
	token.ID = m.nextID
	m.nextID++
	token.CreatedAt = time.Now()
	m.tokens[token.ID] = token
	return nil
}

func (m *memTokenRepo) GetByTokenHash(_ context.Context, tokenHash string) (*models.RefreshToken, error) {
	for _, t := range m.tokens {
		if t.TokenHash == tokenHash {
			return t, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *memTokenRepo) Revoke(_ context.Context, id uint) error {
	t, ok := m.tokens[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	now := time.Now()
	t.RevokedAt = &now
	return nil
}

func (m *memTokenRepo) RevokeByTokenHash(ctx context.Context, tokenHash string) error {
	t, err := m.GetByTokenHash(ctx, tokenHash)
	if err != nil {
		return err
	}
	return m.Revoke(ctx, t.ID)
}

func (m *memTokenRepo) RevokeAllByUserID(_ context.Context, userID uint) error {
	now := time.Now()
	for _, t := range m.tokens {
		if t.UserID == userID && t.RevokedAt == nil {
			t.RevokedAt = &now
		}
	}
	return nil
}

func (m *memTokenRepo) DeleteExpired(_ context.Context) (int64, error) {
	var n int64
	for id, t := range m.tokens {
		if t.IsExpired() {
			delete(m.tokens, id)
			n++
		}
	}
	return n, nil
}

func (m *memTokenRepo) activeCount(userID uint) int {
	n := 0
	for _, t := range m.tokens {
		if t.UserID == userID && t.RevokedAt == nil {
			n++
		}
	}
	return n
}

type memEntryRepo struct {
	nextID  uint
	entries map[uint]*models.Entry
	users   *memUserRepo // optional, for preloading owners
}

func newMemEntryRepo() *memEntryRepo {
	return &memEntryRepo{nextID: 1, entries: map[uint]*models.Entry{}}
}

func (m *memEntryRepo) Create(_ context.Context, entry *models.Entry) error {
	for _, e := range m.entries {
		if e.UserID == entry.UserID && e.EntryDate.Equal(entry.EntryDate) {
			return gorm.ErrDuplicatedKey
		}
	}
	entry.ID = m.nextID
	m.nextID++
	entry.CreatedAt = time.Now()
	m.entries[entry.ID] = entry
	return nil
}

func (m *memEntryRepo) GetByID(_ context.Context, id uint) (*models.Entry, error) {
	if e, ok := m.entries[id]; ok {
		return e, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *memEntryRepo) GetByOwner(_ context.Context, id, userID uint) (*models.Entry, error) {
	if e, ok := m.entries[id]; ok && e.UserID == userID {
		return e, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *memEntryRepo) Update(_ context.Context, entry *models.Entry) error {
	if _, ok := m.entries[entry.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	m.entries[entry.ID] = entry
	return nil
}

func (m *memEntryRepo) Delete(_ context.Context, id uint) error {
	delete(m.entries, id)
	return nil
}

func (m *memEntryRepo) matches(e *models.Entry, filter repositories.EntryFilter) bool {
	if filter.UserID != nil && e.UserID != *filter.UserID {
		return false
	}
	if len(filter.UserIDs) > 0 {
		found := false
		for _, id := range filter.UserIDs {
			if e.UserID == id {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if filter.DateFrom != nil && e.EntryDate.Before(*filter.DateFrom) {
		return false
	}
	if filter.DateTo != nil && !e.EntryDate.Before(*filter.DateTo) {
		return false
	}
	return true
}

func (m *memEntryRepo) filtered(filter repositories.EntryFilter) []*models.Entry {
	out := []*models.Entry{}
	for _, e := range m.entries {
		if m.matches(e, filter) {
			if m.users != nil && e.User == nil {
				if u, ok := m.users.users[e.UserID]; ok {
					e.User = u
				}
			}
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].EntryDate.Equal(out[j].EntryDate) {
			return out[i].EntryDate.Before(out[j].EntryDate)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func (m *memEntryRepo) List(_ context.Context, filter repositories.EntryFilter, sortBy repositories.EntrySort, offset, limit int) ([]*models.Entry, int64, error) {
	all := m.filtered(filter)
	if sortBy.Desc {
		for i, j := 0, len(all)-1; i < j; i, j = i+1, j-1 {
			all[i], all[j] = all[j], all[i]
		}
	}
	total := int64(len(all))
	if offset >= len(all) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], total, nil
}

func (m *memEntryRepo) FindRange(_ context.Context, filter repositories.EntryFilter) ([]*models.Entry, error) {
	return m.filtered(filter), nil
}

func (m *memEntryRepo) SumVideos(_ context.Context, filter repositories.EntryFilter) (int, error) {
	sum := 0
	for _, e := range m.filtered(filter) {
		sum += e.VideosCompleted
	}
	return sum, nil
}

func (m *memEntryRepo) LockCompletedBefore(_ context.Context, cutoff time.Time) (int64, error) {
	var n int64
	for _, e := range m.entries {
		if !e.IsCompleted && e.EntryDate.Before(cutoff) {
			e.IsCompleted = true
			n++
		}
	}
	return n, nil
}

func (m *memEntryRepo) ListAll(_ context.Context) ([]*models.Entry, error) {
	return m.filtered(repositories.EntryFilter{}), nil
}

type memTeamRepo struct {
	nextID uint
	teams  map[uint]*models.Team
	admins map[uint]map[uint]bool // teamID -> userID set
	users  *memUserRepo
}

func newMemTeamRepo(users *memUserRepo) *memTeamRepo {
	return &memTeamRepo{
		nextID: 1,
		teams:  map[uint]*models.Team{},
		admins: map[uint]map[uint]bool{},
		users:  users,
	}
}

func (m *memTeamRepo) Create(_ context.Context, team *models.Team) error {
	team.ID = m.nextID
	m.nextID++
	m.teams[team.ID] = team
	return nil
}

func (m *memTeamRepo) GetByID(_ context.Context, id uint) (*models.Team, error) {
	if t, ok := m.teams[id]; ok {
		return t, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *memTeamRepo) GetByMember(ctx context.Context, userID uint) (*models.Team, error) {
	u, ok := m.users.users[userID]
	if !ok || u.TeamID == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return m.GetByID(ctx, *u.TeamID)
}

func (m *memTeamRepo) Update(_ context.Context, team *models.Team) error {
	if _, ok := m.teams[team.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	m.teams[team.ID] = team
	return nil
}

func (m *memTeamRepo) AddAdmin(_ context.Context, teamID, userID uint) error {
	if m.admins[teamID] == nil {
		m.admins[teamID] = map[uint]bool{}
	}
	m.admins[teamID][userID] = true
	return nil
}

func (m *memTeamRepo) IsAdmin(_ context.Context, teamID, userID uint) (bool, error) {
	return m.admins[teamID][userID], nil
}

func (m *memTeamRepo) MemberIDs(_ context.Context, teamID uint) ([]uint, error) {
	ids := []uint{}
	for id, u := range m.users.users {
		if u.TeamID != nil && *u.TeamID == teamID {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}
