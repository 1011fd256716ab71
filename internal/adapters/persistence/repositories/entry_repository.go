package repositories

import (
	"context"
	"time"

	"editortrack/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// sortColumns is the whitelist of entry list sort fields.
// Unrecognized fields fall back to entry_date.
var sortColumns = map[string]string{
	"entry_date":         "entry_date",
	"videos_completed":   "videos_completed",
	"productivity_score": "productivity_score",
	"total_hours":        "total_hours",
	"created_at":         "created_at",
}

// entryRepository implements EntryRepository interface
type entryRepository struct {
	db *gorm.DB
}

// NewEntryRepository creates a new entry repository
func NewEntryRepository(db *gorm.DB) EntryRepository {
	return &entryRepository{db: db}
}

// Create inserts a new entry. The unique index on (user_id, entry_date)
// surfaces gorm.ErrDuplicatedKey when two creates race for the same day.
func (r *entryRepository) Create(ctx context.Context, entry *models.Entry) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

// GetByID gets an entry by ID
func (r *entryRepository) GetByID(ctx context.Context, id uint) (*models.Entry, error) {
	var entry models.Entry
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&entry).Error
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

// GetByOwner gets an entry by ID scoped to its owner. Absence and foreign
// ownership are both gorm.ErrRecordNotFound to the caller.
func (r *entryRepository) GetByOwner(ctx context.Context, id, userID uint) (*models.Entry, error) {
	var entry models.Entry
	err := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).First(&entry).Error
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

// Update saves an entry
func (r *entryRepository) Update(ctx context.Context, entry *models.Entry) error {
	return r.db.WithContext(ctx).Save(entry).Error
}

// Delete removes an entry outright, releasing its (user_id, entry_date)
// key so the same day can be logged again
func (r *entryRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.Entry{}, id).Error
}

func applyFilter(query *gorm.DB, filter EntryFilter) *gorm.DB {
	if filter.UserID != nil {
		query = query.Where("user_id = ?", *filter.UserID)
	}
	if len(filter.UserIDs) > 0 {
		query = query.Where("user_id IN ?", filter.UserIDs)
	}
	if filter.DateFrom != nil {
		query = query.Where("entry_date >= ?", *filter.DateFrom)
	}
	if filter.DateTo != nil {
		query = query.Where("entry_date < ?", *filter.DateTo)
	}
	return query
}

// List returns a page of entries plus the total match count
func (r *entryRepository) List(ctx context.Context, filter EntryFilter, sort EntrySort, offset, limit int) ([]*models.Entry, int64, error) {
	var entries []*models.Entry
	var total int64

	query := applyFilter(r.db.WithContext(ctx).Model(&models.Entry{}), filter)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	column, ok := sortColumns[sort.Field]
	if !ok {
		column = "entry_date"
	}
	order := column + " ASC"
	if sort.Desc {
		order = column + " DESC"
	}

	if err := query.Order(order).Offset(offset).Limit(limit).Find(&entries).Error; err != nil {
		return nil, 0, err
	}

	return entries, total, nil
}

// FindRange returns all entries matching the filter, oldest first, with
// the owning user preloaded for reporting views.
func (r *entryRepository) FindRange(ctx context.Context, filter EntryFilter) ([]*models.Entry, error) {
	var entries []*models.Entry
	query := applyFilter(r.db.WithContext(ctx).Model(&models.Entry{}), filter)
	err := query.Preload("User").Order("entry_date ASC").Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}

// SumVideos sums videos_completed across matching entries
func (r *entryRepository) SumVideos(ctx context.Context, filter EntryFilter) (int, error) {
	var sum int64
	query := applyFilter(r.db.WithContext(ctx).Model(&models.Entry{}), filter)
	err := query.Select("COALESCE(SUM(videos_completed), 0)").Scan(&sum).Error
	return int(sum), err
}

// LockCompletedBefore marks entries older than the cutoff as completed
func (r *entryRepository) LockCompletedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	result := r.db.WithContext(ctx).Model(&models.Entry{}).
		Where("entry_date < ? AND is_completed = ?", cutoff, false).
		Update("is_completed", true)
	return result.RowsAffected, result.Error
}

// ListAll returns every entry (maintenance/migration use only)
func (r *entryRepository) ListAll(ctx context.Context) ([]*models.Entry, error) {
	var entries []*models.Entry
	err := r.db.WithContext(ctx).Order("id ASC").Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}
