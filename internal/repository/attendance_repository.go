package repository

import (
	"time"

	"gorm.io/gorm"

	"github.com/attendly/attendance-api/internal/database"
	"github.com/attendly/attendance-api/internal/models"
	"github.com/attendly/attendance-api/internal/utils"
)

// GormAttendanceRepository is a GORM implementation of AttendanceRepository
type GormAttendanceRepository struct {
	db *gorm.DB
}

// NewAttendanceRepository creates a new AttendanceRepository
func NewAttendanceRepository(db *gorm.DB) AttendanceRepository {
	return &GormAttendanceRepository{db: db}
}

// Create inserts the day's record. The unique (user_id, date) index makes a
// racing second check-in fail here rather than in a check-then-act gap.
func (r *GormAttendanceRepository) Create(record *models.Attendance) error {
	return r.db.Create(record).Error
}

// CloseOpen stamps check-out on the open record for the given user and day.
// A single conditional UPDATE keeps the transition one-way: a record that is
// already closed no longer matches the WHERE clause.
func (r *GormAttendanceRepository) CloseOpen(userID uint64, date time.Time, checkOutAt time.Time) (int64, error) {
	result := r.db.Model(&models.Attendance{}).
		Where("user_id = ? AND date = ? AND check_out_at IS NULL", userID, date).
		Update("check_out_at", checkOutAt)
	return result.RowsAffected, result.Error
}

// FindByUserAndDate returns the record for (userID, date), if any
func (r *GormAttendanceRepository) FindByUserAndDate(userID uint64, date time.Time) (*models.Attendance, error) {
	var record models.Attendance
	if err := r.db.Where("user_id = ? AND date = ?", userID, date).First(&record).Error; err != nil {
		return nil, err
	}
	return &record, nil
}

// ListByUser retrieves a user's records, newest date first
func (r *GormAttendanceRepository) ListByUser(filter AttendanceFilter) ([]models.Attendance, int64, error) {
	var records []models.Attendance

	query := r.db.Model(&models.Attendance{}).Where("user_id = ?", filter.UserID)

	if filter.From != nil {
		query = query.Where("date >= ?", *filter.From)
	}
	if filter.To != nil {
		query = query.Where("date <= ?", *filter.To)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	listQuery := query.Order("date DESC")
	if filter.Page > 0 && filter.PageSize > 0 {
		listQuery = listQuery.Scopes(database.Paginate(utils.PaginationParams{
			Page:   filter.Page,
			Limit:  filter.PageSize,
			Offset: (filter.Page - 1) * filter.PageSize,
		}))
	}

	if err := listQuery.Find(&records).Error; err != nil {
		return nil, 0, err
	}

	return records, total, nil
}
