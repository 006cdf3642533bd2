package repository

import (
	"time"

	"github.com/attendly/attendance-api/internal/models"
)

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create creates a new user; duplicate emails surface as gorm.ErrDuplicatedKey
	Create(user *models.User) error

	// FindByID finds a user by ID
	FindByID(id uint64) (*models.User, error)

	// FindByEmail finds a user by (lower-cased) email
	FindByEmail(email string) (*models.User, error)

	// List retrieves users with pagination
	List(page, pageSize int) ([]models.User, int64, error)

	// SetActive flips the is_active flag; returns gorm.ErrRecordNotFound for unknown ids
	SetActive(id uint64, active bool) (*models.User, error)
}

// AttendanceRepository defines the interface for attendance data access
type AttendanceRepository interface {
	// Create inserts the day's record; duplicate (user, date) pairs surface
	// as gorm.ErrDuplicatedKey
	Create(record *models.Attendance) error

	// CloseOpen stamps check-out on the open record for (userID, date) in a
	// single UPDATE. Returns the number of rows touched.
	CloseOpen(userID uint64, date time.Time, checkOutAt time.Time) (int64, error)

	// FindByUserAndDate returns the record for (userID, date), if any
	FindByUserAndDate(userID uint64, date time.Time) (*models.Attendance, error)

	// ListByUser retrieves a user's records filtered and paginated,
	// newest date first
	ListByUser(filter AttendanceFilter) ([]models.Attendance, int64, error)
}

// AttendanceFilter holds filtering options for listing attendance records
type AttendanceFilter struct {
	UserID   uint64
	From     *time.Time
	To       *time.Time
	Page     int
	PageSize int
}

// TaskRepository defines the interface for task data access
type TaskRepository interface {
	// Create creates a new task
	Create(task *models.Task) error

	// FindByOwner finds a task by ID scoped to its owner
	FindByOwner(id, userID uint64) (*models.Task, error)

	// List retrieves tasks with filtering and pagination; every query is
	// scoped to filter.UserID
	List(filter TaskFilter) ([]models.Task, int64, error)

	// Update persists changes to a task
	Update(task *models.Task) error

	// DeleteByOwner soft deletes a task scoped to its owner; returns the
	// number of rows touched
	DeleteByOwner(id, userID uint64) (int64, error)
}

// TaskFilter holds filtering options for listing tasks
type TaskFilter struct {
	UserID   uint64
	Status   *models.TaskStatus
	Priority *models.TaskPriority
	Page     int
	PageSize int
}
