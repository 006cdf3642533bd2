package repository

import (
	"gorm.io/gorm"

	"github.com/attendly/attendance-api/internal/database"
	"github.com/attendly/attendance-api/internal/models"
	"github.com/attendly/attendance-api/internal/utils"
)

// GormUserRepository is a GORM implementation of UserRepository
type GormUserRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db *gorm.DB) UserRepository {
	return &GormUserRepository{db: db}
}

// Create creates a new user
func (r *GormUserRepository) Create(user *models.User) error {
	return r.db.Create(user).Error
}

// FindByID finds a user by ID
func (r *GormUserRepository) FindByID(id uint64) (*models.User, error) {
	var user models.User
	if err := r.db.First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByEmail finds a user by email. Callers lower-case the email before
// storing and looking up, so this is a plain equality match.
func (r *GormUserRepository) FindByEmail(email string) (*models.User, error) {
	var user models.User
	if err := r.db.Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// List retrieves users ordered by creation, newest first
func (r *GormUserRepository) List(page, pageSize int) ([]models.User, int64, error) {
	var users []models.User

	query := r.db.Model(&models.User{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	params := utils.PaginationParams{
		Page:   page,
		Limit:  pageSize,
		Offset: (page - 1) * pageSize,
	}
	if err := query.Order("created_at DESC").Scopes(database.Paginate(params)).Find(&users).Error; err != nil {
		return nil, 0, err
	}

	return users, total, nil
}

// SetActive flips the is_active flag
func (r *GormUserRepository) SetActive(id uint64, active bool) (*models.User, error) {
	var user models.User
	if err := r.db.First(&user, id).Error; err != nil {
		return nil, err
	}

	user.IsActive = active
	if err := r.db.Save(&user).Error; err != nil {
		return nil, err
	}

	return &user, nil
}
