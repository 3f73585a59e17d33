package repository

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"trade-journal-go/internal/models"
)

// UserRepository manages account records.
type UserRepository interface {
	Create(user *models.User) error
	ByEmail(email string) (*models.User, error)
	ByID(id uint) (*models.User, error)
}

// ErrEmailTaken is returned when registering an email that already has
// an account.
var ErrEmailTaken = errors.New("email already registered")

type gormUserRepository struct {
	db *gorm.DB
}

var _ UserRepository = (*gormUserRepository)(nil)

// NewUserRepository creates a gorm-backed UserRepository.
func NewUserRepository(db *gorm.DB) UserRepository {
	return &gormUserRepository{db: db}
}

func (r *gormUserRepository) Create(user *models.User) error {
	var count int64
	if err := r.db.Model(&models.User{}).Where("email = ?", user.Email).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to check email: %w", err)
	}
	if count > 0 {
		return ErrEmailTaken
	}
	if err := r.db.Create(user).Error; err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

func (r *gormUserRepository) ByEmail(email string) (*models.User, error) {
	var user models.User
	err := r.db.Where("email = ?", email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}
	return &user, nil
}

func (r *gormUserRepository) ByID(id uint) (*models.User, error) {
	var user models.User
	err := r.db.First(&user, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user %d: %w", id, err)
	}
	return &user, nil
}
