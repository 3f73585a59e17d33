package repository

import (
	"fmt"

	"gorm.io/gorm"

	"trade-journal-go/internal/models"
)

// OrderRepository reads the flat execution log of a user.
type OrderRepository interface {
	ListByUser(userID uint) ([]models.Order, error)
}

type gormOrderRepository struct {
	db *gorm.DB
}

var _ OrderRepository = (*gormOrderRepository)(nil)

// NewOrderRepository creates a gorm-backed OrderRepository.
func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &gormOrderRepository{db: db}
}

func (r *gormOrderRepository) ListByUser(userID uint) ([]models.Order, error) {
	orders := make([]models.Order, 0)
	err := r.db.
		Where("user_id = ?", userID).
		Order("execution_time ASC, row_index ASC, id ASC").
		Find(&orders).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	return orders, nil
}
