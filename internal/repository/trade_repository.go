package repository

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"trade-journal-go/internal/models"
)

// ErrNotFound signals a lookup for a record that does not exist. A user
// with zero trades is not an error; that case returns an empty slice.
var ErrNotFound = errors.New("record not found")

// PersistenceError wraps a storage failure that aborted a batch. The
// batch was rolled back; nothing of it is visible.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// TradeRepository persists aggregated trades and their constituent
// orders, always scoped to one user.
type TradeRepository interface {
	// OpenBySymbol returns the user's OPEN trade per symbol with orders
	// preloaded, as seed state for aggregating the next batch.
	OpenBySymbol(userID uint) (map[string]*models.Trade, error)
	// SaveBatch atomically persists one upload batch: the audit record
	// and every trade it created or updated, each with its full order
	// set. On any failure nothing of the batch remains.
	SaveBatch(upload *models.Upload, trades []*models.Trade) error
	ListByUser(userID uint) ([]models.Trade, error)
	GetByID(userID, tradeID uint) (*models.Trade, error)
	UpdateNotes(userID, tradeID uint, notes string) (*models.Trade, error)
	// Delete removes a trade together with its constituent orders.
	Delete(userID, tradeID uint) error
}

type gormTradeRepository struct {
	db *gorm.DB
}

var _ TradeRepository = (*gormTradeRepository)(nil)

// NewTradeRepository creates a gorm-backed TradeRepository.
func NewTradeRepository(db *gorm.DB) TradeRepository {
	return &gormTradeRepository{db: db}
}

func (r *gormTradeRepository) OpenBySymbol(userID uint) (map[string]*models.Trade, error) {
	var trades []models.Trade
	err := r.db.
		Preload("Orders", orderedOrders).
		Where("user_id = ? AND status = ?", userID, models.TradeStatusOpen).
		Find(&trades).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load open trades: %w", err)
	}

	open := make(map[string]*models.Trade, len(trades))
	for i := range trades {
		open[trades[i].Symbol] = &trades[i]
	}
	return open, nil
}

func (r *gormTradeRepository) SaveBatch(upload *models.Upload, trades []*models.Trade) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(upload).Error; err != nil {
			return &PersistenceError{Op: "save upload record", Err: err}
		}
		for _, trade := range trades {
			if err := tx.Session(&gorm.Session{FullSaveAssociations: true}).Save(trade).Error; err != nil {
				return &PersistenceError{Op: "save trade " + trade.Symbol, Err: err}
			}
		}
		return nil
	})
}

func (r *gormTradeRepository) ListByUser(userID uint) ([]models.Trade, error) {
	trades := make([]models.Trade, 0)
	err := r.db.
		Preload("Orders", orderedOrders).
		Where("user_id = ?", userID).
		Order("entry_timestamp DESC, id DESC").
		Find(&trades).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list trades: %w", err)
	}
	return trades, nil
}

func (r *gormTradeRepository) GetByID(userID, tradeID uint) (*models.Trade, error) {
	var trade models.Trade
	err := r.db.
		Preload("Orders", orderedOrders).
		Where("id = ? AND user_id = ?", tradeID, userID).
		First(&trade).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get trade %d: %w", tradeID, err)
	}
	return &trade, nil
}

func (r *gormTradeRepository) UpdateNotes(userID, tradeID uint, notes string) (*models.Trade, error) {
	trade, err := r.GetByID(userID, tradeID)
	if err != nil {
		return nil, err
	}
	if err := r.db.Model(trade).Update("notes", notes).Error; err != nil {
		return nil, fmt.Errorf("failed to update trade %d: %w", tradeID, err)
	}
	return trade, nil
}

func (r *gormTradeRepository) Delete(userID, tradeID uint) error {
	trade, err := r.GetByID(userID, tradeID)
	if err != nil {
		return err
	}
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("trade_id = ?", trade.ID).Delete(&models.Order{}).Error; err != nil {
			return fmt.Errorf("failed to delete orders of trade %d: %w", tradeID, err)
		}
		if err := tx.Delete(trade).Error; err != nil {
			return fmt.Errorf("failed to delete trade %d: %w", tradeID, err)
		}
		return nil
	})
}

func orderedOrders(db *gorm.DB) *gorm.DB {
	return db.Order("execution_time ASC, row_index ASC, id ASC")
}
