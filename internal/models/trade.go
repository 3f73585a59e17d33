package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Direction of a round-trip position, fixed by the side of its first
// opening execution.
type Direction string

const (
	DirectionLong  Direction = "LONG"
	DirectionShort Direction = "SHORT"
)

// TradeStatus tracks whether a position is still carrying exposure.
type TradeStatus string

const (
	TradeStatusOpen   TradeStatus = "OPEN"
	TradeStatusClosed TradeStatus = "CLOSED"
)

// Trade is a round-trip position aggregated from executions: everything
// between the first opening fill and the moment net volume returns to
// zero for a (user, symbol).
type Trade struct {
	gorm.Model
	UserID uint   `gorm:"index;not null" json:"user_id"`
	Symbol string `gorm:"index;not null" json:"symbol"`

	Direction Direction   `gorm:"not null" json:"direction"`
	Status    TradeStatus `gorm:"index;not null" json:"status"`

	// Volume is the total opened quantity of the round trip.
	// OpenQuantity is what remains unclosed; zero once CLOSED.
	Volume       int64 `gorm:"not null" json:"volume"`
	OpenQuantity int64 `gorm:"not null" json:"open_quantity"`

	AvgEntryPrice decimal.Decimal     `gorm:"type:decimal(20,2)" json:"avg_entry_price"`
	AvgExitPrice  decimal.NullDecimal `gorm:"type:decimal(20,2)" json:"avg_exit_price"`

	EntryTimestamp time.Time  `gorm:"not null;index" json:"entry_timestamp"`
	ExitTimestamp  *time.Time `json:"exit_timestamp,omitempty"`

	// Pnl is realized profit net of fees; present only once CLOSED.
	Pnl  decimal.NullDecimal `gorm:"type:decimal(20,2)" json:"pnl"`
	Fees decimal.Decimal     `gorm:"type:decimal(20,2)" json:"fees"`

	ExecutionsCount int    `gorm:"not null" json:"executions_count"`
	Notes           string `json:"notes"`

	Orders []Order `gorm:"foreignKey:TradeID" json:"orders"`
}

// DirectionSign is +1 for LONG and -1 for SHORT, the multiplier applied
// to the exit/entry price difference when realizing PnL.
func (t *Trade) DirectionSign() int64 {
	if t.Direction == DirectionShort {
		return -1
	}
	return 1
}
