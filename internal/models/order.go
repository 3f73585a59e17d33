package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Side is the direction of a single execution.
type Side string

const (
	SideBuy  Side = "BUY"
	SideSell Side = "SELL"
)

// PositionEffect says whether an execution opens or closes exposure.
// EffectAuto marks rows whose effect must be inferred from the open
// position during aggregation.
type PositionEffect string

const (
	EffectOpen  PositionEffect = "OPEN"
	EffectClose PositionEffect = "CLOSE"
	EffectAuto  PositionEffect = ""
)

// Order is a single brokerage fill. Orders are immutable once persisted
// and belong to exactly one Trade.
type Order struct {
	gorm.Model
	UserID  uint  `gorm:"index;not null" json:"user_id"`
	TradeID *uint `gorm:"index" json:"trade_id,omitempty"`

	ExecutionTime  time.Time      `gorm:"not null;index" json:"execution_time"`
	Spread         string         `json:"spread,omitempty"`
	Side           Side           `gorm:"not null" json:"side"`
	Quantity       int64          `gorm:"not null" json:"quantity"`
	PositionEffect PositionEffect `gorm:"not null" json:"position_effect"`
	Symbol         string         `gorm:"not null;index" json:"symbol"`

	ExpirationDate *time.Time          `json:"expiration_date,omitempty"`
	StrikePrice    decimal.NullDecimal `gorm:"type:decimal(20,2)" json:"strike_price,omitempty"`
	OptionType     string              `json:"option_type,omitempty"`

	Price    decimal.Decimal `gorm:"type:decimal(20,2);not null" json:"price"`
	NetPrice decimal.Decimal `gorm:"type:decimal(20,2);not null" json:"net_price"`

	OrderType string `json:"order_type,omitempty"`

	// RowIndex is the position of the execution within its uploaded file.
	// It is the tie-breaker for executions sharing a timestamp.
	RowIndex int `gorm:"not null" json:"-"`
}

// Fee is the per-fill fee implied by the gap between the quoted and the
// net (fee-adjusted) price, scaled by fill size.
func (o *Order) Fee() decimal.Decimal {
	return o.Price.Sub(o.NetPrice).Abs().Mul(decimal.NewFromInt(o.Quantity))
}
