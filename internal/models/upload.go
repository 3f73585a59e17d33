package models

import "time"

// UploadState is the stage an upload batch has reached. A batch either
// reaches StatePersisted or ends in StateFailed; no intermediate state
// is ever durable alongside partial trade data.
type UploadState string

const (
	StateReceived   UploadState = "RECEIVED"
	StateParsed     UploadState = "PARSED"
	StateNormalized UploadState = "NORMALIZED"
	StateAggregated UploadState = "AGGREGATED"
	StatePersisted  UploadState = "PERSISTED"
	StateFailed     UploadState = "FAILED"
)

// Upload is the audit record of one processed statement file.
type Upload struct {
	ID            string      `gorm:"primaryKey" json:"id"`
	UserID        uint        `gorm:"index;not null" json:"user_id"`
	Filename      string      `json:"filename"`
	State         UploadState `gorm:"not null" json:"state"`
	RowCount      int         `json:"row_count"`
	TradesTouched int         `json:"trades_touched"`
	Error         string      `json:"error,omitempty"`
	CreatedAt     time.Time   `json:"created_at"`
	UpdatedAt     time.Time   `json:"updated_at"`
}
