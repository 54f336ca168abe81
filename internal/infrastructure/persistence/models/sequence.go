package models

import "time"

// SequenceCounterModel holds the last value issued for one sequence scope,
// e.g. "receipt:2503" or "token:7:2025-03-14".
type SequenceCounterModel struct {
	ScopeKey  string    `gorm:"primaryKey;type:varchar(100)"`
	LastValue int64     `gorm:"not null"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (SequenceCounterModel) TableName() string {
	return "sequence_counters"
}
