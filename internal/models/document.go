package models

import (
	"time"

	"gorm.io/datatypes"
)

// Document stores one persisted vault document as an opaque JSON payload.
type Document struct {
	ID  uint64 `gorm:"primaryKey;autoIncrement"`       // Primary key.
	Key string `gorm:"type:text;not null;uniqueIndex"` // Unique document key.

	Content datatypes.JSON `gorm:"type:jsonb;not null"` // Document payload content.

	CreatedAt time.Time `gorm:"not null;autoCreateTime"` // Creation timestamp.
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime"` // Last update timestamp.
}
