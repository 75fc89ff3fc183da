package models

import (
	"fmt"
	"time"

	"gorm.io/gorm"

	"moneylovers/internal/uuid"
)

// Base contains common columns for all tables. Deletes are soft.
type Base struct {
	ID        string         `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty" swaggertype:"string"`
}

// BeforeCreate assigns a UUIDv7 to new rows. A caller-supplied ID is kept
// only if it is a UUID, since SQLite does not enforce the column type.
func (b *Base) BeforeCreate(_ *gorm.DB) error {
	if b.ID == "" {
		b.ID = uuid.New()
		return nil
	}
	if !uuid.IsValid(b.ID) {
		return fmt.Errorf("invalid primary key %q", b.ID)
	}
	b.ID, _ = uuid.Parse(b.ID)
	return nil
}
