package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/posdelivery-api/internal/domain/enum"
	"gorm.io/gorm"
)

// Customer represents a buyer that transactions can be linked to
type Customer struct {
	ID        uuid.UUID         `gorm:"type:uuid;primary_key" json:"id"`
	Name      string            `gorm:"size:255;not null;index" json:"name"`
	Phone     string            `gorm:"size:50;not null;index" json:"phone"`
	Email     *string           `gorm:"size:255" json:"email,omitempty"`
	Address   *string           `gorm:"type:text" json:"address,omitempty"`
	Rank      enum.CustomerRank `gorm:"size:20;not null;default:'standard';index" json:"rank"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
}

// BeforeCreate generates a UUID before creating a new customer
func (c *Customer) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	if c.Rank == "" {
		c.Rank = enum.CustomerRankStandard
	}
	return nil
}

// TableName returns the table name for the Customer model
func (Customer) TableName() string {
	return "customers"
}
