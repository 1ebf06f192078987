package entity

import "time"

// BusinessSettingsID is the primary key of the only settings row
const BusinessSettingsID uint = 1

// BusinessSettings holds the branding printed on every receipt
type BusinessSettings struct {
	ID            uint      `gorm:"primaryKey" json:"-"`
	DisplayName   string    `gorm:"size:255;not null" json:"display_name"`
	Address       *string   `gorm:"type:text" json:"address,omitempty"`
	ContactPhone  *string   `gorm:"size:50" json:"contact_phone,omitempty"`
	LogoURL       *string   `gorm:"size:500" json:"logo_url,omitempty"`
	SignatureURL  *string   `gorm:"size:500" json:"signature_url,omitempty"`
	ReceiptFooter *string   `gorm:"type:text" json:"receipt_footer,omitempty"`
	Currency      string    `gorm:"size:10;not null;default:'IDR'" json:"currency"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// TableName returns the table name for the BusinessSettings model
func (BusinessSettings) TableName() string {
	return "business_settings"
}

// DefaultBusinessSettings returns the row created on first read
func DefaultBusinessSettings() *BusinessSettings {
	return &BusinessSettings{
		ID:          BusinessSettingsID,
		DisplayName: "My Store",
		Currency:    "IDR",
	}
}
