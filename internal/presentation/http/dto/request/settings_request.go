package request

// UpdateSettingsRequest updates only the fields that are present
type UpdateSettingsRequest struct {
	DisplayName   *string `json:"display_name" binding:"omitempty,max=255"`
	Address       *string `json:"address"`
	ContactPhone  *string `json:"contact_phone" binding:"omitempty,max=50"`
	LogoURL       *string `json:"logo_url" binding:"omitempty,url"`
	SignatureURL  *string `json:"signature_url" binding:"omitempty,url"`
	ReceiptFooter *string `json:"receipt_footer"`
	Currency      *string `json:"currency" binding:"omitempty,len=3"`
}
