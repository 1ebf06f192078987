package request

// CustomerRequest is the body for creating or replacing a customer
type CustomerRequest struct {
	Name    string  `json:"name" binding:"required,max=255"`
	Phone   string  `json:"phone" binding:"required,max=50"`
	Email   *string `json:"email" binding:"omitempty,email"`
	Address *string `json:"address"`
	Rank    string  `json:"rank"`
}

// CustomerFilterRequest represents customer filter parameters
type CustomerFilterRequest struct {
	Search  string `form:"search"`
	Rank    string `form:"rank"`
	Page    int    `form:"page"`
	PerPage int    `form:"per_page"`
}
