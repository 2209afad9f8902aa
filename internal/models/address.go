package models

// Address is a shipping address. A user has at most one default address.
type Address struct {
	ID           int     `json:"id" gorm:"primaryKey;autoIncrement"`
	UserID       int     `json:"user_id" gorm:"index"`
	AddressLine1 string  `json:"address_line1"`
	AddressLine2 *string `json:"address_line2"`
	City         string  `json:"city"`
	State        string  `json:"state"`
	PostalCode   string  `json:"postal_code"`
	Country      string  `json:"country"`
	IsDefault    bool    `json:"is_default"`
}
