package services

import (
	"strings"

	"storefront/internal/models"
	"storefront/internal/repositories"
)

// AddressService handles the shipping addresses of users.
type AddressService struct {
	repo repositories.AddressRepository
}

func NewAddressService(repo repositories.AddressRepository) *AddressService {
	return &AddressService{repo: repo}
}

func (s *AddressService) ListAddresses(userID int) ([]models.Address, error) {
	return s.repo.GetByUserID(userID)
}

// CreateAddress stores an address for userID, ignoring any owner set on it.
func (s *AddressService) CreateAddress(userID int, address *models.Address) error {
	address.UserID = userID
	required := map[string]*string{
		"address_line1": &address.AddressLine1,
		"city":          &address.City,
		"postal_code":   &address.PostalCode,
		"country":       &address.Country,
	}
	fields := map[string]string{}
	for name, value := range required {
		*value = strings.TrimSpace(*value)
		if *value == "" {
			fields[name] = "This field is required"
		}
	}
	if len(fields) > 0 {
		return ValidationError("Invalid address data", fields)
	}
	return s.repo.Create(address)
}
