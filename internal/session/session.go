// Package session keeps the signed-in user's token and profile on the device.
package session

import (
	"encoding/json"
	"log"

	"storefront/internal/models"
)

// Storage keys.
const (
	TokenKey = "auth_token"
	UserKey  = "user_data"
)

// Storage is a persistent string key-value store.
type Storage interface {
	// Get reports found=false for a missing key.
	Get(key string) (value string, found bool, err error)
	Set(key, value string) error
	Delete(keys ...string) error
}

// Cache reads and writes the auth session. Storage failures are logged and
// never returned: a failed read looks like an empty session and a failed
// write is a no-op.
type Cache struct {
	storage Storage
}

func New(storage Storage) *Cache {
	return &Cache{storage: storage}
}

func (c *Cache) SaveToken(token string) {
	if err := c.storage.Set(TokenKey, token); err != nil {
		log.Printf("session: failed to save token: %v", err)
	}
}

// GetToken returns the stored token, or "" when there is none.
func (c *Cache) GetToken() string {
	token, found, err := c.storage.Get(TokenKey)
	if err != nil {
		log.Printf("session: failed to read token: %v", err)
		return ""
	}
	if !found {
		return ""
	}
	return token
}

func (c *Cache) SaveUser(profile models.UserProfile) {
	data, err := json.Marshal(profile)
	if err != nil {
		log.Printf("session: failed to encode user: %v", err)
		return
	}
	if err := c.storage.Set(UserKey, string(data)); err != nil {
		log.Printf("session: failed to save user: %v", err)
	}
}

// GetUser returns the stored profile, or nil when there is none or it cannot be read.
func (c *Cache) GetUser() *models.UserProfile {
	data, found, err := c.storage.Get(UserKey)
	if err != nil {
		log.Printf("session: failed to read user: %v", err)
		return nil
	}
	if !found {
		return nil
	}
	var profile models.UserProfile
	if err := json.Unmarshal([]byte(data), &profile); err != nil {
		log.Printf("session: stored user is corrupt: %v", err)
		return nil
	}
	return &profile
}

// ClearAuthData removes both the token and the profile.
func (c *Cache) ClearAuthData() {
	if err := c.storage.Delete(TokenKey, UserKey); err != nil {
		log.Printf("session: failed to clear auth data: %v", err)
	}
}
