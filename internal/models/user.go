package models

import "time"

// User represents a registered customer of the store.
type User struct {
	ID        int       `json:"id" gorm:"primaryKey;autoIncrement"`
	Email     string    `json:"email" gorm:"uniqueIndex;type:varchar(255)"`
	Password  string    `json:"password,omitempty" gorm:"type:varchar(255)"` // bcrypt hash, stripped from API responses
	FirstName string    `json:"first_name" gorm:"type:varchar(100)"`
	LastName  string    `json:"last_name" gorm:"type:varchar(100)"`
	Phone     *string   `json:"phone" gorm:"type:varchar(30)"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

// Public returns a copy of the user that is safe to send to clients.
func (u User) Public() User {
	u.Password = ""
	return u
}

// UserProfile is the identity resolved from a session token.
type UserProfile struct {
	Sub   int    `json:"sub"`
	Email string `json:"email"`
	Iat   int64  `json:"iat,omitempty"`
	Exp   int64  `json:"exp,omitempty"`
}

// Expired reports whether the profile carries an expiry that lies before now.
func (p UserProfile) Expired(now time.Time) bool {
	return p.Exp > 0 && now.Unix() >= p.Exp
}
