package domain

import "time"

// User Model
type User struct {
	ID           uint          `gorm:"primaryKey"`                                    // Primary key
	Username     string        `gorm:"size:80;uniqueIndex;not null"`                  // Unique username
	Email        string        `gorm:"size:120;uniqueIndex;not null"`                 // Unique email
	PasswordHash string        `gorm:"not null" json:"-"`                             // Hashed password, never serialized
	Currency     string        `gorm:"size:3"`                                        // ISO currency code, empty until set
	RoleID       uint          `gorm:"not null;index"`                                // Foreign key to Role
	Role         Role          `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"` // Exactly one role
	Transactions []Transaction `gorm:"constraint:OnDelete:CASCADE" json:"-"`          // Owned ledger rows
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// IsAdmin reports whether the loaded role is admin. A user whose role was not
// loaded is never an admin.
func (u *User) IsAdmin() bool {
	return u != nil && u.Role.Name == RoleAdmin
}

// RoleNames returns the role list carried in tokens (zero or one entries)
func (u *User) RoleNames() []string {
	if u.Role.Name == "" {
		return []string{}
	}
	return []string{u.Role.Name}
}

// UserView is the public representation of a user
type UserView struct {
	ID       uint     `json:"id"`       // User ID
	Username string   `json:"username"` // Username
	Email    string   `json:"email"`    // Email
	Currency string   `json:"currency"` // Currency preference
	Role     string   `json:"role"`     // Role name
	Roles    []string `json:"roles"`    // Role list, as carried in tokens
}

// View maps a user to its public representation
func (u *User) View() UserView {
	return UserView{
		ID:       u.ID,
		Username: u.Username,
		Email:    u.Email,
		Currency: u.Currency,
		Role:     u.Role.Name,
		Roles:    u.RoleNames(),
	}
}
