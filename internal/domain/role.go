package domain

// Role names seeded at startup
const (
	RoleUser  = "user"  // Default role for registered users
	RoleAdmin = "admin" // Full access to users and transactions
)

// DefaultRoles lists the roles the registry must contain
var DefaultRoles = []string{RoleUser, RoleAdmin}

// Role Model
type Role struct {
	ID   uint   `gorm:"primaryKey" json:"id"`                     // Primary key
	Name string `gorm:"size:32;uniqueIndex;not null" json:"name"` // Role name
}
