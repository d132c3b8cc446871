package identity

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopledger/backend/internal/domain/shared"
)

// Role is the user's platform role. SUPER_ADMIN is the only role without a
// fixed shop binding; every other role is bound to exactly one shop at
// creation time.
type Role string

const (
	RoleSuperAdmin Role = "SUPER_ADMIN"
	RoleAdmin      Role = "ADMIN"
	RoleManager    Role = "MANAGER"
	RoleStaff      Role = "STAFF"
)

// IsValid checks if the role is a known role
func (r Role) IsValid() bool {
	switch r {
	case RoleSuperAdmin, RoleAdmin, RoleManager, RoleStaff:
		return true
	}
	return false
}

// String returns the string representation of the role
func (r Role) String() string {
	return string(r)
}

// RequiresShop reports whether the role must be bound to a shop
func (r Role) RequiresShop() bool {
	return r != RoleSuperAdmin
}

// User represents an account that can authenticate against the API.
// ShopID is nil only for SUPER_ADMIN users.
type User struct {
	shared.BaseAggregateRoot
	Email        string     `json:"email"`
	PasswordHash string     `json:"-"`
	Name         string     `json:"name"`
	Role         Role       `json:"role"`
	ShopID       *uuid.UUID `json:"shop_id"`
	Active       bool       `json:"active"`
	LastLoginAt  *time.Time `json:"last_login_at"`
}

// NewUser creates a new user. shopID must be nil for SUPER_ADMIN and non-nil
// for every other role; the binding is immutable afterwards.
func NewUser(email, passwordHash, name string, role Role, shopID *uuid.UUID) (*User, error) {
	email = NormalizeEmail(email)
	if email == "" || !strings.Contains(email, "@") {
		return nil, shared.NewDomainError("INVALID_EMAIL", "A valid email address is required")
	}
	if passwordHash == "" {
		return nil, shared.NewDomainError("INVALID_PASSWORD", "Password hash cannot be empty")
	}
	if !role.IsValid() {
		return nil, shared.NewDomainError("INVALID_ROLE", "Unknown role")
	}
	if role.RequiresShop() && (shopID == nil || *shopID == uuid.Nil) {
		return nil, shared.NewDomainError("INVALID_SHOP", "Role requires a shop binding")
	}
	if !role.RequiresShop() && shopID != nil {
		return nil, shared.NewDomainError("INVALID_SHOP", "SUPER_ADMIN cannot be bound to a shop")
	}

	return &User{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Email:             email,
		PasswordHash:      passwordHash,
		Name:              name,
		Role:              role,
		ShopID:            shopID,
		Active:            true,
	}, nil
}

// UpdateProfile updates the user's display name
func (u *User) UpdateProfile(name string) {
	u.Name = name
	u.UpdatedAt = time.Now()
	u.IncrementVersion()
}

// ChangeRole changes the user's role within the same shop binding.
// Moving a user across shops or to/from SUPER_ADMIN is not supported here.
func (u *User) ChangeRole(role Role) error {
	if !role.IsValid() {
		return shared.NewDomainError("INVALID_ROLE", "Unknown role")
	}
	if role.RequiresShop() != u.Role.RequiresShop() {
		return shared.NewDomainError("INVALID_ROLE", "Cannot change shop binding through a role change")
	}
	u.Role = role
	u.UpdatedAt = time.Now()
	u.IncrementVersion()
	return nil
}

// SetPasswordHash replaces the stored password hash
func (u *User) SetPasswordHash(hash string) error {
	if hash == "" {
		return shared.NewDomainError("INVALID_PASSWORD", "Password hash cannot be empty")
	}
	u.PasswordHash = hash
	u.UpdatedAt = time.Now()
	u.IncrementVersion()
	return nil
}

// RecordLogin stamps the last successful login time
func (u *User) RecordLogin(at time.Time) {
	u.LastLoginAt = &at
	u.UpdatedAt = at
}

// Deactivate disables the account without deleting it
func (u *User) Deactivate() {
	u.Active = false
	u.UpdatedAt = time.Now()
	u.IncrementVersion()
}

// Activate re-enables the account
func (u *User) Activate() {
	u.Active = true
	u.UpdatedAt = time.Now()
	u.IncrementVersion()
}

// BelongsTo reports whether the user is bound to the given shop
func (u *User) BelongsTo(shopID uuid.UUID) bool {
	return u.ShopID != nil && *u.ShopID == shopID
}

// NormalizeEmail lowercases and trims an email for case-insensitive matching
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
