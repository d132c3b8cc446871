package identity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/shopledger/backend/internal/domain/identity"
	"github.com/shopledger/backend/internal/infrastructure/auth"
)

// =============================================================================
// Auth DTOs
// =============================================================================

// LoginRequest represents a login attempt
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email,max=200"`
	Password string `json:"password" binding:"required,min=8,max=72"`
}

// RegisterRequest represents platform registration: a new shop with its
// first ADMIN user.
type RegisterRequest struct {
	ShopName string `json:"shop_name" binding:"required,min=1,max=200"`
	ShopSlug string `json:"shop_slug" binding:"omitempty,min=1,max=100"`
	Email    string `json:"email" binding:"required,email,max=200"`
	Password string `json:"password" binding:"required,min=8,max=72"`
	Name     string `json:"name" binding:"required,min=1,max=100"`
}

// ChangePasswordRequest represents a password change for the current user
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required,min=8,max=72"`
}

// AuthResponse carries the authenticated user and their credentials
type AuthResponse struct {
	User   UserResponse    `json:"user"`
	Tokens *auth.TokenPair `json:"tokens"`
}

// =============================================================================
// User DTOs
// =============================================================================

// CreateUserRequest represents a request to create a user. ShopID is only
// honored for SUPER_ADMIN callers; shop admins always create into their own
// shop.
type CreateUserRequest struct {
	Email    string     `json:"email" binding:"required,email,max=200"`
	Password string     `json:"password" binding:"required,min=8,max=72"`
	Name     string     `json:"name" binding:"required,min=1,max=100"`
	Role     string     `json:"role" binding:"required,oneof=SUPER_ADMIN ADMIN MANAGER STAFF"`
	ShopID   *uuid.UUID `json:"shop_id"`
}

// UpdateUserRequest represents a partial update of a user
type UpdateUserRequest struct {
	Name   *string `json:"name" binding:"omitempty,min=1,max=100"`
	Role   *string `json:"role" binding:"omitempty,oneof=ADMIN MANAGER STAFF"`
	Active *bool   `json:"active"`
}

// ResetPasswordRequest represents an administrative password reset
type ResetPasswordRequest struct {
	Password string `json:"password" binding:"required,min=8,max=72"`
}

// UserResponse represents a user in API responses
type UserResponse struct {
	ID          uuid.UUID  `json:"id"`
	Email       string     `json:"email"`
	Name        string     `json:"name"`
	Role        string     `json:"role"`
	ShopID      *uuid.UUID `json:"shop_id"`
	Active      bool       `json:"active"`
	LastLoginAt *time.Time `json:"last_login_at"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// ToUserResponse converts a domain user to its API representation
func ToUserResponse(u *identity.User) UserResponse {
	return UserResponse{
		ID:          u.ID,
		Email:       u.Email,
		Name:        u.Name,
		Role:        string(u.Role),
		ShopID:      u.ShopID,
		Active:      u.Active,
		LastLoginAt: u.LastLoginAt,
		CreatedAt:   u.CreatedAt,
		UpdatedAt:   u.UpdatedAt,
	}
}

// =============================================================================
// Shop DTOs
// =============================================================================

// CreateShopRequest represents a request to create a shop
type CreateShopRequest struct {
	Name string `json:"name" binding:"required,min=1,max=200"`
	Slug string `json:"slug" binding:"omitempty,min=1,max=100"`
}

// UpdateShopRequest represents a partial update of a shop profile
type UpdateShopRequest struct {
	Name     *string          `json:"name" binding:"omitempty,min=1,max=200"`
	Email    *string          `json:"email" binding:"omitempty,email,max=200"`
	Phone    *string          `json:"phone" binding:"omitempty,max=50"`
	Address  *string          `json:"address" binding:"omitempty,max=500"`
	Currency *string          `json:"currency" binding:"omitempty,len=3"`
	TaxRate  *decimal.Decimal `json:"tax_rate"`
	Active   *bool            `json:"active"`
}

// ShopResponse represents a shop in API responses
type ShopResponse struct {
	ID        uuid.UUID       `json:"id"`
	Name      string          `json:"name"`
	Slug      string          `json:"slug"`
	Email     string          `json:"email"`
	Phone     string          `json:"phone"`
	Address   string          `json:"address"`
	Currency  string          `json:"currency"`
	TaxRate   decimal.Decimal `json:"tax_rate"`
	Active    bool            `json:"active"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// ToShopResponse converts a domain shop to its API representation
func ToShopResponse(s *identity.Shop) ShopResponse {
	return ShopResponse{
		ID:        s.ID,
		Name:      s.Name,
		Slug:      s.Slug,
		Email:     s.Email,
		Phone:     s.Phone,
		Address:   s.Address,
		Currency:  s.Currency,
		TaxRate:   s.TaxRate,
		Active:    s.Active,
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
	}
}

// ShopListFilter represents filter options for the shop list
type ShopListFilter struct {
	Search   string `form:"search"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// UserListFilter represents filter options for the user list
type UserListFilter struct {
	Search   string `form:"search"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
}
