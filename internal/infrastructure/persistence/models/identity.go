package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/shopledger/backend/internal/domain/identity"
)

// ShopModel is the persistence model for the Shop tenant aggregate
type ShopModel struct {
	AggregateModel
	Name     string          `gorm:"type:varchar(200);not null"`
	Slug     string          `gorm:"type:varchar(100);not null;uniqueIndex"`
	Email    string          `gorm:"type:varchar(200)"`
	Phone    string          `gorm:"type:varchar(50)"`
	Address  string          `gorm:"type:text"`
	Currency string          `gorm:"type:varchar(3);not null;default:'USD'"`
	TaxRate  decimal.Decimal `gorm:"type:decimal(5,2);not null;default:0"`
	Active   bool            `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (ShopModel) TableName() string {
	return "shops"
}

// ToDomain converts the persistence model to a domain Shop
func (m *ShopModel) ToDomain() *identity.Shop {
	return &identity.Shop{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		Name:              m.Name,
		Slug:              m.Slug,
		Email:             m.Email,
		Phone:             m.Phone,
		Address:           m.Address,
		Currency:          m.Currency,
		TaxRate:           m.TaxRate,
		Active:            m.Active,
	}
}

// ShopModelFromDomain creates a persistence model from a domain Shop
func ShopModelFromDomain(s *identity.Shop) *ShopModel {
	m := &ShopModel{
		Name:     s.Name,
		Slug:     s.Slug,
		Email:    s.Email,
		Phone:    s.Phone,
		Address:  s.Address,
		Currency: s.Currency,
		TaxRate:  s.TaxRate,
		Active:   s.Active,
	}
	m.FromDomainAggregateRoot(s.BaseAggregateRoot)
	return m
}

// UserModel is the persistence model for user accounts. ShopID is null
// only for SUPER_ADMIN rows.
type UserModel struct {
	AggregateModel
	Email        string     `gorm:"type:varchar(200);not null;uniqueIndex"`
	PasswordHash string     `gorm:"type:varchar(200);not null"`
	Name         string     `gorm:"type:varchar(200)"`
	Role         string     `gorm:"type:varchar(20);not null;index"`
	ShopID       *uuid.UUID `gorm:"type:uuid;index"`
	Active       bool       `gorm:"not null;default:true"`
	LastLoginAt  *time.Time
}

// TableName returns the table name for GORM
func (UserModel) TableName() string {
	return "users"
}

// ToDomain converts the persistence model to a domain User
func (m *UserModel) ToDomain() *identity.User {
	return &identity.User{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		Email:             m.Email,
		PasswordHash:      m.PasswordHash,
		Name:              m.Name,
		Role:              identity.Role(m.Role),
		ShopID:            m.ShopID,
		Active:            m.Active,
		LastLoginAt:       m.LastLoginAt,
	}
}

// UserModelFromDomain creates a persistence model from a domain User
func UserModelFromDomain(u *identity.User) *UserModel {
	m := &UserModel{
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		Name:         u.Name,
		Role:         string(u.Role),
		ShopID:       u.ShopID,
		Active:       u.Active,
		LastLoginAt:  u.LastLoginAt,
	}
	m.FromDomainAggregateRoot(u.BaseAggregateRoot)
	return m
}
