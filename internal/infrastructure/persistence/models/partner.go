package models

import (
	"github.com/shopledger/backend/internal/domain/partner"
)

// CustomerModel is the persistence model for customers
type CustomerModel struct {
	TenantAggregateModel
	Name    string `gorm:"type:varchar(200);not null"`
	Phone   string `gorm:"type:varchar(50);index"`
	Email   string `gorm:"type:varchar(200);index"`
	Address string `gorm:"type:text"`
	Notes   string `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (CustomerModel) TableName() string {
	return "customers"
}

// ToDomain converts the persistence model to a domain Customer
func (m *CustomerModel) ToDomain() *partner.Customer {
	return &partner.Customer{
		TenantAggregateRoot: m.ToDomainTenantAggregateRoot(),
		Name:                m.Name,
		Phone:               m.Phone,
		Email:               m.Email,
		Address:             m.Address,
		Notes:               m.Notes,
	}
}

// CustomerModelFromDomain creates a persistence model from a domain Customer
func CustomerModelFromDomain(c *partner.Customer) *CustomerModel {
	m := &CustomerModel{
		Name:    c.Name,
		Phone:   c.Phone,
		Email:   c.Email,
		Address: c.Address,
		Notes:   c.Notes,
	}
	m.FromDomainTenantAggregateRoot(c.TenantAggregateRoot)
	return m
}
