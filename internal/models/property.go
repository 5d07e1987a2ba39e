package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// User owns properties. Every lookup in the service layer is scoped by OwnerID.
type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Email     string    `gorm:"uniqueIndex;size:255;not null" json:"email"`
	Name      string    `gorm:"size:100;not null" json:"name"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Property represents a real estate asset held by an owner
type Property struct {
	ID               uint             `gorm:"primaryKey" json:"id"`
	OwnerID          uint             `gorm:"index;not null" json:"ownerId"`
	Owner            *User            `gorm:"foreignKey:OwnerID" json:"-"`
	Name             string           `gorm:"size:200;not null" json:"name"`
	PropertyType     PropertyType     `gorm:"size:20;not null;default:OTHER" json:"propertyType"`
	Address          string           `gorm:"size:500" json:"address"`
	AddressDetail    string           `gorm:"size:200" json:"addressDetail,omitempty"`
	Area             decimal.Decimal  `gorm:"type:decimal(10,2);not null;default:0" json:"area"`
	PurchasePrice    decimal.Decimal  `gorm:"type:decimal(15,2);not null" json:"purchasePrice"`
	PurchaseDate     time.Time        `gorm:"not null" json:"purchaseDate"`
	AcquisitionCost  decimal.Decimal  `gorm:"type:decimal(15,2);not null;default:0" json:"acquisitionCost"`
	LoanAmount       decimal.Decimal  `gorm:"type:decimal(15,2);not null;default:0" json:"loanAmount"`
	LoanInterestRate decimal.Decimal  `gorm:"type:decimal(5,2);not null;default:0" json:"loanInterestRate"`
	CurrentValue     *decimal.Decimal `gorm:"type:decimal(15,2)" json:"currentValue,omitempty"`
	Status           PropertyStatus   `gorm:"size:20;not null;default:VACANT;index" json:"status"`
	Memo             string           `gorm:"type:text" json:"memo,omitempty"`
	CreatedAt        time.Time        `json:"createdAt"`
	UpdatedAt        time.Time        `json:"updatedAt"`

	Leases []Lease `gorm:"foreignKey:PropertyID" json:"leases,omitempty"`
}

// MarketValue is the current value, falling back to the purchase price when unset.
func (p Property) MarketValue() decimal.Decimal {
	if p.CurrentValue == nil {
		return p.PurchasePrice
	}
	return *p.CurrentValue
}

// Tenant represents a person renting space under one or more leases
type Tenant struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:100;not null" json:"name"`
	Phone     string    `gorm:"size:30" json:"phone,omitempty"`
	Email     string    `gorm:"size:255" json:"email,omitempty"`
	Memo      string    `gorm:"type:text" json:"memo,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	Leases []Lease `gorm:"foreignKey:TenantID" json:"leases,omitempty"`
}
