package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Lease binds a property to a tenant for an inclusive date range
type Lease struct {
	ID            uint             `gorm:"primaryKey" json:"id"`
	PropertyID    uint             `gorm:"index;not null" json:"propertyId"`
	Property      *Property        `gorm:"foreignKey:PropertyID" json:"property,omitempty"`
	TenantID      uint             `gorm:"index;not null" json:"tenantId"`
	Tenant        *Tenant          `gorm:"foreignKey:TenantID" json:"tenant,omitempty"`
	Floor         string           `gorm:"size:20" json:"floor,omitempty"`
	AreaPyeong    *decimal.Decimal `gorm:"type:decimal(10,2)" json:"areaPyeong,omitempty"`
	LeaseType     LeaseType        `gorm:"size:20;not null" json:"leaseType"`
	Deposit       decimal.Decimal  `gorm:"type:decimal(15,2);not null;default:0" json:"deposit"`
	MonthlyRent   decimal.Decimal  `gorm:"type:decimal(15,2);not null;default:0" json:"monthlyRent"`
	ManagementFee decimal.Decimal  `gorm:"type:decimal(15,2);not null;default:0" json:"managementFee"`
	HasVat        bool             `gorm:"not null;default:false" json:"hasVat"`
	StartDate     time.Time        `gorm:"not null" json:"startDate"`
	EndDate       time.Time        `gorm:"not null" json:"endDate"`
	RentDueDay    int              `gorm:"not null;default:1" json:"rentDueDay"`
	Status        LeaseStatus      `gorm:"size:20;not null;default:ACTIVE;index" json:"status"`
	Memo          string           `gorm:"type:text" json:"memo,omitempty"`
	CreatedAt     time.Time        `json:"createdAt"`
	UpdatedAt     time.Time        `json:"updatedAt"`

	RentPayments []RentPayment `gorm:"foreignKey:LeaseID" json:"rentPayments,omitempty"`
}

// RentPayment is the obligation for one lease and one calendar month.
// (LeaseID, PaymentYear, PaymentMonth) is unique.
type RentPayment struct {
	ID                  uint            `gorm:"primaryKey" json:"id"`
	LeaseID             uint            `gorm:"not null;uniqueIndex:idx_rent_payment_period,priority:1" json:"leaseId"`
	Lease               *Lease          `gorm:"foreignKey:LeaseID" json:"lease,omitempty"`
	PaymentYear         int             `gorm:"not null;uniqueIndex:idx_rent_payment_period,priority:2" json:"paymentYear"`
	PaymentMonth        int             `gorm:"not null;uniqueIndex:idx_rent_payment_period,priority:3" json:"paymentMonth"`
	DueDate             time.Time       `gorm:"not null;index" json:"dueDate"`
	PaymentDate         *time.Time      `json:"paymentDate,omitempty"`
	RentAmount          decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0" json:"rentAmount"`
	ManagementFeeAmount decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0" json:"managementFeeAmount"`
	TotalAmount         decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0" json:"totalAmount"`
	PaymentMethod       *PaymentMethod  `gorm:"size:20" json:"paymentMethod,omitempty"`
	RentStatus          PaymentStatus   `gorm:"size:20;not null;default:PENDING;index" json:"rentStatus"`
	ManagementFeeStatus PaymentStatus   `gorm:"size:20;not null;default:PENDING" json:"managementFeeStatus"`
	Memo                string          `gorm:"type:text" json:"memo,omitempty"`
	CreatedAt           time.Time       `json:"createdAt"`
	UpdatedAt           time.Time       `json:"updatedAt"`
}

// Expense is a cost booked against a property
type Expense struct {
	ID             uint            `gorm:"primaryKey" json:"id"`
	PropertyID     uint            `gorm:"index;not null" json:"propertyId"`
	Property       *Property       `gorm:"foreignKey:PropertyID" json:"property,omitempty"`
	ExpenseType    ExpenseType     `gorm:"size:20;not null" json:"expenseType"`
	Amount         decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"amount"`
	ExpenseDate    time.Time       `gorm:"not null;index" json:"expenseDate"`
	Description    string          `gorm:"size:500" json:"description,omitempty"`
	IsRecurring    bool            `gorm:"not null;default:false" json:"isRecurring"`
	RecurringMonth *int            `json:"recurringMonth,omitempty"`
	Memo           string          `gorm:"type:text" json:"memo,omitempty"`
	CreatedAt      time.Time       `json:"createdAt"`
	UpdatedAt      time.Time       `json:"updatedAt"`
}

// PropertyValuation is an immutable profitability snapshot. Rows are only
// ever inserted or deleted.
type PropertyValuation struct {
	ID              uint            `gorm:"primaryKey" json:"id"`
	PropertyID      uint            `gorm:"index;not null" json:"propertyId"`
	Property        *Property       `gorm:"foreignKey:PropertyID" json:"property,omitempty"`
	AnnualRent      decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"annualRent"`
	TotalDeposit    decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"totalDeposit"`
	AnnualExpense   decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"annualExpense"`
	NetIncome       decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"netIncome"`
	TotalInvestment decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"totalInvestment"`
	GrossYield      decimal.Decimal `gorm:"type:decimal(20,2);not null" json:"grossYield"`
	NetYield        decimal.Decimal `gorm:"type:decimal(20,2);not null" json:"netYield"`
	CashOnCash      decimal.Decimal `gorm:"type:decimal(20,2);not null" json:"cashOnCash"`
	TargetYield     decimal.Decimal `gorm:"type:decimal(7,2);not null" json:"targetYield"`
	SuggestedPrice  decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"suggestedPrice"`
	ExpectedProfit  decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"expectedProfit"`
	Memo            string          `gorm:"type:text" json:"memo,omitempty"`
	CalculatedAt    time.Time       `gorm:"not null;index" json:"calculatedAt"`
}
