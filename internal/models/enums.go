package models

type PropertyType string

const (
	PropertyTypeApartment  PropertyType = "APARTMENT"
	PropertyTypeOfficetel  PropertyType = "OFFICETEL"
	PropertyTypeVilla      PropertyType = "VILLA"
	PropertyTypeStudio     PropertyType = "STUDIO"
	PropertyTypeCommercial PropertyType = "COMMERCIAL"
	PropertyTypeOffice     PropertyType = "OFFICE"
	PropertyTypeBuilding   PropertyType = "BUILDING"
	PropertyTypeLand       PropertyType = "LAND"
	PropertyTypeOther      PropertyType = "OTHER"
)

type PropertyStatus string

const (
	PropertyStatusOccupied    PropertyStatus = "OCCUPIED"
	PropertyStatusVacant      PropertyStatus = "VACANT"
	PropertyStatusMaintenance PropertyStatus = "MAINTENANCE"
	PropertyStatusForSale     PropertyStatus = "FOR_SALE"
)

type LeaseType string

const (
	LeaseTypeJeonse     LeaseType = "JEONSE"
	LeaseTypeMonthly    LeaseType = "MONTHLY"
	LeaseTypeHalfJeonse LeaseType = "HALF_JEONSE"
)

type LeaseStatus string

const (
	LeaseStatusActive     LeaseStatus = "ACTIVE"
	LeaseStatusExpired    LeaseStatus = "EXPIRED"
	LeaseStatusTerminated LeaseStatus = "TERMINATED"
	LeaseStatusPending    LeaseStatus = "PENDING"
)

// Valid reports whether s is one of the known lease statuses.
func (s LeaseStatus) Valid() bool {
	switch s {
	case LeaseStatusActive, LeaseStatusExpired, LeaseStatusTerminated, LeaseStatusPending:
		return true
	}
	return false
}

// Ended reports whether the status closes the lease.
func (s LeaseStatus) Ended() bool {
	return s == LeaseStatusExpired || s == LeaseStatusTerminated
}

type PaymentStatus string

const (
	PaymentStatusPaid    PaymentStatus = "PAID"
	PaymentStatusPending PaymentStatus = "PENDING"
	PaymentStatusPartial PaymentStatus = "PARTIAL"
	PaymentStatusOverdue PaymentStatus = "OVERDUE"
)

func (s PaymentStatus) Valid() bool {
	switch s {
	case PaymentStatusPaid, PaymentStatusPending, PaymentStatusPartial, PaymentStatusOverdue:
		return true
	}
	return false
}

type PaymentMethod string

const (
	PaymentMethodTransfer     PaymentMethod = "TRANSFER"
	PaymentMethodCash         PaymentMethod = "CASH"
	PaymentMethodCard         PaymentMethod = "CARD"
	PaymentMethodAutoTransfer PaymentMethod = "AUTO_TRANSFER"
)

type ExpenseType string

const (
	ExpenseTypePropertyTax   ExpenseType = "PROPERTY_TAX"
	ExpenseTypeIncomeTax     ExpenseType = "INCOME_TAX"
	ExpenseTypeMaintenance   ExpenseType = "MAINTENANCE"
	ExpenseTypeInsurance     ExpenseType = "INSURANCE"
	ExpenseTypeManagementFee ExpenseType = "MANAGEMENT_FEE"
	ExpenseTypeLoanInterest  ExpenseType = "LOAN_INTEREST"
	ExpenseTypeVacancyCost   ExpenseType = "VACANCY_COST"
	ExpenseTypeAgentFee      ExpenseType = "AGENT_FEE"
	ExpenseTypeOther         ExpenseType = "OTHER"
)

// ExpenseTypes lists the expense categories in display order.
var ExpenseTypes = []ExpenseType{
	ExpenseTypePropertyTax,
	ExpenseTypeIncomeTax,
	ExpenseTypeMaintenance,
	ExpenseTypeInsurance,
	ExpenseTypeManagementFee,
	ExpenseTypeLoanInterest,
	ExpenseTypeVacancyCost,
	ExpenseTypeAgentFee,
	ExpenseTypeOther,
}
