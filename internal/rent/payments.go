package rent

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"rentfolio/internal/apperr"
	"rentfolio/internal/models"
	"rentfolio/internal/store"
)

// PaymentStore is the persistence Payments needs.
type PaymentStore interface {
	FindLease(ctx context.Context, ownerID, leaseID uint) (*models.Lease, error)
	CreatePayment(ctx context.Context, payment *models.RentPayment) error
	FindPayment(ctx context.Context, ownerID, paymentID uint) (*models.RentPayment, error)
	UpdatePayment(ctx context.Context, paymentID uint, fields map[string]interface{}) error
	DeletePayment(ctx context.Context, paymentID uint) error
	ListPayments(ctx context.Context, ownerID uint, f store.PaymentFilter) ([]models.RentPayment, error)
}

// CreatePaymentInput is a hand-entered payment record.
type CreatePaymentInput struct {
	LeaseID             uint                  `json:"leaseId" binding:"required"`
	PaymentYear         int                   `json:"paymentYear" binding:"required"`
	PaymentMonth        int                   `json:"paymentMonth" binding:"required,min=1,max=12"`
	DueDate             time.Time             `json:"dueDate" binding:"required"`
	PaymentDate         *time.Time            `json:"paymentDate"`
	RentAmount          decimal.Decimal       `json:"rentAmount"`
	ManagementFeeAmount decimal.Decimal       `json:"managementFeeAmount"`
	PaymentMethod       *models.PaymentMethod `json:"paymentMethod"`
	RentStatus          models.PaymentStatus  `json:"rentStatus"`
	ManagementFeeStatus models.PaymentStatus  `json:"managementFeeStatus"`
	Memo                string                `json:"memo"`
}

// UpdatePaymentInput changes the fields that are set.
type UpdatePaymentInput struct {
	DueDate             *time.Time            `json:"dueDate"`
	PaymentDate         *time.Time            `json:"paymentDate"`
	RentAmount          *decimal.Decimal      `json:"rentAmount"`
	ManagementFeeAmount *decimal.Decimal      `json:"managementFeeAmount"`
	PaymentMethod       *models.PaymentMethod `json:"paymentMethod"`
	RentStatus          *models.PaymentStatus `json:"rentStatus"`
	ManagementFeeStatus *models.PaymentStatus `json:"managementFeeStatus"`
	Memo                *string               `json:"memo"`
}

// StatusInput records a payment event. PaymentDate defaults to now.
type StatusInput struct {
	RentStatus          *models.PaymentStatus `json:"rentStatus"`
	ManagementFeeStatus *models.PaymentStatus `json:"managementFeeStatus"`
	PaymentDate         *time.Time            `json:"paymentDate"`
}

// Payments manages individual rent payment records.
type Payments struct {
	store PaymentStore
	log   *zap.Logger
}

func NewPayments(store PaymentStore, log *zap.Logger) *Payments {
	return &Payments{store: store, log: log}
}

// Create records a payment for one of the owner's leases. The total is always
// rent plus management fee.
func (p *Payments) Create(ctx context.Context, ownerID uint, in CreatePaymentInput) (*models.RentPayment, error) {
	if _, err := p.store.FindLease(ctx, ownerID, in.LeaseID); err != nil {
		return nil, err
	}
	if err := validStatuses(&in.RentStatus, &in.ManagementFeeStatus); err != nil {
		return nil, err
	}

	payment := &models.RentPayment{
		LeaseID:             in.LeaseID,
		PaymentYear:         in.PaymentYear,
		PaymentMonth:        in.PaymentMonth,
		DueDate:             in.DueDate,
		PaymentDate:         in.PaymentDate,
		RentAmount:          in.RentAmount,
		ManagementFeeAmount: in.ManagementFeeAmount,
		TotalAmount:         in.RentAmount.Add(in.ManagementFeeAmount),
		PaymentMethod:       in.PaymentMethod,
		RentStatus:          orPending(in.RentStatus),
		ManagementFeeStatus: orPending(in.ManagementFeeStatus),
		Memo:                in.Memo,
	}
	if err := p.store.CreatePayment(ctx, payment); err != nil {
		return nil, err
	}
	return p.store.FindPayment(ctx, ownerID, payment.ID)
}

// Update changes a payment and recomputes its total from the new or
// existing amounts.
func (p *Payments) Update(ctx context.Context, ownerID, paymentID uint, in UpdatePaymentInput) (*models.RentPayment, error) {
	existing, err := p.store.FindPayment(ctx, ownerID, paymentID)
	if err != nil {
		return nil, err
	}
	if err := validStatuses(in.RentStatus, in.ManagementFeeStatus); err != nil {
		return nil, err
	}

	rent, fee := existing.RentAmount, existing.ManagementFeeAmount
	fields := map[string]interface{}{}
	if in.RentAmount != nil {
		rent = *in.RentAmount
		fields["rent_amount"] = rent
	}
	if in.ManagementFeeAmount != nil {
		fee = *in.ManagementFeeAmount
		fields["management_fee_amount"] = fee
	}
	fields["total_amount"] = rent.Add(fee)

	if in.DueDate != nil {
		fields["due_date"] = *in.DueDate
	}
	if in.PaymentDate != nil {
		fields["payment_date"] = *in.PaymentDate
	}
	if in.PaymentMethod != nil {
		fields["payment_method"] = *in.PaymentMethod
	}
	if in.RentStatus != nil {
		fields["rent_status"] = *in.RentStatus
	}
	if in.ManagementFeeStatus != nil {
		fields["management_fee_status"] = *in.ManagementFeeStatus
	}
	if in.Memo != nil {
		fields["memo"] = *in.Memo
	}

	if err := p.store.UpdatePayment(ctx, paymentID, fields); err != nil {
		return nil, err
	}
	return p.store.FindPayment(ctx, ownerID, paymentID)
}

// UpdateStatus sets the rent and fee statuses and stamps the payment date.
func (p *Payments) UpdateStatus(ctx context.Context, ownerID, paymentID uint, in StatusInput, now time.Time) (*models.RentPayment, error) {
	if _, err := p.store.FindPayment(ctx, ownerID, paymentID); err != nil {
		return nil, err
	}
	if err := validStatuses(in.RentStatus, in.ManagementFeeStatus); err != nil {
		return nil, err
	}

	paidAt := now
	if in.PaymentDate != nil {
		paidAt = *in.PaymentDate
	}
	fields := map[string]interface{}{"payment_date": paidAt}
	if in.RentStatus != nil {
		fields["rent_status"] = *in.RentStatus
	}
	if in.ManagementFeeStatus != nil {
		fields["management_fee_status"] = *in.ManagementFeeStatus
	}

	if err := p.store.UpdatePayment(ctx, paymentID, fields); err != nil {
		return nil, err
	}
	p.log.Info("payment status changed",
		zap.Uint("owner_id", ownerID),
		zap.Uint("payment_id", paymentID),
		zap.Any("fields", fields),
	)
	return p.store.FindPayment(ctx, ownerID, paymentID)
}

// Delete removes one of the owner's payments.
func (p *Payments) Delete(ctx context.Context, ownerID, paymentID uint) error {
	if _, err := p.store.FindPayment(ctx, ownerID, paymentID); err != nil {
		return err
	}
	return p.store.DeletePayment(ctx, paymentID)
}

func (p *Payments) Get(ctx context.Context, ownerID, paymentID uint) (*models.RentPayment, error) {
	return p.store.FindPayment(ctx, ownerID, paymentID)
}

func (p *Payments) List(ctx context.Context, ownerID uint, f store.PaymentFilter) ([]models.RentPayment, error) {
	if f.Status != nil && !f.Status.Valid() {
		return nil, apperr.InvalidInput("unknown payment status %q", *f.Status)
	}
	return p.store.ListPayments(ctx, ownerID, f)
}

func orPending(s models.PaymentStatus) models.PaymentStatus {
	if s == "" {
		return models.PaymentStatusPending
	}
	return s
}

func validStatuses(statuses ...*models.PaymentStatus) error {
	for _, s := range statuses {
		if s != nil && *s != "" && !s.Valid() {
			return apperr.InvalidInput("unknown payment status %q", *s)
		}
	}
	return nil
}
