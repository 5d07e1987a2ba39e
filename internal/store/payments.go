package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"rentfolio/internal/apperr"
	"rentfolio/internal/models"
)

// paymentPeriod is the unique key of rent_payments.
var paymentPeriod = []clause.Column{
	{Name: "lease_id"},
	{Name: "payment_year"},
	{Name: "payment_month"},
}

// paymentBatchSize keeps each INSERT well under the bind parameter limits of
// postgres and sqlite.
const paymentBatchSize = 500

// PaymentFilter narrows ListPayments. Nil fields are ignored.
type PaymentFilter struct {
	LeaseID    *uint
	PropertyID *uint
	Year       *int
	Month      *int
	Status     *models.PaymentStatus
}

// InsertMissingPayments inserts the given rows in one transaction, in batches
// of paymentBatchSize, skipping any whose (lease, year, month) already
// exists. It returns the number of rows actually inserted.
func (s *Store) InsertMissingPayments(ctx context.Context, payments []models.RentPayment) (int64, error) {
	if len(payments) == 0 {
		return 0, nil
	}

	var inserted int64
	err := s.query(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Clauses(clause.OnConflict{Columns: paymentPeriod, DoNothing: true}).CreateInBatches(&payments, paymentBatchSize)
		if res.Error != nil {
			return res.Error
		}
		inserted = res.RowsAffected
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("failed to insert rent payments: %w", err)
	}
	return inserted, nil
}

// CreatePayment inserts a single payment. A payment for the same lease and
// month yields apperr.ErrConflict.
func (s *Store) CreatePayment(ctx context.Context, payment *models.RentPayment) error {
	var existing int64
	err := s.query(ctx).Model(&models.RentPayment{}).
		Where("lease_id = ? AND payment_year = ? AND payment_month = ?",
			payment.LeaseID, payment.PaymentYear, payment.PaymentMonth).
		Count(&existing).Error
	if err != nil {
		return fmt.Errorf("failed to check rent payment period: %w", err)
	}
	if existing > 0 {
		return apperr.Conflict("rent payment for lease %d %04d-%02d already exists",
			payment.LeaseID, payment.PaymentYear, payment.PaymentMonth)
	}

	if err := s.query(ctx).Create(payment).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return apperr.Conflict("rent payment for lease %d %04d-%02d already exists",
				payment.LeaseID, payment.PaymentYear, payment.PaymentMonth)
		}
		return fmt.Errorf("failed to create rent payment: %w", err)
	}
	return nil
}

// FindPayment loads a payment on one of the owner's leases, with its lease,
// property and tenant.
func (s *Store) FindPayment(ctx context.Context, ownerID, paymentID uint) (*models.RentPayment, error) {
	var payment models.RentPayment
	err := s.query(ctx).
		Preload("Lease.Property").
		Preload("Lease.Tenant").
		Where("id = ? AND lease_id IN (?)", paymentID, s.ownedLeaseIDs(ownerID)).
		First(&payment).Error
	if err != nil {
		return nil, notFound(err, "rent payment", paymentID)
	}
	return &payment, nil
}

// UpdatePayment writes the given columns of a payment.
func (s *Store) UpdatePayment(ctx context.Context, paymentID uint, fields map[string]interface{}) error {
	err := s.query(ctx).Model(&models.RentPayment{}).
		Where("id = ?", paymentID).
		Updates(fields).Error
	if err != nil {
		return fmt.Errorf("failed to update rent payment %d: %w", paymentID, err)
	}
	return nil
}

// DeletePayment removes a single payment row.
func (s *Store) DeletePayment(ctx context.Context, paymentID uint) error {
	if err := s.query(ctx).Delete(&models.RentPayment{}, paymentID).Error; err != nil {
		return fmt.Errorf("failed to delete rent payment %d: %w", paymentID, err)
	}
	return nil
}

// ListPayments returns the owner's payments, newest period first.
func (s *Store) ListPayments(ctx context.Context, ownerID uint, f PaymentFilter) ([]models.RentPayment, error) {
	q := s.query(ctx).
		Preload("Lease.Property").
		Preload("Lease.Tenant").
		Where("lease_id IN (?)", s.ownedLeaseIDs(ownerID))

	if f.LeaseID != nil {
		q = q.Where("lease_id = ?", *f.LeaseID)
	}
	if f.PropertyID != nil {
		q = q.Where("lease_id IN (?)", s.db.Session(&gorm.Session{NewDB: true}).
			Model(&models.Lease{}).
			Select("id").
			Where("property_id = ?", *f.PropertyID))
	}
	if f.Year != nil {
		q = q.Where("payment_year = ?", *f.Year)
	}
	if f.Month != nil {
		q = q.Where("payment_month = ?", *f.Month)
	}
	if f.Status != nil {
		q = q.Where("rent_status = ?", *f.Status)
	}

	var payments []models.RentPayment
	err := q.Order("payment_year DESC").Order("payment_month DESC").Order("id").Find(&payments).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list rent payments: %w", err)
	}
	return payments, nil
}

// OverdueCandidates returns the owner's payments due before now whose rent is
// PENDING or OVERDUE, earliest due date first.
func (s *Store) OverdueCandidates(ctx context.Context, ownerID uint, now time.Time) ([]models.RentPayment, error) {
	var payments []models.RentPayment
	err := s.query(ctx).
		Preload("Lease.Property").
		Preload("Lease.Tenant").
		Where("lease_id IN (?)", s.ownedLeaseIDs(ownerID)).
		Where("due_date < ?", now.UTC()).
		Where("rent_status IN ?", []models.PaymentStatus{models.PaymentStatusPending, models.PaymentStatusOverdue}).
		Order("due_date ASC").
		Order("id ASC").
		Find(&payments).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load overdue candidates: %w", err)
	}
	return payments, nil
}

// MarkOverdue flips the given payments from PENDING to OVERDUE. Rows in any
// other status are left alone.
func (s *Store) MarkOverdue(ctx context.Context, ids []uint) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	res := s.query(ctx).Model(&models.RentPayment{}).
		Where("id IN ? AND rent_status = ?", ids, models.PaymentStatusPending).
		Update("rent_status", models.PaymentStatusOverdue)
	if res.Error != nil {
		return 0, fmt.Errorf("failed to mark payments overdue: %w", res.Error)
	}
	return res.RowsAffected, nil
}

// PaidPayments returns the PAID payments of a property for the given payment year.
func (s *Store) PaidPayments(ctx context.Context, propertyID uint, year int) ([]models.RentPayment, error) {
	var payments []models.RentPayment
	err := s.query(ctx).
		Where("lease_id IN (?)", s.db.Session(&gorm.Session{NewDB: true}).
			Model(&models.Lease{}).
			Select("id").
			Where("property_id = ?", propertyID)).
		Where("rent_status = ?", models.PaymentStatusPaid).
		Where("payment_year = ?", year).
		Find(&payments).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load paid payments of property %d: %w", propertyID, err)
	}
	return payments, nil
}
