package leasing

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"rentfolio/internal/apperr"
	"rentfolio/internal/models"
	"rentfolio/internal/store"
)

// CreateLeaseInput describes a new lease on one of the owner's properties.
type CreateLeaseInput struct {
	PropertyID    uint             `json:"propertyId" binding:"required"`
	TenantID      uint             `json:"tenantId" binding:"required"`
	Floor         string           `json:"floor"`
	AreaPyeong    *decimal.Decimal `json:"areaPyeong"`
	LeaseType     models.LeaseType `json:"leaseType" binding:"required"`
	Deposit       decimal.Decimal  `json:"deposit"`
	MonthlyRent   decimal.Decimal  `json:"monthlyRent"`
	ManagementFee decimal.Decimal  `json:"managementFee"`
	HasVat        bool             `json:"hasVat"`
	StartDate     time.Time        `json:"startDate" binding:"required"`
	EndDate       time.Time        `json:"endDate" binding:"required"`
	RentDueDay    int              `json:"rentDueDay"`
	Memo          string           `json:"memo"`
}

// UpdateLeaseInput changes the lease terms that are set. Status has its own
// operation.
type UpdateLeaseInput struct {
	Floor         *string           `json:"floor"`
	AreaPyeong    *decimal.Decimal  `json:"areaPyeong"`
	LeaseType     *models.LeaseType `json:"leaseType"`
	Deposit       *decimal.Decimal  `json:"deposit"`
	MonthlyRent   *decimal.Decimal  `json:"monthlyRent"`
	ManagementFee *decimal.Decimal  `json:"managementFee"`
	HasVat        *bool             `json:"hasVat"`
	StartDate     *time.Time        `json:"startDate"`
	EndDate       *time.Time        `json:"endDate"`
	RentDueDay    *int              `json:"rentDueDay"`
	Memo          *string           `json:"memo"`
}

// RenewLeaseInput carries the new term. Unset amounts and due day are copied
// from the old lease.
type RenewLeaseInput struct {
	Deposit       *decimal.Decimal `json:"deposit"`
	MonthlyRent   *decimal.Decimal `json:"monthlyRent"`
	ManagementFee *decimal.Decimal `json:"managementFee"`
	StartDate     time.Time        `json:"startDate" binding:"required"`
	EndDate       time.Time        `json:"endDate" binding:"required"`
	RentDueDay    *int             `json:"rentDueDay"`
}

// Service runs lease, property and tenant writes that span several tables.
// Each operation is a single transaction.
type Service struct {
	store *store.Store
	log   *zap.Logger
}

func NewService(store *store.Store, log *zap.Logger) *Service {
	return &Service{store: store, log: log}
}

// CreateLease adds a lease and marks the property OCCUPIED.
func (s *Service) CreateLease(ctx context.Context, ownerID uint, in CreateLeaseInput) (*models.Lease, error) {
	dueDay := in.RentDueDay
	if dueDay == 0 {
		dueDay = 1
	}
	if dueDay < 1 || dueDay > 31 {
		return nil, apperr.InvalidInput("rent due day must be between 1 and 31")
	}

	var leaseID uint
	err := s.store.Transaction(ctx, func(tx *store.Store) error {
		property, err := tx.FindProperty(ctx, ownerID, in.PropertyID)
		if err != nil {
			return err
		}
		if _, err := tx.FindTenant(ctx, in.TenantID); err != nil {
			return err
		}

		lease := &models.Lease{
			PropertyID:    property.ID,
			TenantID:      in.TenantID,
			Floor:         in.Floor,
			AreaPyeong:    in.AreaPyeong,
			LeaseType:     in.LeaseType,
			Deposit:       in.Deposit,
			MonthlyRent:   in.MonthlyRent,
			ManagementFee: in.ManagementFee,
			HasVat:        in.HasVat,
			StartDate:     in.StartDate,
			EndDate:       in.EndDate,
			RentDueDay:    dueDay,
			Status:        models.LeaseStatusActive,
			Memo:          in.Memo,
		}
		if err := tx.Create(ctx, lease); err != nil {
			return err
		}
		leaseID = lease.ID
		return tx.UpdatePropertyStatus(ctx, property.ID, models.PropertyStatusOccupied)
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("lease created",
		zap.Uint("owner_id", ownerID),
		zap.Uint("lease_id", leaseID),
		zap.Uint("property_id", in.PropertyID),
	)
	return s.store.LoadLease(ctx, leaseID)
}

// UpdateLease changes lease terms. Already generated payments keep their amounts.
func (s *Service) UpdateLease(ctx context.Context, ownerID, leaseID uint, in UpdateLeaseInput) (*models.Lease, error) {
	if _, err := s.store.FindLease(ctx, ownerID, leaseID); err != nil {
		return nil, err
	}
	if in.RentDueDay != nil && (*in.RentDueDay < 1 || *in.RentDueDay > 31) {
		return nil, apperr.InvalidInput("rent due day must be between 1 and 31")
	}

	fields := map[string]interface{}{}
	if in.Floor != nil {
		fields["floor"] = *in.Floor
	}
	if in.AreaPyeong != nil {
		fields["area_pyeong"] = *in.AreaPyeong
	}
	if in.LeaseType != nil {
		fields["lease_type"] = *in.LeaseType
	}
	if in.Deposit != nil {
		fields["deposit"] = *in.Deposit
	}
	if in.MonthlyRent != nil {
		fields["monthly_rent"] = *in.MonthlyRent
	}
	if in.ManagementFee != nil {
		fields["management_fee"] = *in.ManagementFee
	}
	if in.HasVat != nil {
		fields["has_vat"] = *in.HasVat
	}
	if in.StartDate != nil {
		fields["start_date"] = *in.StartDate
	}
	if in.EndDate != nil {
		fields["end_date"] = *in.EndDate
	}
	if in.RentDueDay != nil {
		fields["rent_due_day"] = *in.RentDueDay
	}
	if in.Memo != nil {
		fields["memo"] = *in.Memo
	}

	if len(fields) > 0 {
		if err := s.store.UpdateLease(ctx, leaseID, fields); err != nil {
			return nil, err
		}
	}
	return s.store.LoadLease(ctx, leaseID)
}

// ChangeLeaseStatus writes the lease status and, when the lease ends and no
// other lease on the property is ACTIVE, marks the property VACANT.
func (s *Service) ChangeLeaseStatus(ctx context.Context, ownerID, leaseID uint, status models.LeaseStatus) (*models.Lease, error) {
	if !status.Valid() {
		return nil, apperr.InvalidInput("unknown lease status %q", status)
	}

	err := s.store.Transaction(ctx, func(tx *store.Store) error {
		lease, err := tx.FindLease(ctx, ownerID, leaseID)
		if err != nil {
			return err
		}
		if err := tx.UpdateLeaseStatus(ctx, lease.ID, status); err != nil {
			return err
		}

		others, err := tx.CountActiveLeases(ctx, lease.PropertyID, lease.ID)
		if err != nil {
			return err
		}
		next, ok := NextPropertyStatus(status, others)
		if !ok {
			return nil
		}
		s.log.Info("property status follows lease",
			zap.Uint("property_id", lease.PropertyID),
			zap.Uint("lease_id", lease.ID),
			zap.String("status", string(next)),
		)
		return tx.UpdatePropertyStatus(ctx, lease.PropertyID, next)
	})
	if err != nil {
		return nil, err
	}
	return s.store.LoadLease(ctx, leaseID)
}

// RenewLease expires the lease and opens a new ACTIVE one for the same
// property and tenant. Payments stay with the old lease.
func (s *Service) RenewLease(ctx context.Context, ownerID, leaseID uint, in RenewLeaseInput) (*models.Lease, error) {
	if in.StartDate.IsZero() || in.EndDate.IsZero() {
		return nil, apperr.InvalidInput("renewal needs a start and end date")
	}
	if in.RentDueDay != nil && (*in.RentDueDay < 1 || *in.RentDueDay > 31) {
		return nil, apperr.InvalidInput("rent due day must be between 1 and 31")
	}

	var renewedID uint
	err := s.store.Transaction(ctx, func(tx *store.Store) error {
		old, err := tx.FindLease(ctx, ownerID, leaseID)
		if err != nil {
			return err
		}
		if err := tx.UpdateLeaseStatus(ctx, old.ID, models.LeaseStatusExpired); err != nil {
			return err
		}

		renewed := &models.Lease{
			PropertyID:    old.PropertyID,
			TenantID:      old.TenantID,
			Floor:         old.Floor,
			AreaPyeong:    old.AreaPyeong,
			LeaseType:     old.LeaseType,
			Deposit:       pick(in.Deposit, old.Deposit),
			MonthlyRent:   pick(in.MonthlyRent, old.MonthlyRent),
			ManagementFee: pick(in.ManagementFee, old.ManagementFee),
			HasVat:        old.HasVat,
			StartDate:     in.StartDate,
			EndDate:       in.EndDate,
			RentDueDay:    old.RentDueDay,
			Status:        models.LeaseStatusActive,
		}
		if in.RentDueDay != nil {
			renewed.RentDueDay = *in.RentDueDay
		}
		if err := tx.Create(ctx, renewed); err != nil {
			return err
		}
		renewedID = renewed.ID
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("lease renewed",
		zap.Uint("owner_id", ownerID),
		zap.Uint("old_lease_id", leaseID),
		zap.Uint("lease_id", renewedID),
	)
	return s.store.LoadLease(ctx, renewedID)
}

// DeleteLease removes a lease with its payments.
func (s *Service) DeleteLease(ctx context.Context, ownerID, leaseID uint) error {
	return s.store.Transaction(ctx, func(tx *store.Store) error {
		if _, err := tx.FindLease(ctx, ownerID, leaseID); err != nil {
			return err
		}
		return tx.DeleteLease(ctx, leaseID)
	})
}

// DeleteProperty removes a property and everything hanging off it. Either
// all of it goes or none of it does.
func (s *Service) DeleteProperty(ctx context.Context, ownerID, propertyID uint) error {
	err := s.store.Transaction(ctx, func(tx *store.Store) error {
		if _, err := tx.FindProperty(ctx, ownerID, propertyID); err != nil {
			return err
		}
		return tx.DeleteProperty(ctx, propertyID)
	})
	if err != nil {
		return err
	}
	s.log.Info("property deleted", zap.Uint("owner_id", ownerID), zap.Uint("property_id", propertyID))
	return nil
}

// DeleteTenant removes a tenant known to the owner. A tenant with an ACTIVE
// lease cannot be deleted; its ended leases and their payments go with it.
func (s *Service) DeleteTenant(ctx context.Context, ownerID, tenantID uint) error {
	return s.store.Transaction(ctx, func(tx *store.Store) error {
		tenant, err := tx.FindOwnedTenant(ctx, ownerID, tenantID)
		if err != nil {
			return err
		}
		for _, l := range tenant.Leases {
			if l.Status == models.LeaseStatusActive {
				return apperr.InvalidState("tenant %d has active lease %d", tenantID, l.ID)
			}
		}
		return tx.DeleteTenant(ctx, tenantID)
	})
}

func pick(override *decimal.Decimal, fallback decimal.Decimal) decimal.Decimal {
	if override != nil {
		return *override
	}
	return fallback
}
