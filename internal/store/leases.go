package store

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"rentfolio/internal/models"
)

// FindLease loads a lease on one of the owner's properties.
func (s *Store) FindLease(ctx context.Context, ownerID, leaseID uint) (*models.Lease, error) {
	var lease models.Lease
	err := s.query(ctx).
		Where("id = ? AND property_id IN (?)", leaseID, s.ownedPropertyIDs(ownerID)).
		First(&lease).Error
	if err != nil {
		return nil, notFound(err, "lease", leaseID)
	}
	return &lease, nil
}

// ActiveLeases returns the ACTIVE leases of a property.
func (s *Store) ActiveLeases(ctx context.Context, propertyID uint) ([]models.Lease, error) {
	var leases []models.Lease
	err := s.query(ctx).
		Where("property_id = ? AND status = ?", propertyID, models.LeaseStatusActive).
		Order("id").
		Find(&leases).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load active leases of property %d: %w", propertyID, err)
	}
	return leases, nil
}

// CountActiveLeases counts ACTIVE leases on a property other than excludeLeaseID.
func (s *Store) CountActiveLeases(ctx context.Context, propertyID, excludeLeaseID uint) (int64, error) {
	var n int64
	err := s.query(ctx).Model(&models.Lease{}).
		Where("property_id = ? AND status = ? AND id <> ?", propertyID, models.LeaseStatusActive, excludeLeaseID).
		Count(&n).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count active leases of property %d: %w", propertyID, err)
	}
	return n, nil
}

// UpdateLeaseStatus sets the status of a single lease.
func (s *Store) UpdateLeaseStatus(ctx context.Context, leaseID uint, status models.LeaseStatus) error {
	err := s.query(ctx).Model(&models.Lease{}).
		Where("id = ?", leaseID).
		Update("status", status).Error
	if err != nil {
		return fmt.Errorf("failed to update lease %d: %w", leaseID, err)
	}
	return nil
}

// DeleteLease removes a lease and its payments. Call it inside Transaction.
func (s *Store) DeleteLease(ctx context.Context, leaseID uint) error {
	if err := s.query(ctx).Where("lease_id = ?", leaseID).Delete(&models.RentPayment{}).Error; err != nil {
		return fmt.Errorf("failed to delete payments of lease %d: %w", leaseID, err)
	}
	if err := s.query(ctx).Delete(&models.Lease{}, leaseID).Error; err != nil {
		return fmt.Errorf("failed to delete lease %d: %w", leaseID, err)
	}
	return nil
}

// FindTenant loads a tenant by id regardless of owner.
func (s *Store) FindTenant(ctx context.Context, tenantID uint) (*models.Tenant, error) {
	var tenant models.Tenant
	if err := s.query(ctx).First(&tenant, tenantID).Error; err != nil {
		return nil, notFound(err, "tenant", tenantID)
	}
	return &tenant, nil
}

// FindOwnedTenant loads a tenant that holds a lease on one of the owner's properties.
func (s *Store) FindOwnedTenant(ctx context.Context, ownerID, tenantID uint) (*models.Tenant, error) {
	var tenant models.Tenant
	err := s.query(ctx).
		Preload("Leases").
		Where("id = ? AND id IN (?)", tenantID, s.ownedLeaseTenants(ownerID)).
		First(&tenant).Error
	if err != nil {
		return nil, notFound(err, "tenant", tenantID)
	}
	return &tenant, nil
}

// DeleteTenant removes a tenant together with its leases and their payments.
// Call it inside Transaction.
func (s *Store) DeleteTenant(ctx context.Context, tenantID uint) error {
	leaseIDs := s.db.Session(&gorm.Session{NewDB: true}).
		Model(&models.Lease{}).
		Select("id").
		Where("tenant_id = ?", tenantID)
	if err := s.query(ctx).Where("lease_id IN (?)", leaseIDs).Delete(&models.RentPayment{}).Error; err != nil {
		return fmt.Errorf("failed to delete payments of tenant %d: %w", tenantID, err)
	}
	if err := s.query(ctx).Where("tenant_id = ?", tenantID).Delete(&models.Lease{}).Error; err != nil {
		return fmt.Errorf("failed to delete leases of tenant %d: %w", tenantID, err)
	}
	if err := s.query(ctx).Delete(&models.Tenant{}, tenantID).Error; err != nil {
		return fmt.Errorf("failed to delete tenant %d: %w", tenantID, err)
	}
	return nil
}

func (s *Store) ownedLeaseTenants(ownerID uint) *gorm.DB {
	return s.ownedLeases(ownerID).Select("tenant_id")
}

// LoadLease loads a lease by id with its property and tenant.
func (s *Store) LoadLease(ctx context.Context, leaseID uint) (*models.Lease, error) {
	var lease models.Lease
	err := s.query(ctx).
		Preload("Property").
		Preload("Tenant").
		First(&lease, leaseID).Error
	if err != nil {
		return nil, notFound(err, "lease", leaseID)
	}
	return &lease, nil
}

// UpdateLease writes the given columns of a lease.
func (s *Store) UpdateLease(ctx context.Context, leaseID uint, fields map[string]interface{}) error {
	err := s.query(ctx).Model(&models.Lease{}).
		Where("id = ?", leaseID).
		Updates(fields).Error
	if err != nil {
		return fmt.Errorf("failed to update lease %d: %w", leaseID, err)
	}
	return nil
}
