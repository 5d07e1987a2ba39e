package store

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"rentfolio/internal/models"
)

// ExpenseFilter selects expenses dated in [From, To) on the owner's
// properties, optionally a single one.
type ExpenseFilter struct {
	OwnerID    uint
	PropertyID *uint
	From       time.Time
	To         time.Time
}

// FindProperty loads one of the owner's properties.
func (s *Store) FindProperty(ctx context.Context, ownerID, propertyID uint) (*models.Property, error) {
	var property models.Property
	err := s.query(ctx).
		Where("id = ? AND owner_id = ?", propertyID, ownerID).
		First(&property).Error
	if err != nil {
		return nil, notFound(err, "property", propertyID)
	}
	return &property, nil
}

// PropertiesWithLeases returns the owner's properties with every lease preloaded.
func (s *Store) PropertiesWithLeases(ctx context.Context, ownerID uint) ([]models.Property, error) {
	var properties []models.Property
	err := s.query(ctx).
		Preload("Leases", func(db *gorm.DB) *gorm.DB { return db.Order("id") }).
		Where("owner_id = ?", ownerID).
		Order("id").
		Find(&properties).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load properties of owner %d: %w", ownerID, err)
	}
	return properties, nil
}

// UpdatePropertyStatus sets the status of a single property.
func (s *Store) UpdatePropertyStatus(ctx context.Context, propertyID uint, status models.PropertyStatus) error {
	err := s.query(ctx).Model(&models.Property{}).
		Where("id = ?", propertyID).
		Update("status", status).Error
	if err != nil {
		return fmt.Errorf("failed to update property %d: %w", propertyID, err)
	}
	return nil
}

// DeleteProperty removes a property with its payments, leases, expenses and
// valuations. Call it inside Transaction so the cascade is all-or-nothing.
func (s *Store) DeleteProperty(ctx context.Context, propertyID uint) error {
	leaseIDs := s.db.Session(&gorm.Session{NewDB: true}).
		Model(&models.Lease{}).
		Select("id").
		Where("property_id = ?", propertyID)

	steps := []struct {
		what string
		run  func() error
	}{
		{"payments", func() error {
			return s.query(ctx).Where("lease_id IN (?)", leaseIDs).Delete(&models.RentPayment{}).Error
		}},
		{"leases", func() error {
			return s.query(ctx).Where("property_id = ?", propertyID).Delete(&models.Lease{}).Error
		}},
		{"expenses", func() error {
			return s.query(ctx).Where("property_id = ?", propertyID).Delete(&models.Expense{}).Error
		}},
		{"valuations", func() error {
			return s.query(ctx).Where("property_id = ?", propertyID).Delete(&models.PropertyValuation{}).Error
		}},
		{"property", func() error {
			return s.query(ctx).Delete(&models.Property{}, propertyID).Error
		}},
	}
	for _, step := range steps {
		if err := step.run(); err != nil {
			return fmt.Errorf("failed to delete %s of property %d: %w", step.what, propertyID, err)
		}
	}
	return nil
}

// Expenses returns the expenses matching f, oldest first.
func (s *Store) Expenses(ctx context.Context, f ExpenseFilter) ([]models.Expense, error) {
	q := s.query(ctx).
		Where("property_id IN (?)", s.ownedPropertyIDs(f.OwnerID)).
		Where("expense_date >= ? AND expense_date < ?", f.From.UTC(), f.To.UTC())
	if f.PropertyID != nil {
		q = q.Where("property_id = ?", *f.PropertyID)
	}

	var expenses []models.Expense
	if err := q.Order("expense_date").Order("id").Find(&expenses).Error; err != nil {
		return nil, fmt.Errorf("failed to load expenses: %w", err)
	}
	return expenses, nil
}
