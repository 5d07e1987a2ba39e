package store

import (
	"context"
	"fmt"

	"rentfolio/internal/models"
)

// ListValuations returns the owner's valuations, newest first, optionally for
// a single property.
func (s *Store) ListValuations(ctx context.Context, ownerID uint, propertyID *uint) ([]models.PropertyValuation, error) {
	q := s.query(ctx).
		Preload("Property").
		Where("property_id IN (?)", s.ownedPropertyIDs(ownerID))
	if propertyID != nil {
		q = q.Where("property_id = ?", *propertyID)
	}

	var valuations []models.PropertyValuation
	if err := q.Order("calculated_at DESC").Order("id DESC").Find(&valuations).Error; err != nil {
		return nil, fmt.Errorf("failed to list valuations: %w", err)
	}
	return valuations, nil
}

// FindValuation loads a valuation of one of the owner's properties.
func (s *Store) FindValuation(ctx context.Context, ownerID, valuationID uint) (*models.PropertyValuation, error) {
	var valuation models.PropertyValuation
	err := s.query(ctx).
		Preload("Property").
		Where("id = ? AND property_id IN (?)", valuationID, s.ownedPropertyIDs(ownerID)).
		First(&valuation).Error
	if err != nil {
		return nil, notFound(err, "valuation", valuationID)
	}
	return &valuation, nil
}

// DeleteValuation removes a single valuation snapshot.
func (s *Store) DeleteValuation(ctx context.Context, valuationID uint) error {
	if err := s.query(ctx).Delete(&models.PropertyValuation{}, valuationID).Error; err != nil {
		return fmt.Errorf("failed to delete valuation %d: %w", valuationID, err)
	}
	return nil
}
