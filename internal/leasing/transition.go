// Package leasing owns the lease lifecycle: creating, renewing and ending
// leases, and keeping each property's occupancy status in step with them.
package leasing

import "rentfolio/internal/models"

// NextPropertyStatus returns the status a property should move to after one
// of its leases changes to newStatus. otherActive is the number of ACTIVE
// leases on the property excluding the changed one. The bool is false when
// the property status should be left alone.
func NextPropertyStatus(newStatus models.LeaseStatus, otherActive int64) (models.PropertyStatus, bool) {
	if newStatus.Ended() && otherActive == 0 {
		return models.PropertyStatusVacant, true
	}
	return "", false
}
