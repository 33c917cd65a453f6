package workflow

import "time"

// UrgencyWindow is how close to the estimated delivery date a piece is
// flagged urgent on every board and badge.
const UrgencyWindow = 48 * time.Hour

// IsUrgent reports whether a delivery date is inside the urgency
// window. Overdue dates are urgent too. Orders without a date are
// never urgent.
func IsUrgent(deliveryDate *time.Time, now time.Time) bool {
	if deliveryDate == nil {
		return false
	}
	return deliveryDate.Sub(now) < UrgencyWindow
}
