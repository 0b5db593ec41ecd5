// Package stats defines derived per-property statistics.
package stats

import "time"

// PropertySnapshot is the aggregated view of a single property: room
// occupancy plus revenue and outstanding balance. Each property's
// snapshot is computed independently; a failure for one property never
// invalidates another's.
type PropertySnapshot struct {
	PropertyID     string    `json:"property_id"`
	TotalRooms     int       `json:"total_rooms"`
	OccupiedRooms  int       `json:"occupied_rooms"`
	OccupancyRate  float64   `json:"occupancy_rate"` // percentage in [0,100]
	ActiveTenants  int       `json:"active_tenants"`
	TotalRevenue   float64   `json:"total_revenue"`
	PendingBalance float64   `json:"pending_balance"`
	ComputedAt     time.Time `json:"computed_at"`
}

// Occupancy returns the occupancy rate for the given counts as a
// percentage clamped to [0,100]. Zero rooms yields zero.
func Occupancy(occupied, total int) float64 {
	if total <= 0 {
		return 0
	}
	rate := float64(occupied) / float64(total) * 100
	if rate < 0 {
		return 0
	}
	if rate > 100 {
		return 100
	}
	return rate
}
