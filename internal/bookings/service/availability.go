package service

import (
	"time"

	"fleetbook/pkg/model"
)

// Overlaps reports whether the half-open windows [aStart, aEnd) and
// [bStart, bEnd) intersect. Touching endpoints do not overlap, so a
// booking ending at 11:00 leaves the vehicle free for one starting at
// 11:00.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && bStart.Before(aEnd)
}

// Blocks reports whether a booking reserves its vehicle. Only approved
// bookings whose vehicle has not come back block availability; pending
// and denied requests never do.
func Blocks(b *model.Booking) bool {
	return b.Status == model.StatusApproved && !b.Returned
}

// AvailableVehicles filters the fleet down to active vehicles with no
// blocking booking overlapping the window. The blocking slice may span
// all vehicles; bookings for other vehicles are ignored.
func AvailableVehicles(vehicles []*model.Vehicle, blocking []*model.Booking, start, end time.Time) []*model.Vehicle {
	reserved := make(map[string]bool, len(blocking))
	for _, b := range blocking {
		if Blocks(b) && Overlaps(start, end, b.StartTime, b.EndTime) {
			reserved[b.VehicleID] = true
		}
	}

	available := make([]*model.Vehicle, 0, len(vehicles))
	for _, v := range vehicles {
		if v.Active && !reserved[v.ID] {
			available = append(available, v)
		}
	}
	return available
}
