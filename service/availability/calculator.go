// Package availability computes per-day copy availability for a title over a
// rolling horizon. Pure: no storage, no clock, no mutation of its inputs.
package availability

import (
	"time"

	"github.com/fabiodalez-dev/Pinakes-sub005/model"
	"github.com/fabiodalez-dev/Pinakes-sub005/util/dates"
)

const (
	DefaultHorizonDays = 60
	minHorizonDays     = 1
	maxHorizonDays     = 180
)

type Result struct {
	TotalCopies int
	Days        []model.DayAvailability
	// EarliestAvailable is the first horizon day with a free copy. When the
	// whole horizon is occupied it falls back to the horizon start; callers
	// can tell the two apart via UnavailableDates covering every day.
	EarliestAvailable time.Time
	// UnavailableDates lists every horizon day with zero available copies.
	UnavailableDates []time.Time
}

// ClampHorizon bounds a requested horizon length to [1, 180] days. The
// 60-day default applies only when no length was requested at all; that
// distinction is the caller's, so an explicit 0 clamps to 1 like any other
// out-of-range value.
func ClampHorizon(days int) int {
	if days < minHorizonDays {
		return minHorizonDays
	}
	if days > maxHorizonDays {
		return maxHorizonDays
	}
	return days
}

// Compute scans the horizon day by day, counting intervals that cover each
// day. totalCopies is clamped to at least 1 so occupancy math stays defined
// when the inventory record is missing or zero.
func Compute(totalCopies int, intervals []model.Interval, horizonStart time.Time, horizonDays int) Result {
	if totalCopies < 1 {
		totalCopies = 1
	}
	horizonDays = ClampHorizon(horizonDays)
	start := dates.Day(horizonStart)

	res := Result{
		TotalCopies: totalCopies,
		Days:        make([]model.DayAvailability, 0, horizonDays),
	}

	var earliest *time.Time
	for i := 0; i < horizonDays; i++ {
		d := dates.AddDays(start, i)
		day := dayFor(totalCopies, intervals, d)
		res.Days = append(res.Days, day)

		if day.AvailableCopies > 0 {
			if earliest == nil {
				dd := d
				earliest = &dd
			}
		} else {
			res.UnavailableDates = append(res.UnavailableDates, d)
		}
	}

	if earliest != nil {
		res.EarliestAvailable = *earliest
	} else {
		// Fully booked horizon: report the horizon start rather than a
		// not-found value.
		res.EarliestAvailable = start
	}
	return res
}

func dayFor(totalCopies int, intervals []model.Interval, d time.Time) model.DayAvailability {
	occupied := 0
	overdue := false
	reserved := false
	for _, iv := range intervals {
		if !iv.Covers(d) {
			continue
		}
		occupied++
		switch iv.Kind {
		case model.LoanOverdue:
			overdue = true
		case model.ReservationPending, model.ReservationActive:
			reserved = true
		case model.LoanActive:
		}
	}

	available := totalCopies - occupied
	if available < 0 {
		available = 0
	}

	// Fixed priority: a free copy wins, then overdue beats any reservation
	// signal, then reservations, then plain borrowed.
	state := model.DayBorrowed
	switch {
	case available > 0:
		state = model.DayFree
	case overdue:
		state = model.DayBorrowed
	case reserved:
		state = model.DayReserved
	}

	return model.DayAvailability{
		Date:            d,
		OccupiedCount:   occupied,
		AvailableCopies: available,
		State:           state,
	}
}
