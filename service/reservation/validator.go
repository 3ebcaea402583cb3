package reservation

import (
	"time"

	"github.com/fabiodalez-dev/Pinakes-sub005/model"
	"github.com/fabiodalez-dev/Pinakes-sub005/util/dates"
)

// Validate checks a proposed reservation against the fixed rule order:
// invalid dates first, then past start, then a duplicate open reservation for
// the same (title, user). The first failing rule wins.
//
// A zero availability on the start date is deliberately NOT a rejection:
// capacity decisions belong to the admin approval workflow, not here.
//
// userIntervals are the caller's existing intervals for this title. On
// success the returned interval is a pending reservation ready to persist;
// Validate itself has no side effects.
func Validate(titleID, userID int64, start time.Time, end *time.Time, userIntervals []model.Interval, today, now time.Time) (*model.Interval, error) {
	if start.IsZero() {
		return nil, makeErr(ErrInvalidDate)
	}
	start = dates.Day(start)
	if end != nil && dates.Before(*end, start) {
		return nil, makeErr(ErrInvalidDate)
	}
	if dates.Before(start, today) {
		return nil, makeErr(ErrPastDate)
	}
	for _, iv := range userIntervals {
		if iv.Kind.IsReservation() {
			return nil, makeErr(ErrDuplicateActive)
		}
	}

	// Default span is one calendar month.
	endDate := dates.AddMonth(start)
	if end != nil {
		endDate = dates.Day(*end)
	}

	return &model.Interval{
		TitleID:     titleID,
		UserID:      userID,
		Kind:        model.ReservationPending,
		StartDate:   start,
		EndDate:     &endDate,
		RequestedAt: now,
	}, nil
}
