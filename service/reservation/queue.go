package reservation

import (
	"sort"
	"time"

	"github.com/fabiodalez-dev/Pinakes-sub005/model"
)

// QueueSize counts pending/active reservations covering the given day.
func QueueSize(d time.Time, intervals []model.Interval) int {
	n := 0
	for _, iv := range intervals {
		if iv.Kind.IsReservation() && iv.Covers(d) {
			n++
		}
	}
	return n
}

// PositionOf returns the 1-based FIFO rank of a reservation among the
// pending/active reservations in intervals, ordered by requested-at. It
// fails with NOT_QUEUED when the id is absent or not in a queued state.
// Promotion on a freed copy is the approval tool's job, not this function's.
func PositionOf(reservationID int64, intervals []model.Interval) (int, error) {
	queued := make([]model.Interval, 0, len(intervals))
	for _, iv := range intervals {
		if iv.Kind.IsReservation() {
			queued = append(queued, iv)
		}
	}
	sort.SliceStable(queued, func(i, j int) bool {
		return queued[i].RequestedAt.Before(queued[j].RequestedAt)
	})
	for i, iv := range queued {
		if iv.ID == reservationID {
			return i + 1, nil
		}
	}
	return 0, makeErr(ErrNotQueued)
}
