// model/interval.go
package model

import (
	"fmt"
	"time"

	"github.com/fabiodalez-dev/Pinakes-sub005/util/dates"
)

// Kind classifies an occupying interval. The set is closed: every switch over
// it in the engine handles all four values.
type Kind int

const (
	LoanActive Kind = iota
	LoanOverdue
	ReservationPending
	ReservationActive
)

const (
	kindLoanActive         = "loan_active"
	kindLoanOverdue        = "loan_overdue"
	kindReservationPending = "reservation_pending"
	kindReservationActive  = "reservation_active"
)

func (k Kind) String() string {
	switch k {
	case LoanActive:
		return kindLoanActive
	case LoanOverdue:
		return kindLoanOverdue
	case ReservationPending:
		return kindReservationPending
	case ReservationActive:
		return kindReservationActive
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// ParseKind maps the DB enum column back to a Kind.
func ParseKind(s string) (Kind, error) {
	switch s {
	case kindLoanActive:
		return LoanActive, nil
	case kindLoanOverdue:
		return LoanOverdue, nil
	case kindReservationPending:
		return ReservationPending, nil
	case kindReservationActive:
		return ReservationActive, nil
	}
	return 0, fmt.Errorf("unknown interval kind %q", s)
}

// IsReservation reports whether the interval occupies a queued slot rather
// than a lent copy.
func (k Kind) IsReservation() bool {
	return k == ReservationPending || k == ReservationActive
}

// Interval is one unit of occupied copy capacity for a title over a date
// range. EndDate may be absent; NormalizedEnd resolves the effective end.
type Interval struct {
	ID          int64      `json:"id"`
	TitleID     int64      `json:"title_id"`
	UserID      int64      `json:"user_id"`
	Kind        Kind       `json:"kind"`
	StartDate   time.Time  `json:"start_date"`
	EndDate     *time.Time `json:"end_date,omitempty"`
	ExpiresAt   *time.Time `json:"expires_at,omitempty"`
	CopyRef     *int64     `json:"copy_ref,omitempty"`
	RequestedAt time.Time  `json:"requested_at"`
}

// NormalizedEnd resolves the effective end date: the explicit end date if
// present, else the date portion of the expiry timestamp, else the start
// date. The result is never before the start date.
func (iv Interval) NormalizedEnd() time.Time {
	start := dates.Day(iv.StartDate)
	var end time.Time
	switch {
	case iv.EndDate != nil:
		end = dates.Day(*iv.EndDate)
	case iv.ExpiresAt != nil:
		end = dates.Day(*iv.ExpiresAt)
	default:
		return start
	}
	if end.Before(start) {
		return start
	}
	return end
}

// Covers reports whether day d falls inside the interval, inclusive.
func (iv Interval) Covers(d time.Time) bool {
	return dates.Within(d, iv.StartDate, iv.NormalizedEnd())
}
