// model/interval_test.go
package model

import (
	"testing"
	"time"
)

func d(y int, m time.Month, day int) time.Time {
	return time.Date(y, m, day, 0, 0, 0, 0, time.UTC)
}

func TestNormalizedEnd_FallbackChain(t *testing.T) {
	start := d(2026, 6, 1)
	end := d(2026, 6, 20)
	expiry := time.Date(2026, 6, 10, 23, 45, 0, 0, time.UTC)

	// Explicit end date wins over the expiry timestamp.
	iv := Interval{StartDate: start, EndDate: &end, ExpiresAt: &expiry}
	if got := iv.NormalizedEnd(); !got.Equal(end) {
		t.Errorf("explicit end: got %s; want %s", got, end)
	}

	// No end date: the date portion of the expiry timestamp.
	iv = Interval{StartDate: start, ExpiresAt: &expiry}
	if got := iv.NormalizedEnd(); !got.Equal(d(2026, 6, 10)) {
		t.Errorf("expiry fallback: got %s", got)
	}

	// Neither: the start date itself.
	iv = Interval{StartDate: start}
	if got := iv.NormalizedEnd(); !got.Equal(start) {
		t.Errorf("start fallback: got %s", got)
	}
}

func TestNormalizedEnd_NeverBeforeStart(t *testing.T) {
	start := d(2026, 6, 15)
	early := d(2026, 6, 1)
	iv := Interval{StartDate: start, EndDate: &early}
	if got := iv.NormalizedEnd(); got.Before(start) {
		t.Fatalf("normalized end %s is before start %s", got, start)
	}
}

func TestCovers_Inclusive(t *testing.T) {
	end := d(2026, 6, 10)
	iv := Interval{StartDate: d(2026, 6, 1), EndDate: &end}

	for _, tc := range []struct {
		day  time.Time
		want bool
	}{
		{d(2026, 5, 31), false},
		{d(2026, 6, 1), true},
		{d(2026, 6, 10), true},
		{d(2026, 6, 11), false},
	} {
		if got := iv.Covers(tc.day); got != tc.want {
			t.Errorf("Covers(%s) = %v; want %v", tc.day.Format("2006-01-02"), got, tc.want)
		}
	}
}

func TestParseKind(t *testing.T) {
	for _, k := range []Kind{LoanActive, LoanOverdue, ReservationPending, ReservationActive} {
		got, err := ParseKind(k.String())
		if err != nil || got != k {
			t.Errorf("round trip %s: got %v, %v", k, got, err)
		}
	}
	if _, err := ParseKind("returned"); err == nil {
		t.Error("expected error for unknown kind")
	}
}

func TestKindIsReservation(t *testing.T) {
	if LoanActive.IsReservation() || LoanOverdue.IsReservation() {
		t.Error("loans are not reservations")
	}
	if !ReservationPending.IsReservation() || !ReservationActive.IsReservation() {
		t.Error("reservation kinds must report as reservations")
	}
}
