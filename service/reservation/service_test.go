// service/reservation/service_test.go
package reservation

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/fabiodalez-dev/Pinakes-sub005/model"
	"github.com/fabiodalez-dev/Pinakes-sub005/util/dates"
)

type titleRepoMock struct {
	totalFn func(ctx context.Context, titleID int64) (int, error)
	getFn   func(ctx context.Context, titleID int64) (*model.Title, error)
}

func (m *titleRepoMock) TotalCopies(ctx context.Context, titleID int64) (int, error) {
	return m.totalFn(ctx, titleID)
}
func (m *titleRepoMock) Get(ctx context.Context, titleID int64) (*model.Title, error) {
	return m.getFn(ctx, titleID)
}

type intervalRepoMock struct {
	activeForTitleFn func(ctx context.Context, titleID int64, from time.Time) ([]model.Interval, error)
	activeForUserFn  func(ctx context.Context, titleID, userID int64) ([]model.Interval, error)
	lockFn           func(ctx context.Context, titleID, userID int64) (int, error)
	insertFn         func(ctx context.Context, iv *model.Interval) (int64, error)
	getFn            func(ctx context.Context, id int64) (*model.Interval, error)
	queueFn          func(ctx context.Context, titleID int64) ([]model.Interval, error)
}

func (m *intervalRepoMock) ActiveForTitle(ctx context.Context, titleID int64, from time.Time) ([]model.Interval, error) {
	return m.activeForTitleFn(ctx, titleID, from)
}
func (m *intervalRepoMock) ActiveForUser(ctx context.Context, titleID, userID int64) ([]model.Interval, error) {
	return m.activeForUserFn(ctx, titleID, userID)
}
func (m *intervalRepoMock) LockUserReservations(ctx context.Context, tx *sql.Tx, titleID, userID int64) (int, error) {
	if m.lockFn == nil {
		return 0, nil
	}
	return m.lockFn(ctx, titleID, userID)
}
func (m *intervalRepoMock) InsertPending(ctx context.Context, tx *sql.Tx, iv *model.Interval) (int64, error) {
	if m.insertFn == nil {
		return 0, nil
	}
	return m.insertFn(ctx, iv)
}
func (m *intervalRepoMock) Get(ctx context.Context, id int64) (*model.Interval, error) {
	return m.getFn(ctx, id)
}
func (m *intervalRepoMock) QueueForTitle(ctx context.Context, titleID int64) ([]model.Interval, error) {
	return m.queueFn(ctx, titleID)
}
func (m *intervalRepoMock) MarkOverdue(ctx context.Context, asOf time.Time) (int64, error) {
	return 0, nil
}

func testService(tr *titleRepoMock, ir *intervalRepoMock) *service {
	return &service{
		tr:  tr,
		ir:  ir,
		log: slog.New(slog.NewTextHandler(io.Discard, nil)),
		now: func() time.Time { return time.Date(2026, 8, 30, 10, 0, 0, 0, time.UTC) },
		withTx: func(ctx context.Context, fn func(tx *sql.Tx) error) error {
			return fn(nil)
		},
	}
}

func TestAvailability_UnknownTitle(t *testing.T) {
	tr := &titleRepoMock{getFn: func(context.Context, int64) (*model.Title, error) { return nil, sql.ErrNoRows }}
	s := testService(tr, &intervalRepoMock{})

	_, err := s.Availability(context.Background(), 42, time.Now(), 30)
	if Code(err) != ErrTitleNotFound {
		t.Fatalf("got %v; want TITLE_NOT_FOUND", err)
	}
}

func TestAvailability_ZeroCapacityDegradesToOne(t *testing.T) {
	tr := &titleRepoMock{getFn: func(context.Context, int64) (*model.Title, error) {
		return &model.Title{ID: 42, Title: "Pinax", TotalCopies: 0}, nil
	}}
	ir := &intervalRepoMock{
		activeForTitleFn: func(context.Context, int64, time.Time) ([]model.Interval, error) { return nil, nil },
	}
	s := testService(tr, ir)

	res, err := s.Availability(context.Background(), 42, time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC), 10)
	if err != nil {
		t.Fatalf("availability: %v", err)
	}
	if res.TotalCopies != 1 {
		t.Fatalf("total copies = %d; want degrade to 1", res.TotalCopies)
	}
	if res.Title != "Pinax" {
		t.Fatalf("title = %q", res.Title)
	}
}

func TestAvailability_StorageErrorPropagates(t *testing.T) {
	boom := errors.New("connection reset")
	tr := &titleRepoMock{getFn: func(context.Context, int64) (*model.Title, error) {
		return &model.Title{ID: 42, Title: "Pinax", TotalCopies: 3}, nil
	}}
	ir := &intervalRepoMock{
		activeForTitleFn: func(context.Context, int64, time.Time) ([]model.Interval, error) { return nil, boom },
	}
	s := testService(tr, ir)

	_, err := s.Availability(context.Background(), 42, time.Now(), 30)
	if !errors.Is(err, boom) {
		t.Fatalf("got %v; want the raw storage error", err)
	}
	if Code(err) != "" {
		t.Fatalf("storage error must stay uncoded, got %q", Code(err))
	}
}

func createMocks(copies int) (*titleRepoMock, *intervalRepoMock) {
	tr := &titleRepoMock{totalFn: func(context.Context, int64) (int, error) { return copies, nil }}
	ir := &intervalRepoMock{
		activeForUserFn: func(context.Context, int64, int64) ([]model.Interval, error) { return nil, nil },
	}
	return tr, ir
}

func TestCreate_PendingWithDefaultedEnd(t *testing.T) {
	tr, ir := createMocks(3)
	var inserted *model.Interval
	ir.insertFn = func(ctx context.Context, iv *model.Interval) (int64, error) {
		inserted = iv
		return 77, nil
	}
	s := testService(tr, ir)

	start, _ := dates.Parse("2026-09-01")
	out, err := s.Create(context.Background(), 1, 7, start, nil)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if out.ReservationID != 77 {
		t.Fatalf("reservation id = %d; want 77", out.ReservationID)
	}
	if !out.EndDate.Equal(dates.AddMonth(start)) {
		t.Fatalf("end = %s; want start + 1 month", dates.Format(out.EndDate))
	}
	if inserted == nil || inserted.Kind != model.ReservationPending {
		t.Fatalf("inserted interval = %+v; want pending reservation", inserted)
	}
	if !inserted.RequestedAt.Equal(time.Date(2026, 8, 30, 10, 0, 0, 0, time.UTC)) {
		t.Fatalf("requested_at = %s", inserted.RequestedAt)
	}
}

func TestCreate_InTxRecheckRejectsDuplicate(t *testing.T) {
	// The snapshot check passes (no open reservation yet), but the locked
	// recheck inside the transaction sees one committed concurrently.
	tr, ir := createMocks(3)
	ir.lockFn = func(context.Context, int64, int64) (int, error) { return 1, nil }
	ir.insertFn = func(context.Context, *model.Interval) (int64, error) {
		t.Fatal("insert must not run after the recheck fails")
		return 0, nil
	}
	s := testService(tr, ir)

	start, _ := dates.Parse("2026-09-01")
	_, err := s.Create(context.Background(), 1, 7, start, nil)
	if Code(err) != ErrDuplicateActive {
		t.Fatalf("got %v; want DUPLICATE_ACTIVE", err)
	}
}

func TestCreate_UniqueViolationMapsToDuplicate(t *testing.T) {
	// Belt and braces: even past the recheck, the partial unique index can
	// still fire; its 23505 surfaces as DUPLICATE_ACTIVE.
	tr, ir := createMocks(3)
	ir.insertFn = func(context.Context, *model.Interval) (int64, error) {
		return 0, &pgconn.PgError{Code: "23505", ConstraintName: "intervals_one_open_reservation"}
	}
	s := testService(tr, ir)

	start, _ := dates.Parse("2026-09-01")
	_, err := s.Create(context.Background(), 1, 7, start, nil)
	if Code(err) != ErrDuplicateActive {
		t.Fatalf("got %v; want DUPLICATE_ACTIVE", err)
	}
}

func TestCreate_OtherInsertErrorStaysUncoded(t *testing.T) {
	boom := errors.New("deadlock detected")
	tr, ir := createMocks(3)
	ir.insertFn = func(context.Context, *model.Interval) (int64, error) { return 0, boom }
	s := testService(tr, ir)

	start, _ := dates.Parse("2026-09-01")
	_, err := s.Create(context.Background(), 1, 7, start, nil)
	if !errors.Is(err, boom) || Code(err) != "" {
		t.Fatalf("got %v (code %q); want the raw storage error", err, Code(err))
	}
}

func TestQueue_CoveringCount(t *testing.T) {
	t1 := time.Date(2026, 8, 1, 9, 0, 0, 0, time.UTC)
	start, _ := dates.Parse("2026-09-01")
	end, _ := dates.Parse("2026-09-30")
	tr := &titleRepoMock{totalFn: func(context.Context, int64) (int, error) { return 2, nil }}
	ir := &intervalRepoMock{
		queueFn: func(context.Context, int64) ([]model.Interval, error) {
			return []model.Interval{
				{ID: 1, Kind: model.ReservationPending, StartDate: start, EndDate: &end, RequestedAt: t1},
				{ID: 2, Kind: model.ReservationActive, StartDate: start, EndDate: &end, RequestedAt: t1.Add(time.Hour)},
			}, nil
		},
	}
	s := testService(tr, ir)

	d, _ := dates.Parse("2026-09-10")
	info, err := s.Queue(context.Background(), 42, d)
	if err != nil {
		t.Fatalf("queue: %v", err)
	}
	if info.QueueSize != 2 {
		t.Fatalf("queue size = %d; want 2", info.QueueSize)
	}
}

func TestPosition_UnknownReservation(t *testing.T) {
	ir := &intervalRepoMock{
		getFn: func(context.Context, int64) (*model.Interval, error) { return nil, sql.ErrNoRows },
	}
	s := testService(&titleRepoMock{}, ir)

	_, err := s.Position(context.Background(), 99)
	if Code(err) != ErrNotFound {
		t.Fatalf("got %v; want RESERVATION_NOT_FOUND", err)
	}
}

func TestPosition_RankAmongTitleQueue(t *testing.T) {
	t1 := time.Date(2026, 8, 1, 9, 0, 0, 0, time.UTC)
	start, _ := dates.Parse("2026-09-01")
	mine := model.Interval{ID: 2, TitleID: 7, Kind: model.ReservationPending, StartDate: start, RequestedAt: t1.Add(time.Minute)}
	ir := &intervalRepoMock{
		getFn: func(ctx context.Context, id int64) (*model.Interval, error) { return &mine, nil },
		queueFn: func(ctx context.Context, titleID int64) ([]model.Interval, error) {
			if titleID != 7 {
				return nil, errors.New("wrong title")
			}
			return []model.Interval{
				{ID: 1, Kind: model.ReservationPending, StartDate: start, RequestedAt: t1},
				mine,
				{ID: 3, Kind: model.ReservationPending, StartDate: start, RequestedAt: t1.Add(2 * time.Minute)},
			}, nil
		},
	}
	s := testService(&titleRepoMock{}, ir)

	pos, err := s.Position(context.Background(), 2)
	if err != nil {
		t.Fatalf("position: %v", err)
	}
	if pos != 2 {
		t.Fatalf("position = %d; want 2", pos)
	}
}
