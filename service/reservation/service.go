package reservation

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgconn"

	intervalrepo "github.com/fabiodalez-dev/Pinakes-sub005/repository/interval"
	titlerepo "github.com/fabiodalez-dev/Pinakes-sub005/repository/title"
	avail "github.com/fabiodalez-dev/Pinakes-sub005/service/availability"
	"github.com/fabiodalez-dev/Pinakes-sub005/util/dates"
)

const pgUniqueViolation = "23505"

// dto

type Created struct {
	ReservationID int64
	StartDate     time.Time
	EndDate       time.Time
}

type QueueInfo struct {
	QueueSize int
}

// Calendar is the availability result plus the catalog title it belongs to.
type Calendar struct {
	Title string
	avail.Result
}

type Service interface {
	// Availability renders the per-day calendar for a title over the
	// requested horizon (clamped to 1..180 days, default 60).
	Availability(ctx context.Context, titleID int64, from time.Time, horizonDays int) (*Calendar, error)

	// Create validates and persists one pending reservation. The duplicate
	// check is re-run inside the insert transaction so two concurrent
	// requests cannot both pass.
	Create(ctx context.Context, titleID, userID int64, start time.Time, end *time.Time) (*Created, error)

	// Queue reports how many pending/active reservations cover a day.
	Queue(ctx context.Context, titleID int64, d time.Time) (*QueueInfo, error)

	// Position reports the 1-based FIFO rank of a reservation.
	Position(ctx context.Context, reservationID int64) (int, error)
}

// ----- Service implementation -----

type service struct {
	tr     titlerepo.Repo
	ir     intervalrepo.Repo
	log    *slog.Logger
	now    func() time.Time
	withTx func(ctx context.Context, fn func(tx *sql.Tx) error) error
}

func New(db *sql.DB, tr titlerepo.Repo, ir intervalrepo.Repo, log *slog.Logger) Service {
	return &service{tr: tr, ir: ir, log: log, now: time.Now, withTx: runInTx(db)}
}

func runInTx(db *sql.DB) func(ctx context.Context, fn func(tx *sql.Tx) error) error {
	return func(ctx context.Context, fn func(tx *sql.Tx) error) error {
		tx, err := db.BeginTx(ctx, nil)
		if err != nil {
			return err
		}
		if err := fn(tx); err != nil {
			_ = tx.Rollback()
			return err
		}
		return tx.Commit()
	}
}

func (s *service) totalCopies(ctx context.Context, titleID int64) (int, error) {
	n, err := s.tr.TotalCopies(ctx, titleID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, makeErr(ErrTitleNotFound)
		}
		return 0, err
	}
	if n < 1 {
		// Capacity unknown or zero: availability display degrades to a
		// single copy instead of failing the whole request.
		s.log.Warn("title capacity unknown, assuming one copy", "title_id", titleID, "total_copies", n)
		n = 1
	}
	return n, nil
}

func (s *service) Availability(ctx context.Context, titleID int64, from time.Time, horizonDays int) (*Calendar, error) {
	t, err := s.tr.Get(ctx, titleID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, makeErr(ErrTitleNotFound)
		}
		return nil, err
	}
	copies := t.TotalCopies
	if copies < 1 {
		s.log.Warn("title capacity unknown, assuming one copy", "title_id", titleID, "total_copies", copies)
		copies = 1
	}

	from = dates.Day(from)
	ivs, err := s.ir.ActiveForTitle(ctx, titleID, from)
	if err != nil {
		return nil, err
	}
	return &Calendar{
		Title:  t.Title,
		Result: avail.Compute(copies, ivs, from, horizonDays),
	}, nil
}

func (s *service) Create(ctx context.Context, titleID, userID int64, start time.Time, end *time.Time) (*Created, error) {
	if _, err := s.totalCopies(ctx, titleID); err != nil {
		return nil, err
	}

	existing, err := s.ir.ActiveForUser(ctx, titleID, userID)
	if err != nil {
		return nil, err
	}
	today := dates.Day(s.now())
	iv, err := Validate(titleID, userID, start, end, existing, today, s.now().UTC())
	if err != nil {
		return nil, err
	}

	// Recheck-then-insert runs inside one transaction so two concurrent
	// validations cannot both commit; the partial unique index backstops it.
	var id int64
	err = s.withTx(ctx, func(tx *sql.Tx) error {
		open, err := s.ir.LockUserReservations(ctx, tx, titleID, userID)
		if err != nil {
			return err
		}
		if open > 0 {
			return makeErr(ErrDuplicateActive)
		}

		id, err = s.ir.InsertPending(ctx, tx, iv)
		if err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
				return makeErr(ErrDuplicateActive)
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &Created{
		ReservationID: id,
		StartDate:     iv.StartDate,
		EndDate:       *iv.EndDate,
	}, nil
}

func (s *service) Queue(ctx context.Context, titleID int64, d time.Time) (*QueueInfo, error) {
	if _, err := s.totalCopies(ctx, titleID); err != nil {
		return nil, err
	}
	ivs, err := s.ir.QueueForTitle(ctx, titleID)
	if err != nil {
		return nil, err
	}
	return &QueueInfo{QueueSize: QueueSize(d, ivs)}, nil
}

func (s *service) Position(ctx context.Context, reservationID int64) (int, error) {
	iv, err := s.ir.Get(ctx, reservationID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, makeErr(ErrNotFound)
		}
		return 0, err
	}
	ivs, err := s.ir.QueueForTitle(ctx, iv.TitleID)
	if err != nil {
		return 0, err
	}
	return PositionOf(reservationID, ivs)
}
