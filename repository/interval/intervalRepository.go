// repository/interval/repo.go
package interval

import (
	"context"
	"database/sql"
	"time"

	"github.com/fabiodalez-dev/Pinakes-sub005/model"
)

// Repo reads and appends occupation intervals. The engine only ever consumes
// snapshots; the single write is the pending-reservation insert, guarded by a
// partial unique index on (title_id, user_id) over open reservation kinds.
type Repo interface {
	// ActiveForTitle returns every interval whose normalized end is on or
	// after from, plus open-ended ones.
	ActiveForTitle(ctx context.Context, titleID int64, from time.Time) ([]model.Interval, error)

	// ActiveForUser returns the user's open (pending/active) reservations
	// for a title.
	ActiveForUser(ctx context.Context, titleID, userID int64) ([]model.Interval, error)

	// LockUserReservations re-runs the duplicate check inside the insert
	// transaction with a row lock, closing the check-then-act race.
	LockUserReservations(ctx context.Context, tx *sql.Tx, titleID, userID int64) (int, error)
	InsertPending(ctx context.Context, tx *sql.Tx, iv *model.Interval) (int64, error)

	Get(ctx context.Context, id int64) (*model.Interval, error)

	// QueueForTitle returns pending/active reservations ordered by
	// requested_at ascending.
	QueueForTitle(ctx context.Context, titleID int64) ([]model.Interval, error)

	// MarkOverdue flips loan_active intervals whose normalized end has
	// passed to loan_overdue; returns the number of rows touched.
	MarkOverdue(ctx context.Context, asOf time.Time) (int64, error)
}

type repo struct{ db *sql.DB }

func New(db *sql.DB) Repo { return &repo{db} }

const intervalCols = `id, title_id, user_id, kind, start_date, end_date, expires_at, copy_ref, requested_at`

// normalizedEnd mirrors Interval.NormalizedEnd in SQL: explicit end date,
// else the date portion of the expiry timestamp, else the start date — and
// never before the start date.
const normalizedEnd = `GREATEST(start_date, COALESCE(end_date, CAST(expires_at AS date), start_date))`

func scanInterval(row interface{ Scan(...any) error }) (*model.Interval, error) {
	var (
		iv   model.Interval
		kind string
	)
	if err := row.Scan(&iv.ID, &iv.TitleID, &iv.UserID, &kind, &iv.StartDate, &iv.EndDate, &iv.ExpiresAt, &iv.CopyRef, &iv.RequestedAt); err != nil {
		return nil, err
	}
	k, err := model.ParseKind(kind)
	if err != nil {
		return nil, err
	}
	iv.Kind = k
	return &iv, nil
}

func (r *repo) queryIntervals(ctx context.Context, q string, args ...any) ([]model.Interval, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Interval
	for rows.Next() {
		iv, err := scanInterval(rows)
		if err != nil {
			// Availability display is advisory: a malformed row is treated
			// as absent rather than failing the whole snapshot.
			continue
		}
		out = append(out, *iv)
	}
	return out, rows.Err()
}

func (r *repo) ActiveForTitle(ctx context.Context, titleID int64, from time.Time) ([]model.Interval, error) {
	const q = `
SELECT ` + intervalCols + `
FROM intervals
WHERE title_id = $1
  AND ` + normalizedEnd + ` >= $2
ORDER BY start_date, id`
	return r.queryIntervals(ctx, q, titleID, from)
}

func (r *repo) ActiveForUser(ctx context.Context, titleID, userID int64) ([]model.Interval, error) {
	const q = `
SELECT ` + intervalCols + `
FROM intervals
WHERE title_id = $1
  AND user_id = $2
  AND kind IN ('reservation_pending','reservation_active')
ORDER BY requested_at`
	return r.queryIntervals(ctx, q, titleID, userID)
}

func (r *repo) LockUserReservations(ctx context.Context, tx *sql.Tx, titleID, userID int64) (int, error) {
	const q = `
SELECT count(*)
FROM (
    SELECT id
    FROM intervals
    WHERE title_id = $1
      AND user_id = $2
      AND kind IN ('reservation_pending','reservation_active')
    FOR UPDATE
) open_reservations`
	var n int
	err := tx.QueryRowContext(ctx, q, titleID, userID).Scan(&n)
	return n, err
}

func (r *repo) InsertPending(ctx context.Context, tx *sql.Tx, iv *model.Interval) (int64, error) {
	const q = `
INSERT INTO intervals (title_id, user_id, kind, start_date, end_date, requested_at)
VALUES ($1, $2, 'reservation_pending', $3, $4, $5)
RETURNING id`
	var id int64
	err := tx.QueryRowContext(ctx, q, iv.TitleID, iv.UserID, iv.StartDate, iv.EndDate, iv.RequestedAt).Scan(&id)
	return id, err
}

func (r *repo) Get(ctx context.Context, id int64) (*model.Interval, error) {
	const q = `
SELECT ` + intervalCols + `
FROM intervals
WHERE id = $1`
	return scanInterval(r.db.QueryRowContext(ctx, q, id))
}

func (r *repo) QueueForTitle(ctx context.Context, titleID int64) ([]model.Interval, error) {
	const q = `
SELECT ` + intervalCols + `
FROM intervals
WHERE title_id = $1
  AND kind IN ('reservation_pending','reservation_active')
ORDER BY requested_at, id`
	return r.queryIntervals(ctx, q, titleID)
}

func (r *repo) MarkOverdue(ctx context.Context, asOf time.Time) (int64, error) {
	const q = `
UPDATE intervals
SET kind = 'loan_overdue'
WHERE kind = 'loan_active'
  AND ` + normalizedEnd + ` < $1`
	res, err := r.db.ExecContext(ctx, q, asOf)
	if err != nil {
		return 0, err
	}
	n, _ := res.RowsAffected()
	return n, nil
}
