// repository/title/repo.go
package title

import (
	"context"
	"database/sql"

	"github.com/fabiodalez-dev/Pinakes-sub005/model"
)

type Repo interface {
	// TotalCopies returns the copy count for a title; sql.ErrNoRows when the
	// title does not exist.
	TotalCopies(ctx context.Context, titleID int64) (int, error)
	Get(ctx context.Context, titleID int64) (*model.Title, error)
}

type repo struct{ db *sql.DB }

func New(db *sql.DB) Repo { return &repo{db} }

func (r *repo) TotalCopies(ctx context.Context, titleID int64) (int, error) {
	const q = `
SELECT total_copies
FROM titles
WHERE id = $1`
	var n int
	if err := r.db.QueryRowContext(ctx, q, titleID).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

func (r *repo) Get(ctx context.Context, titleID int64) (*model.Title, error) {
	const q = `
SELECT id, title, total_copies
FROM titles
WHERE id = $1`
	var t model.Title
	if err := r.db.QueryRowContext(ctx, q, titleID).Scan(&t.ID, &t.Title, &t.TotalCopies); err != nil {
		return nil, err
	}
	return &t, nil
}
