package maintenance

import (
	"context"
	"log/slog"
	"time"

	intervalrepo "github.com/fabiodalez-dev/Pinakes-sub005/repository/interval"
	"github.com/fabiodalez-dev/Pinakes-sub005/util/dates"
)

// Sweeper hosts the lifecycle transition the engine itself never performs:
// an active loan whose end date has passed becomes overdue.
type Sweeper interface {
	MarkOverdue(ctx context.Context) (int64, error)
}

type sweeper struct {
	r   intervalrepo.Repo
	log *slog.Logger
}

func New(r intervalrepo.Repo, log *slog.Logger) Sweeper { return &sweeper{r: r, log: log} }

func (s *sweeper) MarkOverdue(ctx context.Context) (int64, error) {
	return s.r.MarkOverdue(ctx, dates.Day(time.Now().UTC()))
}

// Run sweeps on a ticker until the context is cancelled.
func Run(ctx context.Context, s Sweeper, every time.Duration, log *slog.Logger) {
	go func() {
		ticker := time.NewTicker(every)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				n, err := s.MarkOverdue(ctx)
				if err != nil {
					log.Error("overdue sweep failed", "err", err)
					continue
				}
				if n > 0 {
					log.Info("marked loans overdue", "count", n)
				}
			}
		}
	}()
}
