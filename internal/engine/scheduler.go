package engine

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"

	"ghsecaudit/internal/data/models"
	"ghsecaudit/internal/report"
)

// RepoFunc audits one repository. A returned error aborts the whole run;
// repository-scoped failures belong on the entry's AccessError instead.
type RepoFunc func(ctx context.Context, repo models.Repository) (report.RepositoryEntry, error)

type Scheduler struct {
	work        RepoFunc
	concurrency int
}

func NewScheduler(work RepoFunc, concurrency int) (*Scheduler, error) {
	if work == nil {
		return nil, errors.New("repository func is nil")
	}
	if concurrency <= 0 {
		return nil, fmt.Errorf("concurrency must be >= 1, got %d", concurrency)
	}
	return &Scheduler{work: work, concurrency: concurrency}, nil
}

// Execute audits repos with at most concurrency repositories in flight.
//
// Result semantics:
//   - On success, the returned slice has exactly one entry per repo, in the
//     order of repos regardless of completion order.
//   - The first error returned by work cancels the remaining workers and is
//     returned with no entries.
//   - Cancellation of ctx is returned as an error.
func (s *Scheduler) Execute(ctx context.Context, repos []models.Repository) ([]report.RepositoryEntry, error) {
	if ctx == nil {
		return nil, errors.New("context is nil")
	}
	if s == nil {
		return nil, errors.New("scheduler is nil")
	}

	entries := make([]report.RepositoryEntry, len(repos))
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)

	for i, repo := range repos {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			entry, err := s.work(gctx, repo)
			if err != nil {
				return err
			}
			mu.Lock()
			entries[i] = entry
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return entries, nil
}
