package engine

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"ghsecaudit/internal/data/models"
	"ghsecaudit/internal/report"
)

func testRepos(n int) []models.Repository {
	repos := make([]models.Repository, n)
	for i := range repos {
		repos[i] = models.Repository{ID: int64(i + 1), Owner: "acme", Name: fmt.Sprintf("r%d", i)}
	}
	return repos
}

func TestNewScheduler_ValidatesInputs(t *testing.T) {
	if _, err := NewScheduler(nil, 1); err == nil {
		t.Fatalf("expected error for nil func")
	}
	work := func(context.Context, models.Repository) (report.RepositoryEntry, error) {
		return report.RepositoryEntry{}, nil
	}
	if _, err := NewScheduler(work, 0); err == nil {
		t.Fatalf("expected error for zero concurrency")
	}
}

func TestScheduler_Execute_PreservesOrderUnderConcurrency(t *testing.T) {
	repos := testRepos(20)
	var inFlight, peak int32

	s, err := NewScheduler(func(ctx context.Context, repo models.Repository) (report.RepositoryEntry, error) {
		n := atomic.AddInt32(&inFlight, 1)
		for {
			p := atomic.LoadInt32(&peak)
			if n <= p || atomic.CompareAndSwapInt32(&peak, p, n) {
				break
			}
		}
		// Later repos finish first.
		time.Sleep(time.Duration(20-repo.ID) * time.Millisecond)
		atomic.AddInt32(&inFlight, -1)
		return report.RepositoryEntry{Repository: repo}, nil
	}, 4)
	if err != nil {
		t.Fatalf("NewScheduler: %v", err)
	}

	entries, err := s.Execute(context.Background(), repos)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if len(entries) != len(repos) {
		t.Fatalf("expected %d entries, got %d", len(repos), len(entries))
	}
	for i, e := range entries {
		if e.Repository.ID != repos[i].ID {
			t.Fatalf("entry %d is repo %d, want %d", i, e.Repository.ID, repos[i].ID)
		}
	}
	if peak > 4 {
		t.Fatalf("concurrency bound exceeded: peak %d", peak)
	}
}

func TestScheduler_Execute_ErrorCancelsRemaining(t *testing.T) {
	repos := testRepos(50)
	fatal := errors.New("unauthorized")
	var started int32

	s, err := NewScheduler(func(ctx context.Context, repo models.Repository) (report.RepositoryEntry, error) {
		atomic.AddInt32(&started, 1)
		if repo.ID == 2 {
			return report.RepositoryEntry{}, fatal
		}
		select {
		case <-ctx.Done():
			return report.RepositoryEntry{}, ctx.Err()
		case <-time.After(20 * time.Millisecond):
		}
		return report.RepositoryEntry{Repository: repo}, nil
	}, 2)
	if err != nil {
		t.Fatalf("NewScheduler: %v", err)
	}

	entries, err := s.Execute(context.Background(), repos)
	if !errors.Is(err, fatal) {
		t.Fatalf("expected the first worker error, got %v", err)
	}
	if entries != nil {
		t.Fatalf("expected no entries on failure, got %d", len(entries))
	}
	if n := atomic.LoadInt32(&started); n >= int32(len(repos)) {
		t.Fatalf("expected scheduling to stop early, %d of %d started", n, len(repos))
	}
}

func TestScheduler_Execute_CanceledContext(t *testing.T) {
	s, err := NewScheduler(func(ctx context.Context, repo models.Repository) (report.RepositoryEntry, error) {
		return report.RepositoryEntry{Repository: repo}, nil
	}, 1)
	if err != nil {
		t.Fatalf("NewScheduler: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := s.Execute(ctx, testRepos(3)); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestScheduler_Execute_Empty(t *testing.T) {
	s, err := NewScheduler(func(ctx context.Context, repo models.Repository) (report.RepositoryEntry, error) {
		t.Fatalf("work must not be called")
		return report.RepositoryEntry{}, nil
	}, 3)
	if err != nil {
		t.Fatalf("NewScheduler: %v", err)
	}
	entries, err := s.Execute(context.Background(), nil)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("expected no entries, got %d", len(entries))
	}
}
