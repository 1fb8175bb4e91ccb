package engine

import (
	"context"
	"errors"
	"fmt"
	"io"
	"iter"
	"os"
	"time"

	"go.uber.org/zap"

	"ghsecaudit/internal/codeowners"
	"ghsecaudit/internal/config"
	"ghsecaudit/internal/data/models"
	"ghsecaudit/internal/fetcher"
	"ghsecaudit/internal/report"
	"ghsecaudit/internal/rules"
)

// Source is the GitHub data an audit reads. *providers.Source implements it.
type Source interface {
	codeowners.ContentFetcher
	Account(ctx context.Context, login string) (models.Account, error)
	Members(ctx context.Context, account models.Account) ([]models.Member, error)
	Repositories(ctx context.Context, account models.Account) iter.Seq2[models.Repository, error]
	BranchProtection(ctx context.Context, repo models.Repository) (*models.ProtectionSettings, error)
}

type Engine struct {
	source   Source
	resolver *codeowners.Resolver
	logger   *zap.Logger
	progress io.Writer
}

type Option func(*Engine)

func WithLogger(logger *zap.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithProgress sets where human-readable progress lines go. Defaults to stderr.
func WithProgress(w io.Writer) Option {
	return func(e *Engine) {
		if w != nil {
			e.progress = w
		}
	}
}

func NewEngine(source Source, opts ...Option) (*Engine, error) {
	if source == nil {
		return nil, errors.New("source is nil")
	}
	e := &Engine{
		source:   source,
		resolver: codeowners.NewResolver(source),
		logger:   zap.NewNop(),
		progress: os.Stderr,
	}
	for _, apply := range opts {
		if apply != nil {
			apply(e)
		}
	}
	return e, nil
}

// Run audits the configured account and returns the aggregated report.
//
// Account lookup, member listing and repository discovery failures are fatal.
// Per-repository failures become access errors on the affected entry, except
// for fatal fetch errors (unauthorized, repeated rate limit, cancellation),
// which abort the run with no report.
func (e *Engine) Run(ctx context.Context, cfg *config.Config) (*report.AuditReport, error) {
	if ctx == nil {
		return nil, errors.New("context is nil")
	}
	if e == nil {
		return nil, errors.New("engine is nil")
	}
	if cfg == nil {
		return nil, errors.New("config is nil")
	}

	if cfg.Runtime.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.Runtime.Timeout)
		defer cancel()
	}

	start := time.Now()
	progress := e.progress
	if cfg.Output.NoConsole {
		progress = io.Discard
	}

	fmt.Fprintln(progress, "Looking up account...")
	account, err := e.source.Account(ctx, cfg.Target.Org)
	if err != nil {
		return nil, fmt.Errorf("look up account %s: %w", cfg.Target.Org, err)
	}
	e.logger.Info("account resolved", zap.String("login", account.Login), zap.String("type", string(account.Type)))

	members, err := e.source.Members(ctx, account)
	if err != nil {
		return nil, fmt.Errorf("list members of %s: %w", account.Login, err)
	}
	e.logger.Info("members listed", zap.Int("count", len(members)))

	fmt.Fprintln(progress, "Discovering repositories...")
	discovered, err := fetcher.Collect(e.source.Repositories(ctx, account))
	if err != nil {
		return nil, fmt.Errorf("discover repositories of %s: %w", account.Login, err)
	}
	repos := FilterRepos(discovered, cfg.Target)
	e.logger.Info("repositories discovered", zap.Int("discovered", len(discovered)), zap.Int("selected", len(repos)))
	fmt.Fprintf(progress, "Found %d repositories.\n", len(repos))

	verbose := cfg.Runtime.Verbose
	scheduler, err := NewScheduler(func(ctx context.Context, repo models.Repository) (report.RepositoryEntry, error) {
		return e.auditRepository(ctx, repo, verbose)
	}, cfg.Runtime.Concurrency)
	if err != nil {
		return nil, err
	}

	fmt.Fprintf(progress, "Auditing %d repositories with %d workers...\n", len(repos), cfg.Runtime.Concurrency)
	entries, err := scheduler.Execute(ctx, repos)
	if err != nil {
		return nil, fmt.Errorf("audit aborted: %w", err)
	}

	r := report.Aggregate(account, members, entries)
	summary := r.Summary()
	e.logger.Info("audit finished",
		zap.Int("repositories", summary.TotalRepositories),
		zap.Int("access_errors", summary.AccessErrors),
		zap.Int("non_compliant", summary.NonCompliant()),
		zap.Duration("elapsed", time.Since(start)),
	)
	return r, nil
}

// auditRepository resolves the reviewer file, then evaluates branch
// protection. The first non-fatal failure ends the repository's audit.
func (e *Engine) auditRepository(ctx context.Context, repo models.Repository, verbose bool) (report.RepositoryEntry, error) {
	entry := report.RepositoryEntry{Repository: repo}

	reviewers, err := e.resolver.Resolve(ctx, repo)
	if err != nil {
		return e.accessErrorEntry(entry, report.OperationReviewerFile, err, verbose)
	}

	settings, err := e.source.BranchProtection(ctx, repo)
	if err != nil {
		return e.accessErrorEntry(entry, report.OperationBranchProtection, err, verbose)
	}

	entry.Reviewers = reviewers
	entry.Findings = rules.Evaluate(repo.Slug(), settings)
	e.logger.Debug("repository audited",
		zap.String("repo", repo.Slug()),
		zap.String("reviewer_file", reviewers.Describe()),
		zap.Bool("protected", settings != nil),
	)
	return entry, nil
}

func (e *Engine) accessErrorEntry(entry report.RepositoryEntry, operation string, err error, verbose bool) (report.RepositoryEntry, error) {
	if fetcher.IsFatal(err) {
		return report.RepositoryEntry{}, fmt.Errorf("%s %s: %w", operation, entry.Repository.Slug(), err)
	}
	entry.AccessError = newAccessError(operation, entry.Repository, err, verbose)
	e.logger.Warn("repository access error",
		zap.String("repo", entry.Repository.Slug()),
		zap.String("operation", operation),
		zap.Int("status", entry.AccessError.StatusCode),
		zap.Error(err),
	)
	return entry, nil
}
