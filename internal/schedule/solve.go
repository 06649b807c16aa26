package schedule

import (
	"context"
	"log/slog"
	"time"

	"github.com/kingrea/pubdate/internal/calendar"
	"github.com/kingrea/pubdate/internal/csp"
	"github.com/kingrea/pubdate/internal/csp/satcheck"
)

// Result is the outcome of one solve. Dates is set only when Outcome is
// csp.StatusSolved. Feasible is nil when feasibility is unknown, which only
// happens for a budget outcome without WithFeasibilityCheck.
type Result struct {
	Outcome  csp.Status
	Dates    map[string]calendar.Date
	Stats    csp.Stats
	Feasible *bool
}

// Scheduled reports whether every document received a date.
func (r Result) Scheduled() bool {
	return r.Outcome == csp.StatusSolved
}

type solveOptions struct {
	maxSteps    int
	timeout     time.Duration
	logger      *slog.Logger
	feasibility bool
}

// Option tunes Solve.
type Option func(*solveOptions)

// WithMaxSteps caps the number of candidate dates tried.
func WithMaxSteps(n int) Option {
	return func(o *solveOptions) { o.maxSteps = n }
}

// WithTimeout caps the wall-clock time of the search.
func WithTimeout(d time.Duration) Option {
	return func(o *solveOptions) { o.timeout = d }
}

// WithLogger sets the logger for solve events. slog.Default() is used
// otherwise.
func WithLogger(logger *slog.Logger) Option {
	return func(o *solveOptions) { o.logger = logger }
}

// WithFeasibilityCheck runs a SAT check when the search runs out of budget,
// so Result.Feasible still says whether a schedule exists.
func WithFeasibilityCheck() Option {
	return func(o *solveOptions) { o.feasibility = true }
}

// Schedule is NewPlan followed by Solve.
func Schedule(ctx context.Context, req Request, opts ...Option) (Result, error) {
	plan, err := NewPlan(req)
	if err != nil {
		return Result{}, err
	}
	return plan.Solve(ctx, opts...)
}

// Solve searches for the first assignment of dates, trying documents in
// plan order and dates in ascending order. Infeasibility and budget
// exhaustion are reported through Result.Outcome; only context cancellation
// and a failed feasibility check return an error.
func (p *Plan) Solve(ctx context.Context, opts ...Option) (Result, error) {
	cfg := solveOptions{}
	for _, opt := range opts {
		opt(&cfg)
	}
	logger := cfg.logger
	if logger == nil {
		logger = slog.Default()
	}

	logger.Info("solve started",
		slog.Int("documents", len(p.documents)),
		slog.Int("constraints", len(p.constraints)),
		slog.Int("max_steps", cfg.maxSteps),
		slog.Duration("timeout", cfg.timeout),
	)

	var searchOpts []csp.SearchOption
	if cfg.maxSteps > 0 {
		searchOpts = append(searchOpts, csp.WithMaxSteps(cfg.maxSteps))
	}
	if cfg.timeout > 0 {
		searchOpts = append(searchOpts, csp.WithTimeout(cfg.timeout))
	}
	found, err := p.problem.Search(ctx, searchOpts...)
	if err != nil {
		logger.Warn("solve aborted", slog.String("error", err.Error()))
		return Result{Stats: found.Stats}, err
	}

	result := Result{Outcome: found.Status, Stats: found.Stats}
	switch found.Status {
	case csp.StatusSolved:
		result.Dates = make(map[string]calendar.Date, len(found.Assignment))
		for doc, date := range found.Assignment {
			result.Dates[doc] = date
		}
		result.Feasible = boolPtr(true)
	case csp.StatusInfeasible:
		result.Feasible = boolPtr(false)
	case csp.StatusBudgetExceeded:
		if cfg.feasibility {
			report, err := satcheck.Check(p.problem)
			if err != nil {
				logger.Warn("feasibility check failed", slog.String("error", err.Error()))
				return result, err
			}
			result.Feasible = boolPtr(report.Satisfiable)
			logger.Info("feasibility checked",
				slog.Bool("satisfiable", report.Satisfiable),
				slog.Int("literals", report.Literals),
				slog.Int("clauses", report.Clauses),
			)
		}
	}

	logger.Info("solve finished",
		slog.String("outcome", found.Status.String()),
		slog.Int("nodes", found.Stats.Nodes),
		slog.Int("backtracks", found.Stats.Backtracks),
		slog.Int("max_depth", found.Stats.MaxDepth),
		slog.Duration("elapsed", found.Stats.Elapsed),
	)
	return result, nil
}

// Feasibility runs the SAT check on its own, without searching.
func (p *Plan) Feasibility() (satcheck.Report[string, calendar.Date], error) {
	return satcheck.Check(p.problem)
}

func boolPtr(v bool) *bool {
	return &v
}
