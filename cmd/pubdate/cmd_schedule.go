package main

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/kingrea/pubdate/internal/calendar"
	"github.com/kingrea/pubdate/internal/csp"
	"github.com/kingrea/pubdate/internal/schedule"
)

// searchFlags bound the search; zero values fall back to the config.
type searchFlags struct {
	maxSteps    int
	timeout     time.Duration
	feasibility bool
}

func (f *searchFlags) register(cmd *cobra.Command) {
	cmd.Flags().IntVar(&f.maxSteps, "max-steps", 0, "maximum candidate dates to try (default: config search.max_steps)")
	cmd.Flags().DurationVar(&f.timeout, "timeout", 0, "wall-clock search limit (default: config search.timeout)")
	cmd.Flags().BoolVar(&f.feasibility, "feasibility", false, "run a SAT check when the search budget runs out")
}

func (f *searchFlags) options(s *session) []schedule.Option {
	maxSteps := s.cfg.Project.Search.MaxSteps
	if f.maxSteps > 0 {
		maxSteps = f.maxSteps
	}
	timeout := s.cfg.Project.Search.Timeout
	if f.timeout > 0 {
		timeout = f.timeout
	}
	opts := []schedule.Option{
		schedule.WithMaxSteps(maxSteps),
		schedule.WithTimeout(timeout),
		schedule.WithLogger(s.log.Slog()),
	}
	if f.feasibility {
		opts = append(opts, schedule.WithFeasibilityCheck())
	}
	return opts
}

func newScheduleCmd(opts *rootOptions) *cobra.Command {
	var (
		search searchFlags
		format string
		order  string
	)
	cmd := &cobra.Command{
		Use:   "schedule",
		Short: "Assign a publication date to every document",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if order != "table" && order != "topo" {
				return fmt.Errorf("unknown --order %q (want topo or table)", order)
			}
			s, err := openSession(opts)
			if err != nil {
				return err
			}
			defer s.close()
			if err := s.buildPlan(); err != nil {
				return err
			}

			res, err := s.plan.Solve(cmd.Context(), search.options(s)...)
			if err != nil {
				return err
			}
			if err := outcomeError(res); err != nil {
				return err
			}

			docs := s.plan.Documents()
			if order == "topo" {
				if docs, err = s.graph.TopologicalOrder(); err != nil {
					return err
				}
			}
			layout := s.cfg.Project.Output.DateFormat
			if format != "" {
				layout = format
			}
			printDates(cmd.OutOrStdout(), docs, res.Dates, layout)
			return nil
		},
	}
	search.register(cmd)
	cmd.Flags().StringVar(&format, "format", "", "Go date layout for output (default: config output.date_format)")
	cmd.Flags().StringVar(&order, "order", "table", "print order: table or topo")
	return cmd
}

// outcomeError maps an unscheduled result to its exit status.
func outcomeError(res schedule.Result) error {
	switch res.Outcome {
	case csp.StatusInfeasible:
		return &exitError{code: exitInfeasible, msg: "infeasible: no schedule satisfies every constraint"}
	case csp.StatusBudgetExceeded:
		msg := fmt.Sprintf("budget exceeded after %d nodes", res.Stats.Nodes)
		if res.Feasible != nil {
			if *res.Feasible {
				msg += "; a schedule exists, raise --max-steps or --timeout"
			} else {
				msg += "; no schedule exists"
			}
		}
		return &exitError{code: exitBudget, msg: msg}
	}
	return nil
}

func printDates(w io.Writer, docs []string, dates map[string]calendar.Date, layout string) {
	for _, doc := range docs {
		fmt.Fprintf(w, "%s\t%s\n", doc, dates[doc].Format(layout))
	}
}

