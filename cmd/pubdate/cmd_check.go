package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kingrea/pubdate/internal/csp/satcheck"
)

func newCheckCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Validate the dependency table and check that a schedule exists",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(opts)
			if err != nil {
				return err
			}
			defer s.close()
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "documents:   %d\n", len(s.graph.Documents))
			fmt.Fprintf(out, "edges:       %d\n", len(s.graph.Edges))

			if err := s.buildPlan(); err != nil {
				return err
			}
			fmt.Fprintf(out, "constraints: %d\n", len(s.plan.Constraints()))

			report, err := s.plan.Feasibility()
			if errors.Is(err, satcheck.ErrTooLarge) {
				fmt.Fprintln(out, "feasibility: skipped, problem too large for the SAT check")
				return nil
			}
			if err != nil {
				return err
			}
			s.log.Slog().Info("feasibility checked",
				"satisfiable", report.Satisfiable,
				"literals", report.Literals,
				"clauses", report.Clauses,
			)
			if !report.Satisfiable {
				fmt.Fprintf(out, "feasibility: unsatisfiable (%d literals, %d clauses)\n", report.Literals, report.Clauses)
				return &exitError{code: exitInfeasible, msg: "infeasible: no schedule satisfies every constraint"}
			}
			fmt.Fprintf(out, "feasibility: satisfiable (%d literals, %d clauses)\n", report.Literals, report.Clauses)
			return nil
		},
	}
}
