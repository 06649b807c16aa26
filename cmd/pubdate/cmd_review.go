package main

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/kingrea/pubdate/internal/tui"
)

func newReviewCmd(opts *rootOptions) *cobra.Command {
	var search searchFlags
	cmd := &cobra.Command{
		Use:   "review",
		Short: "Open the schedule in an editable review grid",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(opts)
			if err != nil {
				return err
			}
			defer s.close()
			if err := s.buildPlan(); err != nil {
				return err
			}

			app := tui.New(s.plan,
				tui.WithSolveOptions(search.options(s)...),
				tui.WithDateFormat(s.cfg.Project.Output.DateFormat),
			)
			// Run blocks until the user quits
			final, err := tea.NewProgram(app, tea.WithAltScreen()).Run()
			if err != nil {
				return fmt.Errorf("run review grid: %w", err)
			}
			if reviewed, ok := final.(*tui.App); ok && reviewed.Edited() {
				printDates(cmd.OutOrStdout(), s.plan.Documents(), reviewed.Dates(), s.cfg.Project.Output.DateFormat)
				if n := len(reviewed.Violations()); n > 0 {
					fmt.Fprintf(cmd.ErrOrStderr(), "Warning: edited schedule has %d violation(s)\n", n)
				}
			}
			return nil
		},
	}
	search.register(cmd)
	return cmd
}
