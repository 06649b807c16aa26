package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/kingrea/pubdate/internal/calendar"
	"github.com/kingrea/pubdate/internal/config"
	"github.com/kingrea/pubdate/internal/dependency"
	"github.com/kingrea/pubdate/internal/domains"
	"github.com/kingrea/pubdate/internal/logging"
	"github.com/kingrea/pubdate/internal/schedule"
	"github.com/kingrea/pubdate/internal/table"
	"github.com/kingrea/pubdate/internal/vocabulary"
)

const (
	exitInfeasible = 2
	exitBudget     = 3
)

// rootOptions holds the flags shared by every subcommand.
type rootOptions struct {
	projectDir string
	tablePath  string
	stage      string
	snap       bool
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	rootCmd := &cobra.Command{
		Use:   "pubdate",
		Short: "Schedule document publication dates around project milestones",
		Long: `pubdate reads a document dependency table and assigns every document
a working-day publication date that respects its dependencies, its
milestone window and the minimum test durations.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVarP(&opts.projectDir, "project", "C", "", "project directory (default: current directory)")
	rootCmd.PersistentFlags().StringVar(&opts.tablePath, "table", "", "dependency table (.csv, .yaml); overrides config")
	rootCmd.PersistentFlags().StringVar(&opts.stage, "stage", "", "only schedule documents of this stage")
	rootCmd.PersistentFlags().BoolVar(&opts.snap, "snap", false, "move milestones off weekends and holidays to the next working day")

	rootCmd.AddCommand(
		newInitCmd(opts),
		newScheduleCmd(opts),
		newCheckCmd(opts),
		newReviewCmd(opts),
	)
	return rootCmd
}

func newInitCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create .pubdate/ with the default config and vocabulary",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := opts.dir()
			if err != nil {
				return err
			}
			if err := config.InitDir(dir); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Initialized %s\n", config.PubdateDir)
			return nil
		},
	}
}

func (o *rootOptions) dir() (string, error) {
	if o.projectDir != "" {
		return o.projectDir, nil
	}
	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("get working directory: %w", err)
	}
	return cwd, nil
}

// session is the loaded project every scheduling command works on.
type session struct {
	cfg   *config.Config
	log   *logging.Logger
	vocab vocabulary.Vocabulary
	graph dependency.Graph
	plan  *schedule.Plan
	snap  bool
}

// openSession loads config, vocabulary and table, applies the document
// filters and validates the dependency graph. The plan is built last so
// callers can still report graph problems when it fails.
func openSession(opts *rootOptions) (*session, error) {
	dir, err := opts.dir()
	if err != nil {
		return nil, err
	}
	cfg, err := config.Load(dir)
	if err != nil {
		return nil, err
	}
	logger, err := logging.New(dir)
	if err != nil {
		return nil, err
	}
	s := &session{cfg: cfg, log: logger, snap: opts.snap}

	s.vocab, err = cfg.LoadVocabulary()
	if err != nil {
		s.close()
		return nil, err
	}

	path := cfg.TablePath()
	if opts.tablePath != "" {
		path = opts.tablePath
	}
	tbl, err := table.LoadFile(path)
	if err != nil {
		s.close()
		return nil, err
	}
	loaded := len(tbl)
	tbl = tbl.Without(s.vocab.Exclusions(cfg.IncludeSafetyAnalysis(), cfg.IncludeCyberSecurity())...)
	if len(cfg.Project.Documents) > 0 {
		tbl = tbl.Select(cfg.Project.Documents...)
	}
	if opts.stage != "" {
		tbl = tbl.Select(tbl.Stage(opts.stage).Names()...)
	}
	logger.Printf("loaded %s: %d rows, %d after filters", path, loaded, len(tbl))

	s.graph, err = dependency.Extract(tbl)
	if err != nil {
		s.close()
		return nil, err
	}
	if err := s.graph.Validate(); err != nil {
		s.close()
		return nil, err
	}
	return s, nil
}

// buildPlan turns the validated graph into a scheduling plan.
func (s *session) buildPlan() error {
	vocab := s.vocab
	holidays := s.cfg.Holidays()
	milestones := s.cfg.Project.Milestones
	if s.snap {
		milestones = snapMilestones(milestones, holidays)
		s.log.Printf("milestones snapped to working days: spec %s, design %s, impl %s, end %s",
			milestones.Spec, milestones.Design, milestones.Impl, milestones.End)
	}
	plan, err := schedule.NewPlan(schedule.Request{
		Milestones: milestones,
		Holidays:   holidays,
		Documents:  s.graph.Documents,
		Edges:      s.graph.Edges,
		Durations:  s.cfg.Project.Durations,
		Vocabulary: &vocab,
	})
	if err != nil {
		s.log.Printf("plan rejected: %v", err)
		return err
	}
	s.plan = plan
	return nil
}

// snapMilestones moves every anchor to the first working day on or after it.
// The order of the anchors is preserved.
func snapMilestones(m domains.Milestones, holidays calendar.Holidays) domains.Milestones {
	return domains.Milestones{
		Spec:   calendar.NextWorkingDay(m.Spec, holidays),
		Design: calendar.NextWorkingDay(m.Design, holidays),
		Impl:   calendar.NextWorkingDay(m.Impl, holidays),
		End:    calendar.NextWorkingDay(m.End, holidays),
	}
}

func (s *session) close() {
	if err := s.log.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: close log: %v\n", err)
	}
}
