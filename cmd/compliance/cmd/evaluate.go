package cmd

import (
	"context"
	"fmt"
	"io"
	"os/signal"
	"syscall"
	"text/tabwriter"

	"github.com/cmlabs-hris/attendance-compliance/internal/config"
	"github.com/cmlabs-hris/attendance-compliance/internal/domain/alarm"
	"github.com/cmlabs-hris/attendance-compliance/internal/pkg/database"
	"github.com/cmlabs-hris/attendance-compliance/internal/pkg/logger"
	"github.com/cmlabs-hris/attendance-compliance/internal/pkg/sse"
	"github.com/cmlabs-hris/attendance-compliance/internal/repository/postgresql"
	"github.com/cmlabs-hris/attendance-compliance/internal/service/compliance"
	notificationService "github.com/cmlabs-hris/attendance-compliance/internal/service/notification"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

type evaluateOptions struct {
	employeeID   string
	supervisorID string
	from         string
	to           string
	dryRun       bool
}

func newEvaluateCommand() *cobra.Command {
	opts := &evaluateOptions{}

	command := &cobra.Command{
		Use:   "evaluate",
		Short: "Evaluate every rule for one employee over a date range.",
		Long: `Evaluates every compliance rule for one employee between --from and --to
(inclusive) and prints the resulting alarms. New alarms are stored and their
supervisor is notified unless --dry-run is given.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGTERM, syscall.SIGINT)
			defer stop()

			return runEvaluate(ctx, cmd.OutOrStdout(), opts)
		},
	}

	command.Flags().StringVar(&opts.employeeID, "employee", "", "employee ID to evaluate")
	command.Flags().StringVar(&opts.supervisorID, "supervisor", "", "supervisor ID that overrides the stored one")
	command.Flags().StringVar(&opts.from, "from", "", "first date, YYYY-MM-DD")
	command.Flags().StringVar(&opts.to, "to", "", "last date, YYYY-MM-DD")
	command.Flags().BoolVar(&opts.dryRun, "dry-run", false, "print alarms without storing or notifying")
	_ = command.MarkFlagRequired("employee")
	_ = command.MarkFlagRequired("from")
	_ = command.MarkFlagRequired("to")

	return command
}

func (o *evaluateOptions) request() alarm.EvaluateRequest {
	req := alarm.EvaluateRequest{
		EmployeeID: o.employeeID,
		StartDate:  o.from,
		EndDate:    o.to,
		DryRun:     o.dryRun,
	}
	if o.supervisorID != "" {
		req.SupervisorID = &o.supervisorID
	}
	return req
}

func runEvaluate(ctx context.Context, out io.Writer, opts *evaluateOptions) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("error loading config: %w", err)
	}
	logger.Init(cfg.App.LogLevel, "app", "compliance-cli")
	defer logger.Sync()

	thresholds, err := loadThresholds(cfg)
	if err != nil {
		return err
	}

	db, err := database.NewPostgreSQLDB(ctx, cfg.DatabaseURL(), database.PoolConfig{MaxConns: 4})
	if err != nil {
		return fmt.Errorf("error connecting to database: %w", err)
	}
	defer db.Close()

	notifService := notificationService.NewNotificationService(
		postgresql.NewNotificationRepository(db),
		sse.NewHub(),
		notificationService.Config{WorkerCount: 1},
	)
	// Stop drains queued notifications before the pool closes.
	defer notifService.Stop()

	evaluator := compliance.NewEvaluator(compliance.Sources{
		Punches:   postgresql.NewPunchRepository(db),
		Vacations: postgresql.NewVacationRepository(db),
		Contracts: postgresql.NewContractRepository(db),
	}, compliance.Options{
		Thresholds:  &thresholds,
		Location:    cfg.Compliance.Location,
		Locale:      compliance.ParseLocale(cfg.Compliance.Locale),
		ReadTimeout: cfg.Compliance.ReadTimeout,
	})
	svc := compliance.NewComplianceService(
		compliance.NewOrchestrator(postgresql.NewScheduleRepository(db), evaluator),
		postgresql.NewEmployeeRepository(db),
		postgresql.NewAlarmRepository(db),
		notifService,
		1,
	)

	result, err := svc.Evaluate(ctx, opts.request())
	if err != nil {
		return err
	}

	return printEvaluation(out, result)
}

func loadThresholds(cfg *config.Config) (compliance.Thresholds, error) {
	path := cfg.Compliance.RulesFile
	if rulesFile != "" {
		path = rulesFile
	}
	return compliance.LoadThresholds(path)
}

// printEvaluation renders the candidates as an aligned table followed by a
// one-line summary.
func printEvaluation(out io.Writer, result alarm.EvaluateResponse) error {
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "DATE\tTYPE\tHOURS\tDESCRIPTION")
	for _, c := range result.Candidates {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", c.Date, c.Type, decimal.NewFromFloat(c.HoursInvolved).StringFixed(2), c.Description)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	mode := "stored"
	if result.DryRun {
		mode = "dry run"
	}
	_, err := fmt.Fprintf(out, "\n%d alarm(s) for %s between %s and %s (%s): %d new, %d already recorded\n",
		len(result.Candidates), result.EmployeeID, result.StartDate, result.EndDate, mode, result.Inserted, result.Duplicates)
	return err
}
