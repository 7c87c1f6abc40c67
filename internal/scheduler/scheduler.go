package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/mamadbah2/buffalo/internal/config"
	"github.com/mamadbah2/buffalo/internal/domain/derivation"
	"github.com/mamadbah2/buffalo/internal/repository/archive"
	"github.com/mamadbah2/buffalo/internal/repository/sheets"
	"github.com/mamadbah2/buffalo/internal/service/notify"
	"github.com/mamadbah2/buffalo/internal/service/reporting"
)

const reportTimeout = 2 * time.Minute

// Step outcomes.
const (
	StatusDone    = "done"
	StatusSkipped = "skipped"
	StatusFailed  = "failed"
)

// Reporter builds the fleet report.
type Reporter interface {
	FleetReport(ctx context.Context) (reporting.Report, error)
}

// Sinks are the optional report destinations. A nil sink is skipped.
type Sinks struct {
	Notifier notify.Notifier
	Sheets   sheets.Exporter
	Archive  archive.Archiver
}

// StepResult is the outcome of one report destination.
type StepResult struct {
	Step   string `json:"step"`
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

// Outcome summarizes one report run.
type Outcome struct {
	GeneratedAt time.Time               `json:"generatedAt"`
	Summary     derivation.FleetSummary `json:"summary"`
	Steps       []StepResult            `json:"steps"`
}

// Scheduler manages scheduled tasks.
type Scheduler struct {
	cron     *cron.Cron
	schedule string
	reporter Reporter
	sinks    Sinks
	logger   *zap.Logger
}

// NewScheduler creates a new scheduler instance running in the configured timezone.
func NewScheduler(cfg config.ReportingConfig, reporter Reporter, sinks Sinks, logger *zap.Logger) (*Scheduler, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}

	return &Scheduler{
		cron:     cron.New(cron.WithLocation(loc)),
		schedule: cfg.CronSchedule,
		reporter: reporter,
		sinks:    sinks,
		logger:   logger,
	}, nil
}

// Start registers the report job and starts the scheduler.
func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc(s.schedule, s.runScheduledReport); err != nil {
		return fmt.Errorf("schedule fleet report %q: %w", s.schedule, err)
	}
	s.cron.Start()
	s.logger.Info("scheduler started", zap.String("schedule", s.schedule))
	return nil
}

// Stop stops the scheduler and waits for a running job to finish.
func (s *Scheduler) Stop() {
	s.logger.Info("stopping scheduler")
	<-s.cron.Stop().Done()
}

func (s *Scheduler) runScheduledReport() {
	ctx, cancel := context.WithTimeout(context.Background(), reportTimeout)
	defer cancel()

	if _, err := s.RunReport(ctx); err != nil {
		s.logger.Error("scheduled fleet report failed", zap.Error(err))
	}
}

// RunReport builds the fleet report and hands it to every configured sink.
// Only a failure to build the report is returned; sink failures are recorded
// in the outcome and do not stop the remaining sinks.
func (s *Scheduler) RunReport(ctx context.Context) (Outcome, error) {
	s.logger.Info("generating fleet report")

	report, err := s.reporter.FleetReport(ctx)
	if err != nil {
		return Outcome{}, fmt.Errorf("build fleet report: %w", err)
	}

	outcome := Outcome{GeneratedAt: report.GeneratedAt, Summary: report.Summary}

	outcome.Steps = append(outcome.Steps, s.step("whatsapp", s.sinks.Notifier != nil, func() error {
		return s.sinks.Notifier.SendReport(ctx, report.Text())
	}))
	outcome.Steps = append(outcome.Steps, s.step("sheets", s.sinks.Sheets != nil, func() error {
		return s.sinks.Sheets.AppendRows(ctx, reporting.SummaryRange, [][]interface{}{report.SummaryRow()})
	}))
	outcome.Steps = append(outcome.Steps, s.step("archive", s.sinks.Archive != nil, func() error {
		body, err := report.Snapshot()
		if err != nil {
			return err
		}
		return s.sinks.Archive.Put(ctx, report.SnapshotKey(), body)
	}))

	return outcome, nil
}

func (s *Scheduler) step(name string, enabled bool, run func() error) StepResult {
	if !enabled {
		return StepResult{Step: name, Status: StatusSkipped}
	}
	if err := run(); err != nil {
		s.logger.Error("fleet report step failed", zap.String("step", name), zap.Error(err))
		return StepResult{Step: name, Status: StatusFailed, Error: err.Error()}
	}
	s.logger.Info("fleet report step done", zap.String("step", name))
	return StepResult{Step: name, Status: StatusDone}
}
