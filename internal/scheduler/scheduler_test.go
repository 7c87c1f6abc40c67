package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/buffalo/internal/config"
	"github.com/mamadbah2/buffalo/internal/domain/derivation"
	"github.com/mamadbah2/buffalo/internal/service/reporting"
)

type stubReporter struct {
	report reporting.Report
	err    error
}

func (s stubReporter) FleetReport(context.Context) (reporting.Report, error) {
	return s.report, s.err
}

type fakeNotifier struct {
	texts []string
	err   error
}

func (f *fakeNotifier) SendReport(_ context.Context, text string) error {
	f.texts = append(f.texts, text)
	return f.err
}

type fakeSheets struct {
	ranges []string
	rows   [][]interface{}
	err    error
}

func (f *fakeSheets) AppendRows(_ context.Context, sheetRange string, rows [][]interface{}) error {
	f.ranges = append(f.ranges, sheetRange)
	f.rows = append(f.rows, rows...)
	return f.err
}

type fakeArchive struct {
	keys   []string
	bodies [][]byte
	err    error
}

func (f *fakeArchive) Put(_ context.Context, key string, body []byte) error {
	f.keys = append(f.keys, key)
	f.bodies = append(f.bodies, body)
	return f.err
}

var reportingCfg = config.ReportingConfig{CronSchedule: "0 20 * * 5", Timezone: "Asia/Kolkata"}

func sampleReport() reporting.Report {
	return reporting.Report{
		GeneratedAt: time.Date(2025, 3, 14, 14, 30, 0, 0, time.UTC),
		Summary:     derivation.FleetSummary{BuffaloCount: 2, TotalExpenses: 22800},
	}
}

func TestRunReportAllSinks(t *testing.T) {
	notifier, sheetSink, archiveSink := &fakeNotifier{}, &fakeSheets{}, &fakeArchive{}
	s, err := NewScheduler(reportingCfg, stubReporter{report: sampleReport()},
		Sinks{Notifier: notifier, Sheets: sheetSink, Archive: archiveSink}, nil)
	require.NoError(t, err)

	outcome, err := s.RunReport(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []StepResult{
		{Step: "whatsapp", Status: StatusDone},
		{Step: "sheets", Status: StatusDone},
		{Step: "archive", Status: StatusDone},
	}, outcome.Steps)
	assert.Equal(t, 2, outcome.Summary.BuffaloCount)

	require.Len(t, notifier.texts, 1)
	assert.Contains(t, notifier.texts[0], "Buffalos: 2")
	assert.Equal(t, []string{reporting.SummaryRange}, sheetSink.ranges)
	require.Len(t, sheetSink.rows, 1)
	assert.Len(t, sheetSink.rows[0], 13)
	assert.Equal(t, []string{"snapshots/2025-03-14T14:30:00Z.json"}, archiveSink.keys)
}

func TestRunReportStepsFailIndependently(t *testing.T) {
	notifier := &fakeNotifier{err: errors.New("whatsapp down")}
	archiveSink := &fakeArchive{}
	s, err := NewScheduler(reportingCfg, stubReporter{report: sampleReport()},
		Sinks{Notifier: notifier, Archive: archiveSink}, nil)
	require.NoError(t, err)

	outcome, err := s.RunReport(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []StepResult{
		{Step: "whatsapp", Status: StatusFailed, Error: "whatsapp down"},
		{Step: "sheets", Status: StatusSkipped},
		{Step: "archive", Status: StatusDone},
	}, outcome.Steps)
	assert.Len(t, notifier.texts, 1, "failed steps are not retried")
	assert.Len(t, archiveSink.keys, 1)
}

func TestRunReportBuildFailure(t *testing.T) {
	notifier := &fakeNotifier{}
	storeErr := errors.New("store unavailable")
	s, err := NewScheduler(reportingCfg, stubReporter{err: storeErr}, Sinks{Notifier: notifier}, nil)
	require.NoError(t, err)

	_, err = s.RunReport(context.Background())
	assert.ErrorIs(t, err, storeErr)
	assert.Empty(t, notifier.texts)
}

func TestNewSchedulerRejectsBadTimezone(t *testing.T) {
	_, err := NewScheduler(config.ReportingConfig{CronSchedule: "0 20 * * 5", Timezone: "Nowhere/Land"}, stubReporter{}, Sinks{}, nil)
	assert.Error(t, err)
}

func TestStartRejectsBadSchedule(t *testing.T) {
	s, err := NewScheduler(config.ReportingConfig{CronSchedule: "not a schedule", Timezone: "UTC"}, stubReporter{}, Sinks{}, nil)
	require.NoError(t, err)

	assert.Error(t, s.Start())
}

func TestStartStop(t *testing.T) {
	s, err := NewScheduler(reportingCfg, stubReporter{}, Sinks{}, nil)
	require.NoError(t, err)

	require.NoError(t, s.Start())
	assert.Len(t, s.cron.Entries(), 1)
	s.Stop()
}
