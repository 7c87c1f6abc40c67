package reporting

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/buffalo/internal/domain/models"
	"github.com/mamadbah2/buffalo/internal/repository/memory"
)

type failingLister struct{ err error }

func (f failingLister) ListAll(context.Context) ([]models.BuffaloRecord, error) {
	return nil, f.err
}

func seededService(t *testing.T, records ...models.BuffaloRecord) *Service {
	t.Helper()
	loc, err := time.LoadLocation("Asia/Kolkata")
	require.NoError(t, err)

	svc := NewService(memory.New(records...), loc, nil)
	svc.now = func() time.Time { return time.Date(2025, 3, 14, 14, 30, 0, 0, time.UTC) }
	return svc
}

func herd() []models.BuffaloRecord {
	weight := models.NewWeightData(60, 30, "2025-03-10", time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC))
	return []models.BuffaloRecord{
		{
			ID: "1000000001", Name: "Kali", Price: 10000, Year: 2024, LabourExpense: 2000,
			OtherExpenses: []models.Expense{{Reason: "transport", Amount: 800}},
			Shareholders: []models.Shareholder{
				{Name: "Asif", AmountReceived: 4000},
				{Name: "Bilal", AmountReceived: 4500},
				{Name: "Chand", AmountReceived: 4300},
			},
			WeightData: &weight,
		},
		{
			ID: "1000000002", Name: "Bhuri", Price: 9000, Year: 2024, LabourExpense: 1000,
			Shareholders: []models.Shareholder{
				{Name: "Asif", AmountReceived: 2000},
				{Name: "Bilal", AmountReceived: 8000},
			},
		},
	}
}

func TestFleetReport(t *testing.T) {
	svc := seededService(t, herd()...)

	report, err := svc.FleetReport(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "Asia/Kolkata", report.GeneratedAt.Location().String())
	assert.Equal(t, 2, report.Summary.BuffaloCount)
	assert.Equal(t, 22800.0, report.Summary.TotalExpenses)
	assert.Len(t, report.Buffalos, 2)
}

func TestFleetReportStoreFailure(t *testing.T) {
	storeErr := errors.New("timeout")
	svc := NewService(failingLister{err: storeErr}, nil, nil)

	_, err := svc.FleetReport(context.Background())
	assert.ErrorIs(t, err, storeErr)
}

func TestReportText(t *testing.T) {
	svc := seededService(t, herd()...)
	report, err := svc.FleetReport(context.Background())
	require.NoError(t, err)

	text := report.Text()

	assert.Contains(t, text, "Buffalo report (2025-03-14)")
	assert.Contains(t, text, "Buffalos: 2 (1 weighed)")
	assert.Contains(t, text, "Total expenses: 22800.00")
	assert.Contains(t, text, "Weight: 90 kg (shareholders 30 kg, distribution 60 kg)")
	assert.Contains(t, text, "Pending from:\n  Asif 3266.67")
	assert.NotContains(t, text, "Bilal 0.00")
}

func TestReportTextEmptyCollection(t *testing.T) {
	svc := seededService(t)
	report, err := svc.FleetReport(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "Buffalo report (2025-03-14)\nNo buffalos registered yet.", report.Text())
}

func TestSummaryRowAndSnapshot(t *testing.T) {
	svc := seededService(t, herd()...)
	report, err := svc.FleetReport(context.Background())
	require.NoError(t, err)

	row := report.SummaryRow()
	require.Len(t, row, 13, "one cell per column A:M")
	assert.Equal(t, "2025-03-14T20:00:00+05:30", row[0])
	assert.Equal(t, 2, row[1])

	assert.Equal(t, "snapshots/2025-03-14T14:30:00Z.json", report.SnapshotKey())

	body, err := report.Snapshot()
	require.NoError(t, err)

	var decoded Report
	require.NoError(t, json.Unmarshal(body, &decoded))
	assert.Len(t, decoded.Buffalos, 2)
	assert.Equal(t, report.Summary.TotalExpenses, decoded.Summary.TotalExpenses)
}
