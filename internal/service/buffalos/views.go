package buffalos

import (
	"time"

	"github.com/mamadbah2/buffalo/internal/domain/derivation"
	"github.com/mamadbah2/buffalo/internal/domain/models"
)

// Detail is the main record rendering: stored fields, totals, remaining
// amount, weight allocation and pie series.
type Detail struct {
	Buffalo models.BuffaloRecord     `json:"buffalo"`
	Summary derivation.RecordSummary `json:"summary"`
	Charts  DetailCharts             `json:"charts"`
}

// DetailCharts are the pie series of a record.
type DetailCharts struct {
	Expenses     []derivation.Slice `json:"expenses"`
	Weight       []derivation.Slice `json:"weight"`
	Distribution []derivation.Slice `json:"distribution"`
}

// Breakdown is the alternate rendering focused on per-shareholder balances.
type Breakdown struct {
	ID            string                       `json:"id"`
	Name          string                       `json:"name"`
	Year          float64                      `json:"year"`
	Expenses      derivation.ExpenseTotals     `json:"expenses"`
	EqualShare    float64                      `json:"equalShare"`
	TotalReceived float64                      `json:"totalReceived"`
	Holders       []derivation.HolderBalance   `json:"holders"`
	Weight        *derivation.WeightAllocation `json:"weight,omitempty"`
	Charts        BreakdownCharts              `json:"charts"`
}

// BreakdownCharts adds the per-holder balance bars to the pie series.
type BreakdownCharts struct {
	DetailCharts
	Balances []derivation.Slice `json:"balances"`
}

// ListingRow is one line of the buffalo listing.
type ListingRow struct {
	ID                 string    `json:"id"`
	Name               string    `json:"name"`
	Year               float64   `json:"year"`
	RegistrationDate   time.Time `json:"registrationDate"`
	ShareholderCount   int       `json:"shareholderCount"`
	OtherExpensesTotal float64   `json:"otherExpensesTotal"`
	TotalExpense       float64   `json:"totalExpense"`
	ShareholdersTotal  float64   `json:"shareholdersTotal"`
	BalanceToReceive   float64   `json:"balanceToReceive"`
	BalanceToGive      float64   `json:"balanceToGive"`
	Weighed            bool      `json:"weighed"`
	TotalWeight        float64   `json:"totalWeight"`
}

// Listing is the root listing with the fleet summary cards.
type Listing struct {
	Buffalos []ListingRow            `json:"buffalos"`
	Summary  derivation.FleetSummary `json:"summary"`
}

// Dashboard is the fleet summary with its chart series.
type Dashboard struct {
	Summary derivation.FleetSummary `json:"summary"`
	Charts  DashboardCharts         `json:"charts"`
}

// DashboardCharts are the fleet-level series.
type DashboardCharts struct {
	ExpenseDistribution []derivation.Slice `json:"expenseDistribution"`
	FinancialStatus     []derivation.Slice `json:"financialStatus"`
	WeightDistribution  []derivation.Slice `json:"weightDistribution"`
	BuffaloExpenses     []derivation.Slice `json:"buffaloExpenses"`
}

func newDetail(record models.BuffaloRecord) Detail {
	summary := derivation.Summarize(record)
	return Detail{
		Buffalo: record,
		Summary: summary,
		Charts:  detailCharts(summary),
	}
}

func newBreakdown(record models.BuffaloRecord) Breakdown {
	summary := derivation.Summarize(record)
	return Breakdown{
		ID:            record.ID,
		Name:          record.Name,
		Year:          record.Year.Float64(),
		Expenses:      summary.Expenses,
		EqualShare:    summary.Shareholders.EqualShare,
		TotalReceived: summary.Shareholders.ShareholdersTotal,
		Holders:       summary.Shareholders.PerHolder,
		Weight:        summary.Weight,
		Charts: BreakdownCharts{
			DetailCharts: detailCharts(summary),
			Balances:     derivation.HolderBalances(summary.Shareholders),
		},
	}
}

func detailCharts(summary derivation.RecordSummary) DetailCharts {
	return DetailCharts{
		Expenses:     derivation.ExpenseBreakdown(summary.Expenses),
		Weight:       derivation.WeightComposition(summary.Weight),
		Distribution: derivation.WeightDistribution(summary.Weight),
	}
}

func newListingRow(record models.BuffaloRecord) ListingRow {
	summary := derivation.Summarize(record)
	row := ListingRow{
		ID:                 record.ID,
		Name:               record.Name,
		Year:               record.Year.Float64(),
		RegistrationDate:   record.RegistrationDate,
		ShareholderCount:   len(record.Shareholders),
		OtherExpensesTotal: summary.Expenses.OtherExpensesTotal,
		TotalExpense:       summary.Expenses.TotalExpense,
		ShareholdersTotal:  summary.Shareholders.ShareholdersTotal,
		BalanceToReceive:   summary.Shareholders.BalanceToReceive,
		BalanceToGive:      summary.Shareholders.BalanceToGive,
	}
	if summary.Weight != nil {
		row.Weighed = true
		row.TotalWeight = summary.Weight.TotalWeight
	}
	return row
}

func newDashboard(records []models.BuffaloRecord) Dashboard {
	fleet := derivation.ComputeFleetSummary(records)

	perBuffalo := make([]derivation.Slice, 0, len(records))
	for _, record := range records {
		name := record.Name
		if name == "" {
			name = "Buffalo"
		}
		perBuffalo = append(perBuffalo, derivation.Slice{
			Name:  name,
			Value: derivation.ComputeExpenseTotals(record).TotalExpense,
		})
	}

	return Dashboard{
		Summary: fleet,
		Charts: DashboardCharts{
			ExpenseDistribution: derivation.FleetExpenseBreakdown(fleet),
			FinancialStatus:     derivation.FleetFinancialStatus(fleet),
			WeightDistribution:  derivation.FleetWeightComposition(fleet),
			BuffaloExpenses:     perBuffalo,
		},
	}
}
