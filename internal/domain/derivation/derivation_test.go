package derivation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/buffalo/internal/domain/models"
)

const tolerance = 1e-9

func sampleRecord() models.BuffaloRecord {
	return models.BuffaloRecord{
		ID:            "1234567890",
		Name:          "Kala",
		Price:         10000,
		Year:          2024,
		LabourExpense: 2000,
		OtherExpenses: []models.Expense{
			{Reason: "transport", Amount: 500},
			{Reason: "fodder", Amount: 300},
		},
		Shareholders: []models.Shareholder{
			{Name: "Asif", AmountReceived: 4000},
			{Name: "Bilal", AmountReceived: 4266.67},
			{Name: "Chand", AmountReceived: 5000},
		},
	}
}

func TestComputeExpenseTotals(t *testing.T) {
	t.Run("sums price, labour and other expenses", func(t *testing.T) {
		totals := ComputeExpenseTotals(sampleRecord())

		assert.Equal(t, 800.0, totals.OtherExpensesTotal)
		assert.Equal(t, 12800.0, totals.TotalExpense)
	})

	t.Run("treats missing amounts as zero", func(t *testing.T) {
		record := models.BuffaloRecord{
			Price:         models.ParseNumber("abc"),
			OtherExpenses: []models.Expense{{Reason: "empty"}, {Reason: "x", Amount: models.ParseNumber("")}},
		}

		totals := ComputeExpenseTotals(record)

		assert.Zero(t, totals.TotalExpense)
		assert.Zero(t, totals.OtherExpensesTotal)
	})
}

func TestComputeShareholderTotals(t *testing.T) {
	record := sampleRecord()
	totals := ComputeShareholderTotals(record, 12800)

	assert.InDelta(t, 4266.6666667, totals.EqualShare, 1e-6)
	assert.InDelta(t, 13266.67, totals.ShareholdersTotal, tolerance*1e6)
	require.Len(t, totals.PerHolder, 3)

	assert.InDelta(t, 266.67, totals.PerHolder[0].Balance, 0.01, "shareholder below equal share owes the rest")
	assert.InDelta(t, 0, totals.PerHolder[1].Balance, 0.01)
	assert.Less(t, totals.PerHolder[2].Balance, 0.0, "overpaid shareholder has a negative balance")

	var shares float64
	for range totals.PerHolder {
		shares += totals.EqualShare
	}
	assert.InDelta(t, 12800, shares, 1e-6)

	assert.InDelta(t, 12800-13266.67, totals.RemainingAmount, 1e-6)
	assert.InDelta(t, 266.6666667, totals.BalanceToReceive, 1e-6)
	assert.InDelta(t, 733.3366667, totals.BalanceToGive, 1e-6)
}

func TestComputeShareholderTotalsWithoutShareholders(t *testing.T) {
	record := models.BuffaloRecord{Price: 900}

	totals := ComputeShareholderTotals(record, 900)

	assert.Equal(t, 900.0, totals.EqualShare)
	assert.Empty(t, totals.PerHolder)
	assert.NotNil(t, totals.PerHolder)
	assert.Equal(t, 900.0, totals.RemainingAmount)
}

func TestComputeWeightAllocation(t *testing.T) {
	t.Run("absent weight data yields nil", func(t *testing.T) {
		assert.Nil(t, ComputeWeightAllocation(nil, 3))
	})

	t.Run("splits one third to shareholders", func(t *testing.T) {
		weight := models.WeightData{MeatWeight: 70, BoneWeight: 20, TotalWeight: 90}

		alloc := ComputeWeightAllocation(&weight, 3)
		require.NotNil(t, alloc)

		assert.Equal(t, 90.0, alloc.TotalWeight)
		assert.Equal(t, 30.0, alloc.ForShareholders)
		assert.Equal(t, 60.0, alloc.ForDistribution)
		assert.Equal(t, 10.0, alloc.PerShareholder)
	})

	t.Run("no shareholders divides by one", func(t *testing.T) {
		weight := models.WeightData{MeatWeight: 10, BoneWeight: 2.5}

		alloc := ComputeWeightAllocation(&weight, 0)
		require.NotNil(t, alloc)

		assert.InDelta(t, alloc.ForShareholders, alloc.PerShareholder, tolerance)
		assert.InDelta(t, alloc.TotalWeight, alloc.ForShareholders+alloc.ForDistribution, tolerance)
	})
}

func TestSummarizeIsDeterministic(t *testing.T) {
	record := sampleRecord()
	w := models.NewWeightData(101.3, 33.7, "2024-06-17", record.RegistrationDate)
	record.WeightData = &w

	first := Summarize(record)
	second := Summarize(record)

	assert.Equal(t, first, second)
}

func TestComputeFleetSummary(t *testing.T) {
	weighed := sampleRecord()
	w := models.NewWeightData(70, 20, "2024-06-17", weighed.RegistrationDate)
	weighed.WeightData = &w

	other := models.BuffaloRecord{
		ID:            "2222222222",
		Name:          "Safed",
		Price:         6000,
		LabourExpense: 0,
		Shareholders: []models.Shareholder{
			{Name: "Asif", AmountReceived: 1000},
			{Name: "Dawood", AmountReceived: 5000},
		},
	}

	fleet := ComputeFleetSummary([]models.BuffaloRecord{weighed, other})

	assert.Equal(t, 2, fleet.BuffaloCount)
	assert.Equal(t, 1, fleet.WeighedCount)
	assert.Equal(t, 16000.0, fleet.PurchasePrice)
	assert.Equal(t, 2000.0, fleet.LabourExpenses)
	assert.Equal(t, 800.0, fleet.OtherExpenses)
	assert.Equal(t, 18800.0, fleet.TotalExpenses)
	assert.Equal(t, 90.0, fleet.TotalWeight)
	assert.Equal(t, 30.0, fleet.ForShareholders)

	// Asif owes 266.67 on the first record and 2000 on the second;
	// Dawood overpaid 2000 on the second. Neither is netted.
	require.Len(t, fleet.Holders, 4)
	assert.Equal(t, "Asif", fleet.Holders[0].Name)
	assert.Equal(t, 2, fleet.Holders[0].Records)
	assert.InDelta(t, 2266.6666667, fleet.Holders[0].BalanceToReceive, 1e-6)
	assert.Zero(t, fleet.Holders[0].BalanceToGive)

	dawood := fleet.Holders[3]
	assert.Equal(t, "Dawood", dawood.Name)
	assert.Equal(t, 2000.0, dawood.BalanceToGive)

	assert.InDelta(t, 266.6666667+2000, fleet.BalanceToReceive, 1e-6)
	assert.InDelta(t, 733.3366667+2000, fleet.BalanceToGive, 1e-6)
}

func TestComputeFleetSummaryEmpty(t *testing.T) {
	fleet := ComputeFleetSummary(nil)

	assert.Zero(t, fleet.BuffaloCount)
	assert.NotNil(t, fleet.Holders)
}

func TestCharts(t *testing.T) {
	summary := Summarize(sampleRecord())

	breakdown := ExpenseBreakdown(summary.Expenses)
	require.Len(t, breakdown, 3)
	assert.Equal(t, 800.0, breakdown[2].Value)

	assert.Empty(t, WeightComposition(summary.Weight))
	assert.Empty(t, WeightDistribution(summary.Weight))
	assert.Len(t, HolderBalances(summary.Shareholders), 3)
}
