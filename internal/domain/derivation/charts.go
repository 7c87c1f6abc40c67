package derivation

// Slice is a single named value of a pie or bar chart.
type Slice struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
}

// ExpenseBreakdown splits the total expense into its three components.
func ExpenseBreakdown(e ExpenseTotals) []Slice {
	return []Slice{
		{Name: "Purchase Price", Value: e.Price},
		{Name: "Labour Expenses", Value: e.LabourExpense},
		{Name: "Other Expenses", Value: e.OtherExpensesTotal},
	}
}

// WeightComposition returns meat vs bone, empty when not weighed.
func WeightComposition(w *WeightAllocation) []Slice {
	if w == nil {
		return []Slice{}
	}
	return []Slice{
		{Name: "Meat Weight", Value: w.MeatWeight},
		{Name: "Bone Weight", Value: w.BoneWeight},
	}
}

// WeightDistribution returns the 1/3 vs 2/3 split, empty when not weighed.
func WeightDistribution(w *WeightAllocation) []Slice {
	if w == nil {
		return []Slice{}
	}
	return []Slice{
		{Name: "For Shareholders (1/3)", Value: w.ForShareholders},
		{Name: "For Distribution (2/3)", Value: w.ForDistribution},
	}
}

// HolderBalances returns one bar per shareholder.
func HolderBalances(s ShareholderTotals) []Slice {
	out := make([]Slice, 0, len(s.PerHolder))
	for _, hb := range s.PerHolder {
		out = append(out, Slice{Name: hb.Name, Value: hb.Balance})
	}
	return out
}

// FleetExpenseBreakdown is ExpenseBreakdown over the whole collection.
func FleetExpenseBreakdown(f FleetSummary) []Slice {
	return []Slice{
		{Name: "Purchase", Value: f.PurchasePrice},
		{Name: "Labour", Value: f.LabourExpenses},
		{Name: "Other", Value: f.OtherExpenses},
	}
}

// FleetFinancialStatus compares expenses with what was received and what is open.
func FleetFinancialStatus(f FleetSummary) []Slice {
	return []Slice{
		{Name: "Expenses", Value: f.TotalExpenses},
		{Name: "Received", Value: f.ReceivedFromShareholders},
		{Name: "To Receive", Value: f.BalanceToReceive},
		{Name: "To Give", Value: f.BalanceToGive},
	}
}

// FleetWeightComposition is meat vs bone over every weighed record.
func FleetWeightComposition(f FleetSummary) []Slice {
	return []Slice{
		{Name: "Meat", Value: f.MeatWeight},
		{Name: "Bone", Value: f.BoneWeight},
	}
}
