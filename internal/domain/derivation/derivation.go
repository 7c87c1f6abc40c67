// Package derivation computes the financial and weight figures shown for a
// buffalo record. Nothing here is persisted: every value is recomputed from
// the stored primitives on each read.
package derivation

import (
	"sort"

	"github.com/mamadbah2/buffalo/internal/domain/models"
)

// ExpenseTotals is the cost side of a record.
type ExpenseTotals struct {
	Price              float64 `json:"price"`
	LabourExpense      float64 `json:"labourExpense"`
	OtherExpensesTotal float64 `json:"otherExpensesTotal"`
	TotalExpense       float64 `json:"totalExpense"`
}

// HolderBalance is one shareholder's position on a record. A positive balance
// means the shareholder still owes money.
type HolderBalance struct {
	Name                  string  `json:"name"`
	AmountReceived        float64 `json:"amountReceived"`
	AdditionalAmountAdded float64 `json:"additionalAmountAdded"`
	Balance               float64 `json:"balance"`
}

// ShareholderTotals is the contribution side of a record.
type ShareholderTotals struct {
	ShareholdersTotal float64         `json:"shareholdersTotal"`
	EqualShare        float64         `json:"equalShare"`
	RemainingAmount   float64         `json:"remainingAmount"`
	BalanceToReceive  float64         `json:"balanceToReceive"`
	BalanceToGive     float64         `json:"balanceToGive"`
	PerHolder         []HolderBalance `json:"perHolder"`
}

// WeightAllocation splits the post-slaughter weight: one third to the
// shareholders (evenly), two thirds to general distribution.
type WeightAllocation struct {
	MeatWeight      float64 `json:"meatWeight"`
	BoneWeight      float64 `json:"boneWeight"`
	TotalWeight     float64 `json:"totalWeight"`
	ForShareholders float64 `json:"forShareholders"`
	ForDistribution float64 `json:"forDistribution"`
	PerShareholder  float64 `json:"perShareholder"`
}

// RecordSummary bundles every derived figure for one record.
type RecordSummary struct {
	Expenses     ExpenseTotals     `json:"expenses"`
	Shareholders ShareholderTotals `json:"shareholders"`
	Weight       *WeightAllocation `json:"weight,omitempty"`
}

// HolderPosition accumulates one shareholder's balances across records.
type HolderPosition struct {
	Name             string  `json:"name"`
	Records          int     `json:"records"`
	AmountReceived   float64 `json:"amountReceived"`
	BalanceToReceive float64 `json:"balanceToReceive"`
	BalanceToGive    float64 `json:"balanceToGive"`
}

// FleetSummary aggregates every record of the collection.
type FleetSummary struct {
	BuffaloCount             int              `json:"buffaloCount"`
	PurchasePrice            float64          `json:"purchasePrice"`
	LabourExpenses           float64          `json:"labourExpenses"`
	OtherExpenses            float64          `json:"otherExpenses"`
	TotalExpenses            float64          `json:"totalExpenses"`
	ReceivedFromShareholders float64          `json:"receivedFromShareholders"`
	RemainingAmount          float64          `json:"remainingAmount"`
	BalanceToReceive         float64          `json:"balanceToReceive"`
	BalanceToGive            float64          `json:"balanceToGive"`
	TotalWeight              float64          `json:"totalWeight"`
	MeatWeight               float64          `json:"meatWeight"`
	BoneWeight               float64          `json:"boneWeight"`
	ForShareholders          float64          `json:"forShareholders"`
	ForDistribution          float64          `json:"forDistribution"`
	WeighedCount             int              `json:"weighedCount"`
	Holders                  []HolderPosition `json:"holders"`
}

// ComputeExpenseTotals sums the purchase price, labour and other expenses.
func ComputeExpenseTotals(record models.BuffaloRecord) ExpenseTotals {
	var other float64
	for _, expense := range record.OtherExpenses {
		other += expense.Amount.Float64()
	}

	price := record.Price.Float64()
	labour := record.LabourExpense.Float64()

	return ExpenseTotals{
		Price:              price,
		LabourExpense:      labour,
		OtherExpensesTotal: other,
		TotalExpense:       price + labour + other,
	}
}

// ComputeShareholderTotals splits totalExpense evenly across the shareholders
// and derives each holder's balance. An empty list divides by one.
func ComputeShareholderTotals(record models.BuffaloRecord, totalExpense float64) ShareholderTotals {
	equalShare := totalExpense / float64(divisor(len(record.Shareholders)))

	out := ShareholderTotals{
		EqualShare: equalShare,
		PerHolder:  make([]HolderBalance, 0, len(record.Shareholders)),
	}

	for _, holder := range record.Shareholders {
		received := holder.AmountReceived.Float64()
		balance := equalShare - received

		out.ShareholdersTotal += received
		if balance > 0 {
			out.BalanceToReceive += balance
		} else {
			out.BalanceToGive += -balance
		}

		out.PerHolder = append(out.PerHolder, HolderBalance{
			Name:                  holder.Name,
			AmountReceived:        received,
			AdditionalAmountAdded: holder.AdditionalAmountAdded.Float64(),
			Balance:               balance,
		})
	}

	out.RemainingAmount = totalExpense - out.ShareholdersTotal
	return out
}

// ComputeWeightAllocation returns nil when the record has not been weighed.
func ComputeWeightAllocation(weight *models.WeightData, shareholderCount int) *WeightAllocation {
	if weight == nil {
		return nil
	}

	total := weight.Total().Float64()
	forShareholders := total / 3

	return &WeightAllocation{
		MeatWeight:      weight.MeatWeight.Float64(),
		BoneWeight:      weight.BoneWeight.Float64(),
		TotalWeight:     total,
		ForShareholders: forShareholders,
		ForDistribution: total * 2 / 3,
		PerShareholder:  forShareholders / float64(divisor(shareholderCount)),
	}
}

// Summarize runs every per-record computation.
func Summarize(record models.BuffaloRecord) RecordSummary {
	expenses := ComputeExpenseTotals(record)
	return RecordSummary{
		Expenses:     expenses,
		Shareholders: ComputeShareholderTotals(record, expenses.TotalExpense),
		Weight:       ComputeWeightAllocation(record.WeightData, len(record.Shareholders)),
	}
}

// ComputeFleetSummary aggregates the per-record figures. Shortfalls and
// surpluses are accumulated separately and never netted across records.
func ComputeFleetSummary(records []models.BuffaloRecord) FleetSummary {
	var fleet FleetSummary
	holders := make(map[string]*HolderPosition)

	for _, record := range records {
		summary := Summarize(record)

		fleet.BuffaloCount++
		fleet.PurchasePrice += summary.Expenses.Price
		fleet.LabourExpenses += summary.Expenses.LabourExpense
		fleet.OtherExpenses += summary.Expenses.OtherExpensesTotal
		fleet.TotalExpenses += summary.Expenses.TotalExpense
		fleet.ReceivedFromShareholders += summary.Shareholders.ShareholdersTotal
		fleet.RemainingAmount += summary.Shareholders.RemainingAmount
		fleet.BalanceToReceive += summary.Shareholders.BalanceToReceive
		fleet.BalanceToGive += summary.Shareholders.BalanceToGive

		if w := summary.Weight; w != nil {
			fleet.WeighedCount++
			fleet.TotalWeight += w.TotalWeight
			fleet.MeatWeight += w.MeatWeight
			fleet.BoneWeight += w.BoneWeight
			fleet.ForShareholders += w.ForShareholders
			fleet.ForDistribution += w.ForDistribution
		}

		for _, hb := range summary.Shareholders.PerHolder {
			pos, ok := holders[hb.Name]
			if !ok {
				pos = &HolderPosition{Name: hb.Name}
				holders[hb.Name] = pos
			}
			pos.Records++
			pos.AmountReceived += hb.AmountReceived
			if hb.Balance > 0 {
				pos.BalanceToReceive += hb.Balance
			} else {
				pos.BalanceToGive += -hb.Balance
			}
		}
	}

	fleet.Holders = make([]HolderPosition, 0, len(holders))
	for _, pos := range holders {
		fleet.Holders = append(fleet.Holders, *pos)
	}
	sort.Slice(fleet.Holders, func(i, j int) bool {
		return fleet.Holders[i].Name < fleet.Holders[j].Name
	})

	return fleet
}

func divisor(n int) int {
	if n < 1 {
		return 1
	}
	return n
}
