package models

import "time"

// DateLayout is the calendar date format used for weight measurements.
const DateLayout = "2006-01-02"

// BuffaloRecord is the root document stored in the Buffalos collection.
type BuffaloRecord struct {
	ID               string        `bson:"_id" json:"id"`
	Name             string        `bson:"name" json:"name"`
	Price            Number        `bson:"price" json:"price"`
	Year             Number        `bson:"year" json:"year"`
	LabourExpense    Number        `bson:"labourExpense" json:"labourExpense"`
	OtherExpenses    []Expense     `bson:"otherExpenses" json:"otherExpenses"`
	Shareholders     []Shareholder `bson:"shareholders" json:"shareholders"`
	WeightData       *WeightData   `bson:"weightData,omitempty" json:"weightData,omitempty"`
	RegistrationDate time.Time     `bson:"registrationDate" json:"registrationDate"`
}

// Expense is one itemized cost besides the purchase price and labour.
type Expense struct {
	Reason string `bson:"reason" json:"reason"`
	Amount Number `bson:"amount" json:"amount"`
}

// Shareholder is a participant contributing towards the buffalo cost.
// AdditionalAmountAdded only holds the increment of the latest edit.
type Shareholder struct {
	Name                  string `bson:"name" json:"name"`
	AmountReceived        Number `bson:"amountReceived" json:"amountReceived"`
	AdditionalAmountAdded Number `bson:"additionalAmountAdded,omitempty" json:"additionalAmountAdded,omitempty"`
}

// WeightData is recorded after slaughter.
type WeightData struct {
	MeatWeight   Number    `bson:"meatWeight" json:"meatWeight"`
	BoneWeight   Number    `bson:"boneWeight" json:"boneWeight"`
	TotalWeight  Number    `bson:"totalWeight" json:"totalWeight"`
	DateMeasured string    `bson:"dateMeasured" json:"dateMeasured"`
	LastUpdated  time.Time `bson:"lastUpdated" json:"lastUpdated"`
}

// NewWeightData builds a measurement with the total derived from its parts.
func NewWeightData(meat, bone Number, dateMeasured string, now time.Time) WeightData {
	w := WeightData{
		MeatWeight:   meat,
		BoneWeight:   bone,
		DateMeasured: dateMeasured,
		LastUpdated:  now.UTC(),
	}
	w.TotalWeight = w.Total()
	return w
}

// Total returns meat + bone. The stored TotalWeight is never entered directly.
// A sum that overflows reads as zero.
func (w WeightData) Total() Number {
	return finite(w.MeatWeight.Float64() + w.BoneWeight.Float64())
}

// Clone returns a deep copy so callers can mutate it freely.
func (r BuffaloRecord) Clone() BuffaloRecord {
	out := r
	if r.OtherExpenses != nil {
		out.OtherExpenses = append([]Expense(nil), r.OtherExpenses...)
	}
	if r.Shareholders != nil {
		out.Shareholders = append([]Shareholder(nil), r.Shareholders...)
	}
	if r.WeightData != nil {
		w := *r.WeightData
		out.WeightData = &w
	}
	return out
}

// BuffaloPatch is a shallow top-level partial update. Nil fields are left
// untouched; list fields replace the stored list wholesale.
type BuffaloPatch struct {
	Name          *string
	Price         *Number
	Year          *Number
	LabourExpense *Number
	OtherExpenses *[]Expense
	Shareholders  *[]Shareholder
	WeightData    *WeightData
}

// IsEmpty reports whether the patch changes nothing.
func (p BuffaloPatch) IsEmpty() bool {
	return p.Name == nil && p.Price == nil && p.Year == nil && p.LabourExpense == nil &&
		p.OtherExpenses == nil && p.Shareholders == nil && p.WeightData == nil
}

// Apply merges the patch into a copy of the record.
func (p BuffaloPatch) Apply(r BuffaloRecord) BuffaloRecord {
	out := r.Clone()
	if p.Name != nil {
		out.Name = *p.Name
	}
	if p.Price != nil {
		out.Price = *p.Price
	}
	if p.Year != nil {
		out.Year = *p.Year
	}
	if p.LabourExpense != nil {
		out.LabourExpense = *p.LabourExpense
	}
	if p.OtherExpenses != nil {
		out.OtherExpenses = append([]Expense{}, (*p.OtherExpenses)...)
	}
	if p.Shareholders != nil {
		out.Shareholders = append([]Shareholder{}, (*p.Shareholders)...)
	}
	if p.WeightData != nil {
		w := *p.WeightData
		out.WeightData = &w
	}
	return out
}
