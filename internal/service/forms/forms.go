package forms

import (
	"strings"
	"time"

	"github.com/mamadbah2/buffalo/internal/domain/models"
)

// BuffaloForm carries the base information of a buffalo. It backs both the
// create flow (with shareholders) and the edit-buffalo flow (without).
type BuffaloForm struct {
	Name          string           `json:"name"`
	Price         Amount           `json:"price"`
	Year          Amount           `json:"year"`
	LabourExpense Amount           `json:"labourExpense"`
	OtherExpenses []models.Expense `json:"otherExpenses"`
	Shareholders  []ShareholderRow `json:"shareholders,omitempty"`
}

// ExpenseForm is the edit-expenses flow.
type ExpenseForm struct {
	OtherExpenses []models.Expense `json:"otherExpenses"`
}

// ShareholderRow is one editable shareholder line. AdditionalAmount is
// added on top of AmountReceived when the form is submitted.
type ShareholderRow struct {
	Name             string        `json:"name"`
	AmountReceived   models.Number `json:"amountReceived"`
	AdditionalAmount models.Number `json:"additionalAmount"`
}

// ShareholderForm is the edit-shareholders flow.
type ShareholderForm struct {
	Shareholders []ShareholderRow `json:"shareholders"`
}

// WeightForm is the add/edit-weight flow.
type WeightForm struct {
	MeatWeight   Amount `json:"meatWeight"`
	BoneWeight   Amount `json:"boneWeight"`
	DateMeasured string `json:"dateMeasured"`
}

type baseFields struct {
	name          string
	price         models.Number
	year          models.Number
	labourExpense models.Number
	otherExpenses []models.Expense
}

func (f BuffaloForm) base() (baseFields, error) {
	var out baseFields
	out.name = strings.TrimSpace(f.Name)
	if out.name == "" {
		return out, invalid("name", "is required")
	}

	var err error
	if out.price, err = f.Price.require("price"); err != nil {
		return out, err
	}
	if out.year, err = f.Year.require("year"); err != nil {
		return out, err
	}
	if out.labourExpense, err = f.LabourExpense.require("labourExpense"); err != nil {
		return out, err
	}
	if out.otherExpenses, err = CleanExpenses(f.OtherExpenses); err != nil {
		return out, err
	}

	values := []float64{out.price.Float64(), out.labourExpense.Float64()}
	for _, e := range out.otherExpenses {
		values = append(values, e.Amount.Float64())
	}
	if _, ok := finiteSum(values...); !ok {
		return out, invalid("totalExpense", "is too large")
	}
	return out, nil
}

// NewRecord validates the form and builds a record for a freshly chosen id.
func (f BuffaloForm) NewRecord(id string, now time.Time) (models.BuffaloRecord, error) {
	base, err := f.base()
	if err != nil {
		return models.BuffaloRecord{}, err
	}
	holders, err := CleanShareholders(f.Shareholders)
	if err != nil {
		return models.BuffaloRecord{}, err
	}

	return models.BuffaloRecord{
		ID:               id,
		Name:             base.name,
		Price:            base.price,
		Year:             base.year,
		LabourExpense:    base.labourExpense,
		OtherExpenses:    base.otherExpenses,
		Shareholders:     holders,
		RegistrationDate: now.UTC(),
	}, nil
}

// Validate checks the create flow without building a record.
func (f BuffaloForm) Validate() error {
	_, err := f.NewRecord("", time.Time{})
	return err
}

// InfoPatch is the edit-buffalo flow: base fields plus other expenses.
// Shareholders are not touched.
func (f BuffaloForm) InfoPatch() (models.BuffaloPatch, error) {
	base, err := f.base()
	if err != nil {
		return models.BuffaloPatch{}, err
	}
	return models.BuffaloPatch{
		Name:          &base.name,
		Price:         &base.price,
		Year:          &base.year,
		LabourExpense: &base.labourExpense,
		OtherExpenses: &base.otherExpenses,
	}, nil
}

// Patch replaces the other expenses list.
func (f ExpenseForm) Patch() (models.BuffaloPatch, error) {
	expenses, err := CleanExpenses(f.OtherExpenses)
	if err != nil {
		return models.BuffaloPatch{}, err
	}
	return models.BuffaloPatch{OtherExpenses: &expenses}, nil
}

// Patch replaces the shareholders list, folding each additional amount into
// the running total and remembering only the latest increment.
func (f ShareholderForm) Patch() (models.BuffaloPatch, error) {
	holders, err := CleanShareholders(f.Shareholders)
	if err != nil {
		return models.BuffaloPatch{}, err
	}
	return models.BuffaloPatch{Shareholders: &holders}, nil
}

// Patch validates the weights and recomputes the total. An empty date
// defaults to today in now's location.
func (f WeightForm) Patch(now time.Time) (models.BuffaloPatch, error) {
	meat, err := f.MeatWeight.require("meatWeight")
	if err != nil {
		return models.BuffaloPatch{}, err
	}
	bone, err := f.BoneWeight.require("boneWeight")
	if err != nil {
		return models.BuffaloPatch{}, err
	}
	if _, ok := finiteSum(meat.Float64(), bone.Float64()); !ok {
		return models.BuffaloPatch{}, invalid("totalWeight", "is too large")
	}

	date := strings.TrimSpace(f.DateMeasured)
	if date == "" {
		date = now.Format(models.DateLayout)
	} else if _, err := time.Parse(models.DateLayout, date); err != nil {
		return models.BuffaloPatch{}, invalid("dateMeasured", "must be formatted as YYYY-MM-DD")
	}

	weight := models.NewWeightData(meat, bone, date, now)
	return models.BuffaloPatch{WeightData: &weight}, nil
}

// CleanExpenses drops rows with a blank reason or a zero amount and rejects
// negative amounts. The result is never nil.
func CleanExpenses(rows []models.Expense) ([]models.Expense, error) {
	out := make([]models.Expense, 0, len(rows))
	var total float64
	for _, row := range rows {
		reason := strings.TrimSpace(row.Reason)
		if reason == "" || row.Amount.Float64() == 0 {
			continue
		}
		if row.Amount.Float64() < 0 {
			return nil, invalid("otherExpenses.amount", "must not be negative (%s)", reason)
		}
		out = append(out, models.Expense{Reason: reason, Amount: row.Amount})
		total += row.Amount.Float64()
	}
	if _, ok := finiteSum(total); !ok {
		return nil, invalid("otherExpenses.amount", "total is too large")
	}
	return out, nil
}

// CleanShareholders converts form rows into stored shareholders. Fully blank
// rows are dropped; a row with amounts but no name is rejected.
func CleanShareholders(rows []ShareholderRow) ([]models.Shareholder, error) {
	out := make([]models.Shareholder, 0, len(rows))
	var total float64
	for _, row := range rows {
		name := strings.TrimSpace(row.Name)
		received := row.AmountReceived.Float64()
		additional := row.AdditionalAmount.Float64()

		if name == "" {
			if received == 0 && additional == 0 {
				continue
			}
			return nil, invalid("shareholders.name", "is required")
		}
		if received < 0 || additional < 0 {
			return nil, invalid("shareholders.amount", "must not be negative (%s)", name)
		}

		sum, ok := finiteSum(received, additional)
		if !ok {
			return nil, invalid("shareholders.additionalAmount", "is too large (%s)", name)
		}
		if total, ok = finiteSum(total, sum); !ok {
			return nil, invalid("shareholders.amount", "total is too large")
		}

		out = append(out, models.Shareholder{
			Name:                  name,
			AmountReceived:        models.Number(sum),
			AdditionalAmountAdded: models.Number(additional),
		})
	}
	return out, nil
}

// ShareholderRows opens the stored shareholders for editing.
func ShareholderRows(holders []models.Shareholder) []ShareholderRow {
	rows := make([]ShareholderRow, 0, len(holders))
	for _, h := range holders {
		rows = append(rows, ShareholderRow{Name: h.Name, AmountReceived: h.AmountReceived})
	}
	return rows
}
