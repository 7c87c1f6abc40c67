package models

import (
	"encoding/json"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
)

func TestNumberUnmarshalJSON(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want Number
	}{
		{"number", `12.5`, 12.5},
		{"numeric string", `"10000"`, 10000},
		{"padded string", `" 42 "`, 42},
		{"empty string", `""`, 0},
		{"garbage string", `"abc"`, 0},
		{"null", `null`, 0},
		{"bool", `true`, 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var n Number
			require.NoError(t, json.Unmarshal([]byte(tc.in), &n))
			assert.Equal(t, tc.want, n)
		})
	}
}

func TestRecordDecodesLegacyStringFields(t *testing.T) {
	payload := `{
		"id": "1234567890",
		"name": "Kala",
		"price": "10000",
		"labourExpense": 2000,
		"otherExpenses": [{"reason": "fodder", "amount": "500"}, {"reason": "misc", "amount": ""}],
		"shareholders": [{"name": "Asif", "amountReceived": "4000.50"}]
	}`

	var record BuffaloRecord
	require.NoError(t, json.Unmarshal([]byte(payload), &record))

	assert.Equal(t, Number(10000), record.Price)
	assert.Equal(t, Number(2000), record.LabourExpense)
	assert.Equal(t, Number(500), record.OtherExpenses[0].Amount)
	assert.Zero(t, record.OtherExpenses[1].Amount)
	assert.Equal(t, Number(4000.5), record.Shareholders[0].AmountReceived)
}

func TestNumberBSON(t *testing.T) {
	t.Run("decodes strings and integers", func(t *testing.T) {
		raw, err := bson.Marshal(bson.M{
			"_id":           "1234567890",
			"price":         "7500",
			"year":          int32(2024),
			"labourExpense": int64(300),
			"otherExpenses": bson.A{bson.M{"reason": "salt", "amount": "not a number"}},
		})
		require.NoError(t, err)

		var record BuffaloRecord
		require.NoError(t, bson.Unmarshal(raw, &record))

		assert.Equal(t, Number(7500), record.Price)
		assert.Equal(t, Number(2024), record.Year)
		assert.Equal(t, Number(300), record.LabourExpense)
		assert.Zero(t, record.OtherExpenses[0].Amount)
	})

	t.Run("encodes doubles", func(t *testing.T) {
		raw, err := bson.Marshal(Expense{Reason: "salt", Amount: 12.25})
		require.NoError(t, err)

		var doc bson.M
		require.NoError(t, bson.Unmarshal(raw, &doc))
		assert.Equal(t, 12.25, doc["amount"])
	})
}

func TestNewWeightDataRecomputesTotal(t *testing.T) {
	now := time.Date(2024, 6, 17, 10, 0, 0, 0, time.UTC)

	w := NewWeightData(60.4, 19.35, "2024-06-17", now)

	assert.Equal(t, Number(60.4+19.35), w.TotalWeight)
	assert.Equal(t, now, w.LastUpdated)
}

func TestBuffaloPatchApply(t *testing.T) {
	original := BuffaloRecord{
		ID:            "1234567890",
		Name:          "Kala",
		Price:         100,
		OtherExpenses: []Expense{{Reason: "a", Amount: 1}, {Reason: "b", Amount: 2}},
		Shareholders:  []Shareholder{{Name: "Asif", AmountReceived: 10}},
	}

	name := "Kali"
	expenses := []Expense{{Reason: "c", Amount: 3}}
	patch := BuffaloPatch{Name: &name, OtherExpenses: &expenses}

	updated := patch.Apply(original)

	assert.Equal(t, "Kali", updated.Name)
	assert.Equal(t, Number(100), updated.Price)
	assert.Equal(t, expenses, updated.OtherExpenses)
	assert.Equal(t, original.Shareholders, updated.Shareholders)

	updated.Shareholders[0].Name = "changed"
	assert.Equal(t, "Asif", original.Shareholders[0].Name, "apply must not alias the original lists")
	assert.Len(t, original.OtherExpenses, 2)

	assert.True(t, BuffaloPatch{}.IsEmpty())
	assert.False(t, patch.IsEmpty())
}

func TestOverflowNeverBreaksEncoding(t *testing.T) {
	w := NewWeightData(math.MaxFloat64, math.MaxFloat64, "2024-06-17", time.Now())
	assert.Zero(t, w.TotalWeight)

	record := BuffaloRecord{
		ID:           "1234567890",
		Price:        Number(math.Inf(1)),
		Shareholders: []Shareholder{{Name: "Asif", AmountReceived: Number(math.NaN())}},
	}
	data, err := json.Marshal(record)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"price":0`)
	assert.Contains(t, string(data), `"amountReceived":0`)
}
