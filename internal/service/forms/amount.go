package forms

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/mamadbah2/buffalo/internal/domain/models"
)

// Amount is a required numeric form input. Unlike models.Number it keeps
// track of whether the field was left blank or could not be read, so the
// form can reject it instead of storing zero.
type Amount struct {
	Value   models.Number
	Present bool
	Invalid bool
}

// AmountOf is a filled-in input.
func AmountOf(v float64) Amount {
	return Amount{Value: models.Number(v), Present: true}
}

// UnmarshalJSON accepts numbers and numeric strings. null and blank strings
// leave the input empty; anything else marks it invalid.
func (a *Amount) UnmarshalJSON(data []byte) error {
	raw := strings.TrimSpace(string(data))
	if raw == "null" {
		*a = Amount{}
		return nil
	}

	text := raw
	if strings.HasPrefix(raw, `"`) {
		if err := json.Unmarshal(data, &text); err != nil {
			*a = Amount{Present: true, Invalid: true}
			return nil
		}
		text = strings.TrimSpace(text)
		if text == "" {
			*a = Amount{}
			return nil
		}
	}

	f, err := strconv.ParseFloat(text, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		*a = Amount{Present: true, Invalid: true}
		return nil
	}
	*a = Amount{Value: models.Number(f), Present: true}
	return nil
}

// MarshalJSON writes empty or invalid inputs as null.
func (a Amount) MarshalJSON() ([]byte, error) {
	if !a.Present || a.Invalid {
		return []byte("null"), nil
	}
	return json.Marshal(a.Value.Float64())
}

// require returns the value of a filled-in, non-negative input.
func (a Amount) require(field string) (models.Number, error) {
	switch {
	case !a.Present:
		return 0, invalid(field, "is required")
	case a.Invalid:
		return 0, invalid(field, "must be a number")
	case a.Value.Float64() < 0:
		return 0, invalid(field, "must not be negative")
	}
	return a.Value, nil
}

func finiteSum(values ...float64) (float64, bool) {
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum, !math.IsInf(sum, 0) && !math.IsNaN(sum)
}
