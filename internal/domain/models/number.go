package models

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
)

// Number is a lenient numeric field. It decodes from JSON/BSON numbers and from
// numeric strings, which is how older documents stored form input. Anything
// that is not a finite number decodes to zero instead of failing.
type Number float64

// ParseNumber converts free-form text into a Number, falling back to zero.
func ParseNumber(value string) Number {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0
	}
	return finite(f)
}

// Float64 returns the value as a plain float64.
func (n Number) Float64() float64 {
	return float64(finite(float64(n)))
}

// UnmarshalJSON accepts numbers, numeric strings, null and garbage (as zero).
func (n *Number) UnmarshalJSON(data []byte) error {
	raw := strings.TrimSpace(string(data))
	switch {
	case raw == "" || raw == "null":
		*n = 0
	case strings.HasPrefix(raw, `"`):
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			*n = 0
			return nil
		}
		*n = ParseNumber(s)
	default:
		*n = ParseNumber(raw)
	}
	return nil
}

// MarshalJSON writes non-finite values as zero.
func (n Number) MarshalJSON() ([]byte, error) {
	return json.Marshal(n.Float64())
}

// MarshalBSONValue always stores a double.
func (n Number) MarshalBSONValue() (bsontype.Type, []byte, error) {
	return bson.MarshalValue(n.Float64())
}

// UnmarshalBSONValue accepts any numeric BSON type as well as strings.
func (n *Number) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	raw := bson.RawValue{Type: t, Value: data}
	switch t {
	case bsontype.Double:
		*n = finite(raw.Double())
	case bsontype.Int32:
		*n = Number(raw.Int32())
	case bsontype.Int64:
		*n = Number(raw.Int64())
	case bsontype.String:
		*n = ParseNumber(raw.StringValue())
	case bsontype.Decimal128:
		*n = ParseNumber(raw.Decimal128().String())
	default:
		*n = 0
	}
	return nil
}

func finite(f float64) Number {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return Number(f)
}
