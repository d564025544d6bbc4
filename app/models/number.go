package models

import (
	"bytes"
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"go.mongodb.org/mongo-driver/bson/bsontype"
	"go.mongodb.org/mongo-driver/x/bsonx/bsoncore"
)

// Number is a price. Clients and older documents send it either as a
// number or as a numeric string ("12", "4.50"); both decode to the same
// value and it is always written back as a number.
type Number float64

// Count is a non-fractional counter such as likes or reviews, decoded as
// leniently as Number.
type Count int64

func (n *Number) UnmarshalJSON(b []byte) error {
	f, err := jsonNumber(b)
	if err != nil {
		return fmt.Errorf("models: price: %w", err)
	}
	*n = Number(f)
	return nil
}

func (c *Count) UnmarshalJSON(b []byte) error {
	f, err := jsonNumber(b)
	if err != nil {
		return fmt.Errorf("models: count: %w", err)
	}
	*c = Count(math.Trunc(f))
	return nil
}

// UnmarshalBSONValue never fails on a scalar: a stored value that is not
// numeric reads as zero so one odd document cannot break a whole listing.
func (n *Number) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	f, err := bsonNumber(t, data)
	if err != nil {
		return err
	}
	*n = Number(f)
	return nil
}

func (c *Count) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	f, err := bsonNumber(t, data)
	if err != nil {
		return err
	}
	*c = Count(math.Trunc(f))
	return nil
}

func (n Number) Value() (driver.Value, error) { return float64(n), nil }

func (c Count) Value() (driver.Value, error) { return int64(c), nil }

func (n *Number) Scan(src any) error {
	f, err := sqlNumber(src)
	*n = Number(f)
	return err
}

func (c *Count) Scan(src any) error {
	f, err := sqlNumber(src)
	*c = Count(math.Trunc(f))
	return err
}

func jsonNumber(b []byte) (float64, error) {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		return 0, nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return 0, err
		}
		return parseNumeric(s)
	}
	var f float64
	if err := json.Unmarshal(b, &f); err != nil {
		return 0, err
	}
	return f, nil
}

func parseNumeric(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("%q is not a number", s)
	}
	return f, nil
}

func bsonNumber(t bsontype.Type, data []byte) (float64, error) {
	v := bsoncore.Value{Type: t, Data: data}
	switch t {
	case bsontype.Double:
		return v.Double(), nil
	case bsontype.Int32:
		return float64(v.Int32()), nil
	case bsontype.Int64:
		return float64(v.Int64()), nil
	case bsontype.Decimal128:
		f, err := strconv.ParseFloat(v.Decimal128().String(), 64)
		if err != nil {
			return 0, nil
		}
		return f, nil
	case bsontype.String:
		f, err := parseNumeric(v.StringValue())
		if err != nil {
			return 0, nil
		}
		return f, nil
	case bsontype.Boolean, bsontype.Null, bsontype.Undefined:
		return 0, nil
	default:
		return 0, fmt.Errorf("models: cannot decode %s into a number", t)
	}
}

func sqlNumber(src any) (float64, error) {
	switch v := src.(type) {
	case nil:
		return 0, nil
	case float64:
		return v, nil
	case float32:
		return float64(v), nil
	case int64:
		return float64(v), nil
	case int32:
		return float64(v), nil
	case []byte:
		return parseNumeric(string(v))
	case string:
		return parseNumeric(v)
	default:
		return 0, fmt.Errorf("models: cannot scan %T into a number", src)
	}
}
