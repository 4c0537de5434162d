package ingest

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

// PriceError reports an upstream price that is present but not a usable
// number.
// It fails the product it belongs to, never the run.
type PriceError struct {
	Field string
	Value string
	Err   error
}

func (e *PriceError) Error() string {
	return fmt.Sprintf("invalid %s %q: %v", e.Field, e.Value, e.Err)
}

func (e *PriceError) Unwrap() error { return e.Err }

var (
	errPriceRange = errors.New("out of range")

	maxPrice = decimal.NewFromInt(math.MaxInt64)
	minPrice = decimal.NewFromInt(math.MinInt64)
)

// ParsePrice converts a decimal price string to whole currency units,
// rounding half away from zero. An empty string is a zero price.
func ParsePrice(field, s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, &PriceError{Field: field, Value: s, Err: err}
	}
	r := d.Round(0)
	if r.GreaterThan(maxPrice) || r.LessThan(minPrice) {
		return 0, &PriceError{Field: field, Value: s, Err: errPriceRange}
	}
	return r.IntPart(), nil
}

// ParseOptionalPrice is ParsePrice for fields where empty means absent.
func ParseOptionalPrice(field, s string) (*int64, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}

	v, err := ParsePrice(field, s)
	if err != nil {
		return nil, err
	}
	return &v, nil
}
