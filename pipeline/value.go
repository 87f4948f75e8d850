package pipeline

import (
	"errors"
	"strconv"
	"strings"
)

// Value is a single evidence entry. Whether it is an integer or a float is decided by the
// literal it was parsed from, not by its column.
type Value struct {
	i       int64
	f       float64
	isFloat bool
}

// Vector is one encoded session: FeatureCount values in schema order.
type Vector []Value

func IntValue(v int64) Value {
	return Value{i: v}
}

func FloatValue(v float64) Value {
	return Value{f: v, isFloat: true}
}

func (v Value) IsFloat() bool {
	return v.isFloat
}

func (v Value) Float64() float64 {
	if v.isFloat {
		return v.f
	}
	return float64(v.i)
}

func (v Value) Int64() int64 {
	if v.isFloat {
		return int64(v.f)
	}
	return v.i
}

func (v Value) String() string {
	if v.isFloat {
		s := strconv.FormatFloat(v.f, 'f', -1, 64)
		if !strings.ContainsAny(s, ".eEnN") {
			s += ".0"
		}
		return s
	}
	return strconv.FormatInt(v.i, 10)
}

// Floats flattens the vector for distance computations.
func (vec Vector) Floats() []float64 {
	out := make([]float64, len(vec))
	for i, v := range vec {
		out[i] = v.Float64()
	}
	return out
}

// ParseNumeric parses a numeric literal. A non-empty literal made only of ASCII digits is an
// integer; anything else ("1.0", "-1", " 0.2") is parsed as a float after trimming spaces.
// Digit strings too large for int64 are kept as floats.
func ParseNumeric(literal string) (Value, error) {
	if isDigits(literal) {
		n, err := strconv.ParseInt(literal, 10, 64)
		if err == nil {
			return IntValue(n), nil
		}
		if !errors.Is(err, strconv.ErrRange) {
			return Value{}, err
		}
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(literal), 64)
	if err != nil {
		return Value{}, err
	}
	return FloatValue(f), nil
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
