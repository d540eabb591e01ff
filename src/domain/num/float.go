// Package num provides an explicit optional float64 used throughout the
// ranking pipeline. Missing data is modeled as an invalid Float rather than a
// NaN sentinel, so the fill-with-zero and drop policies stay mechanically
// checkable.
package num

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Float is an optional float64. The zero value is "no value".
type Float struct {
	value float64
	valid bool
}

// F returns a valid Float. NaN and infinities collapse to None.
func F(v float64) Float {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return Float{}
	}
	return Float{value: v, valid: true}
}

// None returns the missing value.
func None() Float {
	return Float{}
}

// Valid reports whether the value is present.
func (f Float) Valid() bool {
	return f.valid
}

// Float64 returns the value and whether it is present.
func (f Float) Float64() (float64, bool) {
	return f.value, f.valid
}

// Or returns the value, or fallback when missing.
func (f Float) Or(fallback float64) float64 {
	if !f.valid {
		return fallback
	}
	return f.value
}

// Sub returns f − other, or None when either operand is missing.
func (f Float) Sub(other Float) Float {
	if !f.valid || !other.valid {
		return None()
	}
	return F(f.value - other.value)
}

// Add returns f + other, or None when either operand is missing.
func (f Float) Add(other Float) Float {
	if !f.valid || !other.valid {
		return None()
	}
	return F(f.value + other.value)
}

// Scale returns f × k, or None when missing.
func (f Float) Scale(k float64) Float {
	if !f.valid {
		return None()
	}
	return F(f.value * k)
}

// Equal reports exact equality, treating two Nones as equal.
func (f Float) Equal(other Float) bool {
	if f.valid != other.valid {
		return false
	}
	return !f.valid || f.value == other.value
}

// Parse converts a manually curated cell into a Float. It tolerates percent
// signs, thousands separators, and surrounding whitespace ("5.25%", "5,250.5").
// Anything unparseable becomes None, never an error.
func Parse(s string) Float {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, "%", "")
	s = strings.ReplaceAll(s, ",", "")
	if s == "" {
		return None()
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return None()
	}
	return F(v)
}

// String renders the value, or "" when missing. Used for CSV cells.
func (f Float) String() string {
	if !f.valid {
		return ""
	}
	return strconv.FormatFloat(f.value, 'f', -1, 64)
}

// MarshalJSON encodes missing values as null.
func (f Float) MarshalJSON() ([]byte, error) {
	if !f.valid {
		return []byte("null"), nil
	}
	return json.Marshal(f.value)
}

// UnmarshalJSON decodes null as None.
func (f *Float) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*f = None()
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*f = F(v)
	return nil
}
