// Package params binds named benchmark parameters to a URL query string and
// to user controls, notifying a callback whenever a value changes.
package params

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
)

// Registration errors.
var (
	ErrDuplicate     = errors.New("parameter already registered")
	ErrInvalidDomain = errors.New("invalid parameter domain")
	ErrKindMismatch  = errors.New("value kind does not match domain")
	ErrUnknown       = errors.New("unknown parameter")
	ErrInvalidValue  = errors.New("invalid parameter value")
)

// Kind is the type of a parameter value.
type Kind uint8

const (
	// KindUnset marks a value that was never configured.
	KindUnset Kind = iota
	// KindBool is a two state toggle.
	KindBool
	// KindNumeric is a bounded number.
	KindNumeric
)

func (k Kind) String() string {
	switch k {
	case KindBool:
		return "bool"
	case KindNumeric:
		return "numeric"
	default:
		return "unset"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Value is a parameter value. The zero Value is Unset.
type Value struct {
	Kind   Kind
	Number float64
	Flag   bool
}

// Unset is returned for parameters that are not registered.
var Unset = Value{}

// Bool returns a toggle value.
func Bool(b bool) Value { return Value{Kind: KindBool, Flag: b} }

// Number returns a numeric value.
func Number(f float64) Value { return Value{Kind: KindNumeric, Number: f} }

// IsSet reports whether v holds a configured value.
func (v Value) IsSet() bool { return v.Kind != KindUnset }

// Int returns the numeric value rounded to the nearest integer.
func (v Value) Int() int { return int(math.Round(v.Number)) }

func (v Value) String() string {
	switch v.Kind {
	case KindBool:
		return strconv.FormatBool(v.Flag)
	case KindNumeric:
		return strconv.FormatFloat(v.Number, 'f', -1, 64)
	default:
		return "unset"
	}
}

// MarshalJSON encodes Unset as null, toggles as booleans and numerics as numbers.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.Kind {
	case KindBool:
		return json.Marshal(v.Flag)
	case KindNumeric:
		return json.Marshal(v.Number)
	default:
		return []byte("null"), nil
	}
}

// Domain describes the values a parameter accepts and how they are written
// to the URL.
type Domain struct {
	Kind Kind    `json:"kind"`
	Min  float64 `json:"min,omitempty"`
	Max  float64 `json:"max,omitempty"`
	Step float64 `json:"step,omitempty"`
	On   string  `json:"on,omitempty"`
	Off  string  `json:"off,omitempty"`
}

// Range returns a numeric domain. A non-positive step defaults to 1.
func Range(min, max, step float64) Domain {
	if step <= 0 {
		step = 1
	}
	return Domain{Kind: KindNumeric, Min: min, Max: max, Step: step}
}

// Toggle returns a boolean domain written to the URL as on or off.
func Toggle(on, off string) Domain {
	return Domain{Kind: KindBool, On: on, Off: off}
}

// DomainOf infers a domain from the shape of values: two numbers and an
// optional step make a range, two strings make a toggle whose first string
// means true.
func DomainOf(values ...any) (Domain, error) {
	if len(values) == 2 {
		on, okOn := values[0].(string)
		off, okOff := values[1].(string)
		if okOn && okOff {
			d := Toggle(on, off)
			return d, d.Validate()
		}
	}

	if len(values) != 2 && len(values) != 3 {
		return Domain{}, fmt.Errorf("%w: want 2 or 3 values, got %d", ErrInvalidDomain, len(values))
	}

	nums := make([]float64, 0, 3)
	for _, raw := range values {
		f, ok := toFloat(raw)
		if !ok {
			return Domain{}, fmt.Errorf("%w: %v (%T) is not a number", ErrInvalidDomain, raw, raw)
		}
		nums = append(nums, f)
	}

	step := 0.0
	if len(nums) == 3 {
		step = nums[2]
	}
	d := Range(nums[0], nums[1], step)
	return d, d.Validate()
}

// Validate checks that the domain is usable.
func (d Domain) Validate() error {
	switch d.Kind {
	case KindNumeric:
		if math.IsNaN(d.Min) || math.IsNaN(d.Max) || d.Min > d.Max {
			return fmt.Errorf("%w: range [%v, %v]", ErrInvalidDomain, d.Min, d.Max)
		}
	case KindBool:
		if d.On == "" || d.Off == "" || d.On == d.Off {
			return fmt.Errorf("%w: toggle values %q/%q", ErrInvalidDomain, d.On, d.Off)
		}
	default:
		return fmt.Errorf("%w: kind %s", ErrInvalidDomain, d.Kind)
	}
	return nil
}

// Parse reads a raw URL value. Toggles compare against the on string and
// always succeed. Numbers that do not parse report false.
func (d Domain) Parse(raw string) (Value, bool) {
	if d.Kind == KindBool {
		return Bool(raw == d.On), true
	}

	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return Unset, false
	}
	return d.Clamp(Number(f)), true
}

// Format writes v the way it appears in the URL.
func (d Domain) Format(v Value) string {
	if d.Kind == KindBool {
		if v.Flag {
			return d.On
		}
		return d.Off
	}
	return strconv.FormatFloat(v.Number, 'f', -1, 64)
}

// Clamp keeps numeric values inside [Min, Max].
func (d Domain) Clamp(v Value) Value {
	if d.Kind != KindNumeric || v.Kind != KindNumeric {
		return v
	}
	v.Number = math.Min(math.Max(v.Number, d.Min), d.Max)
	return v
}

func toFloat(raw any) (float64, bool) {
	switch n := raw.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case int32:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint64:
		return float64(n), true
	default:
		return 0, false
	}
}
