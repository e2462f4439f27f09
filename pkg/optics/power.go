// Package optics models prescription powers (sphere, cylinder, addition).
// Powers are multiples of 0.25 dioptre and identity comparisons happen on the
// fixed two-decimal string form, never on floats: "-2.25" matches "-2.25" and
// nothing else, which is the whole point of quantized values.
package optics

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

var quarter = decimal.New(25, -2)

// Power is one prescription value. The zero value is absent (no constraint),
// which is how single-vision lenses carry no addition.
type Power struct {
	value   decimal.Decimal
	present bool
}

// Parse reads a power cell. Empty and "-" mean absent. A decimal comma is
// accepted since hand-entered cells use either separator.
func Parse(s string) (Power, error) {
	s = strings.TrimSpace(s)
	if s == "" || s == "-" {
		return Power{}, nil
	}
	d, err := decimal.NewFromString(strings.ReplaceAll(s, ",", "."))
	if err != nil {
		return Power{}, fmt.Errorf("malformed power value %q", s)
	}
	return Power{value: d, present: true}, nil
}

// MustParse is Parse for literals in tests and option tables.
func MustParse(s string) Power {
	p, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return p
}

// FromFloat builds a present power from a float. Used at the API boundary
// where requests carry JSON numbers.
func FromFloat(f float64) Power {
	return Power{value: decimal.NewFromFloat(f), present: true}
}

// Absent reports whether the value carries no constraint.
func (p Power) Absent() bool {
	return !p.present
}

// String renders the fixed two-decimal identity form, empty when absent.
func (p Power) String() string {
	if !p.present {
		return ""
	}
	return p.value.StringFixed(2)
}

// Equal is identity comparison on the formatted form.
func (p Power) Equal(other Power) bool {
	if p.present != other.present {
		return false
	}
	if !p.present {
		return true
	}
	return p.value.Equal(other.value)
}

// Float converts for range checks inside the band resolver, the single place
// where powers are treated numerically.
func (p Power) Float() float64 {
	f, _ := p.value.Float64()
	return f
}

// Between reports min ≤ p ≤ max. Both bounds must be present.
func (p Power) Between(min, max Power) bool {
	if !p.present || !min.present || !max.present {
		return false
	}
	return p.value.GreaterThanOrEqual(min.value) && p.value.LessThanOrEqual(max.value)
}

// IsQuarterStep reports whether the value sits on the 0.25 grid. Off-grid
// values are tolerated on read (the sheet is hand-edited) but worth flagging.
func (p Power) IsQuarterStep() bool {
	if !p.present {
		return true
	}
	return p.value.Mod(quarter).IsZero()
}
