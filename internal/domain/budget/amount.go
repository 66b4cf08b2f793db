package budget

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// ParseAmount parses a currency amount written with optional thousands
// separators and currency sign.
func ParseAmount(raw string) (decimal.Decimal, error) {
	cleaned := strings.NewReplacer(",", "", " ", "", "₱", "", "PHP", "").Replace(strings.TrimSpace(raw))
	if cleaned == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrInvalidAmount, raw)
	}
	return d, nil
}

// FormatAmount renders d with two decimals and thousands separators
func FormatAmount(d decimal.Decimal) string {
	rounded := d.Round(2)
	s := rounded.Abs().StringFixed(2)
	intPart, frac, _ := strings.Cut(s, ".")

	var b strings.Builder
	if rounded.IsNegative() {
		b.WriteByte('-')
	}
	lead := len(intPart) % 3
	if lead == 0 {
		lead = 3
	}
	b.WriteString(intPart[:lead])
	for i := lead; i < len(intPart); i += 3 {
		b.WriteByte(',')
		b.WriteString(intPart[i : i+3])
	}
	b.WriteByte('.')
	b.WriteString(frac)
	return b.String()
}

// Amount decodes from either a JSON number or a JSON string. Values that
// cannot be parsed decode to zero.
type Amount struct {
	decimal.Decimal
}

// UnmarshalJSON implements json.Unmarshaler
func (a *Amount) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		a.Decimal = decimal.Zero
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		d, err := ParseAmount(s)
		if err != nil {
			d = decimal.Zero
		}
		a.Decimal = d
		return nil
	}

	d, err := decimal.NewFromString(string(data))
	if err != nil {
		d = decimal.Zero
	}
	a.Decimal = d
	return nil
}

// MarshalJSON encodes the amount as a JSON number
func (a Amount) MarshalJSON() ([]byte, error) {
	return []byte(a.Decimal.String()), nil
}
