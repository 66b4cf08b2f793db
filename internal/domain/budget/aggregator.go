package budget

import (
	"strings"

	"github.com/shopspring/decimal"
)

const (
	// UnknownSource labels line items that arrive without a source
	UnknownSource = "Unknown"

	// UnspecifiedItem labels line items that arrive without a description
	UnspecifiedItem = "Unspecified Item"
)

// LineItem is one flat budget record as stored by the backend
type LineItem struct {
	Source   string `json:"source"`
	Category string `json:"budget"`
	Item     string `json:"item"`
	Amount   Amount `json:"amount"`
}

// Item is a labelled amount inside a category breakdown
type Item struct {
	Label  string          `json:"item"`
	Amount decimal.Decimal `json:"amount"`
}

// Breakdown holds the itemized lines per category
type Breakdown struct {
	PS   []Item `json:"ps"`
	MOOE []Item `json:"mooe"`
	CO   []Item `json:"co"`
}

// Source is the per-source aggregate of a proposal budget
type Source struct {
	Source    string          `json:"source"`
	PS        decimal.Decimal `json:"ps"`
	MOOE      decimal.Decimal `json:"mooe"`
	CO        decimal.Decimal `json:"co"`
	Total     decimal.Decimal `json:"total"`
	Breakdown Breakdown       `json:"breakdown"`
}

// Aggregate groups line items into one Source per distinct source name, in
// order of first appearance.
func Aggregate(items []LineItem) []Source {
	var order []string
	bySource := make(map[string]*Source)

	for _, li := range items {
		name := strings.TrimSpace(li.Source)
		if name == "" {
			name = UnknownSource
		}
		label := strings.TrimSpace(li.Item)
		if label == "" {
			label = UnspecifiedItem
		}

		src, ok := bySource[name]
		if !ok {
			src = &Source{Source: name}
			bySource[name] = src
			order = append(order, name)
		}
		src.add(ParseCategory(li.Category), Item{Label: label, Amount: li.Amount.Decimal})
	}

	out := make([]Source, 0, len(order))
	for _, name := range order {
		src := bySource[name]
		src.Total = src.PS.Add(src.MOOE).Add(src.CO)
		out = append(out, *src)
	}
	return out
}

func (s *Source) add(c Category, it Item) {
	switch c {
	case CategoryPS:
		s.PS = s.PS.Add(it.Amount)
		s.Breakdown.PS = append(s.Breakdown.PS, it)
	case CategoryCO:
		s.CO = s.CO.Add(it.Amount)
		s.Breakdown.CO = append(s.Breakdown.CO, it)
	default:
		s.MOOE = s.MOOE.Add(it.Amount)
		s.Breakdown.MOOE = append(s.Breakdown.MOOE, it)
	}
}

// Subtotal returns the subtotal of one category
func (s Source) Subtotal(c Category) decimal.Decimal {
	switch c {
	case CategoryPS:
		return s.PS
	case CategoryCO:
		return s.CO
	default:
		return s.MOOE
	}
}

// Items returns the breakdown of one category
func (s Source) Items(c Category) []Item {
	switch c {
	case CategoryPS:
		return s.Breakdown.PS
	case CategoryCO:
		return s.Breakdown.CO
	default:
		return s.Breakdown.MOOE
	}
}

// LineItems flattens the breakdown back into line items. Aggregating the
// result reproduces s.
func (s Source) LineItems() []LineItem {
	var out []LineItem
	for _, c := range Categories {
		for _, it := range s.Items(c) {
			out = append(out, LineItem{
				Source:   s.Source,
				Category: string(c),
				Item:     it.Label,
				Amount:   Amount{it.Amount},
			})
		}
	}
	return out
}

// Flatten flattens every source back into line items
func Flatten(sources []Source) []LineItem {
	var out []LineItem
	for _, s := range sources {
		out = append(out, s.LineItems()...)
	}
	return out
}

// Total returns the grand total across sources
func Total(sources []Source) decimal.Decimal {
	total := decimal.Zero
	for _, s := range sources {
		total = total.Add(s.Total)
	}
	return total
}
