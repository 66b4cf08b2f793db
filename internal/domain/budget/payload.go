package budget

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

const maxLabelLength = 100

// PayloadItem is one item in the submission format
type PayloadItem struct {
	Item  string `json:"item"`
	Value Amount `json:"value"`
}

// PayloadBudget groups payload items by category
type PayloadBudget struct {
	PS   []PayloadItem `json:"ps"`
	MOOE []PayloadItem `json:"mooe"`
	CO   []PayloadItem `json:"co"`
}

// PayloadSource is one funding source in the submission format
type PayloadSource struct {
	Source string        `json:"source"`
	Budget PayloadBudget `json:"budget"`
}

// ToPayload converts aggregated sources into the submission format
func ToPayload(sources []Source) []PayloadSource {
	out := make([]PayloadSource, 0, len(sources))
	for _, s := range sources {
		out = append(out, PayloadSource{
			Source: s.Source,
			Budget: PayloadBudget{
				PS:   toPayloadItems(s.Breakdown.PS),
				MOOE: toPayloadItems(s.Breakdown.MOOE),
				CO:   toPayloadItems(s.Breakdown.CO),
			},
		})
	}
	return out
}

func toPayloadItems(items []Item) []PayloadItem {
	out := make([]PayloadItem, 0, len(items))
	for _, it := range items {
		out = append(out, PayloadItem{Item: it.Label, Value: Amount{it.Amount}})
	}
	return out
}

// ValidatePayload checks a submission against the backend's limits
func ValidatePayload(sources []PayloadSource) error {
	if len(sources) == 0 {
		return ErrNoSources
	}
	for i, s := range sources {
		name := strings.TrimSpace(s.Source)
		if name == "" || utf8.RuneCountInString(name) > maxLabelLength {
			return fmt.Errorf("%w: source %d", ErrInvalidSource, i+1)
		}

		count := 0
		for _, items := range [][]PayloadItem{s.Budget.PS, s.Budget.MOOE, s.Budget.CO} {
			for _, it := range items {
				label := strings.TrimSpace(it.Item)
				if label == "" || utf8.RuneCountInString(label) > maxLabelLength {
					return fmt.Errorf("%w: %q has an empty or overlong label", ErrInvalidItem, name)
				}
				if it.Value.IsNegative() {
					return fmt.Errorf("%w: %q item %q has a negative value", ErrInvalidItem, name, label)
				}
				count++
			}
		}
		if count == 0 {
			return fmt.Errorf("%w: %q", ErrNoItems, name)
		}
	}
	return nil
}

// FromPayload flattens a submission back into line items
func FromPayload(sources []PayloadSource) []LineItem {
	var out []LineItem
	for _, s := range sources {
		groups := []struct {
			c     Category
			items []PayloadItem
		}{{CategoryPS, s.Budget.PS}, {CategoryMOOE, s.Budget.MOOE}, {CategoryCO, s.Budget.CO}}
		for _, g := range groups {
			for _, it := range g.items {
				out = append(out, LineItem{Source: s.Source, Category: string(g.c), Item: it.Item, Amount: it.Value})
			}
		}
	}
	return out
}
