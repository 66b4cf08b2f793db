package budget

// ItemView is a formatted breakdown line
type ItemView struct {
	Item   string `json:"item"`
	Amount string `json:"amount"`
}

// SourceView is the formatted form of a Source
type SourceView struct {
	Source    string                `json:"source"`
	PS        string                `json:"ps"`
	MOOE      string                `json:"mooe"`
	CO        string                `json:"co"`
	Total     string                `json:"total"`
	Breakdown map[string][]ItemView `json:"breakdown"`
}

// Summary is the formatted budget of a whole proposal
type Summary struct {
	Sources []SourceView `json:"sources"`
	Total   string       `json:"total"`
}

// View formats the subtotals of s for display
func (s Source) View() SourceView {
	v := SourceView{
		Source:    s.Source,
		PS:        FormatAmount(s.PS),
		MOOE:      FormatAmount(s.MOOE),
		CO:        FormatAmount(s.CO),
		Total:     FormatAmount(s.Total),
		Breakdown: make(map[string][]ItemView, len(Categories)),
	}
	for _, c := range Categories {
		items := make([]ItemView, 0, len(s.Items(c)))
		for _, it := range s.Items(c) {
			items = append(items, ItemView{Item: it.Label, Amount: FormatAmount(it.Amount)})
		}
		v.Breakdown[string(c)] = items
	}
	return v
}

// Summarize formats every source and the grand total
func Summarize(sources []Source) Summary {
	views := make([]SourceView, 0, len(sources))
	for _, s := range sources {
		views = append(views, s.View())
	}
	return Summary{Sources: views, Total: FormatAmount(Total(sources))}
}
