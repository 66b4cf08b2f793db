package assignment

import (
	"strings"

	"github.com/garyjia/proposal-tracker/internal/domain/status"
)

const (
	// DefaultPageSize is the number of groups per page when none is given
	DefaultPageSize = 5
	// MaxPageSize caps the number of groups per page
	MaxPageSize = 100
)

// Filter narrows a list of groups. An empty Status matches every group.
type Filter struct {
	Search string
	Status status.Assignment
}

// Page is one page of filtered groups
type Page struct {
	Items      []Group `json:"items"`
	Page       int     `json:"page"`
	PageSize   int     `json:"page_size"`
	TotalItems int     `json:"total_items"`
	TotalPages int     `json:"total_pages"`
}

// Stats summarizes a list of groups
type Stats struct {
	Groups     int                       `json:"groups"`
	Evaluators int                       `json:"evaluators"`
	Proposals  int                       `json:"proposals"`
	ByStatus   map[status.Assignment]int `json:"by_status"`
}

// Apply returns the groups matching f. Search is case-insensitive over the
// proposal title and evaluator names.
func Apply(groups []Group, f Filter) []Group {
	needle := strings.ToLower(strings.TrimSpace(f.Search))
	out := make([]Group, 0, len(groups))
	for _, g := range groups {
		if f.Status != "" && g.Status != f.Status {
			continue
		}
		if needle != "" && !matches(g, needle) {
			continue
		}
		out = append(out, g)
	}
	return out
}

func matches(g Group, needle string) bool {
	if strings.Contains(strings.ToLower(g.ProposalTitle), needle) {
		return true
	}
	return strings.Contains(strings.ToLower(strings.Join(g.EvaluatorNames(), ", ")), needle)
}

// Paginate slices groups into 1-based pages. The page size is clamped to
// MaxPageSize and out-of-range pages are empty.
func Paginate(groups []Group, page, pageSize int) Page {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}
	if page <= 0 {
		page = 1
	}

	total := len(groups)
	pages := total / pageSize
	if total%pageSize != 0 {
		pages++
	}
	p := Page{
		Items:      []Group{},
		Page:       page,
		PageSize:   pageSize,
		TotalItems: total,
		TotalPages: pages,
	}

	if page > pages {
		return p
	}
	start := (page - 1) * pageSize
	end := start + pageSize
	if end > total {
		end = total
	}
	p.Items = groups[start:end]
	return p
}

// Summarize counts groups, distinct evaluators and groups per status
func Summarize(groups []Group) Stats {
	evaluators := make(map[string]struct{})
	proposals := make(map[int64]struct{})
	s := Stats{Groups: len(groups), ByStatus: make(map[status.Assignment]int)}

	for _, g := range groups {
		proposals[g.ProposalID] = struct{}{}
		s.ByStatus[g.Status]++
		for _, m := range g.Members {
			evaluators[m.EvaluatorID] = struct{}{}
		}
	}
	s.Evaluators = len(evaluators)
	s.Proposals = len(proposals)
	return s
}
