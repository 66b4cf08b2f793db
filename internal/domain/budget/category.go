package budget

import "strings"

// Category is a government budget class
type Category string

const (
	CategoryPS   Category = "ps"
	CategoryMOOE Category = "mooe"
	CategoryCO   Category = "co"
)

// Categories lists every category in display order
var Categories = []Category{CategoryPS, CategoryMOOE, CategoryCO}

// ParseCategory maps a raw category onto ps, mooe or co. Anything that
// cannot be classified is maintenance and operating expense.
func ParseCategory(raw string) Category {
	key := strings.ToLower(strings.TrimSpace(raw))
	switch Category(key) {
	case CategoryPS, CategoryMOOE, CategoryCO:
		return Category(key)
	}

	switch {
	case strings.Contains(key, "personal"):
		return CategoryPS
	case strings.Contains(key, "capital"):
		return CategoryCO
	case strings.Contains(key, "mooe"), strings.Contains(key, "maintenance"):
		return CategoryMOOE
	default:
		return CategoryMOOE
	}
}

// String returns the lower-case category code
func (c Category) String() string {
	return string(c)
}

// Label returns the upper-case abbreviation used in reports
func (c Category) Label() string {
	return strings.ToUpper(string(c))
}

// IsValid reports whether c is one of the three categories
func (c Category) IsValid() bool {
	return c == CategoryPS || c == CategoryMOOE || c == CategoryCO
}
