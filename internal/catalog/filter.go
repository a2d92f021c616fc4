package catalog

import "strings"

// AllCategories matches every listing.
const AllCategories = "All"

var categories = []string{AllCategories, "Fashion", "Accessories", "Electronics", "Home & Garden"}

// Categories lists the marketplace categories in display order.
func Categories() []string {
	out := make([]string, len(categories))
	copy(out, categories)
	return out
}

// Filter narrows the marketplace listings. Term matches title or description
// case-insensitively; an empty Category or "All" matches everything.
type Filter struct {
	Term     string `json:"term"`
	Category string `json:"category"`
}

func (f Filter) category() string {
	if f.Category == AllCategories {
		return ""
	}
	return f.Category
}

func (f Filter) key() string {
	return strings.ToLower(f.Term) + "|" + f.category()
}

type FlightSort string

const (
	SortByPrice    FlightSort = "price"
	SortByDuration FlightSort = "duration"
	SortByRating   FlightSort = "rating"
)

type FlightQuery struct {
	From   string     `json:"from"`
	To     string     `json:"to"`
	SortBy FlightSort `json:"sort_by"`
}

// orderBy only ever returns one of the fixed clauses below.
func (q FlightQuery) orderBy() string {
	switch q.SortBy {
	case SortByPrice:
		return "CAST(price AS REAL), position"
	case SortByDuration:
		return "duration_minutes, position"
	case SortByRating:
		return "rating DESC, position"
	default:
		return "position"
	}
}

func (q FlightQuery) key() string {
	return strings.ToUpper(strings.TrimSpace(q.From)) + "|" + strings.ToUpper(strings.TrimSpace(q.To)) + "|" + string(q.SortBy)
}
