package types

// Sort fields for QueryItems. Text comparison is case-insensitive and
// items with a zero LastAccessedAt sort as the oldest possible value.
const (
	SortByTitle SortField = iota
	SortByRating
	SortByCreatedAt
	SortByLastAccessedAt
)

// SortField selects the primary sort key for a query.
type SortField int

// Query describes a filtered, ordered item listing. Zero-value fields do
// not constrain the result; the zero Query returns every item sorted by
// title ascending. Ties on the primary key break by ascending id so the
// order is deterministic.
type Query struct {
	// Text matches case-insensitively as a substring of the title, any
	// alternative title, or any creator.
	Text string

	// TagContains matches items with at least one tag containing the
	// value case-insensitively.
	TagContains string

	// Statuses restricts results to the given statuses when non-empty.
	Statuses []Status

	// MinRating excludes items rated below it.
	MinRating int

	SortBy   SortField
	SortDesc bool
}
