// Package pagination holds the page arithmetic shared by list endpoints.
// Pages are 1-indexed.
package pagination

import "math"

const (
	DefaultPage    = 1
	DefaultPerPage = 10
	MaxPerPage     = 100
)

// Normalize applies defaults to missing or out-of-range values:
// page < 1 becomes 1, perPage < 1 becomes DefaultPerPage and perPage above
// MaxPerPage is capped. page is capped at MaxPage(perPage) so Offset cannot
// overflow.
func Normalize(page, perPage int) (int, int) {
	if page < 1 {
		page = DefaultPage
	}
	if perPage < 1 {
		perPage = DefaultPerPage
	}
	if perPage > MaxPerPage {
		perPage = MaxPerPage
	}
	if limit := MaxPage(perPage); page > limit {
		page = limit
	}
	return page, perPage
}

// MaxPage is the highest page whose offset still fits in an int.
func MaxPage(perPage int) int {
	if perPage < 1 {
		perPage = 1
	}
	return math.MaxInt / perPage
}

// Offset returns the number of rows to skip for page.
func Offset(page, perPage int) int {
	return (page - 1) * perPage
}

// LastPage returns the number of the last page, never less than 1.
func LastPage(total int64, perPage int) int {
	if perPage < 1 || total <= 0 {
		return 1
	}
	return int((total + int64(perPage) - 1) / int64(perPage))
}
