package pagination

import (
	"strconv"
	"strings"
)

// TokenPrefix marks pagination callbacks.
const TokenPrefix = "page:"

// DefaultPageSize is used when a caller passes a non-positive size.
const DefaultPageSize = 5

// Page is one slice of an ordered list.
type Page[T any] struct {
	Items      []T
	Number     int
	TotalPages int
	Total      int
	HasPrev    bool
	HasNext    bool
}

// Paginate returns the requested page of items. Page numbers are 1-based and
// out-of-range requests clamp to the nearest valid page.
func Paginate[T any](items []T, size, page int) Page[T] {
	if size <= 0 {
		size = DefaultPageSize
	}
	total := len(items)
	totalPages := (total + size - 1) / size
	if totalPages == 0 {
		totalPages = 1
	}
	page = Clamp(page, totalPages)

	start := (page - 1) * size
	end := min(start+size, total)
	if start > total {
		start = total
	}

	return Page[T]{
		Items:      items[start:end],
		Number:     page,
		TotalPages: totalPages,
		Total:      total,
		HasPrev:    page > 1,
		HasNext:    end < total,
	}
}

// Clamp bounds page to [1, totalPages].
func Clamp(page, totalPages int) int {
	if totalPages < 1 {
		totalPages = 1
	}
	if page < 1 {
		return 1
	}
	if page > totalPages {
		return totalPages
	}
	return page
}

// Token encodes a page number as a callback value.
func Token(page int) string {
	return TokenPrefix + strconv.Itoa(page)
}

// ParseToken extracts the page number from a `page:<n>` callback.
func ParseToken(value string) (int, bool) {
	raw, ok := strings.CutPrefix(strings.TrimSpace(value), TokenPrefix)
	if !ok {
		return 0, false
	}
	page, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return page, true
}

// IsToken reports whether value looks like a pagination callback.
func IsToken(value string) bool {
	return strings.HasPrefix(strings.TrimSpace(value), TokenPrefix)
}
