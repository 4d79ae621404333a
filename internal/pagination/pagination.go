// Package pagination slices result sets for list responses.
package pagination

// DefaultPageSize is the number of items per page when the caller does not
// ask for a specific size.
const DefaultPageSize = 6

// FirstPage returns the leading slice of items. A size below 1 falls back to
// the default.
func FirstPage[T any](items []T, size int) []T {
	if size < 1 {
		size = DefaultPageSize
	}
	if len(items) > size {
		return items[:size]
	}
	return items
}
