package utils

const (
	DefaultPerPage = 10
	MaxPerPage     = 100
)

// ClampPerPage maps a missing page size to DefaultPerPage and caps it at MaxPerPage.
func ClampPerPage(perPage int) int {
	switch {
	case perPage < 1:
		return DefaultPerPage
	case perPage > MaxPerPage:
		return MaxPerPage
	}
	return perPage
}

// PageWindow returns the LIMIT and OFFSET for a 1-based page. Pages below 1 read as the first.
func PageWindow(page, perPage int) (limit, offset int) {
	limit = ClampPerPage(perPage)
	if page > 1 {
		offset = (page - 1) * limit
	}
	return limit, offset
}

func TotalPages(total int64, perPage int) int {
	if total <= 0 {
		return 0
	}
	size := int64(ClampPerPage(perPage))
	return int((total + size - 1) / size)
}
