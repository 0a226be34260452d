package utils

import (
	"strconv"

	"lucerna/internal/shared/constants"
)

// Pagination holds normalized paging parameters.
type Pagination struct {
	Page     int
	PageSize int
}

// ParsePagination parses page and page-size query values, falling back to the
// defaults and clamping the size to the configured maximum.
func ParsePagination(pageStr, sizeStr string) Pagination {
	page, err := strconv.Atoi(pageStr)
	if err != nil || page < 1 {
		page = constants.DefaultPage
	}

	size, err := strconv.Atoi(sizeStr)
	if err != nil || size < 1 {
		size = constants.DefaultPageSize
	}
	if size > constants.MaxPageSize {
		size = constants.MaxPageSize
	}

	return Pagination{Page: page, PageSize: size}
}

// TotalPages computes the page count for a result set.
func TotalPages(total int64, pageSize int) int64 {
	if pageSize <= 0 {
		return 0
	}
	pages := total / int64(pageSize)
	if total%int64(pageSize) != 0 {
		pages++
	}
	return pages
}
