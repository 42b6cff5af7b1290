package service

const (
	defaultPageSize = 20
	maxPageSize     = 50
)

// normalizePage clamps paging parameters to page >= 1 and 1 <= limit <= 50.
func normalizePage(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	return page, limit
}
