package domain

// PaginationInfo - метаданные пагинации. Вычисляются заново на каждый
// запрос и никогда не сохраняются.
type PaginationInfo struct {
	CurrentPage int
	TotalPages  int
	TotalCount  int
	HasNextPage bool
	HasPrevPage bool
	Limit       int
}

// NewPaginationInfo считает метаданные страницы:
// totalPages = ceil(totalCount/limit), hasNextPage = page < totalPages,
// hasPrevPage = page > 1.
func NewPaginationInfo(totalCount, page, limit int) PaginationInfo {
	totalPages := 0
	if limit > 0 {
		totalPages = (totalCount + limit - 1) / limit
	}
	return PaginationInfo{
		CurrentPage: page,
		TotalPages:  totalPages,
		TotalCount:  totalCount,
		HasNextPage: page < totalPages,
		HasPrevPage: page > 1,
		Limit:       limit,
	}
}
