package domain

// Pagination is the page window of a list request.
type Pagination struct {
	Page     int
	PageSize int
}

func (p Pagination) Limit() int {
	return p.PageSize
}

func (p Pagination) Offset() int {
	return (p.Page - 1) * p.PageSize
}

// Metadata describes the window a listing actually returned.
type Metadata struct {
	CurrentPage  int
	FirstPage    int
	LastPage     int
	PageSize     int
	TotalRecords int
}

// Metadata derives the listing metadata for a result set of totalRecords
// rows fetched with this window.
func (p Pagination) Metadata(totalRecords int) *Metadata {
	lastPage := (totalRecords + p.PageSize - 1) / p.PageSize

	return &Metadata{
		CurrentPage:  p.Page,
		FirstPage:    1,
		LastPage:     lastPage,
		PageSize:     p.PageSize,
		TotalRecords: totalRecords,
	}
}
