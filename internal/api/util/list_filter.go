package util

const (
	DefaultPerPage = 25
	MaxPerPage     = 200
)

// ListFilter contains common filtering/pagination options for list endpoints
type ListFilter struct {
	Filters []QueryFilter
	Order   []OrderClause
	Page    int
	PerPage int
}

// Normalize clamps page and per-page into the supported range.
func (f *ListFilter) Normalize() {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.PerPage <= 0 {
		f.PerPage = DefaultPerPage
	}
	if f.PerPage > MaxPerPage {
		f.PerPage = MaxPerPage
	}
}

// TotalPages returns how many pages total rows span at the filter's page size.
func (f ListFilter) TotalPages(total int) int {
	if f.PerPage <= 0 {
		return 0
	}
	return (total + f.PerPage - 1) / f.PerPage
}
