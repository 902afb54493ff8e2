package domain

import "slices"

// DefaultPageSizes are the page sizes a client may choose from.
var DefaultPageSizes = []int{12, 24, 36}

const pageWindowSize = 5

type PaginationState struct {
	CurrentPage int `json:"current_page"`
	PageSize    int `json:"page_size"`
}

// A PaginationUpdate holds the pagination fields to change. Nil fields are kept.
type PaginationUpdate struct {
	Page     *int
	PageSize *int
}

func DefaultPagination(pageSize int) PaginationState {
	return PaginationState{CurrentPage: 1, PageSize: pageSize}
}

func (p PaginationState) WithPage(page int) PaginationState {
	p.CurrentPage = max(page, 1)
	return p
}

// WithPageSize changes the page size and returns to the first page.
func (p PaginationState) WithPageSize(size int) PaginationState {
	p.PageSize = size
	p.CurrentPage = 1
	return p
}

func (p PaginationState) FirstPage() PaginationState {
	p.CurrentPage = 1
	return p
}

// Clamp keeps the current page within [1, TotalPages(count)].
func (p PaginationState) Clamp(count int) PaginationState {
	p.CurrentPage = min(max(p.CurrentPage, 1), TotalPages(count, p.PageSize))
	return p
}

// Normalize repairs a state read from outside, e.g. persisted storage.
func (p PaginationState) Normalize(sizes []int, defaultSize int) PaginationState {
	if !slices.Contains(sizes, p.PageSize) {
		p.PageSize = defaultSize
	}
	p.CurrentPage = max(p.CurrentPage, 1)
	return p
}

// TotalPages is ceil(count/size), never less than one.
func TotalPages(count, size int) int {
	if size < 1 || count <= 0 {
		return 1
	}
	return (count + size - 1) / size
}

// PageWindow returns at most five page numbers centred on current.
func PageWindow(current, total int) []int {
	start := max(1, current-pageWindowSize/2)
	end := min(total, start+pageWindowSize-1)
	if end-start < pageWindowSize-1 {
		start = max(1, end-pageWindowSize+1)
	}
	pages := make([]int, 0, end-start+1)
	for i := start; i <= end; i++ {
		pages = append(pages, i)
	}
	return pages
}
