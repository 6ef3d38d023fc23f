package model

import "strconv"

// PageSize is the number of items on every paginated listing.
const PageSize = 10

// Page is one slice of an ordered listing.
type Page[T any] struct {
	Items       []T  `json:"items"`
	Number      int  `json:"number"`
	PageSize    int  `json:"page_size"`
	TotalCount  int  `json:"total_count"`
	NumPages    int  `json:"num_pages"`
	HasNext     bool `json:"has_next"`
	HasPrevious bool `json:"has_previous"`
}

// PageRequest is a normalized 1-indexed page position.
type PageRequest struct {
	Number int
	Size   int
}

// NewPageRequest clamps number to at least 1 and size to PageSize when unset.
func NewPageRequest(number, size int) PageRequest {
	if number < 1 {
		number = 1
	}
	if size <= 0 {
		size = PageSize
	}
	return PageRequest{Number: number, Size: size}
}

func (p PageRequest) Limit() int {
	return p.Size
}

func (p PageRequest) Offset() int {
	return (p.Number - 1) * p.Size
}

// NewPage assembles a page from the fetched items and the total row count.
// A listing with no rows still has one (empty) page.
func NewPage[T any](items []T, req PageRequest, total int) Page[T] {
	if items == nil {
		items = []T{}
	}
	numPages := 1
	if total > 0 {
		numPages = (total + req.Size - 1) / req.Size
	}
	return Page[T]{
		Items:       items,
		Number:      req.Number,
		PageSize:    req.Size,
		TotalCount:  total,
		NumPages:    numPages,
		HasNext:     req.Number < numPages,
		HasPrevious: req.Number > 1,
	}
}

// ParsePageNumber reads a ?page= value. Anything that is not a positive
// integer resolves to the first page.
func ParsePageNumber(raw string) int {
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 1
	}
	return n
}
