package domain

import "math"

const (
	defaultPageSize = 10
	maxPageSize     = 100
	// maxPageNumber keeps the offset of any page within an int32.
	maxPageNumber = math.MaxInt32 / maxPageSize
)

type Page struct {
	Number int
	Size   int
}

func NewPage(pageNumber, pageSize int) *Page {
	pNumber := 1
	if pageNumber > 0 {
		pNumber = pageNumber
	}
	if pNumber > maxPageNumber {
		pNumber = maxPageNumber
	}

	pSize := defaultPageSize
	if pageSize > 0 {
		pSize = pageSize
	}
	if pSize > maxPageSize {
		pSize = maxPageSize
	}

	return &Page{
		Number: pNumber,
		Size:   pSize,
	}
}

// Offset returns the number of items to skip to reach the page. It saturates
// at math.MaxInt instead of overflowing.
func (p Page) Offset() int {
	if p.Number <= 1 || p.Size <= 0 {
		return 0
	}
	if p.Number-1 > math.MaxInt/p.Size {
		return math.MaxInt
	}
	return (p.Number - 1) * p.Size
}
