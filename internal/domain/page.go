package domain

// MaxPageNumber is the largest page a listing can be asked for
const MaxPageNumber = 1_000_000

// Page selects one page of a listing. A zero Size means the whole listing.
type Page struct {
	Number int // 1-based page number
	Size   int // Rows per page
}

// All reports whether the whole listing is requested
func (p Page) All() bool { return p.Size <= 0 }

// Offset is the number of rows before the page
func (p Page) Offset() int {
	if p.All() || p.Number <= 1 {
		return 0
	}
	return (min(p.Number, MaxPageNumber) - 1) * p.Size
}

// TotalPages is the number of pages needed for total rows
func (p Page) TotalPages(total int64) int64 {
	if p.All() {
		return 1
	}
	return (total + int64(p.Size) - 1) / int64(p.Size)
}
