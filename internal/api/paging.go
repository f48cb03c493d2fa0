package api

import (
	"strconv" // String conversion

	"budget_system/internal/domain" // Page selection

	"github.com/gin-gonic/gin" // Gin web framework
)

const (
	defaultPageSize = 20  // Default page size
	maxPageSize     = 100 // Largest page a client may ask for
)

// pageFromQuery reads page and page_size. Without either the whole listing is returned.
func pageFromQuery(c *gin.Context) domain.Page {
	p, ps := c.Query("page"), c.Query("page_size")
	if p == "" && ps == "" {
		return domain.Page{}
	}
	page := domain.Page{Number: 1, Size: defaultPageSize} // Defaults
	if v, err := strconv.Atoi(p); err == nil && v > 0 {
		page.Number = min(v, domain.MaxPageNumber) // Set page if valid
	}
	// Check and set page size within limits
	if v, err := strconv.Atoi(ps); err == nil && v > 0 && v <= maxPageSize {
		page.Size = v // Set page size
	}
	return page
}

// addPaging adds the row total and, for paged requests, the paging fields to resp
func addPaging(resp gin.H, page domain.Page, total int64) {
	resp["total"] = total // Total number of rows
	if page.All() {
		return
	}
	resp["page"] = page.Number                   // Current page
	resp["page_size"] = page.Size                // Page size
	resp["total_pages"] = page.TotalPages(total) // Total pages
}
