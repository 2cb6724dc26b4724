package tablequery

import (
	"strconv"

	"gorm.io/gorm"
)

// PageWindow is the LIMIT/OFFSET window selecting one page of the dataset.
type PageWindow struct {
	limit  int
	offset int
}

// NewPageWindow computes the window of pagination. The page size is
// normalized to (0, maxPageSize] and pages below 1 read the first page.
func NewPageWindow(pagination Pagination, maxPageSize int) PageWindow {
	limit := NormalizePageSizeMax(pagination.GetPageSize(), maxPageSize)
	page := max(pagination.GetCurrentPage(), DefaultCurrentPage)

	return PageWindow{
		limit:  limit,
		offset: (page - 1) * limit,
	}
}

func (w PageWindow) GetLimit() int {
	return w.limit
}

func (w PageWindow) GetOffset() int {
	return w.offset
}

// IsFirst reports whether the window starts at the beginning of the dataset.
func (w PageWindow) IsFirst() bool {
	return w.offset == 0
}

// ToSQL returns "LIMIT <limit> OFFSET <offset>", omitting a zero offset.
//
// Usage:
//
//	query := fmt.Sprintf("SELECT * FROM table %s", w.ToSQL())
func (w PageWindow) ToSQL() string {
	ret := "LIMIT " + strconv.Itoa(w.limit)
	if w.offset > 0 {
		ret += " OFFSET " + strconv.Itoa(w.offset)
	}

	return ret
}

// Apply applies the window to a gorm query.
func (w PageWindow) Apply(db *gorm.DB) *gorm.DB {
	return db.Limit(w.limit).Offset(w.offset)
}
