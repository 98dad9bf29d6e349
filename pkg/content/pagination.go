package content

// ListOptions control filtering and pagination of list operations.
type ListOptions struct {
	// IncludeDrafts admits documents a public listing would hide. Only
	// honored for authenticated admin reads; the HTTP layer enforces that.
	IncludeDrafts bool
	// Holiday filters HomeKitchen posts by exact holiday name. Ignored by
	// other kinds.
	Holiday string
	// Page is 1-based; values below 1 are clamped to 1.
	Page int
	// PageSize is clamped to [1, 50]; 0 means the default of 10.
	PageSize int
}

const (
	defaultPageSize = 10
	maxPageSize     = 50
)

func (o ListOptions) normalize() (page, pageSize int) {
	page = o.Page
	if page < 1 {
		page = 1
	}
	pageSize = o.PageSize
	if pageSize == 0 {
		pageSize = defaultPageSize
	}
	if pageSize < 1 {
		pageSize = 1
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	return page, pageSize
}

// Page is one page of a listing plus the pre-pagination totals.
type Page[T any] struct {
	Items     []T `json:"items"`
	Total     int `json:"total"`
	PageCount int `json:"pageCount"`
}

// paginate slices items for the requested page and computes totals.
// PageCount has a floor of 1 even for an empty result.
func paginate[T any](items []T, opts ListOptions) Page[T] {
	page, pageSize := opts.normalize()

	total := len(items)
	pageCount := (total + pageSize - 1) / pageSize
	if pageCount < 1 {
		pageCount = 1
	}

	start := (page - 1) * pageSize
	if start > total {
		start = total
	}
	end := start + pageSize
	if end > total {
		end = total
	}

	return Page[T]{
		Items:     items[start:end],
		Total:     total,
		PageCount: pageCount,
	}
}
