//go:build property

package content

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// Walking every page with fixed options yields each item exactly once,
// and pageCount is ceil(total/pageSize) with a floor of 1.
func TestPaginate_Partition(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("pages partition the items", prop.ForAll(
		func(total, pageSize int) bool {
			items := make([]int, total)
			for i := range items {
				items[i] = i
			}

			first := paginate(items, ListOptions{Page: 1, PageSize: pageSize})
			if first.Total != total {
				return false
			}
			wantPages := (total + pageSize - 1) / pageSize
			if wantPages < 1 {
				wantPages = 1
			}
			if first.PageCount != wantPages {
				return false
			}

			var walked []int
			for p := 1; p <= first.PageCount; p++ {
				page := paginate(items, ListOptions{Page: p, PageSize: pageSize})
				walked = append(walked, page.Items...)
			}
			if len(walked) != total {
				return false
			}
			for i, v := range walked {
				if v != i {
					return false
				}
			}
			return true
		},
		gen.IntRange(0, 300),
		gen.IntRange(1, maxPageSize),
	))

	properties.Property("out-of-range pages are empty, never panic", prop.ForAll(
		func(total, page int) bool {
			items := make([]int, total)
			got := paginate(items, ListOptions{Page: page, PageSize: defaultPageSize})
			if page < 1 {
				page = 1
			}
			if page > got.PageCount {
				return len(got.Items) == 0
			}
			return len(got.Items) <= defaultPageSize
		},
		gen.IntRange(0, 100),
		gen.IntRange(-5, 50),
	))

	properties.TestingRun(t)
}
