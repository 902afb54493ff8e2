package domain_test

import (
	"testing"

	"github.com/niksmo/shopsphere/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ids(ps []domain.Product) []int {
	out := make([]int, 0, len(ps))
	for _, p := range ps {
		out = append(out, p.ID)
	}
	return out
}

func TestDerive(t *testing.T) {
	products := testProducts()
	bounds := testBounds()

	t.Run("PriceCeiling", func(t *testing.T) {
		f := domain.DefaultFilters(bounds).WithPriceCeiling(price("100"), bounds)
		got := domain.Derive(products, f)
		require.Len(t, got, 3)
		assert.Equal(t, []int{4, 1, 3}, ids(got))
		assert.True(t, got[0].Price.Equal(price("29.99")))
		assert.True(t, got[1].Price.Equal(price("79.99")))
		assert.True(t, got[2].Price.Equal(price("89.99")))
	})

	t.Run("CeilingIsInclusive", func(t *testing.T) {
		f := domain.DefaultFilters(bounds).WithPriceCeiling(price("79.99"), bounds)
		assert.Equal(t, []int{4, 1}, ids(domain.Derive(products, f)))
	})

	t.Run("Descending", func(t *testing.T) {
		f := domain.DefaultFilters(bounds).WithSort(domain.SortDesc)
		assert.Equal(t, []int{2, 3, 1, 4}, ids(domain.Derive(products, f)))
	})

	t.Run("SearchMatchesNameOrDescriptionIgnoringCase", func(t *testing.T) {
		f := domain.DefaultFilters(bounds).WithSearchTerm("FITNESS")
		assert.Equal(t, []int{4, 2}, ids(domain.Derive(products, f)))

		f = f.WithSearchTerm("shoes")
		assert.Equal(t, []int{3}, ids(domain.Derive(products, f)))
	})

	t.Run("EmptySearchMatchesAll", func(t *testing.T) {
		f := domain.DefaultFilters(bounds)
		assert.Len(t, domain.Derive(products, f), len(products))
	})

	t.Run("Category", func(t *testing.T) {
		f := domain.DefaultFilters(bounds).WithCategory("Electronics")
		assert.Equal(t, []int{1, 2}, ids(domain.Derive(products, f)))

		f = f.WithCategory(domain.CategoryAll)
		assert.Len(t, domain.Derive(products, f), len(products))
	})

	t.Run("MinRating", func(t *testing.T) {
		f := domain.DefaultFilters(bounds).WithMinRating(4.5)
		assert.Equal(t, []int{1, 3}, ids(domain.Derive(products, f)))
	})

	t.Run("NoMatches", func(t *testing.T) {
		f := domain.DefaultFilters(bounds).WithSearchTerm("nothing like this")
		got := domain.Derive(products, f)
		assert.Empty(t, got)

		page := domain.Paginate(got, domain.DefaultPagination(12))
		assert.True(t, page.Empty())
		assert.Equal(t, 1, page.TotalPages)
		assert.Empty(t, page.Items)
	})

	t.Run("StableOnEqualPrices", func(t *testing.T) {
		same := []domain.Product{
			{ID: 10, Name: "a", Price: price("10")},
			{ID: 11, Name: "b", Price: price("5")},
			{ID: 12, Name: "c", Price: price("10")},
			{ID: 13, Name: "d", Price: price("10.00")},
		}
		f := domain.DefaultFilters(bounds)
		assert.Equal(t, []int{11, 10, 12, 13}, ids(domain.Derive(same, f)))

		f = f.WithSort(domain.SortDesc)
		assert.Equal(t, []int{10, 12, 13, 11}, ids(domain.Derive(same, f)))
	})

	t.Run("DoesNotReorderInput", func(t *testing.T) {
		in := testProducts()
		_ = domain.Derive(in, domain.DefaultFilters(bounds))
		assert.Equal(t, []int{1, 2, 3, 4}, ids(in))
	})

	t.Run("EveryResultMatches", func(t *testing.T) {
		terms := []string{"", "a", "fitness", "mat"}
		cats := []string{domain.CategoryAll, "Electronics", "Sports", "Toys"}
		ceilings := []string{"0", "29.99", "80", "300"}
		for _, term := range terms {
			for _, cat := range cats {
				for _, c := range ceilings {
					f := domain.DefaultFilters(bounds).
						WithSearchTerm(term).
						WithCategory(cat).
						WithPriceCeiling(price(c), bounds)
					got := domain.Derive(products, f)
					for _, p := range got {
						assert.True(t, f.Matches(p))
					}
					var want int
					for _, p := range products {
						if f.Matches(p) {
							want++
						}
					}
					assert.Len(t, got, want)
				}
			}
		}
	})
}

func TestPaginate(t *testing.T) {
	gen := func(n int) []domain.Product {
		out := make([]domain.Product, n)
		for i := range out {
			out[i] = domain.Product{ID: i + 1, Price: price("1")}
		}
		return out
	}

	t.Run("TotalPagesAndLastPageSize", func(t *testing.T) {
		for _, count := range []int{0, 1, 11, 12, 13, 24, 25, 37} {
			for _, size := range domain.DefaultPageSizes {
				items := gen(count)
				total := domain.TotalPages(count, size)
				want := max(1, (count+size-1)/size)
				assert.Equal(t, want, total)

				last := domain.Paginate(items, domain.PaginationState{CurrentPage: total, PageSize: size})
				assert.Equal(t, count-(total-1)*size, len(last.Items))
				if count > 0 {
					assert.GreaterOrEqual(t, len(last.Items), 1)
					assert.LessOrEqual(t, len(last.Items), size)
				}
			}
		}
	})

	t.Run("Slice", func(t *testing.T) {
		page := domain.Paginate(gen(30), domain.PaginationState{CurrentPage: 2, PageSize: 12})
		require.Len(t, page.Items, 12)
		assert.Equal(t, 13, page.Items[0].ID)
		assert.Equal(t, 24, page.Items[11].ID)
		assert.Equal(t, 3, page.TotalPages)
		assert.True(t, page.HasPrev())
		assert.True(t, page.HasNext())
	})

	t.Run("ClampsPastLastPage", func(t *testing.T) {
		page := domain.Paginate(gen(5), domain.PaginationState{CurrentPage: 9, PageSize: 12})
		assert.Equal(t, 1, page.CurrentPage)
		assert.Len(t, page.Items, 5)
		assert.False(t, page.HasNext())
	})
}

func TestPageWindow(t *testing.T) {
	assert.Equal(t, []int{1}, domain.PageWindow(1, 1))
	assert.Equal(t, []int{1, 2, 3}, domain.PageWindow(2, 3))
	assert.Equal(t, []int{1, 2, 3, 4, 5}, domain.PageWindow(1, 10))
	assert.Equal(t, []int{4, 5, 6, 7, 8}, domain.PageWindow(6, 10))
	assert.Equal(t, []int{6, 7, 8, 9, 10}, domain.PageWindow(10, 10))
}

func TestCategories(t *testing.T) {
	c := domain.NewCatalog(testProducts())
	assert.Equal(t, []string{"Electronics", "Footwear", "Sports"}, c.Categories())
	assert.True(t, c.HasCategory(domain.CategoryAll))
	assert.True(t, c.HasCategory("Sports"))
	assert.False(t, c.HasCategory("Toys"))

	_, err := c.Product(42)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
