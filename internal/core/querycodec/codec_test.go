package querycodec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"moderation-console/internal/core/domain"
)

func intPtr(v int) *int { return &v }
func floatPtr(v float64) *float64 { return &v }

func TestEncode_DefaultsAreCanonical(t *testing.T) {
	pairs := Encode(domain.DefaultFilterState())
	assert.Equal(t, domain.QueryPairs{
		{Key: "page", Value: "1"},
		{Key: "sortBy", Value: "createdAt"},
		{Key: "sortOrder", Value: "desc"},
	}, pairs)
}

func TestEncode_PendingStatusAfterFilterChange(t *testing.T) {
	s := domain.FilterState{Page: 3, Limit: domain.PageSize, SortBy: domain.SortByCreatedAt, SortOrder: domain.SortDesc}
	s = s.Apply(domain.FilterPatch{Statuses: []domain.AdStatus{domain.StatusPending}})

	assert.Equal(t, domain.QueryPairs{
		{Key: "page", Value: "1"},
		{Key: "status", Value: "pending"},
		{Key: "sortBy", Value: "createdAt"},
		{Key: "sortOrder", Value: "desc"},
	}, Encode(s))
}

func TestEncode_FieldOrder(t *testing.T) {
	s := domain.FilterState{
		Page:       2,
		Limit:      domain.PageSize,
		SortBy:     domain.SortByPrice,
		SortOrder:  domain.SortAsc,
		Statuses:   []domain.AdStatus{domain.StatusRejected, domain.StatusPending},
		CategoryID: intPtr(4),
		MinPrice:   floatPtr(100),
		MaxPrice:   floatPtr(2500.5),
		Search:     "iphone 13",
	}

	assert.Equal(t, domain.QueryPairs{
		{Key: "page", Value: "2"},
		{Key: "status", Value: "rejected"},
		{Key: "status", Value: "pending"},
		{Key: "categoryId", Value: "4"},
		{Key: "minPrice", Value: "100"},
		{Key: "maxPrice", Value: "2500.5"},
		{Key: "search", Value: "iphone 13"},
		{Key: "sortBy", Value: "price"},
		{Key: "sortOrder", Value: "asc"},
	}, Encode(s))
}

func TestRoundTrip(t *testing.T) {
	states := []domain.FilterState{
		domain.DefaultFilterState(),
		{Page: 7, Limit: domain.PageSize, SortBy: domain.SortByPriority, SortOrder: domain.SortAsc},
		{
			Page: 1, Limit: domain.PageSize, SortBy: domain.SortByCreatedAt, SortOrder: domain.SortDesc,
			Statuses: []domain.AdStatus{domain.StatusDraft, domain.StatusApproved},
		},
		{
			Page: 12, Limit: domain.PageSize, SortBy: domain.SortByPrice, SortOrder: domain.SortDesc,
			CategoryID: intPtr(0), MinPrice: floatPtr(0), MaxPrice: floatPtr(0.01),
		},
		{
			Page: 1, Limit: domain.PageSize, SortBy: domain.SortByCreatedAt, SortOrder: domain.SortAsc,
			Search: "диван & кресло = 100%",
		},
	}

	for _, s := range states {
		assert.Equal(t, s, Decode(Encode(s)))
		assert.Equal(t, s, Decode(ParseQuery(String(Encode(s)))), "through address string")
	}
}

func TestDecode_EmptyGivesDefaults(t *testing.T) {
	assert.Equal(t, domain.DefaultFilterState(), Decode(nil))
}

func TestDecode_InvalidValuesFallBack(t *testing.T) {
	s := Decode(domain.QueryPairs{
		{Key: "page", Value: "0"},
		{Key: "limit", Value: "50"},
		{Key: "status", Value: "pending"},
		{Key: "status", Value: "archived"},
		{Key: "status", Value: "pending"},
		{Key: "categoryId", Value: "abc"},
		{Key: "minPrice", Value: "-5"},
		{Key: "maxPrice", Value: ""},
		{Key: "sortBy", Value: "title"},
		{Key: "sortOrder", Value: "random"},
	})

	assert.Equal(t, 1, s.Page)
	assert.Equal(t, domain.PageSize, s.Limit)
	assert.Equal(t, []domain.AdStatus{domain.StatusPending}, s.Statuses)
	assert.Nil(t, s.CategoryID)
	assert.Nil(t, s.MinPrice)
	assert.Nil(t, s.MaxPrice)
	assert.Equal(t, domain.SortByCreatedAt, s.SortBy)
	assert.Equal(t, domain.SortDesc, s.SortOrder)
}

func TestDecode_NonNumericPage(t *testing.T) {
	assert.Equal(t, 1, Decode(domain.QueryPairs{{Key: "page", Value: "two"}}).Page)
	assert.Equal(t, 1, Decode(domain.QueryPairs{{Key: "page", Value: "-3"}}).Page)
	assert.Equal(t, 4, Decode(domain.QueryPairs{{Key: "page", Value: "4"}}).Page)
}

func TestParseQuery(t *testing.T) {
	pairs := ParseQuery("?page=2&status=pending&status=draft&search=%D0%B4%D0%B8%D0%B2%D0%B0%D0%BD+%D0%BD%D0%BE%D0%B2%D1%8B%D0%B9&bad=%zz")
	require.Len(t, pairs, 4)
	assert.Equal(t, []string{"pending", "draft"}, pairs.GetAll("status"))
	search, ok := pairs.Get("search")
	assert.True(t, ok)
	assert.Equal(t, "диван новый", search)
}

func TestString(t *testing.T) {
	q := domain.QueryPairs{
		{Key: "page", Value: "1"},
		{Key: "search", Value: "a b&c"},
	}
	assert.Equal(t, "page=1&search=a+b%26c", String(q))
}
