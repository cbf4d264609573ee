package query_test

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/funsideofwine/guardian-grc/query"
)

func TestParseDefaults(t *testing.T) {
	p := query.Parse(url.Values{})
	assert.Equal(t, 1, p.Page)
	assert.Equal(t, 10, p.Limit)
	assert.Empty(t, p.Status)
	assert.Empty(t, p.Search)
}

func TestParseMalformedNumbersFallBack(t *testing.T) {
	testCases := []struct {
		name        string
		page, limit string
		wantPage    int
		wantLimit   int
	}{
		{"garbage", "abc", "xyz", 1, 10},
		{"zero", "0", "0", 1, 10},
		{"negative", "-3", "-10", 1, 10},
		{"valid", "4", "25", 4, 25},
		{"over cap", "2", "5000", 2, 100},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			p := query.Parse(url.Values{"page": {tc.page}, "limit": {tc.limit}})
			assert.Equal(t, tc.wantPage, p.Page)
			assert.Equal(t, tc.wantLimit, p.Limit)
		})
	}
}

func TestFilterExactMatches(t *testing.T) {
	p := query.Parse(url.Values{
		"status":   {"Open"},
		"severity": {"High"},
		"owner":    {"user_1"},
	})
	f := p.Filter("title", "description")
	assert.Equal(t, "Open", f["status"])
	assert.Equal(t, "High", f["severity"])
	assert.Equal(t, "user_1", f["owner.userId"])
	assert.NotContains(t, f, "category")
	assert.NotContains(t, f, "$or")
}

func TestFilterSearchBuildsOrClause(t *testing.T) {
	p := query.Parse(url.Values{"search": {"breach"}})
	f := p.Filter("title", "description")

	or, ok := f["$or"].(bson.A)
	assert.True(t, ok)
	assert.Len(t, or, 3) // title, description, tags

	first, ok := or[0].(bson.M)
	assert.True(t, ok)
	re, ok := first["title"].(primitive.Regex)
	assert.True(t, ok)
	assert.Equal(t, "breach", re.Pattern)
	assert.Equal(t, "i", re.Options)
}

func TestFilterSearchEscapesRegexMeta(t *testing.T) {
	p := query.Params{Search: "a.b(c)"}
	f := p.Filter("title")
	or := f["$or"].(bson.A)
	re := or[0].(bson.M)["title"].(primitive.Regex)
	assert.Equal(t, `a\.b\(c\)`, re.Pattern)
}

func TestRegexEscape(t *testing.T) {
	assert.Equal(t, `\(`, query.RegexEscape("("))
	assert.Equal(t, "INC-2026-0001", query.RegexEscape("INC-2026-0001"))
	assert.Equal(t, `a\.\+\*\?\|\[\]\{\}\^\$b`, query.RegexEscape("a.+*?|[]{}^$b"))
	assert.Equal(t, "plain text", query.RegexEscape("plain text"))
}

func TestSortDefaultsNewestFirst(t *testing.T) {
	p := query.Params{}
	field, order := p.Sort("createdAt")
	assert.Equal(t, "createdAt", field)
	assert.Equal(t, -1, order)

	p = query.Params{SortBy: "title", SortOrder: "asc"}
	field, order = p.Sort("createdAt")
	assert.Equal(t, "title", field)
	assert.Equal(t, 1, order)
}

func TestWindow(t *testing.T) {
	p := query.Params{Page: 3, Limit: 10}
	skip, limit := p.Window()
	assert.Equal(t, int64(20), skip)
	assert.Equal(t, int64(10), limit)

	// zero-valued Params still clamp to sane numbers
	skip, limit = query.Params{}.Window()
	assert.Equal(t, int64(0), skip)
	assert.Equal(t, int64(10), limit)
}

func TestPaginationMetadata(t *testing.T) {
	// 25 records, limit 10: pages return 10, 10, 5
	for _, tc := range []struct {
		page    int
		hasNext bool
		hasPrev bool
	}{
		{1, true, false},
		{2, true, true},
		{3, false, true},
	} {
		p := query.Params{Page: tc.page, Limit: 10}
		meta := query.NewPagination(p, 25)
		assert.Equal(t, int64(25), meta.Total)
		assert.Equal(t, 3, meta.TotalPages)
		assert.Equal(t, tc.hasNext, meta.HasNextPage, "page %d", tc.page)
		assert.Equal(t, tc.hasPrev, meta.HasPrevPage, "page %d", tc.page)
	}
}

func TestPaginationEmpty(t *testing.T) {
	meta := query.NewPagination(query.Params{Page: 1, Limit: 10}, 0)
	assert.Equal(t, 0, meta.TotalPages)
	assert.False(t, meta.HasNextPage)
	assert.False(t, meta.HasPrevPage)
}

func TestDescribe(t *testing.T) {
	assert.Equal(t, "none", query.Params{}.Describe())
	p := query.Params{Status: "Open", Search: "breach"}
	assert.Equal(t, "status=Open, search=breach", p.Describe())
}
