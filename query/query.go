// Package query turns the flat filter parameters of a list request into a
// structured predicate, sort, and pagination window, plus the pagination
// metadata returned alongside results. Malformed numeric input falls back to
// defaults instead of failing.
package query

import (
	"net/url"
	"strconv"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100
)

// Params enumerates every supported filter key. Empty string means "not
// filtered on".
type Params struct {
	Status    string
	Category  string
	Severity  string
	Priority  string
	Type      string
	State     string
	Owner     string // matched against owner.userId
	Search    string // case-insensitive substring across the kind's search fields + tags
	SortBy    string
	SortOrder string // "asc" or "desc"; anything else means desc
	Page      int
	Limit     int
}

// Parse reads filter parameters from a query string. page and limit default to
// 1 and 10; zero, negative, or malformed values fall back to the defaults and
// limit is capped at MaxLimit.
func Parse(values url.Values) Params {
	p := Params{
		Status:    values.Get("status"),
		Category:  values.Get("category"),
		Severity:  values.Get("severity"),
		Priority:  values.Get("priority"),
		Type:      values.Get("type"),
		State:     values.Get("state"),
		Owner:     values.Get("owner"),
		Search:    values.Get("search"),
		SortBy:    values.Get("sortBy"),
		SortOrder: values.Get("sortOrder"),
		Page:      DefaultPage,
		Limit:     DefaultLimit,
	}

	if page, err := strconv.Atoi(values.Get("page")); err == nil && page >= 1 {
		p.Page = page
	}
	if limit, err := strconv.Atoi(values.Get("limit")); err == nil && limit >= 1 {
		p.Limit = limit
	}
	if p.Limit > MaxLimit {
		p.Limit = MaxLimit
	}
	return p
}

// Filter builds the Mongo predicate: one exact match per non-empty field and,
// when Search is set, a case-insensitive $or across searchFields and tags.
func (p Params) Filter(searchFields ...string) bson.M {
	filter := bson.M{}
	if p.Status != "" {
		filter["status"] = p.Status
	}
	if p.Category != "" {
		filter["category"] = p.Category
	}
	if p.Severity != "" {
		filter["severity"] = p.Severity
	}
	if p.Priority != "" {
		filter["priority"] = p.Priority
	}
	if p.Type != "" {
		filter["type"] = p.Type
	}
	if p.State != "" {
		filter["state"] = p.State
	}
	if p.Owner != "" {
		filter["owner.userId"] = p.Owner
	}
	if p.Search != "" {
		re := primitive.Regex{Pattern: RegexEscape(p.Search), Options: "i"}
		or := make(bson.A, 0, len(searchFields)+1)
		for _, f := range searchFields {
			or = append(or, bson.M{f: re})
		}
		or = append(or, bson.M{"tags": bson.M{"$in": bson.A{re}}})
		filter["$or"] = or
	}
	return filter
}

// FindOptions builds sort, skip, and limit for the Mongo query. Default sort
// is newest-first on defaultSortField (typically createdAt).
func (p Params) FindOptions(defaultSortField string) *options.FindOptions {
	field, order := p.Sort(defaultSortField)
	skip, limit := p.Window()
	return options.Find().
		SetSort(bson.D{{Key: field, Value: order}}).
		SetSkip(skip).
		SetLimit(limit)
}

// Sort resolves the sort field and direction (1 asc, -1 desc).
func (p Params) Sort(defaultSortField string) (string, int) {
	field := p.SortBy
	if field == "" {
		field = defaultSortField
	}
	if strings.EqualFold(p.SortOrder, "asc") {
		return field, 1
	}
	return field, -1
}

// Window returns the skip/limit pair for the requested page.
func (p Params) Window() (skip, limit int64) {
	page, lim := p.Page, p.Limit
	if page < 1 {
		page = DefaultPage
	}
	if lim < 1 {
		lim = DefaultLimit
	}
	return int64(page-1) * int64(lim), int64(lim)
}

// Pagination is the metadata block returned with every list response.
type Pagination struct {
	Page        int   `json:"page"`
	Limit       int   `json:"limit"`
	Total       int64 `json:"total"`
	TotalPages  int   `json:"totalPages"`
	HasNextPage bool  `json:"hasNextPage"`
	HasPrevPage bool  `json:"hasPrevPage"`
}

func NewPagination(p Params, total int64) Pagination {
	totalPages := int((total + int64(p.Limit) - 1) / int64(p.Limit))
	return Pagination{
		Page:        p.Page,
		Limit:       p.Limit,
		Total:       total,
		TotalPages:  totalPages,
		HasNextPage: p.Page < totalPages,
		HasPrevPage: p.Page > 1,
	}
}

// Describe renders the active filters for audit detail strings.
func (p Params) Describe() string {
	parts := []string{}
	add := func(k, v string) {
		if v != "" {
			parts = append(parts, k+"="+v)
		}
	}
	add("status", p.Status)
	add("category", p.Category)
	add("severity", p.Severity)
	add("priority", p.Priority)
	add("type", p.Type)
	add("state", p.State)
	add("owner", p.Owner)
	add("search", p.Search)
	if len(parts) == 0 {
		return "none"
	}
	return strings.Join(parts, ", ")
}

// RegexEscape neutralizes regex metacharacters in user-supplied search text so
// the substring match stays a substring match. Every predicate built from a
// search parameter must pass through it.
func RegexEscape(s string) string {
	var b strings.Builder
	for _, r := range s {
		if strings.ContainsRune(`\.+*?()|[]{}^$`, r) {
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}
