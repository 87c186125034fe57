package resources

import (
	"net/url"
	"sort"
	"strconv"
	"strings"
)

const (
	DefaultLimit  = 10
	DefaultOffset = 0
	DefaultSort   = "created_at desc"
)

var paginationKeys = map[string]bool{"limit": true, "offset": true, "sort": true}

// Filter narrows a list on one field, sent to the backend as
// field=operator:value (for example status=eq:active).
type Filter struct {
	Field    string
	Operator string
	Value    string
}

// Page is the pagination part of a list query
type Page struct {
	Limit  int
	Offset int
	Sort   string
}

// ParsePage reads limit, offset and sort, falling back to the defaults for
// missing or unusable values.
func ParsePage(q url.Values) Page {
	p := Page{Limit: DefaultLimit, Offset: DefaultOffset, Sort: DefaultSort}
	if n, err := strconv.Atoi(q.Get("limit")); err == nil && n > 0 {
		p.Limit = n
	}
	if n, err := strconv.Atoi(q.Get("offset")); err == nil && n >= 0 {
		p.Offset = n
	}
	if s := strings.TrimSpace(q.Get("sort")); s != "" {
		p.Sort = s
	}
	return p
}

// ParseFilters turns every non-pagination parameter of the form
// operator:value into a Filter. Parameters missing either part are dropped;
// when a field repeats, the last value wins. Filters are ordered by field.
func ParseFilters(q url.Values) []Filter {
	var filters []Filter
	for field, values := range q {
		if paginationKeys[field] || len(values) == 0 {
			continue
		}
		op, value, ok := strings.Cut(values[len(values)-1], ":")
		if !ok || op == "" || value == "" {
			continue
		}
		filters = append(filters, Filter{Field: field, Operator: op, Value: value})
	}
	sort.Slice(filters, func(i, j int) bool { return filters[i].Field < filters[j].Field })
	return filters
}

// BuildQuery normalises an inbound list query into the backend's form
func BuildQuery(q url.Values) string {
	page := ParsePage(q)
	out := url.Values{}
	out.Set("limit", strconv.Itoa(page.Limit))
	out.Set("offset", strconv.Itoa(page.Offset))
	out.Set("sort", page.Sort)
	for _, f := range ParseFilters(q) {
		out.Add(f.Field, f.Operator+":"+f.Value)
	}
	return out.Encode()
}
