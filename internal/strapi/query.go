package strapi

import (
	"net/url"
	"strconv"
	"strings"
)

// Query is an ordered list of query parameters encoded the way the content API
// expects: bracketed keys are written literally and only values are escaped.
type Query struct {
	pairs [][2]string
}

// NewQuery returns an empty Query.
func NewQuery() *Query {
	return &Query{}
}

// Set appends key=value.
func (q *Query) Set(key, value string) *Query {
	q.pairs = append(q.pairs, [2]string{key, value})
	return q
}

// Populate appends populate[i]=path for each path.
func (q *Query) Populate(paths ...string) *Query {
	for i, p := range paths {
		q.Set("populate["+strconv.Itoa(i)+"]", p)
	}
	return q
}

// PopulateAll appends populate=*.
func (q *Query) PopulateAll() *Query {
	return q.Set("populate", "*")
}

// FilterEq appends filters[f0][f1]...[$eq]=value.
func (q *Query) FilterEq(value string, fields ...string) *Query {
	var b strings.Builder
	b.WriteString("filters")
	for _, f := range fields {
		b.WriteString("[" + f + "]")
	}
	b.WriteString("[$eq]")
	return q.Set(b.String(), value)
}

// Encode renders the query without the leading '?'.
func (q *Query) Encode() string {
	if q == nil {
		return ""
	}
	parts := make([]string, 0, len(q.pairs))
	for _, p := range q.pairs {
		parts = append(parts, p[0]+"="+escapeValue(p[1]))
	}
	return strings.Join(parts, "&")
}

// escapeValue percent-encodes v as a query value. Spaces become %20 and commas
// stay literal so comma-joined lists are sent as typed.
func escapeValue(v string) string {
	s := url.QueryEscape(v)
	s = strings.ReplaceAll(s, "+", "%20")
	return strings.ReplaceAll(s, "%2C", ",")
}
