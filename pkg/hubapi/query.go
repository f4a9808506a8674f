package hubapi

import (
	"net/url"
	"strconv"
)

// QueryParams expresses the common list options of the platform API. Listing
// endpoints page with count/start offsets; filter parameters are repeated on
// the wire, not comma-joined.
type QueryParams struct {
	// Count limits the number of results returned (per page when iterating).
	Count int
	// Start skips the first N results.
	Start int
	// Spider restricts results to one spider.
	Spider string
	// State restricts job listings to one state (pending, running, finished,
	// deleted).
	State string
	// HasTags keeps only entries carrying all of these tags.
	HasTags []string
	// LacksTags drops entries carrying any of these tags.
	LacksTags []string
	// Meta names extra metadata fields to include in job listings.
	Meta []string
	// Filters holds any additional parameters passed through verbatim.
	Filters map[string][]string
}

// NewQueryParams creates an empty QueryParams.
func NewQueryParams() *QueryParams {
	return &QueryParams{
		Filters: make(map[string][]string),
	}
}

// WithCount sets the result limit.
func (q *QueryParams) WithCount(count int) *QueryParams {
	q.Count = count

	return q
}

// WithStart sets the result offset.
func (q *QueryParams) WithStart(start int) *QueryParams {
	q.Start = start

	return q
}

// WithSpider restricts results to one spider.
func (q *QueryParams) WithSpider(spider string) *QueryParams {
	q.Spider = spider

	return q
}

// WithState restricts job listings to one state.
func (q *QueryParams) WithState(state string) *QueryParams {
	q.State = state

	return q
}

// WithTag appends required tags.
func (q *QueryParams) WithTag(tags ...string) *QueryParams {
	q.HasTags = append(q.HasTags, tags...)

	return q
}

// WithoutTag appends excluded tags.
func (q *QueryParams) WithoutTag(tags ...string) *QueryParams {
	q.LacksTags = append(q.LacksTags, tags...)

	return q
}

// WithMeta appends extra metadata fields to include.
func (q *QueryParams) WithMeta(fields ...string) *QueryParams {
	q.Meta = append(q.Meta, fields...)

	return q
}

// WithFilter appends values for an arbitrary parameter.
func (q *QueryParams) WithFilter(key string, values ...string) *QueryParams {
	if q.Filters == nil {
		q.Filters = make(map[string][]string)
	}

	q.Filters[key] = append(q.Filters[key], values...)

	return q
}

// ToValues converts the params to url.Values. Safe to call on nil.
func (q *QueryParams) ToValues() url.Values {
	values := url.Values{}

	if q == nil {
		return values
	}

	if q.Count > 0 {
		values.Set("count", strconv.Itoa(q.Count))
	}

	if q.Start > 0 {
		values.Set("start", strconv.Itoa(q.Start))
	}

	if q.Spider != "" {
		values.Set("spider", q.Spider)
	}

	if q.State != "" {
		values.Set("state", q.State)
	}

	for _, tag := range q.HasTags {
		values.Add("has_tag", tag)
	}

	for _, tag := range q.LacksTags {
		values.Add("lacks_tag", tag)
	}

	for _, field := range q.Meta {
		values.Add("meta", field)
	}

	for key, vals := range q.Filters {
		for _, val := range vals {
			values.Add(key, val)
		}
	}

	return values
}

// clone returns a copy safe to mutate while iterating.
func (q *QueryParams) clone() *QueryParams {
	if q == nil {
		return NewQueryParams()
	}

	out := *q
	out.HasTags = append([]string(nil), q.HasTags...)
	out.LacksTags = append([]string(nil), q.LacksTags...)
	out.Meta = append([]string(nil), q.Meta...)
	out.Filters = make(map[string][]string, len(q.Filters))

	for key, vals := range q.Filters {
		out.Filters[key] = append([]string(nil), vals...)
	}

	return &out
}
