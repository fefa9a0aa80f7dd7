package amdapi

import (
	"fmt"
	"net/url"
	"strconv"
	"time"
)

// MaxPageSize is the largest number of calls the backend returns per search
// page. Pagination past a page is driven by the caller via PageNumber.
const MaxPageSize = 350

const wireDateLayout = "02/01/2006"

// SearchDate is a date filter for SearchCalls. The zero value means unset.
type SearchDate struct {
	s string
}

// DateOf builds a SearchDate from a time value.
func DateOf(t time.Time) SearchDate {
	return SearchDate{s: t.Format(wireDateLayout)}
}

// ParseSearchDate builds a SearchDate from a DD/MM/YYYY string.
func ParseSearchDate(s string) (SearchDate, error) {
	t, err := time.Parse(wireDateLayout, s)
	if err != nil {
		return SearchDate{}, &ValidationError{Field: "date", Message: fmt.Sprintf("%q is not in DD/MM/YYYY format", s)}
	}
	return DateOf(t), nil
}

// IsZero reports whether the filter is unset.
func (d SearchDate) IsZero() bool { return d.s == "" }

func (d SearchDate) String() string { return d.s }

// SearchParams are the optional filters for SearchCalls. The zero value
// requests the first page of an unfiltered listing.
type SearchParams struct {
	PageNumber int
	AgentID    int
	ClientID   int
	StartDate  SearchDate
	EndDate    SearchDate
}

// query encodes the set filters; unset filters are omitted from the wire.
func (p SearchParams) query() url.Values {
	q := url.Values{}
	if p.PageNumber > 0 {
		q.Set("page_number", strconv.Itoa(p.PageNumber))
	}
	if p.AgentID > 0 {
		q.Set("agent_id", strconv.Itoa(p.AgentID))
	}
	if p.ClientID > 0 {
		q.Set("client_id", strconv.Itoa(p.ClientID))
	}
	if !p.StartDate.IsZero() {
		q.Set("start_date", p.StartDate.String())
	}
	if !p.EndDate.IsZero() {
		q.Set("end_date", p.EndDate.String())
	}
	return q
}

// SearchResult is one page of call summaries. When nothing matched, NCalls
// is zero and the pagination fields are left at their zero values.
type SearchResult struct {
	CurrentPage  int
	IsLastPage   bool
	NextPage     int
	PreviousPage int
	Calls        []Call
	NCalls       int

	// Params echoes the filters that produced this page, so a caller can
	// request the next page by bumping PageNumber.
	Params SearchParams
}

func (r *SearchResult) String() string {
	return fmt.Sprintf("<amdapi.SearchResult current_page: %d is_last_page: %t n_calls: %d>",
		r.CurrentPage, r.IsLastPage, r.NCalls)
}

type searchPayload struct {
	CurrentPage  int           `json:"current_page"`
	IsLastPage   bool          `json:"is_last_page"`
	NextPage     int           `json:"next_page"`
	PreviousPage int           `json:"previous_page"`
	Calls        []callPayload `json:"calls"`
}

func (p *searchPayload) toResult(params SearchParams) *SearchResult {
	r := &SearchResult{
		CurrentPage:  p.CurrentPage,
		IsLastPage:   p.IsLastPage,
		NextPage:     p.NextPage,
		PreviousPage: p.PreviousPage,
		Params:       params,
	}
	for i := range p.Calls {
		r.Calls = append(r.Calls, *p.Calls[i].toCall())
	}
	r.NCalls = len(r.Calls)
	return r
}
