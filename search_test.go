package amdapi

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDateOfFormatsWireDate(t *testing.T) {
	d := DateOf(time.Date(2023, time.February, 1, 15, 4, 5, 0, time.UTC))
	assert.Equal(t, "01/02/2023", d.String())
	assert.False(t, d.IsZero())
}

func TestParseSearchDate(t *testing.T) {
	d, err := ParseSearchDate("31/12/2024")
	require.NoError(t, err)
	assert.Equal(t, "31/12/2024", d.String())

	var verr *ValidationError
	_, err = ParseSearchDate("2024-12-31")
	require.ErrorAs(t, err, &verr)

	_, err = ParseSearchDate("32/13/2024")
	require.ErrorAs(t, err, &verr)
}

func TestSearchParamsQueryOmitsUnset(t *testing.T) {
	q := SearchParams{}.query()
	assert.Empty(t, q)

	q = SearchParams{
		PageNumber: 2,
		ClientID:   5,
		EndDate:    DateOf(time.Date(2023, time.June, 9, 0, 0, 0, 0, time.UTC)),
	}.query()

	assert.Equal(t, "2", q.Get("page_number"))
	assert.Equal(t, "5", q.Get("client_id"))
	assert.Equal(t, "09/06/2023", q.Get("end_date"))
	assert.NotContains(t, q, "agent_id")
	assert.NotContains(t, q, "start_date")
}

func TestSearchPayloadToResult(t *testing.T) {
	payload := searchPayload{
		CurrentPage: 3,
		IsLastPage:  false,
		NextPage:    4,
		Calls: []callPayload{
			{UUID: "u-1", Origin: "Inbound", Language: "en"},
			{UUID: "u-2", Origin: "Outbound", Language: "fr"},
		},
	}
	params := SearchParams{PageNumber: 3}

	result := payload.toResult(params)

	assert.Equal(t, 3, result.CurrentPage)
	assert.Equal(t, 4, result.NextPage)
	assert.Equal(t, 2, result.NCalls)
	require.Len(t, result.Calls, 2)
	assert.Equal(t, "u-1", result.Calls[0].UUID)
	assert.Equal(t, params, result.Params)
}

func TestSearchResultEmptyPage(t *testing.T) {
	result := (&searchPayload{}).toResult(SearchParams{})

	assert.Zero(t, result.CurrentPage)
	assert.Zero(t, result.NCalls)
	assert.Empty(t, result.Calls)
}

func TestSearchResultString(t *testing.T) {
	r := &SearchResult{CurrentPage: 1, IsLastPage: true, NCalls: 7}
	assert.Equal(t, "<amdapi.SearchResult current_page: 1 is_last_page: true n_calls: 7>", r.String())
}
