package amdapi

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapStatus(t *testing.T) {
	cases := []struct {
		name       string
		status     int
		body       string
		searchPage bool
		want       any
	}{
		{"unauthorized", http.StatusUnauthorized, ``, false, new(*AuthError)},
		{"forbidden", http.StatusForbidden, ``, false, new(*AuthError)},
		{"not found", http.StatusNotFound, ``, false, new(*NotFoundError)},
		{"bad request", http.StatusBadRequest, `{"message":"bad origin"}`, false, new(*ValidationError)},
		{"unprocessable", http.StatusUnprocessableEntity, ``, false, new(*ValidationError)},
		{"page out of range on search", http.StatusInternalServerError, `{"success":"false"}`, true, new(*PageOutOfRangeError)},
		{"success false outside search", http.StatusInternalServerError, `{"success":"false"}`, false, new(*ServerError)},
		{"server error", http.StatusInternalServerError, `{"message":"oops"}`, false, new(*ServerError)},
		{"server error on search", http.StatusInternalServerError, `{"message":"oops"}`, true, new(*ServerError)},
		{"bad gateway", http.StatusBadGateway, ``, false, new(*ServerError)},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := mapStatus(tc.status, []byte(tc.body), tc.searchPage)
			require.Error(t, err)
			assert.True(t, errors.As(err, tc.want), "got %T", err)
		})
	}
}

func TestTransportErrorUnwraps(t *testing.T) {
	cause := errors.New("connection refused")
	err := &TransportError{Op: "GET /calls/", Err: cause}

	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "GET /calls/")
}

func TestErrorMessages(t *testing.T) {
	assert.Contains(t, (&AuthError{StatusCode: 400}).Error(), "invalid client credentials")
	assert.Contains(t, (&AuthError{StatusCode: 401}).Error(), "token rejected")
	assert.Contains(t, (&ValidationError{Field: "language", Message: "bad"}).Error(), "language")
	assert.Contains(t, (&NotFoundError{UUID: "u-1"}).Error(), "u-1")
	assert.Contains(t, (&ServerError{StatusCode: 503, Reason: "down"}).Error(), "503")
	assert.Contains(t, (&PageOutOfRangeError{PageNumber: 9}).Error(), "9")
}

func TestTitleCase(t *testing.T) {
	assert.Equal(t, "Call Deleted Successfully", titleCase("call deleted successfully"))
	assert.Equal(t, "Done", titleCase("DONE"))
	assert.Equal(t, "Éxito Total", titleCase("éxito TOTAL"))
	assert.Equal(t, "", titleCase(""))
}
