package amdapi

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// authStub serves the token endpoint and counts exchanges.
type authStub struct {
	exchanges atomic.Int64
	expiresIn int
	status    int
}

func (s *authStub) handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.exchanges.Add(1)
		if s.status != 0 && s.status != http.StatusOK {
			w.WriteHeader(s.status)
			return
		}
		expiresIn := s.expiresIn
		if expiresIn == 0 {
			expiresIn = 3600
		}
		fmt.Fprintf(w, `{"access_token":"tok-%d","token_type":"Bearer","expires_in":%d}`,
			s.exchanges.Load(), expiresIn)
	}
}

func TestTokenExchangeSendsClientCredentials(t *testing.T) {
	var gotAuth, gotGrant, gotContentType string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotContentType = r.Header.Get("Content-Type")
		require.NoError(t, r.ParseForm())
		gotGrant = r.PostFormValue("grant_type")
		fmt.Fprint(w, `{"access_token":"tok","token_type":"Bearer","expires_in":3600}`)
	}))
	defer srv.Close()

	tm := newTokenManager(srv.Client(), srv.URL, "my-id", "my-secret", nopLogger())
	token, err := tm.bearer(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "tok", token)
	wantKey := base64.StdEncoding.EncodeToString([]byte("my-id:my-secret"))
	assert.Equal(t, "Basic "+wantKey, gotAuth)
	assert.Equal(t, "client_credentials", gotGrant)
	assert.Equal(t, "application/x-www-form-urlencoded", gotContentType)
}

func TestTokenCachedUntilExpiry(t *testing.T) {
	stub := &authStub{}
	srv := httptest.NewServer(stub.handler())
	defer srv.Close()

	tm := newTokenManager(srv.Client(), srv.URL, "id", "secret", nopLogger())

	for i := 0; i < 5; i++ {
		_, err := tm.bearer(context.Background())
		require.NoError(t, err)
	}
	assert.Equal(t, int64(1), stub.exchanges.Load())
}

func TestTokenRefreshedWithinSafetyMargin(t *testing.T) {
	// expires_in below ReauthSafety means every bearer call sees a token
	// already inside the refresh margin.
	stub := &authStub{expiresIn: 60}
	srv := httptest.NewServer(stub.handler())
	defer srv.Close()

	tm := newTokenManager(srv.Client(), srv.URL, "id", "secret", nopLogger())

	_, err := tm.bearer(context.Background())
	require.NoError(t, err)
	tok, err := tm.bearer(context.Background())
	require.NoError(t, err)

	assert.Equal(t, int64(2), stub.exchanges.Load())
	assert.Equal(t, "tok-2", tok)
}

func TestTokenConcurrentCallersSingleExchange(t *testing.T) {
	stub := &authStub{}
	srv := httptest.NewServer(stub.handler())
	defer srv.Close()

	tm := newTokenManager(srv.Client(), srv.URL, "id", "secret", nopLogger())

	const callers = 20
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := tm.bearer(context.Background())
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(1), stub.exchanges.Load())
}

func TestTokenRejectedCredentials(t *testing.T) {
	stub := &authStub{status: http.StatusBadRequest}
	srv := httptest.NewServer(stub.handler())
	defer srv.Close()

	tm := newTokenManager(srv.Client(), srv.URL, "id", "bad-secret", nopLogger())

	var aerr *AuthError
	_, err := tm.bearer(context.Background())
	require.ErrorAs(t, err, &aerr)
	assert.Equal(t, http.StatusBadRequest, aerr.StatusCode)
}

func TestTokenEndpointUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close() // connection refused

	tm := newTokenManager(http.DefaultClient, srv.URL, "id", "secret", nopLogger())

	var terr *TransportError
	_, err := tm.bearer(context.Background())
	require.ErrorAs(t, err, &terr)
}
