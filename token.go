package amdapi

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// ReauthSafety is the margin before token expiry at which a refresh is
// forced, so a token never expires mid-request.
const ReauthSafety = 120 * time.Second

// tokenResponse is returned by the auth endpoint on a successful exchange.
type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
}

// tokenManager exchanges client credentials for a bearer token and caches it
// until it is within ReauthSafety of expiry. The mutex ensures at most one
// exchange is in flight when called from concurrent contexts.
type tokenManager struct {
	httpClient *http.Client
	authURL    string
	basicKey   string
	logger     zerolog.Logger

	mu          sync.Mutex
	token       string
	lastRefresh time.Time
	expiry      time.Time
}

func newTokenManager(httpClient *http.Client, authURL, clientID, clientSecret string, logger zerolog.Logger) *tokenManager {
	return &tokenManager{
		httpClient: httpClient,
		authURL:    authURL,
		basicKey:   base64.StdEncoding.EncodeToString([]byte(clientID + ":" + clientSecret)),
		logger:     logger,
	}
}

// bearer returns a valid bearer token value, refreshing it first if absent
// or within ReauthSafety of expiry.
func (tm *tokenManager) bearer(ctx context.Context) (string, error) {
	tm.mu.Lock()
	defer tm.mu.Unlock()

	if tm.token != "" && time.Now().Before(tm.expiry.Add(-ReauthSafety)) {
		return tm.token, nil
	}
	if err := tm.refresh(ctx); err != nil {
		return "", err
	}
	return tm.token, nil
}

// refresh performs the client-credentials exchange. Callers must hold mu.
func (tm *tokenManager) refresh(ctx context.Context) error {
	form := url.Values{"grant_type": {"client_credentials"}}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, tm.authURL, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("building token request: %w", err)
	}
	req.Header.Set("Authorization", "Basic "+tm.basicKey)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := tm.httpClient.Do(req)
	if err != nil {
		return &TransportError{Op: "token exchange", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return &AuthError{StatusCode: resp.StatusCode, Reason: resp.Status}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return &TransportError{Op: "reading token response", Err: err}
	}

	var tr tokenResponse
	if err := json.Unmarshal(body, &tr); err != nil {
		return &AuthError{StatusCode: resp.StatusCode, Reason: "malformed token response"}
	}
	if tr.AccessToken == "" {
		return &AuthError{StatusCode: resp.StatusCode, Reason: "empty access token"}
	}

	tm.token = tr.AccessToken
	tm.lastRefresh = time.Now()
	tm.expiry = tm.lastRefresh.Add(time.Duration(tr.ExpiresIn) * time.Second)

	tm.logger.Debug().
		Time("expiry", tm.expiry).
		Msg("bearer token refreshed")
	return nil
}
