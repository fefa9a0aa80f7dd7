package amdapi

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/rs/zerolog"
)

// Default endpoints of the hosted service. Override via Config for testing
// or self-hosted deployments.
const (
	DefaultBaseURL = "https://api-amdapi.com/v1"
	DefaultAuthURL = "https://auth.api-amdapi.com/oauth2/token"
)

// Environment variables CredentialsFromEnv reads.
const (
	EnvClientID     = "AMDAPI-CLIENT-ID"
	EnvClientSecret = "AMDAPI-CLIENT-SECRET"
)

// Credentials identify an API account.
type Credentials struct {
	ClientID     string
	ClientSecret string
}

// CredentialsFromEnv reads credentials from the published environment
// variables. Call it once where the Config is assembled; the Client itself
// never touches the environment.
func CredentialsFromEnv() (Credentials, error) {
	id, okID := os.LookupEnv(EnvClientID)
	secret, okSecret := os.LookupEnv(EnvClientSecret)
	if !okID || !okSecret {
		return Credentials{}, &ValidationError{
			Field:   "credentials",
			Message: fmt.Sprintf("set %s and %s, or pass credentials in Config", EnvClientID, EnvClientSecret),
		}
	}
	return Credentials{ClientID: id, ClientSecret: secret}, nil
}

// Config configures a Client. ClientID and ClientSecret are required;
// everything else has a working default.
type Config struct {
	ClientID     string
	ClientSecret string

	// BaseURL and AuthURL default to the hosted service endpoints.
	BaseURL string
	AuthURL string

	// HTTPClient defaults to a client with a 30 second timeout. It is used
	// for both API calls and token exchanges.
	HTTPClient *http.Client

	// Logger receives debug-level request and token-refresh events.
	// Nil disables logging.
	Logger *zerolog.Logger
}

// Client is the entry point to the call-analysis API. It owns a cached
// bearer token and is safe for concurrent use; all other state lives on the
// server.
type Client struct {
	transport *transport
	logger    zerolog.Logger
}

// NewClient builds a Client from cfg. It performs no I/O; the first token
// exchange happens lazily on the first API call.
func NewClient(cfg Config) (*Client, error) {
	if cfg.ClientID == "" || cfg.ClientSecret == "" {
		return nil, &ValidationError{Field: "credentials", Message: "client id and client secret are required"}
	}

	baseURL := strings.TrimSuffix(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	authURL := cfg.AuthURL
	if authURL == "" {
		authURL = DefaultAuthURL
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	logger := zerolog.Nop()
	if cfg.Logger != nil {
		logger = *cfg.Logger
	}

	tokens := newTokenManager(httpClient, authURL, cfg.ClientID, cfg.ClientSecret, logger)
	return &Client{
		transport: &transport{
			httpClient: httpClient,
			baseURL:    baseURL,
			tokens:     tokens,
			logger:     logger,
		},
		logger: logger,
	}, nil
}

// AnalyzeParams describe a recording submitted for analysis. The ids are the
// caller's own identifiers and are round-tripped by the backend untouched.
type AnalyzeParams struct {
	Filename   string
	CallID     string
	ClientID   int
	AgentID    int
	CustomerID int
	Origin     Origin
	Language   Language

	// Summary requests a text summary as part of the analysis.
	Summary bool

	// AgentChannel is the channel index (0 or 1) carrying the agent's voice.
	// Stereo recordings only; ignored for mono.
	AgentChannel *int
}

// AnalyzeCall uploads a .wav recording for analysis. Origin and Language are
// validated locally before any network call. The returned Call carries the
// server-assigned UUID with Analyzed false; poll GetCall for completion.
func (c *Client) AnalyzeCall(ctx context.Context, audio io.Reader, p AnalyzeParams) (*Call, error) {
	if !p.Origin.Valid() {
		return nil, &ValidationError{Field: "origin", Message: fmt.Sprintf("%q is not one of %v", string(p.Origin), Origins())}
	}
	if !p.Language.Valid() {
		return nil, &ValidationError{Field: "language", Message: fmt.Sprintf("%q is not one of %v", string(p.Language), Languages())}
	}
	if p.AgentChannel != nil && *p.AgentChannel != 0 && *p.AgentChannel != 1 {
		return nil, &ValidationError{Field: "agent_channel", Message: "allowed values are 0 and 1"}
	}

	data, err := io.ReadAll(audio)
	if err != nil {
		return nil, fmt.Errorf("reading audio: %w", err)
	}
	info, err := probeWAV(data)
	if err != nil {
		return nil, err
	}

	filename := p.Filename
	if filename == "" {
		filename = "recording.wav"
	}

	fields := map[string]string{
		"filename":    filename,
		"call_id":     p.CallID,
		"client_id":   strconv.Itoa(p.ClientID),
		"agent_id":    strconv.Itoa(p.AgentID),
		"customer_id": strconv.Itoa(p.CustomerID),
		"origin":      string(p.Origin),
		"language":    string(p.Language),
		"summary":     strconv.FormatBool(p.Summary),
	}
	if p.AgentChannel != nil {
		if info.stereo() {
			fields["agent_channel"] = strconv.Itoa(*p.AgentChannel)
		} else {
			c.logger.Debug().Str("filename", filename).Msg("mono recording, agent channel ignored")
		}
	}

	var resp struct {
		Data callPayload `json:"data"`
	}
	if err := c.transport.doMultipart(ctx, "/calls/", fields, filename, data, &resp); err != nil {
		return nil, err
	}

	return &Call{
		UUID:       resp.Data.UUID,
		CallID:     p.CallID,
		ClientID:   p.ClientID,
		AgentID:    p.AgentID,
		CustomerID: strconv.Itoa(p.CustomerID),
		Origin:     p.Origin,
		Language:   p.Language,
		InitTime:   time.Now(),
	}, nil
}

// GetCall fetches the current state of a call by UUID. Repeated calls always
// hit the network; nothing is cached client-side.
func (c *Client) GetCall(ctx context.Context, uuid string) (*Call, error) {
	if uuid == "" {
		return nil, &ValidationError{Field: "uuid", Message: "must not be empty"}
	}

	var resp struct {
		Data callPayload `json:"data"`
	}
	if err := c.transport.doJSON(ctx, http.MethodGet, "/calls/"+uuid, nil, nil, &resp); err != nil {
		var nf *NotFoundError
		if errors.As(err, &nf) {
			nf.UUID = uuid
		}
		return nil, err
	}
	return resp.Data.toCall(), nil
}

// SearchCalls returns one page of calls matching params. Zero params request
// the first page of an unfiltered listing. The caller drives pagination by
// incrementing Params.PageNumber; no page ever holds more than MaxPageSize
// calls.
func (c *Client) SearchCalls(ctx context.Context, params SearchParams) (*SearchResult, error) {
	var resp struct {
		Data searchPayload `json:"data"`
	}
	if err := c.transport.doSearchJSON(ctx, "/calls/", params.query(), &resp); err != nil {
		var page *PageOutOfRangeError
		if errors.As(err, &page) {
			page.PageNumber = params.PageNumber
		}
		return nil, err
	}
	return resp.Data.toResult(params), nil
}

// DeleteCall removes a call from the backend. This is irreversible; a later
// GetCall with the same UUID fails with NotFoundError. Returns the backend's
// confirmation message.
func (c *Client) DeleteCall(ctx context.Context, uuid string) (string, error) {
	if uuid == "" {
		return "", &ValidationError{Field: "uuid", Message: "must not be empty"}
	}

	var resp struct {
		Data string `json:"data"`
	}
	if err := c.transport.doJSON(ctx, http.MethodDelete, "/calls/"+uuid, nil, nil, &resp); err != nil {
		var nf *NotFoundError
		if errors.As(err, &nf) {
			nf.UUID = uuid
		}
		return "", err
	}
	return titleCase(resp.Data), nil
}

// titleCase capitalizes the first letter of each word in the confirmation
// message.
func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		r, size := utf8.DecodeRuneInString(w)
		words[i] = string(unicode.ToUpper(r)) + strings.ToLower(w[size:])
	}
	return strings.Join(words, " ")
}
