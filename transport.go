package amdapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// transport issues authenticated requests against the calls API. Every
// request carries a bearer token from the token manager and a generated
// X-Request-Id; non-2xx responses are mapped to the typed error taxonomy.
type transport struct {
	httpClient *http.Client
	baseURL    string
	tokens     *tokenManager
	logger     zerolog.Logger
}

// apiError is the loose shape of an error body from the backend.
type apiError struct {
	Success string `json:"success"`
	Error   string `json:"error"`
	Message string `json:"message"`
}

func (t *transport) doJSON(ctx context.Context, method, path string, query url.Values, body, result any) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshaling request: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := t.newRequest(ctx, method, path, query, reqBody)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	return t.send(req, result, false)
}

// doSearchJSON is doJSON for the search endpoint. Only there does the
// backend signal a page past the end of the result set with a 500 and
// success:"false"; everywhere else that status stays a ServerError.
func (t *transport) doSearchJSON(ctx context.Context, path string, query url.Values, result any) error {
	req, err := t.newRequest(ctx, http.MethodGet, path, query, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	return t.send(req, result, true)
}

// doMultipart posts a recording plus its form fields. Only AnalyzeCall uses
// multipart; everything else is JSON or query parameters.
func (t *transport) doMultipart(ctx context.Context, path string, fields map[string]string, filename string, file []byte, result any) error {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return fmt.Errorf("creating form file: %w", err)
	}
	if _, err := part.Write(file); err != nil {
		return fmt.Errorf("writing form file: %w", err)
	}
	for k, v := range fields {
		if err := writer.WriteField(k, v); err != nil {
			return fmt.Errorf("writing form field %s: %w", k, err)
		}
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("closing multipart body: %w", err)
	}

	req, err := t.newRequest(ctx, http.MethodPost, path, nil, &buf)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Accept", "application/json")

	return t.send(req, result, false)
}

func (t *transport) newRequest(ctx context.Context, method, path string, query url.Values, body io.Reader) (*http.Request, error) {
	u := t.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	token, err := t.tokens.bearer(ctx)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("X-Request-Id", uuid.NewString())
	return req, nil
}

func (t *transport) send(req *http.Request, result any, searchPage bool) error {
	start := time.Now()

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return &TransportError{Op: req.Method + " " + req.URL.Path, Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return &TransportError{Op: "reading response", Err: err}
	}

	t.logger.Debug().
		Str("method", req.Method).
		Str("path", req.URL.Path).
		Str("request_id", req.Header.Get("X-Request-Id")).
		Int("status", resp.StatusCode).
		Dur("elapsed", time.Since(start)).
		Msg("api request")

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return mapStatus(resp.StatusCode, respBody, searchPage)
	}

	if result != nil {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("decoding response: %w", err)
		}
	}
	return nil
}

// mapStatus converts a non-2xx response into a typed failure. The token is
// not refreshed and the request is not replayed on 401; the caller sees the
// failure directly.
func mapStatus(status int, body []byte, searchPage bool) error {
	var ae apiError
	_ = json.Unmarshal(body, &ae)

	reason := ae.Message
	if reason == "" {
		reason = ae.Error
	}
	if reason == "" {
		reason = http.StatusText(status)
	}

	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return &AuthError{StatusCode: status, Reason: reason}
	case status == http.StatusNotFound:
		return &NotFoundError{}
	case status == http.StatusBadRequest || status == http.StatusUnprocessableEntity:
		return &ValidationError{Message: reason}
	case searchPage && status == http.StatusInternalServerError && ae.Success == "false":
		// The backend reports a page past the end of the result set this way.
		return &PageOutOfRangeError{}
	case status >= 500:
		return &ServerError{StatusCode: status, Reason: reason}
	default:
		return &ServerError{StatusCode: status, Reason: reason}
	}
}
