package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/vincebiwott/safari-park-maintenance-v/config"
)

// SupabaseClient is the shared HTTP plumbing for the hosted project's REST
// endpoints. Build one per process and hand it to the services that need it.
type SupabaseClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewSupabaseClient creates a client for the project in cfg
func NewSupabaseClient(cfg *config.Config) *SupabaseClient {
	return &SupabaseClient{
		baseURL: strings.TrimRight(cfg.SupabaseURL, "/"),
		apiKey:  cfg.SupabaseAnonKey,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// Close releases idle connections held by the client
func (c *SupabaseClient) Close() {
	c.httpClient.CloseIdleConnections()
}

// providerErrorBody covers the error shapes returned by GoTrue and PostgREST
type providerErrorBody struct {
	Code             json.RawMessage `json:"code"`
	ErrorCode        string          `json:"error_code"`
	Msg              string          `json:"msg"`
	Message          string          `json:"message"`
	Error            string          `json:"error"`
	ErrorDescription string          `json:"error_description"`
}

// do sends a request to path (relative to the project URL) and returns the
// response when the status is 2xx; otherwise the body is decoded into a
// ProviderError. A nil body sends no payload.
func (c *SupabaseClient) do(ctx context.Context, op, method, path string, body interface{}, headers map[string]string) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode %s request: %w", op, err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s request: %w", op, err)
	}

	req.Header.Set("apikey", c.apiKey)
	bearer := c.apiKey
	if token := AccessTokenFrom(ctx); token != "" {
		bearer = token
	}
	req.Header.Set("Authorization", "Bearer "+bearer)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &ProviderError{Op: op, Message: fmt.Sprintf("failed to reach backend (%s): %v", op, err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		defer resp.Body.Close()
		raw, _ := io.ReadAll(resp.Body)
		return nil, decodeProviderError(op, resp.StatusCode, raw)
	}

	return resp, nil
}

func decodeProviderError(op string, status int, raw []byte) *ProviderError {
	perr := &ProviderError{Op: op, StatusCode: status}

	var body providerErrorBody
	if err := json.Unmarshal(raw, &body); err == nil {
		perr.Code = body.ErrorCode
		if perr.Code == "" && len(body.Code) > 0 {
			// PostgREST sends a string code, GoTrue a numeric one
			var code string
			if json.Unmarshal(body.Code, &code) == nil {
				perr.Code = code
			}
		}
		for _, msg := range []string{body.Msg, body.Message, body.ErrorDescription, body.Error} {
			if msg != "" {
				perr.Message = msg
				break
			}
		}
	}

	if perr.Message == "" {
		text := strings.TrimSpace(string(raw))
		if text == "" {
			text = http.StatusText(status)
		}
		perr.Message = text
	}
	return perr
}

func decodeJSON(resp *http.Response, v interface{}) error {
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("failed to decode provider response: %w", err)
	}
	return nil
}
