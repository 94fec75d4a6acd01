package e2e

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"
)

const reviewerActor = "e2e-reviewer"

// TestContext is the per-scenario HTTP session against a running Meridian.
type TestContext struct {
	BaseURL    string
	AdminToken string
	HTTPClient *http.Client

	LastResponse     *http.Response
	LastResponseBody []byte

	// ids maps scenario aliases such as "alice" or "fund-a" to server ids.
	ids map[string]string
}

func NewTestContext() *TestContext {
	return &TestContext{
		BaseURL:    envOr("BASE_URL", "http://localhost:8080"),
		AdminToken: envOr("ADMIN_API_TOKEN", "e2e-admin-token"),
		HTTPClient: &http.Client{Timeout: 10 * time.Second},
		ids:        map[string]string{},
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func (tc *TestContext) POST(path string, body any) error {
	return tc.send(http.MethodPost, path, body, false, nil)
}

func (tc *TestContext) GET(path string, headers map[string]string) error {
	return tc.send(http.MethodGet, path, nil, false, headers)
}

func (tc *TestContext) AdminPOST(path string, body any) error {
	return tc.send(http.MethodPost, path, body, true, nil)
}

func (tc *TestContext) AdminPUT(path string, body any) error {
	return tc.send(http.MethodPut, path, body, true, nil)
}

func (tc *TestContext) AdminGET(path string) error {
	return tc.send(http.MethodGet, path, nil, true, nil)
}

// send performs one request and records the response. Admin requests carry
// the shared token and a fixed reviewer id.
func (tc *TestContext) send(method, path string, body any, admin bool, headers map[string]string) error {
	var payload io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode %s %s: %w", method, path, err)
		}
		payload = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(context.Background(), method, tc.BaseURL+path, payload)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if admin {
		req.Header.Set("X-Admin-Token", tc.AdminToken)
		req.Header.Set("X-Admin-Actor-ID", reviewerActor)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := tc.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	tc.LastResponse = resp
	if tc.LastResponseBody, err = io.ReadAll(resp.Body); err != nil {
		return fmt.Errorf("read %s %s: %w", method, path, err)
	}
	return nil
}

func (tc *TestContext) jsonBody() (map[string]any, error) {
	var data map[string]any
	if err := json.Unmarshal(tc.LastResponseBody, &data); err != nil {
		return nil, fmt.Errorf("response is not a JSON object: %w", err)
	}
	return data, nil
}

// GetResponseField returns a top-level field of the last JSON response.
func (tc *TestContext) GetResponseField(field string) (any, error) {
	data, err := tc.jsonBody()
	if err != nil {
		return nil, err
	}
	value, ok := data[field]
	if !ok {
		return nil, fmt.Errorf("field %q missing from response", field)
	}
	return value, nil
}

// ResponseContains matches text anywhere in the raw body or as a top-level key.
func (tc *TestContext) ResponseContains(text string) bool {
	if strings.Contains(string(tc.LastResponseBody), text) {
		return true
	}
	data, err := tc.jsonBody()
	if err != nil {
		return false
	}
	_, ok := data[text]
	return ok
}

func (tc *TestContext) Remember(alias, id string) {
	tc.ids[alias] = id
}

func (tc *TestContext) ID(alias string) (string, error) {
	if id, ok := tc.ids[alias]; ok {
		return id, nil
	}
	return "", fmt.Errorf("no id remembered for %q", alias)
}

func (tc *TestContext) GetLastResponseStatus() int {
	if tc.LastResponse == nil {
		return 0
	}
	return tc.LastResponse.StatusCode
}

func (tc *TestContext) GetLastResponseBody() []byte {
	return tc.LastResponseBody
}
