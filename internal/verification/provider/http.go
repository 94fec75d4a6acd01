package provider

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	opFindApplicant = "find_applicant"
	opGetStatus     = "get_status"

	// maxResponseBytes caps provider response bodies.
	maxResponseBytes = 1 << 20
)

// HTTPDoer is the minimal interface needed from an HTTP client.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// HTTPClient calls the provider's REST API with signed requests.
type HTTPClient struct {
	baseURL   string
	appToken  string
	secretKey string
	client    HTTPDoer
	now       func() time.Time
}

var _ Client = (*HTTPClient)(nil)

type HTTPClientOption func(*HTTPClient)

// WithHTTPDoer sets a custom HTTP client (for testing).
func WithHTTPDoer(doer HTTPDoer) HTTPClientOption {
	return func(c *HTTPClient) {
		if doer != nil {
			c.client = doer
		}
	}
}

// WithClock overrides the signing timestamp source.
func WithClock(now func() time.Time) HTTPClientOption {
	return func(c *HTTPClient) {
		if now != nil {
			c.now = now
		}
	}
}

// NewHTTPClient creates a provider client. The timeout bounds a single HTTP
// exchange; callers apply their own deadline on top.
func NewHTTPClient(baseURL, appToken, secretKey string, timeout time.Duration, opts ...HTTPClientOption) *HTTPClient {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	c := &HTTPClient{
		baseURL:   strings.TrimRight(baseURL, "/"),
		appToken:  appToken,
		secretKey: secretKey,
		client:    &http.Client{Timeout: timeout},
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// FindApplicantByExternalID looks up the applicant created for one of our
// investor ids. A 404 means no verification session exists yet.
func (c *HTTPClient) FindApplicantByExternalID(ctx context.Context, externalID string) (*Applicant, error) {
	path := "/resources/applicants/-;externalUserId=" + url.PathEscape(externalID) + "/one"
	body, status, err := c.get(ctx, opFindApplicant, path)
	if err != nil {
		return nil, err
	}
	if status == http.StatusNotFound {
		return nil, nil
	}
	if err := checkStatus(opFindApplicant, status); err != nil {
		return nil, err
	}

	var applicant Applicant
	if err := json.Unmarshal(body, &applicant); err != nil {
		return nil, NewError(ErrorContractMismatch, opFindApplicant, "failed to parse response", err)
	}
	if applicant.ID == "" {
		return nil, NewError(ErrorContractMismatch, opFindApplicant, "applicant id missing from response", nil)
	}
	return &applicant, nil
}

// GetApplicantStatus returns the raw review state of an applicant.
func (c *HTTPClient) GetApplicantStatus(ctx context.Context, applicantID string) (*ApplicantStatus, error) {
	path := "/resources/applicants/" + url.PathEscape(applicantID) + "/status"
	body, status, err := c.get(ctx, opGetStatus, path)
	if err != nil {
		return nil, err
	}
	if err := checkStatus(opGetStatus, status); err != nil {
		return nil, err
	}

	var st ApplicantStatus
	if err := json.Unmarshal(body, &st); err != nil {
		return nil, NewError(ErrorContractMismatch, opGetStatus, "failed to parse response", err)
	}
	return &st, nil
}

func (c *HTTPClient) get(ctx context.Context, op, path string) ([]byte, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, 0, NewError(ErrorInternal, op, "failed to create request", err)
	}
	ts := c.now()
	req.Header.Set("Accept", "application/json")
	req.Header.Set(HeaderAppToken, c.appToken)
	req.Header.Set(HeaderAccessTs, fmt.Sprintf("%d", ts.Unix()))
	req.Header.Set(HeaderAccessSig, Sign(c.secretKey, ts, http.MethodGet, req.URL.RequestURI(), nil))

	resp, err := c.client.Do(req)
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, 0, NewError(ErrorTimeout, op, "request timeout", err)
		}
		return nil, 0, NewError(ErrorProviderOutage, op, "failed to execute request", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, 0, NewError(ErrorBadData, op, "failed to read response body", err)
	}
	return body, resp.StatusCode, nil
}

func checkStatus(op string, status int) error {
	switch {
	case status == http.StatusOK:
		return nil
	case status == http.StatusUnauthorized, status == http.StatusForbidden:
		return NewError(ErrorAuthentication, op, fmt.Sprintf("authentication failed: %d", status), nil)
	case status == http.StatusNotFound:
		return NewError(ErrorNotFound, op, "applicant not found", nil)
	case status == http.StatusTooManyRequests:
		return NewError(ErrorRateLimited, op, "rate limited", nil)
	case status >= http.StatusInternalServerError:
		return NewError(ErrorProviderOutage, op, fmt.Sprintf("provider unavailable: %d", status), nil)
	default:
		return NewError(ErrorBadData, op, fmt.Sprintf("unexpected status code: %d", status), nil)
	}
}
