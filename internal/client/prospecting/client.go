// Package prospecting is the HTTP client for the upstream prospecting API.
package prospecting

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/GregMSThompson/insideoutbound-backend/internal/errs"
	"github.com/GregMSThompson/insideoutbound-backend/internal/session"
	"github.com/GregMSThompson/insideoutbound-backend/pkg/logger"
)

const defaultTimeout = 60 * time.Second

// envelope is the response shape shared by every upstream endpoint.
type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Type    string          `json:"type"`
	Data    json.RawMessage `json:"data"`
}

type request struct {
	method  string
	path    string
	query   url.Values
	body    []byte
	retried bool
}

type Client struct {
	baseURL    string
	http       *http.Client
	serviceKey string
}

// New returns a client for baseURL. A nil httpClient uses a client with a
// 60 second timeout. serviceKey authenticates token issuance only.
func New(baseURL string, httpClient *http.Client, serviceKey string) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultTimeout}
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		http:       httpClient,
		serviceKey: serviceKey,
	}
}

func newRequest(method, path string, query url.Values, body any) (*request, error) {
	r := &request{method: method, path: path, query: query}
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, errs.NewValidationError(fmt.Sprintf("failed to encode request: %v", err))
		}
		r.body = b
	}
	return r, nil
}

// call sends r with the session token and decodes the data field into out.
// An AuthenticationError payload triggers one refresh and retry; a second
// one on the retried request ends with an AuthenticationError.
func (c *Client) call(ctx context.Context, sess *session.Session, r *request, out any) error {
	log := logger.FromContext(ctx)
	if sess == nil {
		return errs.NewAuthenticationError("missing session")
	}

	for {
		status, env, err := c.send(ctx, r, map[string]string{headerSessionToken: sess.Token()})
		if err != nil {
			log.Error("prospecting request failed", "path", r.path, "err", err)
			return err
		}

		if env.Type == authenticationErrorType {
			if r.retried {
				log.Warn("session rejected after refresh", "path", r.path, "uid", sess.UserID)
				return errs.NewAuthenticationError("session is no longer valid")
			}
			r.retried = true
			if _, err := sess.Refresh(ctx); err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				log.Warn("session refresh failed", "path", r.path, "uid", sess.UserID, "err", err)
				return errs.NewAuthenticationError("session is no longer valid")
			}
			continue
		}

		return decode(status, env, out)
	}
}

func decode(status int, env *envelope, out any) error {
	if strings.Contains(strings.ToLower(env.Message), sessionExpiredMarker) {
		return errs.NewSessionExpiredError(env.Message)
	}
	if status >= http.StatusBadRequest || !env.Success {
		msg := env.Message
		if msg == "" {
			msg = http.StatusText(status)
		}
		return errs.NewExternalServiceError(serviceName, msg, status >= http.StatusInternalServerError, nil)
	}
	if out == nil || len(env.Data) == 0 || string(env.Data) == "null" {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return errs.NewExternalServiceError(serviceName, "failed to decode response", false, err)
	}
	return nil
}

func (c *Client) send(ctx context.Context, r *request, headers map[string]string) (int, *envelope, error) {
	u := c.baseURL + r.path
	if len(r.query) > 0 {
		u += "?" + r.query.Encode()
	}

	var body io.Reader
	if r.body != nil {
		body = bytes.NewReader(r.body)
	}
	req, err := http.NewRequestWithContext(ctx, r.method, u, body)
	if err != nil {
		return 0, nil, errs.NewExternalServiceError(serviceName, "failed to create request", false, err)
	}
	req.Header.Set("Accept", "application/json")
	if r.body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, nil, errs.NewExternalServiceError(serviceName, "request failed", true, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, errs.NewExternalServiceError(serviceName, "failed to read response", true, err)
	}

	var env envelope
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &env); err != nil {
			return resp.StatusCode, nil, errs.NewExternalServiceError(serviceName,
				fmt.Sprintf("unexpected response (status %d)", resp.StatusCode), resp.StatusCode >= 500, err)
		}
	}
	return resp.StatusCode, &env, nil
}
