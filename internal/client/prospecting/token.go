package prospecting

import (
	"context"
	"net/http"
	"net/url"

	"github.com/GregMSThompson/insideoutbound-backend/internal/errs"
	"github.com/GregMSThompson/insideoutbound-backend/pkg/logger"
)

// IssueSessionToken asks the API for a new session token for uid. It is
// authenticated with the service key rather than a session, so it never
// recurses into a refresh.
func (c *Client) IssueSessionToken(ctx context.Context, uid string) (string, error) {
	if c.serviceKey == "" {
		return "", errs.NewAuthenticationError("session refresh is not configured")
	}
	r, err := newRequest(http.MethodGet, pathSessionToken, url.Values{"userId": {uid}}, nil)
	if err != nil {
		return "", err
	}

	status, env, err := c.send(ctx, r, map[string]string{headerServiceKey: c.serviceKey})
	if err != nil {
		logger.FromContext(ctx).Error("session token request failed", "uid", uid, "err", err)
		return "", err
	}
	if env.Type == authenticationErrorType {
		return "", errs.NewAuthenticationError("session refresh rejected")
	}

	var out struct {
		Token string `json:"token"`
	}
	if err := decode(status, env, &out); err != nil {
		return "", err
	}
	if out.Token == "" {
		return "", errs.NewAuthenticationError("session refresh returned no token")
	}
	return out.Token, nil
}
