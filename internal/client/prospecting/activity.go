package prospecting

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/GregMSThompson/insideoutbound-backend/internal/models"
	"github.com/GregMSThompson/insideoutbound-backend/internal/session"
)

// ActivityFilter narrows the prospecting activity the API aggregates.
type ActivityFilter struct {
	Period  string
	UserIDs []string
}

func (f ActivityFilter) values() url.Values {
	q := url.Values{}
	if f.Period != "" {
		q.Set("period", f.Period)
	}
	if len(f.UserIDs) > 0 {
		q.Set("filterIds", strings.Join(f.UserIDs, ","))
	}
	return q
}

func (c *Client) FetchProspectingActivity(ctx context.Context, sess *session.Session, f ActivityFilter) (*models.ProspectingActivity, error) {
	r, err := newRequest(http.MethodGet, pathProspectingActivity, f.values(), nil)
	if err != nil {
		return nil, err
	}
	var out models.ProspectingActivity
	if err := c.call(ctx, sess, r, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// RefreshProspectingActivity asks the API to sync new Salesforce activity
// for the session's user. It returns once the sync has finished.
func (c *Client) RefreshProspectingActivity(ctx context.Context, sess *session.Session) error {
	r, err := newRequest(http.MethodPost, pathRefreshActivity, nil, nil)
	if err != nil {
		return err
	}
	return c.call(ctx, sess, r, nil)
}
