package prospecting

import (
	"context"
	"net/http"

	"github.com/GregMSThompson/insideoutbound-backend/internal/models"
	"github.com/GregMSThompson/insideoutbound-backend/internal/session"
)

// CriteriaQuery selects Salesforce records matching filter containers for a
// set of owners.
type CriteriaQuery struct {
	Criteria       []models.FilterContainer `json:"criteria"`
	TeamMemberIDs  []string                 `json:"teamMemberIds,omitempty"`
	TrackingPeriod int                      `json:"trackingPeriod,omitempty"`
}

func (c *Client) GetSalesforceUsers(ctx context.Context, sess *session.Session) ([]models.SalesforceUser, error) {
	r, err := newRequest(http.MethodGet, pathSalesforceUsers, nil, nil)
	if err != nil {
		return nil, err
	}
	var out []models.SalesforceUser
	if err := c.call(ctx, sess, r, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) GetTaskFields(ctx context.Context, sess *session.Session) ([]models.FieldMeta, error) {
	return c.fields(ctx, sess, pathTaskFields)
}

func (c *Client) GetEventFields(ctx context.Context, sess *session.Session) ([]models.FieldMeta, error) {
	return c.fields(ctx, sess, pathEventFields)
}

func (c *Client) fields(ctx context.Context, sess *session.Session, path string) ([]models.FieldMeta, error) {
	r, err := newRequest(http.MethodGet, path, nil, nil)
	if err != nil {
		return nil, err
	}
	var out []models.FieldMeta
	if err := c.call(ctx, sess, r, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) GetTaskQueryCount(ctx context.Context, sess *session.Session, q CriteriaQuery) (int, error) {
	r, err := newRequest(http.MethodPost, pathTaskQueryCount, nil, q)
	if err != nil {
		return 0, err
	}
	var out struct {
		Count int `json:"count"`
	}
	if err := c.call(ctx, sess, r, &out); err != nil {
		return 0, err
	}
	return out.Count, nil
}

func (c *Client) GetTasksByCriteria(ctx context.Context, sess *session.Session, q CriteriaQuery) ([]models.Record, error) {
	return c.records(ctx, sess, pathTasksByCriteria, q)
}

func (c *Client) GetEventsByCriteria(ctx context.Context, sess *session.Session, q CriteriaQuery) ([]models.Record, error) {
	return c.records(ctx, sess, pathEventsByCriteria, q)
}

// GetTasksByUserIDs lists recent tasks owned by userIDs; the onboarding
// wizard offers them as examples.
func (c *Client) GetTasksByUserIDs(ctx context.Context, sess *session.Session, userIDs []string) ([]models.Record, error) {
	return c.records(ctx, sess, pathTasksByUserIDs, map[string][]string{"userIds": userIDs})
}

func (c *Client) records(ctx context.Context, sess *session.Session, path string, body any) ([]models.Record, error) {
	r, err := newRequest(http.MethodPost, path, nil, body)
	if err != nil {
		return nil, err
	}
	var out []models.Record
	if err := c.call(ctx, sess, r, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GenerateCriteria derives filter containers from example tasks the user picked.
func (c *Client) GenerateCriteria(ctx context.Context, sess *session.Session, tasks []models.Record) ([]models.FilterContainer, error) {
	r, err := newRequest(http.MethodPost, pathGenerateCriteria, nil, map[string]any{"tasks": tasks})
	if err != nil {
		return nil, err
	}
	var out struct {
		Filters []models.FilterContainer `json:"filters"`
	}
	if err := c.call(ctx, sess, r, &out); err != nil {
		return nil, err
	}
	return out.Filters, nil
}
