package services

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/GregMSThompson/insideoutbound-backend/internal/client/prospecting"
	"github.com/GregMSThompson/insideoutbound-backend/internal/criteria"
	"github.com/GregMSThompson/insideoutbound-backend/internal/dto"
	"github.com/GregMSThompson/insideoutbound-backend/internal/errs"
	"github.com/GregMSThompson/insideoutbound-backend/internal/models"
	"github.com/GregMSThompson/insideoutbound-backend/internal/session"
)

const (
	objectTask  = "task"
	objectEvent = "event"
)

type salesforceClient interface {
	GetSalesforceUsers(ctx context.Context, sess *session.Session) ([]models.SalesforceUser, error)
	GetTaskFields(ctx context.Context, sess *session.Session) ([]models.FieldMeta, error)
	GetEventFields(ctx context.Context, sess *session.Session) ([]models.FieldMeta, error)
	GetTaskQueryCount(ctx context.Context, sess *session.Session, q prospecting.CriteriaQuery) (int, error)
	GetTasksByCriteria(ctx context.Context, sess *session.Session, q prospecting.CriteriaQuery) ([]models.Record, error)
	GetEventsByCriteria(ctx context.Context, sess *session.Session, q prospecting.CriteriaQuery) ([]models.Record, error)
}

type salesforceService struct {
	client salesforceClient
}

func NewSalesforceService(client salesforceClient) *salesforceService {
	return &salesforceService{client: client}
}

func (s *salesforceService) Users(ctx context.Context, sess *session.Session) ([]models.SalesforceUser, error) {
	return s.client.GetSalesforceUsers(ctx, sess)
}

// Fields lists the filterable fields of object with datatypes mapped onto
// the criteria builder's operator catalog, sorted by label.
func (s *salesforceService) Fields(ctx context.Context, sess *session.Session, object string) ([]models.FieldMeta, error) {
	var (
		fields []models.FieldMeta
		err    error
	)
	switch strings.ToLower(object) {
	case objectTask:
		fields, err = s.client.GetTaskFields(ctx, sess)
	case objectEvent:
		fields, err = s.client.GetEventFields(ctx, sess)
	default:
		return nil, errs.NewFieldValidationError("object", fmt.Sprintf("unsupported object: %s", object))
	}
	if err != nil {
		return nil, err
	}

	out := make([]models.FieldMeta, len(fields))
	for i, f := range fields {
		f.Type = criteriaDataType(f.Type)
		out[i] = f
	}
	sort.SliceStable(out, func(i, j int) bool {
		return strings.ToLower(out[i].Label) < strings.ToLower(out[j].Label)
	})
	return out, nil
}

func (s *salesforceService) TaskCount(ctx context.Context, sess *session.Session, req dto.CriteriaQueryRequest) (int, error) {
	q, err := criteriaQuery(req)
	if err != nil {
		return 0, err
	}
	return s.client.GetTaskQueryCount(ctx, sess, q)
}

func (s *salesforceService) Query(ctx context.Context, sess *session.Session, object string, req dto.CriteriaQueryRequest) ([]models.Record, error) {
	q, err := criteriaQuery(req)
	if err != nil {
		return nil, err
	}
	switch strings.ToLower(object) {
	case objectTask:
		return s.client.GetTasksByCriteria(ctx, sess, q)
	case objectEvent:
		return s.client.GetEventsByCriteria(ctx, sess, q)
	default:
		return nil, errs.NewFieldValidationError("object", fmt.Sprintf("unsupported object: %s", object))
	}
}

// criteriaQuery rejects logic that references missing rows; the upstream
// query would fail on it anyway.
func criteriaQuery(req dto.CriteriaQueryRequest) (prospecting.CriteriaQuery, error) {
	if len(req.Criteria) == 0 {
		return prospecting.CriteriaQuery{}, errs.NewFieldValidationError("criteria", "at least one criteria container is required")
	}
	for _, c := range req.Criteria {
		if err := criteria.ValidateLogic(c.FilterLogic, len(c.Filters)); err != nil {
			return prospecting.CriteriaQuery{}, err
		}
	}
	return prospecting.CriteriaQuery{
		Criteria:       req.Criteria,
		TeamMemberIDs:  req.TeamMemberIDs,
		TrackingPeriod: req.TrackingPeriod,
	}, nil
}

var salesforceTypeAliases = map[string]string{
	"multipicklist":   criteria.DataTypePicklist,
	"combobox":        criteria.DataTypePicklist,
	"url":             criteria.DataTypeString,
	"encryptedstring": criteria.DataTypeString,
	"long":            criteria.DataTypeInt,
}

func criteriaDataType(sfType string) string {
	t := strings.ToLower(sfType)
	if alias, ok := salesforceTypeAliases[t]; ok {
		return alias
	}
	if _, ok := criteria.OperatorMap[t]; ok {
		return t
	}
	return criteria.DataTypeString
}
