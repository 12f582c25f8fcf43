package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/GregMSThompson/insideoutbound-backend/internal/criteria"
	"github.com/GregMSThompson/insideoutbound-backend/internal/dto"
	"github.com/GregMSThompson/insideoutbound-backend/internal/models"
	"github.com/GregMSThompson/insideoutbound-backend/internal/session"
)

type stubSalesforceService struct {
	users      []models.SalesforceUser
	fields     []models.FieldMeta
	count      int
	records    []models.Record
	err        error
	lastObject string
	lastReq    dto.CriteriaQueryRequest
}

func (s *stubSalesforceService) Users(_ context.Context, _ *session.Session) ([]models.SalesforceUser, error) {
	return s.users, s.err
}

func (s *stubSalesforceService) Fields(_ context.Context, _ *session.Session, object string) ([]models.FieldMeta, error) {
	s.lastObject = object
	return s.fields, s.err
}

func (s *stubSalesforceService) TaskCount(_ context.Context, _ *session.Session, req dto.CriteriaQueryRequest) (int, error) {
	s.lastReq = req
	return s.count, s.err
}

func (s *stubSalesforceService) Query(_ context.Context, _ *session.Session, object string, req dto.CriteriaQueryRequest) ([]models.Record, error) {
	s.lastObject = object
	s.lastReq = req
	return s.records, s.err
}

func TestListFields_UsesObjectParam(t *testing.T) {
	svc := &stubSalesforceService{fields: []models.FieldMeta{{Name: "Subject", Type: "string"}}}
	resp := &stubResponseHandler{}
	h := NewSalesforceHandlers(&Deps{ResponseHandler: resp, SalesforceSvc: svc})

	req := httptest.NewRequest(http.MethodGet, "/salesforce/fields/task", nil)
	req = withChiParam(req, "object", "task")
	rr := httptest.NewRecorder()
	h.ListFields(rr, req)

	if svc.lastObject != "task" || !resp.writeSuccessCalled {
		t.Fatalf("object=%q success=%v", svc.lastObject, resp.writeSuccessCalled)
	}
}

func TestCountTasks_WrapsCount(t *testing.T) {
	svc := &stubSalesforceService{count: 42}
	resp := &stubResponseHandler{}
	h := NewSalesforceHandlers(&Deps{ResponseHandler: resp, SalesforceSvc: svc})

	body := `{"criteria":[{"name":"Outbound","filters":[],"filterLogic":""}],"teamMemberIds":["005A"],"trackingPeriod":5}`
	req := httptest.NewRequest(http.MethodPost, "/salesforce/tasks/count", strings.NewReader(body))
	rr := httptest.NewRecorder()
	h.CountTasks(rr, req)

	got, ok := resp.writeSuccessData.(dto.CountResponse)
	if !ok || got.Count != 42 {
		t.Fatalf("unexpected response: %#v", resp.writeSuccessData)
	}
	if svc.lastReq.TrackingPeriod != 5 || len(svc.lastReq.TeamMemberIDs) != 1 {
		t.Errorf("unexpected request: %+v", svc.lastReq)
	}
}

func TestQuery_InvalidJSON(t *testing.T) {
	resp := &stubResponseHandler{}
	h := NewSalesforceHandlers(&Deps{ResponseHandler: resp, SalesforceSvc: &stubSalesforceService{}})

	req := httptest.NewRequest(http.MethodPost, "/salesforce/event/query", strings.NewReader("nope"))
	req = withChiParam(req, "object", "event")
	rr := httptest.NewRecorder()
	h.Query(rr, req)

	if !resp.handleErrorCalled {
		t.Fatal("expected HandleError")
	}
}

func TestListOperators_ByDataType(t *testing.T) {
	resp := &stubResponseHandler{}
	h := NewCriteriaHandlers(&Deps{ResponseHandler: resp})

	req := httptest.NewRequest(http.MethodGet, "/criteria/operators?dataType=boolean", nil)
	rr := httptest.NewRecorder()
	h.ListOperators(rr, req)

	ops, ok := resp.writeSuccessData.([]criteria.Operator)
	if !ok || len(ops) != 2 {
		t.Fatalf("unexpected operators: %#v", resp.writeSuccessData)
	}
}

func TestValidateContainer_ReportsLogicIssue(t *testing.T) {
	resp := &stubResponseHandler{}
	h := NewCriteriaHandlers(&Deps{ResponseHandler: resp})

	container := models.FilterContainer{
		Name: "Outbound",
		Filters: []models.Filter{
			{Field: "Subject", Operator: "LIKE", Value: "call", DataType: "string"},
			{Field: "Type", Operator: "=", Value: "Email", DataType: "picklist"},
		},
		FilterLogic: "1 AND 3",
	}
	body, _ := json.Marshal(dto.CriteriaValidateRequest{Container: container})
	req := httptest.NewRequest(http.MethodPost, "/criteria/validate", strings.NewReader(string(body)))
	rr := httptest.NewRecorder()
	h.ValidateContainer(rr, req)

	got, ok := resp.writeSuccessData.(dto.SettingsValidation)
	if !ok || got.Valid || len(got.Issues) != 1 || got.Issues[0].Field != "filterLogic" {
		t.Fatalf("unexpected validation: %#v", resp.writeSuccessData)
	}
}

func TestGetPublicConfig(t *testing.T) {
	resp := &stubResponseHandler{}
	h := NewConfigHandlers(&Deps{ResponseHandler: resp, PublicConfig: dto.PublicConfig{Environment: "dev"}})

	rr := httptest.NewRecorder()
	h.GetPublicConfig(rr, httptest.NewRequest(http.MethodGet, "/config/public", nil))

	got, ok := resp.writeSuccessData.(dto.PublicConfig)
	if !ok || got.Environment != "dev" {
		t.Fatalf("unexpected config: %#v", resp.writeSuccessData)
	}
}
