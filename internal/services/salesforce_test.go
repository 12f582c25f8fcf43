package services

import (
	"context"
	"errors"
	"testing"

	"github.com/GregMSThompson/insideoutbound-backend/internal/client/prospecting"
	"github.com/GregMSThompson/insideoutbound-backend/internal/dto"
	"github.com/GregMSThompson/insideoutbound-backend/internal/errs"
	"github.com/GregMSThompson/insideoutbound-backend/internal/models"
	"github.com/GregMSThompson/insideoutbound-backend/internal/session"
	"github.com/GregMSThompson/insideoutbound-backend/pkg/helpers"
)

type stubSalesforceClient struct {
	fakeProspectingClient
	taskFields  []models.FieldMeta
	lastQuery   prospecting.CriteriaQuery
	queriedTask bool
}

func (s *stubSalesforceClient) GetTaskFields(context.Context, *session.Session) ([]models.FieldMeta, error) {
	return s.taskFields, nil
}

func (s *stubSalesforceClient) GetEventFields(context.Context, *session.Session) ([]models.FieldMeta, error) {
	return nil, nil
}

func (s *stubSalesforceClient) GetTaskQueryCount(_ context.Context, _ *session.Session, q prospecting.CriteriaQuery) (int, error) {
	s.lastQuery = q
	return 7, nil
}

func (s *stubSalesforceClient) GetTasksByCriteria(_ context.Context, _ *session.Session, q prospecting.CriteriaQuery) ([]models.Record, error) {
	s.lastQuery = q
	s.queriedTask = true
	return []models.Record{{"Id": "00T1"}}, nil
}

func (s *stubSalesforceClient) GetEventsByCriteria(_ context.Context, _ *session.Session, q prospecting.CriteriaQuery) ([]models.Record, error) {
	s.lastQuery = q
	return nil, nil
}

func TestSalesforceFieldsMapsDatatypes(t *testing.T) {
	client := &stubSalesforceClient{taskFields: []models.FieldMeta{
		{Name: "Type", Label: "Type", Type: "MultiPicklist"},
		{Name: "Amount__c", Label: "Amount", Type: "currency"},
		{Name: "Geo__c", Label: "Geo", Type: "location"},
	}}
	fields, err := NewSalesforceService(client).Fields(helpers.TestCtx(), nil, "Task")
	if err != nil {
		t.Fatalf("Fields: %v", err)
	}
	want := map[string]string{"Type": "picklist", "Amount__c": "currency", "Geo__c": "string"}
	for _, f := range fields {
		if want[f.Name] != f.Type {
			t.Errorf("%s type = %s, want %s", f.Name, f.Type, want[f.Name])
		}
	}
	if fields[0].Label != "Amount" {
		t.Fatalf("fields not sorted by label: %+v", fields)
	}
	if client.taskFields[0].Type != "MultiPicklist" {
		t.Fatal("client slice was mutated")
	}

	if _, err := NewSalesforceService(client).Fields(helpers.TestCtx(), nil, "Lead"); err == nil {
		t.Fatal("expected error for unsupported object")
	}
}

func TestSalesforceTaskCountValidatesLogic(t *testing.T) {
	client := &stubSalesforceClient{}
	svc := NewSalesforceService(client)

	req := dto.CriteriaQueryRequest{Criteria: []models.FilterContainer{{
		Name:        "Calls",
		Filters:     []models.Filter{{Field: "Type", Operator: "=", Value: "Call"}},
		FilterLogic: "1 OR 2",
	}}}
	_, err := svc.TaskCount(helpers.TestCtx(), nil, req)
	var ve *errs.ValidationError
	if !errors.As(err, &ve) || ve.Field != "filterLogic" {
		t.Fatalf("err = %v, want filterLogic ValidationError", err)
	}

	req.Criteria[0].FilterLogic = "1"
	req.TeamMemberIDs = []string{"005A"}
	n, err := svc.TaskCount(helpers.TestCtx(), nil, req)
	if err != nil || n != 7 {
		t.Fatalf("count = %d, err = %v", n, err)
	}
	if len(client.lastQuery.TeamMemberIDs) != 1 {
		t.Fatalf("query = %+v", client.lastQuery)
	}
}

func TestSalesforceQueryRoutesByObject(t *testing.T) {
	client := &stubSalesforceClient{}
	req := dto.CriteriaQueryRequest{Criteria: []models.FilterContainer{{Name: "All", FilterLogic: ""}}}

	records, err := NewSalesforceService(client).Query(helpers.TestCtx(), nil, "task", req)
	if err != nil || len(records) != 1 || !client.queriedTask {
		t.Fatalf("records = %v, err = %v", records, err)
	}
	if _, err := NewSalesforceService(client).Query(helpers.TestCtx(), nil, "task", dto.CriteriaQueryRequest{}); err == nil {
		t.Fatal("expected error for empty criteria")
	}
}
