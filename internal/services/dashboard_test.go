package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/GregMSThompson/insideoutbound-backend/internal/client/prospecting"
	"github.com/GregMSThompson/insideoutbound-backend/internal/dto"
	"github.com/GregMSThompson/insideoutbound-backend/internal/errs"
	"github.com/GregMSThompson/insideoutbound-backend/internal/grid"
	"github.com/GregMSThompson/insideoutbound-backend/internal/models"
	"github.com/GregMSThompson/insideoutbound-backend/internal/session"
	"github.com/GregMSThompson/insideoutbound-backend/pkg/helpers"
)

func (f *fakeProspectingClient) FetchProspectingActivity(_ context.Context, _ *session.Session, _ prospecting.ActivityFilter) (*models.ProspectingActivity, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.activity, nil
}

func (f *fakeProspectingClient) RefreshProspectingActivity(context.Context, *session.Session) error {
	f.refreshes++
	return f.err
}

func sampleActivity() *models.ProspectingActivity {
	day := func(d int) *time.Time {
		t := time.Date(2025, time.April, d, 0, 0, 0, 0, time.UTC)
		return &t
	}
	return &models.ProspectingActivity{
		Summary: models.ActivitySummary{TotalActivations: 3, EngagedCount: 1, TotalPipelineValue: 1234567},
		Activations: []models.Activation{
			{ID: "a1", AccountName: "Acme", Status: models.StatusEngaged, ActivatedDate: day(3), TaskIDs: []string{"t1", "t2"}},
			{ID: "a2", AccountName: "Globex", Status: models.StatusActivated, ActivatedDate: day(1)},
			{ID: "a3", AccountName: "Initech", Status: models.StatusActivated},
		},
	}
}

func TestDashboardSummary(t *testing.T) {
	client := &fakeProspectingClient{
		activity: sampleActivity(),
		users:    []models.SalesforceUser{{ID: "005A"}, {ID: "005B"}, {ID: "005C"}},
	}
	settings := validSettings("u1")
	settings.TeamMemberIDs = []string{"005B"}
	svc := NewDashboardService(client, newFakeSettingsStore(settings))

	out, err := svc.Summary(helpers.TestCtx(), session.New("u1", "t", nil), "u1", "", nil)
	if err != nil {
		t.Fatalf("Summary: %v", err)
	}
	if out.Period != dto.PeriodAll {
		t.Fatalf("period = %q, want All", out.Period)
	}
	if len(out.Team) != 1 || out.Team[0].ID != "005B" {
		t.Fatalf("team = %+v", out.Team)
	}
	if out.StatusCounts[models.StatusActivated] != 2 || out.StatusCounts[models.StatusMeetingSet] != 0 {
		t.Fatalf("status counts = %+v", out.StatusCounts)
	}
	var pipeline string
	for _, c := range out.Cards {
		if c.Key == "pipeline_value" {
			pipeline = c.Formatted
		}
	}
	if pipeline != "1,234,567" {
		t.Fatalf("pipeline card = %q", pipeline)
	}
}

func TestDashboardSummaryWithoutSettingsShowsAllUsers(t *testing.T) {
	client := &fakeProspectingClient{activity: sampleActivity(), users: []models.SalesforceUser{{ID: "005A"}, {ID: "005B"}}}
	svc := NewDashboardService(client, newFakeSettingsStore())

	out, err := svc.Summary(helpers.TestCtx(), session.New("u1", "t", nil), "u1", dto.PeriodThisMonth, nil)
	if err != nil {
		t.Fatalf("Summary: %v", err)
	}
	if len(out.Team) != 2 {
		t.Fatalf("team = %+v", out.Team)
	}
}

func TestDashboardSummaryInvalidPeriod(t *testing.T) {
	svc := NewDashboardService(&fakeProspectingClient{}, newFakeSettingsStore())
	_, err := svc.Summary(helpers.TestCtx(), nil, "u1", "Next Decade", nil)
	var ve *errs.ValidationError
	if !errors.As(err, &ve) || ve.Field != "period" {
		t.Fatalf("err = %v, want period ValidationError", err)
	}
}

func TestDashboardSummaryUpstreamError(t *testing.T) {
	client := &fakeProspectingClient{err: errs.NewAuthenticationError("session is no longer valid")}
	svc := NewDashboardService(client, newFakeSettingsStore())
	_, err := svc.Summary(helpers.TestCtx(), nil, "u1", "", nil)
	var authErr *errs.AuthenticationError
	if !errors.As(err, &authErr) {
		t.Fatalf("err = %v, want AuthenticationError", err)
	}
}

func TestDashboardActivationsPage(t *testing.T) {
	svc := NewDashboardService(&fakeProspectingClient{activity: sampleActivity()}, newFakeSettingsStore())

	page, err := svc.Activations(helpers.TestCtx(), nil, dto.ActivationsRequest{
		Status: string(models.StatusActivated),
		Query:  grid.Query{SortColumn: "activated_date", SortDir: grid.Asc, RowsPerPage: 10},
	})
	if err != nil {
		t.Fatalf("Activations: %v", err)
	}
	if page.TotalItems != 2 || len(page.Rows) != 2 {
		t.Fatalf("page = %+v", page)
	}
	// missing dates sort first
	if page.Rows[0].ID() != "a3" || page.Rows[1].ID() != "a2" {
		t.Fatalf("order = %s, %s", page.Rows[0].ID(), page.Rows[1].ID())
	}
	if len(page.AvailableColumns) <= len(page.Columns) {
		t.Fatal("available columns must extend visible columns")
	}

	page, err = svc.Activations(helpers.TestCtx(), nil, dto.ActivationsRequest{Query: grid.Query{Search: "acme"}})
	if err != nil || page.TotalItems != 1 || page.Rows[0]["tasks"] != 2 {
		t.Fatalf("search page = %+v, err = %v", page, err)
	}

	page, err = svc.Activations(helpers.TestCtx(), nil, dto.ActivationsRequest{
		SelectedIDs: []string{"a2"},
		Query:       grid.Query{SortColumn: "account_name", Columns: []string{"account_name", "activated_by"}},
	})
	if err != nil {
		t.Fatalf("Activations: %v", err)
	}
	if len(page.Columns) != 2 || page.Columns[1].ID != "activated_by" {
		t.Fatalf("columns = %+v", page.Columns)
	}
	if len(page.View.Rows) != 3 || page.View.Rows[1].ID != "a2" || !page.View.Rows[1].Selected {
		t.Fatalf("view rows = %+v", page.View.Rows)
	}
	if got := page.View.Rows[0].Cells[0].Raw; got != "Acme" {
		t.Fatalf("first cell = %v, want Acme", got)
	}

	_, err = svc.Activations(helpers.TestCtx(), nil, dto.ActivationsRequest{Query: grid.Query{Columns: []string{"nope"}}})
	var ve *errs.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("err = %v, want ValidationError for unknown column", err)
	}
}

func TestDashboardRefresh(t *testing.T) {
	client := &fakeProspectingClient{}
	svc := NewDashboardService(client, newFakeSettingsStore())
	if err := svc.Refresh(helpers.TestCtx(), nil); err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if client.refreshes != 1 {
		t.Fatalf("refreshes = %d, want 1", client.refreshes)
	}
}
