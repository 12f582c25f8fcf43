package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/GregMSThompson/insideoutbound-backend/internal/client/prospecting"
	"github.com/GregMSThompson/insideoutbound-backend/internal/dto"
	"github.com/GregMSThompson/insideoutbound-backend/internal/errs"
	"github.com/GregMSThompson/insideoutbound-backend/internal/grid"
	"github.com/GregMSThompson/insideoutbound-backend/internal/models"
	"github.com/GregMSThompson/insideoutbound-backend/internal/session"
	"github.com/GregMSThompson/insideoutbound-backend/pkg/logger"
)

type dashboardClient interface {
	FetchProspectingActivity(ctx context.Context, sess *session.Session, f prospecting.ActivityFilter) (*models.ProspectingActivity, error)
	RefreshProspectingActivity(ctx context.Context, sess *session.Session) error
	GetSalesforceUsers(ctx context.Context, sess *session.Session) ([]models.SalesforceUser, error)
}

type dashboardService struct {
	client   dashboardClient
	settings settingsStore
}

func NewDashboardService(client dashboardClient, settings settingsStore) *dashboardService {
	return &dashboardService{client: client, settings: settings}
}

var activationColumns = []grid.Column{
	{ID: "account_name", Label: "Account"},
	{ID: "status", Label: "Status"},
	{ID: "activated_date", Label: "Activated", DataType: grid.TypeDate},
	{ID: "days_activated", Label: "Days Activated", DataType: grid.TypeNumber},
	{ID: "last_prospecting_activity", Label: "Last Activity", DataType: grid.TypeDate},
	{ID: "active_contacts", Label: "Active Contacts", DataType: grid.TypeNumber},
	{ID: "tasks", Label: "Tasks", DataType: grid.TypeNumber},
	{ID: "opportunity_amount", Label: "Opportunity Amount", DataType: grid.TypeNumber},
}

var extraActivationColumns = []grid.Column{
	{ID: "activated_by", Label: "Activated By"},
	{ID: "engagement_date", Label: "Engaged", DataType: grid.TypeDate},
	{ID: "days_engaged", Label: "Days Engaged", DataType: grid.TypeNumber},
	{ID: "opportunity_created_date", Label: "Opportunity Created", DataType: grid.TypeDate},
	{ID: "last_outbound_activity_date", Label: "Last Outbound", DataType: grid.TypeDateTime},
}

// --- Public service methods ---

// Summary loads the activity summary, the team and the user's settings in
// parallel. The team is narrowed to the tracked members when settings exist.
func (s *dashboardService) Summary(ctx context.Context, sess *session.Session, uid, period string, userIDs []string) (*dto.DashboardSummary, error) {
	period, err := normalizePeriod(period)
	if err != nil {
		return nil, err
	}

	var (
		activity *models.ProspectingActivity
		users    []models.SalesforceUser
		settings *models.Settings
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		activity, err = s.client.FetchProspectingActivity(gctx, sess, prospecting.ActivityFilter{Period: period, UserIDs: userIDs})
		return err
	})
	g.Go(func() error {
		var err error
		users, err = s.client.GetSalesforceUsers(gctx, sess)
		return err
	})
	g.Go(func() error {
		var err error
		settings, err = s.settings.Get(gctx, uid)
		var nf *errs.NotFoundError
		if errors.As(err, &nf) {
			return nil
		}
		return err
	})
	if err := g.Wait(); err != nil {
		logger.FromContext(ctx).Error("failed to load dashboard summary", "error", err)
		return nil, err
	}

	team := users
	if settings != nil && len(settings.TeamMemberIDs) > 0 {
		team = filterTeam(users, settings.TeamMemberIDs)
	}

	return &dto.DashboardSummary{
		Period:       period,
		Summary:      activity.Summary,
		Cards:        metricCards(activity.Summary),
		Team:         team,
		StatusCounts: statusCounts(activity.Activations),
	}, nil
}

// Activations returns one server-side page of activation rows.
func (s *dashboardService) Activations(ctx context.Context, sess *session.Session, req dto.ActivationsRequest) (*dto.ActivationsPage, error) {
	period, err := normalizePeriod(req.Period)
	if err != nil {
		return nil, err
	}
	activity, err := s.client.FetchProspectingActivity(ctx, sess, prospecting.ActivityFilter{Period: period, UserIDs: req.UserIDs})
	if err != nil {
		return nil, err
	}

	rows := make([]grid.Row, 0, len(activity.Activations))
	for _, a := range activity.Activations {
		if req.Status != "" && string(a.Status) != req.Status {
			continue
		}
		rows = append(rows, activationRow(a))
	}

	page, err := grid.Apply(grid.TableData{
		Columns:          activationColumns,
		Data:             rows,
		SelectedIDs:      req.SelectedIDs,
		AvailableColumns: availableActivationColumns(),
	}, req.Query)
	if err != nil {
		return nil, err
	}
	return &dto.ActivationsPage{
		Columns:          page.Columns,
		AvailableColumns: availableActivationColumns(),
		Rows:             page.Rows,
		View:             page.View,
		TotalItems:       page.TotalItems,
		Page:             page.Page,
		RowsPerPage:      page.RowsPerPage,
	}, nil
}

// Refresh syncs new Salesforce activity for the session's user.
func (s *dashboardService) Refresh(ctx context.Context, sess *session.Session) error {
	start := time.Now()
	if err := s.client.RefreshProspectingActivity(ctx, sess); err != nil {
		logger.FromContext(ctx).Error("prospecting refresh failed", "error", err)
		return err
	}
	logger.FromContext(ctx).Info("prospecting activity refreshed", "duration", time.Since(start).String())
	return nil
}

// --- Helpers ---

func availableActivationColumns() []grid.Column {
	return append(append([]grid.Column(nil), activationColumns...), extraActivationColumns...)
}

func normalizePeriod(period string) (string, error) {
	if period == "" {
		return dto.PeriodAll, nil
	}
	if !dto.ValidPeriods[period] {
		return "", errs.NewFieldValidationError("period", fmt.Sprintf("invalid period: %s", period))
	}
	return period, nil
}

func filterTeam(users []models.SalesforceUser, ids []string) []models.SalesforceUser {
	keep := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		keep[id] = struct{}{}
	}
	out := make([]models.SalesforceUser, 0, len(ids))
	for _, u := range users {
		if _, ok := keep[u.ID]; ok {
			out = append(out, u)
		}
	}
	return out
}

func metricCards(s models.ActivitySummary) []dto.MetricCard {
	card := func(key, label string, v float64) dto.MetricCard {
		return dto.MetricCard{Key: key, Label: label, Value: v, Formatted: grid.FormatNumber(v)}
	}
	return []dto.MetricCard{
		card("total_activations", "Total Activations", float64(s.TotalActivations)),
		card("engaged", "Engaged", float64(s.EngagedCount)),
		card("meetings_set", "Meetings Set", float64(s.MeetingSetCount)),
		card("opportunities_created", "Opportunities Created", float64(s.OpportunityCreatedCount)),
		card("pipeline_value", "Pipeline Value", s.TotalPipelineValue),
		card("total_tasks", "Total Tasks", float64(s.TotalTasks)),
		card("avg_tasks_per_activation", "Avg Tasks per Activation", s.AvgTasksPerActivation),
	}
}

func statusCounts(activations []models.Activation) map[models.ActivationStatus]int {
	counts := map[models.ActivationStatus]int{
		models.StatusActivated:          0,
		models.StatusEngaged:            0,
		models.StatusOpportunityCreated: 0,
		models.StatusMeetingSet:         0,
		models.StatusUnresponsive:       0,
	}
	for _, a := range activations {
		counts[a.Status]++
	}
	return counts
}

func activationRow(a models.Activation) grid.Row {
	return grid.Row{
		"id":                          a.ID,
		"account_id":                  a.AccountID,
		"account_name":                a.AccountName,
		"status":                      string(a.Status),
		"activated_by":                a.ActivatedBy,
		"activated_date":              timeValue(a.ActivatedDate),
		"days_activated":              a.DaysActivated,
		"days_engaged":                a.DaysEngaged,
		"engagement_date":             timeValue(a.EngagementDate),
		"last_prospecting_activity":   timeValue(a.LastProspectingActivity),
		"last_outbound_activity_date": timeValue(a.LastOutboundActivityDate),
		"opportunity_created_date":    timeValue(a.OpportunityCreatedDate),
		"active_contacts":             len(a.ActiveContactIDs),
		"tasks":                       len(a.TaskIDs),
		"opportunity_amount":          a.OpportunityAmount,
	}
}

// timeValue keeps absent dates as untyped nil so they sort first.
func timeValue(t *time.Time) any {
	if t == nil {
		return nil
	}
	return *t
}
