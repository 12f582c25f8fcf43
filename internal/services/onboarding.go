package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/GregMSThompson/insideoutbound-backend/internal/errs"
	"github.com/GregMSThompson/insideoutbound-backend/internal/grid"
	"github.com/GregMSThompson/insideoutbound-backend/internal/models"
	"github.com/GregMSThompson/insideoutbound-backend/internal/onboarding"
	"github.com/GregMSThompson/insideoutbound-backend/internal/session"
	"github.com/GregMSThompson/insideoutbound-backend/pkg/logger"
)

type onboardingStore interface {
	Get(ctx context.Context, uid string) (*models.OnboardingProgress, error)
	Save(ctx context.Context, p *models.OnboardingProgress) error
}

type onboardingClient interface {
	GetSalesforceUsers(ctx context.Context, sess *session.Session) ([]models.SalesforceUser, error)
	GetTasksByUserIDs(ctx context.Context, sess *session.Session, userIDs []string) ([]models.Record, error)
	GenerateCriteria(ctx context.Context, sess *session.Session, tasks []models.Record) ([]models.FilterContainer, error)
}

type onboardingService struct {
	store    onboardingStore
	settings settingsStore
	client   onboardingClient
}

func NewOnboardingService(store onboardingStore, settings settingsStore, client onboardingClient) *onboardingService {
	return &onboardingService{store: store, settings: settings, client: client}
}

func (s *onboardingService) Steps() []onboarding.Step {
	return onboarding.Steps()
}

// Progress returns the saved wizard state, or a fresh one at the first step.
func (s *onboardingService) Progress(ctx context.Context, uid string) (*models.OnboardingProgress, error) {
	p, err := s.store.Get(ctx, uid)
	var nf *errs.NotFoundError
	if errors.As(err, &nf) {
		return &models.OnboardingProgress{UserID: uid, Draft: onboarding.DefaultDraft(uid)}, nil
	}
	return p, err
}

// StepData returns the rows a table step picks from.
func (s *onboardingService) StepData(ctx context.Context, sess *session.Session, uid, stepID string) (*grid.TableData, error) {
	idx, ok := onboarding.Index(stepID)
	if !ok {
		return nil, errs.NewNotFoundError(fmt.Sprintf("step %s not found", stepID))
	}
	step := onboarding.Steps()[idx]
	if step.Kind != onboarding.KindTable {
		return nil, errs.NewValidationError(fmt.Sprintf("step %s has no table data", stepID))
	}
	p, err := s.Progress(ctx, uid)
	if err != nil {
		return nil, err
	}

	td := &grid.TableData{Columns: step.Columns}
	switch stepID {
	case onboarding.StepTeamMembers:
		users, err := s.client.GetSalesforceUsers(ctx, sess)
		if err != nil {
			return nil, err
		}
		td.Data = make([]grid.Row, 0, len(users))
		for _, u := range users {
			td.Data = append(td.Data, userRow(u))
		}
		td.SelectedIDs = p.Draft.TeamMemberIDs
	case onboarding.StepExampleTasks:
		if len(p.Draft.TeamMemberIDs) == 0 {
			return nil, errs.NewValidationError("select team members first")
		}
		tasks, err := s.client.GetTasksByUserIDs(ctx, sess, p.Draft.TeamMemberIDs)
		if err != nil {
			return nil, err
		}
		td.Data = make([]grid.Row, 0, len(tasks))
		for _, t := range tasks {
			row := grid.Row{}
			for k, v := range t {
				row[k] = v
			}
			row["id"] = recordID(t)
			td.Data = append(td.Data, row)
		}
		td.SelectedIDs = p.SelectedTaskIDs
	}
	if td.SelectedIDs == nil {
		td.SelectedIDs = []string{}
	}
	return td, nil
}

// SubmitStep applies answer to stepID and advances the wizard. Earlier steps
// may be resubmitted; later ones are rejected.
func (s *onboardingService) SubmitStep(ctx context.Context, sess *session.Session, uid, stepID string, answer onboarding.Answer) (*models.OnboardingProgress, error) {
	log := logger.FromContext(ctx)

	idx, ok := onboarding.Index(stepID)
	if !ok {
		return nil, errs.NewNotFoundError(fmt.Sprintf("step %s not found", stepID))
	}
	p, err := s.Progress(ctx, uid)
	if err != nil {
		return nil, err
	}
	if p.Completed {
		return nil, errs.NewValidationError("onboarding is already complete")
	}
	if idx > p.CurrentStep {
		return nil, errs.NewValidationError("complete the previous steps first")
	}
	step := onboarding.Steps()[idx]
	if !onboarding.Active(step, p.Draft) {
		return nil, errs.NewValidationError(fmt.Sprintf("step %s does not apply", stepID))
	}

	if err := onboarding.Apply(step, answer, p); err != nil {
		return nil, err
	}
	if stepID == onboarding.StepExampleTasks {
		generated, err := s.generateCriteria(ctx, sess, p)
		if err != nil {
			return nil, err
		}
		p.Draft.Criteria = generated
	}
	if next := onboarding.Next(idx, p.Draft); next > p.CurrentStep {
		p.CurrentStep = next
	}

	if err := s.store.Save(ctx, p); err != nil {
		log.Error("failed to save onboarding progress", "error", err)
		return nil, err
	}
	log.Info("onboarding step submitted", "step", stepID, "current_step", p.CurrentStep)
	return p, nil
}

func (s *onboardingService) Back(ctx context.Context, uid string) (*models.OnboardingProgress, error) {
	p, err := s.Progress(ctx, uid)
	if err != nil {
		return nil, err
	}
	if p.Completed {
		return nil, errs.NewValidationError("onboarding is already complete")
	}
	p.CurrentStep = onboarding.Prev(p.CurrentStep, p.Draft)
	if err := s.store.Save(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// Complete turns the draft into the user's Settings. Criteria are generated
// from the example tasks when the review step left none.
func (s *onboardingService) Complete(ctx context.Context, sess *session.Session, uid string) (*models.Settings, error) {
	log := logger.FromContext(ctx)

	p, err := s.Progress(ctx, uid)
	if err != nil {
		return nil, err
	}
	if p.Completed {
		return nil, errs.NewValidationError("onboarding is already complete")
	}
	if p.CurrentStep < onboarding.Count() {
		return nil, errs.NewValidationError("finish every onboarding step first")
	}

	draft := p.Draft
	draft.ID = uid
	if len(draft.Criteria) == 0 {
		generated, err := s.generateCriteria(ctx, sess, p)
		if err != nil {
			return nil, err
		}
		draft.Criteria = generated
	}
	if issues := fieldIssues(&draft); len(issues) > 0 {
		return nil, errs.NewFieldValidationError(issues[0].Field, issues[0].Message)
	}
	if draft.ActivateByMeeting && len(draft.MeetingsCriteria.Filters) == 0 {
		return nil, errs.NewFieldValidationError("meetingsCriteria", "define meeting criteria or turn off meeting activation")
	}

	if err := s.settings.Upsert(ctx, &draft); err != nil {
		log.Error("failed to create settings", "error", err)
		return nil, err
	}
	p.Draft = draft
	p.Completed = true
	if err := s.store.Save(ctx, p); err != nil {
		return nil, err
	}
	log.Info("onboarding completed", "criteria", len(draft.Criteria))
	return &draft, nil
}

func (s *onboardingService) generateCriteria(ctx context.Context, sess *session.Session, p *models.OnboardingProgress) ([]models.FilterContainer, error) {
	if len(p.SelectedTaskIDs) == 0 {
		return nil, errs.NewFieldValidationError("selectedIds", "select example tasks first")
	}
	tasks, err := s.client.GetTasksByUserIDs(ctx, sess, p.Draft.TeamMemberIDs)
	if err != nil {
		return nil, err
	}
	selected := make(map[string]struct{}, len(p.SelectedTaskIDs))
	for _, id := range p.SelectedTaskIDs {
		selected[id] = struct{}{}
	}
	examples := make([]models.Record, 0, len(p.SelectedTaskIDs))
	for _, t := range tasks {
		if _, ok := selected[recordID(t)]; ok {
			examples = append(examples, t)
		}
	}
	if len(examples) == 0 {
		return nil, errs.NewFieldValidationError("selectedIds", "selected tasks were not found")
	}
	return s.client.GenerateCriteria(ctx, sess, examples)
}

func userRow(u models.SalesforceUser) grid.Row {
	return grid.Row{
		"id":         u.ID,
		"photo_url":  u.PhotoURL,
		"first_name": u.FirstName,
		"last_name":  u.LastName,
		"email":      u.Email,
		"role":       u.Role,
	}
}

// recordID reads a Salesforce record id, which the API returns as "Id".
func recordID(r models.Record) string {
	for _, k := range []string{"Id", "id"} {
		if v, ok := r[k].(string); ok && v != "" {
			return v
		}
	}
	return ""
}
