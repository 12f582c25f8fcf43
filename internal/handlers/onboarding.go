package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/GregMSThompson/insideoutbound-backend/internal/grid"
	"github.com/GregMSThompson/insideoutbound-backend/internal/middleware"
	"github.com/GregMSThompson/insideoutbound-backend/internal/models"
	"github.com/GregMSThompson/insideoutbound-backend/internal/onboarding"
	"github.com/GregMSThompson/insideoutbound-backend/internal/response"
	"github.com/GregMSThompson/insideoutbound-backend/internal/session"
)

type OnboardingService interface {
	Steps() []onboarding.Step
	Progress(ctx context.Context, uid string) (*models.OnboardingProgress, error)
	StepData(ctx context.Context, sess *session.Session, uid, stepID string) (*grid.TableData, error)
	SubmitStep(ctx context.Context, sess *session.Session, uid, stepID string, answer onboarding.Answer) (*models.OnboardingProgress, error)
	Back(ctx context.Context, uid string) (*models.OnboardingProgress, error)
	Complete(ctx context.Context, sess *session.Session, uid string) (*models.Settings, error)
}

type onboardingHandlers struct {
	ResponseHandler response.ResponseHandler
	OnboardingSvc   OnboardingService
}

func NewOnboardingHandlers(deps *Deps) *onboardingHandlers {
	return &onboardingHandlers{
		ResponseHandler: deps.ResponseHandler,
		OnboardingSvc:   deps.OnboardingSvc,
	}
}

func (h *onboardingHandlers) OnboardingRoutes() chi.Router {
	r := chi.NewRouter()
	r.Get("/steps", h.ListSteps)
	r.Get("/steps/{stepId}/data", h.StepData)
	r.Post("/steps/{stepId}", h.SubmitStep)
	r.Get("/progress", h.GetProgress)
	r.Post("/back", h.Back)
	r.Post("/complete", h.Complete)
	return r
}

func (h *onboardingHandlers) ListSteps(w http.ResponseWriter, r *http.Request) {
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, h.OnboardingSvc.Steps())
}

func (h *onboardingHandlers) GetProgress(w http.ResponseWriter, r *http.Request) {
	uid := middleware.UID(r.Context())
	progress, err := h.OnboardingSvc.Progress(r.Context(), uid)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, progress)
}

// StepData serves the table rows a table step selects from.
func (h *onboardingHandlers) StepData(w http.ResponseWriter, r *http.Request) {
	uid := middleware.UID(r.Context())
	stepID := chi.URLParam(r, "stepId")
	data, err := h.OnboardingSvc.StepData(r.Context(), sessionFrom(r), uid, stepID)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, data)
}

func (h *onboardingHandlers) SubmitStep(w http.ResponseWriter, r *http.Request) {
	var answer onboarding.Answer
	if err := json.NewDecoder(r.Body).Decode(&answer); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	uid := middleware.UID(r.Context())
	stepID := chi.URLParam(r, "stepId")
	progress, err := h.OnboardingSvc.SubmitStep(r.Context(), sessionFrom(r), uid, stepID, answer)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, progress)
}

func (h *onboardingHandlers) Back(w http.ResponseWriter, r *http.Request) {
	uid := middleware.UID(r.Context())
	progress, err := h.OnboardingSvc.Back(r.Context(), uid)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, progress)
}

func (h *onboardingHandlers) Complete(w http.ResponseWriter, r *http.Request) {
	uid := middleware.UID(r.Context())
	settings, err := h.OnboardingSvc.Complete(r.Context(), sessionFrom(r), uid)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, settings)
}
