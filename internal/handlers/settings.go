package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/GregMSThompson/insideoutbound-backend/internal/dto"
	"github.com/GregMSThompson/insideoutbound-backend/internal/middleware"
	"github.com/GregMSThompson/insideoutbound-backend/internal/models"
	"github.com/GregMSThompson/insideoutbound-backend/internal/response"
)

type SettingsService interface {
	Get(ctx context.Context, uid string) (*models.Settings, error)
	Save(ctx context.Context, uid string, settings *models.Settings) (*models.Settings, error)
	Patch(ctx context.Context, uid string, patch models.SettingsPatch) (*models.Settings, error)
	Validate(ctx context.Context, settings *models.Settings) dto.SettingsValidation
}

type settingsHandlers struct {
	ResponseHandler response.ResponseHandler
	SettingsSvc     SettingsService
}

func NewSettingsHandlers(deps *Deps) *settingsHandlers {
	return &settingsHandlers{
		ResponseHandler: deps.ResponseHandler,
		SettingsSvc:     deps.SettingsSvc,
	}
}

func (h *settingsHandlers) SettingsRoutes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.GetSettings)
	r.Put("/", h.SaveSettings)
	r.Patch("/", h.PatchSettings)
	r.Post("/validate", h.ValidateSettings)
	return r
}

func (h *settingsHandlers) GetSettings(w http.ResponseWriter, r *http.Request) {
	uid := middleware.UID(r.Context())
	settings, err := h.SettingsSvc.Get(r.Context(), uid)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, settings)
}

func (h *settingsHandlers) SaveSettings(w http.ResponseWriter, r *http.Request) {
	var req models.Settings
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	uid := middleware.UID(r.Context())
	settings, err := h.SettingsSvc.Save(r.Context(), uid, &req)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, settings)
}

// PatchSettings queues a field edit; it is written after the autosave delay.
func (h *settingsHandlers) PatchSettings(w http.ResponseWriter, r *http.Request) {
	var patch models.SettingsPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	uid := middleware.UID(r.Context())
	settings, err := h.SettingsSvc.Patch(r.Context(), uid, patch)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusAccepted, settings)
}

func (h *settingsHandlers) ValidateSettings(w http.ResponseWriter, r *http.Request) {
	var req models.Settings
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, h.SettingsSvc.Validate(r.Context(), &req))
}
