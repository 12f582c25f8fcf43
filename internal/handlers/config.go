package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/GregMSThompson/insideoutbound-backend/internal/dto"
	"github.com/GregMSThompson/insideoutbound-backend/internal/response"
)

type configHandlers struct {
	ResponseHandler response.ResponseHandler
	PublicConfig    dto.PublicConfig
}

func NewConfigHandlers(deps *Deps) *configHandlers {
	return &configHandlers{
		ResponseHandler: deps.ResponseHandler,
		PublicConfig:    deps.PublicConfig,
	}
}

func (h *configHandlers) ConfigRoutes() chi.Router {
	r := chi.NewRouter()
	r.Get("/public", h.GetPublicConfig)
	return r
}

func (h *configHandlers) GetPublicConfig(w http.ResponseWriter, r *http.Request) {
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, h.PublicConfig)
}
