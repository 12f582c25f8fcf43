package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/GregMSThompson/insideoutbound-backend/internal/dto"
	"github.com/GregMSThompson/insideoutbound-backend/internal/models"
	"github.com/GregMSThompson/insideoutbound-backend/internal/response"
	"github.com/GregMSThompson/insideoutbound-backend/internal/session"
)

type SalesforceService interface {
	Users(ctx context.Context, sess *session.Session) ([]models.SalesforceUser, error)
	Fields(ctx context.Context, sess *session.Session, object string) ([]models.FieldMeta, error)
	TaskCount(ctx context.Context, sess *session.Session, req dto.CriteriaQueryRequest) (int, error)
	Query(ctx context.Context, sess *session.Session, object string, req dto.CriteriaQueryRequest) ([]models.Record, error)
}

type salesforceHandlers struct {
	ResponseHandler response.ResponseHandler
	SalesforceSvc   SalesforceService
}

func NewSalesforceHandlers(deps *Deps) *salesforceHandlers {
	return &salesforceHandlers{
		ResponseHandler: deps.ResponseHandler,
		SalesforceSvc:   deps.SalesforceSvc,
	}
}

func (h *salesforceHandlers) SalesforceRoutes() chi.Router {
	r := chi.NewRouter()
	r.Get("/users", h.ListUsers)
	r.Get("/fields/{object}", h.ListFields)
	r.Post("/tasks/count", h.CountTasks)
	r.Post("/{object}/query", h.Query)
	return r
}

func (h *salesforceHandlers) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.SalesforceSvc.Users(r.Context(), sessionFrom(r))
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, users)
}

func (h *salesforceHandlers) ListFields(w http.ResponseWriter, r *http.Request) {
	fields, err := h.SalesforceSvc.Fields(r.Context(), sessionFrom(r), chi.URLParam(r, "object"))
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, fields)
}

func (h *salesforceHandlers) CountTasks(w http.ResponseWriter, r *http.Request) {
	var req dto.CriteriaQueryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	count, err := h.SalesforceSvc.TaskCount(r.Context(), sessionFrom(r), req)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, dto.CountResponse{Count: count})
}

func (h *salesforceHandlers) Query(w http.ResponseWriter, r *http.Request) {
	var req dto.CriteriaQueryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	records, err := h.SalesforceSvc.Query(r.Context(), sessionFrom(r), chi.URLParam(r, "object"), req)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, records)
}
