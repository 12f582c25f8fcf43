package handlers

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/GregMSThompson/insideoutbound-backend/internal/dto"
	"github.com/GregMSThompson/insideoutbound-backend/internal/errs"
	"github.com/GregMSThompson/insideoutbound-backend/internal/grid"
	"github.com/GregMSThompson/insideoutbound-backend/internal/middleware"
	"github.com/GregMSThompson/insideoutbound-backend/internal/response"
	"github.com/GregMSThompson/insideoutbound-backend/internal/session"
)

type DashboardService interface {
	Summary(ctx context.Context, sess *session.Session, uid, period string, userIDs []string) (*dto.DashboardSummary, error)
	Activations(ctx context.Context, sess *session.Session, req dto.ActivationsRequest) (*dto.ActivationsPage, error)
	Refresh(ctx context.Context, sess *session.Session) error
}

type dashboardHandlers struct {
	ResponseHandler response.ResponseHandler
	DashboardSvc    DashboardService
}

func NewDashboardHandlers(deps *Deps) *dashboardHandlers {
	return &dashboardHandlers{
		ResponseHandler: deps.ResponseHandler,
		DashboardSvc:    deps.DashboardSvc,
	}
}

func (h *dashboardHandlers) DashboardRoutes() chi.Router {
	r := chi.NewRouter()
	r.Get("/summary", h.GetSummary)
	r.Get("/activations", h.ListActivations)
	r.Post("/refresh", h.Refresh)
	return r
}

func (h *dashboardHandlers) GetSummary(w http.ResponseWriter, r *http.Request) {
	uid := middleware.UID(r.Context())
	q := r.URL.Query()
	summary, err := h.DashboardSvc.Summary(r.Context(), sessionFrom(r), uid, q.Get("period"), splitIDs(q.Get("userIds")))
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, summary)
}

func (h *dashboardHandlers) ListActivations(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	query, err := parseGridQuery(q)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	req := dto.ActivationsRequest{
		Period:      q.Get("period"),
		UserIDs:     splitIDs(q.Get("userIds")),
		Status:      q.Get("status"),
		SelectedIDs: splitIDs(q.Get("selectedIds")),
		Query:       query,
	}
	page, err := h.DashboardSvc.Activations(r.Context(), sessionFrom(r), req)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, page)
}

func (h *dashboardHandlers) Refresh(w http.ResponseWriter, r *http.Request) {
	if err := h.DashboardSvc.Refresh(r.Context(), sessionFrom(r)); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, map[string]bool{"refreshed": true})
}

func parseGridQuery(q url.Values) (grid.Query, error) {
	query := grid.Query{
		Search:     q.Get("search"),
		SortColumn: q.Get("sortColumn"),
		Columns:    splitIDs(q.Get("columns")),
	}
	switch dir := grid.Direction(q.Get("sortDirection")); dir {
	case "", grid.Asc, grid.Desc:
		query.SortDir = dir
	default:
		return grid.Query{}, errs.NewFieldValidationError("sortDirection", "must be asc or desc")
	}
	var err error
	if query.Page, err = intParam(q, "page"); err != nil {
		return grid.Query{}, err
	}
	if query.RowsPerPage, err = intParam(q, "rowsPerPage"); err != nil {
		return grid.Query{}, err
	}
	return query, nil
}

func intParam(q url.Values, key string) (int, error) {
	raw := q.Get(key)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, errs.NewFieldValidationError(key, "must be a non-negative integer")
	}
	return n, nil
}

func splitIDs(raw string) []string {
	if raw == "" {
		return nil
	}
	var ids []string
	for _, id := range strings.Split(raw, ",") {
		if id = strings.TrimSpace(id); id != "" {
			ids = append(ids, id)
		}
	}
	return ids
}
