package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/GregMSThompson/insideoutbound-backend/internal/criteria"
	"github.com/GregMSThompson/insideoutbound-backend/internal/dto"
	"github.com/GregMSThompson/insideoutbound-backend/internal/errs"
	"github.com/GregMSThompson/insideoutbound-backend/internal/response"
)

type criteriaHandlers struct {
	ResponseHandler response.ResponseHandler
}

func NewCriteriaHandlers(deps *Deps) *criteriaHandlers {
	return &criteriaHandlers{ResponseHandler: deps.ResponseHandler}
}

func (h *criteriaHandlers) CriteriaRoutes() chi.Router {
	r := chi.NewRouter()
	r.Get("/operators", h.ListOperators)
	r.Post("/validate", h.ValidateContainer)
	r.Post("/rows", h.AddRow)
	r.Patch("/rows/{row}", h.UpdateRow)
	r.Delete("/rows/{row}", h.DeleteRow)
	r.Put("/logic", h.SetLogic)
	return r
}

// ListOperators returns the full catalog, or one datatype's operators when
// ?dataType is set.
func (h *criteriaHandlers) ListOperators(w http.ResponseWriter, r *http.Request) {
	if dataType := r.URL.Query().Get("dataType"); dataType != "" {
		h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, criteria.OperatorsFor(dataType))
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, criteria.OperatorMap)
}

func (h *criteriaHandlers) ValidateContainer(w http.ResponseWriter, r *http.Request) {
	var req dto.CriteriaValidateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	issues := criteria.ValidateContainer(req.Container)
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, dto.SettingsValidation{
		Valid:  len(issues) == 0,
		Issues: issues,
	})
}

// AddRow appends a blank row and extends the logic with the new position.
func (h *criteriaHandlers) AddRow(w http.ResponseWriter, r *http.Request) {
	h.edit(w, r, func(b *criteria.Builder, _ dto.CriteriaEditRequest) error {
		b.AddRow()
		return nil
	})
}

// UpdateRow applies field, then operator, then value to the 1-based row.
// Changing the field clears the row's operator and value.
func (h *criteriaHandlers) UpdateRow(w http.ResponseWriter, r *http.Request) {
	i, err := rowParam(r)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.edit(w, r, func(b *criteria.Builder, req dto.CriteriaEditRequest) error {
		if req.Field != nil {
			if err := b.SetField(i, *req.Field); err != nil {
				return err
			}
		}
		if req.Operator != nil {
			if err := b.SetOperator(i, *req.Operator); err != nil {
				return err
			}
		}
		if req.Value != nil {
			return b.SetValue(i, *req.Value)
		}
		return nil
	})
}

func (h *criteriaHandlers) DeleteRow(w http.ResponseWriter, r *http.Request) {
	i, err := rowParam(r)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.edit(w, r, func(b *criteria.Builder, _ dto.CriteriaEditRequest) error {
		return b.DeleteRow(i)
	})
}

// SetLogic stores the logic even when it is invalid; the response state and
// message report the problem.
func (h *criteriaHandlers) SetLogic(w http.ResponseWriter, r *http.Request) {
	h.edit(w, r, func(b *criteria.Builder, req dto.CriteriaEditRequest) error {
		if req.Logic == nil {
			return errs.NewFieldValidationError("logic", "logic is required")
		}
		_ = b.SetLogic(*req.Logic)
		return nil
	})
}

func (h *criteriaHandlers) edit(w http.ResponseWriter, r *http.Request, apply func(*criteria.Builder, dto.CriteriaEditRequest) error) {
	var req dto.CriteriaEditRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}

	opts := []criteria.Option{criteria.WithAdvisory(req.Advisory)}
	if req.AutoRenumber {
		opts = append(opts, criteria.WithAutoRenumber())
	}
	b := criteria.NewBuilder(req.Container, req.Fields, opts...)
	if err := apply(b, req); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}

	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, dto.CriteriaEditResponse{
		Container: b.Container(),
		State:     b.State().String(),
		Message:   b.Message(),
		Advisory:  b.Advisory(),
	})
}

// rowParam reads the 1-based {row} parameter as a 0-based index.
func rowParam(r *http.Request) (int, error) {
	n, err := strconv.Atoi(chi.URLParam(r, "row"))
	if err != nil || n < 1 {
		return 0, errs.NewFieldValidationError("row", "must be a positive integer")
	}
	return n - 1, nil
}
