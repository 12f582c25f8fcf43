package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/GregMSThompson/insideoutbound-backend/internal/dto"
	"github.com/GregMSThompson/insideoutbound-backend/internal/middleware"
	"github.com/GregMSThompson/insideoutbound-backend/internal/models"
	"github.com/GregMSThompson/insideoutbound-backend/internal/session"
)

// --- Stubs ---

type stubUserService struct {
	user    *models.User
	err     error
	lastUID string
	lastReq dto.UpsertUserRequest
}

func (s *stubUserService) Upsert(_ context.Context, uid string, req dto.UpsertUserRequest) (*models.User, error) {
	s.lastUID = uid
	s.lastReq = req
	return s.user, s.err
}

type stubResponseHandler struct {
	writeSuccessCalled bool
	writeSuccessStatus int
	writeSuccessData   any

	handleErrorCalled bool
	handleError       error

	writeErrorCalled bool
	writeErrorStatus int
	writeErrorCode   string
}

func (s *stubResponseHandler) WriteSuccess(w http.ResponseWriter, _ *http.Request, status int, data any) {
	s.writeSuccessCalled = true
	s.writeSuccessStatus = status
	s.writeSuccessData = data

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write([]byte(`{"success":true}`))
}

func (s *stubResponseHandler) WriteError(w http.ResponseWriter, _ *http.Request, status int, code, _ string) {
	s.writeErrorCalled = true
	s.writeErrorStatus = status
	s.writeErrorCode = code
	w.WriteHeader(status)
}

func (s *stubResponseHandler) HandleError(w http.ResponseWriter, _ *http.Request, err error) {
	s.handleErrorCalled = true
	s.handleError = err
	w.WriteHeader(http.StatusInternalServerError)
}

// withUID injects a UID into the request context.
func withUID(r *http.Request, uid string) *http.Request {
	ctx := context.WithValue(r.Context(), middleware.UIDKey, uid)
	return r.WithContext(ctx)
}

// withSession attaches an upstream session the way the session middleware does.
func withSession(r *http.Request, sess *session.Session) *http.Request {
	return r.WithContext(session.ToContext(r.Context(), sess))
}

// withChiParam injects a chi URL parameter into the request context.
func withChiParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	ctx := context.WithValue(r.Context(), chi.RouteCtxKey, rctx)
	return r.WithContext(ctx)
}

// --- Tests ---

func TestUpsertUser_OK(t *testing.T) {
	svc := &stubUserService{user: &models.User{SalesforceID: "005A"}}
	resp := &stubResponseHandler{}
	h := NewUserHandlers(&Deps{ResponseHandler: resp, UserSvc: svc})

	body := `{"salesforceId":"005A","email":"rep@example.com","firstName":"Ada"}`
	req := httptest.NewRequest(http.MethodPost, "/users", strings.NewReader(body))
	req = withUID(req, "uid1")
	rr := httptest.NewRecorder()
	h.UpsertUser(rr, req)

	if !resp.writeSuccessCalled || resp.writeSuccessStatus != http.StatusOK {
		t.Fatalf("expected WriteSuccess with 200, got called=%v status=%d", resp.writeSuccessCalled, resp.writeSuccessStatus)
	}
	if svc.lastUID != "uid1" || svc.lastReq.SalesforceID != "005A" {
		t.Errorf("unexpected args: uid=%s req=%+v", svc.lastUID, svc.lastReq)
	}
}

func TestUpsertUser_FallsBackToTokenEmail(t *testing.T) {
	svc := &stubUserService{user: &models.User{}}
	resp := &stubResponseHandler{}
	h := NewUserHandlers(&Deps{ResponseHandler: resp, UserSvc: svc})

	req := httptest.NewRequest(http.MethodPost, "/users", strings.NewReader(`{"salesforceId":"005A"}`))
	req = withUID(req, "uid1")
	req = req.WithContext(context.WithValue(req.Context(), middleware.EmailKey, "token@example.com"))
	rr := httptest.NewRecorder()
	h.UpsertUser(rr, req)

	if svc.lastReq.Email != "token@example.com" {
		t.Errorf("expected email from token, got %q", svc.lastReq.Email)
	}
}

func TestUpsertUser_InvalidJSON(t *testing.T) {
	svc := &stubUserService{}
	resp := &stubResponseHandler{}
	h := NewUserHandlers(&Deps{ResponseHandler: resp, UserSvc: svc})

	req := httptest.NewRequest(http.MethodPost, "/users", strings.NewReader("not-json"))
	req = withUID(req, "uid1")
	rr := httptest.NewRecorder()
	h.UpsertUser(rr, req)

	if !resp.handleErrorCalled {
		t.Fatal("expected HandleError on invalid JSON")
	}
	if resp.writeSuccessCalled {
		t.Fatal("WriteSuccess should not be called on invalid JSON")
	}
}

func TestUpsertUser_ServiceError(t *testing.T) {
	svc := &stubUserService{err: errors.New("db failure")}
	resp := &stubResponseHandler{}
	h := NewUserHandlers(&Deps{ResponseHandler: resp, UserSvc: svc})

	req := httptest.NewRequest(http.MethodPost, "/users", strings.NewReader(`{"salesforceId":"005A"}`))
	req = withUID(req, "uid1")
	rr := httptest.NewRecorder()
	h.UpsertUser(rr, req)

	if !resp.handleErrorCalled {
		t.Fatal("expected HandleError to be called")
	}
}
