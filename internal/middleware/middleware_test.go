package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"firebase.google.com/go/v4/auth"

	"github.com/GregMSThompson/insideoutbound-backend/internal/errs"
	"github.com/GregMSThompson/insideoutbound-backend/internal/response"
	"github.com/GregMSThompson/insideoutbound-backend/internal/session"
	"github.com/GregMSThompson/insideoutbound-backend/pkg/logger"
)

type stubVerifier struct {
	token *auth.Token
	err   error
	got   string
}

func (s *stubVerifier) VerifyIDToken(_ context.Context, idToken string) (*auth.Token, error) {
	s.got = idToken
	return s.token, s.err
}

type stubSessions struct {
	captured string
	ensured  bool
	err      error
}

func (s *stubSessions) Capture(_ context.Context, uid, token string) (*session.Session, error) {
	s.captured = token
	return session.New(uid, token, nil), s.err
}

func (s *stubSessions) EnsureFresh(_ context.Context, uid string) (*session.Session, error) {
	s.ensured = true
	if s.err != nil {
		return nil, s.err
	}
	return session.New(uid, "stored", nil), nil
}

func testResponseHandler() response.ResponseHandler {
	return response.New(logger.New("", logger.NewTestHandler))
}

func TestFirebaseAuthSetsUID(t *testing.T) {
	v := &stubVerifier{token: &auth.Token{UID: "uid-1", Claims: map[string]interface{}{"email": "a@example.com"}}}
	m := NewMiddleware(v, testResponseHandler())

	var uid, email string
	h := m.FirebaseAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		uid, email = UID(r.Context()), Email(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/settings", nil)
	req.Header.Set("Authorization", "Bearer id-token")
	h.ServeHTTP(httptest.NewRecorder(), req)

	if v.got != "id-token" || uid != "uid-1" || email != "a@example.com" {
		t.Fatalf("token=%q uid=%q email=%q", v.got, uid, email)
	}
}

func TestFirebaseAuthRejects(t *testing.T) {
	tests := []struct {
		name   string
		header string
		err    error
	}{
		{"missing header", "", nil},
		{"wrong scheme", "Basic abc", nil},
		{"invalid token", "Bearer bad", errors.New("expired")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewMiddleware(&stubVerifier{err: tt.err}, testResponseHandler())
			called := false
			h := m.FirebaseAuth(http.HandlerFunc(func(http.ResponseWriter, *http.Request) { called = true }))

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rr := httptest.NewRecorder()
			h.ServeHTTP(rr, req)

			if called || rr.Code != http.StatusUnauthorized {
				t.Fatalf("called=%v status=%d", called, rr.Code)
			}
			var body response.ErrorResponse
			if err := json.NewDecoder(rr.Body).Decode(&body); err != nil || body.Code != "unauthorized" {
				t.Fatalf("body = %+v, err = %v", body, err)
			}
		})
	}
}

func TestSessionCapturesQueryParamAndStripsIt(t *testing.T) {
	sessions := &stubSessions{}
	m := NewSessionMiddleware(sessions, testResponseHandler())

	var sess *session.Session
	var rawQuery string
	h := m.Session(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess = session.FromContext(r.Context())
		rawQuery = r.URL.RawQuery
	}))

	req := httptest.NewRequest(http.MethodGet, "/dashboard/summary?session_token=abc&period=All", nil)
	req = req.WithContext(context.WithValue(req.Context(), UIDKey, "uid-1"))
	h.ServeHTTP(httptest.NewRecorder(), req)

	if sessions.captured != "abc" || sess == nil || sess.Token() != "abc" || sess.UserID != "uid-1" {
		t.Fatalf("captured=%q session=%+v", sessions.captured, sess)
	}
	if rawQuery != "period=All" {
		t.Fatalf("query = %q, want session_token stripped", rawQuery)
	}
}

func TestSessionPrefersHeader(t *testing.T) {
	sessions := &stubSessions{}
	h := NewSessionMiddleware(sessions, testResponseHandler()).Session(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))

	req := httptest.NewRequest(http.MethodGet, "/?session_token=query", nil)
	req.Header.Set("X-Session-Token", "header")
	h.ServeHTTP(httptest.NewRecorder(), req)

	if sessions.captured != "header" {
		t.Fatalf("captured = %q, want header", sessions.captured)
	}
}

func TestSessionFallsBackToStored(t *testing.T) {
	sessions := &stubSessions{}
	var token string
	h := NewSessionMiddleware(sessions, testResponseHandler()).Session(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token = session.FromContext(r.Context()).Token()
	}))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	if !sessions.ensured || token != "stored" {
		t.Fatalf("ensured=%v token=%q", sessions.ensured, token)
	}
}

func TestSessionErrorRedirects(t *testing.T) {
	sessions := &stubSessions{err: errs.NewAuthenticationError("session refresh rejected")}
	called := false
	h := NewSessionMiddleware(sessions, testResponseHandler()).Session(http.HandlerFunc(func(http.ResponseWriter, *http.Request) { called = true }))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

	if called || rr.Code != http.StatusUnauthorized {
		t.Fatalf("called=%v status=%d", called, rr.Code)
	}
	var body response.ErrorResponse
	_ = json.NewDecoder(rr.Body).Decode(&body)
	if body.Redirect != "/" || body.Code != "reauthenticate" {
		t.Fatalf("body = %+v", body)
	}
}
