package middleware

import (
	"context"
	"net/http"

	"github.com/GregMSThompson/insideoutbound-backend/internal/response"
	"github.com/GregMSThompson/insideoutbound-backend/internal/session"
)

const (
	sessionHeader     = "X-Session-Token"
	sessionQueryParam = "session_token"
)

type sessionManager interface {
	Capture(ctx context.Context, uid, token string) (*session.Session, error)
	EnsureFresh(ctx context.Context, uid string) (*session.Session, error)
}

type sessionMiddleware struct {
	Sessions        sessionManager
	ResponseHandler response.ResponseHandler
}

func NewSessionMiddleware(sessions sessionManager, rh response.ResponseHandler) *sessionMiddleware {
	return &sessionMiddleware{Sessions: sessions, ResponseHandler: rh}
}

// Session attaches the user's upstream session to the request context. A
// token in the header or the one-shot session_token query parameter is
// captured; the parameter is then removed from the URL. Without either, the
// stored session is used, issuing one if needed. It must run after FirebaseAuth.
func (m *sessionMiddleware) Session(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		uid := UID(r.Context())

		token := r.Header.Get(sessionHeader)
		if token == "" {
			q := r.URL.Query()
			if token = q.Get(sessionQueryParam); token != "" {
				q.Del(sessionQueryParam)
				r.URL.RawQuery = q.Encode()
			}
		}

		var (
			sess *session.Session
			err  error
		)
		if token != "" {
			sess, err = m.Sessions.Capture(r.Context(), uid, token)
		} else {
			sess, err = m.Sessions.EnsureFresh(r.Context(), uid)
		}
		if err != nil {
			m.ResponseHandler.HandleError(w, r, err)
			return
		}

		next.ServeHTTP(w, r.WithContext(session.ToContext(r.Context(), sess)))
	})
}
