package handlers

import (
	"log/slog"
	"net/http"

	"firebase.google.com/go/v4/auth"

	"github.com/GregMSThompson/insideoutbound-backend/internal/dto"
	"github.com/GregMSThompson/insideoutbound-backend/internal/response"
	"github.com/GregMSThompson/insideoutbound-backend/internal/session"
)

type Deps struct {
	Log             *slog.Logger
	ResponseHandler response.ResponseHandler
	Firebase        *auth.Client
	Sessions        *session.Manager
	UserSvc         UserService
	SettingsSvc     SettingsService
	OnboardingSvc   OnboardingService
	DashboardSvc    DashboardService
	SalesforceSvc   SalesforceService
	PublicConfig    dto.PublicConfig
}

// sessionFrom returns the upstream session attached by the session middleware.
func sessionFrom(r *http.Request) *session.Session {
	return session.FromContext(r.Context())
}
