package router

import (
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	sentryhttp "github.com/getsentry/sentry-go/http"

	"github.com/GregMSThompson/insideoutbound-backend/internal/handlers"
	"github.com/GregMSThompson/insideoutbound-backend/internal/middleware"
)

func NewRouter(deps *handlers.Deps) chi.Router {
	r := chi.NewRouter()

	lm := middleware.NewLoggerMiddleware(deps.Log)
	sh := sentryhttp.New(sentryhttp.Options{Repanic: true})

	r.Use(chimiddleware.RequestID)
	r.Use(lm.LoggerMiddleware)
	r.Use(sh.Handle)
	r.Use(chimiddleware.Recoverer)

	ch := handlers.NewConfigHandlers(deps)
	r.Mount("/config", ch.ConfigRoutes())

	am := middleware.NewMiddleware(deps.Firebase, deps.ResponseHandler)
	sm := middleware.NewSessionMiddleware(deps.Sessions, deps.ResponseHandler)

	ush := handlers.NewUserHandlers(deps)
	seh := handlers.NewSettingsHandlers(deps)
	obh := handlers.NewOnboardingHandlers(deps)
	dbh := handlers.NewDashboardHandlers(deps)
	sfh := handlers.NewSalesforceHandlers(deps)
	crh := handlers.NewCriteriaHandlers(deps)

	r.Group(func(r chi.Router) {
		r.Use(am.FirebaseAuth)
		r.Use(sm.Session)

		r.Mount("/users", ush.UserRoutes())
		r.Mount("/settings", seh.SettingsRoutes())
		r.Mount("/onboarding", obh.OnboardingRoutes())
		r.Mount("/dashboard", dbh.DashboardRoutes())
		r.Mount("/salesforce", sfh.SalesforceRoutes())
		r.Mount("/criteria", crh.CriteriaRoutes())
	})
	return r
}
