package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/QualitasTechnologies/bom-tracker/internal/aiimport"
	"github.com/QualitasTechnologies/bom-tracker/internal/bom"
	"github.com/QualitasTechnologies/bom-tracker/internal/crm"
	"github.com/QualitasTechnologies/bom-tracker/internal/documents"
	"github.com/QualitasTechnologies/bom-tracker/internal/identity"
	"github.com/QualitasTechnologies/bom-tracker/internal/notify"
	"github.com/QualitasTechnologies/bom-tracker/internal/observability"
	"github.com/QualitasTechnologies/bom-tracker/internal/po"
	"github.com/QualitasTechnologies/bom-tracker/internal/settings"
	"github.com/QualitasTechnologies/bom-tracker/internal/vendors"
	"github.com/QualitasTechnologies/bom-tracker/report"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger *slog.Logger
	Config *Config

	Auth *identity.Middleware

	SettingsHandler  *settings.Handler
	BOMHandler       *bom.Handler
	POHandler        *po.Handler
	DocumentsHandler *documents.Handler
	VendorsHandler   *vendors.Handler
	CRMHandler       *crm.Handler
	ImportHandler    *aiimport.Handler
	EventsHandler    *notify.Handler
	ReportHandler    *report.Handler

	Metrics *observability.Metrics
}

// NewRouter constructs the chi.Router with application defaults.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:  params.Logger,
		Config:  params.Config,
		Metrics: params.Metrics,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	if params.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())
	}

	r.Route("/api", func(r chi.Router) {
		r.Use(params.Auth.Authenticate)
		r.Use(identity.ReadOnlyForViewers)

		params.BOMHandler.MountRoutes(r)
		params.POHandler.MountRoutes(r)
		params.DocumentsHandler.MountRoutes(r)
		params.VendorsHandler.MountRoutes(r)
		params.CRMHandler.MountRoutes(r)
		params.ImportHandler.MountRoutes(r)
		params.EventsHandler.MountRoutes(r)
		r.Route("/reports", params.ReportHandler.MountRoutes)

		// company settings changes are admin-only
		r.Group(func(r chi.Router) {
			r.Use(identity.RequireRole())
			params.SettingsHandler.MountAdminRoutes(r)
		})
		params.SettingsHandler.MountRoutes(r)
	})

	return r
}
