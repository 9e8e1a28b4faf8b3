package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// SetupRoutes configures the HTTP surface of the outreach engine.
func SetupRoutes(h *Handlers) *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RealIP)
	r.Use(middleware.RequestID)

	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			w.Header().Set("X-Server-Identity", "outreach-engine-v1.0")
			next.ServeHTTP(w, req)
		})
	})

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173", "http://localhost:8080"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Health check (no auth required)
	r.Get("/health", h.HealthCheck)

	r.Route("/api", func(r chi.Router) {
		// Brief analysis pipeline
		r.Post("/brief/analyze", h.AnalyzeBrief)

		// Candidate search and registry
		r.Post("/organizations/search", h.SearchOrganizations)
		r.Get("/organizations", h.ListOrganizations)
		r.Get("/organizations/{id}", h.GetOrganization)
		r.Get("/organizations/{id}/risk", h.GetRiskAssessment)

		// Campaigns
		r.Route("/campaigns", func(r chi.Router) {
			r.Post("/", h.CreateCampaign)
			r.Get("/{id}", h.GetCampaign)
			r.Get("/{id}/workflows", h.ListCampaignWorkflows)
			r.Get("/{id}/drafts", h.ListCampaignDrafts)
		})

		// Outreach workflow
		r.Post("/outreach/initiate", h.InitiateOutreach)
		r.Post("/outreach/{id}/draft", h.GenerateDraft)

		// Approvals and sending
		r.Post("/approvals", h.RecordApproval)
		r.Get("/emails/{id}", h.GetDraft)
		r.Post("/emails/{id}/send", h.SendEmail)
		r.Post("/emails/{id}/followup", h.ScheduleFollowUp)

		// CRM contacts
		r.Get("/crm/contacts", h.GetContacts)
		r.Post("/crm/contacts", h.CreateContact)
	})

	return r
}
