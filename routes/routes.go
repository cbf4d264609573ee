package routes

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/funsideofwine/guardian-grc/handlers"
	"github.com/funsideofwine/guardian-grc/middleware"
)

// HTTP method constants for better maintainability
var (
	MethodsGetOnly    = []string{"GET", "OPTIONS"}
	MethodsPostOnly   = []string{"POST", "OPTIONS"}
	MethodsPutOnly    = []string{"PUT", "OPTIONS"}
	MethodsPatchOnly  = []string{"PATCH", "OPTIONS"}
	MethodsDeleteOnly = []string{"DELETE", "OPTIONS"}
)

const (
	PathAPI    = "/api"
	PathHealth = "/health"
)

// Handlers carries every handler the router wires up.
type Handlers struct {
	Auth       *handlers.AuthHandler
	Risks      *handlers.RiskHandler
	Compliance *handlers.ComplianceHandler
	Incidents  *handlers.IncidentHandler
	Policies   *handlers.PolicyHandler
	Audit      *handlers.AuditHandler
	Activity   http.HandlerFunc
}

func RegisterRoutes(r *mux.Router, h *Handlers) {
	// ====================
	// HEALTH CHECK (Public)
	// ====================
	r.HandleFunc(PathHealth, handlers.HealthCheck).Methods(MethodsGetOnly...)

	// ====================
	// AUTHENTICATION ROUTES (Public - No auth required)
	// ====================
	r.HandleFunc("/api/auth/login", h.Auth.Login).Methods(MethodsPostOnly...)
	r.HandleFunc("/api/auth/register", h.Auth.Register).Methods(MethodsPostOnly...)
	r.HandleFunc("/api/auth/validate", h.Auth.Validate).Methods(MethodsGetOnly...)

	// ====================
	// LIVE ACTIVITY FEED (token authenticated in the handler)
	// ====================
	r.HandleFunc("/ws/activity", h.Activity)

	// ====================
	// PROTECTED API ROUTES (Require authentication)
	// ====================
	apiRouter := r.PathPrefix(PathAPI).Subrouter()
	apiRouter.Use(middleware.AuthMiddleware)

	// ====================
	// RISKS
	// ====================
	apiRouter.HandleFunc("/risks", h.Risks.List).Methods(MethodsGetOnly...)
	apiRouter.HandleFunc("/risks", h.Risks.Create).Methods(MethodsPostOnly...)
	apiRouter.HandleFunc("/risks/{id}", h.Risks.Get).Methods(MethodsGetOnly...)
	apiRouter.HandleFunc("/risks/{id}", h.Risks.Update).Methods(MethodsPutOnly...)
	apiRouter.HandleFunc("/risks/{id}", h.Risks.Delete).Methods(MethodsDeleteOnly...)

	// ====================
	// COMPLIANCE FRAMEWORKS
	// ====================
	apiRouter.HandleFunc("/compliance", h.Compliance.List).Methods(MethodsGetOnly...)
	apiRouter.HandleFunc("/compliance", h.Compliance.Create).Methods(MethodsPostOnly...)
	apiRouter.HandleFunc("/compliance/{id}", h.Compliance.Get).Methods(MethodsGetOnly...)
	apiRouter.HandleFunc("/compliance/{id}", h.Compliance.Update).Methods(MethodsPutOnly...)
	apiRouter.HandleFunc("/compliance/{id}", h.Compliance.Delete).Methods(MethodsDeleteOnly...)

	// ====================
	// INCIDENTS
	// ====================
	apiRouter.HandleFunc("/incidents", h.Incidents.List).Methods(MethodsGetOnly...)
	apiRouter.HandleFunc("/incidents", h.Incidents.Create).Methods(MethodsPostOnly...)
	apiRouter.HandleFunc("/incidents/{id}", h.Incidents.Get).Methods(MethodsGetOnly...)
	apiRouter.HandleFunc("/incidents/{id}", h.Incidents.Update).Methods(MethodsPutOnly...)
	apiRouter.HandleFunc("/incidents/{id}", h.Incidents.Delete).Methods(MethodsDeleteOnly...)

	// ====================
	// POLICIES
	// ====================
	apiRouter.HandleFunc("/policies", h.Policies.List).Methods(MethodsGetOnly...)
	apiRouter.HandleFunc("/policies", h.Policies.Create).Methods(MethodsPostOnly...)
	apiRouter.HandleFunc("/policies/{id}", h.Policies.Get).Methods(MethodsGetOnly...)
	apiRouter.HandleFunc("/policies/{id}", h.Policies.Update).Methods(MethodsPutOnly...)
	apiRouter.HandleFunc("/policies/{id}", h.Policies.PatchComments).Methods(MethodsPatchOnly...)
	apiRouter.HandleFunc("/policies/{id}", h.Policies.Delete).Methods(MethodsDeleteOnly...)

	// ====================
	// AUDIT LOG
	// ====================
	apiRouter.HandleFunc("/audit-log", h.Audit.List).Methods(MethodsGetOnly...)
	apiRouter.HandleFunc("/audit-log", h.Audit.Record).Methods(MethodsPostOnly...)
}
