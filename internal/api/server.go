// Package api exposes the Frame JSON HTTP API.
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"

	"github.com/framehq/frame/internal/api/httpx"
	"github.com/framehq/frame/internal/api/sessioncookie"
	"github.com/framehq/frame/internal/auth"
	"github.com/framehq/frame/internal/billing"
	"github.com/framehq/frame/internal/org"
	"github.com/framehq/frame/internal/planning"
	apperrors "github.com/framehq/frame/internal/platform/errors"
	"github.com/framehq/frame/internal/project"
	"github.com/framehq/frame/internal/timetrack"
)

// Store is the read and write surface the handlers need beyond the
// domain services: cross-entity queries for reporting, rates, and
// planning.
type Store interface {
	GetOrganization(ctx context.Context, orgID string) (org.Organization, error)
	GetUser(ctx context.Context, orgID, userID string) (org.User, error)
	ListUsers(ctx context.Context, orgID string) ([]org.User, error)
	GetProject(ctx context.Context, orgID, projectID string) (project.Project, error)
	ListProjects(ctx context.Context, orgID string) ([]project.Project, error)
	ListClients(ctx context.Context, orgID string) ([]project.Client, error)
	GetTask(ctx context.Context, orgID, taskID string) (project.Task, error)
	ListEntries(ctx context.Context, orgID string, filter timetrack.ListFilter) ([]timetrack.Entry, error)
	GetRateBook(ctx context.Context, orgID string) (billing.RateBook, error)
	SetUserRateOverride(ctx context.Context, projectID, userID string, billRateCents int64) error
	DeleteUserRateOverride(ctx context.Context, projectID, userID string) error
	SetRoleRateOverride(ctx context.Context, projectID string, role org.Role, billRateCents int64) error
	DeleteRoleRateOverride(ctx context.Context, projectID string, role org.Role) error
	UpsertAllocation(ctx context.Context, a planning.Allocation) error
	ListAllocations(ctx context.Context, orgID string, from, to time.Time) ([]planning.Allocation, error)
}

// Server wires the domain services into HTTP handlers.
type Server struct {
	auth     *auth.Service
	team     *org.Service
	projects *project.Service
	timers   *timetrack.Service
	store    Store
	now      func() time.Time
	newID    func() string
}

// NewServer creates an API server over the domain services.
func NewServer(authSvc *auth.Service, team *org.Service, projects *project.Service, timers *timetrack.Service, store Store) *Server {
	return &Server{
		auth:     authSvc,
		team:     team,
		projects: projects,
		timers:   timers,
		store:    store,
		now:      time.Now,
		newID:    uuid.NewString,
	}
}

// Handler builds the full route table with middleware applied.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", s.handleHealthz)

	mux.HandleFunc("POST /api/auth/magic-link", s.handleMagicLink)
	mux.HandleFunc("POST /api/auth/verify", s.handleVerify)
	mux.HandleFunc("POST /api/auth/logout", s.handleLogout)
	mux.HandleFunc("GET /api/invitations/validate", s.handleInvitationValidate)
	mux.HandleFunc("POST /api/invitations/accept", s.handleInvitationAccept)

	mux.Handle("GET /api/me", s.authenticated(s.handleMe))

	mux.Handle("POST /api/time/start", s.authenticated(s.handleTimerStart))
	mux.Handle("POST /api/time/stop", s.authenticated(s.handleTimerStop))
	mux.Handle("POST /api/time/switch", s.authenticated(s.handleTimerSwitch))
	mux.Handle("GET /api/time/running", s.authenticated(s.handleTimerRunning))
	mux.Handle("GET /api/time/entries", s.authenticated(s.handleEntriesList))
	mux.Handle("POST /api/time/entries", s.authenticated(s.handleEntryCreate))
	mux.Handle("PATCH /api/time/entries/{entryID}", s.authenticated(s.handleEntryUpdate))
	mux.Handle("DELETE /api/time/entries/{entryID}", s.authenticated(s.handleEntryDelete))

	mux.Handle("GET /api/projects", s.authenticated(s.handleProjectsList))
	mux.Handle("POST /api/projects", s.authenticated(s.handleProjectCreate))
	mux.Handle("GET /api/projects/profitability", s.authenticated(s.handleProfitability))
	mux.Handle("PATCH /api/projects/{projectID}", s.authenticated(s.handleProjectUpdate))
	mux.Handle("PUT /api/projects/{projectID}/budget", s.authenticated(s.handleProjectBudget))
	mux.Handle("GET /api/projects/{projectID}/tasks", s.authenticated(s.handleTasksList))
	mux.Handle("POST /api/projects/{projectID}/tasks", s.authenticated(s.handleTaskCreate))

	mux.Handle("GET /api/clients", s.authenticated(s.handleClientsList))
	mux.Handle("POST /api/clients", s.authenticated(s.handleClientCreate))

	mux.Handle("GET /api/planning/allocations", s.authenticated(s.handleAllocationsGrid))
	mux.Handle("POST /api/planning/allocations", s.authenticated(s.handleAllocationUpsert))

	mux.Handle("GET /api/rates/users", s.authenticated(s.handleUserRatesList))
	mux.Handle("PUT /api/rates/users", s.authenticated(s.handleUserRatesUpdate))
	mux.Handle("GET /api/rates/roles", s.authenticated(s.handleRoleOverridesList))
	mux.Handle("PUT /api/rates/roles", s.authenticated(s.handleRoleOverrideSet))
	mux.Handle("DELETE /api/rates/roles", s.authenticated(s.handleRoleOverrideDelete))
	mux.Handle("GET /api/rates/overrides", s.authenticated(s.handleUserOverridesList))
	mux.Handle("PUT /api/rates/overrides", s.authenticated(s.handleUserOverrideSet))
	mux.Handle("DELETE /api/rates/overrides", s.authenticated(s.handleUserOverrideDelete))

	mux.Handle("GET /api/team/members", s.authenticated(s.handleMembersList))
	mux.Handle("PATCH /api/team/members/{userID}", s.authenticated(s.handleMemberUpdate))
	mux.Handle("PATCH /api/org/settings", s.authenticated(s.handleOrgSettings))

	mux.Handle("GET /api/invitations", s.authenticated(s.handleInvitationsList))
	mux.Handle("POST /api/invitations", s.authenticated(s.handleInvitationCreate))
	mux.Handle("DELETE /api/invitations/{invitationID}", s.authenticated(s.handleInvitationRevoke))

	mux.Handle("GET /api/export/time-entries", s.authenticated(s.handleExport))
	mux.Handle("GET /api/export/projects", s.authenticated(s.handleProjectSummaryExport))

	return httpx.Chain(
		mux,
		httpx.RequestID(),
		httpx.RecoverPanic(),
		traceRequests(),
		httpx.LogRequests(),
	)
}

// authenticated resolves the session cookie to a principal before
// calling the handler.
func (s *Server) authenticated(handler func(http.ResponseWriter, *http.Request, org.User)) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := sessioncookie.Read(r)
		if !ok {
			httpx.WriteError(w, apperrors.New(apperrors.CodeUnauthenticated, "authentication required"))
			return
		}
		user, err := s.auth.Authenticate(r.Context(), token)
		if err != nil {
			httpx.WriteError(w, err)
			return
		}
		handler(w, r.WithContext(withPrincipal(r.Context(), user)), user)
	})
}

// traceRequests opens a span per request using the global tracer.
func traceRequests() httpx.Middleware {
	tracer := otel.Tracer("frame/api")
	return func(next http.Handler) http.Handler {
		if next == nil {
			next = http.NotFoundHandler()
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, span := tracer.Start(r.Context(), r.Method+" "+r.URL.Path)
			defer span.End()
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	_ = httpx.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
