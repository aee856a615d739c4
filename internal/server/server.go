package server

import (
	"database/sql"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/dukerupert/choreweek/internal/database"
	"github.com/dukerupert/choreweek/internal/handler"
	"github.com/dukerupert/choreweek/internal/middleware"
	"github.com/dukerupert/choreweek/internal/planner"
	"github.com/dukerupert/choreweek/internal/store"
	ws "github.com/dukerupert/choreweek/internal/websocket"
)

const (
	loginRateLimit  = 10
	loginRateWindow = time.Minute
)

// Options carries the settings the HTTP layer needs from config.
type Options struct {
	FirstDay time.Weekday
	Location *time.Location
	// TrustProxy keys rate limits on CF-Connecting-IP and X-Forwarded-For.
	TrustProxy bool
}

type Server struct {
	db           *sql.DB
	hub          *ws.Hub
	planner      *planner.Service
	authH        *handler.AuthHandler
	memberH      *handler.MemberHandler
	taskH        *handler.TaskHandler
	lookupH      *handler.LookupHandler
	assignmentH  *handler.AssignmentHandler
	scheduleH    *handler.ScheduleHandler
	userH        *handler.UserHandler
	sessionStore *store.SessionStore
	userStore    *store.UserStore
	rateLimiter  *middleware.RateLimiter
	clientIP     func(*http.Request) string
	logger       *slog.Logger
}

func New(db *sql.DB, opts Options, logger *slog.Logger) *Server {
	if opts.Location == nil {
		opts.Location = time.Local
	}
	hub := ws.NewHub(logger.With("component", "websocket"))

	memberStore := store.NewMemberStore(db)
	lookupStore := store.NewLookupStore(db)
	taskStore := store.NewTaskStore(db)
	runStore := store.NewRunStore(db)
	assignmentStore := store.NewAssignmentStore(db)
	userStore := store.NewUserStore(db)
	sessionStore := store.NewSessionStore(db)

	plannerSvc := planner.NewService(memberStore, taskStore, runStore, assignmentStore, hub, logger.With("component", "planner"))

	return &Server{
		db:           db,
		hub:          hub,
		planner:      plannerSvc,
		authH:        handler.NewAuthHandler(userStore, sessionStore, logger.With("component", "auth")),
		memberH:      handler.NewMemberHandler(memberStore, hub, logger.With("component", "member")),
		taskH:        handler.NewTaskHandler(taskStore, lookupStore, hub, logger.With("component", "task")),
		lookupH:      handler.NewLookupHandler(lookupStore),
		assignmentH:  handler.NewAssignmentHandler(assignmentStore, taskStore, memberStore, hub, opts.Location, logger.With("component", "assignment")),
		scheduleH:    handler.NewScheduleHandler(plannerSvc, runStore, assignmentStore, opts.FirstDay, opts.Location, logger.With("component", "schedule")),
		userH:        handler.NewUserHandler(userStore, sessionStore, memberStore, logger.With("component", "user")),
		sessionStore: sessionStore,
		userStore:    userStore,
		rateLimiter:  middleware.NewRateLimiter(loginRateLimit, loginRateWindow),
		clientIP:     middleware.ClientIP(opts.TrustProxy),
		logger:       logger,
	}
}

// Planner returns the planner service for the auto scheduler.
func (s *Server) Planner() *planner.Service {
	return s.planner
}

// SessionStore returns the session store for cleanup tasks.
func (s *Server) SessionStore() *store.SessionStore {
	return s.sessionStore
}

// UserStore returns the user store for admin bootstrap.
func (s *Server) UserStore() *store.UserStore {
	return s.userStore
}

// RateLimiter returns the rate limiter for cleanup tasks.
func (s *Server) RateLimiter() *middleware.RateLimiter {
	return s.rateLimiter
}

func (s *Server) Router() http.Handler {
	outerMux := http.NewServeMux()

	// Public routes (no auth required)
	outerMux.HandleFunc("POST /login", s.rateLimitedHandler(s.authH.Login))
	outerMux.HandleFunc("POST /logout", s.rateLimitedHandler(s.authH.Logout))
	outerMux.HandleFunc("GET /health", s.healthHandler)

	// Protected routes — wrapped with RequireAuth middleware
	protectedMux := http.NewServeMux()
	s.registerProtectedRoutes(protectedMux)

	authMiddleware := middleware.RequireAuth(s.sessionStore, s.userStore)
	outerMux.Handle("/", authMiddleware(protectedMux))

	return middleware.RequestLogger(s.logger.With("component", "http"))(outerMux)
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	status := "ok"
	code := http.StatusOK
	version, err := database.SchemaVersion(r.Context(), s.db)
	if err != nil {
		status = "database unavailable"
		code = http.StatusServiceUnavailable
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]any{"status": status, "schema_version": version, "clients": s.hub.ClientCount()})
}

func (s *Server) rateLimitedHandler(h http.HandlerFunc) http.HandlerFunc {
	rl := middleware.RateLimit(s.rateLimiter, s.clientIP)
	return rl(h).ServeHTTP
}

func admin(h http.HandlerFunc) http.Handler {
	return middleware.RequireAdmin(h)
}

func (s *Server) registerProtectedRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/me", s.authH.Me)
	mux.HandleFunc("GET /ws", ws.HandleWebSocket(s.hub, s.logger.With("component", "websocket")))

	// Members
	mux.HandleFunc("GET /api/members", s.memberH.List)
	mux.Handle("POST /api/members", admin(s.memberH.Create))
	mux.Handle("PUT /api/members/sort", admin(s.memberH.UpdateSortOrder))
	mux.Handle("PUT /api/members/{id}", admin(s.memberH.Update))
	mux.Handle("DELETE /api/members/{id}", admin(s.memberH.Delete))

	// Tasks
	mux.HandleFunc("GET /api/tasks", s.taskH.List)
	mux.HandleFunc("GET /api/tasks/{id}", s.taskH.Get)
	mux.Handle("POST /api/tasks", admin(s.taskH.Create))
	mux.Handle("PUT /api/tasks/{id}", admin(s.taskH.Update))
	mux.Handle("DELETE /api/tasks/{id}", admin(s.taskH.Delete))

	// Lookups
	mux.HandleFunc("GET /api/frequencies", s.lookupH.ListFrequencies)
	mux.Handle("POST /api/frequencies", admin(s.lookupH.CreateFrequency))
	mux.HandleFunc("GET /api/workloads", s.lookupH.ListWorkloads)
	mux.Handle("POST /api/workloads", admin(s.lookupH.CreateWorkload))
	mux.HandleFunc("GET /api/task-types", s.lookupH.ListTaskTypes)
	mux.Handle("POST /api/task-types", admin(s.lookupH.CreateTaskType))

	// Assignments
	mux.HandleFunc("GET /api/assignments", s.assignmentH.List)
	mux.HandleFunc("GET /api/assignments/progress", s.assignmentH.Progress)
	mux.Handle("POST /api/assignments", admin(s.assignmentH.Create))
	mux.Handle("PUT /api/assignments/{id}", admin(s.assignmentH.Update))
	mux.Handle("DELETE /api/assignments/{id}", admin(s.assignmentH.Delete))
	mux.HandleFunc("POST /api/assignments/{id}/complete", s.assignmentH.Complete)
	mux.HandleFunc("DELETE /api/assignments/{id}/complete", s.assignmentH.Uncomplete)

	// Schedules
	mux.Handle("GET /api/schedules/hint", admin(s.scheduleH.Hint))
	mux.Handle("GET /api/schedules", admin(s.scheduleH.List))
	mux.Handle("POST /api/schedules", admin(s.scheduleH.Generate))
	mux.Handle("GET /api/schedules/{id}", admin(s.scheduleH.Get))
	mux.Handle("DELETE /api/schedules/{id}", admin(s.scheduleH.Delete))

	// Users
	mux.Handle("GET /api/users", admin(s.userH.List))
	mux.Handle("POST /api/users", admin(s.userH.Create))
	mux.Handle("DELETE /api/users/{id}", admin(s.userH.Delete))
}
