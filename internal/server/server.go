package server

import (
	"database/sql"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/tsumuapp/tsumu/internal/handler"
	"github.com/tsumuapp/tsumu/internal/middleware"
	"github.com/tsumuapp/tsumu/internal/push"
	"github.com/tsumuapp/tsumu/internal/store"
	ws "github.com/tsumuapp/tsumu/internal/websocket"
)

// Config carries the knobs the server needs beyond its database handle.
type Config struct {
	VAPIDPublicKey  string
	VAPIDPrivateKey string
	PushSubscriber  string
	SecureCookies   bool
}

type Server struct {
	db           *sql.DB
	hub          *ws.Hub
	authH        *handler.AuthHandler
	habitH       *handler.HabitHandler
	goalH        *handler.GoalHandler
	todoH        *handler.TodoHandler
	profileH     *handler.ProfileHandler
	titleH       *handler.TitleHandler
	calendarH    *handler.CalendarHandler
	socialH      *handler.SocialHandler
	pushH        *handler.PushHandler
	sessionStore *store.SessionStore
	rateLimiter  *middleware.RateLimiter
	logger       *slog.Logger
}

func New(db *sql.DB, cfg Config, logger *slog.Logger) *Server {
	hub := ws.NewHub(logger.With("component", "websocket"))

	userStore := store.NewUserStore(db)
	sessionStore := store.NewSessionStore(db)
	profileStore := store.NewProfileStore(db)
	habitStore := store.NewHabitStore(db)
	goalStore := store.NewGoalStore(db)
	todoStore := store.NewTodoStore(db)
	titleStore := store.NewTitleStore(db)
	socialStore := store.NewSocialStore(db)
	pushStore := store.NewPushStore(db)

	pushSvc := push.NewService(cfg.VAPIDPublicKey, cfg.VAPIDPrivateKey, cfg.PushSubscriber)
	notifier := push.NewNotifier(pushSvc, pushStore, logger.With("component", "push"))

	awarder := handler.NewAwarder(habitStore, goalStore, profileStore, titleStore, hub, notifier, logger.With("component", "award"))

	return &Server{
		db:           db,
		hub:          hub,
		authH:        handler.NewAuthHandler(userStore, sessionStore, profileStore, awarder, cfg.SecureCookies, logger.With("component", "auth")),
		habitH:       handler.NewHabitHandler(habitStore, profileStore, awarder, hub, notifier, logger.With("component", "habit")),
		goalH:        handler.NewGoalHandler(goalStore, profileStore, awarder, hub, logger.With("component", "goal")),
		todoH:        handler.NewTodoHandler(todoStore, profileStore, awarder, hub, logger.With("component", "todo")),
		profileH:     handler.NewProfileHandler(profileStore, awarder, hub, logger.With("component", "profile")),
		titleH:       handler.NewTitleHandler(titleStore, awarder, logger.With("component", "title")),
		calendarH:    handler.NewCalendarHandler(habitStore, logger.With("component", "calendar")),
		socialH:      handler.NewSocialHandler(profileStore, titleStore, socialStore, logger.With("component", "social")),
		pushH:        handler.NewPushHandler(pushStore, pushSvc, logger.With("component", "push_handler")),
		sessionStore: sessionStore,
		rateLimiter:  middleware.NewRateLimiter(),
		logger:       logger,
	}
}

// SessionStore returns the session store for cleanup tasks.
func (s *Server) SessionStore() *store.SessionStore {
	return s.sessionStore
}

// RateLimiter returns the rate limiter for cleanup tasks.
func (s *Server) RateLimiter() *middleware.RateLimiter {
	return s.rateLimiter
}

func (s *Server) Router() http.Handler {
	outerMux := http.NewServeMux()

	// Public routes (no auth required)
	outerMux.HandleFunc("POST /register", s.rateLimitedHandler(s.authH.Register))
	outerMux.HandleFunc("POST /login", s.rateLimitedHandler(s.authH.Login))
	outerMux.HandleFunc("GET /health", s.healthHandler)

	// Protected routes — wrapped with RequireAuth middleware
	protectedMux := http.NewServeMux()
	s.registerProtectedRoutes(protectedMux)

	authMiddleware := middleware.RequireAuth(s.sessionStore)
	outerMux.Handle("/", authMiddleware(protectedMux))

	return middleware.RequestLogger(s.logger.With("component", "http"))(outerMux)
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

func (s *Server) rateLimitedHandler(h http.HandlerFunc) http.HandlerFunc {
	keyFunc := func(r *http.Request) string {
		return middleware.RealIP(r)
	}
	rl := middleware.RateLimit(s.rateLimiter, keyFunc, middleware.AuthRateLimit, middleware.AuthRateWindow)
	return func(w http.ResponseWriter, r *http.Request) {
		rl(http.HandlerFunc(h)).ServeHTTP(w, r)
	}
}

func (s *Server) registerProtectedRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /logout", s.authH.Logout)
	mux.HandleFunc("GET /api/me", s.authH.Me)

	// Habit API routes
	mux.HandleFunc("GET /api/habits", s.habitH.List)
	mux.HandleFunc("POST /api/habits", s.habitH.Create)
	mux.HandleFunc("PUT /api/habits/{id}", s.habitH.Update)
	mux.HandleFunc("DELETE /api/habits/{id}", s.habitH.Delete)
	mux.HandleFunc("POST /api/habits/{id}/toggle", s.habitH.Toggle)

	// Goal API routes
	mux.HandleFunc("GET /api/goals", s.goalH.List)
	mux.HandleFunc("POST /api/goals", s.goalH.Create)
	mux.HandleFunc("PUT /api/goals/{id}", s.goalH.Update)
	mux.HandleFunc("DELETE /api/goals/{id}", s.goalH.Delete)
	mux.HandleFunc("POST /api/goals/{id}/toggle", s.goalH.Toggle)

	// Todo API routes
	mux.HandleFunc("GET /api/todos", s.todoH.List)
	mux.HandleFunc("POST /api/todos", s.todoH.Create)
	mux.HandleFunc("PUT /api/todos/{id}", s.todoH.Update)
	mux.HandleFunc("DELETE /api/todos/{id}", s.todoH.Delete)
	mux.HandleFunc("POST /api/todos/{id}/toggle", s.todoH.Toggle)

	// Profile and stats
	mux.HandleFunc("GET /api/profile", s.profileH.Get)
	mux.HandleFunc("PUT /api/profile", s.profileH.Save)
	mux.HandleFunc("POST /api/profile/dream/achieve", s.profileH.AchieveDream)
	mux.HandleFunc("GET /api/stats", s.profileH.Stats)

	// Titles
	mux.HandleFunc("GET /api/titles", s.titleH.List)
	mux.HandleFunc("POST /api/titles/evaluate", s.titleH.Evaluate)

	// Calendar
	mux.HandleFunc("GET /api/calendar", s.calendarH.Month)

	// Social
	mux.HandleFunc("GET /api/users/search", s.socialH.Search)
	mux.HandleFunc("GET /api/following", s.socialH.Following)
	mux.HandleFunc("POST /api/following/{uid}", s.socialH.Follow)
	mux.HandleFunc("DELETE /api/following/{uid}", s.socialH.Unfollow)

	// Push notifications
	mux.HandleFunc("POST /api/push/subscribe", s.pushH.Subscribe)
	mux.HandleFunc("GET /api/push/subscriptions", s.pushH.ListSubscriptions)
	mux.HandleFunc("DELETE /api/push/subscriptions/{id}", s.pushH.Unsubscribe)
	mux.HandleFunc("GET /api/push/vapid-key", s.pushH.VAPIDKey)

	// WebSocket
	mux.HandleFunc("GET /ws", ws.HandleWebSocket(s.hub))
}
