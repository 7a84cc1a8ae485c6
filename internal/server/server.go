package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/emilythestrangee/civic-polls/backend/internal/auth"
	"github.com/emilythestrangee/civic-polls/backend/internal/database"
	"github.com/emilythestrangee/civic-polls/backend/internal/handlers"
	"github.com/emilythestrangee/civic-polls/backend/internal/middleware"
	"github.com/emilythestrangee/civic-polls/backend/internal/notify"
	"github.com/emilythestrangee/civic-polls/backend/internal/store"
)

// HealthChecker is an optional dependency reported by /health.
type HealthChecker interface {
	Health(ctx context.Context) map[string]string
}

// Options wires the router. Notifier, Redis and AuthLimiter may be nil.
type Options struct {
	DB           database.Service
	Store        *store.Store
	Sessions     *auth.Sessions
	Notifier     *notify.Notifier
	Redis        HealthChecker
	AuthLimiter  *middleware.IPRateLimiter
	CookieSecure bool
}

type Server struct {
	db       database.Service
	redis    HealthChecker
	sessions *auth.Sessions
	limiter  *middleware.IPRateLimiter
	handler  *handlers.Handler
}

// NewServer creates the HTTP server listening on port
func NewServer(port int, opts Options) *http.Server {
	router := NewRouter(opts)

	server := &http.Server{
		Addr:         fmt.Sprintf("0.0.0.0:%d", port),
		Handler:      router,
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	slog.Info("server configured", "port", port)
	return server
}

// NewRouter builds the gin engine with every route registered.
func NewRouter(opts Options) *gin.Engine {
	s := &Server{
		db:       opts.DB,
		redis:    opts.Redis,
		sessions: opts.Sessions,
		limiter:  opts.AuthLimiter,
		handler: handlers.NewHandler(handlers.Options{
			Store:        opts.Store,
			Sessions:     opts.Sessions,
			Notifier:     opts.Notifier,
			CookieSecure: opts.CookieSecure,
		}),
	}
	return s.RegisterRoutes()
}

// RegisterRoutes sets up all application routes
func (s *Server) RegisterRoutes() *gin.Engine {
	r := gin.Default()

	// CORS configuration
	r.Use(cors.New(cors.Config{
		AllowOriginFunc:  func(string) bool { return true },
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowHeaders:     []string{"Accept", "Authorization", "Content-Type", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/health", s.health)

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"status": http.StatusNotFound, "message": "Not Found"})
	})

	requireSession := middleware.RequireSession(s.sessions)

	api := r.Group("/api/v1")
	{
		authRoutes := api.Group("/auth")
		if s.limiter != nil {
			authRoutes.Use(middleware.RateLimit(s.limiter))
		}
		authRoutes.POST("/signup", s.handler.Auth.Signup)
		authRoutes.POST("/login", s.handler.Auth.Login)
		authRoutes.POST("/logout", s.handler.Auth.Logout)
		authRoutes.GET("/verify", requireSession, s.handler.Auth.Verify)

		orgs := api.Group("/organizations")
		orgs.POST("", s.handler.Organization.CreateOrganization)
		orgs.GET("", s.handler.Organization.GetOrganizations)
		orgs.GET("/:id", s.handler.Organization.GetOrganization)
		orgs.PATCH("/:id", s.handler.Organization.UpdateOrganization)
		orgs.DELETE("/:id", s.handler.Organization.DeleteOrganization)

		users := api.Group("/users")
		users.POST("", s.handler.User.CreateUser)
		users.GET("", s.handler.User.GetUsers)
		users.GET("/:id", s.handler.User.GetUser)
		users.PATCH("/:id", s.handler.User.UpdateUser)
		users.DELETE("/:id", s.handler.User.DeleteUser)

		memberships := api.Group("/memberships")
		memberships.POST("", s.handler.Membership.CreateMembership)
		memberships.GET("", s.handler.Membership.GetMemberships)
		memberships.DELETE("/:id", s.handler.Membership.DeleteMembership)

		// Polls require a session
		polls := api.Group("/polls")
		polls.Use(requireSession)
		{
			polls.POST("", s.handler.Poll.CreatePoll)
			polls.GET("", s.handler.Poll.GetPolls)
			polls.GET("/:id", s.handler.Poll.GetPoll)
			polls.PATCH("/:id", s.handler.Poll.UpdatePoll)
			polls.DELETE("/:id", s.handler.Poll.DeletePoll)
		}

		votes := api.Group("/votes")
		votes.POST("", s.handler.Vote.CastVote)
		votes.GET("", s.handler.Vote.GetVotes)
		votes.PATCH("/:id", s.handler.Vote.UpdateVote)
		votes.GET("/vote-totals/:pollId", s.handler.Vote.GetVoteTotals)
	}

	return r
}

// health reports the database and, when configured, redis.
func (s *Server) health(c *gin.Context) {
	status := http.StatusOK
	body := gin.H{}

	if s.db != nil {
		dbHealth := s.db.Health()
		if dbHealth["status"] != "up" {
			status = http.StatusServiceUnavailable
		}
		body["database"] = dbHealth
	}

	if s.redis != nil {
		redisHealth := s.redis.Health(c.Request.Context())
		if redisHealth["status"] != "up" {
			status = http.StatusServiceUnavailable
		}
		body["redis"] = redisHealth
	}

	body["status"] = http.StatusText(status)
	c.JSON(status, body)
}
