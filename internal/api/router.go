package api

import (
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"

	"forgefit/internal/auth"
	"forgefit/internal/config"
	"forgefit/internal/db"
)

type Server struct {
	router *chi.Mux
	config *config.Config
}

func NewServer(
	cfg *config.Config,
	database *db.DB,
	mailer LinkMailer,
) (*Server, error) {
	users := db.NewUserRepository(database)
	links := db.NewMagicLinkRepository(database)
	programs := db.NewProgramRepository(database)
	progress := db.NewProgressRepository(database)
	videos := db.NewVideoRepository(database)

	jwtService := auth.NewJWTService(cfg.Auth.JWTSecret, cfg.Auth.SessionTokenTTL)
	linkService := auth.NewMagicLinkService(cfg.Auth.LinkTTL)

	ipResolver, err := NewClientIPResolver(cfg.Server.TrustedProxies)
	if err != nil {
		return nil, fmt.Errorf("initializing client IP resolver: %w", err)
	}

	sendLinkLimiter := NewRateLimiter(5, time.Minute)
	verifyLimiter := NewRateLimiter(10, time.Minute)
	pollLimiter := NewRateLimiter(60, time.Minute)

	authHandler := NewAuthHandler(
		users,
		links,
		jwtService,
		linkService,
		mailer,
		cfg.Server.BaseURL,
		cfg.Production(),
	)
	programHandler := NewProgramHandler(programs, progress)
	videoHandler := NewVideoHandler(videos)
	healthHandler := NewHealthHandler(database)

	pageHandler, err := NewPageHandler(programs, cfg.Server.Name)
	if err != nil {
		return nil, fmt.Errorf("initializing page templates: %w", err)
	}

	authMiddleware := NewAuthMiddleware(jwtService)

	r := chi.NewRouter()
	r.Use(slogRequestLogger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RealIP)
	r.Use(httprate.LimitByIP(300, time.Minute))
	r.Use(corsMiddleware(cfg.Server.AllowedOrigins))
	r.Use(securityHeadersMiddleware)

	r.Get("/health", healthHandler.Check)

	r.Get("/", pageHandler.Catalog)
	r.Get("/programs/{programId}", pageHandler.Program)
	r.Get("/auth/verify", pageHandler.Verify)

	r.Route("/api", func(r chi.Router) {
		r.Use(maxBodySizeMiddleware(1 << 20)) // 1 MB

		r.Route("/auth", func(r chi.Router) {
			r.With(RateLimitMiddleware(sendLinkLimiter, ipResolver)).Post("/send-link", authHandler.SendLink)
			r.With(RateLimitMiddleware(verifyLimiter, ipResolver)).Post("/verify-link", authHandler.VerifyLink)
			r.With(RateLimitMiddleware(pollLimiter, ipResolver)).Post("/check-session", authHandler.CheckSession)
			r.Post("/logout", authHandler.Logout)

			r.Group(func(r chi.Router) {
				r.Use(authMiddleware.RequireAuth)
				r.Get("/me", authHandler.Me)
			})
		})

		r.Route("/programs", func(r chi.Router) {
			r.Get("/", programHandler.List)
			r.Post("/", programHandler.Create)

			r.Group(func(r chi.Router) {
				r.Use(authMiddleware.RequireAuth)
				r.Post("/enroll", programHandler.Enroll)
				r.Get("/active", programHandler.Active)
				r.Post("/abandon", programHandler.Abandon)
			})

			r.Get("/{programId}", programHandler.Get)
			r.Put("/{programId}", programHandler.Update)
			r.Delete("/{programId}", programHandler.Delete)
		})

		r.Route("/exercise-videos", func(r chi.Router) {
			r.Get("/", videoHandler.Get)
			r.Post("/", videoHandler.Upsert)
		})
	})

	return &Server{
		router: r,
		config: cfg,
	}, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// corsMiddleware allows the configured origins plus loopback (for local
// development). Requests without an Origin header pass through untouched.
func corsMiddleware(allowedOrigins []string) func(http.Handler) http.Handler {
	allowed := make(map[string]struct{}, len(allowedOrigins))
	for _, origin := range allowedOrigins {
		allowed[strings.TrimRight(origin, "/")] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			if origin == "" {
				next.ServeHTTP(w, r)
				return
			}

			if _, ok := allowed[strings.TrimRight(origin, "/")]; !ok && !isLoopbackOrigin(origin) {
				writeError(w, http.StatusForbidden, ErrCodeInvalidRequest, "Origin not allowed")
				return
			}

			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Vary", "Origin")
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Authorization, Content-Type")

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func isLoopbackOrigin(origin string) bool {
	u, err := url.Parse(origin)
	if err != nil || u.Host == "" {
		return false
	}
	host := u.Hostname()
	if host == "localhost" {
		return true
	}
	if ip := net.ParseIP(host); ip != nil {
		return ip.IsLoopback()
	}
	return false
}

func maxBodySizeMiddleware(maxBytes int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
			next.ServeHTTP(w, r)
		})
	}
}

func securityHeadersMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("X-XSS-Protection", "1; mode=block")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
		next.ServeHTTP(w, r)
	})
}

func slogRequestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		slog.Info("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start).String(),
			"remote", r.RemoteAddr,
		)
	})
}
