// Package web is the HTTP surface of the server: a chi router serving a
// small JSON API plus server-rendered login pages.
package web

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/gotofast/logistics/internal/logging"
	"github.com/gotofast/logistics/internal/server/config"
	"github.com/gotofast/logistics/internal/server/metrics"
	"github.com/gotofast/logistics/internal/server/models"
	"github.com/gotofast/logistics/internal/server/principal"
	"github.com/gotofast/logistics/internal/server/services"
)

const (
	partnerLoginPath = "/partner/login"
	shutdownTimeout  = 10 * time.Second
)

type Accounts interface {
	LoginAdmin(ctx context.Context, username, password string) (string, error)
	LoginPartner(ctx context.Context, phone, password string) (string, error)
	Authenticate(ctx context.Context, cookie string) (principal.Principal, error)
	Logout(ctx context.Context, cookie string) error
	CreatePartner(ctx context.Context, in services.NewPartner) (*models.DeliveryPartner, error)
}

type ContactSettings interface {
	List(ctx context.Context) ([]models.ContactSetting, error)
	Update(ctx context.Context, key, value string) error
}

type Documents interface {
	RequestUpload(ctx context.Context, partnerID int64, kind string) (*models.DocumentUploadTask, error)
	List(ctx context.Context, partnerID int64) ([]models.Document, error)
}

// Pinger is satisfied by *sql.DB.
type Pinger interface {
	PingContext(ctx context.Context) error
}

type Server struct {
	address   string
	cfg       *config.Config
	accounts  Accounts
	contacts  ContactSettings
	documents Documents
	db        Pinger
	metrics   *metrics.Metrics
	logger    logging.Logger
	router    http.Handler
}

func NewServer(cfg *config.Config, l logging.Logger, m *metrics.Metrics, db Pinger,
	accounts Accounts, contacts ContactSettings, documents Documents) *Server {
	s := &Server{
		address:   cfg.ListenAddr,
		cfg:       cfg,
		accounts:  accounts,
		contacts:  contacts,
		documents: documents,
		db:        db,
		metrics:   m,
		logger:    l.With("module", "http_server"),
	}
	s.router = s.routes()
	return s
}

// Handler returns the fully wired router.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	if s.cfg.TrustProxy {
		r.Use(TrustOneProxy)
	}
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(s.metrics.Instrument)
	if len(s.cfg.CORSAllowedOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   s.cfg.CORSAllowedOrigins,
			AllowedMethods:   []string{"GET", "POST", "PUT", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-Id"},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}

	r.Get("/healthz", s.handleHealth)
	r.Method(http.MethodGet, "/metrics", s.metrics.Handler())
	r.Get("/contact", s.handleContact)

	limiter := RateLimiter(RateLimitConfig{
		RequestsPerSecond: s.cfg.LoginRatePerSecond,
		Burst:             s.cfg.LoginBurst,
	})
	admin := s.adminLogin()
	partner := s.partnerLogin()

	// A login attempt replaces whatever session the cookie names, so it
	// is not resolved first.
	r.With(limiter).Post(admin.path, s.handleLogin(admin))
	r.With(limiter).Post(partner.path, s.handleLogin(partner))

	r.Group(func(r chi.Router) {
		r.Use(s.session)

		r.Get(admin.path, s.handleLoginPage(admin))
		r.Get(partner.path, s.handleLoginPage(partner))
		r.Post("/logout", s.handleLogout)

		r.With(RequireKind(s.cfg.LoginPath)).Get("/me", s.handleMe)

		r.Group(func(r chi.Router) {
			r.Use(RequireKind(s.cfg.LoginPath, principal.KindAdmin))
			r.Put("/admin/contact-settings/{key}", s.handleUpdateContact)
			r.Post("/admin/partners", s.handleCreatePartner)
		})

		r.Group(func(r chi.Router) {
			r.Use(RequireKind(partnerLoginPath, principal.KindPartner))
			r.Post("/partner/documents", s.handleRequestUpload)
			r.Get("/partner/documents", s.handleListDocuments)
		})
	})

	return r
}

// Run serves HTTP until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	shutdownDone := make(chan error, 1)
	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		shutdownDone <- srv.Shutdown(shutdownCtx)
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", listen.Addr().String())

	if err := srv.Serve(listen); !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return <-shutdownDone
}
