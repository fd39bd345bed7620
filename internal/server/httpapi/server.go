// Package httpapi exposes the ads, users, session and photo services over
// a chi router mounted under /api.
package httpapi

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/dmitrijs2005/donadmin/internal/logging"
	"github.com/dmitrijs2005/donadmin/internal/server/models"
	"github.com/dmitrijs2005/donadmin/internal/server/services"
)

type AdService interface {
	List(ctx context.Context) ([]*models.Ad, error)
	Get(ctx context.Context, id string) (*models.Ad, error)
	Create(ctx context.Context, ownerID string, ad *models.Ad) (*models.Ad, error)
	Update(ctx context.Context, id string, ad *models.Ad) (*models.Ad, error)
	Delete(ctx context.Context, id string) error
}

type UserService interface {
	List(ctx context.Context) ([]*models.User, error)
	Get(ctx context.Context, id string) (*models.User, error)
	Create(ctx context.Context, in services.UserInput) (*models.User, error)
	Update(ctx context.Context, id string, in services.UserInput) (*models.User, error)
	Delete(ctx context.Context, id string) error
	Authenticate(ctx context.Context, email, password string) (*models.User, string, error)
	UserIDFromToken(token string) (string, error)
	SessionValidity() time.Duration
}

type PhotoService interface {
	SignedTarget(ctx context.Context, contentType string) (*services.UploadTarget, error)
	Delete(ctx context.Context, key string) error
}

type Server struct {
	address string
	ads     AdService
	users   UserService
	photos  PhotoService
	logger  logging.Logger
	// shutdownTimeout bounds how long Run waits for in-flight requests.
	shutdownTimeout time.Duration
}

func NewServer(addr string, l logging.Logger, ads AdService, users UserService, photos PhotoService, shutdownTimeout time.Duration) *Server {
	return &Server{
		address:         addr,
		ads:             ads,
		users:           users,
		photos:          photos,
		logger:          l.With("module", "http_server"),
		shutdownTimeout: shutdownTimeout,
	}
}

// Router builds the handler tree.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.GetHead)
	r.Use(s.logRequests)

	r.Route("/api", func(api chi.Router) {
		api.Get("/ads", s.listAds)
		api.Get("/ads/{id}", s.getAd)
		api.Post("/userSession", s.login)
		api.Delete("/userSession", s.logout)

		api.Group(func(priv chi.Router) {
			priv.Use(s.requireSession)

			priv.Post("/ads", s.createAd)
			priv.Put("/ads/{id}", s.updateAd)
			priv.Delete("/ads/{id}", s.deleteAd)

			priv.Get("/users", s.listUsers)
			priv.Post("/users", s.createUser)
			priv.Get("/users/{id}", s.getUser)
			priv.Put("/users/{id}", s.updateUser)
			priv.Delete("/users/{id}", s.deleteUser)

			priv.Post("/adsPhotos", s.signPhoto)
			priv.Delete("/adsPhotos/{key}", s.deletePhoto)
		})
	})

	return r
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error(ctx, "shutdown", "error", err)
		}
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", listen.Addr().String())

	if err := srv.Serve(listen); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
