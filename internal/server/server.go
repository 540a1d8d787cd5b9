package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/salesdesk/apiserver/config"
	"github.com/salesdesk/apiserver/internal/db"
	"github.com/salesdesk/apiserver/internal/handlers"
	"github.com/salesdesk/apiserver/internal/mq"
	"github.com/salesdesk/apiserver/internal/services"
	"github.com/salesdesk/apiserver/internal/storage"
	"github.com/salesdesk/apiserver/internal/store"
)

// Server wraps the HTTP server and router.
type Server struct {
	httpServer *http.Server
	router     *chi.Mux
	db         *sql.DB
	events     *mq.MQ
}

// New constructs a Server with all repositories, services and routes wired.
func New(ctx context.Context, cfg config.Config) (*Server, error) {
	dbConn, err := db.Open(ctx, cfg)
	if err != nil {
		return nil, err
	}

	userRepo := store.NewUserRepository(dbConn)
	orderRepo := store.NewOrderRepository(dbConn)
	configRepo := store.NewReportConfigRepository(dbConn)

	extractArchive, err := newExtractArchive(ctx, cfg.Storage)
	if err != nil {
		_ = dbConn.Close()
		return nil, err
	}
	events, err := newEventBroker(ctx, cfg.MQ)
	if err != nil {
		_ = dbConn.Close()
		return nil, err
	}

	// Interface vars stay nil when a backend is disabled; a typed nil
	// pointer would defeat the nil checks in the ingestion service.
	var archiver services.Archiver
	if extractArchive != nil {
		archiver = extractArchive
	}
	var publisher services.EventPublisher
	if events != nil {
		publisher = events
	}

	credentialService := services.NewCredentialService(userRepo)
	ingestionService := services.NewIngestionService(orderRepo, archiver, publisher)
	retentionService := services.NewRetentionService(orderRepo)
	reportingService := services.NewReportingService(orderRepo)
	reportConfigService := services.NewReportConfigService(configRepo)

	jwtSecret := strings.TrimSpace(os.Getenv("JWT_SECRET"))
	if jwtSecret == "" {
		_ = dbConn.Close()
		return nil, errors.New("JWT_SECRET is required")
	}

	authMiddleware := handlers.RequireAuth(jwtSecret)

	router := chi.NewRouter()
	router.Use(
		middleware.RequestID,
		middleware.RealIP,
		middleware.Recoverer,
		middleware.Logger,
		middleware.Timeout(60*time.Second),
	)
	router.Get("/healthz", handlers.Healthz)
	router.Route("/auth", func(r chi.Router) {
		handlers.AuthRouter(r, credentialService, jwtSecret)
	})
	router.Route("/users", func(r chi.Router) {
		handlers.UsersRouter(r, credentialService, authMiddleware)
	})
	router.Route("/imports", func(r chi.Router) {
		handlers.ImportsRouter(r, ingestionService, retentionService, authMiddleware)
	})
	router.Route("/orders", func(r chi.Router) {
		handlers.OrdersRouter(r, retentionService, authMiddleware)
	})
	router.Route("/reports", func(r chi.Router) {
		handlers.ReportsRouter(r, reportingService, reportConfigService, authMiddleware)
	})

	port := cfg.ServerPort
	if port == 0 {
		port = 8080
	}

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return &Server{
		httpServer: httpServer,
		router:     router,
		db:         dbConn,
		events:     events,
	}, nil
}

// Router exposes the chi router for route registration.
func (s *Server) Router() *chi.Mux {
	return s.router
}

// Start runs the HTTP server.
func (s *Server) Start() error {
	return s.httpServer.ListenAndServe()
}

// Shutdown attempts a graceful shutdown.
func (s *Server) Shutdown() error {
	if s.db != nil {
		_ = s.db.Close()
	}
	if s.events != nil {
		_ = s.events.Close()
	}
	return s.httpServer.Close()
}

func newExtractArchive(ctx context.Context, cfg config.StorageConfig) (*storage.Storage, error) {
	switch cfg.Backend {
	case "", "none":
		return nil, nil
	case "minio":
		client, err := storage.NewMinioClient(cfg.Minio)
		if err != nil {
			return nil, err
		}
		archive := storage.NewStorage(client)
		if err := archive.EnsureBucket(ctx); err != nil {
			return nil, err
		}
		return archive, nil
	case "gcs":
		client, err := storage.NewGCSClient(ctx, cfg.GCS)
		if err != nil {
			return nil, err
		}
		archive := storage.NewStorage(client)
		if err := archive.EnsureBucket(ctx); err != nil {
			return nil, err
		}
		return archive, nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}
}

func newEventBroker(ctx context.Context, cfg config.MQConfig) (*mq.MQ, error) {
	switch cfg.Backend {
	case "", "none":
		return nil, nil
	case "rabbitmq":
		client, err := mq.NewRabbitMQClient(cfg.RabbitMQ)
		if err != nil {
			return nil, err
		}
		return mq.New(client), nil
	case "pubsub":
		client, err := mq.NewPubSubClient(ctx, cfg.PubSub)
		if err != nil {
			return nil, err
		}
		return mq.New(client), nil
	default:
		return nil, fmt.Errorf("unknown mq backend %q", cfg.Backend)
	}
}
