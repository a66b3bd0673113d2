package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	authevents "github.com/resumekit/resumekit-backend/internal/auth/events"
	authhandler "github.com/resumekit/resumekit-backend/internal/auth/handler"
	"github.com/resumekit/resumekit-backend/internal/auth/jwt"
	authrepo "github.com/resumekit/resumekit-backend/internal/auth/repository"
	authservice "github.com/resumekit/resumekit-backend/internal/auth/service"
	profilehandler "github.com/resumekit/resumekit-backend/internal/profile/handler"
	profilerepo "github.com/resumekit/resumekit-backend/internal/profile/repository"
	profileservice "github.com/resumekit/resumekit-backend/internal/profile/service"
	"github.com/resumekit/resumekit-backend/internal/resume/consumers"
	resumeevents "github.com/resumekit/resumekit-backend/internal/resume/events"
	resumehandler "github.com/resumekit/resumekit-backend/internal/resume/handler"
	"github.com/resumekit/resumekit-backend/internal/resume/parser"
	resumerepo "github.com/resumekit/resumekit-backend/internal/resume/repository"
	resumeservice "github.com/resumekit/resumekit-backend/internal/resume/service"
	"github.com/resumekit/resumekit-backend/pkg/config"
	"github.com/resumekit/resumekit-backend/pkg/database"
	"github.com/resumekit/resumekit-backend/pkg/httputil"
	"github.com/resumekit/resumekit-backend/pkg/logger"
	"github.com/resumekit/resumekit-backend/pkg/messaging"
	"github.com/resumekit/resumekit-backend/pkg/objectstore"
)

const (
	serviceName            = "resumekit-api"
	requestTimeout         = 60 * time.Second
	sessionCleanupInterval = time.Hour
)

func main() {
	// Load configuration
	cfg, err := config.LoadWithValidation(serviceName)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(serviceName, cfg.Server.Environment)
	log.Info().Msg("starting ResumeKit API")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Connect to database
	db, err := database.New(&cfg.Database, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	if cfg.Database.AutoMigrate {
		if err := db.ApplySchema(ctx); err != nil {
			log.Fatal().Err(err).Msg("failed to apply schema")
		}
		log.Info().Msg("database schema applied")
	}

	store, err := objectstore.New(ctx, &cfg.Storage, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize object store")
	}

	// Messaging is optional; without it events are skipped and stored files of
	// deleted accounts are not cleaned up.
	var (
		rmq             *messaging.RabbitMQ
		accountEvents   *authevents.AccountEventPublisher
		resumeEvents    *resumeevents.ResumeEventPublisher
		cleanupConsumer *consumers.AccountCleanupConsumer
	)
	if cfg.RabbitMQ.Enabled {
		rmq, err = messaging.New(&cfg.RabbitMQ, log)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to RabbitMQ")
		}
		defer rmq.Close()

		if err := rmq.DeclareDeadLetterQueue(serviceName); err != nil {
			log.Fatal().Err(err).Msg("failed to declare dead letter queue")
		}
		if accountEvents, err = authevents.NewAccountEventPublisher(rmq, log); err != nil {
			log.Fatal().Err(err).Msg("failed to create account event publisher")
		}
		if resumeEvents, err = resumeevents.NewResumeEventPublisher(rmq, log); err != nil {
			log.Fatal().Err(err).Msg("failed to create resume event publisher")
		}
		if cleanupConsumer, err = consumers.NewAccountCleanupConsumer(rmq, store, log); err != nil {
			log.Fatal().Err(err).Msg("failed to create account cleanup consumer")
		}
		if err := cleanupConsumer.Start(ctx); err != nil {
			log.Fatal().Err(err).Msg("failed to start account cleanup consumer")
		}
	} else {
		log.Warn().Msg("RabbitMQ disabled; events are not published")
	}

	// Initialize repositories
	accountRepo := authrepo.NewAccountRepository(db)
	sessionRepo := authrepo.NewSessionRepository(db)
	profileRepo := profilerepo.NewProfileRepository(db)
	tailoringRepo := resumerepo.NewTailoringRepository(db)
	entries := resumerepo.NewEntries(db)

	parsers := parser.DefaultRegistry()
	if _, err := parsers.Get(cfg.Parser.Default); err != nil {
		log.Fatal().Err(err).Strs("available", parsers.Names()).Msg("invalid default parser")
	}

	// Initialize services
	jwtManager := jwt.NewManager(&cfg.JWT)
	authService := authservice.NewAuthService(accountRepo, sessionRepo, jwtManager, accountEvents, log)
	profileService := profileservice.NewProfileService(profileRepo, log)
	resumeService := resumeservice.NewResumeService(tailoringRepo, store, parsers, resumeEvents, cfg, log)
	editor := resumeservice.NewEditor(tailoringRepo, entries, log)
	renderService := resumeservice.NewRenderService(tailoringRepo, entries, profileService, log)

	janitor := authservice.NewSessionJanitor(sessionRepo, sessionCleanupInterval, log)
	janitor.Start(ctx)
	defer janitor.Stop()

	// Initialize handlers
	authHandler := authhandler.NewAuthHandler(authService, log)
	profileHandler := profilehandler.NewProfileHandler(profileService, log)
	resumeHandler := resumehandler.NewResumeHandler(resumeService, editor, renderService, cfg.Upload.MaxBytes, log)
	authenticate := authhandler.Authenticate(jwtManager, log)

	r := chi.NewRouter()

	r.Use(middleware.RealIP)
	r.Use(httputil.RequestID)
	r.Use(httputil.Logger(log))
	r.Use(httputil.Recoverer(log))
	r.Use(middleware.Timeout(requestTimeout))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.Server.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"Content-Disposition", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		status := map[string]interface{}{
			"status":   "healthy",
			"service":  serviceName,
			"database": db.Health(r.Context()),
			"parsers":  parsers.Names(),
		}
		if rmq != nil {
			status["rabbitmq"] = rmq.Health()
		}
		httputil.JSON(w, http.StatusOK, status)
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			authHandler.RegisterRoutes(r, authenticate)
		})

		r.Group(func(r chi.Router) {
			r.Use(authenticate)
			r.Route("/profile", profileHandler.RegisterRoutes)
			r.Route("/tailorings", resumeHandler.RegisterRoutes)
		})
	})

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		log.Info().Str("addr", addr).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server stopped")
}
