// @title Iftar Gather API
// @version 1.0
// @description Backend for organizing iftar gatherings: events, share links, invitations, and attendance.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
package main

import (
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"time"

	_ "github.com/lib/pq"

	"iftargather/config"
	_ "iftargather/docs"
	authadapter "iftargather/internal/adapters/auth"
	emailadapter "iftargather/internal/adapters/email"
	"iftargather/internal/delivery/http/controllers"
	"iftargather/internal/delivery/http/middleware"
	"iftargather/internal/docstore"
	"iftargather/internal/docstore/appwrite"
	"iftargather/internal/docstore/memory"
	pgdocstore "iftargather/internal/docstore/postgres"
	docstorerepo "iftargather/internal/repository/docstore"
	"iftargather/internal/services"
	"iftargather/internal/store"

	httpdelivery "iftargather/internal/delivery/http"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	logger := config.NewLogger()

	ds, cleanup, err := newDocstore(cfg)
	if err != nil {
		logger.Error("docstore init failed", "backend", cfg.DocstoreBackend, "err", err)
		os.Exit(1)
	}
	defer cleanup()
	logger.Info("document store ready", "backend", cfg.DocstoreBackend)

	eventRepo := docstorerepo.NewEventRepository(ds)
	attendeeRepo := docstorerepo.NewAttendeeRepository(ds)
	invitationRepo := docstorerepo.NewInvitationRepository(ds)
	userRepo := docstorerepo.NewUserRepository(ds)

	issuer, verifier := authadapter.NewJWTCodec(cfg.JWTSecret)
	sessions := store.NewSessionCache(verifier)

	mailer, err := emailadapter.NewMailer(emailadapter.MailerConfig{
		Provider:    cfg.EmailProvider,
		FromAddress: cfg.EmailFromAddress,
		FromName:    cfg.EmailFromName,
		SES: emailadapter.SESConfig{
			Region:          cfg.AWSRegion,
			AccessKeyID:     cfg.AWSAccessKeyID,
			SecretAccessKey: cfg.AWSSecretKey,
		},
	})
	if err != nil {
		logger.Error("mailer init failed", "err", err)
		os.Exit(1)
	}

	eventSvc := services.NewEventService(eventRepo, attendeeRepo, invitationRepo, logger)
	emailSvc := services.NewEmailService(mailer, emailadapter.NewTemplateRenderer(), logger)
	invitationSvc := services.NewInvitationService(invitationRepo, eventRepo, userRepo, eventSvc, emailSvc, cfg.PublicBaseURL, logger)
	authSvc := services.NewAuthService(userRepo, issuer, time.Duration(cfg.JWTExpiryHours)*time.Hour)
	calendarSvc := services.NewCalendarService(eventSvc, logger)

	router := httpdelivery.NewRouter(
		logger,
		sessions,
		controllers.NewAuthController(logger, authSvc),
		controllers.NewEventController(logger, eventSvc, authSvc),
		controllers.NewInvitationController(logger, invitationSvc, eventSvc, authSvc),
		controllers.NewCalendarController(logger, calendarSvc),
	)

	handler := middleware.CORS(cfg.CORSAllowedOrigins, middleware.LoggingMiddleware(logger, router))

	addr := ":" + cfg.Port
	logger.Info("server listening", "addr", addr, "env", cfg.Environment)
	if err := http.ListenAndServe(addr, handler); err != nil {
		logger.Error("server stopped", "err", err)
		os.Exit(1)
	}
}

// newDocstore builds the configured document store backend and returns a
// cleanup func for resources that need closing.
func newDocstore(cfg *config.Config) (docstore.Store, func(), error) {
	switch cfg.DocstoreBackend {
	case "appwrite":
		ds := appwrite.New(appwrite.Config{
			Endpoint:   cfg.AppwriteEndpoint,
			ProjectID:  cfg.AppwriteProjectID,
			APIKey:     cfg.AppwriteAPIKey,
			DatabaseID: cfg.AppwriteDatabaseID,
		}, &http.Client{Timeout: 30 * time.Second})
		return ds, func() {}, nil
	case "postgres":
		db, err := sql.Open("postgres", cfg.DBUrl)
		if err != nil {
			return nil, nil, fmt.Errorf("open postgres: %w", err)
		}
		if err := db.Ping(); err != nil {
			db.Close()
			return nil, nil, fmt.Errorf("ping postgres: %w", err)
		}
		return pgdocstore.New(db), func() { db.Close() }, nil
	case "memory":
		return memory.New(), func() {}, nil
	default:
		return nil, nil, fmt.Errorf("unknown docstore backend %q", cfg.DocstoreBackend)
	}
}
