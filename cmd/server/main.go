package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/reservat/storefront/internal/chat"
	"github.com/reservat/storefront/internal/config"
	"github.com/reservat/storefront/internal/intake"
	httpserver "github.com/reservat/storefront/internal/interfaces/http"
	"github.com/reservat/storefront/internal/metrics"
	"github.com/reservat/storefront/internal/models"
	"github.com/reservat/storefront/internal/notification"
	"github.com/reservat/storefront/internal/proposal"
	"github.com/reservat/storefront/internal/repository"
	"github.com/reservat/storefront/internal/simulation"
	"github.com/reservat/storefront/internal/storefront"
	"github.com/reservat/storefront/pkg/database"
	"github.com/reservat/storefront/pkg/utils"
)

func main() {
	// Load configuration
	cfg, err := config.Load("configs/config.yaml")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	logger, err := utils.NewLogger(utils.LoggerConfig{
		Level:      cfg.Logger.Level,
		OutputPath: cfg.Logger.OutputPath,
		Format:     cfg.Logger.Format,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("Starting ReservaT storefront",
		zap.String("version", "1.0.0"),
		zap.Int("port", cfg.Server.Port))

	// Initialize database
	db, err := database.New(database.Config{
		Path:            cfg.Database.Path,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
	}, logger)
	if err != nil {
		logger.Fatal("Failed to initialize database", zap.Error(err))
	}
	defer db.Close()

	// Run migrations
	migrator := database.NewMigrator(db, logger)
	if err := migrator.RunMigrations(cfg.Database.MigrationsDir); err != nil {
		logger.Fatal("Failed to run database migrations", zap.Error(err))
	}

	// Initialize repositories
	serviceRepo := repository.NewServiceRepository(db.DB, logger)
	userRepo := repository.NewUserRepository(db.DB, logger)
	reservationRepo := repository.NewReservationRepository(db.DB, logger)

	// Initialize storefront services
	catalog := storefront.NewCatalog(serviceRepo, logger)
	auth := storefront.NewAuth(userRepo, logger)
	cart := storefront.NewCart(catalog, logger)
	reservations := storefront.NewReservations(db, reservationRepo, cart, logger)

	// Initialize proposal pipeline
	renderer := proposal.NewRenderer(proposal.Config{
		AgencyName:   cfg.Agency.Name,
		DocumentLogo: cfg.Agency.DocumentLogo,
		Website:      cfg.Agency.Website,
		WhatsApp:     cfg.Agency.WhatsApp,
	})
	pdfExporter := proposal.NewPDFExporter(logger)
	excelExporter := proposal.NewExcelExporter(logger)

	// Initialize metrics
	m := metrics.New()

	// Initialize advisor notifications (optional)
	var notifier *notification.AdvisorNotifier
	twilioCfg := notification.Config{
		AccountSID:    cfg.Twilio.AccountSID,
		AuthToken:     cfg.Twilio.AuthToken,
		FromNumber:    cfg.Twilio.FromNumber,
		AdvisorNumber: cfg.Twilio.AdvisorNumber,
	}
	if twilioCfg.Enabled() {
		notifier = notification.NewAdvisorNotifier(twilioCfg, logger)
		logger.Info("Advisor WhatsApp notifications enabled")
	} else {
		logger.Info("Advisor WhatsApp notifications disabled")
	}

	// Each completed simulation yields a proposal; count it and alert the
	// advisor so a human follows up on the lead.
	resultHook := func(sessionID string, p models.TravelerProfile, doc models.ProposalDocument) {
		m.ProposalsTotal.Inc()
		if notifier == nil {
			return
		}
		if err := notifier.ProposalReady(sessionID, p, doc); err != nil {
			logger.Error("Failed to notify advisor",
				zap.String("session_id", sessionID), zap.Error(err))
		}
	}

	// Initialize intake sessions
	sessions := intake.NewManager(intake.ManagerConfig{
		SessionTTL:    cfg.Intake.SessionTTL,
		SweepInterval: cfg.Intake.SweepInterval,
	}, renderer, simulation.DefaultStages, resultHook, logger)
	defer sessions.Close()

	// Initialize chat assistant
	assistant := chat.NewAssistant(chat.Config{
		APIKey:     cfg.OpenAI.APIKey,
		Model:      cfg.OpenAI.Model,
		MaxHistory: cfg.OpenAI.MaxHistory,
	}, logger)

	// Initialize HTTP server
	server := httpserver.NewServer(httpserver.ServerConfig{
		Host:         cfg.Server.Host,
		Port:         cfg.Server.Port,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}, httpserver.Services{
		Sessions:     sessions,
		PDF:          pdfExporter,
		Excel:        excelExporter,
		Catalog:      catalog,
		Auth:         auth,
		Cart:         cart,
		Reservations: reservations,
		Assistant:    assistant,
		Metrics:      m,
	}, logger)

	// Run until interrupted
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := server.Start(ctx); err != nil {
		logger.Fatal("HTTP server failed", zap.Error(err))
	}

	logger.Info("Server shut down")
}
