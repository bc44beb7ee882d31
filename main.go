package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm/logger"

	"github.com/rpupo63/portfolio-moderation-backend/api"
	"github.com/rpupo63/portfolio-moderation-backend/auth"
	"github.com/rpupo63/portfolio-moderation-backend/config"
	"github.com/rpupo63/portfolio-moderation-backend/database"
	"github.com/rpupo63/portfolio-moderation-backend/models"
	"github.com/rpupo63/portfolio-moderation-backend/services"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	log.Info().Msg("Initializing app...")

	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Warn().Msgf("Error loading .env file: %v", err)
	}

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	cfg := config.New()
	if prefix := config.GetString(cfg, "SSM_PARAMETER_PATH", ""); prefix != "" {
		params, err := config.LoadSSM(ctx, prefix)
		if err != nil {
			log.Fatal().Msgf("Error loading parameters from %s: %v", prefix, err)
		}
		cfg = config.Merge(cfg, params)
		log.Info().Msgf("Loaded %d parameters from %s", len(params), prefix)
	}

	dsn := config.GetString(cfg, "DATABASE_DSN", "")
	if dsn == "" {
		log.Fatal().Msg("DATABASE_DSN is not set. Exiting...")
	}

	logLevel := logger.Warn
	if config.GetBool(cfg, "DB_DEBUG", false) {
		logLevel = logger.Info
	}
	db, err := database.Open(database.Options{
		DSN:        dsn,
		ReplicaDSN: config.GetString(cfg, "DB_REPLICA_DSN", ""),
		LogLevel:   logLevel,
	})
	if err != nil {
		log.Fatal().Msgf("Error connecting to database: %v", err)
	}

	// If generating models, run generation and exit
	if config.GetBool(cfg, "GENERATE_MODELS", false) {
		log.Info().Msg("Generating models and query helpers...")
		models.GenerateModels(db)
		return
	}

	// If generating column mismatch report, run report and exit
	if config.GetBool(cfg, "GENERATE_COLUMN_REPORT", false) {
		log.Info().Msg("Generating column mismatch report...")
		models.GenerateColumnMismatchReportStandalone(db)
		return
	}

	if config.GetBool(cfg, "AUTO_MIGRATE", true) {
		if err := database.Migrate(db); err != nil {
			log.Fatal().Msgf("Error migrating database: %v", err)
		}
	}

	feed := database.NewChangeFeed()
	currentDB := database.New(db, feed)
	go listenForChanges(ctx, database.NewPGBridge(dsn, db, feed))

	provider, err := newAuthProvider(cfg)
	if err != nil {
		log.Fatal().Msgf("Error configuring authentication: %v", err)
	}

	opts := []api.Option{
		api.WithConfig(cfg),
		api.WithAuthProvider(provider),
		api.WithNotifier(newNotifier(cfg)),
	}
	if config.GetString(cfg, "PROPOSAL_BUCKET", "") != "" {
		proposals, err := services.NewProposalStore(ctx, cfg)
		if err != nil {
			log.Fatal().Msgf("Error configuring proposal storage: %v", err)
		}
		opts = append(opts, api.WithProposalStore(proposals))
	}

	errChannel := make(chan error)
	defer close(errChannel)

	server, err := api.NewServer(currentDB, opts...)
	if err != nil {
		log.Fatal().Msgf("Error initializing server: %v", err)
	}

	go server.Start(errChannel)

	// Listen for interrupt signals to gracefully shutdown the server
	go listenToInterrupt(errChannel)

	fatalErr := <-errChannel
	log.Info().Msgf("Closing server: %v", fatalErr)

	stop()
	server.ShutdownGracefully(30 * time.Second)
}

// listenForChanges keeps the cross-instance change bridge running, reconnecting
// with backoff until ctx is cancelled.
func listenForChanges(ctx context.Context, bridge *database.PGBridge) {
	backoff := time.Second
	for {
		err := bridge.Listen(ctx)
		if ctx.Err() != nil {
			return
		}
		log.Warn().Msgf("Change feed bridge stopped, retrying in %s: %v", backoff, err)

		select {
		case <-ctx.Done():
			return
		case <-time.After(backoff):
		}
		backoff = min(backoff*2, time.Minute)
	}
}

func newAuthProvider(cfg map[string]string) (auth.Provider, error) {
	switch strings.ToLower(config.GetString(cfg, "AUTH_PROVIDER", "token")) {
	case "descope":
		return auth.NewDescopeProvider(config.GetString(cfg, "DESCOPE_PROJECT_ID", ""))
	case "token":
		return auth.NewTokenProvider(
			config.GetString(cfg, "OPERATOR_EMAIL", ""),
			config.GetString(cfg, "OPERATOR_PASSWORD_HASH", ""),
			config.GetString(cfg, "SESSION_SECRET", ""),
			auth.WithTTL(config.GetDuration(cfg, "SESSION_TTL", 12*time.Hour)),
			auth.WithSecureCookie(config.GetBool(cfg, "COOKIE_SECURE", true)),
		)
	default:
		return nil, fmt.Errorf("unsupported AUTH_PROVIDER %q", config.GetString(cfg, "AUTH_PROVIDER", ""))
	}
}

// newNotifier wires whichever channels are configured. Missing channels are
// skipped, not fatal.
func newNotifier(cfg map[string]string) *services.Notifier {
	var mailer services.Mailer
	if sender, err := services.NewEmailSender(cfg); err != nil {
		log.Warn().Msgf("Email notifications disabled: %v", err)
	} else {
		mailer = sender
	}

	var texter services.Texter
	if sender, err := services.NewSMSSender(cfg); err != nil {
		log.Warn().Msgf("SMS notifications disabled: %v", err)
	} else {
		texter = sender
	}

	return services.NewNotifier(mailer, texter,
		config.GetString(cfg, "OPERATOR_EMAIL", ""),
		config.GetString(cfg, "OPERATOR_PHONE", ""),
	)
}

// listenToInterrupt waits for SIGINT or SIGTERM and then sends an error to the error channel.
func listenToInterrupt(errChannel chan<- error) {
	c := make(chan os.Signal, 1)
	signal.Notify(c, syscall.SIGINT, syscall.SIGTERM)
	errChannel <- fmt.Errorf("%s", <-c)
}
