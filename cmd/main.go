package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/bhoomika11-art/OIBSIP-pizza-app/docs" // Import generated docs
	"github.com/bhoomika11-art/OIBSIP-pizza-app/internal/auth"
	"github.com/bhoomika11-art/OIBSIP-pizza-app/internal/config"
	"github.com/bhoomika11-art/OIBSIP-pizza-app/internal/controllers"
	"github.com/bhoomika11-art/OIBSIP-pizza-app/internal/database"
	"github.com/bhoomika11-art/OIBSIP-pizza-app/internal/events"
	"github.com/bhoomika11-art/OIBSIP-pizza-app/internal/middleware"
	"github.com/bhoomika11-art/OIBSIP-pizza-app/internal/models"
	"github.com/bhoomika11-art/OIBSIP-pizza-app/internal/router"
	"github.com/bhoomika11-art/OIBSIP-pizza-app/internal/services"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// @title Pizza Storefront API
// @version 1.0
// @description Build a pizza, check out and follow the order from kitchen to door
// @host localhost:8080
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the access or ID token.
func main() {
	// Load environment variables
	loadDotenvFile()

	// Load configuration
	configuration := loadConfig()

	// Initialize logger
	setUpLogger(configuration)

	// Initialize database connection
	db := setupDatabase(configuration)

	verifiers := setupVerifiers(configuration)

	var transitions models.TransitionPolicy = models.AnyTransition
	if configuration.StrictTransitions {
		log.Info("Strict order status transitions enabled")
		transitions = models.StrictTransitions
	}

	if configuration.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := router.New(db, router.Options{
		JWTSecret:   configuration.JWTSecret,
		TokenTTL:    time.Duration(configuration.TokenTTLMinutes) * time.Minute,
		AdminEmails: configuration.AdminEmails,
		Transitions: transitions,
		Hub:         events.NewHub(),
		Verifiers:   verifiers,
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf("%v:%d", configuration.Host, configuration.Port),
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Start the server
	go func() {
		log.Infof("Starting server on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("Server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.WithError(err).Error("Graceful shutdown failed")
	}
	if sqlDB, err := db.DB(); err == nil {
		sqlDB.Close()
	}
	log.Info("Server stopped")
}

// checkPanicErr checks if an error occurred and panics if it did
func checkPanicErr(err error) {
	if err != nil {
		panic(err)
	}
}

// loadDotenvFile loads environment variables from a .env file
// If the file is not found, it will log a warning and use system environment variables
func loadDotenvFile() {
	if err := godotenv.Load(); err != nil {
		log.Warn("No .env file found, using system environment variables")
	}
}

// setUpLogger sets the JSON formatter and the level of every package logger.
// LOG_LEVEL wins over the level implied by APP_ENV.
func setUpLogger(conf *config.Config) {
	log.SetFormatter(&log.JSONFormatter{})

	level := config.LevelForEnvironment(conf.Environment)
	if conf.LogLevel != "" {
		parsed, err := log.ParseLevel(conf.LogLevel)
		if err != nil {
			log.WithField("log_level", conf.LogLevel).Warn("Unknown LOG_LEVEL, keeping environment default")
		} else {
			level = parsed
		}
	}

	log.SetLevel(level)
	database.SetLogLevel(level)
	services.SetLogLevel(level)
	middleware.SetLogLevel(level)
	controllers.SetLogLevel(level)
	auth.SetLogLevel(level)
	events.SetLogLevel(level)
}

// loadConfig loads the application configuration from environment variables
// It returns a Config struct or panics if there is an error
func loadConfig() *config.Config {
	conf, err := config.LoadConfig()
	checkPanicErr(err)
	return conf
}

// setupDatabase connects, migrates the schema and optionally seeds the catalog
func setupDatabase(conf *config.Config) *gorm.DB {
	db, err := database.InitDatabase(database.FromConfig(conf))
	checkPanicErr(err)

	checkPanicErr(database.Migrate(db))

	if conf.SeedCatalog {
		checkPanicErr(database.SeedCatalog(db))
	}
	return db
}

// setupVerifiers adds the identity provider when OIDC_ISSUER is set. Our own
// access tokens are always accepted.
func setupVerifiers(conf *config.Config) []auth.TokenVerifier {
	if conf.OIDCIssuer == "" {
		log.Info("OIDC_ISSUER not set, only client credentials tokens are accepted")
		return nil
	}

	// The provider keeps this context for later key set refreshes
	verifier, err := auth.NewOIDCVerifier(context.Background(), conf.OIDCIssuer, conf.OIDCClientID)
	checkPanicErr(err)

	log.WithField("issuer", conf.OIDCIssuer).Info("OIDC verifier configured")
	return []auth.TokenVerifier{verifier}
}
