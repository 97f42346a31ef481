package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	restctx "github.com/dtroode/amcbunq-server/internal/api/rest/context"
	"github.com/dtroode/amcbunq-server/internal/api/rest/router"
	httpServer "github.com/dtroode/amcbunq-server/internal/api/rest/server"
	"github.com/dtroode/amcbunq-server/internal/bootstrap"
	"github.com/dtroode/amcbunq-server/internal/config"
	"github.com/dtroode/amcbunq-server/internal/logger"
	"github.com/dtroode/amcbunq-server/internal/mailer"
	"github.com/dtroode/amcbunq-server/internal/model"
	"github.com/dtroode/amcbunq-server/internal/server"
	"github.com/dtroode/amcbunq-server/internal/service"
	"github.com/dtroode/amcbunq-server/internal/token"
)

var (
	buildVersion = "N/A" // set by ldflags
	buildDate    = "N/A" // set by ldflags
	buildCommit  = "N/A" // set by ldflags
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT, os.Interrupt)
	defer stop()

	cfg, err := config.NewConfig()
	if err != nil {
		log.Fatalf("failed to parse config: %v", err)
	}
	logger := logger.New(cfg.LogLevel, cfg.LogJSON)

	stores, err := bootstrap.OpenStores(ctx, cfg.Mongo)
	if err != nil {
		logger.Fatal("failed to initialize storage", "error", err)
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := stores.Close(closeCtx); err != nil {
			logger.Error("failed to close storage", "error", err)
		}
	}()
	if cfg.Mongo.URI == bootstrap.MemoryURI {
		logger.Warn("using in-memory document store, data is lost on exit")
	}

	inMemory := cfg.Mongo.URI == bootstrap.MemoryURI
	storageClient, err := bootstrap.OpenObjectStorage(ctx, cfg.Storage, inMemory)
	if err != nil {
		logger.Fatal("failed to initialize object storage", "error", err)
	}
	if inMemory || cfg.Storage.Endpoint == "" {
		logger.Warn("using in-memory object storage, uploaded documents are lost on exit")
	}

	var mail model.Mailer
	if cfg.SMTP.Host != "" {
		smtpMailer, err := mailer.NewSMTP(cfg.SMTP.Host, cfg.SMTP.Port, cfg.SMTP.Username, cfg.SMTP.Password, cfg.SMTP.From)
		if err != nil {
			logger.Fatal("failed to initialize mailer", "error", err)
		}
		mail = smtpMailer
	} else {
		logger.Warn("SMTP host is not set, verification mails are only logged")
		mail = mailer.NewLog(logger)
	}

	users := service.NewUserGateway(stores.Users, logger)
	services := router.Services{
		Users:             users,
		Documents:         service.NewDocument(stores.Documents, stores.Users, storageClient, logger),
		Budgets:           service.NewBudget(stores.Budgets, stores.Users, logger),
		Tickets:           service.NewSupportTicket(stores.Tickets, stores.Users, logger),
		EmailVerification: service.NewEmailVerification(stores.VerificationCodes, users, mail, logger, cfg.Verification.TTL, cfg.Verification.MaxAttempts),
	}

	if cfg.LogLevel >= 0 {
		gin.SetMode(gin.ReleaseMode)
	}
	r := router.New(services, token.NewJWT(cfg.JWT.Secret), stores.Health, restctx.NewManager(), cfg.HTTP.MaxUploadBytes, logger)
	apiServer := httpServer.NewHTTPServer(r.Register(), fmt.Sprintf(":%s", cfg.HTTP.Port))

	sl := server.NewSecurityLayer(cfg.HTTP)

	var wg sync.WaitGroup
	wg.Add(1)
	go func(s model.Server) {
		defer wg.Done()
		logger.Info("Starting server on", "address", s.Address(), "https", cfg.HTTP.EnableHTTPS)
		if err := s.Start(sl); err != nil {
			logger.Error("failed to start server", "error", err)
			stop()
		}
	}(apiServer)

	logAppVersion()

	<-ctx.Done()
	logger.Info("received interruption signal, shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := apiServer.Stop(shutdownCtx); err != nil {
		logger.Error("error during server shutdown", "error", err, "address", apiServer.Address())
	}

	wg.Wait()
	logger.Info("shutdown complete")
}

func logAppVersion() {
	tmpl := `
Build version: %s
Build date: %s
Build commit: %s
`

	fmt.Printf(tmpl, buildVersion, buildDate, buildCommit)
}
