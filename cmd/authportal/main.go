package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/robfig/cron/v3"

	"github.com/Skotchmaster/auth_portal/internal/config"
	"github.com/Skotchmaster/auth_portal/internal/events"
	"github.com/Skotchmaster/auth_portal/internal/httpserver"
	"github.com/Skotchmaster/auth_portal/internal/logging"
	"github.com/Skotchmaster/auth_portal/internal/middleware"
	"github.com/Skotchmaster/auth_portal/internal/repo"
	"github.com/Skotchmaster/auth_portal/internal/service"
)

func main() {
	cfg := config.Load()
	logger := logging.New(cfg.LogLevel)

	initCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	db, err := config.InitDB(initCtx, cfg.DatabaseURL)
	cancel()
	if err != nil {
		log.Fatalf("db init error: %v", err)
	}

	producer := events.NewProducer(cfg.KafkaBrokers, cfg.KafkaTopic)

	svc := &service.AuthService{
		Repo:     &repo.GormRepo{DB: db},
		Secret:   cfg.SecretKey,
		TokenTTL: cfg.AccessTokenTTL,
		Events:   producer,
	}

	bootCtx := logging.IntoContext(context.Background(), logger)
	if err := svc.Bootstrap(bootCtx, cfg.BootstrapAdminPassword); err != nil {
		log.Fatalf("bootstrap error: %v", err)
	}

	sweeper := cron.New()
	if _, err := sweeper.AddFunc("@hourly", func() {
		ctx, cancel := context.WithTimeout(logging.IntoContext(context.Background(), logger), time.Minute)
		defer cancel()
		if err := svc.PurgeExpiredRevocations(ctx); err != nil {
			logger.Error("revocation sweep failed", "error", err)
		}
	}); err != nil {
		log.Fatalf("cron setup error: %v", err)
	}
	sweeper.Start()

	e := echo.New()
	e.HideBanner = true
	e.Server.ReadTimeout = 10 * time.Second
	e.Server.WriteTimeout = 15 * time.Second
	e.Server.ReadHeaderTimeout = 3 * time.Second
	e.Use(middleware.RequestLogger(logger))

	httpserver.Register(e, &httpserver.Deps{
		AuthHandler: &httpserver.AuthHTTP{Svc: svc},
		AuthMW:      middleware.NewAuth(svc),
		StaticDir:   cfg.StaticDir,
	})

	go func() {
		addr := ":" + strconv.Itoa(cfg.ServerPort)
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			log.Fatalf("echo start: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt)
	<-stop

	sweeper.Stop()
	if err := producer.Close(); err != nil {
		logger.Error("kafka producer close", "error", err)
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Printf("echo shutdown: %v", err)
	}
}
