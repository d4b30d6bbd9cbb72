package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"auction-service/config"
	"auction-service/internal/api"
	"auction-service/internal/broker"
	"auction-service/internal/mailer"
	"auction-service/internal/notifier"
	"auction-service/internal/redisclient"
	"auction-service/internal/scheduler"
	"auction-service/internal/service"
	"auction-service/internal/store"
	"auction-service/internal/util"

	"github.com/gin-gonic/gin"
)

func main() {

	cfg := config.Load()

	if err := util.InitLogger(cfg.Server.Env); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer util.SyncLogger()

	logger := util.GetLogger()
	logger.Info("Starting auction scheduler service")

	tp, err := util.InitTracer("auction-service", cfg.Observ.JaegerEndpoint)
	if err != nil {
		log.Fatalf("Failed to initialize tracer: %v", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tp.Shutdown(ctx); err != nil {
			log.Printf("Error shutting down tracer: %v", err)
		}
	}()

	db, err := store.NewStore(cfg.Database.URL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()
	log.Println("Database connected")

	redisClient, err := redisclient.NewClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer redisClient.Close()
	log.Println("Redis connected")

	producer := broker.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.TopicAuction)
	defer producer.Close()
	log.Println("Kafka producer initialized")

	eventPublisher := broker.NewEventPublisher(producer)

	smtpMailer := mailer.NewMailer(cfg.SMTP)
	dispatcher := notifier.NewDispatcher(db, smtpMailer)

	auctionService := service.NewAuctionService(db, eventPublisher, dispatcher)
	cleanupService := service.NewCleanupService(db, cfg.Scheduler.NotificationRetention)

	sched := scheduler.New(redisClient)
	sched.Register(scheduler.Job{
		Name:     "activate-listings",
		Interval: cfg.Scheduler.ActivationInterval,
		Run:      auctionService.ActivateDueListings,
	})
	sched.Register(scheduler.Job{
		Name:     "end-auctions",
		Interval: cfg.Scheduler.EndingInterval,
		Run:      auctionService.EndDueAuctions,
	})
	sched.Register(scheduler.Job{
		Name:     "purge-notifications",
		Interval: cfg.Scheduler.CleanupInterval,
		Run:      cleanupService.PurgeReadNotifications,
	})

	schedCtx, schedCancel := context.WithCancel(context.Background())
	defer schedCancel()
	sched.Start(schedCtx)
	log.Println("Scheduler started")

	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.Default()
	handler := api.NewHandler(db)
	handler.SetupRoutes(router)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Server.Port),
		Handler: router,
	}

	go func() {
		log.Printf("Starting HTTP server on port %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}

	schedCancel()
	sched.Stop()

	log.Println("Server exited")
}
