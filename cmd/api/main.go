package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "inventory-api/api/swagger" // swagger docs
	"inventory-api/internal/config"
	"inventory-api/internal/database"
	"inventory-api/internal/notify"
	"inventory-api/internal/router"
	"inventory-api/internal/websocket"
	"inventory-api/pkg/jwt"

	"github.com/gin-gonic/gin"
)

// @title           Inventory Management API
// @version         1.0
// @description     Departments request stock, admins approve or reject, approvals draw down inventory.
// @host            localhost:8080
// @BasePath        /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg, err := config.LoadConfig("configs")
	if err != nil {
		log.Fatalf("Config load failed: %v", err)
	}
	gin.SetMode(cfg.Server.Mode)

	db, err := database.NewConnection(cfg.Database.Driver, cfg.DatabaseDSN())
	if err != nil {
		log.Fatalf("Database connection failed: %v", err)
	}
	log.Printf("Connected to %s successfully.", cfg.Database.Driver)

	if err := database.Migrate(db); err != nil {
		log.Fatalf("Database migration failed: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Set up WebSocket Hub
	wsHub := websocket.NewHub()
	go wsHub.Run(ctx)

	sinks := notify.Multi{wsHub}
	if cfg.Mongo.URI != "" {
		archive, err := notify.NewMongoArchive(ctx, cfg.Mongo.URI, cfg.Mongo.DBName)
		if err != nil {
			log.Printf("Mongo event archive disabled: %v", err)
		} else {
			defer func() { _ = archive.Close(context.Background()) }()
			sinks = append(sinks, archive)
			log.Println("Archiving events to MongoDB.")
		}
	}
	if len(cfg.Kafka.Brokers) > 0 {
		publisher, err := notify.NewKafkaPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic)
		if err != nil {
			log.Printf("Kafka event stream disabled: %v", err)
		} else {
			defer func() { _ = publisher.Close() }()
			sinks = append(sinks, publisher)
			log.Printf("Publishing events to Kafka topic %s.", cfg.Kafka.Topic)
		}
	}

	tokens := jwt.NewManager(cfg.JWT.Secret, cfg.JWT.Expiration)
	services := router.NewServices(cfg, db, tokens, sinks)
	engine := router.New(cfg, services, tokens, wsHub)

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("Server listening on :%s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}

	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
	log.Println("Server exited")
}
