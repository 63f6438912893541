package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/peterjhesselmann96-eng/werkzeugverwaltung/internal/config"
	"github.com/peterjhesselmann96-eng/werkzeugverwaltung/internal/database"
	"github.com/peterjhesselmann96-eng/werkzeugverwaltung/internal/events"
	"github.com/peterjhesselmann96-eng/werkzeugverwaltung/internal/handlers"
	"github.com/peterjhesselmann96-eng/werkzeugverwaltung/internal/kafka"
	"github.com/peterjhesselmann96-eng/werkzeugverwaltung/internal/models"
	"github.com/peterjhesselmann96-eng/werkzeugverwaltung/internal/realtime"
	"github.com/peterjhesselmann96-eng/werkzeugverwaltung/internal/redisstore"
	"github.com/peterjhesselmann96-eng/werkzeugverwaltung/internal/routes"
	"github.com/peterjhesselmann96-eng/werkzeugverwaltung/internal/store"
	"github.com/peterjhesselmann96-eng/werkzeugverwaltung/internal/store/jsonfile"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm/logger"
)

// stores holds the opened collections plus whatever must be closed on shutdown.
type stores struct {
	users   store.Repository[models.User]
	tools   store.Repository[models.Tool]
	closers []io.Closer
}

type closerFunc func() error

func (f closerFunc) Close() error { return f() }

func openStores(ctx context.Context, cfg *config.Config) (*stores, error) {
	now := time.Now()
	s := &stores{}

	switch cfg.Store.Driver {
	case config.DriverJSON:
		users, err := jsonfile.Open(cfg.Store.DataDir, handlers.UsersCollection, models.DefaultUsers())
		if err != nil {
			return nil, err
		}
		tools, err := jsonfile.Open(cfg.Store.DataDir, handlers.ToolsCollection, models.DefaultTools(now))
		if err != nil {
			return nil, err
		}
		s.users, s.tools = users, tools

	case config.DriverSQLite, config.DriverPostgres:
		db, err := database.Open(cfg.Store.Driver, cfg.Store.DSN, logger.Warn)
		if err != nil {
			return nil, err
		}
		s.closers = append(s.closers, closerFunc(func() error { return database.Close(db) }))
		users, err := database.NewRepository(db, models.DefaultUsers())
		if err != nil {
			return nil, fmt.Errorf("users table: %w", err)
		}
		tools, err := database.NewRepository(db, models.DefaultTools(now))
		if err != nil {
			return nil, fmt.Errorf("werkzeuge table: %w", err)
		}
		s.users, s.tools = users, tools

	case config.DriverRedis:
		client, err := redisstore.Connect(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			return nil, err
		}
		s.closers = append(s.closers, client)
		users, err := redisstore.Open(ctx, client, handlers.UsersCollection, models.DefaultUsers())
		if err != nil {
			return nil, err
		}
		tools, err := redisstore.Open(ctx, client, handlers.ToolsCollection, models.DefaultTools(now))
		if err != nil {
			return nil, err
		}
		s.users, s.tools = users, tools

	default:
		return nil, fmt.Errorf("unsupported store driver %q", cfg.Store.Driver)
	}

	s.users = store.NewCached(s.users, handlers.UsersCollection, cfg.Store.CacheTTL)
	s.tools = store.NewCached(s.tools, handlers.ToolsCollection, cfg.Store.CacheTTL)
	return s, nil
}

func (s *stores) Close() {
	for _, c := range s.closers {
		if err := c.Close(); err != nil {
			log.Printf("close store: %v", err)
		}
	}
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	log.Printf("Configuration loaded: %v", cfg)
	gin.SetMode(cfg.Server.GinMode)

	ctx := context.Background()
	s, err := openStores(ctx, cfg)
	if err != nil {
		log.Fatalf("open stores: %v", err)
	}
	defer s.Close()

	hub := realtime.NewHub()
	publishers := events.Multi{hub}
	if len(cfg.Kafka.Brokers) > 0 {
		producer, err := kafka.Dial(cfg.Kafka.Brokers, cfg.Kafka.Topic)
		if err != nil {
			log.Fatalf("kafka: %v", err)
		}
		defer producer.Close()
		publishers = append(publishers, producer)
	}

	ginRoutes := routes.SetupRoutes(routes.Dependencies{
		Users:  s.users,
		Tools:  s.tools,
		Hub:    hub,
		Events: publishers,
	})

	srv := &http.Server{
		Addr:              cfg.Server.Address,
		Handler:           ginRoutes,
		ReadHeaderTimeout: 10 * time.Second,
	}

	log.Printf("Server starting on %s", cfg.Server.Address)
	log.Println("API endpoints:")
	log.Println("  GET|POST|PUT|DELETE /users")
	log.Println("  GET|POST|PUT|DELETE /werkzeuge")
	log.Println("  (also under " + routes.NetlifyPrefix + ")")
	log.Println("  GET    /events (websocket)")
	log.Println("  GET    /health")

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server: ", err)
		}
	}()

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	<-sigc

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown error: %v", err)
	}
}
