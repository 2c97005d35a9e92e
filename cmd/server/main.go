package main

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/Jones-Peprah-Nsiah/Event-Ticketting-System-App/internal/config"
	"github.com/Jones-Peprah-Nsiah/Event-Ticketting-System-App/internal/database"
	"github.com/Jones-Peprah-Nsiah/Event-Ticketting-System-App/internal/engine"
	"github.com/Jones-Peprah-Nsiah/Event-Ticketting-System-App/internal/handler"
	"github.com/Jones-Peprah-Nsiah/Event-Ticketting-System-App/internal/middleware"
	"github.com/Jones-Peprah-Nsiah/Event-Ticketting-System-App/internal/monitoring"
	"github.com/Jones-Peprah-Nsiah/Event-Ticketting-System-App/internal/queue"
	"github.com/Jones-Peprah-Nsiah/Event-Ticketting-System-App/internal/repository"
	"github.com/Jones-Peprah-Nsiah/Event-Ticketting-System-App/internal/router"
	"github.com/Jones-Peprah-Nsiah/Event-Ticketting-System-App/internal/utils"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database connect failed: %v", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := database.EnsureSchema(ctx, db); err != nil {
		cancel()
		log.Fatalf("schema setup failed: %v", err)
	}
	cancel()

	classes := repository.NewTicketClassRepo(db)
	orders := repository.NewOrderRepo(db)
	waitlist := repository.NewWaitlistRepo(db)
	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)
	eng := engine.New(db, classes, orders, waitlist, users, tokens)

	seedAdmin(cfg, users)

	// The consumer writes order events to logs/orders.log and reconnects
	// on broker failures; it never returns in normal operation.
	go func() {
		if err := queue.StartOrderConsumer(); err != nil {
			log.Printf("order consumer stopped: %v", err)
		}
	}()

	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Printf("redis unavailable; rate limiting and response caching disabled")
	}

	e := echo.New()
	e.HideBanner = true
	e.Use(monitoring.RequestMetrics())
	e.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))
	cacheMW := middleware.NewRedisCache(config.LoadCacheConfig(), rdb)

	authH := handler.NewAuthHandler(cfg, users, tokens)
	orderH := handler.NewOrderHandler(eng, users)
	adminH := handler.NewAdminHandler(eng)
	exportH := handler.NewExportHandler(eng)

	router.RegisterRoutes(e, orderH, cacheMW)
	router.RegisterAuth(e, authH, cfg.JWTSecret)
	router.RegisterOrders(e, orderH, cfg.JWTSecret)
	router.RegisterAdmin(e, adminH, exportH, cfg.JWTSecret)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}

// seedAdmin creates the configured admin account if it does not exist
// yet.  Without ADMIN_PASSWORD no account is created and the operator
// must promote a user manually.
func seedAdmin(cfg config.Config, users *repository.UserRepo) {
	if cfg.AdminPassword == "" {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	hash, err := utils.HashPassword(cfg.AdminPassword, cfg.BcryptCost)
	if err != nil {
		log.Printf("admin seed: hash failed: %v", err)
		return
	}
	if _, err := users.Create(ctx, cfg.AdminUsername, cfg.AdminEmail, "", hash, "ADMIN"); err != nil {
		if errors.Is(err, repository.ErrUsernameExists) || errors.Is(err, repository.ErrEmailExists) {
			return // already seeded
		}
		log.Printf("admin seed: create failed: %v", err)
		return
	}
	log.Printf("admin account %q created", cfg.AdminUsername)
}
