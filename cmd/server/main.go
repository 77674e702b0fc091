package main

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/wedding-reservation/internal/booking"
	"github.com/iliyamo/wedding-reservation/internal/config"
	"github.com/iliyamo/wedding-reservation/internal/database"
	"github.com/iliyamo/wedding-reservation/internal/handler"
	"github.com/iliyamo/wedding-reservation/internal/queue"
	"github.com/iliyamo/wedding-reservation/internal/repository"
	"github.com/iliyamo/wedding-reservation/internal/router"
	"github.com/iliyamo/wedding-reservation/internal/service"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Println("redis unavailable; rate limiting and caching disabled")
	}

	users := repository.NewUserRepo(db)
	clans := repository.NewClanRepo(db)
	halls := repository.NewHallRepo(db)
	store := repository.NewBookingStore(db)
	notifications := repository.NewNotificationRepo(db)

	svc := booking.NewService(store, clans, users, halls, service.NewRabbitNotifier())

	h := router.Handlers{
		Auth:         handler.NewAuthHandler(users, cfg.JWTSecret, cfg.AccessTTLMin, cfg.BcryptCost),
		Groom:        handler.NewGroomHandler(svc, store),
		Admin:        handler.NewAdminHandler(svc, store),
		Special:      handler.NewSpecialHandler(svc),
		Settings:     handler.NewSettingsHandler(clans),
		Availability: handler.NewAvailabilityHandler(svc, halls),
		Health:       handler.NewHealthHandler(db, rdb),
	}

	e := echo.New()
	e.HideBanner = true
	router.RegisterRoutes(e, h, cfg.JWTSecret, rdb)

	go func() {
		if err := queue.StartNotificationConsumer(notifications); err != nil {
			log.Printf("notification consumer stopped: %v", err)
		}
	}()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
