package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"bookstore-be/internal/book"
	"bookstore-be/internal/cart"
	"bookstore-be/internal/config"
	"bookstore-be/internal/db"
	"bookstore-be/internal/httpapi"
	"bookstore-be/internal/logger"
	"bookstore-be/internal/order"
	"bookstore-be/internal/review"
	"bookstore-be/internal/user"

	"go.uber.org/zap"
)

// sweepInterval is how often expired guest carts are reclaimed. The TTL
// itself lives on each cart row; the sweeper only enforces it.
const sweepInterval = time.Hour

func main() {
	cfg := config.LoadConfig()
	logger.Init(cfg.AppEnv)
	defer logger.Sync()

	database := db.InitDB(cfg)
	defer database.Close()

	bookRepo := book.NewRepository(database)
	bookSvc := book.NewService(bookRepo)

	cartRepo := cart.NewRepository(database)
	cartSvc := cart.NewService(cartRepo, bookRepo)

	orderRepo := order.NewRepository(database)
	orderSvc := order.NewService(orderRepo, cartRepo, bookRepo)

	reviewRepo := review.NewRepository(database)
	reviewSvc := review.NewService(reviewRepo, bookRepo)

	userRepo := user.NewRepository(database)
	userSvc := user.NewService(userRepo)

	go sweepExpiredCarts(cartRepo)

	handler := httpapi.NewHandler(bookSvc, cartSvc, orderSvc, reviewSvc, userSvc)

	log.Printf("server running at http://localhost:%s/", cfg.AppPort)
	log.Fatal(http.ListenAndServe(":"+cfg.AppPort, handler.Routes()))
}

func sweepExpiredCarts(repo cart.Repository) {
	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()

	for range ticker.C {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		deleted, err := repo.DeleteExpired(ctx, time.Now())
		cancel()

		if err != nil {
			logger.L().Error("guest cart sweep failed", zap.Error(err))
			continue
		}
		if deleted > 0 {
			logger.L().Info("expired guest carts reclaimed", zap.Int64("count", deleted))
		}
	}
}
