package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"tablehouse/auth"
	"tablehouse/config"
	httpapi "tablehouse/order-svc/internal/api/http"
	"tablehouse/order-svc/internal/service"
	"tablehouse/order-svc/internal/storage"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db := config.MustInitPostgres()
	defer db.Close()

	rdb := config.MustInitRedis()
	defer rdb.Close()

	writer := config.NewKafkaWriter(config.OrdersTopic())
	defer writer.Close()

	repo := storage.NewPostgresRepository(db)
	if err := repo.EnsureSchema(ctx); err != nil {
		log.Fatal("Failed to ensure schema:", err)
	}

	tokens := auth.NewTokens([]byte(config.MustGetEnv("JWT_SECRET")), config.GetEnvDuration("JWT_TTL", auth.DefaultTokenTTL))
	gate := auth.NewGate(tokens, auth.NewPostgresIdentityStore(db))

	qr := service.DefaultQRGenerator{BaseURL: config.GetEnv("PUBLIC_BASE_URL", "http://localhost:3000")}
	orderSvc := service.NewOrderService(
		repo,
		repo,
		qr,
		storage.NewRedisCheckoutCache(rdb, config.GetEnvDuration("CHECKOUT_KEY_TTL", storage.DefaultCheckoutTTL)),
		storage.NewKafkaPublisher(writer),
	).WithTaxRate(int64(config.GetEnvInt("TAX_RATE_BPS", service.DefaultTaxRateBps)))
	menuSvc := service.NewMenuService(repo)

	handler := httpapi.NewHandler(menuSvc, orderSvc, gate, config.GetEnv("UPLOAD_DIR", "./uploads"))
	router := httpapi.NewRouter(handler, config.GetEnvList("CORS_ORIGINS", []string{"*"}))

	httpapi.StartServer(ctx, ":"+config.GetEnv("ORDER_SVC_PORT", "8081"), router)
}
