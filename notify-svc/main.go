package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"tablehouse/config"
	"tablehouse/notify-svc/internal/notifier"
	"tablehouse/notify-svc/internal/service"
	"tablehouse/notify-svc/internal/storage"

	"github.com/aws/aws-sdk-go-v2/service/ses"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	rdb := config.MustInitRedis()
	defer rdb.Close()

	reader := config.NewKafkaReader(config.OrdersTopic(), "notify-svc")
	defer reader.Close()

	sender := config.GetEnv("SES_SENDER", "")
	recipient := config.GetEnv("STAFF_EMAIL", "")
	if sender == "" || recipient == "" {
		log.Println("WARN: SES_SENDER or STAFF_EMAIL not set, staff emails will be skipped")
	}

	emailer := notifier.NewEmailNotifier(
		ses.NewFromConfig(config.MustLoadAWS(ctx)),
		sender,
		recipient,
		config.MustLocation(config.GetEnv("DASHBOARD_TZ", "")),
	)

	consumer := service.NewConsumer(reader, emailer, storage.NewRedisInvalidator(rdb))
	consumer.Start(ctx)
}
