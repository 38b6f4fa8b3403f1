package app

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/Astemirdum/library-borrowing/notifier/config"
	"github.com/Astemirdum/library-borrowing/notifier/internal/handler"
	"github.com/Astemirdum/library-borrowing/pkg/kafka"
	"github.com/Astemirdum/library-borrowing/pkg/logger"
	"github.com/Astemirdum/library-borrowing/pkg/telegram"
	"go.uber.org/zap"
)

func Run(cfg *config.Config) {
	log := logger.NewLogger(cfg.Log, "notifier")

	consumer, err := kafka.NewConsumer(cfg.Kafka, kafka.NotifierConsumerGroup)
	if err != nil {
		log.Fatal("kafka.NewConsumer", zap.Error(err))
	}
	h := handler.NewConsumer(telegram.NewClient(cfg.Telegram), cfg.SendTimeout, log)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		if err := kafka.Consume(ctx, consumer, h, kafka.NotificationTopic); err != nil {
			log.Error("kafka.Consume", zap.Error(err))
		}
	}()
	log.Info("consuming", zap.String("topic", kafka.NotificationTopic), zap.Strings("addrs", cfg.Kafka.Addrs))

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)
	termSig := <-sig

	log.Debug("Graceful shutdown", zap.Any("signal", termSig))
	cancel()
	<-done
	if err = consumer.Close(); err != nil {
		log.Error("consumer.Close", zap.Error(err))
	}
	log.Info("Graceful shutdown finished")
}
