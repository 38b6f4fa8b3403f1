package app

import (
	"context"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Astemirdum/library-borrowing/library/config"
	"github.com/Astemirdum/library-borrowing/library/internal/gateway"
	"github.com/Astemirdum/library-borrowing/library/internal/handler"
	"github.com/Astemirdum/library-borrowing/library/internal/jobs"
	"github.com/Astemirdum/library-borrowing/library/internal/notify"
	"github.com/Astemirdum/library-borrowing/library/internal/repository"
	"github.com/Astemirdum/library-borrowing/library/internal/server"
	"github.com/Astemirdum/library-borrowing/library/internal/service"
	"github.com/Astemirdum/library-borrowing/library/migrations"
	"github.com/Astemirdum/library-borrowing/pkg/auth"
	"github.com/Astemirdum/library-borrowing/pkg/kafka"
	"github.com/Astemirdum/library-borrowing/pkg/logger"
	"github.com/Astemirdum/library-borrowing/pkg/postgres"
	"github.com/Astemirdum/library-borrowing/pkg/telegram"
	"go.uber.org/zap"
)

const telegramTimeout = 10 * time.Second

func Run(cfg *config.Config) {
	log := logger.NewLogger(cfg.Log, "library")
	db, err := postgres.NewPostgresDB(context.Background(), &cfg.Database, migrations.MigrationFiles)
	if err != nil {
		log.Fatal("db init", zap.Error(err))
	}
	repo, err := repository.NewRepository(db, log)
	if err != nil {
		log.Fatal("repo", zap.Error(err))
	}

	notifier, closeNotifier := newNotifier(cfg, log)
	tokens := auth.NewTokenManager(cfg.Auth)
	svc := service.NewService(repo, gateway.NewStripe(cfg.Gateway, log), notifier, tokens, service.Options{
		FineMultiplier: cfg.FineMultiplier,
		FailurePolicy:  cfg.FailurePolicy,
		PublicURL:      cfg.PublicURL,
	}, log)

	h := handler.New(svc, tokens, log)
	srv := server.NewServer(cfg.Server, h.NewRouter())
	log.Info("http server start ON: ",
		zap.String("addr",
			net.JoinHostPort(cfg.Server.Host, cfg.Server.Port)))
	go func() {
		if err := srv.Run(); err != nil {
			log.Error("server run", zap.Error(err))
		}
	}()

	jobsCtx, stopJobs := context.WithCancel(context.Background())
	jobsDone := make(chan struct{})
	go func() {
		defer close(jobsDone)
		scheduler := jobs.NewScheduler(svc, jobs.Config{
			OverdueInterval: cfg.Jobs.OverdueCheckInterval,
			ExpiredInterval: cfg.Jobs.ExpiredCheckInterval,
		}, log)
		if err := scheduler.Run(jobsCtx); err != nil {
			log.Error("jobs", zap.Error(err))
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)
	termSig := <-sig

	log.Debug("Graceful shutdown", zap.Any("signal", termSig))

	closeCtx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()

	if err = srv.Stop(closeCtx); err != nil {
		log.DPanic("srv.Stop", zap.Error(err))
	}
	stopJobs()
	<-jobsDone
	if err = closeNotifier(); err != nil {
		log.Error("notifier close", zap.Error(err))
	}
	db.Close()
	log.Info("Graceful shutdown finished")
}

func newNotifier(cfg *config.Config, log *zap.Logger) (service.Notifier, func() error) {
	switch cfg.NotifySink {
	case notify.SinkKafka:
		producer, err := kafka.NewAsyncProducer(cfg.Kafka)
		if err != nil {
			log.Fatal("kafka.NewAsyncProducer", zap.Error(err))
		}
		k := notify.NewKafka(producer, log)
		return k, k.Close
	case notify.SinkTelegram:
		return notify.NewTelegram(telegram.NewClient(cfg.Telegram), telegramTimeout, log), noClose
	default:
		return notify.NewLog(log), noClose
	}
}

func noClose() error { return nil }
