package main

import (
	stdLog "log"

	"github.com/Astemirdum/library-borrowing/notifier/app"
	"github.com/Astemirdum/library-borrowing/notifier/config"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func main() {
	if err := godotenv.Load(); err != nil {
		stdLog.Fatal("load envs from .env ", zap.Error(err))
	}
	cfg := config.NewConfig(config.WithLogLevel(zapcore.DebugLevel))

	app.Run(cfg)
}
