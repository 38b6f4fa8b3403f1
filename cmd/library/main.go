package main

import (
	stdLog "log"
	"time"

	"github.com/Astemirdum/library-borrowing/library/app"
	"github.com/Astemirdum/library-borrowing/library/config"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

//	@title			Library Borrowing API
//	@version		1.0
//	@description	Books, borrowings and checkout payments of the library.
//	@BasePath		/api/v1

//	@securityDefinitions.apikey	Bearer
//	@in							header
//	@name						Authorization

func main() {
	if err := godotenv.Load(); err != nil {
		stdLog.Fatal("load envs from .env ", zap.Error(err))
	}
	cfg := config.NewConfig(
		config.WithLogLevel(zapcore.DebugLevel),
		config.WithWriteTimeout(time.Minute),
	)

	app.Run(cfg)
}
