package main

import (
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/everafter-dev/wedding-back/internal/config"
	"github.com/everafter-dev/wedding-back/internal/db"
	"github.com/everafter-dev/wedding-back/internal/service"
	"github.com/everafter-dev/wedding-back/internal/transport"
)

func main() {
	app := fx.New(
		fx.Provide(
			config.NewConfig,
			db.NewGormClient,
			newLogger,
			service.NewGeneral,
			transport.NewHTTPServer,
		),
		fx.Invoke(func(*transport.HTTPServer) {}),
	)

	app.Run()
}

func newLogger() (*zap.SugaredLogger, error) {
	l, err := zap.NewProduction()
	if err != nil {
		return nil, err
	}
	return l.Sugar(), nil
}
