package main

import (
	"context"
	"io"
	"time"

	"github.com/dtroode/amcbunq-server/internal/bootstrap"
	"github.com/dtroode/amcbunq-server/internal/config"
	"github.com/dtroode/amcbunq-server/internal/logger"
	"github.com/dtroode/amcbunq-server/internal/model"
	"github.com/dtroode/amcbunq-server/internal/service"
	"github.com/dtroode/amcbunq-server/internal/token"
)

// app holds what the commands operate on.
type app struct {
	users    *service.UserGateway
	tokens   model.TokenManager
	tokenTTL time.Duration
	close    func(ctx context.Context) error
}

type appOpener func(ctx context.Context, logOut io.Writer) (*app, error)

// openApp connects to the configured store. Logs go to logOut so they do not
// mix with command output.
func openApp(ctx context.Context, logOut io.Writer) (*app, error) {
	cfg, err := config.NewConfig()
	if err != nil {
		return nil, err
	}
	lg := logger.NewWithWriter(logOut, cfg.LogLevel, cfg.LogJSON)

	stores, err := bootstrap.OpenStores(ctx, cfg.Mongo)
	if err != nil {
		return nil, err
	}

	return &app{
		users:    service.NewUserGateway(stores.Users, lg),
		tokens:   token.NewJWT(cfg.JWT.Secret),
		tokenTTL: cfg.JWT.TTL,
		close:    stores.Close,
	}, nil
}
