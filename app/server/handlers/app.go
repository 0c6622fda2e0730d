package handlers

import (
	"usuarios-backend/app/server/service"

	"go.uber.org/zap"
)

type App struct {
	l   *zap.Logger          // logger
	svc *service.UserService // user operations, access control included
}

func NewApp(l *zap.Logger, svc *service.UserService) *App {
	return &App{
		l:   l,
		svc: svc,
	}
}
