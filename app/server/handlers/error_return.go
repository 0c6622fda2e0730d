package handlers

import (
	"errors"
	"net/http"
	"usuarios-backend/app/server/common"
	"usuarios-backend/app/server/middlewares"
	"usuarios-backend/app/server/models"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

func (a *App) er(c echo.Context, statusCode int) error {
	return a.erMsg(c, statusCode, http.StatusText(statusCode))
}

func (a *App) erMsg(c echo.Context, statusCode int, message string) error {
	if statusCode == http.StatusUnauthorized {
		c.Response().Header().Set(echo.HeaderWWWAuthenticate, "Bearer")
	}
	return c.JSON(statusCode, &models.ErrorMessage{
		Message: message,
	})
}

// fail answers with the status matching err's kind. Anything unclassified is
// a store failure: logged, and answered with a bare 500.
func (a *App) fail(c echo.Context, err error, msg string) error {
	statusCode := statusOf(err)
	if statusCode == http.StatusInternalServerError {
		fields := []zap.Field{zap.String("URI", c.Request().RequestURI), zap.Error(err)}
		if actor := middlewares.Actor(c); actor != nil {
			fields = append(fields, zap.Uint("actor", actor.ID))
		}
		a.l.Error(msg, fields...)
		return a.er(c, statusCode)
	}

	var e *common.Error
	if errors.As(err, &e) {
		return a.erMsg(c, statusCode, e.Message)
	}
	return a.er(c, statusCode)
}

func statusOf(err error) int {
	switch {
	case errors.Is(err, common.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, common.ErrUnauthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, common.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, common.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, common.ErrConflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
