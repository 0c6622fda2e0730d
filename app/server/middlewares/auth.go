package middlewares

import (
	"context"
	"errors"
	"net/http"
	"usuarios-backend/app/server/common"
	"usuarios-backend/app/server/constants"
	"usuarios-backend/app/server/models"

	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type TokenParser interface {
	ParseSubject(tokenString string) (string, error)
}

type ActorResolver interface {
	ResolveActor(ctx context.Context, subject string) (*models.User, error)
}

// Auth verifies the bearer token and stores the user it names under
// constants.ContextKeyActor. Every failure is a 401 with the same body; the
// reason only goes to the log.
func Auth(tokens TokenParser, actors ActorResolver, l *zap.Logger) echo.MiddlewareFunc {
	verify := echojwt.WithConfig(echojwt.Config{
		ContextKey: constants.ContextKeySubject,
		ParseTokenFunc: func(c echo.Context, auth string) (interface{}, error) {
			return tokens.ParseSubject(auth)
		},
		ErrorHandler: func(c echo.Context, err error) error {
			l.Debug("rejected bearer token", zap.String("URI", c.Request().RequestURI), zap.Error(err))
			return Unauthorized(c)
		},
	})

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return verify(func(c echo.Context) error {
			subject, _ := c.Get(constants.ContextKeySubject).(string)

			actor, err := actors.ResolveActor(c.Request().Context(), subject)
			if err != nil {
				if errors.Is(err, common.ErrUnauthenticated) {
					l.Debug("token subject does not resolve to a user", zap.String("subject", subject))
					return Unauthorized(c)
				}
				l.Error("failed to resolve actor", zap.String("subject", subject), zap.Error(err))
				return c.JSON(http.StatusInternalServerError, &models.ErrorMessage{
					Message: http.StatusText(http.StatusInternalServerError),
				})
			}

			c.Set(constants.ContextKeyActor, actor)
			return next(c)
		})
	}
}

// Actor returns the user set by Auth, nil on routes without it.
func Actor(c echo.Context) *models.User {
	actor, _ := c.Get(constants.ContextKeyActor).(*models.User)
	return actor
}

func Unauthorized(c echo.Context) error {
	c.Response().Header().Set(echo.HeaderWWWAuthenticate, "Bearer")
	return c.JSON(http.StatusUnauthorized, &models.ErrorMessage{
		Message: "No se pudo identificar al usuario",
	})
}
