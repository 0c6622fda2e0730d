package handlers

import (
	"net/http"
	"usuarios-backend/app/server/models"

	"github.com/labstack/echo/v4"
)

func (a *App) AuthLogin(c echo.Context) error {
	rctx := c.Request().Context()

	// OAuth2 password flow: form fields
	username := c.FormValue("username")
	password := c.FormValue("password")

	// Username or password not given
	if username == "" || password == "" {
		return a.erMsg(c, http.StatusBadRequest, "username y password son obligatorios")
	}

	token, err := a.svc.Login(rctx, username, password)
	if err != nil {
		return a.fail(c, err, "failed to log in")
	}

	return c.JSON(http.StatusOK, &models.LoginToken{
		AccessToken: token.AccessToken,
		TokenType:   token.TokenType,
		ExpiresIn:   int64(token.ExpiresIn.Seconds()),
	})
}
