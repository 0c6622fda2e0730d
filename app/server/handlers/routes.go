package handlers

import "github.com/labstack/echo/v4"

// RegisterHandlers binds every route; auth guards the ones needing an actor.
func RegisterHandlers(e *echo.Echo, a *App, auth echo.MiddlewareFunc) {
	e.GET("/", a.Root)
	e.GET("/healthcheck", a.HealthCheck)

	e.POST("/login", a.AuthLogin)
	e.POST("/usuarios", a.UserCreate)

	e.GET("/usuarios", a.UserList, auth)
	e.GET("/usuarios/mayores/:edad", a.UserListOlderThan, auth)
	e.GET("/usuarios/me", a.UserInfoGetSelf, auth)
	e.GET("/usuarios/:id", a.UserInfoGet, auth)
	e.PUT("/usuarios/:id", a.UserInfoUpdate, auth)
	e.DELETE("/usuarios/me", a.UserDeleteSelf, auth)
	e.DELETE("/usuarios/:id", a.UserDelete, auth)
}
