package handlers

import (
	"context"
	"net/http"
	"strconv"
	"usuarios-backend/app/server/middlewares"
	"usuarios-backend/app/server/models"
	"usuarios-backend/app/server/service"
	"usuarios-backend/app/server/store"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type userCreateRequest struct {
	Name     string `json:"nombre"`
	Username string `json:"username"`
	Age      *int   `json:"edad"`
	Password string `json:"password"`
	Email    string `json:"mail"`
	IsAdmin  bool   `json:"es_admin"`
}

// Only profile fields; id and username in the body are ignored.
type userUpdateRequest struct {
	Name    *string `json:"nombre"`
	Age     *int    `json:"edad"`
	IsAdmin *bool   `json:"es_admin"`
}

type deleteResponse struct {
	Message string `json:"message"`
	ID      uint   `json:"id"`
}

func (a *App) UserCreate(c echo.Context) error {
	rctx := c.Request().Context()

	// Bind request body
	var req userCreateRequest
	if err := c.Bind(&req); err != nil {
		a.l.Debug("failed to bind request", zap.Error(err))
		return a.erMsg(c, http.StatusBadRequest, "cuerpo de la petición inválido")
	}

	user, err := a.svc.Signup(rctx, service.SignupInput{
		Name:     req.Name,
		Username: req.Username,
		Email:    req.Email,
		Age:      req.Age,
		Password: req.Password,
		IsAdmin:  req.IsAdmin,
	})
	if err != nil {
		return a.fail(c, err, "failed to create user")
	}

	return c.JSON(http.StatusOK, user)
}

func (a *App) UserList(c echo.Context) error {
	return a.listUsers(c, func(rctx context.Context, page store.Page) ([]*models.PublicUser, int64, error) {
		return a.svc.ListAll(rctx, middlewares.Actor(c), page)
	})
}

func (a *App) UserListOlderThan(c echo.Context) error {
	minAge, err := strconv.Atoi(c.Param("edad"))
	if err != nil {
		return a.erMsg(c, http.StatusBadRequest, "la edad debe ser un número entero")
	}
	return a.listUsers(c, func(rctx context.Context, page store.Page) ([]*models.PublicUser, int64, error) {
		return a.svc.ListOlderThan(rctx, middlewares.Actor(c), minAge, page)
	})
}

func (a *App) listUsers(c echo.Context, list func(context.Context, store.Page) ([]*models.PublicUser, int64, error)) error {
	rctx := c.Request().Context()

	page, showAll, err := a.parsePagination(c.QueryParam("page"), c.QueryParam("limit"))
	if err != nil {
		return a.erMsg(c, http.StatusBadRequest, "parámetros de paginación inválidos")
	}

	users, total, err := list(rctx, page)
	if err != nil {
		return a.fail(c, err, "failed to get user list")
	}

	c.Response().Header().Set("X-Total-Count", strconv.FormatInt(total, 10))
	c.Response().Header().Set("X-Page-Max", strconv.FormatInt(a.calcMaxPage(total, showAll, page.Limit), 10))

	return c.JSON(http.StatusOK, users)
}

func (a *App) UserInfoGetSelf(c echo.Context) error {
	user, err := a.svc.GetSelf(middlewares.Actor(c))
	if err != nil {
		return a.fail(c, err, "failed to get self")
	}

	return c.JSON(http.StatusOK, user)
}

func (a *App) UserInfoGet(c echo.Context) error {
	id, ok := a.parseID(c)
	if !ok {
		return a.erMsg(c, http.StatusBadRequest, "id inválido")
	}

	user, err := a.svc.GetByID(c.Request().Context(), middlewares.Actor(c), id)
	if err != nil {
		return a.fail(c, err, "failed to get user")
	}

	return c.JSON(http.StatusOK, user)
}

func (a *App) UserInfoUpdate(c echo.Context) error {
	id, ok := a.parseID(c)
	if !ok {
		return a.erMsg(c, http.StatusBadRequest, "id inválido")
	}

	// Bind request body
	var req userUpdateRequest
	if err := c.Bind(&req); err != nil {
		a.l.Debug("failed to bind request", zap.Error(err))
		return a.erMsg(c, http.StatusBadRequest, "cuerpo de la petición inválido")
	}

	user, err := a.svc.Update(c.Request().Context(), middlewares.Actor(c), id, service.UserPatch{
		Name:    req.Name,
		Age:     req.Age,
		IsAdmin: req.IsAdmin,
	})
	if err != nil {
		return a.fail(c, err, "failed to update user")
	}

	return c.JSON(http.StatusOK, user)
}

func (a *App) UserDelete(c echo.Context) error {
	id, ok := a.parseID(c)
	if !ok {
		return a.erMsg(c, http.StatusBadRequest, "id inválido")
	}
	return a.deleteUser(c, id)
}

func (a *App) UserDeleteSelf(c echo.Context) error {
	actor := middlewares.Actor(c)
	if actor == nil {
		return a.er(c, http.StatusUnauthorized)
	}
	return a.deleteUser(c, actor.ID)
}

func (a *App) deleteUser(c echo.Context, id uint) error {
	if err := a.svc.Delete(c.Request().Context(), middlewares.Actor(c), id); err != nil {
		return a.fail(c, err, "failed to delete user")
	}

	return c.JSON(http.StatusOK, &deleteResponse{
		Message: "usuario eliminado",
		ID:      id,
	})
}

func (a *App) parseID(c echo.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

