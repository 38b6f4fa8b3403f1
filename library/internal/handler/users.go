package handler

import (
	"net/http"

	"github.com/Astemirdum/library-borrowing/library/internal/model"
	"github.com/labstack/echo/v4"
)

func (h *Handler) Register(c echo.Context) error {
	var req model.UserCreateRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	user, err := h.librarySvc.Register(c.Request().Context(), req)
	if err != nil {
		return h.httpError(err)
	}
	return c.JSON(http.StatusCreated, user)
}

func (h *Handler) Token(c echo.Context) error {
	var req model.TokenRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	token, err := h.librarySvc.Token(c.Request().Context(), req)
	if err != nil {
		return h.httpError(err)
	}
	return c.JSON(http.StatusOK, token)
}

func (h *Handler) Me(c echo.Context) error {
	v, err := viewer(c)
	if err != nil {
		return err
	}
	user, err := h.librarySvc.Me(c.Request().Context(), v.UserID)
	if err != nil {
		return h.httpError(err)
	}
	return c.JSON(http.StatusOK, user)
}
