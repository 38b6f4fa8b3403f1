package handler

import (
	"net/http"
	"strconv"

	"github.com/Astemirdum/library-borrowing/library/internal/model"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

func (h *Handler) ListBorrowings(c echo.Context) error {
	v, err := viewer(c)
	if err != nil {
		return err
	}
	page, size, err := paging(c)
	if err != nil {
		return err
	}
	filter := model.BorrowingFilter{Page: page, Size: size}
	if userParam := c.QueryParam("user_id"); userParam != "" {
		userID, err := strconv.ParseInt(userParam, 10, 64)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, errors.New("user_id is invalid"))
		}
		filter.UserID = &userID
	}
	if activeParam := c.QueryParam("is_active"); activeParam != "" {
		if filter.ActiveOnly, err = strconv.ParseBool(activeParam); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, errors.New("is_active is invalid"))
		}
	}

	list, err := h.librarySvc.ListBorrowings(c.Request().Context(), v, filter)
	if err != nil {
		return h.httpError(err)
	}
	return c.JSON(http.StatusOK, list)
}

func (h *Handler) GetBorrowing(c echo.Context) error {
	v, err := viewer(c)
	if err != nil {
		return err
	}
	id, err := pathID(c)
	if err != nil {
		return err
	}
	borrowing, err := h.librarySvc.GetBorrowing(c.Request().Context(), v, id)
	if err != nil {
		return h.httpError(err)
	}
	return c.JSON(http.StatusOK, borrowing)
}

// CreateBorrowing redirects to the checkout page when a session was opened.
func (h *Handler) CreateBorrowing(c echo.Context) error {
	v, err := viewer(c)
	if err != nil {
		return err
	}
	var req model.CreateBorrowingRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	req.UserID = v.UserID

	checkout, err := h.librarySvc.CreateBorrowing(c.Request().Context(), req)
	if err != nil {
		return h.httpError(err)
	}
	if url := checkoutURL(checkout); url != "" {
		return c.Redirect(http.StatusFound, url)
	}
	return c.JSON(http.StatusCreated, checkout.Borrowing)
}

func (h *Handler) ReturnBorrowing(c echo.Context) error {
	v, err := viewer(c)
	if err != nil {
		return err
	}
	id, err := pathID(c)
	if err != nil {
		return err
	}
	var req model.ReturnBorrowingRequest
	if c.Request().ContentLength != 0 {
		if err := bind(c, &req); err != nil {
			return err
		}
	}

	checkout, err := h.librarySvc.ReturnBorrowing(c.Request().Context(), v, id, req)
	if err != nil {
		return h.httpError(err)
	}
	if url := checkoutURL(checkout); url != "" {
		return c.Redirect(http.StatusFound, url)
	}
	return c.JSON(http.StatusOK, checkout.Borrowing)
}

func (h *Handler) Overdue(c echo.Context) error {
	overdue, err := h.librarySvc.CheckOverdue(c.Request().Context())
	if err != nil {
		return h.httpError(err)
	}
	return c.JSON(http.StatusOK, overdue)
}

func (h *Handler) Pending(c echo.Context) error {
	v, err := viewer(c)
	if err != nil {
		return err
	}
	pending, err := h.librarySvc.CountPending(c.Request().Context(), v.UserID)
	if err != nil {
		return h.httpError(err)
	}
	return c.JSON(http.StatusOK, pending)
}

func checkoutURL(checkout model.Checkout) string {
	if checkout.Payment == nil || checkout.Payment.SessionURL == nil {
		return ""
	}
	return *checkout.Payment.SessionURL
}
