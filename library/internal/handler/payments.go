package handler

import (
	"net/http"

	"github.com/Astemirdum/library-borrowing/library/internal/errs"
	"github.com/Astemirdum/library-borrowing/library/internal/model"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

func (h *Handler) ListPayments(c echo.Context) error {
	v, err := viewer(c)
	if err != nil {
		return err
	}
	payments, err := h.librarySvc.ListPayments(c.Request().Context(), v)
	if err != nil {
		return h.httpError(err)
	}
	return c.JSON(http.StatusOK, payments)
}

func (h *Handler) GetPayment(c echo.Context) error {
	v, err := viewer(c)
	if err != nil {
		return err
	}
	id, err := pathID(c)
	if err != nil {
		return err
	}
	payment, err := h.librarySvc.GetPayment(c.Request().Context(), v, id)
	if err != nil {
		return h.httpError(err)
	}
	return c.JSON(http.StatusOK, payment)
}

func (h *Handler) PaymentSuccess(c echo.Context) error {
	_, err := h.librarySvc.MarkPaidFromCallback(c.Request().Context(), c.QueryParam("session_id"))
	if err != nil {
		if errors.Is(err, errs.ErrGateway) {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		return h.httpError(err)
	}
	return c.JSON(http.StatusOK, InfoResponse{Message: "Payment Successful"})
}

func (h *Handler) PaymentCancel(c echo.Context) error {
	return c.JSON(http.StatusOK, InfoResponse{
		Message: "Payment can be paid a bit later (the session is available for only 24h)",
	})
}

// RenewPayment sends the caller to a live checkout page for the payment.
func (h *Handler) RenewPayment(c echo.Context) error {
	v, err := viewer(c)
	if err != nil {
		return err
	}
	id, err := pathID(c)
	if err != nil {
		return err
	}
	payment, err := h.librarySvc.RenewPayment(c.Request().Context(), v, id)
	if errors.Is(err, errs.ErrPaymentNotExpired) {
		switch {
		case payment.Status == model.PaymentStatusPaid:
			return c.JSON(http.StatusOK, InfoResponse{Message: "Payment is already paid"})
		case payment.SessionURL != nil:
			return c.Redirect(http.StatusFound, *payment.SessionURL)
		}
	}
	if err != nil {
		return h.httpError(err)
	}
	return c.Redirect(http.StatusFound, *payment.SessionURL)
}

func (h *Handler) CheckExpired(c echo.Context) error {
	expired, err := h.librarySvc.ScanExpired(c.Request().Context())
	if err != nil {
		return h.httpError(err)
	}
	return c.JSON(http.StatusOK, expired)
}
