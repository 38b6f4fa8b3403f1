package handler

import (
	"net/http"
	"strconv"

	"github.com/Astemirdum/library-borrowing/library/internal/errs"
	"github.com/Astemirdum/library-borrowing/library/internal/model"
	"github.com/Astemirdum/library-borrowing/pkg/auth"
	md "github.com/Astemirdum/library-borrowing/pkg/middleware"
	"github.com/Astemirdum/library-borrowing/pkg/validate"
	_ "github.com/Astemirdum/library-borrowing/swagger"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.uber.org/zap"
)

type Handler struct {
	librarySvc LibraryService
	tokens     *auth.TokenManager
	log        *zap.Logger
}

func New(librarySvc LibraryService, tokens *auth.TokenManager, log *zap.Logger) *Handler {
	return &Handler{
		librarySvc: librarySvc,
		tokens:     tokens,
		log:        log.Named("handler"),
	}
}

func (h *Handler) NewRouter() *echo.Echo {
	e := echo.New()
	const (
		baseRPS = 10
		apiRPS  = 100
	)
	e.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{
		StackSize: 4 << 10, // 4 KB
	}))
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{http.MethodGet, http.MethodOptions, http.MethodHead, http.MethodPut, http.MethodPatch, http.MethodPost, http.MethodDelete},
		AllowCredentials: true,
	}))

	base := e.Group("", md.NewRateLimiter(baseRPS))
	base.GET("/manage/health", h.Health)
	base.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	base.GET("/swagger/*", echoSwagger.WrapHandler)

	e.Validator = validate.NewCustomValidator()
	api := e.Group("/api/v1",
		middleware.RequestLoggerWithConfig(md.RequestLoggerConfig(h.log)),
		middleware.RequestID(),
		md.NewRateLimiter(apiRPS),
	)

	api.POST("/users", h.Register)
	api.POST("/users/token", h.Token)

	api.GET("/books", h.ListBooks)
	api.GET("/books/:id", h.GetBook)

	// The provider redirects the browser here without a bearer token.
	api.GET("/payments/success", h.PaymentSuccess)
	api.GET("/payments/cancel", h.PaymentCancel)

	api = api.Group("", md.JwtAuthentication(h.tokens))

	api.GET("/users/me", h.Me)

	api.POST("/books", h.CreateBook, md.StaffOnly)
	api.PUT("/books/:id", h.UpdateBook, md.StaffOnly)
	api.PATCH("/books/:id", h.PatchBook, md.StaffOnly)
	api.DELETE("/books/:id", h.DeleteBook, md.StaffOnly)

	api.GET("/borrowings", h.ListBorrowings)
	api.POST("/borrowings", h.CreateBorrowing)
	api.GET("/borrowings/overdue", h.Overdue, md.StaffOnly)
	api.GET("/borrowings/pending", h.Pending)
	api.GET("/borrowings/:id", h.GetBorrowing)
	api.POST("/borrowings/:id/return", h.ReturnBorrowing)

	api.GET("/payments", h.ListPayments)
	api.GET("/payments/check-expired", h.CheckExpired, md.StaffOnly)
	api.GET("/payments/:id", h.GetPayment)
	api.GET("/payments/:id/renew", h.RenewPayment)

	return e
}

func (h *Handler) Health(c echo.Context) error {
	return c.String(http.StatusOK, "OK")
}

type InfoResponse struct {
	Message string `json:"message"`
}

func viewer(c echo.Context) (model.Viewer, error) {
	p, err := auth.GetProfile(c.Request().Context())
	if err != nil {
		return model.Viewer{}, echo.NewHTTPError(http.StatusUnauthorized, err.Error())
	}
	return model.Viewer{UserID: p.UserID, IsStaff: p.IsStaff}, nil
}

func pathID(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, errors.New("id is invalid"))
	}
	return id, nil
}

func paging(c echo.Context) (page, size int, err error) {
	if pageParam := c.QueryParam("page"); pageParam != "" {
		if page, err = strconv.Atoi(pageParam); err != nil || page < 0 {
			return 0, 0, echo.NewHTTPError(http.StatusBadRequest, errors.New("page is invalid"))
		}
	}
	if sizeParam := c.QueryParam("size"); sizeParam != "" {
		if size, err = strconv.Atoi(sizeParam); err != nil || size < 0 {
			return 0, 0, echo.NewHTTPError(http.StatusBadRequest, errors.New("size is invalid"))
		}
	}
	return page, size, nil
}

func bind(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := c.Validate(req); err != nil {
		if fields := validate.Fields(err); fields != nil {
			return echo.NewHTTPError(http.StatusBadRequest, errs.ValidationErrorResponse{
				Message: "validation error",
				Errors:  fields,
			})
		}
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return nil
}

// httpError translates service errors into API responses.
func (h *Handler) httpError(err error) error {
	var (
		verr *errs.ValidationError
		perr *errs.PolicyViolationError
	)
	switch {
	case errors.As(err, &verr):
		return echo.NewHTTPError(http.StatusBadRequest, errs.ValidationErrorResponse{
			Message: "validation error",
			Errors:  map[string]string{verr.Field: verr.Message},
		})
	case errors.As(err, &perr):
		return echo.NewHTTPError(http.StatusForbidden, errs.PolicyViolationResponse{
			Message:         "borrowing is not allowed",
			PendingPayments: perr.PendingPayments,
		})
	case errors.Is(err, errs.ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, errs.ErrBadCredentials):
		return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
	case errors.Is(err, errs.ErrEmailTaken),
		errors.Is(err, errs.ErrPaymentNotPaid),
		errors.Is(err, errs.ErrPaymentNotExpired):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, errs.ErrGateway):
		h.log.Warn("gateway", zap.Error(err))
		return echo.NewHTTPError(http.StatusBadGateway, err.Error())
	}
	h.log.Error("internal", zap.Error(err))
	return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
}
