package handler

import (
	stdErrors "errors"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/johnquangdev/sales-coach/errors"
	"github.com/johnquangdev/sales-coach/internal/infrastructure/http/middleware"
)

// Response shapes
type success struct {
	Code    interface{} `json:"code,omitempty"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

type errs struct {
	Code    interface{}       `json:"code,omitempty"`
	Message string            `json:"message,omitempty"`
	Info    string            `json:"info,omitempty"`
	Details map[string]string `json:"details,omitempty"`
}

// getRequestID tries to read X-Request-ID from the request or response
func getRequestID(c echo.Context) string {
	if c == nil || c.Request() == nil {
		return ""
	}
	if id := c.Request().Header.Get(echo.HeaderXRequestID); id != "" {
		return id
	}
	return c.Response().Header().Get(echo.HeaderXRequestID)
}

// HandleSuccess writes a standardized success response using provided logger
func HandleSuccess(logger *zap.Logger, c echo.Context, data interface{}) error {
	resp := success{
		Code:    int(errors.ErrorCode_HTTP_OK),
		Message: "success",
		Data:    data,
	}

	if logger != nil {
		logger.Info("http.response.success",
			zap.String("request_id", getRequestID(c)),
			zap.String("path", c.Path()),
		)
	}

	return c.JSON(http.StatusOK, resp)
}

// HandleError maps err onto an AppError and writes it. Domain sentinels are
// translated with errors.FromDomain; anything unrecognised is a 500.
func HandleError(logger *zap.Logger, c echo.Context, err error) error {
	appErr := errors.FromDomain(err)

	if logger != nil {
		logger.Error("http.response.error",
			zap.String("request_id", getRequestID(c)),
			zap.String("path", c.Path()),
			zap.String("app_code", appErr.Code.String()),
			zap.Error(err),
		)
	}

	body := errs{
		Code:    appErr.Code,
		Message: appErr.Message,
		Details: appErr.Details,
	}
	// Internal causes stay in the logs
	if appErr.Raw != nil && appErr.HTTPCode != http.StatusInternalServerError {
		body.Info = appErr.Raw.Error()
	}

	return c.JSON(appErr.HTTPCode, body)
}

// bindAndValidate binds the request and runs the registered validator
func bindAndValidate(c echo.Context, req interface{}) error {
	if err := c.Bind(req); err != nil {
		return errors.ErrInvalidPayload()
	}
	if err := c.Validate(req); err != nil {
		var he *echo.HTTPError
		if stdErrors.As(err, &he) {
			return errors.ErrInvalidPayload()
		}
		return errors.ErrInvalidArgument(err.Error())
	}
	return nil
}

// currentAccount returns the caller's account and user id set by EchoAuth
func currentAccount(c echo.Context) (accountID, userID uuid.UUID, err error) {
	accountID, okAccount := middleware.AccountID(c)
	userID, okUser := middleware.UserID(c)
	if !okAccount || !okUser {
		return uuid.Nil, uuid.Nil, errors.ErrUnauthenticated()
	}
	return accountID, userID, nil
}

// pathUUID parses a UUID path parameter
func pathUUID(c echo.Context, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		return uuid.Nil, errors.ErrInvalidArgument("invalid " + name)
	}
	return id, nil
}

// queryInt reads an integer query parameter with a default
func queryInt(c echo.Context, key string, defaultValue int) (int, error) {
	raw := c.QueryParam(key)
	if raw == "" {
		return defaultValue, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return 0, errors.ErrInvalidArgument("invalid " + key)
	}
	return v, nil
}
