package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/trezcool/placement/core"
	"github.com/trezcool/placement/core/assignment"
)

var errHttpNotFound = echo.NewHTTPError(http.StatusNotFound, "not found")

// conflicts maps business failures to their stable `code`. Order matters: an unassigned student
// error also matches its cause.
var conflicts = []struct {
	err  error
	code string
}{
	{assignment.ErrStudentUnassigned, "student_unassigned"},
	{core.ErrDuplicateRequest, "duplicate_request"},
	{core.ErrCapacityExceeded, "capacity_exceeded"},
	{core.ErrAlreadyAssigned, "already_assigned"},
}

// newAppHTTPErrorHandler returns a custom echo.HTTPErrorHandler that knows how to handle our errors.
// signalShutdown is called in order to gracefully shutdown the Server whenever a core.shutdown error is caught.
func newAppHTTPErrorHandler(logger *zap.Logger, signalShutdown func()) echo.HTTPErrorHandler {
	return func(err error, ctx echo.Context) {
		code, message := errorResponse(err)

		if code >= http.StatusInternalServerError {
			logger.Error(
				http.StatusText(code),
				zap.Error(err),
				zap.String("request_id", ctx.Response().Header().Get(echo.HeaderXRequestID)),
				zap.String("path", ctx.Request().URL.Path),
			)
			// shutting down...
			if core.IsShutdown(err) {
				signalShutdown()
			}
		}

		if ctx.Echo().Debug {
			message = echo.Map{"error": err.Error()}
		}

		// Send response
		if !ctx.Response().Committed {
			if ctx.Request().Method == http.MethodHead { // Issue #608
				err = ctx.NoContent(code)
			} else {
				err = ctx.JSON(code, message)
			}
			if err != nil {
				logger.Error("sending error response", zap.Error(err))
			}
		}
	}
}

func errorResponse(err error) (int, interface{}) {
	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		if herr, ok := httpErr.Internal.(*echo.HTTPError); ok {
			httpErr = herr
		}
		if m, ok := httpErr.Message.(string); ok {
			return httpErr.Code, echo.Map{"error": m}
		}
		return httpErr.Code, httpErr.Message
	}

	for _, c := range conflicts {
		if errors.Is(err, c.err) {
			return http.StatusConflict, echo.Map{"error": err.Error(), "code": c.code}
		}
	}

	var vErr *core.ValidationError
	if errors.As(err, &vErr) {
		if len(vErr.Fields) > 0 {
			fldErrs := make(map[string]string, len(vErr.Fields))
			for _, fErr := range vErr.Fields {
				fldErrs[fErr.Field] = fErr.Error
			}
			return http.StatusBadRequest, fldErrs
		}
		return http.StatusBadRequest, echo.Map{"error": vErr.Error()}
	}

	var nfErr *core.NotFoundError
	if errors.As(err, &nfErr) {
		return http.StatusNotFound, echo.Map{"error": nfErr.Error(), "code": "not_found"}
	}

	if errors.Is(err, core.ErrStorageUnavailable) {
		return http.StatusServiceUnavailable, echo.Map{"error": core.ErrStorageUnavailable.Error(), "code": "storage_unavailable"}
	}

	// any other error is a server error
	return http.StatusInternalServerError, echo.Map{"error": http.StatusText(http.StatusInternalServerError)}
}
