package api

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/balkashynov/goalie/internal/db"
)

// serviceError maps service errors onto HTTP errors. rejected is the
// message used when an add operation is refused.
func serviceError(err error, rejected string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, db.ErrRejected):
		return echo.NewHTTPError(http.StatusBadRequest, rejected).SetInternal(err)
	case errors.Is(err, db.ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "Not found").SetInternal(err)
	case errors.Is(err, db.ErrConflict):
		return echo.NewHTTPError(http.StatusConflict, "Email is already registered").SetInternal(err)
	case errors.Is(err, db.ErrUnauthorized):
		return echo.NewHTTPError(http.StatusUnauthorized, "Invalid email or password").SetInternal(err)
	}
	return err
}

// errorHandler writes {"message": ...}. Anything that is not an
// *echo.HTTPError is a server fault: logged, and reported generically.
func errorHandler(log *slog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		status := http.StatusInternalServerError
		message := "Internal server error"

		var he *echo.HTTPError
		if errors.As(err, &he) {
			status = he.Code
			message = fmt.Sprint(he.Message)
			if he.Internal != nil && status >= http.StatusInternalServerError {
				log.Error("request failed", "method", c.Request().Method, "path", c.Path(), "err", he.Internal)
			}
		} else {
			log.Error("request failed", "method", c.Request().Method, "path", c.Path(), "err", err)
		}

		var writeErr error
		if c.Request().Method == http.MethodHead {
			writeErr = c.NoContent(status)
		} else {
			writeErr = c.JSON(status, echo.Map{"message": message})
		}
		if writeErr != nil {
			log.Error("failed to write error response", "err", writeErr)
		}
	}
}
