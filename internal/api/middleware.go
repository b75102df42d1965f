package api

import (
	"net/http"

	"github.com/google/uuid"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"

	"github.com/balkashynov/goalie/internal/auth"
)

const claimsKey = "user"

// requireAuth verifies the bearer token and stores its claims on the context
func (h *handlers) requireAuth() echo.MiddlewareFunc {
	return echojwt.WithConfig(echojwt.Config{
		ContextKey: claimsKey,
		ParseTokenFunc: func(c echo.Context, token string) (interface{}, error) {
			return h.svc.Tokens.Parse(token)
		},
		ErrorHandler: func(c echo.Context, err error) error {
			return echo.NewHTTPError(http.StatusUnauthorized, "Invalid or missing token").SetInternal(err)
		},
	})
}

// currentUser returns the authenticated user id
func currentUser(c echo.Context) (uuid.UUID, error) {
	claims, ok := c.Get(claimsKey).(*auth.Claims)
	if !ok {
		return uuid.Nil, echo.NewHTTPError(http.StatusUnauthorized, "Invalid or missing token")
	}
	id, err := claims.UserID()
	if err != nil {
		return uuid.Nil, echo.NewHTTPError(http.StatusUnauthorized, "Invalid or missing token").SetInternal(err)
	}
	return id, nil
}

// pathID parses a UUID path parameter
func pathID(c echo.Context, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		return uuid.Nil, echo.NewHTTPError(http.StatusBadRequest, "Invalid "+name).SetInternal(err)
	}
	return id, nil
}

// pathIDs parses several path parameters in order
func pathIDs(c echo.Context, names ...string) ([]uuid.UUID, error) {
	ids := make([]uuid.UUID, 0, len(names))
	for _, name := range names {
		id, err := pathID(c, name)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}
