package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/talentbridge/access-core/internal/api/middleware"
	"github.com/talentbridge/access-core/internal/core/domain"
)

// actorFrom extracts the actor injected by the Session middleware. A missing
// actor means the route was registered without the middleware.
func actorFrom(c echo.Context) (domain.ActorContext, error) {
	actor, ok := middleware.Actor(c)
	if !ok || actor.AccountID == "" {
		return domain.ActorContext{}, echo.NewHTTPError(http.StatusUnauthorized, "missing session")
	}
	return actor, nil
}

// bind decodes and validates the request body.
func bind(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return nil
}
