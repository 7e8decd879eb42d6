package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/talentbridge/access-core/internal/core/domain"
	"github.com/talentbridge/access-core/internal/core/ports"
	"github.com/talentbridge/access-core/internal/pkg/metrics"
)

const (
	// SessionCookie is the cookie carrying the session token for browser clients.
	SessionCookie = "session"

	actorKey = "actor"
)

// Session validates the session token and stores the resulting actor on the
// request context. The Authorization header wins over the cookie.
func Session(validator ports.SessionValidator) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw, err := bearerToken(c)
			if err != nil {
				metrics.SessionRejectionsTotal.WithLabelValues("missing").Inc()
				return err
			}

			actor, err := validator.Validate(c.Request().Context(), raw)
			if err != nil {
				// A caller that hung up is not a rejected token.
				if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
					return err
				}
				reason, ok := domain.SessionFailureOf(err)
				if !ok {
					reason = domain.SessionMalformed
				}
				metrics.SessionRejectionsTotal.WithLabelValues(string(reason)).Inc()
				return err
			}

			c.Set(actorKey, actor)
			return next(c)
		}
	}
}

// Actor returns the actor stored by Session.
func Actor(c echo.Context) (domain.ActorContext, bool) {
	actor, ok := c.Get(actorKey).(domain.ActorContext)
	return actor, ok
}

func bearerToken(c echo.Context) (string, error) {
	if authHeader := c.Request().Header.Get(echo.HeaderAuthorization); authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || parts[1] == "" {
			return "", echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header")
		}
		return parts[1], nil
	}

	if cookie, err := c.Cookie(SessionCookie); err == nil && cookie.Value != "" {
		return cookie.Value, nil
	}
	return "", echo.NewHTTPError(http.StatusUnauthorized, "missing session token")
}
