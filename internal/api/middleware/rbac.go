package middleware

import (
	"fmt"

	"github.com/labstack/echo/v4"

	"github.com/talentbridge/access-core/internal/core/domain"
	"github.com/talentbridge/access-core/internal/core/ports"
)

// Authorize rejects a request early when the engine denies the action on the
// target built from the request. It covers creation targets, where no record
// needs resolving; the service still makes the authoritative decision.
func Authorize(authorizer ports.Authorizer, action domain.Action, target func(echo.Context) domain.ResourceDescriptor) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			actor, ok := Actor(c)
			if !ok {
				return domain.ErrUnauthenticated
			}

			d := target(c)
			if decision := authorizer.Decide(actor, action, d); !decision.Allow {
				return fmt.Errorf("%s %s: %w", action, d.Kind, decision.Err())
			}
			return next(c)
		}
	}
}

// Fixed returns a target func for a descriptor that does not depend on the request.
func Fixed(d domain.ResourceDescriptor) func(echo.Context) domain.ResourceDescriptor {
	return func(echo.Context) domain.ResourceDescriptor { return d }
}
