package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/talentbridge/access-core/internal/core/domain"
)

// statusClientClosedRequest is returned when the caller went away before the
// request finished. Nobody reads the body, so it only shows up in access logs.
const statusClientClosedRequest = 499

// errorResponse is the canonical error envelope for all API errors.
type errorResponse struct {
	Error  string `json:"error"`
	Reason string `json:"reason,omitempty"`
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps domain errors to their HTTP status codes, keeping 401 and 403 apart.
//   - Logs unexpected errors internally without leaking details to the client.
//   - Renders a consistent JSON envelope: {"error": "<message>"}.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, body := resolveError(err, log, c)
		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(code)
			return
		}
		_ = c.JSON(code, body)
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, errorResponse) {
	// Echo's own errors (bind failures, 404 from router, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, errorResponse{Error: fmt.Sprintf("%v", he.Message)}
	}

	// The failure reason stays in the logs; callers cannot tell a forged token from an expired one.
	if reason, ok := domain.SessionFailureOf(err); ok {
		log.Debug().Str("reason", string(reason)).Str("path", c.Path()).Msg("session rejected")
		return http.StatusUnauthorized, errorResponse{Error: "unauthenticated"}
	}

	if errors.Is(err, context.Canceled) {
		log.Debug().Str("path", c.Path()).Msg("request cancelled by client")
		return statusClientClosedRequest, errorResponse{Error: "request cancelled"}
	}

	switch {
	case errors.Is(err, domain.ErrUnauthenticated):
		return http.StatusUnauthorized, errorResponse{Error: "unauthenticated"}
	case errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusUnauthorized, errorResponse{Error: "invalid credentials"}
	case errors.Is(err, domain.ErrInconsistentState):
		log.Error().Err(err).Str("path", c.Path()).Msg("request denied on inconsistent state")
		return http.StatusForbidden, errorResponse{Error: "access forbidden", Reason: string(domain.ReasonInconsistentState)}
	case errors.Is(err, domain.ErrRoleMismatch):
		return http.StatusForbidden, errorResponse{Error: "access forbidden", Reason: string(domain.ReasonRoleMismatch)}
	case errors.Is(err, domain.ErrSelfModificationBlocked):
		return http.StatusForbidden, errorResponse{Error: domain.ErrSelfModificationBlocked.Error(), Reason: string(domain.ReasonSelfModificationBlocked)}
	case errors.Is(err, domain.ErrAccountInactive):
		return http.StatusForbidden, errorResponse{Error: "account is not active", Reason: string(domain.ReasonAccountInactive)}
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden, errorResponse{Error: "access forbidden"}
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, errorResponse{Error: "resource not found"}
	case errors.Is(err, domain.ErrConflict):
		return http.StatusConflict, errorResponse{Error: conflictMessage(err)}
	case errors.Is(err, domain.ErrInvalidTransition):
		return http.StatusUnprocessableEntity, errorResponse{Error: err.Error()}
	case errors.Is(err, domain.ErrInvalidInput):
		return http.StatusBadRequest, errorResponse{Error: err.Error()}
	case errors.Is(err, domain.ErrTooManyAttempts):
		return http.StatusTooManyRequests, errorResponse{Error: "too many login attempts"}
	}

	// Unexpected error, crypto failures included: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, errorResponse{Error: "internal server error"}
}

func conflictMessage(err error) string {
	for _, known := range []error{
		domain.ErrEmailTaken,
		domain.ErrDuplicateApplication,
		domain.ErrDuplicateSavedJob,
		domain.ErrDuplicateChat,
	} {
		if errors.Is(err, known) {
			return known.Error()
		}
	}
	return "conflict"
}
