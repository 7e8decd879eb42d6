package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/talentbridge/access-core/internal/core/domain"
	"github.com/talentbridge/access-core/internal/core/ports"
)

type SavedJobHandler struct {
	service ports.SavedJobService
}

func NewSavedJobHandler(service ports.SavedJobService) *SavedJobHandler {
	return &SavedJobHandler{service: service}
}

// List handles GET /v1/saved-jobs.
//
// @Summary      List the caller's saved jobs
// @Tags         saved-jobs
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  listResponse[domain.SavedJob]
// @Failure      401  {object}  errorResponse
// @Router       /v1/saved-jobs [get]
func (h *SavedJobHandler) List(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}

	items, err := h.service.List(c.Request().Context(), actor)
	if err != nil {
		return err
	}
	if items == nil {
		items = []*domain.SavedJob{}
	}
	return c.JSON(http.StatusOK, listResponse[*domain.SavedJob]{Data: items})
}

// Remove handles DELETE /v1/saved-jobs/:id.
//
// @Summary      Remove a saved job
// @Tags         saved-jobs
// @Security     BearerAuth
// @Param        id   path  string  true  "Saved job ID"
// @Success      204
// @Failure      403  {object}  errorResponse
// @Router       /v1/saved-jobs/{id} [delete]
func (h *SavedJobHandler) Remove(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	if err := h.service.Remove(c.Request().Context(), actor, c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
