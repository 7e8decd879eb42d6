package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/talentbridge/access-core/internal/core/ports"
)

// JobHandler serves job postings and the job-scoped actions of seekers.
type JobHandler struct {
	jobs  ports.JobService
	apps  ports.ApplicationService
	saved ports.SavedJobService
}

func NewJobHandler(jobs ports.JobService, apps ports.ApplicationService, saved ports.SavedJobService) *JobHandler {
	return &JobHandler{jobs: jobs, apps: apps, saved: saved}
}

// Create handles POST /v1/jobs.
//
// @Summary      Post a job
// @Tags         jobs
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createJobRequest  true  "Job details"
// @Success      201   {object}  domain.Job
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Router       /v1/jobs [post]
func (h *JobHandler) Create(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	var req createJobRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	job, err := h.jobs.Create(c.Request().Context(), actor, ports.CreateJobInput{
		Title:       req.Title,
		Company:     req.Company,
		Location:    req.Location,
		Description: req.Description,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, job)
}

// Get handles GET /v1/jobs/:id.
//
// @Summary      Get a job
// @Tags         jobs
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Job ID"
// @Success      200  {object}  domain.Job
// @Failure      404  {object}  errorResponse
// @Router       /v1/jobs/{id} [get]
func (h *JobHandler) Get(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}

	job, err := h.jobs.Get(c.Request().Context(), actor, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, job)
}

// Update handles PATCH /v1/jobs/:id.
//
// @Summary      Edit a job
// @Tags         jobs
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string            true  "Job ID"
// @Param        body  body      updateJobRequest  true  "Fields to change"
// @Success      200   {object}  domain.Job
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /v1/jobs/{id} [patch]
func (h *JobHandler) Update(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	var req updateJobRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	job, err := h.jobs.Update(c.Request().Context(), actor, c.Param("id"), req.toDomain())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, job)
}

// Close handles POST /v1/jobs/:id/close.
//
// @Summary      Close a job
// @Tags         jobs
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Job ID"
// @Success      200  {object}  domain.Job
// @Failure      403  {object}  errorResponse
// @Failure      422  {object}  errorResponse
// @Router       /v1/jobs/{id}/close [post]
func (h *JobHandler) Close(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}

	job, err := h.jobs.Close(c.Request().Context(), actor, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, job)
}

// Delete handles DELETE /v1/jobs/:id.
//
// @Summary      Delete a job
// @Tags         jobs
// @Security     BearerAuth
// @Param        id   path  string  true  "Job ID"
// @Success      204
// @Failure      403  {object}  errorResponse
// @Router       /v1/jobs/{id} [delete]
func (h *JobHandler) Delete(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	if err := h.jobs.Delete(c.Request().Context(), actor, c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// Apply handles POST /v1/jobs/:id/applications.
//
// @Summary      Apply to a job
// @Tags         applications
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string        true   "Job ID"
// @Param        body  body      applyRequest  false  "Cover letter"
// @Success      201   {object}  domain.Application
// @Failure      403   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /v1/jobs/{id}/applications [post]
func (h *JobHandler) Apply(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	var req applyRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	app, err := h.apps.Apply(c.Request().Context(), actor, c.Param("id"), req.CoverLetter)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, app)
}

// Save handles POST /v1/jobs/:id/save.
//
// @Summary      Bookmark a job
// @Tags         saved-jobs
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Job ID"
// @Success      201  {object}  domain.SavedJob
// @Failure      403  {object}  errorResponse
// @Failure      409  {object}  errorResponse
// @Router       /v1/jobs/{id}/save [post]
func (h *JobHandler) Save(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}

	saved, err := h.saved.Save(c.Request().Context(), actor, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, saved)
}
