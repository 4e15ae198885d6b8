package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/clansdown/KingShotMinisterScheduler/internal/dto"
	"github.com/clansdown/KingShotMinisterScheduler/internal/models"
	"github.com/clansdown/KingShotMinisterScheduler/internal/service"
	apperrors "github.com/clansdown/KingShotMinisterScheduler/pkg/errors"
	"github.com/clansdown/KingShotMinisterScheduler/pkg/response"
)

type RunHandler struct {
	runs *service.RunService
}

func NewRunHandler(runs *service.RunService) *RunHandler {
	return &RunHandler{runs: runs}
}

// Trigger godoc
// @Summary      Run the scheduler
// @Description  Executes a full scheduling run against the stored roster and persists the result as a new version. Runs are serialised; the call blocks until this run completes.
// @Tags         runs
// @Accept       json
// @Produce      json
// @Param        payload body dto.TriggerRunRequest false "Overrides"
// @Success      201 {object} response.Envelope{data=models.ScheduleRun}
// @Failure      412 {object} response.Envelope
// @Security     BearerAuth
// @Router       /runs [post]
func (h *RunHandler) Trigger(c *gin.Context) {
	var req dto.TriggerRunRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			response.Error(c, apperrors.Clone(apperrors.ErrValidation, "invalid request body"))
			return
		}
	}

	run, err := h.runs.Trigger(c.Request.Context(), &req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, run)
}

// List godoc
// @Summary      List schedule runs
// @Tags         runs
// @Produce      json
// @Success      200 {object} response.Envelope{data=[]dto.RunSummary}
// @Security     BearerAuth
// @Router       /runs [get]
func (h *RunHandler) List(c *gin.Context) {
	summaries, err := h.runs.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, summaries, nil)
}

// Latest godoc
// @Summary      Get the most recent run
// @Tags         runs
// @Produce      json
// @Success      200 {object} response.Envelope{data=models.ScheduleRun}
// @Failure      404 {object} response.Envelope
// @Security     BearerAuth
// @Router       /runs/latest [get]
func (h *RunHandler) Latest(c *gin.Context) {
	run, err := h.runs.Latest(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, run, nil)
}

// Get godoc
// @Summary      Get one run with its full snapshot
// @Tags         runs
// @Produce      json
// @Param        id path string true "Run ID, or the literal \"latest\""
// @Success      200 {object} response.Envelope{data=models.ScheduleRun}
// @Failure      404 {object} response.Envelope
// @Security     BearerAuth
// @Router       /runs/{id} [get]
func (h *RunHandler) Get(c *gin.Context) {
	// gin cannot register /runs/latest next to /runs/:id, so the
	// alias is resolved here instead.
	if c.Param("id") == "latest" {
		h.Latest(c)
		return
	}

	run, err := h.runs.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, run, nil)
}

// Appointments godoc
// @Summary      List appointments of a run
// @Description  Returns the appointment list of one run, optionally filtered by day and role
// @Tags         runs
// @Produce      json
// @Param        id path string true "Run ID"
// @Param        day query int false "Rotation day (1-7)"
// @Param        role query string false "MINISTER or ADVISOR"
// @Success      200 {object} response.Envelope{data=[]models.Appointment}
// @Failure      404 {object} response.Envelope
// @Security     BearerAuth
// @Router       /runs/{id}/appointments [get]
func (h *RunHandler) Appointments(c *gin.Context) {
	snapshot, err := h.runs.Snapshot(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	appointments := snapshot.Appointments
	if dayParam := c.Query("day"); dayParam != "" {
		day, err := strconv.Atoi(dayParam)
		if err != nil {
			response.Error(c, apperrors.Clone(apperrors.ErrValidation, "day must be an integer"))
			return
		}
		role := models.Role(c.Query("role"))
		if role != "" && role != models.RoleMinister && role != models.RoleAdvisor {
			response.Error(c, apperrors.Clone(apperrors.ErrValidation, "role must be MINISTER or ADVISOR"))
			return
		}
		if role != "" {
			appointments = snapshot.AppointmentsFor(day, role)
		} else {
			appointments = append(snapshot.AppointmentsFor(day, models.RoleMinister),
				snapshot.AppointmentsFor(day, models.RoleAdvisor)...)
		}
	}

	response.JSON(c, http.StatusOK, appointments, nil)
}

// Waiting godoc
// @Summary      List waiting entries of a run
// @Tags         runs
// @Produce      json
// @Param        id path string true "Run ID"
// @Param        day query int false "Rotation day (1-7)"
// @Success      200 {object} response.Envelope{data=[]models.WaitingEntry}
// @Failure      404 {object} response.Envelope
// @Security     BearerAuth
// @Router       /runs/{id}/waiting [get]
func (h *RunHandler) Waiting(c *gin.Context) {
	snapshot, err := h.runs.Snapshot(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	waiting := snapshot.Waiting
	if dayParam := c.Query("day"); dayParam != "" {
		day, err := strconv.Atoi(dayParam)
		if err != nil {
			response.Error(c, apperrors.Clone(apperrors.ErrValidation, "day must be an integer"))
			return
		}
		waiting = snapshot.WaitingFor(day)
	}

	response.JSON(c, http.StatusOK, waiting, nil)
}
