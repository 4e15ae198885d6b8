package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/clansdown/KingShotMinisterScheduler/internal/dto"
	"github.com/clansdown/KingShotMinisterScheduler/internal/service"
	apperrors "github.com/clansdown/KingShotMinisterScheduler/pkg/errors"
	"github.com/clansdown/KingShotMinisterScheduler/pkg/response"
)

type RosterHandler struct {
	roster *service.RosterService
}

func NewRosterHandler(roster *service.RosterService) *RosterHandler {
	return &RosterHandler{roster: roster}
}

// Import godoc
// @Summary      Import a roster document
// @Description  Parses a tab-separated roster export and upserts every clean line; skipped lines come back as diagnostics
// @Tags         roster
// @Accept       json
// @Produce      json
// @Param        payload body dto.ImportRosterRequest true "Roster content"
// @Success      200 {object} response.Envelope{data=dto.ImportSummary}
// @Failure      400 {object} response.Envelope
// @Security     BearerAuth
// @Router       /roster/import [post]
func (h *RosterHandler) Import(c *gin.Context) {
	var req dto.ImportRosterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperrors.Clone(apperrors.ErrValidation, "invalid request body"))
		return
	}

	summary, diagnostics, err := h.roster.Import(c.Request.Context(), &req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSONWithDiagnostics(c, http.StatusOK, summary, diagnostics)
}

// List godoc
// @Summary      List roster members
// @Tags         roster
// @Produce      json
// @Param        page query int false "Page" default(1)
// @Param        page_size query int false "Page size" default(50)
// @Success      200 {object} response.Envelope{data=[]models.RosterMember}
// @Security     BearerAuth
// @Router       /roster [get]
func (h *RosterHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "50"))

	members, pagination, err := h.roster.List(c.Request.Context(), page, pageSize)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, members, pagination)
}

// Add godoc
// @Summary      Add or replace a roster member
// @Tags         roster
// @Accept       json
// @Produce      json
// @Param        payload body dto.AddMemberRequest true "Member"
// @Success      201 {object} response.Envelope{data=models.RosterMember}
// @Failure      400 {object} response.Envelope
// @Security     BearerAuth
// @Router       /roster/members [post]
func (h *RosterHandler) Add(c *gin.Context) {
	var req dto.AddMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperrors.Clone(apperrors.ErrValidation, "invalid request body"))
		return
	}

	member, err := h.roster.Add(c.Request.Context(), &req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, member)
}

// Delete godoc
// @Summary      Delete a roster member
// @Tags         roster
// @Produce      json
// @Param        id path string true "Member ID"
// @Success      204
// @Failure      404 {object} response.Envelope
// @Security     BearerAuth
// @Router       /roster/members/{id} [delete]
func (h *RosterHandler) Delete(c *gin.Context) {
	if err := h.roster.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}
