package handlers

import (
	"log/slog"
	"net/http"

	"github.com/branchops/float_ledger/internal/core/domain"
	portssvc "github.com/branchops/float_ledger/internal/core/ports/services"
	"github.com/branchops/float_ledger/internal/dto"
	"github.com/branchops/float_ledger/internal/middleware"
	"github.com/gin-gonic/gin"
)

// reversalHandler handles the reversal approval workflow.
type reversalHandler struct {
	reversals portssvc.ReversalRequestSvc
}

func newReversalHandler(reversals portssvc.ReversalRequestSvc) *reversalHandler {
	return &reversalHandler{reversals: reversals}
}

// registerReversalRoutes registers reversal request routes.
func registerReversalRoutes(rg *gin.RouterGroup, reversals portssvc.ReversalRequestSvc) {
	h := newReversalHandler(reversals)
	reviewers := middleware.RequireRoles(domain.RoleAdmin, domain.RoleFinance, domain.RoleManager)

	r := rg.Group("/reversals")
	{
		r.POST("", h.requestReversal)
		r.GET("", h.listReversals)
		r.POST("/:id/approve", reviewers, h.approveReversal)
		r.POST("/:id/reject", reviewers, h.rejectReversal)
	}
}

// requestReversal godoc
// @Summary Request a reversal
// @Tags reversals
// @Accept  json
// @Produce  json
// @Param   request body dto.CreateReversalRequest true "Reversal request"
// @Success 201 {object} dto.APIResponse{data=domain.ReversalRecord}
// @Failure 409 {object} dto.APIResponse "Already pending or reversed"
// @Security BearerAuth
// @Router /reversals [post]
func (h *reversalHandler) requestReversal(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	actor, ok := actorOrAbort(c, logger)
	if !ok {
		return
	}
	var req dto.CreateReversalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for RequestReversal", slog.String("error", err.Error()))
		respondMessage(c, http.StatusBadRequest, "Invalid request format: "+err.Error())
		return
	}
	module, err := domain.ParseServiceType(string(req.SourceModule))
	if err != nil {
		respondMessage(c, http.StatusBadRequest, err.Error())
		return
	}
	req.SourceModule = module

	record, err := h.reversals.RequestReversal(c.Request.Context(), req, actor)
	if err != nil {
		respondError(c, logger, err, "Failed to request reversal")
		return
	}
	respondOK(c, http.StatusCreated, record)
}

// listReversals godoc
// @Summary List reversal requests
// @Tags reversals
// @Produce  json
// @Param   branch_id query string false "Branch filter"
// @Param   status query string false "PENDING, APPROVED or REJECTED"
// @Param   limit query int false "Page size" default(20)
// @Param   offset query int false "Offset" default(0)
// @Success 200 {object} dto.APIResponse{data=[]domain.ReversalRecord}
// @Security BearerAuth
// @Router /reversals [get]
func (h *reversalHandler) listReversals(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	actor, ok := actorOrAbort(c, logger)
	if !ok {
		return
	}
	var params dto.ListReversalsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind query for ListReversals", slog.String("error", err.Error()))
		respondMessage(c, http.StatusBadRequest, "Invalid query parameters: "+err.Error())
		return
	}
	records, err := h.reversals.ListReversals(c.Request.Context(), params, actor)
	if err != nil {
		respondError(c, logger, err, "Failed to list reversals")
		return
	}
	respondOK(c, http.StatusOK, records)
}

// approveReversal godoc
// @Summary Approve a reversal request
// @Description Executes the reversal exactly once
// @Tags reversals
// @Accept  json
// @Produce  json
// @Param   id path string true "Reversal ID"
// @Param   review body dto.ReviewReversalRequest false "Reviewer note"
// @Success 200 {object} dto.APIResponse{data=domain.ReversalResult}
// @Failure 409 {object} dto.APIResponse "Already reviewed"
// @Security BearerAuth
// @Router /reversals/{id}/approve [post]
func (h *reversalHandler) approveReversal(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	actor, ok := actorOrAbort(c, logger)
	if !ok {
		return
	}
	id, ok := pathIDOrAbort(c, logger)
	if !ok {
		return
	}
	note, ok := bindReview(c, logger)
	if !ok {
		return
	}
	result, err := h.reversals.ApproveReversal(c.Request.Context(), id, note, actor)
	if err != nil {
		respondError(c, logger, err, "Failed to approve reversal")
		return
	}
	respondOK(c, http.StatusOK, result)
}

// rejectReversal godoc
// @Summary Reject a reversal request
// @Tags reversals
// @Accept  json
// @Produce  json
// @Param   id path string true "Reversal ID"
// @Param   review body dto.ReviewReversalRequest false "Reviewer note"
// @Success 200 {object} dto.APIResponse{data=domain.ReversalRecord}
// @Failure 409 {object} dto.APIResponse "Already reviewed"
// @Security BearerAuth
// @Router /reversals/{id}/reject [post]
func (h *reversalHandler) rejectReversal(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	actor, ok := actorOrAbort(c, logger)
	if !ok {
		return
	}
	id, ok := pathIDOrAbort(c, logger)
	if !ok {
		return
	}
	note, ok := bindReview(c, logger)
	if !ok {
		return
	}
	record, err := h.reversals.RejectReversal(c.Request.Context(), id, note, actor)
	if err != nil {
		respondError(c, logger, err, "Failed to reject reversal")
		return
	}
	respondOK(c, http.StatusOK, record)
}

// bindReview reads the optional reviewer note; an empty body is allowed.
func bindReview(c *gin.Context, logger *slog.Logger) (*string, bool) {
	if c.Request.ContentLength == 0 {
		return nil, true
	}
	var req dto.ReviewReversalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind review note", slog.String("error", err.Error()))
		respondMessage(c, http.StatusBadRequest, "Invalid request format: "+err.Error())
		return nil, false
	}
	return req.Note, true
}
