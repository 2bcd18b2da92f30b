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

// glHandler handles GL configuration and ledger health reporting.
type glHandler struct {
	config portssvc.GLConfigSvc
	stats  portssvc.GLStatisticsSvc
}

func newGLHandler(config portssvc.GLConfigSvc, stats portssvc.GLStatisticsSvc) *glHandler {
	return &glHandler{config: config, stats: stats}
}

// registerGLRoutes registers GL account, mapping and statistics routes.
func registerGLRoutes(rg *gin.RouterGroup, config portssvc.GLConfigSvc, stats portssvc.GLStatisticsSvc) {
	h := newGLHandler(config, stats)
	privileged := middleware.RequireRoles(domain.RoleAdmin, domain.RoleFinance)

	gl := rg.Group("/gl")
	{
		gl.POST("/accounts", privileged, h.createGLAccount)
		gl.GET("/accounts", h.listGLAccounts)
		gl.POST("/mappings", privileged, h.createMapping)
		gl.GET("/mappings", h.listMappings)
		gl.POST("/mappings/:id/deactivate", privileged, h.deactivateMapping)
		gl.GET("/statistics", h.getStatistics)
		gl.GET("/groupings/:id", h.getGrouping)
	}
}

// createGLAccount godoc
// @Summary Create a GL account
// @Tags gl
// @Accept  json
// @Produce  json
// @Param   account body dto.CreateGLAccountRequest true "GL account"
// @Success 201 {object} dto.APIResponse{data=domain.GLAccount}
// @Security BearerAuth
// @Router /gl/accounts [post]
func (h *glHandler) createGLAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	actor, ok := actorOrAbort(c, logger)
	if !ok {
		return
	}
	var req dto.CreateGLAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateGLAccount", slog.String("error", err.Error()))
		respondMessage(c, http.StatusBadRequest, "Invalid request format: "+err.Error())
		return
	}
	account, err := h.config.CreateGLAccount(c.Request.Context(), req, actor)
	if err != nil {
		respondError(c, logger, err, "Failed to create GL account")
		return
	}
	respondOK(c, http.StatusCreated, account)
}

// listGLAccounts godoc
// @Summary List GL accounts
// @Tags gl
// @Produce  json
// @Param   branch_id query string false "Branch filter"
// @Success 200 {object} dto.APIResponse{data=[]domain.GLAccount}
// @Security BearerAuth
// @Router /gl/accounts [get]
func (h *glHandler) listGLAccounts(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	actor, ok := actorOrAbort(c, logger)
	if !ok {
		return
	}
	accounts, err := h.config.ListGLAccounts(c.Request.Context(), optionalQuery(c, "branch_id"), actor)
	if err != nil {
		respondError(c, logger, err, "Failed to list GL accounts")
		return
	}
	respondOK(c, http.StatusOK, accounts)
}

// createMapping godoc
// @Summary Create a GL mapping leg
// @Tags gl
// @Accept  json
// @Produce  json
// @Param   mapping body dto.CreateGLMappingRequest true "Mapping leg"
// @Success 201 {object} dto.APIResponse{data=domain.GLMapping}
// @Security BearerAuth
// @Router /gl/mappings [post]
func (h *glHandler) createMapping(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	actor, ok := actorOrAbort(c, logger)
	if !ok {
		return
	}
	var req dto.CreateGLMappingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateMapping", slog.String("error", err.Error()))
		respondMessage(c, http.StatusBadRequest, "Invalid request format: "+err.Error())
		return
	}
	if req.ServiceType != domain.ServiceFloat {
		module, err := domain.ParseServiceType(string(req.ServiceType))
		if err != nil {
			respondMessage(c, http.StatusBadRequest, err.Error())
			return
		}
		req.ServiceType = module
	}
	mapping, err := h.config.CreateMapping(c.Request.Context(), req, actor)
	if err != nil {
		respondError(c, logger, err, "Failed to create GL mapping")
		return
	}
	respondOK(c, http.StatusCreated, mapping)
}

// listMappings godoc
// @Summary List GL mappings
// @Tags gl
// @Produce  json
// @Param   service_type query string false "Service filter"
// @Success 200 {object} dto.APIResponse{data=[]domain.GLMapping}
// @Security BearerAuth
// @Router /gl/mappings [get]
func (h *glHandler) listMappings(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	actor, ok := actorOrAbort(c, logger)
	if !ok {
		return
	}
	var serviceType *domain.ServiceType
	if raw := optionalQuery(c, "service_type"); raw != nil {
		st := domain.ServiceType(*raw)
		serviceType = &st
	}
	mappings, err := h.config.ListMappings(c.Request.Context(), serviceType, actor)
	if err != nil {
		respondError(c, logger, err, "Failed to list GL mappings")
		return
	}
	respondOK(c, http.StatusOK, mappings)
}

// deactivateMapping godoc
// @Summary Deactivate a GL mapping leg
// @Tags gl
// @Param   id path string true "Mapping ID"
// @Success 204
// @Security BearerAuth
// @Router /gl/mappings/{id}/deactivate [post]
func (h *glHandler) deactivateMapping(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	actor, ok := actorOrAbort(c, logger)
	if !ok {
		return
	}
	id, ok := pathIDOrAbort(c, logger)
	if !ok {
		return
	}
	if err := h.config.DeactivateMapping(c.Request.Context(), id, actor); err != nil {
		respondError(c, logger, err, "Failed to deactivate GL mapping")
		return
	}
	c.Status(http.StatusNoContent)
}

// getStatistics godoc
// @Summary Ledger health
// @Description Derived GL balances, trial totals, unbalanced groupings and float reconciliation
// @Tags gl
// @Produce  json
// @Param   branch_id query string false "Branch filter"
// @Success 200 {object} dto.APIResponse{data=domain.GLStatistics}
// @Security BearerAuth
// @Router /gl/statistics [get]
func (h *glHandler) getStatistics(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	actor, ok := actorOrAbort(c, logger)
	if !ok {
		return
	}
	stats, err := h.stats.Statistics(c.Request.Context(), optionalQuery(c, "branch_id"), actor)
	if err != nil {
		respondError(c, logger, err, "Failed to compute GL statistics")
		return
	}
	respondOK(c, http.StatusOK, stats)
}

// getGrouping godoc
// @Summary Journal entries of one grouping
// @Tags gl
// @Produce  json
// @Param   id path string true "Grouping ID"
// @Success 200 {object} dto.APIResponse{data=[]domain.GLJournalEntry}
// @Failure 404 {object} dto.APIResponse "Grouping not found"
// @Security BearerAuth
// @Router /gl/groupings/{id} [get]
func (h *glHandler) getGrouping(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	actor, ok := actorOrAbort(c, logger)
	if !ok {
		return
	}
	id, ok := pathIDOrAbort(c, logger)
	if !ok {
		return
	}
	entries, err := h.stats.Grouping(c.Request.Context(), id, actor)
	if err != nil {
		respondError(c, logger, err, "Failed to retrieve grouping")
		return
	}
	respondOK(c, http.StatusOK, entries)
}
