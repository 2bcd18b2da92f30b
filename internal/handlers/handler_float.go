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

// floatHandler handles float operations and float account administration.
type floatHandler struct {
	floatSvc   portssvc.FloatOperationsSvc
	accountSvc portssvc.FloatAccountSvc
}

// newFloatHandler creates a new floatHandler.
func newFloatHandler(floatSvc portssvc.FloatOperationsSvc, accountSvc portssvc.FloatAccountSvc) *floatHandler {
	return &floatHandler{floatSvc: floatSvc, accountSvc: accountSvc}
}

// registerFloatRoutes registers float operation and float account routes.
func registerFloatRoutes(rg *gin.RouterGroup, floatSvc portssvc.FloatOperationsSvc, accountSvc portssvc.FloatAccountSvc) {
	h := newFloatHandler(floatSvc, accountSvc)
	privileged := middleware.RequireRoles(domain.RoleAdmin, domain.RoleFinance)

	float := rg.Group("/float")
	{
		float.POST("/recharge", h.rechargeFloat)
		float.POST("/exchange", h.exchangeFloat)

		float.POST("/accounts", privileged, h.createFloatAccount)
		float.GET("/accounts", h.listFloatAccounts)
		float.GET("/accounts/:id", h.getFloatAccount)
		float.GET("/accounts/:id/entries", h.listFloatEntries)
		float.POST("/accounts/:id/deactivate", privileged, h.deactivateFloatAccount)
	}
}

// rechargeFloat godoc
// @Summary Recharge a float account
// @Description Moves value from a source float account into a target float account
// @Tags float
// @Accept  json
// @Produce  json
// @Param   recharge body dto.RechargeFloatRequest true "Recharge details"
// @Success 200 {object} dto.APIResponse{data=dto.RechargeFloatResponse}
// @Failure 422 {object} dto.APIResponse "Insufficient source balance"
// @Security BearerAuth
// @Router /float/recharge [post]
func (h *floatHandler) rechargeFloat(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	actor, ok := actorOrAbort(c, logger)
	if !ok {
		return
	}
	var req dto.RechargeFloatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for RechargeFloat", slog.String("error", err.Error()))
		respondMessage(c, http.StatusBadRequest, "Invalid request format: "+err.Error())
		return
	}

	result, err := h.floatSvc.Recharge(c.Request.Context(), req, actor)
	if err != nil {
		respondError(c, logger, err, "Failed to recharge float")
		return
	}
	respondOK(c, http.StatusOK, dto.RechargeFloatResponse{
		ReferenceID:           result.ReferenceID,
		NewTargetBalance:      result.To.Balance,
		NewSourceBalance:      result.From.Balance,
		ReconciliationPending: result.ReconciliationPending,
	})
}

// exchangeFloat godoc
// @Summary Exchange cash for float
// @Description Moves value between the branch cash till and one of its float accounts
// @Tags float
// @Accept  json
// @Produce  json
// @Param   exchange body dto.ExchangeFloatRequest true "Exchange details"
// @Success 200 {object} dto.APIResponse{data=dto.ExchangeFloatResponse}
// @Failure 422 {object} dto.APIResponse "Insufficient balance"
// @Security BearerAuth
// @Router /float/exchange [post]
func (h *floatHandler) exchangeFloat(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	actor, ok := actorOrAbort(c, logger)
	if !ok {
		return
	}
	var req dto.ExchangeFloatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for ExchangeFloat", slog.String("error", err.Error()))
		respondMessage(c, http.StatusBadRequest, "Invalid request format: "+err.Error())
		return
	}

	result, err := h.floatSvc.Exchange(c.Request.Context(), req, actor)
	if err != nil {
		respondError(c, logger, err, "Failed to exchange float")
		return
	}
	resp := dto.ExchangeFloatResponse{
		ReferenceID:           result.ReferenceID,
		CashTill:              result.From,
		FloatAccount:          result.To,
		ReconciliationPending: result.ReconciliationPending,
	}
	if req.Direction == dto.FloatToCash {
		resp.CashTill, resp.FloatAccount = result.To, result.From
	}
	respondOK(c, http.StatusOK, resp)
}

// createFloatAccount godoc
// @Summary Open a float account
// @Tags float
// @Accept  json
// @Produce  json
// @Param   account body dto.CreateFloatAccountRequest true "Float account"
// @Success 201 {object} dto.APIResponse{data=domain.FloatAccount}
// @Failure 403 {object} dto.APIResponse "Forbidden"
// @Security BearerAuth
// @Router /float/accounts [post]
func (h *floatHandler) createFloatAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	actor, ok := actorOrAbort(c, logger)
	if !ok {
		return
	}
	var req dto.CreateFloatAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateFloatAccount", slog.String("error", err.Error()))
		respondMessage(c, http.StatusBadRequest, "Invalid request format: "+err.Error())
		return
	}

	account, err := h.accountSvc.CreateFloatAccount(c.Request.Context(), req, actor)
	if err != nil {
		respondError(c, logger, err, "Failed to create float account")
		return
	}
	respondOK(c, http.StatusCreated, account)
}

// listFloatAccounts godoc
// @Summary List float accounts
// @Tags float
// @Produce  json
// @Param   branch_id query string false "Branch filter"
// @Success 200 {object} dto.APIResponse{data=[]domain.FloatAccount}
// @Security BearerAuth
// @Router /float/accounts [get]
func (h *floatHandler) listFloatAccounts(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	actor, ok := actorOrAbort(c, logger)
	if !ok {
		return
	}
	accounts, err := h.accountSvc.ListFloatAccounts(c.Request.Context(), optionalQuery(c, "branch_id"), actor)
	if err != nil {
		respondError(c, logger, err, "Failed to list float accounts")
		return
	}
	respondOK(c, http.StatusOK, accounts)
}

// getFloatAccount godoc
// @Summary Get a float account
// @Tags float
// @Produce  json
// @Param   id path string true "Float account ID"
// @Success 200 {object} dto.APIResponse{data=domain.FloatAccount}
// @Failure 404 {object} dto.APIResponse "Float account not found"
// @Security BearerAuth
// @Router /float/accounts/{id} [get]
func (h *floatHandler) getFloatAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	actor, ok := actorOrAbort(c, logger)
	if !ok {
		return
	}
	id, ok := pathIDOrAbort(c, logger)
	if !ok {
		return
	}
	account, err := h.accountSvc.GetFloatAccount(c.Request.Context(), id, actor)
	if err != nil {
		respondError(c, logger, err, "Failed to retrieve float account")
		return
	}
	respondOK(c, http.StatusOK, account)
}

// listFloatEntries godoc
// @Summary List a float account's entries
// @Description Newest first, paginated with nextToken
// @Tags float
// @Produce  json
// @Param   id path string true "Float account ID"
// @Param   limit query int false "Page size" default(20)
// @Param   nextToken query string false "Pagination token"
// @Success 200 {object} dto.APIResponse{data=dto.ListFloatEntriesResponse}
// @Security BearerAuth
// @Router /float/accounts/{id}/entries [get]
func (h *floatHandler) listFloatEntries(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	actor, ok := actorOrAbort(c, logger)
	if !ok {
		return
	}
	id, ok := pathIDOrAbort(c, logger)
	if !ok {
		return
	}
	var params dto.ListFloatEntriesParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind query for ListFloatEntries", slog.String("error", err.Error()))
		respondMessage(c, http.StatusBadRequest, "Invalid query parameters: "+err.Error())
		return
	}

	resp, err := h.accountSvc.ListFloatEntries(c.Request.Context(), id, actor, params)
	if err != nil {
		respondError(c, logger, err, "Failed to list float entries")
		return
	}
	respondOK(c, http.StatusOK, resp)
}

// deactivateFloatAccount godoc
// @Summary Deactivate a float account
// @Tags float
// @Produce  json
// @Param   id path string true "Float account ID"
// @Success 204
// @Security BearerAuth
// @Router /float/accounts/{id}/deactivate [post]
func (h *floatHandler) deactivateFloatAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	actor, ok := actorOrAbort(c, logger)
	if !ok {
		return
	}
	id, ok := pathIDOrAbort(c, logger)
	if !ok {
		return
	}
	if err := h.accountSvc.DeactivateFloatAccount(c.Request.Context(), id, actor); err != nil {
		respondError(c, logger, err, "Failed to deactivate float account")
		return
	}
	c.Status(http.StatusNoContent)
}
