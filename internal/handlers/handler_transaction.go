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

// transactionHandler handles HTTP requests for business transactions of every module.
type transactionHandler struct {
	dispatcher portssvc.TransactionDispatcherSvc
}

// newTransactionHandler creates a new transactionHandler.
func newTransactionHandler(dispatcher portssvc.TransactionDispatcherSvc) *transactionHandler {
	return &transactionHandler{dispatcher: dispatcher}
}

// registerTransactionRoutes registers the per-module transaction routes.
func registerTransactionRoutes(rg *gin.RouterGroup, dispatcher portssvc.TransactionDispatcherSvc) {
	h := newTransactionHandler(dispatcher)

	txns := rg.Group("/transactions/:module")
	{
		txns.POST("", h.createTransaction)
		txns.GET("/:id", h.getTransaction)
		txns.PATCH("/:id", h.editTransaction)
		txns.DELETE("/:id", middleware.RequireRoles(domain.RoleAdmin), h.deleteTransaction)
		txns.POST("/:id/reverse", h.reverseTransaction)
		txns.POST("/:id/complete", h.transitionHandler(domain.ActionComplete))
		txns.POST("/:id/deliver", h.transitionHandler(domain.ActionDeliver))
		txns.POST("/:id/disburse", h.transitionHandler(domain.ActionDisburse))
	}
}

func moduleOrAbort(c *gin.Context, logger *slog.Logger) (domain.ServiceType, bool) {
	module, err := domain.ParseServiceType(c.Param("module"))
	if err != nil {
		logger.Warn("Unknown service module", slog.String("module", c.Param("module")))
		respondMessage(c, http.StatusBadRequest, err.Error())
		return "", false
	}
	return module, true
}

// dispatch runs a command and writes the result.
func (h *transactionHandler) dispatch(c *gin.Context, logger *slog.Logger, cmd domain.Command, status int) {
	result, err := h.dispatcher.Dispatch(c.Request.Context(), cmd)
	if err != nil {
		respondError(c, logger, err, "Failed to "+string(cmd.Action)+" transaction")
		return
	}
	if result.Replayed {
		status = http.StatusOK
	}
	logger.Info("Transaction command handled",
		slog.String("action", string(cmd.Action)),
		slog.String("transaction_id", result.Transaction.TransactionID),
		slog.Bool("reconciliation_pending", result.ReconciliationPending))
	respondOK(c, status, result)
}

// createTransaction godoc
// @Summary Record a business transaction
// @Description Creates a transaction in a service module and applies its float and GL effects when the module completes on creation
// @Tags transactions
// @Accept  json
// @Produce  json
// @Param   module path string true "Service module (momo, agency_banking, ezwich, power, jumia)"
// @Param   Idempotency-Key header string false "Client idempotency key"
// @Param   transaction body dto.CreateTransactionRequest true "Transaction details"
// @Success 201 {object} dto.APIResponse{data=domain.TransactionResult}
// @Failure 400 {object} dto.APIResponse "Invalid input"
// @Failure 401 {object} dto.APIResponse "Unauthorized"
// @Failure 422 {object} dto.APIResponse "Insufficient float balance"
// @Security BearerAuth
// @Router /transactions/{module} [post]
func (h *transactionHandler) createTransaction(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	module, ok := moduleOrAbort(c, logger)
	if !ok {
		return
	}
	actor, ok := actorOrAbort(c, logger)
	if !ok {
		return
	}

	var req dto.CreateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateTransaction", slog.String("error", err.Error()))
		respondMessage(c, http.StatusBadRequest, "Invalid request format: "+err.Error())
		return
	}

	intent := req.ToIntent(module, req.BranchID, middleware.GetIdempotencyKey(c))
	h.dispatch(c, logger, domain.Command{
		Module: module,
		Action: domain.ActionCreate,
		Actor:  actor,
		Intent: &intent,
	}, http.StatusCreated)
}

// getTransaction godoc
// @Summary Get a transaction
// @Tags transactions
// @Produce  json
// @Param   module path string true "Service module"
// @Param   id path string true "Transaction ID"
// @Success 200 {object} dto.APIResponse{data=domain.Transaction}
// @Failure 404 {object} dto.APIResponse "Transaction not found"
// @Security BearerAuth
// @Router /transactions/{module}/{id} [get]
func (h *transactionHandler) getTransaction(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	module, ok := moduleOrAbort(c, logger)
	if !ok {
		return
	}
	actor, ok := actorOrAbort(c, logger)
	if !ok {
		return
	}
	id, ok := pathIDOrAbort(c, logger)
	if !ok {
		return
	}

	txn, err := h.dispatcher.GetTransaction(c.Request.Context(), module, id, actor)
	if err != nil {
		respondError(c, logger, err, "Failed to retrieve transaction")
		return
	}
	respondOK(c, http.StatusOK, txn)
}

// editTransaction godoc
// @Summary Edit an open transaction
// @Description Updates amount, fee or customer fields; only the difference is applied to float and GL
// @Tags transactions
// @Accept  json
// @Produce  json
// @Param   module path string true "Service module"
// @Param   id path string true "Transaction ID"
// @Param   changes body dto.EditTransactionRequest true "Fields to change"
// @Success 200 {object} dto.APIResponse{data=domain.TransactionResult}
// @Failure 409 {object} dto.APIResponse "Transaction is closed"
// @Security BearerAuth
// @Router /transactions/{module}/{id} [patch]
func (h *transactionHandler) editTransaction(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	module, ok := moduleOrAbort(c, logger)
	if !ok {
		return
	}
	actor, ok := actorOrAbort(c, logger)
	if !ok {
		return
	}
	id, ok := pathIDOrAbort(c, logger)
	if !ok {
		return
	}

	var req dto.EditTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for EditTransaction", slog.String("error", err.Error()))
		respondMessage(c, http.StatusBadRequest, "Invalid request format: "+err.Error())
		return
	}

	changes := req.ToChanges()
	h.dispatch(c, logger, domain.Command{
		Module:        module,
		Action:        domain.ActionEdit,
		Actor:         actor,
		TransactionID: id,
		Changes:       &changes,
	}, http.StatusOK)
}

// reverseTransaction godoc
// @Summary Reverse a transaction
// @Description Compensates every float and GL effect the transaction applied
// @Tags transactions
// @Accept  json
// @Produce  json
// @Param   module path string true "Service module"
// @Param   id path string true "Transaction ID"
// @Param   reason body dto.ReasonRequest true "Reversal reason"
// @Success 200 {object} dto.APIResponse{data=domain.TransactionResult}
// @Failure 409 {object} dto.APIResponse "Already reversed"
// @Security BearerAuth
// @Router /transactions/{module}/{id}/reverse [post]
func (h *transactionHandler) reverseTransaction(c *gin.Context) {
	h.withReason(c, domain.ActionReverse)
}

// deleteTransaction godoc
// @Summary Delete a transaction
// @Description Admin only. Compensates like a reversal and marks the transaction deleted
// @Tags transactions
// @Accept  json
// @Produce  json
// @Param   module path string true "Service module"
// @Param   id path string true "Transaction ID"
// @Param   reason body dto.ReasonRequest true "Deletion reason"
// @Success 200 {object} dto.APIResponse{data=domain.TransactionResult}
// @Failure 403 {object} dto.APIResponse "Forbidden"
// @Security BearerAuth
// @Router /transactions/{module}/{id} [delete]
func (h *transactionHandler) deleteTransaction(c *gin.Context) {
	h.withReason(c, domain.ActionDelete)
}

func (h *transactionHandler) withReason(c *gin.Context, action domain.Action) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	module, ok := moduleOrAbort(c, logger)
	if !ok {
		return
	}
	actor, ok := actorOrAbort(c, logger)
	if !ok {
		return
	}
	id, ok := pathIDOrAbort(c, logger)
	if !ok {
		return
	}

	var req dto.ReasonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind reason", slog.String("error", err.Error()))
		respondMessage(c, http.StatusBadRequest, "Invalid request format: "+err.Error())
		return
	}

	h.dispatch(c, logger, domain.Command{
		Module:        module,
		Action:        action,
		Actor:         actor,
		TransactionID: id,
		Reason:        req.Reason,
	}, http.StatusOK)
}

// transitionHandler godoc
// @Summary Move a transaction through its lifecycle
// @Description complete (power, jumia), deliver (jumia) or disburse (agency_banking, ezwich)
// @Tags transactions
// @Produce  json
// @Param   module path string true "Service module"
// @Param   id path string true "Transaction ID"
// @Success 200 {object} dto.APIResponse{data=domain.TransactionResult}
// @Failure 409 {object} dto.APIResponse "Transition not allowed"
// @Security BearerAuth
// @Router /transactions/{module}/{id}/complete [post]
// @Router /transactions/{module}/{id}/deliver [post]
// @Router /transactions/{module}/{id}/disburse [post]
func (h *transactionHandler) transitionHandler(action domain.Action) gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := middleware.GetLoggerFromCtx(c.Request.Context())
		module, ok := moduleOrAbort(c, logger)
		if !ok {
			return
		}
		actor, ok := actorOrAbort(c, logger)
		if !ok {
			return
		}
		id, ok := pathIDOrAbort(c, logger)
		if !ok {
			return
		}
		h.dispatch(c, logger, domain.Command{
			Module:        module,
			Action:        action,
			Actor:         actor,
			TransactionID: id,
		}, http.StatusOK)
	}
}
