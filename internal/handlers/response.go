package handlers

import (
	"log/slog"
	"net/http"

	"github.com/branchops/float_ledger/internal/apperrors"
	"github.com/branchops/float_ledger/internal/core/domain"
	"github.com/branchops/float_ledger/internal/dto"
	"github.com/branchops/float_ledger/internal/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func respondOK(c *gin.Context, status int, data any) {
	c.JSON(status, dto.APIResponse{Success: true, Data: data})
}

func respondMessage(c *gin.Context, status int, msg string) {
	c.JSON(status, dto.APIResponse{Success: false, Error: msg})
}

// respondError maps err to its status code. Server-side failures are logged
// and answered with the generic fallback message only.
func respondError(c *gin.Context, logger *slog.Logger, err error, fallback string) {
	status := apperrors.HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		logger.Error(fallback, slog.String("error", err.Error()))
		respondMessage(c, status, fallback)
		return
	}
	logger.Warn(fallback, slog.String("error", err.Error()), slog.Int("status", status))
	respondMessage(c, status, err.Error())
}

// actorOrAbort returns the authenticated actor or answers 401.
func actorOrAbort(c *gin.Context, logger *slog.Logger) (domain.Actor, bool) {
	actor, ok := middleware.GetActorFromContext(c)
	if !ok {
		logger.Error("Actor not found in context")
		respondMessage(c, http.StatusUnauthorized, "Unauthorized")
		return domain.Actor{}, false
	}
	return actor, true
}

// pathIDOrAbort returns the :id path parameter, or answers 400 when it is not a UUID.
func pathIDOrAbort(c *gin.Context, logger *slog.Logger) (string, bool) {
	id := c.Param("id")
	if err := uuid.Validate(id); err != nil {
		logger.Warn("Malformed path id", slog.String("id", id))
		respondMessage(c, http.StatusBadRequest, "Invalid id: must be a UUID")
		return "", false
	}
	return id, true
}

// optionalQuery returns a pointer to a query value, or nil when it is absent.
func optionalQuery(c *gin.Context, key string) *string {
	v, ok := c.GetQuery(key)
	if !ok || v == "" {
		return nil
	}
	return &v
}
