package middleware

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/branchops/float_ledger/internal/adapters/idempotency"
	"github.com/branchops/float_ledger/internal/dto"
	"github.com/gin-gonic/gin"
)

// IdempotencyHeader is the request header carrying the client idempotency key.
const IdempotencyHeader = "Idempotency-Key"

// bodyRecorder captures the response body while still writing it to the client.
type bodyRecorder struct {
	gin.ResponseWriter
	buf bytes.Buffer
}

func (w *bodyRecorder) Write(b []byte) (int, error) {
	w.buf.Write(b)
	return w.ResponseWriter.Write(b)
}

func (w *bodyRecorder) WriteString(s string) (int, error) {
	w.buf.WriteString(s)
	return w.ResponseWriter.WriteString(s)
}

// Idempotency replays the first response of a mutating request when a client
// retries it with the same Idempotency-Key. Keys are scoped per actor and route.
// Requests without the header pass through unchanged.
func Idempotency(store idempotency.Store, ttl time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		rawKey := c.GetHeader(IdempotencyHeader)
		if store == nil || rawKey == "" || c.Request.Method == http.MethodGet {
			c.Next()
			return
		}
		logger := GetLoggerFromCtx(c.Request.Context())

		body, err := io.ReadAll(c.Request.Body)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, dto.APIResponse{Success: false, Error: "unable to read request body"})
			return
		}
		c.Request.Body = io.NopCloser(bytes.NewReader(body))

		userID, _ := GetUserIDFromContext(c)
		key := userID + ":" + c.Request.Method + ":" + c.Request.URL.Path + ":" + rawKey
		sum := sha256.Sum256(body)
		fingerprint := hex.EncodeToString(sum[:])

		existing, reserved, err := store.Reserve(c.Request.Context(), key, fingerprint, ttl)
		if err != nil {
			// The dispatcher still deduplicates creates by key, so degrade to pass-through.
			logger.Warn("Idempotency store unavailable, continuing without replay protection", slog.String("error", err.Error()))
			c.Set(string(idempotencyKeyKey), rawKey)
			c.Next()
			return
		}

		if !reserved {
			switch {
			case existing.Fingerprint != fingerprint:
				c.AbortWithStatusJSON(http.StatusUnprocessableEntity, dto.APIResponse{Success: false, Error: "idempotency key reused with a different request body"})
			case existing.State == idempotency.StateInProgress:
				c.AbortWithStatusJSON(http.StatusConflict, dto.APIResponse{Success: false, Error: "a request with this idempotency key is still in progress"})
			default:
				logger.Info("Replaying idempotent response", slog.String("idempotency_key", rawKey))
				c.Header("Idempotent-Replayed", "true")
				contentType := existing.ContentType
				if contentType == "" {
					contentType = "application/json; charset=utf-8"
				}
				c.Data(existing.StatusCode, contentType, existing.Body)
				c.Abort()
			}
			return
		}

		c.Set(string(idempotencyKeyKey), rawKey)
		recorder := &bodyRecorder{ResponseWriter: c.Writer}
		c.Writer = recorder

		c.Next()

		status := recorder.Status()
		if status >= http.StatusInternalServerError {
			if err := store.Release(c.Request.Context(), key); err != nil {
				logger.Warn("Failed to release idempotency key", slog.String("error", err.Error()))
			}
			return
		}
		rec := idempotency.Record{
			Fingerprint: fingerprint,
			StatusCode:  status,
			ContentType: recorder.Header().Get("Content-Type"),
			Body:        recorder.buf.Bytes(),
		}
		if err := store.Complete(c.Request.Context(), key, rec, ttl); err != nil {
			logger.Warn("Failed to store idempotent response", slog.String("error", err.Error()))
		}
	}
}
