package middleware

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sangkips/tienda-api/internal/domain/entity"
	"github.com/sangkips/tienda-api/internal/domain/repository"
	"github.com/sangkips/tienda-api/internal/presentation/http/dto/response"
	"go.uber.org/zap"
)

const (
	// IdempotencyKeyHeader is the HTTP header for idempotency keys
	IdempotencyKeyHeader = "Idempotency-Key"
	// IdempotencyKeyTTL is how long keys are valid
	IdempotencyKeyTTL = 24 * time.Hour
)

// IdempotencyConfig holds configuration for the idempotency middleware
type IdempotencyConfig struct {
	Repo repository.IdempotencyRepository
	Log  *zap.Logger
}

// responseWriter wraps gin.ResponseWriter to capture the response body
type responseWriter struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

func (w responseWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

// Idempotency replays the stored response when a request repeats a known key.
// Requests without the header pass through.
func Idempotency(config IdempotencyConfig) gin.HandlerFunc {
	return idempotency(config, false)
}

// IdempotencyRequired is the strict version: POST requests must carry a key.
// A replayed invoice creation would otherwise debit stock twice.
func IdempotencyRequired(config IdempotencyConfig) gin.HandlerFunc {
	return idempotency(config, true)
}

func idempotency(config IdempotencyConfig, required bool) gin.HandlerFunc {
	log := config.Log
	if log == nil {
		log = zap.NewNop()
	}

	return func(c *gin.Context) {
		if c.Request.Method != http.MethodPost {
			c.Next()
			return
		}

		key := c.GetHeader(IdempotencyKeyHeader)
		if key == "" {
			if required {
				response.AbortWithError(c, http.StatusBadRequest, "Idempotency-Key header is required for this request")
				return
			}
			c.Next()
			return
		}

		operatorID := OperatorID(c)
		if operatorID == uuid.Nil {
			response.AbortWithError(c, http.StatusUnauthorized, "Operator not authenticated")
			return
		}

		body, err := io.ReadAll(c.Request.Body)
		if err != nil {
			response.AbortWithError(c, http.StatusBadRequest, "Failed to read request body")
			return
		}
		c.Request.Body = io.NopCloser(bytes.NewReader(body))
		sum := sha256.Sum256(body)
		requestHash := hex.EncodeToString(sum[:])

		existing, err := config.Repo.GetByKey(c.Request.Context(), key, operatorID)
		if err != nil {
			log.Error("idempotency lookup failed", zap.String("key", key), zap.Error(err))
			response.AbortWithError(c, http.StatusInternalServerError, "Failed to check idempotency key")
			return
		}

		if existing != nil && existing.IsExpired() {
			// The stale row would make the insert below fail on the unique index.
			if _, err := config.Repo.DeleteExpired(c.Request.Context()); err != nil {
				log.Error("idempotency cleanup failed", zap.String("key", key), zap.Error(err))
				response.AbortWithError(c, http.StatusInternalServerError, "Failed to check idempotency key")
				return
			}
			existing = nil
		}

		if existing != nil {
			if existing.RequestHash != "" && existing.RequestHash != requestHash {
				response.AbortWithError(c, http.StatusUnprocessableEntity, "Idempotency-Key was already used with a different request body")
				return
			}
			c.Header("X-Idempotency-Replayed", "true")
			c.Data(existing.ResponseCode, "application/json; charset=utf-8", []byte(existing.ResponseBody))
			c.Abort()
			return
		}

		blw := &responseWriter{body: &bytes.Buffer{}, ResponseWriter: c.Writer}
		c.Writer = blw

		c.Next()

		// Only successful responses are replayed; failures may be retried.
		status := c.Writer.Status()
		if status < 200 || status >= 300 {
			return
		}
		ikey := &entity.IdempotencyKey{
			Key:          key,
			OperatorID:   operatorID,
			Endpoint:     c.Request.Method + " " + c.FullPath(),
			RequestHash:  requestHash,
			ResponseCode: status,
			ResponseBody: blw.body.String(),
			ExpiresAt:    time.Now().Add(IdempotencyKeyTTL),
		}
		if err := config.Repo.Create(c.Request.Context(), ikey); err != nil {
			log.Warn("idempotency key not stored", zap.String("key", key), zap.Error(err))
		}
	}
}
