package httpapi

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/goliatone/go-itemstore/internal/logctx"
	"github.com/goliatone/go-itemstore/item"
)

// RequestIDHeader carries the request id in and out.
const RequestIDHeader = "X-Request-ID"

const requestIDKey = "request_id"

// RequestID assigns every request an id, reusing a well formed inbound one.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}
		c.Set(requestIDKey, id)
		c.Header(RequestIDHeader, id)
		c.Next()
	}
}

// RequestLogger attaches a request scoped logger to the request context and
// logs one line per request, at warn for 4xx and error for 5xx.
func RequestLogger(base zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		ctx := logctx.WithLogger(c.Request.Context(), base)
		ctx = logctx.WithStr(ctx, "request_id", c.GetString(requestIDKey))
		c.Request = c.Request.WithContext(ctx)
		logger := logctx.FromContext(ctx)

		c.Next()

		status := c.Writer.Status()
		var event *zerolog.Event
		switch {
		case status >= http.StatusInternalServerError:
			event = logger.Error()
		case status >= http.StatusBadRequest:
			event = logger.Warn()
		default:
			event = logger.Info()
		}
		if len(c.Errors) > 0 {
			event = event.Err(c.Errors.Last().Err)
		}
		event.
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", status).
			Int64("duration_ms", time.Since(start).Milliseconds()).
			Msg("request")
	}
}

// ErrorHandler renders the last handler error as {"message": ...}.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}
		status, msg := statusFor(c.Errors.Last().Err)
		c.JSON(status, gin.H{"message": msg})
	}
}

func statusFor(err error) (int, string) {
	var e *item.Error
	if !errors.As(err, &e) {
		return http.StatusInternalServerError, "Internal server error"
	}
	switch e.Kind {
	case item.KindValidation:
		return http.StatusBadRequest, e.Message
	case item.KindNotFound:
		return http.StatusNotFound, e.Message
	default:
		return http.StatusInternalServerError, e.Message
	}
}
