package log

import (
	"context"
	"log/slog"
	"net/http"
)

// Common field names for structured logging
const (
	FieldComponent     = "component"
	FieldRequestID     = "request_id"
	FieldClientIP      = "client_ip"
	FieldMethod        = "method"
	FieldPath          = "path"
	FieldStatusCode    = "status_code"
	FieldDuration      = "duration_ms"
	FieldUserAgent     = "user_agent"
	FieldSuccess       = "success"
	FieldError         = "error"
	FieldTransactionID = "transaction_id"
	FieldCategory      = "category"
	FieldAmount        = "amount"
	FieldBudget        = "budget"
	FieldDay           = "day"
)

// Components defines standard component names
const (
	ComponentApp     = "app"
	ComponentHTTP    = "http"
	ComponentLedger  = "ledger"
	ComponentStorage = "storage"
	ComponentEvents  = "events"
	ComponentPredict = "predict"
)

// HTTPLogger emits the request start/completion records for the server
// middleware, choosing the level from the response status.
type HTTPLogger struct {
	logger *Logger
}

func NewHTTPLogger(logger *Logger) *HTTPLogger {
	return &HTTPLogger{logger: logger.WithComponent(ComponentHTTP)}
}

// RequestStarted logs the start of an HTTP request.
func (h *HTTPLogger) RequestStarted(ctx context.Context, r *http.Request, requestID, clientIP string) {
	h.logger.InfoContext(ctx, "Request started",
		FieldRequestID, requestID,
		FieldMethod, r.Method,
		FieldPath, r.URL.Path,
		FieldClientIP, clientIP,
		FieldUserAgent, r.Header.Get("User-Agent"))
}

// RequestCompleted logs the end of an HTTP request. Client errors warn,
// server errors error, everything else is info.
func (h *HTTPLogger) RequestCompleted(ctx context.Context, r *http.Request, requestID string, statusCode int, durationMs int64) {
	level := slog.LevelInfo
	if statusCode >= 400 && statusCode < 500 {
		level = slog.LevelWarn
	} else if statusCode >= 500 {
		level = slog.LevelError
	}

	h.logger.Logger.Log(ctx, level, "Request completed",
		FieldComponent, h.logger.Component(),
		FieldRequestID, requestID,
		FieldMethod, r.Method,
		FieldPath, r.URL.Path,
		FieldStatusCode, statusCode,
		FieldDuration, durationMs,
		FieldSuccess, statusCode < 400)
}
