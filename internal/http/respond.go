package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

// JSONResponse builds a JSON response with an explicit status and optional
// extra headers, so handlers state the whole response in one expression.
type JSONResponse struct {
	statusCode int
	payload    any
	headers    map[string]string
}

func NewJSONResponse(payload any) *JSONResponse {
	return &JSONResponse{
		statusCode: http.StatusOK,
		payload:    payload,
		headers:    make(map[string]string),
	}
}

// Status sets the HTTP status code for the response.
func (b *JSONResponse) Status(code int) *JSONResponse {
	b.statusCode = code
	return b
}

// Header adds a custom header to the response.
func (b *JSONResponse) Header(name, value string) *JSONResponse {
	b.headers[name] = value
	return b
}

// Write encodes the payload and sends the response.
func (b *JSONResponse) Write(w http.ResponseWriter, r *http.Request) {
	for name, value := range b.headers {
		w.Header().Set(name, value)
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(b.statusCode)

	if b.payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(b.payload); err != nil {
		slog.ErrorContext(r.Context(), "Failed to encode response",
			"error", err, "path", r.URL.Path)
	}
}

type errorPayload struct {
	Error string `json:"error"`
}

// ErrorResponse creates a standard JSON error envelope.
func ErrorResponse(statusCode int, message string) *JSONResponse {
	return NewJSONResponse(errorPayload{Error: message}).Status(statusCode)
}

// BadRequestError creates a 400 Bad Request error response.
func BadRequestError(message string) *JSONResponse {
	return ErrorResponse(http.StatusBadRequest, message)
}

// UnprocessableEntityError creates a 422 Unprocessable Entity error response.
func UnprocessableEntityError(message string) *JSONResponse {
	return ErrorResponse(http.StatusUnprocessableEntity, message)
}

// InternalServerError creates a 500 Internal Server Error response.
func InternalServerError(message string) *JSONResponse {
	return ErrorResponse(http.StatusInternalServerError, message)
}

// MethodNotAllowedError creates a 405 response advertising the allowed
// methods.
func MethodNotAllowedError(allowedMethods string) *JSONResponse {
	return ErrorResponse(http.StatusMethodNotAllowed, "method not allowed").
		Header("Allow", allowedMethods)
}
