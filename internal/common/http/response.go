package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"
)

// ApiError is the body of every non-2xx response.
type ApiError struct {
	Status    int    `json:"status"`
	Error     string `json:"error"`
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
	Path      string `json:"path"`
}

func NewApiError(r *http.Request, status int, message string, at time.Time) ApiError {
	path := ""
	if r != nil && r.URL != nil {
		path = r.URL.Path
	}
	return ApiError{
		Status:    status,
		Error:     http.StatusText(status),
		Message:   message,
		Timestamp: at.UTC().Format(time.RFC3339),
		Path:      path,
	}
}

func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func WriteAPIError(w http.ResponseWriter, r *http.Request, status int, message string) {
	WriteJSON(w, status, NewApiError(r, status, message, time.Now()))
}

// DecodeJSON decodes a single JSON value. Syntax and type errors come back as
// ErrMalformedBody with the decoder error as cause.
func DecodeJSON(r *http.Request, v any) error {
	defer r.Body.Close()

	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, errBodyTooLarge) {
			return ErrRequestTooLarge.WithCause(err)
		}
		if errors.Is(err, io.EOF) {
			return ErrMalformedBody.WithMessage("Required request body is missing").WithCause(err)
		}
		return ErrMalformedBody.WithCause(err)
	}
	return nil
}

func GetClientIP(r *http.Request) string {
	ip := r.Header.Get("X-Real-IP")
	if ip == "" {
		ip = r.Header.Get("X-Forwarded-For")
		if idx := strings.Index(ip, ","); idx != -1 {
			ip = strings.TrimSpace(ip[:idx])
		}
	}
	if ip == "" {
		ip = r.RemoteAddr
		if idx := strings.LastIndex(ip, ":"); idx != -1 {
			ip = ip[:idx]
		}
	}
	return ip
}

func WithTimeout(timeout time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if timeout <= 0 {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, cancel := context.WithTimeout(r.Context(), timeout)
			defer cancel()
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
