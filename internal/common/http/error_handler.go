package http

import (
	"net/http"
	"strconv"

	"github.com/AlibekovAA/user-registry/internal/common/clock"
	commonerrors "github.com/AlibekovAA/user-registry/internal/common/errors"
	"github.com/AlibekovAA/user-registry/internal/common/httpmetrics"
	"github.com/AlibekovAA/user-registry/internal/common/logger"
	"github.com/AlibekovAA/user-registry/internal/observability/metrics"
)

// ErrorHandler turns an error returned by a handler into an ApiError response.
// Domain errors carry their own status and message; anything else is logged
// and answered with a generic 500.
type ErrorHandler struct {
	log   *logger.Logger
	clock clock.Clock
}

func NewErrorHandler(log *logger.Logger, c clock.Clock) *ErrorHandler {
	if c == nil {
		c = clock.NewRealClock()
	}
	return &ErrorHandler{log: log, clock: c}
}

func (h *ErrorHandler) HandleError(w http.ResponseWriter, r *http.Request, err error) {
	if err == nil {
		return
	}

	if domainErr, ok := commonerrors.AsDomainError(err); ok {
		h.handleDomainError(w, r, domainErr)
		return
	}

	h.log.WithFields(r.Context(), logger.Fields{
		"path":   r.URL.Path,
		"method": r.Method,
		"action": "unhandled_error",
	}).Errorf("unhandled error: %v", err)

	h.write(w, r, http.StatusInternalServerError, commonerrors.ErrInternalError.Message())
}

func (h *ErrorHandler) handleDomainError(w http.ResponseWriter, r *http.Request, domainErr commonerrors.DomainError) {
	status := domainErr.HTTPStatus()

	fields := logger.Fields{
		"error_code": domainErr.Code(),
		"category":   string(domainErr.Category()),
		"status":     status,
		"path":       r.URL.Path,
		"action":     "domain_error",
	}

	if status >= http.StatusInternalServerError {
		h.log.WithFields(r.Context(), fields).Errorf("request failed: %v", domainErr)
	} else if h.log.ShouldLog(logger.DEBUG) {
		h.log.WithFields(r.Context(), fields).Debugf("domain error: %s", domainErr.Error())
	}

	metrics.DomainErrorsTotal.WithLabelValues(
		string(domainErr.Category()),
		domainErr.Code(),
		strconv.Itoa(status),
	).Inc()

	h.write(w, r, status, domainErr.Message())
}

func (h *ErrorHandler) write(w http.ResponseWriter, r *http.Request, status int, message string) {
	metrics.HTTPErrorsTotal.WithLabelValues(
		strconv.Itoa(status),
		httpmetrics.NormalizePath(r.URL.Path),
		r.Method,
	).Inc()

	WriteJSON(w, status, NewApiError(r, status, message, h.clock.Now()))
}

// HandlerFunc is an http handler that reports failure by returning an error.
type HandlerFunc func(w http.ResponseWriter, r *http.Request) error

// Wrap adapts fn to http.Handler, routing its error through h.
func (h *ErrorHandler) Wrap(fn HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := fn(w, r); err != nil {
			h.HandleError(w, r, err)
		}
	}
}
