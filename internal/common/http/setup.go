package http

import (
	"net/http"

	"github.com/AlibekovAA/user-registry/internal/common/constants"
	"github.com/AlibekovAA/user-registry/internal/common/httpmetrics"
	"github.com/AlibekovAA/user-registry/internal/common/logger"
)

// BuildBaseHandler wraps handler with the middleware every service endpoint shares.
// Outermost first: security headers, CSP, recovery, trace id, body limit, metrics.
func BuildBaseHandler(log *logger.Logger, handler http.Handler) http.Handler {
	collector := httpmetrics.New()
	recovery := RecoveryMiddleware(log)
	traceID := TraceIDMiddleware
	maxRequestSize := MaxRequestSizeMiddleware(constants.DefaultMaxRequestSize)
	securityHeaders := SecurityHeadersMiddleware
	csp := ContentSecurityPolicyMiddleware("")

	return securityHeaders(csp(recovery(traceID(maxRequestSize(collector.Wrap(handler))))))
}
