package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"sync"
	"time"

	"github.com/Elm-as/ai-recruitment-score-sub000/internal/ai"
	recruiterErrors "github.com/Elm-as/ai-recruitment-score-sub000/internal/errors"
	"github.com/Elm-as/ai-recruitment-score-sub000/internal/workspace"
)

// SyncWarningHeader is set when a change took effect but was not persisted
const SyncWarningHeader = "X-Sync-Warning"

const defaultHealthCheckTimeout = 10 * time.Second

func (s *Server) healthCheckTimeout() time.Duration {
	if s.AppConfig != nil {
		hc := s.AppConfig.Observability.HealthCheck
		if hc.AIModelCheckTimeout > 0 {
			return hc.AIModelCheckTimeout
		}
		if hc.Timeout > 0 {
			return hc.Timeout
		}
	}
	return defaultHealthCheckTimeout
}

// healthHandler reports service health including AI model availability
func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	response := map[string]any{
		"status":  "healthy",
		"service": "recruiter",
		"version": s.Version,
	}

	models := s.checkAIModelsHealth(r.Context())
	response["ai_models"] = models

	status := http.StatusOK
	for _, info := range models {
		if !info.Available {
			response["status"] = "degraded"
			status = http.StatusServiceUnavailable
			break
		}
	}

	writeJSON(w, status, response)
}

// checkAIModelsHealth checks every operation's model concurrently
func (s *Server) checkAIModelsHealth(ctx context.Context) map[string]*ai.ModelInfo {
	ctx, cancel := context.WithTimeout(ctx, s.healthCheckTimeout())
	defer cancel()

	var (
		mu     sync.Mutex
		wg     sync.WaitGroup
		status = make(map[string]*ai.ModelInfo, len(s.Assistants.Models))
	)
	for op, model := range s.Assistants.Models {
		wg.Go(func() {
			info := model.GetModelInfo(ctx)
			mu.Lock()
			status[op] = info
			mu.Unlock()
		})
	}
	wg.Wait()
	return status
}

// statsHandler provides workspace, rate limiting and circuit breaker statistics
func (s *Server) statsHandler(w http.ResponseWriter, r *http.Request) {
	response := map[string]any{
		"service": "recruiter",
		"version": s.Version,
		"server": map[string]any{
			"max_request_size_bytes": s.MaxRequestSize,
			"max_file_size_bytes":    s.MaxFileSize,
		},
	}

	if s.Workspace != nil {
		response["workspace"] = s.Workspace.Stats()
	}

	if s.RateLimiter != nil {
		response["rate_limiting"] = s.RateLimiter.GetStats()
	} else {
		response["rate_limiting"] = map[string]any{"enabled": false}
	}

	if s.RateLimit != nil {
		response["rate_limit_config"] = map[string]any{
			"enabled":          s.RateLimit.Enabled,
			"requests_per_min": s.RateLimit.RequestsPerMin,
			"burst_capacity":   s.RateLimit.BurstCapacity,
			"by_ip":            s.RateLimit.ByIP,
			"by_api_key":       s.RateLimit.ByAPIKey,
		}
	}

	breakers := make(map[string]any, len(s.Assistants.Models))
	for op, model := range s.Assistants.Models {
		breakers[op] = model.GetCircuitBreakerStats()
	}
	response["circuit_breakers"] = breakers

	writeJSON(w, http.StatusOK, response)
}

// parseJSONRequest parses JSON request body into the provided struct
func parseJSONRequest(r *http.Request, v any) error {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil || mediaType != "application/json" {
		return recruiterErrors.NewValidationError(recruiterErrors.ErrCodeInvalidRequest,
			"content-type must be application/json", nil)
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			return recruiterErrors.NewValidationError(recruiterErrors.ErrCodeInvalidRequest,
				fmt.Sprintf("request body too large (limit is %d bytes)", maxBytesErr.Limit), err)
		}
		return recruiterErrors.NewIOError(recruiterErrors.ErrCodeFileNotReadable, "failed to read request body", err)
	}

	if err := json.Unmarshal(body, v); err != nil {
		return recruiterErrors.NewValidationError(recruiterErrors.ErrCodeInvalidRequest,
			"failed to parse JSON: "+err.Error(), err)
	}
	return nil
}

// statusFor maps an AppError type to an HTTP status
func statusFor(err error) int {
	switch recruiterErrors.TypeOf(err) {
	case recruiterErrors.ErrorTypeValidation:
		return http.StatusBadRequest
	case recruiterErrors.ErrorTypeNotFound:
		return http.StatusNotFound
	case recruiterErrors.ErrorTypeLicensing:
		return http.StatusForbidden
	case recruiterErrors.ErrorTypeAI, recruiterErrors.ErrorTypeNetwork:
		if recruiterErrors.CodeOf(err) == recruiterErrors.ErrCodeAITimeout {
			return http.StatusGatewayTimeout
		}
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// respond writes v, or the error when err is not a sync warning. A sync
// warning still returns v, flagged with the X-Sync-Warning header.
func (s *Server) respond(w http.ResponseWriter, status int, v any, err error) {
	if err != nil {
		if !workspace.IsSyncWarning(err) {
			s.writeError(w, err)
			return
		}
		w.Header().Set(SyncWarningHeader, "changes were applied but could not be saved")
	}
	if v == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	writeJSON(w, status, v)
}

// writeError logs server-side failures and writes the mapped error response
func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.Logger.LogError(err, "Request failed")
	}

	message := err.Error()
	var appErr *recruiterErrors.AppError
	if errors.As(err, &appErr) {
		message = appErr.Message
	}

	writeJSON(w, status, ErrorResponse{
		Error:   http.StatusText(status),
		Code:    recruiterErrors.CodeOf(err),
		Message: message,
	})
}

// writeErrorResponse writes a standardized error response
func writeErrorResponse(w http.ResponseWriter, error, message string, statusCode int) {
	writeJSON(w, statusCode, ErrorResponse{Error: error, Message: message})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	// the status line is already sent, so an encode failure cannot be reported
	_ = json.NewEncoder(w).Encode(v)
}
