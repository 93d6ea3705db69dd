package server

import (
	"net/http"

	"github.com/Elm-as/ai-recruitment-score-sub000/internal/observability"
)

// uploadOverhead covers the multipart framing and form fields around the file
const uploadOverhead = 64 << 10

// Handler builds the routed handler wrapped in the OpenTelemetry middleware
func (s *Server) Handler() http.Handler {
	return s.om.HTTPMiddleware()(s.setupRoutes())
}

// setupRoutes configures all HTTP routes and middleware
func (s *Server) setupRoutes() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", observability.RouteAttributes(s.healthHandler))
	mux.HandleFunc("GET /stats", observability.RouteAttributes(s.statsHandler))

	api := func(pattern string, h http.HandlerFunc) {
		s.handle(mux, pattern, s.MaxRequestSize, h)
	}

	api("POST /optimize", s.optimizeHandler)

	api("GET /positions", s.listPositionsHandler)
	api("POST /positions", s.createPositionHandler)
	api("GET /positions/{id}", s.getPositionHandler)
	api("PUT /positions/{id}", s.updatePositionHandler)
	api("DELETE /positions/{id}", s.deletePositionHandler)

	api("GET /positions/{id}/candidates", s.rankedViewHandler)
	s.handle(mux, "POST /positions/{id}/candidates", max(s.MaxRequestSize, s.MaxFileSize+uploadOverhead), s.submitCandidateHandler)
	api("POST /positions/{id}/order/move", s.moveHandler)
	api("POST /positions/{id}/order/reset", s.resetOrderHandler)
	api("GET /positions/{id}/presets", s.listPresetsHandler)
	api("POST /positions/{id}/presets", s.savePresetHandler)

	api("PUT /presets/{id}", s.updatePresetHandler)
	api("DELETE /presets/{id}", s.deletePresetHandler)
	api("POST /presets/{id}/apply", s.applyPresetHandler)

	api("GET /candidates/{id}", s.getCandidateHandler)
	api("DELETE /candidates/{id}", s.deleteCandidateHandler)
	api("PUT /candidates/{id}/status", s.setStatusHandler)
	api("GET /candidates/{id}/resume", s.resumeHandler)
	api("POST /candidates/{id}/interview-questions", s.interviewQuestionsHandler)
	api("POST /candidates/{id}/email", s.emailHandler)
	api("POST /interview/score", s.scoreAnswerHandler)

	return mux
}

// handle registers h behind rate limiting, authentication and a body size limit
func (s *Server) handle(mux *http.ServeMux, pattern string, maxBytes int64, h http.HandlerFunc) {
	mux.HandleFunc(pattern,
		s.rateLimitMiddleware(
			s.authMiddleware(
				requestSizeLimit(maxBytes, observability.RouteAttributes(h)),
			),
		),
	)
}

// authMiddleware provides API key authentication
func (s *Server) authMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		// Skip authentication if no API keys are configured
		if len(s.APIKeys) == 0 {
			next(w, r)
			return
		}

		apiKey := requestAPIKey(r)
		if apiKey == "" {
			s.Logger.Info("Authentication failed: missing API key",
				"endpoint", r.URL.Path,
				"client_ip", getClientIP(r))
			writeErrorResponse(w, "Missing API key", "X-API-Key header or Authorization Bearer token required", http.StatusUnauthorized)
			return
		}

		if !s.APIKeys[apiKey] {
			s.Logger.Info("Authentication failed: invalid API key",
				"endpoint", r.URL.Path,
				"client_ip", getClientIP(r),
				"api_key_prefix", maskAPIKey(apiKey))
			writeErrorResponse(w, "Invalid API key", "Unauthorized access", http.StatusUnauthorized)
			return
		}

		s.Logger.Debug("API authentication successful",
			"endpoint", r.URL.Path,
			"api_key_prefix", maskAPIKey(apiKey))

		next(w, r)
	}
}

// requestSizeLimit caps the request body; zero disables the cap
func requestSizeLimit(maxBytes int64, next http.HandlerFunc) http.HandlerFunc {
	if maxBytes <= 0 {
		return next
	}
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
		next(w, r)
	}
}

// maskAPIKey masks an API key for logging (shows only first 8 characters)
func maskAPIKey(apiKey string) string {
	if len(apiKey) <= 8 {
		return "****"
	}
	return apiKey[:8] + "****"
}
