package server

import (
	"fmt"
	"io"
	"os"

	"github.com/Elm-as/ai-recruitment-score-sub000/internal/utils"
)

// displayServerInfo shows server configuration information
func (s *Server) displayServerInfo() {
	s.writeServerInfo(os.Stdout)
}

func (s *Server) writeServerInfo(w io.Writer) {
	s.displayEndpoints(w)
	s.displayAuthInfo(w)
	s.displayRequestLimitInfo(w)
	s.displayRateLimitInfo(w)
}

// displayEndpoints shows available API endpoints
func (s *Server) displayEndpoints(w io.Writer) {
	fmt.Fprintln(w, "Available endpoints:")
	fmt.Fprintln(w, "  GET    /health                               - Health check")
	fmt.Fprintln(w, "  GET    /stats                                - Server statistics")
	fmt.Fprintln(w, "  POST   /optimize                             - Optimize profile text")
	fmt.Fprintln(w, "  GET    /positions, POST /positions           - List or create positions")
	fmt.Fprintln(w, "  GET|PUT|DELETE /positions/{id}               - Manage a position")
	fmt.Fprintln(w, "  GET    /positions/{id}/candidates            - Ranked candidates (?status=)")
	fmt.Fprintln(w, "  POST   /positions/{id}/candidates            - Submit candidate (JSON or file upload)")
	fmt.Fprintln(w, "  POST   /positions/{id}/order/move|reset      - Reorder candidates")
	fmt.Fprintln(w, "  GET|POST /positions/{id}/presets             - Ordering presets")
	fmt.Fprintln(w, "  PUT|DELETE /presets/{id}, POST /presets/{id}/apply")
	fmt.Fprintln(w, "  GET|DELETE /candidates/{id}, PUT /candidates/{id}/status")
	fmt.Fprintln(w, "  GET    /candidates/{id}/resume               - Archived resume")
	fmt.Fprintln(w, "  POST   /candidates/{id}/interview-questions  - Interview questions")
	fmt.Fprintln(w, "  POST   /candidates/{id}/email                - Email draft")
	fmt.Fprintln(w, "  POST   /interview/score                      - Score an interview answer")
}

// displayAuthInfo shows authentication configuration
func (s *Server) displayAuthInfo(w io.Writer) {
	if len(s.APIKeys) > 0 {
		fmt.Fprintf(w, "API authentication: ENABLED (%d keys configured)\n", len(s.APIKeys))
		fmt.Fprintln(w, "Include 'X-API-Key: <your-key>' header in requests to API endpoints")
	} else {
		fmt.Fprintln(w, "API authentication: DISABLED (no API keys configured)")
		fmt.Fprintln(w, "WARNING: API endpoints are publicly accessible!")
	}
}

// displayRequestLimitInfo shows request size limit configuration
func (s *Server) displayRequestLimitInfo(w io.Writer) {
	if s.MaxRequestSize > 0 {
		fmt.Fprintf(w, "Request size limit: %s, uploads: %s\n",
			utils.FormatFileSize(s.MaxRequestSize), utils.FormatFileSize(s.MaxFileSize))
	} else {
		fmt.Fprintln(w, "Request size limit: DISABLED")
		fmt.Fprintln(w, "WARNING: No request size limits configured!")
	}
}

// displayRateLimitInfo shows rate limiting configuration
func (s *Server) displayRateLimitInfo(w io.Writer) {
	if s.RateLimit != nil && s.RateLimit.Enabled {
		fmt.Fprintf(w, "Rate limiting: ENABLED (%d requests/min, burst: %d)\n",
			s.RateLimit.RequestsPerMin, s.RateLimit.BurstCapacity)
		if s.RateLimit.ByAPIKey {
			fmt.Fprintln(w, "  - Per API key rate limiting enabled")
		}
		if s.RateLimit.ByIP {
			fmt.Fprintln(w, "  - Per IP address rate limiting enabled")
		}
	} else {
		fmt.Fprintln(w, "Rate limiting: DISABLED")
		fmt.Fprintln(w, "WARNING: No rate limiting configured!")
	}
}
