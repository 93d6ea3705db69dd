package observability

import (
	"net/http"

	"github.com/Elm-as/ai-recruitment-score-sub000/internal/config"

	"go.opentelemetry.io/otel/attribute"
	oteltrace "go.opentelemetry.io/otel/trace"
)

// Settings is the subset of the configuration the Manager needs
type Settings struct {
	ServiceName    string
	ServiceVersion string
	Enabled        bool
	ConsoleOutput  bool
	PrettyPrint    bool
	SampleRate     float64
	Prometheus     PrometheusSettings
}

// NewSettings reads Settings from cfg; the build version is used when no
// service version is configured
func NewSettings(cfg *config.Config, version string) Settings {
	if cfg == nil {
		return Settings{
			ServiceName:    "recruiter",
			ServiceVersion: version,
			SampleRate:     1.0,
		}
	}

	obs := cfg.Observability
	serviceVersion := obs.ServiceVersion
	if serviceVersion == "" {
		serviceVersion = version
	}
	serviceName := obs.ServiceName
	if serviceName == "" {
		serviceName = "recruiter"
	}

	return Settings{
		ServiceName:    serviceName,
		ServiceVersion: serviceVersion,
		Enabled:        obs.Enabled,
		ConsoleOutput:  obs.ConsoleOutput,
		PrettyPrint:    obs.Console.PrettyPrint,
		SampleRate:     obs.SampleRate,
		Prometheus: PrometheusSettings{
			Enabled:  obs.Prometheus.Enabled,
			Endpoint: obs.Prometheus.Endpoint,
			Port:     obs.Prometheus.Port,
		},
	}
}

// RouteAttributes tags the active server span with the matched route pattern
// and the request's position or candidate id. It must run inside the otelhttp
// middleware and after ServeMux routing.
func RouteAttributes(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		span := oteltrace.SpanFromContext(r.Context())
		if span.IsRecording() {
			attrs := []attribute.KeyValue{attribute.String("http.route", r.Pattern)}
			if id := r.PathValue("id"); id != "" {
				attrs = append(attrs, attribute.String("recruiter.resource_id", id))
			}
			span.SetAttributes(attrs...)
		}
		next(w, r)
	}
}
