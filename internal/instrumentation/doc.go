// Package instrumentation provides OpenTelemetry instrumentation for the
// agenda command.
//
// Instrumentation is off by default and enabled through environment
// variables, so a normal run prints nothing but the agenda.
//
// # Metrics
//
// Google API Metrics:
//   - google_api_operations_total: Counter of Google API operations by service, operation, status
//   - google_api_operation_duration_seconds: Histogram of Google API operation durations
//   - google_api_retries_total: Counter of retried Google API calls by service, operation
//
// OAuth Authentication Metrics:
//   - oauth_auth_total: Counter of interactive authorizations by result
//   - oauth_token_refresh_total: Counter of token refresh attempts by result
//
// Agenda Metrics:
//   - agenda_entries_total: Counter of printed agenda entries by kind
//
// # Exporters
//
// Metrics can be exported as:
//   - prometheus: collected into a private registry and written to a
//     node_exporter textfile (METRICS_TEXTFILE) when the run ends
//   - otlp: pushed over OTLP/HTTP
//   - stdout: printed to stderr (development only)
//
// Traces can be exported over OTLP/HTTP or printed to stderr.
//
// # Configuration
//
//	INSTRUMENTATION_ENABLED=true
//	METRICS_EXPORTER=prometheus|otlp|stdout
//	METRICS_TEXTFILE=/var/lib/node_exporter/agenda.prom
//	TRACING_EXPORTER=otlp|stdout|none
//	OTEL_EXPORTER_OTLP_ENDPOINT=localhost:4318
//	OTEL_EXPORTER_OTLP_INSECURE=true
//	OTEL_TRACES_SAMPLER_ARG=1.0
package instrumentation
