package health

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

// Handler returns an HTTP handler serving the monitor's aggregated health as
// JSON. Healthy and degraded systems answer 200 so orchestrators do not kill
// a daemon that is reconnecting on its own; only an unhealthy aggregate
// answers 503.
func Handler(m *Monitor, system string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		aggregate := m.AggregateHealth(system)

		code := http.StatusOK
		if aggregate.IsUnhealthy() {
			code = http.StatusServiceUnavailable
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(code)
		if err := json.NewEncoder(w).Encode(aggregate); err != nil {
			slog.Warn("health response encoding failed", "error", err)
		}
	})
}
