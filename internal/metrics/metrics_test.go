package metrics

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestHandlerExposesCollectors(t *testing.T) {
	Moves.WithLabelValues("vote", "ok").Inc()
	PhaseTransitions.WithLabelValues("voting").Inc()
	SnapshotConflicts.Inc()

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body, _ := io.ReadAll(rec.Body)
	for _, name := range []string{"shadowquest_moves_total", "shadowquest_phase_transitions_total", "shadowquest_snapshot_conflicts_total"} {
		if !strings.Contains(string(body), name) {
			t.Errorf("expected %s in metrics output", name)
		}
	}
}
