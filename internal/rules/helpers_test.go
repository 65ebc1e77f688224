package rules

import (
	"errors"
	"fmt"
	"testing"
)

// seat builds assignments p1..pn in the given role order.
func seat(roles ...Role) []Assignment {
	out := make([]Assignment, len(roles))
	for i, r := range roles {
		out[i] = Assignment{PlayerID: fmt.Sprintf("p%d", i+1), Alignment: r.Alignment(), Role: r}
	}
	return out
}

func playerIDs(n int) []string {
	ids := make([]string, n)
	for i := range ids {
		ids[i] = fmt.Sprintf("p%d", i+1)
	}
	return ids
}

func wantCode(t *testing.T, err error, kind Kind, code string) {
	t.Helper()
	var e *Error
	if !errors.As(err, &e) {
		t.Fatalf("expected *Error %s/%s, got %v", kind, code, err)
	}
	if e.Kind != kind || e.Code != code {
		t.Errorf("error: got %s/%s want %s/%s (%s)", e.Kind, e.Code, kind, code, e.Message)
	}
}

func alignmentOf(t *testing.T, assignments []Assignment, id string) Alignment {
	t.Helper()
	a, ok := AssignmentFor(assignments, id)
	if !ok {
		t.Fatalf("no assignment for %s", id)
	}
	return a.Alignment
}
