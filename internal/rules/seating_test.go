package rules

import (
	"sort"
	"testing"
)

func TestInitializeSeating(t *testing.T) {
	ids := playerIDs(7)
	for seed := int64(1); seed <= 10; seed++ {
		s, err := InitializeSeating(ids, NewRand(seed))
		if err != nil {
			t.Fatal(err)
		}
		if s.LeaderIndex < 0 || s.LeaderIndex >= len(ids) {
			t.Fatalf("leader index %d out of range", s.LeaderIndex)
		}
		got := append([]string(nil), s.Order...)
		sort.Strings(got)
		for i := range ids {
			if got[i] != ids[i] {
				t.Fatalf("order is not a permutation: %v", s.Order)
			}
		}
	}
	if _, err := InitializeSeating(nil, NewRand(1)); err == nil {
		t.Error("expected error for empty seating")
	}
}

func TestSeating_Rotate(t *testing.T) {
	s := Seating{Order: []string{"a", "b", "c"}, LeaderIndex: 2}
	if s.LeaderID() != "c" {
		t.Errorf("leader: got %s", s.LeaderID())
	}
	next := s.Rotate()
	if next.LeaderIndex != 0 || next.LeaderID() != "a" {
		t.Errorf("rotate wraps: got %+v", next)
	}
	if s.LeaderIndex != 2 {
		t.Error("Rotate must not modify the receiver")
	}
}
