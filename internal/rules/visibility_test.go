package rules

import (
	"sort"
	"strings"
	"testing"
)

func TestSeer_HiddenEvilNote(t *testing.T) {
	assignments := seat(RoleSeer, RoleLoyal, RoleLoyal, RoleLoyal, RoleLoyal, RoleHunter, RoleUsurper, RoleLoneWolfChaos)
	view, err := ResolveVisibility("p1", assignments, RoleConfiguration{Usurper: true, LoneWolf: LoneWolfChaos}, Intel{})
	if err != nil {
		t.Fatal(err)
	}
	if len(view.Known) != 1 || view.Known[0].PlayerID != "p6" || view.Known[0].Label != LabelEvil {
		t.Errorf("known: got %+v want only p6 as evil", view.Known)
	}
	if view.HiddenEvilCount != 2 {
		t.Errorf("hidden: got %d want 2", view.HiddenEvilCount)
	}
	if !strings.Contains(view.Note, "2 evil players") {
		t.Errorf("note: got %q", view.Note)
	}
}

func TestSeer_NothingHidden(t *testing.T) {
	assignments := seat(RoleSeer, RoleLoyal, RoleLoyal, RoleHunter, RoleMinion)
	view, err := ResolveVisibility("p1", assignments, RoleConfiguration{}, Intel{})
	if err != nil {
		t.Fatal(err)
	}
	if len(view.Known) != 2 || view.HiddenEvilCount != 0 || view.Note != "" {
		t.Errorf("got %+v", view)
	}
}

func TestSeer_Decoy(t *testing.T) {
	assignments := seat(RoleSeer, RoleLoyal, RoleLoyal, RoleLoyal, RoleHunter, RoleMinion, RoleMinion)
	cfg := RoleConfiguration{IntelMode: IntelDecoy}
	for seed := int64(1); seed <= 20; seed++ {
		intel, err := DrawIntel(assignments, cfg, NewRand(seed))
		if err != nil {
			t.Fatal(err)
		}
		if intel.DecoyID == "" || intel.DecoyID == "p1" || alignmentOf(t, assignments, intel.DecoyID) != Good {
			t.Fatalf("seed %d: bad decoy %q", seed, intel.DecoyID)
		}
		view, err := ResolveVisibility("p1", assignments, cfg, intel)
		if err != nil {
			t.Fatal(err)
		}
		if len(view.Known) != 4 {
			t.Fatalf("seed %d: got %d sightings want 4", seed, len(view.Known))
		}
		for _, s := range view.Known {
			if s.Label != LabelEvil {
				t.Errorf("decoy must look like evil, got %s for %s", s.Label, s.PlayerID)
			}
		}
		if !strings.Contains(view.Note, "actually good") {
			t.Errorf("note: got %q", view.Note)
		}
	}
}

func TestSeer_Split(t *testing.T) {
	assignments := seat(RoleSeer, RoleLoyal, RoleLoyal, RoleLoyal, RoleHunter, RoleMinion, RoleMinion)
	cfg := RoleConfiguration{IntelMode: IntelSplit}
	for seed := int64(1); seed <= 20; seed++ {
		intel, err := DrawIntel(assignments, cfg, NewRand(seed))
		if err != nil {
			t.Fatal(err)
		}
		if len(intel.CertainEvil) != 2 {
			t.Fatalf("certain: got %v want 2 players", intel.CertainEvil)
		}
		for _, id := range intel.CertainEvil {
			if alignmentOf(t, assignments, id) != Evil {
				t.Errorf("certain %s is not evil", id)
			}
		}
		checkMixedPair(t, assignments, intel)
		for _, id := range intel.Mixed {
			for _, c := range intel.CertainEvil {
				if id == c {
					t.Errorf("%s is both certain and mixed", id)
				}
			}
		}
		view, err := ResolveVisibility("p1", assignments, cfg, intel)
		if err != nil {
			t.Fatal(err)
		}
		if len(view.Known) != 4 || view.HiddenEvilCount != 0 {
			t.Errorf("got %d known, %d hidden", len(view.Known), view.HiddenEvilCount)
		}
	}
}

func TestSeer_SplitSingleVisibleEvil(t *testing.T) {
	assignments := seat(RoleSeer, RoleLoyal, RoleLoyal, RoleHunter, RoleUsurper)
	cfg := RoleConfiguration{IntelMode: IntelSplit, Usurper: true}
	intel, err := DrawIntel(assignments, cfg, NewRand(7))
	if err != nil {
		t.Fatal(err)
	}
	if len(intel.CertainEvil) != 0 {
		t.Errorf("certain: got %v want none", intel.CertainEvil)
	}
	checkMixedPair(t, assignments, intel)
	view, err := ResolveVisibility("p1", assignments, cfg, intel)
	if err != nil {
		t.Fatal(err)
	}
	if len(view.Known) != 2 {
		t.Fatalf("known: got %+v", view.Known)
	}
	for _, s := range view.Known {
		if s.Label != LabelMixed {
			t.Errorf("label: got %s want mixed", s.Label)
		}
	}
	if view.HiddenEvilCount != 1 {
		t.Errorf("hidden: got %d want 1", view.HiddenEvilCount)
	}
}

func TestSeer_VariantSplitMixesLoneWolf(t *testing.T) {
	assignments := seat(RoleSeer, RoleLoyal, RoleLoyal, RoleLoyal, RoleLoyal, RoleHunter, RoleMinion, RoleLoneWolf)
	cfg := RoleConfiguration{IntelMode: IntelVariantSplit, LoneWolf: LoneWolfStandard}
	for seed := int64(1); seed <= 20; seed++ {
		intel, err := DrawIntel(assignments, cfg, NewRand(seed))
		if err != nil {
			t.Fatal(err)
		}
		checkMixedPair(t, assignments, intel)
		if intel.Mixed[0] != "p8" && intel.Mixed[1] != "p8" {
			t.Errorf("mixed pair %v does not hold the lone wolf", intel.Mixed)
		}
		got := append([]string(nil), intel.CertainEvil...)
		sort.Strings(got)
		if len(got) != 2 || got[0] != "p6" || got[1] != "p7" {
			t.Errorf("certain: got %v want [p6 p7]", got)
		}
	}
}

func checkMixedPair(t *testing.T, assignments []Assignment, intel Intel) {
	t.Helper()
	if len(intel.Mixed) != 2 {
		t.Fatalf("mixed: got %v want 2 players", intel.Mixed)
	}
	a, b := alignmentOf(t, assignments, intel.Mixed[0]), alignmentOf(t, assignments, intel.Mixed[1])
	if a == b {
		t.Errorf("mixed pair %v is all %s", intel.Mixed, a)
	}
	if intel.Mixed[0] == "p1" || intel.Mixed[1] == "p1" {
		t.Errorf("mixed pair %v includes the seer", intel.Mixed)
	}
}

func TestProtector(t *testing.T) {
	withDeceiver := seat(RoleSeer, RoleProtector, RoleLoyal, RoleHunter, RoleDeceiver)
	view, err := ResolveVisibility("p2", withDeceiver, RoleConfiguration{Protector: true, Deceiver: true}, Intel{})
	if err != nil {
		t.Fatal(err)
	}
	if len(view.Known) != 2 || view.Note == "" {
		t.Errorf("with deceiver: got %+v", view)
	}
	for _, s := range view.Known {
		if s.Label != LabelSeerCandidate {
			t.Errorf("label: got %s", s.Label)
		}
	}

	alone := seat(RoleSeer, RoleProtector, RoleLoyal, RoleHunter, RoleMinion)
	view, err = ResolveVisibility("p2", alone, RoleConfiguration{Protector: true}, Intel{})
	if err != nil {
		t.Fatal(err)
	}
	if len(view.Known) != 1 || view.Known[0].PlayerID != "p1" {
		t.Errorf("without deceiver: got %+v", view.Known)
	}
}

func TestEvil_TeammatesExcludeLoneWolf(t *testing.T) {
	assignments := seat(RoleSeer, RoleLoyal, RoleLoyal, RoleLoyal, RoleLoyal, RoleHunter, RoleMinion, RoleLoneWolf)
	cfg := RoleConfiguration{LoneWolf: LoneWolfStandard}

	view, err := ResolveVisibility("p6", assignments, cfg, Intel{})
	if err != nil {
		t.Fatal(err)
	}
	if len(view.Known) != 1 || view.Known[0].PlayerID != "p7" || view.Known[0].Label != LabelTeammate {
		t.Errorf("hunter known: got %+v", view.Known)
	}
	if view.HiddenEvilCount != 1 {
		t.Errorf("hunter hidden: got %d want 1", view.HiddenEvilCount)
	}

	wolf, err := ResolveVisibility("p8", assignments, cfg, Intel{})
	if err != nil {
		t.Fatal(err)
	}
	if len(wolf.Known) != 0 || wolf.HiddenEvilCount != 2 || wolf.Note == "" {
		t.Errorf("lone wolf: got %+v", wolf)
	}
}

func TestEvilRing(t *testing.T) {
	tests := []struct {
		name       string
		roles      []Role
		cfg        RoleConfiguration
		ringSize   int
		wantHidden int
	}{
		{
			name:       "four evil",
			roles:      []Role{RoleSeer, RoleLoyal, RoleLoyal, RoleLoyal, RoleLoyal, RoleLoyal, RoleHunter, RoleMinion, RoleMinion, RoleMinion},
			cfg:        RoleConfiguration{EvilRing: true},
			ringSize:   4,
			wantHidden: 2,
		},
		{
			name:       "lone wolf outside ring",
			roles:      []Role{RoleSeer, RoleLoyal, RoleLoyal, RoleLoyal, RoleLoyal, RoleLoyal, RoleHunter, RoleMinion, RoleMinion, RoleLoneWolf},
			cfg:        RoleConfiguration{EvilRing: true, LoneWolf: LoneWolfStandard},
			ringSize:   3,
			wantHidden: 2,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assignments := seat(tt.roles...)
			intel, err := DrawIntel(assignments, tt.cfg, NewRand(11))
			if err != nil {
				t.Fatal(err)
			}
			if len(intel.Ring) != tt.ringSize {
				t.Fatalf("ring: got %d members want %d", len(intel.Ring), tt.ringSize)
			}
			var start string
			for id := range intel.Ring {
				start = id
				break
			}
			visited := map[string]bool{}
			cur := start
			for i := 0; i < tt.ringSize; i++ {
				visited[cur] = true
				cur = intel.Ring[cur]
			}
			if cur != start || len(visited) != tt.ringSize {
				t.Errorf("ring is not a single cycle: %v", intel.Ring)
			}
			for id := range intel.Ring {
				view, err := ResolveVisibility(id, assignments, tt.cfg, intel)
				if err != nil {
					t.Fatal(err)
				}
				if len(view.Known) != 1 || view.Known[0].PlayerID == id {
					t.Errorf("%s known: got %+v", id, view.Known)
				}
				if view.HiddenEvilCount != tt.wantHidden {
					t.Errorf("%s hidden: got %d want %d", id, view.HiddenEvilCount, tt.wantHidden)
				}
			}
		})
	}
}

func TestLoyal_KnowsNothing(t *testing.T) {
	assignments := seat(RoleSeer, RoleLoyal, RoleLoyal, RoleHunter, RoleMinion)
	view, err := ResolveVisibility("p2", assignments, RoleConfiguration{}, Intel{})
	if err != nil {
		t.Fatal(err)
	}
	if len(view.Known) != 0 || view.HiddenEvilCount != 0 {
		t.Errorf("got %+v", view)
	}
}

func TestResolveVisibility_SortedAndPure(t *testing.T) {
	assignments := seat(RoleMinion, RoleLoyal, RoleHunter, RoleLoyal, RoleLoyal, RoleSeer, RoleMinion)
	cfg := RoleConfiguration{IntelMode: IntelDecoy}
	intel, err := DrawIntel(assignments, cfg, NewRand(5))
	if err != nil {
		t.Fatal(err)
	}
	a, err := ResolveVisibility("p6", assignments, cfg, intel)
	if err != nil {
		t.Fatal(err)
	}
	b, _ := ResolveVisibility("p6", assignments, cfg, intel)
	if !sort.SliceIsSorted(a.Known, func(i, j int) bool { return a.Known[i].PlayerID < a.Known[j].PlayerID }) {
		t.Errorf("known not sorted: %+v", a.Known)
	}
	if len(a.Known) != len(b.Known) || a.Note != b.Note {
		t.Errorf("repeated resolution differs: %+v vs %+v", a, b)
	}
}

func TestResolveVisibility_UnknownPlayer(t *testing.T) {
	_, err := ResolveVisibility("ghost", seat(RoleSeer, RoleLoyal, RoleLoyal, RoleHunter, RoleMinion), RoleConfiguration{}, Intel{})
	wantCode(t, err, KindValidation, "unknown_player")
}
