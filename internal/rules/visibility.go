package rules

import (
	"fmt"
	"sort"
)

// Label says what a viewer knows about a sighted player.
type Label string

const (
	LabelEvil          Label = "evil"
	LabelCertainEvil   Label = "certain_evil"
	LabelMixed         Label = "mixed"
	LabelSeerCandidate Label = "seer_candidate"
	LabelTeammate      Label = "teammate"
)

// Sighting is one entry of a player's private knowledge.
type Sighting struct {
	PlayerID string `json:"player_id"`
	Label    Label  `json:"label"`
}

// View is what a single player privately knows. It is computed on demand and never stored.
type View struct {
	PlayerID        string     `json:"player_id"`
	Role            Role       `json:"role"`
	Alignment       Alignment  `json:"alignment"`
	Known           []Sighting `json:"known"`
	HiddenEvilCount int        `json:"hidden_evil_count"`
	Note            string     `json:"note,omitempty"`
}

// ResolveVisibility computes the view of playerID from the immutable game setup.
func ResolveVisibility(playerID string, assignments []Assignment, cfg RoleConfiguration, intel Intel) (View, error) {
	self, ok := AssignmentFor(assignments, playerID)
	if !ok {
		return View{}, validationError("unknown_player", "player %s has no role", playerID)
	}
	view := View{PlayerID: playerID, Role: self.Role, Alignment: self.Alignment, Known: []Sighting{}}
	evil := playersWhere(assignments, func(a Assignment) bool { return a.Alignment == Evil })

	switch {
	case self.Role == RoleSeer:
		resolveSeer(&view, assignments, cfg, intel, len(evil))
	case self.Role == RoleProtector:
		resolveProtector(&view, assignments)
	case self.Role.IsLoneWolf():
		view.HiddenEvilCount = len(evil) - 1
		view.Note = "You work alone: your teammates do not know you and you do not know them."
	case self.Alignment == Evil:
		if err := resolveEvil(&view, assignments, cfg, intel); err != nil {
			return View{}, err
		}
	}
	sortSightings(view.Known)
	return view, nil
}

func resolveSeer(view *View, assignments []Assignment, cfg RoleConfiguration, intel Intel, evilCount int) {
	split := (cfg.IntelMode == IntelSplit || cfg.IntelMode == IntelVariantSplit) && len(intel.Mixed) == 2
	if split {
		for _, id := range intel.CertainEvil {
			view.Known = append(view.Known, Sighting{PlayerID: id, Label: LabelCertainEvil})
		}
		for _, id := range intel.Mixed {
			view.Known = append(view.Known, Sighting{PlayerID: id, Label: LabelMixed})
		}
		view.HiddenEvilCount = evilCount - len(intel.CertainEvil) - 1
		view.Note = "Exactly one of the two mixed players is evil."
		if view.HiddenEvilCount > 0 {
			view.Note += " " + hiddenNote(view.HiddenEvilCount)
		}
		return
	}

	visible := seerVisibleEvil(assignments)
	for _, id := range visible {
		view.Known = append(view.Known, Sighting{PlayerID: id, Label: LabelEvil})
	}
	view.HiddenEvilCount = evilCount - len(visible)
	if view.HiddenEvilCount > 0 {
		view.Note = hiddenNote(view.HiddenEvilCount)
	}
	if cfg.IntelMode == IntelDecoy && intel.DecoyID != "" {
		view.Known = append(view.Known, Sighting{PlayerID: intel.DecoyID, Label: LabelEvil})
		decoy := "One of the players shown as evil is actually good."
		if view.Note == "" {
			view.Note = decoy
		} else {
			view.Note = decoy + " " + view.Note
		}
	}
}

func hiddenNote(n int) string {
	if n == 1 {
		return "1 evil player is hidden from you."
	}
	return fmt.Sprintf("%d evil players are hidden from you.", n)
}

func resolveProtector(view *View, assignments []Assignment) {
	candidates := playersWhere(assignments, func(a Assignment) bool {
		return a.Role == RoleSeer || a.Role == RoleDeceiver
	})
	for _, id := range candidates {
		view.Known = append(view.Known, Sighting{PlayerID: id, Label: LabelSeerCandidate})
	}
	if len(candidates) > 1 {
		view.Note = "One of these players is the seer, the other is the deceiver."
	}
}

func resolveEvil(view *View, assignments []Assignment, cfg RoleConfiguration, intel Intel) error {
	loneWolves := 0
	for _, a := range assignments {
		if a.Role.IsLoneWolf() {
			loneWolves++
		}
	}
	if cfg.EvilRing {
		next, ok := intel.Ring[view.PlayerID]
		if !ok {
			return configurationError("ring_missing", "evil ring has no link for player %s", view.PlayerID)
		}
		view.Known = append(view.Known, Sighting{PlayerID: next, Label: LabelTeammate})
		view.HiddenEvilCount = len(intel.Ring) - 2
		if loneWolves > 0 {
			view.HiddenEvilCount++
		}
		view.Note = "You know one teammate; " + hiddenNote(view.HiddenEvilCount)
		return nil
	}
	for _, a := range assignments {
		if a.Alignment == Evil && a.PlayerID != view.PlayerID && !a.Role.IsLoneWolf() {
			view.Known = append(view.Known, Sighting{PlayerID: a.PlayerID, Label: LabelTeammate})
		}
	}
	view.HiddenEvilCount = loneWolves
	if loneWolves > 0 {
		view.Note = hiddenNote(loneWolves)
	}
	return nil
}

// sortSightings orders by player id so list position never reveals a decoy or a mixed pair member.
func sortSightings(s []Sighting) {
	sort.Slice(s, func(i, j int) bool { return s[i].PlayerID < s[j].PlayerID })
}
