package rules

import (
	"errors"
	"testing"
)

func actions(success ...bool) []QuestAction {
	ids := playerIDs(len(success))
	out := make([]QuestAction, len(success))
	for i, s := range success {
		out[i] = QuestAction{PlayerID: ids[i], Success: s}
	}
	return out
}

func TestQuestSpec(t *testing.T) {
	tests := []struct {
		players, quest int
		want           Quest
	}{
		{5, 1, Quest{TeamSize: 2, FailsRequired: 1}},
		{6, 3, Quest{TeamSize: 4, FailsRequired: 1}},
		{6, 4, Quest{TeamSize: 3, FailsRequired: 1}},
		{7, 4, Quest{TeamSize: 4, FailsRequired: 2}},
		{10, 4, Quest{TeamSize: 5, FailsRequired: 2}},
		{10, 5, Quest{TeamSize: 5, FailsRequired: 1}},
	}
	for _, tt := range tests {
		got, err := QuestSpec(tt.players, tt.quest)
		if err != nil {
			t.Fatal(err)
		}
		if got != tt.want {
			t.Errorf("%d players quest %d: got %+v want %+v", tt.players, tt.quest, got, tt.want)
		}
	}
	if _, err := QuestSpec(7, 6); err == nil {
		t.Error("expected error for quest 6")
	}
	if _, err := QuestSpec(4, 1); err == nil {
		t.Error("expected error for 4 players")
	}
}

func TestResolveQuest_TwoFailQuest(t *testing.T) {
	oneFail, err := ResolveQuest(actions(true, true, true, false), 7, 4)
	if err != nil {
		t.Fatal(err)
	}
	if oneFail.Outcome != QuestSuccess || oneFail.FailCount != 1 {
		t.Errorf("one fail: got %+v", oneFail)
	}
	twoFails, err := ResolveQuest(actions(true, true, false, false), 7, 4)
	if err != nil {
		t.Fatal(err)
	}
	if twoFails.Outcome != QuestFail {
		t.Errorf("two fails: got %+v", twoFails)
	}
}

func TestResolveQuest_SingleFail(t *testing.T) {
	got, err := ResolveQuest(actions(true, false), 5, 1)
	if err != nil {
		t.Fatal(err)
	}
	if got.Outcome != QuestFail || got.SuccessCount != 1 || got.QuestNumber != 1 {
		t.Errorf("got %+v", got)
	}
}

func TestResolveQuest_Rejects(t *testing.T) {
	if _, err := ResolveQuest(actions(true), 5, 1); !errors.Is(err, ErrWrongTeamSize) {
		t.Errorf("short team: got %v", err)
	}
	dup := []QuestAction{{PlayerID: "p1", Success: true}, {PlayerID: "p1", Success: false}}
	if _, err := ResolveQuest(dup, 5, 1); !errors.Is(err, ErrDuplicateAction) {
		t.Errorf("duplicate: got %v", err)
	}
}

func TestValidateQuestAction(t *testing.T) {
	good := Assignment{PlayerID: "p1", Alignment: Good, Role: RoleLoyal}
	evil := Assignment{PlayerID: "p2", Alignment: Evil, Role: RoleMinion}
	if err := ValidateQuestAction(good, QuestAction{PlayerID: "p1", Success: true}); err != nil {
		t.Errorf("good success: %v", err)
	}
	wantCode(t, ValidateQuestAction(good, QuestAction{PlayerID: "p1", Success: false}), KindValidation, "good_must_succeed")
	if err := ValidateQuestAction(evil, QuestAction{PlayerID: "p2", Success: false}); err != nil {
		t.Errorf("evil fail: %v", err)
	}
}

func TestRecordQuestAction(t *testing.T) {
	team := []string{"p1", "p2"}
	pending, err := RecordQuestAction(nil, QuestAction{PlayerID: "p1", Success: true}, team)
	if err != nil {
		t.Fatal(err)
	}
	if len(pending) != 1 {
		t.Fatalf("pending: got %d", len(pending))
	}
	again, err := RecordQuestAction(pending, QuestAction{PlayerID: "p1", Success: false}, team)
	if !errors.Is(err, ErrDuplicateAction) {
		t.Errorf("duplicate: got %v", err)
	}
	if len(again) != 1 || !again[0].Success {
		t.Errorf("first action must stand: %+v", again)
	}
	_, err = RecordQuestAction(pending, QuestAction{PlayerID: "p3", Success: true}, team)
	wantCode(t, err, KindEligibility, "not_on_team")
}
