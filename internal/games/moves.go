package games

import (
	"context"
	"errors"
	"fmt"

	"github.com/vntrieu/shadowquest/internal/rules"
	"github.com/vntrieu/shadowquest/internal/store"
)

// Public event names.
const (
	EventGameStarted         = "game_started"
	EventTeamProposed        = "team_proposed"
	EventVoteRecorded        = "vote_recorded"
	EventTeamApproved        = "team_approved"
	EventTeamRejected        = "team_rejected"
	EventQuestActionRecorded = "quest_action_recorded"
	EventQuestResolved       = "quest_resolved"
	EventAssassinationPhase  = "assassination_phase"
	EventEndgameStarted      = "endgame_started"
	EventGuessSubmitted      = "guess_submitted"
	EventQuizStarted         = "quiz_started"
	EventQuizVoteRecorded    = "quiz_vote_recorded"
	EventGameOver            = "game_over"
)

func (e *Engine) startGame(ctx context.Context, s *GameState, m move) ([]BroadcastEvent, error) {
	playerIDs, err := e.store.GetGamePlayerIDsInOrder(ctx, s.GameID)
	if err != nil {
		return nil, fmt.Errorf("get players: %w", err)
	}
	if !contains(playerIDs, m.playerID) {
		return nil, ErrNotInGame
	}

	cfg, err := e.roleConfiguration(ctx, s.GameID, m.payload)
	if err != nil {
		return nil, err
	}
	validation := rules.ValidateConfiguration(cfg, len(playerIDs))
	if !validation.Valid {
		return nil, validation.Errors[0]
	}
	roleSet, err := rules.BuildRoleSet(cfg, len(playerIDs))
	if err != nil {
		return nil, err
	}
	rng, err := e.config.NewRand()
	if err != nil {
		return nil, fmt.Errorf("seed game: %w", err)
	}
	assignments, err := rules.AssignRoles(roleSet, playerIDs, rng)
	if err != nil {
		return nil, err
	}
	intel, err := rules.DrawIntel(assignments, cfg, rng)
	if err != nil {
		return nil, err
	}
	seating, err := rules.InitializeSeating(playerIDs, rng)
	if err != nil {
		return nil, err
	}
	phase, err := rules.TransitionPhase(s.Phase, rules.Event{Kind: rules.EventStartGame})
	if err != nil {
		return nil, err
	}

	schedule, err := rules.Schedule(len(playerIDs))
	if err != nil {
		return nil, err
	}

	s.Phase = phase
	s.Status = store.GameStatusInProgress
	s.Config = cfg
	s.PlayerIDs = playerIDs
	s.Assignments = assignments
	s.Intel = intel
	s.Seating = seating
	s.QuestNumber = 1
	s.VoteTrack = 0

	return []BroadcastEvent{{Event: EventGameStarted, Payload: map[string]any{
		"phase":        s.Phase,
		"quest_number": s.QuestNumber,
		"leader_id":    s.LeaderID(),
		"seating":      s.Seating.Order,
		"schedule":     schedule,
		"config":       s.Config,
		"warnings":     validation.Warnings,
	}}}, nil
}

// roleConfiguration takes the config from the start payload, falling back to the one stored with the game.
func (e *Engine) roleConfiguration(ctx context.Context, gameID string, payload map[string]any) (rules.RoleConfiguration, error) {
	if raw, ok := payload["config"].(map[string]any); ok {
		return DecodeRoleConfiguration(raw)
	}
	game, err := e.store.GetGame(ctx, gameID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return rules.RoleConfiguration{}, ErrGameNotFound
		}
		return rules.RoleConfiguration{}, fmt.Errorf("get game: %w", err)
	}
	return DecodeRoleConfiguration(game.Config)
}

func (e *Engine) proposeTeam(s *GameState, m move) ([]BroadcastEvent, error) {
	team, ok := stringSliceFromPayload(m.payload["team_ids"])
	if !ok {
		team, ok = stringSliceFromPayload(m.payload["team"])
	}
	if !ok {
		return nil, fmt.Errorf("%w: payload must include team_ids (array of room_player_id)", ErrBadPayload)
	}
	proposal := rules.Proposal{
		QuestNumber:       s.QuestNumber,
		LeaderID:          m.playerID,
		TeamIDs:           team,
		VoteTrackPosition: s.VoteTrack,
	}
	if err := rules.ValidateProposal(proposal, s.Seating); err != nil {
		return nil, err
	}
	quest, err := rules.QuestSpec(len(s.PlayerIDs), s.QuestNumber)
	if err != nil {
		return nil, err
	}
	phase, err := rules.TransitionPhase(s.Phase, rules.Event{
		Kind:         rules.EventProposeTeam,
		TeamSize:     len(team),
		RequiredSize: quest.TeamSize,
	})
	if err != nil {
		return nil, err
	}
	s.Phase = phase
	s.Proposal = &proposal
	s.TeamVotes = make(map[string]bool, len(s.PlayerIDs))
	return []BroadcastEvent{{Event: EventTeamProposed, Payload: map[string]any{
		"leader_id":      proposal.LeaderID,
		"team_ids":       proposal.TeamIDs,
		"quest_number":   proposal.QuestNumber,
		"vote_track":     proposal.VoteTrackPosition,
		"phase":          s.Phase,
		"fails_required": quest.FailsRequired,
	}}}, nil
}

func (e *Engine) vote(s *GameState, m move) ([]BroadcastEvent, error) {
	approved, ok := boolFromPayload(m.payload, "approved")
	if !ok {
		return nil, fmt.Errorf("%w: payload must include approved: true/false", ErrBadPayload)
	}
	if s.Proposal == nil {
		return nil, rules.NewError(rules.KindState, rules.ErrInvalidTransition.Code, "no team to vote on")
	}
	if s.TeamVotes == nil {
		s.TeamVotes = make(map[string]bool, len(s.PlayerIDs))
	}
	if _, voted := s.TeamVotes[m.playerID]; voted {
		return nil, rules.NewError(rules.KindValidation, rules.ErrDuplicateAction.Code, "already voted on this team")
	}
	s.TeamVotes[m.playerID] = approved
	if len(s.TeamVotes) < len(s.PlayerIDs) {
		return []BroadcastEvent{{Event: EventVoteRecorded, Payload: map[string]any{"player_id": m.playerID}}}, nil
	}

	result, err := rules.ResolveVote(s.TeamVotes, len(s.PlayerIDs))
	if err != nil {
		return nil, err
	}
	track := rules.AdvanceVoteTrack(s.VoteTrack, result.Approved)
	phase, err := rules.TransitionPhase(s.Phase, rules.Event{
		Kind:      rules.EventVoteResolved,
		Approved:  result.Approved,
		VoteTrack: track.Position,
		Quiz:      s.Config.Quiz,
	})
	if err != nil {
		return nil, err
	}
	s.LastVote = &result
	s.LastVotes = s.TeamVotes
	s.TeamVotes = nil
	s.VoteTrack = track.Position
	s.Phase = phase

	tally := map[string]any{
		"approve_count": result.ApproveCount,
		"reject_count":  result.RejectCount,
		"votes":         s.LastVotes,
		"vote_track":    s.VoteTrack,
	}
	if result.Approved {
		s.QuestActions = nil
		tally["team_ids"] = s.Proposal.TeamIDs
		tally["phase"] = s.Phase
		return []BroadcastEvent{{Event: EventTeamApproved, Payload: tally}}, nil
	}

	s.Proposal = nil
	if track.EvilWins {
		outcome := rules.EvaluateWin(s.Results, s.VoteTrack, nil, s.HasHunter())
		s.Outcome = &outcome
		tally["phase"] = s.Phase
		events := []BroadcastEvent{{Event: EventTeamRejected, Payload: tally}}
		return append(events, e.enterFinalPhase(s)...), nil
	}
	s.Seating = s.Seating.Rotate()
	tally["phase"] = s.Phase
	tally["leader_id"] = s.LeaderID()
	return []BroadcastEvent{{Event: EventTeamRejected, Payload: tally}}, nil
}

func (e *Engine) questAction(s *GameState, m move) ([]BroadcastEvent, error) {
	success, ok := boolFromPayload(m.payload, "success")
	if !ok {
		return nil, fmt.Errorf("%w: payload must include success: true/false", ErrBadPayload)
	}
	if s.Proposal == nil {
		return nil, rules.NewError(rules.KindState, rules.ErrInvalidTransition.Code, "no approved team")
	}
	action := rules.QuestAction{PlayerID: m.playerID, Success: success}
	assignment, _ := rules.AssignmentFor(s.Assignments, m.playerID)
	if err := rules.ValidateQuestAction(assignment, action); err != nil {
		return nil, err
	}
	actions, err := rules.RecordQuestAction(s.QuestActions, action, s.Proposal.TeamIDs)
	if err != nil {
		return nil, err
	}
	s.QuestActions = actions
	if len(actions) < len(s.Proposal.TeamIDs) {
		return []BroadcastEvent{{Event: EventQuestActionRecorded, Payload: map[string]any{
			"player_id": m.playerID,
			"submitted": len(actions),
			"team_size": len(s.Proposal.TeamIDs),
		}}}, nil
	}

	result, err := rules.ResolveQuest(actions, len(s.PlayerIDs), s.QuestNumber)
	if err != nil {
		return nil, err
	}
	if s.Phase, err = rules.TransitionPhase(s.Phase, rules.Event{Kind: rules.EventQuestResolved}); err != nil {
		return nil, err
	}
	s.Results = append(s.Results, result)
	s.QuestActions = nil

	outcome := rules.EvaluateWin(s.Results, s.VoteTrack, nil, s.HasHunter())
	phase, err := rules.TransitionPhase(s.Phase, rules.Event{
		Kind:            rules.EventOutcomeEvaluated,
		Outcome:         outcome,
		ParallelEndgame: s.Config.ParallelEndgame,
		Quiz:            s.Config.Quiz,
	})
	if err != nil {
		return nil, err
	}
	s.Phase = phase
	events := []BroadcastEvent{{Event: EventQuestResolved, Payload: map[string]any{
		"quest_number":  result.QuestNumber,
		"outcome":       result.Outcome,
		"success_count": result.SuccessCount,
		"fail_count":    result.FailCount,
		"results":       s.Results,
		"phase":         s.Phase,
	}}}

	switch phase {
	case rules.PhaseTeamBuilding:
		s.QuestNumber++
		s.Proposal = nil
		s.Seating = s.Seating.Rotate()
		events[0].Payload["leader_id"] = s.LeaderID()
		events[0].Payload["next_quest"] = s.QuestNumber
		return events, nil
	case rules.PhaseAssassination:
		s.Outcome = &outcome
		hunter, _ := rules.FindRole(s.Assignments, rules.RoleHunter)
		return append(events, BroadcastEvent{Event: EventAssassinationPhase, Payload: map[string]any{
			"hunter_id": hunter,
			"phase":     s.Phase,
		}}), nil
	case rules.PhaseEndgame:
		s.Outcome = &outcome
		hunter, _ := rules.FindRole(s.Assignments, rules.RoleHunter)
		ev := BroadcastEvent{Event: EventEndgameStarted, Payload: map[string]any{
			"hunter_id": hunter,
			"quiz":      s.Config.Quiz,
			"phase":     s.Phase,
		}}
		if s.Config.Quiz {
			now := e.config.Now()
			s.QuizStarted = &now
			ev.Payload["quiz_started_at"] = now
			ev.Payload["timeout_seconds"] = int(e.config.QuizTimeout.Seconds())
		}
		return append(events, ev), nil
	}
	s.Outcome = &outcome
	return append(events, e.enterFinalPhase(s)...), nil
}

func (e *Engine) assassinate(s *GameState, m move) ([]BroadcastEvent, error) {
	target, _ := m.payload["target_id"].(string)
	if target == "" {
		return nil, fmt.Errorf("%w: payload must include target_id", ErrBadPayload)
	}
	if s.Guess != nil {
		return nil, rules.NewError(rules.KindEligibility, rules.ErrAlreadyRecorded.Code, "the hunter already guessed")
	}
	guess, err := rules.ResolveAssassination(m.playerID, target, s.Assignments)
	if err != nil {
		return nil, err
	}
	outcome := rules.EvaluateWin(s.Results, s.VoteTrack, &guess, s.HasHunter())
	s.Guess = &guess
	s.Outcome = &outcome

	if s.Phase == rules.PhaseEndgame {
		events := []BroadcastEvent{{Event: EventGuessSubmitted, Payload: map[string]any{"hunter_id": m.playerID}}}
		more, err := e.progressEndgame(s)
		if err != nil {
			return nil, err
		}
		return append(events, more...), nil
	}

	phase, err := rules.TransitionPhase(s.Phase, rules.Event{Kind: rules.EventAssassinationResolved, Quiz: s.Config.Quiz})
	if err != nil {
		return nil, err
	}
	s.Phase = phase
	events := []BroadcastEvent{{Event: EventGuessSubmitted, Payload: map[string]any{"hunter_id": m.playerID}}}
	return append(events, e.enterFinalPhase(s)...), nil
}

func (e *Engine) quizVote(s *GameState, m move) ([]BroadcastEvent, error) {
	if !s.Config.Quiz {
		return nil, rules.NewError(rules.KindState, rules.ErrInvalidTransition.Code, "the quiz is not enabled for this game")
	}
	if e.quizDone(s) {
		return nil, rules.NewError(rules.KindState, "quiz_closed", "the quiz is closed")
	}
	vote := rules.QuizVote{VoterID: m.playerID}
	if raw, present := m.payload["target_id"]; present && raw != nil {
		target, ok := raw.(string)
		if !ok {
			return nil, fmt.Errorf("%w: target_id must be a player id or null", ErrBadPayload)
		}
		vote.TargetID = &target
	}
	votes, err := rules.RecordQuizVote(s.QuizVotes, vote, s.QuizEligibility(m.playerID), s.PlayerIDs)
	if err != nil {
		return nil, err
	}
	s.QuizVotes = votes
	events := []BroadcastEvent{{Event: EventQuizVoteRecorded, Payload: map[string]any{"player_id": m.playerID}}}

	switch s.Phase {
	case rules.PhaseEndgame:
		more, err := e.progressEndgame(s)
		if err != nil {
			return nil, err
		}
		return append(events, more...), nil
	case rules.PhaseQuiz:
		return append(events, e.closeQuizIfDone(s)...), nil
	}
	return events, nil
}
