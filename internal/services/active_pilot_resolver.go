package services

import (
	"cmp"
	"context"
	"fmt"
	"slices"

	"il2-rankmod/light/internal/logging"
)

type playerCandidateFinder interface {
	FindPlayerCandidates(ctx context.Context, squadronID int64) ([]int64, error)
}

type squadronMissionFinder interface {
	LatestIDForSquadron(ctx context.Context, squadronID int64) (*int64, error)
}

type missionEventChecker interface {
	HasEventInMission(ctx context.Context, pilotID, missionID int64) (bool, error)
}

// ActivePilotResolver guesses which pilot in a squadron the human is flying.
//
// Every other pilot is treated as AI by the promotion pass, including other
// personage-bound pilots of earlier careers. That is a known simplification
// and is kept on purpose: it matches how the game itself only tracks one
// active player per squadron.
type ActivePilotResolver struct {
	pilots   playerCandidateFinder
	missions squadronMissionFinder
	events   missionEventChecker
}

func NewActivePilotResolver(pilots playerCandidateFinder, missions squadronMissionFinder, events missionEventChecker) *ActivePilotResolver {
	return &ActivePilotResolver{pilots: pilots, missions: missions, events: events}
}

// Resolve returns the active pilot id, or nil when the squadron has no
// personage-bound pilot. Among candidates the highest id with an event in the
// squadron's latest mission wins; otherwise the highest id.
func (r *ActivePilotResolver) Resolve(ctx context.Context, squadronID int64) (*int64, error) {
	candidates, err := r.pilots.FindPlayerCandidates(ctx, squadronID)
	if err != nil {
		return nil, err
	}
	logging.Debug("[ActivePilotResolver] Player candidates", "squadron_id", squadronID, "candidates", candidates)

	if len(candidates) == 0 {
		logging.Info("[ActivePilotResolver] No active player found", "squadron_id", squadronID)
		return nil, nil
	}

	highest := slices.Max(candidates)

	latest, err := r.missions.LatestIDForSquadron(ctx, squadronID)
	if err != nil {
		return nil, err
	}

	if latest != nil {
		for _, id := range sortedDesc(candidates) {
			has, err := r.events.HasEventInMission(ctx, id, *latest)
			if err != nil {
				return nil, fmt.Errorf("resolve active pilot: %w", err)
			}
			if has {
				logging.Info("[ActivePilotResolver] Selected active player",
					"pilot_id", id, "reason", "event in latest mission", "mission_id", *latest)
				return &id, nil
			}
		}
	}

	logging.Info("[ActivePilotResolver] Selected active player", "pilot_id", highest, "reason", "highest id")
	return &highest, nil
}

func sortedDesc(ids []int64) []int64 {
	out := slices.Clone(ids)
	slices.SortFunc(out, func(a, b int64) int { return cmp.Compare(b, a) })
	return out
}
