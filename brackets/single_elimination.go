package brackets

import (
	"errors"
	"math"

	"github.com/Nikachu96/Ready-2-Dink-sub000/models"
)

var ErrNotEnoughPlayers = errors.New("not enough players to generate a single elimination bracket (minimum 2)")

// PlannedMatch is one bracket slot before persistence. Round and MatchNumber
// are 1-based. Player slots are nil on placeholder matches for rounds after
// the first.
type PlannedMatch struct {
	Round       int
	MatchNumber int
	Player1ID   *int
	Player2ID   *int
	Status      models.MatchStatus
}

// BracketPlan is the full match layout for a tournament, round 1 populated
// and later rounds pre-created as empty placeholders.
type BracketPlan struct {
	TotalRounds int
	Matches     []PlannedMatch
}

// PlanSingleElimination pairs players sequentially in seed order (seed 1 vs
// seed 2, seed 3 vs seed 4, ...). An odd entrant count leaves the last match
// with a single player and bye status; the walkover is not auto-advanced
// here, it is resolved through manual completion. Rounds after the first get
// ceil(previous/2) placeholder matches awaiting advancement.
func PlanSingleElimination(playerIDs []int) (*BracketPlan, error) {
	n := len(playerIDs)
	if n < 2 {
		return nil, ErrNotEnoughPlayers
	}

	totalRounds := int(math.Ceil(math.Log2(float64(n))))

	plan := &BracketPlan{TotalRounds: totalRounds}

	matchesInRound := 0
	for i := 0; i < n; i += 2 {
		matchesInRound++
		p1 := playerIDs[i]
		pm := PlannedMatch{
			Round:       1,
			MatchNumber: matchesInRound,
			Player1ID:   &p1,
			Status:      models.MatchStatusReady,
		}
		if i+1 < n {
			p2 := playerIDs[i+1]
			pm.Player2ID = &p2
		} else {
			pm.Status = models.MatchStatusBye
		}
		plan.Matches = append(plan.Matches, pm)
	}

	for round := 2; round <= totalRounds; round++ {
		matchesInRound = (matchesInRound + 1) / 2
		for m := 1; m <= matchesInRound; m++ {
			plan.Matches = append(plan.Matches, PlannedMatch{
				Round:       round,
				MatchNumber: m,
				Status:      models.MatchStatusPending,
			})
		}
	}

	return plan, nil
}

// NextSlot computes where a completed match's winner advances to: the match
// number in the following round and which player slot it fills. Odd match
// numbers feed slot 1, even numbers slot 2.
func NextSlot(matchNumber int) (nextMatchNumber, slot int) {
	nextMatchNumber = (matchNumber + 1) / 2
	slot = 2 - matchNumber%2
	return nextMatchNumber, slot
}
