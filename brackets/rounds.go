package brackets

// Human-facing stage labels for single-elimination rounds.
const (
	StageFirstRound   = "First round"
	StageQuarterFinal = "Quarter-final"
	StageSemiFinal    = "Semi-final"
	StageFinal        = "Final"
)

// Ranking-point awards per stage win.
const (
	PointsFinal        = 400
	PointsSemiFinal    = 100
	PointsQuarterFinal = 40
	PointsFirstRound   = 10
)

// StageName maps a 1-based round index to its stage label. Rounds earlier
// than the quarter-final all collapse to "First round"; brackets deep enough
// to have more than four stages share the first-round label and point value.
func StageName(round, totalRounds int) string {
	switch {
	case totalRounds == 1, round == totalRounds:
		return StageFinal
	case round == totalRounds-1:
		return StageSemiFinal
	case round == totalRounds-2:
		return StageQuarterFinal
	default:
		return StageFirstRound
	}
}

// PointsForStage returns the ranking-point award for winning a match at the
// given stage. The submission pipeline awards first-round points; the legacy
// manual completion path does not, and both behaviors are kept behind the
// includeFirstRound flag.
func PointsForStage(stage string, includeFirstRound bool) int {
	switch stage {
	case StageFinal:
		return PointsFinal
	case StageSemiFinal:
		return PointsSemiFinal
	case StageQuarterFinal:
		return PointsQuarterFinal
	case StageFirstRound:
		if includeFirstRound {
			return PointsFirstRound
		}
		return 0
	default:
		return 0
	}
}
