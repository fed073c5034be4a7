package progression

import "trivia-quiz-service/internal/domain"

// pointsPerCorrect is awarded per correct answer in a ranked session.
const pointsPerCorrect = 50

// nextRank maps each tier to its successor. Diamond is terminal.
var nextRank = map[domain.Rank]domain.Rank{
	domain.RankBronze:   domain.RankSilver,
	domain.RankSilver:   domain.RankGold,
	domain.RankGold:     domain.RankPlatinum,
	domain.RankPlatinum: domain.RankDiamond,
}

// rankThresholds holds the points needed to leave each tier.
var rankThresholds = map[domain.Rank]int{
	domain.RankBronze:   1000,
	domain.RankSilver:   2500,
	domain.RankGold:     7500,
	domain.RankPlatinum: 18000,
}

// NextRank returns the tier above the given one, if any.
func NextRank(rank domain.Rank) (domain.Rank, bool) {
	next, ok := nextRank[rank]
	return next, ok
}

// PointsForNextRank returns the points threshold to leave the given tier,
// or 0 when the tier is terminal.
func PointsForNextRank(rank domain.Rank) int {
	return rankThresholds[rank]
}

// ApplyRank accrues ranked points (score * 50) and advances at most one tier.
// Unlike leveling, rank never cascades through multiple tiers in a single
// session, and points accumulate rather than resetting on rank-up.
func ApplyRank(rank domain.Rank, points, score int) (domain.Rank, int) {
	newPoints := points + score*pointsPerCorrect
	needed := PointsForNextRank(rank)
	if needed > 0 && newPoints >= needed {
		if next, ok := NextRank(rank); ok {
			rank = next
		}
	}
	return rank, newPoints
}
