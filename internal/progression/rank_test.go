package progression

import (
	"testing"

	"trivia-quiz-service/internal/domain"
)

func TestApplyRankAccrualBelowThreshold(t *testing.T) {
	rank, points := ApplyRank(domain.RankBronze, 0, 5)
	if rank != domain.RankBronze || points != 250 {
		t.Fatalf("expected Bronze/250, got %s/%d", rank, points)
	}
}

func TestApplyRankPromotesOnThreshold(t *testing.T) {
	rank, points := ApplyRank(domain.RankBronze, 900, 5)
	if rank != domain.RankSilver || points != 1150 {
		t.Fatalf("expected Silver/1150, got %s/%d", rank, points)
	}
}

func TestApplyRankNeverCascades(t *testing.T) {
	// 3000 points clears both the Bronze and Silver thresholds, but a single
	// session advances at most one tier.
	rank, points := ApplyRank(domain.RankBronze, 0, 60)
	if rank != domain.RankSilver || points != 3000 {
		t.Fatalf("expected Silver/3000, got %s/%d", rank, points)
	}
}

func TestApplyRankDiamondIsTerminal(t *testing.T) {
	rank, points := ApplyRank(domain.RankDiamond, 20000, 10)
	if rank != domain.RankDiamond || points != 20500 {
		t.Fatalf("expected Diamond/20500, got %s/%d", rank, points)
	}
}

func TestNextRankChain(t *testing.T) {
	order := []domain.Rank{domain.RankBronze, domain.RankSilver, domain.RankGold, domain.RankPlatinum, domain.RankDiamond}
	for i := 0; i < len(order)-1; i++ {
		next, ok := NextRank(order[i])
		if !ok || next != order[i+1] {
			t.Fatalf("expected %s after %s, got %s", order[i+1], order[i], next)
		}
	}
	if _, ok := NextRank(domain.RankDiamond); ok {
		t.Fatalf("Diamond should have no successor")
	}
}
