package progression

import "testing"

func TestXPToReach(t *testing.T) {
	if got := XPToReach(1); got != 0 {
		t.Fatalf("level 1 should cost nothing, got %d", got)
	}
	if got := XPToReach(2); got != 5 {
		t.Fatalf("level 2 threshold: expected 5, got %d", got)
	}
	if got := XPToReach(4); got != 20 {
		t.Fatalf("level 4 threshold: expected 20, got %d", got)
	}
	for level := 2; level < 100; level++ {
		if XPToReach(level+1) <= XPToReach(level) {
			t.Fatalf("thresholds must grow: level %d", level)
		}
	}
}

func TestApplyXPSingleLevel(t *testing.T) {
	level, xp := ApplyXP(1, 3, 3)
	if level != 2 || xp != 6 {
		t.Fatalf("expected level 2 xp 6, got level %d xp %d", level, xp)
	}
}

func TestApplyXPKeepsLevelBelowThreshold(t *testing.T) {
	level, xp := ApplyXP(1, 0, 3)
	if level != 1 || xp != 3 {
		t.Fatalf("expected level 1 xp 3, got level %d xp %d", level, xp)
	}
}

func TestApplyXPLevelsUpMultipleTimes(t *testing.T) {
	// A large score can cross several thresholds in one session.
	level, xp := ApplyXP(1, 0, 100)
	if level != 11 || xp != 100 {
		t.Fatalf("expected level 11 xp 100, got level %d xp %d", level, xp)
	}
}

func TestLevelProgressPercent(t *testing.T) {
	// Level 1 spans xp 0..5.
	if got := LevelProgressPercent(1, 3); got != 60 {
		t.Fatalf("expected 60, got %d", got)
	}
	// Values past 100 wrap down instead of clamping.
	if got := LevelProgressPercent(2, 14); got != 50 {
		t.Fatalf("expected wrapped 50, got %d", got)
	}
	// Degenerate span reads as zero progress.
	if got := LevelProgressPercent(0, 5); got != 0 {
		t.Fatalf("expected 0 for degenerate span, got %d", got)
	}
}
