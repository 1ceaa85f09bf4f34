package gesture

import "testing"

func TestGate_OncePerWindow(t *testing.T) {
	g := NewGate(10)

	var admitted []int
	for frame := 1; frame <= 10; frame++ {
		if g.Admit(0) {
			admitted = append(admitted, frame)
		}
	}
	if len(admitted) != 1 || admitted[0] != 1 {
		t.Fatalf("admitted frames = %v, want [1]", admitted)
	}

	if !g.Admit(0) {
		t.Error("11th frame should be admitted")
	}
}

func TestGate_CounterSequence(t *testing.T) {
	g := NewGate(10)

	want := []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 0, 1}
	for i, w := range want {
		g.Admit(2)
		if got := g.Counter(2); got != w {
			t.Fatalf("after frame %d counter = %d, want %d", i+1, got, w)
		}
	}
}

func TestGate_CooldownSurvivesUntrackedGap(t *testing.T) {
	g := NewGate(10)

	if !g.Admit(0) {
		t.Fatal("first tracked frame should be admitted")
	}
	if g.Counter(0) != 1 {
		t.Fatalf("counter = %d, want 1", g.Counter(0))
	}

	// Three frames where only another body is tracked. Slot 0
	// sees no Admit call, so its counter must not move.
	for i := 0; i < 3; i++ {
		g.Admit(1)
	}
	if g.Counter(0) != 1 {
		t.Fatalf("counter changed while untracked: %d", g.Counter(0))
	}

	// Tracked again: tracked frames 2 through 10 are suppressed.
	for tracked := 2; tracked <= 10; tracked++ {
		if g.Admit(0) {
			t.Fatalf("tracked frame %d admitted inside the cooldown window", tracked)
		}
	}

	if !g.Admit(0) {
		t.Error("11th tracked frame should be admitted")
	}
}

func TestGate_SlotsAreIndependent(t *testing.T) {
	g := NewGate(10)

	if !g.Admit(0) {
		t.Fatal("slot 0 should be admitted")
	}
	if !g.Admit(1) {
		t.Error("slot 1 should have its own open counter")
	}
	if g.Admit(0) {
		t.Error("slot 0 should be cooling down")
	}
	if g.Counter(3) != 0 {
		t.Errorf("untouched slot counter = %d, want 0", g.Counter(3))
	}
}

func TestGate_OutOfRangeSlot(t *testing.T) {
	g := NewGate(10)
	for _, slot := range []int{-1, 6, 100} {
		if g.Admit(slot) {
			t.Errorf("slot %d should never be admitted", slot)
		}
		if g.Counter(slot) != 0 {
			t.Errorf("Counter(%d) = %d, want 0", slot, g.Counter(slot))
		}
	}
}

func TestGate_PeriodOneAlwaysAdmits(t *testing.T) {
	g := NewGate(1)
	for i := 0; i < 5; i++ {
		if !g.Admit(0) {
			t.Fatalf("frame %d not admitted with period 1", i+1)
		}
	}
}

func TestGate_Reset(t *testing.T) {
	g := NewGate(10)
	g.Admit(0)
	g.Admit(0)
	g.Reset()
	if !g.Admit(0) {
		t.Error("slot should be open after Reset")
	}
}
