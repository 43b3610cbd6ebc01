package simulation

import "testing"

// AssertTerminal asserts the machine drained completely: no beans waiting,
// none in flight, and exactly beanCount resting in slots.
func AssertTerminal(t *testing.T, pr PhaseResult, beanCount int) {
	t.Helper()
	if pr.Remaining != 0 {
		t.Errorf("AssertTerminal: phase %d (%s): remaining = %d, want 0", pr.Index, pr.Kind, pr.Remaining)
	}
	if n := pr.InFlightCount(); n != 0 {
		t.Errorf("AssertTerminal: phase %d (%s): in-flight = %d, want 0", pr.Index, pr.Kind, n)
	}
	if pr.SlotTotal != beanCount {
		t.Errorf("AssertTerminal: phase %d (%s): slot total = %d, want %d", pr.Index, pr.Kind, pr.SlotTotal, beanCount)
	}
}

// AssertStepCount asserts the number of status-changing steps a run phase
// took. A full drain of N beans through a K-row board takes K+N-1 steps.
func AssertStepCount(t *testing.T, pr PhaseResult, want int) {
	t.Helper()
	if pr.Steps != want {
		t.Errorf("AssertStepCount: phase %d (%s): %d changing steps, want %d", pr.Index, pr.Kind, pr.Steps, want)
	}
}

// AssertSlotsEqual asserts two snapshots hold identical per-slot
// occupancy and weighted average.
func AssertSlotsEqual(t *testing.T, a, b PhaseResult) {
	t.Helper()
	if len(a.Slots) != len(b.Slots) {
		t.Fatalf("AssertSlotsEqual: slot counts differ in length: %d vs %d", len(a.Slots), len(b.Slots))
	}
	for i := range a.Slots {
		if a.Slots[i] != b.Slots[i] {
			t.Errorf("AssertSlotsEqual: slot %d: phase %d has %d, phase %d has %d",
				i, a.Index, a.Slots[i], b.Index, b.Slots[i])
		}
	}
	if a.Average != b.Average {
		t.Errorf("AssertSlotsEqual: average: phase %d has %v, phase %d has %v",
			a.Index, a.Average, b.Index, b.Average)
	}
}

// AssertSlotTotal asserts the number of beans resting in slots.
func AssertSlotTotal(t *testing.T, pr PhaseResult, want int) {
	t.Helper()
	if pr.SlotTotal != want {
		t.Errorf("AssertSlotTotal: phase %d (%s): slot total = %d, want %d", pr.Index, pr.Kind, pr.SlotTotal, want)
	}
}

// AssertMassConserved asserts remaining + in-flight + slotted equals the
// given population.
func AssertMassConserved(t *testing.T, pr PhaseResult, want int) {
	t.Helper()
	if got := pr.Total(); got != want {
		t.Errorf("AssertMassConserved: phase %d (%s): total = %d, want %d", pr.Index, pr.Kind, got, want)
	}
}

// AssertAverageInRange asserts the weighted average slot index lies in
// [min, max].
func AssertAverageInRange(t *testing.T, pr PhaseResult, min, max float64) {
	t.Helper()
	if pr.Average < min || pr.Average > max {
		t.Errorf("AssertAverageInRange: phase %d (%s): average %v not in [%v, %v]",
			pr.Index, pr.Kind, pr.Average, min, max)
	}
}

// AssertColumnsInBounds asserts every occupied in-flight row holds a valid
// column.
func AssertColumnsInBounds(t *testing.T, pr PhaseResult, slotCount int) {
	t.Helper()
	for y, x := range pr.InFlight {
		if x >= 0 && x >= slotCount {
			t.Errorf("AssertColumnsInBounds: phase %d (%s): row %d column %d out of [0, %d)",
				pr.Index, pr.Kind, y, x, slotCount)
		}
	}
}
