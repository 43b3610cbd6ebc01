package simulation

import (
	"math/rand"
	"testing"

	"github.com/galtonlab/galton/internal/bean"
	"github.com/galtonlab/galton/internal/machine"
)

// Runner drives scenarios against a real machine and bean population.
type Runner struct {
	t *testing.T

	// CheckEveryStep verifies mass conservation and column bounds after
	// every AdvanceStep, not just at phase boundaries. On by default.
	CheckEveryStep bool
}

// NewRunner creates a simulation runner.
func NewRunner(t *testing.T) *Runner {
	t.Helper()
	return &Runner{t: t, CheckEveryStep: true}
}

// Run executes the scenario and returns the collected snapshots.
func (r *Runner) Run(scenario Scenario) Result {
	r.t.Helper()

	m, err := machine.New(scenario.SlotCount)
	if err != nil {
		r.t.Fatalf("%s: machine.New(%d): %v", scenario.Name, scenario.SlotCount, err)
	}

	beans := make([]machine.Bean, scenario.BeanCount)
	for i := range beans {
		b, err := bean.New(scenario.SlotCount, scenario.Mode, rand.New(rand.NewSource(scenario.Seed+int64(i))))
		if err != nil {
			r.t.Fatalf("%s: bean.New: %v", scenario.Name, err)
		}
		beans[i] = b
	}
	m.Reset(beans)

	result := Result{Initial: snapshot(m)}

	for i, kind := range scenario.Phases {
		pr := PhaseResult{Kind: kind, Index: i}
		switch kind {
		case PhaseRun:
			pr.Steps = r.drain(scenario, m, i)
		case PhaseRepeat:
			m.Repeat()
		case PhaseUpperHalf:
			m.UpperHalf()
		case PhaseLowerHalf:
			m.LowerHalf()
		}
		pr.Snapshot = snapshot(m)
		result.Phases = append(result.Phases, pr)
	}

	return result
}

// drain runs the machine to quiescence, optionally checking invariants on
// every tick, and returns the number of status-changing steps.
func (r *Runner) drain(scenario Scenario, m *machine.Machine, phase int) int {
	r.t.Helper()

	// Beans removed by earlier half filters are out of the run, so the
	// conserved total is whatever the machine holds entering this phase.
	want := snapshot(m).Total()

	steps := 0
	for {
		changed := m.AdvanceStep()
		if r.CheckEveryStep {
			r.checkStep(scenario, m, phase, steps, want)
		}
		if !changed {
			return steps
		}
		steps++
		if steps > scenario.SlotCount+scenario.BeanCount+(len(scenario.Phases)+1)*scenario.SlotCount+100 {
			r.t.Fatalf("%s: phase %d: machine did not reach terminal state", scenario.Name, phase)
		}
	}
}

// checkStep asserts the per-step invariants: the bean population is
// conserved across the three groups, and every column is a valid slot.
func (r *Runner) checkStep(scenario Scenario, m *machine.Machine, phase, step, want int) {
	r.t.Helper()

	snap := snapshot(m)
	if snap.Total() != want {
		r.t.Fatalf("%s: phase %d step %d: remaining(%d) + in-flight(%d) + slotted(%d) = %d, want %d",
			scenario.Name, phase, step, snap.Remaining, snap.InFlightCount(), snap.SlotTotal, snap.Total(), want)
	}
	for y, x := range snap.InFlight {
		if x != machine.NoBeanInYPos && (x < 0 || x >= scenario.SlotCount) {
			r.t.Fatalf("%s: phase %d step %d: row %d column %d out of [0, %d)",
				scenario.Name, phase, step, y, x, scenario.SlotCount)
		}
	}
}

// snapshot reads the machine's observable state through its query surface.
func snapshot(m *machine.Machine) Snapshot {
	snap := Snapshot{
		Remaining: m.RemainingBeanCount(),
		InFlight:  make([]int, m.SlotCount()),
		Slots:     make([]int, m.SlotCount()),
		Average:   m.AverageSlotBeanCount(),
	}
	for y := 0; y < m.SlotCount(); y++ {
		snap.InFlight[y] = m.InFlightBeanXPos(y)
	}
	for i := 0; i < m.SlotCount(); i++ {
		snap.Slots[i] = m.SlotBeanCount(i)
		snap.SlotTotal += m.SlotBeanCount(i)
	}
	return snap
}
