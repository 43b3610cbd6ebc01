package simulation

import "github.com/galtonlab/galton/internal/bean"

// PhaseKind identifies one step of a scenario's experiment script.
type PhaseKind int

const (
	// PhaseRun drives AdvanceStep until the machine reports no change.
	PhaseRun PhaseKind = iota
	// PhaseRepeat recycles all beans and re-arms the machine.
	PhaseRepeat
	// PhaseUpperHalf removes the lower half of the slotted beans.
	PhaseUpperHalf
	// PhaseLowerHalf removes the upper half of the slotted beans.
	PhaseLowerHalf
)

// String returns the phase name for failure messages.
func (k PhaseKind) String() string {
	switch k {
	case PhaseRun:
		return "run"
	case PhaseRepeat:
		return "repeat"
	case PhaseUpperHalf:
		return "upperHalf"
	case PhaseLowerHalf:
		return "lowerHalf"
	default:
		return "unknown"
	}
}

// Scenario defines a complete experiment: a seeded bean population and an
// ordered list of phases to drive the machine through.
type Scenario struct {
	Name      string
	SlotCount int
	BeanCount int
	Mode      bean.Mode

	// Seed is the base random seed; bean i draws from its own source
	// seeded Seed+i, so scenarios are reproducible per bean.
	Seed int64

	Phases []PhaseKind
}

// Snapshot captures the observable machine state at one point in time.
type Snapshot struct {
	Remaining int
	InFlight  []int // column per row, -1 for empty rows
	Slots     []int
	SlotTotal int
	Average   float64
}

// InFlightCount returns the number of occupied in-flight rows.
func (s Snapshot) InFlightCount() int {
	n := 0
	for _, x := range s.InFlight {
		if x >= 0 {
			n++
		}
	}
	return n
}

// Total returns remaining + in-flight + slotted beans.
func (s Snapshot) Total() int {
	return s.Remaining + s.InFlightCount() + s.SlotTotal
}

// PhaseResult is the snapshot taken after one phase completed, plus the
// number of status-changing AdvanceStep calls for run phases.
type PhaseResult struct {
	Kind  PhaseKind
	Index int
	Steps int
	Snapshot
}

// Result captures the initial post-reset state and every phase outcome.
type Result struct {
	Initial Snapshot
	Phases  []PhaseResult
}
