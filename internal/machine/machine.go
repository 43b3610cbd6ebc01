// Package machine implements the Galton box simulation engine.
//
// The machine owns the peg grid state: a queue of beans waiting to drop,
// an in-flight array indexed by row, and per-slot occupancy counts at the
// bottom. Coordinates are logical: row y has columns 0..y, and a bean at
// (x, y) falls to (x, y+1) or (x+1, y+1) on the next step. For a 4-slot
// machine:
//
//	                 (0, 0)
//	          (0, 1)        (1, 1)
//	   (0, 2)        (1, 2)        (2, 2)
//	(0, 3)     (1, 3)       (2, 3)       (3, 3)
//	[Slot0]    [Slot1]      [Slot2]      [Slot3]
//
// The machine moves through one experiment as: Reset loads beans and arms
// the first one at the top; repeated AdvanceStep calls drain the pipeline
// until a call reports no change; at that terminal point Repeat, UpperHalf
// and LowerHalf rearrange the finished run. A single driver calls these
// sequentially; the machine is not safe for concurrent use.
package machine

import (
	"fmt"
	"sort"
)

// NoBeanInYPos is returned by InFlightBeanXPos for rows with no bean.
const NoBeanInYPos = -1

// Bean is the capability set the machine needs from a bean. *bean.Bean
// satisfies it.
type Bean interface {
	// Choose advances the bean's column choice for the next row.
	Choose()
	// XPos reports the bean's current column.
	XPos() int
	// Reset returns the bean to its initial column.
	Reset()
}

// Machine is the bean counter. Construct with New; the zero value has no
// slots and is not usable.
type Machine struct {
	slotCount      int
	beanCount      int
	beansRemaining int
	sum            float64

	beans    []Bean // loaded arena, dequeue order; rebuilt by Repeat
	inFlight []Bean // indexed by row, nil = empty
	inSlot   []Bean // beans resting in slots, arrival order
	slots    []int  // per-slot occupancy
}

// New creates a machine with the given number of terminal slots. The slot
// count also fixes the number of peg rows.
func New(slotCount int) (*Machine, error) {
	if slotCount < 1 {
		return nil, fmt.Errorf("slot count must be positive, got %d", slotCount)
	}
	return &Machine{
		slotCount: slotCount,
		inFlight:  make([]Bean, slotCount),
		slots:     make([]int, slotCount),
	}, nil
}

// SlotCount returns the number of slots the machine was created with.
func (m *Machine) SlotCount() int {
	return m.slotCount
}

// RemainingBeanCount returns the number of beans waiting to drop.
func (m *Machine) RemainingBeanCount() int {
	return m.beansRemaining
}

// InFlightBeanXPos returns the column of the in-flight bean at row yPos,
// or NoBeanInYPos if the row is empty or out of range.
func (m *Machine) InFlightBeanXPos(yPos int) int {
	if yPos < 0 || yPos >= m.slotCount || m.inFlight[yPos] == nil {
		return NoBeanInYPos
	}
	return m.inFlight[yPos].XPos()
}

// SlotBeanCount returns the number of beans resting in slot i, or -1 if i
// is out of range.
func (m *Machine) SlotBeanCount(i int) int {
	if i < 0 || i >= m.slotCount {
		return -1
	}
	return m.slots[i]
}

// AverageSlotBeanCount returns the mean slot index weighted by occupancy,
// or 0 if no beans are loaded or none are in slots.
func (m *Machine) AverageSlotBeanCount() float64 {
	inSlotCount := 0
	for i := 0; i < m.slotCount; i++ {
		inSlotCount += m.slots[i]
	}
	if m.beanCount == 0 || inSlotCount == 0 {
		return 0
	}
	return m.sum / float64(inSlotCount)
}

// Reset hard-resets the machine with a new bean collection. All beans are
// returned to their initial column, bookkeeping is zeroed, and if any beans
// were given the first is armed at the top row with the rest waiting.
func (m *Machine) Reset(beans []Bean) {
	m.beans = make([]Bean, len(beans))
	copy(m.beans, beans)
	m.beanCount = len(beans)
	m.inSlot = m.inSlot[:0]
	m.sum = 0

	for _, b := range m.beans {
		if b != nil {
			b.Reset()
		}
	}

	if m.beanCount > 0 {
		m.beansRemaining = m.beanCount - 1
	} else {
		m.beansRemaining = 0
	}

	for i := range m.inFlight {
		m.inFlight[i] = nil
	}
	if m.beanCount > 0 {
		m.inFlight[0] = m.beans[0]
	}

	for i := range m.slots {
		m.slots[i] = 0
	}
}

// AdvanceStep advances the simulation one tick: a bean on the deepest row
// is deposited into its slot, every other in-flight bean chooses a
// direction and falls one row, and the next waiting bean (if any) is armed
// at the top. It returns whether anything changed; false means the machine
// is quiescent and the driver must stop calling.
func (m *Machine) AdvanceStep() bool {
	statusChange := false

	if bottom := m.inFlight[m.slotCount-1]; bottom != nil {
		statusChange = true
		m.slots[bottom.XPos()]++
		m.inSlot = append(m.inSlot, bottom)
		m.sum += float64(bottom.XPos())
	}

	for i := m.slotCount - 1; i > 0; i-- {
		if b := m.inFlight[i-1]; b != nil {
			statusChange = true
			b.Choose()
			m.inFlight[i] = b
		} else {
			m.inFlight[i] = nil
		}
	}

	if next := m.nextBean(); next != nil {
		statusChange = true
		m.inFlight[0] = next
	} else {
		m.inFlight[0] = nil
	}

	return statusChange
}

// nextBean dequeues the next waiting bean from the loaded arena, or nil if
// none remain. The dequeue index is derived from the remaining count so
// Repeat can reuse the same mechanism to drain the queue.
func (m *Machine) nextBean() Bean {
	nextIndex := m.beanCount - m.beansRemaining
	if m.beansRemaining > 0 {
		m.beansRemaining--
	}
	if nextIndex < m.beanCount {
		return m.beans[nextIndex]
	}
	return nil
}

// Repeat recycles every bean back into the waiting queue and re-arms the
// machine for another run. The new dequeue order is: beans in slots, then
// beans in flight, then beans that were still waiting, each group in
// reverse index order. Skill beans keep their target column across
// Repeat, so a skill-mode experiment reproduces its slot distribution
// exactly on every trial.
func (m *Machine) Repeat() {
	m.sum = 0
	for _, b := range m.beans {
		if b != nil {
			b.Reset()
		}
	}

	var remaining []Bean
	for m.beansRemaining > 0 {
		if b := m.nextBean(); b != nil {
			remaining = append(remaining, b)
		}
	}

	// Rebuild the arena in place; beanCount doubles as the write cursor.
	m.beanCount = 0

	for i := len(m.inSlot) - 1; i >= 0; i-- {
		m.beans[m.beanCount] = m.inSlot[i]
		m.beanCount++
	}
	m.inSlot = m.inSlot[:0]

	for i := len(m.inFlight) - 1; i >= 0; i-- {
		if m.inFlight[i] != nil {
			m.beans[m.beanCount] = m.inFlight[i]
			m.beanCount++
		}
	}

	for i := len(remaining) - 1; i >= 0; i-- {
		m.beans[m.beanCount] = remaining[i]
		m.beanCount++
	}

	if m.beanCount > 0 {
		m.beansRemaining = m.beanCount - 1
	} else {
		m.beansRemaining = 0
	}

	for i := range m.inFlight {
		m.inFlight[i] = nil
	}
	if m.beanCount > 0 {
		m.inFlight[0] = m.beans[0]
	}

	for i := range m.slots {
		m.slots[i] = 0
	}
}

// UpperHalf removes the lower half of the beans resting in slots, keeping
// the upper half. An odd total removes (N-1)/2 beans, so the larger half
// survives either way. Removed beans are reset and taken out of the run.
func (m *Machine) UpperHalf() {
	m.removeHalf(false)
}

// LowerHalf removes the upper half of the beans resting in slots, keeping
// the lower half. An odd total removes (N-1)/2 beans, so the larger half
// survives either way. Removed beans are reset and taken out of the run.
func (m *Machine) LowerHalf() {
	m.removeHalf(true)
}

// removeHalf drops floor(N/2) in-slot beans: the largest columns when
// fromTop is true (LowerHalf), the smallest otherwise (UpperHalf). Ties
// keep their arrival order, so the sort must be stable.
func (m *Machine) removeHalf(fromTop bool) {
	halfToRemove := len(m.inSlot) / 2

	sortBeansByXPos(m.inSlot)

	for ; halfToRemove > 0; halfToRemove-- {
		var b Bean
		if fromTop {
			b = m.inSlot[len(m.inSlot)-1]
			m.inSlot = m.inSlot[:len(m.inSlot)-1]
		} else {
			b = m.inSlot[0]
			m.inSlot = m.inSlot[1:]
		}
		m.slots[b.XPos()]--
		m.sum -= float64(b.XPos())
		b.Reset()
	}
}

// sortBeansByXPos sorts beans by ascending column, keeping the original
// order between equal columns.
func sortBeansByXPos(beans []Bean) {
	sort.SliceStable(beans, func(i, j int) bool {
		return beans[i].XPos() < beans[j].XPos()
	})
}
