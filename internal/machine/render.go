package machine

import (
	"fmt"
	"strings"
)

// xspacing is the number of spaces between numbers when rendering the
// board. Keep it odd; even values misalign the triangle.
const xspacing = 3

// indent returns the leading indent for the peg row at yPos.
func (m *Machine) indent(yPos int) int {
	rootIndent := (m.slotCount-1)*(xspacing+1)/2 + (xspacing + 1)
	return rootIndent - (xspacing+1)/2*yPos
}

// SlotString renders the per-slot bean counts as fixed-width integers on a
// single line, aligned with the bottom row of String.
func (m *Machine) SlotString() string {
	var sb strings.Builder
	format := fmt.Sprintf("%%%dd", xspacing+1)
	for i := 0; i < m.slotCount; i++ {
		fmt.Fprintf(&sb, format, m.SlotBeanCount(i))
	}
	return sb.String()
}

// String renders the whole board: one line per peg row where a peg shows 1
// if an in-flight bean occupies it and 0 otherwise, indented to form a
// triangle, followed by the slot counts. Exact column widths are cosmetic
// only; this exists for the debug view.
func (m *Machine) String() string {
	var sb strings.Builder
	for yPos := 0; yPos < m.slotCount; yPos++ {
		xBeanPos := m.InFlightBeanXPos(yPos)
		for xPos := 0; xPos <= yPos; xPos++ {
			spacing := xspacing + 1
			if xPos == 0 {
				spacing = m.indent(yPos)
			}
			val := 0
			if xPos == xBeanPos {
				val = 1
			}
			fmt.Fprintf(&sb, fmt.Sprintf("%%%dd", spacing), val)
		}
		sb.WriteByte('\n')
	}
	sb.WriteString(m.SlotString())
	return sb.String()
}
