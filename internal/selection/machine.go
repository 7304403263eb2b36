// Package selection implements the modal cursor and range selection over the flattened list.
package selection

import "sort"

// Mode is the editing mode of the machine.
type Mode int

const (
	// Normal moves a single cursor.
	Normal Mode = iota
	// Visual selects the rows between the anchor and the cursor.
	Visual
	// VisualLine starts by selecting every row from the anchor to the end of the list.
	VisualLine
)

const (
	normalLabel     = "NORMAL"
	visualLabel     = "VISUAL"
	visualLineLabel = "V-LINE"
	noAnchor        = -1
)

// String returns the status line label of the mode.
func (mode Mode) String() string {
	switch mode {
	case Visual:
		return visualLabel
	case VisualLine:
		return visualLineLabel
	default:
		return normalLabel
	}
}

// Machine tracks cursor, mode, anchor and selection over a list of rows.
// The cursor is always within [0, length) when the list is non-empty and 0
// when it is empty. In the visual modes the selection is the inclusive range
// between anchor and cursor, except right after VisualLine is entered when it
// extends from the anchor to the last row.
type Machine struct {
	length     int
	cursor     int
	mode       Mode
	anchor     int
	belowRange bool
	selected   map[int]struct{}
}

// New returns a machine in its initial state over an empty list.
func New() *Machine {
	return &Machine{anchor: noAnchor, selected: make(map[int]struct{})}
}

// Len returns the number of rows the machine spans.
func (machine *Machine) Len() int { return machine.length }

// Cursor returns the cursor row.
func (machine *Machine) Cursor() int { return machine.cursor }

// Mode returns the current mode.
func (machine *Machine) Mode() Mode { return machine.mode }

// Anchor returns the anchor row and whether one is set.
func (machine *Machine) Anchor() (int, bool) {
	return machine.anchor, machine.anchor != noAnchor
}

// IsSelected reports whether row index is part of the selection.
func (machine *Machine) IsSelected(index int) bool {
	_, selected := machine.selected[index]
	return selected
}

// Selection returns the selected rows in ascending order.
func (machine *Machine) Selection() []int {
	rows := make([]int, 0, len(machine.selected))
	for index := range machine.selected {
		rows = append(rows, index)
	}
	sort.Ints(rows)
	return rows
}

// Targets returns the rows an action applies to: the selection in the visual
// modes, the cursor row in Normal mode, nothing for an empty list.
func (machine *Machine) Targets() []int {
	if machine.length == 0 {
		return nil
	}
	if machine.mode == Normal {
		return []int{machine.cursor}
	}
	return machine.Selection()
}

// MoveDown advances the cursor one row, stopping at the last row.
func (machine *Machine) MoveDown() { machine.moveCursor(machine.cursor + 1) }

// MoveUp moves the cursor back one row, stopping at the first row.
func (machine *Machine) MoveUp() { machine.moveCursor(machine.cursor - 1) }

// JumpFirst moves the cursor to the first row.
func (machine *Machine) JumpFirst() { machine.moveCursor(0) }

// JumpLast moves the cursor to the last row.
func (machine *Machine) JumpLast() { machine.moveCursor(machine.length - 1) }

// MoveTo places the cursor on index, clamped to the list.
func (machine *Machine) MoveTo(index int) { machine.moveCursor(index) }

func (machine *Machine) moveCursor(index int) {
	if machine.length == 0 {
		return
	}
	machine.cursor = clamp(index, machine.length)
	machine.belowRange = false
	machine.recompute()
}

// EnterVisual starts a range selection at the cursor. No-op in the visual modes
// and on an empty list.
func (machine *Machine) EnterVisual() {
	if machine.length == 0 || machine.mode != Normal {
		return
	}
	machine.mode = Visual
	machine.anchor = machine.cursor
	machine.belowRange = false
	machine.recompute()
}

// EnterVisualLine anchors at the cursor and selects every row from there to
// the end of the list. From Visual it switches sub-mode the same way.
func (machine *Machine) EnterVisualLine() {
	if machine.length == 0 {
		return
	}
	machine.mode = VisualLine
	machine.anchor = machine.cursor
	machine.belowRange = true
	machine.recompute()
}

// Escape leaves the visual modes, clearing selection and anchor.
func (machine *Machine) Escape() {
	if machine.mode == Normal {
		return
	}
	machine.toNormal()
}

// Finish returns to Normal mode after an action such as yank or delete. The cursor stays.
func (machine *Machine) Finish() {
	machine.toNormal()
}

// Reset returns the machine to its initial state over an empty list.
func (machine *Machine) Reset() {
	machine.length = 0
	machine.cursor = 0
	machine.toNormal()
}

// SetLength changes the row count, clamping cursor and anchor.
func (machine *Machine) SetLength(length int) {
	anchor, hasAnchor := machine.Anchor()
	machine.Resync(length, machine.cursor, anchor, hasAnchor)
}

// Resync installs a new row count and the re-resolved cursor and anchor after
// the list changed underneath the machine. An empty list clears everything.
func (machine *Machine) Resync(length int, cursor int, anchor int, hasAnchor bool) {
	if length <= 0 {
		machine.Reset()
		return
	}
	machine.length = length
	machine.cursor = clamp(cursor, length)
	if machine.mode == Normal {
		return
	}
	if !hasAnchor {
		anchor = machine.cursor
	}
	machine.anchor = clamp(anchor, length)
	machine.recompute()
}

func (machine *Machine) toNormal() {
	machine.mode = Normal
	machine.anchor = noAnchor
	machine.belowRange = false
	machine.selected = make(map[int]struct{})
}

func (machine *Machine) recompute() {
	if machine.mode == Normal {
		return
	}
	first, last := machine.anchor, machine.cursor
	if machine.belowRange {
		last = machine.length - 1
	}
	if first > last {
		first, last = last, first
	}
	machine.selected = make(map[int]struct{}, last-first+1)
	for index := first; index <= last; index++ {
		machine.selected[index] = struct{}{}
	}
}

func clamp(index int, length int) int {
	if index < 0 {
		return 0
	}
	if index > length-1 {
		return length - 1
	}
	return index
}
