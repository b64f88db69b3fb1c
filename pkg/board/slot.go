package board

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/charmbracelet/log"
)

// Direction is the orientation of a slot, either Horizontal or Vertical.
type Direction int

const (
	Horizontal Direction = iota
	Vertical
)

func (d Direction) String() string {
	switch d {
	case Horizontal:
		return "horizontal"
	case Vertical:
		return "vertical"
	}
	return fmt.Sprintf("Direction(%d)", int(d))
}

// CellRef points at one board cell. ID is the row-major linear id, shared by
// every slot that crosses the cell.
type CellRef struct {
	Row, Col int
	ID       int
}

// MinSlotLength is the shortest run of open cells that forms a slot.
const MinSlotLength = 2

// Slot is a maximal run of open cells in one row or column. It references
// the board's cells rather than copying them, so a Fill through one slot is
// visible through every slot crossing it.
type Slot struct {
	Direction Direction
	Cells     []CellRef

	board *Board
}

func (s Slot) Len() int {
	return len(s.Cells)
}

// Start returns the first cell of the slot.
func (s Slot) Start() CellRef {
	return s.Cells[0]
}

// Pattern returns the slot's current letters with wildcard in every empty
// cell, ready for an index query.
func (s Slot) Pattern(wildcard byte) string {
	buf := make([]byte, len(s.Cells))
	for i, c := range s.Cells {
		if letter, ok := s.board.Letter(c.Row, c.Col); ok {
			buf[i] = letter
		} else {
			buf[i] = wildcard
		}
	}
	return string(buf)
}

// Word returns the slot's letters when every cell is filled.
func (s Slot) Word() (string, bool) {
	buf := make([]byte, len(s.Cells))
	for i, c := range s.Cells {
		letter, ok := s.board.Letter(c.Row, c.Col)
		if !ok {
			return "", false
		}
		buf[i] = letter
	}
	return string(buf), true
}

// Fill writes word into the slot's cells, one byte per cell.
func (s Slot) Fill(word string) error {
	if len(word) != len(s.Cells) {
		return fmt.Errorf("%w: %q into %s", ErrLengthMismatch, word, s)
	}
	for i, c := range s.Cells {
		s.board.Set(c.Row, c.Col, s.board.alphabet.ToCanonicalLetter(word[i]))
	}
	return nil
}

// Intersect returns the positions within s and other of their shared cell.
func (s Slot) Intersect(other Slot) (i, j int, ok bool) {
	for i, a := range s.Cells {
		for j, b := range other.Cells {
			if a.ID == b.ID {
				return i, j, true
			}
		}
	}
	return 0, 0, false
}

func (s Slot) String() string {
	start := s.Start()
	return fmt.Sprintf("%s@(%d,%d)/%d", s.Direction, start.Row, start.Col, s.Len())
}

// Extract finds every horizontal and vertical slot of b. Slots come back
// shortest first, horizontal before vertical among equals, then by the id of
// their first cell.
func Extract(b *Board) []Slot {
	var slots []Slot

	for i := 0; i < b.rows; i++ {
		for j := 0; j < b.cols; j++ {
			start := j
			for j < b.cols && !b.IsBlocked(i, j) {
				j++
			}
			if j-start < MinSlotLength {
				continue
			}
			slot := Slot{Direction: Horizontal, board: b}
			for c := start; c < j; c++ {
				slot.Cells = append(slot.Cells, CellRef{Row: i, Col: c, ID: b.id(i, c)})
			}
			slots = append(slots, slot)
		}
	}

	for j := 0; j < b.cols; j++ {
		for i := 0; i < b.rows; i++ {
			start := i
			for i < b.rows && !b.IsBlocked(i, j) {
				i++
			}
			if i-start < MinSlotLength {
				continue
			}
			slot := Slot{Direction: Vertical, board: b}
			for r := start; r < i; r++ {
				slot.Cells = append(slot.Cells, CellRef{Row: r, Col: j, ID: b.id(r, j)})
			}
			slots = append(slots, slot)
		}
	}

	slices.SortStableFunc(slots, compareSlots)
	log.Debugf("Extracted %d slots from %dx%d grid", len(slots), b.rows, b.cols)
	return slots
}

func compareSlots(a, b Slot) int {
	if c := cmp.Compare(a.Len(), b.Len()); c != 0 {
		return c
	}
	if c := cmp.Compare(a.Direction, b.Direction); c != 0 {
		return c
	}
	return cmp.Compare(a.Start().ID, b.Start().ID)
}

// Slots is Extract(b).
func (b *Board) Slots() []Slot {
	return Extract(b)
}
