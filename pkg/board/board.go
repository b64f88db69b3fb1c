// Package board parses crossword grids and extracts their fillable slots.
package board

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/bastiangx/wordgrid/pkg/normalize"
	"github.com/charmbracelet/log"
)

// DefaultBlocked is the cell byte that marks a blocked square.
const DefaultBlocked = '#'

// MaxSide is the largest row or column count the grid header can hold.
const MaxSide = 255

var (
	// ErrTruncated means a grid file ended before all declared cells were read.
	ErrTruncated = errors.New("grid file truncated")
	// ErrSize means a grid has ragged rows or does not fit the header.
	ErrSize = errors.New("invalid grid size")
	// ErrLengthMismatch means a word does not fit the slot it was written to.
	ErrLengthMismatch = errors.New("word length does not match slot")
)

// Options control how cell bytes are interpreted.
type Options struct {
	// Alphabet defaults to normalize.Latin.
	Alphabet *normalize.Alphabet
	// Blocked defaults to DefaultBlocked.
	Blocked byte
}

func (o Options) withDefaults() Options {
	if o.Alphabet == nil {
		o.Alphabet = normalize.Latin
	}
	if o.Blocked == 0 {
		o.Blocked = DefaultBlocked
	}
	return o
}

// Board is a rectangular grid of cells. A cell equal to the blocked byte is
// not part of any word; every other cell is open and either holds a letter or
// is still empty.
type Board struct {
	rows, cols int
	cells      [][]byte
	blocked    byte
	alphabet   *normalize.Alphabet
}

// Parse reads a binary grid: one byte of rows, one byte of columns, then the
// cells in row-major order. Each cell goes through the alphabet's cell remap.
func Parse(r io.Reader, opts Options) (*Board, error) {
	opts = opts.withDefaults()

	header := make([]byte, 2)
	if _, err := io.ReadFull(r, header); err != nil {
		return nil, fmt.Errorf("%w: reading header: %v", ErrTruncated, err)
	}
	rows, cols := int(header[0]), int(header[1])

	b := newBoard(rows, cols, opts)
	for i := 0; i < rows; i++ {
		if _, err := io.ReadFull(r, b.cells[i]); err != nil {
			return nil, fmt.Errorf("%w: row %d of %d: %v", ErrTruncated, i+1, rows, err)
		}
		for j := range b.cells[i] {
			b.cells[i][j] = opts.Alphabet.RemapCell(b.cells[i][j])
		}
	}

	log.Debugf("Parsed %dx%d grid", rows, cols)
	return b, nil
}

// Load opens path and parses it as a grid file.
func Load(path string, opts Options) (*Board, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open grid file %s: %w", path, err)
	}
	defer file.Close()

	b, err := Parse(file, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to parse grid file %s: %w", path, err)
	}
	return b, nil
}

// New builds a board from one string per row. Cell bytes are taken as is.
func New(rows []string, opts Options) (*Board, error) {
	opts = opts.withDefaults()
	if len(rows) > MaxSide {
		return nil, fmt.Errorf("%w: %d rows, at most %d", ErrSize, len(rows), MaxSide)
	}

	cols := 0
	if len(rows) > 0 {
		cols = len(rows[0])
	}
	if cols > MaxSide {
		return nil, fmt.Errorf("%w: %d columns, at most %d", ErrSize, cols, MaxSide)
	}

	b := newBoard(len(rows), cols, opts)
	for i, row := range rows {
		if len(row) != cols {
			return nil, fmt.Errorf("%w: row %d has %d cells, want %d", ErrSize, i, len(row), cols)
		}
		copy(b.cells[i], row)
	}
	return b, nil
}

func newBoard(rows, cols int, opts Options) *Board {
	cells := make([][]byte, rows)
	for i := range cells {
		cells[i] = make([]byte, cols)
	}
	return &Board{
		rows:     rows,
		cols:     cols,
		cells:    cells,
		blocked:  opts.Blocked,
		alphabet: opts.Alphabet,
	}
}

func (b *Board) Rows() int { return b.rows }
func (b *Board) Cols() int { return b.cols }

// Alphabet returns the alphabet letters are read with.
func (b *Board) Alphabet() *normalize.Alphabet {
	return b.alphabet
}

// At returns the raw cell byte.
func (b *Board) At(r, c int) byte {
	return b.cells[r][c]
}

// Set overwrites a cell.
func (b *Board) Set(r, c int, v byte) {
	b.cells[r][c] = v
}

// IsBlocked reports whether the cell is excluded from slots.
func (b *Board) IsBlocked(r, c int) bool {
	return b.cells[r][c] == b.blocked
}

// Letter returns the canonical letter of an open cell, or false when the
// cell is blocked or still empty.
func (b *Board) Letter(r, c int) (byte, bool) {
	v := b.cells[r][c]
	if v == b.blocked || !b.alphabet.IsAlphabetic(v) {
		return 0, false
	}
	return b.alphabet.ToCanonicalLetter(v), true
}

// id is the row-major linear id of a cell.
func (b *Board) id(r, c int) int {
	return r*b.cols + c
}

// WriteTo writes the board in the binary grid format Parse reads.
func (b *Board) WriteTo(w io.Writer) (int64, error) {
	if b.rows > MaxSide || b.cols > MaxSide {
		return 0, fmt.Errorf("%w: %dx%d", ErrSize, b.rows, b.cols)
	}

	n, err := w.Write([]byte{byte(b.rows), byte(b.cols)})
	total := int64(n)
	if err != nil {
		return total, err
	}
	for _, row := range b.cells {
		n, err = w.Write(row)
		total += int64(n)
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// String renders the board one row per line, blocked cells as '|' and empty
// cells as '.', with letters converted to UTF-8.
func (b *Board) String() string {
	var sb strings.Builder
	for i := 0; i < b.rows; i++ {
		cells := make([]string, b.cols)
		for j := 0; j < b.cols; j++ {
			switch letter, ok := b.Letter(i, j); {
			case b.IsBlocked(i, j):
				cells[j] = "|"
			case ok:
				cells[j] = b.alphabet.Decode(string(letter))
			default:
				cells[j] = "."
			}
		}
		sb.WriteString(strings.Join(cells, " "))
		sb.WriteByte('\n')
	}
	return sb.String()
}
