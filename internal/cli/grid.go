package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/bastiangx/wordgrid/pkg/board"
	"github.com/bastiangx/wordgrid/pkg/index"
	"github.com/charmbracelet/lipgloss"
)

var (
	headerStyle  = lipgloss.NewStyle().Bold(true)
	gridStyle    = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	emptyStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	countStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	patternStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
)

// SlotReport is one slot with the number of dictionary words that fit it.
type SlotReport struct {
	Slot       board.Slot
	Pattern    string
	Candidates int
}

// Analyze queries the index once per slot of b.
func Analyze(b *board.Board, idx *index.Index) []SlotReport {
	slots := board.Extract(b)
	reports := make([]SlotReport, 0, len(slots))
	for _, s := range slots {
		pattern := s.Pattern(idx.Wildcard())
		reports = append(reports, SlotReport{
			Slot:       s,
			Pattern:    pattern,
			Candidates: idx.FindMatches(pattern).Len(),
		})
	}
	return reports
}

// PrintGrid writes the board followed by a table of its slots.
func PrintGrid(w io.Writer, b *board.Board, reports []SlotReport) {
	fmt.Fprintln(w, gridStyle.Render(strings.TrimRight(b.String(), "\n")))
	fmt.Fprintln(w, headerStyle.Render(fmt.Sprintf("%d slots", len(reports))))

	alphabet := b.Alphabet()
	for i, r := range reports {
		count := countStyle.Render(fmt.Sprint(r.Candidates))
		if r.Candidates == 0 {
			count = emptyStyle.Render("0")
		}
		fmt.Fprintf(w, "%3d. %-24s %s  %s\n",
			i+1, r.Slot, patternStyle.Render(alphabet.Decode(r.Pattern)), count)
	}
}
