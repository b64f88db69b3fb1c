// Package cli handles interactive pattern queries and grid display for testing and debugging
package cli

import (
	"bufio"
	"io"
	"os"
	"strings"
	"time"

	"github.com/bastiangx/wordgrid/internal/utils"
	"github.com/bastiangx/wordgrid/pkg/index"
	"github.com/bastiangx/wordgrid/pkg/normalize"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
)

// Line prefixes that switch the query kind.
const (
	explainPrefix = '!'
	suggestPrefix = '~'
	prefixPrefix  = '^'
)

var wordStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("75"))

// InputHandler reads queries from stdin and prints the answers.
//
// A plain line is a slot pattern. "!word" explains a word, "~word" lists
// near matches and "^pre" lists words starting with pre.
type InputHandler struct {
	idx              *index.Index
	alphabet         *normalize.Alphabet
	limit            int
	maxPattern       int
	showExplanations bool

	in  io.Reader
	out *log.Logger
}

// NewInputHandler creates a handler reading from stdin and printing through
// the global logger.
func NewInputHandler(idx *index.Index, limit, maxPattern int, showExplanations bool) *InputHandler {
	return &InputHandler{
		idx:              idx,
		alphabet:         idx.Alphabet(),
		limit:            limit,
		maxPattern:       maxPattern,
		showExplanations: showExplanations,
		in:               os.Stdin,
		out:              log.Default(),
	}
}

// Start runs the prompt loop until input ends.
func (h *InputHandler) Start() error {
	h.out.Print("WordGrid CLI")
	h.out.Printf("type a pattern using %q for unknown letters and press Enter (Ctrl+C to exit):", h.idx.Wildcard())
	h.out.Print("  !word explains a word, ~word suggests near matches, ^pre lists words by prefix")

	reader := bufio.NewReader(h.in)
	for {
		h.out.Print("> ")
		line, err := reader.ReadString('\n')
		if line = strings.TrimSpace(line); line != "" {
			h.handleInput(line)
		}
		if err != nil {
			if err == io.EOF {
				return nil
			}
			return err
		}
	}
}

func (h *InputHandler) handleInput(line string) {
	switch rune(line[0]) {
	case explainPrefix:
		h.explain(line[1:])
	case suggestPrefix:
		h.suggest(line[1:])
	case prefixPrefix:
		h.prefix(line[1:])
	default:
		h.match(line)
	}
}

func (h *InputHandler) match(raw string) {
	pattern := utils.CleanPattern(raw)
	if err := utils.CheckPattern(pattern, rune(h.idx.Wildcard()), h.maxPattern); err != nil {
		log.Errorf("Invalid pattern '%s': %v", raw, err)
		return
	}
	if utils.IsOnlyWildcards(pattern, rune(h.idx.Wildcard())) {
		log.Debug("Pattern has no fixed letters, listing by length")
	}

	start := time.Now()
	view := h.idx.FindMatches(h.alphabet.Encode(pattern))
	log.Debugf("Took [ %v ] for pattern '%s'", time.Since(start), pattern)

	if view.Len() == 0 {
		h.out.Warnf("No words fit pattern: '%s'", pattern)
		return
	}

	h.out.Printf("Found %d words for pattern '%s':", view.Len(), pattern)
	for i := 0; i < min(view.Len(), h.limit); i++ {
		word := wordStyle.Render(h.alphabet.Decode(view.At(i)))
		if h.showExplanations {
			h.out.Printf("%2d. %-24s %s", i+1, word, h.alphabet.Decode(view.Explain(i)))
		} else {
			h.out.Printf("%2d. %s", i+1, word)
		}
	}
	if view.Len() > h.limit {
		h.out.Printf("... and %d more", view.Len()-h.limit)
	}
}

func (h *InputHandler) explain(raw string) {
	key := h.alphabet.Canonicalize(h.alphabet.Encode(raw))
	surface := h.idx.Surface(key)
	if surface == "" {
		h.out.Warnf("Not in dictionary: '%s'", strings.TrimSpace(raw))
		return
	}
	h.out.Printf("%s (%s): %s",
		wordStyle.Render(h.alphabet.Decode(key)),
		h.alphabet.Decode(surface),
		h.alphabet.Decode(h.idx.Explanation(key)))
}

func (h *InputHandler) suggest(raw string) {
	word := h.alphabet.Encode(strings.TrimSpace(raw))
	matches := h.idx.Suggest(word, 2, h.limit)
	if len(matches) == 0 {
		h.out.Warnf("No near matches for: '%s'", strings.TrimSpace(raw))
		return
	}
	for i, m := range matches {
		h.out.Printf("%2d. %-24s (distance: %d)", i+1, wordStyle.Render(h.alphabet.Decode(m.Word)), m.Distance)
	}
}

func (h *InputHandler) prefix(raw string) {
	words := h.idx.WithPrefix(h.alphabet.Encode(strings.TrimSpace(raw)), h.limit)
	if len(words) == 0 {
		h.out.Warnf("No words start with: '%s'", strings.TrimSpace(raw))
		return
	}
	for i, w := range words {
		h.out.Printf("%2d. %s", i+1, wordStyle.Render(h.alphabet.Decode(w)))
	}
}
