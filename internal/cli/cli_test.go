package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/bastiangx/wordgrid/pkg/board"
	"github.com/bastiangx/wordgrid/pkg/index"
	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	log.SetLevel(log.ErrorLevel)
}

const testDict = "cat\tfeline\ncar\tvehicle\ncot\tbed\nat\tpreposition\ntab\tkey\n"

func newHandler(t *testing.T, input string) (*InputHandler, *bytes.Buffer) {
	t.Helper()
	idx := index.New(index.Options{SkipShuffle: true})
	require.NoError(t, idx.LoadReader(strings.NewReader(testDict)))

	var out bytes.Buffer
	h := NewInputHandler(idx, 10, 16, true)
	h.in = strings.NewReader(input)
	h.out = log.New(&out)
	return h, &out
}

func TestInputHandler(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
		not   []string
	}{
		{"pattern", "c?t\n", []string{"Found 2 words", "CAT", "feline", "COT"}, []string{"CAR"}},
		{"no match", "x?x\n", []string{"No words fit"}, nil},
		{"explain", "!cat\n", []string{"CAT", "feline"}, nil},
		{"explain missing", "!dog\n", []string{"Not in dictionary"}, nil},
		{"suggest", "~cst\n", []string{"CAT", "distance: 1"}, nil},
		{"prefix", "^ca\n", []string{"CAR", "CAT"}, []string{"COT"}},
		{"last line without newline", "c?t", []string{"Found 2 words"}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, out := newHandler(t, tt.input)
			require.NoError(t, h.Start())
			for _, w := range tt.want {
				assert.Contains(t, out.String(), w)
			}
			for _, n := range tt.not {
				assert.NotContains(t, out.String(), n)
			}
		})
	}
}

func TestAnalyzeAndPrintGrid(t *testing.T) {
	idx := index.New(index.Options{SkipShuffle: true})
	require.NoError(t, idx.LoadReader(strings.NewReader(testDict)))

	b, err := board.New([]string{
		"C..",
		"#.#",
		"...",
	}, board.Options{})
	require.NoError(t, err)

	reports := Analyze(b, idx)
	require.Len(t, reports, 3)

	byPattern := map[string]int{}
	for _, r := range reports {
		byPattern[r.Pattern] = r.Candidates
	}
	assert.Equal(t, 3, byPattern["C??"])
	assert.Equal(t, 4, byPattern["???"])

	var out bytes.Buffer
	PrintGrid(&out, b, reports)
	assert.Contains(t, out.String(), "3 slots")
	assert.Contains(t, out.String(), "C??")
}
