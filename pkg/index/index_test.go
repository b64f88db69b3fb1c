package index

import (
	"fmt"
	"math/rand/v2"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"testing"

	"github.com/bastiangx/wordgrid/pkg/normalize"
	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	log.SetLevel(log.ErrorLevel)
}

const testDict = "cat\tfeline\n" +
	"car\tvehicle\n" +
	"cot\tbed\n" +
	"dog\tcanine\n" +
	"at\tpreposition\n" +
	"tab\tkey\n" +
	"crate\tbox\n" +
	"grate\tfireplace part\n" +
	"abcdefgh\tlong one\n" +
	"abcdefgx\tlong two\n" +
	"abcdefxh\tlong three\n" +
	"zbcdefgh\tlong four\n"

func newTestIndex(t testing.TB, dict string, opts Options) *Index {
	t.Helper()
	if opts.Shuffler == nil {
		opts.Shuffler = rand.New(rand.NewPCG(42, 1024))
	}
	idx := New(opts)
	require.NoError(t, idx.LoadReader(strings.NewReader(dict)))
	return idx
}

func sorted(words []string) []string {
	out := slices.Clone(words)
	slices.Sort(out)
	return out
}

func TestFindMatchesExample(t *testing.T) {
	idx := newTestIndex(t, "CAT\tfeline\nCAR\tvehicle\n", Options{})

	view := idx.FindMatches("C?T")
	assert.Equal(t, []string{"CAT"}, view.Words())
	assert.Equal(t, "feline", view.Explain(0))
}

func TestFindMatches(t *testing.T) {
	idx := newTestIndex(t, testDict, Options{})

	tests := []struct {
		name    string
		pattern string
		want    []string
	}{
		{"single wildcard", "C?T", []string{"CAT", "COT"}},
		{"lowercase pattern", "c?t", []string{"CAT", "COT"}},
		{"prefix fixed", "CA?", []string{"CAR", "CAT"}},
		{"suffix fixed", "??T", []string{"CAT", "COT"}},
		{"all fixed", "DOG", []string{"DOG"}},
		{"no match", "X??", nil},
		{"two letters", "??", []string{"AT"}},
		{"five letters", "?RATE", []string{"CRATE", "GRATE"}},
		{"long tail only", "??????G?", []string{"ABCDEFGH", "ABCDEFGX", "ZBCDEFGH"}},
		{"long mixed", "ABCDEF?H", []string{"ABCDEFGH", "ABCDEFXH"}},
		{"long exact", "ABCDEFGX", []string{"ABCDEFGX"}},
		{"long first letter", "Z???????", []string{"ZBCDEFGH"}},
		{"longer than any word", "??????????????", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := idx.FindMatches(tt.pattern).Words()
			assert.Equal(t, tt.want, nilIfEmpty(sorted(got)))
		})
	}
}

func nilIfEmpty(s []string) []string {
	if len(s) == 0 {
		return nil
	}
	return s
}

func TestFindMatchesEmptyPattern(t *testing.T) {
	idx := newTestIndex(t, testDict, Options{})
	view := idx.FindMatches("")
	assert.Equal(t, 0, view.Len())
	assert.Empty(t, view.Words())
}

func TestEveryWordMatchesItself(t *testing.T) {
	idx := newTestIndex(t, testDict, Options{})

	for i := 0; i < idx.Len(); i++ {
		id := WordID(i)
		word := idx.Word(id)
		assert.Truef(t, idx.FindMatches(word).Contains(id), "word %s should match itself", word)
	}
}

func TestAllWildcardReturnsLengthSet(t *testing.T) {
	idx := newTestIndex(t, testDict, Options{})

	byLength := map[int][]string{}
	for i := 0; i < idx.Len(); i++ {
		w := idx.Word(WordID(i))
		byLength[len(w)] = append(byLength[len(w)], w)
	}

	for length, words := range byLength {
		t.Run(fmt.Sprintf("length_%d", length), func(t *testing.T) {
			got := idx.FindMatches(strings.Repeat("?", length)).Words()
			assert.ElementsMatch(t, words, got)
		})
	}
}

func TestFindMatchesIdempotent(t *testing.T) {
	idx := newTestIndex(t, testDict, Options{})

	first := idx.FindMatches("?A?").Words()
	second := idx.FindMatches("?A?").Words()
	assert.ElementsMatch(t, first, second)

	stats := idx.Stats()
	assert.Equal(t, 1, stats["cacheEntries"])
	assert.Equal(t, 1, stats["cacheHits"])
	assert.Equal(t, 1, stats["cacheMisses"])
}

func TestFindMatchesMonotonic(t *testing.T) {
	idx := newTestIndex(t, testDict, Options{})

	chains := [][]string{
		{"???", "C??", "C?T", "CAT"},
		{"?????", "??A??", "?RA??", "?RATE", "GRATE"},
		{"????????", "??????G?", "??????GH", "A?????GH", "ABCDEFGH"},
	}

	for _, chain := range chains {
		t.Run(chain[0], func(t *testing.T) {
			prev := idx.FindMatches(chain[0]).Words()
			for _, p := range chain[1:] {
				cur := idx.FindMatches(p).Words()
				assert.Subsetf(t, prev, cur, "%s should narrow its parent", p)
				prev = cur
			}
		})
	}
}

func TestDuplicateKeysFirstWins(t *testing.T) {
	dict := "cat\tfeline\nCAT\tsecond\nc-a-t\tthird\n123\tnumber\ndog\tcanine\n"
	idx := newTestIndex(t, dict, Options{})

	assert.Equal(t, 2, idx.Len())
	assert.Equal(t, "cat", idx.Surface("CAT"))
	assert.Equal(t, "feline", idx.Explanation("CAT"))
	assert.Equal(t, 1, idx.FindMatches("CAT").Len())
	assert.Equal(t, "", idx.Explanation("NOPE"))
	assert.Equal(t, "", idx.Surface("NOPE"))
}

func TestCapacityExceeded(t *testing.T) {
	idx := New(Options{MaxWords: 3, SkipShuffle: true})

	err := idx.LoadReader(strings.NewReader("one\t1\ntwo\t2\nsix\t6\nten\t10\n"))
	require.ErrorIs(t, err, ErrCapacityExceeded)
	assert.Equal(t, 0, idx.Len())
	assert.Equal(t, 0, idx.FindMatches("???").Len())
}

func TestCapacityExactlyAtLimit(t *testing.T) {
	idx := New(Options{MaxWords: 3, SkipShuffle: true})
	require.NoError(t, idx.LoadReader(strings.NewReader("one\t1\ntwo\t2\nsix\t6\none\tdup\n")))
	assert.Equal(t, 3, idx.Len())
}

func TestLoadMissingFileIsSoft(t *testing.T) {
	idx := newTestIndex(t, testDict, Options{})
	require.NotZero(t, idx.Len())

	err := idx.Load(filepath.Join(t.TempDir(), "missing.txt"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
	assert.Equal(t, 0, idx.Len())
	assert.Equal(t, 0, idx.FindMatches("C?T").Len())

	path := filepath.Join(t.TempDir(), "words.txt")
	require.NoError(t, os.WriteFile(path, []byte(testDict), 0o644))
	require.NoError(t, idx.Load(path))
	assert.ElementsMatch(t, []string{"CAT", "COT"}, idx.FindMatches("C?T").Words())
}

func TestReloadClearsCache(t *testing.T) {
	idx := newTestIndex(t, "cat\tfeline\n", Options{})
	assert.Equal(t, []string{"CAT"}, idx.FindMatches("C?T").Words())

	require.NoError(t, idx.LoadReader(strings.NewReader("cot\tbed\n")))
	assert.Equal(t, 0, idx.Stats()["cacheEntries"])
	assert.Equal(t, []string{"COT"}, idx.FindMatches("C?T").Words())
}

func TestReset(t *testing.T) {
	idx := newTestIndex(t, testDict, Options{})
	idx.FindMatches("???")
	idx.Reset()

	assert.Equal(t, 0, idx.Len())
	stats := idx.Stats()
	assert.Equal(t, 0, stats["buckets"])
	assert.Equal(t, 0, stats["cacheEntries"])
	assert.Equal(t, 0, idx.FindMatches("???").Len())
}

func TestShuffleKeepsMembership(t *testing.T) {
	idx := newTestIndex(t, testDict, Options{SkipShuffle: true})

	patterns := []string{"???", "C??", "?????", "????????", "??????G?"}
	before := make(map[string][]string, len(patterns))
	for _, p := range patterns {
		before[p] = idx.FindMatches(p).Words()
	}

	for i := 0; i < 5; i++ {
		idx.Shuffle()
		for _, p := range patterns {
			assert.ElementsMatch(t, before[p], idx.FindMatches(p).Words())
		}
	}
}

func TestShufflePermutesLargeBucket(t *testing.T) {
	var words []string
	var dict strings.Builder
	for a := 'A'; a <= 'Z'; a++ {
		w := string([]rune{a, 'A', 'T'})
		words = append(words, w)
		dict.WriteString(w + "\tx\n")
	}

	idx := newTestIndex(t, dict.String(), Options{})
	got := idx.FindMatches("?AT").Words()
	assert.ElementsMatch(t, words, got)
	assert.NotEqual(t, words, got, "26 words should not survive a shuffle in order")
}

func TestSkipShuffleKeepsInsertionOrder(t *testing.T) {
	idx := newTestIndex(t, "cot\tbed\ncat\tfeline\ncut\tslice\n", Options{SkipShuffle: true})
	assert.Equal(t, []string{"COT", "CAT", "CUT"}, idx.FindMatches("C?T").Words())
}

func TestViewIteration(t *testing.T) {
	idx := newTestIndex(t, testDict, Options{SkipShuffle: true})
	view := idx.FindMatches("C?T")

	var ids []WordID
	for id, word := range view.All() {
		ids = append(ids, id)
		assert.Equal(t, idx.Word(id), word)
	}
	require.Len(t, ids, view.Len())
	for i, id := range ids {
		assert.Equal(t, id, view.ID(i))
		assert.Equal(t, idx.Word(id), view.At(i))
	}

	// restartable
	assert.Equal(t, view.Words(), view.Words())

	for range view.All() {
		break
	}
}

func TestCyrillicIndex(t *testing.T) {
	cyr := normalize.Cyrillic
	dict := cyr.Encode("кот\tкошка\nкит\tживотное\nток\tэлектричество\n")
	idx := newTestIndex(t, dict, Options{Alphabet: cyr})

	got := idx.FindMatches(cyr.Encode("к?т")).Words()
	want := []string{cyr.Encode("КОТ"), cyr.Encode("КИТ")}
	assert.ElementsMatch(t, want, got)

	assert.Equal(t, "кошка", cyr.Decode(idx.Explanation(cyr.Encode("КОТ"))))
	assert.Equal(t, "кот", cyr.Decode(idx.Surface(cyr.Encode("КОТ"))))
}

func TestCustomWildcard(t *testing.T) {
	idx := newTestIndex(t, testDict, Options{Wildcard: '.'})
	assert.ElementsMatch(t, []string{"CAT", "COT"}, idx.FindMatches("C.T").Words())
	assert.Equal(t, byte('.'), idx.Wildcard())
	assert.Equal(t, 0, idx.FindMatches("C?T").Len())
}

func TestWithPrefix(t *testing.T) {
	idx := newTestIndex(t, testDict, Options{})
	assert.Equal(t, []string{"CAR", "CAT"}, idx.WithPrefix("ca", 0))
	assert.Equal(t, []string{"CAR"}, idx.WithPrefix("ca", 1))
	assert.Empty(t, idx.WithPrefix("Q", 10))
}

func TestSuggest(t *testing.T) {
	idx := newTestIndex(t, testDict, Options{})

	matches := idx.Suggest("cst", 1, 10)
	require.NotEmpty(t, matches)
	for _, m := range matches {
		assert.Equal(t, 1, m.Distance)
	}
	words := make([]string, 0, len(matches))
	for _, m := range matches {
		words = append(words, m.Word)
	}
	assert.Contains(t, words, "CAT")
	assert.Contains(t, words, "COT")
	assert.Equal(t, 3, EditDistance("KITTEN", "SITTING"))
}

func TestConcurrentQueries(t *testing.T) {
	idx := newTestIndex(t, testDict, Options{})
	patterns := []string{"???", "C??", "C?T", "?RATE", "??????G?", "??"}
	want := make(map[string][]string, len(patterns))
	for _, p := range patterns {
		want[p] = sorted(idx.FindMatches(p).Words())
	}
	idx.Reset()
	require.NoError(t, idx.LoadReader(strings.NewReader(testDict)))

	var wg sync.WaitGroup
	for w := 0; w < 8; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < 200; i++ {
				p := patterns[(w+i)%len(patterns)]
				assert.Equal(t, want[p], sorted(idx.FindMatches(p).Words()))
			}
		}(w)
	}
	wg.Wait()

	assert.Equal(t, len(patterns), idx.Stats()["cacheEntries"])
}

func TestPackKey(t *testing.T) {
	tests := []struct {
		name string
		mask uint32
		word string
		want uint64
	}{
		{"empty mask", 0, "CAT", 0},
		{"first letter", 0b001, "CAT", uint64('C')},
		{"last letter", 0b100, "CAT", uint64('T') << 16},
		{"beyond six ignored", 0xFF, "ABCDEFGH", 0x464544434241},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, packKey(tt.mask, tt.word))
		})
	}

	assert.Equal(t, uint32(8), subsetCount(3))
	assert.Equal(t, uint32(64), subsetCount(12))
	assert.Equal(t, uint32(0b101), patternMask("C?T", '?'))
	assert.Equal(t, patternMask("C?T", '?'), patternMask("C?T????G", '?'))
}

func BenchmarkLoad(b *testing.B) {
	dict := syntheticDict(20000)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		idx := New(Options{SkipShuffle: true})
		if err := idx.LoadReader(strings.NewReader(dict)); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkFindMatches(b *testing.B) {
	idx := newTestIndex(b, syntheticDict(20000), Options{})
	patterns := []string{"A??", "?B?C", "??C??", "A?????", "A??????B"}

	b.Run("cold", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			idx.FindMatches(patterns[i%len(patterns)])
			if i%len(patterns) == len(patterns)-1 {
				b.StopTimer()
				idx.mu.Lock()
				idx.cache.Reset()
				idx.mu.Unlock()
				b.StartTimer()
			}
		}
	})
	b.Run("cached", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			idx.FindMatches(patterns[i%len(patterns)])
		}
	})
}

func syntheticDict(n int) string {
	r := rand.New(rand.NewPCG(1, 2))
	var sb strings.Builder
	for i := 0; i < n; i++ {
		length := 3 + r.IntN(8)
		for j := 0; j < length; j++ {
			sb.WriteByte(byte('a' + r.IntN(26)))
		}
		sb.WriteString("\tgenerated\n")
	}
	return sb.String()
}
