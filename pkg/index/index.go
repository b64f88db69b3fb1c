/*
Package index answers crossword pattern queries against a dictionary.

A pattern is a string the length of a slot. Each byte is either a concrete
letter or the wildcard ('?' by default):

	idx := index.New(index.Options{})
	if err := idx.Load("words.txt"); err != nil {
		log.Warn(err)
	}
	view := idx.FindMatches("C?T")
	for id, word := range view.All() {
		...
	}

# Buckets

At load time every word of length L is registered under one packed key per
subset of its first min(L, 6) positions. The key holds the word's letters at
the subset's positions and zeroes elsewhere, one byte per position. For a
fixed length the bucket behind a key therefore already lists exactly the words
that agree with that partial assignment, and a query of up to six letters is a
single map lookup.

Longer patterns use the same lookup for their first six positions and then
verify every candidate against the rest.

# Cache

Every answer is cached under its pattern. The cache owns the result buffers;
FindMatches hands out Views that borrow them. Load, Reset and Shuffle
invalidate outstanding views.

# Capacity

Word identifiers are 16 bits wide. Loading more than MaxWords distinct words
fails with ErrCapacityExceeded rather than wrapping around.
*/
package index

import (
	"errors"
	"fmt"
	"io"
	"slices"
	"sync"

	"github.com/bastiangx/wordgrid/internal/logger"
	"github.com/bastiangx/wordgrid/pkg/dictionary"
	"github.com/bastiangx/wordgrid/pkg/fuzzy"
	"github.com/bastiangx/wordgrid/pkg/normalize"
	"github.com/charmbracelet/log"
	"lukechampine.com/frand"
)

// DefaultWildcard marks an unknown position in a pattern.
const DefaultWildcard = '?'

// MaxWords is the identifier capacity of an index.
const MaxWords = dictionary.MaxWords

// ErrCapacityExceeded is returned by Load when the dictionary holds more
// distinct words than the index can address.
var ErrCapacityExceeded = dictionary.ErrCapacityExceeded

// WordID identifies a loaded word.
type WordID = dictionary.WordID

// Shuffler permutes n elements through swap. Both *math/rand/v2.Rand and
// *frand.RNG satisfy it.
type Shuffler interface {
	Shuffle(n int, swap func(i, j int))
}

type frandShuffler struct{}

func (frandShuffler) Shuffle(n int, swap func(i, j int)) {
	frand.Shuffle(n, swap)
}

// Options configure an Index. The zero value is usable.
type Options struct {
	// Alphabet defaults to normalize.Latin.
	Alphabet *normalize.Alphabet
	// Wildcard defaults to DefaultWildcard.
	Wildcard byte
	// MaxWords caps the dictionary size below the MaxWords bound.
	MaxWords int
	// Shuffler defaults to frand.
	Shuffler Shuffler
	// SkipShuffle leaves buckets in insertion order after a load.
	SkipShuffle bool
	Logger      *log.Logger
}

// Index is a pattern-constrained word index with a results cache.
type Index struct {
	mu sync.RWMutex

	alphabet    *normalize.Alphabet
	wildcard    byte
	maxWords    int
	shuffler    Shuffler
	skipShuffle bool
	log         *log.Logger

	table   *dictionary.Table
	buckets map[int]map[uint64][]WordID
	cache   *Cache
}

// New creates an empty index.
func New(opts Options) *Index {
	if opts.Alphabet == nil {
		opts.Alphabet = normalize.Latin
	}
	if opts.Wildcard == 0 {
		opts.Wildcard = DefaultWildcard
	}
	if opts.Shuffler == nil {
		opts.Shuffler = frandShuffler{}
	}
	if opts.Logger == nil {
		opts.Logger = logger.New("index")
	}

	x := &Index{
		alphabet:    opts.Alphabet,
		wildcard:    opts.Wildcard,
		maxWords:    opts.MaxWords,
		shuffler:    opts.Shuffler,
		skipShuffle: opts.SkipShuffle,
		log:         opts.Logger,
		cache:       NewCache(),
	}
	x.reset()
	return x
}

// Alphabet returns the alphabet words are canonicalized with.
func (x *Index) Alphabet() *normalize.Alphabet {
	return x.alphabet
}

// Wildcard returns the byte that marks unknown pattern positions.
func (x *Index) Wildcard() byte {
	return x.wildcard
}

// Load replaces the index contents with the dictionary at path.
//
// When the file cannot be read the index is left empty but usable and the
// error is returned for the caller to report. ErrCapacityExceeded also leaves
// the index empty and should be treated as fatal.
func (x *Index) Load(path string) error {
	return x.load(path, func(fn dictionary.RecordFunc) error {
		return dictionary.ReadFile(path, fn)
	})
}

// LoadReader is Load for an already opened source.
func (x *Index) LoadReader(r io.Reader) error {
	return x.load("reader", func(fn dictionary.RecordFunc) error {
		return dictionary.ReadRecords(r, fn)
	})
}

func (x *Index) load(source string, read func(dictionary.RecordFunc) error) error {
	x.mu.Lock()
	defer x.mu.Unlock()

	x.reset()

	dropped := 0
	err := read(func(rec dictionary.Record) error {
		surface := x.alphabet.Remap(rec.Word)
		key := x.alphabet.Canonicalize(surface)

		id, added, err := x.table.Add(key, surface, x.alphabet.Remap(rec.Explanation))
		if err != nil {
			return err
		}
		if !added {
			dropped++
			log.Debugf("Skipping %q: duplicate or empty key %q", rec.Word, key)
			return nil
		}
		x.register(key, id)
		return nil
	})
	if err != nil {
		x.reset()
		if errors.Is(err, ErrCapacityExceeded) {
			x.log.Errorf("Dictionary %s is too large: %v", source, err)
		} else {
			x.log.Errorf("Could not load dictionary %s: %v", source, err)
		}
		return fmt.Errorf("load dictionary %s: %w", source, err)
	}

	x.log.Infof("Loaded %d words from %s", x.table.Len(), source)
	if dropped > 0 {
		x.log.Debugf("Dropped %d duplicate or empty entries", dropped)
	}

	if !x.skipShuffle {
		x.shuffle()
	}
	return nil
}

// register adds id to the bucket of every position subset of key.
func (x *Index) register(key string, id WordID) {
	byKey, ok := x.buckets[len(key)]
	if !ok {
		byKey = make(map[uint64][]WordID)
		x.buckets[len(key)] = byKey
	}
	for mask := uint32(0); mask < subsetCount(len(key)); mask++ {
		k := packKey(mask, key)
		byKey[k] = append(byKey[k], id)
	}
}

// Reset empties the index and its cache.
func (x *Index) Reset() {
	x.mu.Lock()
	defer x.mu.Unlock()
	x.reset()
}

func (x *Index) reset() {
	x.table = dictionary.NewTable(x.maxWords)
	x.buckets = make(map[int]map[uint64][]WordID)
	x.cache.Reset()
}

// Shuffle randomly reorders every bucket and every cached result. Membership
// never changes.
func (x *Index) Shuffle() {
	x.mu.Lock()
	defer x.mu.Unlock()
	x.shuffle()
}

func (x *Index) shuffle() {
	permute := func(ids []WordID) {
		x.shuffler.Shuffle(len(ids), func(i, j int) {
			ids[i], ids[j] = ids[j], ids[i]
		})
	}
	for _, byKey := range x.buckets {
		for _, ids := range byKey {
			permute(ids)
		}
	}
	x.cache.each(permute)
}

// FindMatches returns every word consistent with pattern. Concrete letters
// are canonicalized first, so "c?t" and "C?T" are the same query.
func (x *Index) FindMatches(pattern string) View {
	pattern = x.normalizePattern(pattern)
	if pattern == "" {
		return View{idx: x}
	}

	x.mu.RLock()
	ids, ok := x.cache.Get(pattern)
	x.mu.RUnlock()
	if ok {
		return View{ids: ids, idx: x}
	}

	x.mu.Lock()
	defer x.mu.Unlock()

	// Another writer may have filled it in between the locks.
	if ids, ok := x.cache.results[pattern]; ok {
		return View{ids: ids, idx: x}
	}

	ids = x.match(pattern)
	x.cache.Put(pattern, ids)
	return View{ids: ids, idx: x}
}

func (x *Index) normalizePattern(pattern string) string {
	buf := []byte(pattern)
	for i, b := range buf {
		if b != x.wildcard {
			buf[i] = x.alphabet.ToCanonicalLetter(b)
		}
	}
	return string(buf)
}

// match computes a fresh result buffer for a normalized pattern.
func (x *Index) match(pattern string) []WordID {
	mask := patternMask(pattern, x.wildcard)
	bucket := x.buckets[len(pattern)][packKey(mask, pattern)]

	if len(pattern) <= MaxFastLength {
		return slices.Clone(bucket)
	}

	filled := make([]int, 0, len(pattern))
	for i := 0; i < len(pattern); i++ {
		if pattern[i] != x.wildcard {
			filled = append(filled, i)
		}
	}

	out := make([]WordID, 0, len(bucket))
	for _, id := range bucket {
		if isPossible(pattern, x.table.Word(id), filled) {
			out = append(out, id)
		}
	}
	return out
}

// isPossible reports whether contender agrees with pattern at every filled position.
func isPossible(pattern, contender string, filled []int) bool {
	for _, i := range filled {
		if pattern[i] != contender[i] {
			return false
		}
	}
	return true
}

// Word resolves an identifier to its canonical key.
func (x *Index) Word(id WordID) string {
	x.mu.RLock()
	defer x.mu.RUnlock()
	return x.table.Word(id)
}

// Surface returns the original spelling of a canonical key.
func (x *Index) Surface(key string) string {
	x.mu.RLock()
	defer x.mu.RUnlock()
	return x.table.Surface(key)
}

// Explanation returns the gloss of a canonical key.
func (x *Index) Explanation(key string) string {
	x.mu.RLock()
	defer x.mu.RUnlock()
	return x.table.Explanation(key)
}

// Len returns the number of loaded words.
func (x *Index) Len() int {
	x.mu.RLock()
	defer x.mu.RUnlock()
	return x.table.Len()
}

// WithPrefix returns up to limit canonical words starting with prefix.
func (x *Index) WithPrefix(prefix string, limit int) []string {
	x.mu.RLock()
	defer x.mu.RUnlock()
	return x.table.WithPrefix(x.alphabet.Canonicalize(prefix), limit)
}

// Suggest returns loaded words within maxDistance edits of word.
func (x *Index) Suggest(word string, maxDistance, limit int) []fuzzy.Match {
	x.mu.RLock()
	defer x.mu.RUnlock()
	return fuzzy.NewMatcher(x.table.Words()).Suggest(x.alphabet.Canonicalize(word), maxDistance, limit)
}

// EditDistance is the Levenshtein distance between a and b.
func EditDistance(a, b string) int {
	return fuzzy.Distance(a, b)
}

// Stats returns counters describing the index and its cache.
func (x *Index) Stats() map[string]int {
	x.mu.RLock()
	defer x.mu.RUnlock()

	buckets := 0
	for _, byKey := range x.buckets {
		buckets += len(byKey)
	}
	stats := map[string]int{
		"totalWords": x.table.Len(),
		"maxWords":   x.table.Limit(),
		"lengths":    len(x.buckets),
		"buckets":    buckets,
	}
	for k, v := range x.cache.Stats() {
		stats[k] = v
	}
	return stats
}
