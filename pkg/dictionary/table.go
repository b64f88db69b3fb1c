package dictionary

import (
	"errors"
	"fmt"
	"slices"

	"github.com/tchap/go-patricia/v2/patricia"
)

// MaxWords is the number of distinct identifiers a WordID can address.
const MaxWords = 1 << 16

// ErrCapacityExceeded is returned when a table would need more identifiers
// than it was created with.
var ErrCapacityExceeded = errors.New("dictionary capacity exceeded")

// WordID identifies a word in insertion order.
type WordID uint16

// Entry is a single canonical dictionary word.
type Entry struct {
	ID          WordID
	Key         string
	Surface     string
	Explanation string
}

// Table maps identifiers to canonical keys and keys to their entries.
// The first entry added for a key wins; later ones are rejected.
type Table struct {
	words []string
	trie  *patricia.Trie
	limit int
}

// NewTable creates an empty table holding at most limit words. A limit of
// zero or above MaxWords is clamped to MaxWords.
func NewTable(limit int) *Table {
	if limit <= 0 || limit > MaxWords {
		limit = MaxWords
	}
	return &Table{
		trie:  patricia.NewTrie(),
		limit: limit,
	}
}

// Add registers a new canonical key. It returns the assigned identifier and
// true, or false when the key is empty or already present.
func (t *Table) Add(key, surface, explanation string) (WordID, bool, error) {
	if key == "" {
		return 0, false, nil
	}
	if t.trie.Match(patricia.Prefix(key)) {
		return 0, false, nil
	}
	if len(t.words) >= t.limit {
		return 0, false, fmt.Errorf("%w: word %q would be number %d, limit is %d",
			ErrCapacityExceeded, key, len(t.words)+1, t.limit)
	}

	id := WordID(len(t.words))
	t.trie.Insert(patricia.Prefix(key), &Entry{
		ID:          id,
		Key:         key,
		Surface:     surface,
		Explanation: explanation,
	})
	t.words = append(t.words, key)
	return id, true, nil
}

// Len returns the number of words in the table.
func (t *Table) Len() int {
	return len(t.words)
}

// Limit returns the capacity the table was created with.
func (t *Table) Limit() int {
	return t.limit
}

// Word resolves an identifier to its canonical key.
func (t *Table) Word(id WordID) string {
	if int(id) >= len(t.words) {
		return ""
	}
	return t.words[id]
}

// Lookup returns the entry stored for key.
func (t *Table) Lookup(key string) (*Entry, bool) {
	item := t.trie.Get(patricia.Prefix(key))
	if item == nil {
		return nil, false
	}
	e, ok := item.(*Entry)
	return e, ok
}

// Surface returns the original spelling of key, or "" if it is unknown.
func (t *Table) Surface(key string) string {
	if e, ok := t.Lookup(key); ok {
		return e.Surface
	}
	return ""
}

// Explanation returns the gloss of key, or "" if it is unknown.
func (t *Table) Explanation(key string) string {
	if e, ok := t.Lookup(key); ok {
		return e.Explanation
	}
	return ""
}

// WithPrefix returns up to limit keys starting with prefix, sorted.
// A limit below one returns every match.
func (t *Table) WithPrefix(prefix string, limit int) []string {
	var keys []string
	_ = t.trie.VisitSubtree(patricia.Prefix(prefix), func(p patricia.Prefix, item patricia.Item) error {
		keys = append(keys, string(p))
		return nil
	})
	slices.Sort(keys)
	if limit > 0 && len(keys) > limit {
		keys = keys[:limit]
	}
	return keys
}

// Words returns the canonical keys in identifier order. The slice is shared
// with the table and must not be modified.
func (t *Table) Words() []string {
	return t.words
}
