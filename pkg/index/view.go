package index

import (
	"iter"
	"slices"
)

// View is a read-only window over one cached result list.
//
// It borrows the list from the index cache instead of copying it, so it stays
// valid until the index is reset, reloaded or shuffled. Views are cheap to
// copy and can be enumerated any number of times.
type View struct {
	ids []WordID
	idx *Index
}

// Len returns the number of matching words.
func (v View) Len() int {
	return len(v.ids)
}

// ID returns the identifier at position i.
func (v View) ID(i int) WordID {
	return v.ids[i]
}

// At returns the canonical word at position i.
func (v View) At(i int) string {
	return v.idx.table.Word(v.ids[i])
}

// Explain returns the explanation of the word at position i.
func (v View) Explain(i int) string {
	return v.idx.table.Explanation(v.At(i))
}

// Contains reports whether id is part of the view.
func (v View) Contains(id WordID) bool {
	return slices.Contains(v.ids, id)
}

// All yields every identifier with its canonical word, in stored order.
func (v View) All() iter.Seq2[WordID, string] {
	return func(yield func(WordID, string) bool) {
		for _, id := range v.ids {
			if !yield(id, v.idx.table.Word(id)) {
				return
			}
		}
	}
}

// Words resolves the whole view into a new slice.
func (v View) Words() []string {
	words := make([]string, 0, len(v.ids))
	for _, w := range v.All() {
		words = append(words, w)
	}
	return words
}
