// Package fuzzy provides edit distance and near-match suggestions over a word list.
package fuzzy

import (
	"cmp"
	"slices"
	"strings"
)

// Distance returns the Levenshtein distance between a and b, compared byte by
// byte. Insertion, deletion and substitution each cost one.
func Distance(a, b string) int {
	dp := make([][]int, len(a)+1)
	for i := range dp {
		dp[i] = make([]int, len(b)+1)
	}

	for i := 0; i <= len(a); i++ {
		for j := 0; j <= len(b); j++ {
			switch {
			case i == 0:
				dp[i][j] = j
			case j == 0:
				dp[i][j] = i
			default:
				cost := 1
				if a[i-1] == b[j-1] {
					cost = 0
				}
				dp[i][j] = min(dp[i-1][j]+1, dp[i][j-1]+1, dp[i-1][j-1]+cost)
			}
		}
	}
	return dp[len(a)][len(b)]
}

// Match is a candidate word and its distance to the input.
type Match struct {
	Word     string
	Distance int
}

// Matcher handles approximate matching against a fixed candidate list
type Matcher struct {
	words []string
}

// NewMatcher creates a matcher over words. The slice is not copied.
func NewMatcher(words []string) *Matcher {
	return &Matcher{words: words}
}

// Suggest returns up to limit candidates within maxDistance of input, closest
// first and alphabetical among equals. The input itself is never suggested.
// A limit below one returns every match.
func (m *Matcher) Suggest(input string, maxDistance, limit int) []Match {
	if len(input) == 0 || maxDistance < 0 {
		return nil
	}

	seen := newSeenFilter(input)
	var matches []Match
	for _, candidate := range m.words {
		if abs(len(candidate)-len(input)) > maxDistance {
			continue
		}
		d := Distance(input, candidate)
		if d > maxDistance || !seen.shouldInclude(candidate) {
			continue
		}
		matches = append(matches, Match{Word: candidate, Distance: d})
	}

	slices.SortFunc(matches, func(a, b Match) int {
		if c := cmp.Compare(a.Distance, b.Distance); c != 0 {
			return c
		}
		return strings.Compare(a.Word, b.Word)
	})

	if limit > 0 && len(matches) > limit {
		matches = matches[:limit]
	}
	return matches
}

// Correct returns the closest candidate to input and true, or input and
// false when input is already a candidate or nothing is close enough.
func (m *Matcher) Correct(input string, maxDistance int) (string, bool) {
	// For very short inputs, don't attempt correction
	if len(input) < 2 {
		return input, false
	}
	if slices.Contains(m.words, input) {
		return input, false
	}

	best := m.Suggest(input, maxDistance, 1)
	if len(best) == 0 {
		return input, false
	}
	return best[0].Word, true
}

// seenFilter drops duplicate candidates and the input word.
type seenFilter struct {
	seen map[string]bool
}

func newSeenFilter(input string) *seenFilter {
	return &seenFilter{seen: map[string]bool{input: true}}
}

func (f *seenFilter) shouldInclude(word string) bool {
	if f.seen[word] {
		return false
	}
	f.seen[word] = true
	return true
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
