package server

import (
	"bytes"
	"strings"
	"testing"

	"github.com/bastiangx/wordgrid/pkg/config"
	"github.com/bastiangx/wordgrid/pkg/index"
	"github.com/bastiangx/wordgrid/pkg/normalize"
	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmihailenco/msgpack/v5"
)

func init() {
	log.SetLevel(log.ErrorLevel)
}

const testDict = "cat\tfeline\ncar\tvehicle\ncot\tbed\ncart\twagon\ncast\tactors\n"

func newTestIndex(t *testing.T, alphabet *normalize.Alphabet, dict string) *index.Index {
	t.Helper()
	idx := index.New(index.Options{Alphabet: alphabet, SkipShuffle: true})
	require.NoError(t, idx.LoadReader(strings.NewReader(dict)))
	return idx
}

// exchange runs the server over the given requests and returns a decoder
// positioned after the ready message.
func exchange(t *testing.T, idx *index.Index, cfg *config.Config, requests ...any) *msgpack.Decoder {
	t.Helper()
	var in, out bytes.Buffer
	enc := msgpack.NewEncoder(&in)
	for _, r := range requests {
		require.NoError(t, enc.Encode(r))
	}

	require.NoError(t, NewServer(idx, cfg, &in, &out).Start())

	dec := msgpack.NewDecoder(&out)
	var ready StatusResponse
	require.NoError(t, dec.Decode(&ready))
	assert.Equal(t, "ready", ready.Status)
	return dec
}

func TestMatch(t *testing.T) {
	idx := newTestIndex(t, normalize.Latin, testDict)
	dec := exchange(t, idx, nil,
		Request{ID: "1", Action: ActionMatch, Pattern: "c?t", Explain: true},
		Request{ID: "2", Pattern: "CA??", Limit: 1},
	)

	var first MatchResponse
	require.NoError(t, dec.Decode(&first))
	assert.Equal(t, "1", first.ID)
	assert.Equal(t, "C?T", first.Pattern)
	assert.Equal(t, 2, first.Count)
	assert.ElementsMatch(t, []Candidate{
		{Word: "CAT", Explanation: "feline"},
		{Word: "COT", Explanation: "bed"},
	}, first.Candidates)

	var second MatchResponse
	require.NoError(t, dec.Decode(&second))
	assert.Equal(t, "2", second.ID)
	assert.Equal(t, 2, second.Count)
	require.Len(t, second.Candidates, 1)
	assert.Empty(t, second.Candidates[0].Explanation)
}

func TestMatchRejectsBadPatterns(t *testing.T) {
	idx := newTestIndex(t, normalize.Latin, testDict)
	cfg := config.DefaultConfig()
	cfg.Server.MaxPattern = 4

	dec := exchange(t, idx, cfg,
		Request{ID: "empty", Pattern: "  "},
		Request{ID: "long", Pattern: "?????"},
		Request{ID: "chars", Pattern: "c4t"},
	)

	for _, id := range []string{"empty", "long", "chars"} {
		var resp ErrorResponse
		require.NoError(t, dec.Decode(&resp))
		assert.Equal(t, id, resp.ID)
		assert.Equal(t, 400, resp.Code)
		assert.NotEmpty(t, resp.Error)
	}
}

func TestExplainPrefixSuggestDistance(t *testing.T) {
	idx := newTestIndex(t, normalize.Latin, testDict)
	dec := exchange(t, idx, nil,
		Request{ID: "e", Action: ActionExplain, Word: "Cat"},
		Request{ID: "e2", Action: ActionExplain, Word: "dog"},
		Request{ID: "p", Action: ActionPrefix, Pattern: "ca"},
		Request{ID: "s", Action: ActionSuggest, Word: "cst", MaxDistance: 1},
		Request{ID: "d", Action: ActionDistance, Word: "kitten", Other: "sitting"},
	)

	var explain ExplainResponse
	require.NoError(t, dec.Decode(&explain))
	assert.Equal(t, ExplainResponse{ID: "e", Word: "CAT", Surface: "cat", Explanation: "feline", Found: true}, explain)

	var missing ExplainResponse
	require.NoError(t, dec.Decode(&missing))
	assert.False(t, missing.Found)

	var prefix PrefixResponse
	require.NoError(t, dec.Decode(&prefix))
	assert.Equal(t, []string{"CAR", "CART", "CAST", "CAT"}, prefix.Words)
	assert.Equal(t, 4, prefix.Count)

	var suggest SuggestResponse
	require.NoError(t, dec.Decode(&suggest))
	assert.Equal(t, []Suggestion{
		{Word: "CAST", Distance: 1},
		{Word: "CAT", Distance: 1},
		{Word: "COT", Distance: 1},
	}, suggest.Suggestions)

	var distance DistanceResponse
	require.NoError(t, dec.Decode(&distance))
	assert.Equal(t, 3, distance.Distance)
}

func TestStatsHealthAndUnknown(t *testing.T) {
	idx := newTestIndex(t, normalize.Latin, testDict)
	dec := exchange(t, idx, nil,
		Request{ID: "m", Pattern: "???"},
		Request{ID: "st", Action: ActionStats},
		Request{ID: "h", Action: ActionHealth},
		Request{ID: "u", Action: "fill"},
	)

	var match MatchResponse
	require.NoError(t, dec.Decode(&match))
	assert.Equal(t, 3, match.Count)

	var stats StatsResponse
	require.NoError(t, dec.Decode(&stats))
	assert.Equal(t, 5, stats.Stats["totalWords"])
	assert.Equal(t, 1, stats.Stats["cacheEntries"])

	var health StatusResponse
	require.NoError(t, dec.Decode(&health))
	assert.Equal(t, StatusResponse{ID: "h", Status: "ok"}, health)

	var unknown ErrorResponse
	require.NoError(t, dec.Decode(&unknown))
	assert.Equal(t, "u", unknown.ID)
	assert.Contains(t, unknown.Error, "fill")
}

func TestMalformedRequestKeepsServing(t *testing.T) {
	idx := newTestIndex(t, normalize.Latin, testDict)
	dec := exchange(t, idx, nil,
		"not a request",
		Request{ID: "h", Action: ActionHealth},
	)

	var bad ErrorResponse
	require.NoError(t, dec.Decode(&bad))
	assert.Equal(t, 400, bad.Code)

	var health StatusResponse
	require.NoError(t, dec.Decode(&health))
	assert.Equal(t, "ok", health.Status)
}

func TestCyrillicRoundTrip(t *testing.T) {
	cyr := normalize.Cyrillic
	idx := newTestIndex(t, cyr, cyr.Encode("кот\tкошка\nкит\tживотное\n"))
	cfg := config.DefaultConfig()
	cfg.Dictionary.Alphabet = cyr.Name

	dec := exchange(t, idx, cfg, Request{ID: "1", Pattern: "к?т", Explain: true})

	var resp MatchResponse
	require.NoError(t, dec.Decode(&resp))
	assert.Equal(t, "К?Т", resp.Pattern)
	assert.ElementsMatch(t, []Candidate{
		{Word: "КОТ", Explanation: "кошка"},
		{Word: "КИТ", Explanation: "животное"},
	}, resp.Candidates)
}
