/*
Package server implements msgpack IPC for crossword pattern queries.

The server reads msgpack requests from stdin and writes msgpack responses to
stdout, one object each, in order. Text crosses the wire as UTF-8; the server
converts it to and from the dictionary's code page.

On startup the server sends a status message:

	{"id": "", "status": "ready"}

A match request asks for the words fitting a slot pattern:

	{"id": "req_001", "a": "match", "p": "c?t", "l": 10, "x": true}

and receives the candidates with the total number of matches:

	{"id": "req_001", "p": "C?T", "c": [{"w": "CAT", "x": "feline"}], "n": 2, "t": 41}

Other actions:

	{"id": "2", "a": "explain", "w": "cat"}
	{"id": "3", "a": "prefix", "p": "ca", "l": 5}
	{"id": "4", "a": "suggest", "w": "cst", "d": 1}
	{"id": "5", "a": "distance", "w": "kitten", "o": "sitting"}
	{"id": "6", "a": "stats"}
	{"id": "7", "a": "health"}

A request without an action is a match. Failures come back as an
ErrorResponse carrying the request id.
*/
package server

// Actions understood by the server.
const (
	ActionMatch    = "match"
	ActionExplain  = "explain"
	ActionPrefix   = "prefix"
	ActionSuggest  = "suggest"
	ActionDistance = "distance"
	ActionStats    = "stats"
	ActionHealth   = "health"
)

// Request is the single request shape; fields are used per action.
type Request struct {
	ID          string `msgpack:"id"`
	Action      string `msgpack:"a,omitempty"`
	Pattern     string `msgpack:"p,omitempty"`
	Word        string `msgpack:"w,omitempty"`
	Other       string `msgpack:"o,omitempty"`
	Limit       int    `msgpack:"l,omitempty"`
	MaxDistance int    `msgpack:"d,omitempty"`
	Explain     bool   `msgpack:"x,omitempty"`
}

// Candidate is one matching word.
type Candidate struct {
	Word        string `msgpack:"w"`
	Explanation string `msgpack:"x,omitempty"`
}

// MatchResponse answers a match request. Count is the total number of
// matches, which can exceed len(Candidates) when a limit applies.
type MatchResponse struct {
	ID         string      `msgpack:"id"`
	Pattern    string      `msgpack:"p"`
	Candidates []Candidate `msgpack:"c"`
	Count      int         `msgpack:"n"`
	TimeTaken  int64       `msgpack:"t"`
}

// ExplainResponse answers an explain request.
type ExplainResponse struct {
	ID          string `msgpack:"id"`
	Word        string `msgpack:"w"`
	Surface     string `msgpack:"s"`
	Explanation string `msgpack:"x"`
	Found       bool   `msgpack:"f"`
}

// PrefixResponse answers a prefix request.
type PrefixResponse struct {
	ID    string   `msgpack:"id"`
	Words []string `msgpack:"ws"`
	Count int      `msgpack:"n"`
}

// Suggestion is a near match and its edit distance.
type Suggestion struct {
	Word     string `msgpack:"w"`
	Distance int    `msgpack:"d"`
}

// SuggestResponse answers a suggest request.
type SuggestResponse struct {
	ID          string       `msgpack:"id"`
	Suggestions []Suggestion `msgpack:"s"`
}

// DistanceResponse answers a distance request.
type DistanceResponse struct {
	ID       string `msgpack:"id"`
	Distance int    `msgpack:"d"`
}

// StatsResponse answers a stats request.
type StatsResponse struct {
	ID    string         `msgpack:"id"`
	Stats map[string]int `msgpack:"stats"`
}

// StatusResponse is sent on startup and for health checks.
type StatusResponse struct {
	ID     string `msgpack:"id"`
	Status string `msgpack:"status"`
}

// ErrorResponse holds basic error information for a failed request
type ErrorResponse struct {
	ID    string `msgpack:"id"`
	Error string `msgpack:"e"`
	Code  int    `msgpack:"c"`
}
