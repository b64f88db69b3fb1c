package server

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/bastiangx/wordgrid/internal/logger"
	"github.com/bastiangx/wordgrid/internal/utils"
	"github.com/bastiangx/wordgrid/pkg/config"
	"github.com/bastiangx/wordgrid/pkg/fuzzy"
	"github.com/bastiangx/wordgrid/pkg/index"
	"github.com/bastiangx/wordgrid/pkg/normalize"
	"github.com/charmbracelet/log"
	"github.com/samber/lo"
	"github.com/vmihailenco/msgpack/v5"
)

const defaultMaxDistance = 2

// Server answers msgpack requests against one index.
type Server struct {
	idx      *index.Index
	alphabet *normalize.Alphabet
	cfg      *config.Config
	dec      *msgpack.Decoder
	enc      *msgpack.Encoder
	log      *log.Logger
	requests int
}

// NewServer creates a server reading requests from r and writing responses to w.
func NewServer(idx *index.Index, cfg *config.Config, r io.Reader, w io.Writer) *Server {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	return &Server{
		idx:      idx,
		alphabet: idx.Alphabet(),
		cfg:      cfg,
		dec:      msgpack.NewDecoder(r),
		enc:      msgpack.NewEncoder(w),
		log:      logger.New("server"),
	}
}

// Start sends the ready status and serves requests until the input ends.
func (s *Server) Start() error {
	s.log.Debug("Starting server")
	if err := s.send(StatusResponse{Status: "ready"}); err != nil {
		return err
	}

	for {
		var raw msgpack.RawMessage
		if err := s.dec.Decode(&raw); err != nil {
			if errors.Is(err, io.EOF) {
				s.log.Debugf("Input closed after %d requests", s.requests)
				return nil
			}
			s.log.Errorf("Reading request: %v", err)
			return fmt.Errorf("read request: %w", err)
		}
		s.requests++

		var req Request
		if err := msgpack.Unmarshal(raw, &req); err != nil {
			s.log.Warnf("Malformed request: %v", err)
			if err := s.sendError("", "malformed request", 400); err != nil {
				return err
			}
			continue
		}
		if err := s.handle(req); err != nil {
			return err
		}
	}
}

// handle dispatches one request. Only write failures are returned.
func (s *Server) handle(req Request) error {
	switch req.Action {
	case "", ActionMatch:
		return s.handleMatch(req)
	case ActionExplain:
		return s.handleExplain(req)
	case ActionPrefix:
		return s.handlePrefix(req)
	case ActionSuggest:
		return s.handleSuggest(req)
	case ActionDistance:
		return s.send(DistanceResponse{
			ID:       req.ID,
			Distance: index.EditDistance(s.canonical(req.Word), s.canonical(req.Other)),
		})
	case ActionStats:
		return s.send(StatsResponse{ID: req.ID, Stats: s.idx.Stats()})
	case ActionHealth:
		return s.send(StatusResponse{ID: req.ID, Status: "ok"})
	}
	return s.sendError(req.ID, fmt.Sprintf("unknown action: %s", req.Action), 400)
}

func (s *Server) handleMatch(req Request) error {
	pattern := utils.CleanPattern(req.Pattern)
	if err := utils.CheckPattern(pattern, rune(s.idx.Wildcard()), s.cfg.Server.MaxPattern); err != nil {
		s.log.Debugf("Rejected pattern %q: %v", req.Pattern, err)
		return s.sendError(req.ID, err.Error(), 400)
	}

	start := time.Now()
	view := s.idx.FindMatches(s.alphabet.Encode(pattern))
	n := min(view.Len(), s.limit(req.Limit))

	candidates := lo.Map(lo.Range(n), func(i int, _ int) Candidate {
		c := Candidate{Word: s.alphabet.Decode(view.At(i))}
		if req.Explain {
			c.Explanation = s.alphabet.Decode(view.Explain(i))
		}
		return c
	})
	elapsed := time.Since(start)

	s.log.Debugf("Pattern %q: %d matches in %v", pattern, view.Len(), elapsed)
	return s.send(MatchResponse{
		ID:         req.ID,
		Pattern:    s.alphabet.Decode(s.normalized(pattern)),
		Candidates: candidates,
		Count:      view.Len(),
		TimeTaken:  elapsed.Microseconds(),
	})
}

func (s *Server) handleExplain(req Request) error {
	key := s.canonical(req.Word)
	if key == "" {
		return s.sendError(req.ID, "missing word", 400)
	}
	surface := s.idx.Surface(key)
	return s.send(ExplainResponse{
		ID:          req.ID,
		Word:        s.alphabet.Decode(key),
		Surface:     s.alphabet.Decode(surface),
		Explanation: s.alphabet.Decode(s.idx.Explanation(key)),
		Found:       surface != "",
	})
}

func (s *Server) handlePrefix(req Request) error {
	prefix := s.canonical(req.Pattern)
	if prefix == "" {
		return s.sendError(req.ID, "missing prefix", 400)
	}
	words := lo.Map(s.idx.WithPrefix(prefix, s.limit(req.Limit)), func(w string, _ int) string {
		return s.alphabet.Decode(w)
	})
	return s.send(PrefixResponse{ID: req.ID, Words: words, Count: len(words)})
}

func (s *Server) handleSuggest(req Request) error {
	word := s.canonical(req.Word)
	if word == "" {
		return s.sendError(req.ID, "missing word", 400)
	}
	maxDistance := req.MaxDistance
	if maxDistance < 1 {
		maxDistance = defaultMaxDistance
	}
	matches := s.idx.Suggest(word, maxDistance, s.limit(req.Limit))
	return s.send(SuggestResponse{
		ID: req.ID,
		Suggestions: lo.Map(matches, func(m fuzzy.Match, _ int) Suggestion {
			return Suggestion{Word: s.alphabet.Decode(m.Word), Distance: m.Distance}
		}),
	})
}

// limit clamps a requested limit to the configured maximum.
func (s *Server) limit(requested int) int {
	maxLimit := s.cfg.Server.MaxLimit
	if requested < 1 {
		requested = s.cfg.CLI.DefaultLimit
	}
	if maxLimit > 0 && requested > maxLimit {
		return maxLimit
	}
	return requested
}

// canonical converts UTF-8 input to a canonical key.
func (s *Server) canonical(text string) string {
	return s.alphabet.Canonicalize(s.alphabet.Encode(text))
}

// normalized uppercases the concrete letters of a pattern.
func (s *Server) normalized(pattern string) string {
	enc := []byte(s.alphabet.Encode(pattern))
	for i, b := range enc {
		if b != s.idx.Wildcard() {
			enc[i] = s.alphabet.ToCanonicalLetter(b)
		}
	}
	return string(enc)
}

func (s *Server) send(response any) error {
	if err := s.enc.Encode(response); err != nil {
		s.log.Errorf("Writing response: %v", err)
		return fmt.Errorf("write response: %w", err)
	}
	return nil
}

func (s *Server) sendError(id, message string, code int) error {
	return s.send(ErrorResponse{ID: id, Error: message, Code: code})
}
