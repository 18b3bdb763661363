package uciprotocol

import (
	"sort"
	"strconv"
	"strings"
)

// ScoreKind says how a Candidate's Score is expressed.
type ScoreKind int

const (
	// ScoreNone means the info line carried no score.
	ScoreNone ScoreKind = iota
	// ScoreCentipawns is a positional evaluation, 100 = one pawn.
	ScoreCentipawns
	// ScoreMate is a signed number of moves to forced mate.
	ScoreMate
)

// String returns the wire token for the kind.
func (k ScoreKind) String() string {
	switch k {
	case ScoreCentipawns:
		return TokenCentipawns
	case ScoreMate:
		return TokenMate
	default:
		return "none"
	}
}

// MarshalText encodes the kind as its wire token.
func (k ScoreKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// InfoLine holds the fields of an info line the driver understands.
// Has* flags distinguish "absent" from a literal zero.
type InfoLine struct {
	MultiPV    int
	HasMultiPV bool

	Depth    int
	HasDepth bool
	SelDepth int

	ScoreKind ScoreKind
	Score     int

	// PVMove is the first move of the principal variation.
	PVMove string

	Nodes int64
	NPS   int64
	Time  int64 // milliseconds
}

// Complete reports whether the line can produce a Candidate.
func (i InfoLine) Complete() bool {
	return i.HasMultiPV && i.MultiPV > 0 && i.PVMove != "" && i.ScoreKind != ScoreNone
}

// ParseInfo scans an info line. Scanning stops at the pv marker since only
// the first move of the variation is kept.
//
//	info depth 20 multipv 1 score cp 42 nodes 1000 pv e2e4 e7e5
//	info depth 15 multipv 2 score mate -3 pv f3g5 h6g5
func ParseInfo(line string) InfoLine {
	var info InfoLine
	fields := strings.Fields(line)

	for i := 0; i < len(fields); i++ {
		next := func() (string, bool) {
			if i+1 < len(fields) {
				return fields[i+1], true
			}
			return "", false
		}

		switch fields[i] {
		case TokenMultiPV:
			if v, ok := next(); ok {
				if n, err := strconv.Atoi(v); err == nil {
					info.MultiPV, info.HasMultiPV = n, true
				}
				i++
			}
		case TokenDepth:
			if v, ok := next(); ok {
				if n, err := strconv.Atoi(v); err == nil {
					info.Depth, info.HasDepth = n, true
				}
				i++
			}
		case TokenSelDepth:
			if v, ok := next(); ok {
				info.SelDepth, _ = strconv.Atoi(v)
				i++
			}
		case TokenScore:
			if i+2 < len(fields) {
				kind := ScoreNone
				switch fields[i+1] {
				case TokenCentipawns:
					kind = ScoreCentipawns
				case TokenMate:
					kind = ScoreMate
				}
				if n, err := strconv.Atoi(fields[i+2]); err == nil && kind != ScoreNone {
					info.ScoreKind, info.Score = kind, n
					i += 2
				}
			}
		case TokenNodes:
			if v, ok := next(); ok {
				info.Nodes, _ = strconv.ParseInt(v, 10, 64)
				i++
			}
		case TokenNPS:
			if v, ok := next(); ok {
				info.NPS, _ = strconv.ParseInt(v, 10, 64)
				i++
			}
		case TokenTime:
			if v, ok := next(); ok {
				info.Time, _ = strconv.ParseInt(v, 10, 64)
				i++
			}
		case TokenPV:
			if v, ok := next(); ok {
				info.PVMove = v
			}
			return info
		}
	}
	return info
}

// Candidate is one ranked line of analysis. Score is raw: sign and magnitude
// are exactly what the engine reported.
type Candidate struct {
	Move      string    `json:"move" yaml:"move"`
	Rank      int       `json:"multipv" yaml:"multipv"`
	Depth     int       `json:"depth" yaml:"depth"`
	ScoreKind ScoreKind `json:"score_type" yaml:"score_type"`
	Score     int       `json:"score" yaml:"score"`
}

// CandidateAggregator folds info lines into a per-rank candidate table for
// one search. It is not safe for concurrent use; the stdout reader owns it.
type CandidateAggregator struct {
	byRank map[int]Candidate
}

// NewCandidateAggregator creates an empty aggregator.
func NewCandidateAggregator() *CandidateAggregator {
	return &CandidateAggregator{byRank: make(map[int]Candidate)}
}

// Add records the candidate carried by info, replacing whatever the same
// rank held before. Incomplete lines are dropped; most info lines in a
// search are incomplete and that is normal. Returns whether info was stored.
func (a *CandidateAggregator) Add(info InfoLine) bool {
	if !info.Complete() {
		return false
	}
	depth := -1
	if info.HasDepth {
		depth = info.Depth
	}
	a.byRank[info.MultiPV] = Candidate{
		Move:      info.PVMove,
		Rank:      info.MultiPV,
		Depth:     depth,
		ScoreKind: info.ScoreKind,
		Score:     info.Score,
	}
	return true
}

// AddLine parses and adds one raw info line.
func (a *CandidateAggregator) AddLine(line string) bool {
	return a.Add(ParseInfo(line))
}

// Len returns the number of ranks holding data.
func (a *CandidateAggregator) Len() int {
	return len(a.byRank)
}

// Candidates returns the stored candidates by ascending rank. Ranks that
// never received a complete line are skipped, not filled.
func (a *CandidateAggregator) Candidates() []Candidate {
	out := make([]Candidate, 0, len(a.byRank))
	for _, c := range a.byRank {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Rank < out[j].Rank })
	return out
}

// CandidatesUpTo is Candidates limited to ranks 1..n, dropping lines left
// over from a larger candidate count.
func (a *CandidateAggregator) CandidatesUpTo(n int) []Candidate {
	all := a.Candidates()
	for i, c := range all {
		if c.Rank > n {
			return all[:i]
		}
	}
	return all
}

// Reset clears the table, ending the current aggregation window.
func (a *CandidateAggregator) Reset() {
	clear(a.byRank)
}
