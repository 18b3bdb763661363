package uciprotocol

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseInfo(t *testing.T) {
	tests := []struct {
		name     string
		line     string
		expected InfoLine
	}{
		{
			name: "centipawn line",
			line: "info depth 20 seldepth 28 multipv 1 score cp 42 nodes 1000 nps 500000 time 2 pv e2e4 e7e5 g1f3",
			expected: InfoLine{
				MultiPV: 1, HasMultiPV: true,
				Depth: 20, HasDepth: true, SelDepth: 28,
				ScoreKind: ScoreCentipawns, Score: 42,
				PVMove: "e2e4",
				Nodes:  1000, NPS: 500000, Time: 2,
			},
		},
		{
			name: "negative mate",
			line: "info depth 15 multipv 2 score mate -3 pv f3g5 h6g5",
			expected: InfoLine{
				MultiPV: 2, HasMultiPV: true,
				Depth: 15, HasDepth: true,
				ScoreKind: ScoreMate, Score: -3,
				PVMove: "f3g5",
			},
		},
		{
			name: "bound marker after score",
			line: "info depth 9 multipv 1 score cp -17 upperbound pv d7d5",
			expected: InfoLine{
				MultiPV: 1, HasMultiPV: true,
				Depth: 9, HasDepth: true,
				ScoreKind: ScoreCentipawns, Score: -17,
				PVMove: "d7d5",
			},
		},
		{
			name: "scanning stops at pv",
			line: "info multipv 1 score cp 5 pv e2e4 depth 99",
			expected: InfoLine{
				MultiPV: 1, HasMultiPV: true,
				ScoreKind: ScoreCentipawns, Score: 5,
				PVMove: "e2e4",
			},
		},
		{
			name:     "currmove progress",
			line:     "info depth 12 currmove g1f3 currmovenumber 3",
			expected: InfoLine{Depth: 12, HasDepth: true},
		},
		{
			name:     "malformed numbers",
			line:     "info depth x multipv y score cp z pv",
			expected: InfoLine{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(tt.expected, ParseInfo(tt.line)); diff != "" {
				t.Errorf("ParseInfo mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

// TestAggregatorLaterDepthOverwrites feeds two lines for the same rank; the
// deeper one wins.
func TestAggregatorLaterDepthOverwrites(t *testing.T) {
	agg := NewCandidateAggregator()
	assert.True(t, agg.AddLine("info depth 10 multipv 1 score cp 30 pv e2e4 e7e5"))
	assert.True(t, agg.AddLine("info depth 12 multipv 1 score cp 35 pv e2e4 e7e5"))

	want := []Candidate{{Move: "e2e4", Rank: 1, Depth: 12, ScoreKind: ScoreCentipawns, Score: 35}}
	if diff := cmp.Diff(want, agg.Candidates()); diff != "" {
		t.Errorf("candidates mismatch (-want +got):\n%s", diff)
	}
}

func TestAggregatorDiscardsIncompleteLines(t *testing.T) {
	tests := []string{
		"info depth 10 multipv 1 score cp 30",
		"info depth 10 score cp 30 pv e2e4",
		"info depth 10 multipv 1 pv e2e4",
		"info depth 10 multipv 0 score cp 30 pv e2e4",
		"info string multipv 1 score cp 3",
	}

	for _, line := range tests {
		t.Run(line, func(t *testing.T) {
			agg := NewCandidateAggregator()
			assert.False(t, agg.AddLine(line))
			assert.Equal(t, 0, agg.Len())
		})
	}
}

func TestAggregatorLineWithoutPVDoesNotUpdate(t *testing.T) {
	agg := NewCandidateAggregator()
	require.True(t, agg.AddLine("info depth 8 multipv 1 score cp 10 pv d2d4"))
	assert.False(t, agg.AddLine("info depth 9 multipv 1 score cp 99"))

	got := agg.Candidates()
	require.Len(t, got, 1)
	assert.Equal(t, 8, got[0].Depth)
	assert.Equal(t, 10, got[0].Score)
}

func TestAggregatorOrdersByRankAndSkipsGaps(t *testing.T) {
	agg := NewCandidateAggregator()
	agg.AddLine("info depth 5 multipv 4 score cp -20 pv a2a3")
	agg.AddLine("info depth 5 multipv 1 score mate 2 pv d1h5")
	agg.AddLine("info multipv 2 score cp 15 pv g1f3")

	want := []Candidate{
		{Move: "d1h5", Rank: 1, Depth: 5, ScoreKind: ScoreMate, Score: 2},
		{Move: "g1f3", Rank: 2, Depth: -1, ScoreKind: ScoreCentipawns, Score: 15},
		{Move: "a2a3", Rank: 4, Depth: 5, ScoreKind: ScoreCentipawns, Score: -20},
	}
	if diff := cmp.Diff(want, agg.Candidates()); diff != "" {
		t.Errorf("candidates mismatch (-want +got):\n%s", diff)
	}
}

func TestAggregatorCandidatesUpTo(t *testing.T) {
	agg := NewCandidateAggregator()
	agg.AddLine("info depth 9 multipv 3 score cp 5 pv c2c4")
	agg.AddLine("info depth 9 multipv 1 score cp 25 pv e2e4")
	agg.AddLine("info depth 9 multipv 2 score cp 20 pv d2d4")

	got := agg.CandidatesUpTo(2)
	require.Len(t, got, 2)
	assert.Equal(t, "e2e4", got[0].Move)
	assert.Equal(t, "d2d4", got[1].Move)

	assert.Len(t, agg.CandidatesUpTo(5), 3)
	assert.Empty(t, agg.CandidatesUpTo(0))
	assert.Equal(t, 3, agg.Len(), "capping must not drop stored lines")
}

func TestAggregatorReset(t *testing.T) {
	agg := NewCandidateAggregator()
	agg.AddLine("info depth 5 multipv 1 score cp 1 pv e2e4")
	agg.Reset()

	assert.Equal(t, 0, agg.Len())
	assert.Empty(t, agg.Candidates())
}

func TestCandidateJSON(t *testing.T) {
	data, err := json.Marshal(Candidate{Move: "e2e4", Rank: 1, Depth: 12, ScoreKind: ScoreMate, Score: -3})
	require.NoError(t, err)
	assert.JSONEq(t, `{"move":"e2e4","multipv":1,"depth":12,"score_type":"mate","score":-3}`, string(data))
}

func TestScoreKindString(t *testing.T) {
	assert.Equal(t, "cp", ScoreCentipawns.String())
	assert.Equal(t, "mate", ScoreMate.String())
	assert.Equal(t, "none", ScoreNone.String())
}
