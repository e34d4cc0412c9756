package tableio

import (
	"bytes"
	"encoding/csv"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/reallyasi9/lol-draft-model/internal/eval"
	"github.com/reallyasi9/lol-draft-model/internal/lol"
	"github.com/reallyasi9/lol-draft-model/internal/match"
	"github.com/reallyasi9/lol-draft-model/internal/match/matchtest"
	"github.com/reallyasi9/lol-draft-model/internal/pipeline"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const header = "id,gameid,teamname,opponent,date,league,side,result,elo_diff," +
	"top_champion,jng_champion,mid_champion,bot_champion,sup_champion," +
	"top_dif,jng_dif,mid_dif,bot_dif,sup_dif,top_lead_at_15,mid_lead_at_15,bot_lead_at_15,extra\n"

const goodRows = "2,G1,Alpha,Bravo,2023-01-05,LCK,Red,0,-0.25,A,B,A,B,A,0.5,-1,0,1.5,2,0,1,0,x\n" +
	"1.0,G1,Bravo,Alpha,2023-01-05,LCK,Blue,1,0.25,B,A,B,A,B,-0.5,1,0,-1.5,-2,1,0,1,y\n"

func TestReadMatchesCSV(t *testing.T) {
	records, err := ReadMatchesCSV("matches.csv", strings.NewReader(header+goodRows))
	require.NoError(t, err)
	require.Len(t, records, 2)

	r := records[0]
	assert.Equal(t, 2, r.ID)
	assert.Equal(t, "G1", r.GameID)
	assert.Equal(t, "Alpha", r.Team)
	assert.Equal(t, "Bravo", r.Opponent)
	assert.Equal(t, lol.Red, r.Side)
	assert.Equal(t, -0.25, r.EloDiff)
	assert.Equal(t, lol.Picks{"A", "B", "A", "B", "A"}, r.Champions)
	assert.Equal(t, [lol.NumPositions]float64{0.5, -1, 0, 1.5, 2}, r.PlayerDiff)
	assert.Equal(t, [lol.NumLanes]int{0, 1, 0}, r.LeadAt15)

	assert.Equal(t, 1, records[1].ID, "whole-number float ids are accepted")
	assert.Equal(t, lol.Blue, records[1].Side)
}

func TestReadMatchesCSV_Errors(t *testing.T) {
	tests := []struct {
		name  string
		in    string
		line  int
		field string
	}{
		{"empty", "", 1, ""},
		{"missing column", "id,gameid\n1,G1\n", 1, "teamname"},
		{"bad side", header + strings.Replace(goodRows, "Red", "Purple", 1), 2, "side"},
		{"bad result", header + strings.Replace(goodRows, "Red,0", "Red,2", 1), 2, "result"},
		{"bad id", header + strings.Replace(goodRows, "1.0,G1", "1.5,G1", 1), 3, "id"},
		{"bad diff", header + strings.Replace(goodRows, "0.5,-1", "high,-1", 1), 2, "top_dif"},
		{"empty champion", header + strings.Replace(goodRows, "-0.25,A,", "-0.25,,", 1), 2, "top_champion"},
		{"short row", header + "1,G1\n", 2, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadMatchesCSV("matches.csv", strings.NewReader(tt.in))
			var dfe *lol.DataFormatError
			require.True(t, errors.As(err, &dfe), "got %v", err)
			assert.Equal(t, tt.line, dfe.Line)
			assert.Equal(t, tt.field, dfe.Field)
			assert.Equal(t, "matches.csv", dfe.Source)
		})
	}
}

func TestParquetRoundTrip(t *testing.T) {
	cm := matchtest.Champions()
	records := matchtest.Games(30, cm, 3)
	fn := filepath.Join(t.TempDir(), "matches.parquet")
	require.NoError(t, WriteMatchesParquet(fn, records, 2))

	back, err := LoadMatches(fn, 2)
	require.NoError(t, err)
	assert.Equal(t, records, back)
}

func TestLoadMatches_CSV(t *testing.T) {
	fn := filepath.Join(t.TempDir(), "matches.csv")
	require.NoError(t, os.WriteFile(fn, []byte(header+goodRows), 0o644))
	records, err := LoadMatches(fn, 1)
	require.NoError(t, err)
	assert.Len(t, records, 2)

	_, err = LoadMatches(filepath.Join(t.TempDir(), "missing.csv"), 1)
	assert.Error(t, err)
}

func TestLoadChampions(t *testing.T) {
	fn := filepath.Join(t.TempDir(), "champions.csv")
	require.NoError(t, os.WriteFile(fn, []byte("name,role,early_game,mid_game,late_game,ap,ad\nA,Tank,1,0,0,0,1\n"), 0o644))
	cm, err := LoadChampions(fn)
	require.NoError(t, err)
	assert.Equal(t, lol.Tank, cm["A"].Role)
}

func TestWriteScoredCSV_PartialResult(t *testing.T) {
	cm := matchtest.Champions()
	records := matchtest.Games(5, cm, 3)
	table, _, err := match.Join(records, matchtest.Labels(records, 2, 1), cm, match.JoinOptions{K: 2})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteScoredCSV(&buf, &pipeline.Result{Table: table}))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 11)
	assert.Equal(t, ScoredColumns(table.MatchupColumns), rows[0])
	assert.Contains(t, rows[0], "team_comp1_v_opp_comp0")
	assert.Contains(t, rows[0], "post_draft_win_prob")

	col := func(name string) int {
		for i, c := range rows[0] {
			if c == name {
				return i
			}
		}
		t.Fatalf("no column %s", name)
		return -1
	}
	assert.Equal(t, "1", rows[1][col("opponent_row_id")])
	assert.Equal(t, "", rows[1][col("post_draft_win_prob")])
	assert.Equal(t, "train", rows[1][col("split")])

	assert.Error(t, WriteScoredCSV(&buf, &pipeline.Result{}))
}

func TestWriteDraftValuesCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteDraftValuesCSV(&buf, map[string][]eval.DraftValue{
		"B": {{Team: "B", GameID: "g1", Diff: 0.1, Cumulative: 0.1}},
		"A": {{Team: "A", GameID: "g1", Diff: -0.1, Cumulative: -0.1}, {Team: "A", GameID: "g2", Diff: 0.25, Cumulative: 0.15}},
	}))
	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, "A", rows[1][0])
	assert.Equal(t, "0.15", rows[2][5])
	assert.Equal(t, "B", rows[3][0])
}
