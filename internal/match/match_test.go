package match

import (
	"errors"
	"fmt"
	"testing"

	"github.com/reallyasi9/lol-draft-model/internal/draft"
	"github.com/reallyasi9/lol-draft-model/internal/lol"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testChampions() lol.ChampionMap {
	return lol.ChampionMap{
		"A": {Name: "A", Role: lol.Tank, Spikes: [lol.NumSpikes]int{1, 0, 0}, AD: 1},
		"B": {Name: "B", Role: lol.Dive, Spikes: [lol.NumSpikes]int{0, 1, 1}, AP: 1},
	}
}

func picks(name string) lol.Picks {
	return lol.Picks{name, name, name, name, name}
}

// game returns the two rows of one well-formed game with ids id and id+1.
func game(id int, gameID, blue, red string) []Record {
	return []Record{
		{ID: id, GameID: gameID, Team: blue, Opponent: red, Side: lol.Blue, Result: 1, Champions: picks("A")},
		{ID: id + 1, GameID: gameID, Team: red, Opponent: blue, Side: lol.Red, Result: 0, Champions: picks("B")},
	}
}

func labels(records []Record, comp func(Record) int) []draft.Labeled {
	out := make([]draft.Labeled, len(records))
	for i, r := range records {
		out[i] = draft.Labeled{Vector: draft.Vector{RowID: r.ID}, TeamComp: comp(r)}
	}
	return out
}

func TestMatchupIndicators(t *testing.T) {
	assert.Equal(t, []int{0, 1, 0, -1, 0, 0, 0, 0, 0}, MatchupIndicators(0, 1, 3))
	assert.Equal(t, []int{0, -1, 0, 1, 0, 0, 0, 0, 0}, MatchupIndicators(1, 0, 3))
	assert.Equal(t, []int{0, 0, 0, 0, 0, 0, 0, 0, 1}, MatchupIndicators(2, 2, 3))
	assert.Equal(t, make([]int, 9), MatchupIndicators(2, Unresolved, 3))
	assert.Equal(t, "team_comp2_v_opp_comp0", MatchupColumns(3)[6])
}

func TestSortRecords_Duplicate(t *testing.T) {
	_, err := SortRecords(append(game(1, "g1", "X", "Y"), game(2, "g2", "Z", "W")...))
	require.Error(t, err)
	var dfe *lol.DataFormatError
	require.True(t, errors.As(err, &dfe))
	assert.Equal(t, "id", dfe.Field)
}

func TestLinkers_AgreeOnWellFormedData(t *testing.T) {
	var records []Record
	for g := 0; g < 20; g++ {
		records = append(records, game(2*g, fmt.Sprintf("g%d", g), fmt.Sprintf("T%d", g), fmt.Sprintf("U%d", g))...)
	}
	keyed := LinkOpponents(records)
	adjacent := LinkAdjacent(records)
	assert.Equal(t, keyed, adjacent)
	for i, j := range keyed {
		assert.Equal(t, i^1, j)
	}
}

func TestLinkAdjacent_PrefersRowAbove(t *testing.T) {
	records := []Record{
		{ID: 0, GameID: "g1", Team: "X", Opponent: "Y"},
		{ID: 1, GameID: "g1", Team: "Y", Opponent: "X"},
		{ID: 2, GameID: "g2", Team: "X", Opponent: "Y"},
	}
	assert.Equal(t, []int{1, 0, 1}, LinkAdjacent(records))
	assert.Equal(t, []int{1, 0, Unresolved}, LinkOpponents(records))
}

func TestJoin(t *testing.T) {
	records := append(game(0, "g1", "X", "Y"), game(2, "g2", "Z", "W")...)
	drafts := labels(records, func(r Record) int { return r.ID % 3 })

	table, report, err := Join(records, drafts, testChampions(), JoinOptions{K: 3})
	require.NoError(t, err)
	require.Len(t, table.Rows, 4)
	assert.Empty(t, report.Dropped)
	assert.Equal(t, 4, report.OutputRows)

	for _, g := range table.Games() {
		require.Len(t, g, 2)
		a, b := table.Rows[g[0]], table.Rows[g[1]]
		assert.Equal(t, b.TeamComp, a.OppComp)
		assert.Equal(t, a.TeamComp, b.OppComp)
		assert.Equal(t, b.ID, a.OpponentRowID)
		for c := range a.Matchup {
			s := a.Matchup[c] + b.Matchup[c]
			assert.Contains(t, []int{0, 2}, s, "column %s", table.MatchupColumns[c])
		}
	}

	row := table.Rows[0]
	assert.Equal(t, [lol.NumSpikes]float64{1, -1, -1}, row.SpikeDiff[lol.Top])
	assert.Equal(t, -1., row.APDiff[lol.Support])
	assert.Equal(t, 1., row.ADDiff[lol.Middle])
	assert.Equal(t, [lol.NumSpikes]float64{-1, 1, 1}, table.Rows[1].SpikeDiff[lol.Bottom])
}

func TestJoin_MismatchedOpponentDropsGame(t *testing.T) {
	records := append(game(0, "g1", "X", "Y"), game(2, "g2", "Z", "W")...)
	records[3].Opponent = "Q"
	drafts := labels(records, func(r Record) int { return r.ID % 2 })

	table, report, err := Join(records, drafts, testChampions(), JoinOptions{K: 2})
	require.NoError(t, err)
	require.Len(t, report.Dropped, 1)
	assert.Equal(t, []string{"g2"}, report.DroppedGames())
	assert.Equal(t, "opponent unresolved", report.Dropped[0].Reason)
	for _, r := range table.Rows {
		assert.NotEqual(t, "g2", r.GameID)
	}
}

func TestJoin_UnpairedAndMissingDraft(t *testing.T) {
	records := append(game(0, "g1", "X", "Y"), game(2, "g2", "Z", "W")...)
	records = append(records, Record{ID: 4, GameID: "g3", Team: "V", Opponent: "S", Champions: picks("A")})
	drafts := labels(records[:4], func(Record) int { return 0 })
	drafts = append(drafts, draft.Labeled{Vector: draft.Vector{RowID: 4}})
	drafts = drafts[1:]

	table, report, err := Join(records, drafts, testChampions(), JoinOptions{K: 1, Link: LinkAdjacent})
	require.NoError(t, err)
	assert.Equal(t, 1, report.MissingDraft)
	assert.ElementsMatch(t, []string{"g1", "g3"}, report.DroppedGames())
	require.Len(t, table.Rows, 2)
	assert.Equal(t, 2, table.MatchupCount(0))
}

func TestJoin_UnknownChampion(t *testing.T) {
	records := game(0, "g1", "X", "Y")
	records[1].Champions[lol.Support] = "Nobody"
	_, _, err := Join(records, labels(records, func(Record) int { return 0 }), testChampions(), JoinOptions{K: 1})
	var unknown *lol.UnknownChampionError
	require.True(t, errors.As(err, &unknown))
	assert.Equal(t, "Nobody", unknown.Champion)
}

func TestFingerprint(t *testing.T) {
	a := game(0, "g1", "X", "Y")
	b := game(0, "g1", "X", "Y")
	assert.Equal(t, Fingerprint(a), Fingerprint(b))
	b[1].Result = 1
	assert.NotEqual(t, Fingerprint(a), Fingerprint(b))
}
