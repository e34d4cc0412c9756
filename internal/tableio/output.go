package tableio

import (
	"encoding/csv"
	"io"
	"math"
	"sort"
	"strconv"

	"github.com/pkg/errors"
	"github.com/reallyasi9/lol-draft-model/internal/eval"
	"github.com/reallyasi9/lol-draft-model/internal/lol"
	"github.com/reallyasi9/lol-draft-model/internal/model"
	"github.com/reallyasi9/lol-draft-model/internal/pipeline"
)

func formatFloat(x float64) string {
	if math.IsNaN(x) {
		return ""
	}
	return strconv.FormatFloat(x, 'g', -1, 64)
}

// ScoredColumns returns the header of the scored output table.
func ScoredColumns(matchupColumns []string) []string {
	cols := []string{colID, colGameID, colTeam, colOpponent, colDate, colLeague, colSide, colResult, colEloDiff,
		"team_comp", "opp_comp", "opponent_row_id"}
	cols = append(cols, matchupColumns...)
	for _, v := range model.Variants {
		for _, lane := range lol.Lanes {
			cols = append(cols, model.LaneProbColumn(lane, v))
		}
	}
	for _, v := range model.Variants {
		cols = append(cols, model.WinProbColumn(v))
	}
	return append(cols, "draft_diff", "split")
}

// WriteScoredCSV writes the augmented match table. Outputs of stages that did not run are
// left empty.
func WriteScoredCSV(w io.Writer, res *pipeline.Result) error {
	if res.Table == nil {
		return errors.New("no joined table to write")
	}
	cw := csv.NewWriter(w)
	if err := cw.Write(ScoredColumns(res.Table.MatchupColumns)); err != nil {
		return errors.Wrap(err, "writing header")
	}
	for _, s := range res.Scored() {
		split := "train"
		if s.Test {
			split = "test"
		}
		rec := []string{
			strconv.Itoa(s.ID), s.GameID, s.Team, s.Opponent, s.Date, s.League, s.Side.String(),
			strconv.Itoa(s.Result), formatFloat(s.EloDiff),
			strconv.Itoa(s.TeamComp), strconv.Itoa(s.OppComp), strconv.Itoa(s.OpponentRowID),
		}
		for _, m := range s.Matchup {
			rec = append(rec, strconv.Itoa(m))
		}
		for _, v := range model.Variants {
			for _, lane := range lol.Lanes {
				rec = append(rec, formatFloat(s.LaneProb[v][lane]))
			}
		}
		for _, v := range model.Variants {
			rec = append(rec, formatFloat(s.WinProb[v]))
		}
		rec = append(rec, formatFloat(s.DraftDiff), split)
		if err := cw.Write(rec); err != nil {
			return errors.Wrapf(err, "writing row %d", s.ID)
		}
	}
	cw.Flush()
	return errors.Wrap(cw.Error(), "flushing scored table")
}

// WriteDraftValuesCSV writes per-team draft value curves, teams in sorted order.
func WriteDraftValuesCSV(w io.Writer, values map[string][]eval.DraftValue) error {
	teams := make([]string, 0, len(values))
	for team := range values {
		teams = append(teams, team)
	}
	sort.Strings(teams)

	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"teamname", "league", "date", "gameid", "draft_diff", "cumulative_draft_diff"}); err != nil {
		return errors.Wrap(err, "writing header")
	}
	for _, team := range teams {
		for _, v := range values[team] {
			if err := cw.Write([]string{v.Team, v.League, v.Date, v.GameID, formatFloat(v.Diff), formatFloat(v.Cumulative)}); err != nil {
				return errors.Wrapf(err, "writing draft value of %s", team)
			}
		}
	}
	cw.Flush()
	return errors.Wrap(cw.Error(), "flushing draft values")
}
