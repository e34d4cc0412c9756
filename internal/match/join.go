package match

import (
	"fmt"

	"github.com/reallyasi9/lol-draft-model/internal/draft"
	"github.com/reallyasi9/lol-draft-model/internal/lol"
)

// Row is a joined match row: a record with both teams' archetypes, champion
// differentials against the opposing laner and composition-matchup indicators.
type Row struct {
	Record
	OpponentRowID int
	TeamComp      int
	OppComp       int

	// SpikeDiff is own minus opponent champion power-spike weight, per position and phase.
	SpikeDiff [lol.NumPositions][lol.NumSpikes]float64
	APDiff    [lol.NumPositions]float64
	ADDiff    [lol.NumPositions]float64

	// Matchup holds the signed indicator for archetype pair (i, j) at index i*K+j.
	Matchup []int
}

// Table is the cleaned, joined match table.
type Table struct {
	K              int
	Rows           []Row
	MatchupColumns []string
}

// JoinOptions configure the joiner.
type JoinOptions struct {
	K    int
	Link Linker
}

// JoinReport accounts for every input row that did not reach the joined table.
type JoinReport struct {
	InputRows int
	// MissingDraft counts match records with no clustered draft.
	MissingDraft int
	Dropped      []*lol.DataQualityError
	OutputRows   int
}

// DroppedGames returns the ids of the dropped games.
func (r *JoinReport) DroppedGames() []string {
	out := make([]string, len(r.Dropped))
	for i, d := range r.Dropped {
		out[i] = d.GameID
	}
	return out
}

// MatchupColumn names the indicator column for own archetype i against opponent archetype j.
func MatchupColumn(i, j int) string {
	return fmt.Sprintf("team_comp%d_v_opp_comp%d", i, j)
}

// MatchupColumns lists all K*K indicator columns in index order.
func MatchupColumns(k int) []string {
	out := make([]string, 0, k*k)
	for i := 0; i < k; i++ {
		for j := 0; j < k; j++ {
			out = append(out, MatchupColumn(i, j))
		}
	}
	return out
}

// MatchupIndicators encodes one row's matchup. Column (own, opp) is +1; when the archetypes
// differ, the mirrored column (opp, own) is -1, so the opposing row carries the opposite sign
// and a single coefficient describes the matchup from both sides. When both teams share an
// archetype, both rows carry +1 in the same column. An unresolved archetype yields all zeros.
func MatchupIndicators(own, opp, k int) []int {
	out := make([]int, k*k)
	if own < 0 || own >= k || opp < 0 || opp >= k {
		return out
	}
	out[own*k+opp] = 1
	if own != opp {
		out[opp*k+own] = -1
	}
	return out
}

// Join inner-joins the match records with the clustered drafts on row id, resolves each row's
// opponent, derives matchup indicators and champion differentials, and drops every game whose
// opponent resolution is inconsistent. Dropped games are reported, not repaired.
func Join(records []Record, drafts []draft.Labeled, cm lol.ChampionMap, opts JoinOptions) (*Table, *JoinReport, error) {
	if opts.K < 1 {
		return nil, nil, fmt.Errorf("archetype count must be positive, got %d", opts.K)
	}
	link := opts.Link
	if link == nil {
		link = LinkOpponents
	}

	sorted, err := SortRecords(records)
	if err != nil {
		return nil, nil, err
	}
	report := &JoinReport{InputRows: len(sorted)}

	comps := make(map[int]int, len(drafts))
	for _, d := range drafts {
		if d.TeamComp < 0 || d.TeamComp >= opts.K {
			return nil, nil, fmt.Errorf("row %d has archetype %d outside [0,%d)", d.RowID, d.TeamComp, opts.K)
		}
		comps[d.RowID] = d.TeamComp
	}

	joined := make([]Record, 0, len(sorted))
	for _, r := range sorted {
		if _, ok := comps[r.ID]; !ok {
			report.MissingDraft++
			continue
		}
		joined = append(joined, r)
	}

	opponents := link(joined)
	rows := make([]Row, len(joined))
	for i, r := range joined {
		row := Row{
			Record:        r,
			OpponentRowID: Unresolved,
			TeamComp:      comps[r.ID],
			OppComp:       Unresolved,
		}
		if j := opponents[i]; j != Unresolved {
			opp := joined[j]
			row.OpponentRowID = opp.ID
			row.OppComp = comps[opp.ID]
			if err := row.setDiffs(opp, cm); err != nil {
				return nil, nil, err
			}
		}
		row.Matchup = MatchupIndicators(row.TeamComp, row.OppComp, opts.K)
		rows[i] = row
	}

	kept, dropped := filterGames(rows, opts.K)
	report.Dropped = dropped
	report.OutputRows = len(kept)

	return &Table{K: opts.K, Rows: kept, MatchupColumns: MatchupColumns(opts.K)}, report, nil
}

func (row *Row) setDiffs(opp Record, cm lol.ChampionMap) error {
	for _, pos := range lol.Positions {
		own, ok := cm[row.Champions[pos]]
		if !ok {
			return &lol.UnknownChampionError{Champion: row.Champions[pos], RowID: row.ID, Position: pos}
		}
		their, ok := cm[opp.Champions[pos]]
		if !ok {
			return &lol.UnknownChampionError{Champion: opp.Champions[pos], RowID: opp.ID, Position: pos}
		}
		for _, s := range lol.Spikes {
			row.SpikeDiff[pos][s] = float64(own.Spikes[s] - their.Spikes[s])
		}
		row.APDiff[pos] = float64(own.AP - their.AP)
		row.ADDiff[pos] = float64(own.AD - their.AD)
	}
	return nil
}

// filterGames keeps games made of exactly two mutually linked rows whose matchup
// columns each sum to 0 or 2, preserving row order.
func filterGames(rows []Row, k int) ([]Row, []*lol.DataQualityError) {
	var order []string
	byGame := make(map[string][]int)
	for i, r := range rows {
		if _, ok := byGame[r.GameID]; !ok {
			order = append(order, r.GameID)
		}
		byGame[r.GameID] = append(byGame[r.GameID], i)
	}

	bad := make(map[string]bool)
	var dropped []*lol.DataQualityError
	for _, game := range order {
		if reason := checkGame(rows, byGame[game], k); reason != "" {
			bad[game] = true
			dropped = append(dropped, &lol.DataQualityError{GameID: game, Reason: reason})
		}
	}

	kept := make([]Row, 0, len(rows))
	for _, r := range rows {
		if !bad[r.GameID] {
			kept = append(kept, r)
		}
	}
	return kept, dropped
}

func checkGame(rows []Row, idx []int, k int) string {
	if len(idx) != 2 {
		return fmt.Sprintf("expected 2 rows, found %d", len(idx))
	}
	a, b := rows[idx[0]], rows[idx[1]]
	if a.OppComp == Unresolved || b.OppComp == Unresolved {
		return "opponent unresolved"
	}
	if a.OpponentRowID != b.ID || b.OpponentRowID != a.ID {
		return "rows are not linked to each other"
	}
	for c := 0; c < k*k; c++ {
		if s := a.Matchup[c] + b.Matchup[c]; s != 0 && s != 2 {
			return fmt.Sprintf("%s sums to %d", MatchupColumn(c/k, c%k), s)
		}
	}
	return ""
}

// MatchupCount is the absolute indicator sum of column c over the table.
func (t *Table) MatchupCount(c int) int {
	n := 0
	for _, r := range t.Rows {
		if r.Matchup[c] < 0 {
			n -= r.Matchup[c]
		} else {
			n += r.Matchup[c]
		}
	}
	return n
}

// Records returns the records underlying the table's rows, in order.
func (t *Table) Records() []Record {
	out := make([]Record, len(t.Rows))
	for i, r := range t.Rows {
		out[i] = r.Record
	}
	return out
}

// Games groups row indices by game id in order of first appearance.
func (t *Table) Games() [][]int {
	var out [][]int
	pos := make(map[string]int)
	for i, r := range t.Rows {
		g, ok := pos[r.GameID]
		if !ok {
			g = len(out)
			pos[r.GameID] = g
			out = append(out, nil)
		}
		out[g] = append(out[g], i)
	}
	return out
}
