// Package match pairs each team's game row with its opponent's row and derives
// composition-matchup features.
package match

import (
	"fmt"
	"sort"

	"github.com/reallyasi9/lol-draft-model/internal/lol"
	"github.com/segmentio/fasthash/jody"
)

// Unresolved marks a missing opponent row or archetype.
const Unresolved = -1

// Record is one team's row of one game, as loaded from the match table.
type Record struct {
	ID       int
	GameID   string
	Team     string
	Opponent string
	Date     string
	League   string
	Side     lol.Side
	Result   int
	EloDiff  float64

	Champions  lol.Picks
	PlayerDiff [lol.NumPositions]float64
	LeadAt15   [lol.NumLanes]int
}

// TeamPicks returns the record's draft.
func (r Record) TeamPicks() lol.TeamPicks {
	return lol.TeamPicks{RowID: r.ID, Picks: r.Champions}
}

// SortRecords returns a copy of records in increasing ID order, the stable total order
// shared by every table derived from it. Duplicate IDs are rejected.
func SortRecords(records []Record) ([]Record, error) {
	out := append([]Record(nil), records...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	for i := 1; i < len(out); i++ {
		if out[i].ID == out[i-1].ID {
			return nil, &lol.DataFormatError{Field: "id", Reason: fmt.Sprintf("duplicate row id %d", out[i].ID)}
		}
	}
	return out, nil
}

// Fingerprint hashes the identity of every row (row id, game, team and result) in order.
// Two tables with equal fingerprints select the same training rows.
func Fingerprint(records []Record) uint64 {
	h := jody.HashString64("")
	for _, r := range records {
		h = jody.AddUint64(h, uint64(r.ID))
		h = jody.AddString64(h, r.GameID)
		h = jody.AddString64(h, r.Team)
		h = jody.AddUint64(h, uint64(r.Result))
	}
	return h
}
