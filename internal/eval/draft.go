package eval

import (
	"sort"

	"github.com/reallyasi9/lol-draft-model/internal/match"
)

// DraftValue is the win probability a team's draft added in one game.
type DraftValue struct {
	Team   string
	League string
	Date   string
	GameID string
	// Diff is the post-draft minus the draft-agnostic win probability.
	Diff       float64
	Cumulative float64
}

// Filter restricts draft values to a league and a date range. Empty fields match everything;
// dates compare as ISO-8601 strings.
type Filter struct {
	League string
	Since  string
	Until  string
}

func (f Filter) match(r match.Row) bool {
	if f.League != "" && r.League != f.League {
		return false
	}
	if f.Since != "" && r.Date < f.Since {
		return false
	}
	if f.Until != "" && r.Date > f.Until {
		return false
	}
	return true
}

// DraftValues returns, per team, the draft value of every game passing the filter in
// date order (game id breaks ties) with its running sum.
func DraftValues(rows []match.Row, postDraft, agnostic []float64, f Filter) map[string][]DraftValue {
	byTeam := make(map[string][]DraftValue)
	for i, r := range rows {
		if !f.match(r) {
			continue
		}
		byTeam[r.Team] = append(byTeam[r.Team], DraftValue{
			Team:   r.Team,
			League: r.League,
			Date:   r.Date,
			GameID: r.GameID,
			Diff:   postDraft[i] - agnostic[i],
		})
	}
	for _, vs := range byTeam {
		sort.SliceStable(vs, func(i, j int) bool {
			if vs[i].Date != vs[j].Date {
				return vs[i].Date < vs[j].Date
			}
			return vs[i].GameID < vs[j].GameID
		})
		sum := 0.
		for i := range vs {
			sum += vs[i].Diff
			vs[i].Cumulative = sum
		}
	}
	return byTeam
}

// TeamArchetypes counts how often a team drafted each archetype.
type TeamArchetypes struct {
	Team   string
	Counts []int
}

// ArchetypeFrequencies counts archetype picks per team over the filtered rows, sorted by team.
func ArchetypeFrequencies(rows []match.Row, k int, f Filter) []TeamArchetypes {
	counts := make(map[string][]int)
	for _, r := range rows {
		if !f.match(r) || r.TeamComp < 0 || r.TeamComp >= k {
			continue
		}
		c, ok := counts[r.Team]
		if !ok {
			c = make([]int, k)
			counts[r.Team] = c
		}
		c[r.TeamComp]++
	}
	out := make([]TeamArchetypes, 0, len(counts))
	for team, c := range counts {
		out = append(out, TeamArchetypes{Team: team, Counts: c})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Team < out[j].Team })
	return out
}
