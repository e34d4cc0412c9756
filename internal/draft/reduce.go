// Package draft reduces team drafts to feature vectors and clusters them into archetypes.
package draft

import (
	"github.com/reallyasi9/lol-draft-model/internal/lol"
)

// Vector is a team's draft summed over its five champions.
type Vector struct {
	RowID        int
	Roles        [lol.NumRoles]int
	Spikes       [lol.NumSpikes]int
	AP           int
	AD           int
	NoDamageType int
}

// FeatureNames are the clustering features, in the order returned by Features.
// The raw AP and AD sums are not clustered on.
var FeatureNames = func() []string {
	names := make([]string, 0, lol.NumRoles+lol.NumSpikes+1)
	for _, r := range lol.Roles {
		names = append(names, r.Column())
	}
	for _, s := range lol.Spikes {
		names = append(names, s.String())
	}
	return append(names, "no_damage_type")
}()

// Features returns the clustering features of the vector.
func (v Vector) Features() []float64 {
	out := make([]float64, 0, len(FeatureNames))
	for _, n := range v.Roles {
		out = append(out, float64(n))
	}
	for _, s := range v.Spikes {
		out = append(out, float64(s))
	}
	return append(out, float64(v.NoDamageType))
}

// RoleCount is the number of teammates tallied across all roles.
func (v Vector) RoleCount() int {
	n := 0
	for _, c := range v.Roles {
		n += c
	}
	return n
}

// Reduce sums the five drafted champions of one team into a Vector.
// A team drafting only one damage type is flagged with NoDamageType.
func Reduce(picks lol.TeamPicks, cm lol.ChampionMap) (Vector, error) {
	v := Vector{RowID: picks.RowID}
	for _, pos := range lol.Positions {
		name := picks.Picks[pos]
		champ, ok := cm[name]
		if !ok {
			return Vector{}, &lol.UnknownChampionError{Champion: name, RowID: picks.RowID, Position: pos}
		}
		v.Roles[champ.Role]++
		for _, s := range lol.Spikes {
			v.Spikes[s] += champ.Spikes[s]
		}
		v.AP += champ.AP
		v.AD += champ.AD
	}
	if v.AP == 0 || v.AD == 0 {
		v.NoDamageType = 1
	}
	return v, nil
}

// ReduceAll reduces every team draft, preserving input order. The first unknown champion aborts.
func ReduceAll(drafts []lol.TeamPicks, cm lol.ChampionMap) ([]Vector, error) {
	out := make([]Vector, len(drafts))
	for i, d := range drafts {
		v, err := Reduce(d, cm)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}
