package draft

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/reallyasi9/lol-draft-model/internal/cluster"
)

// Options configure archetype clustering.
type Options struct {
	K        int
	Restarts int
	MaxIter  int
	Tol      float64
	Seed     int64
}

// Labeled is a draft vector with its composition archetype.
type Labeled struct {
	Vector
	TeamComp int
}

// Cluster standardizes the clustering features over the full input and assigns each
// vector one of K archetype labels. Label numbering is only meaningful within one run.
func Cluster(vectors []Vector, opts Options) ([]Labeled, error) {
	x := make([][]float64, len(vectors))
	for i, v := range vectors {
		x[i] = v.Features()
	}
	z, _, _ := cluster.Standardize(x)

	km := cluster.KMeans{K: opts.K, Restarts: opts.Restarts, MaxIter: opts.MaxIter, Tol: opts.Tol, Seed: opts.Seed}
	res, err := km.Fit(z)
	if err != nil {
		return nil, fmt.Errorf("clustering %d drafts: %w", len(vectors), err)
	}

	out := make([]Labeled, len(vectors))
	for i, v := range vectors {
		out[i] = Labeled{Vector: v, TeamComp: res.Labels[i]}
	}
	return out, nil
}

// Centroid is the mean of the raw clustering features of one archetype.
type Centroid struct {
	TeamComp int
	Count    int
	Means    []float64
}

// Centroids groups the raw (unstandardized) features by archetype label, in label order.
// Archetypes with no members are omitted.
func Centroids(labeled []Labeled) []Centroid {
	byLabel := make(map[int]*Centroid)
	for _, l := range labeled {
		c, ok := byLabel[l.TeamComp]
		if !ok {
			c = &Centroid{TeamComp: l.TeamComp, Means: make([]float64, len(FeatureNames))}
			byLabel[l.TeamComp] = c
		}
		c.Count++
		for j, f := range l.Features() {
			c.Means[j] += f
		}
	}

	out := make([]Centroid, 0, len(byLabel))
	for _, c := range byLabel {
		for j := range c.Means {
			c.Means[j] /= float64(c.Count)
		}
		out = append(out, *c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].TeamComp < out[j].TeamComp })
	return out
}

// AlignLabels maps each archetype label of other onto the label of the nearest
// centroid in ref, so archetypes from separate runs can be compared. Pairs are
// matched greedily by increasing distance and each ref label is used at most once.
func AlignLabels(ref, other []Centroid) map[int]int {
	type pair struct {
		o, r int
		d    float64
	}
	pairs := make([]pair, 0, len(ref)*len(other))
	for _, o := range other {
		for _, r := range ref {
			d := 0.
			for j := range o.Means {
				diff := o.Means[j] - r.Means[j]
				d += diff * diff
			}
			pairs = append(pairs, pair{o: o.TeamComp, r: r.TeamComp, d: math.Sqrt(d)})
		}
	}
	sort.SliceStable(pairs, func(i, j int) bool { return pairs[i].d < pairs[j].d })

	out := make(map[int]int)
	used := make(map[int]bool)
	for _, p := range pairs {
		if _, done := out[p.o]; done || used[p.r] {
			continue
		}
		out[p.o] = p.r
		used[p.r] = true
	}
	return out
}

// FormatCentroids renders centroids as a fixed-width table.
func FormatCentroids(cs []Centroid) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("%-9s %6s", "team_comp", "n"))
	for _, name := range FeatureNames {
		b.WriteString(fmt.Sprintf(" %16s", name))
	}
	b.WriteString("\n")
	for _, c := range cs {
		b.WriteString(fmt.Sprintf("%-9d %6d", c.TeamComp, c.Count))
		for _, m := range c.Means {
			b.WriteString(fmt.Sprintf(" %16.3f", m))
		}
		b.WriteString("\n")
	}
	return b.String()
}
