// Package model fits the lane-lead and match-win models over a joined match table.
package model

import (
	"fmt"
	"math"
	"math/rand"
	"sort"

	"github.com/reallyasi9/lol-draft-model/internal/match"
	"github.com/reallyasi9/lol-draft-model/internal/regress"
)

// Variant selects whether a model may use draft information.
type Variant int

const (
	Agnostic Variant = iota
	PostDraft
)

// NumVariants is the number of model variants.
const NumVariants = 2

// Variants lists both variants.
var Variants = [NumVariants]Variant{Agnostic, PostDraft}

func (v Variant) String() string {
	switch v {
	case Agnostic:
		return "draft_agnostic"
	case PostDraft:
		return "post_draft"
	default:
		return fmt.Sprintf("Variant(%d)", int(v))
	}
}

// Params are the explicit model parameters.
type Params struct {
	LaneAlpha       float64
	WinAlpha        float64
	MinMatchupGames int
	Fit             regress.Options
}

// Split holds ascending row indices of the training and test partitions.
type Split struct {
	Train []int
	Test  []int
}

// SplitByGame puts round(testFraction * games) games, chosen by a seeded shuffle, in the
// test partition. Both rows of a game always land in the same partition.
func SplitByGame(t *match.Table, testFraction float64, seed int64) (Split, error) {
	if testFraction < 0 || testFraction >= 1 {
		return Split{}, fmt.Errorf("test fraction must be in [0,1), got %g", testFraction)
	}
	games := t.Games()
	nTest := int(math.Round(testFraction * float64(len(games))))

	rng := rand.New(rand.NewSource(seed))
	perm := rng.Perm(len(games))

	var s Split
	for rank, g := range perm {
		if rank < nTest {
			s.Test = append(s.Test, games[g]...)
		} else {
			s.Train = append(s.Train, games[g]...)
		}
	}
	sort.Ints(s.Train)
	sort.Ints(s.Test)
	return s, nil
}

// term builds a design column by evaluating f on every row.
func term(name string, rows []match.Row, f func(match.Row) float64) regress.Term {
	v := make([]float64, len(rows))
	for i, r := range rows {
		v[i] = f(r)
	}
	return regress.Term{Name: name, Values: v}
}

// interactions returns the elementwise product a:b of every unordered pair of distinct terms.
func interactions(terms []regress.Term) []regress.Term {
	var out []regress.Term
	for a := 0; a < len(terms); a++ {
		for b := a + 1; b < len(terms); b++ {
			v := make([]float64, len(terms[a].Values))
			for i := range v {
				v[i] = terms[a].Values[i] * terms[b].Values[i]
			}
			out = append(out, regress.Term{Name: terms[a].Name + ":" + terms[b].Name, Values: v})
		}
	}
	return out
}

func labels(rows []int, f func(int) float64) []float64 {
	y := make([]float64, len(rows))
	for i, r := range rows {
		y[i] = f(r)
	}
	return y
}
