package eval

import (
	"math"
	"testing"

	"github.com/reallyasi9/lol-draft-model/internal/lol"
	"github.com/reallyasi9/lol-draft-model/internal/match"
	"github.com/reallyasi9/lol-draft-model/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScores(t *testing.T) {
	s, err := Scores([]float64{0.9, 0.2, 0.6, 0.4}, []float64{1, 0, 0, 0})
	require.NoError(t, err)
	assert.Equal(t, 4, s.N)
	assert.InDelta(t, (0.01+0.04+0.36+0.16)/4, s.Brier, 1e-12)
	assert.Equal(t, 0.75, s.Accuracy)

	_, err = Scores([]float64{0.5}, nil)
	assert.Error(t, err)
	_, err = Scores(nil, nil)
	assert.Error(t, err)
}

func TestMean(t *testing.T) {
	m := Mean(Score{N: 2, Brier: 0.1, Accuracy: 1}, Score{N: 2, Brier: 0.3, Accuracy: 0.5})
	assert.Equal(t, 4, m.N)
	assert.InDelta(t, 0.2, m.Brier, 1e-12)
	assert.InDelta(t, 0.75, m.Accuracy, 1e-12)
}

func TestCalibration(t *testing.T) {
	bins := Calibration([]float64{0.05, 0.1, 0.15, 0.95, 1}, []float64{0, 1, 0, 1, 1}, 4)
	require.Len(t, bins, 4)

	assert.Equal(t, 3, bins[0].Count)
	assert.InDelta(t, 0.1, bins[0].MeanPredicted, 1e-12)
	assert.InDelta(t, 1/3., bins[0].MeanObserved, 1e-12)

	assert.Equal(t, 0, bins[1].Count)
	assert.True(t, math.IsNaN(bins[1].MeanPredicted))

	assert.Equal(t, 2, bins[3].Count, "p == 1 falls in the last bin")
	assert.Equal(t, 0.75, bins[3].Lo)
	assert.Equal(t, 1., bins[3].Hi)
}

func TestRSquared(t *testing.T) {
	x := []float64{0.1, 0.2, 0.3, 0.4}
	assert.InDelta(t, 1, RSquared(x, []float64{0.3, 0.5, 0.7, 0.9}), 1e-12)
	assert.Less(t, RSquared(x, []float64{0.5, 0.1, 0.9, 0.2}), 0.5)
}

func rows() []match.Row {
	r := func(team, league, date, game string, comp int) match.Row {
		return match.Row{Record: match.Record{Team: team, League: league, Date: date, GameID: game}, TeamComp: comp}
	}
	return []match.Row{
		r("A", "LCK", "2023-02-01", "g2", 1),
		r("B", "LCK", "2023-02-01", "g2", 0),
		r("A", "LCK", "2023-01-01", "g1", 1),
		r("C", "LCK", "2023-01-01", "g1", 2),
		r("A", "LEC", "2023-03-01", "g3", 0),
		r("D", "LEC", "2023-03-01", "g3", 0),
	}
}

func TestDraftValues(t *testing.T) {
	post := []float64{0.6, 0.4, 0.7, 0.3, 0.5, 0.5}
	agnostic := []float64{0.5, 0.5, 0.5, 0.5, 0.45, 0.55}

	all := DraftValues(rows(), post, agnostic, Filter{})
	require.Len(t, all["A"], 3)
	assert.Equal(t, []string{"g1", "g2", "g3"}, []string{all["A"][0].GameID, all["A"][1].GameID, all["A"][2].GameID})
	assert.InDelta(t, 0.2, all["A"][0].Cumulative, 1e-12)
	assert.InDelta(t, 0.3, all["A"][1].Cumulative, 1e-12)
	assert.InDelta(t, 0.35, all["A"][2].Cumulative, 1e-12)

	lck := DraftValues(rows(), post, agnostic, Filter{League: "LCK", Since: "2023-01-15"})
	require.Len(t, lck["A"], 1)
	assert.InDelta(t, 0.1, lck["A"][0].Cumulative, 1e-12)
	assert.NotContains(t, lck, "C")
	assert.NotContains(t, lck, "D")
}

func TestArchetypeFrequencies(t *testing.T) {
	freq := ArchetypeFrequencies(rows(), 3, Filter{})
	require.Len(t, freq, 4)
	assert.Equal(t, TeamArchetypes{Team: "A", Counts: []int{1, 2, 0}}, freq[0])
	assert.Equal(t, TeamArchetypes{Team: "C", Counts: []int{0, 0, 1}}, freq[2])

	lec := ArchetypeFrequencies(rows(), 3, Filter{League: "LEC"})
	assert.Equal(t, []TeamArchetypes{{Team: "A", Counts: []int{1, 0, 0}}, {Team: "D", Counts: []int{1, 0, 0}}}, lec)
}

func TestEvaluate(t *testing.T) {
	n := 40
	var p Predictions
	p.Result = make([]float64, n)
	for i := range p.Result {
		p.Result[i] = float64(i % 2)
	}
	for _, lane := range lol.Lanes {
		p.Leads[lane] = p.Result
	}
	for _, v := range model.Variants {
		p.Win[v] = make([]float64, n)
		for i := range p.Win[v] {
			p.Win[v][i] = 0.3 + 0.4*p.Result[i]
			if v == model.Agnostic {
				p.Win[v][i] = 0.6
			}
		}
		for _, lane := range lol.Lanes {
			lp := make([]float64, n)
			for i := range lp {
				lp[i] = 0.2 + 0.6*p.Result[i] + 0.01*float64(int(v)+i%3)
			}
			p.Lane[v][lane] = lp
		}
	}

	rowsIdx := []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}
	r, err := Evaluate(p, rowsIdx, 10)
	require.NoError(t, err)
	assert.Equal(t, 10, r.Rows)
	assert.InDelta(t, 0.09, r.Win[model.PostDraft].Brier, 1e-12)
	assert.Equal(t, 1., r.Win[model.PostDraft].Accuracy)
	assert.Equal(t, 0.5, r.Win[model.Agnostic].Accuracy)
	assert.Equal(t, 1., r.Lane[model.PostDraft].Accuracy)
	for _, lane := range lol.Lanes {
		assert.InDelta(t, 1, r.LaneR2[lane], 1e-9)
	}
	assert.Equal(t, 5, r.Calibration[3].Count)
	assert.Equal(t, 5, r.Calibration[7].Count)
	assert.Contains(t, r.String(), "post_draft")

	_, err = Evaluate(p, nil, 10)
	assert.Error(t, err)
	_, err = Evaluate(p, rowsIdx, 0)
	assert.Error(t, err)
}
