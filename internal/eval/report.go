package eval

import (
	"fmt"
	"math"
	"strings"

	"github.com/reallyasi9/lol-draft-model/internal/lol"
	"github.com/reallyasi9/lol-draft-model/internal/model"
)

// Predictions are fitted probabilities and outcomes for every table row.
type Predictions struct {
	Result []float64
	Leads  [lol.NumLanes][]float64
	Win    [model.NumVariants][]float64
	Lane   [model.NumVariants][lol.NumLanes][]float64
}

func (p Predictions) subset(rows []int, x []float64) []float64 {
	out := make([]float64, len(rows))
	for i, r := range rows {
		out[i] = x[r]
	}
	return out
}

// Report is the evaluation of both model variants on a set of rows.
type Report struct {
	Rows int
	Win  [model.NumVariants]Score
	// Lane is the equal-weight average over lanes; ByLane holds each lane.
	Lane        [model.NumVariants]Score
	ByLane      [model.NumVariants][lol.NumLanes]Score
	Calibration []Bin
	// LaneR2 is the R² of post-draft on draft-agnostic lane probability, per lane.
	LaneR2 [lol.NumLanes]float64
}

// Evaluate scores the predictions on the given rows, calibrating the post-draft win probability
// in bins equal-width bins.
func Evaluate(p Predictions, rows []int, bins int) (*Report, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("no rows to evaluate")
	}
	if bins < 1 {
		return nil, fmt.Errorf("calibration needs at least one bin, got %d", bins)
	}
	r := &Report{Rows: len(rows)}
	y := p.subset(rows, p.Result)
	for _, v := range model.Variants {
		s, err := Scores(p.subset(rows, p.Win[v]), y)
		if err != nil {
			return nil, fmt.Errorf("%s win: %w", v, err)
		}
		r.Win[v] = s

		for _, lane := range lol.Lanes {
			s, err := Scores(p.subset(rows, p.Lane[v][lane]), p.subset(rows, p.Leads[lane]))
			if err != nil {
				return nil, fmt.Errorf("%s %s lane: %w", v, lane, err)
			}
			r.ByLane[v][lane] = s
		}
		r.Lane[v] = Mean(r.ByLane[v][:]...)
	}
	r.Calibration = Calibration(p.subset(rows, p.Win[model.PostDraft]), y, bins)
	for _, lane := range lol.Lanes {
		r.LaneR2[lane] = RSquared(p.subset(rows, p.Lane[model.Agnostic][lane]), p.subset(rows, p.Lane[model.PostDraft][lane]))
	}
	return r, nil
}

func (r *Report) String() string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("evaluated rows: %d\n", r.Rows))
	b.WriteString(fmt.Sprintf("%-16s %10s %10s %10s %10s\n", "variant", "win brier", "win acc", "lane brier", "lane acc"))
	for _, v := range model.Variants {
		b.WriteString(fmt.Sprintf("%-16s %10.4f %10.4f %10.4f %10.4f\n", v, r.Win[v].Brier, r.Win[v].Accuracy, r.Lane[v].Brier, r.Lane[v].Accuracy))
	}
	b.WriteString("\nlane R² (post-draft on draft-agnostic)\n")
	for _, lane := range lol.Lanes {
		b.WriteString(fmt.Sprintf("  %-4s %8.4f\n", lane, r.LaneR2[lane]))
	}
	b.WriteString("\npost-draft win calibration\n")
	b.WriteString(fmt.Sprintf("  %-13s %6s %10s %10s\n", "bin", "n", "predicted", "observed"))
	for _, bin := range r.Calibration {
		if bin.Count == 0 || math.IsNaN(bin.MeanPredicted) {
			continue
		}
		b.WriteString(fmt.Sprintf("  [%.2f, %.2f) %6d %10.4f %10.4f\n", bin.Lo, bin.Hi, bin.Count, bin.MeanPredicted, bin.MeanObserved))
	}
	return b.String()
}
