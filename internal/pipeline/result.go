package pipeline

import (
	"fmt"
	"math"
	"strings"

	"github.com/reallyasi9/lol-draft-model/internal/draft"
	"github.com/reallyasi9/lol-draft-model/internal/eval"
	"github.com/reallyasi9/lol-draft-model/internal/lol"
	"github.com/reallyasi9/lol-draft-model/internal/match"
	"github.com/reallyasi9/lol-draft-model/internal/model"
)

// ScoredRow is a joined row with every model output available. Missing outputs are NaN.
type ScoredRow struct {
	match.Row
	LaneProb [model.NumVariants][lol.NumLanes]float64
	WinProb  [model.NumVariants]float64
	// DraftDiff is the post-draft minus the draft-agnostic win probability.
	DraftDiff float64
	Test      bool
}

// Scored returns the augmented output table.
func (r *Result) Scored() []ScoredRow {
	if r.Table == nil {
		return nil
	}
	test := make(map[int]bool)
	if r.Split != nil {
		for _, i := range r.Split.Test {
			test[i] = true
		}
	}
	out := make([]ScoredRow, len(r.Table.Rows))
	for i, row := range r.Table.Rows {
		s := ScoredRow{Row: row, Test: test[i]}
		for _, v := range model.Variants {
			for _, lane := range lol.Lanes {
				s.LaneProb[v][lane] = math.NaN()
				if r.Lanes[v] != nil {
					s.LaneProb[v][lane] = r.Lanes[v].Prob(lane)[i]
				}
			}
			s.WinProb[v] = math.NaN()
			if r.Wins[v] != nil {
				s.WinProb[v] = r.Wins[v].Prob[i]
			}
		}
		s.DraftDiff = s.WinProb[model.PostDraft] - s.WinProb[model.Agnostic]
		out[i] = s
	}
	return out
}

// Predictions collects outcomes and fitted probabilities for evaluation.
func (r *Result) Predictions() eval.Predictions {
	var p eval.Predictions
	n := len(r.Table.Rows)
	p.Result = make([]float64, n)
	for _, lane := range lol.Lanes {
		p.Leads[lane] = make([]float64, n)
	}
	for i, row := range r.Table.Rows {
		p.Result[i] = float64(row.Result)
		for _, lane := range lol.Lanes {
			p.Leads[lane][i] = float64(row.LeadAt15[lane])
		}
	}
	for _, v := range model.Variants {
		if r.Wins[v] != nil {
			p.Win[v] = r.Wins[v].Prob
		}
		if r.Lanes[v] != nil {
			for _, lane := range lol.Lanes {
				p.Lane[v][lane] = r.Lanes[v].Prob(lane)
			}
		}
	}
	return p
}

// DraftValues returns the per-team draft value curves of the filtered rows.
func (r *Result) DraftValues(f eval.Filter) (map[string][]eval.DraftValue, error) {
	if r.Wins[model.PostDraft] == nil || r.Wins[model.Agnostic] == nil {
		return nil, fmt.Errorf("draft value needs both win models")
	}
	return eval.DraftValues(r.Table.Rows, r.Wins[model.PostDraft].Prob, r.Wins[model.Agnostic].Prob, f), nil
}

func (r *Result) String() string {
	var b strings.Builder
	if r.Centroids != nil {
		b.WriteString("archetype centroids\n")
		b.WriteString(draft.FormatCentroids(r.Centroids))
		b.WriteString("\n")
	}
	if r.Join != nil {
		b.WriteString(fmt.Sprintf("joined rows: %d of %d (%d without draft, %d games dropped)\n",
			r.Join.OutputRows, r.Join.InputRows, r.Join.MissingDraft, len(r.Join.Dropped)))
	}
	for _, v := range model.Variants {
		if w := r.Wins[v]; w != nil {
			b.WriteString("\n")
			b.WriteString(w.Fit.String())
			if v == model.PostDraft {
				b.WriteString(fmt.Sprintf("matchups included: %s\n", strings.Join(w.MatchupNames(r.Table), ", ")))
			}
		}
	}
	if r.Report != nil {
		b.WriteString("\n")
		b.WriteString(r.Report.String())
	}
	return b.String()
}
