package model

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/reallyasi9/lol-draft-model/internal/logger"
	"github.com/reallyasi9/lol-draft-model/internal/lol"
	"github.com/reallyasi9/lol-draft-model/internal/match"
	"github.com/reallyasi9/lol-draft-model/internal/regress"
	"github.com/sirupsen/logrus"
)

// LanePositions are the positions whose differentials inform each lane's lead.
var LanePositions = [lol.NumLanes][]lol.Position{
	lol.TopLane: {lol.Top, lol.Jungle},
	lol.MidLane: {lol.Middle, lol.Jungle},
	lol.BotLane: {lol.Bottom, lol.Jungle, lol.Support},
}

// LaneProbColumn names the output column of a lane model, e.g. "post_draft_bot_lead_prob".
func LaneProbColumn(lane lol.Lane, v Variant) string {
	return fmt.Sprintf("%s_%s_lead_prob", v, lane)
}

// LaneDesign builds the design of one lane model over every row of the table.
// The draft-agnostic design holds an intercept and one player differential per position;
// the post-draft design adds each position's power-spike differentials and the pairwise
// products of all of those draft columns.
func LaneDesign(t *match.Table, lane lol.Lane, v Variant) (*regress.Design, error) {
	intercept := term("Intercept", t.Rows, func(match.Row) float64 { return 1 })
	intercept.Unpenalized = true
	terms := []regress.Term{intercept}

	for _, pos := range LanePositions[lane] {
		pos := pos
		terms = append(terms, term(pos.String()+"_dif", t.Rows, func(r match.Row) float64 { return r.PlayerDiff[pos] }))
	}
	if v == PostDraft {
		var draftTerms []regress.Term
		for _, pos := range LanePositions[lane] {
			for _, s := range lol.Spikes {
				pos, s := pos, s
				name := fmt.Sprintf("%s_%s_diff", pos, s)
				draftTerms = append(draftTerms, term(name, t.Rows, func(r match.Row) float64 { return r.SpikeDiff[pos][s] }))
			}
		}
		terms = append(terms, draftTerms...)
		terms = append(terms, interactions(draftTerms)...)
	}
	return regress.NewDesign(terms)
}

// LaneFit is one fitted lane model with its fitted probability for every table row.
type LaneFit struct {
	Lane    lol.Lane
	Variant Variant
	Fit     *regress.Fit
	Prob    []float64
}

// LaneModels are the three lane models of one variant.
type LaneModels struct {
	Variant Variant
	Lanes   [lol.NumLanes]*LaneFit
}

// Prob returns the fitted lead probability of a lane for every table row.
func (m *LaneModels) Prob(lane lol.Lane) []float64 {
	return m.Lanes[lane].Prob
}

// FitLanes fits the three L1-penalized lane models of a variant on the training rows and
// scores every row of the table.
func FitLanes(t *match.Table, split Split, v Variant, p Params) (*LaneModels, error) {
	out := &LaneModels{Variant: v}
	for _, lane := range lol.Lanes {
		lf, err := fitLane(t, split, lane, v, p)
		if err != nil {
			return nil, err
		}
		out.Lanes[lane] = lf
	}
	return out, nil
}

func fitLane(t *match.Table, split Split, lane lol.Lane, v Variant, p Params) (*LaneFit, error) {
	name := fmt.Sprintf("%s %s lane", v, lane)
	d, err := LaneDesign(t, lane, v)
	if err != nil {
		return nil, errors.Wrap(err, name)
	}
	y := labels(split.Train, func(i int) float64 { return float64(t.Rows[i].LeadAt15[lane]) })

	fit, err := regress.FitLogitL1(name, d.Subset(split.Train), y, p.LaneAlpha, p.Fit)
	if err != nil {
		return nil, err
	}
	prob, err := fit.Predict(d)
	if err != nil {
		return nil, errors.Wrap(err, name)
	}

	logger.WithModel("lane_"+lane.String(), v.String()).WithFields(logrus.Fields{
		"terms":      len(fit.Names),
		"nonzero":    nonZero(fit.Coef),
		"iterations": fit.Iterations,
		"train_rows": len(split.Train),
	}).Debug("fitted lane model")

	return &LaneFit{Lane: lane, Variant: v, Fit: fit, Prob: prob}, nil
}

func nonZero(coef []float64) int {
	n := 0
	for _, c := range coef {
		if c != 0 {
			n++
		}
	}
	return n
}
