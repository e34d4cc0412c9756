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

// WinProbColumn names the output column of a win model, e.g. "post_draft_win_prob".
func WinProbColumn(v Variant) string {
	return v.String() + "_win_prob"
}

// SelectMatchups returns the matchup columns whose absolute indicator count over the table
// reaches minGames. Column (j, i) is the negation of column (i, j) on every row, so only the
// i <= j half of the matrix is considered.
func SelectMatchups(t *match.Table, minGames int) []int {
	var out []int
	for i := 0; i < t.K; i++ {
		for j := i; j < t.K; j++ {
			c := i*t.K + j
			if t.MatchupCount(c) >= minGames {
				out = append(out, c)
			}
		}
	}
	return out
}

// WinDesign builds a win-model design over every table row from the given lane models.
// Matchups lists the matchup columns to include and is ignored by the draft-agnostic design.
func WinDesign(t *match.Table, lanes *LaneModels, v Variant, matchups []int) (*regress.Design, error) {
	terms := []regress.Term{
		term("side[Blue]", t.Rows, func(r match.Row) float64 { return indicator(r.Side == lol.Blue) }),
		term("side[Red]", t.Rows, func(r match.Row) float64 { return indicator(r.Side == lol.Red) }),
	}
	if v == Agnostic {
		terms = append(terms, term("elo_diff", t.Rows, func(r match.Row) float64 { return r.EloDiff }))
	}

	laneTerms := make([]regress.Term, 0, lol.NumLanes)
	for _, lane := range lol.Lanes {
		laneTerms = append(laneTerms, regress.Term{Name: LaneProbColumn(lane, lanes.Variant), Values: lanes.Prob(lane)})
	}
	terms = append(terms, laneTerms...)
	if v == Agnostic {
		return regress.NewDesign(terms)
	}

	terms = append(terms, interactions(laneTerms)...)
	for _, c := range matchups {
		c := c
		mt := term(t.MatchupColumns[c], t.Rows, func(r match.Row) float64 { return float64(r.Matchup[c]) })
		terms = append(terms, mt)
		for _, lt := range laneTerms {
			terms = append(terms, interactions([]regress.Term{mt, lt})...)
		}
	}
	return regress.NewDesign(terms)
}

// WinModel is a fitted win model with per-game renormalized probabilities for every table row.
type WinModel struct {
	Variant Variant
	Fit     *regress.Fit
	// Matchups are the included matchup column indices; empty for the draft-agnostic model.
	Matchups []int
	// Fingerprint identifies the training rows.
	Fingerprint uint64
	Raw         []float64
	Prob        []float64
}

// MatchupNames returns the names of the included matchup columns.
func (m *WinModel) MatchupNames(t *match.Table) []string {
	out := make([]string, len(m.Matchups))
	for i, c := range m.Matchups {
		out[i] = t.MatchupColumns[c]
	}
	return out
}

// FitWin fits a win model on the training rows and scores every table row. The draft-agnostic
// model is an L1-penalized logit without intercept; the post-draft model is an exact binomial
// GLM that only sees matchups observed at least MinMatchupGames times.
func FitWin(t *match.Table, split Split, lanes *LaneModels, v Variant, p Params) (*WinModel, error) {
	if lanes.Variant != v {
		return nil, fmt.Errorf("%s win model needs %s lane probabilities, got %s", v, v, lanes.Variant)
	}
	name := fmt.Sprintf("%s win", v)

	var matchups []int
	if v == PostDraft {
		matchups = SelectMatchups(t, p.MinMatchupGames)
	}
	d, err := WinDesign(t, lanes, v, matchups)
	if err != nil {
		return nil, errors.Wrap(err, name)
	}

	train := d.Subset(split.Train)
	y := labels(split.Train, func(i int) float64 { return float64(t.Rows[i].Result) })
	var fit *regress.Fit
	if v == Agnostic {
		fit, err = regress.FitLogitL1(name, train, y, p.WinAlpha, p.Fit)
	} else {
		fit, err = regress.FitGLM(name, train, y, p.Fit)
	}
	if err != nil {
		return nil, err
	}

	raw, err := fit.Predict(d)
	if err != nil {
		return nil, errors.Wrap(err, name)
	}
	trainRecords := make([]match.Record, len(split.Train))
	for i, r := range split.Train {
		trainRecords[i] = t.Rows[r].Record
	}

	m := &WinModel{
		Variant:     v,
		Fit:         fit,
		Matchups:    matchups,
		Fingerprint: match.Fingerprint(trainRecords),
		Raw:         raw,
		Prob:        Renormalize(t, raw),
	}
	logger.WithModel("win", v.String()).WithFields(logrus.Fields{
		"terms":       len(fit.Names),
		"matchups":    len(matchups),
		"iterations":  fit.Iterations,
		"fingerprint": fmt.Sprintf("%016x", m.Fingerprint),
	}).Debug("fitted win model")
	return m, nil
}

// Renormalize divides each row's probability by the sum over its game, so the rows of
// every game sum to one.
func Renormalize(t *match.Table, p []float64) []float64 {
	out := make([]float64, len(p))
	for _, g := range t.Games() {
		sum := 0.
		for _, i := range g {
			sum += p[i]
		}
		for _, i := range g {
			if sum > 0 {
				out[i] = p[i] / sum
			} else {
				out[i] = 1 / float64(len(g))
			}
		}
	}
	return out
}

func indicator(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
