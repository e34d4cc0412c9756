// Package pipeline runs the stages from champion drafts to evaluated win probabilities.
// Every stage returns a new Result; earlier stage outputs are never modified.
package pipeline

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/reallyasi9/lol-draft-model/internal/config"
	"github.com/reallyasi9/lol-draft-model/internal/draft"
	"github.com/reallyasi9/lol-draft-model/internal/eval"
	"github.com/reallyasi9/lol-draft-model/internal/logger"
	"github.com/reallyasi9/lol-draft-model/internal/lol"
	"github.com/reallyasi9/lol-draft-model/internal/match"
	"github.com/reallyasi9/lol-draft-model/internal/model"
	"github.com/reallyasi9/lol-draft-model/internal/regress"
	"github.com/sirupsen/logrus"
)

// Inputs are the two source tables.
type Inputs struct {
	Champions lol.ChampionMap
	Records   []match.Record
}

// Result accumulates stage outputs. A nil field means its stage has not run.
type Result struct {
	Config    config.Config
	Records   []match.Record
	Drafts    []draft.Labeled
	Centroids []draft.Centroid
	Table     *match.Table
	Join      *match.JoinReport
	Split     *model.Split
	Lanes     [model.NumVariants]*model.LaneModels
	Wins      [model.NumVariants]*model.WinModel
	Report    *eval.Report
}

func (r *Result) with(f func(*Result)) *Result {
	next := *r
	f(&next)
	return &next
}

// Params translates the configuration into model parameters.
func Params(cfg config.Config) model.Params {
	return model.Params{
		LaneAlpha:       cfg.LaneAlpha,
		WinAlpha:        cfg.WinAlpha,
		MinMatchupGames: cfg.MinMatchupGames,
		Fit:             regress.Options{MaxIter: cfg.FitMaxIter, Tol: cfg.FitTolerance},
	}
}

// Linker returns the opponent linking rule named by the configuration.
func Linker(cfg config.Config) match.Linker {
	if cfg.OpponentLinking == config.LinkByAdjacency {
		return match.LinkAdjacent
	}
	return match.LinkOpponents
}

// Run executes every stage. On failure it returns the result of the last completed stage
// together with the error.
func Run(in Inputs, cfg config.Config) (*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}
	records, err := match.SortRecords(in.Records)
	if err != nil {
		return nil, err
	}
	r := &Result{Config: cfg, Records: records}

	stages := []struct {
		name string
		run  func(*Result, lol.ChampionMap) (*Result, error)
	}{
		{"cluster", Cluster},
		{"join", Join},
		{"split", Split},
		{"lanes", FitLanes},
		{"wins", FitWins},
		{"evaluate", Evaluate},
	}
	for _, s := range stages {
		next, err := s.run(r, in.Champions)
		if err != nil {
			if next != nil {
				r = next
			}
			return r, errors.Wrapf(err, "stage %s", s.name)
		}
		r = next
	}
	return r, nil
}

// Cluster reduces every record's draft and assigns composition archetypes.
func Cluster(r *Result, cm lol.ChampionMap) (*Result, error) {
	picks := make([]lol.TeamPicks, len(r.Records))
	for i, rec := range r.Records {
		picks[i] = rec.TeamPicks()
	}
	vectors, err := draft.ReduceAll(picks, cm)
	if err != nil {
		return nil, err
	}
	labeled, err := draft.Cluster(vectors, draft.Options{
		K:        r.Config.Clusters,
		Restarts: r.Config.ClusterRestarts,
		MaxIter:  r.Config.ClusterMaxIter,
		Tol:      r.Config.ClusterTolerance,
		Seed:     r.Config.ClusterSeed,
	})
	if err != nil {
		return nil, err
	}
	centroids := draft.Centroids(labeled)
	logger.WithStage("cluster").WithFields(logrus.Fields{
		"drafts":     len(labeled),
		"archetypes": len(centroids),
	}).Info("clustered drafts")

	return r.with(func(n *Result) {
		n.Drafts = labeled
		n.Centroids = centroids
	}), nil
}

// Join pairs opponents and drops inconsistent games.
func Join(r *Result, cm lol.ChampionMap) (*Result, error) {
	if r.Drafts == nil {
		return nil, fmt.Errorf("join needs clustered drafts")
	}
	table, report, err := match.Join(r.Records, r.Drafts, cm, match.JoinOptions{K: r.Config.Clusters, Link: Linker(r.Config)})
	if err != nil {
		return nil, err
	}
	log := logger.WithStage("join")
	for _, d := range report.Dropped {
		log.WithField("game", d.GameID).Debug(d.Reason)
	}
	log.WithFields(logrus.Fields{
		"input_rows":    report.InputRows,
		"missing_draft": report.MissingDraft,
		"dropped_games": len(report.Dropped),
		"rows":          report.OutputRows,
		"linking":       r.Config.OpponentLinking,
	}).Info("joined matches")
	if len(table.Rows) == 0 {
		return nil, fmt.Errorf("no games survived the join")
	}

	return r.with(func(n *Result) {
		n.Table = table
		n.Join = report
	}), nil
}

// Split partitions the joined games into training and test rows.
func Split(r *Result, _ lol.ChampionMap) (*Result, error) {
	if r.Table == nil {
		return nil, fmt.Errorf("split needs a joined table")
	}
	s, err := model.SplitByGame(r.Table, r.Config.TestFraction, r.Config.SplitSeed)
	if err != nil {
		return nil, err
	}
	logger.WithStage("split").WithFields(logrus.Fields{
		"train_rows": len(s.Train),
		"test_rows":  len(s.Test),
		"seed":       r.Config.SplitSeed,
	}).Info("split games")
	return r.with(func(n *Result) { n.Split = &s }), nil
}

// FitLanes fits the lane models of both variants. Variants are fitted in order and each
// completed variant is kept when a later one fails.
func FitLanes(r *Result, _ lol.ChampionMap) (*Result, error) {
	if r.Split == nil {
		return nil, fmt.Errorf("lane models need a train/test split")
	}
	out := r
	for _, v := range model.Variants {
		lanes, err := model.FitLanes(r.Table, *r.Split, v, Params(r.Config))
		if err != nil {
			return out, errors.Wrapf(err, "%s lane models", v)
		}
		out = out.with(func(n *Result) { n.Lanes[v] = lanes })
		logger.WithStage("lanes").WithField("variant", v.String()).Info("fitted lane models")
	}
	return out, nil
}

// FitWins fits the win models of both variants from their lane probabilities.
func FitWins(r *Result, _ lol.ChampionMap) (*Result, error) {
	out := r
	for _, v := range model.Variants {
		if r.Lanes[v] == nil {
			return out, fmt.Errorf("%s win model needs lane models", v)
		}
		win, err := model.FitWin(r.Table, *r.Split, r.Lanes[v], v, Params(r.Config))
		if err != nil {
			return out, errors.Wrapf(err, "%s win model", v)
		}
		out = out.with(func(n *Result) { n.Wins[v] = win })
		logger.WithStage("wins").WithFields(logrus.Fields{
			"variant":     v.String(),
			"terms":       len(win.Fit.Names),
			"matchups":    win.MatchupNames(r.Table),
			"fingerprint": fmt.Sprintf("%016x", win.Fingerprint),
		}).Info("fitted win model")
	}
	return out, nil
}

// Evaluate scores both variants on the test rows.
func Evaluate(r *Result, _ lol.ChampionMap) (*Result, error) {
	for _, v := range model.Variants {
		if r.Wins[v] == nil {
			return nil, fmt.Errorf("evaluation needs the %s win model", v)
		}
	}
	report, err := eval.Evaluate(r.Predictions(), r.Split.Test, r.Config.CalibrationBins)
	if err != nil {
		return nil, err
	}
	logger.WithStage("evaluate").WithFields(logrus.Fields{
		"test_rows":        report.Rows,
		"post_draft_brier": report.Win[model.PostDraft].Brier,
		"agnostic_brier":   report.Win[model.Agnostic].Brier,
	}).Info("evaluated models")
	return r.with(func(n *Result) { n.Report = report }), nil
}
