// Package config holds the tunable parameters of the win-probability pipeline.
package config

import (
	"fmt"
	"io/ioutil"

	"github.com/pkg/errors"
	yaml "gopkg.in/yaml.v2"
)

// Opponent linking rules.
const (
	LinkByKey       = "key"
	LinkByAdjacency = "adjacency"
)

// Config is the full set of pipeline parameters.
type Config struct {
	// Clusters is the number of composition archetypes.
	Clusters         int     `yaml:"clusters"`
	ClusterRestarts  int     `yaml:"cluster_restarts"`
	ClusterMaxIter   int     `yaml:"cluster_max_iter"`
	ClusterTolerance float64 `yaml:"cluster_tolerance"`
	ClusterSeed      int64   `yaml:"cluster_seed"`

	TestFraction float64 `yaml:"test_fraction"`
	SplitSeed    int64   `yaml:"split_seed"`

	// LaneAlpha and WinAlpha scale the L1 penalty of the lane models and of the
	// draft-agnostic win model; larger values shrink more coefficients to zero.
	LaneAlpha float64 `yaml:"lane_alpha"`
	WinAlpha  float64 `yaml:"win_alpha"`
	// MinMatchupGames is the smallest absolute indicator count for a matchup
	// column to enter the post-draft win model.
	MinMatchupGames int `yaml:"min_matchup_games"`

	FitMaxIter   int     `yaml:"fit_max_iter"`
	FitTolerance float64 `yaml:"fit_tolerance"`

	OpponentLinking string `yaml:"opponent_linking"`
	CalibrationBins int    `yaml:"calibration_bins"`
}

// Default returns the documented defaults.
func Default() Config {
	return Config{
		Clusters:         7,
		ClusterRestarts:  10,
		ClusterMaxIter:   300,
		ClusterTolerance: 1e-4,
		ClusterSeed:      0,
		TestFraction:     0.3,
		SplitSeed:        123,
		LaneAlpha:        10,
		WinAlpha:         1,
		MinMatchupGames:  100,
		FitMaxIter:       100,
		FitTolerance:     1e-8,
		OpponentLinking:  LinkByKey,
		CalibrationBins:  20,
	}
}

// Parse overlays YAML onto the defaults and validates the result.
func Parse(in []byte) (Config, error) {
	c := Default()
	if err := yaml.UnmarshalStrict(in, &c); err != nil {
		return Config{}, errors.Wrap(err, "parsing config")
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// Load reads a YAML config file. An empty file name yields the defaults.
func Load(fileName string) (Config, error) {
	if fileName == "" {
		return Default(), nil
	}
	in, err := ioutil.ReadFile(fileName)
	if err != nil {
		return Config{}, errors.Wrapf(err, "reading config \"%s\"", fileName)
	}
	c, err := Parse(in)
	if err != nil {
		return Config{}, errors.Wrapf(err, "config \"%s\"", fileName)
	}
	return c, nil
}

// Validate rejects out-of-range values.
func (c Config) Validate() error {
	switch {
	case c.Clusters < 1:
		return fmt.Errorf("clusters must be at least 1, got %d", c.Clusters)
	case c.ClusterRestarts < 1:
		return fmt.Errorf("cluster_restarts must be at least 1, got %d", c.ClusterRestarts)
	case c.ClusterMaxIter < 1:
		return fmt.Errorf("cluster_max_iter must be at least 1, got %d", c.ClusterMaxIter)
	case c.ClusterTolerance < 0:
		return fmt.Errorf("cluster_tolerance must be non-negative, got %g", c.ClusterTolerance)
	case c.TestFraction <= 0 || c.TestFraction >= 1:
		return fmt.Errorf("test_fraction must be in (0,1), got %g", c.TestFraction)
	case c.LaneAlpha < 0:
		return fmt.Errorf("lane_alpha must be non-negative, got %g", c.LaneAlpha)
	case c.WinAlpha < 0:
		return fmt.Errorf("win_alpha must be non-negative, got %g", c.WinAlpha)
	case c.MinMatchupGames < 0:
		return fmt.Errorf("min_matchup_games must be non-negative, got %d", c.MinMatchupGames)
	case c.FitMaxIter < 1:
		return fmt.Errorf("fit_max_iter must be at least 1, got %d", c.FitMaxIter)
	case c.FitTolerance <= 0:
		return fmt.Errorf("fit_tolerance must be positive, got %g", c.FitTolerance)
	case c.OpponentLinking != LinkByKey && c.OpponentLinking != LinkByAdjacency:
		return fmt.Errorf("opponent_linking must be \"%s\" or \"%s\", got \"%s\"", LinkByKey, LinkByAdjacency, c.OpponentLinking)
	case c.CalibrationBins < 1:
		return fmt.Errorf("calibration_bins must be at least 1, got %d", c.CalibrationBins)
	}
	return nil
}

// String renders the config as YAML.
func (c Config) String() string {
	out, err := yaml.Marshal(c)
	if err != nil {
		return "# " + err.Error()
	}
	return string(out)
}
