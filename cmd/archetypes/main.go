package main

import (
	"flag"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/joho/godotenv"
	"github.com/reallyasi9/lol-draft-model/internal/config"
	"github.com/reallyasi9/lol-draft-model/internal/draft"
	"github.com/reallyasi9/lol-draft-model/internal/eval"
	"github.com/reallyasi9/lol-draft-model/internal/logger"
	"github.com/reallyasi9/lol-draft-model/internal/lol"
	"github.com/reallyasi9/lol-draft-model/internal/match"
	"github.com/reallyasi9/lol-draft-model/internal/pipeline"
	"github.com/reallyasi9/lol-draft-model/internal/tableio"
)

var championsFile = flag.String("champions", "", "Champion role reference CSV `file`")
var matchesFile = flag.String("matches", "", "Match table `file` (CSV, or Parquet when named *.parquet)")
var configFile = flag.String("config", "", "YAML configuration `file` (default $WINPROB_CONFIG, then built-in defaults)")
var referenceSeed = flag.Int64("reference-seed", -1, "Also cluster with this `seed` and report how its labels align (negative to skip)")
var league = flag.String("league", "", "Restrict team frequencies to one `league`")
var parallel = flag.Int64("parquet-parallel", 4, "`number` of goroutines decoding Parquet")
var logLevel = flag.String("log-level", "info", "Log `level`")
var dev = flag.Bool("dev", false, "Human-readable logs")

func main() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		fmt.Fprintf(os.Stderr, "reading .env: %v\n", err)
	}
	flag.Parse()
	log := logger.InitLogger(*logLevel, *dev)

	champions, err := tableio.LoadChampions(*championsFile)
	if err != nil {
		log.WithError(err).Fatal("loading champions")
	}
	records, err := tableio.LoadMatches(*matchesFile, *parallel)
	if err != nil {
		log.WithError(err).Fatal("loading matches")
	}
	cfgName := *configFile
	if cfgName == "" {
		cfgName = os.Getenv("WINPROB_CONFIG")
	}
	cfg, err := config.Load(cfgName)
	if err != nil {
		log.WithError(err).Fatal("loading config")
	}

	sorted, err := match.SortRecords(records)
	if err != nil {
		log.WithError(err).Fatal("sorting matches")
	}
	res, err := clusterAndJoin(&pipeline.Result{Config: cfg, Records: sorted}, champions)
	if err != nil {
		log.WithError(err).Fatal("assigning archetypes")
	}

	fmt.Print(res.String())
	fmt.Println()
	fmt.Print(formatFrequencies(eval.ArchetypeFrequencies(res.Table.Rows, cfg.Clusters, eval.Filter{League: *league}), cfg.Clusters))

	if *referenceSeed >= 0 {
		refCfg := cfg
		refCfg.ClusterSeed = *referenceSeed
		ref, err := pipeline.Cluster(&pipeline.Result{Config: refCfg, Records: sorted}, champions)
		if err != nil {
			log.WithError(err).Fatal("clustering with reference seed")
		}
		mapping := draft.AlignLabels(ref.Centroids, res.Centroids)
		labels := make([]int, 0, len(mapping))
		for l := range mapping {
			labels = append(labels, l)
		}
		sort.Ints(labels)
		fmt.Printf("\nlabel alignment to seed %d\n", *referenceSeed)
		for _, l := range labels {
			fmt.Printf("%d -> %d\n", l, mapping[l])
		}
	}
}

func clusterAndJoin(r *pipeline.Result, cm lol.ChampionMap) (*pipeline.Result, error) {
	r, err := pipeline.Cluster(r, cm)
	if err != nil {
		return nil, err
	}
	return pipeline.Join(r, cm)
}

func formatFrequencies(teams []eval.TeamArchetypes, k int) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("%-24s", "teamname"))
	for c := 0; c < k; c++ {
		b.WriteString(fmt.Sprintf(" %6s", fmt.Sprintf("comp%d", c)))
	}
	b.WriteString("\n")
	for _, t := range teams {
		b.WriteString(fmt.Sprintf("%-24s", t.Team))
		for _, n := range t.Counts {
			b.WriteString(fmt.Sprintf(" %6d", n))
		}
		b.WriteString("\n")
	}
	return b.String()
}
