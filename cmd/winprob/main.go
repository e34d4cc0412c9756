package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/reallyasi9/lol-draft-model/internal/config"
	"github.com/reallyasi9/lol-draft-model/internal/eval"
	"github.com/reallyasi9/lol-draft-model/internal/logger"
	"github.com/reallyasi9/lol-draft-model/internal/pipeline"
	"github.com/reallyasi9/lol-draft-model/internal/tableio"
)

var championsFile = flag.String("champions", "", "Champion role reference CSV `file`")
var matchesFile = flag.String("matches", "", "Match table `file` (CSV, or Parquet when named *.parquet)")
var configFile = flag.String("config", "", "YAML configuration `file` (default $WINPROB_CONFIG, then built-in defaults)")
var outFile = flag.String("out", "", "Write the scored match table as CSV to `file`")
var draftValuesFile = flag.String("draft-values", "", "Write per-team draft value curves as CSV to `file`")
var league = flag.String("league", "", "Restrict draft values to one `league`")
var since = flag.String("since", "", "Restrict draft values to games on or after `date`")
var until = flag.String("until", "", "Restrict draft values to games on or before `date`")
var parallel = flag.Int64("parquet-parallel", 4, "`number` of goroutines decoding Parquet")
var convertFile = flag.String("convert", "", "Write the loaded match table as Parquet to `file` and exit")
var logLevel = flag.String("log-level", "info", "Log `level`")
var dev = flag.Bool("dev", false, "Human-readable logs")

func main() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		fmt.Fprintf(os.Stderr, "reading .env: %v\n", err)
	}
	flag.Parse()
	log := logger.InitLogger(*logLevel, *dev)

	if *matchesFile == "" {
		log.Fatal("-matches is required")
	}
	records, err := tableio.LoadMatches(*matchesFile, *parallel)
	if err != nil {
		log.WithError(err).Fatal("loading matches")
	}
	log.WithField("rows", len(records)).Info("loaded match table")

	if *convertFile != "" {
		if err := tableio.WriteMatchesParquet(*convertFile, records, *parallel); err != nil {
			log.WithError(err).Fatal("converting matches")
		}
		log.WithField("file", *convertFile).Info("wrote parquet match table")
		return
	}

	if *championsFile == "" {
		log.Fatal("-champions is required")
	}
	champions, err := tableio.LoadChampions(*championsFile)
	if err != nil {
		log.WithError(err).Fatal("loading champions")
	}

	cfgName := *configFile
	if cfgName == "" {
		cfgName = os.Getenv("WINPROB_CONFIG")
	}
	cfg, err := config.Load(cfgName)
	if err != nil {
		log.WithError(err).Fatal("loading config")
	}
	log.Debugf("configuration:\n%s", cfg)

	res, runErr := pipeline.Run(pipeline.Inputs{Champions: champions, Records: records}, cfg)
	if res == nil {
		log.WithError(runErr).Fatal("pipeline did not start")
	}
	fmt.Print(res.String())

	if *outFile != "" && res.Table != nil {
		if err := writeFile(*outFile, func(w io.Writer) error { return tableio.WriteScoredCSV(w, res) }); err != nil {
			log.WithError(err).Error("writing scored table")
		}
	}
	if runErr != nil {
		log.WithError(runErr).Fatal("pipeline failed")
	}

	if *draftValuesFile != "" {
		values, err := res.DraftValues(eval.Filter{League: *league, Since: *since, Until: *until})
		if err != nil {
			log.WithError(err).Fatal("computing draft values")
		}
		if err := writeFile(*draftValuesFile, func(w io.Writer) error { return tableio.WriteDraftValuesCSV(w, values) }); err != nil {
			log.WithError(err).Fatal("writing draft values")
		}
	}
}

func writeFile(name string, write func(io.Writer) error) error {
	f, err := os.Create(name)
	if err != nil {
		return errors.Wrap(err, "creating output")
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return errors.Wrapf(f.Close(), "closing %s", name)
}
