// Package tableio reads the match table and writes the scored output table.
package tableio

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/reallyasi9/lol-draft-model/internal/lol"
	"github.com/reallyasi9/lol-draft-model/internal/match"
)

// Match table columns.
const (
	colID       = "id"
	colGameID   = "gameid"
	colTeam     = "teamname"
	colOpponent = "opponent"
	colDate     = "date"
	colLeague   = "league"
	colSide     = "side"
	colResult   = "result"
	colEloDiff  = "elo_diff"
)

func championColumn(p lol.Position) string { return p.String() + "_champion" }
func diffColumn(p lol.Position) string     { return p.String() + "_dif" }
func leadColumn(l lol.Lane) string         { return l.String() + "_lead_at_15" }

// MatchColumns lists every column the match table must carry. Extra columns are ignored.
func MatchColumns() []string {
	cols := []string{colID, colGameID, colTeam, colOpponent, colDate, colLeague, colSide, colResult, colEloDiff}
	for _, p := range lol.Positions {
		cols = append(cols, championColumn(p))
	}
	for _, p := range lol.Positions {
		cols = append(cols, diffColumn(p))
	}
	for _, l := range lol.Lanes {
		cols = append(cols, leadColumn(l))
	}
	return cols
}

// ReadMatchesCSV parses a match table whose first record is a header naming its columns.
func ReadMatchesCSV(source string, r io.Reader) ([]match.Record, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if err == io.EOF {
			return nil, &lol.DataFormatError{Source: source, Line: 1, Reason: "missing header"}
		}
		return nil, &lol.DataFormatError{Source: source, Line: 1, Reason: err.Error()}
	}
	index := make(map[string]int, len(header))
	for i, h := range header {
		index[strings.TrimSpace(h)] = i
	}
	for _, c := range MatchColumns() {
		if _, ok := index[c]; !ok {
			return nil, &lol.DataFormatError{Source: source, Line: 1, Field: c, Reason: "missing column"}
		}
	}

	var out []match.Record
	line := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, &lol.DataFormatError{Source: source, Line: line, Reason: err.Error()}
		}
		p := rowParser{source: source, line: line, index: index, record: record}
		rec := p.parse()
		if p.err != nil {
			return nil, p.err
		}
		out = append(out, rec)
	}
	return out, nil
}

// rowParser reads typed fields from one CSV record, keeping the first error.
type rowParser struct {
	source string
	line   int
	index  map[string]int
	record []string
	err    error
}

func (p *rowParser) fail(field, reason string) {
	if p.err == nil {
		p.err = &lol.DataFormatError{Source: p.source, Line: p.line, Field: field, Reason: reason}
	}
}

func (p *rowParser) str(field string) string {
	return strings.TrimSpace(p.record[p.index[field]])
}

func (p *rowParser) integer(field string) int {
	s := p.str(field)
	v, err := strconv.Atoi(s)
	if err != nil {
		// whole-number floats are common in exported tables
		f, ferr := strconv.ParseFloat(s, 64)
		if ferr != nil || f != float64(int(f)) {
			p.fail(field, fmt.Sprintf("\"%s\" is not an integer", s))
			return 0
		}
		v = int(f)
	}
	return v
}

func (p *rowParser) binary(field string) int {
	v := p.integer(field)
	if v != 0 && v != 1 {
		p.fail(field, fmt.Sprintf("expected 0 or 1, got %d", v))
	}
	return v
}

func (p *rowParser) float(field string) float64 {
	s := p.str(field)
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		p.fail(field, fmt.Sprintf("\"%s\" is not a number", s))
	}
	return v
}

func (p *rowParser) required(field string) string {
	s := p.str(field)
	if s == "" {
		p.fail(field, "empty value")
	}
	return s
}

func (p *rowParser) parse() match.Record {
	rec := match.Record{
		ID:       p.integer(colID),
		GameID:   p.required(colGameID),
		Team:     p.required(colTeam),
		Opponent: p.required(colOpponent),
		Date:     p.str(colDate),
		League:   p.str(colLeague),
		Result:   p.binary(colResult),
		EloDiff:  p.float(colEloDiff),
	}
	side, ok := lol.ParseSide(p.str(colSide))
	if !ok {
		p.fail(colSide, fmt.Sprintf("\"%s\" is not Blue or Red", p.str(colSide)))
	}
	rec.Side = side
	for _, pos := range lol.Positions {
		rec.Champions[pos] = p.required(championColumn(pos))
		rec.PlayerDiff[pos] = p.float(diffColumn(pos))
	}
	for _, l := range lol.Lanes {
		rec.LeadAt15[l] = p.binary(leadColumn(l))
	}
	return rec
}

// LoadMatches reads a match table file, as Parquet when the name ends in ".parquet" and as
// CSV otherwise.
func LoadMatches(fileName string, parallel int64) ([]match.Record, error) {
	if strings.EqualFold(filepath.Ext(fileName), ".parquet") {
		return ReadMatchesParquet(fileName, parallel)
	}
	f, err := os.Open(fileName)
	if err != nil {
		return nil, errors.Wrap(err, "opening match table")
	}
	defer f.Close()
	return ReadMatchesCSV(fileName, f)
}

// LoadChampions reads the champion role reference table from a CSV file.
func LoadChampions(fileName string) (lol.ChampionMap, error) {
	f, err := os.Open(fileName)
	if err != nil {
		return nil, errors.Wrap(err, "opening champion table")
	}
	defer f.Close()
	return lol.LoadChampions(fileName, f)
}
