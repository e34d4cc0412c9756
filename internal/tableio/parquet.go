package tableio

import (
	"fmt"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/reallyasi9/lol-draft-model/internal/lol"
	"github.com/reallyasi9/lol-draft-model/internal/match"
	"github.com/xitongsys/parquet-go-source/local"
	"github.com/xitongsys/parquet-go/parquet"
	"github.com/xitongsys/parquet-go/reader"
	"github.com/xitongsys/parquet-go/writer"
)

// parquetMatch is the Parquet layout of one match table row.
type parquetMatch struct {
	ID          int64   `parquet:"name=id, type=INT64"`
	GameID      string  `parquet:"name=gameid, type=BYTE_ARRAY, convertedtype=UTF8"`
	Team        string  `parquet:"name=teamname, type=BYTE_ARRAY, convertedtype=UTF8"`
	Opponent    string  `parquet:"name=opponent, type=BYTE_ARRAY, convertedtype=UTF8"`
	Date        string  `parquet:"name=date, type=BYTE_ARRAY, convertedtype=UTF8"`
	League      string  `parquet:"name=league, type=BYTE_ARRAY, convertedtype=UTF8"`
	Side        string  `parquet:"name=side, type=BYTE_ARRAY, convertedtype=UTF8"`
	Result      int32   `parquet:"name=result, type=INT32"`
	EloDiff     float64 `parquet:"name=elo_diff, type=DOUBLE"`
	TopChampion string  `parquet:"name=top_champion, type=BYTE_ARRAY, convertedtype=UTF8"`
	JngChampion string  `parquet:"name=jng_champion, type=BYTE_ARRAY, convertedtype=UTF8"`
	MidChampion string  `parquet:"name=mid_champion, type=BYTE_ARRAY, convertedtype=UTF8"`
	BotChampion string  `parquet:"name=bot_champion, type=BYTE_ARRAY, convertedtype=UTF8"`
	SupChampion string  `parquet:"name=sup_champion, type=BYTE_ARRAY, convertedtype=UTF8"`
	TopDif      float64 `parquet:"name=top_dif, type=DOUBLE"`
	JngDif      float64 `parquet:"name=jng_dif, type=DOUBLE"`
	MidDif      float64 `parquet:"name=mid_dif, type=DOUBLE"`
	BotDif      float64 `parquet:"name=bot_dif, type=DOUBLE"`
	SupDif      float64 `parquet:"name=sup_dif, type=DOUBLE"`
	TopLead     int32   `parquet:"name=top_lead_at_15, type=INT32"`
	MidLead     int32   `parquet:"name=mid_lead_at_15, type=INT32"`
	BotLead     int32   `parquet:"name=bot_lead_at_15, type=INT32"`
}

func (m parquetMatch) record(source string, row int) (match.Record, error) {
	side, ok := lol.ParseSide(m.Side)
	if !ok {
		return match.Record{}, &lol.DataFormatError{Source: source, Line: row, Field: colSide, Reason: fmt.Sprintf("\"%s\" is not Blue or Red", m.Side)}
	}
	flags := []struct {
		field string
		v     int32
	}{
		{colResult, m.Result},
		{leadColumn(lol.TopLane), m.TopLead},
		{leadColumn(lol.MidLane), m.MidLead},
		{leadColumn(lol.BotLane), m.BotLead},
	}
	for _, f := range flags {
		if f.v != 0 && f.v != 1 {
			return match.Record{}, &lol.DataFormatError{Source: source, Line: row, Field: f.field, Reason: fmt.Sprintf("expected 0 or 1, got %d", f.v)}
		}
	}
	return match.Record{
		ID:         int(m.ID),
		GameID:     m.GameID,
		Team:       m.Team,
		Opponent:   m.Opponent,
		Date:       m.Date,
		League:     m.League,
		Side:       side,
		Result:     int(m.Result),
		EloDiff:    m.EloDiff,
		Champions:  lol.Picks{m.TopChampion, m.JngChampion, m.MidChampion, m.BotChampion, m.SupChampion},
		PlayerDiff: [lol.NumPositions]float64{m.TopDif, m.JngDif, m.MidDif, m.BotDif, m.SupDif},
		LeadAt15:   [lol.NumLanes]int{int(m.TopLead), int(m.MidLead), int(m.BotLead)},
	}, nil
}

func fromRecord(r match.Record) parquetMatch {
	return parquetMatch{
		ID:          int64(r.ID),
		GameID:      r.GameID,
		Team:        r.Team,
		Opponent:    r.Opponent,
		Date:        r.Date,
		League:      r.League,
		Side:        r.Side.String(),
		Result:      int32(r.Result),
		EloDiff:     r.EloDiff,
		TopChampion: r.Champions[lol.Top],
		JngChampion: r.Champions[lol.Jungle],
		MidChampion: r.Champions[lol.Middle],
		BotChampion: r.Champions[lol.Bottom],
		SupChampion: r.Champions[lol.Support],
		TopDif:      r.PlayerDiff[lol.Top],
		JngDif:      r.PlayerDiff[lol.Jungle],
		MidDif:      r.PlayerDiff[lol.Middle],
		BotDif:      r.PlayerDiff[lol.Bottom],
		SupDif:      r.PlayerDiff[lol.Support],
		TopLead:     int32(r.LeadAt15[lol.TopLane]),
		MidLead:     int32(r.LeadAt15[lol.MidLane]),
		BotLead:     int32(r.LeadAt15[lol.BotLane]),
	}
}

// ReadMatchesParquet reads a match table stored as Parquet, decoding with the given parallelism.
// Rows are numbered from 1 in error reports.
func ReadMatchesParquet(path string, parallel int64) ([]match.Record, error) {
	absPath := path
	if !filepath.IsAbs(path) {
		if resolved, err := filepath.Abs(path); err == nil {
			absPath = resolved
		}
	}
	fileReader, err := local.NewLocalFileReader(absPath)
	if err != nil {
		return nil, errors.Wrap(err, "opening match table")
	}
	defer fileReader.Close()

	parquetReader, err := reader.NewParquetReader(fileReader, new(parquetMatch), parallel)
	if err != nil {
		return nil, errors.Wrapf(err, "reading parquet schema of \"%s\"", path)
	}
	defer parquetReader.ReadStop()

	num := int(parquetReader.GetNumRows())
	records := make([]match.Record, 0, num)
	batchSize := 1024
	for offset := 0; offset < num; offset += batchSize {
		remain := num - offset
		if remain < batchSize {
			batchSize = remain
		}
		batch := make([]parquetMatch, batchSize)
		if err := parquetReader.Read(&batch); err != nil {
			return nil, errors.Wrapf(err, "reading rows %d-%d of \"%s\"", offset+1, offset+batchSize, path)
		}
		for i, m := range batch {
			rec, err := m.record(path, offset+i+1)
			if err != nil {
				return nil, err
			}
			records = append(records, rec)
		}
	}
	return records, nil
}

// WriteMatchesParquet stores match records as Parquet.
func WriteMatchesParquet(path string, records []match.Record, parallel int64) error {
	fileWriter, err := local.NewLocalFileWriter(path)
	if err != nil {
		return errors.Wrap(err, "creating parquet file")
	}
	defer fileWriter.Close()

	parquetWriter, err := writer.NewParquetWriter(fileWriter, new(parquetMatch), parallel)
	if err != nil {
		return errors.Wrap(err, "creating parquet writer")
	}
	parquetWriter.CompressionType = parquet.CompressionCodec_SNAPPY
	for _, r := range records {
		if err := parquetWriter.Write(fromRecord(r)); err != nil {
			return errors.Wrapf(err, "writing row %d", r.ID)
		}
	}
	if err := parquetWriter.WriteStop(); err != nil {
		return errors.Wrap(err, "finishing parquet file")
	}
	return nil
}
