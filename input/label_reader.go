package input

import (
	"context"
	"encoding/csv"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/lunsanna/wav2vec2-finetune/db"
	log "github.com/lunsanna/wav2vec2-finetune/logger"
	"github.com/lunsanna/wav2vec2-finetune/utility/ffmpeg"
)

// LabelReader loads the labeled utterance table into the run database.
// The table is csv or xlsx with columns recording_path,
// transcript_normalized, split, cefr_mean; extra columns are ignored.
type LabelReader struct {
	ctx  context.Context
	conn db.DBAdapter
}

func NewLabelReader(conn db.DBAdapter) LabelReader {
	var r LabelReader
	r.ctx = conn.Ctx
	r.conn = conn
	return r
}

type colIndex struct {
	path       int
	transcript int
	fold       int
	cefr       int
}

// Load reads one label file and inserts its rows, marking them synthetic
// when asked to. Returns the number of rows loaded.
func (r LabelReader) Load(labelFile string, audioDir string, synthetic bool) (int, *log.Status) {
	var rows [][]string
	var status *log.Status
	switch strings.ToLower(filepath.Ext(labelFile)) {
	case `.csv`:
		rows, status = r.readCSV(labelFile)
	case `.xlsx`:
		rows, status = r.readXLSX(labelFile)
	default:
		return 0, log.ErrorNoErr(r.ctx, 400, `Unsupported label file type`, labelFile)
	}
	if status != nil {
		return 0, status
	}
	if len(rows) < 2 {
		return 0, log.ErrorNoErr(r.ctx, 400, `Label file has no data rows`, labelFile)
	}
	col, status := r.findColIndexes(rows[0])
	if status != nil {
		return 0, status
	}
	var records []db.Utterance
	var totalSec float64
	for i, row := range rows[1:] {
		rec, status := r.parseRow(row, col, audioDir, synthetic, i+2)
		if status != nil {
			return 0, status
		}
		rec.Duration = r.audioDuration(rec.AudioPath)
		totalSec += rec.Duration
		records = append(records, rec)
	}
	status = r.conn.InsertUtterances(records)
	if status != nil {
		return 0, status
	}
	log.Info(r.ctx, `Loaded`, len(records), `utterances,`, totalSec/3600, `h audio from`, labelFile)
	return len(records), nil
}

// audioDuration probes the audio length in seconds. Unreadable audio is
// recorded as zero; the trainer reports the real failure when it needs
// the file.
func (r LabelReader) audioDuration(audioPath string) float64 {
	if _, err := os.Stat(audioPath); err != nil {
		log.Warn(r.ctx, `Audio file not found at ingest`, audioPath)
		return 0
	}
	duration, status := ffmpeg.GetAudioDuration(r.ctx, audioPath)
	if status != nil {
		return 0
	}
	return duration
}

func (r LabelReader) readCSV(labelFile string) ([][]string, *log.Status) {
	file, err := os.Open(labelFile)
	if err != nil {
		return nil, log.Error(r.ctx, 400, err, `Error: could not open`, labelFile)
	}
	defer file.Close()
	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, log.Error(r.ctx, 400, err, `Error reading csv file`, labelFile)
	}
	return rows, nil
}

func (r LabelReader) readXLSX(labelFile string) ([][]string, *log.Status) {
	file, err := excelize.OpenFile(labelFile)
	if err != nil {
		return nil, log.Error(r.ctx, 400, err, `Error: could not open`, labelFile)
	}
	defer file.Close()
	sheets := file.GetSheetList()
	rows, err := file.GetRows(sheets[0])
	if err != nil {
		return nil, log.Error(r.ctx, 400, err, `Error reading excel file`, labelFile)
	}
	return rows, nil
}

func (r LabelReader) findColIndexes(header []string) (colIndex, *log.Status) {
	col := colIndex{path: -1, transcript: -1, fold: -1, cefr: -1}
	for i, name := range header {
		switch strings.TrimSpace(name) {
		case `recording_path`:
			col.path = i
		case `transcript_normalized`:
			col.transcript = i
		case `split`:
			col.fold = i
		case `cefr_mean`:
			col.cefr = i
		}
	}
	if col.path < 0 || col.transcript < 0 || col.fold < 0 || col.cefr < 0 {
		return col, log.ErrorNoErr(r.ctx, 400,
			`Label file must have columns recording_path, transcript_normalized, split, cefr_mean`)
	}
	return col, nil
}

func (r LabelReader) parseRow(row []string, col colIndex, audioDir string,
	synthetic bool, lineNum int) (db.Utterance, *log.Status) {
	var rec db.Utterance
	line := strconv.Itoa(lineNum)
	if len(row) <= col.cefr || len(row) <= col.path || len(row) <= col.transcript || len(row) <= col.fold {
		return rec, log.ErrorNoErr(r.ctx, 400, `Label file row`, line, `is too short`)
	}
	rec.AudioPath = row[col.path]
	if audioDir != `` && !filepath.IsAbs(rec.AudioPath) {
		rec.AudioPath = filepath.Join(audioDir, rec.AudioPath)
	}
	rec.Text = strings.TrimSpace(row[col.transcript])
	var err error
	rec.Fold, err = strconv.Atoi(strings.TrimSpace(row[col.fold]))
	if err != nil {
		return rec, log.Error(r.ctx, 400, err, `Row`, line, `split is not numeric`, row[col.fold])
	}
	rec.CEFRMean, err = strconv.ParseFloat(strings.TrimSpace(row[col.cefr]), 64)
	if err != nil {
		return rec, log.Error(r.ctx, 400, err, `Row`, line, `cefr_mean is not numeric`, row[col.cefr])
	}
	rec.Synthetic = synthetic
	return rec, nil
}
