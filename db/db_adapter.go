package db

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"

	log "github.com/lunsanna/wav2vec2-finetune/logger"
)

// Utterance is one row of the labeled dataset table. Duration is in
// seconds, probed at ingest; zero when the audio could not be probed.
type Utterance struct {
	UtteranceId int64
	AudioPath   string
	Text        string
	CEFRMean    float64
	Fold        int
	Synthetic   bool
	Duration    float64
}

// Hypothesis is one recognizer output for an utterance at a named
// evaluation point (baseline, phase_0, final, ...).
type Hypothesis struct {
	UtteranceId int64
	EvalPoint   string
	Text        string
}

// PhaseMetrics is the scored outcome of one evaluation.
type PhaseMetrics struct {
	EvalPoint  string
	Phase      int
	Epochs     int
	TrainSize  int
	WER        float64
	CER        float64
	WERStdDev  float64
	CERStdDev  float64
	ElapsedSec float64
}

type DBAdapter struct {
	Ctx          context.Context
	DatabasePath string
	DB           *sql.DB
}

// NewDBAdapter opens the per-run sqlite database under $W2V2_DATASET_DB,
// creating the schema as needed. isNew discards any prior run state.
func NewDBAdapter(ctx context.Context, isNew bool, username string, datasetName string) (DBAdapter, *log.Status) {
	var d DBAdapter
	d.Ctx = ctx
	directory := filepath.Join(os.Getenv(`W2V2_DATASET_DB`), username)
	if err := os.MkdirAll(directory, 0755); err != nil {
		return d, log.Error(ctx, 500, err, `Could not create database directory`)
	}
	d.DatabasePath = filepath.Join(directory, datasetName+`.db`)
	if isNew {
		_ = os.Remove(d.DatabasePath)
	}
	var err error
	d.DB, err = sql.Open(`sqlite3`, d.DatabasePath)
	if err != nil {
		return d, log.Error(ctx, 500, err, `Could not open database`, d.DatabasePath)
	}
	status := d.createTables()
	return d, status
}

func (d *DBAdapter) createTables() *log.Status {
	query := `CREATE TABLE IF NOT EXISTS utterances (
		utterance_id INTEGER PRIMARY KEY AUTOINCREMENT,
		audio_path TEXT NOT NULL,
		text TEXT NOT NULL,
		cefr_mean REAL NOT NULL,
		fold INTEGER NOT NULL,
		synthetic INTEGER NOT NULL DEFAULT 0,
		duration REAL NOT NULL DEFAULT 0);
	CREATE TABLE IF NOT EXISTS hypotheses (
		utterance_id INTEGER NOT NULL,
		eval_point TEXT NOT NULL,
		text TEXT NOT NULL,
		PRIMARY KEY (utterance_id, eval_point));
	CREATE TABLE IF NOT EXISTS phase_metrics (
		eval_point TEXT NOT NULL,
		phase INTEGER NOT NULL,
		epochs INTEGER NOT NULL,
		train_size INTEGER NOT NULL,
		wer REAL NOT NULL,
		cer REAL NOT NULL,
		wer_stddev REAL NOT NULL,
		cer_stddev REAL NOT NULL,
		elapsed_sec REAL NOT NULL,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP)`
	_, err := d.DB.Exec(query)
	if err != nil {
		return log.Error(d.Ctx, 500, err, query)
	}
	return nil
}

func (d *DBAdapter) InsertUtterances(records []Utterance) *log.Status {
	tx, err := d.DB.Begin()
	if err != nil {
		return log.Error(d.Ctx, 500, err, `Error creating transaction`)
	}
	query := `INSERT INTO utterances (audio_path, text, cefr_mean, fold, synthetic, duration)
		VALUES (?, ?, ?, ?, ?, ?)`
	stmt, err := tx.Prepare(query)
	if err != nil {
		return log.Error(d.Ctx, 500, err, query)
	}
	defer stmt.Close()
	for _, rec := range records {
		_, err = stmt.Exec(rec.AudioPath, rec.Text, rec.CEFRMean, rec.Fold, rec.Synthetic,
			rec.Duration)
		if err != nil {
			_ = tx.Rollback()
			return log.Error(d.Ctx, 500, err, query)
		}
	}
	err = tx.Commit()
	if err != nil {
		return log.Error(d.Ctx, 500, err, `Error committing utterances`)
	}
	return nil
}

// SelectTrainUtterances returns the training rows: every fold except the
// held-out one, real data always, synthetic data when asked for.
func (d *DBAdapter) SelectTrainUtterances(fold int, synthetic bool) ([]Utterance, *log.Status) {
	query := `SELECT utterance_id, audio_path, text, cefr_mean, fold, synthetic, duration
		FROM utterances WHERE fold != ? AND synthetic = ? ORDER BY utterance_id`
	return d.selectUtterances(query, fold, synthetic)
}

// SelectValidationUtterances returns the held-out fold, real data only.
func (d *DBAdapter) SelectValidationUtterances(fold int) ([]Utterance, *log.Status) {
	query := `SELECT utterance_id, audio_path, text, cefr_mean, fold, synthetic, duration
		FROM utterances WHERE fold = ? AND synthetic = 0 ORDER BY utterance_id`
	return d.selectUtterances(query, fold)
}

func (d *DBAdapter) selectUtterances(query string, args ...any) ([]Utterance, *log.Status) {
	var results []Utterance
	rows, err := d.DB.Query(query, args...)
	if err != nil {
		return results, log.Error(d.Ctx, 500, err, query)
	}
	defer rows.Close()
	for rows.Next() {
		var rec Utterance
		err = rows.Scan(&rec.UtteranceId, &rec.AudioPath, &rec.Text, &rec.CEFRMean,
			&rec.Fold, &rec.Synthetic, &rec.Duration)
		if err != nil {
			return results, log.Error(d.Ctx, 500, err, query)
		}
		results = append(results, rec)
	}
	err = rows.Err()
	if err != nil {
		return results, log.Error(d.Ctx, 500, err, query)
	}
	return results, nil
}

func (d *DBAdapter) CountUtterances() (int, *log.Status) {
	var count int
	query := `SELECT count(*) FROM utterances`
	err := d.DB.QueryRow(query).Scan(&count)
	if err != nil {
		return count, log.Error(d.Ctx, 500, err, query)
	}
	return count, nil
}

func (d *DBAdapter) InsertHypotheses(records []Hypothesis) (int, *log.Status) {
	tx, err := d.DB.Begin()
	if err != nil {
		return 0, log.Error(d.Ctx, 500, err, `Error creating transaction`)
	}
	query := `INSERT OR REPLACE INTO hypotheses (utterance_id, eval_point, text)
		VALUES (?, ?, ?)`
	stmt, err := tx.Prepare(query)
	if err != nil {
		return 0, log.Error(d.Ctx, 500, err, query)
	}
	defer stmt.Close()
	var count int
	for _, rec := range records {
		_, err = stmt.Exec(rec.UtteranceId, rec.EvalPoint, rec.Text)
		if err != nil {
			_ = tx.Rollback()
			return count, log.Error(d.Ctx, 500, err, query)
		}
		count++
	}
	err = tx.Commit()
	if err != nil {
		return count, log.Error(d.Ctx, 500, err, `Error committing hypotheses`)
	}
	return count, nil
}

func (d *DBAdapter) InsertPhaseMetrics(rec PhaseMetrics) *log.Status {
	query := `INSERT INTO phase_metrics (eval_point, phase, epochs, train_size,
		wer, cer, wer_stddev, cer_stddev, elapsed_sec)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := d.DB.Exec(query, rec.EvalPoint, rec.Phase, rec.Epochs, rec.TrainSize,
		rec.WER, rec.CER, rec.WERStdDev, rec.CERStdDev, rec.ElapsedSec)
	if err != nil {
		return log.Error(d.Ctx, 500, err, query)
	}
	return nil
}

func (d *DBAdapter) SelectPhaseMetrics() ([]PhaseMetrics, *log.Status) {
	var results []PhaseMetrics
	query := `SELECT eval_point, phase, epochs, train_size, wer, cer,
		wer_stddev, cer_stddev, elapsed_sec FROM phase_metrics ORDER BY rowid`
	rows, err := d.DB.Query(query)
	if err != nil {
		return results, log.Error(d.Ctx, 500, err, query)
	}
	defer rows.Close()
	for rows.Next() {
		var rec PhaseMetrics
		err = rows.Scan(&rec.EvalPoint, &rec.Phase, &rec.Epochs, &rec.TrainSize,
			&rec.WER, &rec.CER, &rec.WERStdDev, &rec.CERStdDev, &rec.ElapsedSec)
		if err != nil {
			return results, log.Error(d.Ctx, 500, err, query)
		}
		results = append(results, rec)
	}
	err = rows.Err()
	if err != nil {
		return results, log.Error(d.Ctx, 500, err, query)
	}
	return results, nil
}

func (d *DBAdapter) Close() {
	if d.DB != nil {
		_ = d.DB.Close()
	}
}
