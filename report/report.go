package report

import (
	"context"

	"github.com/xuri/excelize/v2"

	"github.com/lunsanna/wav2vec2-finetune/db"
	log "github.com/lunsanna/wav2vec2-finetune/logger"
)

// ReportWriter turns the phase_metrics table into the xlsx summary that
// is attached to the completion email and uploaded with the run.
type ReportWriter struct {
	ctx  context.Context
	conn db.DBAdapter
}

func NewReportWriter(conn db.DBAdapter) ReportWriter {
	var r ReportWriter
	r.ctx = conn.Ctx
	r.conn = conn
	return r
}

func (r ReportWriter) WriteXLSX(outputPath string) *log.Status {
	metrics, status := r.conn.SelectPhaseMetrics()
	if status != nil {
		return status
	}
	file := excelize.NewFile()
	defer file.Close()
	sheet := file.GetSheetName(0)
	header := []any{`eval_point`, `phase`, `epochs`, `train_size`,
		`wer`, `cer`, `wer_stddev`, `cer_stddev`, `elapsed_sec`}
	if status := r.setRow(file, sheet, 1, &header); status != nil {
		return status
	}
	for i, rec := range metrics {
		row := []any{rec.EvalPoint, rec.Phase, rec.Epochs, rec.TrainSize,
			rec.WER, rec.CER, rec.WERStdDev, rec.CERStdDev, rec.ElapsedSec}
		if status := r.setRow(file, sheet, i+2, &row); status != nil {
			return status
		}
	}
	err := file.SaveAs(outputPath)
	if err != nil {
		return log.Error(r.ctx, 500, err, `Error writing report`, outputPath)
	}
	log.Info(r.ctx, `Wrote phase metrics report`, outputPath)
	return nil
}

func (r ReportWriter) setRow(file *excelize.File, sheet string, rowNum int, values *[]any) *log.Status {
	cell, err := excelize.CoordinatesToCellName(1, rowNum)
	if err != nil {
		return log.Error(r.ctx, 500, err, `Error computing report cell`)
	}
	err = file.SetSheetRow(sheet, cell, values)
	if err != nil {
		return log.Error(r.ctx, 500, err, `Error writing report row`)
	}
	return nil
}
