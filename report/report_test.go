package report

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/lunsanna/wav2vec2-finetune/db"
)

func TestWriteXLSX(t *testing.T) {
	ctx := context.Background()
	t.Setenv(`W2V2_DATASET_DB`, t.TempDir())
	conn, status := db.NewDBAdapter(ctx, true, `tester`, `report_test`)
	if status != nil {
		t.Fatal(status)
	}
	defer conn.Close()
	records := []db.PhaseMetrics{
		{EvalPoint: `baseline`, Phase: -1, WER: 0.9, CER: 0.4},
		{EvalPoint: `final`, Phase: 2, Epochs: 4, TrainSize: 180, WER: 0.3, CER: 0.1, ElapsedSec: 55},
	}
	for _, rec := range records {
		if status = conn.InsertPhaseMetrics(rec); status != nil {
			t.Fatal(status)
		}
	}
	outputPath := filepath.Join(t.TempDir(), `metrics.xlsx`)
	writer := NewReportWriter(conn)
	if status = writer.WriteXLSX(outputPath); status != nil {
		t.Fatal(status)
	}
	file, err := excelize.OpenFile(outputPath)
	if err != nil {
		t.Fatal(err)
	}
	defer file.Close()
	rows, err := file.GetRows(file.GetSheetName(0))
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 3 {
		t.Fatal(`expected header plus 2 rows, got`, len(rows))
	}
	if rows[1][0] != `baseline` || rows[2][0] != `final` {
		t.Fatal(`unexpected report rows`)
	}
	if rows[2][3] != `180` {
		t.Fatal(`expected train_size 180, got`, rows[2][3])
	}
}
