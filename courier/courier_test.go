package courier

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	log "github.com/lunsanna/wav2vec2-finetune/logger"
)

func TestCreateKey(t *testing.T) {
	ctx := context.Background()
	b := NewCourier(ctx, []byte(`dataset_name: fi_ccl`), `anna`, `fi_ccl`)
	b.run = 7
	key := b.createKey(`output`, `/tmp/some/metrics.xlsx`)
	if key != `anna/fi_ccl/00007/output/metrics.xlsx` {
		t.Fatal(`unexpected object key`, key)
	}
}

func TestAddOutput(t *testing.T) {
	ctx := context.Background()
	b := NewCourier(ctx, nil, `anna`, `fi_ccl`)
	b.AddOutput(``)
	b.AddOutput(`/tmp/metrics.xlsx`)
	outputs := b.GetOutputPaths()
	if len(outputs) != 1 || outputs[0] != `/tmp/metrics.xlsx` {
		t.Fatal(`expected empty paths to be skipped, got`, outputs)
	}
}

func TestAddPerJobLogFile(t *testing.T) {
	ctx := context.Background()
	t.Setenv(`W2V2_LOG_DIR`, ``)
	logDir := t.TempDir()
	b := NewCourier(ctx, nil, `anna`, `fi_ccl`)
	b.AddPerJobLogFile(logDir)
	defer log.SetOutput(`stderr`)
	logFile := b.LogFile()
	if logFile == `` || filepath.Dir(logFile) != logDir {
		t.Fatal(`expected log file under`, logDir, `got`, logFile)
	}
	log.Info(ctx, `line for the run log`)
	content, err := os.ReadFile(logFile)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(content), `line for the run log`) {
		t.Fatal(`log output was not redirected to the run log file`)
	}
}

func TestFailureMsg(t *testing.T) {
	ctx := context.Background()
	b := NewCourier(ctx, nil, `anna`, `fi_ccl`)
	status := log.ErrorNoErr(ctx, 500, `trainer exploded`)
	msg := b.failureMsg(status, 0)
	if !strings.Contains(msg, `FAILED: fi_ccl`) || !strings.Contains(msg, `trainer exploded`) {
		t.Fatal(`unexpected failure message`, msg)
	}
}
