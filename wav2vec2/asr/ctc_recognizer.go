package asr

import (
	"context"
	"os"
	"path/filepath"

	"github.com/lunsanna/wav2vec2-finetune/curriculum"
	"github.com/lunsanna/wav2vec2-finetune/db"
	log "github.com/lunsanna/wav2vec2-finetune/logger"
	"github.com/lunsanna/wav2vec2-finetune/score"
	"github.com/lunsanna/wav2vec2-finetune/trainer"
	"github.com/lunsanna/wav2vec2-finetune/utility/ffmpeg"
	"github.com/lunsanna/wav2vec2-finetune/utility/stdio_exec"
)

// CTCRecognizer decodes the validation set with a given checkpoint and
// scores the hypotheses against the reference transcripts. The python
// recognizer is started once per evaluation and decodes one utterance
// per stdin line.
type CTCRecognizer struct {
	ctx  context.Context
	conn db.DBAdapter
	lang string
}

func NewCTCRecognizer(ctx context.Context, conn db.DBAdapter, lang string) *CTCRecognizer {
	var a CTCRecognizer
	a.ctx = ctx
	a.conn = conn
	a.lang = lang
	return &a
}

func (a *CTCRecognizer) Evaluate(state trainer.Checkpoint, examples []curriculum.Example,
	evalPoint string) (score.Summary, *log.Status) {
	var summary score.Summary
	pythonScript := filepath.Join(os.Getenv(`W2V2_SCRIPTS`), `wav2vec2/asr/recognize.py`)
	recognizer, status := stdio_exec.NewStdioExec(a.ctx, os.Getenv(`W2V2_ASR_PYTHON`),
		pythonScript, a.lang, state.Dir)
	if status != nil {
		return summary, status
	}
	defer recognizer.Close()
	tempDir, err := os.MkdirTemp(os.Getenv(`W2V2_TMP`), `w2v2_asr_`)
	if err != nil {
		return summary, log.Error(a.ctx, 500, err, `Error creating temp dir`)
	}
	defer os.RemoveAll(tempDir)
	var pairs []score.Pair
	var hypotheses []db.Hypothesis
	for _, ex := range examples {
		wavPath := ex.AudioPath
		if filepath.Ext(wavPath) != `.wav` {
			wavPath, status = ffmpeg.ConvertToWav16k(a.ctx, tempDir, ex.AudioPath)
			if status != nil {
				return summary, status
			}
		}
		response, status := recognizer.Process(wavPath)
		if status != nil {
			return summary, status
		}
		pairs = append(pairs, score.Pair{Reference: ex.Text, Hypothesis: response})
		hypotheses = append(hypotheses, db.Hypothesis{
			UtteranceId: ex.ID,
			EvalPoint:   evalPoint,
			Text:        response,
		})
	}
	recCount, status := a.conn.InsertHypotheses(hypotheses)
	if status != nil {
		return summary, status
	}
	if recCount != len(hypotheses) {
		log.Warn(a.ctx, `Hypothesis insert counts need investigation`, recCount, len(hypotheses))
	}
	summary = score.Summarize(pairs)
	log.Info(a.ctx, evalPoint, `N =`, len(pairs), `WER`, summary.WER, `CER`, summary.CER)
	return summary, nil
}
