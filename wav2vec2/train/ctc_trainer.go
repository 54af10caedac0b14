package train

import (
	"bufio"
	"context"
	"os"
	"path/filepath"
	"strconv"

	"github.com/lunsanna/wav2vec2-finetune/curriculum"
	req "github.com/lunsanna/wav2vec2-finetune/decode_yaml/request"
	log "github.com/lunsanna/wav2vec2-finetune/logger"
	"github.com/lunsanna/wav2vec2-finetune/trainer"
	"github.com/lunsanna/wav2vec2-finetune/utility/ffmpeg"
	"github.com/lunsanna/wav2vec2-finetune/utility/stdio_exec"
)

// CTCTrainer fine-tunes the wav2vec2 CTC model by running the external
// python trainer once per curriculum phase. Each call reads the model
// from the previous checkpoint and writes the next one, so the phase
// runner can thread model state through the curriculum.
type CTCTrainer struct {
	ctx       context.Context
	lang      string
	args      req.Wav2Vec2
	outputDir string
	phase     int
}

// NewCTCTrainer prepares a trainer writing checkpoints under
// $W2V2_CHECKPOINTS/<dataset>_fold_<fold>.
func NewCTCTrainer(ctx context.Context, lang string, args req.Wav2Vec2,
	datasetName string, fold int) *CTCTrainer {
	var t CTCTrainer
	t.ctx = ctx
	t.lang = lang
	t.args = args
	t.outputDir = filepath.Join(os.Getenv(`W2V2_CHECKPOINTS`),
		datasetName+`_fold_`+strconv.Itoa(fold))
	return &t
}

// InitialCheckpoint is the pretrained model the first phase starts from.
func (t *CTCTrainer) InitialCheckpoint() trainer.Checkpoint {
	return trainer.Checkpoint{Dir: t.args.Pretrained}
}

func (t *CTCTrainer) Train(state trainer.Checkpoint, examples []curriculum.Example,
	epochs int) (trainer.Checkpoint, *log.Status) {
	if len(examples) == 0 {
		return state, log.ErrorNoErr(t.ctx, 400, `Training phase has no examples`)
	}
	tempDir, err := os.MkdirTemp(os.Getenv(`W2V2_TMP`), `w2v2_train_`)
	if err != nil {
		return state, log.Error(t.ctx, 500, err, `Error creating temp dir`)
	}
	defer os.RemoveAll(tempDir)
	manifest, status := t.writeManifest(tempDir, examples)
	if status != nil {
		return state, status
	}
	next := filepath.Join(t.outputDir, `phase_`+strconv.Itoa(t.phase))
	t.phase++
	if err = os.MkdirAll(next, 0755); err != nil {
		return state, log.Error(t.ctx, 500, err, `Error creating checkpoint dir`, next)
	}
	pythonPath := os.Getenv(`W2V2_TRAIN_PYTHON`)
	pythonScript := filepath.Join(os.Getenv(`W2V2_SCRIPTS`), `wav2vec2/train/trainer.py`)
	status = stdio_exec.RunScriptWithLogging(t.ctx, pythonPath, pythonScript,
		t.lang,
		state.Dir,
		next,
		manifest,
		strconv.Itoa(t.args.BatchMB),
		strconv.Itoa(epochs),
		strconv.FormatFloat(t.args.LearningRate, 'e', -1, 64),
		strconv.FormatFloat(t.args.WarmupPct, 'f', -1, 64),
		strconv.FormatFloat(t.args.GradNormMax, 'f', -1, 64))
	if status != nil {
		return state, status
	}
	return trainer.Checkpoint{Dir: next}, nil
}

// writeManifest converts phase audio to 16 kHz wav where needed and
// writes the tab-separated wav-path / transcript list the python trainer
// consumes.
func (t *CTCTrainer) writeManifest(tempDir string, examples []curriculum.Example) (string, *log.Status) {
	manifest := filepath.Join(tempDir, `train.tsv`)
	file, err := os.Create(manifest)
	if err != nil {
		return manifest, log.Error(t.ctx, 500, err, `Error creating manifest`, manifest)
	}
	defer file.Close()
	writer := bufio.NewWriter(file)
	for _, ex := range examples {
		wavPath := ex.AudioPath
		if filepath.Ext(wavPath) != `.wav` {
			var status *log.Status
			wavPath, status = ffmpeg.ConvertToWav16k(t.ctx, tempDir, ex.AudioPath)
			if status != nil {
				return manifest, status
			}
		}
		_, err = writer.WriteString(wavPath + "\t" + ex.Text + "\n")
		if err != nil {
			return manifest, log.Error(t.ctx, 500, err, `Error writing manifest`, manifest)
		}
	}
	err = writer.Flush()
	if err != nil {
		return manifest, log.Error(t.ctx, 500, err, `Error writing manifest`, manifest)
	}
	return manifest, nil
}
