package controller

import (
	"context"
	"path/filepath"

	"github.com/lunsanna/wav2vec2-finetune/courier"
	"github.com/lunsanna/wav2vec2-finetune/curriculum"
	"github.com/lunsanna/wav2vec2-finetune/db"
	"github.com/lunsanna/wav2vec2-finetune/decode_yaml"
	"github.com/lunsanna/wav2vec2-finetune/decode_yaml/request"
	"github.com/lunsanna/wav2vec2-finetune/input"
	log "github.com/lunsanna/wav2vec2-finetune/logger"
	"github.com/lunsanna/wav2vec2-finetune/report"
	"github.com/lunsanna/wav2vec2-finetune/trainer"
	"github.com/lunsanna/wav2vec2-finetune/utility/zip"
	w2vasr "github.com/lunsanna/wav2vec2-finetune/wav2vec2/asr"
	w2vtrain "github.com/lunsanna/wav2vec2-finetune/wav2vec2/train"
)

const testRunLimit = 30

// Controller executes one fine-tuning run end to end: decode the
// request, load the dataset, build the curriculum, run the phases, and
// deliver the results.
type Controller struct {
	ctx          context.Context
	yamlContent  []byte
	foldOverride int
	req          request.Request
	conn         db.DBAdapter
	courier      courier.Courier
}

func NewController(ctx context.Context, yamlContent []byte) Controller {
	var c Controller
	c.ctx = ctx
	c.yamlContent = yamlContent
	c.foldOverride = -1
	return c
}

// OverrideFold replaces the fold in the request, so one yaml file can
// drive all four cross-validation runs.
func (c *Controller) OverrideFold(fold int) {
	c.foldOverride = fold
}

// Process runs the request and always sends the outcome notification.
func (c *Controller) Process() *log.Status {
	status := c.processSteps()
	if status != nil {
		_ = log.Error(c.ctx, status.Status, status.Err, `Run failed`)
	}
	notifyStatus := c.courier.Notification(status, c.req.NotifyOk, c.req.NotifyErr)
	if status == nil {
		status = notifyStatus
	}
	return status
}

func (c *Controller) processSteps() *log.Status {
	decoder := decode_yaml.NewRequestDecoder(c.ctx)
	var status *log.Status
	c.req, status = decoder.Process(c.yamlContent)
	if status != nil {
		return status
	}
	if c.foldOverride >= 0 && c.foldOverride <= 3 {
		c.req.Fold = c.foldOverride
	}
	c.ctx = context.WithValue(c.ctx, log.RunKey, c.req.DatasetName)
	c.courier = courier.NewCourier(c.ctx, c.yamlContent, c.req.Username, c.req.DatasetName)

	c.conn, status = db.NewDBAdapter(c.ctx, c.req.IsNew, c.req.Username, c.req.DatasetName)
	if status != nil {
		return status
	}
	defer c.conn.Close()
	c.courier.AddDatabase(c.conn)

	if c.req.IsNew {
		if status = c.loadLabels(); status != nil {
			return status
		}
	}

	train, validation, status := c.selectExamples()
	if status != nil {
		return status
	}
	phases, status := c.buildPhases(train)
	if status != nil {
		return status
	}

	ctcTrainer := w2vtrain.NewCTCTrainer(c.ctx, c.req.LanguageISO,
		c.req.Training.Wav2Vec2, c.req.DatasetName, c.req.Fold)
	recognizer := w2vasr.NewCTCRecognizer(c.ctx, c.conn, c.req.LanguageISO)
	runner := trainer.NewPhaseRunner(c.ctx, ctcTrainer, recognizer,
		c.req.Curriculum.EvalEachPhase)
	results, runStatus := runner.Run(ctcTrainer.InitialCheckpoint(), phases, validation)

	// persist whatever completed before reporting the failure
	for _, result := range results {
		if !result.Evaluated {
			continue
		}
		status = c.conn.InsertPhaseMetrics(db.PhaseMetrics{
			EvalPoint:  result.EvalPoint,
			Phase:      result.Phase,
			Epochs:     result.Epochs,
			TrainSize:  result.TrainSize,
			WER:        result.Summary.WER,
			CER:        result.Summary.CER,
			WERStdDev:  result.Summary.WERStdDev,
			CERStdDev:  result.Summary.CERStdDev,
			ElapsedSec: result.Elapsed.Seconds(),
		})
		if status != nil {
			return status
		}
	}
	if runStatus != nil {
		return runStatus
	}

	if status = c.writeOutputs(results); status != nil {
		return status
	}
	return c.courier.PersistToBucket()
}

func (c *Controller) loadLabels() *log.Status {
	reader := input.NewLabelReader(c.conn)
	_, status := reader.Load(c.req.DataFiles.LabelFile, c.req.DataFiles.AudioDir, false)
	if status != nil {
		return status
	}
	if c.req.Synthetic.Use {
		_, status = reader.Load(c.req.DataFiles.SynthLabelFile, c.req.DataFiles.AudioDir, true)
	}
	return status
}

func (c *Controller) selectExamples() ([]curriculum.Example, []curriculum.Example, *log.Status) {
	trainRecs, status := c.conn.SelectTrainUtterances(c.req.Fold, false)
	if status != nil {
		return nil, nil, status
	}
	valRecs, status := c.conn.SelectValidationUtterances(c.req.Fold)
	if status != nil {
		return nil, nil, status
	}
	train := toExamples(trainRecs)
	validation := toExamples(valRecs)
	if c.req.TestRun {
		train = truncate(train, testRunLimit)
		validation = truncate(validation, testRunLimit)
	}
	if len(train) == 0 {
		return nil, nil, log.ErrorNoErr(c.ctx, 400, `No training utterances for fold`, c.req.Fold)
	}
	if len(validation) == 0 {
		return nil, nil, log.ErrorNoErr(c.ctx, 400, `No validation utterances for fold`, c.req.Fold)
	}
	return train, validation, nil
}

// buildPhases turns the selected training examples into the phase list:
// class-wise curriculum, synthetic two-phase curriculum, or a single
// phase for a plain run.
func (c *Controller) buildPhases(train []curriculum.Example) ([]curriculum.Phase, *log.Status) {
	totalEpochs := c.req.Training.Wav2Vec2.NumEpochs
	if c.req.TestRun {
		totalEpochs = 1
		return curriculum.Schedule(c.ctx, []curriculum.Bucket{train}, []int{1}, 1)
	}
	seed := c.req.Curriculum.Seed
	switch {
	case c.req.IsCCL():
		buckets, status := curriculum.Partition(c.ctx, train, c.req.Curriculum.DifficultyOrder)
		if status != nil {
			return nil, status
		}
		if c.req.Curriculum.UniformMixing {
			buckets, status = curriculum.UniformMixing(c.ctx, buckets,
				c.req.Curriculum.SwapProportion, seed)
			if status != nil {
				return nil, status
			}
		}
		return curriculum.Schedule(c.ctx, buckets, c.req.Curriculum.NEpochs, totalEpochs)

	case c.req.IsSyntheticCL():
		synth, status := c.selectSynthetic()
		if status != nil {
			return nil, status
		}
		var buckets []curriculum.Bucket
		if c.req.Synthetic.UniformMixing {
			buckets, status = curriculum.PairwiseMixing(c.ctx, train, synth,
				c.req.Synthetic.SwapProportion, seed)
			if status != nil {
				return nil, status
			}
		} else {
			buckets = []curriculum.Bucket{train, synth}
		}
		return curriculum.Schedule(c.ctx, buckets, c.req.Synthetic.NEpochs, totalEpochs)

	default:
		if c.req.Synthetic.Use {
			synth, status := c.selectSynthetic()
			if status != nil {
				return nil, status
			}
			train = curriculum.Shuffle(append(train, synth...), seed)
		}
		return curriculum.Schedule(c.ctx, []curriculum.Bucket{train},
			[]int{totalEpochs}, totalEpochs)
	}
}

func (c *Controller) selectSynthetic() ([]curriculum.Example, *log.Status) {
	records, status := c.conn.SelectTrainUtterances(c.req.Fold, true)
	if status != nil {
		return nil, status
	}
	if len(records) == 0 {
		return nil, log.ErrorNoErr(c.ctx, 400, `No synthetic utterances loaded`)
	}
	return toExamples(records), nil
}

func (c *Controller) writeOutputs(results []trainer.PhaseResult) *log.Status {
	outputDir := filepath.Dir(c.conn.DatabasePath)
	reportPath := filepath.Join(outputDir, c.req.DatasetName+`_metrics.xlsx`)
	writer := report.NewReportWriter(c.conn)
	if status := writer.WriteXLSX(reportPath); status != nil {
		return status
	}
	c.courier.AddOutput(reportPath)

	final := results[len(results)-1].Checkpoint
	if final.Dir != c.req.Training.Wav2Vec2.Pretrained {
		archive := filepath.Join(outputDir, c.req.DatasetName+`_model.zip`)
		_, err := zip.ZipDir(final.Dir, archive)
		if err != nil {
			log.Warn(c.ctx, `Could not archive final checkpoint`, err)
		} else {
			c.courier.AddOutput(archive)
		}
	}
	return nil
}

func toExamples(records []db.Utterance) []curriculum.Example {
	var results []curriculum.Example
	for _, rec := range records {
		results = append(results, curriculum.Example{
			ID:        rec.UtteranceId,
			Label:     rec.CEFRMean,
			AudioPath: rec.AudioPath,
			Text:      rec.Text,
			Synthetic: rec.Synthetic,
		})
	}
	return results
}

func truncate(examples []curriculum.Example, limit int) []curriculum.Example {
	if len(examples) > limit {
		return examples[:limit]
	}
	return examples
}
