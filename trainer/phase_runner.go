package trainer

import (
	"context"
	"strconv"
	"time"

	"github.com/lunsanna/wav2vec2-finetune/curriculum"
	log "github.com/lunsanna/wav2vec2-finetune/logger"
	"github.com/lunsanna/wav2vec2-finetune/score"
)

// Checkpoint is the model state threaded through the curriculum. It is
// owned exclusively by the phase runner: each phase trains from the
// previous phase's checkpoint, never from the initial model.
type Checkpoint struct {
	Dir string
}

// Trainer runs one training phase and returns the resulting checkpoint.
type Trainer interface {
	Train(state Checkpoint, examples []curriculum.Example, epochs int) (Checkpoint, *log.Status)
}

// Evaluator decodes the validation set with the given checkpoint and
// scores the hypotheses.
type Evaluator interface {
	Evaluate(state Checkpoint, examples []curriculum.Example, evalPoint string) (score.Summary, *log.Status)
}

// PhaseResult records one completed phase, or the baseline evaluation
// when Phase is -1.
type PhaseResult struct {
	EvalPoint  string
	Phase      int
	Epochs     int
	TrainSize  int
	Summary    score.Summary
	Evaluated  bool
	Elapsed    time.Duration
	Checkpoint Checkpoint
}

type PhaseRunner struct {
	ctx           context.Context
	trainer       Trainer
	evaluator     Evaluator
	evalEachPhase bool
}

func NewPhaseRunner(ctx context.Context, t Trainer, e Evaluator, evalEachPhase bool) PhaseRunner {
	var p PhaseRunner
	p.ctx = ctx
	p.trainer = t
	p.evaluator = e
	p.evalEachPhase = evalEachPhase
	return p
}

// Run executes the scheduled phases in order: evaluate the initial model
// for baseline metrics, train each phase carrying the checkpoint forward,
// and evaluate once more after the final phase. Collaborator failures
// stop the sequence and propagate unchanged.
func (p *PhaseRunner) Run(initial Checkpoint, phases []curriculum.Phase,
	validation []curriculum.Example) ([]PhaseResult, *log.Status) {
	var results []PhaseResult
	baseline, status := p.evaluator.Evaluate(initial, validation, `baseline`)
	if status != nil {
		return results, status
	}
	log.Info(p.ctx, `Baseline WER`, baseline.WER, `CER`, baseline.CER)
	results = append(results, PhaseResult{
		EvalPoint: `baseline`, Phase: -1, Summary: baseline,
		Evaluated: true, Checkpoint: initial,
	})

	state := initial
	for i, phase := range phases {
		log.Info(p.ctx, `Phase`, i, `N =`, len(phase.Examples), `epochs =`, phase.Epochs)
		start := time.Now()
		next, status := p.trainer.Train(state, phase.Examples, phase.Epochs)
		if status != nil {
			return results, status
		}
		state = next
		result := PhaseResult{
			EvalPoint:  evalPointName(i, len(phases)),
			Phase:      i,
			Epochs:     phase.Epochs,
			TrainSize:  len(phase.Examples),
			Elapsed:    time.Since(start),
			Checkpoint: state,
		}
		if p.evalEachPhase || i == len(phases)-1 {
			summary, status := p.evaluator.Evaluate(state, validation, result.EvalPoint)
			if status != nil {
				return results, status
			}
			result.Summary = summary
			result.Evaluated = true
			log.Info(p.ctx, result.EvalPoint, `WER`, summary.WER, `CER`, summary.CER)
		}
		results = append(results, result)
	}
	return results, nil
}

func evalPointName(phase int, total int) string {
	if phase == total-1 {
		return `final`
	}
	return `phase_` + strconv.Itoa(phase)
}
