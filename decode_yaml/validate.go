package decode_yaml

import (
	"strconv"
	"strings"

	"github.com/lunsanna/wav2vec2-finetune/curriculum"
	"github.com/lunsanna/wav2vec2-finetune/decode_yaml/request"
)

// Validate checks the decoded request and fills in defaults. Errors are
// accumulated on the decoder.
func (r *RequestDecoder) Validate(req *request.Request) {
	r.checkRequired(req)
	r.checkTraining(&req.Training)
	r.checkCurriculum(req)
	r.checkSynthetic(req)
}

func (r *RequestDecoder) checkRequired(req *request.Request) {
	if req.DatasetName == `` {
		r.errors = append(r.errors, `Required field dataset_name is empty`)
	}
	if req.Username == `` {
		r.errors = append(r.errors, `Required field username: is empty`)
	}
	if req.LanguageISO != `fi` && req.LanguageISO != `sv` {
		r.errors = append(r.errors, `language_iso must be fi or sv, got `+req.LanguageISO)
	}
	if req.Fold < 0 || req.Fold > 3 {
		r.errors = append(r.errors, `fold must be 0-3, got `+strconv.Itoa(req.Fold))
	}
	if req.IsNew && req.DataFiles.LabelFile == `` {
		r.errors = append(r.errors, `Required field data_files.label_file is empty`)
	}
	req.DatasetName = strings.Replace(req.DatasetName, ` `, `_`, -1)
}

func (r *RequestDecoder) checkTraining(req *request.Training) {
	if req.Wav2Vec2.NumEpochs <= 0 {
		r.errors = append(r.errors, `training.wav2vec2.num_epochs must be positive`)
	}
	if req.Wav2Vec2.Pretrained == `` {
		r.errors = append(r.errors, `training.wav2vec2.pretrained is empty`)
	}
	if req.Wav2Vec2.BatchMB == 0 {
		req.Wav2Vec2.BatchMB = 4
	}
	if req.Wav2Vec2.LearningRate == 0 {
		req.Wav2Vec2.LearningRate = 1e-4
	}
}

// checkCurriculum verifies the consistency the scheduler demands: the
// epoch budget must match the difficulty order in length and must sum to
// the declared total epoch count.
func (r *RequestDecoder) checkCurriculum(req *request.Request) {
	cur := &req.Curriculum
	if cur.Seed == 0 {
		cur.Seed = curriculum.DefaultSeed
	}
	if !req.IsCCL() {
		if len(cur.NEpochs) > 0 {
			r.errors = append(r.errors, `curriculum.n_epochs set without difficulty_order`)
		}
		return
	}
	if len(cur.DifficultyOrder) != len(cur.NEpochs) {
		r.errors = append(r.errors, `curriculum.difficulty_order and n_epochs lengths differ: `+
			strconv.Itoa(len(cur.DifficultyOrder))+` vs `+strconv.Itoa(len(cur.NEpochs)))
	}
	var sum int
	for _, n := range cur.NEpochs {
		if n <= 0 {
			r.errors = append(r.errors, `curriculum.n_epochs entries must be positive`)
		}
		sum += n
	}
	if sum != req.Training.Wav2Vec2.NumEpochs {
		r.errors = append(r.errors, `curriculum.n_epochs sums to `+strconv.Itoa(sum)+
			` but training.wav2vec2.num_epochs is `+strconv.Itoa(req.Training.Wav2Vec2.NumEpochs))
	}
	if cur.UniformMixing {
		if cur.SwapProportion == 0 {
			cur.SwapProportion = 0.2
		}
		if cur.SwapProportion <= 0 || cur.SwapProportion >= 1 {
			r.errors = append(r.errors, `curriculum.swap_proportion must be strictly between 0 and 1`)
		}
	}
}

func (r *RequestDecoder) checkSynthetic(req *request.Request) {
	syn := &req.Synthetic
	if !syn.Use {
		if syn.Curriculum || syn.UniformMixing {
			r.errors = append(r.errors, `synthetic.curriculum requires synthetic.use`)
		}
		return
	}
	if req.DataFiles.SynthLabelFile == `` {
		r.errors = append(r.errors, `synthetic.use requires data_files.synth_label_file`)
	}
	if syn.Curriculum && req.IsCCL() {
		r.errors = append(r.errors, `synthetic.curriculum and curriculum.difficulty_order cannot be combined`)
	}
	if !syn.Curriculum {
		return
	}
	if len(syn.NEpochs) == 0 {
		half := req.Training.Wav2Vec2.NumEpochs / 2
		syn.NEpochs = []int{half, req.Training.Wav2Vec2.NumEpochs - half}
	}
	if len(syn.NEpochs) != 2 {
		r.errors = append(r.errors, `synthetic.n_epochs must have exactly 2 entries`)
	}
	var sum int
	for _, n := range syn.NEpochs {
		sum += n
	}
	if sum != req.Training.Wav2Vec2.NumEpochs {
		r.errors = append(r.errors, `synthetic.n_epochs sums to `+strconv.Itoa(sum)+
			` but training.wav2vec2.num_epochs is `+strconv.Itoa(req.Training.Wav2Vec2.NumEpochs))
	}
	if syn.UniformMixing {
		if syn.SwapProportion == 0 {
			syn.SwapProportion = 0.2
		}
		if syn.SwapProportion <= 0 || syn.SwapProportion >= 1 {
			r.errors = append(r.errors, `synthetic.swap_proportion must be strictly between 0 and 1`)
		}
	}
}
