package request

// Request is one fine-tuning run, decoded from the YAML job file.
type Request struct {
	IsNew       bool       `yaml:"is_new"`
	DatasetName string     `yaml:"dataset_name"`
	Username    string     `yaml:"username"`
	LanguageISO string     `yaml:"language_iso"` // fi or sv
	Fold        int        `yaml:"fold"`         // held-out fold, 0-3
	NotifyOk    []string   `yaml:"notify_ok"`
	NotifyErr   []string   `yaml:"notify_err"`
	TestRun     bool       `yaml:"test_run"`
	DataFiles   DataFiles  `yaml:"data_files"`
	Training    Training   `yaml:"training"`
	Curriculum  Curriculum `yaml:"curriculum"`
	Synthetic   Synthetic  `yaml:"synthetic"`
}

// DataFiles locates the labeled utterance table and the audio it refers to.
// The label file is csv or xlsx with columns recording_path,
// transcript_normalized, split, cefr_mean.
type DataFiles struct {
	LabelFile      string `yaml:"label_file"`
	SynthLabelFile string `yaml:"synth_label_file"`
	AudioDir       string `yaml:"audio_dir"`
}

// Training holds the wav2vec2 fine-tuning hyperparameters passed through
// to the external trainer.
type Training struct {
	Wav2Vec2 Wav2Vec2 `yaml:"wav2vec2"`
}

type Wav2Vec2 struct {
	Pretrained   string  `yaml:"pretrained"`
	BatchMB      int     `yaml:"batch_mb"`
	NumEpochs    int     `yaml:"num_epochs"`
	LearningRate float64 `yaml:"learning_rate"`
	WarmupPct    float64 `yaml:"warmup_pct"`
	GradNormMax  float64 `yaml:"grad_norm_max"`
}

// Curriculum configures class-wise curriculum learning. A run uses CCL
// when difficulty_order is non-empty.
type Curriculum struct {
	DifficultyOrder [][]float64 `yaml:"difficulty_order"`
	NEpochs         []int       `yaml:"n_epochs"`
	UniformMixing   bool        `yaml:"uniform_mixing"`
	SwapProportion  float64     `yaml:"swap_proportion"`
	Seed            int64       `yaml:"seed"`
	EvalEachPhase   bool        `yaml:"eval_each_phase"`
}

// Synthetic configures the synthetic-speech curriculum: phase 0 trains on
// real data, phase 1 on real plus synthesised, optionally pairwise-mixed.
type Synthetic struct {
	Use            bool    `yaml:"use"`
	Curriculum     bool    `yaml:"curriculum"`
	UniformMixing  bool    `yaml:"uniform_mixing"`
	SwapProportion float64 `yaml:"swap_proportion"`
	NEpochs        []int   `yaml:"n_epochs"`
}

// IsCCL reports whether the run is a class-wise curriculum run.
func (r *Request) IsCCL() bool {
	return len(r.Curriculum.DifficultyOrder) > 0
}

// IsSyntheticCL reports whether the run is a real/synthetic two-phase
// curriculum run.
func (r *Request) IsSyntheticCL() bool {
	return r.Synthetic.Use && r.Synthetic.Curriculum
}
