package train

import (
	"context"
	"os"
	"strings"
	"testing"

	"github.com/lunsanna/wav2vec2-finetune/curriculum"
	req "github.com/lunsanna/wav2vec2-finetune/decode_yaml/request"
)

func TestWriteManifest(t *testing.T) {
	ctx := context.Background()
	t.Setenv(`W2V2_CHECKPOINTS`, t.TempDir())
	args := req.Wav2Vec2{Pretrained: `base-model`, BatchMB: 4, NumEpochs: 10,
		LearningRate: 1e-4, WarmupPct: 12, GradNormMax: 0.4}
	trainer := NewCTCTrainer(ctx, `fi`, args, `unit_test`, 0)
	examples := []curriculum.Example{
		{ID: 1, AudioPath: `/audio/a.wav`, Text: `yksi kaksi`},
		{ID: 2, AudioPath: `/audio/b.wav`, Text: `kolme`},
	}
	manifest, status := trainer.writeManifest(t.TempDir(), examples)
	if status != nil {
		t.Fatal(status)
	}
	content, err := os.ReadFile(manifest)
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimRight(string(content), "\n"), "\n")
	if len(lines) != 2 {
		t.Fatal(`expected 2 manifest lines, got`, len(lines))
	}
	if lines[0] != "/audio/a.wav\tyksi kaksi" {
		t.Fatal(`unexpected manifest line`, lines[0])
	}
}

func TestInitialCheckpoint(t *testing.T) {
	ctx := context.Background()
	args := req.Wav2Vec2{Pretrained: `GetmanY1/wav2vec2-large-fi-150k`}
	trainer := NewCTCTrainer(ctx, `fi`, args, `unit_test`, 1)
	if trainer.InitialCheckpoint().Dir != `GetmanY1/wav2vec2-large-fi-150k` {
		t.Fatal(`initial checkpoint must be the pretrained model`)
	}
}
