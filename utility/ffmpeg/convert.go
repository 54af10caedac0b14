package ffmpeg

import (
	"context"
	"path/filepath"
	"strings"

	ffmpeg "github.com/u2takey/ffmpeg-go"

	log "github.com/lunsanna/wav2vec2-finetune/logger"
)

// ConvertToWav16k converts any input audio to the 16 kHz mono PCM wav
// the feature extractor expects. The wav is written into directory and
// the output path returned. Inputs that are already .wav are converted
// anyway, resampling is cheap and guarantees the rate.
func ConvertToWav16k(ctx context.Context, directory string, audioPath string) (string, *log.Status) {
	filename := filepath.Base(audioPath)
	ext := filepath.Ext(filename)
	outputPath := filepath.Join(directory, strings.TrimSuffix(filename, ext)+`.wav`)
	err := ffmpeg.Input(audioPath).
		Output(outputPath, ffmpeg.KwArgs{
			`ar`:     16000,
			`ac`:     1,
			`acodec`: `pcm_s16le`,
		}).
		OverWriteOutput().
		Silent(true).
		Run()
	if err != nil {
		return outputPath, log.Error(ctx, 500, err, `Error converting audio to wav`, audioPath)
	}
	return outputPath, nil
}
