package ffmpeg

import (
	"context"
	"encoding/json"
	"strconv"

	ffmpeg "github.com/u2takey/ffmpeg-go"

	log "github.com/lunsanna/wav2vec2-finetune/logger"
)

type ProbeData struct {
	Format ProbeFormat `json:"format"`
}

type ProbeFormat struct {
	Filename       string `json:"filename"`
	FormatName     string `json:"format_name"`
	FormatLongName string `json:"format_long_name"`
	StartTime      string `json:"start_time"`
	Duration       string `json:"duration"`
	Size           string `json:"size"`
	BitRate        string `json:"bit_rate"`
}

// GetAudioDuration returns the duration of an audio file in seconds.
func GetAudioDuration(ctx context.Context, filePath string) (float64, *log.Status) {
	var result float64
	probeData, status := GetProbeData(ctx, filePath)
	if status != nil {
		return result, status
	}
	var err error
	result, err = strconv.ParseFloat(probeData.Format.Duration, 64)
	if err != nil {
		return result, log.Error(ctx, 500, err, `Data conversion error in ffmpeg.GetAudioDuration`)
	}
	return result, nil
}

func GetProbeData(ctx context.Context, filePath string) (ProbeData, *log.Status) {
	var result ProbeData
	data, err := ffmpeg.Probe(filePath)
	if err != nil {
		return result, log.Error(ctx, 500, err, `Error in ffmpeg.GetProbeData`, filePath)
	}
	err = json.Unmarshal([]byte(data), &result)
	if err != nil {
		return result, log.Error(ctx, 500, err, `Error in ffmpeg.GetProbeData`, filePath)
	}
	return result, nil
}
