package decode_yaml

import (
	"context"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/lunsanna/wav2vec2-finetune/curriculum"
	"github.com/lunsanna/wav2vec2-finetune/decode_yaml/request"
	log "github.com/lunsanna/wav2vec2-finetune/logger"
)

type RequestDecoder struct {
	ctx    context.Context
	errors []string
}

func NewRequestDecoder(ctx context.Context) RequestDecoder {
	var r RequestDecoder
	r.ctx = ctx
	return r
}

// Process decodes and validates one YAML run request. Every validation
// problem is collected so the user sees them all at once; any problem is
// fatal before training starts.
func (r *RequestDecoder) Process(yamlContent []byte) (request.Request, *log.Status) {
	result, status := r.Decode(yamlContent)
	if status != nil {
		return result, status
	}
	r.Validate(&result)
	if len(r.errors) > 0 {
		return result, log.Error(r.ctx, 400, curriculum.ErrConfiguration,
			strings.Join(r.errors, "\n"))
	}
	return result, nil
}

func (r *RequestDecoder) Decode(yamlContent []byte) (request.Request, *log.Status) {
	var result request.Request
	err := yaml.Unmarshal(yamlContent, &result)
	if err != nil {
		return result, log.Error(r.ctx, 400, err, `Error decoding YAML request`)
	}
	return result, nil
}
