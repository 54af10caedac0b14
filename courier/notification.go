package courier

import (
	"strings"
	"testing"
	"time"

	log "github.com/lunsanna/wav2vec2-finetune/logger"
)

// Notification emails the run outcome: notifyOk recipients on success
// with the report attached, notifyErr recipients on failure with the
// failing status and the log.
func (b *Courier) Notification(status *log.Status, notifyOk []string, notifyErr []string) *log.Status {
	var st *log.Status
	if !testing.Testing() || b.IsUnitTest {
		duration := time.Since(b.start)
		if status == nil {
			if len(notifyOk) > 0 {
				subject := `SUCCESS: ` + b.dataset
				st = GoMailSendMail(b.ctx, notifyOk, subject, b.successMsg(duration), b.outputs)
			}
		} else {
			if len(notifyErr) > 0 {
				subject := `FAILED: ` + b.dataset
				var attachments []string
				if b.logFile != `` {
					attachments = append(attachments, b.logFile)
				}
				st = GoMailSendMail(b.ctx, notifyErr, subject, b.failureMsg(status, duration), attachments)
			}
		}
	}
	return st
}

func (b *Courier) successMsg(duration time.Duration) string {
	var message []string
	message = append(message, `SUCCESS: `+b.dataset)
	message = append(message, `Duration: `+duration.String())
	for _, output := range b.outputs {
		message = append(message, output)
	}
	return strings.Join(message, "\n")
}

func (b *Courier) failureMsg(status *log.Status, duration time.Duration) string {
	var message []string
	message = append(message, `FAILED: `+b.dataset)
	message = append(message, status.Message)
	message = append(message, `Duration: `+duration.String())
	message = append(message, status.Trace)
	message = append(message, status.Request)
	return strings.Join(message, "\n")
}
