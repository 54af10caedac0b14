package stdio_exec

import (
	"bufio"
	"context"
	"os/exec"
	"sync"

	log "github.com/lunsanna/wav2vec2-finetune/logger"
)

// RunScriptWithLogging runs a long-lived python program, such as one
// training phase, to completion. stdout lines are logged as INFO and
// stderr lines as WARN so trainer progress bars stay visible in the run
// log without failing the run.
func RunScriptWithLogging(ctx context.Context, python string, args ...string) *log.Status {
	var newArgs []string
	newArgs = append(newArgs, "-u")
	newArgs = append(newArgs, args...)
	cmd := exec.Command(python, newArgs...)
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return log.Error(ctx, 500, err, `Unable to open stdout for reading`, cmd.String())
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return log.Error(ctx, 500, err, `Unable to open stderr for reading`, cmd.String())
	}
	err = cmd.Start()
	if err != nil {
		return log.Error(ctx, 500, err, `Unable to execute command`, cmd.String())
	}
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		scanner := bufio.NewScanner(stdout)
		for scanner.Scan() {
			log.Info(ctx, "PY:", scanner.Text())
		}
	}()
	go func() {
		defer wg.Done()
		scanner := bufio.NewScanner(stderr)
		for scanner.Scan() {
			log.Warn(ctx, "PY:", scanner.Text())
		}
	}()
	err = cmd.Wait() // Wait for process to complete
	if err != nil {
		return log.Error(ctx, 500, err, `Error occurred in final wait of cmd`, cmd.String())
	}
	wg.Wait() // Wait for goroutines to finish reading any remaining output
	return nil
}
