package logger

import (
	"context"
	"fmt"
	"io"
	"os"
	"runtime"
	"strconv"
	"strings"
	"time"
)

type contextKey string

// RunKey identifies the run (dataset name) inside a context, so that
// errors logged deep in the call stack can be tied back to the request.
const RunKey contextKey = `run`

var output io.Writer = os.Stderr

// SetOutput directs log lines to `stdout`, `stderr`, or a file path.
func SetOutput(target string) {
	switch target {
	case `stdout`:
		output = os.Stdout
	case `stderr`:
		output = os.Stderr
	default:
		file, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			output = os.Stderr
			Warn(context.Background(), `Could not open log file, using stderr`, target, err)
			return
		}
		output = file
	}
}

func Info(ctx context.Context, messages ...any) {
	writeLine(ctx, `INFO`, messages...)
}

func Warn(ctx context.Context, messages ...any) {
	writeLine(ctx, `WARN`, messages...)
}

func Debug(ctx context.Context, messages ...any) {
	writeLine(ctx, `DEBUG`, messages...)
}

// Error logs the error and wraps it in a Status for the caller to return.
func Error(ctx context.Context, code int, err error, messages ...any) *Status {
	return newStatus(ctx, 3, code, err, messages...)
}

// ErrorNoErr reports a failure that has no underlying error value.
func ErrorNoErr(ctx context.Context, code int, messages ...any) *Status {
	return newStatus(ctx, 3, code, nil, messages...)
}

func newStatus(ctx context.Context, skip int, code int, err error, messages ...any) *Status {
	var s Status
	s.Status = code
	s.Err = err
	s.Message = joinMessages(messages...)
	s.Trace = caller(skip)
	s.Request = requestOf(ctx)
	writeLine(ctx, `ERROR`, s.String())
	return &s
}

// ExecError handles one stderr line from an external process. Progress
// chatter is logged as WARN and returns nil; lines that look like a real
// failure are promoted to an error Status.
func ExecError(ctx context.Context, code int, line string) *Status {
	if isProcessFailure(line) {
		return ErrorNoErr(ctx, code, line)
	}
	Warn(ctx, `EXT:`, line)
	return nil
}

func isProcessFailure(line string) bool {
	markers := []string{`Traceback`, `Error:`, `error:`, `Exception`, `FAILED`}
	for _, m := range markers {
		if strings.Contains(line, m) {
			return true
		}
	}
	return false
}

func writeLine(ctx context.Context, level string, messages ...any) {
	var parts []string
	parts = append(parts, time.Now().Format(`2006-01-02 15:04:05`), level)
	if req := requestOf(ctx); req != `` {
		parts = append(parts, req)
	}
	parts = append(parts, joinMessages(messages...))
	_, _ = fmt.Fprintln(output, strings.Join(parts, ` `))
}

func joinMessages(messages ...any) string {
	var parts []string
	for _, msg := range messages {
		parts = append(parts, fmt.Sprint(msg))
	}
	return strings.Join(parts, ` `)
}

func requestOf(ctx context.Context) string {
	if ctx == nil {
		return ``
	}
	if value, ok := ctx.Value(RunKey).(string); ok {
		return value
	}
	return ``
}

func caller(skip int) string {
	_, file, line, ok := runtime.Caller(skip)
	if !ok {
		return ``
	}
	return file + `:` + strconv.Itoa(line)
}
