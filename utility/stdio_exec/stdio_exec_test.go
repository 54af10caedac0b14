package stdio_exec

import (
	"context"
	"testing"
)

func TestStdioExecEcho(t *testing.T) {
	ctx := context.Background()
	stdio, status := NewStdioExec(ctx, `cat`)
	if status != nil {
		t.Fatal(status)
	}
	defer stdio.Close()
	result, status := stdio.Process(`yksi kaksi kolme`)
	if status != nil {
		t.Fatal(status)
	}
	if result != `yksi kaksi kolme` {
		t.Fatal(`expected echoed line, got`, result)
	}
	result, status = stdio.Process(`toinen rivi`)
	if status != nil {
		t.Fatal(status)
	}
	if result != `toinen rivi` {
		t.Fatal(`expected second echoed line, got`, result)
	}
}

func TestRunScriptWithLoggingMissingCommand(t *testing.T) {
	ctx := context.Background()
	status := RunScriptWithLogging(ctx, `/nonexistent/python`, `script.py`)
	if status == nil {
		t.Fatal(`expected failure for missing interpreter`)
	}
}
