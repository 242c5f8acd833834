package tools

import (
	"strings"
	"testing"

	"github.com/danmuck/forgectl/internal/testutil/testlog"
)

func TestExecRunnerCapturesExitCode(t *testing.T) {
	testlog.Start(t)
	_, _, exitCode, err := ExecRunner{}.Run(Command{Name: "sh", Args: []string{"-c", "exit 3"}})
	if err == nil {
		t.Fatalf("expected error for non-zero exit")
	}
	if exitCode != 3 {
		t.Fatalf("unexpected exit code: %d", exitCode)
	}
}

func TestExecRunnerSuccess(t *testing.T) {
	testlog.Start(t)
	stdout, _, exitCode, err := ExecRunner{}.Run(Command{Name: "sh", Args: []string{"-c", "echo ok"}})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if exitCode != 0 {
		t.Fatalf("unexpected exit code: %d", exitCode)
	}
	if strings.TrimSpace(string(stdout)) != "ok" {
		t.Fatalf("unexpected stdout: %q", string(stdout))
	}
}

func TestExecRunnerMissingBinary(t *testing.T) {
	testlog.Start(t)
	_, _, exitCode, err := ExecRunner{}.Run(Command{Name: "definitely-not-a-binary-7c1a"})
	if err == nil {
		t.Fatalf("expected error for missing binary")
	}
	if exitCode != 127 {
		t.Fatalf("unexpected exit code: %d", exitCode)
	}
}

func TestExecRunnerEnvOverlay(t *testing.T) {
	testlog.Start(t)
	stdout, _, _, err := ExecRunner{}.Run(Command{
		Name: "sh",
		Args: []string{"-c", "printf %s \"$URLGRABBER_DEBUG\""},
		Env:  map[string]string{"URLGRABBER_DEBUG": "1"},
	})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if string(stdout) != "1" {
		t.Fatalf("env overlay not applied: %q", string(stdout))
	}
}

func TestShellCommandEscaping(t *testing.T) {
	testlog.Start(t)
	got := ShellCommand(Command{
		Name: "yum",
		Args: []string{"groupinstall", "-y", "Development Tools"},
		Env:  map[string]string{"URLGRABBER_DEBUG": "1"},
	})
	want := `URLGRABBER_DEBUG='1' 'yum' 'groupinstall' '-y' 'Development Tools'`
	if got != want {
		t.Fatalf("unexpected shell line:\n got=%s\nwant=%s", got, want)
	}
}

func TestShellCommandSingleQuoteValue(t *testing.T) {
	testlog.Start(t)
	got := ShellCommand(Command{Name: "echo", Args: []string{"it's"}})
	want := `'echo' 'it'"'"'s'`
	if got != want {
		t.Fatalf("unexpected shell line: %s", got)
	}
}

func TestShellCommandDeterministicEnvOrder(t *testing.T) {
	testlog.Start(t)
	cmd := Command{
		Name: "true",
		Env:  map[string]string{"B": "2", "A": "1", "C": "3"},
	}
	first := ShellCommand(cmd)
	for i := 0; i < 16; i++ {
		if got := ShellCommand(cmd); got != first {
			t.Fatalf("env order not deterministic: %s vs %s", got, first)
		}
	}
	if !strings.HasPrefix(first, "A='1' B='2' C='3' ") {
		t.Fatalf("env not sorted: %s", first)
	}
}
