package tools

import (
	"bytes"
	"errors"
	"os"
	"os/exec"
	"sort"
	"strings"
)

// Command is one external process invocation with optional environment
// overlay and working directory.
type Command struct {
	Name string
	Args []string
	Env  map[string]string
	Dir  string
}

// CommandRunner abstracts external process execution for provisioning steps.
type CommandRunner interface {
	Run(cmd Command) ([]byte, []byte, int32, error)
}

// ExecRunner executes commands on the local host.
type ExecRunner struct{}

func (r ExecRunner) Run(spec Command) ([]byte, []byte, int32, error) {
	cmd := exec.Command(spec.Name, spec.Args...)
	cmd.Dir = spec.Dir
	if len(spec.Env) > 0 {
		cmd.Env = append(os.Environ(), envPairs(spec.Env)...)
	}

	var stdout bytes.Buffer
	var stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if err == nil {
		return stdout.Bytes(), stderr.Bytes(), 0, nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return stdout.Bytes(), stderr.Bytes(), int32(exitErr.ExitCode()), err
	}

	exitCode := int32(1)
	var execErr *exec.Error
	if errors.As(err, &execErr) {
		exitCode = 127
	}
	return stdout.Bytes(), stderr.Bytes(), exitCode, err
}

// envPairs returns deterministic KEY=value pairs for an environment overlay.
func envPairs(env map[string]string) []string {
	keys := make([]string, 0, len(env))
	for k := range env {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, k+"="+env[k])
	}
	return pairs
}

// ShellCommand renders a Command as a single shell line with environment
// overlay prefixed, safe for remote execution.
func ShellCommand(spec Command) string {
	var builder strings.Builder
	for _, pair := range envPairs(spec.Env) {
		idx := strings.IndexByte(pair, '=')
		builder.WriteString(pair[:idx+1])
		builder.WriteString(shellEscape(pair[idx+1:]))
		builder.WriteByte(' ')
	}
	builder.WriteString(shellEscape(spec.Name))
	for _, arg := range spec.Args {
		builder.WriteByte(' ')
		builder.WriteString(shellEscape(arg))
	}
	return builder.String()
}

func shellEscape(value string) string {
	if value == "" {
		return "''"
	}
	return "'" + strings.ReplaceAll(value, "'", `'"'"'`) + "'"
}
