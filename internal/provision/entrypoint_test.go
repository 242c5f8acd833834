package provision

import (
	"errors"
	"reflect"
	"testing"

	"github.com/danmuck/forgectl/internal/testutil/testlog"
)

func TestParseEntrypointArgsEqualsForm(t *testing.T) {
	testlog.Start(t)
	destination, passthrough, err := ParseEntrypointArgs([]string{
		"--destination-path=/output", "--distribution", "centos-7",
	})
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if destination != "/output" {
		t.Fatalf("unexpected destination: %q", destination)
	}
	want := []string{"--distribution", "centos-7"}
	if !reflect.DeepEqual(passthrough, want) {
		t.Fatalf("unexpected passthrough: %v", passthrough)
	}
}

func TestParseEntrypointArgsSeparateForm(t *testing.T) {
	testlog.Start(t)
	destination, passthrough, err := ParseEntrypointArgs([]string{
		"--destination-path", "/output",
	})
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if destination != "/output" {
		t.Fatalf("unexpected destination: %q", destination)
	}
	if len(passthrough) != 0 {
		t.Fatalf("unexpected passthrough: %v", passthrough)
	}
}

func TestParseEntrypointArgsMissingDestination(t *testing.T) {
	testlog.Start(t)
	if _, _, err := ParseEntrypointArgs([]string{"--distribution", "centos-7"}); !errors.Is(err, ErrMissingDestination) {
		t.Fatalf("expected ErrMissingDestination, got %v", err)
	}
	if _, _, err := ParseEntrypointArgs(nil); !errors.Is(err, ErrMissingDestination) {
		t.Fatalf("expected ErrMissingDestination for empty argv, got %v", err)
	}
}

func TestParseEntrypointArgsDuplicateDestination(t *testing.T) {
	testlog.Start(t)
	_, _, err := ParseEntrypointArgs([]string{
		"--destination-path=/a", "--destination-path=/b",
	})
	if !errors.Is(err, ErrDuplicateDestination) {
		t.Fatalf("expected ErrDuplicateDestination, got %v", err)
	}
}

func TestParseEntrypointArgsEmptyValue(t *testing.T) {
	testlog.Start(t)
	if _, _, err := ParseEntrypointArgs([]string{"--destination-path="}); !errors.Is(err, ErrEmptyDestination) {
		t.Fatalf("expected ErrEmptyDestination, got %v", err)
	}
	if _, _, err := ParseEntrypointArgs([]string{"--destination-path"}); !errors.Is(err, ErrEmptyDestination) {
		t.Fatalf("expected ErrEmptyDestination for trailing flag, got %v", err)
	}
}

func TestNewInvocationArgvShape(t *testing.T) {
	testlog.Start(t)
	invocation, err := NewInvocation(DefaultSpec(), "/output", "--distribution", "centos-7")
	if err != nil {
		t.Fatalf("new invocation: %v", err)
	}
	want := []string{
		"/flocker/admin/build-package-entrypoint",
		"--destination-path=/output",
		"--distribution",
		"centos-7",
	}
	if !reflect.DeepEqual(invocation.Argv, want) {
		t.Fatalf("unexpected argv: %v", invocation.Argv)
	}
	if invocation.DestinationPath != "/output" {
		t.Fatalf("unexpected destination: %q", invocation.DestinationPath)
	}
}

func TestNewInvocationRejectsMissingAndDuplicateDestination(t *testing.T) {
	testlog.Start(t)
	if _, err := NewInvocation(DefaultSpec(), ""); !errors.Is(err, ErrMissingDestination) {
		t.Fatalf("expected ErrMissingDestination, got %v", err)
	}
	if _, err := NewInvocation(DefaultSpec(), "/output", "--destination-path=/other"); !errors.Is(err, ErrDuplicateDestination) {
		t.Fatalf("expected ErrDuplicateDestination, got %v", err)
	}
	if _, err := NewInvocation(DefaultSpec(), "/output", "--destination-path="); !errors.Is(err, ErrDuplicateDestination) {
		t.Fatalf("expected ErrDuplicateDestination for empty-valued flag, got %v", err)
	}
	if _, err := NewInvocation(DefaultSpec(), "/output", "--destination-path"); !errors.Is(err, ErrDuplicateDestination) {
		t.Fatalf("expected ErrDuplicateDestination for bare flag, got %v", err)
	}
}
