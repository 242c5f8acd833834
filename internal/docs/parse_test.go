package docs

import (
	"errors"
	"testing"

	"github.com/danmuck/forgectl/internal/testutil/testlog"
)

const sampleDocument = `Enabling the control service
============================

Run the following commands on the control node.

.. task:: enable_flocker_control centos-7
   :prompt: [root@control-node]#

If firewall-cmd is not installed on the machine, skip the next step.

.. task:: open_control_firewall centos-7
   :prompt: [root@control-node]#

Done.
`

func TestParsePreservesOrderAndProse(t *testing.T) {
	testlog.Start(t)
	doc, err := ParseString(sampleDocument)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	directives := doc.Directives()
	if len(directives) != 2 {
		t.Fatalf("expected 2 directives, got %d", len(directives))
	}
	if directives[0].TaskName != "enable_flocker_control" || directives[0].Platform != "centos-7" {
		t.Fatalf("unexpected first directive: %+v", directives[0])
	}
	if directives[1].TaskName != "open_control_firewall" {
		t.Fatalf("unexpected second directive: %+v", directives[1])
	}

	// prose, directive, prose, directive, prose
	if len(doc.Blocks) != 5 {
		t.Fatalf("expected 5 blocks, got %d", len(doc.Blocks))
	}
	if doc.Blocks[0].Directive != nil || doc.Blocks[1].Directive == nil {
		t.Fatalf("unexpected block layout: %+v", doc.Blocks)
	}
}

func TestParseReadsPromptOption(t *testing.T) {
	testlog.Start(t)
	doc, err := ParseString(sampleDocument)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	for _, directive := range doc.Directives() {
		if directive.Prompt != "[root@control-node]#" {
			t.Fatalf("unexpected prompt: %q", directive.Prompt)
		}
	}
}

func TestParsePromptIsOptional(t *testing.T) {
	testlog.Start(t)
	doc, err := ParseString(".. task:: enable_flocker_control centos-7\n")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	directives := doc.Directives()
	if len(directives) != 1 || directives[0].Prompt != "" {
		t.Fatalf("unexpected directives: %+v", directives)
	}
}

func TestParseRecordsLineNumbers(t *testing.T) {
	testlog.Start(t)
	doc, err := ParseString("intro\n\n.. task:: enable_flocker_control centos-7\n")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if got := doc.Directives()[0].Line; got != 3 {
		t.Fatalf("unexpected line: %d", got)
	}
}

func TestParseDirectiveMissingPlatform(t *testing.T) {
	testlog.Start(t)
	if _, err := ParseString(".. task:: enable_flocker_control\n"); !errors.Is(err, ErrMalformedDirective) {
		t.Fatalf("expected ErrMalformedDirective, got %v", err)
	}
}

func TestParseDirectiveExtraFields(t *testing.T) {
	testlog.Start(t)
	if _, err := ParseString(".. task:: a b c\n"); !errors.Is(err, ErrMalformedDirective) {
		t.Fatalf("expected ErrMalformedDirective, got %v", err)
	}
}

func TestParseUnknownOption(t *testing.T) {
	testlog.Start(t)
	source := ".. task:: enable_flocker_control centos-7\n   :sudo: yes\n"
	if _, err := ParseString(source); !errors.Is(err, ErrMalformedDirective) {
		t.Fatalf("expected ErrMalformedDirective, got %v", err)
	}
}

func TestParseAdvisoryProsePassesThrough(t *testing.T) {
	testlog.Start(t)
	source := "If firewall-cmd is absent, skip this step.\n"
	doc, err := ParseString(source)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(doc.Blocks) != 1 || doc.Blocks[0].Prose != "If firewall-cmd is absent, skip this step." {
		t.Fatalf("advisory prose mangled: %+v", doc.Blocks)
	}
}

func TestParseDirectiveAtEOF(t *testing.T) {
	testlog.Start(t)
	doc, err := ParseString("prose\n.. task:: enable_flocker_control centos-7\n   :prompt: $")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	directives := doc.Directives()
	if len(directives) != 1 || directives[0].Prompt != "$" {
		t.Fatalf("unexpected directives: %+v", directives)
	}
}
