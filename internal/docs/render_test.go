package docs

import (
	"errors"
	"strings"
	"testing"

	"github.com/danmuck/forgectl/internal/tasks"
	"github.com/danmuck/forgectl/internal/testutil/testlog"
)

func TestRenderSubstitutesCommandBlockWithPrompt(t *testing.T) {
	testlog.Start(t)
	doc, err := ParseString(sampleDocument)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	rendered, err := NewRenderer(tasks.BuiltinRegistry()).Render(doc)
	if err != nil {
		t.Fatalf("render: %v", err)
	}

	if !strings.Contains(rendered, "[root@control-node]# systemctl enable flocker-control") {
		t.Fatalf("missing prompted command in:\n%s", rendered)
	}
	if !strings.Contains(rendered, "[root@control-node]# firewall-cmd --permanent --add-service flocker-control-api") {
		t.Fatalf("missing firewall command in:\n%s", rendered)
	}
	if strings.Contains(rendered, ".. task::") {
		t.Fatalf("directive leaked into output:\n%s", rendered)
	}
	if !strings.Contains(rendered, "If firewall-cmd is not installed") {
		t.Fatalf("advisory prose dropped:\n%s", rendered)
	}
}

func TestRenderKeepsDocumentOrder(t *testing.T) {
	testlog.Start(t)
	doc, err := ParseString(sampleDocument)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	rendered, err := NewRenderer(tasks.BuiltinRegistry()).Render(doc)
	if err != nil {
		t.Fatalf("render: %v", err)
	}

	intro := strings.Index(rendered, "Run the following commands")
	enable := strings.Index(rendered, "systemctl enable flocker-control")
	advisory := strings.Index(rendered, "If firewall-cmd is not installed")
	firewall := strings.Index(rendered, "firewall-cmd --permanent")
	done := strings.Index(rendered, "Done.")
	if !(intro < enable && enable < advisory && advisory < firewall && firewall < done) {
		t.Fatalf("blocks rendered out of order:\n%s", rendered)
	}
}

func TestRenderDefaultPrompt(t *testing.T) {
	testlog.Start(t)
	doc, err := ParseString(".. task:: enable_flocker_control centos-7\n")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	rendered, err := NewRenderer(tasks.BuiltinRegistry()).Render(doc)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(rendered, "$ systemctl enable flocker-control") {
		t.Fatalf("expected default prompt in:\n%s", rendered)
	}
}

func TestRenderUnresolvedDirectiveAborts(t *testing.T) {
	testlog.Start(t)
	doc, err := ParseString(".. task:: enable_flocker_control centos-6\n")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if _, err := NewRenderer(tasks.BuiltinRegistry()).Render(doc); !errors.Is(err, ErrUnresolvedDirective) {
		t.Fatalf("expected ErrUnresolvedDirective, got %v", err)
	}
}

func TestRenderIncludesTaskOutput(t *testing.T) {
	testlog.Start(t)
	registry := tasks.NewRegistry()
	if err := registry.Register(tasks.Task{
		Name:     "list_nodes",
		Platform: "centos-7",
		Commands: []string{"flockerctl list-nodes"},
		Output:   "SERVER     ADDRESS\nf2c7d5fa   10.0.0.1",
	}); err != nil {
		t.Fatalf("register: %v", err)
	}

	doc, err := ParseString(".. task:: list_nodes centos-7\n")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	rendered, err := NewRenderer(registry).Render(doc)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(rendered, "$ flockerctl list-nodes\nSERVER     ADDRESS") {
		t.Fatalf("output block missing:\n%s", rendered)
	}
}

func TestCheckReportsEveryUnresolvedDirective(t *testing.T) {
	testlog.Start(t)
	source := ".. task:: enable_flocker_control centos-6\n" +
		"\n" +
		".. task:: unknown_task centos-7\n" +
		"\n" +
		".. task:: enable_flocker_control centos-7\n"
	doc, err := ParseString(source)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	err = NewRenderer(tasks.BuiltinRegistry()).Check(doc)
	if !errors.Is(err, ErrUnresolvedDirective) {
		t.Fatalf("expected ErrUnresolvedDirective, got %v", err)
	}
	msg := err.Error()
	if !strings.Contains(msg, "enable_flocker_control/centos-6") {
		t.Fatalf("first unresolved pair missing: %s", msg)
	}
	if !strings.Contains(msg, "unknown_task/centos-7") {
		t.Fatalf("second unresolved pair missing: %s", msg)
	}
	if strings.Contains(msg, "enable_flocker_control/centos-7") {
		t.Fatalf("resolved pair reported: %s", msg)
	}
}

func TestCheckFullyResolvedDocument(t *testing.T) {
	testlog.Start(t)
	doc, err := ParseString(sampleDocument)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if err := NewRenderer(tasks.BuiltinRegistry()).Check(doc); err != nil {
		t.Fatalf("expected zero unresolved directives, got %v", err)
	}
}
