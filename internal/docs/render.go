package docs

import (
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/danmuck/forgectl/internal/observability"
	"github.com/danmuck/forgectl/internal/tasks"
)

var (
	ErrUnresolvedDirective = errors.New("docs: unresolved task directive")
)

// DefaultPrompt decorates command lines when a directive carries no
// :prompt: option.
const DefaultPrompt = "$"

// Renderer substitutes resolved command blocks for task directives. Rendering
// is a single sequential pass over the document's blocks.
type Renderer struct {
	registry *tasks.Registry
}

// NewRenderer creates a renderer backed by a task registry.
func NewRenderer(registry *tasks.Registry) *Renderer {
	if registry == nil {
		registry = tasks.NewRegistry()
	}
	return &Renderer{registry: registry}
}

// Render emits the document with every directive replaced by its command
// block. The first unresolvable (task_name, platform) pair aborts the render.
func (r *Renderer) Render(doc Document) (string, error) {
	var out strings.Builder

	for _, block := range doc.Blocks {
		if block.Directive == nil {
			out.WriteString(block.Prose)
			out.WriteString("\n")
			continue
		}

		directive := *block.Directive
		task, ok := r.registry.Resolve(directive.TaskName, directive.Platform)
		observability.RecordDirective(ok)
		if !ok {
			observability.RecordRender(false)
			return "", unresolvedError(directive)
		}

		log.Debug().
			Str("task", directive.TaskName).
			Str("platform", directive.Platform).
			Int("line", directive.Line).
			Msg("docs directive resolved")
		out.WriteString(renderTask(task, directive.Prompt))
	}

	observability.RecordRender(true)
	return out.String(), nil
}

// Check resolves every directive in the document and reports each
// unresolvable pair, not only the first.
func (r *Renderer) Check(doc Document) error {
	var unresolved []string
	for _, directive := range doc.Directives() {
		_, ok := r.registry.Resolve(directive.TaskName, directive.Platform)
		observability.RecordDirective(ok)
		if !ok {
			unresolved = append(unresolved, fmt.Sprintf(
				"line %d: %s/%s", directive.Line, directive.TaskName, directive.Platform,
			))
		}
	}
	if len(unresolved) > 0 {
		return fmt.Errorf("%w: %s", ErrUnresolvedDirective, strings.Join(unresolved, "; "))
	}
	return nil
}

func renderTask(task tasks.Task, prompt string) string {
	if prompt == "" {
		prompt = DefaultPrompt
	}

	var out strings.Builder
	for _, cmd := range task.Commands {
		out.WriteString(prompt)
		out.WriteString(" ")
		out.WriteString(cmd)
		out.WriteString("\n")
	}
	if task.Output != "" {
		out.WriteString(task.Output)
		if !strings.HasSuffix(task.Output, "\n") {
			out.WriteString("\n")
		}
	}
	return out.String()
}

func unresolvedError(directive Directive) error {
	return fmt.Errorf(
		"%w: line %d: %s/%s",
		ErrUnresolvedDirective, directive.Line, directive.TaskName, directive.Platform,
	)
}
