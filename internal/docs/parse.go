package docs

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
)

var (
	ErrMalformedDirective = errors.New("docs: malformed task directive")
)

const directiveMarker = ".. task::"

// Directive is one machine-parsable task reference found in a document.
type Directive struct {
	TaskName string
	Platform string
	Prompt   string
	Line     int
}

// Block is one document unit: either a prose run or a directive. Blocks
// render in document order; nothing is ever reordered.
type Block struct {
	Prose     string
	Directive *Directive
}

// Document is an ordered sequence of prose blocks and task directives.
type Document struct {
	Blocks []Block
}

// Directives returns the document's directives in order.
func (d Document) Directives() []Directive {
	var out []Directive
	for _, block := range d.Blocks {
		if block.Directive != nil {
			out = append(out, *block.Directive)
		}
	}
	return out
}

// Parse scans a document for task directives:
//
//	.. task:: <task_name> <platform>
//	   :prompt: <prompt-string>
//
// Prose passes through untouched. Option lines must be indented beneath the
// directive; :prompt: is the only recognized option. Malformed directives
// are parse errors carrying the line number.
func Parse(r io.Reader) (Document, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)

	var doc Document
	var prose []string
	line := 0

	flushProse := func() {
		if len(prose) > 0 {
			doc.Blocks = append(doc.Blocks, Block{Prose: strings.Join(prose, "\n")})
			prose = nil
		}
	}

	var pending *Directive
	pendingIndent := 0

	for scanner.Scan() {
		line++
		text := scanner.Text()

		if pending != nil {
			if isOptionLine(text, pendingIndent) {
				if err := applyOption(pending, text, line); err != nil {
					return Document{}, err
				}
				continue
			}
			doc.Blocks = append(doc.Blocks, Block{Directive: pending})
			pending = nil
		}

		trimmed := strings.TrimLeft(text, " ")
		if strings.HasPrefix(trimmed, directiveMarker) {
			flushProse()
			directive, err := parseDirectiveLine(trimmed, line)
			if err != nil {
				return Document{}, err
			}
			pending = directive
			pendingIndent = len(text) - len(trimmed)
			continue
		}

		prose = append(prose, text)
	}
	if err := scanner.Err(); err != nil {
		return Document{}, fmt.Errorf("docs: scan: %w", err)
	}

	if pending != nil {
		doc.Blocks = append(doc.Blocks, Block{Directive: pending})
	}
	flushProse()

	return doc, nil
}

// ParseString parses a document held in memory.
func ParseString(source string) (Document, error) {
	return Parse(strings.NewReader(source))
}

func parseDirectiveLine(trimmed string, line int) (*Directive, error) {
	rest := strings.TrimPrefix(trimmed, directiveMarker)
	fields := strings.Fields(rest)
	if len(fields) != 2 {
		return nil, fmt.Errorf(
			"%w: line %d: want \"task_name platform\", got %q",
			ErrMalformedDirective, line, strings.TrimSpace(rest),
		)
	}
	return &Directive{TaskName: fields[0], Platform: fields[1], Line: line}, nil
}

// isOptionLine reports whether a line belongs to the option block of the
// directive opened at the given indentation.
func isOptionLine(text string, directiveIndent int) bool {
	trimmed := strings.TrimLeft(text, " ")
	if trimmed == "" {
		return false
	}
	indent := len(text) - len(trimmed)
	return indent > directiveIndent && strings.HasPrefix(trimmed, ":")
}

func applyOption(directive *Directive, text string, line int) error {
	trimmed := strings.TrimLeft(text, " ")
	rest := strings.TrimPrefix(trimmed, ":")
	idx := strings.Index(rest, ":")
	if idx < 0 {
		return fmt.Errorf("%w: line %d: malformed option %q", ErrMalformedDirective, line, trimmed)
	}

	name := rest[:idx]
	value := strings.TrimSpace(rest[idx+1:])
	switch name {
	case "prompt":
		directive.Prompt = value
	default:
		return fmt.Errorf("%w: line %d: unknown option %q", ErrMalformedDirective, line, name)
	}
	return nil
}
