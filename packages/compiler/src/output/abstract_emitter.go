package output

import (
	"strings"
)

var indentWith = "    "

// EmittedLine represents a line being emitted
type EmittedLine struct {
	Parts  []string
	Indent int
}

// NewEmittedLine creates a new EmittedLine
func NewEmittedLine(indent int) *EmittedLine {
	return &EmittedLine{
		Parts:  []string{},
		Indent: indent,
	}
}

// EmitterVisitorContext accumulates the lines of a generated file
type EmitterVisitorContext struct {
	lines  []*EmittedLine
	indent int
}

// CreateRootEmitterVisitorContext creates a root EmitterVisitorContext
func CreateRootEmitterVisitorContext() *EmitterVisitorContext {
	return NewEmitterVisitorContext(0)
}

// NewEmitterVisitorContext creates a new EmitterVisitorContext
func NewEmitterVisitorContext(indent int) *EmitterVisitorContext {
	return &EmitterVisitorContext{
		lines:  []*EmittedLine{NewEmittedLine(indent)},
		indent: indent,
	}
}

// currentLine returns the current line being built
func (ctx *EmitterVisitorContext) currentLine() *EmittedLine {
	return ctx.lines[len(ctx.lines)-1]
}

// Println prints a part and terminates the line
func (ctx *EmitterVisitorContext) Println(lastPart string) {
	ctx.Print(lastPart, true)
}

// PrintLines prints every line of a multi-line fragment at the current indentation
func (ctx *EmitterVisitorContext) PrintLines(fragment string) {
	for _, line := range strings.Split(fragment, "\n") {
		ctx.Println(line)
	}
}

// LineIsEmpty checks if the current line is empty
func (ctx *EmitterVisitorContext) LineIsEmpty() bool {
	return len(ctx.currentLine().Parts) == 0
}

// Print prints to the context
func (ctx *EmitterVisitorContext) Print(part string, newLine bool) {
	if len(part) > 0 {
		line := ctx.currentLine()
		line.Parts = append(line.Parts, part)
	}
	if newLine {
		ctx.lines = append(ctx.lines, NewEmittedLine(ctx.indent))
	}
}

// IncIndent increases the indent
func (ctx *EmitterVisitorContext) IncIndent() {
	ctx.indent++
	if ctx.LineIsEmpty() {
		ctx.currentLine().Indent = ctx.indent
	}
}

// DecIndent decreases the indent
func (ctx *EmitterVisitorContext) DecIndent() {
	ctx.indent--
	if ctx.LineIsEmpty() {
		ctx.currentLine().Indent = ctx.indent
	}
}

// ToSource converts the context to source code. The result always ends with a newline.
func (ctx *EmitterVisitorContext) ToSource() string {
	lines := ctx.sourceLines()
	var sb strings.Builder
	for _, line := range lines {
		if len(line.Parts) > 0 {
			sb.WriteString(createIndent(line.Indent))
			sb.WriteString(strings.Join(line.Parts, ""))
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

func (ctx *EmitterVisitorContext) sourceLines() []*EmittedLine {
	if len(ctx.lines) > 0 && len(ctx.currentLine().Parts) == 0 {
		return ctx.lines[:len(ctx.lines)-1]
	}
	return ctx.lines
}

func createIndent(count int) string {
	return strings.Repeat(indentWith, count)
}

// EscapeString escapes a string for a double-quoted literal in C-like languages.
// Non-ASCII text is kept as UTF-8.
func EscapeString(input string) string {
	var sb strings.Builder
	for _, r := range input {
		switch r {
		case '\\':
			sb.WriteString(`\\`)
		case '"':
			sb.WriteString(`\"`)
		case '\n':
			sb.WriteString(`\n`)
		case '\r':
			sb.WriteString(`\r`)
		case '\t':
			sb.WriteString(`\t`)
		case 0:
			sb.WriteString(`\000`)
		default:
			sb.WriteRune(r)
		}
	}
	return sb.String()
}
