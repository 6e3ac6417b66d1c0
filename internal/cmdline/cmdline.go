package cmdline

import (
	"strings"

	"github.com/kballard/go-shellquote"
)

// indentUnit is the rendered width of one indent level in Display output.
const indentUnit = "    "

// Line is one indented row of argument words. Indent levels are relative,
// not absolute columns; a Line never holds an empty word.
type Line struct {
	indent int
	words  []string
}

// NewLine builds a Line at the given indent, discarding blank words.
func NewLine(indent int, words ...string) Line {
	if indent < 0 {
		indent = 0
	}
	kept := make([]string, 0, len(words))
	for _, word := range words {
		if strings.TrimSpace(word) == "" {
			continue
		}
		kept = append(kept, word)
	}
	return Line{indent: indent, words: kept}
}

// Indent returns the line's indent level.
func (l Line) Indent() int { return l.indent }

// Words returns a copy of the line's words.
func (l Line) Words() []string {
	return append([]string(nil), l.words...)
}

// CommandLine is an ordered, append-only sequence of Lines modeling one
// engine invocation independent of how it will be rendered.
type CommandLine struct {
	lines []Line
}

// New returns an empty command line.
func New() *CommandLine {
	return &CommandLine{}
}

// Push appends a line of words at the given indent level. Blank words are
// dropped; a line with no surviving words is still recorded so indentation
// structure stays append-only and predictable.
func (c *CommandLine) Push(indent int, words ...string) {
	c.lines = append(c.lines, NewLine(indent, words...))
}

// Clone deep-copies the command line so per-job additions never leak back
// into the template.
func (c *CommandLine) Clone() *CommandLine {
	clone := &CommandLine{lines: make([]Line, len(c.lines))}
	for i, line := range c.lines {
		clone.lines[i] = Line{indent: line.indent, words: append([]string(nil), line.words...)}
	}
	return clone
}

// Len returns the number of lines.
func (c *CommandLine) Len() int { return len(c.lines) }

// Words flattens every line into a single word stream in line order with
// indentation discarded. The first word is the executable. Blank tokens are
// filtered so stray whitespace never reaches the child process argv.
func (c *CommandLine) Words() []string {
	var words []string
	for _, line := range c.lines {
		for _, word := range line.words {
			if strings.TrimSpace(word) == "" {
				continue
			}
			words = append(words, word)
		}
	}
	return words
}

// Display renders the command line for human preview: one text line per Line,
// indented by level, words space-joined.
func (c *CommandLine) Display() string {
	var b strings.Builder
	for i, line := range c.lines {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(strings.Repeat(indentUnit, line.indent))
		b.WriteString(strings.Join(line.words, " "))
	}
	return b.String()
}

// Script renders the whole invocation as one shell-safe line. Each word is
// escaped independently so spaces and quotes in resolved paths survive a
// shell's lexer.
func (c *CommandLine) Script() string {
	return shellquote.Join(c.Words()...)
}
