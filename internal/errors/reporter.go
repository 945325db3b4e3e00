package errors

import (
	"fmt"
	"strings"

	"github.com/fatih/color"

	"splc/internal/ast"
)

// CompilerError is a user-visible compilation failure: a typed kind plus a
// message, per spec.md §7 category 2. It is never retried; the caller
// reports it and exits non-zero.
type CompilerError struct {
	Code     string
	Message  string
	Position ast.Position
	Notes    []string
}

func (e *CompilerError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func New(code, message string, pos ast.Position) *CompilerError {
	return &CompilerError{Code: code, Message: message, Position: pos}
}

// Reporter formats CompilerErrors against the original source, Rust-caret
// style, the way the teacher's ErrorReporter does.
type Reporter struct {
	filename string
	lines    []string
}

func NewReporter(filename, source string) *Reporter {
	return &Reporter{filename: filename, lines: strings.Split(source, "\n")}
}

func (r *Reporter) Format(err *CompilerError) string {
	var out strings.Builder

	bold := color.New(color.Bold, color.FgRed).SprintFunc()
	dim := color.New(color.Faint).SprintFunc()

	out.WriteString(fmt.Sprintf("%s[%s]: %s\n", bold("error"), err.Code, err.Message))
	out.WriteString(fmt.Sprintf("  %s %s:%d:%d\n", dim("-->"), r.filename, err.Position.Line, err.Position.Column))

	if err.Position.Line > 0 && err.Position.Line <= len(r.lines) {
		line := r.lines[err.Position.Line-1]
		out.WriteString(fmt.Sprintf("%4d %s %s\n", err.Position.Line, dim("|"), line))
		marker := strings.Repeat(" ", max(0, err.Position.Column-1)) + bold("^")
		out.WriteString(fmt.Sprintf("     %s %s\n", dim("|"), marker))
	}

	for _, note := range err.Notes {
		out.WriteString(fmt.Sprintf("     %s %s\n", dim("|"), color.BlueString("note: %s", note)))
	}

	return out.String()
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
