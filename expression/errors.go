package expression

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnboundReference matches every UnboundReferenceError with errors.Is.
var ErrUnboundReference = errors.New("unbound reference")

// UnboundReferenceError reports an identifier that is neither a declared
// argument, a known global nor a resolvable data source.
type UnboundReferenceError struct {
	Identifier string
	Source     string
}

func (e *UnboundReferenceError) Error() string {
	return fmt.Sprintf("unbound reference %q in %q", e.Identifier, e.Source)
}

// Is makes errors.Is(err, ErrUnboundReference) work.
func (e *UnboundReferenceError) Is(target error) bool {
	return target == ErrUnboundReference
}

// SyntaxError reports malformed or forbidden micro-language source.
type SyntaxError struct {
	Source  string
	Offset  int
	Message string
}

func newSyntaxError(src string, offset int, format string, args ...any) *SyntaxError {
	return &SyntaxError{Source: src, Offset: offset, Message: fmt.Sprintf(format, args...)}
}

func (e *SyntaxError) Error() string {
	line, col := position(e.Source, e.Offset)
	return fmt.Sprintf("%s at %d:%d\n%s", e.Message, line, col, contextLine(e.Source, e.Offset))
}

// position converts a byte offset into a 1-based line and column.
func position(src string, offset int) (line, col int) {
	if offset > len(src) {
		offset = len(src)
	}
	before := src[:offset]
	line = strings.Count(before, "\n") + 1
	col = offset - strings.LastIndex(before, "\n")
	return line, col
}

// contextLine renders the offending source line with a caret under offset.
func contextLine(src string, offset int) string {
	line, col := position(src, offset)
	lines := strings.Split(src, "\n")
	text := lines[line-1]
	return fmt.Sprintf("> %4d | %s\n       %s^", line, text, strings.Repeat(" ", col-1))
}
