package trace

import (
	"strconv"
	"strings"
)

// tagPrefix is put in front of every tag name before tokenizing. The HTML
// tokenizer reads <script>, <style>, <title>, <textarea> and friends as raw
// text, so a component named Title would swallow its children.
const tagPrefix = "j-"

// placeholderRune starts the quoted stand-in of an attribute expression.
const placeholderRune = '\uE000'

// masker rewrites emitted JSX into markup the HTML tokenizer reads
// faithfully:
//   - attribute expressions ({...}) become quoted placeholders, so ">"
//     inside an arrow function does not end the tag;
//   - "<" inside string literals outside tags is escaped, so text such as
//     {"a <b> c"} is not read as a tag;
//   - tag names get tagPrefix.
type masker struct {
	src   string
	pos   int
	out   strings.Builder
	exprs []string
}

func mask(src string) (string, []string) {
	m := &masker{src: src}
	m.out.Grow(len(src))
	for m.pos < len(src) {
		c := src[m.pos]
		switch {
		case c == '<' && m.startsTag():
			m.tag()
		case c == '"' || c == '\'' || c == '`':
			m.text(m.stringEnd(m.pos))
		default:
			m.out.WriteByte(c)
			m.pos++
		}
	}
	return m.out.String(), m.exprs
}

// startsTag reports whether the "<" at pos opens a start or end tag.
func (m *masker) startsTag() bool {
	next := m.pos + 1
	if next < len(m.src) && m.src[next] == '/' {
		next++
	}
	return next < len(m.src) && isLetter(m.src[next])
}

// tag copies one tag, replacing attribute expressions by placeholders.
func (m *masker) tag() {
	m.out.WriteByte('<')
	m.pos++
	if m.src[m.pos] == '/' {
		m.out.WriteByte('/')
		m.pos++
	}
	m.out.WriteString(tagPrefix)

	for m.pos < len(m.src) {
		c := m.src[m.pos]
		switch c {
		case '>':
			m.out.WriteByte(c)
			m.pos++
			return
		case '"', '\'':
			end := m.stringEnd(m.pos)
			m.out.WriteString(m.src[m.pos:end])
			m.pos = end
		case '{':
			end := m.braceEnd(m.pos)
			m.out.WriteByte('"')
			m.out.WriteRune(placeholderRune)
			m.out.WriteString(strconv.Itoa(len(m.exprs)))
			m.out.WriteByte('"')
			m.exprs = append(m.exprs, m.src[m.pos:end])
			m.pos = end
		default:
			m.out.WriteByte(c)
			m.pos++
		}
	}
}

// text copies the string literal ending at end with "<" escaped.
func (m *masker) text(end int) {
	m.out.WriteString(strings.ReplaceAll(m.src[m.pos:end], "<", "&lt;"))
	m.pos = end
}

// stringEnd returns the offset just past the string literal opened at
// start. Unterminated literals run to the end of the source.
func (m *masker) stringEnd(start int) int {
	quote := m.src[start]
	for i := start + 1; i < len(m.src); i++ {
		switch m.src[i] {
		case '\\':
			i++
		case quote:
			return i + 1
		}
	}
	return len(m.src)
}

// braceEnd returns the offset just past the "}" matching the "{" at start,
// skipping string literals.
func (m *masker) braceEnd(start int) int {
	depth := 0
	for i := start; i < len(m.src); i++ {
		switch m.src[i] {
		case '"', '\'', '`':
			i = m.stringEnd(i) - 1
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i + 1
			}
		}
	}
	return len(m.src)
}

// unmask returns the expression a placeholder value stands for.
func unmask(value string, exprs []string) (string, bool) {
	rest, ok := strings.CutPrefix(value, string(placeholderRune))
	if !ok {
		return "", false
	}
	index, err := strconv.Atoi(rest)
	if err != nil || index < 0 || index >= len(exprs) {
		return "", false
	}
	return exprs[index], true
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}
