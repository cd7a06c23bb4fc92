package expression

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

type tokenKind int

const (
	tokIdent tokenKind = iota
	tokNumber
	tokString
	// tokTemplate is a literal chunk of a template string, backticks and
	// substitution delimiters included.
	tokTemplate
	tokPunct
)

type token struct {
	kind tokenKind
	text string
	pos  int // byte offset in the source
	end  int
}

func (t token) is(text string) bool {
	return t.kind == tokPunct && t.text == text
}

// punctuators ordered longest first so the lexer takes the longest match.
var punctuators = []string{
	">>>=",
	"...", "===", "!==", "**=", "<<=", ">>=", ">>>", "&&=", "||=", "??=",
	"=>", "==", "!=", "<=", ">=", "&&", "||", "??", "?.", "++", "--",
	"+=", "-=", "*=", "/=", "%=", "&=", "|=", "^=", "**", "<<", ">>",
	"{", "}", "(", ")", "[", "]", ";", ",", "<", ">", "+", "-", "*",
	"/", "%", "&", "|", "^", "!", "~", "?", ":", "=", ".",
}

// lexer splits micro-language source into tokens. Template literals are
// split into literal chunks and ordinary tokens for their substitutions.
type lexer struct {
	src    string
	pos    int
	tokens []token
	// braces tracks open "{" (false) and open "${" substitutions (true).
	braces []bool
	// comments are the spans of // and /* */ comments.
	comments []edit
}

// tokenize returns the tokens of src and the comments between them.
func tokenize(src string) ([]token, []edit, error) {
	l := &lexer{src: src}
	if err := l.run(); err != nil {
		return nil, nil, err
	}
	return l.tokens, l.comments, nil
}

func (l *lexer) run() error {
	for {
		if err := l.skipSpace(); err != nil {
			return err
		}
		if l.pos >= len(l.src) {
			for _, substitution := range l.braces {
				if substitution {
					return newSyntaxError(l.src, l.pos, "unterminated template literal")
				}
			}
			return nil
		}
		start := l.pos
		r, size := utf8.DecodeRuneInString(l.src[l.pos:])
		switch {
		case isIdentStart(r):
			l.pos += size
			for l.pos < len(l.src) {
				r, size = utf8.DecodeRuneInString(l.src[l.pos:])
				if !isIdentPart(r) {
					break
				}
				l.pos += size
			}
			l.emit(tokIdent, start)
		case isDigit(r) || (r == '.' && l.peekDigit(1)):
			l.lexNumber()
			l.emit(tokNumber, start)
		case r == '"' || r == '\'':
			if err := l.lexString(byte(r)); err != nil {
				return err
			}
			l.emit(tokString, start)
		case r == '`':
			l.pos++
			if err := l.lexTemplateChunk(start); err != nil {
				return err
			}
		case r == '}' && len(l.braces) > 0 && l.braces[len(l.braces)-1]:
			// closes a template substitution, the template continues
			l.braces = l.braces[:len(l.braces)-1]
			l.pos++
			if err := l.lexTemplateChunk(start); err != nil {
				return err
			}
		default:
			punct := l.matchPunct()
			if punct == "" {
				return newSyntaxError(l.src, start, "unexpected character %q", r)
			}
			switch punct {
			case "{":
				l.braces = append(l.braces, false)
			case "}":
				if len(l.braces) > 0 {
					l.braces = l.braces[:len(l.braces)-1]
				}
			}
			l.pos += len(punct)
			l.emit(tokPunct, start)
		}
	}
}

func (l *lexer) emit(kind tokenKind, start int) {
	l.tokens = append(l.tokens, token{kind: kind, text: l.src[start:l.pos], pos: start, end: l.pos})
}

// skipSpace skips white space and comments. A line comment ends before its
// newline; a block comment is replaced by a single space so that the tokens
// around it stay apart.
func (l *lexer) skipSpace() error {
	for l.pos < len(l.src) {
		rest := l.src[l.pos:]
		switch {
		case strings.HasPrefix(rest, "//"):
			end := strings.IndexByte(rest, '\n')
			if end < 0 {
				end = len(rest)
			}
			l.comments = append(l.comments, edit{start: l.pos, end: l.pos + end})
			l.pos += end
		case strings.HasPrefix(rest, "/*"):
			end := strings.Index(rest[2:], "*/")
			if end < 0 {
				return newSyntaxError(l.src, l.pos, "unterminated comment")
			}
			l.comments = append(l.comments, edit{start: l.pos, end: l.pos + end + 4, text: " "})
			l.pos += end + 4
		default:
			r, size := utf8.DecodeRuneInString(rest)
			if !unicode.IsSpace(r) {
				return nil
			}
			l.pos += size
		}
	}
	return nil
}

func (l *lexer) peekDigit(offset int) bool {
	return l.pos+offset < len(l.src) && isDigit(rune(l.src[l.pos+offset]))
}

func (l *lexer) lexNumber() {
	for l.pos < len(l.src) {
		c := l.src[l.pos]
		switch {
		case isDigit(rune(c)), c == '.', c == '_', c == 'x', c == 'X', c == 'n',
			(c >= 'a' && c <= 'f'), (c >= 'A' && c <= 'F'), c == 'o', c == 'O':
			l.pos++
		case (c == '+' || c == '-') && (l.src[l.pos-1] == 'e' || l.src[l.pos-1] == 'E'):
			l.pos++
		default:
			return
		}
	}
}

func (l *lexer) lexString(quote byte) error {
	start := l.pos
	l.pos++
	for l.pos < len(l.src) {
		switch l.src[l.pos] {
		case '\\':
			l.pos += 2
		case quote:
			l.pos++
			return nil
		case '\n':
			return newSyntaxError(l.src, start, "unterminated string literal")
		default:
			l.pos++
		}
	}
	return newSyntaxError(l.src, start, "unterminated string literal")
}

// lexTemplateChunk scans template text up to the closing backtick or the
// next "${", emitting the chunk as one token.
func (l *lexer) lexTemplateChunk(start int) error {
	for l.pos < len(l.src) {
		switch {
		case l.src[l.pos] == '\\':
			l.pos += 2
		case l.src[l.pos] == '`':
			l.pos++
			l.emit(tokTemplate, start)
			return nil
		case strings.HasPrefix(l.src[l.pos:], "${"):
			l.pos += 2
			l.emit(tokTemplate, start)
			l.braces = append(l.braces, true)
			return nil
		default:
			l.pos++
		}
	}
	return newSyntaxError(l.src, start, "unterminated template literal")
}

func (l *lexer) matchPunct() string {
	rest := l.src[l.pos:]
	for _, p := range punctuators {
		if !strings.HasPrefix(rest, p) {
			continue
		}
		// "a?.5:b" is a conditional, not optional chaining
		if p == "?." && len(rest) > 2 && isDigit(rune(rest[2])) {
			continue
		}
		return p
	}
	return ""
}

func isIdentStart(r rune) bool {
	return r == '_' || r == '$' || unicode.IsLetter(r)
}

func isIdentPart(r rune) bool {
	return isIdentStart(r) || unicode.IsDigit(r)
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}
