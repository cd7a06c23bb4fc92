// Package expression translates the builder's embedded expression language
// into inline JavaScript.
//
// Expressions reference data sources through encoded identifiers
// ("$ws$dataSource$<id>"). Translation rewrites each free identifier through
// a Resolver, turns member access into optional chaining so that missing
// data never throws at render time, and rejects constructs the language does
// not allow. Effectful code (action bodies) may additionally assign, and the
// Resolver learns which identifiers are assignment targets.
//
// Comments are dropped from the output. Regular expression literals are not
// part of the language: "/" is always division.
package expression

import (
	"slices"
	"sort"
	"strings"
)

const (
	dataSourceVariablePrefix = "$ws$dataSource$"
	dashEncoding             = "__DASH__"
)

// EncodeDataSourceVariable returns the identifier expressions use to refer
// to the data source id.
func EncodeDataSourceVariable(id string) string {
	return dataSourceVariablePrefix + strings.ReplaceAll(id, "-", dashEncoding)
}

// DecodeDataSourceVariable extracts a data source id from an encoded
// identifier.
func DecodeDataSourceVariable(identifier string) (string, bool) {
	encoded, ok := strings.CutPrefix(identifier, dataSourceVariablePrefix)
	if !ok {
		return "", false
	}
	return strings.ReplaceAll(encoded, dashEncoding, "-"), true
}

// Resolver maps a free identifier to its replacement. assignee reports
// whether the identifier is the root of an assignment target. Returning
// false marks the identifier as unbound.
type Resolver func(identifier string, assignee bool) (string, bool)

// Options controls Transpile.
type Options struct {
	// Effectful allows assignments, increments and ";" separated statements.
	Effectful bool
	// Optional rewrites member access on read paths to optional chaining.
	Optional bool
	// Args are identifiers bound by the surrounding handler; they pass
	// through unchanged.
	Args []string
	// Resolve classifies every other free identifier. Nil resolves nothing.
	Resolve Resolver
}

// globals are identifiers every expression may use as is.
var globals = map[string]bool{
	"true": true, "false": true, "null": true, "undefined": true,
	"NaN": true, "Infinity": true,
	"typeof": true, "instanceof": true, "in": true, "void": true,
}

// forbidden keywords would turn an expression into a statement or a
// function, neither of which the language supports.
var forbidden = map[string]bool{
	"function": true, "class": true, "var": true, "let": true, "const": true,
	"return": true, "import": true, "export": true, "if": true, "else": true,
	"for": true, "while": true, "do": true, "switch": true, "case": true,
	"try": true, "catch": true, "finally": true, "throw": true, "with": true,
	"debugger": true, "new": true, "delete": true, "this": true, "super": true,
	"await": true, "yield": true, "break": true, "continue": true,
}

var assignmentOperators = map[string]bool{
	"=": true, "+=": true, "-=": true, "*=": true, "/=": true, "%=": true,
	"**=": true, "<<=": true, ">>=": true, ">>>=": true, "&=": true,
	"|=": true, "^=": true, "&&=": true, "||=": true, "??=": true,
}

var closers = map[string]string{"(": ")", "[": "]", "{": "}"}

// edit replaces src[start:end] with text.
type edit struct {
	start, end int
	text       string
}

// Transpile validates source and rewrites its identifiers.
func Transpile(source string, opts Options) (string, error) {
	tokens, comments, err := tokenize(source)
	if err != nil {
		return "", err
	}
	if len(tokens) == 0 {
		if opts.Effectful {
			return "", nil
		}
		return "", newSyntaxError(source, 0, "empty expression")
	}
	matches, err := validate(source, tokens, opts)
	if err != nil {
		return "", err
	}

	t := &transpiler{source: source, tokens: tokens, matches: matches, opts: opts, edits: comments}
	if err := t.rewrite(); err != nil {
		return "", err
	}
	return t.apply(), nil
}

// validate checks bracket balance and forbidden constructs. It returns the
// index of the matching closer for every opening bracket.
func validate(source string, tokens []token, opts Options) (map[int]int, error) {
	matches := make(map[int]int)
	var stack []int
	for i, tok := range tokens {
		switch tok.kind {
		case tokIdent:
			if forbidden[tok.text] && !isPropertyName(tokens, i) {
				return nil, newSyntaxError(source, tok.pos, "%q is not supported in expressions", tok.text)
			}
		case tokPunct:
			switch {
			case tok.text == "(" || tok.text == "[" || tok.text == "{":
				stack = append(stack, i)
			case tok.text == ")" || tok.text == "]" || tok.text == "}":
				if len(stack) == 0 || closers[tokens[stack[len(stack)-1]].text] != tok.text {
					return nil, newSyntaxError(source, tok.pos, "unexpected %q", tok.text)
				}
				matches[stack[len(stack)-1]] = i
				stack = stack[:len(stack)-1]
			case tok.text == "=>":
				return nil, newSyntaxError(source, tok.pos, "functions are not supported in expressions")
			case !opts.Effectful && (assignmentOperators[tok.text] || tok.text == "++" || tok.text == "--"):
				return nil, newSyntaxError(source, tok.pos, "assignment is not allowed in expressions")
			case !opts.Effectful && tok.text == ";":
				return nil, newSyntaxError(source, tok.pos, "expected a single expression")
			}
		}
	}
	if len(stack) > 0 {
		open := tokens[stack[len(stack)-1]]
		return nil, newSyntaxError(source, open.pos, "unclosed %q", open.text)
	}
	return matches, nil
}

type transpiler struct {
	source  string
	tokens  []token
	matches map[int]int
	opts    Options
	edits   []edit
}

func (t *transpiler) rewrite() error {
	for i, tok := range t.tokens {
		if tok.kind != tokIdent || isPropertyName(t.tokens, i) || t.isObjectKey(i) {
			continue
		}
		if globals[tok.text] {
			continue
		}

		chainEnd, accessors := t.scanChain(i)
		assignee := t.isAssignmentTarget(i, chainEnd)

		replacement := tok.text
		if !slices.Contains(t.opts.Args, tok.text) {
			var ok bool
			if t.opts.Resolve != nil {
				replacement, ok = t.opts.Resolve(tok.text, assignee)
			}
			if !ok {
				return &UnboundReferenceError{Identifier: tok.text, Source: t.source}
			}
		}
		if t.isShorthandProperty(i) {
			if replacement != tok.text {
				t.edits = append(t.edits, edit{tok.pos, tok.end, tok.text + ": " + replacement})
			}
		} else if replacement != tok.text {
			t.edits = append(t.edits, edit{tok.pos, tok.end, replacement})
		}

		if t.opts.Optional && !assignee {
			for _, at := range accessors {
				acc := t.tokens[at]
				switch acc.text {
				case ".":
					t.edits = append(t.edits, edit{acc.pos, acc.end, "?."})
				case "[":
					t.edits = append(t.edits, edit{acc.pos, acc.pos, "?."})
				}
			}
		}
	}
	return nil
}

// scanChain walks the member access and call chain that starts at the
// identifier at index i. It returns the index just past the chain and the
// indexes of "." and "[" accessors found along the way.
func (t *transpiler) scanChain(i int) (int, []int) {
	var accessors []int
	j := i + 1
	for j < len(t.tokens) {
		tok := t.tokens[j]
		switch {
		case (tok.is(".") || tok.is("?.")) && j+1 < len(t.tokens) && t.tokens[j+1].kind == tokIdent:
			if tok.is(".") {
				accessors = append(accessors, j)
			}
			j += 2
		case tok.is("?.") && j+1 < len(t.tokens) && (t.tokens[j+1].is("[") || t.tokens[j+1].is("(")):
			j++
		case tok.is("["):
			if j == 0 || !t.tokens[j-1].is("?.") {
				accessors = append(accessors, j)
			}
			j = t.matches[j] + 1
		case tok.is("("):
			j = t.matches[j] + 1
		default:
			return j, accessors
		}
	}
	return j, accessors
}

func (t *transpiler) isAssignmentTarget(i, chainEnd int) bool {
	if i > 0 && (t.tokens[i-1].is("++") || t.tokens[i-1].is("--")) {
		return true
	}
	if chainEnd >= len(t.tokens) {
		return false
	}
	next := t.tokens[chainEnd]
	return next.kind == tokPunct && (assignmentOperators[next.text] || next.text == "++" || next.text == "--")
}

// isPropertyName reports whether the identifier at i follows a member
// accessor and therefore names a property, not a binding.
func isPropertyName(tokens []token, i int) bool {
	return i > 0 && (tokens[i-1].is(".") || tokens[i-1].is("?."))
}

// objectLiteralContext reports whether the identifier at i sits directly in
// an object literal in key position.
func (t *transpiler) objectLiteralContext(i int) bool {
	if i == 0 || !(t.tokens[i-1].is("{") || t.tokens[i-1].is(",")) {
		return false
	}
	depth := 0
	for k := i - 1; k >= 0; k-- {
		tok := t.tokens[k]
		if tok.kind != tokPunct {
			continue
		}
		switch tok.text {
		case ")", "]", "}":
			depth++
		case "(", "[":
			if depth == 0 {
				return false
			}
			depth--
		case "{":
			if depth == 0 {
				return true
			}
			depth--
		}
	}
	return false
}

func (t *transpiler) isObjectKey(i int) bool {
	return i+1 < len(t.tokens) && t.tokens[i+1].is(":") && t.objectLiteralContext(i)
}

func (t *transpiler) isShorthandProperty(i int) bool {
	if i+1 >= len(t.tokens) {
		return false
	}
	next := t.tokens[i+1]
	return (next.is(",") || next.is("}")) && t.objectLiteralContext(i)
}

func (t *transpiler) apply() string {
	sort.SliceStable(t.edits, func(a, b int) bool {
		return t.edits[a].start < t.edits[b].start
	})
	var b strings.Builder
	b.Grow(len(t.source))
	last := 0
	for _, e := range t.edits {
		b.WriteString(t.source[last:e.start])
		b.WriteString(e.text)
		last = e.end
	}
	b.WriteString(t.source[last:])
	return b.String()
}

// Engine is the default expression engine used by the compiler.
type Engine struct{}

// Evaluate translates a read-only expression.
func (Engine) Evaluate(source string, resolve Resolver) (string, error) {
	return Transpile(source, Options{Optional: true, Resolve: resolve})
}

// RewriteEffectful translates an action body. args pass through unchanged;
// resolve sees assignee=true for every assigned identifier.
func (Engine) RewriteEffectful(source string, args []string, resolve Resolver) (string, error) {
	return Transpile(source, Options{Effectful: true, Optional: true, Args: args, Resolve: resolve})
}
