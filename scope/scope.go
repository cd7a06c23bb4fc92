// Package scope hands out identifiers for generated code.
//
// A Scope maps abstract keys (data source ids, component names, synthetic
// keys such as "set$<id>" or "<id>-index") to identifiers derived from a
// preferred name. Two distinct keys never share an identifier and a key keeps
// its first identifier for the lifetime of the Scope. One Scope covers one
// generated module; it is not safe for concurrent use.
package scope

import (
	"slices"
	"strconv"
	"strings"
)

// separator joins a taken name and its disambiguation counter.
const separator = "_"

// reservedWords cannot be used as binding names in emitted JavaScript.
var reservedWords = []string{
	"await", "break", "case", "catch", "class", "const", "continue",
	"debugger", "default", "delete", "do", "else", "enum", "export",
	"extends", "false", "finally", "for", "function", "if", "implements",
	"import", "in", "instanceof", "interface", "let", "new", "null",
	"package", "private", "protected", "public", "return", "static",
	"super", "switch", "this", "throw", "true", "try", "typeof",
	"undefined", "var", "void", "while", "with", "yield",
}

// Scope is the per-module naming ledger.
type Scope struct {
	nameByKey map[string]string
	used      map[string]struct{}
}

// New creates a Scope. occupied lists identifiers already bound by the
// surrounding module (imports, runtime helpers) that keys must never receive.
func New(occupied ...string) *Scope {
	s := &Scope{
		nameByKey: make(map[string]string),
		used:      make(map[string]struct{}, len(reservedWords)+len(occupied)),
	}
	for _, word := range reservedWords {
		s.used[word] = struct{}{}
	}
	for _, identifier := range occupied {
		s.used[identifier] = struct{}{}
	}
	return s
}

// Name returns the identifier reserved for key. The first call reserves
// preferred (normalized) or, when that is taken, the first free
// "preferred_N". Later calls ignore preferred.
func (s *Scope) Name(key, preferred string) string {
	if name, ok := s.nameByKey[key]; ok {
		return name
	}
	base := NormalizeName(preferred)
	name := base
	for index := 1; s.isUsed(name); index++ {
		name = base + separator + strconv.Itoa(index)
	}
	s.nameByKey[key] = name
	s.used[name] = struct{}{}
	return name
}

// Has reports whether key already owns an identifier.
func (s *Scope) Has(key string) bool {
	_, ok := s.nameByKey[key]
	return ok
}

// IsReserved reports whether name is a word emitted code can never bind.
func IsReserved(name string) bool {
	return slices.Contains(reservedWords, name)
}

func (s *Scope) isUsed(name string) bool {
	_, ok := s.used[name]
	return ok
}

// NormalizeName turns an arbitrary display name into a valid JavaScript
// identifier: letters, digits, underscores and dollar signs only, never
// starting with a digit.
func NormalizeName(name string) string {
	if name == "" {
		return "_"
	}
	var b strings.Builder
	b.Grow(len(name) + 1)
	for i, r := range name {
		if i == 0 && r >= '0' && r <= '9' {
			b.WriteByte('_')
		}
		if isIdentifierRune(r) {
			b.WriteRune(r)
		} else {
			b.WriteByte('_')
		}
	}
	return b.String()
}

func isIdentifierRune(r rune) bool {
	return r == '_' || r == '$' ||
		(r >= 'a' && r <= 'z') ||
		(r >= 'A' && r <= 'Z') ||
		(r >= '0' && r <= '9')
}
