package compiler

import (
	"bytes"
	"encoding/json"
	"fmt"
	"slices"
	"strings"
)

// jsonLiteral encodes v as a JavaScript literal. Map keys come out sorted
// and HTML characters are left alone, so equal values always produce equal
// text.
func jsonLiteral(v any) string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		// Values come from decoded documents and always encode.
		panic(fmt.Sprintf("compiler: cannot encode literal %#v: %v", v, err))
	}
	return strings.TrimSuffix(buf.String(), "\n")
}

// sortedKeys returns the keys of m in ascending order.
func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
