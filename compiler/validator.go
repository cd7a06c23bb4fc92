package compiler

import (
	"errors"
	"fmt"
	"regexp"
	"slices"
	"strings"

	"github.com/vcrobe/jsxgen/scope"
)

// ErrInvalidComponentName reports a page component name that cannot be
// declared in the emitted module.
var ErrInvalidComponentName = errors.New("invalid component name")

var (
	// attributeNameRegex accepts JSX attribute names, namespaced and
	// dashed ones included.
	attributeNameRegex = regexp.MustCompile(`^[A-Za-z_$][A-Za-z0-9_$.:-]*$`)
	identifierRegex    = regexp.MustCompile(`^[A-Za-z_$][A-Za-z0-9_$]*$`)
)

func isValidAttributeName(name string) bool {
	return attributeNameRegex.MatchString(name)
}

func isIdentifier(name string) bool {
	return identifierRegex.MatchString(name)
}

// ValidateComponentName checks that name can be declared and exported as
// the page component.
func ValidateComponentName(name string) error {
	switch {
	case !isIdentifier(name):
		return fmt.Errorf("%w %q: must be a JavaScript identifier", ErrInvalidComponentName, name)
	case scope.IsReserved(name):
		return fmt.Errorf("%w %q: reserved word", ErrInvalidComponentName, name)
	case name == reactFragment || name == useState || name == useResource:
		return fmt.Errorf("%w %q: clashes with an import of the module", ErrInvalidComponentName, name)
	}
	return nil
}

// levenshteinDistance returns the minimum number of single-character
// insertions, deletions or substitutions turning a into b.
func levenshteinDistance(a, b string) int {
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}
	if len(a) > len(b) {
		a, b = b, a
	}

	prevRow := make([]int, len(a)+1)
	currRow := make([]int, len(a)+1)
	for j := 0; j <= len(a); j++ {
		prevRow[j] = j
	}
	for i := 1; i <= len(b); i++ {
		currRow[0] = i
		for j := 1; j <= len(a); j++ {
			cost := 0
			if a[j-1] != b[i-1] {
				cost = 1
			}
			currRow[j] = min(
				currRow[j-1]+1,    // insertion
				prevRow[j]+1,      // deletion
				prevRow[j-1]+cost, // substitution
			)
		}
		prevRow, currRow = currRow, prevRow
	}
	return prevRow[len(a)]
}

// findSimilarNamespaces suggests configured namespaces close to typed,
// closest first, at most three.
func findSimilarNamespaces(typed string, available []string) []string {
	const threshold = 2
	const maxSuggestions = 3

	type suggestion struct {
		namespace string
		distance  int
	}
	var suggestions []suggestion
	for _, namespace := range available {
		if namespace == "" {
			continue
		}
		dist := levenshteinDistance(strings.ToLower(typed), strings.ToLower(namespace))
		if dist <= threshold {
			suggestions = append(suggestions, suggestion{namespace, dist})
		}
	}
	slices.SortStableFunc(suggestions, func(a, b suggestion) int {
		return a.distance - b.distance
	})

	var result []string
	for i := 0; i < len(suggestions) && i < maxSuggestions; i++ {
		result = append(result, suggestions[i].namespace)
	}
	return result
}

// missingModuleMessage explains a component whose namespace has no module.
func missingModuleMessage(component, namespace string, modules map[string]string) string {
	var b strings.Builder
	if namespace == "" {
		b.WriteString("component " + jsonLiteral(component) + " has no namespace and no default module is configured")
	} else {
		b.WriteString("no module configured for namespace " + jsonLiteral(namespace) + " of component " + jsonLiteral(component))
	}
	if similar := findSimilarNamespaces(namespace, sortedKeys(modules)); len(similar) > 0 {
		b.WriteString("; did you mean " + strings.Join(similar, ", ") + "?")
	}
	return b.String()
}
