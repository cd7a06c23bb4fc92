package compiler

import (
	"fmt"
	"strings"

	"github.com/vcrobe/jsxgen/document"
)

// generateChildren emits the child fragment of parent. Instance children
// recurse, text lines become string interpolations separated by <br />
// and expressions become a single interpolation.
func (g *generator) generateChildren(parent *document.Instance) (string, error) {
	var b strings.Builder
	for _, child := range parent.Children {
		switch child.Type {
		case document.ChildText:
			for i, line := range strings.Split(child.Value, "\n") {
				if i > 0 {
					b.WriteString("<br />\n")
				}
				fmt.Fprintf(&b, "{%s}\n", jsonLiteral(line))
			}
		case document.ChildExpression:
			code, err := g.generateExpression(child.Value)
			if err != nil {
				return "", fmt.Errorf("instance %q expression child: %w", parent.ID, err)
			}
			fmt.Fprintf(&b, "{%s}\n", code)
		case document.ChildID:
			instance, ok := g.instances[child.Value]
			if !ok {
				g.warn(parent.ID, "child instance %q not found", child.Value)
				continue
			}
			code, err := g.generateInstance(instance)
			if err != nil {
				return "", err
			}
			b.WriteString(code)
		default:
			panic(fmt.Sprintf("compiler: unknown child type %q in instance %q", child.Type, parent.ID))
		}
	}
	return b.String(), nil
}
