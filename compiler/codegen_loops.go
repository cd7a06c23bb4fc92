package compiler

import (
	"fmt"
	"strings"

	"github.com/vcrobe/jsxgen/document"
)

// generateCollection repeats children once per entry of data. item binds
// the entry and a per-collection index identifier keys every iteration:
//
//	{data?.map((item: any, index: number) =>
//	<Fragment key={index}>
//	...
//	</Fragment>
//	)}
func (g *generator) generateCollection(instance *document.Instance, data, item, children string) string {
	index := g.scope.Name(instance.ID+"-index", "index")

	var b strings.Builder
	fmt.Fprintf(&b, "{%s?.map((%s: any, %s: number) =>\n", data, item, index)
	fmt.Fprintf(&b, "<%s key={%s}>\n", reactFragment, index)
	b.WriteString(children)
	fmt.Fprintf(&b, "</%s>\n", reactFragment)
	b.WriteString(")}\n")
	return b.String()
}
