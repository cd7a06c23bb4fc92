package compiler

import (
	"fmt"
	"strings"

	"github.com/vcrobe/jsxgen/document"
)

// generateComponent emits the component rooted at rootID:
//
//	const Page = ({ system: system, }: { system: any; }) => {
//	let [count, set$count] = useState<any>(0)
//	return <Body ...>
//	...
//	</Body>
//	}
//
// parameters are the parameter props bound to the root. A missing root
// renders nothing.
func (g *generator) generateComponent(name, rootID string, parameters []document.Prop) (string, error) {
	instance, ok := g.instances[rootID]
	if !ok {
		g.warn(rootID, "root instance not found")
		return "", nil
	}

	params := g.generateParameters(parameters)
	declarations := g.generateDeclarations(rootID)
	jsx, err := g.generateRoot(instance)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "const %s = (%s) => {\n", name, params)
	b.WriteString(declarations)
	fmt.Fprintf(&b, "return %s", jsx)
	b.WriteString("}\n")
	return b.String(), nil
}

// generateParameters destructures the component props into the Scope
// names of their data sources.
func (g *generator) generateParameters(parameters []document.Prop) string {
	if len(parameters) == 0 {
		return ""
	}
	var values, types strings.Builder
	values.WriteString("{ ")
	types.WriteString("{ ")
	for _, parameter := range parameters {
		id, ok := parameter.Value.(document.Parameter)
		if !ok {
			panic(fmt.Sprintf("compiler: component parameter %q is a %s prop", parameter.ID, parameter.Value.PropType()))
		}
		ds, found := g.dataSources.Get(string(id))
		if !found {
			g.warn(parameter.InstanceID, "parameter %q references missing data source %q", parameter.Name, string(id))
			continue
		}
		key := parameter.Name
		if !isIdentifier(key) {
			key = jsonLiteral(key)
		}
		fmt.Fprintf(&values, "%s: %s, ", key, g.valueName(ds))
		fmt.Fprintf(&types, "%s: any; ", key)
	}
	values.WriteString("}")
	types.WriteString("}")
	return values.String() + ": " + types.String()
}

// generateDeclarations declares the state cells and resources owned by the
// tree under rootID. Slot content belongs to the component that renders
// the slot, and nested fragments declare their own, so data sources scoped
// inside either are left out.
func (g *generator) generateDeclarations(rootID string) string {
	owned := document.FindComponentInstanceIDs(g.instances, rootID)

	var b strings.Builder
	for _, ds := range g.dataSources.All() {
		if ds.ScopeInstanceID == "" || !owned.Has(ds.ScopeInstanceID) {
			continue
		}
		switch ds.Type {
		case document.DataSourceVariable:
			fmt.Fprintf(&b, "let [%s, %s] = %s<any>(%s)\n",
				g.valueName(ds), g.setterName(ds), useState, jsonLiteral(ds.InitialValue()))
		case document.DataSourceResource:
			valueName := g.valueName(ds)
			// resources are looked up by the name bound to their resource id
			resourceName := g.scope.Name(ds.ResourceID, ds.Name)
			fmt.Fprintf(&b, "let %s = %s(%s)\n", valueName, useResource, jsonLiteral(resourceName))
		}
	}
	return b.String()
}

// generateRoot emits the returned JSX of a component. A Fragment root is the
// hoisted body of that fragment, so its children are emitted in place of
// the reference. Anything that is not a single element gets wrapped.
func (g *generator) generateRoot(instance *document.Instance) (string, error) {
	g.rendering[instance.ID] = true
	defer delete(g.rendering, instance.ID)

	children, err := g.generateChildren(instance)
	if err != nil {
		return "", err
	}

	var jsx string
	if instance.Component == document.FragmentComponent {
		jsx = children
	} else {
		jsx, err = g.generateElement(instance, children)
		if err != nil {
			return "", err
		}
	}

	switch {
	case jsx == "":
		return "null\n", nil
	case instance.Component == document.FragmentComponent,
		instance.Component == document.SlotComponent,
		strings.HasPrefix(jsx, "{"):
		return fmt.Sprintf("<%s>\n%s</%s>\n", reactFragment, jsx, reactFragment), nil
	default:
		return jsx, nil
	}
}
