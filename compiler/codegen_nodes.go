package compiler

import (
	"fmt"
	"strings"

	"github.com/vcrobe/jsxgen/document"
)

// generateInstance emits instance together with its subtree.
func (g *generator) generateInstance(instance *document.Instance) (string, error) {
	if g.rendering[instance.ID] {
		g.warn(instance.ID, "instance is its own ancestor")
		return "", nil
	}
	g.rendering[instance.ID] = true
	defer delete(g.rendering, instance.ID)

	// fragment content is emitted by the hoisted fragment component
	var children string
	if instance.Component != document.FragmentComponent {
		var err error
		children, err = g.generateChildren(instance)
		if err != nil {
			return "", err
		}
	}
	return g.generateElement(instance, children)
}

// generateElement emits one instance around its already generated children.
// An empty result renders nothing.
func (g *generator) generateElement(instance *document.Instance, children string) (string, error) {
	props, err := g.collectProps(instance)
	if err != nil {
		return "", err
	}
	if props.visibility == hidden {
		return "", nil
	}

	var element string
	switch instance.Component {
	case document.CollectionComponent:
		if props.data == "" || props.item == "" {
			g.warn(instance.ID, "collection needs both data and item")
			return "", nil
		}
		element = g.generateCollection(instance, props.data, props.item, children)
	case document.SlotComponent:
		element = children
	case document.FragmentComponent:
		name := g.scope.Name(instance.ID, reactFragment)
		element = fmt.Sprintf("<%s />\n", name)
	default:
		element = g.generateComponentElement(instance, props.attributes, children)
	}

	if props.visibility == conditional {
		element = wrapConditional(props.condition, element)
	}
	return element, nil
}

// generateComponentElement emits an ordinary component, self-closing when
// the instance has no children.
func (g *generator) generateComponentElement(instance *document.Instance, attributes, children string) string {
	_, shortName := document.ParseComponentName(instance.Component)
	name := g.scope.Name(instance.Component, shortName)
	g.components[instance.Component] = name

	if len(instance.Children) == 0 {
		return fmt.Sprintf("<%s%s />\n", name, attributes)
	}
	var b strings.Builder
	fmt.Fprintf(&b, "<%s%s>\n", name, attributes)
	b.WriteString(children)
	fmt.Fprintf(&b, "</%s>\n", name)
	return b.String()
}
