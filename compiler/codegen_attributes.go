package compiler

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/vcrobe/jsxgen/document"
)

// elementProps is one instance's props partitioned by role.
type elementProps struct {
	// attributes holds "\nname={value}" entries, traceability markers
	// first and className last.
	attributes string
	visibility visibility
	// condition is the visibility expression when visibility is
	// conditional.
	condition string
	// data and item are the collection bindings, empty when missing.
	data, item string
}

// collectProps partitions the props bound to instance. Once a literal false
// visibility is seen the remaining props are not evaluated.
func (g *generator) collectProps(instance *document.Instance) (elementProps, error) {
	var (
		out     elementProps
		attrs   strings.Builder
		dynamic []string // className values that are not literal strings
	)

	// id and component markers are always present
	fmt.Fprintf(&attrs, "\n%s=%s", idAttribute, jsonLiteral(instance.ID))
	fmt.Fprintf(&attrs, "\n%s=%s", componentAttribute, jsonLiteral(instance.Component))
	if index, ok := g.indexes[instance.ID]; ok {
		fmt.Fprintf(&attrs, "\n%s=%q", indexAttribute, strconv.Itoa(index))
	}

	classes := append([]string(nil), g.classes[instance.ID]...)
	isCollection := instance.Component == document.CollectionComponent

	for _, prop := range g.props[instance.ID] {
		code, ok, err := g.generatePropValue(prop)
		if err != nil {
			return elementProps{}, fmt.Errorf("instance %q prop %q: %w", instance.ID, prop.Name, err)
		}

		if prop.Name == showAttribute {
			if !ok {
				continue
			}
			out.visibility, out.condition = classifyVisibility(code)
			if out.visibility == hidden {
				return out, nil
			}
			continue
		}

		if isCollection {
			switch {
			case !ok:
			case prop.Name == "data":
				out.data = code
			case prop.Name == "item":
				out.item = code
			}
			continue
		}

		if prop.Name == "className" {
			if s, isString := prop.Value.(document.String); isString {
				classes = append(classes, string(s))
				continue
			}
			if ok {
				dynamic = append(dynamic, code)
			}
			continue
		}

		if !ok {
			continue
		}
		if !isValidAttributeName(prop.Name) {
			g.warn(instance.ID, "prop %q is not a valid attribute name", prop.Name)
			continue
		}
		fmt.Fprintf(&attrs, "\n%s={%s}", prop.Name, code)
	}

	switch {
	case len(classes) > 0:
		if len(dynamic) > 0 {
			g.warn(instance.ID, "dynamic className dropped in favor of the class list")
		}
		fmt.Fprintf(&attrs, "\nclassName=%s", jsonLiteral(strings.Join(classes, " ")))
	case len(dynamic) > 0:
		fmt.Fprintf(&attrs, "\nclassName={%s}", dynamic[len(dynamic)-1])
	}

	out.attributes = attrs.String()
	return out, nil
}
