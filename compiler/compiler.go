// Package compiler turns a document's instance tree into a TSX page module.
//
// Every visible element of the output carries data-ws-id and
// data-ws-component markers (plus data-ws-index where the position is
// ambiguous) so the preview can map rendered nodes back to instances.
// Compilation is pure and deterministic: the same document and options
// always produce the same bytes.
package compiler

import (
	"fmt"
	"strings"

	"github.com/vcrobe/jsxgen/document"
	"github.com/vcrobe/jsxgen/scope"
)

// Compile emits the page module for the tree rooted at opts.RootInstanceID:
// one hoisted component per Fragment instance, then the root component.
//
// Inconsistent documents compile to smaller output and report warnings.
// Broken expressions and actions fail the compilation, as does a
// ComponentName that is not a usable identifier.
func Compile(doc *document.Document, opts Options) (*Module, error) {
	opts = opts.withDefaults()
	if err := ValidateComponentName(opts.ComponentName); err != nil {
		return nil, err
	}

	instances := doc.InstanceMap()
	rootID := opts.RootInstanceID
	if rootID == "" && len(doc.Instances) > 0 {
		rootID = doc.Instances[0].ID
	}

	indexes := opts.Indexes
	if indexes == nil {
		indexes = document.ComputeIndexesWithinAncestors(instances, []string{rootID}, opts.IndexWithinAncestor)
	}

	g := newGenerator(doc, instances, indexes, opts)
	module := &Module{}

	root, ok := instances[rootID]
	if !ok {
		g.warn(rootID, "root instance not found")
		module.Warnings = g.warnings
		return module, nil
	}

	// Step 1: hoist every fragment into its own component.
	var body strings.Builder
	for _, fragmentID := range document.FindFragmentInstanceIDs(instances, rootID) {
		if fragmentID == rootID {
			continue
		}
		name := g.scope.Name(fragmentID, reactFragment)
		source, err := g.generateComponent(name, fragmentID, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to generate fragment %s: %w", name, err)
		}
		body.WriteString(source)
		body.WriteString("\n")
		module.Components = append(module.Components, name)
	}

	// Step 2: the root component, taking the root's parameter props.
	var parameters []document.Prop
	for _, prop := range g.props[root.ID] {
		if _, isParameter := prop.Value.(document.Parameter); isParameter {
			parameters = append(parameters, prop)
		}
	}
	source, err := g.generateComponent(opts.ComponentName, root.ID, parameters)
	if err != nil {
		return nil, fmt.Errorf("failed to generate component %s: %w", opts.ComponentName, err)
	}
	body.WriteString(source)
	module.Components = append(module.Components, opts.ComponentName)

	// Step 3: imports are known only once every component was named.
	var out strings.Builder
	out.WriteString(g.generateImports(opts))
	out.WriteString("\n")
	out.WriteString(body.String())
	fmt.Fprintf(&out, "\nexport { %s };\n", opts.ComponentName)

	module.Source = out.String()
	module.Warnings = g.warnings
	return module, nil
}

func newGenerator(doc *document.Document, instances document.Instances, indexes document.IndexesWithinAncestors, opts Options) *generator {
	occupied := append([]string{reactFragment, useState, useResource, opts.ComponentName}, actionArgs(doc.Props)...)
	return &generator{
		scope:       scope.New(occupied...),
		engine:      opts.Engine,
		instances:   instances,
		props:       document.PropsByInstance(doc.Props),
		dataSources: document.NewDataSources(doc.DataSources),
		indexes:     indexes,
		classes:     doc.Classes,
		components:  make(map[string]string),
		rendering:   make(map[string]bool),
	}
}

// generateImports emits the module header. Components are grouped by the
// module their namespace maps to; modules and names are sorted.
func (g *generator) generateImports(opts Options) string {
	var b strings.Builder
	fmt.Fprintf(&b, "import { %s, %s } from \"react\";\n", reactFragment, useState)
	fmt.Fprintf(&b, "import { %s } from %s;\n", useResource, jsonLiteral(opts.RuntimeModule))

	byModule := make(map[string][]string)
	for _, component := range sortedKeys(g.components) {
		namespace, shortName := document.ParseComponentName(component)
		module, ok := opts.ComponentModules[namespace]
		if !ok {
			g.warn("", "%s", missingModuleMessage(component, namespace, opts.ComponentModules))
			continue
		}
		if !isIdentifier(shortName) {
			g.warn("", "component %s cannot be imported: %s is not an identifier", jsonLiteral(component), jsonLiteral(shortName))
			continue
		}
		byModule[module] = append(byModule[module], shortName+" as "+g.components[component])
	}
	for _, module := range sortedKeys(byModule) {
		fmt.Fprintf(&b, "import { %s } from %s;\n", strings.Join(byModule[module], ", "), jsonLiteral(module))
	}
	return b.String()
}
