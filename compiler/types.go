package compiler

import (
	"fmt"

	"github.com/vcrobe/jsxgen/document"
	"github.com/vcrobe/jsxgen/expression"
	"github.com/vcrobe/jsxgen/scope"
)

// Traceability attributes carried by every visible emitted element.
const (
	idAttribute        = "data-ws-id"
	componentAttribute = "data-ws-component"
	indexAttribute     = "data-ws-index"
	// showAttribute is the visibility toggle prop.
	showAttribute = "data-ws-show"
)

// Identifiers the module header binds before any key is named.
const (
	reactFragment = "Fragment"
	useState      = "useState"
	useResource   = "useResource"
)

const (
	defaultComponentName = "Page"
	defaultRuntimeModule = "@webstudio-is/react-sdk"
	defaultComponents    = "@webstudio-is/sdk-components-react"
)

// ExpressionEngine translates the embedded micro-language.
type ExpressionEngine interface {
	// Evaluate rewrites a read-only expression.
	Evaluate(source string, resolve expression.Resolver) (string, error)
	// RewriteEffectful rewrites an action body. Identifiers listed in args
	// pass through; resolve learns which identifiers are assigned.
	RewriteEffectful(source string, args []string, resolve expression.Resolver) (string, error)
}

// Options configures one compilation.
type Options struct {
	// RootInstanceID is the instance compiled into the root component.
	// Empty selects the first instance of the document.
	RootInstanceID string
	// ComponentName names the root component. Defaults to "Page".
	ComponentName string
	// RuntimeModule is imported for useResource.
	RuntimeModule string
	// ComponentModules maps a component namespace ("" for components
	// without one) to the module exporting its components.
	ComponentModules map[string]string
	// IndexWithinAncestor maps a component to the ancestor component its
	// instances are numbered under. Ignored when Indexes is set.
	IndexWithinAncestor map[string]string
	// Indexes overrides the computed ancestor indexes.
	Indexes document.IndexesWithinAncestors
	// Engine translates expressions. Defaults to expression.Engine.
	Engine ExpressionEngine
}

func (o Options) withDefaults() Options {
	if o.ComponentName == "" {
		o.ComponentName = defaultComponentName
	}
	if o.RuntimeModule == "" {
		o.RuntimeModule = defaultRuntimeModule
	}
	if o.ComponentModules == nil {
		o.ComponentModules = map[string]string{"": defaultComponents}
	}
	if o.Engine == nil {
		o.Engine = expression.Engine{}
	}
	return o
}

// Module is one compiled page module.
type Module struct {
	// Source is the TSX text of the module.
	Source string
	// Components lists the emitted component names, hoisted fragments
	// first and the root component last.
	Components []string
	// Warnings lists every part of the document left out of the output.
	Warnings []Warning
}

// Warning reports an inconsistent part of the document that was omitted.
type Warning struct {
	InstanceID string
	Message    string
}

func (w Warning) String() string {
	if w.InstanceID == "" {
		return w.Message
	}
	return fmt.Sprintf("instance %q: %s", w.InstanceID, w.Message)
}

// generator carries everything one module's emission shares: the document
// indexes, the naming Scope and the warnings collected so far.
type generator struct {
	scope       *scope.Scope
	engine      ExpressionEngine
	instances   document.Instances
	props       map[string][]document.Prop
	dataSources *document.DataSources
	indexes     document.IndexesWithinAncestors
	classes     map[string][]string
	// components records every ordinary component referenced, keyed by
	// its full component tag.
	components map[string]string
	// rendering holds the instances on the current emission path.
	rendering map[string]bool
	warnings  []Warning
}

func (g *generator) warn(instanceID, format string, args ...any) {
	g.warnings = append(g.warnings, Warning{InstanceID: instanceID, Message: fmt.Sprintf(format, args...)})
}
