package compiler

import (
	"fmt"
	"strings"

	"github.com/vcrobe/jsxgen/document"
	"github.com/vcrobe/jsxgen/expression"
)

// generatePropValue returns the inline code for a prop value. ok is false
// when the prop is not emitted: assets and pages are resolved by the
// rendering primitive and dangling parameters are dropped.
func (g *generator) generatePropValue(prop document.Prop) (code string, ok bool, err error) {
	switch v := prop.Value.(type) {
	case document.Asset, document.Page:
		return "", false, nil
	case document.String:
		return jsonLiteral(string(v)), true, nil
	case document.Number:
		return jsonLiteral(float64(v)), true, nil
	case document.Boolean:
		return jsonLiteral(bool(v)), true, nil
	case document.Strings:
		if v == nil {
			return "[]", true, nil
		}
		return jsonLiteral([]string(v)), true, nil
	case document.JSON:
		return jsonLiteral(v.Value), true, nil
	case document.Parameter:
		ds, found := g.dataSources.Get(string(v))
		if !found {
			g.warn(prop.InstanceID, "prop %q references missing data source %q", prop.Name, string(v))
			return "", false, nil
		}
		return g.valueName(ds), true, nil
	case document.Expression:
		code, err := g.generateExpression(string(v))
		if err != nil {
			return "", false, err
		}
		return code, true, nil
	case document.Action:
		code, err := g.generateAction(v)
		if err != nil {
			return "", false, err
		}
		return code, true, nil
	default:
		panic(fmt.Sprintf("compiler: unknown value %T for prop %q", prop.Value, prop.ID))
	}
}

// generateExpression translates a read-only expression, naming every data
// source it reads through the Scope.
func (g *generator) generateExpression(source string) (string, error) {
	return g.engine.Evaluate(source, g.resolveDataSource)
}

func (g *generator) resolveDataSource(identifier string, _ bool) (string, bool) {
	ds, ok := g.lookupDataSource(identifier)
	if !ok {
		return "", false
	}
	return g.valueName(ds), true
}

func (g *generator) lookupDataSource(identifier string) (*document.DataSource, bool) {
	id, ok := expression.DecodeDataSourceVariable(identifier)
	if !ok {
		return nil, false
	}
	return g.dataSources.Get(id)
}

func (g *generator) valueName(ds *document.DataSource) string {
	return g.scope.Name(ds.ID, ds.Name)
}

func (g *generator) setterName(ds *document.DataSource) string {
	return g.scope.Name("set$"+ds.ID, "set$"+ds.Name)
}

// generateAction emits an event handler:
//
//	(event: any) => {
//	count = count + 1
//	set$count(count)
//	}
//
// Every clause body comes first, then one setter call per data source any
// clause assigned to.
func (g *generator) generateAction(action document.Action) (string, error) {
	var (
		args     []string
		body     strings.Builder
		assigned orderedSet
	)
	for i, clause := range action {
		args = clause.Args
		code, err := g.engine.RewriteEffectful(clause.Code, clause.Args, func(identifier string, assignee bool) (string, bool) {
			ds, ok := g.lookupDataSource(identifier)
			if !ok {
				return "", false
			}
			if assignee {
				assigned.add(ds.ID)
			}
			return g.valueName(ds), true
		})
		if err != nil {
			return "", fmt.Errorf("action clause %d: %w", i, err)
		}
		body.WriteString(code)
		body.WriteString("\n")
	}
	for _, id := range assigned.ids {
		ds, _ := g.dataSources.Get(id)
		fmt.Fprintf(&body, "%s(%s)\n", g.setterName(ds), g.valueName(ds))
	}

	params := make([]string, len(args))
	for i, arg := range args {
		params[i] = arg + ": any"
	}
	return fmt.Sprintf("(%s) => {\n%s}", strings.Join(params, ", "), body.String()), nil
}

// actionArgs lists the handler arguments of every action. Data sources must
// never be named like one, or the argument would shadow them.
func actionArgs(props []document.Prop) []string {
	var args []string
	for _, prop := range props {
		if action, ok := prop.Value.(document.Action); ok {
			for _, clause := range action {
				args = append(args, clause.Args...)
			}
		}
	}
	return args
}

// orderedSet keeps ids in first insertion order.
type orderedSet struct {
	ids  []string
	seen map[string]struct{}
}

func (s *orderedSet) add(id string) {
	if _, ok := s.seen[id]; ok {
		return
	}
	if s.seen == nil {
		s.seen = make(map[string]struct{})
	}
	s.seen[id] = struct{}{}
	s.ids = append(s.ids, id)
}
