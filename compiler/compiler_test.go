package compiler

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/vcrobe/jsxgen/document"
	"github.com/vcrobe/jsxgen/expression"
)

func instance(id, component string, children ...document.Child) document.Instance {
	return document.Instance{ID: id, Component: component, Children: children}
}

func childID(id string) document.Child {
	return document.Child{Type: document.ChildID, Value: id}
}

func text(value string) document.Child {
	return document.Child{Type: document.ChildText, Value: value}
}

func expr(value string) document.Child {
	return document.Child{Type: document.ChildExpression, Value: value}
}

func prop(instanceID, name string, value document.PropValue) document.Prop {
	return document.Prop{ID: instanceID + ":" + name, InstanceID: instanceID, Name: name, Value: value}
}

func variable(id, scopeInstanceID, name string, initial any) document.DataSource {
	return document.DataSource{
		ID:              id,
		ScopeInstanceID: scopeInstanceID,
		Name:            name,
		Type:            document.DataSourceVariable,
		Value:           &document.VariableValue{Type: "json", Value: initial},
	}
}

func ref(id string) string {
	return expression.EncodeDataSourceVariable(id)
}

func newTestGenerator(doc *document.Document) *generator {
	return newGenerator(doc, doc.InstanceMap(), document.IndexesWithinAncestors{}, Options{}.withDefaults())
}

func mustCompile(t *testing.T, doc *document.Document, opts Options) *Module {
	t.Helper()
	module, err := Compile(doc, opts)
	if err != nil {
		t.Fatalf("Compile failed: %v", err)
	}
	return module
}

func TestCompile_TextLinesEndToEnd(t *testing.T) {
	doc := &document.Document{
		Instances: []document.Instance{instance("body", "Body", text("line1\nline2"))},
	}
	module := mustCompile(t, doc, Options{})

	want := `import { Fragment, useState } from "react";
import { useResource } from "@webstudio-is/react-sdk";
import { Body as Body } from "@webstudio-is/sdk-components-react";

const Page = () => {
return <Body
data-ws-id="body"
data-ws-component="Body">
{"line1"}
<br />
{"line2"}
</Body>
}

export { Page };
`
	if diff := cmp.Diff(want, module.Source); diff != "" {
		t.Errorf("Module source mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"Page"}, module.Components); diff != "" {
		t.Errorf("Components mismatch (-want +got):\n%s", diff)
	}
	if len(module.Warnings) != 0 {
		t.Errorf("Expected no warnings, got %v", module.Warnings)
	}
}

func TestCompile_IsDeterministic(t *testing.T) {
	newDoc := func() *document.Document {
		return &document.Document{
			Instances: []document.Instance{
				instance("body", "Body", childID("a"), childID("b"), childID("frag")),
				instance("a", "radix:Tabs", childID("c")),
				instance("b", "Box", expr(ref("count"))),
				instance("c", "radix:TabsTrigger"),
				instance("frag", "Fragment", childID("d")),
				instance("d", "Text", text("x")),
			},
			Props: []document.Prop{
				prop("b", "meta", document.JSON{Value: map[string]any{"z": 1.0, "a": []any{"<b>", true}}}),
				prop("b", "onClick", document.Action{{Args: []string{"e"}, Code: ref("count") + " = e"}}),
			},
			DataSources: []document.DataSource{variable("count", "body", "count", 0.0)},
			Classes:     map[string][]string{"b": {"x", "y"}, "a": {"z"}},
		}
	}
	opts := Options{
		IndexWithinAncestor: map[string]string{"radix:TabsTrigger": "radix:Tabs"},
		ComponentModules:    map[string]string{"": "components", "radix": "radix-components"},
	}

	first := mustCompile(t, newDoc(), opts)
	for i := 0; i < 5; i++ {
		again := mustCompile(t, newDoc(), opts)
		if diff := cmp.Diff(first.Source, again.Source); diff != "" {
			t.Fatalf("Compilation %d differs (-first +again):\n%s", i, diff)
		}
	}
	if !strings.Contains(first.Source, `meta={{"a":["<b>",true],"z":1}}`) {
		t.Errorf("Expected sorted JSON literal without HTML escaping, got:\n%s", first.Source)
	}
}

func TestGenerateElement_Visibility(t *testing.T) {
	tests := []struct {
		name  string
		value document.PropValue
		want  string
	}{
		{
			name:  "literal true is ignored",
			value: document.Boolean(true),
			want:  "<Box\ndata-ws-id=\"box\"\ndata-ws-component=\"Box\" />\n",
		},
		{
			name:  "literal false renders nothing",
			value: document.Boolean(false),
			want:  "",
		},
		{
			name:  "expression guards the element",
			value: document.Expression(ref("visible")),
			want:  "{(visible) &&\n<Box\ndata-ws-id=\"box\"\ndata-ws-component=\"Box\" />\n}\n",
		},
		{
			name:  "dangling parameter renders unconditionally",
			value: document.Parameter("missing"),
			want:  "<Box\ndata-ws-id=\"box\"\ndata-ws-component=\"Box\" />\n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := &document.Document{
				Instances:   []document.Instance{instance("box", "Box")},
				Props:       []document.Prop{prop("box", showAttribute, tt.value)},
				DataSources: []document.DataSource{variable("visible", "box", "visible", true)},
			}
			g := newTestGenerator(doc)
			got, err := g.generateElement(g.instances["box"], "")
			if err != nil {
				t.Fatalf("generateElement failed: %v", err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Element mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestCompile_HiddenSubtreeLeavesNoMarkers(t *testing.T) {
	doc := &document.Document{
		Instances: []document.Instance{
			instance("body", "Body", childID("hidden"), childID("shown")),
			instance("hidden", "Box", childID("inner")),
			instance("inner", "Text", text("secret")),
			instance("shown", "Text", text("visible")),
		},
		Props: []document.Prop{prop("hidden", showAttribute, document.Boolean(false))},
	}
	source := mustCompile(t, doc, Options{}).Source

	for _, id := range []string{"hidden", "inner"} {
		if strings.Contains(source, `data-ws-id="`+id+`"`) {
			t.Errorf("Expected no marker for %q in:\n%s", id, source)
		}
	}
	if strings.Contains(source, "secret") {
		t.Errorf("Expected hidden text to be dropped:\n%s", source)
	}
	if !strings.Contains(source, `data-ws-id="shown"`) {
		t.Errorf("Expected marker for visible sibling in:\n%s", source)
	}
}

func TestGenerateElement_Collection(t *testing.T) {
	dataSources := []document.DataSource{
		{ID: "item", ScopeInstanceID: "list", Name: "x", Type: document.DataSourceParameter},
	}
	tests := []struct {
		name  string
		props []document.Prop
		want  string
	}{
		{
			name:  "missing data",
			props: []document.Prop{prop("list", "item", document.Parameter("item"))},
		},
		{
			name:  "missing item",
			props: []document.Prop{prop("list", "data", document.Strings{"a", "b"})},
		},
		{
			name: "dangling item",
			props: []document.Prop{
				prop("list", "data", document.Strings{"a", "b"}),
				prop("list", "item", document.Parameter("gone")),
			},
		},
		{
			name: "well formed",
			props: []document.Prop{
				prop("list", "data", document.Strings{"a", "b"}),
				prop("list", "item", document.Parameter("item")),
			},
			want: "{[\"a\",\"b\"]?.map((x: any, index: number) =>\n" +
				"<Fragment key={index}>\n" +
				"{x}\n" +
				"</Fragment>\n" +
				")}\n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := &document.Document{
				Instances:   []document.Instance{instance("list", document.CollectionComponent, expr(ref("item")))},
				Props:       tt.props,
				DataSources: dataSources,
			}
			g := newTestGenerator(doc)
			got, err := g.generateInstance(g.instances["list"])
			if err != nil {
				t.Fatalf("generateInstance failed: %v", err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Collection mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestCompile_CollectionsGetDistinctIndexes(t *testing.T) {
	doc := &document.Document{
		Instances: []document.Instance{
			instance("body", "Body", childID("list1"), childID("list2")),
			instance("list1", document.CollectionComponent, expr(ref("item1"))),
			instance("list2", document.CollectionComponent, expr(ref("item2"))),
		},
		Props: []document.Prop{
			prop("list1", "data", document.Strings{"a", "b"}),
			prop("list1", "item", document.Parameter("item1")),
			prop("list2", "data", document.Strings{"c"}),
			prop("list2", "item", document.Parameter("item2")),
		},
		DataSources: []document.DataSource{
			{ID: "item1", ScopeInstanceID: "list1", Name: "item", Type: document.DataSourceParameter},
			{ID: "item2", ScopeInstanceID: "list2", Name: "item", Type: document.DataSourceParameter},
		},
	}
	source := mustCompile(t, doc, Options{}).Source

	for _, want := range []string{
		"{[\"a\",\"b\"]?.map((item: any, index: number) =>\n<Fragment key={index}>\n{item}\n",
		"{[\"c\"]?.map((item_1: any, index_1: number) =>\n<Fragment key={index_1}>\n{item_1}\n",
	} {
		if !strings.Contains(source, want) {
			t.Errorf("Expected output to contain %q, got:\n%s", want, source)
		}
	}
	// the root is a single element, collections inside it need no wrapper
	if !strings.Contains(source, "return <Body") {
		t.Errorf("Expected root element to be returned directly:\n%s", source)
	}
}

func TestCompile_SlotIsTransparent(t *testing.T) {
	doc := &document.Document{
		Instances: []document.Instance{
			instance("body", "Body", childID("slot")),
			instance("slot", document.SlotComponent, childID("a"), childID("b")),
			instance("a", "Box"),
			instance("b", "Text", text("b")),
		},
	}
	source := mustCompile(t, doc, Options{}).Source

	if strings.Contains(source, `data-ws-id="slot"`) {
		t.Errorf("Slot must not carry markers:\n%s", source)
	}
	if strings.Contains(source, "Slot") {
		t.Errorf("Slot must not be emitted as a component:\n%s", source)
	}
	for _, id := range []string{"body", "a", "b"} {
		if !strings.Contains(source, `data-ws-id="`+id+`"`) {
			t.Errorf("Expected marker for %q in:\n%s", id, source)
		}
	}
}

func TestGenerateAction_AggregatesSetters(t *testing.T) {
	doc := &document.Document{
		Instances: []document.Instance{instance("body", "Body")},
		DataSources: []document.DataSource{
			variable("count", "body", "count", 0.0),
			variable("label", "body", "label", ""),
		},
	}
	g := newTestGenerator(doc)
	got, err := g.generateAction(document.Action{
		{Args: []string{"value"}, Code: ref("count") + " = value"},
		{Args: []string{"value"}, Code: ref("label") + " = \"n\"\n" + ref("count") + " = " + ref("count") + " + 1"},
	})
	if err != nil {
		t.Fatalf("generateAction failed: %v", err)
	}
	want := "(value: any) => {\n" +
		"count = value\n" +
		"label = \"n\"\ncount = count + 1\n" +
		"set$count(count)\n" +
		"set$label(label)\n" +
		"}"
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Action mismatch (-want +got):\n%s", diff)
	}
}

func TestGenerateAction_WithoutArgs(t *testing.T) {
	doc := &document.Document{
		DataSources: []document.DataSource{variable("open", "body", "open", false)},
	}
	g := newTestGenerator(doc)
	got, err := g.generateAction(document.Action{{Code: ref("open") + " = !" + ref("open")}})
	if err != nil {
		t.Fatalf("generateAction failed: %v", err)
	}
	want := "() => {\nopen = !open\nset$open(open)\n}"
	if got != want {
		t.Errorf("generateAction = %q, want %q", got, want)
	}
}

func TestGeneratePropValue(t *testing.T) {
	doc := &document.Document{
		DataSources: []document.DataSource{
			variable("ds-1", "body", "user name", map[string]any{}),
		},
	}
	tests := []struct {
		name   string
		value  document.PropValue
		want   string
		wantOK bool
	}{
		{"string", document.String(`say "hi" <b>`), `"say \"hi\" <b>"`, true},
		{"number", document.Number(1.5), "1.5", true},
		{"boolean", document.Boolean(false), "false", true},
		{"strings", document.Strings{"a"}, `["a"]`, true},
		{"empty strings", document.Strings(nil), `[]`, true},
		{"json", document.JSON{Value: map[string]any{"b": nil, "a": 1.0}}, `{"a":1,"b":null}`, true},
		{"asset", document.Asset("asset-id"), "", false},
		{"page", document.Page("page-id"), "", false},
		{"parameter", document.Parameter("ds-1"), "user_name", true},
		{"dangling parameter", document.Parameter("nope"), "", false},
		{"expression", document.Expression(ref("ds-1") + ".first"), "user_name?.first", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := newTestGenerator(doc)
			got, ok, err := g.generatePropValue(prop("body", "p", tt.value))
			if err != nil {
				t.Fatalf("generatePropValue failed: %v", err)
			}
			if ok != tt.wantOK || got != tt.want {
				t.Errorf("generatePropValue = (%q, %v), want (%q, %v)", got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestGeneratePropValue_DanglingParameterWarns(t *testing.T) {
	g := newTestGenerator(&document.Document{})
	if _, ok, _ := g.generatePropValue(prop("box", "title", document.Parameter("gone"))); ok {
		t.Fatal("Expected dangling parameter to be dropped")
	}
	want := []Warning{{InstanceID: "box", Message: `prop "title" references missing data source "gone"`}}
	if diff := cmp.Diff(want, g.warnings); diff != "" {
		t.Errorf("Warnings mismatch (-want +got):\n%s", diff)
	}
}

// foreign is a prop variant the compiler does not know.
type foreign struct{ document.String }

func TestGeneratePropValue_PanicsOnUnknownVariant(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("Expected panic for unknown prop variant")
		}
	}()
	g := newTestGenerator(&document.Document{})
	g.generatePropValue(prop("box", "p", foreign{"x"}))
}

func TestGenerateChildren_PanicsOnUnknownChildType(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("Expected panic for unknown child type")
		}
	}()
	g := newTestGenerator(&document.Document{})
	parent := instance("box", "Box", document.Child{Type: "portal", Value: "x"})
	g.generateChildren(&parent)
}

func TestCompile_AuthoringErrorsAreFatal(t *testing.T) {
	tests := []struct {
		name     string
		doc      *document.Document
		wantIs   error
		wantText string
	}{
		{
			name: "unbound identifier in prop",
			doc: &document.Document{
				Instances: []document.Instance{instance("body", "Body")},
				Props:     []document.Prop{prop("body", "title", document.Expression("missing"))},
			},
			wantIs:   expression.ErrUnboundReference,
			wantText: `instance "body" prop "title"`,
		},
		{
			name: "unknown data source in expression child",
			doc: &document.Document{
				Instances: []document.Instance{
					instance("body", "Body", childID("box")),
					instance("box", "Box", expr(ref("gone"))),
				},
			},
			wantIs:   expression.ErrUnboundReference,
			wantText: `instance "box" expression child`,
		},
		{
			name: "unbound identifier in action",
			doc: &document.Document{
				Instances: []document.Instance{instance("body", "Body")},
				Props: []document.Prop{prop("body", "onClick", document.Action{
					{Args: []string{"event"}, Code: "other = event"},
				})},
			},
			wantIs:   expression.ErrUnboundReference,
			wantText: "action clause 0",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Compile(tt.doc, Options{})
			if !errors.Is(err, tt.wantIs) {
				t.Fatalf("Expected %v, got %v", tt.wantIs, err)
			}
			if !strings.Contains(err.Error(), tt.wantText) {
				t.Errorf("Expected error to mention %q, got %q", tt.wantText, err.Error())
			}
		})
	}
}

func TestCompile_SyntaxErrorIsFatal(t *testing.T) {
	doc := &document.Document{
		Instances: []document.Instance{instance("body", "Body")},
		Props:     []document.Prop{prop("body", "title", document.Expression("(1 + "))},
	}
	_, err := Compile(doc, Options{})
	var syntaxErr *expression.SyntaxError
	if !errors.As(err, &syntaxErr) {
		t.Fatalf("Expected *expression.SyntaxError, got %v", err)
	}
}

func TestCompile_ExcludesDataSourcesScopedInSlotContent(t *testing.T) {
	doc := &document.Document{
		Instances: []document.Instance{
			instance("body", "Body", childID("slot")),
			instance("slot", document.SlotComponent, childID("frag")),
			instance("frag", document.FragmentComponent, childID("inner")),
			instance("inner", "Box"),
		},
		DataSources: []document.DataSource{
			variable("page", "body", "pageState", 1.0),
			variable("slotted", "inner", "slotState", 2.0),
			variable("global", "", "globalState", 3.0),
			{ID: "posts", ScopeInstanceID: "body", Name: "posts", Type: document.DataSourceResource, ResourceID: "postsResource"},
		},
	}
	module := mustCompile(t, doc, Options{})

	want := `import { Fragment, useState } from "react";
import { useResource } from "@webstudio-is/react-sdk";
import { Body as Body, Box as Box } from "@webstudio-is/sdk-components-react";

const Fragment_1 = () => {
let [slotState, set$slotState] = useState<any>(2)
return <Fragment>
<Box
data-ws-id="inner"
data-ws-component="Box" />
</Fragment>
}

const Page = () => {
let [pageState, set$pageState] = useState<any>(1)
let posts = useResource("posts_1")
return <Body
data-ws-id="body"
data-ws-component="Body">
<Fragment_1 />
</Body>
}

export { Page };
`
	if diff := cmp.Diff(want, module.Source); diff != "" {
		t.Errorf("Module source mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"Fragment_1", "Page"}, module.Components); diff != "" {
		t.Errorf("Components mismatch (-want +got):\n%s", diff)
	}
}

func TestCompile_SiblingFragmentsGetDistinctNames(t *testing.T) {
	doc := &document.Document{
		Instances: []document.Instance{
			instance("body", "Body", childID("f1"), childID("f2")),
			instance("f1", document.FragmentComponent, text("one")),
			instance("f2", document.FragmentComponent, text("two")),
		},
	}
	module := mustCompile(t, doc, Options{})

	if diff := cmp.Diff([]string{"Fragment_1", "Fragment_2", "Page"}, module.Components); diff != "" {
		t.Errorf("Components mismatch (-want +got):\n%s", diff)
	}
	for _, want := range []string{
		"const Fragment_1 = () => {\nreturn <Fragment>\n{\"one\"}\n</Fragment>\n}\n",
		"const Fragment_2 = () => {\nreturn <Fragment>\n{\"two\"}\n</Fragment>\n}\n",
		"<Fragment_1 />\n<Fragment_2 />\n</Body>\n",
	} {
		if !strings.Contains(module.Source, want) {
			t.Errorf("Expected output to contain %q, got:\n%s", want, module.Source)
		}
	}
}

func TestGenerateComponent_Parameters(t *testing.T) {
	doc := &document.Document{
		Instances: []document.Instance{instance("body", "Body")},
		DataSources: []document.DataSource{
			{ID: "p1", ScopeInstanceID: "body", Name: "title", Type: document.DataSourceParameter},
			{ID: "p2", ScopeInstanceID: "body", Name: "title", Type: document.DataSourceParameter},
		},
	}
	g := newTestGenerator(doc)
	got := g.generateParameters([]document.Prop{
		prop("body", "title", document.Parameter("p1")),
		prop("body", "missing", document.Parameter("nope")),
		prop("body", "data-title", document.Parameter("p2")),
	})
	want := `{ title: title, "data-title": title_1, }: { title: any; "data-title": any; }`
	if got != want {
		t.Errorf("generateParameters = %q, want %q", got, want)
	}
	if len(g.warnings) != 1 {
		t.Errorf("Expected one warning for the missing data source, got %v", g.warnings)
	}
}

func TestCollectProps_ClassNameMergedLast(t *testing.T) {
	doc := &document.Document{
		Instances: []document.Instance{instance("box", "Box")},
		Props: []document.Prop{
			prop("box", "className", document.String("extra")),
			prop("box", "title", document.String("Hi")),
			prop("box", "src", document.Asset("img")),
		},
		Classes: map[string][]string{"box": {"c1", "c2"}},
	}
	g := newTestGenerator(doc)
	g.indexes = document.IndexesWithinAncestors{"box": 2}
	got, err := g.generateElement(g.instances["box"], "")
	if err != nil {
		t.Fatalf("generateElement failed: %v", err)
	}
	want := "<Box\n" +
		"data-ws-id=\"box\"\n" +
		"data-ws-component=\"Box\"\n" +
		"data-ws-index=\"2\"\n" +
		"title={\"Hi\"}\n" +
		"className=\"c1 c2 extra\" />\n"
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Element mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"c1", "c2"}, doc.Classes["box"]); diff != "" {
		t.Errorf("Class map must not be modified (-want +got):\n%s", diff)
	}
}

func TestCollectProps_DynamicClassName(t *testing.T) {
	doc := &document.Document{
		Instances:   []document.Instance{instance("box", "Box")},
		Props:       []document.Prop{prop("box", "className", document.Expression(ref("theme")))},
		DataSources: []document.DataSource{variable("theme", "box", "theme", "dark")},
	}
	g := newTestGenerator(doc)
	got, err := g.generateElement(g.instances["box"], "")
	if err != nil {
		t.Fatalf("generateElement failed: %v", err)
	}
	if !strings.HasSuffix(got, "className={theme} />\n") {
		t.Errorf("Expected dynamic className attribute, got %q", got)
	}
}

func TestCollectProps_SkipsInvalidAttributeNames(t *testing.T) {
	doc := &document.Document{
		Instances: []document.Instance{instance("box", "Box")},
		Props: []document.Prop{
			prop("box", "on click", document.String("x")),
			prop("box", "aria-label", document.String("ok")),
		},
	}
	g := newTestGenerator(doc)
	got, err := g.generateElement(g.instances["box"], "")
	if err != nil {
		t.Fatalf("generateElement failed: %v", err)
	}
	if strings.Contains(got, "on click") || !strings.Contains(got, `aria-label={"ok"}`) {
		t.Errorf("Unexpected attributes in %q", got)
	}
	if len(g.warnings) != 1 {
		t.Errorf("Expected one warning, got %v", g.warnings)
	}
}

func TestCompile_InconsistentDocumentsWarn(t *testing.T) {
	t.Run("missing root", func(t *testing.T) {
		module := mustCompile(t, &document.Document{}, Options{RootInstanceID: "body"})
		if module.Source != "" {
			t.Errorf("Expected empty source, got %q", module.Source)
		}
		want := []Warning{{InstanceID: "body", Message: "root instance not found"}}
		if diff := cmp.Diff(want, module.Warnings); diff != "" {
			t.Errorf("Warnings mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("missing child and cycle", func(t *testing.T) {
		doc := &document.Document{
			Instances: []document.Instance{
				instance("body", "Body", childID("ghost"), childID("loop")),
				instance("loop", "Box", childID("loop")),
			},
		}
		module := mustCompile(t, doc, Options{})
		want := []Warning{
			{InstanceID: "body", Message: `child instance "ghost" not found`},
			{InstanceID: "loop", Message: "instance is its own ancestor"},
		}
		if diff := cmp.Diff(want, module.Warnings); diff != "" {
			t.Errorf("Warnings mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("unknown namespace", func(t *testing.T) {
		doc := &document.Document{
			Instances: []document.Instance{instance("body", "radx:Box")},
		}
		module := mustCompile(t, doc, Options{ComponentModules: map[string]string{"radix": "radix-components"}})
		if len(module.Warnings) != 1 {
			t.Fatalf("Expected one warning, got %v", module.Warnings)
		}
		if !strings.Contains(module.Warnings[0].Message, "did you mean radix?") {
			t.Errorf("Expected suggestion, got %q", module.Warnings[0].Message)
		}
		if strings.Contains(module.Source, "import { Box") {
			t.Errorf("Expected no import for unknown namespace:\n%s", module.Source)
		}
	})
}

func TestCompile_WrapsRootsThatAreNotSingleElements(t *testing.T) {
	tests := []struct {
		name string
		doc  *document.Document
		want string
	}{
		{
			name: "slot root",
			doc: &document.Document{Instances: []document.Instance{
				instance("slot", document.SlotComponent, text("a")),
			}},
			want: "return <Fragment>\n{\"a\"}\n</Fragment>\n}\n",
		},
		{
			name: "conditional root",
			doc: &document.Document{
				Instances:   []document.Instance{instance("body", "Body")},
				Props:       []document.Prop{prop("body", showAttribute, document.Expression(ref("on")))},
				DataSources: []document.DataSource{variable("on", "body", "on", true)},
			},
			want: "return <Fragment>\n{(on) &&\n<Body\ndata-ws-id=\"body\"\ndata-ws-component=\"Body\" />\n}\n</Fragment>\n}\n",
		},
		{
			name: "hidden root",
			doc: &document.Document{
				Instances: []document.Instance{instance("body", "Body")},
				Props:     []document.Prop{prop("body", showAttribute, document.Boolean(false))},
			},
			want: "return null\n}\n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			source := mustCompile(t, tt.doc, Options{}).Source
			if !strings.Contains(source, tt.want) {
				t.Errorf("Expected output to contain %q, got:\n%s", tt.want, source)
			}
		})
	}
}

func TestCompile_RejectsInvalidComponentNames(t *testing.T) {
	doc := &document.Document{Instances: []document.Instance{instance("body", "Body")}}
	tests := []struct {
		name    string
		wantErr bool
	}{
		{"Page", false},
		{"$home_page", false},
		{"landing-page", true},
		{"1Page", true},
		{"const", true},
		{"export", true},
		{"Fragment", true},
		{"useState", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			module, err := Compile(doc, Options{ComponentName: tt.name})
			if !tt.wantErr {
				if err != nil {
					t.Fatalf("Compile failed: %v", err)
				}
				if !strings.HasSuffix(module.Source, "export { "+tt.name+" };\n") {
					t.Errorf("Expected %s to be exported:\n%s", tt.name, module.Source)
				}
				return
			}
			if !errors.Is(err, ErrInvalidComponentName) {
				t.Fatalf("Expected ErrInvalidComponentName, got %v (module %v)", err, module)
			}
			if !strings.Contains(err.Error(), `"`+tt.name+`"`) {
				t.Errorf("Expected the name in the error, got %q", err)
			}
		})
	}
}

func TestCompile_NestedFragmentDeclaresItsOwnState(t *testing.T) {
	doc := &document.Document{
		Instances: []document.Instance{
			instance("body", "Body", childID("frag")),
			instance("frag", document.FragmentComponent, childID("inner")),
			instance("inner", "Box"),
		},
		DataSources: []document.DataSource{
			variable("inner", "inner", "innerState", 1.0),
			variable("page", "body", "pageState", 2.0),
		},
	}
	module := mustCompile(t, doc, Options{})

	want := `import { Fragment, useState } from "react";
import { useResource } from "@webstudio-is/react-sdk";
import { Body as Body, Box as Box } from "@webstudio-is/sdk-components-react";

const Fragment_1 = () => {
let [innerState, set$innerState] = useState<any>(1)
return <Fragment>
<Box
data-ws-id="inner"
data-ws-component="Box" />
</Fragment>
}

const Page = () => {
let [pageState, set$pageState] = useState<any>(2)
return <Body
data-ws-id="body"
data-ws-component="Body">
<Fragment_1 />
</Body>
}

export { Page };
`
	if diff := cmp.Diff(want, module.Source); diff != "" {
		t.Errorf("Module source mismatch (-want +got):\n%s", diff)
	}
}

func TestCompile_ActionArgumentsNeverShadowDataSources(t *testing.T) {
	doc := &document.Document{
		Instances: []document.Instance{
			instance("body", "Body", childID("button")),
			instance("button", "Button"),
		},
		Props: []document.Prop{
			prop("button", "onClick", document.Action{{Args: []string{"event"}, Code: ref("last") + " = event"}}),
		},
		DataSources: []document.DataSource{variable("last", "body", "event", 0.0)},
	}
	module := mustCompile(t, doc, Options{})

	for _, want := range []string{
		"let [event_1, set$event] = useState<any>(0)\n",
		"onClick={(event: any) => {\nevent_1 = event\nset$event(event_1)\n}} />\n",
	} {
		if !strings.Contains(module.Source, want) {
			t.Errorf("Expected source to contain %q:\n%s", want, module.Source)
		}
	}
}

func TestCompile_SkipsImportsThatAreNotIdentifiers(t *testing.T) {
	doc := &document.Document{
		Instances: []document.Instance{
			instance("body", "Body", childID("box")),
			instance("box", "ns:My-Box"),
		},
	}
	module := mustCompile(t, doc, Options{ComponentModules: map[string]string{
		"":   "@acme/components",
		"ns": "@acme/ns",
	}})

	want := []Warning{{Message: `component "ns:My-Box" cannot be imported: "My-Box" is not an identifier`}}
	if diff := cmp.Diff(want, module.Warnings); diff != "" {
		t.Errorf("Warnings mismatch (-want +got):\n%s", diff)
	}
	if strings.Contains(module.Source, "My-Box as") || strings.Contains(module.Source, "@acme/ns") {
		t.Errorf("Expected no import for ns:My-Box:\n%s", module.Source)
	}
	if !strings.Contains(module.Source, `import { Body as Body } from "@acme/components";`) {
		t.Errorf("Expected Body import:\n%s", module.Source)
	}
}
