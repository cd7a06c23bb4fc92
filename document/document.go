// Package document models the builder's instance tree: instances, the props
// bound to them and the data sources their expressions read.
//
// Everything here is read-only input for the compiler. Order matters for
// props and data sources (it drives emission order), so both are kept as
// ordered collections rather than maps.
package document

// Built-in component tags with structural meaning.
const (
	CollectionComponent = "ws:collection"
	SlotComponent       = "Slot"
	FragmentComponent   = "Fragment"
)

// ChildType tags an entry of Instance.Children.
type ChildType string

const (
	ChildID         ChildType = "id"
	ChildText       ChildType = "text"
	ChildExpression ChildType = "expression"
)

// Child is one ordered child reference: another instance, inline text or an
// inline expression.
type Child struct {
	Type  ChildType `json:"type"`
	Value string    `json:"value"`
}

// Instance is one node of the document tree.
type Instance struct {
	ID        string  `json:"id"`
	Component string  `json:"component"`
	Children  []Child `json:"children"`
}

// Instances indexes instances by id.
type Instances map[string]*Instance

// DataSourceType tags a DataSource.
type DataSourceType string

const (
	DataSourceVariable  DataSourceType = "variable"
	DataSourceParameter DataSourceType = "parameter"
	DataSourceResource  DataSourceType = "resource"
)

// VariableValue is the initial literal of a variable data source.
type VariableValue struct {
	Type  string `json:"type"`
	Value any    `json:"value"`
}

// DataSource is a named value cell visible to expressions inside the subtree
// rooted at ScopeInstanceID.
type DataSource struct {
	ID              string         `json:"id"`
	ScopeInstanceID string         `json:"scopeInstanceId,omitempty"`
	Name            string         `json:"name"`
	Type            DataSourceType `json:"type"`
	Value           *VariableValue `json:"value,omitempty"`
	ResourceID      string         `json:"resourceId,omitempty"`
}

// InitialValue returns the literal a variable starts with, nil otherwise.
func (ds *DataSource) InitialValue() any {
	if ds.Value == nil {
		return nil
	}
	return ds.Value.Value
}

// DataSources keeps data sources in document order with an id index.
type DataSources struct {
	list []*DataSource
	byID map[string]*DataSource
}

// NewDataSources indexes list. Later duplicates of an id replace earlier
// ones in the index but keep their original position.
func NewDataSources(list []DataSource) *DataSources {
	d := &DataSources{
		list: make([]*DataSource, 0, len(list)),
		byID: make(map[string]*DataSource, len(list)),
	}
	position := make(map[string]int, len(list))
	for i := range list {
		ds := &list[i]
		if at, exists := position[ds.ID]; exists {
			d.list[at] = ds
		} else {
			position[ds.ID] = len(d.list)
			d.list = append(d.list, ds)
		}
		d.byID[ds.ID] = ds
	}
	return d
}

// Get looks a data source up by id. A nil receiver holds nothing.
func (d *DataSources) Get(id string) (*DataSource, bool) {
	if d == nil {
		return nil, false
	}
	ds, ok := d.byID[id]
	return ds, ok
}

// All returns the data sources in document order.
func (d *DataSources) All() []*DataSource {
	if d == nil {
		return nil
	}
	return d.list
}

// IndexesWithinAncestors maps an instance id to its position among
// same-component siblings under a disambiguating ancestor.
type IndexesWithinAncestors map[string]int

// Document is a full decoded document.
type Document struct {
	Instances   []Instance          `json:"instances"`
	Props       []Prop              `json:"props"`
	DataSources []DataSource        `json:"dataSources"`
	Classes     map[string][]string `json:"classes,omitempty"`
}

// InstanceMap indexes the document's instances by id.
func (doc *Document) InstanceMap() Instances {
	instances := make(Instances, len(doc.Instances))
	for i := range doc.Instances {
		instances[doc.Instances[i].ID] = &doc.Instances[i]
	}
	return instances
}

// PropsByInstance groups props by target instance, keeping document order
// inside each group.
func PropsByInstance(props []Prop) map[string][]Prop {
	grouped := make(map[string][]Prop)
	for _, prop := range props {
		grouped[prop.InstanceID] = append(grouped[prop.InstanceID], prop)
	}
	return grouped
}
