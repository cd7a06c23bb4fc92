package document

import (
	"encoding/json"
	"fmt"
)

// Prop is a named, typed value bound to one instance.
type Prop struct {
	ID         string
	InstanceID string
	Name       string
	Value      PropValue
}

// PropValue is the closed set of prop value variants. Only this package
// implements it; consumers switch over the concrete types below and treat
// anything else as a contract violation.
type PropValue interface {
	// PropType returns the wire name of the variant.
	PropType() string
	isPropValue()
}

type (
	// String is a literal string.
	String string
	// Number is a literal number.
	Number float64
	// Boolean is a literal boolean.
	Boolean bool
	// Strings is a literal string list.
	Strings []string
	// JSON is an arbitrary literal JSON value.
	JSON struct{ Value any }
	// Asset references an asset the rendering primitive resolves itself.
	Asset string
	// Page references a page the rendering primitive resolves itself.
	Page string
	// Parameter references a data source by id.
	Parameter string
	// Expression holds micro-language source.
	Expression string
	// Action is an event handler made of one or more clauses.
	Action []ActionClause
)

// ActionClause is one effectful clause of an action, with the names of the
// arguments the handler receives.
type ActionClause struct {
	Args []string `json:"args"`
	Code string   `json:"code"`
}

func (String) PropType() string     { return "string" }
func (Number) PropType() string     { return "number" }
func (Boolean) PropType() string    { return "boolean" }
func (Strings) PropType() string    { return "string[]" }
func (JSON) PropType() string       { return "json" }
func (Asset) PropType() string      { return "asset" }
func (Page) PropType() string       { return "page" }
func (Parameter) PropType() string  { return "parameter" }
func (Expression) PropType() string { return "expression" }
func (Action) PropType() string     { return "action" }

func (String) isPropValue()     {}
func (Number) isPropValue()     {}
func (Boolean) isPropValue()    {}
func (Strings) isPropValue()    {}
func (JSON) isPropValue()       {}
func (Asset) isPropValue()      {}
func (Page) isPropValue()       {}
func (Parameter) isPropValue()  {}
func (Expression) isPropValue() {}
func (Action) isPropValue()     {}

// propWire is the serialized shape of a Prop.
type propWire struct {
	ID         string          `json:"id"`
	InstanceID string          `json:"instanceId"`
	Name       string          `json:"name"`
	Type       string          `json:"type"`
	Value      json.RawMessage `json:"value"`
}

// UnmarshalJSON decodes a prop and its typed value.
func (p *Prop) UnmarshalJSON(data []byte) error {
	var wire propWire
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	value, err := decodePropValue(wire.Type, wire.Value)
	if err != nil {
		return fmt.Errorf("prop %q on instance %q: %w", wire.Name, wire.InstanceID, err)
	}
	*p = Prop{
		ID:         wire.ID,
		InstanceID: wire.InstanceID,
		Name:       wire.Name,
		Value:      value,
	}
	return nil
}

// MarshalJSON encodes the prop in the same shape UnmarshalJSON reads.
func (p Prop) MarshalJSON() ([]byte, error) {
	if p.Value == nil {
		return nil, fmt.Errorf("prop %q on instance %q has no value", p.Name, p.InstanceID)
	}
	var value any = p.Value
	if v, ok := p.Value.(JSON); ok {
		value = v.Value
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return nil, err
	}
	return json.Marshal(propWire{
		ID:         p.ID,
		InstanceID: p.InstanceID,
		Name:       p.Name,
		Type:       p.Value.PropType(),
		Value:      raw,
	})
}

func decodePropValue(typ string, raw json.RawMessage) (PropValue, error) {
	switch typ {
	case "string":
		return decodeAs[String](raw)
	case "number":
		return decodeAs[Number](raw)
	case "boolean":
		return decodeAs[Boolean](raw)
	case "string[]":
		return decodeAs[Strings](raw)
	case "json":
		var v any
		if err := decodeInto(raw, &v); err != nil {
			return nil, err
		}
		return JSON{Value: v}, nil
	case "asset":
		return decodeAs[Asset](raw)
	case "page":
		return decodeAs[Page](raw)
	case "parameter":
		return decodeAs[Parameter](raw)
	case "expression":
		return decodeAs[Expression](raw)
	case "action":
		return decodeAs[Action](raw)
	default:
		return nil, fmt.Errorf("unknown prop type %q", typ)
	}
}

func decodeAs[T PropValue](raw json.RawMessage) (PropValue, error) {
	var v T
	if err := decodeInto(raw, &v); err != nil {
		return nil, err
	}
	return v, nil
}

func decodeInto(raw json.RawMessage, target any) error {
	if len(raw) == 0 {
		return fmt.Errorf("missing value")
	}
	return json.Unmarshal(raw, target)
}
