package compiler

// visibility is how the visibility toggle affects an element.
type visibility int

const (
	visible visibility = iota
	hidden
	conditional
)

// classifyVisibility interprets the generated code of a visibility prop.
// Literal true and false are decided now; anything else is checked on
// every render.
func classifyVisibility(code string) (visibility, string) {
	switch code {
	case "true":
		return visible, ""
	case "false":
		return hidden, ""
	default:
		return conditional, code
	}
}

// wrapConditional guards element with condition:
//
//	{(condition) &&
//	<Box ... />
//	}
func wrapConditional(condition, element string) string {
	return "{(" + condition + ") &&\n" + element + "}\n"
}
