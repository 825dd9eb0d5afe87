package vdom

// VKind is the node type discriminator.
type VKind uint8

const (
	KindElement   VKind = iota // <div>, <button>, etc.
	KindText                   // Plain text node
	KindFragment               // Grouping without wrapper
	KindComponent              // Nested component instance
)

// String returns the string representation of the VKind.
func (k VKind) String() string {
	switch k {
	case KindElement:
		return "Element"
	case KindText:
		return "Text"
	case KindFragment:
		return "Fragment"
	case KindComponent:
		return "Component"
	default:
		return "Unknown"
	}
}

// VNode is a declarative descriptor.
type VNode struct {
	Kind     VKind     // Node type
	Tag      string    // Element tag name (e.g., "div")
	Props    Props     // Element attributes
	Children []*VNode  // Child descriptors
	Key      string    // Reconciliation key
	Text     string    // For KindText
	Comp     Component // For KindComponent
	Args     any       // Component props, for KindComponent
}

// Props holds element attributes.
// Values are strings, booleans (present/absent) or anything fmt can print.
type Props map[string]any

// Attr represents a single attribute.
type Attr struct {
	Key   string
	Value any
}

// IsEmpty returns true if this is an empty/nil attribute.
func (a Attr) IsEmpty() bool {
	return a.Key == ""
}

// Component is a mountable component definition. The runtime owns the
// concrete type; descriptors only carry the reference, compared by identity.
type Component interface {
	ComponentName() string
}

// ComponentNode creates a component descriptor with props.
// Only the key attribute is meaningful on a component descriptor.
func ComponentNode(c Component, props any, attrs ...Attr) *VNode {
	node := &VNode{
		Kind: KindComponent,
		Comp: c,
		Args: props,
	}
	for _, a := range attrs {
		if a.Key == "key" {
			if s, ok := a.Value.(string); ok {
				node.Key = s
			}
		}
	}
	return node
}

// WithKey sets the key and returns the node, for chaining.
func (v *VNode) WithKey(key string) *VNode {
	if v != nil {
		v.Key = key
	}
	return v
}

// Name returns a short description of the descriptor, used in errors and
// logs: the tag, the component name, "#text" or "#fragment".
func (v *VNode) Name() string {
	if v == nil {
		return "<nil>"
	}
	switch v.Kind {
	case KindElement:
		return v.Tag
	case KindText:
		return "#text"
	case KindFragment:
		return "#fragment"
	case KindComponent:
		if v.Comp == nil {
			return "<component>"
		}
		return v.Comp.ComponentName()
	default:
		return "<unknown>"
	}
}
