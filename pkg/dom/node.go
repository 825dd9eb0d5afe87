package dom

import (
	"sort"
	"strings"
)

// NodeType is the node type discriminator.
type NodeType uint8

const (
	ElementNode NodeType = iota + 1
	TextNode
)

// String returns the string representation of the NodeType.
func (t NodeType) String() string {
	switch t {
	case ElementNode:
		return "Element"
	case TextNode:
		return "Text"
	default:
		return "Unknown"
	}
}

// Node is a node of the document tree: an *Element or a *Text.
type Node interface {
	// Type reports the node type.
	Type() NodeType

	// Parent returns the parent element, or nil when detached.
	Parent() *Element

	// TextContent returns the concatenated text of the node and its descendants.
	TextContent() string

	base() *nodeBase
}

type nodeBase struct {
	doc    *Document
	parent *Element
}

func (b *nodeBase) base() *nodeBase { return b }

// Parent returns the parent element, or nil when detached.
func (b *nodeBase) Parent() *Element { return b.parent }

// Text is a text node.
type Text struct {
	nodeBase
	data string
}

// Type implements Node.
func (t *Text) Type() NodeType { return TextNode }

// Data returns the text.
func (t *Text) Data() string { return t.data }

// SetData replaces the text.
func (t *Text) SetData(s string) { t.data = s }

// TextContent implements Node.
func (t *Text) TextContent() string { return t.data }

// Element is an element node.
type Element struct {
	nodeBase
	id        uint64
	tag       string
	attrs     map[string]string
	disabled  bool
	children  []Node
	listeners map[string][]*listener
}

// Type implements Node.
func (e *Element) Type() NodeType { return ElementNode }

// ID returns the document-unique element ID.
func (e *Element) ID() uint64 { return e.id }

// Tag returns the lower-case tag name.
func (e *Element) Tag() string { return e.tag }

// Document returns the owning document.
func (e *Element) Document() *Document { return e.doc }

// SetAttribute sets an attribute value.
// The "disabled" attribute is reflected onto the disabled property.
func (e *Element) SetAttribute(name, value string) {
	if name == "disabled" {
		e.disabled = true
		return
	}
	if e.attrs == nil {
		e.attrs = make(map[string]string)
	}
	e.attrs[name] = value
}

// Attribute returns an attribute value and whether it is present.
func (e *Element) Attribute(name string) (string, bool) {
	if name == "disabled" {
		return "", e.disabled
	}
	v, ok := e.attrs[name]
	return v, ok
}

// RemoveAttribute removes an attribute.
func (e *Element) RemoveAttribute(name string) {
	if name == "disabled" {
		e.disabled = false
		return
	}
	delete(e.attrs, name)
}

// ClearAttributes removes every attribute and resets the disabled property.
func (e *Element) ClearAttributes() {
	e.attrs = nil
	e.disabled = false
}

// AttributeNames returns the attribute names in sorted order.
func (e *Element) AttributeNames() []string {
	names := make([]string, 0, len(e.attrs)+1)
	for k := range e.attrs {
		names = append(names, k)
	}
	if e.disabled {
		names = append(names, "disabled")
	}
	sort.Strings(names)
	return names
}

// HasClass reports whether the class attribute contains class.
func (e *Element) HasClass(class string) bool {
	for _, c := range strings.Fields(e.attrs["class"]) {
		if c == class {
			return true
		}
	}
	return false
}

// Disabled returns the disabled property.
func (e *Element) Disabled() bool { return e.disabled }

// SetDisabled writes the disabled property.
func (e *Element) SetDisabled(disabled bool) { e.disabled = disabled }

// Children returns the child nodes. The slice must not be modified.
func (e *Element) Children() []Node { return e.children }

// ChildElements returns the element children.
func (e *Element) ChildElements() []*Element {
	var out []*Element
	for _, c := range e.children {
		if el, ok := c.(*Element); ok {
			out = append(out, el)
		}
	}
	return out
}

// TextContent implements Node.
func (e *Element) TextContent() string {
	var b strings.Builder
	e.writeText(&b)
	return b.String()
}

func (e *Element) writeText(b *strings.Builder) {
	for _, c := range e.children {
		switch n := c.(type) {
		case *Text:
			b.WriteString(n.data)
		case *Element:
			n.writeText(b)
		}
	}
}

// SetTextContent replaces all children with a single text node.
func (e *Element) SetTextContent(s string) {
	e.ReplaceChildren(e.doc.CreateText(s))
}

// AppendChild appends n, detaching it from its current parent first.
func (e *Element) AppendChild(n Node) {
	detach(n)
	n.base().parent = e
	e.children = append(e.children, n)
}

// InsertBefore inserts n before ref. A nil or foreign ref appends.
func (e *Element) InsertBefore(n, ref Node) {
	if ref == nil {
		e.AppendChild(n)
		return
	}
	detach(n)
	i := e.indexOf(ref)
	if i < 0 {
		e.AppendChild(n)
		return
	}
	n.base().parent = e
	e.children = append(e.children, nil)
	copy(e.children[i+1:], e.children[i:])
	e.children[i] = n
}

// RemoveChild removes n and reports whether it was a child.
func (e *Element) RemoveChild(n Node) bool {
	i := e.indexOf(n)
	if i < 0 {
		return false
	}
	copy(e.children[i:], e.children[i+1:])
	e.children[len(e.children)-1] = nil
	e.children = e.children[:len(e.children)-1]
	n.base().parent = nil
	return true
}

// ReplaceChild puts next where old was. It reports false if old is not a child.
func (e *Element) ReplaceChild(next, old Node) bool {
	if next == old {
		return e.indexOf(old) >= 0
	}
	detach(next)
	i := e.indexOf(old)
	if i < 0 {
		return false
	}
	old.base().parent = nil
	next.base().parent = e
	e.children[i] = next
	return true
}

// ReplaceChildren removes every child and appends nodes in order.
func (e *Element) ReplaceChildren(nodes ...Node) {
	for _, c := range e.children {
		c.base().parent = nil
	}
	e.children = nil
	for _, n := range nodes {
		e.AppendChild(n)
	}
}

// Remove detaches the element from its parent.
func (e *Element) Remove() {
	detach(e)
}

// Connected reports whether the element is attached to its document's body.
func (e *Element) Connected() bool {
	if e.doc == nil {
		return false
	}
	for cur := e; cur != nil; cur = cur.parent {
		if cur == e.doc.body {
			return true
		}
	}
	return false
}

// Contains reports whether n is e or a descendant of e.
func (e *Element) Contains(n Node) bool {
	if n == nil {
		return false
	}
	if el, ok := n.(*Element); ok && el == e {
		return true
	}
	for p := n.Parent(); p != nil; p = p.parent {
		if p == e {
			return true
		}
	}
	return false
}

// Walk calls fn for e and every descendant element in document order.
// Returning false from fn skips the element's subtree.
func (e *Element) Walk(fn func(*Element) bool) {
	if !fn(e) {
		return
	}
	for _, c := range e.children {
		if el, ok := c.(*Element); ok {
			el.Walk(fn)
		}
	}
}

// Query returns the first element in e's subtree (e included) matching fn.
func (e *Element) Query(fn func(*Element) bool) *Element {
	var found *Element
	e.Walk(func(el *Element) bool {
		if found != nil {
			return false
		}
		if fn(el) {
			found = el
			return false
		}
		return true
	})
	return found
}

// QueryAll returns every element in e's subtree (e included) matching fn.
func (e *Element) QueryAll(fn func(*Element) bool) []*Element {
	var out []*Element
	e.Walk(func(el *Element) bool {
		if fn(el) {
			out = append(out, el)
		}
		return true
	})
	return out
}

// ByAttr matches elements whose attribute name equals value.
func ByAttr(name, value string) func(*Element) bool {
	return func(el *Element) bool {
		v, ok := el.Attribute(name)
		return ok && v == value
	}
}

// ByTag matches elements with the given tag.
func ByTag(tag string) func(*Element) bool {
	return func(el *Element) bool { return el.tag == tag }
}

// ByClass matches elements carrying the class.
func ByClass(class string) func(*Element) bool {
	return func(el *Element) bool { return el.HasClass(class) }
}

func (e *Element) indexOf(n Node) int {
	for i, c := range e.children {
		if c == n {
			return i
		}
	}
	return -1
}

func detach(n Node) {
	if p := n.Parent(); p != nil {
		p.RemoveChild(n)
	}
}
