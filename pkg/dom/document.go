package dom

import "strings"

// Document owns a tree of nodes rooted at a body element.
type Document struct {
	nextID uint64
	body   *Element
}

// NewDocument creates an empty document with a body element.
func NewDocument() *Document {
	d := &Document{}
	d.body = d.CreateElement("body")
	return d
}

// Body returns the root element.
func (d *Document) Body() *Element { return d.body }

// CreateElement creates a detached element.
func (d *Document) CreateElement(tag string) *Element {
	d.nextID++
	el := &Element{
		id:  d.nextID,
		tag: strings.ToLower(tag),
	}
	el.doc = d
	return el
}

// CreateText creates a detached text node.
func (d *Document) CreateText(s string) *Text {
	t := &Text{data: s}
	t.doc = d
	return t
}

// ElementByID returns the connected element with the given ID.
func (d *Document) ElementByID(id uint64) *Element {
	return d.body.Query(func(el *Element) bool { return el.id == id })
}

// ListenerCount returns the number of listeners registered on connected
// elements. Listeners on detached elements are not counted.
func (d *Document) ListenerCount() int {
	n := 0
	d.body.Walk(func(el *Element) bool {
		n += el.ListenerCount("")
		return true
	})
	return n
}
