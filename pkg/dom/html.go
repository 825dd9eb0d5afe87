package dom

import (
	"strconv"
	"strings"
)

// voidElements are elements that cannot have children.
var voidElements = map[string]bool{
	"area":   true,
	"base":   true,
	"br":     true,
	"col":    true,
	"embed":  true,
	"hr":     true,
	"img":    true,
	"input":  true,
	"link":   true,
	"meta":   true,
	"param":  true,
	"source": true,
	"track":  true,
	"wbr":    true,
}

// IsVoidElement returns true if the tag is a void element.
func IsVoidElement(tag string) bool {
	return voidElements[tag]
}

// IDAttr is the attribute that carries the element ID of elements with
// listeners in serialized output.
const IDAttr = "data-kid"

// OuterHTML serializes the element and its subtree.
func (e *Element) OuterHTML() string {
	var b strings.Builder
	writeElement(&b, e)
	return b.String()
}

// InnerHTML serializes the element's children.
func (e *Element) InnerHTML() string {
	var b strings.Builder
	for _, c := range e.children {
		writeNode(&b, c)
	}
	return b.String()
}

func writeNode(b *strings.Builder, n Node) {
	switch v := n.(type) {
	case *Element:
		writeElement(b, v)
	case *Text:
		b.WriteString(escapeHTML(v.data))
	}
}

func writeElement(b *strings.Builder, e *Element) {
	b.WriteByte('<')
	b.WriteString(e.tag)
	for _, name := range e.AttributeNames() {
		b.WriteByte(' ')
		b.WriteString(name)
		if name == "disabled" {
			continue
		}
		b.WriteString(`="`)
		b.WriteString(escapeAttr(e.attrs[name]))
		b.WriteByte('"')
	}
	if e.HasListeners() {
		b.WriteString(` ` + IDAttr + `="`)
		b.WriteString(strconv.FormatUint(e.id, 10))
		b.WriteByte('"')
	}
	b.WriteByte('>')
	if voidElements[e.tag] {
		return
	}
	for _, c := range e.children {
		writeNode(b, c)
	}
	b.WriteString("</")
	b.WriteString(e.tag)
	b.WriteByte('>')
}

// escapeHTML escapes text for safe inclusion in HTML content.
func escapeHTML(s string) string {
	var buf strings.Builder
	buf.Grow(len(s))

	for _, r := range s {
		switch r {
		case '&':
			buf.WriteString("&amp;")
		case '<':
			buf.WriteString("&lt;")
		case '>':
			buf.WriteString("&gt;")
		case '"':
			buf.WriteString("&quot;")
		case '\'':
			buf.WriteString("&#39;")
		default:
			buf.WriteRune(r)
		}
	}

	return buf.String()
}

// escapeAttr escapes text for HTML attribute values. Whitespace that could
// break attribute parsing is escaped too.
func escapeAttr(s string) string {
	var buf strings.Builder
	buf.Grow(len(s))

	for _, r := range s {
		switch r {
		case '\n':
			buf.WriteString("&#10;")
		case '\r':
			buf.WriteString("&#13;")
		case '\t':
			buf.WriteString("&#9;")
		default:
			buf.WriteString(escapeHTML(string(r)))
		}
	}

	return buf.String()
}
