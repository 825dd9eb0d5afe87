package tui

import (
	"strings"

	"github.com/vango-dev/kite/pkg/dom"
)

// textTags are rendered as one line from their text content.
var textTags = map[string]bool{
	"h1": true, "h2": true, "h3": true,
	"p": true, "blockquote": true, "figcaption": true,
	"button": true, "li": true, "pre": true,
}

// Renderer turns a document into terminal text.
type Renderer struct {
	Styles Styles

	// Focused is the element ID of the focused button.
	Focused uint64

	// Spinner is shown in front of busy elements.
	Spinner string
}

// Render renders the children of root. Call it holding the host loop.
func (r *Renderer) Render(root *dom.Element) string {
	var lines []string
	r.walk(root, &lines)
	return strings.Join(lines, "\n")
}

func (r *Renderer) walk(e *dom.Element, lines *[]string) {
	for _, c := range e.Children() {
		switch n := c.(type) {
		case *dom.Text:
			if s := strings.TrimSpace(n.Data()); s != "" {
				*lines = append(*lines, r.Styles.Text.Render(s))
			}
		case *dom.Element:
			if textTags[n.Tag()] {
				*lines = append(*lines, r.line(n))
				continue
			}
			r.walk(n, lines)
		}
	}
}

func (r *Renderer) line(e *dom.Element) string {
	text := strings.TrimSpace(e.TextContent())
	if busy, _ := e.Attribute("aria-busy"); busy == "true" {
		if r.Spinner != "" {
			text = r.Spinner + " " + text
		}
		return r.Styles.Loading.Render(text)
	}
	if role, _ := e.Attribute("role"); role == "alert" {
		return r.Styles.Error.Render("! " + text)
	}

	switch e.Tag() {
	case "h1":
		return r.Styles.Title.Render(text)
	case "h2", "h3":
		return "\n" + r.Styles.Heading.Render(text)
	case "blockquote":
		return r.Styles.Quote.Render("“" + text + "”")
	case "figcaption":
		return r.Styles.Author.Render("- " + text)
	case "button":
		label := "[" + text + "]"
		switch {
		case e.Disabled():
			return r.Styles.ButtonDisabled.Render(label)
		case e.ID() == r.Focused:
			return r.Styles.ButtonFocused.Render("> " + label)
		default:
			return r.Styles.Button.Render(label)
		}
	default:
		return r.Styles.Text.Render(text)
	}
}

// Buttons returns the buttons under root that listen for clicks, in
// document order.
func Buttons(root *dom.Element) []*dom.Element {
	return root.QueryAll(func(e *dom.Element) bool {
		return e.Tag() == "button" && e.ListenerCount("click") > 0
	})
}
