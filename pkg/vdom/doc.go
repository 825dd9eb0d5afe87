// Package vdom provides the declarative descriptors kite components render.
//
// A descriptor tree is a tagged variant: every *VNode is an element, a text
// node, a fragment, or a component reference, told apart by Kind. The
// runtime's composition layer switches on Kind to mount each descriptor; it
// never inspects dynamic types.
//
// # Element API
//
// Elements are created using variadic factory functions:
//
//	Div(Class("card"), Key("quote"),
//	    Blockquote(Text("content")),
//	    Button(Key("refresh"), Disabled(true), "Refresh"),
//	)
//
// # Keys
//
// Key tags a descriptor so the owning component can find it again, either
// to replace it (Context.ReplaceChild) or to look up its element
// (Context.Element). Keys must be unique within one render; DuplicateKey
// reports the first collision.
package vdom
