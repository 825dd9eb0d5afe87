// Package dom is the in-memory document that kite mounts into and mutates.
//
// It models the small part of the browser DOM the runtime needs: elements
// with attributes and a disabled property, text nodes, tree mutation, native
// event listeners, and HTML serialization. Every element gets a
// document-unique ID, serialized as data-kid on elements that carry
// listeners, so a remote client (the live bridge) can address event targets.
//
// A Document is not safe for concurrent use. kite serializes all access
// behind its host loop; code outside a component must go through
// kite.Host.Do or kite.Host.Dispatch.
//
// # Events
//
// Dispatch delivers an event to the target's listeners and then bubbles it
// through the ancestors, like the browser does. Mouse events aimed at a
// disabled form control are dropped before any listener runs:
//
//	btn := doc.CreateElement("button")
//	btn.SetDisabled(true)
//	doc.Dispatch(btn, dom.NewEvent("click")) // false, no listener ran
package dom
