// Package vtest provides testing helpers for kite components.
//
// A Harness wraps a kite.Host with a quiet logger, mounts components, and
// settles the host after every interaction, so assertions see the document
// exactly as a user would after the runtime has caught up.
//
// # Quick Start
//
//	func TestCounter(t *testing.T) {
//	    h := vtest.New(t)
//	    h.Mount(Counter, nil)
//	    h.Click(h.Find(dom.ByTag("button")))
//	    h.ExpectText("1")
//	}
//
// # Render Assertions
//
// Static descriptors can be checked without a component:
//
//	vtest.ExpectContains(t, vdom.P("hi"), "<p>hi</p>")
//	vtest.ExpectAttribute(t, vdom.Button(vdom.Disabled(true)), "disabled", "")
//
// # Slow Operations
//
// Settle waits for awaits and sleeps, so a component blocked on a gate
// channel the test controls keeps Settle from returning. Release the gate
// first, or use Wait to poll the document instead.
package vtest
