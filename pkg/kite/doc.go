// Package kite is a runtime for UI components written as long-lived
// asynchronous functions.
//
// A component is a Func. Its body renders a tree of vdom descriptors, then
// suspends (awaiting an operation, a timer, or the next DOM event) and
// resumes to update what it rendered earlier, addressed by stable keys.
// There is no state container: the call stack is the state machine.
//
//	var Counter = kite.Define("Counter", func(c *kite.Context) error {
//	    n := 0
//	    if err := c.Render(
//	        vdom.Span(vdom.Key("n"), "0"),
//	        vdom.Button(vdom.Key("inc"), "+1"),
//	    ); err != nil {
//	        return err
//	    }
//	    btn, err := c.Element("inc")
//	    if err != nil {
//	        return err
//	    }
//	    for range c.WaitEvents(c.DomEvent("click", btn)).All() {
//	        n++
//	        if err := c.ReplaceChild("n", func() *vdom.VNode {
//	            return vdom.Span(vdom.Textf("%d", n))
//	        }); err != nil {
//	            return err
//	        }
//	    }
//	    return nil
//	})
//
//	host := kite.NewHost()
//	host.Mount(nil, Counter, nil)
//
// # Scheduling
//
// Every instance runs on its own goroutine but only executes while holding
// the host loop, a single lock standing in for the browser event loop. The
// loop is released only at suspension points: Await, Context.Sleep and
// Stream.Next. Render and ReplaceChild are therefore synchronous and atomic:
// nobody can observe the document between two statements of a component.
// Code outside a component reaches the document through Host.Do, Host.View
// and Host.Dispatch, which take the loop too.
//
// # Reconciliation
//
// Render replaces the whole region of the instance. A keyed descriptor whose
// key was already mounted with the same tag (or the same Definition) is
// updated in place, so listeners on the element survive. Everything else is
// torn down and created again. ReplaceChild always tears down and remounts.
//
// # Events
//
// WaitEvents merges DomEvent sources into one Stream. Native listeners push
// into an unbounded queue without blocking; the consumer pulls with Next or
// ranges over All. Leaving the loop, unmounting the target, or finishing the
// instance removes the listeners and drops undelivered events.
package kite
