package kite

import (
	"github.com/vango-dev/kite/pkg/dom"
	"github.com/vango-dev/kite/pkg/vdom"
)

// entry is one mounted descriptor: an element, a text node, or a child
// instance.
type entry struct {
	key      string
	desc     *vdom.VNode
	node     dom.Node
	el       *dom.Element // element entries
	child    *Instance    // component entries
	children []*entry     // element entries
	parent   *entry       // nil at the top of the region
}

// mount is the render tree of one instance's region. Only the owning
// instance mutates it, always holding the host loop.
type mount struct {
	owner *Instance
	top   []*entry
	keys  map[string]*entry
}

func newMount(owner *Instance) *mount {
	return &mount{
		owner: owner,
		keys:  make(map[string]*entry),
	}
}

// render reconciles the region against nodes.
func (m *mount) render(nodes []*vdom.VNode) error {
	if err := m.validate(nodes); err != nil {
		return err
	}
	if key, dup := vdom.DuplicateKey(nodes...); dup {
		return duplicateKey(m.owner, key)
	}

	old := m.entries()
	prev := m.keys
	claimed := make(map[*entry]bool)

	m.keys = make(map[string]*entry, len(prev))
	m.top = m.reconcile(vdom.Flatten(nodes), nil, prev, claimed)

	for _, e := range old {
		if !claimed[e] {
			m.teardown(e)
		}
	}
	m.owner.region.ReplaceChildren(nodesOf(m.top)...)
	return nil
}

// replace tears the entry under key down and mounts build() in its place.
func (m *mount) replace(key string, build func() *vdom.VNode) error {
	old, ok := m.keys[key]
	if !ok {
		return missingKey(m.owner, key)
	}

	flat := vdom.Flatten([]*vdom.VNode{build()})
	if len(flat) != 1 {
		return invalidDescriptor("ReplaceChild(%q) needs exactly one descriptor, got %d", key, len(flat))
	}
	desc := flat[0]
	desc.Key = key
	if err := m.validate(flat); err != nil {
		return err
	}
	if dup, found := vdom.DuplicateKey(desc); found {
		return duplicateKey(m.owner, dup)
	}

	// Keys inside the replaced subtree are free for the new one to take.
	gone := subtree(old)
	leaving := make(map[*entry]bool, len(gone))
	for _, e := range gone {
		leaving[e] = true
	}
	if dup, found := m.collides(desc, leaving); found {
		return duplicateKey(m.owner, dup)
	}

	for _, e := range gone {
		if e.key != "" && m.keys[e.key] == e {
			delete(m.keys, e.key)
		}
		m.teardown(e)
	}

	next := m.create(desc, nil, map[*entry]bool{})
	next.key = key
	next.parent = old.parent
	m.keys[key] = next

	if p := old.node.Parent(); p != nil {
		p.ReplaceChild(next.node, old.node)
	}
	siblings := m.top
	if old.parent != nil {
		siblings = old.parent.children
	}
	for i, e := range siblings {
		if e == old {
			siblings[i] = next
			break
		}
	}
	return nil
}

// collides reports a key of desc's subtree that is already mounted outside
// the entries in leaving.
func (m *mount) collides(desc *vdom.VNode, leaving map[*entry]bool) (string, bool) {
	var walk func(n *vdom.VNode) (string, bool)
	walk = func(n *vdom.VNode) (string, bool) {
		if n == nil {
			return "", false
		}
		if n.Key != "" {
			if e, ok := m.keys[n.Key]; ok && !leaving[e] {
				return n.Key, true
			}
		}
		if n.Kind == vdom.KindComponent {
			return "", false
		}
		for _, c := range n.Children {
			if k, found := walk(c); found {
				return k, true
			}
		}
		return "", false
	}
	return walk(desc)
}

// reconcile builds the entries for descs under parent, reusing keyed entries
// from prev when their kind is compatible. Keys are registered in m.keys.
func (m *mount) reconcile(descs []*vdom.VNode, parent *entry, prev map[string]*entry, claimed map[*entry]bool) []*entry {
	out := make([]*entry, 0, len(descs))
	for _, d := range descs {
		var e *entry
		if d.Key != "" {
			if old, ok := prev[d.Key]; ok && !claimed[old] && compatible(old, d) {
				claimed[old] = true
				e = old
				m.update(e, d, prev, claimed)
			}
		}
		if e == nil {
			e = m.create(d, prev, claimed)
		}
		e.key = d.Key
		e.parent = parent
		if d.Key != "" {
			m.keys[d.Key] = e
		}
		out = append(out, e)
	}
	return out
}

// create mounts a fresh entry for d.
func (m *mount) create(d *vdom.VNode, prev map[string]*entry, claimed map[*entry]bool) *entry {
	h := m.owner.host
	e := &entry{desc: d}
	switch d.Kind {
	case vdom.KindText:
		e.node = h.doc.CreateText(d.Text)

	case vdom.KindElement:
		el := h.doc.CreateElement(d.Tag)
		applyProps(el, d.Props)
		e.el, e.node = el, el
		e.children = m.reconcile(vdom.Flatten(d.Children), e, prev, claimed)
		el.ReplaceChildren(nodesOf(e.children)...)

	case vdom.KindComponent:
		child := h.newInstance(m.owner, d.Comp.(*Definition), d.Args)
		e.child, e.node = child, child.region
		child.start()
	}
	return e
}

// update reuses e for d in place.
func (m *mount) update(e *entry, d *vdom.VNode, prev map[string]*entry, claimed map[*entry]bool) {
	e.desc = d
	switch d.Kind {
	case vdom.KindText:
		e.node.(*dom.Text).SetData(d.Text)

	case vdom.KindElement:
		e.el.ClearAttributes()
		applyProps(e.el, d.Props)
		e.children = m.reconcile(vdom.Flatten(d.Children), e, prev, claimed)
		e.el.ReplaceChildren(nodesOf(e.children)...)

	case vdom.KindComponent:
		e.child.props = d.Args
	}
}

// teardown releases what e itself owns. Descendant entries are torn down
// individually by the caller, since some of them may have been reused.
func (m *mount) teardown(e *entry) {
	if e.child != nil {
		e.child.unmount()
	}
	if e.el != nil {
		m.owner.host.releaseTarget(e.el)
	}
}

// clear tears every entry down and empties the region.
func (m *mount) clear() {
	for _, e := range m.entries() {
		m.teardown(e)
	}
	m.top = nil
	m.keys = make(map[string]*entry)
	m.owner.region.ReplaceChildren()
}

// entries returns every entry of the region in document order.
func (m *mount) entries() []*entry {
	var out []*entry
	for _, e := range m.top {
		out = append(out, subtree(e)...)
	}
	return out
}

// validate rejects descriptors the composition layer cannot mount.
func (m *mount) validate(nodes []*vdom.VNode) error {
	for _, n := range nodes {
		if n == nil {
			continue
		}
		switch n.Kind {
		case vdom.KindText:
		case vdom.KindElement:
			if n.Tag == "" {
				return invalidDescriptor("element without a tag in %s", m.owner.Name())
			}
			if err := m.validate(n.Children); err != nil {
				return err
			}
		case vdom.KindFragment:
			if err := m.validate(n.Children); err != nil {
				return err
			}
		case vdom.KindComponent:
			if def, ok := n.Comp.(*Definition); !ok || def == nil {
				return invalidDescriptor("component %s in %s was not created with kite.Define", n.Name(), m.owner.Name())
			}
		default:
			return invalidDescriptor("unknown descriptor kind %d in %s", n.Kind, m.owner.Name())
		}
	}
	return nil
}

func subtree(e *entry) []*entry {
	out := []*entry{e}
	for _, c := range e.children {
		out = append(out, subtree(c)...)
	}
	return out
}

func compatible(e *entry, d *vdom.VNode) bool {
	if e.desc.Kind != d.Kind {
		return false
	}
	switch d.Kind {
	case vdom.KindElement:
		return e.desc.Tag == d.Tag
	case vdom.KindComponent:
		return e.desc.Comp == d.Comp
	default:
		return true
	}
}

func nodesOf(entries []*entry) []dom.Node {
	out := make([]dom.Node, len(entries))
	for i, e := range entries {
		out[i] = e.node
	}
	return out
}

func applyProps(el *dom.Element, props vdom.Props) {
	for name, v := range props {
		s, present := vdom.FormatValue(v)
		if !present {
			continue
		}
		el.SetAttribute(name, s)
	}
}
