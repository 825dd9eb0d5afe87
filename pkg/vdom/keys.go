package vdom

// DuplicateKey walks the descriptors (descending into elements and
// fragments, not into component regions) and returns the first key that
// appears twice.
func DuplicateKey(nodes ...*VNode) (string, bool) {
	seen := make(map[string]struct{})
	var dup string
	var walk func(n *VNode) bool
	walk = func(n *VNode) bool {
		if n == nil {
			return true
		}
		if n.Key != "" {
			if _, ok := seen[n.Key]; ok {
				dup = n.Key
				return false
			}
			seen[n.Key] = struct{}{}
		}
		if n.Kind == KindComponent {
			return true
		}
		for _, c := range n.Children {
			if !walk(c) {
				return false
			}
		}
		return true
	}
	for _, n := range nodes {
		if !walk(n) {
			return dup, true
		}
	}
	return "", false
}

// Flatten expands fragments and drops nil descriptors, preserving order.
func Flatten(nodes []*VNode) []*VNode {
	out := make([]*VNode, 0, len(nodes))
	for _, n := range nodes {
		if n == nil {
			continue
		}
		if n.Kind == KindFragment {
			out = append(out, Flatten(n.Children)...)
			continue
		}
		out = append(out, n)
	}
	return out
}
