package vdom

import "fmt"

// Text creates a text node.
func Text(content string) *VNode {
	return &VNode{Kind: KindText, Text: content}
}

func Textf(format string, args ...any) *VNode {
	return Text(fmt.Sprintf(format, args...))
}

// Fragment groups children without a wrapper element. It accepts the same
// child arguments as an element factory.
func Fragment(children ...any) *VNode {
	node := &VNode{Kind: KindFragment}
	for _, c := range children {
		node.Children = appendChild(node.Children, c)
	}
	return node
}

// If returns node when cond holds and nil otherwise.
func If(cond bool, node *VNode) *VNode {
	if !cond {
		return nil
	}
	return node
}

// When calls build only when cond holds.
func When(cond bool, build func() *VNode) *VNode {
	if !cond {
		return nil
	}
	return build()
}

// Range maps items to nodes, dropping nil results. Give each node a Key
// when the list is reordered between renders.
func Range[T any](items []T, fn func(item T, index int) *VNode) []*VNode {
	out := make([]*VNode, 0, len(items))
	for i, item := range items {
		if n := fn(item, i); n != nil {
			out = append(out, n)
		}
	}
	return out
}
