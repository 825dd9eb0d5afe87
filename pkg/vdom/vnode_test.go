package vdom

import "testing"

type testComp string

func (c testComp) ComponentName() string { return string(c) }

func TestVKindString(t *testing.T) {
	tests := []struct {
		kind VKind
		want string
	}{
		{KindElement, "Element"},
		{KindText, "Text"},
		{KindFragment, "Fragment"},
		{KindComponent, "Component"},
		{VKind(255), "Unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := tt.kind.String(); got != tt.want {
				t.Errorf("VKind.String() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestVNodeName(t *testing.T) {
	tests := []struct {
		name string
		node *VNode
		want string
	}{
		{"nil", nil, "<nil>"},
		{"element", Div(), "div"},
		{"text", Text("x"), "#text"},
		{"fragment", Fragment(), "#fragment"},
		{"component", ComponentNode(testComp("Quote"), nil), "Quote"},
		{"bare component", &VNode{Kind: KindComponent}, "<component>"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.node.Name(); got != tt.want {
				t.Errorf("Name() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestComponentNode(t *testing.T) {
	props := map[string]string{"url": "/api"}
	node := ComponentNode(testComp("Quote"), props, Key("quote"), Class("ignored"))

	if node.Kind != KindComponent {
		t.Errorf("Kind = %v, want KindComponent", node.Kind)
	}
	if node.Key != "quote" {
		t.Errorf("Key = %q, want quote", node.Key)
	}
	if node.Args == nil {
		t.Error("Args should carry props")
	}
	if node.Props != nil {
		t.Error("component descriptors carry no element props")
	}
}

func TestWithKey(t *testing.T) {
	if got := Span().WithKey("k").Key; got != "k" {
		t.Errorf("WithKey = %q", got)
	}
	var nilNode *VNode
	if nilNode.WithKey("k") != nil {
		t.Error("WithKey on nil should return nil")
	}
}
