package page

import (
	"strings"

	"golang.org/x/net/html"
)

// Matcher reports whether an element node is wanted.
type Matcher func(n *html.Node) bool

// ByClass matches elements carrying class in their class attribute.
func ByClass(class string) Matcher {
	return func(n *html.Node) bool {
		return HasClass(n, class)
	}
}

// ByTagClass matches elements with the given tag name and class.
func ByTagClass(tag, class string) Matcher {
	return func(n *html.Node) bool {
		return n.Data == tag && HasClass(n, class)
	}
}

// FindAll returns every element below root, in document order, that m
// accepts. root itself is included when it matches.
func FindAll(root *html.Node, m Matcher) []*html.Node {
	var found []*html.Node

	var walk func(*html.Node)
	walk = func(node *html.Node) {
		if node.Type == html.ElementNode && m(node) {
			found = append(found, node)
		}
		for c := node.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}

	walk(root)
	return found
}

// FindFirst returns the first descendant of root accepted by m, or nil.
// root itself is not considered.
func FindFirst(root *html.Node, m Matcher) *html.Node {
	for c := root.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && m(c) {
			return c
		}
		if found := FindFirst(c, m); found != nil {
			return found
		}
	}
	return nil
}

// HasClass reports whether n's class attribute lists class.
func HasClass(n *html.Node, class string) bool {
	if n == nil || n.Type != html.ElementNode {
		return false
	}
	v, ok := Attr(n, "class")
	if !ok {
		return false
	}
	for _, c := range strings.Fields(v) {
		if c == class {
			return true
		}
	}
	return false
}

// Attr returns the value of attribute key on n and whether it is present.
func Attr(n *html.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

// SetAttr sets attribute key on n, adding it when missing.
func SetAttr(n *html.Node, key, val string) {
	for i, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			n.Attr[i].Val = val
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: val})
}

// RemoveAttr deletes attribute key from n.
func RemoveAttr(n *html.Node, key string) {
	attrs := n.Attr[:0]
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			continue
		}
		attrs = append(attrs, a)
	}
	n.Attr = attrs
}

// TextContent concatenates the text of every text node below n.
func TextContent(n *html.Node) string {
	var b strings.Builder

	var walk func(*html.Node)
	walk = func(node *html.Node) {
		if node.Type == html.TextNode {
			b.WriteString(node.Data)
		}
		for c := node.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}

	walk(n)
	return b.String()
}

// RemoveChildren detaches every child of n.
func RemoveChildren(n *html.Node) {
	for c := n.FirstChild; c != nil; c = n.FirstChild {
		n.RemoveChild(c)
	}
}

// ReplaceChildren replaces the children of n with nodes.
func ReplaceChildren(n *html.Node, nodes ...*html.Node) {
	RemoveChildren(n)
	for _, c := range nodes {
		n.AppendChild(c)
	}
}

// ElementChildren returns the element children of n.
func ElementChildren(n *html.Node) []*html.Node {
	var out []*html.Node
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode {
			out = append(out, c)
		}
	}
	return out
}
