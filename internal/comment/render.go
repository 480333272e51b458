package comment

import (
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Placeholder messages shown in a comment list region.
const (
	EmptyMessage  = "No comments yet. Be the first to comment!"
	FailedMessage = "Failed to load comments. Please try again later."
)

// Block builds the markup for one comment:
//
//	<p><b>author</b><br> text</p>
//
// Author and text are held in text nodes, so they are always escaped when
// the tree is rendered and can never introduce elements of their own.
func Block(c Comment) *html.Node {
	p := element(atom.P)
	b := element(atom.B)
	b.AppendChild(text(c.Author))
	p.AppendChild(b)
	p.AppendChild(element(atom.Br))
	p.AppendChild(text(" " + c.Text))
	return p
}

// Blocks builds one block per comment, in order.
func Blocks(comments []Comment) []*html.Node {
	nodes := make([]*html.Node, 0, len(comments))
	for _, c := range comments {
		nodes = append(nodes, Block(c))
	}
	return nodes
}

// Placeholder builds a paragraph holding msg.
func Placeholder(msg string) *html.Node {
	p := element(atom.P)
	p.AppendChild(text(msg))
	return p
}

// IsPlaceholder reports whether n is a placeholder paragraph holding msg:
// a <p> whose only child is the text msg.
func IsPlaceholder(n *html.Node, msg string) bool {
	if n == nil || n.Type != html.ElementNode || n.DataAtom != atom.P {
		return false
	}
	c := n.FirstChild
	return c != nil && c.NextSibling == nil && c.Type == html.TextNode && c.Data == msg
}

func element(a atom.Atom) *html.Node {
	return &html.Node{Type: html.ElementNode, DataAtom: a, Data: a.String()}
}

func text(s string) *html.Node {
	return &html.Node{Type: html.TextNode, Data: s}
}
