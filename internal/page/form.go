package page

import (
	"strings"

	"golang.org/x/net/html"
)

// clearable lists the input types whose value ResetForm empties.
var clearable = map[string]bool{
	"":       true,
	"text":   true,
	"email":  true,
	"url":    true,
	"search": true,
	"tel":    true,
}

// Field returns the input or textarea inside form named name.
func Field(form *html.Node, name string) *html.Node {
	return FindFirst(form, func(n *html.Node) bool {
		if n.Data != "input" && n.Data != "textarea" {
			return false
		}
		v, ok := Attr(n, "name")
		return ok && v == name
	})
}

// FieldValue returns the current value of the field named name. The second
// result is false when the form has no such field.
func FieldValue(form *html.Node, name string) (string, bool) {
	f := Field(form, name)
	if f == nil {
		return "", false
	}
	if f.Data == "textarea" {
		return TextContent(f), true
	}
	v, _ := Attr(f, "value")
	return v, true
}

// SetFieldValue sets the value of the field named name. It reports false
// when the form has no such field.
func SetFieldValue(form *html.Node, name, value string) bool {
	f := Field(form, name)
	if f == nil {
		return false
	}
	setValue(f, value)
	return true
}

// ResetForm empties every text-like input and textarea inside form.
func ResetForm(form *html.Node) {
	for _, f := range FindAll(form, func(n *html.Node) bool {
		return n.Data == "input" || n.Data == "textarea"
	}) {
		if f.Data == "input" {
			typ, _ := Attr(f, "type")
			if !clearable[strings.ToLower(typ)] {
				continue
			}
		}
		setValue(f, "")
	}
}

func setValue(f *html.Node, value string) {
	if f.Data == "textarea" {
		RemoveChildren(f)
		if value != "" {
			f.AppendChild(&html.Node{Type: html.TextNode, Data: value})
		}
		return
	}
	if value == "" {
		RemoveAttr(f, "value")
		return
	}
	SetAttr(f, "value", value)
}
