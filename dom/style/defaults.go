package style

import (
	"golang.org/x/net/html"
)

// DisplayPropertyForHTMLNode returns the default `display` CSS property for an HTML node.
func DisplayPropertyForHTMLNode(node *html.Node) Property {
	if node == nil {
		return "none"
	}
	if node.Type == html.DocumentNode {
		return "block"
	}
	if node.Type == html.TextNode {
		return "inline"
	}
	if node.Type != html.ElementNode {
		tracer().Debugf("cannot get display-property for non-element")
		return "none"
	}
	switch node.Data {
	case "head", "script", "style", "template":
		return "none"
	case "p":
		return "block-inline"
	case "li":
		return "list-item"
	case "table":
		return "table"
	case "html", "aside", "article", "blockquote", "body", "div", "footer",
		"h1", "h2", "h3", "h4", "h5", "h6", "header", "hr", "main", "nav",
		"ol", "pre", "section", "ul", "dl", "dd", "dt", "figure", "form":
		return "block"
	case "a", "abbr", "b", "bdi", "bdo", "br", "cite", "code", "del", "em",
		"font", "i", "img", "ins", "kbd", "mark", "q", "s", "samp", "small",
		"span", "strike", "strong", "sub", "sup", "time", "u", "var", "wbr":
		return "inline"
	}
	tracer().Infof("unknown HTML element %s/%d will be set to display: block",
		node.Data, node.Type)
	return "block"
}
