/*
Package domdbg implements helpers to debug an editable tree.

Outline renders a tree as indented text, suitable for test logs.
ToGraphViz renders it as a GraphViz diagram, including the inline styles
of elements.

______________________________________________________________________

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>


*/
package domdbg

import (
	"fmt"
	"io"
	"strings"
	"text/template"

	"github.com/npillmayer/wysiwyg/dom/style"
	"github.com/npillmayer/wysiwyg/dom/style/css"
	"github.com/npillmayer/wysiwyg/dom/style/douceuradapter"
	tp "github.com/xlab/treeprint"
	"golang.org/x/net/html"
)

// Outline returns an indented text rendering of the tree below n. Elements
// are prefixed with a symbol for their display mode and show their inline
// styles; text nodes are quoted.
func Outline(n *html.Node) string {
	p := tp.New()
	p.SetValue(label(n))
	outline(p, n)
	return p.String()
}

func outline(p tp.Tree, n *html.Node) {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.FirstChild == nil {
			p.AddNode(label(c))
			continue
		}
		outline(p.AddBranch(label(c)), c)
	}
}

func label(n *html.Node) string {
	switch n.Type {
	case html.TextNode:
		return fmt.Sprintf("%q", n.Data)
	case html.ElementNode:
		pmap := douceuradapter.StyleOf(n)
		disp := css.Display(n, pmap)
		if pmap.Empty() {
			return fmt.Sprintf("%s <%s>", disp.Symbol(), n.Data)
		}
		return fmt.Sprintf("%s <%s> {%s}", disp.Symbol(), n.Data, pmap.Inline())
	case html.CommentNode:
		return "<!--" + n.Data + "-->"
	}
	return "#node"
}

// Parameters for GraphViz drawing.
type graphParamsType struct {
	Fontname       string
	StyleGroups    []string
	NodeTmpl       *template.Template
	EdgeTmpl       *template.Template
	StylegroupTmpl *template.Template
	PgedgeTmpl     *template.Template
	PgpgTmpl       *template.Template
}

var defaultGroups = []string{
	style.PGFont,
	style.PGText,
	style.PGColor,
	style.PGDisplay,
}

// ToGraphViz outputs a diagram for an editable tree. The diagram is in
// GraphViz (DOT) format. Clients have to provide the root node of
// the tree, a Writer, and an optional list of style parameter groups.
// The diagram will include all inline styles belonging to one of the
// parameter groups.
//
// If the client does not provide a list of style groups, the following
// default will be used:
//
//     - Font
//     - Text
//     - Color
//     - Display
//
func ToGraphViz(root *html.Node, w io.Writer, styleGroups []string) error {
	tmpl, err := template.New("dom").Parse(graphHeadTmpl)
	if err != nil {
		return err
	}
	gparams := graphParamsType{Fontname: "Helvetica"}
	gparams.NodeTmpl = template.Must(template.New("domnode").Funcs(
		template.FuncMap{
			"shortstring": shortText,
		}).Parse(domNodeTmpl))
	gparams.EdgeTmpl = template.Must(template.New("domedge").Parse(domEdgeTmpl))
	gparams.StylegroupTmpl = template.Must(template.New("stylegroup").Parse(styleGroupTmpl))
	gparams.PgedgeTmpl = template.Must(template.New("pgedge").Parse(pgEdgeTmpl))
	gparams.PgpgTmpl = template.Must(template.New("pgpgedge").Parse(pgpgEdgeTmpl))
	gparams.StyleGroups = styleGroups
	if styleGroups == nil {
		gparams.StyleGroups = defaultGroups
	}
	if err = tmpl.Execute(w, gparams); err != nil {
		return err
	}
	dict := make(map[*html.Node]string, 256)
	if err = nodes(root, w, dict, &gparams); err != nil {
		return err
	}
	_, err = w.Write([]byte("}\n"))
	return err
}

type node struct {
	N    *html.Node
	Name string
}

func (n node) IsText() bool {
	return n.N.Type == html.TextNode
}

func (n node) Label() string {
	if n.N.Type == html.ElementNode {
		return n.N.Data
	}
	return "#node"
}

func nodes(n *html.Node, w io.Writer, dict map[*html.Node]string, gparams *graphParamsType) error {
	if err := domNode(n, w, dict, gparams); err != nil {
		return err
	}
	for ch := n.FirstChild; ch != nil; ch = ch.NextSibling {
		if err := nodes(ch, w, dict, gparams); err != nil {
			return err
		}
		if err := domEdge(n, ch, w, dict, gparams); err != nil {
			return err
		}
	}
	return nil
}

func domNode(n *html.Node, w io.Writer, dict map[*html.Node]string, gparams *graphParamsType) error {
	name := dict[n]
	if name == "" {
		l := len(dict) + 1
		name = fmt.Sprintf("node%05d", l)
		dict[n] = name
	}
	if err := gparams.NodeTmpl.Execute(w, node{n, name}); err != nil {
		return err
	}
	return domStyles(n, w, dict, gparams)
}

func domStyles(n *html.Node, w io.Writer, dict map[*html.Node]string, gparams *graphParamsType) error {
	if n.Type != html.ElementNode {
		return nil
	}
	pmap := douceuradapter.StyleOf(n)
	var prev *style.PropertyGroup
	for _, s := range gparams.StyleGroups {
		pg := pmap.Group(s)
		if pg == nil {
			continue
		}
		if err := gparams.StylegroupTmpl.Execute(w, pg); err != nil {
			return err
		}
		var err error
		if prev == nil {
			err = gparams.PgedgeTmpl.Execute(w, pgedge{dict[n], pg})
		} else {
			err = gparams.PgpgTmpl.Execute(w, []*style.PropertyGroup{prev, pg})
		}
		if err != nil {
			return err
		}
		prev = pg
	}
	return nil
}

type edge struct {
	N1, N2 node
}

func domEdge(n1 *html.Node, n2 *html.Node, w io.Writer, dict map[*html.Node]string,
	gparams *graphParamsType) error {
	//
	e := edge{node{n1, dict[n1]}, node{n2, dict[n2]}}
	return gparams.EdgeTmpl.Execute(w, e)
}

type pgedge struct {
	Name      string
	PropGroup *style.PropertyGroup
}

func shortText(n node) string {
	data := n.N.Data
	s := "\"\\\""
	if len(data) > 10 {
		s += data[:10] + "...\\\"\""
	} else {
		s += data + "\\\"\""
	}
	s = strings.Replace(s, "\n", `\\n`, -1)
	s = strings.Replace(s, "\t", `\\t`, -1)
	s = strings.Replace(s, " ", "\u2423", -1)
	return s
}

// --- Templates --------------------------------------------------------

const graphHeadTmpl = `digraph g {
  graph [labelloc="t" label="" splines=true overlap=false rankdir = "LR"];
  graph [{{ .Fontname }} = "helvetica" fontsize=14] ;
   node [fontname = "{{ .Fontname }}" fontsize=14] ;
   edge [fontname = "{{ .Fontname }}" fontsize=14] ;
`

const domNodeTmpl = `{{ if .IsText }}
{{ .Name }}	[ label={{ shortstring . }} shape=box style=filled fillcolor=grey95 fontname="Courier" fontsize=11.0 ] ;
{{ else }}
{{ .Name }}	[ label={{ printf "%q" .Label }} shape=ellipse style=filled fillcolor=lightblue3 ] ;
{{ end }}
`

const styleGroupTmpl = `{{ printf "pg%p" . }} [ style="filled" penwidth=1 fillcolor="ivory3" shape="Mrecord" fontsize=12
    label=<<table border="0" cellborder="0" cellpadding="2" cellspacing="0" bgcolor="ivory3">
      <tr><td bgcolor="azure4" align="center" colspan="2"><font color="white">{{ .Name }}</font></td></tr>
      {{ range .Properties }}
      <tr><td align="right">{{ .Key }}:</td><td>{{ .Value }}</td></tr>
      {{ else }}
      <tr><td colspan="2">no styles</td></tr>
      {{ end }}
    </table>> ] ;
`

//const domEdgeTmpl = `{{ .N1.Name }} -> {{ .N2.Name }} [dir=none weight=1] ;
const domEdgeTmpl = `{{ .N1.Name }} -> {{ .N2.Name }} [weight=1] ;
`

const pgEdgeTmpl = `{{ .Name }} -> {{ printf "pg%p" .PropGroup }} [dir=none weight=1 style="dashed"] ;
`

const pgpgEdgeTmpl = `{{ index . 0 | printf "pg%p"  }} -> {{ index . 1 | printf "pg%p" }} [dir=none weight=1 style="dashed"] ;
`
