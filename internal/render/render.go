// Package render turns a model.Graph into a self-contained HTML document that
// draws an interactive, directed network diagram with vis-network.
//
// The document is written straight to an io.Writer: an HTTP response, or a
// file the terminal shell asks for. No temporary files are involved.
package render

import (
	_ "embed"
	"fmt"
	"html/template"
	"io"

	"github.com/sakif/itemgraph/internal/model"
)

//go:embed diagram.html
var diagramSource string

// Parsed once at package init; template.Must panics on a syntax error, which
// would be a bug in diagram.html caught by the first test run.
var diagramTmpl = template.Must(template.New("diagram").Parse(diagramSource))

// DefaultScriptURL is the vis-network standalone build loaded by the document.
const DefaultScriptURL = "https://unpkg.com/vis-network@9.1.9/standalone/umd/vis-network.min.js"

// Options controls the look of the rendered document. Zero values fall back
// to the defaults used by the diagram page.
type Options struct {
	Title     string
	Height    string // CSS height of the canvas, e.g. "500px"
	ScriptURL string
}

func (o Options) withDefaults() Options {
	if o.Title == "" {
		o.Title = "Relationship Diagram"
	}
	if o.Height == "" {
		o.Height = "500px"
	}
	if o.ScriptURL == "" {
		o.ScriptURL = DefaultScriptURL
	}
	return o
}

// Diagram writes the HTML document for g to w.
//
// JSON INSIDE <script>:
// The template places .Graph inside a <script> block. html/template knows it
// is in a JavaScript context there and encodes the value as JSON, escaping
// "</script>" and friends. Item names typed by users can't break out of the
// script, so there's no manual json.Marshal + template.JS here.
func Diagram(w io.Writer, g *model.Graph, opts Options) error {
	if g == nil {
		g = &model.Graph{Nodes: []model.Node{}, Edges: []model.Edge{}}
	}
	opts = opts.withDefaults()

	data := struct {
		Options
		Graph *model.Graph
	}{opts, g}

	if err := diagramTmpl.Execute(w, data); err != nil {
		return fmt.Errorf("render: executing diagram template: %w", err)
	}
	return nil
}
