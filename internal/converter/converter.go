// Package converter drives the XDSL→code pipeline: parse a document into a
// diagram, then hand the diagram to a code generator.
package converter

import (
	"github.com/pgmkit/xdslconv/internal/codegen"
	"github.com/pgmkit/xdslconv/internal/model"
	"github.com/pgmkit/xdslconv/internal/xdsl"
)

// Placeholder is returned by GenerateCode before any document has been
// parsed successfully.
const Placeholder = "# nothing to convert"

// Converter holds at most one parsed diagram and a code generator. It is
// not safe for concurrent use; run one conversion per instance at a time.
type Converter struct {
	diagram   *model.Diagram
	generator codegen.Generator
}

// New creates a converter. A nil generator selects the pyAgrum default.
func New(gen codegen.Generator) *Converter {
	if gen == nil {
		gen = codegen.NewPyAgrum()
	}
	return &Converter{generator: gen}
}

// Parse reads and parses an XDSL file. On success the previous diagram, if
// any, is discarded entirely. Errors propagate from the parser unmodified
// and leave no partial model behind.
func (c *Converter) Parse(path string) error {
	d, err := xdsl.Parse(path)
	if err != nil {
		return err
	}
	c.diagram = d
	return nil
}

// ParseBytes is Parse for an in-memory document.
func (c *Converter) ParseBytes(data []byte) error {
	d, err := xdsl.ParseBytes(data)
	if err != nil {
		return err
	}
	c.diagram = d
	return nil
}

// Diagram returns the current diagram, or nil before the first parse.
func (c *Converter) Diagram() *model.Diagram {
	return c.diagram
}

// GenerateCode renders the current diagram as construction code. Before the
// first successful parse it returns Placeholder rather than an error.
func (c *Converter) GenerateCode() string {
	if c.diagram == nil {
		return Placeholder
	}
	return c.generator.Generate(c.diagram)
}
