// Package codegen turns a parsed influence diagram into construction code
// for a target probabilistic-graphical-model library.
package codegen

import "github.com/pgmkit/xdslconv/internal/model"

// Generator produces construction code for a diagram. Implementations must
// be pure functions of the diagram: no side effects, and byte-identical
// output for repeated calls on the same input.
type Generator interface {
	Generate(d *model.Diagram) string
}
