package codegen

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pgmkit/xdslconv/internal/model"
)

// PyAgrum emits Python code that rebuilds the diagram through the pyAgrum
// construction API. Node IDs are reused verbatim as Python identifiers; the
// source document is responsible for choosing IDs that are valid Python.
type PyAgrum struct{}

// NewPyAgrum returns the default pyAgrum generator.
func NewPyAgrum() *PyAgrum {
	return &PyAgrum{}
}

// Generate emits statements in a fixed order: preamble, chance nodes,
// decision nodes, arcs, CPT fills, then utility nodes with their fills.
func (g *PyAgrum) Generate(d *model.Diagram) string {
	var sb strings.Builder

	sb.WriteString("import pyAgrum as gum\n")
	sb.WriteString("\n")
	sb.WriteString("# Build the influence diagram\n")
	sb.WriteString("diag = gum.InfluenceDiagram()\n")
	sb.WriteString("\n")

	for _, n := range d.Nodes() {
		if n.Kind == model.KindChance {
			fmt.Fprintf(&sb, "%s = diag.addChanceNode(gum.LabelizedVariable('%s', '%s', %s))\n",
				n.ID, n.ID, n.ID, stateList(n.States))
		}
	}

	for _, n := range d.Nodes() {
		if n.Kind == model.KindDecision {
			fmt.Fprintf(&sb, "%s = diag.addDecisionNode(gum.LabelizedVariable('%s', '%s', %s))\n",
				n.ID, n.ID, n.ID, stateList(n.States))
		}
	}

	sb.WriteString("\n")
	for _, arc := range d.Arcs {
		fmt.Fprintf(&sb, "diag.addArc(%s, %s)\n", arc.Parent, arc.Child)
	}
	sb.WriteString("\n")

	for _, n := range d.Nodes() {
		if n.Kind != model.KindChance {
			continue
		}
		if probs := d.Probabilities[n.ID]; len(probs) > 0 {
			fmt.Fprintf(&sb, "diag.cpt(%s).fillWith(%s)\n", n.ID, floatList(probs))
		}
	}
	sb.WriteString("\n")

	for _, n := range d.Nodes() {
		if n.Kind != model.KindUtility {
			continue
		}
		fmt.Fprintf(&sb, "%s = diag.addUtilityNode(gum.LabelizedVariable('%s', '%s', 1))\n",
			n.ID, n.ID, n.ID)
		fmt.Fprintf(&sb, "diag.utility(%s).fillWith(%s)\n", n.ID, floatList(d.Utilities[n.ID]))
	}

	return sb.String()
}

// stateList renders state labels as a Python list of quoted strings.
func stateList(states []string) string {
	quoted := make([]string, len(states))
	for i, s := range states {
		quoted[i] = `"` + s + `"`
	}
	return "[" + strings.Join(quoted, ", ") + "]"
}

// floatList renders floats as a Python list literal.
func floatList(values []float64) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = strconv.FormatFloat(v, 'g', -1, 64)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
