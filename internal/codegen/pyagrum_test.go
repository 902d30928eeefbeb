package codegen

import (
	"strings"
	"testing"

	"github.com/pgmkit/xdslconv/internal/model"
)

func buildDiagram(t *testing.T) *model.Diagram {
	t.Helper()
	d := model.NewDiagram()
	if _, err := d.CreateNode(model.KindChance, "A", []string{"X", "Y"}); err != nil {
		t.Fatal(err)
	}
	if _, err := d.CreateNode(model.KindDecision, "B", []string{"yes", "no"}); err != nil {
		t.Fatal(err)
	}
	if _, err := d.CreateNode(model.KindUtility, "U", nil); err != nil {
		t.Fatal(err)
	}
	d.AddArc("B", "A")
	d.Probabilities["A"] = []float64{0.2, 0.8}
	d.Utilities["U"] = []float64{10, -5}
	return d
}

func TestGenerateDeterministic(t *testing.T) {
	d := buildDiagram(t)
	g := NewPyAgrum()

	first := g.Generate(d)
	second := g.Generate(d)
	if first != second {
		t.Error("expected byte-identical output for repeated generation")
	}
}

func TestGenerateEmissionOrder(t *testing.T) {
	d := buildDiagram(t)
	code := NewPyAgrum().Generate(d)

	statements := []string{
		"import pyAgrum as gum",
		"diag = gum.InfluenceDiagram()",
		`A = diag.addChanceNode(gum.LabelizedVariable('A', 'A', ["X", "Y"]))`,
		`B = diag.addDecisionNode(gum.LabelizedVariable('B', 'B', ["yes", "no"]))`,
		"diag.addArc(B, A)",
		"diag.cpt(A).fillWith([0.2, 0.8])",
		"U = diag.addUtilityNode(gum.LabelizedVariable('U', 'U', 1))",
		"diag.utility(U).fillWith([10, -5])",
	}

	pos := 0
	for _, stmt := range statements {
		idx := strings.Index(code[pos:], stmt)
		if idx < 0 {
			t.Fatalf("statement %q missing or out of order in:\n%s", stmt, code)
		}
		pos += idx + len(stmt)
	}
}

func TestGenerateStateCardinality(t *testing.T) {
	d := model.NewDiagram()
	d.CreateNode(model.KindChance, "Season", []string{"spring", "summer", "winter"})

	code := NewPyAgrum().Generate(d)

	want := `Season = diag.addChanceNode(gum.LabelizedVariable('Season', 'Season', ["spring", "summer", "winter"]))`
	if !strings.Contains(code, want) {
		t.Errorf("expected 3 quoted state labels in declaration order, got:\n%s", code)
	}
}

func TestGenerateSkipsEmptyProbabilityTable(t *testing.T) {
	d := model.NewDiagram()
	d.CreateNode(model.KindChance, "A", []string{"x"})

	code := NewPyAgrum().Generate(d)
	if strings.Contains(code, "diag.cpt(A)") {
		t.Error("chance node without probabilities must not get a fill statement")
	}
}

func TestGenerateUsesIDsVerbatim(t *testing.T) {
	d := model.NewDiagram()
	d.CreateNode(model.KindChance, "my_node_1", []string{"a"})

	code := NewPyAgrum().Generate(d)
	if !strings.Contains(code, "my_node_1 = diag.addChanceNode") {
		t.Errorf("expected node id reused verbatim as identifier, got:\n%s", code)
	}
}
