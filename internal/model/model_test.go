package model

import (
	"errors"
	"testing"
)

func TestCreateNodeKinds(t *testing.T) {
	d := NewDiagram()

	h1, err := d.CreateNode(KindChance, "Weather", []string{"sun", "rain"})
	if err != nil {
		t.Fatalf("failed to create chance node: %v", err)
	}
	h2, err := d.CreateNode(KindDecision, "Umbrella", []string{"take", "leave"})
	if err != nil {
		t.Fatalf("failed to create decision node: %v", err)
	}
	if h1 == h2 {
		t.Errorf("expected distinct handles, got %d and %d", h1, h2)
	}

	nodes := d.Nodes()
	if len(nodes) != 2 {
		t.Fatalf("expected 2 nodes, got %d", len(nodes))
	}
	if nodes[0].ID != "Weather" || nodes[1].ID != "Umbrella" {
		t.Errorf("expected insertion order Weather, Umbrella; got %s, %s", nodes[0].ID, nodes[1].ID)
	}
}

func TestCreateUtilityNodeIgnoresStates(t *testing.T) {
	d := NewDiagram()

	_, err := d.CreateNode(KindUtility, "Payoff", []string{"ignored", "labels"})
	if err != nil {
		t.Fatalf("failed to create utility node: %v", err)
	}

	n := d.Node("Payoff")
	if n == nil {
		t.Fatal("expected Payoff to exist")
	}
	if len(n.States) != 0 {
		t.Errorf("expected utility node to have no states, got %v", n.States)
	}
}

func TestCreateNodeUnsupportedKind(t *testing.T) {
	d := NewDiagram()

	_, err := d.CreateNode(Kind("constraint"), "X", nil)
	var kindErr *UnsupportedKindError
	if !errors.As(err, &kindErr) {
		t.Fatalf("expected UnsupportedKindError, got %v", err)
	}
	if kindErr.Kind != "constraint" {
		t.Errorf("expected kind 'constraint' in error, got %q", kindErr.Kind)
	}
	if d.Has("X") {
		t.Error("rejected node must not be registered")
	}
}

func TestCreateNodeDuplicateID(t *testing.T) {
	d := NewDiagram()

	if _, err := d.CreateNode(KindChance, "A", []string{"x"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err := d.CreateNode(KindDecision, "A", []string{"y"})
	var dupErr *DuplicateNodeError
	if !errors.As(err, &dupErr) {
		t.Fatalf("expected DuplicateNodeError, got %v", err)
	}

	if d.Node("A").Kind != KindChance {
		t.Error("first registration must win")
	}
}

func TestAddArcKeepsDuplicates(t *testing.T) {
	d := NewDiagram()
	d.CreateNode(KindChance, "A", []string{"x"})
	d.CreateNode(KindChance, "B", []string{"x"})

	d.AddArc("A", "B")
	d.AddArc("A", "B")

	if len(d.Arcs) != 2 {
		t.Errorf("expected 2 arcs (no dedup), got %d", len(d.Arcs))
	}
}

func TestWeightDefault(t *testing.T) {
	d := NewDiagram()
	d.Weights["A"] = 2.5

	if w := d.Weight("A"); w != 2.5 {
		t.Errorf("expected 2.5, got %v", w)
	}
	if w := d.Weight("B"); w != 1.0 {
		t.Errorf("expected default 1.0, got %v", w)
	}
}
