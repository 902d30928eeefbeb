// Package xdsl parses the GeNIe XDSL influence-diagram dialect into a
// model.Diagram.
//
// Parsing is two-pass over the children of the "nodes" element: pass 1
// registers node records so pass 2 can resolve parent references regardless
// of declaration order. Several tolerances are deliberate contracts, not
// accidents: a child without an id attribute is skipped, a parents token
// naming an unknown node is skipped, and an unrecognized tag is ignored.
package xdsl

import (
	"strconv"
	"strings"

	"github.com/beevik/etree"

	"github.com/pgmkit/xdslconv/internal/model"
)

// Parse reads an XDSL file and builds the influence diagram it describes.
func Parse(path string) (*model.Diagram, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromFile(path); err != nil {
		return nil, &ParseError{Err: err}
	}
	return ParseDocument(doc)
}

// ParseBytes builds a diagram from an in-memory XDSL document.
func ParseBytes(data []byte) (*model.Diagram, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(data); err != nil {
		return nil, &ParseError{Err: err}
	}
	return ParseDocument(doc)
}

// ParseDocument builds a diagram from an already-parsed XML tree.
func ParseDocument(doc *etree.Document) (*model.Diagram, error) {
	nodes := doc.FindElement("//nodes")
	if nodes == nil {
		return nil, &StructureError{Element: "nodes"}
	}

	d := model.NewDiagram()

	for _, el := range nodes.ChildElements() {
		if err := createNode(d, el); err != nil {
			return nil, err
		}
	}

	for _, el := range nodes.ChildElements() {
		if err := addArcsAndTables(d, el); err != nil {
			return nil, err
		}
	}

	return d, nil
}

// createNode registers a single node record (pass 1). MAU elements never
// become nodes; they only contribute weights.
func createNode(d *model.Diagram, el *etree.Element) error {
	attr := el.SelectAttr("id")
	if attr == nil {
		return nil
	}

	var kind model.Kind
	switch el.Tag {
	case "cpt":
		kind = model.KindChance
	case "decision":
		kind = model.KindDecision
	case "utility":
		kind = model.KindUtility
	case "mau":
		return applyWeights(d, el)
	default:
		return nil
	}

	var states []string
	for _, st := range el.SelectElements("state") {
		states = append(states, st.SelectAttrValue("id", ""))
	}

	_, err := d.CreateNode(kind, attr.Value, states)
	return err
}

// applyWeights zips a MAU element's parents and weights lists positionally.
// The pairing truncates at the shorter list. A later MAU element replaces
// the weight table wholesale.
func applyWeights(d *model.Diagram, el *etree.Element) error {
	parentsEl := el.SelectElement("parents")
	weightsEl := el.SelectElement("weights")
	if parentsEl == nil || weightsEl == nil {
		return nil
	}

	parents := strings.Fields(parentsEl.Text())
	weights := strings.Fields(weightsEl.Text())

	table := make(map[string]float64)
	for i, parent := range parents {
		if i >= len(weights) {
			break
		}
		w, err := strconv.ParseFloat(weights[i], 64)
		if err != nil {
			return err
		}
		table[parent] = w
	}
	d.Weights = table
	return nil
}

// addArcsAndTables resolves parent references and populates probability and
// utility tables (pass 2).
func addArcsAndTables(d *model.Diagram, el *etree.Element) error {
	id := el.SelectAttrValue("id", "")
	if !d.Has(id) {
		return nil
	}

	if parentsEl := el.SelectElement("parents"); parentsEl != nil {
		for _, parent := range strings.Fields(parentsEl.Text()) {
			if d.Has(parent) {
				d.AddArc(parent, id)
			}
		}
	}

	switch el.Tag {
	case "cpt":
		probs, err := floatTokens(el.SelectElement("probabilities"))
		if err != nil {
			return err
		}
		if len(probs) > 0 {
			d.Probabilities[id] = probs
		}
	case "utility":
		utils, err := floatTokens(el.SelectElement("utilities"))
		if err != nil {
			return err
		}
		if len(utils) > 0 {
			weight := d.Weight(id)
			for i := range utils {
				utils[i] *= weight
			}
			d.Utilities[id] = utils
		}
	}

	return nil
}

// floatTokens parses an element's whitespace-separated text as floats.
// A nil element or empty text yields no tokens and no error.
func floatTokens(el *etree.Element) ([]float64, error) {
	if el == nil {
		return nil, nil
	}
	fields := strings.Fields(el.Text())
	if len(fields) == 0 {
		return nil, nil
	}
	values := make([]float64, len(fields))
	for i, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return nil, err
		}
		values[i] = v
	}
	return values, nil
}
